package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"
)

// noopDriver hands out connections whose transactions commit and roll back
// without a database, so service transaction flow can run under test.
type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

func init() { sql.Register("noop", noopDriver{}) }

func newNoopDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("noop", "")
	require.NoError(t, err)
	return db
}

// stubOrderRepo serves a single in-memory order. Unused interface methods
// come from the embedded interface and panic if reached.
type stubOrderRepo struct {
	repositories.OrderRepository
	order         models.Order
	lines         []models.OrderLine
	statusUpdates int
}

func (s *stubOrderRepo) GetOrderByID(int64) (*models.Order, error) {
	order := s.order
	return &order, nil
}

func (s *stubOrderRepo) GetLinesByOrderID(int64) ([]models.OrderLine, error) {
	return s.lines, nil
}

func (s *stubOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, _ int64, status string, _ *string, _ time.Time) error {
	s.statusUpdates++
	s.order.Status = status
	return nil
}

type stubCustomerRepo struct {
	repositories.CustomerRepository
	getErr error
}

func (s *stubCustomerRepo) GetCustomerByID(customerID int64) (*models.Customer, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Customer{ID: customerID, LoyaltyTier: models.TierBronze}, nil
}

func (s *stubCustomerRepo) UpdateCustomer(repositories.SQLExecutor, *models.Customer) error {
	return nil
}

func sampleLines() []models.OrderLine {
	return []models.OrderLine{
		{ProductID: 1, ProductName: "Widget", Quantity: 2, UnitPrice: 10.0},
		{ProductID: 2, ProductName: "Gadget", Quantity: 1, UnitPrice: 5.0},
	}
}

func TestOrderTotal(t *testing.T) {
	assert.InDelta(t, 25.0, orderTotal(sampleLines()), 1e-9)
	assert.Equal(t, 0.0, orderTotal(nil))
}

func TestOrderTotalAfterRemovingLine(t *testing.T) {
	remaining, err := removeLineByProduct(sampleLines(), "Widget")

	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Gadget", remaining[0].ProductName)
	assert.InDelta(t, 5.0, orderTotal(remaining), 1e-9)
}

func TestRemoveLineByProductUnknownName(t *testing.T) {
	_, err := removeLineByProduct(sampleLines(), "Sprocket")

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestMergeLineAppendsNewProduct(t *testing.T) {
	lines := mergeLine(sampleLines(), 3, "Sprocket", 4, 2.5)

	require.Len(t, lines, 3)
	assert.Equal(t, "Sprocket", lines[2].ProductName)
	assert.InDelta(t, 35.0, orderTotal(lines), 1e-9)
}

func TestMergeLineAccumulatesSameProduct(t *testing.T) {
	lines := mergeLine(sampleLines(), 1, "Widget", 3, 10.0)

	require.Len(t, lines, 2)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.InDelta(t, 55.0, orderTotal(lines), 1e-9)
}

func TestIsTerminalStatus(t *testing.T) {
	assert.False(t, isTerminalStatus(StatusPending))
	assert.True(t, isTerminalStatus(StatusFinalized))
	assert.True(t, isTerminalStatus(StatusCancelled))
}

func TestFinalizeEmptyOrderLeavesStatusPending(t *testing.T) {
	repo := &stubOrderRepo{order: models.Order{ID: 1, Status: StatusPending}}
	svc := NewOrderService(repo, nil, nil, nil, "")

	_, err := svc.Finalize(1, FinalizeOrderRequest{PaymentMethod: "cash"})

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Zero(t, repo.statusUpdates)
	assert.Equal(t, StatusPending, repo.order.Status)
}

func TestFinalizeRejectsTerminalOrder(t *testing.T) {
	for _, status := range []string{StatusFinalized, StatusCancelled} {
		repo := &stubOrderRepo{order: models.Order{ID: 1, Status: status}, lines: sampleLines()}
		svc := NewOrderService(repo, nil, nil, nil, "")

		_, err := svc.Finalize(1, FinalizeOrderRequest{PaymentMethod: "cash"})

		assert.ErrorIs(t, err, ErrInvalidOrderState)
		assert.Zero(t, repo.statusUpdates)
	}
}

func TestFinalizeCreditsCustomerAndSetsStatus(t *testing.T) {
	customerID := int64(5)
	repo := &stubOrderRepo{
		order: models.Order{ID: 1, Status: StatusPending, CustomerID: &customerID, TotalAmount: 25},
		lines: sampleLines(),
	}
	svc := NewOrderService(repo, nil, &stubCustomerRepo{}, newNoopDB(t), "")

	order, err := svc.Finalize(1, FinalizeOrderRequest{PaymentMethod: "cash"})

	require.NoError(t, err)
	assert.Equal(t, StatusFinalized, order.Status)
	assert.Equal(t, 1, repo.statusUpdates)
}

// A deleted customer must not block finalization.
func TestFinalizeSkipsCreditForMissingCustomer(t *testing.T) {
	customerID := int64(5)
	repo := &stubOrderRepo{
		order: models.Order{ID: 1, Status: StatusPending, CustomerID: &customerID, TotalAmount: 25},
		lines: sampleLines(),
	}
	svc := NewOrderService(repo, nil, &stubCustomerRepo{getErr: repositories.ErrNotFound}, newNoopDB(t), "")

	order, err := svc.Finalize(1, FinalizeOrderRequest{PaymentMethod: "cash"})

	require.NoError(t, err)
	assert.Equal(t, StatusFinalized, order.Status)
}

// A failing customer lookup is a real error, not a silent skip.
func TestFinalizeFailsOnCustomerLookupError(t *testing.T) {
	customerID := int64(5)
	repo := &stubOrderRepo{
		order: models.Order{ID: 1, Status: StatusPending, CustomerID: &customerID, TotalAmount: 25},
		lines: sampleLines(),
	}
	svc := NewOrderService(repo, nil, &stubCustomerRepo{getErr: repositories.ErrDatabaseError}, newNoopDB(t), "")

	_, err := svc.Finalize(1, FinalizeOrderRequest{PaymentMethod: "cash"})

	assert.ErrorIs(t, err, repositories.ErrDatabaseError)
}

func TestInvoiceNumberIsDeterministic(t *testing.T) {
	assert.Equal(t, InvoiceNumber(42), InvoiceNumber(42))
	assert.NotEqual(t, InvoiceNumber(42), InvoiceNumber(43))
}

func TestRenderInvoiceIsDeterministic(t *testing.T) {
	customer := "Jordan Reyes"
	store := "Farmasil Central"
	payment := "card"
	order := &models.Order{
		ID:            42,
		Status:        StatusFinalized,
		TotalAmount:   25.0,
		PaymentMethod: &payment,
		OrderTime:     time.Date(2026, 8, 12, 14, 30, 0, 0, time.UTC),
		CustomerName:  &customer,
		StoreName:     &store,
		Lines:         sampleLines(),
	}

	first := RenderInvoice(order)
	second := RenderInvoice(order)

	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, first.Number, second.Number)
	assert.Contains(t, first.Document, "Widget")
	assert.Contains(t, first.Document, "Jordan Reyes")
	assert.Contains(t, first.Document, "25.00")
	assert.Contains(t, first.Document, "card")
}

func TestRenderInvoiceWalkInCustomer(t *testing.T) {
	order := &models.Order{
		ID:          7,
		Status:      StatusFinalized,
		TotalAmount: 5.0,
		OrderTime:   time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
		Lines:       sampleLines()[1:],
	}

	invoice := RenderInvoice(order)

	assert.Contains(t, invoice.Document, "walk-in")
}

func TestInvoiceWrite(t *testing.T) {
	dir := t.TempDir()
	order := &models.Order{
		ID:          9,
		Status:      StatusFinalized,
		TotalAmount: 25.0,
		OrderTime:   time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
		Lines:       sampleLines(),
	}

	invoice := RenderInvoice(order)
	require.NoError(t, invoice.Write(dir))

	assert.FileExists(t, dir+"/invoice_9.txt")
}
