package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrderState = errors.New("operation not valid for current order status")
	ErrEmptyOrder        = errors.New("order has no lines")
	ErrLineNotFound      = errors.New("order line not found")
)

// Order statuses. Finalized and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusFinalized = "finalized"
	StatusCancelled = "cancelled"
)

// --- DTOs ---

type CreateOrderLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	CustomerID *int64                   `json:"customer_id"`
	EmployeeID *int64                   `json:"employee_id"`
	StoreID    *int64                   `json:"store_id"`
	Lines      []CreateOrderLineRequest `json:"lines" binding:"dive"`
}

type AddLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type FinalizeOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// --- OrderService Interface ---

type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	AddLine(orderID int64, req AddLineRequest) (*models.Order, error)
	RemoveLine(orderID int64, productName string) (*models.Order, error)
	Finalize(orderID int64, req FinalizeOrderRequest) (*models.Order, error)
	Cancel(orderID int64) (*models.Order, error)
	DeleteOrder(orderID int64) error
	GetInvoice(orderID int64) (*Invoice, error)
}

type orderService struct {
	orderRepo    repositories.OrderRepository
	catalogRepo  repositories.CatalogRepository
	customerRepo repositories.CustomerRepository
	db           *sql.DB
	invoiceDir   string
}

// NewOrderService creates a new instance of OrderService. Invoices for
// finalized orders are written under invoiceDir.
func NewOrderService(
	or repositories.OrderRepository,
	cr repositories.CatalogRepository,
	cur repositories.CustomerRepository,
	db *sql.DB,
	invoiceDir string,
) OrderService {
	return &orderService{
		orderRepo:    or,
		catalogRepo:  cr,
		customerRepo: cur,
		db:           db,
		invoiceDir:   invoiceDir,
	}
}

// --- Pure lifecycle helpers ---

// orderTotal recomputes the order total from its lines. Totals are never
// accepted from callers.
func orderTotal(lines []models.OrderLine) float64 {
	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

// mergeLine appends a line, or merges the quantity into an existing line for
// the same product.
func mergeLine(lines []models.OrderLine, productID int64, productName string, quantity int, unitPrice float64) []models.OrderLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			return lines
		}
	}
	return append(lines, models.OrderLine{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
}

// removeLineByProduct drops the line for the named product, failing when no
// such line exists.
func removeLineByProduct(lines []models.OrderLine, productName string) ([]models.OrderLine, error) {
	for i := range lines {
		if lines[i].ProductName == productName {
			return append(lines[:i], lines[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLineNotFound, productName)
}

func isTerminalStatus(status string) bool {
	return status == StatusFinalized || status == StatusCancelled
}

// --- Method Implementations ---

// CreateOrder creates a pending order. Each line decrements stock and records
// a stock movement; everything runs in one transaction so a failing line
// leaves no partial state behind.
func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var lines []models.OrderLine
	for _, lineReq := range req.Lines {
		if lineReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d must be positive", ErrValidation, lineReq.ProductID)
		}
		product, err := s.catalogRepo.GetProductByID(lineReq.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, lineReq.ProductID)
			}
			return nil, fmt.Errorf("failed to fetch product %d: %w", lineReq.ProductID, err)
		}
		if product.Stock < lineReq.Quantity {
			return nil, fmt.Errorf("%w: %s (requested %d, available %d)",
				ErrInsufficientStock, product.Name, lineReq.Quantity, product.Stock)
		}
		lines = mergeLine(lines, product.ID, product.Name, lineReq.Quantity, product.Price)
	}

	order := models.Order{
		CustomerID:  req.CustomerID,
		EmployeeID:  req.EmployeeID,
		StoreID:     req.StoreID,
		Status:      StatusPending,
		TotalAmount: orderTotal(lines),
		OrderTime:   time.Now(),
	}
	if _, err := s.orderRepo.CreateOrder(tx, &order); err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		if _, err := s.orderRepo.CreateLine(tx, &lines[i]); err != nil {
			return nil, fmt.Errorf("failed to create order line (product %d): %w", lines[i].ProductID, err)
		}
		if err := s.takeStock(tx, lines[i].ProductID, lines[i].Quantity, order.EmployeeID, order.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return s.GetOrderByID(order.ID)
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	lines, err := s.orderRepo.GetLinesByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	order.Lines = lines
	return order, nil
}

// AddLine appends or merges a line on a pending order, decrements stock and
// recomputes the total.
func (s *orderService) AddLine(orderID int64, req AddLineRequest) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusPending {
		return nil, fmt.Errorf("%w: cannot add line to %s order", ErrInvalidOrderState, order.Status)
	}

	product, err := s.catalogRepo.GetProductByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, req.ProductID)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", req.ProductID, err)
	}
	if product.Stock < req.Quantity {
		return nil, fmt.Errorf("%w: %s (requested %d, available %d)",
			ErrInsufficientStock, product.Name, req.Quantity, product.Stock)
	}

	// Merge into an existing line for the same product, or insert a new one.
	merged := false
	for _, line := range order.Lines {
		if line.ProductID == req.ProductID {
			if err := s.orderRepo.UpdateLineQuantity(tx, line.ID, line.Quantity+req.Quantity, time.Now()); err != nil {
				return nil, fmt.Errorf("failed to merge order line: %w", err)
			}
			merged = true
			break
		}
	}
	if !merged {
		line := models.OrderLine{
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		}
		if _, err := s.orderRepo.CreateLine(tx, &line); err != nil {
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}
	}

	if err := s.takeStock(tx, product.ID, req.Quantity, order.EmployeeID, orderID); err != nil {
		return nil, err
	}

	newLines := mergeLine(order.Lines, product.ID, product.Name, req.Quantity, product.Price)
	if err := s.orderRepo.UpdateOrderTotal(tx, orderID, orderTotal(newLines), time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit line addition: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// RemoveLine drops the line for the named product from a pending order,
// returns its stock and recomputes the total.
func (s *orderService) RemoveLine(orderID int64, productName string) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusPending {
		return nil, fmt.Errorf("%w: cannot remove line from %s order", ErrInvalidOrderState, order.Status)
	}

	var removed *models.OrderLine
	for i := range order.Lines {
		if order.Lines[i].ProductName == productName {
			removed = &order.Lines[i]
			break
		}
	}
	if removed == nil {
		return nil, fmt.Errorf("%w: %s", ErrLineNotFound, productName)
	}

	if err := s.orderRepo.DeleteLine(tx, removed.ID); err != nil {
		return nil, fmt.Errorf("failed to delete order line: %w", err)
	}
	if err := s.returnStock(tx, removed.ProductID, removed.Quantity, order.EmployeeID, orderID); err != nil {
		return nil, err
	}

	remaining, err := removeLineByProduct(order.Lines, productName)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateOrderTotal(tx, orderID, orderTotal(remaining), time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit line removal: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// Finalize moves a pending, non-empty order to the finalized state, recording
// the payment method and crediting the customer's purchase history.
func (s *orderService) Finalize(orderID int64, req FinalizeOrderRequest) (*models.Order, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusPending {
		return nil, fmt.Errorf("%w: cannot finalize %s order", ErrInvalidOrderState, order.Status)
	}
	if len(order.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, StatusFinalized, &req.PaymentMethod, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to finalize order: %w", err)
	}

	if order.CustomerID != nil {
		customer, err := s.customerRepo.GetCustomerByID(*order.CustomerID)
		switch {
		case err == nil:
			customer.PurchaseHistory += order.TotalAmount
			customer.LoyaltyTier = LoyaltyTierFor(customer.PurchaseHistory)
			if err := s.customerRepo.UpdateCustomer(tx, customer); err != nil {
				return nil, fmt.Errorf("failed to update customer purchase history: %w", err)
			}
		case errors.Is(err, repositories.ErrNotFound):
			// the referenced customer no longer exists; finalize without crediting
		default:
			return nil, fmt.Errorf("failed to load customer %d for purchase credit: %w", *order.CustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit finalization: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// Cancel moves any non-terminal order to cancelled and returns its stock.
func (s *orderService) Cancel(orderID int64) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if isTerminalStatus(order.Status) {
		return nil, fmt.Errorf("%w: cannot cancel %s order", ErrInvalidOrderState, order.Status)
	}

	for _, line := range order.Lines {
		if err := s.returnStock(tx, line.ProductID, line.Quantity, order.EmployeeID, orderID); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, StatusCancelled, nil, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return s.GetOrderByID(orderID)
}

// DeleteOrder removes an order and its lines. Stock taken by a still-pending
// order is returned first.
func (s *orderService) DeleteOrder(orderID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	if order.Status == StatusPending {
		for _, line := range order.Lines {
			if err := s.returnStock(tx, line.ProductID, line.Quantity, order.EmployeeID, orderID); err != nil {
				return err
			}
		}
	}

	if _, err := s.orderRepo.DeleteLinesByOrderID(tx, orderID); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}
	if err := s.orderRepo.DeleteOrder(tx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return tx.Commit()
}

// GetInvoice renders the invoice for a finalized order and writes it next to
// any previously emitted copy. Rendering is deterministic, so the file can be
// regenerated byte-for-byte from the persisted order.
func (s *orderService) GetInvoice(orderID int64) (*Invoice, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != StatusFinalized {
		return nil, fmt.Errorf("%w: invoice requires a finalized order, got %s", ErrInvalidOrderState, order.Status)
	}

	invoice := RenderInvoice(order)
	if s.invoiceDir != "" {
		if err := invoice.Write(s.invoiceDir); err != nil {
			return nil, fmt.Errorf("failed to write invoice file: %w", err)
		}
	}
	return invoice, nil
}

// --- Stock helpers ---

func (s *orderService) takeStock(executor repositories.SQLExecutor, productID int64, quantity int, employeeID *int64, orderID int64) error {
	if _, err := s.catalogRepo.UpdateStock(executor, productID, -quantity); err != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)
	}
	reason := fmt.Sprintf("order %d", orderID)
	movement := models.StockMovement{
		ProductID:       productID,
		EmployeeID:      employeeID,
		MovementType:    MovementTypeSale,
		QuantityChanged: -quantity,
		Reason:          &reason,
	}
	if _, err := s.catalogRepo.CreateMovement(executor, &movement); err != nil {
		return fmt.Errorf("failed to record stock movement for product %d: %w", productID, err)
	}
	return nil
}

func (s *orderService) returnStock(executor repositories.SQLExecutor, productID int64, quantity int, employeeID *int64, orderID int64) error {
	if _, err := s.catalogRepo.UpdateStock(executor, productID, quantity); err != nil {
		return fmt.Errorf("failed to return stock for product %d: %w", productID, err)
	}
	reason := fmt.Sprintf("order %d line removed or cancelled", orderID)
	movement := models.StockMovement{
		ProductID:       productID,
		EmployeeID:      employeeID,
		MovementType:    MovementTypeReturnCancellation,
		QuantityChanged: quantity,
		Reason:          &reason,
	}
	if _, err := s.catalogRepo.CreateMovement(executor, &movement); err != nil {
		return fmt.Errorf("failed to record stock return for product %d: %w", productID, err)
	}
	return nil
}
