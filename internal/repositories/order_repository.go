package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmasil_backend/internal/models"

	"github.com/lib/pq"
)

// OrderRepository defines order and order line database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, paymentMethod *string, updatedAt time.Time) error
	UpdateOrderTotal(executor SQLExecutor, orderID int64, total float64, updatedAt time.Time) error
	DeleteOrder(executor SQLExecutor, orderID int64) error

	// OrderLine methods
	CreateLine(executor SQLExecutor, line *models.OrderLine) (int64, error)
	UpdateLineQuantity(executor SQLExecutor, lineID int64, quantity int, updatedAt time.Time) error
	DeleteLine(executor SQLExecutor, lineID int64) error
	DeleteLinesByOrderID(executor SQLExecutor, orderID int64) (int64, error)
	GetLinesByOrderID(orderID int64) ([]models.OrderLine, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (customer_id, employee_id, store_id, status, total_amount, payment_method, order_time,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if order.OrderTime.IsZero() {
		order.OrderTime = time.Now()
	}
	now := time.Now()

	err := executor.QueryRow(query,
		order.CustomerID, order.EmployeeID, order.StoreID, order.Status, order.TotalAmount,
		order.PaymentMethod, order.OrderTime, now, now,
	).Scan(&order.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating order (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	var customerName, employeeName, storeName sql.NullString
	query := `SELECT o.id, o.customer_id, o.employee_id, o.store_id, o.status, o.total_amount,
	                 o.payment_method, o.order_time, o.created_at, o.updated_at,
	                 c.name AS customer_name, e.name AS employee_name, s.name AS store_name
	          FROM orders o
	          LEFT JOIN customers c ON o.customer_id = c.id
	          LEFT JOIN employees e ON o.employee_id = e.id
	          LEFT JOIN stores s ON o.store_id = s.id
	          WHERE o.id = $1`
	err := r.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.CustomerID, &order.EmployeeID, &order.StoreID, &order.Status,
		&order.TotalAmount, &order.PaymentMethod, &order.OrderTime, &order.CreatedAt, &order.UpdatedAt,
		&customerName, &employeeName, &storeName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if customerName.Valid {
		name := customerName.String
		order.CustomerName = &name
	}
	if employeeName.Valid {
		name := employeeName.String
		order.EmployeeName = &name
	}
	if storeName.Valid {
		name := storeName.String
		order.StoreName = &name
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT o.id, o.customer_id, o.employee_id, o.store_id, o.status, o.total_amount,
               o.payment_method, o.order_time, o.created_at, o.updated_at,
               c.name AS customer_name, e.name AS employee_name, s.name AS store_name,
               COUNT(*) OVER() AS total_count
        FROM orders o
        LEFT JOIN customers c ON o.customer_id = c.id
        LEFT JOIN employees e ON o.employee_id = e.id
        LEFT JOIN stores s ON o.store_id = s.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("o.customer_id = $%d", argCounter))
		args = append(args, *filters.CustomerID)
		argCounter++
	}
	if filters.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("o.employee_id = $%d", argCounter))
		args = append(args, *filters.EmployeeID)
		argCounter++
	}
	if filters.StoreID != nil {
		conditions = append(conditions, fmt.Sprintf("o.store_id = $%d", argCounter))
		args = append(args, *filters.StoreID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("o.order_time BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.order_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, (filters.Page-1)*filters.PageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var customerName, employeeName, storeName sql.NullString

		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.EmployeeID, &o.StoreID, &o.Status, &o.TotalAmount,
			&o.PaymentMethod, &o.OrderTime, &o.CreatedAt, &o.UpdatedAt,
			&customerName, &employeeName, &storeName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		if customerName.Valid {
			name := customerName.String
			o.CustomerName = &name
		}
		if employeeName.Valid {
			name := employeeName.String
			o.EmployeeName = &name
		}
		if storeName.Valid {
			name := storeName.String
			o.StoreName = &name
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, paymentMethod *string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, payment_method = COALESCE($2, payment_method), updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, newStatus, paymentMethod, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderTotal(executor SQLExecutor, orderID int64, total float64, updatedAt time.Time) error {
	result, err := executor.Exec(
		`UPDATE orders SET total_amount = $1, updated_at = $2 WHERE id = $3`, total, updatedAt, orderID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order total for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) error {
	result, err := executor.Exec(`DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrderLine Methods ---

func (r *orderRepository) CreateLine(executor SQLExecutor, line *models.OrderLine) (int64, error) {
	query := `INSERT INTO order_lines (order_id, product_id, quantity, unit_price, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, now, now,
	).Scan(&line.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating order line (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order line: %v", ErrDatabaseError, err)
	}
	return line.ID, nil
}

func (r *orderRepository) UpdateLineQuantity(executor SQLExecutor, lineID int64, quantity int, updatedAt time.Time) error {
	result, err := executor.Exec(
		`UPDATE order_lines SET quantity = $1, updated_at = $2 WHERE id = $3`, quantity, updatedAt, lineID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order line ID %d: %v", ErrDatabaseError, lineID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteLine(executor SQLExecutor, lineID int64) error {
	result, err := executor.Exec(`DELETE FROM order_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("%w: deleting order line ID %d: %v", ErrDatabaseError, lineID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteLinesByOrderID(executor SQLExecutor, orderID int64) (int64, error) {
	result, err := executor.Exec(`DELETE FROM order_lines WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order lines for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order lines for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

func (r *orderRepository) GetLinesByOrderID(orderID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	query := `SELECT ol.id, ol.order_id, ol.product_id, ol.quantity, ol.unit_price,
	                 ol.created_at, ol.updated_at, p.name AS product_name
	          FROM order_lines ol
	          JOIN products p ON ol.product_id = p.id
	          WHERE ol.order_id = $1
	          ORDER BY ol.id`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order lines for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice,
			&line.CreatedAt, &line.UpdatedAt, &line.ProductName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning order line for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order line rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return lines, nil
}
