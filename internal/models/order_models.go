package models

import "time"

// Order represents a customer order with its lines.
// The total is always recomputed from the lines, never accepted from input.
type Order struct {
	ID            int64       `json:"id" db:"id"`
	CustomerID    *int64      `json:"customer_id,omitempty" db:"customer_id"`
	EmployeeID    *int64      `json:"employee_id,omitempty" db:"employee_id"`
	StoreID       *int64      `json:"store_id,omitempty" db:"store_id"`
	Status        string      `json:"status" db:"status"`
	TotalAmount   float64     `json:"total_amount" db:"total_amount"`
	PaymentMethod *string     `json:"payment_method,omitempty" db:"payment_method"`
	OrderTime     time.Time   `json:"order_time" db:"order_time"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
	Lines         []OrderLine `json:"lines"`
	CustomerName  *string     `json:"customer_name,omitempty"` // joined
	EmployeeName  *string     `json:"employee_name,omitempty"` // joined
	StoreName     *string     `json:"store_name,omitempty"`    // joined
}

// OrderLine is a (product, quantity, unit price) triple within an order.
type OrderLine struct {
	ID          int64     `json:"id" db:"id"`
	OrderID     int64     `json:"order_id" db:"order_id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name"` // joined from products
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	CustomerID *int64  `form:"customer_id"`
	EmployeeID *int64  `form:"employee_id"`
	StoreID    *int64  `form:"store_id"`
	Status     *string `form:"status"`
	Date       *string `form:"date"` // YYYY-MM-DD
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}
