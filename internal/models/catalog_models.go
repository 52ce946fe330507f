package models

import "time"

// Supplier represents a product supplier. Tax IDs are unique across suppliers.
type Supplier struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	TaxID     string    `json:"tax_id" db:"tax_id" binding:"required"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a stocked product in a store.
// Stock never goes below zero; every stock change is mirrored by a StockMovement.
type Product struct {
	ID         int64     `json:"id" db:"id"`
	StoreID    *int64    `json:"store_id,omitempty" db:"store_id"`
	SupplierID *int64    `json:"supplier_id,omitempty" db:"supplier_id"`
	Name       string    `json:"name" db:"name" binding:"required"`
	Category   *string   `json:"category,omitempty" db:"category"`
	Price      float64   `json:"price" db:"price" binding:"required,gte=0"`
	Stock      int       `json:"stock" db:"stock"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	Supplier   *Supplier `json:"supplier,omitempty"`
}

// StockMovement records a single stock delta applied to a product.
type StockMovement struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id" binding:"required"`
	EmployeeID      *int64    `json:"employee_id,omitempty" db:"employee_id"`
	MovementType    string    `json:"movement_type" db:"movement_type"` // purchase, sale, adjustment, return_cancellation
	QuantityChanged int       `json:"quantity_changed" db:"quantity_changed"`
	Reason          *string   `json:"reason,omitempty" db:"reason"`
	MovementDate    time.Time `json:"movement_date" db:"movement_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
