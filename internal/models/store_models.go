package models

import "time"

// Store represents a single pharmacy location.
type Store struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Address   string    `json:"address" db:"address" binding:"required"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Hours     string    `json:"hours" db:"hours" binding:"required"` // opening hours, never empty
	ManagerID *int64    `json:"manager_id,omitempty" db:"manager_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Manager   *Manager  `json:"manager,omitempty"` // joined manager details
}

// Manager represents a manager who may oversee several stores.
type Manager struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Role      string    `json:"role" db:"role"` // always "manager"
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Stores    []Store   `json:"stores,omitempty"` // stores assigned via store_managers
}
