package models

import "time"

// Ledger entry kinds.
const (
	LedgerKindIn  = "in"
	LedgerKindOut = "out"
)

// CashRegister represents a cash register in a store.
// Invariant: Balance = TotalIn - TotalOut and Balance >= 0.
type CashRegister struct {
	ID        int64     `json:"id" db:"id"`
	StoreID   *int64    `json:"store_id,omitempty" db:"store_id"`
	Balance   float64   `json:"balance" db:"balance"`
	TotalIn   float64   `json:"total_in" db:"total_in"`
	TotalOut  float64   `json:"total_out" db:"total_out"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LedgerEntry records a single signed cash movement against a register.
type LedgerEntry struct {
	ID         int64     `json:"id" db:"id"`
	RegisterID int64     `json:"register_id" db:"register_id"`
	Kind       string    `json:"kind" db:"kind"` // in or out
	Amount     float64   `json:"amount" db:"amount"`
	Reason     *string   `json:"reason,omitempty" db:"reason"`
	EntryTime  time.Time `json:"entry_time" db:"entry_time"`
}
