package models

import "time"

// Loyalty tiers ordered bronze < silver < gold.
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Customer represents a pharmacy customer. National IDs are unique.
type Customer struct {
	ID              int64        `json:"id" db:"id"`
	Name            string       `json:"name" db:"name" binding:"required"`
	NationalID      string       `json:"national_id" db:"national_id" binding:"required"`
	Phone           *string      `json:"phone,omitempty" db:"phone"`
	Email           *string      `json:"email,omitempty" db:"email"`
	Address         *string      `json:"address,omitempty" db:"address"`
	PurchaseHistory float64      `json:"purchase_history" db:"purchase_history"` // cumulative purchase value
	LoyaltyTier     string       `json:"loyalty_tier" db:"loyalty_tier"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
	LoyaltyCard     *LoyaltyCard `json:"loyalty_card,omitempty"`
}

// LoyaltyCard represents a loyalty card issued to a customer.
type LoyaltyCard struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id" binding:"required"`
	Name       string    `json:"name" db:"name" binding:"required"`
	Discount   *string   `json:"discount,omitempty" db:"discount"` // free-form discount description
	Benefits   *string   `json:"benefits,omitempty" db:"benefits"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
