package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"

	"farmasil_backend/pkg/utils"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrLoyaltyCardNotFound = errors.New("loyalty card not found")
	ErrNationalIDExists    = errors.New("national ID already exists")
)

// Loyalty thresholds on cumulative purchase value.
const (
	goldThreshold   = 1000.0
	silverThreshold = 500.0
)

// Tier discounts applied multiplicatively.
const (
	goldDiscount   = 0.15
	silverDiscount = 0.10
	bronzeDiscount = 0.05
)

// --- DTOs ---

type CreateCustomerRequest struct {
	Name       string  `json:"name" binding:"required"`
	NationalID string  `json:"national_id" binding:"required"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
}

// UpdateCustomerRequest is a per-field patch; nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name       *string `json:"name"`
	NationalID *string `json:"national_id"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
}

type RecordPurchaseRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

type CreateLoyaltyCardRequest struct {
	Name     string  `json:"name" binding:"required"`
	Discount *string `json:"discount"`
	Benefits *string `json:"benefits"`
}

type UpdateLoyaltyCardRequest struct {
	Name     *string `json:"name"`
	Discount *string `json:"discount"`
	Benefits *string `json:"benefits"`
}

type DiscountQuote struct {
	CustomerID       int64   `json:"customer_id"`
	LoyaltyTier      string  `json:"loyalty_tier"`
	OriginalAmount   float64 `json:"original_amount"`
	DiscountedAmount float64 `json:"discounted_amount"`
}

// --- CustomerService Interface ---

type CustomerService interface {
	CreateCustomer(req CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByID(customerID int64) (*models.Customer, error)
	GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error)
	UpdateCustomer(customerID int64, req UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(customerID int64) error
	RecordPurchase(customerID int64, req RecordPurchaseRequest) (*models.Customer, error)
	QuoteDiscount(customerID int64, amount float64) (*DiscountQuote, error)

	CreateLoyaltyCard(customerID int64, req CreateLoyaltyCardRequest) (*models.LoyaltyCard, error)
	GetLoyaltyCard(customerID int64) (*models.LoyaltyCard, error)
	UpdateLoyaltyCard(customerID int64, req UpdateLoyaltyCardRequest) (*models.LoyaltyCard, error)
	DeleteLoyaltyCard(cardID int64) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: repo, db: db}
}

// LoyaltyTierFor derives the loyalty tier from cumulative purchase history.
// The mapping is monotonic: more history never yields a lower tier.
func LoyaltyTierFor(purchaseHistory float64) string {
	switch {
	case purchaseHistory >= goldThreshold:
		return models.TierGold
	case purchaseHistory >= silverThreshold:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

// DiscountedAmount applies the tier discount to an amount.
func DiscountedAmount(tier string, amount float64) float64 {
	switch tier {
	case models.TierGold:
		return amount * (1 - goldDiscount)
	case models.TierSilver:
		return amount * (1 - silverDiscount)
	default:
		return amount * (1 - bronzeDiscount)
	}
}

// --- Method Implementations ---

func (s *customerService) CreateCustomer(req CreateCustomerRequest) (*models.Customer, error) {
	if req.Email != nil && *req.Email != "" && !utils.IsValidEmail(*req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrValidation)
	}
	if utils.IsEmpty(req.NationalID) {
		return nil, fmt.Errorf("%w: national ID cannot be empty", ErrValidation)
	}

	customer := models.Customer{
		Name:        req.Name,
		NationalID:  strings.TrimSpace(req.NationalID),
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		LoyaltyTier: models.TierBronze,
	}
	if _, err := s.customerRepo.CreateCustomer(s.db, &customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrNationalIDExists, customer.NationalID)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (s *customerService) GetCustomerByID(customerID int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if card, err := s.customerRepo.GetLoyaltyCardByCustomerID(customerID); err == nil {
		customer.LoyaltyCard = card
	}
	return customer, nil
}

func (s *customerService) GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error) {
	customers, totalCount, err := s.customerRepo.GetCustomers(page, pageSize, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, totalCount, nil
}

func (s *customerService) UpdateCustomer(customerID int64, req UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrValidation)
		}
		customer.Name = *req.Name
	}
	if req.NationalID != nil {
		if utils.IsEmpty(*req.NationalID) {
			return nil, fmt.Errorf("%w: national ID cannot be empty if provided", ErrValidation)
		}
		customer.NationalID = strings.TrimSpace(*req.NationalID)
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Email != nil {
		if *req.Email != "" && !utils.IsValidEmail(*req.Email) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrValidation)
		}
		customer.Email = req.Email
	}
	if req.Address != nil {
		customer.Address = req.Address
	}

	if err := s.customerRepo.UpdateCustomer(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrNationalIDExists, customer.NationalID)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(customerID int64) error {
	if err := s.customerRepo.DeleteCustomer(s.db, customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// RecordPurchase accumulates purchase history and re-derives the loyalty tier.
func (s *customerService) RecordPurchase(customerID int64, req RecordPurchaseRequest) (*models.Customer, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidAmount, req.Amount)
	}

	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}

	customer.PurchaseHistory += req.Amount
	customer.LoyaltyTier = LoyaltyTierFor(customer.PurchaseHistory)

	if err := s.customerRepo.UpdateCustomer(s.db, customer); err != nil {
		return nil, fmt.Errorf("failed to record purchase for customer %d: %w", customerID, err)
	}
	return customer, nil
}

func (s *customerService) QuoteDiscount(customerID int64, amount float64) (*DiscountQuote, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidAmount, amount)
	}
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	return &DiscountQuote{
		CustomerID:       customerID,
		LoyaltyTier:      customer.LoyaltyTier,
		OriginalAmount:   amount,
		DiscountedAmount: DiscountedAmount(customer.LoyaltyTier, amount),
	}, nil
}

// --- LoyaltyCard Methods ---

func (s *customerService) CreateLoyaltyCard(customerID int64, req CreateLoyaltyCardRequest) (*models.LoyaltyCard, error) {
	if _, err := s.GetCustomerByID(customerID); err != nil {
		return nil, err
	}
	card := models.LoyaltyCard{
		CustomerID: customerID,
		Name:       req.Name,
		Discount:   req.Discount,
		Benefits:   req.Benefits,
	}
	if _, err := s.customerRepo.CreateLoyaltyCard(s.db, &card); err != nil {
		return nil, fmt.Errorf("failed to create loyalty card: %w", err)
	}
	return &card, nil
}

func (s *customerService) GetLoyaltyCard(customerID int64) (*models.LoyaltyCard, error) {
	card, err := s.customerRepo.GetLoyaltyCardByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLoyaltyCardNotFound
		}
		return nil, fmt.Errorf("failed to get loyalty card: %w", err)
	}
	return card, nil
}

func (s *customerService) UpdateLoyaltyCard(customerID int64, req UpdateLoyaltyCardRequest) (*models.LoyaltyCard, error) {
	card, err := s.GetLoyaltyCard(customerID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.Discount != nil {
		card.Discount = req.Discount
	}
	if req.Benefits != nil {
		card.Benefits = req.Benefits
	}
	if err := s.customerRepo.UpdateLoyaltyCard(s.db, card); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLoyaltyCardNotFound
		}
		return nil, fmt.Errorf("failed to update loyalty card: %w", err)
	}
	return card, nil
}

func (s *customerService) DeleteLoyaltyCard(cardID int64) error {
	if err := s.customerRepo.DeleteLoyaltyCard(s.db, cardID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLoyaltyCardNotFound
		}
		return fmt.Errorf("failed to delete loyalty card: %w", err)
	}
	return nil
}
