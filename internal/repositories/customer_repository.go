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

// CustomerRepository defines customer and loyalty card database operations.
type CustomerRepository interface {
	// Customer methods
	CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error)
	GetCustomerByID(customerID int64) (*models.Customer, error)
	GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error)
	UpdateCustomer(executor SQLExecutor, customer *models.Customer) error
	DeleteCustomer(executor SQLExecutor, customerID int64) error

	// LoyaltyCard methods
	CreateLoyaltyCard(executor SQLExecutor, card *models.LoyaltyCard) (int64, error)
	GetLoyaltyCardByCustomerID(customerID int64) (*models.LoyaltyCard, error)
	UpdateLoyaltyCard(executor SQLExecutor, card *models.LoyaltyCard) error
	DeleteLoyaltyCard(executor SQLExecutor, cardID int64) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// --- Customer Methods ---

func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers
	            (name, national_id, phone, email, address, purchase_history, loyalty_tier, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		customer.Name, customer.NationalID, customer.Phone, customer.Email, customer.Address,
		customer.PurchaseHistory, customer.LoyaltyTier, now, now,
	).Scan(&customer.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: national ID '%s' already exists (constraint: %s)", ErrDuplicateKey, customer.NationalID, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.ID, nil
}

func (r *customerRepository) GetCustomerByID(customerID int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT id, name, national_id, phone, email, address, purchase_history, loyalty_tier,
	                 created_at, updated_at
	          FROM customers WHERE id = $1`
	err := r.db.QueryRow(query, customerID).Scan(
		&customer.ID, &customer.Name, &customer.NationalID, &customer.Phone, &customer.Email,
		&customer.Address, &customer.PurchaseHistory, &customer.LoyaltyTier,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by ID %d: %v", ErrDatabaseError, customerID, err)
	}
	return customer, nil
}

func (r *customerRepository) GetCustomers(page, pageSize int, searchTerm *string) ([]models.Customer, int, error) {
	customers := []models.Customer{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT id, name, national_id, phone, email, address, purchase_history, loyalty_tier,
               created_at, updated_at, COUNT(*) OVER() AS total_count
        FROM customers`)

	var args []interface{}
	argCounter := 1
	if searchTerm != nil && *searchTerm != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE name ILIKE $%d OR national_id ILIKE $%d", argCounter, argCounter))
		args = append(args, "%"+*searchTerm+"%")
		argCounter++
	}
	queryBuilder.WriteString(" ORDER BY name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.NationalID, &customer.Phone, &customer.Email,
			&customer.Address, &customer.PurchaseHistory, &customer.LoyaltyTier,
			&customer.CreatedAt, &customer.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, customer)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}
	return customers, totalCount, nil
}

func (r *customerRepository) UpdateCustomer(executor SQLExecutor, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, national_id = $2, phone = $3, email = $4, address = $5,
	                 purchase_history = $6, loyalty_tier = $7, updated_at = $8
	          WHERE id = $9`
	result, err := executor.Exec(query,
		customer.Name, customer.NationalID, customer.Phone, customer.Email, customer.Address,
		customer.PurchaseHistory, customer.LoyaltyTier, time.Now(), customer.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: national ID '%s' already exists (constraint: %s)", ErrDuplicateKey, customer.NationalID, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating customer ID %d: %v", ErrDatabaseError, customer.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) DeleteCustomer(executor SQLExecutor, customerID int64) error {
	result, err := executor.Exec(`DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("%w: deleting customer ID %d: %v", ErrDatabaseError, customerID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- LoyaltyCard Methods ---

func (r *customerRepository) CreateLoyaltyCard(executor SQLExecutor, card *models.LoyaltyCard) (int64, error) {
	query := `INSERT INTO loyalty_cards (customer_id, name, discount, benefits, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		card.CustomerID, card.Name, card.Discount, card.Benefits, now, now,
	).Scan(&card.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: invalid customer_id %d (constraint: %s): %v", ErrDatabaseError, card.CustomerID, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating loyalty card: %v", ErrDatabaseError, err)
	}
	return card.ID, nil
}

func (r *customerRepository) GetLoyaltyCardByCustomerID(customerID int64) (*models.LoyaltyCard, error) {
	card := &models.LoyaltyCard{}
	query := `SELECT id, customer_id, name, discount, benefits, created_at, updated_at
	          FROM loyalty_cards WHERE customer_id = $1`
	err := r.db.QueryRow(query, customerID).Scan(
		&card.ID, &card.CustomerID, &card.Name, &card.Discount, &card.Benefits,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting loyalty card for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return card, nil
}

func (r *customerRepository) UpdateLoyaltyCard(executor SQLExecutor, card *models.LoyaltyCard) error {
	query := `UPDATE loyalty_cards SET name = $1, discount = $2, benefits = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, card.Name, card.Discount, card.Benefits, time.Now(), card.ID)
	if err != nil {
		return fmt.Errorf("%w: updating loyalty card ID %d: %v", ErrDatabaseError, card.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) DeleteLoyaltyCard(executor SQLExecutor, cardID int64) error {
	result, err := executor.Exec(`DELETE FROM loyalty_cards WHERE id = $1`, cardID)
	if err != nil {
		return fmt.Errorf("%w: deleting loyalty card ID %d: %v", ErrDatabaseError, cardID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
