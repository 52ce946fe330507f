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

// CatalogRepository defines product, supplier and stock movement database operations.
type CatalogRepository interface {
	// Product methods
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(storeID *int64, category *string, page, pageSize int) ([]models.Product, int, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, productID int64) error
	UpdateStock(executor SQLExecutor, productID int64, quantityChange int) (int, error) // returns new stock level
	UpdatePrice(executor SQLExecutor, productID int64, newPrice float64) error

	// Supplier methods
	CreateSupplier(executor SQLExecutor, supplier *models.Supplier) (int64, error)
	GetSupplierByID(supplierID int64) (*models.Supplier, error)
	GetSuppliers(page, pageSize int) ([]models.Supplier, int, error)
	UpdateSupplier(executor SQLExecutor, supplier *models.Supplier) error
	DeleteSupplier(executor SQLExecutor, supplierID int64) error

	// Stock movement methods
	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovementsByProductID(productID int64, page, pageSize int) ([]models.StockMovement, int, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// --- Product Methods ---

func (r *catalogRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (store_id, supplier_id, name, category, price, stock, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		product.StoreID, product.SupplierID, product.Name, product.Category,
		product.Price, product.Stock, now, now,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating product (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *catalogRepository) GetProductByID(productID int64) (*models.Product, error) {
	product := &models.Product{}
	var supplierName, supplierTaxID sql.NullString
	query := `SELECT p.id, p.store_id, p.supplier_id, p.name, p.category, p.price, p.stock,
	                 p.created_at, p.updated_at,
	                 s.name AS supplier_name, s.tax_id AS supplier_tax_id
	          FROM products p
	          LEFT JOIN suppliers s ON p.supplier_id = s.id
	          WHERE p.id = $1`
	err := r.db.QueryRow(query, productID).Scan(
		&product.ID, &product.StoreID, &product.SupplierID, &product.Name, &product.Category,
		&product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt,
		&supplierName, &supplierTaxID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, productID, err)
	}
	if product.SupplierID != nil && supplierName.Valid {
		product.Supplier = &models.Supplier{
			ID:    *product.SupplierID,
			Name:  supplierName.String,
			TaxID: supplierTaxID.String,
		}
	}
	return product, nil
}

func (r *catalogRepository) GetProducts(storeID *int64, category *string, page, pageSize int) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT id, store_id, supplier_id, name, category, price, stock, created_at, updated_at,
               COUNT(*) OVER() AS total_count
        FROM products`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if storeID != nil {
		conditions = append(conditions, fmt.Sprintf("store_id = $%d", argCounter))
		args = append(args, *storeID)
		argCounter++
	}
	if category != nil && *category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCounter))
		args = append(args, *category)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID, &product.StoreID, &product.SupplierID, &product.Name, &product.Category,
			&product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *catalogRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET store_id = $1, supplier_id = $2, name = $3, category = $4,
	                 price = $5, stock = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		product.StoreID, product.SupplierID, product.Name, product.Category,
		product.Price, product.Stock, time.Now(), product.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteProduct(executor SQLExecutor, productID int64) error {
	result, err := executor.Exec(`DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) UpdateStock(executor SQLExecutor, productID int64, quantityChange int) (int, error) {
	var newStock int
	query := `UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3 RETURNING stock`
	err := executor.QueryRow(query, quantityChange, time.Now(), productID).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: updating stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return newStock, nil
}

func (r *catalogRepository) UpdatePrice(executor SQLExecutor, productID int64, newPrice float64) error {
	result, err := executor.Exec(
		`UPDATE products SET price = $1, updated_at = $2 WHERE id = $3`, newPrice, time.Now(), productID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating price for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Supplier Methods ---

func (r *catalogRepository) CreateSupplier(executor SQLExecutor, supplier *models.Supplier) (int64, error) {
	query := `INSERT INTO suppliers (name, tax_id, phone, address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		supplier.Name, supplier.TaxID, supplier.Phone, supplier.Address, now, now,
	).Scan(&supplier.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: supplier tax ID '%s' already exists (constraint: %s)", ErrDuplicateKey, supplier.TaxID, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating supplier: %v", ErrDatabaseError, err)
	}
	return supplier.ID, nil
}

func (r *catalogRepository) GetSupplierByID(supplierID int64) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	query := `SELECT id, name, tax_id, phone, address, created_at, updated_at FROM suppliers WHERE id = $1`
	err := r.db.QueryRow(query, supplierID).Scan(
		&supplier.ID, &supplier.Name, &supplier.TaxID, &supplier.Phone, &supplier.Address,
		&supplier.CreatedAt, &supplier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting supplier by ID %d: %v", ErrDatabaseError, supplierID, err)
	}
	return supplier, nil
}

func (r *catalogRepository) GetSuppliers(page, pageSize int) ([]models.Supplier, int, error) {
	suppliers := []models.Supplier{}
	totalCount := 0
	query := `SELECT id, name, tax_id, phone, address, created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM suppliers
	          ORDER BY name
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying suppliers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var supplier models.Supplier
		if err := rows.Scan(
			&supplier.ID, &supplier.Name, &supplier.TaxID, &supplier.Phone, &supplier.Address,
			&supplier.CreatedAt, &supplier.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning supplier: %v", ErrDatabaseError, err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating supplier rows: %v", ErrDatabaseError, err)
	}
	return suppliers, totalCount, nil
}

func (r *catalogRepository) UpdateSupplier(executor SQLExecutor, supplier *models.Supplier) error {
	query := `UPDATE suppliers SET name = $1, tax_id = $2, phone = $3, address = $4, updated_at = $5
	          WHERE id = $6`
	result, err := executor.Exec(query,
		supplier.Name, supplier.TaxID, supplier.Phone, supplier.Address, time.Now(), supplier.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: supplier tax ID '%s' already exists (constraint: %s)", ErrDuplicateKey, supplier.TaxID, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating supplier ID %d: %v", ErrDatabaseError, supplier.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteSupplier(executor SQLExecutor, supplierID int64) error {
	// Refuse deletion while products still reference the supplier.
	var count int
	err := executor.QueryRow(`SELECT COUNT(*) FROM products WHERE supplier_id = $1`, supplierID).Scan(&count)
	if err != nil {
		return fmt.Errorf("%w: checking if supplier %d is in use: %v", ErrDatabaseError, supplierID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: supplier ID %d is referenced by %d product(s)", ErrForeignKeyViolation, supplierID, count)
	}

	result, err := executor.Exec(`DELETE FROM suppliers WHERE id = $1`, supplierID)
	if err != nil {
		return fmt.Errorf("%w: deleting supplier ID %d: %v", ErrDatabaseError, supplierID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Stock Movement Methods ---

func (r *catalogRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements
	            (product_id, employee_id, movement_type, quantity_changed, reason, movement_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if movement.MovementDate.IsZero() {
		movement.MovementDate = time.Now()
	}
	err := executor.QueryRow(query,
		movement.ProductID, movement.EmployeeID, movement.MovementType, movement.QuantityChanged,
		movement.Reason, movement.MovementDate, time.Now(),
	).Scan(&movement.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *catalogRepository) GetMovementsByProductID(productID int64, page, pageSize int) ([]models.StockMovement, int, error) {
	movements := []models.StockMovement{}
	totalCount := 0
	query := `SELECT id, product_id, employee_id, movement_type, quantity_changed, reason, movement_date, created_at,
	                 COUNT(*) OVER() AS total_count
	          FROM stock_movements
	          WHERE product_id = $1
	          ORDER BY movement_date DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(query, productID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying stock movements for product %d: %v", ErrDatabaseError, productID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var movement models.StockMovement
		if err := rows.Scan(
			&movement.ID, &movement.ProductID, &movement.EmployeeID, &movement.MovementType,
			&movement.QuantityChanged, &movement.Reason, &movement.MovementDate, &movement.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		movements = append(movements, movement)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock movement rows: %v", ErrDatabaseError, err)
	}
	return movements, totalCount, nil
}
