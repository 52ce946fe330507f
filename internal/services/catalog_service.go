package services

import (
	"database/sql"
	"errors"
	"fmt"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTaxIDExists       = errors.New("supplier tax ID already exists")
	ErrSupplierInUse     = errors.New("supplier is referenced by existing products")
)

// Stock movement types.
const (
	MovementTypePurchase           = "purchase"
	MovementTypeSale               = "sale"
	MovementTypeAdjustment         = "adjustment"
	MovementTypeReturnCancellation = "return_cancellation"
)

// --- DTOs ---

type CreateProductRequest struct {
	StoreID    *int64  `json:"store_id"`
	SupplierID *int64  `json:"supplier_id"`
	Name       string  `json:"name" binding:"required"`
	Category   *string `json:"category"`
	Price      float64 `json:"price" binding:"required,gte=0"`
	Stock      int     `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest is a per-field patch; nil fields are left unchanged.
type UpdateProductRequest struct {
	StoreID    *int64   `json:"store_id"`
	SupplierID *int64   `json:"supplier_id"`
	Name       *string  `json:"name"`
	Category   *string  `json:"category"`
	Price      *float64 `json:"price"`
}

type AdjustStockRequest struct {
	Delta      int     `json:"delta" binding:"required"`
	EmployeeID *int64  `json:"employee_id"`
	Reason     *string `json:"reason"`
}

type ChangePriceRequest struct {
	NewPrice float64 `json:"new_price" binding:"gte=0"`
}

type CreateSupplierRequest struct {
	Name    string  `json:"name" binding:"required"`
	TaxID   string  `json:"tax_id" binding:"required"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	TaxID   *string `json:"tax_id"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// --- CatalogService Interface ---

type CatalogService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(storeID *int64, category *string, page, pageSize int) ([]models.Product, int, error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
	AdjustStock(productID int64, req AdjustStockRequest) (int, error) // returns new stock
	ChangePrice(productID int64, req ChangePriceRequest) (*models.Product, error)
	GetStockMovements(productID int64, page, pageSize int) ([]models.StockMovement, int, error)

	CreateSupplier(req CreateSupplierRequest) (*models.Supplier, error)
	GetSupplierByID(supplierID int64) (*models.Supplier, error)
	GetSuppliers(page, pageSize int) ([]models.Supplier, int, error)
	UpdateSupplier(supplierID int64, req UpdateSupplierRequest) (*models.Supplier, error)
	DeleteSupplier(supplierID int64) error
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, db *sql.DB) CatalogService {
	return &catalogService{catalogRepo: repo, db: db}
}

// applyStockDelta checks the stock invariant before any mutation.
// Stock must never go below zero.
func applyStockDelta(currentStock, delta int) (int, error) {
	newStock := currentStock + delta
	if newStock < 0 {
		return 0, fmt.Errorf("%w: stock %d, requested change %d", ErrInsufficientStock, currentStock, delta)
	}
	return newStock, nil
}

// --- Product Methods ---

func (s *catalogService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: initial stock cannot be negative", ErrValidation)
	}
	product := models.Product{
		StoreID:    req.StoreID,
		SupplierID: req.SupplierID,
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price,
		Stock:      req.Stock,
	}
	if _, err := s.catalogRepo.CreateProduct(s.db, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.GetProductByID(product.ID)
}

func (s *catalogService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.catalogRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *catalogService) GetProducts(storeID *int64, category *string, page, pageSize int) ([]models.Product, int, error) {
	products, totalCount, err := s.catalogRepo.GetProducts(storeID, category, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalCount, nil
}

func (s *catalogService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	// Blank-means-unchanged: only non-nil patch fields are applied.
	if req.StoreID != nil {
		product.StoreID = req.StoreID
	}
	if req.SupplierID != nil {
		product.SupplierID = req.SupplierID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		product.Price = *req.Price
	}

	if err := s.catalogRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(productID)
}

func (s *catalogService) DeleteProduct(productID int64) error {
	if err := s.catalogRepo.DeleteProduct(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// AdjustStock applies a stock delta after validating the invariant, and records
// a stock movement in the same transaction so stock never changes silently.
func (s *catalogService) AdjustStock(productID int64, req AdjustStockRequest) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	product, err := s.GetProductByID(productID)
	if err != nil {
		return 0, err
	}

	if _, err := applyStockDelta(product.Stock, req.Delta); err != nil {
		return 0, err
	}

	newStock, err := s.catalogRepo.UpdateStock(tx, productID, req.Delta)
	if err != nil {
		return 0, fmt.Errorf("failed to update stock for product %d: %w", productID, err)
	}

	movementType := MovementTypePurchase
	if req.Delta < 0 {
		movementType = MovementTypeAdjustment
	}
	movement := models.StockMovement{
		ProductID:       productID,
		EmployeeID:      req.EmployeeID,
		MovementType:    movementType,
		QuantityChanged: req.Delta,
		Reason:          req.Reason,
	}
	if _, err := s.catalogRepo.CreateMovement(tx, &movement); err != nil {
		return 0, fmt.Errorf("failed to record stock movement for product %d: %w", productID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}
	return newStock, nil
}

// ChangePrice overwrites the product price unconditionally.
func (s *catalogService) ChangePrice(productID int64, req ChangePriceRequest) (*models.Product, error) {
	if req.NewPrice < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if err := s.catalogRepo.UpdatePrice(s.db, productID, req.NewPrice); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to change price for product %d: %w", productID, err)
	}
	return s.GetProductByID(productID)
}

func (s *catalogService) GetStockMovements(productID int64, page, pageSize int) ([]models.StockMovement, int, error) {
	if _, err := s.GetProductByID(productID); err != nil {
		return nil, 0, err
	}
	movements, totalCount, err := s.catalogRepo.GetMovementsByProductID(productID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock movements: %w", err)
	}
	return movements, totalCount, nil
}

// --- Supplier Methods ---

func (s *catalogService) CreateSupplier(req CreateSupplierRequest) (*models.Supplier, error) {
	supplier := models.Supplier{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if _, err := s.catalogRepo.CreateSupplier(s.db, &supplier); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrTaxIDExists, req.TaxID)
		}
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &supplier, nil
}

func (s *catalogService) GetSupplierByID(supplierID int64) (*models.Supplier, error) {
	supplier, err := s.catalogRepo.GetSupplierByID(supplierID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

func (s *catalogService) GetSuppliers(page, pageSize int) ([]models.Supplier, int, error) {
	suppliers, totalCount, err := s.catalogRepo.GetSuppliers(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get suppliers: %w", err)
	}
	return suppliers, totalCount, nil
}

func (s *catalogService) UpdateSupplier(supplierID int64, req UpdateSupplierRequest) (*models.Supplier, error) {
	supplier, err := s.GetSupplierByID(supplierID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.TaxID != nil {
		supplier.TaxID = *req.TaxID
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}

	if err := s.catalogRepo.UpdateSupplier(s.db, supplier); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrTaxIDExists, supplier.TaxID)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

func (s *catalogService) DeleteSupplier(supplierID int64) error {
	if err := s.catalogRepo.DeleteSupplier(s.db, supplierID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSupplierNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: %v", ErrSupplierInUse, err)
		}
		return fmt.Errorf("failed to delete supplier %d: %w", supplierID, err)
	}
	return nil
}
