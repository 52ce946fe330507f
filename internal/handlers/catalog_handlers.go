package handlers

import (
	"errors"
	"net/http"

	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler holds the catalog service.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) respondCatalogError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrSupplierNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Supplier not found.", err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock.", err.Error()))
	case errors.Is(err, services.ErrTaxIDExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Tax ID already registered.", err.Error()))
	case errors.Is(err, services.ErrSupplierInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Supplier is still referenced by products.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, err.Error(), ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// --- Products ---

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	product, err := h.catalogService.CreateProduct(req)
	if err != nil {
		h.respondCatalogError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) GetProducts(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	storeID, ok := optionalIDQuery(c, "store_id")
	if !ok {
		return
	}
	category := utils.NewNullString(c.Query("category"))
	products, total, err := h.catalogService.GetProducts(storeID, category, page, pageSize)
	if err != nil {
		h.respondCatalogError(c, err, "fetch products")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(products, total, page, pageSize))
}

func (h *CatalogHandler) GetProductByID(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.GetProductByID(productID)
	if err != nil {
		h.respondCatalogError(c, err, "fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	product, err := h.catalogService.UpdateProduct(productID, req)
	if err != nil {
		h.respondCatalogError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProduct(productID); err != nil {
		h.respondCatalogError(c, err, "delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AdjustStock applies a signed stock delta and records the movement.
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	newStock, err := h.catalogService.AdjustStock(productID, req)
	if err != nil {
		h.respondCatalogError(c, err, "adjust stock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "stock": newStock})
}

// ChangePrice sets a new unit price for a product.
func (h *CatalogHandler) ChangePrice(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.ChangePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	product, err := h.catalogService.ChangePrice(productID, req)
	if err != nil {
		h.respondCatalogError(c, err, "change price")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) GetStockMovements(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	movements, total, err := h.catalogService.GetStockMovements(productID, page, pageSize)
	if err != nil {
		h.respondCatalogError(c, err, "fetch stock movements")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(movements, total, page, pageSize))
}

// --- Suppliers ---

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req services.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	supplier, err := h.catalogService.CreateSupplier(req)
	if err != nil {
		h.respondCatalogError(c, err, "create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *CatalogHandler) GetSuppliers(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	suppliers, total, err := h.catalogService.GetSuppliers(page, pageSize)
	if err != nil {
		h.respondCatalogError(c, err, "fetch suppliers")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(suppliers, total, page, pageSize))
}

func (h *CatalogHandler) GetSupplierByID(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	supplier, err := h.catalogService.GetSupplierByID(supplierID)
	if err != nil {
		h.respondCatalogError(c, err, "fetch supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	supplier, err := h.catalogService.UpdateSupplier(supplierID, req)
	if err != nil {
		h.respondCatalogError(c, err, "update supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteSupplier(supplierID); err != nil {
		h.respondCatalogError(c, err, "delete supplier")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
