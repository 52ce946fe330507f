package handlers

import (
	"errors"
	"net/http"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func (h *OrderHandler) respondOrderError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
	case errors.Is(err, services.ErrLineNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order line not found.", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for one or more items.", err.Error()))
	case errors.Is(err, services.ErrInvalidOrderState):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Operation not valid for the current order status.", err.Error()))
	case errors.Is(err, services.ErrEmptyOrder):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "Order has no lines.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, err.Error(), ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// CreateOrder opens a new pending order, optionally with initial lines.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	order, err := h.orderService.CreateOrder(req)
	if err != nil {
		h.respondOrderError(c, err, "create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders lists orders with optional filters.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters

	customerID, ok := optionalIDQuery(c, "customer_id")
	if !ok {
		return
	}
	filters.CustomerID = customerID
	employeeID, ok := optionalIDQuery(c, "employee_id")
	if !ok {
		return
	}
	filters.EmployeeID = employeeID
	storeID, ok := optionalIDQuery(c, "store_id")
	if !ok {
		return
	}
	filters.StoreID = storeID
	filters.Status = utils.NewNullString(c.Query("status"))
	filters.Date = utils.NewNullString(c.Query("date"))
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	filters.Page = page
	filters.PageSize = pageSize

	orders, total, err := h.orderService.GetOrders(filters)
	if err != nil {
		h.respondOrderError(c, err, "fetch orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, pagedResponse(orders, total, page, pageSize))
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		h.respondOrderError(c, err, "fetch order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// AddLine adds or merges a product line on a pending order.
func (h *OrderHandler) AddLine(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	order, err := h.orderService.AddLine(orderID, req)
	if err != nil {
		h.respondOrderError(c, err, "add order line")
		return
	}
	c.JSON(http.StatusOK, order)
}

// RemoveLine removes the line for the named product from a pending order.
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productName := c.Param("productName")
	if productName == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Product name is required.", ""))
		return
	}
	order, err := h.orderService.RemoveLine(orderID, productName)
	if err != nil {
		h.respondOrderError(c, err, "remove order line")
		return
	}
	c.JSON(http.StatusOK, order)
}

// Finalize closes a pending order with a payment method.
func (h *OrderHandler) Finalize(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.FinalizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	order, err := h.orderService.Finalize(orderID, req)
	if err != nil {
		h.respondOrderError(c, err, "finalize order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// Cancel cancels a pending order and returns its stock.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(orderID)
	if err != nil {
		h.respondOrderError(c, err, "cancel order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(orderID); err != nil {
		h.respondOrderError(c, err, "delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order and its lines deleted successfully"})
}

// GetInvoice renders and returns the invoice for a finalized order.
func (h *OrderHandler) GetInvoice(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.orderService.GetInvoice(orderID)
	if err != nil {
		h.respondOrderError(c, err, "generate invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}
