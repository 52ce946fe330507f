package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

func (h *CustomerHandler) respondCustomerError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", err.Error()))
	case errors.Is(err, services.ErrLoyaltyCardNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Loyalty card not found.", err.Error()))
	case errors.Is(err, services.ErrNationalIDExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "National ID already registered.", err.Error()))
	case errors.Is(err, services.ErrInvalidAmount):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "Amount must be positive.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, err.Error(), ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// --- Customers ---

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	customer, err := h.customerService.CreateCustomer(req)
	if err != nil {
		h.respondCustomerError(c, err, "create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	searchTerm := utils.NewNullString(c.Query("search"))
	customers, total, err := h.customerService.GetCustomers(page, pageSize, searchTerm)
	if err != nil {
		h.respondCustomerError(c, err, "fetch customers")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(customers, total, page, pageSize))
}

func (h *CustomerHandler) GetCustomerByID(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomerByID(customerID)
	if err != nil {
		h.respondCustomerError(c, err, "fetch customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	customer, err := h.customerService.UpdateCustomer(customerID, req)
	if err != nil {
		h.respondCustomerError(c, err, "update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(customerID); err != nil {
		h.respondCustomerError(c, err, "delete customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// RecordPurchase accumulates purchase history and re-derives the loyalty tier.
func (h *CustomerHandler) RecordPurchase(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	customer, err := h.customerService.RecordPurchase(customerID, req)
	if err != nil {
		h.respondCustomerError(c, err, "record purchase")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// QuoteDiscount applies the customer's tier discount to an amount without
// persisting anything.
func (h *CustomerHandler) QuoteDiscount(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid amount format.", "amount query parameter must be a number"))
		return
	}
	quote, err := h.customerService.QuoteDiscount(customerID, amount)
	if err != nil {
		h.respondCustomerError(c, err, "quote discount")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// --- Loyalty Cards ---

func (h *CustomerHandler) CreateLoyaltyCard(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateLoyaltyCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	card, err := h.customerService.CreateLoyaltyCard(customerID, req)
	if err != nil {
		h.respondCustomerError(c, err, "create loyalty card")
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *CustomerHandler) GetLoyaltyCard(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	card, err := h.customerService.GetLoyaltyCard(customerID)
	if err != nil {
		h.respondCustomerError(c, err, "fetch loyalty card")
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CustomerHandler) UpdateLoyaltyCard(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateLoyaltyCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	card, err := h.customerService.UpdateLoyaltyCard(customerID, req)
	if err != nil {
		h.respondCustomerError(c, err, "update loyalty card")
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *CustomerHandler) DeleteLoyaltyCard(c *gin.Context) {
	cardID, ok := parseIDParam(c, "cardId")
	if !ok {
		return
	}
	if err := h.customerService.DeleteLoyaltyCard(cardID); err != nil {
		h.respondCustomerError(c, err, "delete loyalty card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Loyalty card deleted successfully"})
}
