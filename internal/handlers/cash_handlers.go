package handlers

import (
	"errors"
	"net/http"

	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CashHandler holds the cash register service.
type CashHandler struct {
	cashService services.CashService
}

// NewCashHandler creates a new CashHandler.
func NewCashHandler(cs services.CashService) *CashHandler {
	return &CashHandler{cashService: cs}
}

func (h *CashHandler) respondCashError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrRegisterNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cash register not found.", err.Error()))
	case errors.Is(err, services.ErrInvalidAmount):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "Amount must be positive.", err.Error()))
	case errors.Is(err, services.ErrInsufficientBalance):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient register balance.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, err.Error(), ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

func (h *CashHandler) CreateRegister(c *gin.Context) {
	var req services.CreateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	register, err := h.cashService.CreateRegister(req)
	if err != nil {
		h.respondCashError(c, err, "create cash register")
		return
	}
	c.JSON(http.StatusCreated, register)
}

func (h *CashHandler) GetRegisters(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	storeID, ok := optionalIDQuery(c, "store_id")
	if !ok {
		return
	}
	registers, total, err := h.cashService.GetRegisters(storeID, page, pageSize)
	if err != nil {
		h.respondCashError(c, err, "fetch cash registers")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(registers, total, page, pageSize))
}

func (h *CashHandler) GetRegisterByID(c *gin.Context) {
	registerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	register, err := h.cashService.GetRegisterByID(registerID)
	if err != nil {
		h.respondCashError(c, err, "fetch cash register")
		return
	}
	c.JSON(http.StatusOK, register)
}

func (h *CashHandler) DeleteRegister(c *gin.Context) {
	registerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.cashService.DeleteRegister(registerID); err != nil {
		h.respondCashError(c, err, "delete cash register")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cash register deleted successfully"})
}

// RegisterEntry records a cash entry against a register.
func (h *CashHandler) RegisterEntry(c *gin.Context) {
	registerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	register, err := h.cashService.RegisterEntry(registerID, req)
	if err != nil {
		h.respondCashError(c, err, "record cash entry")
		return
	}
	c.JSON(http.StatusOK, register)
}

// RegisterExit records a cash exit against a register.
func (h *CashHandler) RegisterExit(c *gin.Context) {
	registerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	register, err := h.cashService.RegisterExit(registerID, req)
	if err != nil {
		h.respondCashError(c, err, "record cash exit")
		return
	}
	c.JSON(http.StatusOK, register)
}

// Transfer moves cash from one register to another atomically.
func (h *CashHandler) Transfer(c *gin.Context) {
	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	source, destination, err := h.cashService.Transfer(req)
	if err != nil {
		h.respondCashError(c, err, "transfer cash")
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": source, "destination": destination})
}

func (h *CashHandler) GetLedgerEntries(c *gin.Context) {
	registerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	entries, total, err := h.cashService.GetLedgerEntries(registerID, page, pageSize)
	if err != nil {
		h.respondCashError(c, err, "fetch ledger entries")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(entries, total, page, pageSize))
}
