package handlers

import (
	"errors"
	"net/http"

	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StoreHandler holds the store service.
type StoreHandler struct {
	storeService services.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(ss services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: ss}
}

func (h *StoreHandler) respondStoreError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrStoreNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
	case errors.Is(err, services.ErrManagerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Manager not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, err.Error(), ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// --- Stores ---

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	store, err := h.storeService.CreateStore(req)
	if err != nil {
		h.respondStoreError(c, err, "create store")
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (h *StoreHandler) GetStores(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	stores, total, err := h.storeService.GetStores(page, pageSize)
	if err != nil {
		h.respondStoreError(c, err, "fetch stores")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(stores, total, page, pageSize))
}

func (h *StoreHandler) GetStoreByID(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	store, err := h.storeService.GetStoreByID(storeID)
	if err != nil {
		h.respondStoreError(c, err, "fetch store")
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) UpdateStore(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	store, err := h.storeService.UpdateStore(storeID, req)
	if err != nil {
		h.respondStoreError(c, err, "update store")
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) DeleteStore(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.storeService.DeleteStore(storeID); err != nil {
		h.respondStoreError(c, err, "delete store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store deleted successfully"})
}

// --- Managers ---

func (h *StoreHandler) CreateManager(c *gin.Context) {
	var req services.CreateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	manager, err := h.storeService.CreateManager(req)
	if err != nil {
		h.respondStoreError(c, err, "create manager")
		return
	}
	c.JSON(http.StatusCreated, manager)
}

func (h *StoreHandler) GetManagers(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	managers, total, err := h.storeService.GetManagers(page, pageSize)
	if err != nil {
		h.respondStoreError(c, err, "fetch managers")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(managers, total, page, pageSize))
}

func (h *StoreHandler) GetManagerByID(c *gin.Context) {
	managerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	manager, err := h.storeService.GetManagerByID(managerID)
	if err != nil {
		h.respondStoreError(c, err, "fetch manager")
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *StoreHandler) UpdateManager(c *gin.Context) {
	managerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	manager, err := h.storeService.UpdateManager(managerID, req)
	if err != nil {
		h.respondStoreError(c, err, "update manager")
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *StoreHandler) DeleteManager(c *gin.Context) {
	managerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.storeService.DeleteManager(managerID); err != nil {
		h.respondStoreError(c, err, "delete manager")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manager deleted successfully"})
}

// --- Assignments ---

func (h *StoreHandler) AssignManager(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	managerID, ok := parseIDParam(c, "managerId")
	if !ok {
		return
	}
	if err := h.storeService.AssignManager(storeID, managerID); err != nil {
		h.respondStoreError(c, err, "assign manager")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manager assigned to store"})
}

func (h *StoreHandler) UnassignManager(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	managerID, ok := parseIDParam(c, "managerId")
	if !ok {
		return
	}
	if err := h.storeService.UnassignManager(storeID, managerID); err != nil {
		h.respondStoreError(c, err, "unassign manager")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manager unassigned from store"})
}
