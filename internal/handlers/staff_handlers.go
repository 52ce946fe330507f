package handlers

import (
	"errors"
	"net/http"

	"farmasil_backend/internal/services"
	"farmasil_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func (h *StaffHandler) respondStaffError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrEmployeeNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found.", err.Error()))
	case errors.Is(err, services.ErrShiftNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, err.Error(), ""))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// --- Employees ---

func (h *StaffHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	employee, err := h.staffService.CreateEmployee(req)
	if err != nil {
		h.respondStaffError(c, err, "create employee")
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *StaffHandler) GetEmployees(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	storeID, ok := optionalIDQuery(c, "store_id")
	if !ok {
		return
	}
	employees, total, err := h.staffService.GetEmployees(storeID, page, pageSize)
	if err != nil {
		h.respondStaffError(c, err, "fetch employees")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(employees, total, page, pageSize))
}

func (h *StaffHandler) GetEmployeeByID(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	employee, err := h.staffService.GetEmployeeByID(employeeID)
	if err != nil {
		h.respondStaffError(c, err, "fetch employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *StaffHandler) UpdateEmployee(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	employee, err := h.staffService.UpdateEmployee(employeeID, req)
	if err != nil {
		h.respondStaffError(c, err, "update employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *StaffHandler) DeleteEmployee(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.DeleteEmployee(employeeID); err != nil {
		h.respondStaffError(c, err, "delete employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// CalculatePay returns the pay breakdown derived from salary and hours worked.
func (h *StaffHandler) CalculatePay(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	breakdown, err := h.staffService.CalculatePay(employeeID)
	if err != nil {
		h.respondStaffError(c, err, "calculate pay")
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// --- Shifts ---

func (h *StaffHandler) CreateShift(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	shift, err := h.staffService.CreateShift(employeeID, req)
	if err != nil {
		h.respondStaffError(c, err, "create shift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *StaffHandler) GetShifts(c *gin.Context) {
	employeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	shifts, total, err := h.staffService.GetShifts(employeeID, page, pageSize)
	if err != nil {
		h.respondStaffError(c, err, "fetch shifts")
		return
	}
	c.JSON(http.StatusOK, pagedResponse(shifts, total, page, pageSize))
}

func (h *StaffHandler) DeleteShift(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "shiftId")
	if !ok {
		return
	}
	if err := h.staffService.DeleteShift(shiftID); err != nil {
		h.respondStaffError(c, err, "delete shift")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted successfully"})
}
