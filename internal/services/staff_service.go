package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmasil_backend/internal/models"
	"farmasil_backend/internal/repositories"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrShiftNotFound    = errors.New("shift not found")
)

// Standard full-time month in hours; hours beyond it are overtime.
const standardMonthlyHours = 160.0

// Overtime is paid at 1.5x the derived hourly rate.
const overtimeMultiplier = 1.5

// --- DTOs ---

type CreateEmployeeRequest struct {
	UserID   *int64  `json:"user_id"`
	StoreID  *int64  `json:"store_id"`
	Name     string  `json:"name" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Salary   float64 `json:"salary" binding:"required,gt=0"`
	Shift    *string `json:"shift"`
	HireDate *string `json:"hire_date"` // YYYY-MM-DD
}

// UpdateEmployeeRequest is a per-field patch; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	StoreID  *int64   `json:"store_id"`
	Name     *string  `json:"name"`
	Role     *string  `json:"role"`
	Salary   *float64 `json:"salary"`
	Shift    *string  `json:"shift"`
	HireDate *string  `json:"hire_date"`
}

type CreateShiftRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Notes     *string   `json:"notes"`
}

// --- StaffService Interface ---

type StaffService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error)
	GetEmployeeByID(employeeID int64) (*models.Employee, error)
	GetEmployees(storeID *int64, page, pageSize int) ([]models.Employee, int, error)
	UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(employeeID int64) error
	CalculatePay(employeeID int64) (*models.PayBreakdown, error)

	CreateShift(employeeID int64, req CreateShiftRequest) (*models.Shift, error)
	GetShifts(employeeID int64, page, pageSize int) ([]models.Shift, int, error)
	DeleteShift(shiftID int64) error
}

type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(repo repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: repo, db: db}
}

// ComputePay derives the pay for a salary and hours-worked pair.
// Hours beyond the standard month are paid at the overtime rate on top of the
// base salary; the base is never reduced for short months.
func ComputePay(salary, hoursWorked float64) (base, overtimeHours, overtimePay float64) {
	base = salary
	if hoursWorked > standardMonthlyHours {
		overtimeHours = hoursWorked - standardMonthlyHours
		hourlyRate := salary / standardMonthlyHours
		overtimePay = overtimeHours * hourlyRate * overtimeMultiplier
	}
	return base, overtimeHours, overtimePay
}

func validHireDate(hireDate *string) error {
	if hireDate == nil || *hireDate == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *hireDate); err != nil {
		return fmt.Errorf("%w: hire date must be YYYY-MM-DD", ErrValidation)
	}
	return nil
}

// --- Method Implementations ---

func (s *staffService) CreateEmployee(req CreateEmployeeRequest) (*models.Employee, error) {
	if req.Salary <= 0 {
		return nil, fmt.Errorf("%w: salary must be positive", ErrValidation)
	}
	if err := validHireDate(req.HireDate); err != nil {
		return nil, err
	}

	employee := models.Employee{
		UserID:   req.UserID,
		StoreID:  req.StoreID,
		Name:     req.Name,
		Role:     req.Role,
		Salary:   req.Salary,
		Shift:    req.Shift,
		HireDate: req.HireDate,
	}
	if _, err := s.staffRepo.CreateEmployee(s.db, &employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return s.GetEmployeeByID(employee.ID)
}

func (s *staffService) GetEmployeeByID(employeeID int64) (*models.Employee, error) {
	employee, err := s.staffRepo.GetEmployeeByID(employeeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *staffService) GetEmployees(storeID *int64, page, pageSize int) ([]models.Employee, int, error) {
	employees, totalCount, err := s.staffRepo.GetEmployees(storeID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get employees: %w", err)
	}
	return employees, totalCount, nil
}

func (s *staffService) UpdateEmployee(employeeID int64, req UpdateEmployeeRequest) (*models.Employee, error) {
	employee, err := s.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}

	if req.StoreID != nil {
		employee.StoreID = req.StoreID
	}
	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.Salary != nil {
		if *req.Salary <= 0 {
			return nil, fmt.Errorf("%w: salary must be positive", ErrValidation)
		}
		employee.Salary = *req.Salary
	}
	if req.Shift != nil {
		employee.Shift = req.Shift
	}
	if req.HireDate != nil {
		if err := validHireDate(req.HireDate); err != nil {
			return nil, err
		}
		employee.HireDate = req.HireDate
	}

	if err := s.staffRepo.UpdateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return s.GetEmployeeByID(employeeID)
}

func (s *staffService) DeleteEmployee(employeeID int64) error {
	if err := s.staffRepo.DeleteEmployee(s.db, employeeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// CalculatePay computes the pay breakdown for an employee from the persisted
// salary and accumulated hours worked.
func (s *staffService) CalculatePay(employeeID int64) (*models.PayBreakdown, error) {
	employee, err := s.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}
	base, overtimeHours, overtimePay := ComputePay(employee.Salary, employee.HoursWorked)
	return &models.PayBreakdown{
		EmployeeID:    employeeID,
		BaseSalary:    base,
		OvertimeHours: overtimeHours,
		OvertimePay:   overtimePay,
		TotalPay:      base + overtimePay,
	}, nil
}

// --- Shift Methods ---

// CreateShift records a shift and credits its duration to the employee's
// accumulated hours in the same transaction.
func (s *staffService) CreateShift(employeeID int64, req CreateShiftRequest) (*models.Shift, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: shift end must be after start", ErrValidation)
	}
	if _, err := s.GetEmployeeByID(employeeID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	shift := models.Shift{
		EmployeeID: employeeID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
	}
	if _, err := s.staffRepo.CreateShift(tx, &shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	hours := req.EndTime.Sub(req.StartTime).Hours()
	if _, err := s.staffRepo.AddHoursWorked(tx, employeeID, hours); err != nil {
		return nil, fmt.Errorf("failed to credit hours worked: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shift creation: %w", err)
	}
	return &shift, nil
}

func (s *staffService) GetShifts(employeeID int64, page, pageSize int) ([]models.Shift, int, error) {
	if _, err := s.GetEmployeeByID(employeeID); err != nil {
		return nil, 0, err
	}
	shifts, totalCount, err := s.staffRepo.GetShiftsByEmployeeID(employeeID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, totalCount, nil
}

func (s *staffService) DeleteShift(shiftID int64) error {
	if err := s.staffRepo.DeleteShift(s.db, shiftID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}
