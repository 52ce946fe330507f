package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmasil_backend/internal/models"

	"github.com/lib/pq"
)

// StaffRepository defines employee and shift database operations.
type StaffRepository interface {
	// Employee methods
	CreateEmployee(executor SQLExecutor, employee *models.Employee) (int64, error)
	GetEmployeeByID(employeeID int64) (*models.Employee, error)
	GetEmployees(storeID *int64, page, pageSize int) ([]models.Employee, int, error)
	UpdateEmployee(executor SQLExecutor, employee *models.Employee) error
	DeleteEmployee(executor SQLExecutor, employeeID int64) error
	AddHoursWorked(executor SQLExecutor, employeeID int64, hours float64) (float64, error) // returns new total

	// Shift methods
	CreateShift(executor SQLExecutor, shift *models.Shift) (int64, error)
	GetShiftsByEmployeeID(employeeID int64, page, pageSize int) ([]models.Shift, int, error)
	DeleteShift(executor SQLExecutor, shiftID int64) error
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

// --- Employee Methods ---

func (r *staffRepository) CreateEmployee(executor SQLExecutor, employee *models.Employee) (int64, error) {
	query := `INSERT INTO employees
	            (user_id, store_id, name, role, salary, shift, hire_date, hours_worked, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	now := time.Now()
	err := executor.QueryRow(query,
		employee.UserID, employee.StoreID, employee.Name, employee.Role, employee.Salary,
		employee.Shift, employee.HireDate, employee.HoursWorked, now, now,
	).Scan(&employee.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: creating employee (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return employee.ID, nil
}

func (r *staffRepository) GetEmployeeByID(employeeID int64) (*models.Employee, error) {
	employee := &models.Employee{}
	var hireDate sql.NullTime
	var storeName sql.NullString
	query := `SELECT e.id, e.user_id, e.store_id, e.name, e.role, e.salary, e.shift, e.hire_date,
	                 e.hours_worked, e.created_at, e.updated_at,
	                 s.name AS store_name
	          FROM employees e
	          LEFT JOIN stores s ON e.store_id = s.id
	          WHERE e.id = $1`
	err := r.db.QueryRow(query, employeeID).Scan(
		&employee.ID, &employee.UserID, &employee.StoreID, &employee.Name, &employee.Role,
		&employee.Salary, &employee.Shift, &hireDate, &employee.HoursWorked,
		&employee.CreatedAt, &employee.UpdatedAt, &storeName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting employee by ID %d: %v", ErrDatabaseError, employeeID, err)
	}
	if hireDate.Valid {
		formatted := hireDate.Time.Format("2006-01-02")
		employee.HireDate = &formatted
	}
	if employee.StoreID != nil && storeName.Valid {
		employee.Store = &models.Store{ID: *employee.StoreID, Name: storeName.String}
	}
	return employee, nil
}

func (r *staffRepository) GetEmployees(storeID *int64, page, pageSize int) ([]models.Employee, int, error) {
	employees := []models.Employee{}
	totalCount := 0

	query := `SELECT id, user_id, store_id, name, role, salary, shift, hire_date, hours_worked,
	                 created_at, updated_at, COUNT(*) OVER() AS total_count
	          FROM employees
	          WHERE ($1::BIGINT IS NULL OR store_id = $1)
	          ORDER BY name
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(query, storeID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var employee models.Employee
		var hireDate sql.NullTime
		if err := rows.Scan(
			&employee.ID, &employee.UserID, &employee.StoreID, &employee.Name, &employee.Role,
			&employee.Salary, &employee.Shift, &hireDate, &employee.HoursWorked,
			&employee.CreatedAt, &employee.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
		}
		if hireDate.Valid {
			formatted := hireDate.Time.Format("2006-01-02")
			employee.HireDate = &formatted
		}
		employees = append(employees, employee)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, totalCount, nil
}

func (r *staffRepository) UpdateEmployee(executor SQLExecutor, employee *models.Employee) error {
	query := `UPDATE employees SET user_id = $1, store_id = $2, name = $3, role = $4, salary = $5,
	                 shift = $6, hire_date = $7, hours_worked = $8, updated_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		employee.UserID, employee.StoreID, employee.Name, employee.Role, employee.Salary,
		employee.Shift, employee.HireDate, employee.HoursWorked, time.Now(), employee.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating employee ID %d: %v", ErrDatabaseError, employee.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) DeleteEmployee(executor SQLExecutor, employeeID int64) error {
	result, err := executor.Exec(`DELETE FROM employees WHERE id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("%w: deleting employee ID %d: %v", ErrDatabaseError, employeeID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepository) AddHoursWorked(executor SQLExecutor, employeeID int64, hours float64) (float64, error) {
	var newTotal float64
	query := `UPDATE employees SET hours_worked = hours_worked + $1, updated_at = $2
	          WHERE id = $3 RETURNING hours_worked`
	err := executor.QueryRow(query, hours, time.Now(), employeeID).Scan(&newTotal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: adding hours for employee ID %d: %v", ErrDatabaseError, employeeID, err)
	}
	return newTotal, nil
}

// --- Shift Methods ---

func (r *staffRepository) CreateShift(executor SQLExecutor, shift *models.Shift) (int64, error) {
	query := `INSERT INTO shifts (employee_id, start_time, end_time, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := executor.QueryRow(query,
		shift.EmployeeID, shift.StartTime, shift.EndTime, shift.Notes, time.Now(),
	).Scan(&shift.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: invalid employee_id %d (constraint: %s): %v", ErrDatabaseError, shift.EmployeeID, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return shift.ID, nil
}

func (r *staffRepository) GetShiftsByEmployeeID(employeeID int64, page, pageSize int) ([]models.Shift, int, error) {
	shifts := []models.Shift{}
	totalCount := 0
	query := `SELECT id, employee_id, start_time, end_time, notes, created_at, COUNT(*) OVER() AS total_count
	          FROM shifts
	          WHERE employee_id = $1
	          ORDER BY start_time DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(query, employeeID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying shifts for employee %d: %v", ErrDatabaseError, employeeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shift models.Shift
		if err := rows.Scan(
			&shift.ID, &shift.EmployeeID, &shift.StartTime, &shift.EndTime, &shift.Notes,
			&shift.CreatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		shifts = append(shifts, shift)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, totalCount, nil
}

func (r *staffRepository) DeleteShift(executor SQLExecutor, shiftID int64) error {
	result, err := executor.Exec(`DELETE FROM shifts WHERE id = $1`, shiftID)
	if err != nil {
		return fmt.Errorf("%w: deleting shift ID %d: %v", ErrDatabaseError, shiftID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
