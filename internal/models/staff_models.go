package models

import "time"

// Employee represents a pharmacy employee.
type Employee struct {
	ID          int64     `json:"id" db:"id"`
	UserID      *int64    `json:"user_id,omitempty" db:"user_id"` // link to users table for login
	StoreID     *int64    `json:"store_id,omitempty" db:"store_id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Role        string    `json:"role" db:"role" binding:"required"`
	Salary      float64   `json:"salary" db:"salary" binding:"required,gt=0"`
	Shift       *string   `json:"shift,omitempty" db:"shift"`
	HireDate    *string   `json:"hire_date,omitempty" db:"hire_date"` // YYYY-MM-DD
	HoursWorked float64   `json:"hours_worked" db:"hours_worked"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	User        *User     `json:"user,omitempty"`
	Store       *Store    `json:"store,omitempty"`
}

// Shift represents a recorded work shift for an employee.
type Shift struct {
	ID         int64     `json:"id" db:"id"`
	EmployeeID int64     `json:"employee_id" db:"employee_id" binding:"required"`
	StartTime  time.Time `json:"start_time" db:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" db:"end_time" binding:"required"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PayBreakdown is the result of a payroll calculation for one employee.
type PayBreakdown struct {
	EmployeeID    int64   `json:"employee_id"`
	BaseSalary    float64 `json:"base_salary"`
	OvertimeHours float64 `json:"overtime_hours"`
	OvertimePay   float64 `json:"overtime_pay"`
	TotalPay      float64 `json:"total_pay"`
}
