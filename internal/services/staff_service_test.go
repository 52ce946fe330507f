package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePayNoOvertime(t *testing.T) {
	base, overtimeHours, overtimePay := ComputePay(3200, 160)

	assert.Equal(t, 3200.0, base)
	assert.Equal(t, 0.0, overtimeHours)
	assert.Equal(t, 0.0, overtimePay)
}

func TestComputePayWithOvertime(t *testing.T) {
	// 3200 salary over a 160 hour month gives a 20.00 hourly rate.
	// 20 extra hours at 1.5x pay 600 on top of the base.
	base, overtimeHours, overtimePay := ComputePay(3200, 180)

	assert.Equal(t, 3200.0, base)
	assert.Equal(t, 20.0, overtimeHours)
	assert.InDelta(t, 600.0, overtimePay, 1e-9)
}

// Working less than the standard month never reduces the base salary.
func TestComputePayShortMonthKeepsBase(t *testing.T) {
	base, overtimeHours, overtimePay := ComputePay(3200, 120)

	assert.Equal(t, 3200.0, base)
	assert.Equal(t, 0.0, overtimeHours)
	assert.Equal(t, 0.0, overtimePay)
}

func TestValidHireDate(t *testing.T) {
	good := "2024-03-15"
	bad := "15/03/2024"
	empty := ""

	assert.NoError(t, validHireDate(nil))
	assert.NoError(t, validHireDate(&empty))
	assert.NoError(t, validHireDate(&good))
	assert.ErrorIs(t, validHireDate(&bad), ErrValidation)
}
