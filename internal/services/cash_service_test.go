package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmasil_backend/internal/models"
)

func TestApplyEntry(t *testing.T) {
	register := &models.CashRegister{Balance: 100, TotalIn: 100}

	require.NoError(t, applyEntry(register, 50))

	assert.Equal(t, 150.0, register.Balance)
	assert.Equal(t, 150.0, register.TotalIn)
	assert.Equal(t, 0.0, register.TotalOut)
}

func TestApplyEntryRejectsNonPositiveAmount(t *testing.T) {
	register := &models.CashRegister{Balance: 100}

	assert.ErrorIs(t, applyEntry(register, 0), ErrInvalidAmount)
	assert.ErrorIs(t, applyEntry(register, -10), ErrInvalidAmount)
	assert.Equal(t, 100.0, register.Balance)
}

func TestApplyExit(t *testing.T) {
	register := &models.CashRegister{Balance: 100, TotalIn: 100}

	require.NoError(t, applyExit(register, 40))

	assert.Equal(t, 60.0, register.Balance)
	assert.Equal(t, 40.0, register.TotalOut)
	assert.Equal(t, 100.0, register.TotalIn)
}

func TestApplyExitInsufficientBalanceLeavesRegisterUnchanged(t *testing.T) {
	register := &models.CashRegister{Balance: 100, TotalIn: 100, TotalOut: 0}

	err := applyExit(register, 150)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 100.0, register.Balance)
	assert.Equal(t, 100.0, register.TotalIn)
	assert.Equal(t, 0.0, register.TotalOut)
}

func TestApplyExitRejectsNonPositiveAmount(t *testing.T) {
	register := &models.CashRegister{Balance: 100}

	assert.ErrorIs(t, applyExit(register, 0), ErrInvalidAmount)
	assert.Equal(t, 100.0, register.Balance)
}

// A 50 transfer from a register holding 100 into an empty one leaves both at 50.
func TestTransferLegArithmetic(t *testing.T) {
	source := &models.CashRegister{Balance: 100, TotalIn: 100}
	destination := &models.CashRegister{}

	require.NoError(t, applyExit(source, 50))
	require.NoError(t, applyEntry(destination, 50))

	assert.Equal(t, 50.0, source.Balance)
	assert.Equal(t, 50.0, destination.Balance)
	assert.Equal(t, 50.0, source.TotalOut)
	assert.Equal(t, 50.0, destination.TotalIn)
}

// When the source cannot cover the transfer, neither register may change.
func TestTransferFailsBeforeTouchingEitherRegister(t *testing.T) {
	source := &models.CashRegister{Balance: 100, TotalIn: 100}
	destination := &models.CashRegister{Balance: 20, TotalIn: 20}

	err := applyExit(source, 150)

	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 100.0, source.Balance)
	assert.Equal(t, 20.0, destination.Balance)
}

// balance = total_in - total_out after any sequence of valid movements
func TestRegisterInvariantHolds(t *testing.T) {
	register := &models.CashRegister{}

	require.NoError(t, applyEntry(register, 200))
	require.NoError(t, applyExit(register, 75))
	require.NoError(t, applyEntry(register, 30))
	require.NoError(t, applyExit(register, 55))

	assert.Equal(t, register.TotalIn-register.TotalOut, register.Balance)
	assert.Equal(t, 100.0, register.Balance)
}
