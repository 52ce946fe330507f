package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmasil_backend/internal/repositories"
)

type stubCatalogRepo struct {
	repositories.CatalogRepository
	deleteSupplierErr error
}

func (s *stubCatalogRepo) DeleteSupplier(repositories.SQLExecutor, int64) error {
	return s.deleteSupplierErr
}

func TestApplyStockDelta(t *testing.T) {
	tests := []struct {
		name    string
		current int
		delta   int
		want    int
		wantErr bool
	}{
		{"restock", 10, 5, 15, false},
		{"sale", 10, -4, 6, false},
		{"drain to zero", 10, -10, 0, false},
		{"below zero rejected", 10, -11, 0, true},
		{"negative from empty", 0, -1, 0, true},
		{"no change", 7, 0, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyStockDelta(tt.current, tt.delta)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInsufficientStock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteSupplierMapsInUseError(t *testing.T) {
	inUse := fmt.Errorf("%w: supplier ID 3 is referenced by 2 product(s)", repositories.ErrForeignKeyViolation)
	svc := NewCatalogService(&stubCatalogRepo{deleteSupplierErr: inUse}, nil)

	assert.ErrorIs(t, svc.DeleteSupplier(3), ErrSupplierInUse)
}

// A query failure must not masquerade as the supplier being in use.
func TestDeleteSupplierDatabaseErrorIsNotInUse(t *testing.T) {
	svc := NewCatalogService(&stubCatalogRepo{deleteSupplierErr: repositories.ErrDatabaseError}, nil)

	err := svc.DeleteSupplier(3)

	assert.NotErrorIs(t, err, ErrSupplierInUse)
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)
}

func TestDeleteSupplierNotFound(t *testing.T) {
	svc := NewCatalogService(&stubCatalogRepo{deleteSupplierErr: repositories.ErrNotFound}, nil)

	assert.ErrorIs(t, svc.DeleteSupplier(3), ErrSupplierNotFound)
}

// Applying a delta and then its inverse restores the original stock level.
func TestApplyStockDeltaIsSymmetric(t *testing.T) {
	for _, delta := range []int{1, 3, 10, 25} {
		after, err := applyStockDelta(50, delta)
		require.NoError(t, err)
		restored, err := applyStockDelta(after, -delta)
		require.NoError(t, err)
		assert.Equal(t, 50, restored)
	}
}
