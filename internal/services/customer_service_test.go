package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"farmasil_backend/internal/models"
)

func TestLoyaltyTierFor(t *testing.T) {
	tests := []struct {
		name            string
		purchaseHistory float64
		want            string
	}{
		{"zero history is bronze", 0, models.TierBronze},
		{"below silver threshold", 499.99, models.TierBronze},
		{"exactly silver threshold", 500, models.TierSilver},
		{"between thresholds", 750, models.TierSilver},
		{"just below gold", 999.99, models.TierSilver},
		{"exactly gold threshold", 1000, models.TierGold},
		{"well above gold", 10000, models.TierGold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoyaltyTierFor(tt.purchaseHistory))
		})
	}
}

// More purchase history never yields a lower tier.
func TestLoyaltyTierIsMonotonic(t *testing.T) {
	rank := map[string]int{models.TierBronze: 0, models.TierSilver: 1, models.TierGold: 2}

	previous := models.TierBronze
	for _, history := range []float64{0, 100, 499, 500, 501, 999, 1000, 1001, 5000} {
		tier := LoyaltyTierFor(history)
		assert.GreaterOrEqual(t, rank[tier], rank[previous], "history %.2f regressed from %s to %s", history, previous, tier)
		previous = tier
	}
}

func TestDiscountedAmount(t *testing.T) {
	assert.InDelta(t, 85.0, DiscountedAmount(models.TierGold, 100), 1e-9)
	assert.InDelta(t, 90.0, DiscountedAmount(models.TierSilver, 100), 1e-9)
	assert.InDelta(t, 95.0, DiscountedAmount(models.TierBronze, 100), 1e-9)
}

func TestDiscountedAmountUnknownTierFallsBackToBronze(t *testing.T) {
	assert.InDelta(t, 95.0, DiscountedAmount("platinum", 100), 1e-9)
}
