package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAmountFromPercent_Fractional(t *testing.T) {
	res := CheckAmountFromPercent(10000, 0.2, 2000, 0.01)
	assert.True(t, res.OK)
	assert.Equal(t, 2000.0, res.Expected)
	assert.Equal(t, 0.2, res.RateFraction)
}

func TestCheckAmountFromPercent_WholeNumber(t *testing.T) {
	// Whole-number and fractional percents normalize identically.
	res := CheckAmountFromPercent(10000, 20, 2000, 0.01)
	assert.True(t, res.OK)
	assert.Equal(t, 2000.0, res.Expected)
	assert.Equal(t, 0.2, res.RateFraction)
}

func TestCheckAmountFromPercent_Mismatch(t *testing.T) {
	res := CheckAmountFromPercent(10000, 20, 2100, 0.01)
	assert.False(t, res.OK)
	assert.Equal(t, 2000.0, res.Expected)
	assert.Equal(t, 2100.0, res.Actual)
}

func TestCheckAmountFromPercent_DefaultTolerance(t *testing.T) {
	res := CheckAmountFromPercent(10000, 20, 2000.005, 0)
	assert.True(t, res.OK)
}

func TestCheckAmountFromPercentPolicy_FractionPinned(t *testing.T) {
	// A rate legitimately expressed as 1.5 (fraction units) must not be
	// divided by 100 when the field pins the fraction policy.
	res := CheckAmountFromPercentPolicy(1000, 1.5, 1500, 0.01, PolicyFraction)
	assert.True(t, res.OK)
	assert.Equal(t, 1.5, res.RateFraction)
}

func TestCheckAmountFromBPS(t *testing.T) {
	res := CheckAmountFromBPS(10000, 250, 250, 0.01)
	assert.True(t, res.OK)
	assert.Equal(t, 250.0, res.Expected)
	assert.Equal(t, 0.025, res.RateFraction)
}

func TestCheckAmountFromBPS_Mismatch(t *testing.T) {
	res := CheckAmountFromBPS(10000, 250, 300, 0.01)
	assert.False(t, res.OK)
}

func TestPercentCopiedIntoAmount(t *testing.T) {
	assert.True(t, PercentCopiedIntoAmount(2.5, 2.5, 25000, 10000))
	assert.False(t, PercentCopiedIntoAmount(2.5, 2.5, 5000, 10000))
	assert.False(t, PercentCopiedIntoAmount(2.5, 250, 25000, 10000))
	assert.False(t, PercentCopiedIntoAmount(0, 0, 25000, 10000))
}

func TestTierLabel(t *testing.T) {
	assert.Equal(t, "percent_tier_2", TierLabel("PCT", 2))
	assert.Equal(t, "bps_tier_1", TierLabel("B", 1))
	assert.Equal(t, "flat", TierLabel("FLAT", 0))
	assert.Equal(t, "unknown", TierLabel("", 0))
	assert.Equal(t, "custom_tier_3", TierLabel("custom", 3))
}
