package sigh

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUtilizationRate(t *testing.T) {
	assert.True(t, UtilizationRate(decimal.Zero, decimal.Zero).IsZero())
	assert.True(t, UtilizationRate(decimal.NewFromInt(100), decimal.Zero).IsZero())

	u := UtilizationRate(decimal.NewFromInt(50), decimal.NewFromInt(50))
	assert.Equal(t, "0.5", u.String())

	u = UtilizationRate(decimal.Zero, decimal.NewFromInt(30))
	assert.Equal(t, "1", u.String())

	// recurring fractions truncate, they never round up
	u = UtilizationRate(decimal.NewFromInt(1), decimal.NewFromInt(2))
	assert.Equal(t, "0.6666666666666666", u.String())
}

func TestVariableBorrowRateKink(t *testing.T) {
	base := decimal.NewFromFloat(0.01)
	slope1 := decimal.NewFromFloat(0.04)
	slope2 := decimal.NewFromFloat(0.6)
	optimal := decimal.NewFromFloat(0.8)

	// below the kink the first slope scales with u/optimal
	rate := GetVariableBorrowRate(decimal.NewFromFloat(0.4), base, slope1, slope2, optimal)
	assert.Equal(t, "0.03", rate.String())

	// exactly at the kink
	rate = GetVariableBorrowRate(optimal, base, slope1, slope2, optimal)
	assert.Equal(t, "0.05", rate.String())

	// above the kink the second slope takes over
	rate = GetVariableBorrowRate(decimal.NewFromFloat(0.9), base, slope1, slope2, optimal)
	assert.Equal(t, "0.35", rate.String())

	// full utilization hits the cap
	rate = GetVariableBorrowRate(decimal.New(1, 0), base, slope1, slope2, optimal)
	assert.True(t, rate.Equal(MaxVariableBorrowRate(base, slope1, slope2)))
}

func TestOverallBorrowRate(t *testing.T) {
	assert.True(t, GetOverallBorrowRate(decimal.Zero, decimal.Zero, decimal.NewFromFloat(0.1), decimal.NewFromFloat(0.2)).IsZero())

	rate := GetOverallBorrowRate(
		decimal.NewFromInt(100),
		decimal.NewFromInt(100),
		decimal.NewFromFloat(0.1),
		decimal.NewFromFloat(0.2),
	)
	assert.Equal(t, "0.15", rate.String())
}

func TestLiquidityRate(t *testing.T) {
	// 10% borrow rate at 50% utilization with a 20% reserve cut: 4%
	rate := GetLiquidityRate(
		decimal.NewFromFloat(0.1),
		decimal.NewFromFloat(0.5),
		decimal.NewFromFloat(0.2),
	)
	assert.Equal(t, "0.04", rate.String())

	// depositors never out-earn the borrowers
	assert.True(t, rate.LessThan(decimal.NewFromFloat(0.1)))
}
