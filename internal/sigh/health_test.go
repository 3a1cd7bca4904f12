package sigh

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsAndHealthFactor(t *testing.T) {
	positions := []PositionValue{
		{
			Collateral:           decimal.NewFromInt(1000),
			LiquidationThreshold: decimal.NewFromFloat(0.85),
			LTV:                  decimal.NewFromFloat(0.8),
			Debt:                 decimal.NewFromInt(700),
		},
	}

	totals := Totals(positions)
	assert.Equal(t, "1000", totals.Collateral.String())
	assert.Equal(t, "850", totals.LiquidationValue.String())
	assert.Equal(t, "800", totals.BorrowLimit.String())
	assert.Equal(t, "700", totals.Debt.String())

	hf := HealthFactor(totals)
	require.True(t, hf.GreaterThan(decimal.New(1, 0)))

	// 850 / 700
	assert.Equal(t, "1.2142857142857142", hf.String())
}

func TestHealthFactorAcrossInstruments(t *testing.T) {
	positions := []PositionValue{
		{
			Collateral:           decimal.NewFromInt(500),
			LiquidationThreshold: decimal.NewFromFloat(0.9),
			LTV:                  decimal.NewFromFloat(0.75),
		},
		{
			Collateral:           decimal.NewFromInt(300),
			LiquidationThreshold: decimal.NewFromFloat(0.7),
			LTV:                  decimal.NewFromFloat(0.6),
			Debt:                 decimal.NewFromInt(660),
		},
	}

	totals := Totals(positions)
	assert.Equal(t, "660", totals.LiquidationValue.String())

	// liquidation value equals debt, right at the edge
	hf := HealthFactor(totals)
	assert.Equal(t, "1", hf.String())
}

func TestHealthFactorNoDebt(t *testing.T) {
	totals := Totals([]PositionValue{
		{
			Collateral:           decimal.NewFromInt(100),
			LiquidationThreshold: decimal.NewFromFloat(0.8),
			LTV:                  decimal.NewFromFloat(0.7),
		},
	})

	assert.True(t, HealthFactor(totals).Equal(MaxHealthFactor))
}

func TestHealthFactorLiquidatable(t *testing.T) {
	totals := AccountTotals{
		LiquidationValue: decimal.NewFromInt(80),
		Debt:             decimal.NewFromInt(100),
	}

	hf := HealthFactor(totals)
	assert.True(t, hf.LessThan(decimal.New(1, 0)))
	assert.Equal(t, "0.8", hf.String())
}
