package instrument

import (
	"context"
	"testing"
	"time"

	"sigh/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstrument(now time.Time) *core.Instrument {
	return &core.Instrument{
		AssetID: "asset-usdc",
		Symbol:  "USDC",
		Flags:   core.FlagActive | core.FlagBorrowingEnabled | core.FlagCollateralEnabled,

		ReserveFactor:      decimal.NewFromFloat(0.1),
		OptimalUtilization: decimal.NewFromFloat(0.8),
		BaseVariableRate:   decimal.NewFromFloat(0.01),
		VariableSlope1:     decimal.NewFromFloat(0.04),
		VariableSlope2:     decimal.NewFromFloat(0.6),
		BaseStableRate:     decimal.NewFromFloat(0.02),
		StableSlope1:       decimal.NewFromFloat(0.04),
		StableSlope2:       decimal.NewFromFloat(0.6),

		LiquidityIndex:      decimal.New(1, 0),
		VariableBorrowIndex: decimal.New(1, 0),

		TotalCash:         decimal.NewFromInt(1000),
		TotalVariableDebt: decimal.NewFromInt(500),

		LastUpdatedAt: now,
	}
}

func TestUpdateInterestRates(t *testing.T) {
	ctx := context.Background()
	svc := New(decimal.NewFromFloat(0.5))

	now := time.Now()
	instrument := testInstrument(now)

	require.Nil(t, svc.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.Zero))

	// utilization 500/1500
	u := svc.CurUtilizationRate(ctx, instrument)
	assert.Equal(t, "0.3333333333333333", u.String())

	assert.True(t, instrument.VariableBorrowRate.IsPositive())
	assert.True(t, instrument.StableBorrowRate.GreaterThan(instrument.VariableBorrowRate))
	assert.True(t, instrument.LiquidityRate.IsPositive())
	assert.True(t, instrument.LiquidityRate.LessThan(instrument.VariableBorrowRate))
}

func TestUpdateInterestRatesCashMovement(t *testing.T) {
	ctx := context.Background()
	svc := New(decimal.NewFromFloat(0.5))

	instrument := testInstrument(time.Now())

	require.Nil(t, svc.UpdateInterestRates(ctx, instrument, decimal.NewFromInt(500), decimal.Zero))
	assert.Equal(t, "1500", instrument.TotalCash.String())

	require.Nil(t, svc.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.NewFromInt(200)))
	assert.Equal(t, "1300", instrument.TotalCash.String())

	// the pool cannot go negative
	err := svc.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.NewFromInt(99999))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestUpdateStateAccruesIndices(t *testing.T) {
	ctx := context.Background()
	svc := New(decimal.NewFromFloat(0.5))

	start := time.Now().Add(-24 * time.Hour)
	instrument := testInstrument(start)
	require.Nil(t, svc.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.Zero))

	debtBefore := instrument.TotalVariableDebt
	now := start.Add(24 * time.Hour)
	require.Nil(t, svc.UpdateState(ctx, instrument, now))

	assert.True(t, instrument.LiquidityIndex.GreaterThan(decimal.New(1, 0)))
	assert.True(t, instrument.VariableBorrowIndex.GreaterThan(decimal.New(1, 0)))
	assert.True(t, instrument.TotalVariableDebt.GreaterThan(debtBefore))
	assert.True(t, instrument.Reserves.IsPositive())
	assert.True(t, instrument.LastUpdatedAt.Equal(now))

	// a second call with the same clock is a no op
	index := instrument.LiquidityIndex
	require.Nil(t, svc.UpdateState(ctx, instrument, now))
	assert.True(t, instrument.LiquidityIndex.Equal(index))
}

func TestUpdateStateRewardIndices(t *testing.T) {
	ctx := context.Background()
	svc := New(decimal.NewFromFloat(0.5))

	start := time.Now().Add(-time.Hour)
	instrument := testInstrument(start)
	instrument.RewardSpeed = decimal.NewFromFloat(0.01)

	require.Nil(t, svc.UpdateState(ctx, instrument, start.Add(time.Hour)))

	assert.True(t, instrument.SupplierRewardIndex.IsPositive())
	assert.True(t, instrument.BorrowerRewardIndex.IsPositive())

	// borrower side spreads over less principal, so its per unit index
	// grows faster at an even split
	assert.True(t, instrument.BorrowerRewardIndex.GreaterThan(instrument.SupplierRewardIndex))
}
