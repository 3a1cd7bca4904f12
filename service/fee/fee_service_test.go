package fee

import (
	"context"
	"testing"

	"sigh/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testConfig() core.Fee {
	return core.Fee{
		DepositFeeRate:       decimal.NewFromFloat(0.001),
		OriginationFeeRate:   decimal.NewFromFloat(0.0025),
		FlashLoanPremiumRate: decimal.NewFromFloat(0.0009),
		PlatformShare:        decimal.NewFromFloat(0.4),
		Boosters: map[string]decimal.Decimal{
			"gold":  decimal.NewFromFloat(0.5),
			"crazy": decimal.NewFromFloat(2),
		},
	}
}

func TestFeeSplit(t *testing.T) {
	ctx := context.Background()
	svc := New(testConfig())

	fee := svc.CalculateDepositFee(ctx, "u1", decimal.NewFromInt(1000), "")
	assert.Equal(t, "1", fee.Total.String())
	assert.Equal(t, "0.4", fee.Platform.String())
	assert.Equal(t, "0.6", fee.Reserve.String())

	// platform + reserve always reassemble the total
	assert.True(t, fee.Platform.Add(fee.Reserve).Equal(fee.Total))
}

func TestBoosterDiscount(t *testing.T) {
	ctx := context.Background()
	svc := New(testConfig())

	full := svc.CalculateBorrowFee(ctx, "u1", decimal.NewFromInt(10000), "")
	discounted := svc.CalculateBorrowFee(ctx, "u1", decimal.NewFromInt(10000), "gold")

	assert.Equal(t, "25", full.Total.String())
	assert.Equal(t, "12.5", discounted.Total.String())

	// unknown boosters fall back to the full fee
	unknown := svc.CalculateBorrowFee(ctx, "u1", decimal.NewFromInt(10000), "nope")
	assert.True(t, unknown.Total.Equal(full.Total))

	// discounts are capped at 100%
	free := svc.CalculateBorrowFee(ctx, "u1", decimal.NewFromInt(10000), "crazy")
	assert.True(t, free.Total.IsZero())
	assert.True(t, free.Platform.IsZero())
	assert.True(t, free.Reserve.IsZero())
}

func TestFlashLoanFee(t *testing.T) {
	ctx := context.Background()
	svc := New(testConfig())

	fee := svc.CalculateFlashLoanFee(ctx, "u1", decimal.NewFromInt(100000), "")
	assert.Equal(t, "90", fee.Total.String())
}
