package borrow

import (
	"context"
	"testing"
	"time"

	"sigh/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowBalanceVariable(t *testing.T) {
	ctx := context.Background()
	svc := New()

	instrument := &core.Instrument{
		VariableBorrowIndex: decimal.NewFromFloat(1.1),
	}
	borrow := &core.Borrow{
		Mode:          core.RateModeVariable,
		Principal:     decimal.NewFromInt(100),
		InterestIndex: decimal.New(1, 0),
	}

	balance, err := svc.BorrowBalance(ctx, borrow, instrument, time.Now())
	require.Nil(t, err)
	assert.Equal(t, "110", balance.String())

	// debt rounds up, never in favor of the borrower
	borrow.Principal = decimal.NewFromFloat(0.0000000000000001)
	balance, err = svc.BorrowBalance(ctx, borrow, instrument, time.Now())
	require.Nil(t, err)
	assert.True(t, balance.GreaterThanOrEqual(borrow.Principal))
}

func TestBorrowBalanceVariableRoundsUp(t *testing.T) {
	ctx := context.Background()
	svc := New()

	instrument := &core.Instrument{
		VariableBorrowIndex: decimal.NewFromFloat(1.1),
	}
	borrow := &core.Borrow{
		Mode:          core.RateModeVariable,
		Principal:     decimal.NewFromInt(100),
		InterestIndex: decimal.NewFromFloat(0.3),
	}

	// 100 * 1.1 / 0.3 = 366.666... takes the ceiling at the last digit
	balance, err := svc.BorrowBalance(ctx, borrow, instrument, time.Now())
	require.Nil(t, err)
	assert.Equal(t, "366.6666666666666667", balance.String())
}

func TestBorrowBalanceStable(t *testing.T) {
	ctx := context.Background()
	svc := New()

	now := time.Now()
	borrow := &core.Borrow{
		Mode:          core.RateModeStable,
		Principal:     decimal.NewFromInt(100),
		StableRate:    decimal.NewFromFloat(0.1),
		LastAccruedAt: now.Add(-365 * 24 * time.Hour),
	}

	balance, err := svc.BorrowBalance(ctx, borrow, &core.Instrument{}, now)
	require.Nil(t, err)

	// three term approximation of e^0.1
	assert.True(t, balance.GreaterThan(decimal.NewFromFloat(110.51)))
	assert.True(t, balance.LessThan(decimal.NewFromFloat(110.52)))
}

func TestBorrowBalanceZero(t *testing.T) {
	ctx := context.Background()
	svc := New()

	balance, err := svc.BorrowBalance(ctx, &core.Borrow{}, &core.Instrument{}, time.Now())
	require.Nil(t, err)
	assert.True(t, balance.IsZero())
}
