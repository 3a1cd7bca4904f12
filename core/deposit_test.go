package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDepositCompounded(t *testing.T) {
	instrument := &Instrument{
		LiquidityIndex: decimal.NewFromFloat(1.1),
	}

	deposit := &Deposit{
		Principal:     decimal.NewFromInt(100),
		InterestIndex: decimal.New(1, 0),
	}
	assert.Equal(t, "110", deposit.Compounded(instrument).String())
	assert.Equal(t, "10", deposit.AccruedInterest(instrument).String())

	// a zero snapshot index falls back to one
	deposit.InterestIndex = decimal.Zero
	assert.Equal(t, "110", deposit.Compounded(instrument).String())

	// recurring fractions truncate in favor of the pool
	deposit.InterestIndex = decimal.NewFromFloat(0.3)
	assert.Equal(t, "366.6666666666666666", deposit.Compounded(instrument).String())

	deposit.Principal = decimal.Zero
	assert.True(t, deposit.Compounded(instrument).IsZero())
}
