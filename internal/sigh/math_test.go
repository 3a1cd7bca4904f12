package sigh

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearInterest(t *testing.T) {
	one := decimal.New(1, 0)

	assert.True(t, LinearInterest(decimal.Zero, 1000).Equal(one))
	assert.True(t, LinearInterest(decimal.NewFromFloat(0.1), 0).Equal(one))
	assert.True(t, LinearInterest(decimal.NewFromFloat(0.1), -5).Equal(one))

	// a full year at 10% is exactly 1.1
	factor := LinearInterest(decimal.NewFromFloat(0.1), 31536000)
	assert.Equal(t, "1.1", factor.String())

	// half a year at 10% is 1.05
	factor = LinearInterest(decimal.NewFromFloat(0.1), 31536000/2)
	assert.Equal(t, "1.05", factor.String())
}

func TestCompoundedInterest(t *testing.T) {
	one := decimal.New(1, 0)

	assert.True(t, CompoundedInterest(decimal.Zero, 1000).Equal(one))
	assert.True(t, CompoundedInterest(decimal.NewFromFloat(0.1), 0).Equal(one))

	rate := decimal.NewFromFloat(0.1)
	year := int64(31536000)

	linear := LinearInterest(rate, year)
	compounded := CompoundedInterest(rate, year)

	// compounding beats linear over the same window
	require.True(t, compounded.GreaterThan(linear))

	// and stays close to e^0.1 = 1.10517...
	assert.True(t, compounded.GreaterThan(decimal.NewFromFloat(1.1051)))
	assert.True(t, compounded.LessThan(decimal.NewFromFloat(1.1052)))
}

func TestCompoundedInterestShortWindows(t *testing.T) {
	rate := decimal.NewFromFloat(0.25)

	// one and two second windows hit the clamped binomial terms
	f1 := CompoundedInterest(rate, 1)
	f2 := CompoundedInterest(rate, 2)

	assert.True(t, f1.GreaterThan(decimal.New(1, 0)))
	assert.True(t, f2.GreaterThan(f1))
}

func TestInterestFactorsNeverDecrease(t *testing.T) {
	rate := decimal.NewFromFloat(0.35)

	prevLinear := decimal.Zero
	prevCompounded := decimal.Zero
	for _, elapsed := range []int64{1, 60, 3600, 86400, 2592000, 31536000} {
		linear := LinearInterest(rate, elapsed)
		compounded := CompoundedInterest(rate, elapsed)

		require.True(t, linear.GreaterThan(prevLinear))
		require.True(t, compounded.GreaterThan(prevCompounded))

		prevLinear = linear
		prevCompounded = compounded
	}
}
