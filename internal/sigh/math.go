package sigh

import (
	"github.com/shopspring/decimal"
)

var (
	// SecondsPerYear accrual base
	SecondsPerYear = decimal.NewFromInt(31536000)
	// CloseFactor share of debt a liquidator may repay in one call
	CloseFactor = decimal.NewFromFloat(0.5)
	// MaxStableLoanPercent cap on one user's stable debt relative to the
	// reserve available liquidity
	MaxStableLoanPercent = decimal.NewFromFloat(0.25)
	// RebalanceUtilizationThreshold rebalancing allowed above this usage
	RebalanceUtilizationThreshold = decimal.NewFromFloat(0.95)
	// RebalanceLiquidityRateFactor liquidity rate must undershoot this
	// fraction of the max variable borrow rate
	RebalanceLiquidityRateFactor = decimal.NewFromFloat(0.4)
	// MaxHealthFactor reported for accounts with no debt
	MaxHealthFactor = decimal.New(1, 9)
	// MaxPrecision max precision
	MaxPrecision int32 = 16
)

// LinearInterest cumulated factor for the liquidity index:
// 1 + rate * elapsed / seconds_per_year
func LinearInterest(rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || !rate.IsPositive() {
		return decimal.New(1, 0)
	}

	delta := decimal.NewFromInt(elapsed)
	return decimal.New(1, 0).Add(rate.Mul(delta).DivRound(SecondsPerYear, MaxPrecision+2)).Truncate(MaxPrecision)
}

// CompoundedInterest cumulated factor for debt indices, a three term
// binomial expansion of (1+r)^n over per second rates:
// 1 + n*r + n*(n-1)/2*r^2 + n*(n-1)*(n-2)/6*r^3
func CompoundedInterest(rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || !rate.IsPositive() {
		return decimal.New(1, 0)
	}

	n := decimal.NewFromInt(elapsed)
	nm1 := decimal.NewFromInt(elapsed - 1)
	nm2 := decimal.NewFromInt(elapsed - 2)
	if nm1.IsNegative() {
		nm1 = decimal.Zero
	}
	if nm2.IsNegative() {
		nm2 = decimal.Zero
	}

	r := rate.DivRound(SecondsPerYear, MaxPrecision+2)
	r2 := r.Mul(r)
	r3 := r2.Mul(r)

	second := n.Mul(nm1).Mul(r2).DivRound(decimal.NewFromInt(2), MaxPrecision+2)
	third := n.Mul(nm1).Mul(nm2).Mul(r3).DivRound(decimal.NewFromInt(6), MaxPrecision+2)

	return decimal.New(1, 0).Add(n.Mul(r)).Add(second).Add(third).Truncate(MaxPrecision)
}
