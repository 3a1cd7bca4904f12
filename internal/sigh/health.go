package sigh

import (
	"github.com/shopspring/decimal"
)

// PositionValue one instrument of a user account valued in the quote
// currency
type PositionValue struct {
	Collateral           decimal.Decimal
	LiquidationThreshold decimal.Decimal
	LTV                  decimal.Decimal
	Debt                 decimal.Decimal
}

// AccountTotals aggregate quote currency values of an account
type AccountTotals struct {
	Collateral       decimal.Decimal
	LiquidationValue decimal.Decimal
	BorrowLimit      decimal.Decimal
	Debt             decimal.Decimal
}

// Totals sums the positions
func Totals(positions []PositionValue) AccountTotals {
	t := AccountTotals{
		Collateral:       decimal.Zero,
		LiquidationValue: decimal.Zero,
		BorrowLimit:      decimal.Zero,
		Debt:             decimal.Zero,
	}

	for _, p := range positions {
		t.Collateral = t.Collateral.Add(p.Collateral)
		t.LiquidationValue = t.LiquidationValue.Add(p.Collateral.Mul(p.LiquidationThreshold))
		t.BorrowLimit = t.BorrowLimit.Add(p.Collateral.Mul(p.LTV))
		t.Debt = t.Debt.Add(p.Debt)
	}

	return t
}

// HealthFactor risk adjusted collateral over debt. Accounts without debt
// report MaxHealthFactor.
func HealthFactor(totals AccountTotals) decimal.Decimal {
	if !totals.Debt.IsPositive() {
		return MaxHealthFactor
	}

	// shopspring Div already rounds at MaxPrecision, so truncation needs
	// the extra digits from DivRound first
	return totals.LiquidationValue.DivRound(totals.Debt, MaxPrecision+2).Truncate(MaxPrecision)
}
