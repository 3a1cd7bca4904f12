package sigh

import (
	"github.com/shopspring/decimal"
)

// UtilizationRate debt / (cash + debt)
func UtilizationRate(cash, debt decimal.Decimal) decimal.Decimal {
	total := cash.Add(debt)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return debt.DivRound(total, MaxPrecision+2).Truncate(MaxPrecision)
}

// GetVariableBorrowRate piecewise linear curve with a kink at the
// optimal utilization
func GetVariableBorrowRate(utilization, base, slope1, slope2, optimal decimal.Decimal) decimal.Decimal {
	if !optimal.IsPositive() || utilization.LessThanOrEqual(optimal) {
		if !optimal.IsPositive() {
			return base.Truncate(MaxPrecision)
		}
		return base.Add(slope1.Mul(utilization).DivRound(optimal, MaxPrecision+2)).Truncate(MaxPrecision)
	}

	excess := utilization.Sub(optimal).DivRound(decimal.New(1, 0).Sub(optimal), MaxPrecision+2)
	return base.Add(slope1).Add(slope2.Mul(excess)).Truncate(MaxPrecision)
}

// GetStableBorrowRate same kink shape over the stable slopes
func GetStableBorrowRate(utilization, base, slope1, slope2, optimal decimal.Decimal) decimal.Decimal {
	return GetVariableBorrowRate(utilization, base, slope1, slope2, optimal)
}

// GetOverallBorrowRate debt weighted average of the two borrow sides
func GetOverallBorrowRate(totalVariableDebt, totalStableDebt, variableRate, avgStableRate decimal.Decimal) decimal.Decimal {
	totalDebt := totalVariableDebt.Add(totalStableDebt)
	if !totalDebt.IsPositive() {
		return decimal.Zero
	}

	weighted := totalVariableDebt.Mul(variableRate).Add(totalStableDebt.Mul(avgStableRate))
	return weighted.DivRound(totalDebt, MaxPrecision+2).Truncate(MaxPrecision)
}

// GetLiquidityRate supply side rate, the borrow interest flowing back to
// depositors after the reserve cut
func GetLiquidityRate(overallBorrowRate, utilization, reserveFactor decimal.Decimal) decimal.Decimal {
	oneMinusReserve := decimal.New(1, 0).Sub(reserveFactor)
	return overallBorrowRate.Mul(utilization).Mul(oneMinusReserve).Truncate(MaxPrecision)
}

// MaxVariableBorrowRate rate at full utilization
func MaxVariableBorrowRate(base, slope1, slope2 decimal.Decimal) decimal.Decimal {
	return base.Add(slope1).Add(slope2).Truncate(MaxPrecision)
}
