package instrument

import (
	"context"
	"time"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/shopspring/decimal"
)

type instrumentService struct {
	rewardSupplierShare decimal.Decimal
}

// New new instrument service
func New(rewardSupplierShare decimal.Decimal) core.IInstrumentService {
	if !rewardSupplierShare.IsPositive() || rewardSupplierShare.GreaterThan(decimal.New(1, 0)) {
		rewardSupplierShare = decimal.NewFromFloat(0.5)
	}

	return &instrumentService{
		rewardSupplierShare: rewardSupplierShare,
	}
}

// UpdateState accrues interest since LastUpdatedAt into the liquidity
// and variable borrow indices, compounds the stable debt stock at the
// average stable rate, routes the reserve factor cut, and advances the
// SIGH stream indices. Indices never decrease.
func (s *instrumentService) UpdateState(ctx context.Context, instrument *core.Instrument, now time.Time) error {
	if !instrument.LiquidityIndex.IsPositive() {
		instrument.LiquidityIndex = decimal.New(1, 0)
	}
	if !instrument.VariableBorrowIndex.IsPositive() {
		instrument.VariableBorrowIndex = decimal.New(1, 0)
	}

	elapsed := now.Unix() - instrument.LastUpdatedAt.Unix()
	if elapsed <= 0 {
		return nil
	}

	if instrument.LiquidityRate.IsPositive() {
		factor := sigh.LinearInterest(instrument.LiquidityRate, elapsed)
		instrument.LiquidityIndex = instrument.LiquidityIndex.Mul(factor).Truncate(sigh.MaxPrecision)
	}

	if instrument.TotalVariableDebt.IsPositive() && instrument.VariableBorrowRate.IsPositive() {
		factor := sigh.CompoundedInterest(instrument.VariableBorrowRate, elapsed)
		accrued := instrument.TotalVariableDebt.Mul(factor.Sub(decimal.New(1, 0))).Truncate(sigh.MaxPrecision)
		instrument.VariableBorrowIndex = instrument.VariableBorrowIndex.Mul(factor).Truncate(sigh.MaxPrecision)
		instrument.TotalVariableDebt = instrument.TotalVariableDebt.Add(accrued)
		instrument.Reserves = instrument.Reserves.Add(accrued.Mul(instrument.ReserveFactor).Truncate(sigh.MaxPrecision))
	}

	if instrument.TotalStableDebt.IsPositive() && instrument.AvgStableRate.IsPositive() {
		factor := sigh.CompoundedInterest(instrument.AvgStableRate, elapsed)
		accrued := instrument.TotalStableDebt.Mul(factor.Sub(decimal.New(1, 0))).Truncate(sigh.MaxPrecision)
		instrument.TotalStableDebt = instrument.TotalStableDebt.Add(accrued)
		instrument.Reserves = instrument.Reserves.Add(accrued.Mul(instrument.ReserveFactor).Truncate(sigh.MaxPrecision))
	}

	s.accrueRewardIndices(instrument, elapsed)

	instrument.LastUpdatedAt = now
	return nil
}

// SIGH stream: the per second speed is split between the supplier and
// borrower sides and spread over the respective balances as a cumulative
// per unit index.
func (s *instrumentService) accrueRewardIndices(instrument *core.Instrument, elapsed int64) {
	if !instrument.RewardSpeed.IsPositive() {
		return
	}

	delta := decimal.NewFromInt(elapsed)
	supplierSpeed := instrument.RewardSpeed.Mul(s.rewardSupplierShare)
	borrowerSpeed := instrument.RewardSpeed.Sub(supplierSpeed)

	if liquidity := instrument.TotalLiquidity(); liquidity.IsPositive() {
		instrument.SupplierRewardIndex = instrument.SupplierRewardIndex.
			Add(supplierSpeed.Mul(delta).DivRound(liquidity, sigh.MaxPrecision+2)).Truncate(sigh.MaxPrecision)
	}
	if debt := instrument.TotalDebt(); debt.IsPositive() {
		instrument.BorrowerRewardIndex = instrument.BorrowerRewardIndex.
			Add(borrowerSpeed.Mul(delta).DivRound(debt, sigh.MaxPrecision+2)).Truncate(sigh.MaxPrecision)
	}
}

// UpdateInterestRates applies the pending cash delta and recomputes the
// current rates from the curve at the new utilization. Callers mutate
// debt totals first, then hand the cash movement here.
func (s *instrumentService) UpdateInterestRates(ctx context.Context, instrument *core.Instrument, liquidityAdded, liquidityTaken decimal.Decimal) error {
	cash := instrument.TotalCash.Add(liquidityAdded).Sub(liquidityTaken)
	if cash.IsNegative() {
		return core.ErrInsufficientLiquidity
	}
	instrument.TotalCash = cash.Truncate(sigh.MaxPrecision)

	utilization := sigh.UtilizationRate(instrument.TotalCash, instrument.TotalDebt())

	variableRate := sigh.GetVariableBorrowRate(
		utilization,
		instrument.BaseVariableRate,
		instrument.VariableSlope1,
		instrument.VariableSlope2,
		instrument.OptimalUtilization,
	)
	stableRate := sigh.GetStableBorrowRate(
		utilization,
		instrument.BaseStableRate,
		instrument.StableSlope1,
		instrument.StableSlope2,
		instrument.OptimalUtilization,
	)
	overall := sigh.GetOverallBorrowRate(
		instrument.TotalVariableDebt,
		instrument.TotalStableDebt,
		variableRate,
		instrument.AvgStableRate,
	)

	instrument.VariableBorrowRate = variableRate
	instrument.StableBorrowRate = stableRate
	instrument.LiquidityRate = sigh.GetLiquidityRate(overall, utilization, instrument.ReserveFactor)

	return nil
}

func (s *instrumentService) CurUtilizationRate(ctx context.Context, instrument *core.Instrument) decimal.Decimal {
	return sigh.UtilizationRate(instrument.TotalCash, instrument.TotalDebt())
}
