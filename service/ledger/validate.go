package ledger

import (
	"sigh/core"
	"sigh/internal/sigh"

	"github.com/shopspring/decimal"
)

func validateDeposit(instrument *core.Instrument, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	if !instrument.IsActive() {
		return core.ErrInactiveInstrument
	}
	if instrument.IsFrozen() {
		return core.ErrFrozenInstrument
	}

	return nil
}

// validateWithdraw balance and pool liquidity checks; the health factor
// projection is handled by the caller because it needs the full account
func validateWithdraw(instrument *core.Instrument, balance, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	if !instrument.IsActive() {
		return core.ErrInactiveInstrument
	}
	if balance.LessThan(amount) {
		return core.ErrInsufficientBalance
	}
	if instrument.TotalCash.LessThan(amount) {
		return core.ErrInsufficientLiquidity
	}

	return nil
}

// validateWithdrawCollateral rejects a withdrawal that would leave the
// account liquidatable. valueRemoved is the liquidation threshold
// weighted quote value leaving the collateral side.
func validateWithdrawCollateral(account *core.AccountData, valueRemoved decimal.Decimal) error {
	if !account.DebtValue.IsPositive() {
		return nil
	}

	remaining := account.LiquidationValue.Sub(valueRemoved)
	if remaining.LessThan(account.DebtValue) {
		return core.ErrHealthFactorTooLow
	}

	return nil
}

type borrowCheck struct {
	instrument *core.Instrument
	account    *core.AccountData
	// quote value of the new debt including the origination fee
	debtValue decimal.Decimal
	amount    decimal.Decimal
	mode      core.RateMode
	// current stable debt of the borrower on this instrument
	userStableDebt  decimal.Decimal
	instrumentCount int64
}

func validateBorrow(c borrowCheck) error {
	if !c.amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	if !c.instrument.IsActive() {
		return core.ErrInactiveInstrument
	}
	if c.instrument.IsFrozen() {
		return core.ErrFrozenInstrument
	}
	if !c.instrument.BorrowingEnabled() {
		return core.ErrBorrowingDisabled
	}
	if c.instrumentCount > core.MaxInstruments {
		return core.ErrMaxInstrumentsReached
	}
	if c.instrument.TotalCash.LessThan(c.amount) {
		return core.ErrInsufficientLiquidity
	}

	if c.account.DebtValue.Add(c.debtValue).GreaterThan(c.account.BorrowLimit) {
		return core.ErrInsufficientCollateral
	}

	if c.mode == core.RateModeStable {
		if !c.instrument.StableBorrowingEnabled() {
			return core.ErrStableBorrowingDisabled
		}

		// a single user's stable debt may not exceed a fixed share of
		// the reserve's available liquidity
		cap := c.instrument.TotalCash.Mul(sigh.MaxStableLoanPercent)
		if c.userStableDebt.Add(c.amount).GreaterThan(cap) {
			return core.ErrExceedsStableBorrowCap
		}
	}

	return nil
}

func validateRepay(borrow *core.Borrow, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	if borrow.ID == 0 || !borrow.Principal.IsPositive() {
		return core.ErrNoDebt
	}

	return nil
}

func validateSwapRateMode(instrument *core.Instrument, borrow *core.Borrow) error {
	if borrow.ID == 0 || !borrow.Principal.IsPositive() {
		return core.ErrNoDebt
	}
	if !instrument.IsActive() {
		return core.ErrInactiveInstrument
	}
	if instrument.IsFrozen() {
		return core.ErrFrozenInstrument
	}
	if borrow.Mode == core.RateModeVariable && !instrument.StableBorrowingEnabled() {
		return core.ErrStableBorrowingDisabled
	}

	return nil
}

// validateRebalance stable rates may only be rebalanced when the pool
// is almost fully drawn and depositors earn clearly below the curve cap
func validateRebalance(instrument *core.Instrument, borrow *core.Borrow) error {
	if borrow.ID == 0 || !borrow.Principal.IsPositive() || borrow.Mode != core.RateModeStable {
		return core.ErrNoDebt
	}

	utilization := sigh.UtilizationRate(instrument.TotalCash, instrument.TotalDebt())
	if utilization.LessThanOrEqual(sigh.RebalanceUtilizationThreshold) {
		return core.ErrRebalanceNotAllowed
	}

	maxRate := sigh.MaxVariableBorrowRate(
		instrument.BaseVariableRate,
		instrument.VariableSlope1,
		instrument.VariableSlope2,
	)
	if instrument.LiquidityRate.GreaterThanOrEqual(maxRate.Mul(sigh.RebalanceLiquidityRateFactor)) {
		return core.ErrRebalanceNotAllowed
	}

	return nil
}

func validateRedirect(deposit *core.Deposit, target *core.Deposit) error {
	if deposit.ID == 0 || !deposit.Principal.IsPositive() {
		return core.ErrInsufficientBalance
	}
	if target != nil && target.RedirectTo != "" {
		// no redirect chains
		return core.ErrTransferNotAllowed
	}

	return nil
}
