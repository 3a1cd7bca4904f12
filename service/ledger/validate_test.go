package ledger

import (
	"testing"

	"sigh/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testMarket() *core.Instrument {
	return &core.Instrument{
		ID:      1,
		AssetID: "asset-usdc",
		Symbol:  "USDC",
		Flags: core.FlagActive |
			core.FlagBorrowingEnabled |
			core.FlagStableBorrowingEnabled |
			core.FlagCollateralEnabled,

		LTV:                  decimal.NewFromFloat(0.8),
		LiquidationThreshold: decimal.NewFromFloat(0.85),

		BaseVariableRate: decimal.NewFromFloat(0.01),
		VariableSlope1:   decimal.NewFromFloat(0.04),
		VariableSlope2:   decimal.NewFromFloat(0.6),

		LiquidityIndex:      decimal.New(1, 0),
		VariableBorrowIndex: decimal.New(1, 0),
		TotalCash:           decimal.NewFromInt(1000),
	}
}

func TestValidateDeposit(t *testing.T) {
	market := testMarket()

	assert.Nil(t, validateDeposit(market, decimal.NewFromInt(100)))
	assert.Equal(t, core.ErrInvalidAmount, validateDeposit(market, decimal.Zero))
	assert.Equal(t, core.ErrInvalidAmount, validateDeposit(market, decimal.NewFromInt(-1)))

	market.ClearFlag(core.FlagActive)
	assert.Equal(t, core.ErrInactiveInstrument, validateDeposit(market, decimal.NewFromInt(100)))

	market = testMarket()
	market.SetFlag(core.FlagFrozen)
	assert.Equal(t, core.ErrFrozenInstrument, validateDeposit(market, decimal.NewFromInt(100)))
}

func TestValidateWithdraw(t *testing.T) {
	market := testMarket()
	balance := decimal.NewFromInt(500)

	assert.Nil(t, validateWithdraw(market, balance, decimal.NewFromInt(500)))
	assert.Equal(t, core.ErrInvalidAmount, validateWithdraw(market, balance, decimal.Zero))
	assert.Equal(t, core.ErrInsufficientBalance, validateWithdraw(market, balance, decimal.NewFromInt(501)))

	market.TotalCash = decimal.NewFromInt(300)
	assert.Equal(t, core.ErrInsufficientLiquidity, validateWithdraw(market, balance, decimal.NewFromInt(400)))
}

func TestValidateWithdrawCollateral(t *testing.T) {
	account := &core.AccountData{
		LiquidationValue: decimal.NewFromInt(850),
		DebtValue:        decimal.NewFromInt(700),
	}

	assert.Nil(t, validateWithdrawCollateral(account, decimal.NewFromInt(150)))
	assert.Equal(t, core.ErrHealthFactorTooLow, validateWithdrawCollateral(account, decimal.NewFromInt(151)))

	// debt free accounts may always withdraw
	free := &core.AccountData{LiquidationValue: decimal.NewFromInt(850)}
	assert.Nil(t, validateWithdrawCollateral(free, decimal.NewFromInt(9999)))
}

func TestValidateBorrow(t *testing.T) {
	// 1000 collateral at LTV 0.8 gives a borrow limit of 800
	account := &core.AccountData{
		CollateralValue: decimal.NewFromInt(1000),
		BorrowLimit:     decimal.NewFromInt(800),
		DebtValue:       decimal.NewFromInt(700),
	}

	check := borrowCheck{
		instrument:      testMarket(),
		account:         account,
		debtValue:       decimal.NewFromInt(100),
		amount:          decimal.NewFromInt(100),
		mode:            core.RateModeVariable,
		instrumentCount: 5,
	}
	assert.Nil(t, validateBorrow(check))

	over := check
	over.debtValue = decimal.NewFromInt(150)
	over.amount = decimal.NewFromInt(150)
	assert.Equal(t, core.ErrInsufficientCollateral, validateBorrow(over))

	dry := check
	dry.instrument = testMarket()
	dry.instrument.TotalCash = decimal.NewFromInt(50)
	assert.Equal(t, core.ErrInsufficientLiquidity, validateBorrow(dry))

	full := check
	full.instrumentCount = core.MaxInstruments + 1
	assert.Equal(t, core.ErrMaxInstrumentsReached, validateBorrow(full))

	disabled := check
	disabled.instrument = testMarket()
	disabled.instrument.ClearFlag(core.FlagBorrowingEnabled)
	assert.Equal(t, core.ErrBorrowingDisabled, validateBorrow(disabled))
}

func TestValidateBorrowStableCap(t *testing.T) {
	account := &core.AccountData{
		BorrowLimit: decimal.NewFromInt(100000),
	}

	check := borrowCheck{
		instrument:      testMarket(),
		account:         account,
		debtValue:       decimal.NewFromInt(100),
		amount:          decimal.NewFromInt(100),
		mode:            core.RateModeStable,
		instrumentCount: 1,
	}
	// cap is 25% of the 1000 cash pool
	assert.Nil(t, validateBorrow(check))

	check.userStableDebt = decimal.NewFromInt(151)
	assert.Equal(t, core.ErrExceedsStableBorrowCap, validateBorrow(check))

	check.userStableDebt = decimal.Zero
	check.instrument.ClearFlag(core.FlagStableBorrowingEnabled)
	assert.Equal(t, core.ErrStableBorrowingDisabled, validateBorrow(check))
}

func TestValidateRepay(t *testing.T) {
	borrow := &core.Borrow{ID: 1, Principal: decimal.NewFromInt(100)}

	assert.Nil(t, validateRepay(borrow, decimal.NewFromInt(50)))
	assert.Equal(t, core.ErrInvalidAmount, validateRepay(borrow, decimal.Zero))
	assert.Equal(t, core.ErrNoDebt, validateRepay(&core.Borrow{}, decimal.NewFromInt(50)))
}

func TestValidateRebalance(t *testing.T) {
	borrow := &core.Borrow{
		ID:         1,
		Mode:       core.RateModeStable,
		Principal:  decimal.NewFromInt(100),
		StableRate: decimal.NewFromFloat(0.02),
	}

	// utilization below the threshold
	market := testMarket()
	market.TotalStableDebt = decimal.NewFromInt(500)
	assert.Equal(t, core.ErrRebalanceNotAllowed, validateRebalance(market, borrow))

	// pool nearly drained, depositors starving
	market.TotalCash = decimal.NewFromInt(10)
	market.TotalStableDebt = decimal.NewFromInt(990)
	market.LiquidityRate = decimal.NewFromFloat(0.01)
	assert.Nil(t, validateRebalance(market, borrow))

	// suppliers already earn enough
	market.LiquidityRate = decimal.NewFromInt(1)
	assert.Equal(t, core.ErrRebalanceNotAllowed, validateRebalance(market, borrow))

	variable := &core.Borrow{ID: 2, Mode: core.RateModeVariable, Principal: decimal.NewFromInt(100)}
	assert.Equal(t, core.ErrNoDebt, validateRebalance(market, variable))
}

func TestValidateRedirect(t *testing.T) {
	deposit := &core.Deposit{ID: 1, Principal: decimal.NewFromInt(100)}

	assert.Nil(t, validateRedirect(deposit, nil))
	assert.Nil(t, validateRedirect(deposit, &core.Deposit{ID: 2}))

	// the target may not itself redirect
	chained := &core.Deposit{ID: 2, RedirectTo: "user-c"}
	assert.Equal(t, core.ErrTransferNotAllowed, validateRedirect(deposit, chained))

	assert.Equal(t, core.ErrInsufficientBalance, validateRedirect(&core.Deposit{}, nil))
}
