package ledger

import (
	"context"
	"time"

	"sigh/core"
	"sigh/internal/sigh"
	"sigh/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// LiquidateRequest repay an unhealthy account's debt and seize its
// collateral at a bonus
type LiquidateRequest struct {
	TraceID           string          `json:"trace_id"`
	Liquidator        string          `json:"liquidator"`
	UserID            string          `json:"user_id"`
	DebtAssetID       string          `json:"debt_asset_id"`
	CollateralAssetID string          `json:"collateral_asset_id"`
	Amount            decimal.Decimal `json:"amount"`
	Mode              core.RateMode   `json:"mode"`
}

// Liquidate is only allowed while the borrower's health factor is below
// one. The liquidator may repay up to the close factor share of the
// debt and receives collateral valued at the liquidation bonus; excess
// payment is refunded.
func (l *Ledger) Liquidate(ctx context.Context, req LiquidateRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "liquidate")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	debtInstrument, err := l.instrumentStore.Find(ctx, req.DebtAssetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrInstrumentNotFound
		}
		return nil, err
	}

	collateralInstrument, err := l.instrumentStore.Find(ctx, req.CollateralAssetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrInstrumentNotFound
		}
		return nil, err
	}

	amount := req.Amount.Truncate(8)
	if !amount.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	now := time.Now()
	if err := l.instrumentService.UpdateState(ctx, debtInstrument, now); err != nil {
		return nil, err
	}
	if err := l.instrumentService.UpdateState(ctx, collateralInstrument, now); err != nil {
		return nil, err
	}

	account, err := l.accountService.AccountData(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}
	if !account.Liquidatable() {
		return nil, core.ErrSeizeNotAllowed
	}

	borrowerCfg, err := l.userConfig(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !borrowerCfg.UsingAsCollateral(collateralInstrument.ID) {
		return nil, core.ErrSeizeNotAllowed
	}

	debtPrice, err := l.priceService.GetAssetPrice(ctx, req.DebtAssetID)
	if err != nil {
		return nil, err
	}
	collateralPrice, err := l.priceService.GetAssetPrice(ctx, req.CollateralAssetID)
	if err != nil {
		return nil, err
	}

	borrow, err := l.findBorrow(ctx, req.UserID, req.DebtAssetID, req.Mode)
	if err != nil {
		return nil, err
	}
	if borrow.ID == 0 || !borrow.Principal.IsPositive() {
		return nil, core.ErrNoDebt
	}

	seized, err := l.findDeposit(ctx, req.UserID, req.CollateralAssetID)
	if err != nil {
		return nil, err
	}

	liquidatorDeposit, err := l.findDeposit(ctx, req.Liquidator, req.CollateralAssetID)
	if err != nil {
		return nil, err
	}

	liquidatorCfg, err := l.userConfig(ctx, req.Liquidator)
	if err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeLiquidate,
		UserID:  req.Liquidator,
		AssetID: req.DebtAssetID,
		Amount:  amount,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.rewardService.AccrueBorrower(ctx, tx, debtInstrument, borrow); err != nil {
			return err
		}
		if err := l.rewardService.AccrueSupplier(ctx, tx, collateralInstrument, seized); err != nil {
			return err
		}
		if err := l.rewardService.AccrueSupplier(ctx, tx, collateralInstrument, liquidatorDeposit); err != nil {
			return err
		}

		seizedTarget, err := l.settleDeposit(ctx, collateralInstrument, seized)
		if err != nil {
			return err
		}
		liquidatorTarget, err := l.settleDeposit(ctx, collateralInstrument, liquidatorDeposit)
		if err != nil {
			return err
		}

		balance, err := l.borrowService.BorrowBalance(ctx, borrow, debtInstrument, now)
		if err != nil {
			return err
		}

		bonus := decimal.New(1, 0).Add(collateralInstrument.LiquidationBonus)
		maxRepay := balance.Mul(sigh.CloseFactor).Truncate(sigh.MaxPrecision)
		repay := number.Min(amount, maxRepay)
		seizeAmount := repay.Mul(debtPrice).Mul(bonus).DivRound(collateralPrice, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)

		if seizeAmount.GreaterThan(seized.Principal) {
			seizeAmount = seized.Principal
			repay = seizeAmount.Mul(collateralPrice).DivRound(bonus.Mul(debtPrice), sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
		}
		refund := amount.Sub(repay)

		// move the collateral from the borrower to the liquidator
		seized.Principal = seized.Principal.Sub(seizeAmount)
		adjustRedirected(seizedTarget, seizeAmount.Neg())
		if !seized.Principal.IsPositive() {
			seized.Principal = decimal.Zero
			seized.RedirectTo = ""
			borrowerCfg.Collaterals.Clear(collateralInstrument.ID)
		}

		firstDeposit := !liquidatorDeposit.Principal.IsPositive()
		liquidatorDeposit.Principal = liquidatorDeposit.Principal.Add(seizeAmount)
		liquidatorDeposit.InterestIndex = collateralInstrument.LiquidityIndex
		adjustRedirected(liquidatorTarget, seizeAmount)
		if firstDeposit && collateralInstrument.CollateralEnabled() {
			liquidatorCfg.Collaterals.Set(collateralInstrument.ID)
		}

		// pay the debt back into the pool
		newBalance := balance.Sub(repay).Truncate(sigh.MaxPrecision)
		switch req.Mode {
		case core.RateModeStable:
			accrued := balance.Sub(borrow.Principal)
			stock := debtInstrument.TotalStableDebt.Add(accrued)
			remaining := stock.Sub(repay)
			if remaining.IsPositive() {
				weight := stock.Mul(debtInstrument.AvgStableRate).Sub(repay.Mul(borrow.StableRate))
				if weight.IsPositive() {
					debtInstrument.AvgStableRate = weight.DivRound(remaining, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
				} else {
					debtInstrument.AvgStableRate = decimal.Zero
				}
				debtInstrument.TotalStableDebt = remaining
			} else {
				debtInstrument.AvgStableRate = decimal.Zero
				debtInstrument.TotalStableDebt = decimal.Zero
			}
			borrow.LastAccruedAt = now
		default:
			debtInstrument.TotalVariableDebt = debtInstrument.TotalVariableDebt.Sub(repay)
			if debtInstrument.TotalVariableDebt.IsNegative() {
				debtInstrument.TotalVariableDebt = decimal.Zero
			}
			borrow.InterestIndex = debtInstrument.VariableBorrowIndex
		}

		borrow.Principal = newBalance
		if !borrow.Principal.IsPositive() {
			borrow.Principal = decimal.Zero
			borrow.StableRate = decimal.Zero

			other, err := l.findBorrow(ctx, req.UserID, req.DebtAssetID, otherMode(req.Mode))
			if err != nil {
				return err
			}
			if !other.Principal.IsPositive() {
				borrowerCfg.Borrowings.Clear(debtInstrument.ID)
			}
		}

		if err := l.instrumentService.UpdateInterestRates(ctx, debtInstrument, repay, decimal.Zero); err != nil {
			return err
		}
		if err := l.instrumentService.UpdateInterestRates(ctx, collateralInstrument, decimal.Zero, decimal.Zero); err != nil {
			return err
		}

		if err := l.instrumentStore.Update(ctx, tx, debtInstrument); err != nil {
			return err
		}
		if debtInstrument.ID != collateralInstrument.ID {
			if err := l.instrumentStore.Update(ctx, tx, collateralInstrument); err != nil {
				return err
			}
		}
		for _, deposit := range []*core.Deposit{seized, liquidatorDeposit, seizedTarget, liquidatorTarget} {
			if deposit == nil {
				continue
			}
			if err := l.depositStore.Save(ctx, tx, deposit); err != nil {
				return err
			}
		}
		if err := l.borrowStore.Save(ctx, tx, borrow); err != nil {
			return err
		}
		if err := l.userConfigStore.Save(ctx, tx, borrowerCfg); err != nil {
			return err
		}
		if err := l.userConfigStore.Save(ctx, tx, liquidatorCfg); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"seized_user":      req.UserID,
			"collateral_asset": req.CollateralAssetID,
			"seized":           seizeAmount,
			"repaid":           repay,
			"refund":           refund,
			"health_factor":    account.HealthFactor,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("liquidation aborted")
		return nil, err
	}

	return transaction, nil
}
