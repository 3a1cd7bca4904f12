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

// RepayRequest pay down a debt position
type RepayRequest struct {
	TraceID string          `json:"trace_id"`
	UserID  string          `json:"user_id"`
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
	Mode    core.RateMode   `json:"mode"`
}

// Repay pays debt back into the pool. Paying more than the outstanding
// balance refunds the excess; a full repayment clears the borrowing bit
// when no debt remains in the other rate mode.
func (l *Ledger) Repay(ctx context.Context, req RepayRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "repay")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	instrument, err := l.instrumentStore.Find(ctx, req.AssetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrInstrumentNotFound
		}
		return nil, err
	}

	amount := req.Amount.Truncate(8)
	now := time.Now()
	if err := l.instrumentService.UpdateState(ctx, instrument, now); err != nil {
		return nil, err
	}

	borrow, err := l.findBorrow(ctx, req.UserID, req.AssetID, req.Mode)
	if err != nil {
		return nil, err
	}

	if err := validateRepay(borrow, amount); err != nil {
		return nil, err
	}

	cfg, err := l.userConfig(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeRepay,
		UserID:  req.UserID,
		AssetID: req.AssetID,
		Amount:  amount,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.rewardService.AccrueBorrower(ctx, tx, instrument, borrow); err != nil {
			return err
		}

		balance, err := l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return err
		}

		repayAmount := number.Min(amount, balance)
		refund := amount.Sub(repayAmount)
		newBalance := balance.Sub(repayAmount).Truncate(sigh.MaxPrecision)

		switch req.Mode {
		case core.RateModeStable:
			accrued := balance.Sub(borrow.Principal)
			stock := instrument.TotalStableDebt.Add(accrued)
			remaining := stock.Sub(repayAmount)
			if remaining.IsPositive() {
				weight := stock.Mul(instrument.AvgStableRate).
					Sub(repayAmount.Mul(borrow.StableRate))
				if weight.IsPositive() {
					instrument.AvgStableRate = weight.DivRound(remaining, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
				} else {
					instrument.AvgStableRate = decimal.Zero
				}
				instrument.TotalStableDebt = remaining
			} else {
				instrument.AvgStableRate = decimal.Zero
				instrument.TotalStableDebt = decimal.Zero
			}
			borrow.LastAccruedAt = now
		default:
			instrument.TotalVariableDebt = instrument.TotalVariableDebt.Sub(repayAmount)
			if instrument.TotalVariableDebt.IsNegative() {
				instrument.TotalVariableDebt = decimal.Zero
			}
			borrow.InterestIndex = instrument.VariableBorrowIndex
		}

		borrow.Principal = newBalance
		if !borrow.Principal.IsPositive() {
			borrow.Principal = decimal.Zero
			borrow.StableRate = decimal.Zero

			other, err := l.findBorrow(ctx, req.UserID, req.AssetID, otherMode(req.Mode))
			if err != nil {
				return err
			}
			if !other.Principal.IsPositive() {
				cfg.Borrowings.Clear(instrument.ID)
			}
		}

		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, repayAmount, decimal.Zero); err != nil {
			return err
		}

		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}
		if err := l.borrowStore.Save(ctx, tx, borrow); err != nil {
			return err
		}
		if err := l.userConfigStore.Save(ctx, tx, cfg); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"mode":      req.Mode,
			"repaid":    repayAmount,
			"refund":    refund,
			"principal": borrow.Principal,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("repay aborted")
		return nil, err
	}

	return transaction, nil
}

func otherMode(mode core.RateMode) core.RateMode {
	if mode == core.RateModeStable {
		return core.RateModeVariable
	}
	return core.RateModeStable
}
