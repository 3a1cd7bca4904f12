package ledger

import (
	"context"
	"time"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// SwapRateModeRequest move a debt position to the other rate mode
type SwapRateModeRequest struct {
	TraceID string        `json:"trace_id"`
	UserID  string        `json:"user_id"`
	AssetID string        `json:"asset_id"`
	Mode    core.RateMode `json:"mode"`
}

// SwapRateMode moves the whole position from the given mode into the
// other one at the current curve rates.
func (l *Ledger) SwapRateMode(ctx context.Context, req SwapRateModeRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "swap_rate_mode")

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

	now := time.Now()
	if err := l.instrumentService.UpdateState(ctx, instrument, now); err != nil {
		return nil, err
	}

	borrow, err := l.findBorrow(ctx, req.UserID, req.AssetID, req.Mode)
	if err != nil {
		return nil, err
	}

	if err := validateSwapRateMode(instrument, borrow); err != nil {
		return nil, err
	}

	toMode := otherMode(req.Mode)
	if toMode == core.RateModeStable {
		// the swapped amount is new stable exposure, the cap applies
		cap := instrument.TotalCash.Mul(sigh.MaxStableLoanPercent)
		balance, err := l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return nil, err
		}
		if balance.GreaterThan(cap) {
			return nil, core.ErrExceedsStableBorrowCap
		}
	}

	other, err := l.findBorrow(ctx, req.UserID, req.AssetID, toMode)
	if err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeSwapRateMode,
		UserID:  req.UserID,
		AssetID: req.AssetID,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.rewardService.AccrueBorrower(ctx, tx, instrument, borrow); err != nil {
			return err
		}
		if err := l.rewardService.AccrueBorrower(ctx, tx, instrument, other); err != nil {
			return err
		}

		balance, err := l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return err
		}
		otherBalance, err := l.borrowService.BorrowBalance(ctx, other, instrument, now)
		if err != nil {
			return err
		}

		// close the source side
		switch req.Mode {
		case core.RateModeStable:
			accrued := balance.Sub(borrow.Principal)
			stock := instrument.TotalStableDebt.Add(accrued)
			remaining := stock.Sub(balance)
			if remaining.IsPositive() {
				weight := stock.Mul(instrument.AvgStableRate).Sub(balance.Mul(borrow.StableRate))
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
		default:
			instrument.TotalVariableDebt = instrument.TotalVariableDebt.Sub(balance)
			if instrument.TotalVariableDebt.IsNegative() {
				instrument.TotalVariableDebt = decimal.Zero
			}
		}
		borrow.Principal = decimal.Zero
		borrow.StableRate = decimal.Zero
		borrow.InterestIndex = instrument.VariableBorrowIndex
		borrow.LastAccruedAt = now

		// open the destination side with the full balance
		switch toMode {
		case core.RateModeStable:
			total := otherBalance.Add(balance)
			blended := otherBalance.Mul(other.StableRate).
				Add(balance.Mul(instrument.StableBorrowRate)).
				DivRound(total, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)

			stock := instrument.TotalStableDebt
			instrument.AvgStableRate = stock.Mul(instrument.AvgStableRate).
				Add(balance.Mul(instrument.StableBorrowRate)).
				DivRound(stock.Add(balance), sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
			instrument.TotalStableDebt = stock.Add(balance)

			other.Principal = total
			other.StableRate = blended
			other.LastAccruedAt = now
		default:
			instrument.TotalVariableDebt = instrument.TotalVariableDebt.Add(balance)
			other.Principal = otherBalance.Add(balance).Truncate(sigh.MaxPrecision)
			other.InterestIndex = instrument.VariableBorrowIndex
		}

		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.Zero); err != nil {
			return err
		}

		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}
		if err := l.borrowStore.Save(ctx, tx, borrow); err != nil {
			return err
		}
		if err := l.borrowStore.Save(ctx, tx, other); err != nil {
			return err
		}

		transaction.Amount = balance
		transaction.SetExtra(core.TransactionExtra{
			"from_mode": req.Mode,
			"to_mode":   toMode,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("swap rate mode aborted")
		return nil, err
	}

	return transaction, nil
}

// RebalanceRequest rebalance a stable borrow to the current curve rate
type RebalanceRequest struct {
	TraceID string `json:"trace_id"`
	UserID  string `json:"user_id"`
	AssetID string `json:"asset_id"`
}

// RebalanceStableRate re-locks a stable position at the current stable
// rate. Only allowed while the pool is above the utilization threshold
// and depositors earn well below the variable rate cap, i.e. when old
// cheap stable loans are starving the suppliers.
func (l *Ledger) RebalanceStableRate(ctx context.Context, req RebalanceRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "rebalance")

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

	now := time.Now()
	if err := l.instrumentService.UpdateState(ctx, instrument, now); err != nil {
		return nil, err
	}

	borrow, err := l.findBorrow(ctx, req.UserID, req.AssetID, core.RateModeStable)
	if err != nil {
		return nil, err
	}

	if err := validateRebalance(instrument, borrow); err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeRebalance,
		UserID:  req.UserID,
		AssetID: req.AssetID,
	}

	err = l.tx(func(tx *db.DB) error {
		balance, err := l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return err
		}

		oldRate := borrow.StableRate

		// re-weight the pool average from the old rate to the new one
		stock := instrument.TotalStableDebt
		if stock.IsPositive() {
			weight := stock.Mul(instrument.AvgStableRate).
				Sub(balance.Mul(oldRate)).
				Add(balance.Mul(instrument.StableBorrowRate))
			if weight.IsPositive() {
				instrument.AvgStableRate = weight.DivRound(stock, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
			} else {
				instrument.AvgStableRate = decimal.Zero
			}
		}

		borrow.Principal = balance
		borrow.StableRate = instrument.StableBorrowRate
		borrow.LastAccruedAt = now

		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.Zero); err != nil {
			return err
		}

		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}
		if err := l.borrowStore.Save(ctx, tx, borrow); err != nil {
			return err
		}

		transaction.Amount = balance
		transaction.SetExtra(core.TransactionExtra{
			"old_rate": oldRate,
			"new_rate": borrow.StableRate,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("rebalance aborted")
		return nil, err
	}

	return transaction, nil
}
