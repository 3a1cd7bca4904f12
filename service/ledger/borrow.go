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

// BorrowRequest open or grow a debt position
type BorrowRequest struct {
	TraceID   string          `json:"trace_id"`
	UserID    string          `json:"user_id"`
	AssetID   string          `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      core.RateMode   `json:"mode"`
	BoosterID string          `json:"booster_id"`
}

// Borrow draws liquidity against the account collateral. The
// origination fee is added to the debt principal and routed to the fee
// accumulators; the first borrow of an instrument sets the borrowing
// bit.
func (l *Ledger) Borrow(ctx context.Context, req BorrowRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "borrow")

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

	account, err := l.accountService.AccountData(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}

	price, err := l.priceService.GetAssetPrice(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	count, err := l.instrumentStore.Count(ctx)
	if err != nil {
		return nil, err
	}

	fee := l.feeService.CalculateBorrowFee(ctx, req.UserID, amount, req.BoosterID)
	newDebt := amount.Add(fee.Total)

	borrow, err := l.findBorrow(ctx, req.UserID, req.AssetID, req.Mode)
	if err != nil {
		return nil, err
	}

	userStableDebt := decimal.Zero
	if req.Mode == core.RateModeStable {
		userStableDebt, err = l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return nil, err
		}
	}

	if err := validateBorrow(borrowCheck{
		instrument:      instrument,
		account:         account,
		debtValue:       newDebt.Mul(price),
		amount:          amount,
		mode:            req.Mode,
		userStableDebt:  userStableDebt,
		instrumentCount: count,
	}); err != nil {
		return nil, err
	}

	cfg, err := l.userConfig(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeBorrow,
		UserID:  req.UserID,
		AssetID: req.AssetID,
		Amount:  amount,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.rewardService.AccrueBorrower(ctx, tx, instrument, borrow); err != nil {
			return err
		}

		// settle accrued interest into the principal before it grows
		balance, err := l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return err
		}

		switch req.Mode {
		case core.RateModeStable:
			// lock a blended rate across the old and the new tranche
			total := balance.Add(newDebt)
			blended := balance.Mul(borrow.StableRate).
				Add(newDebt.Mul(instrument.StableBorrowRate)).
				DivRound(total, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)

			stock := instrument.TotalStableDebt
			instrument.AvgStableRate = stock.Mul(instrument.AvgStableRate).
				Add(newDebt.Mul(instrument.StableBorrowRate)).
				DivRound(stock.Add(newDebt), sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
			instrument.TotalStableDebt = stock.Add(newDebt)

			borrow.Principal = total
			borrow.StableRate = blended
			borrow.LastAccruedAt = now
		default:
			instrument.TotalVariableDebt = instrument.TotalVariableDebt.Add(newDebt)
			borrow.Principal = balance.Add(newDebt).Truncate(sigh.MaxPrecision)
			borrow.InterestIndex = instrument.VariableBorrowIndex
		}

		if !cfg.Borrowing(instrument.ID) {
			cfg.Borrowings.Set(instrument.ID)
		}
		cfg.PlatformFeePaid = cfg.PlatformFeePaid.Add(fee.Platform)
		cfg.ReserveFeePaid = cfg.ReserveFeePaid.Add(fee.Reserve)

		instrument.PlatformFees = instrument.PlatformFees.Add(fee.Platform)
		instrument.Reserves = instrument.Reserves.Add(fee.Reserve)
		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, amount); err != nil {
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
			"mode":         req.Mode,
			"fee":          fee,
			"principal":    borrow.Principal,
			"borrow_index": instrument.VariableBorrowIndex,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("borrow aborted")
		return nil, err
	}

	return transaction, nil
}
