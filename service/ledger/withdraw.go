package ledger

import (
	"context"
	"time"

	"sigh/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// WithdrawRequest withdraw deposited liquidity
type WithdrawRequest struct {
	TraceID string          `json:"trace_id"`
	UserID  string          `json:"user_id"`
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// Withdraw removes liquidity. When the balance is used as collateral the
// remaining account must keep a health factor of at least one; a
// withdrawal to zero clears the collateral bit and resets the
// redirection state of the row.
func (l *Ledger) Withdraw(ctx context.Context, req WithdrawRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "withdraw")

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

	deposit, err := l.findDeposit(ctx, req.UserID, req.AssetID)
	if err != nil {
		return nil, err
	}

	cfg, err := l.userConfig(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	balance := deposit.Compounded(instrument)
	if deposit.RedirectTo != "" {
		// redirected interest never belongs to the owner
		balance = deposit.Principal
	}
	if err := validateWithdraw(instrument, balance, amount); err != nil {
		return nil, err
	}

	if cfg.UsingAsCollateral(instrument.ID) {
		account, err := l.accountService.AccountData(ctx, req.UserID, now)
		if err != nil {
			return nil, err
		}

		price, err := l.priceService.GetAssetPrice(ctx, req.AssetID)
		if err != nil {
			return nil, err
		}

		removed := amount.Mul(price).Mul(instrument.LiquidationThreshold)
		if err := validateWithdrawCollateral(account, removed); err != nil {
			return nil, err
		}
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeWithdraw,
		UserID:  req.UserID,
		AssetID: req.AssetID,
		Amount:  amount,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.rewardService.AccrueSupplier(ctx, tx, instrument, deposit); err != nil {
			return err
		}

		target, err := l.settleDeposit(ctx, instrument, deposit)
		if err != nil {
			return err
		}

		deposit.Principal = deposit.Principal.Sub(amount)
		adjustRedirected(target, amount.Neg())

		if !deposit.Principal.IsPositive() {
			deposit.Principal = decimal.Zero
			cfg.Collaterals.Clear(instrument.ID)
			// reset redirection and index state for the emptied row
			deposit.RedirectTo = ""
			deposit.InterestIndex = instrument.LiquidityIndex
		}

		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, amount); err != nil {
			return err
		}

		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}
		if err := l.depositStore.Save(ctx, tx, deposit); err != nil {
			return err
		}
		if target != nil {
			if err := l.depositStore.Save(ctx, tx, target); err != nil {
				return err
			}
		}
		if err := l.userConfigStore.Save(ctx, tx, cfg); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"balance":         deposit.Principal,
			"liquidity_index": instrument.LiquidityIndex,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("withdraw aborted")
		return nil, err
	}

	return transaction, nil
}
