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

// DepositRequest deposit liquidity into an instrument
type DepositRequest struct {
	TraceID   string          `json:"trace_id"`
	UserID    string          `json:"user_id"`
	AssetID   string          `json:"asset_id"`
	Amount    decimal.Decimal `json:"amount"`
	BoosterID string          `json:"booster_id"`
}

// Deposit adds liquidity. A first deposit automatically enables the
// instrument as collateral for the user.
func (l *Ledger) Deposit(ctx context.Context, req DepositRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "deposit")

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
	if err := validateDeposit(instrument, amount); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := l.instrumentService.UpdateState(ctx, instrument, now); err != nil {
		return nil, err
	}

	fee := l.feeService.CalculateDepositFee(ctx, req.UserID, amount, req.BoosterID)
	net := amount.Sub(fee.Total)
	if !net.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	deposit, err := l.findDeposit(ctx, req.UserID, req.AssetID)
	if err != nil {
		return nil, err
	}

	cfg, err := l.userConfig(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeDeposit,
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

		firstDeposit := !deposit.Principal.IsPositive()
		deposit.Principal = deposit.Principal.Add(net)
		deposit.InterestIndex = instrument.LiquidityIndex
		adjustRedirected(target, net)

		if firstDeposit && instrument.CollateralEnabled() {
			cfg.Collaterals.Set(instrument.ID)
		}
		cfg.PlatformFeePaid = cfg.PlatformFeePaid.Add(fee.Platform)
		cfg.ReserveFeePaid = cfg.ReserveFeePaid.Add(fee.Reserve)

		instrument.PlatformFees = instrument.PlatformFees.Add(fee.Platform)
		instrument.Reserves = instrument.Reserves.Add(fee.Reserve)
		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, amount, decimal.Zero); err != nil {
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
			"net":             net,
			"fee":             fee,
			"liquidity_index": instrument.LiquidityIndex,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("deposit aborted")
		return nil, err
	}

	return transaction, nil
}
