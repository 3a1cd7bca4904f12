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

// InitInstrumentRequest list a new instrument. Risk and curve config is
// taken as-is; indices start at one and all totals at zero.
type InitInstrumentRequest struct {
	TraceID        string `json:"trace_id"`
	AssetID        string `json:"asset_id"`
	Symbol         string `json:"symbol"`
	Decimals       int32  `json:"decimals"`
	ITokenAssetID  string `json:"itoken_asset_id"`
	StableDebtID   string `json:"stable_debt_id"`
	VariableDebtID string `json:"variable_debt_id"`

	LTV                  decimal.Decimal `json:"ltv"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	LiquidationBonus     decimal.Decimal `json:"liquidation_bonus"`
	ReserveFactor        decimal.Decimal `json:"reserve_factor"`

	OptimalUtilization decimal.Decimal `json:"optimal_utilization"`
	BaseVariableRate   decimal.Decimal `json:"base_variable_rate"`
	VariableSlope1     decimal.Decimal `json:"variable_slope1"`
	VariableSlope2     decimal.Decimal `json:"variable_slope2"`
	BaseStableRate     decimal.Decimal `json:"base_stable_rate"`
	StableSlope1       decimal.Decimal `json:"stable_slope1"`
	StableSlope2       decimal.Decimal `json:"stable_slope2"`
}

// InitInstrument lists a new instrument. The ledger tracks at most
// MaxInstruments markets because user positions live in fixed width
// bitmaps.
func (l *Ledger) InitInstrument(ctx context.Context, req InitInstrumentRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "init_instrument")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	count, err := l.instrumentStore.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= core.MaxInstruments {
		return nil, core.ErrMaxInstrumentsReached
	}

	if _, err := l.instrumentStore.Find(ctx, req.AssetID); err == nil {
		return nil, core.ErrDuplicateInstrument
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	if _, err := l.instrumentStore.FindBySymbol(ctx, req.Symbol); err == nil {
		return nil, core.ErrDuplicateInstrument
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	now := time.Now()
	one := decimal.New(1, 0)
	instrument := &core.Instrument{
		AssetID:        req.AssetID,
		Symbol:         req.Symbol,
		Decimals:       req.Decimals,
		ITokenAssetID:  req.ITokenAssetID,
		StableDebtID:   req.StableDebtID,
		VariableDebtID: req.VariableDebtID,
		Flags:          core.FlagActive,

		LTV:                  req.LTV,
		LiquidationThreshold: req.LiquidationThreshold,
		LiquidationBonus:     req.LiquidationBonus,
		ReserveFactor:        req.ReserveFactor,

		OptimalUtilization: req.OptimalUtilization,
		BaseVariableRate:   req.BaseVariableRate,
		VariableSlope1:     req.VariableSlope1,
		VariableSlope2:     req.VariableSlope2,
		BaseStableRate:     req.BaseStableRate,
		StableSlope1:       req.StableSlope1,
		StableSlope2:       req.StableSlope2,

		LiquidityIndex:      one,
		VariableBorrowIndex: one,
		LastUpdatedAt:       now,
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeInstrumentInit,
		AssetID: req.AssetID,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.instrumentStore.Create(ctx, tx, instrument); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"symbol": req.Symbol,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("init instrument aborted")
		return nil, err
	}

	return transaction, nil
}

// FlagsRequest toggle configuration flags on an instrument
type FlagsRequest struct {
	TraceID string              `json:"trace_id"`
	AssetID string              `json:"asset_id"`
	Set     core.InstrumentFlag `json:"set"`
	Clear   core.InstrumentFlag `json:"clear"`
}

// SetInstrumentFlags toggles flags on a listed instrument. Interest
// accrues up to now first so disabling borrowing settles at the old
// rates.
func (l *Ledger) SetInstrumentFlags(ctx context.Context, req FlagsRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "set_flags")

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

	instrument.SetFlag(req.Set)
	instrument.ClearFlag(req.Clear)

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeInstrumentFlags,
		AssetID: req.AssetID,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.instrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.Zero); err != nil {
			return err
		}
		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"flags": instrument.Flags,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("set flags aborted")
		return nil, err
	}

	return transaction, nil
}

// RewardSpeedRequest change the SIGH emission rate of an instrument
type RewardSpeedRequest struct {
	TraceID string          `json:"trace_id"`
	AssetID string          `json:"asset_id"`
	Speed   decimal.Decimal `json:"speed"`
}

// SetRewardSpeed changes the per second SIGH emission of an instrument.
// Stream indices accrue at the old speed first.
func (l *Ledger) SetRewardSpeed(ctx context.Context, req RewardSpeedRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "set_reward_speed")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	if req.Speed.IsNegative() {
		return nil, core.ErrInvalidAmount
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

	oldSpeed := instrument.RewardSpeed
	instrument.RewardSpeed = req.Speed

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeRewardSpeed,
		AssetID: req.AssetID,
		Amount:  req.Speed,
	}

	err = l.tx(func(tx *db.DB) error {
		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"old_speed": oldSpeed,
			"new_speed": req.Speed,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("set reward speed aborted")
		return nil, err
	}

	return transaction, nil
}

// PostPriceRequest oracle price submission
type PostPriceRequest struct {
	TraceID string          `json:"trace_id"`
	AssetID string          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
}

// PostPrice stores a new oracle price for the asset. Non positive
// prices are rejected; valuation always reads the latest posted price.
func (l *Ledger) PostPrice(ctx context.Context, req PostPriceRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "post_price")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	if !req.Price.IsPositive() {
		return nil, core.ErrInvalidPrice
	}

	now := time.Now()
	price := &core.Price{
		AssetID:  req.AssetID,
		Price:    req.Price,
		PostedAt: now,
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypePrice,
		AssetID: req.AssetID,
		Amount:  req.Price,
	}

	err := l.tx(func(tx *db.DB) error {
		if err := l.priceStore.Save(ctx, tx, price); err != nil {
			return err
		}
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("post price aborted")
		return nil, err
	}

	return transaction, nil
}
