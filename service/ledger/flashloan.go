package ledger

import (
	"context"
	"sync"
	"time"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// FlashLoanRequest borrow liquidity for the duration of one operation
type FlashLoanRequest struct {
	TraceID   string               `json:"trace_id"`
	UserID    string               `json:"user_id"`
	Receiver  string               `json:"receiver"`
	Assets    []FlashLoanAssetArgs `json:"assets"`
	BoosterID string               `json:"booster_id"`
}

// FlashLoanAssetArgs one requested leg
type FlashLoanAssetArgs struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// Registry simple in-process flash loan receiver registry
type Registry struct {
	mu        sync.RWMutex
	receivers map[string]core.FlashLoanReceiver
}

// NewRegistry new registry
func NewRegistry() *Registry {
	return &Registry{receivers: make(map[string]core.FlashLoanReceiver)}
}

// Register register a named receiver
func (r *Registry) Register(name string, receiver core.FlashLoanReceiver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receivers[name] = receiver
}

// Lookup find a named receiver
func (r *Registry) Lookup(name string) (core.FlashLoanReceiver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	receiver, ok := r.receivers[name]
	return receiver, ok
}

// SettleReceiverName the receiver every deployment carries
const SettleReceiverName = "settle"

// SettleReceiver leaves every leg in repay mode so the batch settles
// with its premium. Borrowing it buys nothing, which makes it the
// smoke test of the whole flash loan pipeline in a live deployment.
type SettleReceiver struct{}

// Execute implements core.FlashLoanReceiver
func (SettleReceiver) Execute(ctx context.Context, assets []*core.FlashLoanAsset, initiator string) error {
	return nil
}

// FlashLoan transfers the requested liquidity to the receiver callback.
// Each leg must either come back with its premium, which is cumulated
// into the liquidity index, or be converted into a debt position in the
// mode the receiver signals. Any other outcome fails the whole batch.
func (l *Ledger) FlashLoan(ctx context.Context, req FlashLoanRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "flashloan")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	if len(req.Assets) == 0 {
		return nil, core.ErrInvalidAmount
	}

	receiver, ok := l.receivers.Lookup(req.Receiver)
	if !ok {
		return nil, core.ErrFlashLoanCallbackFailed
	}

	now := time.Now()
	instruments := make([]*core.Instrument, 0, len(req.Assets))
	assets := make([]*core.FlashLoanAsset, 0, len(req.Assets))

	for _, arg := range req.Assets {
		instrument, err := l.instrumentStore.Find(ctx, arg.AssetID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return nil, core.ErrInstrumentNotFound
			}
			return nil, err
		}

		amount := arg.Amount.Truncate(8)
		if !amount.IsPositive() {
			return nil, core.ErrInvalidAmount
		}
		if !instrument.IsActive() {
			return nil, core.ErrInactiveInstrument
		}
		if err := l.instrumentService.UpdateState(ctx, instrument, now); err != nil {
			return nil, err
		}
		if instrument.TotalCash.LessThan(amount) {
			return nil, core.ErrInsufficientLiquidity
		}

		fee := l.feeService.CalculateFlashLoanFee(ctx, req.UserID, amount, req.BoosterID)
		instruments = append(instruments, instrument)
		assets = append(assets, &core.FlashLoanAsset{
			AssetID: arg.AssetID,
			Amount:  amount,
			Premium: fee.Total,
			Mode:    core.FlashLoanModeRepay,
		})
	}

	// state is settled before the callback; the receiver only sees the
	// asset list and cannot observe dirty internals
	if err := receiver.Execute(ctx, assets, req.UserID); err != nil {
		log.WithError(err).Infoln("flash loan receiver failed")
		return nil, core.ErrFlashLoanCallbackFailed
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeFlashLoan,
		UserID:  req.UserID,
		AssetID: assets[0].AssetID,
		Amount:  assets[0].Amount,
	}

	err := l.tx(func(tx *db.DB) error {
		for n, asset := range assets {
			instrument := instruments[n]

			switch asset.Mode {
			case core.FlashLoanModeRepay:
				if err := l.settleFlashPremium(ctx, tx, instrument, asset, req.UserID); err != nil {
					return err
				}
			case core.FlashLoanModeStableDebt, core.FlashLoanModeVariableDebt:
				if err := l.convertFlashDebt(ctx, tx, instrument, asset, req.UserID, now); err != nil {
					return err
				}
			default:
				return core.ErrFlashLoanCallbackFailed
			}

			if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
				return err
			}
		}

		// deterministic per leg trace so receivers can reconcile
		legs := make([]string, len(assets))
		for n, asset := range assets {
			legs[n] = uuid.Modify(transaction.TraceID, "flash:"+asset.AssetID)
		}

		transaction.SetExtra(core.TransactionExtra{
			"receiver": req.Receiver,
			"assets":   assets,
			"legs":     legs,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("flash loan aborted")
		return nil, err
	}

	return transaction, nil
}

// settleFlashPremium books the returned premium: the platform cut goes
// to the collector, the reserve cut is cumulated into the liquidity
// index so the fee is socialized across depositors.
func (l *Ledger) settleFlashPremium(ctx context.Context, tx *db.DB, instrument *core.Instrument, asset *core.FlashLoanAsset, userID string) error {
	fee := l.feeService.CalculateFlashLoanFee(ctx, userID, asset.Amount, "")
	platform := fee.Platform
	income := asset.Premium.Sub(platform)
	if income.IsNegative() {
		platform = asset.Premium
		income = decimal.Zero
	}

	instrument.PlatformFees = instrument.PlatformFees.Add(platform)

	if liquidity := instrument.TotalLiquidity(); liquidity.IsPositive() && income.IsPositive() {
		factor := decimal.New(1, 0).Add(income.DivRound(liquidity, sigh.MaxPrecision+2))
		instrument.LiquidityIndex = instrument.LiquidityIndex.Mul(factor).Truncate(sigh.MaxPrecision)
	}

	return l.instrumentService.UpdateInterestRates(ctx, instrument, asset.Premium, decimal.Zero)
}

// convertFlashDebt keeps the principal out and opens a debt position
// for the initiator, subject to the regular collateral checks.
func (l *Ledger) convertFlashDebt(ctx context.Context, tx *db.DB, instrument *core.Instrument, asset *core.FlashLoanAsset, userID string, now time.Time) error {
	mode := core.RateModeVariable
	if asset.Mode == core.FlashLoanModeStableDebt {
		mode = core.RateModeStable
	}

	account, err := l.accountService.AccountData(ctx, userID, now)
	if err != nil {
		return err
	}

	price, err := l.priceService.GetAssetPrice(ctx, asset.AssetID)
	if err != nil {
		return err
	}

	count, err := l.instrumentStore.Count(ctx)
	if err != nil {
		return err
	}

	borrow, err := l.findBorrow(ctx, userID, asset.AssetID, mode)
	if err != nil {
		return err
	}

	userStableDebt := decimal.Zero
	if mode == core.RateModeStable {
		userStableDebt, err = l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return err
		}
	}

	if err := validateBorrow(borrowCheck{
		instrument:      instrument,
		account:         account,
		debtValue:       asset.Amount.Mul(price),
		amount:          asset.Amount,
		mode:            mode,
		userStableDebt:  userStableDebt,
		instrumentCount: count,
	}); err != nil {
		return err
	}

	if err := l.rewardService.AccrueBorrower(ctx, tx, instrument, borrow); err != nil {
		return err
	}

	balance, err := l.borrowService.BorrowBalance(ctx, borrow, instrument, now)
	if err != nil {
		return err
	}

	switch mode {
	case core.RateModeStable:
		total := balance.Add(asset.Amount)
		blended := balance.Mul(borrow.StableRate).
			Add(asset.Amount.Mul(instrument.StableBorrowRate)).
			DivRound(total, sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)

		stock := instrument.TotalStableDebt
		instrument.AvgStableRate = stock.Mul(instrument.AvgStableRate).
			Add(asset.Amount.Mul(instrument.StableBorrowRate)).
			DivRound(stock.Add(asset.Amount), sigh.MaxPrecision+2).Truncate(sigh.MaxPrecision)
		instrument.TotalStableDebt = stock.Add(asset.Amount)

		borrow.Principal = total
		borrow.StableRate = blended
		borrow.LastAccruedAt = now
	default:
		instrument.TotalVariableDebt = instrument.TotalVariableDebt.Add(asset.Amount)
		borrow.Principal = balance.Add(asset.Amount).Truncate(sigh.MaxPrecision)
		borrow.InterestIndex = instrument.VariableBorrowIndex
	}

	cfg, err := l.userConfig(ctx, userID)
	if err != nil {
		return err
	}
	cfg.Borrowings.Set(instrument.ID)

	if err := l.borrowStore.Save(ctx, tx, borrow); err != nil {
		return err
	}
	if err := l.userConfigStore.Save(ctx, tx, cfg); err != nil {
		return err
	}

	return l.instrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, asset.Amount)
}
