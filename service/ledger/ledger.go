package ledger

import (
	"context"
	"time"

	"sigh/core"
	"sigh/pkg/id"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// Ledger executes user actions against the reserve state. Every
// operation accrues indices first, validates, mutates balances in
// memory and commits all writes in one transaction: either the whole
// action applies or none of it does.
type Ledger struct {
	db *db.DB

	instrumentStore  core.IInstrumentStore
	depositStore     core.IDepositStore
	borrowStore      core.IBorrowStore
	userConfigStore  core.IUserConfigStore
	transactionStore core.ITransactionStore
	priceStore       core.IPriceStore

	instrumentService core.IInstrumentService
	borrowService     core.IBorrowService
	accountService    core.IAccountService
	priceService      core.IPriceOracleService
	feeService        core.IFeeProviderService
	rewardService     core.IRewardService

	receivers core.FlashLoanReceiverRegistry
}

// New new ledger
func New(
	database *db.DB,
	instrumentStore core.IInstrumentStore,
	depositStore core.IDepositStore,
	borrowStore core.IBorrowStore,
	userConfigStore core.IUserConfigStore,
	transactionStore core.ITransactionStore,
	priceStore core.IPriceStore,
	instrumentService core.IInstrumentService,
	borrowService core.IBorrowService,
	accountService core.IAccountService,
	priceService core.IPriceOracleService,
	feeService core.IFeeProviderService,
	rewardService core.IRewardService,
	receivers core.FlashLoanReceiverRegistry,
) *Ledger {
	return &Ledger{
		db:                database,
		instrumentStore:   instrumentStore,
		depositStore:      depositStore,
		borrowStore:       borrowStore,
		userConfigStore:   userConfigStore,
		transactionStore:  transactionStore,
		priceStore:        priceStore,
		instrumentService: instrumentService,
		borrowService:     borrowService,
		accountService:    accountService,
		priceService:      priceService,
		feeService:        feeService,
		rewardService:     rewardService,
		receivers:         receivers,
	}
}

func (l *Ledger) tx(fn func(tx *db.DB) error) error {
	if l.db == nil {
		return fn(nil)
	}
	return l.db.Tx(fn)
}

// findTransaction resubmitted trace ids replay the committed entry
// instead of applying the action twice
func (l *Ledger) findTransaction(ctx context.Context, traceID string) (*core.Transaction, error) {
	if traceID == "" {
		return nil, nil
	}

	transaction, err := l.transactionStore.FindByTraceID(ctx, traceID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return transaction, nil
}

func traceOrNew(traceID string) string {
	if traceID == "" {
		return id.GenTraceID()
	}
	return traceID
}

func (l *Ledger) userConfig(ctx context.Context, userID string) (*core.UserConfig, error) {
	cfg, err := l.userConfigStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.UserConfig{UserID: userID}, nil
		}
		return nil, err
	}

	return cfg, nil
}

func (l *Ledger) findDeposit(ctx context.Context, userID, assetID string) (*core.Deposit, error) {
	deposit, err := l.depositStore.Find(ctx, userID, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Deposit{UserID: userID, AssetID: assetID}, nil
		}
		return nil, err
	}

	return deposit, nil
}

func (l *Ledger) findBorrow(ctx context.Context, userID, assetID string, mode core.RateMode) (*core.Borrow, error) {
	borrow, err := l.borrowStore.Find(ctx, userID, assetID, mode)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Borrow{UserID: userID, AssetID: assetID, Mode: mode}, nil
		}
		return nil, err
	}

	return borrow, nil
}

// settleDeposit settles accrued interest before the principal changes.
// Without redirection the interest compounds into the owner principal;
// with redirection it is credited to the target balance and tracked in
// the target redirected principal. Redirect chains are rejected at
// redirect time so the settlement never recurses.
func (l *Ledger) settleDeposit(ctx context.Context, instrument *core.Instrument, deposit *core.Deposit) (*core.Deposit, error) {
	accrued := deposit.AccruedInterest(instrument)

	if deposit.RedirectTo == "" || deposit.RedirectTo == deposit.UserID {
		deposit.Principal = deposit.Principal.Add(accrued)
		deposit.InterestIndex = instrument.LiquidityIndex
		return nil, nil
	}

	target, err := l.findDeposit(ctx, deposit.RedirectTo, deposit.AssetID)
	if err != nil {
		return nil, err
	}

	// settle the target's own interest first so the credit compounds
	// from a clean snapshot
	target.Principal = target.Compounded(instrument)
	target.InterestIndex = instrument.LiquidityIndex

	if accrued.IsPositive() {
		target.Principal = target.Principal.Add(accrued)
		target.RedirectedPrincipal = target.RedirectedPrincipal.Add(accrued)
	}

	deposit.InterestIndex = instrument.LiquidityIndex
	return target, nil
}

// adjustRedirected mirrors principal changes of a redirecting deposit
// into the target redirected principal
func adjustRedirected(target *core.Deposit, delta decimal.Decimal) {
	if target == nil {
		return
	}

	target.RedirectedPrincipal = target.RedirectedPrincipal.Add(delta)
	if target.RedirectedPrincipal.IsNegative() {
		target.RedirectedPrincipal = decimal.Zero
	}
}

func (l *Ledger) journal(ctx context.Context, tx *db.DB, transaction *core.Transaction, now time.Time) error {
	transaction.CreatedAt = now
	return l.transactionStore.Create(ctx, tx, transaction)
}
