package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// AccountData is the aggregated view of one user across all instruments,
// valued in the oracle quote currency.
type AccountData struct {
	UserID string `json:"user_id"`
	// total deposit value counted as collateral
	CollateralValue decimal.Decimal `json:"collateral_value"`
	// collateral weighted by liquidation thresholds
	LiquidationValue decimal.Decimal `json:"liquidation_value"`
	// collateral weighted by LTV, the borrowing power
	BorrowLimit decimal.Decimal `json:"borrow_limit"`
	DebtValue   decimal.Decimal `json:"debt_value"`
	// LiquidationValue / DebtValue; zero debt reports the no-debt sentinel
	HealthFactor decimal.Decimal `json:"health_factor"`
	Deposits     []*Deposit      `json:"deposits,omitempty"`
	Borrows      []*Borrow       `json:"borrows,omitempty"`
}

// Liquidatable health factor below one
func (a *AccountData) Liquidatable() bool {
	return a.DebtValue.IsPositive() && a.HealthFactor.LessThan(decimal.New(1, 0))
}

// LiquidatableAccount snapshot persisted by the sentinel worker
type LiquidatableAccount struct {
	ID           uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID       string          `sql:"size:36;unique_index:liq_user_idx" json:"user_id"`
	HealthFactor decimal.Decimal `sql:"type:decimal(32,16)" json:"health_factor"`
	DebtValue    decimal.Decimal `sql:"type:decimal(32,16)" json:"debt_value"`
	ScannedAt    time.Time       `json:"scanned_at"`
	Version      int64           `sql:"default:0" json:"version"`
}

// IAccountStore liquidatable snapshot store
type IAccountStore interface {
	SaveLiquidatable(ctx context.Context, tx *db.DB, account *LiquidatableAccount) error
	ListLiquidatable(ctx context.Context) ([]*LiquidatableAccount, error)
	DeleteLiquidatable(ctx context.Context, tx *db.DB, userID string) error
}

// IAccountService account aggregation interface
type IAccountService interface {
	// AccountData values every position at current oracle prices and
	// computes the health factor.
	AccountData(ctx context.Context, userID string, now time.Time) (*AccountData, error)
	LiquidatableAccounts(ctx context.Context, now time.Time) ([]*AccountData, error)
}
