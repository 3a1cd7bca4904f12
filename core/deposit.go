package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Deposit is an interest bearing balance on one instrument. The balance
// compounds against the instrument liquidity index; when RedirectTo is
// set the accrued interest is settled to that user instead of the owner.
type Deposit struct {
	ID            uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID        string          `sql:"size:36;unique_index:deposit_idx" json:"user_id"`
	AssetID       string          `sql:"size:36;unique_index:deposit_idx" json:"asset_id"`
	Principal     decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	InterestIndex decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"interest_index"`
	// interest redirection
	RedirectTo          string          `sql:"size:36" json:"redirect_to"`
	RedirectedPrincipal decimal.Decimal `sql:"type:decimal(32,16)" json:"redirected_principal"`
	// SIGH stream snapshot
	RewardIndex decimal.Decimal `sql:"type:decimal(32,16)" json:"reward_index"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Compounded current balance of the principal against the instrument
// liquidity index. When interest is redirected the principal stays flat,
// the growth belongs to the redirection target.
func (d *Deposit) Compounded(instrument *Instrument) decimal.Decimal {
	if !d.Principal.IsPositive() {
		return decimal.Zero
	}

	index := d.InterestIndex
	if !index.IsPositive() {
		index = decimal.New(1, 0)
	}

	return d.Principal.Mul(instrument.LiquidityIndex).DivRound(index, 18).Truncate(16)
}

// AccruedInterest interest earned since the last settlement
func (d *Deposit) AccruedInterest(instrument *Instrument) decimal.Decimal {
	return d.Compounded(instrument).Sub(d.Principal)
}

// Zeroed reports whether the position carries no balance and no
// redirected principal, i.e. the row state can be reset.
func (d *Deposit) Zeroed() bool {
	return !d.Principal.IsPositive() && !d.RedirectedPrincipal.IsPositive()
}

// IDepositStore deposit store interface
type IDepositStore interface {
	Save(ctx context.Context, tx *db.DB, deposit *Deposit) error
	Find(ctx context.Context, userID, assetID string) (*Deposit, error)
	FindByUser(ctx context.Context, userID string) ([]*Deposit, error)
	FindByAsset(ctx context.Context, assetID string) ([]*Deposit, error)
	Update(ctx context.Context, tx *db.DB, deposit *Deposit) error
	Users(ctx context.Context) ([]string, error)
}
