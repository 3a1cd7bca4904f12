package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Reward accumulated SIGH stream balance of one user. Accrual can be
// redirected to a third party, mirroring interest redirection.
type Reward struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID     string          `sql:"size:36;unique_index:reward_user_idx" json:"user_id"`
	Accrued    decimal.Decimal `sql:"type:decimal(32,16)" json:"accrued"`
	RedirectTo string          `sql:"size:36" json:"redirect_to"`
	Version    int64           `sql:"default:0" json:"version"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IRewardStore reward store interface
type IRewardStore interface {
	Save(ctx context.Context, tx *db.DB, reward *Reward) error
	Find(ctx context.Context, userID string) (*Reward, error)
	Update(ctx context.Context, tx *db.DB, reward *Reward) error
}

// IRewardService SIGH stream accrual interface
type IRewardService interface {
	// AccrueSupplier settles the supplier stream for the deposit against
	// the current supplier reward index and advances the snapshot.
	AccrueSupplier(ctx context.Context, tx *db.DB, instrument *Instrument, deposit *Deposit) error
	// AccrueBorrower settles the borrower stream for the borrow position.
	AccrueBorrower(ctx context.Context, tx *db.DB, instrument *Instrument, borrow *Borrow) error
	// Redirect points future accrual of userID at target; empty target
	// resets accrual to the owner.
	Redirect(ctx context.Context, tx *db.DB, userID, target string) error
}
