package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// UserConfig holds the per user position bitmaps and fee accumulators.
// Bits are indexed by instrument position id.
type UserConfig struct {
	ID          uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID      string    `sql:"size:36;unique_index:user_idx" json:"user_id"`
	Collaterals Bitmap128 `sql:"type:varchar(32)" json:"collaterals"`
	Borrowings  Bitmap128 `sql:"type:varchar(32)" json:"borrowings"`
	// aggregate fees paid by the user
	PlatformFeePaid decimal.Decimal `sql:"type:decimal(32,16)" json:"platform_fee_paid"`
	ReserveFeePaid  decimal.Decimal `sql:"type:decimal(32,16)" json:"reserve_fee_paid"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// UsingAsCollateral collateral bit for the instrument
func (u *UserConfig) UsingAsCollateral(position uint64) bool {
	return u.Collaterals.Get(position)
}

// Borrowing borrowing bit for the instrument
func (u *UserConfig) Borrowing(position uint64) bool {
	return u.Borrowings.Get(position)
}

// IUserConfigStore user config store interface
type IUserConfigStore interface {
	Save(ctx context.Context, tx *db.DB, cfg *UserConfig) error
	Find(ctx context.Context, userID string) (*UserConfig, error)
	Update(ctx context.Context, tx *db.DB, cfg *UserConfig) error
}
