package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Borrow is a debt position in a single rate mode. Variable debt
// compounds against the instrument variable borrow index; stable debt
// compounds at the rate locked when the position was opened.
type Borrow struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:36;unique_index:borrow_idx" json:"user_id"`
	AssetID   string          `sql:"size:36;unique_index:borrow_idx" json:"asset_id"`
	Mode      RateMode        `sql:"unique_index:borrow_idx" json:"mode"`
	Principal decimal.Decimal `sql:"type:decimal(32,16)" json:"principal"`
	// variable mode: borrow index snapshot at last interaction
	InterestIndex decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"interest_index"`
	// stable mode: locked annual rate and accrual anchor
	StableRate    decimal.Decimal `sql:"type:decimal(20,16)" json:"stable_rate"`
	LastAccruedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"last_accrued_at"`
	// SIGH stream snapshot
	RewardIndex decimal.Decimal `sql:"type:decimal(32,16)" json:"reward_index"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IBorrowStore borrow store interface
type IBorrowStore interface {
	Save(ctx context.Context, tx *db.DB, borrow *Borrow) error
	Find(ctx context.Context, userID, assetID string, mode RateMode) (*Borrow, error)
	FindByUser(ctx context.Context, userID string) ([]*Borrow, error)
	FindByAsset(ctx context.Context, assetID string) ([]*Borrow, error)
	Update(ctx context.Context, tx *db.DB, borrow *Borrow) error
	Users(ctx context.Context) ([]string, error)
}

// IBorrowService borrow balance interface
type IBorrowService interface {
	BorrowBalance(ctx context.Context, borrow *Borrow, instrument *Instrument, now time.Time) (decimal.Decimal, error)
}
