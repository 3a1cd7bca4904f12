package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// ActionType ledger operation type
type ActionType int

const (
	// ActionTypeDeposit deposit
	ActionTypeDeposit ActionType = iota + 1
	// ActionTypeWithdraw withdraw
	ActionTypeWithdraw
	// ActionTypeBorrow borrow
	ActionTypeBorrow
	// ActionTypeRepay repay
	ActionTypeRepay
	// ActionTypeLiquidate liquidate
	ActionTypeLiquidate
	// ActionTypeFlashLoan flash loan
	ActionTypeFlashLoan
	// ActionTypeSwapRateMode swap borrow rate mode
	ActionTypeSwapRateMode
	// ActionTypeRebalance rebalance stable borrow rate
	ActionTypeRebalance
	// ActionTypeRedirectInterest redirect deposit interest
	ActionTypeRedirectInterest
	// ActionTypeRedirectReward redirect SIGH stream
	ActionTypeRedirectReward
	// ActionTypeInstrumentInit admin listed a new instrument
	ActionTypeInstrumentInit
	// ActionTypeInstrumentFlags admin changed instrument flags
	ActionTypeInstrumentFlags
	// ActionTypePrice oracle posted a price
	ActionTypePrice
	// ActionTypeRewardSpeed admin changed the SIGH stream speed
	ActionTypeRewardSpeed
)

// Transaction is one journal entry. Every committed ledger operation
// appends exactly one entry; the trace id makes resubmits idempotent.
type Transaction struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string          `sql:"size:36;unique_index:trace_idx" json:"trace_id"`
	Action    ActionType      `json:"action"`
	UserID    string          `sql:"size:36;index:user_idx" json:"user_id"`
	AssetID   string          `sql:"size:36" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(32,16)" json:"amount"`
	Extra     types.JSONText  `sql:"type:varchar(2048)" json:"extra,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TransactionExtra extra payload helper
type TransactionExtra map[string]interface{}

// SetExtra marshal extra payload into the entry
func (t *Transaction) SetExtra(extra TransactionExtra) {
	if len(extra) == 0 {
		return
	}
	bts, err := json.Marshal(extra)
	if err != nil {
		return
	}
	t.Extra = types.JSONText(bts)
}

// ITransactionStore journal store interface
type ITransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, from uint64, limit int) ([]*Transaction, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Transaction, error)
}
