package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// FlashLoanMode how a flash loaned asset is settled
type FlashLoanMode int

const (
	// FlashLoanModeRepay principal plus premium returned in the same operation
	FlashLoanModeRepay FlashLoanMode = 0
	// FlashLoanModeStableDebt open a stable rate debt position instead
	FlashLoanModeStableDebt FlashLoanMode = 1
	// FlashLoanModeVariableDebt open a variable rate debt position instead
	FlashLoanModeVariableDebt FlashLoanMode = 2
)

// FlashLoanAsset one leg of a flash loan batch
type FlashLoanAsset struct {
	AssetID string          `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
	Premium decimal.Decimal `json:"premium"`
	// set by the receiver: repay, or convert to a debt position
	Mode FlashLoanMode `json:"mode"`
}

// FlashLoanReceiver is the callback invoked with the borrowed liquidity.
// Execute may flip the per asset Mode to signal debt conversion; any
// error fails the whole batch.
type FlashLoanReceiver interface {
	Execute(ctx context.Context, assets []*FlashLoanAsset, initiator string) error
}

// FlashLoanReceiverRegistry named in-process receivers
type FlashLoanReceiverRegistry interface {
	Lookup(name string) (FlashLoanReceiver, bool)
	Register(name string, receiver FlashLoanReceiver)
}
