package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// FeeBreakdown a total fee split between the platform collector and the
// reserve aggregator
type FeeBreakdown struct {
	Total    decimal.Decimal `json:"total"`
	Platform decimal.Decimal `json:"platform"`
	Reserve  decimal.Decimal `json:"reserve"`
}

// IsZero no fee charged
func (f FeeBreakdown) IsZero() bool {
	return !f.Total.IsPositive()
}

// IFeeProviderService computes protocol fees. The optional boosterID
// selects a configured discount applied before the split.
type IFeeProviderService interface {
	CalculateDepositFee(ctx context.Context, userID string, amount decimal.Decimal, boosterID string) FeeBreakdown
	CalculateBorrowFee(ctx context.Context, userID string, amount decimal.Decimal, boosterID string) FeeBreakdown
	CalculateFlashLoanFee(ctx context.Context, userID string, amount decimal.Decimal, boosterID string) FeeBreakdown
}
