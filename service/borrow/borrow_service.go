package borrow

import (
	"context"
	"time"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/shopspring/decimal"
)

type borrowService struct{}

// New new borrow service
func New() core.IBorrowService {
	return &borrowService{}
}

// BorrowBalance current debt of the position. Variable debt compounds
// against the instrument index, stable debt against the locked rate.
// balance = principal * borrow_index / interest_index
func (s *borrowService) BorrowBalance(ctx context.Context, borrow *core.Borrow, instrument *core.Instrument, now time.Time) (decimal.Decimal, error) {
	if !borrow.Principal.IsPositive() {
		return decimal.Zero, nil
	}

	switch borrow.Mode {
	case core.RateModeStable:
		elapsed := now.Unix() - borrow.LastAccruedAt.Unix()
		factor := sigh.CompoundedInterest(borrow.StableRate, elapsed)
		return borrow.Principal.Mul(factor).Truncate(sigh.MaxPrecision), nil
	default:
		index := borrow.InterestIndex
		if !index.IsPositive() {
			index = instrument.VariableBorrowIndex
		}

		principalTimesIndex := borrow.Principal.Mul(instrument.VariableBorrowIndex)
		return principalTimesIndex.DivRound(index, sigh.MaxPrecision+2).
			Shift(sigh.MaxPrecision).Ceil().Shift(-sigh.MaxPrecision), nil
	}
}
