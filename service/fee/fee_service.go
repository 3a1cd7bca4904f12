package fee

import (
	"context"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/shopspring/decimal"
)

type feeService struct {
	cfg core.Fee
}

// New new fee provider
func New(cfg core.Fee) core.IFeeProviderService {
	return &feeService{cfg: cfg}
}

func (s *feeService) CalculateDepositFee(ctx context.Context, userID string, amount decimal.Decimal, boosterID string) core.FeeBreakdown {
	return s.split(amount.Mul(s.cfg.DepositFeeRate), boosterID)
}

func (s *feeService) CalculateBorrowFee(ctx context.Context, userID string, amount decimal.Decimal, boosterID string) core.FeeBreakdown {
	return s.split(amount.Mul(s.cfg.OriginationFeeRate), boosterID)
}

func (s *feeService) CalculateFlashLoanFee(ctx context.Context, userID string, amount decimal.Decimal, boosterID string) core.FeeBreakdown {
	return s.split(amount.Mul(s.cfg.FlashLoanPremiumRate), boosterID)
}

// split applies the booster discount to the total, then cuts the
// platform share; the remainder is the reserve cut.
func (s *feeService) split(total decimal.Decimal, boosterID string) core.FeeBreakdown {
	if discount, ok := s.cfg.Boosters[boosterID]; ok && discount.IsPositive() {
		if discount.GreaterThan(decimal.New(1, 0)) {
			discount = decimal.New(1, 0)
		}
		total = total.Mul(decimal.New(1, 0).Sub(discount))
	}

	total = total.Truncate(sigh.MaxPrecision)
	if !total.IsPositive() {
		return core.FeeBreakdown{
			Total:    decimal.Zero,
			Platform: decimal.Zero,
			Reserve:  decimal.Zero,
		}
	}

	platform := total.Mul(s.cfg.PlatformShare).Truncate(sigh.MaxPrecision)
	return core.FeeBreakdown{
		Total:    total,
		Platform: platform,
		Reserve:  total.Sub(platform),
	}
}
