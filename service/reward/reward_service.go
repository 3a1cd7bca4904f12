package reward

import (
	"context"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type rewardService struct {
	rewards core.IRewardStore
}

// New new reward service
func New(rewards core.IRewardStore) core.IRewardService {
	return &rewardService{rewards: rewards}
}

// AccrueSupplier settles the supplier stream earned by the deposit since
// its snapshot and advances the snapshot to the current index.
func (s *rewardService) AccrueSupplier(ctx context.Context, tx *db.DB, instrument *core.Instrument, deposit *core.Deposit) error {
	delta := instrument.SupplierRewardIndex.Sub(deposit.RewardIndex)
	if delta.IsPositive() && deposit.Principal.IsPositive() {
		earned := deposit.Principal.Mul(delta).Truncate(sigh.MaxPrecision)
		if err := s.credit(ctx, tx, deposit.UserID, earned); err != nil {
			return err
		}
	}

	deposit.RewardIndex = instrument.SupplierRewardIndex
	return nil
}

// AccrueBorrower settles the borrower stream for the debt position.
func (s *rewardService) AccrueBorrower(ctx context.Context, tx *db.DB, instrument *core.Instrument, borrow *core.Borrow) error {
	delta := instrument.BorrowerRewardIndex.Sub(borrow.RewardIndex)
	if delta.IsPositive() && borrow.Principal.IsPositive() {
		earned := borrow.Principal.Mul(delta).Truncate(sigh.MaxPrecision)
		if err := s.credit(ctx, tx, borrow.UserID, earned); err != nil {
			return err
		}
	}

	borrow.RewardIndex = instrument.BorrowerRewardIndex
	return nil
}

func (s *rewardService) Redirect(ctx context.Context, tx *db.DB, userID, target string) error {
	reward, err := s.findReward(ctx, userID)
	if err != nil {
		return err
	}

	reward.RedirectTo = target
	return s.rewards.Save(ctx, tx, reward)
}

// findReward users without a reward row yet accrue from zero
func (s *rewardService) findReward(ctx context.Context, userID string) (*core.Reward, error) {
	reward, err := s.rewards.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Reward{UserID: userID}, nil
		}

		return nil, err
	}

	return reward, nil
}

// credit follows one level of redirection: streams accrued by a
// redirecting user land on the target's balance.
func (s *rewardService) credit(ctx context.Context, tx *db.DB, userID string, earned decimal.Decimal) error {
	if !earned.IsPositive() {
		return nil
	}

	reward, err := s.findReward(ctx, userID)
	if err != nil {
		return err
	}

	beneficiary := reward
	if reward.RedirectTo != "" && reward.RedirectTo != userID {
		target, err := s.findReward(ctx, reward.RedirectTo)
		if err != nil {
			return err
		}
		beneficiary = target
	}

	beneficiary.Accrued = beneficiary.Accrued.Add(earned).Truncate(sigh.MaxPrecision)
	return s.rewards.Save(ctx, tx, beneficiary)
}
