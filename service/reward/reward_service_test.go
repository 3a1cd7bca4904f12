package reward

import (
	"context"
	"testing"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewardStoreStub behaves like the gorm-backed store: a miss is
// gorm.ErrRecordNotFound, never a zero value row.
type rewardStoreStub struct {
	rewards map[string]core.Reward
	nextID  uint64
}

func newRewardStoreStub() *rewardStoreStub {
	return &rewardStoreStub{rewards: make(map[string]core.Reward)}
}

func (s *rewardStoreStub) Save(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	if reward.ID == 0 {
		s.nextID++
		reward.ID = s.nextID
	}
	s.rewards[reward.UserID] = *reward
	return nil
}

func (s *rewardStoreStub) Find(ctx context.Context, userID string) (*core.Reward, error) {
	reward, ok := s.rewards[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &reward, nil
}

func (s *rewardStoreStub) Update(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	return s.Save(ctx, tx, reward)
}

func TestAccrueSupplierFirstCredit(t *testing.T) {
	ctx := context.Background()
	rewards := newRewardStoreStub()
	service := New(rewards)

	instrument := &core.Instrument{
		SupplierRewardIndex: decimal.NewFromFloat(0.5),
	}
	deposit := &core.Deposit{
		UserID:    "new-user",
		Principal: decimal.NewFromInt(100),
	}

	require.NoError(t, service.AccrueSupplier(ctx, nil, instrument, deposit))
	assert.Equal(t, "0.5", deposit.RewardIndex.String())

	reward, err := rewards.Find(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "50", reward.Accrued.String())
}

func TestAccrueBorrowerFirstCredit(t *testing.T) {
	ctx := context.Background()
	rewards := newRewardStoreStub()
	service := New(rewards)

	instrument := &core.Instrument{
		BorrowerRewardIndex: decimal.NewFromFloat(0.2),
	}
	borrow := &core.Borrow{
		UserID:    "new-user",
		Principal: decimal.NewFromInt(500),
	}

	require.NoError(t, service.AccrueBorrower(ctx, nil, instrument, borrow))

	reward, err := rewards.Find(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "100", reward.Accrued.String())
}

func TestRedirectNewUser(t *testing.T) {
	ctx := context.Background()
	rewards := newRewardStoreStub()
	service := New(rewards)

	require.NoError(t, service.Redirect(ctx, nil, "new-user", "target"))

	reward, err := rewards.Find(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "new-user", reward.UserID)
	assert.Equal(t, "target", reward.RedirectTo)
}

func TestCreditFollowsRedirectToNewTarget(t *testing.T) {
	ctx := context.Background()
	rewards := newRewardStoreStub()
	service := New(rewards)

	require.NoError(t, service.Redirect(ctx, nil, "source", "target"))

	instrument := &core.Instrument{
		SupplierRewardIndex: decimal.NewFromFloat(0.1),
	}
	deposit := &core.Deposit{
		UserID:    "source",
		Principal: decimal.NewFromInt(100),
	}
	require.NoError(t, service.AccrueSupplier(ctx, nil, instrument, deposit))

	// the target had no reward row either; the stream still lands there
	target, err := rewards.Find(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, "10", target.Accrued.String())

	_, err = rewards.Find(ctx, "source-untouched")
	assert.Error(t, err)

	source, err := rewards.Find(ctx, "source")
	require.NoError(t, err)
	assert.True(t, source.Accrued.IsZero())
}
