package reward

import (
	"context"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
)

type rewardStore struct {
	db *db.DB
}

// New new reward store
func New(db *db.DB) core.IRewardStore {
	return &rewardStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Reward{})
		if err := tx.AutoMigrate(core.Reward{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_rewards_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rewardStore) Save(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	if tx == nil {
		tx = s.db
	}

	if reward.ID == 0 {
		return tx.Update().Where("user_id=?", reward.UserID).FirstOrCreate(reward).Error
	}

	return s.Update(ctx, tx, reward)
}

func (s *rewardStore) Find(ctx context.Context, userID string) (*core.Reward, error) {
	var reward core.Reward
	if err := s.db.View().Where("user_id=?", userID).First(&reward).Error; err != nil {
		return nil, err
	}

	return &reward, nil
}

func (s *rewardStore) Update(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	if tx == nil {
		tx = s.db
	}

	version := reward.Version
	reward.Version++
	updated := tx.Update().Model(core.Reward{}).
		Where("user_id=? and version=?", reward.UserID, version).
		Updates(reward)
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
