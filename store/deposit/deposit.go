package deposit

import (
	"context"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
)

type depositStore struct {
	db *db.DB
}

// New new deposit store
func New(db *db.DB) core.IDepositStore {
	return &depositStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Deposit{})
		if err := tx.AutoMigrate(core.Deposit{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_deposits_user_asset", "user_id", "asset_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *depositStore) Save(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	if tx == nil {
		tx = s.db
	}

	if deposit.ID == 0 {
		return tx.Update().
			Where("user_id=? and asset_id=?", deposit.UserID, deposit.AssetID).
			FirstOrCreate(deposit).Error
	}

	return s.Update(ctx, tx, deposit)
}

func (s *depositStore) Find(ctx context.Context, userID, assetID string) (*core.Deposit, error) {
	var deposit core.Deposit
	if err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&deposit).Error; err != nil {
		return nil, err
	}

	return &deposit, nil
}

func (s *depositStore) FindByUser(ctx context.Context, userID string) ([]*core.Deposit, error) {
	var deposits []*core.Deposit
	if err := s.db.View().Where("user_id=?", userID).Find(&deposits).Error; err != nil {
		return nil, err
	}

	return deposits, nil
}

func (s *depositStore) FindByAsset(ctx context.Context, assetID string) ([]*core.Deposit, error) {
	var deposits []*core.Deposit
	if err := s.db.View().Where("asset_id=?", assetID).Find(&deposits).Error; err != nil {
		return nil, err
	}

	return deposits, nil
}

func (s *depositStore) Update(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	if tx == nil {
		tx = s.db
	}

	version := deposit.Version
	deposit.Version++
	updated := tx.Update().Model(core.Deposit{}).
		Where("user_id=? and asset_id=? and version=?", deposit.UserID, deposit.AssetID, version).
		Updates(deposit)
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *depositStore) Users(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.View().Model(core.Deposit{}).Select("distinct user_id").Pluck("user_id", &users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
