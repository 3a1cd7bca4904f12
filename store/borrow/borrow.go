package borrow

import (
	"context"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
)

type borrowStore struct {
	db *db.DB
}

// New new borrow store
func New(db *db.DB) core.IBorrowStore {
	return &borrowStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Borrow{})
		if err := tx.AutoMigrate(core.Borrow{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_borrows_user_asset_mode", "user_id", "asset_id", "mode").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *borrowStore) Save(ctx context.Context, tx *db.DB, borrow *core.Borrow) error {
	if tx == nil {
		tx = s.db
	}

	if borrow.ID == 0 {
		return tx.Update().
			Where("user_id=? and asset_id=? and mode=?", borrow.UserID, borrow.AssetID, borrow.Mode).
			FirstOrCreate(borrow).Error
	}

	return s.Update(ctx, tx, borrow)
}

func (s *borrowStore) Find(ctx context.Context, userID, assetID string, mode core.RateMode) (*core.Borrow, error) {
	var borrow core.Borrow
	if err := s.db.View().Where("user_id=? and asset_id=? and mode=?", userID, assetID, mode).First(&borrow).Error; err != nil {
		return nil, err
	}

	return &borrow, nil
}

func (s *borrowStore) FindByUser(ctx context.Context, userID string) ([]*core.Borrow, error) {
	var borrows []*core.Borrow
	if err := s.db.View().Where("user_id=?", userID).Find(&borrows).Error; err != nil {
		return nil, err
	}

	return borrows, nil
}

func (s *borrowStore) FindByAsset(ctx context.Context, assetID string) ([]*core.Borrow, error) {
	var borrows []*core.Borrow
	if err := s.db.View().Where("asset_id=?", assetID).Find(&borrows).Error; err != nil {
		return nil, err
	}

	return borrows, nil
}

func (s *borrowStore) Update(ctx context.Context, tx *db.DB, borrow *core.Borrow) error {
	if tx == nil {
		tx = s.db
	}

	version := borrow.Version
	borrow.Version++
	updated := tx.Update().Model(core.Borrow{}).
		Where("user_id=? and asset_id=? and mode=? and version=?", borrow.UserID, borrow.AssetID, borrow.Mode, version).
		Updates(borrow)
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *borrowStore) Users(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.View().Model(core.Borrow{}).Select("distinct user_id").Pluck("user_id", &users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
