package user

import (
	"context"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
)

type userConfigStore struct {
	db *db.DB
}

// New new user config store
func New(db *db.DB) core.IUserConfigStore {
	return &userConfigStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.UserConfig{})
		if err := tx.AutoMigrate(core.UserConfig{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_user_configs_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *userConfigStore) Save(ctx context.Context, tx *db.DB, cfg *core.UserConfig) error {
	if tx == nil {
		tx = s.db
	}

	if cfg.ID == 0 {
		return tx.Update().Where("user_id=?", cfg.UserID).FirstOrCreate(cfg).Error
	}

	return s.Update(ctx, tx, cfg)
}

func (s *userConfigStore) Find(ctx context.Context, userID string) (*core.UserConfig, error) {
	var cfg core.UserConfig
	if err := s.db.View().Where("user_id=?", userID).First(&cfg).Error; err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (s *userConfigStore) Update(ctx context.Context, tx *db.DB, cfg *core.UserConfig) error {
	if tx == nil {
		tx = s.db
	}

	version := cfg.Version
	cfg.Version++
	updated := tx.Update().Model(core.UserConfig{}).
		Where("user_id=? and version=?", cfg.UserID, version).
		Updates(cfg)
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
