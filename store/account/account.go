package account

import (
	"context"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountStore struct {
	db *db.DB
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.LiquidatableAccount{})
		if err := tx.AutoMigrate(core.LiquidatableAccount{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_liquidatable_accounts_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountStore) SaveLiquidatable(ctx context.Context, tx *db.DB, account *core.LiquidatableAccount) error {
	if tx == nil {
		tx = s.db
	}

	var existing core.LiquidatableAccount
	if err := tx.Update().Where("user_id=?", account.UserID).First(&existing).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return tx.Update().Create(account).Error
		}
		return err
	}

	account.ID = existing.ID
	account.Version = existing.Version + 1
	return tx.Update().Model(core.LiquidatableAccount{}).
		Where("user_id=? and version=?", account.UserID, existing.Version).
		Updates(account).Error
}

func (s *accountStore) ListLiquidatable(ctx context.Context) ([]*core.LiquidatableAccount, error) {
	var accounts []*core.LiquidatableAccount
	if err := s.db.View().Order("health_factor").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (s *accountStore) DeleteLiquidatable(ctx context.Context, tx *db.DB, userID string) error {
	if tx == nil {
		tx = s.db
	}
	return tx.Update().Where("user_id=?", userID).Delete(core.LiquidatableAccount{}).Error
}
