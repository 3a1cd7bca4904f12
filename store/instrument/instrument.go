package instrument

import (
	"context"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
)

type instrumentStore struct {
	db *db.DB
}

// New new instrument store
func New(db *db.DB) core.IInstrumentStore {
	return &instrumentStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Instrument{})
		if err := tx.AutoMigrate(core.Instrument{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_instruments_asset_id", "asset_id").Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_instruments_symbol", "symbol").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *instrumentStore) Create(ctx context.Context, tx *db.DB, instrument *core.Instrument) error {
	if tx == nil {
		tx = s.db
	}
	return tx.Update().Where("asset_id=?", instrument.AssetID).FirstOrCreate(instrument).Error
}

func (s *instrumentStore) Find(ctx context.Context, assetID string) (*core.Instrument, error) {
	var instrument core.Instrument
	if err := s.db.View().Where("asset_id=?", assetID).First(&instrument).Error; err != nil {
		return nil, err
	}

	return &instrument, nil
}

func (s *instrumentStore) FindBySymbol(ctx context.Context, symbol string) (*core.Instrument, error) {
	var instrument core.Instrument
	if err := s.db.View().Where("symbol=?", symbol).First(&instrument).Error; err != nil {
		return nil, err
	}

	return &instrument, nil
}

func (s *instrumentStore) All(ctx context.Context) ([]*core.Instrument, error) {
	var instruments []*core.Instrument
	if err := s.db.View().Order("id").Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func (s *instrumentStore) AllAsMap(ctx context.Context) (map[string]*core.Instrument, error) {
	instruments, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	maps := make(map[string]*core.Instrument, len(instruments))
	for _, i := range instruments {
		maps[i.AssetID] = i
	}

	return maps, nil
}

func (s *instrumentStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.Instrument{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *instrumentStore) Update(ctx context.Context, tx *db.DB, instrument *core.Instrument) error {
	if tx == nil {
		tx = s.db
	}

	version := instrument.Version
	instrument.Version++
	updated := tx.Update().Model(core.Instrument{}).
		Where("asset_id=? and version=?", instrument.AssetID, version).
		Updates(instrument)
	if updated.Error != nil {
		return updated.Error
	}
	if updated.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
