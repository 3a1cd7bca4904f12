package instrument

import (
	"context"
	"fmt"

	"sigh/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wraps the store with a small read cache. Writes drop cached
// entries so the ledger always accrues against fresh state.
func Cache(store core.IInstrumentStore) core.IInstrumentStore {
	return &cacheInstrumentStore{
		IInstrumentStore: store,
		cache:            gcache.New(256).LRU().Build(),
		sf:               &singleflight.Group{},
	}
}

type cacheInstrumentStore struct {
	core.IInstrumentStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheInstrumentStore) Find(ctx context.Context, assetID string) (*core.Instrument, error) {
	if v, err := s.cache.Get(s.assetKey(assetID)); err == nil {
		if instrument, ok := v.(core.Instrument); ok {
			return &instrument, nil
		}
	}

	v, err, _ := s.sf.Do(s.assetKey(assetID), func() (interface{}, error) {
		instrument, err := s.IInstrumentStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}
		s.cacheInstrument(instrument)
		return *instrument, nil
	})
	if err != nil {
		return nil, err
	}

	instrument := v.(core.Instrument)
	return &instrument, nil
}

func (s *cacheInstrumentStore) FindBySymbol(ctx context.Context, symbol string) (*core.Instrument, error) {
	if v, err := s.cache.Get(s.symbolKey(symbol)); err == nil {
		if instrument, ok := v.(core.Instrument); ok {
			return &instrument, nil
		}
	}

	instrument, err := s.IInstrumentStore.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.cacheInstrument(instrument)
	return instrument, nil
}

func (s *cacheInstrumentStore) Create(ctx context.Context, tx *db.DB, instrument *core.Instrument) error {
	if err := s.IInstrumentStore.Create(ctx, tx, instrument); err != nil {
		return err
	}
	s.cacheInstrument(instrument)
	return nil
}

func (s *cacheInstrumentStore) Update(ctx context.Context, tx *db.DB, instrument *core.Instrument) error {
	if err := s.IInstrumentStore.Update(ctx, tx, instrument); err != nil {
		return err
	}
	s.cache.Remove(s.assetKey(instrument.AssetID))
	s.cache.Remove(s.symbolKey(instrument.Symbol))
	return nil
}

// values, not pointers: callers mutate instruments in place during an
// operation and must never share state through the cache
func (s *cacheInstrumentStore) cacheInstrument(instrument *core.Instrument) {
	s.cache.Set(s.assetKey(instrument.AssetID), *instrument)
	s.cache.Set(s.symbolKey(instrument.Symbol), *instrument)
}

func (s *cacheInstrumentStore) assetKey(assetID string) string {
	return fmt.Sprintf("instrument:asset:%s", assetID)
}

func (s *cacheInstrumentStore) symbolKey(symbol string) string {
	return fmt.Sprintf("instrument:symbol:%s", symbol)
}
