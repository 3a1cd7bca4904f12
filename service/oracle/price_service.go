package oracle

import (
	"context"
	"fmt"
	"time"

	"sigh/core"

	"github.com/bluele/gcache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

type priceService struct {
	prices core.IPriceStore
	cache  gcache.Cache
	sf     *singleflight.Group
	exp    time.Duration
}

// New new price oracle service with a read through cache
func New(prices core.IPriceStore, exp time.Duration) core.IPriceOracleService {
	return &priceService{
		prices: prices,
		cache:  gcache.New(512).LRU().Build(),
		sf:     &singleflight.Group{},
		exp:    exp,
	}
}

func (s *priceService) GetAssetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	key := fmt.Sprintf("price:%s", assetID)
	if v, err := s.cache.Get(key); err == nil {
		if price, ok := v.(decimal.Decimal); ok {
			return price, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		price, err := s.prices.Find(ctx, assetID)
		if err != nil {
			return decimal.Zero, err
		}

		if !price.Price.IsPositive() {
			return decimal.Zero, core.ErrInvalidPrice
		}

		s.cache.SetWithExpire(key, price.Price, s.exp)
		return price.Price, nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}
