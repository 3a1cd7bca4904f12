package ledger

import (
	"context"
	"fmt"

	"sigh/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// in-memory stores; Find returns copies so an aborted operation cannot
// leak half mutated state back into the store, matching the cache
// semantics of the real thing

type instrumentStoreFake struct {
	instruments map[string]core.Instrument
}

func newInstrumentStoreFake() *instrumentStoreFake {
	return &instrumentStoreFake{instruments: make(map[string]core.Instrument)}
}

func (s *instrumentStoreFake) Create(ctx context.Context, tx *db.DB, instrument *core.Instrument) error {
	if _, ok := s.instruments[instrument.AssetID]; ok {
		return nil
	}
	instrument.ID = uint64(len(s.instruments) + 1)
	s.instruments[instrument.AssetID] = *instrument
	return nil
}

func (s *instrumentStoreFake) Find(ctx context.Context, assetID string) (*core.Instrument, error) {
	instrument, ok := s.instruments[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &instrument, nil
}

func (s *instrumentStoreFake) FindBySymbol(ctx context.Context, symbol string) (*core.Instrument, error) {
	for _, instrument := range s.instruments {
		if instrument.Symbol == symbol {
			instrument := instrument
			return &instrument, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *instrumentStoreFake) All(ctx context.Context) ([]*core.Instrument, error) {
	instruments := make([]*core.Instrument, 0, len(s.instruments))
	for _, instrument := range s.instruments {
		instrument := instrument
		instruments = append(instruments, &instrument)
	}
	return instruments, nil
}

func (s *instrumentStoreFake) AllAsMap(ctx context.Context) (map[string]*core.Instrument, error) {
	instruments := make(map[string]*core.Instrument, len(s.instruments))
	for assetID, instrument := range s.instruments {
		instrument := instrument
		instruments[assetID] = &instrument
	}
	return instruments, nil
}

func (s *instrumentStoreFake) Count(ctx context.Context) (int64, error) {
	return int64(len(s.instruments)), nil
}

func (s *instrumentStoreFake) Update(ctx context.Context, tx *db.DB, instrument *core.Instrument) error {
	s.instruments[instrument.AssetID] = *instrument
	return nil
}

type depositStoreFake struct {
	deposits map[string]core.Deposit
	nextID   uint64
}

func newDepositStoreFake() *depositStoreFake {
	return &depositStoreFake{deposits: make(map[string]core.Deposit)}
}

func depositKey(userID, assetID string) string {
	return userID + "|" + assetID
}

func (s *depositStoreFake) Save(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	if deposit.ID == 0 {
		s.nextID++
		deposit.ID = s.nextID
	}
	s.deposits[depositKey(deposit.UserID, deposit.AssetID)] = *deposit
	return nil
}

func (s *depositStoreFake) Find(ctx context.Context, userID, assetID string) (*core.Deposit, error) {
	deposit, ok := s.deposits[depositKey(userID, assetID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &deposit, nil
}

func (s *depositStoreFake) FindByUser(ctx context.Context, userID string) ([]*core.Deposit, error) {
	deposits := make([]*core.Deposit, 0)
	for _, deposit := range s.deposits {
		if deposit.UserID == userID {
			deposit := deposit
			deposits = append(deposits, &deposit)
		}
	}
	return deposits, nil
}

func (s *depositStoreFake) FindByAsset(ctx context.Context, assetID string) ([]*core.Deposit, error) {
	deposits := make([]*core.Deposit, 0)
	for _, deposit := range s.deposits {
		if deposit.AssetID == assetID {
			deposit := deposit
			deposits = append(deposits, &deposit)
		}
	}
	return deposits, nil
}

func (s *depositStoreFake) Update(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	return s.Save(ctx, tx, deposit)
}

func (s *depositStoreFake) Users(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	users := make([]string, 0)
	for _, deposit := range s.deposits {
		if !seen[deposit.UserID] {
			seen[deposit.UserID] = true
			users = append(users, deposit.UserID)
		}
	}
	return users, nil
}

type borrowStoreFake struct {
	borrows map[string]core.Borrow
	nextID  uint64
}

func newBorrowStoreFake() *borrowStoreFake {
	return &borrowStoreFake{borrows: make(map[string]core.Borrow)}
}

func borrowKey(userID, assetID string, mode core.RateMode) string {
	return fmt.Sprintf("%s|%s|%d", userID, assetID, mode)
}

func (s *borrowStoreFake) Save(ctx context.Context, tx *db.DB, borrow *core.Borrow) error {
	if borrow.ID == 0 {
		s.nextID++
		borrow.ID = s.nextID
	}
	s.borrows[borrowKey(borrow.UserID, borrow.AssetID, borrow.Mode)] = *borrow
	return nil
}

func (s *borrowStoreFake) Find(ctx context.Context, userID, assetID string, mode core.RateMode) (*core.Borrow, error) {
	borrow, ok := s.borrows[borrowKey(userID, assetID, mode)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &borrow, nil
}

func (s *borrowStoreFake) FindByUser(ctx context.Context, userID string) ([]*core.Borrow, error) {
	borrows := make([]*core.Borrow, 0)
	for _, borrow := range s.borrows {
		if borrow.UserID == userID {
			borrow := borrow
			borrows = append(borrows, &borrow)
		}
	}
	return borrows, nil
}

func (s *borrowStoreFake) FindByAsset(ctx context.Context, assetID string) ([]*core.Borrow, error) {
	borrows := make([]*core.Borrow, 0)
	for _, borrow := range s.borrows {
		if borrow.AssetID == assetID {
			borrow := borrow
			borrows = append(borrows, &borrow)
		}
	}
	return borrows, nil
}

func (s *borrowStoreFake) Update(ctx context.Context, tx *db.DB, borrow *core.Borrow) error {
	return s.Save(ctx, tx, borrow)
}

func (s *borrowStoreFake) Users(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	users := make([]string, 0)
	for _, borrow := range s.borrows {
		if !seen[borrow.UserID] {
			seen[borrow.UserID] = true
			users = append(users, borrow.UserID)
		}
	}
	return users, nil
}

type userConfigStoreFake struct {
	configs map[string]core.UserConfig
	nextID  uint64
}

func newUserConfigStoreFake() *userConfigStoreFake {
	return &userConfigStoreFake{configs: make(map[string]core.UserConfig)}
}

func (s *userConfigStoreFake) Save(ctx context.Context, tx *db.DB, cfg *core.UserConfig) error {
	if cfg.ID == 0 {
		s.nextID++
		cfg.ID = s.nextID
	}
	s.configs[cfg.UserID] = *cfg
	return nil
}

func (s *userConfigStoreFake) Find(ctx context.Context, userID string) (*core.UserConfig, error) {
	cfg, ok := s.configs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &cfg, nil
}

func (s *userConfigStoreFake) Update(ctx context.Context, tx *db.DB, cfg *core.UserConfig) error {
	return s.Save(ctx, tx, cfg)
}

type transactionStoreFake struct {
	transactions []*core.Transaction
}

func newTransactionStoreFake() *transactionStoreFake {
	return &transactionStoreFake{}
}

func (s *transactionStoreFake) Create(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	for _, t := range s.transactions {
		if t.TraceID == transaction.TraceID {
			return nil
		}
	}
	transaction.ID = uint64(len(s.transactions) + 1)
	s.transactions = append(s.transactions, transaction)
	return nil
}

func (s *transactionStoreFake) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	for _, t := range s.transactions {
		if t.TraceID == traceID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *transactionStoreFake) List(ctx context.Context, from uint64, limit int) ([]*core.Transaction, error) {
	transactions := make([]*core.Transaction, 0)
	for _, t := range s.transactions {
		if t.ID > from && len(transactions) < limit {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (s *transactionStoreFake) ListByUser(ctx context.Context, userID string, limit int) ([]*core.Transaction, error) {
	transactions := make([]*core.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID && len(transactions) < limit {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

type rewardStoreFake struct {
	rewards map[string]core.Reward
	nextID  uint64
}

func newRewardStoreFake() *rewardStoreFake {
	return &rewardStoreFake{rewards: make(map[string]core.Reward)}
}

func (s *rewardStoreFake) Save(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	if reward.ID == 0 {
		s.nextID++
		reward.ID = s.nextID
	}
	s.rewards[reward.UserID] = *reward
	return nil
}

func (s *rewardStoreFake) Find(ctx context.Context, userID string) (*core.Reward, error) {
	reward, ok := s.rewards[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &reward, nil
}

func (s *rewardStoreFake) Update(ctx context.Context, tx *db.DB, reward *core.Reward) error {
	return s.Save(ctx, tx, reward)
}

type priceStoreFake struct {
	prices map[string]core.Price
}

func newPriceStoreFake() *priceStoreFake {
	return &priceStoreFake{prices: make(map[string]core.Price)}
}

func (s *priceStoreFake) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	s.prices[price.AssetID] = *price
	return nil
}

func (s *priceStoreFake) Find(ctx context.Context, assetID string) (*core.Price, error) {
	price, ok := s.prices[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &price, nil
}

func (s *priceStoreFake) All(ctx context.Context) ([]*core.Price, error) {
	prices := make([]*core.Price, 0, len(s.prices))
	for _, price := range s.prices {
		price := price
		prices = append(prices, &price)
	}
	return prices, nil
}

type priceServiceFake struct {
	prices map[string]decimal.Decimal
}

func newPriceServiceFake() *priceServiceFake {
	return &priceServiceFake{prices: make(map[string]decimal.Decimal)}
}

func (s *priceServiceFake) GetAssetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	price, ok := s.prices[assetID]
	if !ok {
		return decimal.Zero, core.ErrInvalidPrice
	}
	return price, nil
}

// receiverFunc adapts a function into a flash loan receiver
type receiverFunc func(ctx context.Context, assets []*core.FlashLoanAsset, initiator string) error

func (f receiverFunc) Execute(ctx context.Context, assets []*core.FlashLoanAsset, initiator string) error {
	return f(ctx, assets, initiator)
}
