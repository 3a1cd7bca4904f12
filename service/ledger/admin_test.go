package ledger

import (
	"context"
	"testing"

	"sigh/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInstrument(t *testing.T) {
	ctx := context.Background()
	env := newLedgerTest(core.Fee{})

	transaction, err := env.ledger.InitInstrument(ctx, InitInstrumentRequest{
		AssetID:              "asset-usdc",
		Symbol:               "USDC",
		Decimals:             8,
		LTV:                  decimal.NewFromFloat(0.8),
		LiquidationThreshold: decimal.NewFromFloat(0.85),
		LiquidationBonus:     decimal.NewFromFloat(0.05),
		ReserveFactor:        decimal.NewFromFloat(0.1),
		OptimalUtilization:   decimal.NewFromFloat(0.8),
		BaseVariableRate:     decimal.NewFromFloat(0.01),
		VariableSlope1:       decimal.NewFromFloat(0.04),
		VariableSlope2:       decimal.NewFromFloat(0.6),
	})
	require.Nil(t, err)
	assert.Equal(t, core.ActionTypeInstrumentInit, transaction.Action)

	instrument, err := env.instruments.Find(ctx, "asset-usdc")
	require.Nil(t, err)
	assert.True(t, instrument.IsActive())
	assert.Equal(t, "1", instrument.LiquidityIndex.String())
	assert.Equal(t, "1", instrument.VariableBorrowIndex.String())

	_, err = env.ledger.InitInstrument(ctx, InitInstrumentRequest{
		AssetID: "asset-usdc",
		Symbol:  "USDC2",
	})
	assert.Equal(t, core.ErrDuplicateInstrument, err)

	_, err = env.ledger.InitInstrument(ctx, InitInstrumentRequest{
		AssetID: "asset-usdc2",
		Symbol:  "USDC",
	})
	assert.Equal(t, core.ErrDuplicateInstrument, err)
}

func TestSetInstrumentFlags(t *testing.T) {
	ctx := context.Background()
	env := newLedgerTest(core.Fee{})
	env.listMarket(t, "asset-usdc", "USDC", decimal.New(1, 0))

	_, err := env.ledger.SetInstrumentFlags(ctx, FlagsRequest{
		AssetID: "asset-usdc",
		Set:     core.FlagFrozen,
		Clear:   core.FlagBorrowingEnabled,
	})
	require.Nil(t, err)

	instrument, err := env.instruments.Find(ctx, "asset-usdc")
	require.Nil(t, err)
	assert.True(t, instrument.IsFrozen())
	assert.False(t, instrument.BorrowingEnabled())

	// a frozen market rejects new deposits
	_, err = env.ledger.Deposit(ctx, DepositRequest{
		UserID:  "user-a",
		AssetID: "asset-usdc",
		Amount:  decimal.NewFromInt(100),
	})
	assert.Equal(t, core.ErrFrozenInstrument, err)
}

func TestSetRewardSpeed(t *testing.T) {
	ctx := context.Background()
	env := newLedgerTest(core.Fee{})
	env.listMarket(t, "asset-usdc", "USDC", decimal.New(1, 0))

	transaction, err := env.ledger.SetRewardSpeed(ctx, RewardSpeedRequest{
		AssetID: "asset-usdc",
		Speed:   decimal.NewFromFloat(0.01),
	})
	require.Nil(t, err)
	assert.Equal(t, core.ActionTypeRewardSpeed, transaction.Action)

	instrument, err := env.instruments.Find(ctx, "asset-usdc")
	require.Nil(t, err)
	assert.Equal(t, "0.01", instrument.RewardSpeed.String())

	_, err = env.ledger.SetRewardSpeed(ctx, RewardSpeedRequest{
		AssetID: "asset-usdc",
		Speed:   decimal.NewFromInt(-1),
	})
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestPostPrice(t *testing.T) {
	ctx := context.Background()
	env := newLedgerTest(core.Fee{})

	_, err := env.ledger.PostPrice(ctx, PostPriceRequest{
		AssetID: "asset-btc",
		Price:   decimal.NewFromInt(60000),
	})
	require.Nil(t, err)

	price, err := env.priceStore.Find(ctx, "asset-btc")
	require.Nil(t, err)
	assert.Equal(t, "60000", price.Price.String())

	_, err = env.ledger.PostPrice(ctx, PostPriceRequest{
		AssetID: "asset-btc",
		Price:   decimal.Zero,
	})
	assert.Equal(t, core.ErrInvalidPrice, err)
}
