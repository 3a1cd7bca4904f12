package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// InstrumentFlag instrument configuration bitmask
type InstrumentFlag uint64

const (
	// FlagActive instrument accepts operations
	FlagActive InstrumentFlag = 1 << iota
	// FlagFrozen instrument rejects deposits and new borrows
	FlagFrozen
	// FlagBorrowingEnabled variable rate borrowing allowed
	FlagBorrowingEnabled
	// FlagStableBorrowingEnabled stable rate borrowing allowed
	FlagStableBorrowingEnabled
	// FlagCollateralEnabled deposits count as collateral
	FlagCollateralEnabled
)

// RateMode borrow rate mode
type RateMode int

const (
	// RateModeStable stable rate borrow
	RateModeStable RateMode = 1
	// RateModeVariable variable rate borrow
	RateModeVariable RateMode = 2
)

// Instrument is a single listed asset market. Indices and totals are
// mutated only inside the scope of one ledger operation; the Version
// column guards concurrent writers.
type Instrument struct {
	ID             uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID        string         `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	Symbol         string         `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	Decimals       int32          `sql:"default:8" json:"decimals"`
	ITokenAssetID  string         `sql:"size:36" json:"itoken_asset_id"`
	StableDebtID   string         `sql:"size:36" json:"stable_debt_id"`
	VariableDebtID string         `sql:"size:36" json:"variable_debt_id"`
	Flags          InstrumentFlag `sql:"default:0" json:"flags"`

	// risk configuration, fractions in (0, 1)
	LTV                  decimal.Decimal `sql:"type:decimal(20,8)" json:"ltv"`
	LiquidationThreshold decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_threshold"`
	LiquidationBonus     decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_bonus"`
	ReserveFactor        decimal.Decimal `sql:"type:decimal(20,8)" json:"reserve_factor"`

	// interest rate curve, annual fractions
	OptimalUtilization decimal.Decimal `sql:"type:decimal(20,8)" json:"optimal_utilization"`
	BaseVariableRate   decimal.Decimal `sql:"type:decimal(20,8)" json:"base_variable_rate"`
	VariableSlope1     decimal.Decimal `sql:"type:decimal(20,8)" json:"variable_slope1"`
	VariableSlope2     decimal.Decimal `sql:"type:decimal(20,8)" json:"variable_slope2"`
	BaseStableRate     decimal.Decimal `sql:"type:decimal(20,8)" json:"base_stable_rate"`
	StableSlope1       decimal.Decimal `sql:"type:decimal(20,8)" json:"stable_slope1"`
	StableSlope2       decimal.Decimal `sql:"type:decimal(20,8)" json:"stable_slope2"`

	// cumulative indices, start at 1 and never decrease
	LiquidityIndex      decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"liquidity_index"`
	VariableBorrowIndex decimal.Decimal `sql:"type:decimal(32,16);default:1" json:"variable_borrow_index"`

	// current annual rates
	LiquidityRate      decimal.Decimal `sql:"type:decimal(20,16)" json:"liquidity_rate"`
	VariableBorrowRate decimal.Decimal `sql:"type:decimal(20,16)" json:"variable_borrow_rate"`
	StableBorrowRate   decimal.Decimal `sql:"type:decimal(20,16)" json:"stable_borrow_rate"`
	AvgStableRate      decimal.Decimal `sql:"type:decimal(20,16)" json:"avg_stable_rate"`

	TotalCash         decimal.Decimal `sql:"type:decimal(32,16)" json:"total_cash"`
	TotalVariableDebt decimal.Decimal `sql:"type:decimal(32,16)" json:"total_variable_debt"`
	TotalStableDebt   decimal.Decimal `sql:"type:decimal(32,16)" json:"total_stable_debt"`
	// protocol side accumulators
	Reserves     decimal.Decimal `sql:"type:decimal(32,16)" json:"reserves"`
	PlatformFees decimal.Decimal `sql:"type:decimal(32,16)" json:"platform_fees"`

	// SIGH reward stream
	RewardSpeed         decimal.Decimal `sql:"type:decimal(32,16)" json:"reward_speed"`
	SupplierRewardIndex decimal.Decimal `sql:"type:decimal(32,16)" json:"supplier_reward_index"`
	BorrowerRewardIndex decimal.Decimal `sql:"type:decimal(32,16)" json:"borrower_reward_index"`

	LastUpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"last_updated_at"`
	Version       int64     `sql:"default:0" json:"version"`
	CreatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsActive active flag
func (i *Instrument) IsActive() bool {
	return i.Flags&FlagActive != 0
}

// IsFrozen frozen flag
func (i *Instrument) IsFrozen() bool {
	return i.Flags&FlagFrozen != 0
}

// BorrowingEnabled borrowing flag
func (i *Instrument) BorrowingEnabled() bool {
	return i.Flags&FlagBorrowingEnabled != 0
}

// StableBorrowingEnabled stable borrowing flag
func (i *Instrument) StableBorrowingEnabled() bool {
	return i.Flags&FlagStableBorrowingEnabled != 0
}

// CollateralEnabled collateral flag
func (i *Instrument) CollateralEnabled() bool {
	return i.Flags&FlagCollateralEnabled != 0
}

// SetFlag set flag
func (i *Instrument) SetFlag(flag InstrumentFlag) {
	i.Flags |= flag
}

// ClearFlag clear flag
func (i *Instrument) ClearFlag(flag InstrumentFlag) {
	i.Flags &^= flag
}

// TotalDebt total stable plus variable debt
func (i *Instrument) TotalDebt() decimal.Decimal {
	return i.TotalVariableDebt.Add(i.TotalStableDebt)
}

// TotalLiquidity cash plus debt
func (i *Instrument) TotalLiquidity() decimal.Decimal {
	return i.TotalCash.Add(i.TotalDebt())
}

// IInstrumentStore instrument store interface
type IInstrumentStore interface {
	Create(ctx context.Context, tx *db.DB, instrument *Instrument) error
	Find(ctx context.Context, assetID string) (*Instrument, error)
	FindBySymbol(ctx context.Context, symbol string) (*Instrument, error)
	All(ctx context.Context) ([]*Instrument, error)
	AllAsMap(ctx context.Context) (map[string]*Instrument, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, tx *db.DB, instrument *Instrument) error
}

// IInstrumentService accrual interface
type IInstrumentService interface {
	// UpdateState accrues interest and reward indices since LastUpdatedAt.
	// Must run before any balance affecting operation on the instrument.
	UpdateState(ctx context.Context, instrument *Instrument, now time.Time) error
	// UpdateInterestRates recomputes the current rates after liquidity moved.
	UpdateInterestRates(ctx context.Context, instrument *Instrument, liquidityAdded, liquidityTaken decimal.Decimal) error
	CurUtilizationRate(ctx context.Context, instrument *Instrument) decimal.Decimal
}
