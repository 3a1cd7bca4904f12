package account

import (
	"context"
	"time"

	"sigh/core"
	"sigh/internal/sigh"

	"github.com/jinzhu/gorm"
)

type accountService struct {
	instrumentStore   core.IInstrumentStore
	depositStore      core.IDepositStore
	borrowStore       core.IBorrowStore
	userConfigStore   core.IUserConfigStore
	priceService      core.IPriceOracleService
	instrumentService core.IInstrumentService
	borrowService     core.IBorrowService
}

// New new account service
func New(
	instrumentStore core.IInstrumentStore,
	depositStore core.IDepositStore,
	borrowStore core.IBorrowStore,
	userConfigStore core.IUserConfigStore,
	priceService core.IPriceOracleService,
	instrumentService core.IInstrumentService,
	borrowService core.IBorrowService,
) core.IAccountService {
	return &accountService{
		instrumentStore:   instrumentStore,
		depositStore:      depositStore,
		borrowStore:       borrowStore,
		userConfigStore:   userConfigStore,
		priceService:      priceService,
		instrumentService: instrumentService,
		borrowService:     borrowService,
	}
}

// AccountData values every position of the user at current oracle
// prices. Indices are accrued in memory first so the valuation reflects
// interest up to now without persisting anything.
func (s *accountService) AccountData(ctx context.Context, userID string, now time.Time) (*core.AccountData, error) {
	cfg, err := s.userConfigStore.Find(ctx, userID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			cfg = &core.UserConfig{UserID: userID}
		} else {
			return nil, err
		}
	}

	instruments, err := s.instrumentStore.AllAsMap(ctx)
	if err != nil {
		return nil, err
	}

	deposits, err := s.depositStore.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	borrows, err := s.borrowStore.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]*sigh.PositionValue)
	position := func(assetID string) *sigh.PositionValue {
		p, ok := positions[assetID]
		if !ok {
			p = &sigh.PositionValue{}
			positions[assetID] = p
		}
		return p
	}

	for _, deposit := range deposits {
		instrument, ok := instruments[deposit.AssetID]
		if !ok || !cfg.UsingAsCollateral(instrument.ID) || !instrument.CollateralEnabled() {
			continue
		}

		if err := s.instrumentService.UpdateState(ctx, instrument, now); err != nil {
			return nil, err
		}

		price, err := s.priceService.GetAssetPrice(ctx, deposit.AssetID)
		if err != nil {
			return nil, err
		}

		p := position(deposit.AssetID)
		p.Collateral = p.Collateral.Add(deposit.Compounded(instrument).Mul(price))
		p.LiquidationThreshold = instrument.LiquidationThreshold
		p.LTV = instrument.LTV
	}

	for _, borrow := range borrows {
		instrument, ok := instruments[borrow.AssetID]
		if !ok || !borrow.Principal.IsPositive() {
			continue
		}

		if err := s.instrumentService.UpdateState(ctx, instrument, now); err != nil {
			return nil, err
		}

		balance, err := s.borrowService.BorrowBalance(ctx, borrow, instrument, now)
		if err != nil {
			return nil, err
		}

		price, err := s.priceService.GetAssetPrice(ctx, borrow.AssetID)
		if err != nil {
			return nil, err
		}

		p := position(borrow.AssetID)
		p.Debt = p.Debt.Add(balance.Mul(price))
	}

	values := make([]sigh.PositionValue, 0, len(positions))
	for _, p := range positions {
		values = append(values, *p)
	}

	totals := sigh.Totals(values)
	return &core.AccountData{
		UserID:           userID,
		CollateralValue:  totals.Collateral.Truncate(sigh.MaxPrecision),
		LiquidationValue: totals.LiquidationValue.Truncate(sigh.MaxPrecision),
		BorrowLimit:      totals.BorrowLimit.Truncate(sigh.MaxPrecision),
		DebtValue:        totals.Debt.Truncate(sigh.MaxPrecision),
		HealthFactor:     sigh.HealthFactor(totals),
		Deposits:         deposits,
		Borrows:          borrows,
	}, nil
}

func (s *accountService) LiquidatableAccounts(ctx context.Context, now time.Time) ([]*core.AccountData, error) {
	users, err := s.borrowStore.Users(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*core.AccountData, 0)
	for _, userID := range users {
		data, err := s.AccountData(ctx, userID, now)
		if err != nil {
			continue
		}

		if data.Liquidatable() {
			accounts = append(accounts, data)
		}
	}

	return accounts, nil
}
