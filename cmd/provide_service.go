package cmd

import (
	"time"

	"sigh/core"
	"sigh/service/account"
	"sigh/service/borrow"
	"sigh/service/fee"
	"sigh/service/instrument"
	"sigh/service/ledger"
	"sigh/service/oracle"
	"sigh/service/reward"

	"github.com/fox-one/pkg/store/db"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideInstrumentService() core.IInstrumentService {
	return instrument.New(cfg.App.RewardSupplierShare)
}

func provideBorrowService() core.IBorrowService {
	return borrow.New()
}

func providePriceService(priceStore core.IPriceStore) core.IPriceOracleService {
	return oracle.New(priceStore, 10*time.Second)
}

func provideFeeService() core.IFeeProviderService {
	return fee.New(cfg.Fee)
}

func provideRewardService(rewardStore core.IRewardStore) core.IRewardService {
	return reward.New(rewardStore)
}

func provideAccountService(
	instrumentStore core.IInstrumentStore,
	depositStore core.IDepositStore,
	borrowStore core.IBorrowStore,
	userConfigStore core.IUserConfigStore,
	priceService core.IPriceOracleService,
	instrumentService core.IInstrumentService,
	borrowService core.IBorrowService,
) core.IAccountService {
	return account.New(instrumentStore, depositStore, borrowStore, userConfigStore, priceService, instrumentService, borrowService)
}

func provideLedger(database *db.DB) *ledger.Ledger {
	instrumentStore := provideInstrumentStore(database)
	depositStore := provideDepositStore(database)
	borrowStore := provideBorrowStore(database)
	userConfigStore := provideUserConfigStore(database)
	transactionStore := provideTransactionStore(database)
	priceStore := providePriceStore(database)
	rewardStore := provideRewardStore(database)

	instrumentService := provideInstrumentService()
	borrowService := provideBorrowService()
	priceService := providePriceService(priceStore)
	accountService := provideAccountService(instrumentStore, depositStore, borrowStore, userConfigStore, priceService, instrumentService, borrowService)

	receivers := ledger.NewRegistry()
	receivers.Register(ledger.SettleReceiverName, ledger.SettleReceiver{})

	return ledger.New(
		database,
		instrumentStore,
		depositStore,
		borrowStore,
		userConfigStore,
		transactionStore,
		priceStore,
		instrumentService,
		borrowService,
		accountService,
		priceService,
		provideFeeService(),
		provideRewardService(rewardStore),
		receivers,
	)
}
