package cmd

import (
	"sigh/core"
	"sigh/store/account"
	"sigh/store/borrow"
	"sigh/store/deposit"
	"sigh/store/instrument"
	"sigh/store/price"
	"sigh/store/reward"
	"sigh/store/transaction"
	"sigh/store/user"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideInstrumentStore(db *db.DB) core.IInstrumentStore {
	return instrument.Cache(instrument.New(db))
}

func provideDepositStore(db *db.DB) core.IDepositStore {
	return deposit.New(db)
}

func provideBorrowStore(db *db.DB) core.IBorrowStore {
	return borrow.New(db)
}

func provideUserConfigStore(db *db.DB) core.IUserConfigStore {
	return user.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return price.New(db)
}

func provideTransactionStore(db *db.DB) core.ITransactionStore {
	return transaction.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return account.New(db)
}

func provideRewardStore(db *db.DB) core.IRewardStore {
	return reward.New(db)
}
