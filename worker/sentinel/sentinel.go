package sentinel

import (
	"context"
	"time"

	"sigh/core"
	"sigh/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
)

// Worker scans all borrowers and keeps a snapshot table of accounts
// below the liquidation threshold for liquidators to poll.
type Worker struct {
	worker.BaseJob
	Config         *core.Config
	DB             *db.DB
	AccountStore   core.IAccountStore
	AccountService core.IAccountService
}

// New new sentinel worker
func New(cfg *core.Config,
	database *db.DB,
	accountStore core.IAccountStore,
	accountService core.IAccountService) *Worker {
	job := Worker{
		Config:         cfg,
		DB:             database,
		AccountStore:   accountStore,
		AccountService: accountService,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 30s"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "sentinel")

	now := time.Now()
	accounts, err := w.AccountService.LiquidatableAccounts(ctx, now)
	if err != nil {
		log.Errorln(err)
		return err
	}

	liquidatable := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		liquidatable[account.UserID] = true
		snapshot := &core.LiquidatableAccount{
			UserID:       account.UserID,
			HealthFactor: account.HealthFactor,
			DebtValue:    account.DebtValue,
			ScannedAt:    now,
		}
		if err := w.AccountStore.SaveLiquidatable(ctx, nil, snapshot); err != nil {
			log.WithField("user", account.UserID).Errorln(err)
		}
	}

	// drop entries that recovered since the last scan
	stale, err := w.AccountStore.ListLiquidatable(ctx)
	if err != nil {
		log.Errorln(err)
		return err
	}
	for _, entry := range stale {
		if liquidatable[entry.UserID] {
			continue
		}
		if err := w.AccountStore.DeleteLiquidatable(ctx, nil, entry.UserID); err != nil {
			log.WithField("user", entry.UserID).Errorln(err)
		}
	}

	return nil
}
