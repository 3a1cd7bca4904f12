package accrual

import (
	"context"
	"time"

	"sigh/core"
	"sigh/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Worker periodically accrues every instrument so indices and rates
// stay close to wall clock time even while nobody transacts.
type Worker struct {
	worker.BaseJob
	Config            *core.Config
	DB                *db.DB
	InstrumentStore   core.IInstrumentStore
	InstrumentService core.IInstrumentService
}

// New new accrual worker
func New(cfg *core.Config,
	database *db.DB,
	instrumentStore core.IInstrumentStore,
	instrumentService core.IInstrumentService) *Worker {
	job := Worker{
		Config:            cfg,
		DB:                database,
		InstrumentStore:   instrumentStore,
		InstrumentService: instrumentService,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 10s"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	instruments, err := w.InstrumentStore.All(ctx)
	if err != nil {
		log.Errorln(err)
		return err
	}

	now := time.Now()
	for _, instrument := range instruments {
		if !instrument.IsActive() {
			continue
		}

		if err := w.accrue(ctx, instrument, now); err != nil {
			log.WithField("symbol", instrument.Symbol).Errorln(err)
		}
	}

	return nil
}

func (w *Worker) accrue(ctx context.Context, instrument *core.Instrument, now time.Time) error {
	if err := w.InstrumentService.UpdateState(ctx, instrument, now); err != nil {
		return err
	}
	if err := w.InstrumentService.UpdateInterestRates(ctx, instrument, decimal.Zero, decimal.Zero); err != nil {
		return err
	}

	return w.DB.Tx(func(tx *db.DB) error {
		return w.InstrumentStore.Update(ctx, tx, instrument)
	})
}
