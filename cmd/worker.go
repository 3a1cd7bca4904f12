package cmd

import (
	"context"

	"sigh/worker"
	"sigh/worker/accrual"
	"sigh/worker/sentinel"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "sigh job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		instrumentStore := provideInstrumentStore(database)
		accountStore := provideAccountStore(database)
		priceStore := providePriceStore(database)

		instrumentService := provideInstrumentService()
		borrowService := provideBorrowService()
		priceService := providePriceService(priceStore)
		accountService := provideAccountService(
			instrumentStore,
			provideDepositStore(database),
			provideBorrowStore(database),
			provideUserConfigStore(database),
			priceService,
			instrumentService,
			borrowService,
		)

		jobs := []worker.IJob{
			accrual.New(provideConfig(), database, instrumentStore, instrumentService),
			sentinel.New(provideConfig(), database, accountStore, accountService),
		}

		for _, job := range jobs {
			if err := job.Start(); err != nil {
				log.WithError(err).Fatal("start job failed")
			}
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			for _, job := range jobs {
				job.Stop()
			}

			close(done)
		})

		log.Infoln("workers started")
		<-done
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
