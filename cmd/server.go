package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sigh/handler"
	"sigh/handler/hc"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run sigh api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		instrumentStore := provideInstrumentStore(database)
		accountStore := provideAccountStore(database)
		transactionStore := provideTransactionStore(database)
		rewardStore := provideRewardStore(database)
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

		svr := handler.New(
			provideConfig(),
			provideLedger(database),
			instrumentStore,
			accountStore,
			transactionStore,
			rewardStore,
			instrumentService,
			accountService,
			priceService,
		)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			// hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version))
		}

		{
			// restful api
			mux.Mount("/api", svr.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
}
