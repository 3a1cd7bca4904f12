package rest

import (
	"errors"
	"net/http"

	"sigh/core"
	"sigh/handler/render"
	"sigh/service/ledger"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	cfg *core.Config,
	lg *ledger.Ledger,
	instrumentStore core.IInstrumentStore,
	accountStore core.IAccountStore,
	transactionStore core.ITransactionStore,
	rewardStore core.IRewardStore,
	instrumentService core.IInstrumentService,
	accountService core.IAccountService,
	priceService core.IPriceOracleService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/instruments", allInstrumentsHandler(instrumentStore, instrumentService, priceService))
	router.Get("/instruments/{symbol}", instrumentHandler(instrumentStore, instrumentService, priceService))
	router.Get("/accounts/{user_id}", accountHandler(accountService, rewardStore))
	router.Get("/accounts/{user_id}/transactions", userTransactionsHandler(transactionStore))
	router.Get("/transactions", transactionsHandler(transactionStore))
	router.Get("/liquidatable", liquidatableHandler(accountStore))

	router.Post("/deposits", depositHandler(lg))
	router.Post("/withdrawals", withdrawHandler(lg))
	router.Post("/borrows", borrowHandler(lg))
	router.Post("/repayments", repayHandler(lg))
	router.Post("/liquidations", liquidateHandler(lg))
	router.Post("/flash-loans", flashLoanHandler(lg))
	router.Post("/rate-swaps", swapRateModeHandler(lg))
	router.Post("/rebalances", rebalanceHandler(lg))
	router.Post("/redirections/interest", redirectInterestHandler(lg))
	router.Post("/redirections/reward", redirectRewardHandler(lg))

	router.Route("/admin", func(r chi.Router) {
		r.Use(adminGate(cfg))
		r.Post("/instruments", initInstrumentHandler(lg))
		r.Post("/instruments/flags", setFlagsHandler(lg))
		r.Post("/instruments/reward-speed", setRewardSpeedHandler(lg))
		r.Post("/prices", postPriceHandler(lg))
	})

	return router
}

// adminGate configurator operations require a configured admin key
func adminGate(cfg *core.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !cfg.IsAdmin(r.Header.Get("X-Admin-Key")) {
				render.Forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
