package handler

import (
	"net/http"

	"sigh/core"
	"sigh/handler/render"
	"sigh/handler/rest"
	"sigh/service/ledger"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	cfg *core.Config
	lg  *ledger.Ledger

	instrumentStore  core.IInstrumentStore
	accountStore     core.IAccountStore
	transactionStore core.ITransactionStore
	rewardStore      core.IRewardStore

	instrumentService core.IInstrumentService
	accountService    core.IAccountService
	priceService      core.IPriceOracleService
}

// New new server function
func New(
	cfg *core.Config,
	lg *ledger.Ledger,
	instrumentStore core.IInstrumentStore,
	accountStore core.IAccountStore,
	transactionStore core.ITransactionStore,
	rewardStore core.IRewardStore,
	instrumentService core.IInstrumentService,
	accountService core.IAccountService,
	priceService core.IPriceOracleService,
) Server {
	return Server{
		cfg:               cfg,
		lg:                lg,
		instrumentStore:   instrumentStore,
		accountStore:      accountStore,
		transactionStore:  transactionStore,
		rewardStore:       rewardStore,
		instrumentService: instrumentService,
		accountService:    accountService,
		priceService:      priceService,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		err := twirp.NotFoundError("not found")
		render.Error(w, http.StatusNotFound, -1, err)
	})

	r.Mount("/", rest.Handle(
		s.cfg,
		s.lg,
		s.instrumentStore,
		s.accountStore,
		s.transactionStore,
		s.rewardStore,
		s.instrumentService,
		s.accountService,
		s.priceService,
	))

	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
