package rest

import (
	"context"
	"net/http"
	"strings"

	"sigh/core"
	"sigh/handler/render"
	"sigh/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func allInstrumentsHandler(instrumentStr core.IInstrumentStore, instrumentSrv core.IInstrumentService, priceSrv core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		instruments, err := instrumentStr.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		instrumentViews := make([]*views.Instrument, 0, len(instruments))
		for _, instrument := range instruments {
			instrumentViews = append(instrumentViews, getInstrumentView(ctx, instrument, instrumentSrv, priceSrv))
		}

		render.JSON(w, instrumentViews)
	}
}

func instrumentHandler(instrumentStr core.IInstrumentStore, instrumentSrv core.IInstrumentService, priceSrv core.IPriceOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
		instrument, err := instrumentStr.FindBySymbol(ctx, symbol)
		if err != nil {
			render.NotFoundRequest(w, core.ErrInstrumentNotFound)
			return
		}

		render.JSON(w, getInstrumentView(ctx, instrument, instrumentSrv, priceSrv))
	}
}

func getInstrumentView(ctx context.Context, instrument *core.Instrument, instrumentSrv core.IInstrumentService, priceSrv core.IPriceOracleService) *views.Instrument {
	price, err := priceSrv.GetAssetPrice(ctx, instrument.AssetID)
	if err != nil {
		price = decimal.Zero
	}

	return &views.Instrument{
		Instrument:  *instrument,
		Utilization: instrumentSrv.CurUtilizationRate(ctx, instrument),
		Price:       price,
	}
}
