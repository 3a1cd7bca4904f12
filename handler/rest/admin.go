package rest

import (
	"net/http"

	"sigh/handler/param"
	"sigh/handler/render"
	"sigh/service/ledger"
)

func initInstrumentHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.InitInstrumentRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.InitInstrument(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func setFlagsHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.FlagsRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.SetInstrumentFlags(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func setRewardSpeedHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.RewardSpeedRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.SetRewardSpeed(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func postPriceHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.PostPriceRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.PostPrice(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}
