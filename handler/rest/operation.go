package rest

import (
	"net/http"

	"sigh/handler/param"
	"sigh/handler/render"
	"sigh/service/ledger"
)

func depositHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.DepositRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.Deposit(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func withdrawHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.WithdrawRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.Withdraw(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func borrowHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.BorrowRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.Borrow(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func repayHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.RepayRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.Repay(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func liquidateHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.LiquidateRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.Liquidate(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func flashLoanHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.FlashLoanRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.FlashLoan(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func swapRateModeHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.SwapRateModeRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.SwapRateMode(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func rebalanceHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.RebalanceRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.RebalanceStableRate(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func redirectInterestHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.RedirectInterestRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.RedirectInterest(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}

func redirectRewardHandler(lg *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledger.RedirectRewardRequest
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		transaction, err := lg.RedirectReward(r.Context(), req)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transaction)
	}
}
