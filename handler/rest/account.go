package rest

import (
	"net/http"
	"time"

	"sigh/core"
	"sigh/handler/render"
	"sigh/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func accountHandler(accountSrv core.IAccountService, rewardStr core.IRewardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := chi.URLParam(r, "user_id")
		account, err := accountSrv.AccountData(ctx, userID, time.Now())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		accrued := decimal.Zero
		if reward, err := rewardStr.Find(ctx, userID); err == nil {
			accrued = reward.Accrued
		}

		render.JSON(w, &views.Account{
			AccountData: account,
			Reward:      accrued,
		})
	}
}

func liquidatableHandler(accountStr core.IAccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := accountStr.ListLiquidatable(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, accounts)
	}
}
