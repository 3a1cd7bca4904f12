package ledger

import (
	"context"
	"time"

	"sigh/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// RedirectInterestRequest point future deposit interest at another user
type RedirectInterestRequest struct {
	TraceID string `json:"trace_id"`
	UserID  string `json:"user_id"`
	AssetID string `json:"asset_id"`
	// empty target resets accrual back to the owner
	Target string `json:"target"`
}

// RedirectInterest settles the deposit, then points future interest at
// the target. The redirecting principal keeps earning for the target
// until redirected elsewhere or reset. One level only: depositing into
// a balance that already redirects is fine, but the target of a
// redirect may not itself redirect.
func (l *Ledger) RedirectInterest(ctx context.Context, req RedirectInterestRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "redirect_interest")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	if req.Target == req.UserID {
		req.Target = ""
	}

	instrument, err := l.instrumentStore.Find(ctx, req.AssetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrInstrumentNotFound
		}
		return nil, err
	}

	now := time.Now()
	if err := l.instrumentService.UpdateState(ctx, instrument, now); err != nil {
		return nil, err
	}

	deposit, err := l.findDeposit(ctx, req.UserID, req.AssetID)
	if err != nil {
		return nil, err
	}

	var newTarget *core.Deposit
	if req.Target != "" {
		if newTarget, err = l.findDeposit(ctx, req.Target, req.AssetID); err != nil {
			return nil, err
		}
	}

	if err := validateRedirect(deposit, newTarget); err != nil {
		return nil, err
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeRedirectInterest,
		UserID:  req.UserID,
		AssetID: req.AssetID,
		Amount:  deposit.Principal,
	}

	err = l.tx(func(tx *db.DB) error {
		// settle under the old target so nothing accrued is lost
		oldTarget, err := l.settleDeposit(ctx, instrument, deposit)
		if err != nil {
			return err
		}

		// the old target stops tracking this principal
		adjustRedirected(oldTarget, deposit.Principal.Neg())

		deposit.RedirectTo = req.Target
		if newTarget != nil {
			newTarget.Principal = newTarget.Compounded(instrument)
			newTarget.InterestIndex = instrument.LiquidityIndex
			newTarget.RedirectedPrincipal = newTarget.RedirectedPrincipal.Add(deposit.Principal)
		}

		if err := l.instrumentStore.Update(ctx, tx, instrument); err != nil {
			return err
		}
		if err := l.depositStore.Save(ctx, tx, deposit); err != nil {
			return err
		}
		if oldTarget != nil {
			if err := l.depositStore.Save(ctx, tx, oldTarget); err != nil {
				return err
			}
		}
		if newTarget != nil {
			if err := l.depositStore.Save(ctx, tx, newTarget); err != nil {
				return err
			}
		}

		transaction.SetExtra(core.TransactionExtra{
			"target": req.Target,
		})
		return l.journal(ctx, tx, transaction, now)
	})
	if err != nil {
		log.WithError(err).Errorln("redirect interest aborted")
		return nil, err
	}

	return transaction, nil
}

// RedirectRewardRequest point the SIGH stream at another user
type RedirectRewardRequest struct {
	TraceID string `json:"trace_id"`
	UserID  string `json:"user_id"`
	Target  string `json:"target"`
}

// RedirectReward points future SIGH accrual of the user at the target.
// Already accrued rewards stay with whoever earned them.
func (l *Ledger) RedirectReward(ctx context.Context, req RedirectRewardRequest) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithField("ledger", "redirect_reward")

	if transaction, err := l.findTransaction(ctx, req.TraceID); err != nil || transaction != nil {
		return transaction, err
	}

	if req.Target == req.UserID {
		req.Target = ""
	}

	transaction := &core.Transaction{
		TraceID: traceOrNew(req.TraceID),
		Action:  core.ActionTypeRedirectReward,
		UserID:  req.UserID,
		Amount:  decimal.Zero,
	}

	err := l.tx(func(tx *db.DB) error {
		if err := l.rewardService.Redirect(ctx, tx, req.UserID, req.Target); err != nil {
			return err
		}

		transaction.SetExtra(core.TransactionExtra{
			"target": req.Target,
		})
		return l.journal(ctx, tx, transaction, time.Now())
	})
	if err != nil {
		log.WithError(err).Errorln("redirect reward aborted")
		return nil, err
	}

	return transaction, nil
}
