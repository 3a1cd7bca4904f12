package views

import (
	"sigh/core"

	"github.com/shopspring/decimal"
)

// Account account view
type Account struct {
	*core.AccountData
	Reward decimal.Decimal `json:"reward"`
}
