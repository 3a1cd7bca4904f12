package views

import (
	"sigh/core"

	"github.com/shopspring/decimal"
)

// Instrument instrument view
type Instrument struct {
	core.Instrument
	Utilization decimal.Decimal `json:"utilization"`
	Price       decimal.Decimal `json:"price"`
}
