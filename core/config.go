package core

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config sigh node config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Fee    Fee       `json:"fee"`
	Admins []string  `json:"admins"`
}

// IsAdmin check if the caller key is a configurator
func (c *Config) IsAdmin(key string) bool {
	if key == "" {
		return false
	}

	for _, a := range c.Admins {
		if a == key {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	Location string `json:"location"`
	// SIGH stream supplier share, rest goes to borrowers
	RewardSupplierShare decimal.Decimal `json:"reward_supplier_share"`
}

// Fee fee config, rates are fractions of the moved amount
type Fee struct {
	DepositFeeRate       decimal.Decimal `json:"deposit_fee_rate"`
	OriginationFeeRate   decimal.Decimal `json:"origination_fee_rate"`
	FlashLoanPremiumRate decimal.Decimal `json:"flash_loan_premium_rate"`
	// platform share of every fee, the rest is the reserve cut
	PlatformShare decimal.Decimal `json:"platform_share"`
	// boosterID -> discount fraction applied to the total fee
	Boosters map[string]decimal.Decimal `json:"boosters"`
}
