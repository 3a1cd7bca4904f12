package config

import (
	"sigh/core"

	"github.com/fox-one/pkg/config"
	"github.com/shopspring/decimal"
)

// Load load config file
func Load(cfgFile string, cfg *core.Config) error {
	config.AutomaticLoadEnv("SIGH")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaults(cfg)
	return nil
}

func defaults(cfg *core.Config) {
	if cfg.App.Location == "" {
		cfg.App.Location = "UTC"
	}

	if !cfg.App.RewardSupplierShare.IsPositive() {
		cfg.App.RewardSupplierShare = decimal.New(5, -1)
	}

	if !cfg.Fee.PlatformShare.IsPositive() {
		cfg.Fee.PlatformShare = decimal.New(5, -1)
	}

	if !cfg.Fee.FlashLoanPremiumRate.IsPositive() {
		// nine basis points
		cfg.Fee.FlashLoanPremiumRate = decimal.New(9, -4)
	}
}
