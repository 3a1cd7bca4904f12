package cmd

import (
	"strings"

	"sigh/service/ledger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var initInstrumentCmd = &cobra.Command{
	Use:     "init-instrument",
	Aliases: []string{"ii"},
	Short:   "list a new instrument",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		symbol, e := cmd.Flags().GetString("symbol")
		if e != nil || symbol == "" {
			panic("invalid symbol")
		}
		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid asset id")
		}

		database := provideDatabase()
		defer database.Close()

		lg := provideLedger(database)

		req := ledger.InitInstrumentRequest{
			AssetID:  assetID,
			Symbol:   strings.ToUpper(symbol),
			Decimals: cast.ToInt32(flagString(cmd, "decimals")),

			LTV:                  flagDecimal(cmd, "ltv"),
			LiquidationThreshold: flagDecimal(cmd, "threshold"),
			LiquidationBonus:     flagDecimal(cmd, "bonus"),
			ReserveFactor:        flagDecimal(cmd, "rf"),

			OptimalUtilization: flagDecimal(cmd, "u"),
			BaseVariableRate:   flagDecimal(cmd, "base"),
			VariableSlope1:     flagDecimal(cmd, "vs1"),
			VariableSlope2:     flagDecimal(cmd, "vs2"),
			BaseStableRate:     flagDecimal(cmd, "sbase"),
			StableSlope1:       flagDecimal(cmd, "ss1"),
			StableSlope2:       flagDecimal(cmd, "ss2"),
		}

		transaction, err := lg.InitInstrument(ctx, req)
		if err != nil {
			panic(err)
		}

		cmd.Println("instrument listed, trace:", transaction.TraceID)
	},
}

func flagString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}
	return v
}

func flagDecimal(cmd *cobra.Command, name string) decimal.Decimal {
	d, _ := decimal.NewFromString(flagString(cmd, name))
	return d
}

func init() {
	rootCmd.AddCommand(initInstrumentCmd)

	initInstrumentCmd.Flags().String("symbol", "", "instrument symbol")
	initInstrumentCmd.Flags().String("asset", "", "asset id")
	initInstrumentCmd.Flags().String("decimals", "8", "asset decimals")
	initInstrumentCmd.Flags().String("ltv", "0", "loan to value")
	initInstrumentCmd.Flags().String("threshold", "0", "liquidation threshold")
	initInstrumentCmd.Flags().String("bonus", "0", "liquidation bonus")
	initInstrumentCmd.Flags().String("rf", "0", "reserve factor")
	initInstrumentCmd.Flags().String("u", "0.8", "optimal utilization")
	initInstrumentCmd.Flags().String("base", "0", "base variable rate")
	initInstrumentCmd.Flags().String("vs1", "0", "variable slope one")
	initInstrumentCmd.Flags().String("vs2", "0", "variable slope two")
	initInstrumentCmd.Flags().String("sbase", "0", "base stable rate")
	initInstrumentCmd.Flags().String("ss1", "0", "stable slope one")
	initInstrumentCmd.Flags().String("ss2", "0", "stable slope two")
}
