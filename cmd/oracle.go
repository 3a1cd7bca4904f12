package cmd

import (
	"sigh/service/ledger"

	"github.com/spf13/cobra"
)

var postPriceCmd = &cobra.Command{
	Use:     "post-price",
	Aliases: []string{"pp"},
	Short:   "post an oracle price",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid asset id")
		}

		price := flagDecimal(cmd, "price")
		if !price.IsPositive() {
			panic("invalid price")
		}

		database := provideDatabase()
		defer database.Close()

		lg := provideLedger(database)

		transaction, err := lg.PostPrice(ctx, ledger.PostPriceRequest{
			AssetID: assetID,
			Price:   price,
		})
		if err != nil {
			panic(err)
		}

		cmd.Println("price posted, trace:", transaction.TraceID)
	},
}

func init() {
	rootCmd.AddCommand(postPriceCmd)

	postPriceCmd.Flags().String("asset", "", "asset id")
	postPriceCmd.Flags().String("price", "0", "price in quote currency")
}
