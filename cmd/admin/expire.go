package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(expireCmd)
}

var expireCmd = &cobra.Command{
	Use:   "expire-subscriptions",
	Short: "Expire paid subscriptions whose period has ended",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		n, err := a.Services.Billing.ExpireSubscriptions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Expired %d subscription(s)\n", n)
		return nil
	},
}
