package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Migration complete")
		return nil
	},
}
