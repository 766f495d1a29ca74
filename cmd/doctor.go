package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database and broker connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		defer appInstance.Close()

		ok := color.New(color.FgGreen)

		fmt.Println("Checking database connectivity...")
		if err := appInstance.Store.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		ok.Println("Database connection successful.")

		fmt.Println("Checking broker connectivity...")
		if err := appInstance.ConnectBroker(); err != nil {
			return fmt.Errorf("broker check failed: %w", err)
		}
		ok.Println("Broker connection and topology successful.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
