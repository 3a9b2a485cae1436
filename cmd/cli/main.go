package main

import (
	"context"
	"os"

	"growyourdough/api"
	gydcmd "growyourdough/cmd"
	"growyourdough/internal/logger"

	"github.com/spf13/cobra"
)

var (
	userID     string
	apiHandler *api.ApiHandler
)

var rootCmd = &cobra.Command{
	Use:           "gydctl",
	Short:         "Inspect and refresh GrowYourDough portfolios from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(c *cobra.Command, _ []string) error {
		if apiHandler != nil {
			return nil
		}
		handler, err := gydcmd.InitializeDependencies()
		if err != nil {
			return err
		}
		apiHandler = handler
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if apiHandler != nil {
			gydcmd.CloseDependencies(apiHandler)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User id the portfolio belongs to.")
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.FromContext(ctx).Errorw("command failed", "error", err)
		os.Exit(1)
	}
}
