package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"growyourdough/internal/domain"
	"growyourdough/internal/service"

	"github.com/spf13/cobra"
)

var (
	forceRefresh bool
	accountFlag  string
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Print every account and its holdings",
	RunE: func(c *cobra.Command, _ []string) error {
		if userID == "" {
			return errors.New("--user is required")
		}
		accounts, err := apiHandler.LedgerService.Accounts(c.Context(), userID)
		if err != nil {
			return err
		}
		return printAccounts(c.OutOrStdout(), accounts)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reprice every holding and print the result",
	RunE: func(c *cobra.Command, _ []string) error {
		if userID == "" {
			return errors.New("--user is required")
		}
		return runRefresh(c.Context(), c.OutOrStdout(), apiHandler.LedgerService, userID, forceRefresh)
	},
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Print the monthly value series of one account",
	RunE: func(c *cobra.Command, _ []string) error {
		if userID == "" {
			return errors.New("--user is required")
		}
		accountType, err := domain.ParseAccountType(accountFlag)
		if err != nil {
			return err
		}
		return runSeries(c.Context(), c.OutOrStdout(), apiHandler.LedgerService, userID, accountType)
	},
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(seriesCmd)

	refreshCmd.Flags().BoolVar(&forceRefresh, "force", false, "Refresh even if prices were already fetched this session.")
	seriesCmd.Flags().StringVarP(&accountFlag, "account", "a", string(domain.AccountTypeTFSA), "Account type to chart.")
}

func runRefresh(ctx context.Context, out io.Writer, ledgerService service.LedgerService, userID string, force bool) error {
	accounts, err := ledgerService.RefreshQuotes(ctx, userID, force)
	if err != nil {
		return err
	}
	return printAccounts(out, accounts)
}

func runSeries(ctx context.Context, out io.Writer, ledgerService service.LedgerService, userID string, accountType domain.AccountType) error {
	series, err := ledgerService.Series(ctx, userID, accountType)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s Performance\n", accountType)
	for i, label := range series.Labels {
		fmt.Fprintf(w, "%s\t%s\n", label, series.Values[i].StringFixed(2))
	}
	return w.Flush()
}

func printAccounts(out io.Writer, accounts []domain.Account) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, a := range accounts {
		summary := domain.Summarize(a)
		fmt.Fprintf(w, "%s\t%s\tnext: %s\n", a.Name(), summary.TotalValueDisplay, a.NextContribution)
		for _, h := range a.Holdings {
			fmt.Fprintf(w, "  %s\t%s sh\t@ %s\t%s\t%s%%\n",
				h.Symbol,
				h.Shares.String(),
				h.PurchasePrice.StringFixed(2),
				h.MarketValue().StringFixed(2),
				h.Change.StringFixed(2),
			)
		}
	}
	return w.Flush()
}
