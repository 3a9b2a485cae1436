package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"growyourdough/internal/repository"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/spf13/cobra"
)

var pruneDays int

var pruneRequestsCmd = &cobra.Command{
	Use:   "prune-requests",
	Short: "Delete logged api requests older than --days",
	RunE: func(c *cobra.Command, _ []string) error {
		if apiHandler.Db == nil {
			return errors.New("prune-requests needs the postgres store")
		}
		return runPruneRequests(c.Context(), c.OutOrStdout(), apiHandler.ApiRequestRepository, apiHandler.Db, pruneDays, time.Now().UTC())
	},
}

func init() {
	rootCmd.AddCommand(pruneRequestsCmd)
	pruneRequestsCmd.Flags().IntVar(&pruneDays, "days", 30, "Keep requests newer than this many days.")
}

func runPruneRequests(ctx context.Context, out io.Writer, apiRequestRepository repository.ApiRequestRepository, db qrm.Executable, days int, now time.Time) error {
	if days < 1 {
		return fmt.Errorf("--days must be at least 1, got %d", days)
	}
	cutoff := now.AddDate(0, 0, -days)
	n, err := apiRequestRepository.DeleteBefore(ctx, db, cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %d api requests before %s\n", n, cutoff.Format(time.RFC3339))
	return nil
}
