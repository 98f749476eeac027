package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/mcscoreboards/internal/config"
	"github.com/papapumpkin/mcscoreboards/internal/history"
	"github.com/papapumpkin/mcscoreboards/internal/ui"
)

// errNoHistoryDB is returned by history commands when no database is configured.
var errNoHistoryDB = errors.New("no history database configured; set history_db or pass --history")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query recorded generation runs",
}

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent generation runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryRuns,
}

var historyTopCmd = &cobra.Command{
	Use:   "top <objective>",
	Short: "Rank players on an objective in the latest run",
	Example: `  mcscoreboards history top m-diamond_ore
  mcscoreboards history top c-play_time -n 3`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryTop,
}

func init() {
	historyRunsCmd.Flags().IntP("limit", "n", 10, "number of runs to show")
	historyTopCmd.Flags().IntP("limit", "n", 10, "number of players to show")

	historyCmd.AddCommand(historyRunsCmd)
	historyCmd.AddCommand(historyTopCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryRuns(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	return withHistory(cmd, func(ctx context.Context, store *history.Store, printer *ui.Printer) error {
		runs, err := store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		printer.Runs(runs)
		return nil
	})
}

func runHistoryTop(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	objective := args[0]
	return withHistory(cmd, func(ctx context.Context, store *history.Store, printer *ui.Printer) error {
		standings, err := store.Top(ctx, objective, limit)
		if err != nil {
			return err
		}
		printer.Standings(objective, standings)
		return nil
	})
}

// withHistory opens the configured history database for the duration of fn.
func withHistory(cmd *cobra.Command, fn func(context.Context, *history.Store, *ui.Printer) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.HistoryDB == "" {
		return errNoHistoryDB
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.Open(ctx, cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(ctx, store, ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()))
}
