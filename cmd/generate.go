package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/mcscoreboards/internal/config"
	"github.com/papapumpkin/mcscoreboards/internal/history"
	"github.com/papapumpkin/mcscoreboards/internal/pipeline"
	"github.com/papapumpkin/mcscoreboards/internal/schema"
	"github.com/papapumpkin/mcscoreboards/internal/stats"
	"github.com/papapumpkin/mcscoreboards/internal/telemetry"
	"github.com/papapumpkin/mcscoreboards/internal/ui"
	"github.com/papapumpkin/mcscoreboards/internal/watch"
)

// errWatchNeedsStats is returned when --watch is given without a stats directory.
var errWatchNeedsStats = errors.New("--watch needs a stats directory (-s)")

var generateCmd = &cobra.Command{
	Use:   "generate <version>",
	Short: "Generate the scoreboard datapack for a Minecraft version",
	Long: `Writes datapacks/mc-scoreboards-<version>/ under the output directory with
create and remove functions for every statistic of the version.

With a stats directory (-s) and whitelist (-w), also writes an update function
that sets each whitelisted player's score on every objective. --watch keeps
running and regenerates whenever a stat file or the whitelist changes.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeVersions,
	RunE:              runGenerate,
}

func init() {
	generateCmd.Flags().StringP("stats", "s", "", "world stats directory")
	generateCmd.Flags().StringP("outdir", "o", ".", "directory to write datapacks/ into")
	generateCmd.Flags().StringP("whitelist", "w", "", "server whitelist.json")
	generateCmd.Flags().String("assets", "", "directory of stats_<version>.json files overriding the bundled ones")
	generateCmd.Flags().Bool("full-criteria", false, "use the full stat key as the objective criterion")
	generateCmd.Flags().Bool("watch", false, "regenerate when stat files or the whitelist change")

	_ = viper.BindPFlag("stats_dir", generateCmd.Flags().Lookup("stats"))
	_ = viper.BindPFlag("output_dir", generateCmd.Flags().Lookup("outdir"))
	_ = viper.BindPFlag("whitelist", generateCmd.Flags().Lookup("whitelist"))
	_ = viper.BindPFlag("assets_dir", generateCmd.Flags().Lookup("assets"))
	_ = viper.BindPFlag("full_criteria", generateCmd.Flags().Lookup("full-criteria"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	printer.SetVerbose(cfg.Verbose)

	events, err := openTelemetry(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer events.Close()

	g := &generator{
		pipeline: pipeline.New(newLoader(cfg.AssetsDir), printer, events),
		printer:  printer,
		history:  cfg.HistoryDB,
		opts: pipeline.Options{
			Version:      args[0],
			OutputDir:    cfg.OutputDir,
			StatsDir:     cfg.StatsDir,
			Whitelist:    cfg.Whitelist,
			FullCriteria: cfg.FullCriteria,
		},
	}

	watching, _ := cmd.Flags().GetBool("watch")
	if watching && g.opts.StatsDir == "" {
		return errWatchNeedsStats
	}

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	if err := g.generate(ctx); err != nil {
		return err
	}
	if !watching {
		return nil
	}
	return g.watch(ctx, cfg.WatchDebounce)
}

// generator runs the pipeline with fixed options and reports each result.
type generator struct {
	pipeline *pipeline.Pipeline
	printer  *ui.Printer
	history  string
	opts     pipeline.Options
}

func (g *generator) generate(ctx context.Context) error {
	res, err := g.pipeline.Run(g.opts)
	if err != nil {
		return err
	}
	g.printer.RunSummary(res)

	if g.history == "" || g.opts.StatsDir == "" {
		return nil
	}
	runID, err := recordRun(ctx, g.history, res, time.Now())
	if err != nil {
		return err
	}
	g.printer.Info(fmt.Sprintf("recorded run %d in %s", runID, g.history))
	return nil
}

// watch regenerates after every debounced batch of changes until ctx is
// canceled. A failed regeneration is reported and the previous datapack is
// left in place.
func (g *generator) watch(ctx context.Context, debounce time.Duration) error {
	statsDir := filepath.Clean(g.opts.StatsDir)
	whitelist := filepath.Clean(g.opts.Whitelist)
	match := func(path string) bool {
		path = filepath.Clean(path)
		if path == whitelist {
			return true
		}
		return filepath.Dir(path) == statsDir && filepath.Ext(path) == stats.Extension
	}

	dirs := []string{statsDir}
	if wlDir := filepath.Dir(whitelist); wlDir != statsDir {
		dirs = append(dirs, wlDir)
	}

	w, err := watch.New(debounce, match, dirs...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", statsDir, err)
	}
	defer w.Stop()

	g.printer.Info(fmt.Sprintf("watching %s for changes", statsDir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-w.Changes:
			if !ok {
				return nil
			}
			g.printer.Info(fmt.Sprintf("%d file(s) changed, regenerating", len(changed)))
			if err := g.generate(ctx); err != nil {
				g.printer.Error(err.Error())
			}
		}
	}
}

func recordRun(ctx context.Context, path string, res *pipeline.Result, at time.Time) (int64, error) {
	store, err := history.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	return store.RecordRun(ctx, res.Version.Name, at, res.Scores)
}

// newLoader reads schemas from dir, or from the bundled set when dir is empty.
func newLoader(dir string) *schema.Loader {
	if dir == "" {
		return schema.NewLoader(nil)
	}
	return schema.NewLoader(os.DirFS(dir))
}

// openTelemetry returns a nil (no-op) emitter when path is empty.
func openTelemetry(path string) (*telemetry.Emitter, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("telemetry: create %s: %w", dir, err)
		}
	}
	return telemetry.NewEmitter(path)
}

func completeVersions(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, v := range schema.Versions() {
		names = append(names, v.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
