package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/mcscoreboards/internal/config"
	"github.com/papapumpkin/mcscoreboards/internal/telemetry"
	"github.com/papapumpkin/mcscoreboards/internal/ui"
)

// errNoTelemetry is returned by the events command when no event file is configured.
var errNoTelemetry = errors.New("no event file configured; set telemetry or pass --telemetry")

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the JSONL event log written by generate",
	Long: `Reads the telemetry file configured with --telemetry (or the telemetry key)
and prints one line per event.

With --follow (-f), watches the file for new events (like tail -f) until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Telemetry == "" {
		return errNoTelemetry
	}
	follow, _ := cmd.Flags().GetBool("follow")

	f, err := os.Open(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", cfg.Telemetry, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	if err := printEvents(cmd.OutOrStdout(), reader); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", cfg.Telemetry, err)
	}
	if !follow {
		return nil
	}

	ctx, cancel := setupSignalContext(ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	defer cancel()
	return tailFollow(ctx, cmd.OutOrStdout(), reader, cfg.Telemetry)
}

// printEvents prints every complete line available from r.
func printEvents(w io.Writer, r *bufio.Reader) error {
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			printEvent(w, line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(ctx context.Context, w io.Writer, r *bufio.Reader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := printEvents(w, r); err != nil {
				return fmt.Errorf("telemetry: read %s: %w", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("telemetry: watch %s: %w", path, err)
		}
	}
}

// printEvent decodes a JSONL line and prints a human-readable representation.
func printEvent(w io.Writer, line string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}

	parts := []string{fmt.Sprintf("[%s]", evt.Timestamp.Local().Format(time.TimeOnly)), evt.Kind}
	if evt.Version != "" {
		parts = append(parts, "version="+evt.Version)
	}
	if evt.Player != "" {
		parts = append(parts, "player="+evt.Player)
	}
	if evt.Path != "" {
		parts = append(parts, "path="+evt.Path)
	}
	switch data := evt.Data.(type) {
	case nil:
	case map[string]any:
		parts = append(parts, formatDataMap(data))
	default:
		raw, _ := json.Marshal(data)
		parts = append(parts, string(raw))
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
