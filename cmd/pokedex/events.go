package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/pokedex/internal/otel"
)

var (
	eventsTail   int
	eventsFollow bool
	eventsKind   string
	eventsLevel  string
	eventsComp   string
	eventsKey    string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the JSONL event log",
	Long:  "Prints recent events from the event log written by the TUI and the headless commands.",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().IntVar(&eventsTail, "tail", 50, "Number of recent lines to show")
	eventsCmd.Flags().BoolVarP(&eventsFollow, "follow", "f", false, "Follow mode (like tail -f)")
	eventsCmd.Flags().StringVar(&eventsKind, "kind", "", "Filter by event kind prefix (e.g. 'catalog')")
	eventsCmd.Flags().StringVar(&eventsLevel, "level", "", "Minimum level: debug, info, warn, error")
	eventsCmd.Flags().StringVar(&eventsComp, "comp", "", "Filter by component name")
	eventsCmd.Flags().StringVar(&eventsKey, "key", "", "Filter by query key prefix")
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level otel.Level) int {
	switch level {
	case otel.LevelInfo:
		return 1
	case otel.LevelWarn:
		return 2
	case otel.LevelError:
		return 3
	}
	return 0
}

type eventFilter struct {
	kind, comp, key string
	minLevel        int
	hasLevel        bool
}

func (f eventFilter) match(ev otel.Event) bool {
	if f.kind != "" && !strings.HasPrefix(string(ev.Kind), f.kind) {
		return false
	}
	if f.hasLevel && levelRank(ev.Level) < f.minLevel {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.key != "" && !strings.HasPrefix(ev.Key, f.key) {
		return false
	}
	return true
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.Log.EventPath)
	if err != nil {
		return fmt.Errorf("event log not found at %s (run pokedex first): %w", cfg.Log.EventPath, err)
	}
	defer f.Close()

	filter := eventFilter{
		kind:     eventsKind,
		comp:     eventsComp,
		key:      eventsKey,
		minLevel: levelRank(otel.Level(strings.ToLower(eventsLevel))),
		hasLevel: eventsLevel != "",
	}
	out := cmd.OutOrStdout()

	for _, l := range readTailLines(f, eventsTail, filter.match) {
		fmt.Fprintln(out, formatEvent(l.ev, l.raw))
	}
	if !eventsFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return followEvents(ctx, f, out, filter.match)
}

// followEvents polls f for appended lines until ctx is done.
func followEvents(ctx context.Context, r io.Reader, out io.Writer, match func(otel.Event) bool) error {
	reader := bufio.NewReader(r)
	var partial []byte
	for {
		line, err := reader.ReadBytes('\n')
		partial = append(partial, line...)
		if err == io.EOF {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return err
		}

		raw := trimLine(partial)
		partial = nil
		if len(raw) == 0 {
			continue
		}
		var ev otel.Event
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if match(ev) {
			fmt.Fprintln(out, formatEvent(ev, raw))
		}
	}
}

func formatEvent(ev otel.Event, raw []byte) string {
	if jsonOutput {
		return string(raw)
	}
	lvl := strings.ToUpper(string(ev.Level))
	if lvl == "" {
		lvl = "?"
	}

	parts := []string{fmt.Sprintf("%s %-5s [%-9s] %-20s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.Key != "" {
		parts = append(parts, "key="+ev.Key)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.EntityID > 0 {
		parts = append(parts, fmt.Sprintf("id=%d", ev.EntityID))
	}
	if ev.Status > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", ev.Status))
	}
	if ev.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", ev.Query))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

type parsedLine struct {
	ev  otel.Event
	raw []byte
}

// readTailLines reads r to the end and returns the last n lines matching the filter.
func readTailLines(r io.Reader, n int, match func(otel.Event) bool) []parsedLine {
	if n <= 0 {
		return nil
	}
	scanner := bufio.NewScanner(r)
	// some events carry large Extra maps
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	ring := make([]parsedLine, 0, n)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev otel.Event
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if !match(ev) {
			continue
		}
		// scanner reuses its buffer
		line := parsedLine{ev: ev, raw: append([]byte(nil), raw...)}
		if len(ring) < n {
			ring = append(ring, line)
		} else {
			copy(ring, ring[1:])
			ring[n-1] = line
		}
	}
	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}
