package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pathdrag/internal/config"
	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/patterns"
	"github.com/verte-zerg/pathdrag/internal/stats"
	"github.com/verte-zerg/pathdrag/internal/statsui"
	"github.com/verte-zerg/pathdrag/internal/store"
)

var (
	statsPattern     string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show attempt stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPattern, "pattern", "", "pattern filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)

	cfg, err := buildStatsConfig(statsPattern, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return renderPlainStats(cmd.Context(), cmd.OutOrStdout(), st, cfg, time.Now())
	}
	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(pattern, since string, last, window int) (model.StatsConfig, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern != "" {
		if _, ok := patterns.Lookup(pattern); !ok {
			return model.StatsConfig{}, fmt.Errorf("--pattern must be one of: %s", strings.Join(patterns.Names(), ", "))
		}
	}
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Pattern:     pattern,
		Since:       sinceTime,
		Last:        last,
		CurveWindow: window,
	}, nil
}

func renderPlainStats(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Attempts, now); err != nil {
		return err
	}
	last, ok, err := st.LastAttempt(ctx)
	if err != nil {
		return fmt.Errorf("failed to load last attempt: %w", err)
	}
	if ok {
		if _, err := fmt.Fprintf(w, "Last attempt: %s %s at %.1f%% (%s)\n\n", last.Pattern, last.Outcome, last.BestProgress*100, last.UUID); err != nil {
			return err
		}
	}
	if err := stats.RenderCurves(w, report.Attempts, cfg.CurveWindow, 0); err != nil {
		return err
	}
	return stats.RenderPatternTable(w, report.PatternAggsAll)
}
