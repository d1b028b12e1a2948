// Package main provides the CLI entrypoint for pathdrag.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pathdrag/internal/config"
	"github.com/verte-zerg/pathdrag/internal/drag"
	"github.com/verte-zerg/pathdrag/internal/logging"
	"github.com/verte-zerg/pathdrag/internal/model"
	"github.com/verte-zerg/pathdrag/internal/patterns"
	"github.com/verte-zerg/pathdrag/internal/stats"
	"github.com/verte-zerg/pathdrag/internal/store"
	"github.com/verte-zerg/pathdrag/internal/tui"
)

const (
	defaultWidth       = 900.0
	defaultHeight      = 360.0
	defaultStrokeWidth = 18.0
	defaultTolerance   = 16.0
	defaultSelector    = "uniform"
	defaultCurveWindow = 20
	minViewSize        = 80.0
)

var (
	playPattern     string
	playWidth       float64
	playHeight      float64
	playStrokeWidth float64
	playTolerance   float64
	playThreshold   float64
	playSelector    string
	playSeed        int64

	debugLog     bool
	debugLogFile *os.File
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                "pathdrag",
		Short:              "Drag a handle along a path without leaving it",
		SilenceUsage:       true,
		SilenceErrors:      false,
		PersistentPreRunE:  setupRun,
		PersistentPostRunE: teardownRun,
		RunE:               runPlayCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug-log", false, "write debug logs to "+config.DefaultLogPath())

	rootCmd.Flags().StringVar(&playPattern, "pattern", "", "start with this pattern (default: chosen by --select)")
	rootCmd.Flags().Float64Var(&playWidth, "width", defaultWidth, "view box width")
	rootCmd.Flags().Float64Var(&playHeight, "height", defaultHeight, "view box height")
	rootCmd.Flags().Float64Var(&playStrokeWidth, "stroke-width", defaultStrokeWidth, "path stroke width")
	rootCmd.Flags().Float64Var(&playTolerance, "tolerance", defaultTolerance, "allowed distance beyond the stroke edge")
	rootCmd.Flags().Float64Var(&playThreshold, "threshold", drag.DefaultThreshold, "progress needed to win [0.98, 1)")
	rootCmd.Flags().StringVar(&playSelector, "select", defaultSelector, "pattern selection: uniform, sequential, fixed or weak")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed (0: time based)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPatternsCmd())
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newTraceCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// setupRun loads .env from the working directory and enables the debug log.
func setupRun(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	if !debugLog {
		return nil
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	debugLogFile = f
	logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return nil
}

func teardownRun(_ *cobra.Command, _ []string) error {
	if debugLogFile == nil {
		return nil
	}
	logging.SetLogger(nil)
	err := debugLogFile.Close()
	debugLogFile = nil
	if err != nil {
		return fmt.Errorf("failed to close debug log: %w", err)
	}
	return nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "pattern", &playPattern, fileCfg.Play.Pattern)
	applyFloatConfig(cmd, "width", &playWidth, fileCfg.Play.Width)
	applyFloatConfig(cmd, "height", &playHeight, fileCfg.Play.Height)
	applyFloatConfig(cmd, "stroke-width", &playStrokeWidth, fileCfg.Play.StrokeWidth)
	applyFloatConfig(cmd, "tolerance", &playTolerance, fileCfg.Play.Tolerance)
	applyFloatConfig(cmd, "threshold", &playThreshold, fileCfg.Play.Threshold)
	applyStringConfig(cmd, "select", &playSelector, fileCfg.Play.Selector)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Play.Seed)

	cfg := model.Config{
		Pattern:     strings.ToLower(strings.TrimSpace(playPattern)),
		Width:       playWidth,
		Height:      playHeight,
		StrokeWidth: playStrokeWidth,
		Tolerance:   playTolerance,
		Threshold:   playThreshold,
		Selector:    strings.ToLower(strings.TrimSpace(playSelector)),
		Seed:        playSeed,
	}
	if err := validateConfig(cfg); err != nil {
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

	sel, err := buildSelector(context.Background(), st, cfg)
	if err != nil {
		return err
	}
	m, err := tui.NewModel(cfg, st, sel)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildSelector(ctx context.Context, st *store.Store, cfg model.Config) (patterns.Selector, error) {
	if cfg.Selector == "weak" {
		sel, ok, err := stats.WeakSelector(ctx, st, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to load weak patterns: %w", err)
		}
		if !ok {
			logErrln("no attempts available for weak-pattern focus yet; picking uniformly")
		}
		return sel, nil
	}
	start := 0
	if idx, ok := patterns.Lookup(cfg.Pattern); ok {
		start = idx
		if cfg.Selector == "sequential" {
			start = idx + 1
		}
	}
	return patterns.NewSelector(cfg.Selector, cfg.Seed, start)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pathdrag configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# pattern = "serpentine"   # Start pattern (default: chosen by select)
# width = %.0f              # View box width
# height = %.0f             # View box height
# stroke-width = %.0f        # Path stroke width
# tolerance = %.0f           # Allowed distance beyond the stroke edge
# threshold = %.3f        # Progress needed to win [0.98, 1)
# select = %q         # uniform, sequential, fixed or weak
# seed = 0                 # Random seed (0: time based)

[stats]
# curve-window = %d        # Moving average window
`,
		defaultWidth,
		defaultHeight,
		defaultStrokeWidth,
		defaultTolerance,
		drag.DefaultThreshold,
		defaultSelector,
		defaultCurveWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Pattern != "" {
		if _, ok := patterns.Lookup(cfg.Pattern); !ok {
			return fmt.Errorf("--pattern must be one of: %s", strings.Join(patterns.Names(), ", "))
		}
	}
	if !finite(cfg.Width) || cfg.Width <= minViewSize {
		return fmt.Errorf("--width must be > %.0f", minViewSize)
	}
	if !finite(cfg.Height) || cfg.Height <= minViewSize {
		return fmt.Errorf("--height must be > %.0f", minViewSize)
	}
	if !finite(cfg.StrokeWidth) || cfg.StrokeWidth < 0 {
		return fmt.Errorf("--stroke-width must be >= 0")
	}
	if !finite(cfg.Tolerance) || cfg.Tolerance < 0 {
		return fmt.Errorf("--tolerance must be >= 0")
	}
	if cfg.Threshold < 0.98 || cfg.Threshold >= 1 {
		return fmt.Errorf("--threshold must be >= 0.98 and < 1")
	}
	switch cfg.Selector {
	case "uniform", "random", "sequential", "fixed", "weak":
	default:
		return fmt.Errorf("--select must be one of: uniform, sequential, fixed, weak")
	}
	if cfg.Selector == "fixed" && cfg.Pattern == "" {
		return fmt.Errorf("--select fixed requires --pattern")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
