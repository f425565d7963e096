package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"camera-curve-editor/internal/actions"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/config"
	"camera-curve-editor/internal/editor"
	"camera-curve-editor/internal/logging"
	"camera-curve-editor/internal/tui"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config JSON file")
	chartFile := flag.String("chart", "", "Chart file to edit")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log", "", "Write logs to this file (the terminal is taken by the editor)")
	undoLimit := flag.Int("undo", 256, "Number of undo steps kept (0: unlimited)")

	flag.Parse()

	// Load config
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Chart:    *chartFile,
		LogLevel: *logLevel,
	})

	if cfg.Chart == "" {
		fmt.Fprintln(os.Stderr, "Error: no chart. Use -chart flag or config file.")
		os.Exit(1)
	}

	log := zerolog.Nop()
	if *logFile != "" {
		l, closer, err := logging.File(*logFile, cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()
		log = l
	}

	c, err := chart.Load(cfg.Chart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading chart: %v\n", err)
		os.Exit(1)
	}

	stack := actions.New(c, (*chart.Chart).Clone,
		actions.WithLimit(*undoLimit),
		actions.WithLogger(log.With().Str("component", "actions").Logger()),
	)
	tool := editor.NewTool(
		editor.WithHitRadius(cfg.Editor.HitRadius),
		editor.WithLogger(log.With().Str("component", "editor").Logger()),
	)

	model := tui.New(stack, tool, tui.Options{
		Path:     cfg.Chart,
		TickSpan: float64(cfg.Editor.TickSpan),
		Step:     uint32(cfg.Preview.FrameStep),
		Logger:   log,
	})

	log.Info().Str("chart", cfg.Chart).Msg("editor started")
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running editor: %v\n", err)
		os.Exit(1)
	}
}
