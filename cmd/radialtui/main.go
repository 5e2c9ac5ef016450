// Command radialtui runs a single dial in the terminal.
//
//	radialtui -name volume -min 0 -max 1 -step 0.05 -color tomato
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iburimskiy/radial-dial/internal/config"
	"github.com/iburimskiy/radial-dial/internal/tui"
)

func main() {
	var (
		name     = flag.String("name", "dial", "label shown above the dial")
		minV     = flag.Float64("min", 0, "minimum value")
		maxV     = flag.Float64("max", 100, "maximum value")
		step     = flag.Float64("step", 1, "step size")
		value    = flag.Float64("value", 0, "initial target value")
		radius   = flag.Float64("radius", 60, "outer radius in dial px (4x8 px per cell)")
		arcColor = flag.String("color", "#3f8efc", "arc color (CSS name or #rrggbb)")
		logFile  = flag.String("log-file", "", "write logs here; the terminal is owned by the UI")
		level    = flag.String("log-level", "info", "log level (error, warn, info, debug)")
	)
	flag.Parse()

	if err := run(*name, *minV, *maxV, *step, *value, *radius, *arcColor, *logFile, *level); err != nil {
		fmt.Fprintln(os.Stderr, "radialtui:", err)
		os.Exit(1)
	}
}

func run(name string, minV, maxV, step, value, radius float64, arcColor, logFile, level string) error {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return err
	}
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := config.NewLogger(out, lvl)

	fg, err := config.ParseColor(arcColor)
	if err != nil {
		return err
	}

	m, err := tui.New(tui.Config{
		Name:   name,
		Min:    minV,
		Max:    maxV,
		Step:   step,
		Radius: radius,
		Color:  fg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer m.Dial().Destroy()
	if value != minV {
		m.Dial().SetValue(value)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info("exit", slog.String("dial", name), slog.Float64("value", m.Dial().Value()))
	return nil
}
