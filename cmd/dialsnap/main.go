// Command dialsnap renders a dial at a given value to a PNG file.
//
//	dialsnap -min 0 -max 100 -step 5 -value 65 -color tomato -out dial.png
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/iburimskiy/radial-dial/internal/config"
	"github.com/iburimskiy/radial-dial/internal/dial"
	"github.com/iburimskiy/radial-dial/internal/render"
)

func main() {
	var (
		minV       = flag.Float64("min", 0, "minimum value")
		maxV       = flag.Float64("max", 100, "maximum value")
		step       = flag.Float64("step", 1, "step size")
		radius     = flag.Float64("radius", 120, "outer radius in px")
		value      = flag.Float64("value", 50, "value to render")
		arcColor   = flag.String("color", "#3f8efc", "arc color (CSS name or #rrggbb)")
		background = flag.String("background", "#11141c", "background color")
		out        = flag.String("out", "dial.png", "output PNG path")
		level      = flag.String("log-level", "warn", "log level (error, warn, info, debug)")
	)
	flag.Parse()

	if err := run(*minV, *maxV, *step, *radius, *value, *arcColor, *background, *out, *level); err != nil {
		fmt.Fprintln(os.Stderr, "dialsnap:", err)
		os.Exit(1)
	}
}

func run(minV, maxV, step, radius, value float64, arcColor, background, out, level string) error {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return err
	}
	logger := config.NewLogger(os.Stderr, lvl)

	fg, err := config.ParseColor(arcColor)
	if err != nil {
		return err
	}
	bg, err := config.ParseColor(background)
	if err != nil {
		return err
	}

	r := render.New(bg)
	s := dial.NewFrameScheduler()
	d, err := dial.New(dial.Config{
		Name:      "snapshot",
		Color:     color.Color(fg),
		Min:       minV,
		Max:       maxV,
		Step:      step,
		Radius:    radius,
		Renderer:  r,
		Scheduler: s,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer d.Destroy()

	d.SetValue(value)
	frames := render.Settle(d, s, 10000)
	logger.Debug("settled", "frames", frames, "value", d.Value())

	if err := r.SavePNG(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	logger.Info("wrote snapshot", "path", out, "value", d.Value())
	return nil
}
