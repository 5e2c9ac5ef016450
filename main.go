package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/radial-dial/internal/config"
	"github.com/iburimskiy/radial-dial/internal/dial"
	"github.com/iburimskiy/radial-dial/internal/game"
	"github.com/iburimskiy/radial-dial/internal/remote"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	audioFile := flag.String("file", "", "audio file to play on start (overrides audio.file)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(fmt.Errorf("config: %w", err))
	}
	if *audioFile != "" {
		cfg.Audio.File = *audioFile
	}

	// Validate already accepted the level.
	level, _ := config.ParseLogLevel(cfg.Logging.Level)
	logger := config.NewLogger(os.Stdout, level)
	dial.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	grp, gctx := errgroup.WithContext(ctx)

	var srv *remote.Server
	if cfg.Remote.Enabled {
		srv = remote.NewServer(logger, remote.ServerConfig{})
		mux := http.NewServeMux()
		srv.Register(mux, cfg.Remote.Path)

		grp.Go(func() error {
			srv.Run(gctx)
			return nil
		})
		grp.Go(func() error {
			return serveHTTP(gctx, cfg.Remote.Addr, mux, logger)
		})
	}

	g, err := game.New(cfg, logger, game.Options{Remote: srv, Done: ctx.Done()})
	if err != nil {
		stop()
		_ = grp.Wait()
		fatal(err)
	}
	if cfg.Audio.File != "" {
		// a bad file is shown in the status line; the window still opens
		_ = g.Load(cfg.Audio.File)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	runErr := ebiten.RunGame(g)
	g.Close()
	stop()
	if err := grp.Wait(); err != nil {
		logger.Error("remote server failed", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		fatal(runErr)
	}
}

// serveHTTP runs the websocket endpoint until ctx is canceled.
func serveHTTP(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errCh <- nil
	}()
	logger.Info("remote feed listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// fatal reports err on stderr and in a dialog, then exits.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, "radial:", err)
	_ = zenity.Error(err.Error(), zenity.Title("Radial Player"), zenity.ErrorIcon)
	os.Exit(1)
}
