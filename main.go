package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/dispatch"
	"github.com/danielhkuo/classpoll/hub"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/router"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the coordinator: the hub delivers what the dispatcher emits and
	// feeds it what clients send
	h := hub.New(ctx)
	d := dispatch.New(h, dispatch.Options{
		HistoryLimit:  cfg.HistoryLimit,
		ChatLimit:     cfg.ChatLimit,
		MaxChatLength: cfg.MaxChatLength,
		MaxTimeLimit:  cfg.MaxTimeLimit,
	})
	h.SetSink(d)

	// Create router
	mux := router.NewRouter(h, d, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(cfg.AllowsOrigin, mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Run(gctx)
	})
	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "origins", cfg.AllowedOrigins)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

func newLogger(cfg cliparse.Config) *slog.Logger {
	// Validate has already accepted the level
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
