package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ShreyaSuvarna1/Veerpath/internal/api"
	"github.com/ShreyaSuvarna1/Veerpath/internal/cache"
	"github.com/ShreyaSuvarna1/Veerpath/internal/config"
	"github.com/ShreyaSuvarna1/Veerpath/internal/core"
	"github.com/ShreyaSuvarna1/Veerpath/internal/httpx"
	"github.com/ShreyaSuvarna1/Veerpath/internal/logging"
	"github.com/ShreyaSuvarna1/Veerpath/internal/scraper"
	"github.com/ShreyaSuvarna1/Veerpath/internal/store"
)

func main() {
	configPath := os.Getenv("VEERPATH_CONFIG")
	if configPath == "" {
		configPath = "veerpath.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	st, err := store.Open(store.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.Storage.DSN,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	// Run schema migrations to ensure the jobs table exists
	if sqlStore, ok := st.(*store.SQLStore); ok {
		if err := sqlStore.RunMigrations(""); err != nil {
			return err
		}
	}

	fetcher := httpx.NewCollyFetcher(httpx.Options{
		UserAgent:      cfg.Fetch.UserAgent,
		AcceptLanguage: cfg.Fetch.AcceptLanguage,
		Timeout:        cfg.Fetch.Timeout,
		RespectRobots:  cfg.Fetch.RespectRobots,
		HostInterval:   cfg.Fetch.HostInterval,
	})

	cell := cache.New()
	pipeline := core.NewPipeline(scraper.New(fetcher), cfg.Sources, st, cell, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline.Bootstrap(ctx)

	sched := core.NewScheduler(pipeline, cfg.Refresh.Interval, logger)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewServer(cell, sched, logger).WithRunState(pipeline).Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.Server.Addr, "sources", len(cfg.Sources))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		httpErr := srv.Shutdown(shutdownCtx)
		schedErr := sched.Stop(shutdownCtx)
		return errors.Join(httpErr, schedErr)
	})

	return g.Wait()
}
