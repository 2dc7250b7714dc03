package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calibration-report/internal/client/lookup"
	"calibration-report/internal/config"
	"calibration-report/internal/service/budget"
	"calibration-report/internal/service/images"
	"calibration-report/internal/service/report"
	"calibration-report/internal/service/workspace"
	"calibration-report/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type app struct {
	storage   *mysql.Storage
	budget    *budget.Aggregator
	session   *workspace.Session
	autosaver *workspace.Autosaver
	lookup    *lookup.Client
	assembler *report.Assembler
}

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = storage.Migrate(migrateCtx)
	cancel()
	if err != nil {
		log.Error("failed to migrate db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	agg, err := budget.NewAggregator(cfg.Budget.Policy, cfg.Budget.TaxRate)
	if err != nil {
		log.Error("invalid budget config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	session := workspace.NewSession(images.NewStore(images.Limits{
		MaxBytes: cfg.Images.MaxBytes,
		MaxCount: cfg.Images.MaxCount,
	}))

	autosaver, err := workspace.NewAutosaver(log, session, storage, cfg.Autosave.Schedule, cfg.Autosave.Timeout)
	if err != nil {
		log.Error("invalid autosave config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	a := app{
		storage:   storage,
		budget:    agg,
		session:   session,
		autosaver: autosaver,
		lookup: lookup.New(lookup.Config{
			BaseURL: cfg.Lookup.BaseURL,
			Token:   cfg.Lookup.Token,
			Timeout: cfg.Lookup.Timeout,
		}),
		assembler: report.NewAssembler(agg),
	}

	autosaver.Start()

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, a),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.HTTPServer.ExportTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("server started",
		slog.String("address", cfg.Address),
		slog.String("env", cfg.Env),
		slog.String("budget_policy", string(agg.Policy())),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("failed start server", slog.String("error", err.Error()))
		}
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	autosaver.Stop()

	// keep whatever the technician typed since the last tick
	if saved, err := autosaver.SaveIfDirty(shutdownCtx); err != nil {
		log.Error("final draft save failed", slog.String("error", err.Error()))
	} else if saved {
		log.Info("final draft saved")
	}

	log.Info("server stopped")
}
