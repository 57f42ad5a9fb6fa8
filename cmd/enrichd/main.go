// Command enrichd runs the enrichment daemon: the asynchronous remote
// annotation pipeline plus the operational HTTP surface (health,
// metrics, kill switch, analyzer dry-run).
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guestpulse/insights/internal/api"
	"github.com/guestpulse/insights/internal/bootstrap"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("enrichd: %v", err)
	}
}

func run() error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logg, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logg.Sync() }()

	logg.Info("starting enrichment daemon",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel := telemetry.NewProvider()

	dbc, err := bootstrap.SetupDatabase(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer dbc.DB.Close()

	resultCache, closeCache, err := bootstrap.SetupCache(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closeCache()

	analyzerSvc := bootstrap.SetupAnalyzer(cfg, resultCache, tel, logg)

	indexer, err := bootstrap.SetupIndexer(ctx, cfg, logg)
	if err != nil {
		// The index sink is best-effort; run without it.
		logg.Warn("elasticsearch sink unavailable", logger.Error(err))
	}

	enrich, err := bootstrap.SetupEnrichment(cfg, dbc.Reviews, tel, logg)
	if err != nil {
		return err
	}

	var enricher api.EnrichmentControl
	if enrich != nil {
		if indexer != nil {
			enrich.Pipeline.AttachIndexer(indexer)
		}
		if err := enrich.Poller.Start(ctx); err != nil {
			return err
		}
		defer enrich.Poller.Stop()
		enricher = enrich.Pipeline
	}

	handler := api.NewHandler(analyzerSvc, enricher, dbc.DB,
		cfg.Service.Name, cfg.Service.Version, logg)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, tel, logg)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
