package bootstrap

import (
	"errors"
	"fmt"

	"github.com/guestpulse/insights/internal/annotator"
	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/enrichment"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/telemetry"
)

// EnrichmentComponents holds the async enrichment pipeline and its poller.
type EnrichmentComponents struct {
	Pipeline *enrichment.Pipeline
	Poller   *enrichment.Poller
}

// SetupEnrichment builds the remote enrichment pipeline. Returns
// (nil, nil) when no annotation backend is configured; the service
// then runs on local analysis alone.
func SetupEnrichment(cfg *config.Config, store enrichment.Store, tel *telemetry.Provider, log logger.Logger) (*EnrichmentComponents, error) {
	backend, err := annotator.New(cfg.Enrichment.Annotator, log)
	if err != nil {
		if errors.Is(err, annotator.ErrNotConfigured) {
			log.Info("no annotation backend configured, enrichment disabled")
			return nil, nil
		}
		return nil, fmt.Errorf("create annotator: %w", err)
	}

	pipeline := enrichment.NewPipeline(store, backend, cfg.Enrichment, tel, log)
	poller := enrichment.NewPoller(pipeline, cfg.Enrichment.PollInterval, log)

	log.Info("enrichment pipeline configured",
		logger.String("annotator", backend.Name()),
		logger.Int("batch_size", cfg.Enrichment.BatchSize),
		logger.Bool("enabled", cfg.Enrichment.Enabled))

	return &EnrichmentComponents{Pipeline: pipeline, Poller: poller}, nil
}
