package bootstrap

import (
	"context"
	"fmt"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/storage"
)

// SetupIndexer builds the optional Elasticsearch sink. Returns nil
// when the sink is disabled.
func SetupIndexer(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage.ReviewIndexer, error) {
	indexer, err := storage.NewReviewIndexer(cfg.Elasticsearch, log)
	if err != nil {
		return nil, fmt.Errorf("create review indexer: %w", err)
	}
	if indexer == nil {
		return nil, nil
	}

	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure review index: %w", err)
	}

	log.Info("elasticsearch review index ready",
		logger.String("url", cfg.Elasticsearch.URL),
		logger.String("index", cfg.Elasticsearch.Index))
	return indexer, nil
}
