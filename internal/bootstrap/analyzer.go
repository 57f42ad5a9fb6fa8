package bootstrap

import (
	"context"

	"github.com/guestpulse/insights/internal/analyzer"
	"github.com/guestpulse/insights/internal/cache"
	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/sentiment"
	"github.com/guestpulse/insights/internal/telemetry"
)

// SetupCache builds the analysis result cache: Redis when an address
// is configured, in-memory otherwise. The returned closer is a no-op
// for the in-memory cache.
func SetupCache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.Cache, func(), error) {
	if cfg.Redis.Address == "" {
		log.Info("redis not configured, using in-memory result cache")
		return cache.NewMemory(cfg.Redis.CacheTTL), func() {}, nil
	}

	redisCache, err := cache.NewRedis(ctx, cache.RedisOptions{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		Database: cfg.Redis.Database,
		Timeout:  cfg.Redis.Timeout,
		TTL:      cfg.Redis.CacheTTL,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	log.Info("redis result cache connected", logger.String("address", cfg.Redis.Address))
	return redisCache, func() { _ = redisCache.Close() }, nil
}

// SetupAnalyzer builds the local analysis service: rule engine,
// sentiment chain and cache behind one facade.
func SetupAnalyzer(cfg *config.Config, c cache.Cache, tel *telemetry.Provider, log logger.Logger) *analyzer.Service {
	engine := analyzer.NewEngine(
		analyzer.WithEvidenceLimit(cfg.Analysis.EvidenceLimit),
		analyzer.WithNegationWindow(cfg.Analysis.NegationWindow),
	)

	// Lexical scorer first, remote sidecar when the lexicon has no
	// signal, neutral floor last.
	classifiers := []sentiment.Classifier{sentiment.NewLexical()}
	if cfg.Analysis.SentimentServiceURL != "" {
		classifiers = append(classifiers,
			sentiment.NewRemote(cfg.Analysis.SentimentServiceURL, cfg.Analysis.SentimentTimeout))
		log.Info("remote sentiment classifier configured",
			logger.String("url", cfg.Analysis.SentimentServiceURL))
	}
	chain := sentiment.NewChain(log, classifiers...)

	return analyzer.NewService(engine, chain, c, tel, log)
}
