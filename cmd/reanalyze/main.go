// Command reanalyze re-runs the local analyzer over stored reviews,
// for example after a lexicon or taxonomy update. Optionally re-queues
// the batch for remote enrichment.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/guestpulse/insights/internal/bootstrap"
	"github.com/guestpulse/insights/internal/domain"
	"github.com/guestpulse/insights/internal/logger"
	"github.com/guestpulse/insights/internal/telemetry"
)

func main() {
	rating := flag.Int("rating", 0, "only reviews with this rating (0 = all)")
	limit := flag.Int("limit", 0, "max reviews to process (0 = all)")
	dryRun := flag.Bool("dry-run", false, "analyze without writing results")
	resetEnrichment := flag.Bool("reset-enrichment", false, "re-queue processed reviews for remote enrichment")
	flag.Parse()

	if err := run(*rating, *limit, *dryRun, *resetEnrichment); err != nil {
		log.Fatalf("reanalyze: %v", err)
	}
}

func run(rating, limit int, dryRun, resetEnrichment bool) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logg, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logg.Sync() }()

	ctx := context.Background()

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

	svc := bootstrap.SetupAnalyzer(cfg, resultCache, telemetry.NewProvider(), logg)

	reviews, err := dbc.Reviews.ListForReanalysis(ctx, rating, limit)
	if err != nil {
		return err
	}
	logg.Info("reanalyzing reviews",
		logger.Int("count", len(reviews)),
		logger.Bool("dry_run", dryRun))

	workers := cfg.Service.Concurrency
	results := svc.AnalyzeBatch(ctx, reviews, workers)

	var updated, changed int
	for i, res := range results {
		if res.Err != nil {
			logg.Warn("analysis failed",
				logger.String("review_id", res.ReviewID),
				logger.Error(res.Err))
			continue
		}

		review := &reviews[i]
		if review.Sentiment != res.Result.Sentiment ||
			!domain.TagList(res.Result.Tags).Equal(review.Tags) {
			changed++
		}
		if dryRun {
			continue
		}

		review.Sentiment = res.Result.Sentiment
		review.SentimentScore = res.Result.OverallScore
		review.Tags = res.Result.Tags
		if err := dbc.Reviews.UpdateLocalAnalysis(ctx, review); err != nil {
			logg.Error("update failed",
				logger.String("review_id", review.ID),
				logger.Error(err))
			continue
		}
		if resetEnrichment {
			if err := dbc.Reviews.ResetEnrichment(ctx, review.ID); err != nil {
				logg.Error("reset enrichment failed",
					logger.String("review_id", review.ID),
					logger.Error(err))
				continue
			}
		}
		updated++
	}

	logg.Info("reanalysis finished",
		logger.Int("processed", len(results)),
		logger.Int("changed", changed),
		logger.Int("updated", updated))
	return nil
}
