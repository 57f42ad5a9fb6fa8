package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/database"
	"github.com/guestpulse/insights/internal/logger"
)

// DatabaseComponents holds the database connection and repositories.
type DatabaseComponents struct {
	DB      *sqlx.DB
	Reviews *database.ReviewRepository
}

// SetupDatabase connects to the review store and applies the schema.
func SetupDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*DatabaseComponents, error) {
	log.Info("connecting to review store",
		logger.String("driver", cfg.Database.Driver),
		logger.String("database", cfg.Database.Database))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &DatabaseComponents{
		DB:      db,
		Reviews: database.NewReviewRepository(db),
	}, nil
}
