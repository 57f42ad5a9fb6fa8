// Package bootstrap wires the service components from configuration.
// Each Setup* function builds one subsystem; the cmd binaries compose
// the ones they need.
package bootstrap

import (
	"fmt"
	"log"

	"github.com/guestpulse/insights/internal/config"
	"github.com/guestpulse/insights/internal/logger"
)

// LoadConfig loads configuration. Uses defaults if the file doesn't exist.
func LoadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Warning: failed to load config file (%s), using defaults: %v", configPath, err)
		cfg = &config.Config{}
		config.SetDefaults(cfg)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	logg, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logg.With(logger.String("service", cfg.Service.Name)), nil
}
