package enrichment

import (
	"context"
	"errors"
	"time"

	"github.com/guestpulse/insights/internal/logger"
)

const defaultPollInterval = 5 * time.Minute

// Poller runs the pipeline on a fixed interval until stopped.
type Poller struct {
	pipeline *Pipeline
	log      logger.Logger

	interval time.Duration
	running  bool
	stopChan chan struct{}
}

// NewPoller creates a poller around the pipeline.
func NewPoller(pipeline *Pipeline, interval time.Duration, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Poller{
		pipeline: pipeline,
		log:      log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start launches the polling loop. The first poll runs immediately.
func (p *Poller) Start(ctx context.Context) error {
	if p.running {
		return errors.New("poller is already running")
	}

	p.running = true
	p.log.Info("enrichment poller starting",
		logger.Duration("poll_interval", p.interval))

	go p.run(ctx)
	return nil
}

// Stop stops the poller. An in-flight poll finishes on its own.
func (p *Poller) Stop() {
	if !p.running {
		return
	}

	p.log.Info("enrichment poller stopping")
	close(p.stopChan)
	p.running = false
}

// IsRunning reports whether the poller loop is active.
func (p *Poller) IsRunning() bool {
	return p.running
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("enrichment poller stopped, context cancelled")
			return
		case <-p.stopChan:
			p.log.Info("enrichment poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if _, err := p.pipeline.RunOnce(ctx); err != nil {
		p.log.Error("enrichment poll failed", logger.Error(err))
	}
}
