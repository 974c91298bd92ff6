// Package poll drives the periodic background refresh of the alert store.
package poll

import (
	"context"
	"time"

	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSpec refreshes every 30 seconds, matching the console's polling
// cadence.
const DefaultSpec = "@every 30s"

// Refresher is the piece of the server the poller drives.
type Refresher interface {
	RefreshAlerts(ctx context.Context) error
}

// Poller schedules background refreshes.
type Poller struct {
	cron      *cron.Cron
	refresher Refresher
	timeout   time.Duration
}

// New creates a poller around the given refresher. Each tick gets its own
// context bounded by timeout; timeout <= 0 falls back to 10 seconds.
func New(refresher Refresher, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Poller{
		cron:      cron.New(),
		refresher: refresher,
		timeout:   timeout,
	}
}

// Start registers the refresh job under the given cron spec and starts the
// scheduler. An empty spec uses DefaultSpec.
func (p *Poller) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}

	if _, err := p.cron.AddFunc(spec, p.tick); err != nil {
		return err
	}
	p.cron.Start()
	log.Info("Background refresh started", zap.String("schedule", spec))
	return nil
}

func (p *Poller) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.refresher.RefreshAlerts(ctx); err != nil {
		log.Warn("Scheduled refresh failed", zap.Error(err))
	}
}

// Stop halts the scheduler and waits for a running tick to finish.
func (p *Poller) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
	log.Info("Background refresh stopped")
}
