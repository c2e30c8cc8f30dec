package prices

import (
	"context"
	"log/slog"
	"time"
)

// Poller refreshes the quote on a fixed cadence. It is owned by whoever
// starts it: Run blocks until the context is cancelled, so tearing down the
// owner stops the polling with it.
type Poller struct {
	service  *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller constructs a poller with the given refresh interval.
func NewPoller(service *Service, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{service: service, interval: interval, logger: logger}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
// Each refresh runs in its own goroutine so a slow upstream cannot delay the
// cadence; the service's generation counter discards out-of-order results.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("price poller started", slog.Duration("interval", p.interval))
	go p.service.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("price poller stopped")
			return
		case <-ticker.C:
			go p.service.Refresh(ctx)
		}
	}
}
