package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/rrumi/backoffice/internal/pricing"
)

// QuoteRefresher is the slice of the prices service the refresh job needs.
type QuoteRefresher interface {
	Refresh(ctx context.Context) pricing.Quote
}

// PricesRefreshJob refreshes the spot quote on schedule.
type PricesRefreshJob struct {
	service QuoteRefresher
	logger  *slog.Logger
}

// NewPricesRefreshJob constructs the job.
func NewPricesRefreshJob(service QuoteRefresher, logger *slog.Logger) *PricesRefreshJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricesRefreshJob{service: service, logger: logger}
}

// Handle processes one TaskTypePricesRefresh task. Refresh never fails; feed
// errors degrade to the last known or fallback quote internally, so the task
// never retries.
func (j *PricesRefreshJob) Handle(ctx context.Context, _ *asynq.Task) error {
	quote := j.service.Refresh(ctx)
	j.logger.Debug("quote refreshed",
		slog.Float64("gold", quote.Gold),
		slog.Float64("silver", quote.Silver))
	return nil
}
