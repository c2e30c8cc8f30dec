// Package jobs runs background work through Asynq: the recurring spot quote
// refresh plus queue observability endpoints.
package jobs

import (
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePricesRefresh is the task type for refreshing the spot quote.
	TaskTypePricesRefresh = "prices:refresh"
)

// NewPricesRefreshTask constructs the quote refresh task. It carries no
// payload; the handler always fetches the latest quote.
func NewPricesRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskTypePricesRefresh, nil)
}

// RefreshCronSpec renders the scheduler entry for the quote refresh cadence,
// so the worker follows the same configured interval as the in-process poller.
func RefreshCronSpec(interval time.Duration) string {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return "@every " + interval.String()
}
