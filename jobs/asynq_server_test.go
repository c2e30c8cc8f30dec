package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	calls int
	err   error
}

func (f *fakeEnqueuer) EnqueuePricesRefresh(context.Context) (*asynq.TaskInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault, Type: TaskTypePricesRefresh}, nil
}

func newJobsRouter(enqueuer Enqueuer) chi.Router {
	r := chi.NewRouter()
	r.Route("/api/jobs", func(r chi.Router) {
		NewHandler(nil, enqueuer, nil).MountRoutes(r)
	})
	return r
}

func TestRefreshEnqueuesTask(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	router := newJobsRouter(enqueuer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/refresh", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 1, enqueuer.calls)
	require.Contains(t, rec.Body.String(), `"task":"prices:refresh"`)
	require.Contains(t, rec.Body.String(), `"id":"task-1"`)
}

func TestRefreshReportsEnqueueFailure(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errors.New("redis down")}
	router := newJobsRouter(enqueuer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/refresh", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshWithoutEnqueuer(t *testing.T) {
	router := newJobsRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/refresh", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshCronSpec(t *testing.T) {
	require.Equal(t, "@every 10s", RefreshCronSpec(0))
	require.Equal(t, "@every 10s", RefreshCronSpec(-time.Second))
	require.Equal(t, "@every 30s", RefreshCronSpec(30*time.Second))
	require.Equal(t, "@every 2m0s", RefreshCronSpec(2*time.Minute))
}
