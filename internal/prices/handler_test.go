package prices

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestHandlerGetFallsBackOnFeedFailure(t *testing.T) {
	svc := NewService(&staticClient{err: errors.New("down")}, nil, time.Second, nil, nil)
	handler := NewHandler(nil, svc)

	r := chi.NewRouter()
	r.Route("/api/prices", handler.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload FeedPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Items, 1)
	require.InDelta(t, FallbackGold, payload.Items[0].XauPrice, 1e-9)
	require.InDelta(t, FallbackDiamond, payload.Items[0].DiaPrice, 1e-9)
	require.Equal(t, "USD", payload.Items[0].Curr)
}
