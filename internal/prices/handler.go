package prices

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rrumi/backoffice/internal/platform/httpx"
)

// Handler re-exposes the spot quote to the front end.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the prices handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the prices routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleGet)
}

// handleGet always answers 200 with a usable quote; feed failures fall back
// internally and are never surfaced to the caller.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	quote := h.service.Current(r.Context())
	httpx.JSON(w, http.StatusOK, Payload(quote))
}
