package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rrumi/backoffice/internal/platform/httpx"
)

// ExportRecorder counts workbook export outcomes for observability.
type ExportRecorder interface {
	ExportRecorded(format, result string)
}

// Handler exposes catalog endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	recorder ExportRecorder
}

// NewHandler constructs the catalog handler. recorder may be nil when
// metrics are off.
func NewHandler(logger *slog.Logger, service *Service, recorder ExportRecorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, recorder: recorder}
}

// MountRoutes registers the catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/export", h.handleExport)
	})
	r.Post("/extract", h.handleExtract)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	workbook, err := h.service.ExportXLSX(r.Context(), products)
	if err != nil {
		h.logger.Error("catalog export failed", slog.Any("error", err))
		h.recordExport("xlsx", "error")
		httpx.RespondError(w, httpx.ErrExport)
		return
	}
	h.recordExport("xlsx", "ok")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, WorkbookName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.ExtractFields(body.Text))
}

func (h *Handler) recordExport(format, result string) {
	if h.recorder != nil {
		h.recorder.ExportRecorded(format, result)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrMissingField):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("catalog request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
