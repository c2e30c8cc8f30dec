package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rrumi/backoffice/internal/platform/httpx"
	"github.com/rrumi/backoffice/internal/pricing"
)

// PDFPort renders a stored invoice into a downloadable document.
type PDFPort interface {
	InvoicePDF(ctx context.Context, invoice Invoice) ([]byte, error)
}

// ExportRecorder counts document export outcomes for observability.
type ExportRecorder interface {
	ExportRecorded(format, result string)
}

// Handler exposes invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	pdf      PDFPort
	recorder ExportRecorder
}

// NewHandler constructs the invoices handler. pdf may be nil when document
// export is not configured; recorder may be nil when metrics are off.
func NewHandler(logger *slog.Logger, service *Service, pdf PDFPort, recorder ExportRecorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, pdf: pdf, recorder: recorder}
}

// MountRoutes registers the invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/options", h.handleOptions)
	r.Get("/{id}", h.handleGet)
	r.Delete("/{id}", h.handleDelete)
	r.Patch("/{id}/status", h.handleUpdateStatus)
	r.Get("/{id}/pdf", h.handlePDF)
}

type listResponse struct {
	Invoices   []Invoice  `json:"invoices"`
	Pagination Pagination `json:"pagination"`
}

type optionsResponse struct {
	Categories []pricing.Category             `json:"categories"`
	Units      []pricing.Unit                 `json:"units"`
	Statuses   []Status                       `json:"statuses"`
	PuritySets map[pricing.Category][]float64 `json:"purity_sets"`
}

// handleOptions serves the selector sets the item form is built from:
// categories, units, statuses and the valid karat values per category.
func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	puritySets := make(map[pricing.Category][]float64, len(pricing.Categories()))
	for _, c := range pricing.Categories() {
		puritySets[c] = c.PuritySet()
	}
	httpx.JSON(w, http.StatusOK, optionsResponse{
		Categories: pricing.Categories(),
		Units:      pricing.Units(),
		Statuses:   []Status{StatusPending, StatusPaid, StatusOverdue},
		PuritySets: puritySets,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status:  r.URL.Query().Get("status"),
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	}
	list, pagination, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse{Invoices: list, Pagination: pagination})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, Status(body.Status)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Export Unavailable", "document rendering is not configured")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	invoice, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	pdf, err := h.pdf.InvoicePDF(r.Context(), invoice)
	if err != nil {
		h.logger.Error("invoice pdf render failed", slog.Int64("id", id), slog.Any("error", err))
		h.recordExport("pdf", "error")
		httpx.RespondError(w, httpx.ErrExport)
		return
	}
	h.recordExport("pdf", "ok")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%d.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) recordExport(format, result string) {
	if h.recorder != nil {
		h.recorder.ExportRecorded(format, result)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.FieldProblem(w, verr.Fields)
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "status must be Pending, Paid or Overdue")
	default:
		h.logger.Error("invoice request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(key))
	return v
}
