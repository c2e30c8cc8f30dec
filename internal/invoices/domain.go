// Package invoices implements invoice creation, listing, status transitions
// and document export for the back office.
package invoices

import (
	"errors"
	"math"
	"time"

	"github.com/rrumi/backoffice/internal/pricing"
)

// Status enumerates the invoice lifecycle states. Status is the only field
// mutated after creation.
type Status string

const (
	// StatusPending marks a freshly created invoice awaiting payment.
	StatusPending Status = "Pending"
	// StatusPaid marks a settled invoice.
	StatusPaid Status = "Paid"
	// StatusOverdue marks an invoice past its payment window.
	StatusOverdue Status = "Overdue"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Item is one stored invoice line. Total is always recomputed from the other
// fields at save time, never taken from the caller.
type Item struct {
	ID        int64            `json:"id"`
	InvoiceID int64            `json:"invoice_id"`
	Category  pricing.Category `json:"item_type"`
	Quantity  float64          `json:"quantity"`
	Unit      pricing.Unit     `json:"unit"`
	Purity    float64          `json:"purity"`
	UnitPrice float64          `json:"unit_price"`
	Total     float64          `json:"total"`
}

// Invoice aggregates line items with client metadata. Immutable once created
// except for status transitions.
type Invoice struct {
	ID          int64     `json:"id"`
	ClientName  string    `json:"client_name"`
	Email       string    `json:"email"`
	Date        time.Time `json:"date"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	Items       []Item    `json:"items,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemInput is a line item as submitted by the client.
type ItemInput struct {
	Category  string  `json:"item_type"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Purity    float64 `json:"purity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateInput is an invoice creation request.
type CreateInput struct {
	ClientName string      `json:"client_name" validate:"required"`
	Email      string      `json:"email" validate:"required,email"`
	Date       string      `json:"date" validate:"required"`
	Items      []ItemInput `json:"items" validate:"required,min=1"`
}

// ListFilter narrows and pages invoice listings.
type ListFilter struct {
	Status  string
	Page    int
	PerPage int
}

// Pagination carries listing metadata.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}
}

// ErrNotFound indicates a missing invoice.
var ErrNotFound = errors.New("invoices: not found")

// ErrInvalidStatus indicates an unknown status value.
var ErrInvalidStatus = errors.New("invoices: invalid status")

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invoices: validation failed"
}
