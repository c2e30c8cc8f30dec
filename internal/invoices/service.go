package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rrumi/backoffice/internal/pricing"
)

// RepositoryPort abstracts persistence for the service.
type RepositoryPort interface {
	Create(ctx context.Context, invoice Invoice) (Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, int, error)
	Get(ctx context.Context, id int64) (Invoice, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// QuotePort supplies the current spot quote for live-priced categories.
type QuotePort interface {
	Current(ctx context.Context) pricing.Quote
}

// Service coordinates invoice operations.
type Service struct {
	repo     RepositoryPort
	quotes   QuotePort
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, quotes QuotePort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		quotes:   quotes,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Create validates the submission, recomputes every total server side and
// persists the invoice with its items in one transaction. Live-priced
// categories snap to the current quote regardless of the submitted price;
// the quote always resolves (the feed layer falls back internally), so feed
// unavailability never blocks creation.
func (s *Service) Create(ctx context.Context, input CreateInput) (Invoice, error) {
	fields := map[string]string{}
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "ClientName":
					fields["client_name"] = "Client name is required"
				case "Email":
					fields["email"] = "Please enter a valid email address"
				case "Date":
					fields["date"] = "Date is required"
				case "Items":
					fields["items"] = "At least one item is required"
				}
			}
		} else {
			return Invoice{}, fmt.Errorf("invoices: validate: %w", err)
		}
	}

	date, dateErr := time.Parse("2006-01-02", input.Date)
	if input.Date != "" && dateErr != nil {
		fields["date"] = "Date must be YYYY-MM-DD"
	}

	quote := s.quotes.Current(ctx)
	items := make([]pricing.LineItem, 0, len(input.Items))
	for i, in := range input.Items {
		item, err := buildLineItem(in, quote)
		if err != nil {
			fields[itemField(i, err)] = itemMessage(err)
			continue
		}
		items = append(items, item)
	}
	if len(fields) > 0 {
		return Invoice{}, &ValidationError{Fields: fields}
	}

	invoice := Invoice{
		ClientName: strings.TrimSpace(input.ClientName),
		Email:      strings.TrimSpace(input.Email),
		Date:       date,
		Status:     StatusPending,
	}
	for _, item := range items {
		invoice.Items = append(invoice.Items, Item{
			Category:  item.Category,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			Purity:    item.Purity,
			UnitPrice: item.UnitPrice,
			Total:     pricing.LineTotal(item),
		})
	}
	invoice.TotalAmount = pricing.InvoiceTotal(items)

	created, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return Invoice{}, err
	}
	s.logger.Info("invoice created",
		slog.Int64("id", created.ID),
		slog.Int("items", len(created.Items)),
		slog.Float64("total", created.TotalAmount))
	return created, nil
}

// List returns invoice summaries (no items) with pagination metadata.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Invoice, Pagination, error) {
	if filter.Status != "" && filter.Status != "All" && !Status(filter.Status).Valid() {
		return nil, Pagination{}, ErrInvalidStatus
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, NewPagination(filter.Page, filter.PerPage, total), nil
}

// Get fetches one invoice with its items.
func (s *Service) Get(ctx context.Context, id int64) (Invoice, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes an invoice and its items.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// UpdateStatus applies the only post-creation mutation permitted.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// buildLineItem applies the live-price binding before validation so a
// snapped price can never be negative and manual overrides are discarded.
func buildLineItem(in ItemInput, quote pricing.Quote) (pricing.LineItem, error) {
	category := pricing.Category(in.Category)
	unitPrice := in.UnitPrice
	if price, ok := quote.PriceFor(category); ok && price > 0 {
		unitPrice = price
	}
	return pricing.NewLineItem(category, in.Quantity, pricing.Unit(in.Unit), in.Purity, unitPrice)
}

func itemField(index int, err error) string {
	name := "item"
	switch {
	case errors.Is(err, pricing.ErrInvalidQuantity):
		name = "quantity"
	case errors.Is(err, pricing.ErrNegativePrice):
		name = "unit_price"
	case errors.Is(err, pricing.ErrInvalidPurity):
		name = "purity"
	case errors.Is(err, pricing.ErrUnknownUnit):
		name = "unit"
	case errors.Is(err, pricing.ErrUnknownCategory):
		name = "item_type"
	}
	return fmt.Sprintf("items.%d.%s", index, name)
}

func itemMessage(err error) string {
	switch {
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return "Qty > 0"
	case errors.Is(err, pricing.ErrNegativePrice):
		return "Price >= 0"
	case errors.Is(err, pricing.ErrInvalidPurity):
		return "Purity not valid for this item type"
	case errors.Is(err, pricing.ErrUnknownUnit):
		return "Unknown unit"
	case errors.Is(err, pricing.ErrUnknownCategory):
		return "Unknown item type"
	}
	return "Invalid item"
}
