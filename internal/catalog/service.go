package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rrumi/backoffice/internal/extract"
)

// RepositoryPort abstracts product persistence.
type RepositoryPort interface {
	Create(ctx context.Context, product Product) error
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, id string) error
}

// Service coordinates catalog operations.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and stores a new product. Blank rate and grade fields take
// the counter defaults; a blank date becomes today in DD/MM/YY form, matching
// the date format printed on tags.
func (s *Service) Create(ctx context.Context, input CreateInput) (Product, error) {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Product{}, fmt.Errorf("%w: %s", ErrMissingField, strings.ToLower(verrs[0].Field()))
		}
		return Product{}, fmt.Errorf("catalog: validate: %w", err)
	}
	if !ValidCategory(input.Category) {
		return Product{}, ErrInvalidCategory
	}

	product := Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Shape:       input.Shape,
		SolitaireWt: input.SolitaireWt,
		CAD:         defaultString(input.CAD, "YES"),
		Quality:     defaultString(input.Quality, "D"),
		GrossWt:     input.GrossWt,
		GoldPurity:  defaultString(input.GoldPurity, "18K"),
		GoldRate24k: defaultString(input.GoldRate24k, "430"),
		DiaWt:       input.DiaWt,
		DiaRate:     defaultString(input.DiaRate, "450"),
		NetWt:       input.NetWt,
		Making:      input.Making,
		SomnDia:     input.SomnDia,
		Total:       input.Total,
		Date:        defaultString(input.Date, s.now().Format("02/01/06")),
		Category:    input.Category,
		Image:       input.Image,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return Product{}, err
	}
	s.logger.Info("product created", slog.String("id", product.ID), slog.String("category", product.Category))
	return product, nil
}

// List returns all products, newest first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ExtractFields runs the tag heuristics over OCR text. Unmatched input is not
// an error, just an empty record.
func (s *Service) ExtractFields(text string) extract.Fields {
	return extract.Parse(text)
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
