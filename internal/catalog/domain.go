// Package catalog manages the product costing catalog: tag-scanned items with
// their weights, rates and making charges, plus spreadsheet export.
package catalog

import (
	"errors"
	"time"
)

// Product is one catalog entry. Weight and charge fields stay as the raw text
// recovered from the tag ("9.74g", "350 AED"); numeric parsing happens only at
// export time so a garbled scan never blocks saving.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Shape       string    `json:"shape"`
	SolitaireWt string    `json:"solitaire_wt"`
	CAD         string    `json:"cad"`
	Quality     string    `json:"quality"`
	GrossWt     string    `json:"gross_wt"`
	GoldPurity  string    `json:"gold_purity"`
	GoldRate24k string    `json:"gold_rate_24k"`
	DiaWt       string    `json:"dia_wt"`
	DiaRate     string    `json:"dia_rate"`
	NetWt       string    `json:"net_wt"`
	Making      string    `json:"making"`
	SomnDia     string    `json:"somn_dia"`
	Total       string    `json:"total"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Categories lists the catalog groupings, in display and export order.
var Categories = []string{
	"Rings",
	"Bracelet",
	"Pendant",
	"Earrings",
	"Necklace",
	"Two Finger Rings",
}

// ValidCategory reports whether c is a known catalog category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CreateInput is a product submission.
type CreateInput struct {
	Name        string `json:"name" validate:"required"`
	Shape       string `json:"shape"`
	SolitaireWt string `json:"solitaire_wt"`
	CAD         string `json:"cad"`
	Quality     string `json:"quality"`
	GrossWt     string `json:"gross_wt"`
	GoldPurity  string `json:"gold_purity"`
	GoldRate24k string `json:"gold_rate_24k"`
	DiaWt       string `json:"dia_wt"`
	DiaRate     string `json:"dia_rate"`
	NetWt       string `json:"net_wt"`
	Making      string `json:"making"`
	SomnDia     string `json:"somn_dia"`
	Total       string `json:"total"`
	Date        string `json:"date"`
	Category    string `json:"category" validate:"required"`
	Image       string `json:"image"`
}

// ErrNotFound indicates a missing product.
var ErrNotFound = errors.New("catalog: not found")

// ErrMissingField indicates a required submission field left blank.
var ErrMissingField = errors.New("catalog: missing required field")

// ErrInvalidCategory indicates an unknown category value.
var ErrInvalidCategory = errors.New("catalog: invalid category")
