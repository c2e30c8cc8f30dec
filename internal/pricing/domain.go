// Package pricing converts heterogeneous line items into monetary totals
// using troy-ounce mass conversion and karat-based purity scaling.
package pricing

import (
	"errors"
	"time"
)

// Unit enumerates supported mass units.
type Unit string

const (
	// UnitMilligram is one thousandth of a gram.
	UnitMilligram Unit = "mg"
	// UnitGram is the metric gram.
	UnitGram Unit = "g"
	// UnitKilogram is one thousand grams.
	UnitKilogram Unit = "kg"
	// UnitTroyOunce is the precious-metals standard ounce (31.1034768 g).
	UnitTroyOunce Unit = "oz"
	// UnitCarat is the gemstone carat (0.2 g).
	UnitCarat Unit = "ct"
)

// toTroyOunce maps each unit to its troy-ounce multiplier. The constants are
// exact rationals over the 31.1034768 g/oz standard and must not be rounded.
var toTroyOunce = map[Unit]float64{
	UnitMilligram: 1 / 31103.4768,
	UnitGram:      1 / 31.1034768,
	UnitKilogram:  1000 / 31.1034768,
	UnitTroyOunce: 1,
	UnitCarat:     0.2 / 31.1034768,
}

// Units lists the supported units in display order.
func Units() []Unit {
	return []Unit{UnitMilligram, UnitGram, UnitKilogram, UnitTroyOunce, UnitCarat}
}

// Valid reports whether the unit is a known mass unit.
func (u Unit) Valid() bool {
	_, ok := toTroyOunce[u]
	return ok
}

// Category determines the pricing basis of a line item.
type Category string

const (
	// CategoryGold is priced per troy ounce off the gold spot quote.
	CategoryGold Category = "Gold"
	// CategorySilver is priced per troy ounce off the silver spot quote.
	CategorySilver Category = "Silver"
	// CategoryPlatinum is priced per troy ounce off the platinum spot quote.
	CategoryPlatinum Category = "Platinum"
	// CategoryDiamond is priced per carat off the diamond quote.
	CategoryDiamond Category = "Diamond"
	// CategoryCustom is priced per troy ounce at a user-entered price.
	CategoryCustom Category = "Custom"
)

// Categories lists the supported categories in display order.
func Categories() []Category {
	return []Category{CategoryCustom, CategoryGold, CategorySilver, CategoryPlatinum, CategoryDiamond}
}

// Valid reports whether the category is known.
func (c Category) Valid() bool {
	switch c {
	case CategoryGold, CategorySilver, CategoryPlatinum, CategoryDiamond, CategoryCustom:
		return true
	}
	return false
}

// Live reports whether the category's unit price tracks the spot quote.
// Live prices are a one-way binding: no manual override is honoured.
func (c Category) Live() bool {
	switch c {
	case CategoryGold, CategorySilver, CategoryPlatinum, CategoryDiamond:
		return true
	}
	return false
}

// puritySets holds the valid karat values per category. Diamond purity 0
// means a loose stone with no metal setting.
var puritySets = map[Category][]float64{
	CategoryGold:     {24, 22, 21, 18, 14},
	CategorySilver:   {24, 22.2},
	CategoryPlatinum: {24, 22.8, 21.6},
	CategoryDiamond:  {24, 18, 14, 0},
	CategoryCustom:   {24, 22, 18, 14},
}

// PuritySet returns the valid karat values for the category.
func (c Category) PuritySet() []float64 {
	set := puritySets[c]
	out := make([]float64, len(set))
	copy(out, set)
	return out
}

// ValidPurity reports whether the karat value belongs to the category's set.
func (c Category) ValidPurity(purity float64) bool {
	for _, p := range puritySets[c] {
		if p == purity {
			return true
		}
	}
	return false
}

// Validation errors for line item construction.
var (
	ErrUnknownCategory = errors.New("pricing: unknown category")
	ErrUnknownUnit     = errors.New("pricing: unknown unit")
	ErrInvalidQuantity = errors.New("pricing: quantity must be > 0")
	ErrNegativePrice   = errors.New("pricing: unit price must be >= 0")
	ErrInvalidPurity   = errors.New("pricing: purity not valid for category")
)

// LineItem is one billable entry. Construct through NewLineItem so the
// category, unit and purity invariants hold.
type LineItem struct {
	Category  Category
	Quantity  float64
	Unit      Unit
	Purity    float64
	UnitPrice float64
}

// NewLineItem validates and builds a line item. Quantity must be strictly
// positive; a non-positive quantity is rejected, never clamped.
func NewLineItem(category Category, quantity float64, unit Unit, purity, unitPrice float64) (LineItem, error) {
	if !category.Valid() {
		return LineItem{}, ErrUnknownCategory
	}
	if !unit.Valid() {
		return LineItem{}, ErrUnknownUnit
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return LineItem{}, ErrNegativePrice
	}
	if !category.ValidPurity(purity) {
		return LineItem{}, ErrInvalidPurity
	}
	return LineItem{Category: category, Quantity: quantity, Unit: unit, Purity: purity, UnitPrice: unitPrice}, nil
}

// Quote is a snapshot of spot prices in USD. Gold, silver and platinum are
// per troy ounce; diamond is per carat.
type Quote struct {
	Gold       float64
	Silver     float64
	Platinum   float64
	Diamond    float64
	Currency   string
	ObservedAt time.Time
}

// PriceFor returns the quote price for a live category, rounded to cents.
// The second return is false for Custom and unknown categories.
func (q Quote) PriceFor(c Category) (float64, bool) {
	switch c {
	case CategoryGold:
		return Round2(q.Gold), true
	case CategorySilver:
		return Round2(q.Silver), true
	case CategoryPlatinum:
		return Round2(q.Platinum), true
	case CategoryDiamond:
		return Round2(q.Diamond), true
	}
	return 0, false
}
