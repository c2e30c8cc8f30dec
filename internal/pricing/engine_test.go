package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineTotalGoldFullFineness(t *testing.T) {
	cases := []struct {
		unit   Unit
		factor float64
	}{
		{UnitMilligram, 1 / 31103.4768},
		{UnitGram, 1 / 31.1034768},
		{UnitKilogram, 1000 / 31.1034768},
		{UnitTroyOunce, 1},
		{UnitCarat, 0.2 / 31.1034768},
	}
	for _, tc := range cases {
		item, err := NewLineItem(CategoryGold, 3.5, tc.unit, 24, 2000)
		require.NoError(t, err)
		want := 3.5 * tc.factor * 2000
		require.InEpsilon(t, want, LineTotal(item), 1e-9, "unit %s", tc.unit)
	}
}

func TestLineTotalDiamondIgnoresPurity(t *testing.T) {
	loose, err := NewLineItem(CategoryDiamond, 0.5, UnitCarat, 0, 5000)
	require.NoError(t, err)
	set, err := NewLineItem(CategoryDiamond, 0.5, UnitCarat, 24, 5000)
	require.NoError(t, err)
	require.Equal(t, LineTotal(loose), LineTotal(set))
	require.InDelta(t, 2500, LineTotal(loose), 1e-9)
}

func TestLineTotalDiamondCrossUnit(t *testing.T) {
	// 1 gram of diamond is 5 carats.
	item, err := NewLineItem(CategoryDiamond, 1, UnitGram, 0, 100)
	require.NoError(t, err)
	require.InDelta(t, 500, LineTotal(item), 1e-9)
}

func TestLineTotalPurityScalesLinearly(t *testing.T) {
	full, err := NewLineItem(CategoryCustom, 2, UnitGram, 24, 1500)
	require.NoError(t, err)
	half, err := NewLineItem(CategoryCustom, 2, UnitGram, 14, 1500)
	require.NoError(t, err)
	require.InEpsilon(t, LineTotal(full)*14/24, LineTotal(half), 1e-12)
}

func TestLineTotalZeroPurityMetalDefaultsToFull(t *testing.T) {
	item := LineItem{Category: CategoryGold, Quantity: 1, Unit: UnitTroyOunce, Purity: 0, UnitPrice: 2000}
	require.InDelta(t, 2000, LineTotal(item), 1e-9)
}

func TestInvoiceTotalIsSumOfLines(t *testing.T) {
	gold, err := NewLineItem(CategoryGold, 1, UnitTroyOunce, 24, 2000)
	require.NoError(t, err)
	diamond, err := NewLineItem(CategoryDiamond, 0.5, UnitCarat, 0, 5000)
	require.NoError(t, err)

	items := []LineItem{gold, diamond}
	require.InDelta(t, 4500, InvoiceTotal(items), 1e-9)
	require.InDelta(t, LineTotal(gold)+LineTotal(diamond), InvoiceTotal(items), 1e-12)

	reversed := []LineItem{diamond, gold}
	require.InDelta(t, InvoiceTotal(items), InvoiceTotal(reversed), 1e-9)
}

func TestNewLineItemValidation(t *testing.T) {
	_, err := NewLineItem(CategoryGold, 0, UnitGram, 24, 100)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewLineItem(CategoryGold, -1, UnitGram, 24, 100)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewLineItem(CategoryGold, 1, UnitGram, 24, -0.01)
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewLineItem(CategoryGold, 1, Unit("lb"), 24, 100)
	require.ErrorIs(t, err, ErrUnknownUnit)

	_, err = NewLineItem(CategoryGold, 1, UnitGram, 23, 100)
	require.ErrorIs(t, err, ErrInvalidPurity)

	_, err = NewLineItem(CategorySilver, 1, UnitGram, 22.2, 100)
	require.NoError(t, err)

	_, err = NewLineItem(Category("Bronze"), 1, UnitGram, 24, 100)
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestApplyQuoteSnapsLiveCategoriesOnly(t *testing.T) {
	quote := Quote{Gold: 2025.504, Silver: 24.5, Platinum: 980.2, Diamond: 5450}
	items := []LineItem{
		{Category: CategoryGold, Quantity: 1, Unit: UnitTroyOunce, Purity: 24, UnitPrice: 1},
		{Category: CategoryCustom, Quantity: 1, Unit: UnitTroyOunce, Purity: 24, UnitPrice: 123.45},
	}
	changed := ApplyQuote(items, quote)
	require.True(t, changed)
	require.InDelta(t, 2025.50, items[0].UnitPrice, 1e-9)
	require.InDelta(t, 123.45, items[1].UnitPrice, 1e-9)

	// Re-applying the same quote is a no-op.
	require.False(t, ApplyQuote(items, quote))
}

func TestApplyQuoteIgnoresZeroPrices(t *testing.T) {
	items := []LineItem{{Category: CategorySilver, Quantity: 1, Unit: UnitTroyOunce, Purity: 24, UnitPrice: 24.5}}
	require.False(t, ApplyQuote(items, Quote{}))
	require.InDelta(t, 24.5, items[0].UnitPrice, 1e-9)
}

func TestRebindDiscardsManualPrice(t *testing.T) {
	quote := Quote{Gold: 2000}
	item, err := NewLineItem(CategoryGold, 1, UnitTroyOunce, 24, 2000)
	require.NoError(t, err)

	item = Rebind(item, CategoryCustom, quote)
	item.UnitPrice = 9999 // manual entry while Custom

	item = Rebind(item, CategoryGold, quote)
	require.InDelta(t, 2000, item.UnitPrice, 1e-9)
}

func TestRebindResetsOutOfSetPurity(t *testing.T) {
	item := LineItem{Category: CategoryGold, Quantity: 1, Unit: UnitGram, Purity: 21, UnitPrice: 100}
	item = Rebind(item, CategorySilver, Quote{Silver: 25})
	require.Equal(t, 24.0, item.Purity)
	require.InDelta(t, 25, item.UnitPrice, 1e-9)
}
