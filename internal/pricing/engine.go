package pricing

import "math"

// LineTotal computes the monetary total of a single line item.
//
// Diamond items convert the quantity to carats and price per carat; the
// karat setting is informational and never scales a diamond price. All other
// categories convert to troy ounces and scale by purity/24, with an unset
// purity treated as full fineness. Intermediate conversions are never
// rounded; rounding happens only at display time.
func LineTotal(item LineItem) float64 {
	if item.Category == CategoryDiamond {
		qtyInCarats := item.Quantity * (toTroyOunce[item.Unit] / toTroyOunce[UnitCarat])
		return qtyInCarats * item.UnitPrice
	}
	qtyInOz := item.Quantity * toTroyOunce[item.Unit]
	purity := item.Purity
	if purity == 0 {
		purity = 24
	}
	return qtyInOz * item.UnitPrice * (purity / 24)
}

// InvoiceTotal sums LineTotal over all items. The result is not rounded
// until formatted for display or export.
func InvoiceTotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += LineTotal(item)
	}
	return total
}

// ApplyQuote snaps the unit price of every live-category item to the quote,
// leaving Custom items untouched. It reports whether any price changed.
// A zero quote price is ignored so a missing feed value never zeroes an item.
func ApplyQuote(items []LineItem, quote Quote) bool {
	changed := false
	for i := range items {
		price, ok := quote.PriceFor(items[i].Category)
		if !ok || price <= 0 {
			continue
		}
		if items[i].UnitPrice != price {
			items[i].UnitPrice = price
			changed = true
		}
	}
	return changed
}

// Rebind switches an item's category and applies the live-price binding:
// moving to a live category snaps the price to the current quote, discarding
// any manually entered value; moving to Custom keeps the last price and
// leaves it user-editable.
func Rebind(item LineItem, category Category, quote Quote) LineItem {
	item.Category = category
	if price, ok := quote.PriceFor(category); ok {
		item.UnitPrice = price
	}
	if !category.ValidPurity(item.Purity) {
		item.Purity = 24
	}
	return item
}

// Round2 rounds to two decimal places for display and quote snapping.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
