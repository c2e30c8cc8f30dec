package invoices

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rrumi/backoffice/internal/pricing"
)

type memoryRepo struct {
	nextID   int64
	invoices map[int64]Invoice
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, invoices: map[int64]Invoice{}}
}

func (m *memoryRepo) Create(_ context.Context, invoice Invoice) (Invoice, error) {
	invoice.ID = m.nextID
	invoice.CreatedAt = time.Now()
	m.nextID++
	for i := range invoice.Items {
		invoice.Items[i].ID = int64(i + 1)
		invoice.Items[i].InvoiceID = invoice.ID
	}
	m.invoices[invoice.ID] = invoice
	return invoice, nil
}

func (m *memoryRepo) List(_ context.Context, filter ListFilter) ([]Invoice, int, error) {
	status := filter.Status
	if status == "All" {
		status = ""
	}
	matched := []Invoice{}
	for _, inv := range m.invoices {
		if status == "" || string(inv.Status) == status {
			inv.Items = nil
			matched = append(matched, inv)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	inv, ok := m.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.Status = status
	m.invoices[id] = inv
	return nil
}

type staticQuotes struct {
	quote pricing.Quote
}

func (s staticQuotes) Current(context.Context) pricing.Quote { return s.quote }

func testQuotes() staticQuotes {
	return staticQuotes{quote: pricing.Quote{
		Gold:     2000,
		Silver:   25,
		Platinum: 980,
		Diamond:  5000,
		Currency: "USD",
	}}
}

func TestCreateRecomputesTotalsServerSide(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testQuotes(), nil)

	created, err := svc.Create(context.Background(), CreateInput{
		ClientName: "Ada Lovelace",
		Email:      "ada@example.com",
		Date:       "2026-08-15",
		Items: []ItemInput{
			// Submitted price and total are ignored for live categories.
			{Category: "Gold", Quantity: 1, Unit: "oz", Purity: 24, UnitPrice: 1},
			{Category: "Diamond", Quantity: 0.5, Unit: "ct", Purity: 0, UnitPrice: 9999},
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)
	require.Len(t, created.Items, 2)
	require.InDelta(t, 2000.0, created.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 2000.0, created.Items[0].Total, 1e-9)
	require.InDelta(t, 5000.0, created.Items[1].UnitPrice, 1e-9)
	require.InDelta(t, 2500.0, created.Items[1].Total, 1e-9)
	require.InDelta(t, 4500.0, created.TotalAmount, 1e-9)
}

func TestCreateKeepsManualPriceForCustomItems(t *testing.T) {
	svc := NewService(newMemoryRepo(), testQuotes(), nil)

	created, err := svc.Create(context.Background(), CreateInput{
		ClientName: "Grace Hopper",
		Email:      "grace@example.com",
		Date:       "2026-08-15",
		Items: []ItemInput{
			{Category: "Custom", Quantity: 2, Unit: "oz", Purity: 24, UnitPrice: 150},
		},
	})
	require.NoError(t, err)
	require.InDelta(t, 150.0, created.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 300.0, created.Items[0].Total, 1e-9)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), testQuotes(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		ClientName: "",
		Email:      "not-an-email",
		Date:       "",
		Items:      nil,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "client_name")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "date")
	require.Contains(t, verr.Fields, "items")
}

func TestCreateRejectsBadItems(t *testing.T) {
	svc := NewService(newMemoryRepo(), testQuotes(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		ClientName: "Ada Lovelace",
		Email:      "ada@example.com",
		Date:       "2026-08-15",
		Items: []ItemInput{
			{Category: "Gold", Quantity: 0, Unit: "oz", Purity: 24},
			{Category: "Gold", Quantity: 1, Unit: "furlong", Purity: 24},
			{Category: "Gold", Quantity: 1, Unit: "oz", Purity: 23},
			{Category: "Plutonium", Quantity: 1, Unit: "oz", Purity: 24},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "items.0.quantity")
	require.Contains(t, verr.Fields, "items.1.unit")
	require.Contains(t, verr.Fields, "items.2.purity")
	require.Contains(t, verr.Fields, "items.3.item_type")
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := NewService(newMemoryRepo(), testQuotes(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		ClientName: "Ada Lovelace",
		Email:      "ada@example.com",
		Date:       "15/08/2026",
		Items: []ItemInput{
			{Category: "Gold", Quantity: 1, Unit: "oz", Purity: 24},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "date")
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testQuotes(), nil)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), CreateInput{
			ClientName: "Client",
			Email:      "client@example.com",
			Date:       "2026-08-15",
			Items:      []ItemInput{{Category: "Gold", Quantity: 1, Unit: "g", Purity: 24}},
		})
		require.NoError(t, err)
	}
	require.NoError(t, svc.UpdateStatus(context.Background(), 1, StatusPaid))

	list, pagination, err := svc.List(context.Background(), ListFilter{Status: "Pending", Page: 1, PerPage: 3})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, 4, pagination.Total)
	require.Equal(t, 2, pagination.TotalPages)

	_, _, err = svc.List(context.Background(), ListFilter{Status: "Bogus"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewService(newMemoryRepo(), testQuotes(), nil)
	require.ErrorIs(t, svc.UpdateStatus(context.Background(), 1, Status("Cancelled")), ErrInvalidStatus)
}

func TestDeleteMissingInvoice(t *testing.T) {
	svc := NewService(newMemoryRepo(), testQuotes(), nil)
	require.ErrorIs(t, svc.Delete(context.Background(), 42), ErrNotFound)
}
