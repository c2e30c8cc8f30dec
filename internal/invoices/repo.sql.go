package invoices

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists invoices in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the invoice header and its items in one transaction.
func (r *Repository) Create(ctx context.Context, invoice Invoice) (Invoice, error) {
	if r == nil {
		return Invoice{}, errors.New("invoices: repository not initialised")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Invoice{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx, `INSERT INTO invoices (client_name, email, date, status, total_amount)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
		invoice.ClientName, invoice.Email, invoice.Date, string(invoice.Status), invoice.TotalAmount).
		Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return Invoice{}, classify(err)
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		err = tx.QueryRow(ctx, `INSERT INTO invoice_items (invoice_id, item_type, quantity, unit, purity, unit_price, total)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			invoice.ID, string(invoice.Items[i].Category), invoice.Items[i].Quantity,
			string(invoice.Items[i].Unit), invoice.Items[i].Purity,
			invoice.Items[i].UnitPrice, invoice.Items[i].Total).
			Scan(&invoice.Items[i].ID)
		if err != nil {
			return Invoice{}, classify(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// List returns invoice summaries plus the unpaged total count.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Invoice, int, error) {
	if r == nil {
		return nil, 0, errors.New("invoices: repository not initialised")
	}
	status := filter.Status
	if status == "All" {
		status = ""
	}
	offset := (filter.Page - 1) * filter.PerPage

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, client_name, email, date, status, total_amount, created_at
FROM invoices
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, status, filter.PerPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Invoice{}
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.ClientName, &inv.Email, &inv.Date, &inv.Status, &inv.TotalAmount, &inv.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get fetches one invoice with its items.
func (r *Repository) Get(ctx context.Context, id int64) (Invoice, error) {
	if r == nil {
		return Invoice{}, errors.New("invoices: repository not initialised")
	}
	var inv Invoice
	err := r.pool.QueryRow(ctx, `SELECT id, client_name, email, date, status, total_amount, created_at
FROM invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.ClientName, &inv.Email, &inv.Date, &inv.Status, &inv.TotalAmount, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, invoice_id, item_type, quantity, unit, purity, unit_price, total
FROM invoice_items WHERE invoice_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Category, &item.Quantity, &item.Unit, &item.Purity, &item.UnitPrice, &item.Total); err != nil {
			return Invoice{}, err
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// Delete removes the invoice; items cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if r == nil {
		return errors.New("invoices: repository not initialised")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus transitions the invoice status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if r == nil {
		return errors.New("invoices: repository not initialised")
	}
	tag, err := r.pool.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// classify maps check-constraint violations onto domain errors so a value
// that slips past service validation still surfaces cleanly.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		if strings.Contains(pgErr.ConstraintName, "status") {
			return ErrInvalidStatus
		}
		return &ValidationError{Fields: map[string]string{"general": pgErr.Message}}
	}
	return err
}
