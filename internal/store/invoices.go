package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/willemvz/invoice-tracker/internal/common"
	"github.com/willemvz/invoice-tracker/internal/models"
)

// InvoiceRepository handles customers, invoices, and invoice items. Invoice
// totals are never stored; every read derives them by summing line items.
type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// ListInvoices returns all invoices joined with their customer's name and
// the sum of their item amounts, newest created first. Invoices whose
// customer row is missing still appear, with a nil customer name; invoices
// with no items have a zero total.
func (r *InvoiceRepository) ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
        SELECT
            i.id,
            i.customer_id,
            c.name AS customer_name,
            i.description,
            i.created_date,
            i.due_date,
            i.paid_date,
            COALESCE(SUM(ii.amount), 0) AS total
        FROM invoices i
        LEFT JOIN customers c ON i.customer_id = c.id
        LEFT JOIN invoice_items ii ON i.id = ii.invoice_id
        GROUP BY i.id, c.name, i.description, i.created_date, i.due_date, i.paid_date
        ORDER BY i.created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []models.InvoiceSummary
	for rows.Next() {
		var s models.InvoiceSummary
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Description,
			&s.CreatedDate, &s.DueDate, &s.PaidDate, &s.Total); err != nil {
			return nil, fmt.Errorf("list invoices: scan: %w", err)
		}
		if err := validateInvoiceDates(&s.Invoice); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}

// GetInvoice returns one invoice with its customer contact fields, its items
// in insertion order, and its derived total. Returns common.ErrNotFound if
// the invoice does not exist.
func (r *InvoiceRepository) GetInvoice(ctx context.Context, id int64) (*models.InvoiceDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d models.InvoiceDetail
	err := r.db.QueryRowContext(ctx, `
        SELECT i.id, i.customer_id, c.name, c.email,
               i.description, i.created_date, i.due_date, i.paid_date
        FROM invoices i
        LEFT JOIN customers c ON i.customer_id = c.id
        WHERE i.id = ?`, id,
	).Scan(&d.ID, &d.CustomerID, &d.CustomerName, &d.CustomerEmail,
		&d.Description, &d.CreatedDate, &d.DueDate, &d.PaidDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := validateInvoiceDates(&d.Invoice); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, invoice_id, description, amount
        FROM invoice_items WHERE invoice_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Amount); err != nil {
			return nil, fmt.Errorf("get invoice items: scan: %w", err)
		}
		d.Items = append(d.Items, it)
		d.Total += it.Amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	return &d, nil
}

// CreateInvoice inserts a new invoice due on dueDate. The created date
// defaults to the current calendar date and the invoice starts unpaid.
// Customer existence is left to the foreign-key constraint.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, customerID int64, description, dueDate string) (int64, error) {
	description = strings.TrimSpace(description)
	dueDate = strings.TrimSpace(dueDate)
	if customerID <= 0 {
		return 0, fmt.Errorf("%w: customer is required", common.ErrValidation)
	}
	if description == "" {
		return 0, fmt.Errorf("%w: description is required", common.ErrValidation)
	}
	if dueDate == "" {
		return 0, fmt.Errorf("%w: due date is required", common.ErrValidation)
	}
	if _, err := time.Parse(models.DateLayout, dueDate); err != nil {
		return 0, fmt.Errorf("%w: due date must be a valid date (YYYY-MM-DD)", common.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created := time.Now().Format(models.DateLayout)
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO invoices (customer_id, description, created_date, due_date, paid_date)
        VALUES (?, ?, ?, ?, NULL)`,
		customerID, description, created, dueDate)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	return id, nil
}

// AddItem attaches a line item to an invoice. The amount must be a
// non-negative number.
func (r *InvoiceRepository) AddItem(ctx context.Context, invoiceID int64, description string, amount float64) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, fmt.Errorf("%w: item description is required", common.ErrValidation)
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: amount must be a non-negative number", common.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
        INSERT INTO invoice_items (invoice_id, description, amount)
        VALUES (?, ?, ?)`,
		invoiceID, description, amount)
	if err != nil {
		return 0, fmt.Errorf("add item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add item: %w", err)
	}
	return id, nil
}

// InvoiceTotal returns the sum of the invoice's item amounts, zero if it has
// none.
func (r *InvoiceRepository) InvoiceTotal(ctx context.Context, invoiceID int64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM invoice_items WHERE invoice_id = ?`,
		invoiceID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("invoice total: %w", err)
	}
	return total, nil
}

// ListCustomers returns all customers ordered by name.
func (r *InvoiceRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("list customers: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

// validateInvoiceDates rejects rows whose date columns do not hold calendar
// dates, so malformed rows fail loudly instead of leaking wrong values into
// status computations.
func validateInvoiceDates(inv *models.Invoice) error {
	if _, err := time.Parse(models.DateLayout, inv.CreatedDate); err != nil {
		return fmt.Errorf("%w: invoice %d: malformed created_date %q", common.ErrInternal, inv.ID, inv.CreatedDate)
	}
	if _, err := time.Parse(models.DateLayout, inv.DueDate); err != nil {
		return fmt.Errorf("%w: invoice %d: malformed due_date %q", common.ErrInternal, inv.ID, inv.DueDate)
	}
	if inv.PaidDate != nil {
		if _, err := time.Parse(models.DateLayout, *inv.PaidDate); err != nil {
			return fmt.Errorf("%w: invoice %d: malformed paid_date %q", common.ErrInternal, inv.ID, *inv.PaidDate)
		}
	}
	return nil
}
