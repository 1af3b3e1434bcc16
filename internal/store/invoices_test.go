package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/willemvz/invoice-tracker/internal/common"
	"github.com/willemvz/invoice-tracker/internal/models"
)

func insertCustomer(t *testing.T, db *sql.DB, name, email string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO customers (name, email) VALUES (?, ?)`, name, email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestInvoiceRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t, "inv_create")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	bob := insertCustomer(t, db, "Bob", "bob@email.com")

	id, err := repo.CreateInvoice(ctx, bob, "Kitchen Sink Installation", "2025-10-31")
	require.NoError(t, err)
	require.NotZero(t, id)

	d, err := repo.GetInvoice(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Kitchen Sink Installation", d.Description)
	require.Equal(t, "2025-10-31", d.DueDate)
	require.Nil(t, d.PaidDate)
	require.NotNil(t, d.CustomerName)
	require.Equal(t, "Bob", *d.CustomerName)
	require.NotNil(t, d.CustomerEmail)
	require.Equal(t, "bob@email.com", *d.CustomerEmail)
	require.Empty(t, d.Items)
	require.Zero(t, d.Total)

	// created_date defaults to the current calendar date
	require.Equal(t, time.Now().Format(models.DateLayout), d.CreatedDate)
}

func TestInvoiceRepository_CreateValidation(t *testing.T) {
	db := openTestDB(t, "inv_validate")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	bob := insertCustomer(t, db, "Bob", "bob@email.com")

	_, err := repo.CreateInvoice(ctx, 0, "desc", "2025-10-31")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = repo.CreateInvoice(ctx, bob, "   ", "2025-10-31")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = repo.CreateInvoice(ctx, bob, "desc", "")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = repo.CreateInvoice(ctx, bob, "desc", "next tuesday")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestInvoiceRepository_AddItemAndTotal(t *testing.T) {
	db := openTestDB(t, "inv_total")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	bob := insertCustomer(t, db, "Bob", "bob@email.com")
	id, err := repo.CreateInvoice(ctx, bob, "Kitchen work", "2025-10-31")
	require.NoError(t, err)

	// Empty invoice totals zero.
	total, err := repo.InvoiceTotal(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 0.0, total)

	_, err = repo.AddItem(ctx, id, "Sink unit", 150.00)
	require.NoError(t, err)
	total, err = repo.InvoiceTotal(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 150.00, total)

	_, err = repo.AddItem(ctx, id, "Labor", 50.00)
	require.NoError(t, err)
	total, err = repo.InvoiceTotal(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 200.00, total)
}

func TestInvoiceRepository_AddItemValidation(t *testing.T) {
	db := openTestDB(t, "inv_item_validate")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	bob := insertCustomer(t, db, "Bob", "bob@email.com")
	id, err := repo.CreateInvoice(ctx, bob, "Kitchen work", "2025-10-31")
	require.NoError(t, err)

	_, err = repo.AddItem(ctx, id, "  ", 10)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = repo.AddItem(ctx, id, "Sink unit", -1)
	require.ErrorIs(t, err, common.ErrValidation)

	// Zero amounts are allowed.
	_, err = repo.AddItem(ctx, id, "Goodwill discount", 0)
	require.NoError(t, err)
}

func TestInvoiceRepository_BobScenario(t *testing.T) {
	db := openTestDB(t, "inv_bob")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	bob := insertCustomer(t, db, "Bob", "bob@email.com")
	_, err := db.Exec(`
        INSERT INTO invoices (customer_id, description, created_date, due_date, paid_date)
        VALUES (?, ?, ?, ?, NULL)`,
		bob, "Kitchen Sink Installation and Plumbing", "2025-10-01", "2025-10-31")
	require.NoError(t, err)

	var id int64
	require.NoError(t, db.QueryRow(`SELECT id FROM invoices`).Scan(&id))

	for _, amount := range []float64{320.00, 280.00, 150.00, 100.00} {
		_, err := repo.AddItem(ctx, id, "line item", amount)
		require.NoError(t, err)
	}

	total, err := repo.InvoiceTotal(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 850.00, total)
}

func TestInvoiceRepository_ListOrderingAndTotals(t *testing.T) {
	db := openTestDB(t, "inv_list")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	bob := insertCustomer(t, db, "Bob", "bob@email.com")

	insert := func(desc, created string) int64 {
		res, err := db.Exec(`
            INSERT INTO invoices (customer_id, description, created_date, due_date, paid_date)
            VALUES (?, ?, ?, ?, NULL)`, bob, desc, created, "2025-12-31")
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		return id
	}
	older := insert("older", "2025-09-01")
	newer := insert("newer", "2025-10-01")

	_, err := repo.AddItem(ctx, older, "part", 40.00)
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, older, "labor", 60.00)
	require.NoError(t, err)

	list, err := repo.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Newest created first; empty invoices total zero.
	require.Equal(t, newer, list[0].ID)
	require.Equal(t, 0.0, list[0].Total)
	require.Equal(t, older, list[1].ID)
	require.Equal(t, 100.0, list[1].Total)
	require.NotNil(t, list[0].CustomerName)
	require.Equal(t, "Bob", *list[0].CustomerName)
}

func TestInvoiceRepository_ListKeepsInvoicesWithMissingCustomer(t *testing.T) {
	db := openTestDB(t, "inv_orphan")
	db.SetMaxOpenConns(1)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`PRAGMA foreign_keys=OFF`)
	require.NoError(t, err)
	_, err = db.Exec(`
        INSERT INTO invoices (customer_id, description, created_date, due_date, paid_date)
        VALUES (999, 'orphaned work', '2025-10-01', '2025-10-31', NULL)`)
	require.NoError(t, err)

	list, err := repo.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].CustomerName)
}

func TestInvoiceRepository_GetMissing(t *testing.T) {
	db := openTestDB(t, "inv_missing")
	repo := NewInvoiceRepository(db)

	_, err := repo.GetInvoice(context.Background(), 12345)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestInvoiceRepository_MalformedRowsFailLoudly(t *testing.T) {
	db := openTestDB(t, "inv_malformed")
	db.SetMaxOpenConns(1)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`PRAGMA foreign_keys=OFF`)
	require.NoError(t, err)
	_, err = db.Exec(`
        INSERT INTO invoices (customer_id, description, created_date, due_date, paid_date)
        VALUES (1, 'bad dates', '2025-10-01', 'soonish', NULL)`)
	require.NoError(t, err)

	_, err = repo.ListInvoices(ctx)
	require.ErrorIs(t, err, common.ErrInternal)

	var id int64
	require.NoError(t, db.QueryRow(`SELECT id FROM invoices`).Scan(&id))
	_, err = repo.GetInvoice(ctx, id)
	require.ErrorIs(t, err, common.ErrInternal)
}

func TestInvoiceRepository_ListCustomersOrdered(t *testing.T) {
	db := openTestDB(t, "inv_customers")
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	insertCustomer(t, db, "Tom", "tom@email.com")
	insertCustomer(t, db, "Bill", "bill@email.com")
	insertCustomer(t, db, "Sally", "sally@email.com")

	customers, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	require.Equal(t, "Bill", customers[0].Name)
	require.Equal(t, "Sally", customers[1].Name)
	require.Equal(t, "Tom", customers[2].Name)
}
