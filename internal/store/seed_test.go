package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t, "seed")
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	counts := map[string]int{}
	for _, table := range []string{"users", "customers", "invoices", "invoice_items"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		counts[table] = n
	}
	require.Equal(t, 1, counts["users"])
	require.Equal(t, 5, counts["customers"])
	require.Equal(t, 10, counts["invoices"])
	require.Equal(t, 29, counts["invoice_items"])
}

func TestSeedTotals(t *testing.T) {
	db := openTestDB(t, "seed_totals")
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))

	repo := NewInvoiceRepository(db)

	var id int64
	require.NoError(t, db.QueryRow(
		`SELECT id FROM invoices WHERE description = ?`,
		"Kitchen Sink Installation and Plumbing").Scan(&id))

	total, err := repo.InvoiceTotal(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 850.00, total)
}
