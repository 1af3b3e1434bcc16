package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/willemvz/invoice-tracker/internal/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

func strPtr(s string) *string { return &s }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		dueDate  string
		paidDate *string
		today    string
		want     Status
	}{
		{"due in the future", "2025-10-31", nil, "2025-10-15", StatusPending},
		{"due today is still pending", "2025-10-15", nil, "2025-10-15", StatusPending},
		{"due yesterday", "2025-10-14", nil, "2025-10-15", StatusOverdue},
		{"long overdue", "2025-10-31", nil, "2025-11-05", StatusOverdue},
		{"paid before due date", "2025-10-31", strPtr("2025-10-20"), "2025-10-25", StatusPaid},
		{"paid wins even when past due", "2025-10-31", strPtr("2025-12-01"), "2026-01-01", StatusPaid},
		{"paid wins at any today", "2025-10-31", strPtr("2025-10-10"), "2025-10-01", StatusPaid},
		{"empty paid date means unpaid", "2025-10-31", strPtr(""), "2025-11-05", StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := models.Invoice{
				ID:          1,
				CustomerID:  1,
				Description: "Kitchen Sink Installation and Plumbing",
				CreatedDate: "2025-10-01",
				DueDate:     tt.dueDate,
				PaidDate:    tt.paidDate,
			}
			require.Equal(t, tt.want, Classify(inv, date(t, tt.today)))
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	inv := models.Invoice{DueDate: "2025-10-15"}
	// Late in the evening of the due date the invoice is still pending.
	today := time.Date(2025, 10, 15, 23, 59, 59, 0, time.UTC)
	require.Equal(t, StatusPending, Classify(inv, today))

	// One second past midnight it is overdue.
	require.Equal(t, StatusOverdue, Classify(inv, today.Add(time.Second)))
}
