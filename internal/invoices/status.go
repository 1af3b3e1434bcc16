// Package invoices implements invoice status classification and the invoice
// HTTP handlers.
package invoices

import (
	"time"

	"github.com/willemvz/invoice-tracker/internal/models"
)

// Status is the derived lifecycle tag of an invoice. It is never stored.
type Status string

const (
	StatusPaid    Status = "PAID"
	StatusPending Status = "PENDING"
	StatusOverdue Status = "OVERDUE"
)

// Classify derives an invoice's status from its stored dates. A recorded
// payment always wins, regardless of the due date. Otherwise the due date is
// compared to today at day granularity, with the boundary inclusive: an
// invoice due today is PENDING, not OVERDUE.
//
// Dates are YYYY-MM-DD strings, which order lexicographically, so the
// comparison needs no parsing.
func Classify(inv models.Invoice, today time.Time) Status {
	if inv.PaidDate != nil && *inv.PaidDate != "" {
		return StatusPaid
	}
	if inv.DueDate >= today.Format(models.DateLayout) {
		return StatusPending
	}
	return StatusOverdue
}
