package models

// DateLayout is the calendar-date format used for all invoice dates, both in
// SQLite columns and on the wire. ISO dates in this layout order
// lexicographically, so day-granularity comparisons work on the raw strings.
const DateLayout = "2006-01-02"

// Invoice represents a row in the invoices table. A nil PaidDate means the
// invoice is unpaid. The total is never stored; it is always derived from
// the invoice's line items.
type Invoice struct {
	ID          int64   `db:"id" json:"id"`
	CustomerID  int64   `db:"customer_id" json:"customer_id"`
	Description string  `db:"description" json:"description"`
	CreatedDate string  `db:"created_date" json:"created_date"`
	DueDate     string  `db:"due_date" json:"due_date"`
	PaidDate    *string `db:"paid_date" json:"paid_date,omitempty"`
}

// InvoiceItem is a single charge attached to an invoice. Amounts are
// non-negative.
type InvoiceItem struct {
	ID          int64   `db:"id" json:"id"`
	InvoiceID   int64   `db:"invoice_id" json:"invoice_id"`
	Description string  `db:"description" json:"description"`
	Amount      float64 `db:"amount" json:"amount"`
}

// InvoiceSummary is one row of the invoice list: the invoice joined with its
// customer's name and the sum of its item amounts. CustomerName is nil when
// the referenced customer row is missing (left-join semantics).
type InvoiceSummary struct {
	Invoice
	CustomerName *string `db:"customer_name" json:"customer_name"`
	Total        float64 `db:"total" json:"total"`
}

// InvoiceDetail is a single invoice with its customer contact fields and its
// line items in insertion order.
type InvoiceDetail struct {
	Invoice
	CustomerName  *string       `json:"customer_name"`
	CustomerEmail *string       `json:"customer_email"`
	Items         []InvoiceItem `json:"items"`
	Total         float64       `json:"total"`
}
