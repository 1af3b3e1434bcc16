package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/willemvz/invoice-tracker/internal/common"
	"github.com/willemvz/invoice-tracker/internal/logging"
	"github.com/willemvz/invoice-tracker/internal/mail"
	"github.com/willemvz/invoice-tracker/internal/models"
	"github.com/willemvz/invoice-tracker/internal/web"
)

// InvoiceStore defines the interface for invoice persistence.
type InvoiceStore interface {
	ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error)
	GetInvoice(ctx context.Context, id int64) (*models.InvoiceDetail, error)
	CreateInvoice(ctx context.Context, customerID int64, description, dueDate string) (int64, error)
	AddItem(ctx context.Context, invoiceID int64, description string, amount float64) (int64, error)
	InvoiceTotal(ctx context.Context, invoiceID int64) (float64, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
}

// Mailer sends invoice email. Send methods report success as a bool and
// never block the main flow with an error.
type Mailer interface {
	SendInvoiceCreated(ctx context.Context, to string, inv mail.InvoiceEmail) bool
	SendInvoiceOverdueReminder(ctx context.Context, to string, inv mail.InvoiceEmail) bool
}

// Handler holds the invoice HTTP handlers. mailer is nil when email is
// disabled.
type Handler struct {
	store  InvoiceStore
	mailer Mailer
	log    logging.Logger
	now    func() time.Time
}

func NewHandler(store InvoiceStore, mailer Mailer, log logging.Logger) *Handler {
	return &Handler{store: store, mailer: mailer, log: log, now: time.Now}
}

type listRow struct {
	models.InvoiceSummary
	Status Status
}

// List renders all invoices with their derived status and computed totals,
// newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.ListInvoices(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list invoices", "err", err)
		h.internalError(r, w)
		return
	}
	today := h.now()
	rows := make([]listRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, listRow{InvoiceSummary: s, Status: Classify(s.Invoice, today)})
	}
	h.render(r, w, http.StatusOK, "invoices.html", map[string]any{"Invoices": rows})
}

// Detail renders a single invoice with its items, total, and status.
// Outcomes of a preceding redirect (reminder sent/failed, created-email
// failed) arrive as query parameters and surface as banners.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}

	banner, errMsg := "", ""
	switch r.URL.Query().Get("reminder") {
	case "sent":
		banner = "Reminder email sent."
	case "failed":
		errMsg = "The reminder email could not be sent. Please try again."
	}
	if r.URL.Query().Get("email") == "failed" {
		errMsg = "Invoice created, but the notification email could not be sent."
	}
	h.renderDetail(r, w, d, banner, errMsg)
}

// NewForm renders the invoice creation form.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderNewForm(r, w, "")
}

// Create inserts a new invoice and redirects to its detail page. When email
// is enabled and the customer has an address, a created notification goes
// out best-effort; a failed send never blocks the redirect.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderNewForm(r, w, "Invalid form submission")
		return
	}
	customerID, _ := strconv.ParseInt(r.PostFormValue("customer_id"), 10, 64)
	description := r.PostFormValue("description")
	dueDate := r.PostFormValue("due_date")

	id, err := h.store.CreateInvoice(r.Context(), customerID, description, dueDate)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			h.renderNewForm(r, w, "Customer, description, and due date are required")
			return
		}
		h.log.Error(r.Context(), "create invoice", "err", err)
		h.internalError(r, w)
		return
	}

	if h.mailer != nil {
		if d, derr := h.store.GetInvoice(r.Context(), id); derr == nil &&
			d.CustomerEmail != nil && *d.CustomerEmail != "" {
			if !h.mailer.SendInvoiceCreated(r.Context(), *d.CustomerEmail, snapshot(d)) {
				http.Redirect(w, r, fmt.Sprintf("/invoice/%d?email=failed", id), http.StatusSeeOther)
				return
			}
		}
	}
	http.Redirect(w, r, fmt.Sprintf("/invoice/%d", id), http.StatusSeeOther)
}

// AddItem attaches a line item to an invoice and redirects back to it.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderDetail(r, w, d, "", "Invalid form submission")
		return
	}
	description := r.PostFormValue("description")
	amount, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("amount")), 64)
	if err != nil {
		h.renderDetail(r, w, d, "", "Amount must be a non-negative number")
		return
	}

	if _, err := h.store.AddItem(r.Context(), d.ID, description, amount); err != nil {
		if errors.Is(err, common.ErrValidation) {
			h.renderDetail(r, w, d, "", "A description and a non-negative amount are required")
			return
		}
		h.log.Error(r.Context(), "add invoice item", "invoice_id", d.ID, "err", err)
		h.internalError(r, w)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/invoice/%d", d.ID), http.StatusSeeOther)
}

// Total returns the invoice's derived total as JSON.
func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}
	total, err := h.store.InvoiceTotal(r.Context(), d.ID)
	if err != nil {
		h.log.Error(r.Context(), "invoice total", "invoice_id", d.ID, "err", err)
		h.internalError(r, w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoice_id": d.ID, "total": total})
}

// SendReminder emails an overdue reminder for the invoice. The overdue check
// happens before any network call; non-overdue invoices are rejected with a
// form-level message. The destination is the submitted override address or,
// absent that, the customer's stored email.
func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadInvoice(w, r)
	if !ok {
		return
	}
	if Classify(d.Invoice, h.now()) != StatusOverdue {
		h.renderDetail(r, w, d, "", "Only overdue invoices can receive a reminder")
		return
	}
	if h.mailer == nil {
		h.renderDetail(r, w, d, "", "Email is disabled: no SendGrid API key is configured")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderDetail(r, w, d, "", "Invalid form submission")
		return
	}
	to := strings.TrimSpace(r.PostFormValue("email"))
	if to == "" && d.CustomerEmail != nil {
		to = *d.CustomerEmail
	}
	if to == "" {
		h.renderDetail(r, w, d, "", "No destination address: the customer has no stored email")
		return
	}

	if h.mailer.SendInvoiceOverdueReminder(r.Context(), to, snapshot(d)) {
		http.Redirect(w, r, fmt.Sprintf("/invoice/%d?reminder=sent", d.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/invoice/%d?reminder=failed", d.ID), http.StatusSeeOther)
}

// loadInvoice parses the id route parameter and fetches the invoice,
// rendering 404/500 pages itself. The bool result reports whether the
// caller should proceed.
func (h *Handler) loadInvoice(w http.ResponseWriter, r *http.Request) (*models.InvoiceDetail, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.notFound(r, w)
		return nil, false
	}
	d, err := h.store.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.notFound(r, w)
			return nil, false
		}
		h.log.Error(r.Context(), "get invoice", "invoice_id", id, "err", err)
		h.internalError(r, w)
		return nil, false
	}
	return d, true
}

func (h *Handler) renderDetail(r *http.Request, w http.ResponseWriter, d *models.InvoiceDetail, banner, errMsg string) {
	status := Classify(d.Invoice, h.now())
	h.render(r, w, http.StatusOK, "invoice.html", map[string]any{
		"Invoice": d,
		"Status":  status,
		"Overdue": status == StatusOverdue,
		"Banner":  banner,
		"Error":   errMsg,
	})
}

func (h *Handler) renderNewForm(r *http.Request, w http.ResponseWriter, errMsg string) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list customers", "err", err)
		h.internalError(r, w)
		return
	}
	h.render(r, w, http.StatusOK, "invoice_new.html", map[string]any{
		"Customers": customers,
		"Error":     errMsg,
	})
}

func snapshot(d *models.InvoiceDetail) mail.InvoiceEmail {
	name := ""
	if d.CustomerName != nil {
		name = *d.CustomerName
	}
	items := make([]mail.ItemLine, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, mail.ItemLine{Description: it.Description, Amount: it.Amount})
	}
	return mail.InvoiceEmail{
		CustomerName: name,
		InvoiceID:    d.ID,
		Description:  d.Description,
		DueDate:      d.DueDate,
		Total:        d.Total,
		Items:        items,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) render(r *http.Request, w http.ResponseWriter, status int, name string, data any) {
	if err := web.Render(w, status, name, data); err != nil {
		h.log.Error(r.Context(), "render template", "template", name, "err", err)
	}
}

func (h *Handler) notFound(r *http.Request, w http.ResponseWriter) {
	h.render(r, w, http.StatusNotFound, "error.html", map[string]any{
		"Title":   "Not found",
		"Message": "That invoice does not exist.",
	})
}

func (h *Handler) internalError(r *http.Request, w http.ResponseWriter) {
	h.render(r, w, http.StatusInternalServerError, "error.html", map[string]any{
		"Title":   "Something went wrong",
		"Message": "An unexpected error occurred. Please try again.",
	})
}
