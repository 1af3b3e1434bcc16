// Package mail sends transactional invoice email through the SendGrid v3
// REST API. The gateway is an injected dependency: construct it once in main
// and pass it to the handlers that need it.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willemvz/invoice-tracker/internal/logging"
)

const defaultBaseURL = "https://api.sendgrid.com"

// ItemLine is one line item of an invoice snapshot.
type ItemLine struct {
	Description string
	Amount      float64
}

// InvoiceEmail is the snapshot of an invoice used to format a message. It
// carries everything the templates need so the gateway never touches the
// store.
type InvoiceEmail struct {
	CustomerName string
	InvoiceID    int64
	Description  string
	DueDate      string
	Total        float64
	Items        []ItemLine
}

// Gateway sends email through SendGrid. All send methods report success as a
// bool and never return an error; failures are logged and the caller decides
// how to surface them.
type Gateway struct {
	apiKey     string
	fromEmail  string
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// New returns a Gateway, or nil when no API key is configured. A nil gateway
// means "email disabled", not an error; callers must check before sending.
func New(apiKey, fromEmail string, log logging.Logger) *Gateway {
	if apiKey == "" {
		log.Warn(context.Background(), "SENDGRID_API_KEY not set; email disabled")
		return nil
	}
	return &Gateway{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}
}

type emailOptions struct {
	to      string
	subject string
	text    string
	html    string
}

func (g *Gateway) sendEmail(ctx context.Context, opts emailOptions) bool {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{
				"to":      []map[string]string{{"email": opts.to}},
				"subject": opts.subject,
			},
		},
		"from": map[string]string{"email": g.fromEmail},
		"content": []map[string]string{
			{"type": "text/plain", "value": opts.text},
			{"type": "text/html", "value": opts.html},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		g.log.Error(ctx, "marshal email payload", "err", err)
		return false
	}

	requestID := uuid.New().String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		g.log.Error(ctx, "build email request", "err", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Error(ctx, "send email", "to", opts.to, "request_id", requestID, "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		g.log.Error(ctx, "send email rejected", "to", opts.to, "request_id", requestID,
			"status", resp.StatusCode, "body", string(respBody))
		return false
	}
	g.log.Info(ctx, "email sent", "to", opts.to, "request_id", requestID)
	return true
}

// SendInvoiceCreated notifies a customer that a new invoice exists.
func (g *Gateway) SendInvoiceCreated(ctx context.Context, to string, inv InvoiceEmail) bool {
	var itemsText strings.Builder
	var itemsHTML strings.Builder
	for _, it := range inv.Items {
		fmt.Fprintf(&itemsText, "- %s: R%.2f\n", it.Description, it.Amount)
		fmt.Fprintf(&itemsHTML, `
        <tr>
          <td style="padding: 8px; border-bottom: 1px solid #ddd;">%s</td>
          <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right;">R%.2f</td>
        </tr>`, it.Description, it.Amount)
	}

	itemsSection := ""
	if len(inv.Items) > 0 {
		itemsSection = fmt.Sprintf(`
            <h3 style="color: #00486d;">Invoice Items:</h3>
            <table style="width: 100%%; border-collapse: collapse; background-color: white;">
              <thead>
                <tr style="background-color: #00486d; color: white;">
                  <th style="padding: 10px; text-align: left;">Description</th>
                  <th style="padding: 10px; text-align: right;">Amount</th>
                </tr>
              </thead>
              <tbody>%s</tbody>
            </table>`, itemsHTML.String())
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #00486d; color: white; padding: 20px; text-align: center;">
      <h1>Invoice Tracker</h1>
    </div>
    <div style="padding: 20px; background-color: #f9f9f9;">
      <h2 style="color: #00486d;">Invoice #%d Created</h2>
      <p>Dear %s,</p>
      <p>A new invoice has been created:</p>
      <div style="background-color: white; padding: 15px; margin: 20px 0;">
        <p><strong>Invoice ID:</strong> #%d</p>
        <p><strong>Description:</strong> %s</p>
        <p><strong>Due Date:</strong> %s</p>
      </div>
      %s
      <div style="background-color: #00486d; color: white; padding: 15px; margin: 20px 0; text-align: center;">
        <h3 style="margin: 0;">Total Amount: R%.2f</h3>
      </div>
    </div>
  </div>
</body>
</html>`, inv.InvoiceID, inv.CustomerName, inv.InvoiceID, inv.Description, inv.DueDate,
		itemsSection, inv.Total)

	text := fmt.Sprintf(`Invoice #%d Created

Dear %s,

A new invoice has been created:

Invoice ID: #%d
Description: %s
Due Date: %s

%s
Total Amount: R%.2f
`, inv.InvoiceID, inv.CustomerName, inv.InvoiceID, inv.Description, inv.DueDate,
		itemsText.String(), inv.Total)

	return g.sendEmail(ctx, emailOptions{
		to:      to,
		subject: fmt.Sprintf("Invoice #%d - %s", inv.InvoiceID, inv.Description),
		text:    text,
		html:    html,
	})
}

// SendInvoiceOverdueReminder sends a payment reminder for an overdue
// invoice. The caller is responsible for checking that the invoice actually
// classifies as overdue before calling.
func (g *Gateway) SendInvoiceOverdueReminder(ctx context.Context, to string, inv InvoiceEmail) bool {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #e63934; color: white; padding: 20px; text-align: center;">
      <h1>Invoice Tracker</h1>
    </div>
    <div style="padding: 20px; background-color: #f9f9f9;">
      <h2 style="color: #e63934;">Invoice #%d is Overdue</h2>
      <p>Dear %s,</p>
      <p><strong>This is a reminder that your invoice is overdue.</strong></p>
      <div style="background-color: #fff2f2; border-left: 4px solid #e63934; padding: 15px; margin: 20px 0;">
        <p><strong>Invoice ID:</strong> #%d</p>
        <p><strong>Description:</strong> %s</p>
        <p><strong>Due Date:</strong> %s</p>
        <p><strong>Amount Due:</strong> R%.2f</p>
      </div>
    </div>
  </div>
</body>
</html>`, inv.InvoiceID, inv.CustomerName, inv.InvoiceID, inv.Description, inv.DueDate, inv.Total)

	text := fmt.Sprintf(`OVERDUE INVOICE REMINDER

Dear %s,

This is a reminder that your invoice is overdue.

Invoice ID: #%d
Description: %s
Due Date: %s
Amount Due: R%.2f
`, inv.CustomerName, inv.InvoiceID, inv.Description, inv.DueDate, inv.Total)

	return g.sendEmail(ctx, emailOptions{
		to:      to,
		subject: fmt.Sprintf("OVERDUE: Invoice #%d - Payment Required", inv.InvoiceID),
		text:    text,
		html:    html,
	})
}
