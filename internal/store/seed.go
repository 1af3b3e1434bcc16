package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Seed populates the database with a demo data set: a test login, five
// customers, and ten invoices with their line items. It is idempotent:
// users and customers are upserted by their unique columns, and invoices
// are only inserted into an empty invoices table, so re-running against an
// existing database changes nothing.
func Seed(ctx context.Context, db *sql.DB) error {
	// bcrypt hash of "test".
	const testUserHash = "$2a$10$Aj8kkwrul89SOQ4.IqrA.OV.GxFBnC9TvXSTJDUNd1TN7uqEEM.U6"
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (username, password) VALUES (?, ?)`,
		"test", testUserHash); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	customers := []struct{ name, email string }{
		{"Bob", "bob@email.com"},
		{"Bill", "bill@email.com"},
		{"Tom", "tom@email.com"},
		{"Jeff", "jeff@email.com"},
		{"Sally", "sally@email.com"},
	}
	for _, c := range customers {
		if _, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO customers (name, email) VALUES (?, ?)`,
			c.name, c.email); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
	}

	var invoiceCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&invoiceCount); err != nil {
		return fmt.Errorf("seed invoices: %w", err)
	}
	if invoiceCount > 0 {
		return nil
	}

	customerID := func(email string) (int64, error) {
		var id int64
		err := db.QueryRowContext(ctx, `SELECT id FROM customers WHERE email = ?`, email).Scan(&id)
		return id, err
	}

	type item struct {
		description string
		amount      float64
	}
	invoices := []struct {
		customerEmail string
		description   string
		createdDate   string
		dueDate       string
		paidDate      *string
		items         []item
	}{
		{"bob@email.com", "Kitchen Sink Installation and Plumbing", "2025-10-01", "2025-10-31", nil, []item{
			{"Kitchen sink unit", 320.00},
			{"Sink installation labor", 280.00},
			{"Plumbing pipes and fittings", 150.00},
			{"Tap and mixer installation", 100.00},
		}},
		{"bill@email.com", "Toilet Repair and Replacement Parts", "2025-10-02", "2025-11-01", strPtr("2025-10-15"), []item{
			{"Toilet cistern mechanism", 180.00},
			{"Toilet seat replacement", 120.00},
			{"Labor for toilet repair", 150.00},
		}},
		{"tom@email.com", "Bathroom Renovation - Full Plumbing", "2025-10-03", "2025-11-02", nil, []item{
			{"Bathroom pipes rerouting", 800.00},
			{"Shower installation labor", 450.00},
			{"Toilet installation", 320.00},
			{"Basin and taps installation", 280.00},
			{"Waterproofing materials", 200.00},
		}},
		{"bob@email.com", "Drain Cleaning and Unblocking", "2025-10-04", "2025-11-03", strPtr("2025-10-20"), []item{
			{"Drain cleaning labor", 180.00},
			{"Drain snake equipment usage", 100.00},
		}},
		{"jeff@email.com", "Hot Water Cylinder Installation", "2025-10-05", "2025-11-04", nil, []item{
			{"150L hot water cylinder", 650.00},
			{"Installation labor", 270.00},
		}},
		{"sally@email.com", "Pipe Leak Repair - Emergency Call", "2025-09-15", "2025-10-15", strPtr("2025-10-10"), []item{
			{"Emergency call-out fee", 200.00},
			{"Pipe repair materials", 150.00},
			{"Leak repair labor", 300.00},
		}},
		{"bill@email.com", "Tap Replacement and Basin Repair", "2025-09-20", "2025-10-20", nil, []item{
			{"Kitchen tap replacement", 180.00},
			{"Basin repair materials", 80.00},
			{"Labor for tap and basin work", 160.00},
		}},
		{"tom@email.com", "Geyser Replacement and Installation", "2025-09-25", "2025-10-25", strPtr("2025-10-22"), []item{
			{"200L electric geyser", 800.00},
			{"Geyser installation labor", 400.00},
		}},
		{"bob@email.com", "Shower Head and Mixer Installation", "2025-09-30", "2025-10-30", nil, []item{
			{"Shower head and mixer set", 220.00},
			{"Installation labor", 160.00},
		}},
		{"jeff@email.com", "Main Water Line Repair and Replacement", "2025-10-01", "2025-11-15", nil, []item{
			{"Main water line piping", 600.00},
			{"Excavation and trenching", 450.00},
			{"Connection and testing labor", 450.00},
		}},
	}

	for _, inv := range invoices {
		cid, err := customerID(inv.customerEmail)
		if err != nil {
			return fmt.Errorf("seed invoices: resolve customer %s: %w", inv.customerEmail, err)
		}
		res, err := db.ExecContext(ctx, `
            INSERT INTO invoices (customer_id, description, created_date, due_date, paid_date)
            VALUES (?, ?, ?, ?, ?)`,
			cid, inv.description, inv.createdDate, inv.dueDate, inv.paidDate)
		if err != nil {
			return fmt.Errorf("seed invoices: %w", err)
		}
		invID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed invoices: %w", err)
		}
		for _, it := range inv.items {
			if _, err := db.ExecContext(ctx, `
                INSERT INTO invoice_items (invoice_id, description, amount)
                VALUES (?, ?, ?)`,
				invID, it.description, it.amount); err != nil {
				return fmt.Errorf("seed invoice items: %w", err)
			}
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
