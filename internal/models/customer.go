package models

// Customer represents a row in the customers table. Customers are referenced
// by invoices and never deleted.
type Customer struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}
