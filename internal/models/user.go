package models

// User represents a row in the users table. PasswordHash holds the bcrypt
// hash; the plaintext is never persisted or logged.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"` // never serialize
}
