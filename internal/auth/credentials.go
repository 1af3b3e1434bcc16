// Package auth implements credential verification, session tokens, and the
// login/register/logout HTTP handlers.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/willemvz/invoice-tracker/internal/common"
	"github.com/willemvz/invoice-tracker/internal/models"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Credentials registers users and verifies their passwords.
type Credentials struct {
	users UserStore
	cost  int
}

// NewCredentials returns a Credentials using the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the default.
func NewCredentials(users UserStore, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Credentials{users: users, cost: cost}
}

// Register hashes the password and creates the user, returning its id.
// Duplicate usernames surface as common.ErrDuplicateUsername.
func (c *Credentials) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return c.users.Create(ctx, username, string(hash))
}

// Authenticate looks the user up by username and compares the password
// against the stored hash. Both unknown-user and wrong-password cases
// return the same common.ErrAuthFailure.
func (c *Credentials) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrAuthFailure
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrAuthFailure
	}
	return user, nil
}
