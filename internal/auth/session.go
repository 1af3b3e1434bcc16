package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/willemvz/invoice-tracker/internal/models"
)

const (
	// SessionCookie is the name of the HTTP-only session cookie.
	SessionCookie = "session"

	// nonceSize is the number of random bytes appended to the user id to
	// make tokens unguessable.
	nonceSize = 32
)

// Sessions issues and resolves client-held session tokens of the form
// "<userId>.<base64(nonce)>". No session state is kept server-side: the
// nonce exists only to make tokens unguessable and is never checked after
// issuance. A token stays resolvable for as long as its user row exists.
type Sessions struct {
	users UserStore
}

func NewSessions(users UserStore) *Sessions {
	return &Sessions{users: users}
}

// Issue returns a new token for the given user id.
func (s *Sessions) Issue(userID int64) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate session nonce: %w", err)
	}
	return fmt.Sprintf("%d.%s", userID, base64.StdEncoding.EncodeToString(nonce)), nil
}

// Resolve returns the user a token identifies, or nil if the token does not
// parse or the user no longer exists. The error return is reserved for
// store failures.
func (s *Sessions) Resolve(ctx context.Context, token string) (*models.User, error) {
	idStr, _, found := strings.Cut(token, ".")
	if !found {
		return nil, nil
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, nil
	}
	return s.users.GetByID(ctx, id)
}
