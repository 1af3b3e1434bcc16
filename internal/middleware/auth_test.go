package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/willemvz/invoice-tracker/internal/auth"
	"github.com/willemvz/invoice-tracker/internal/logging"
	"github.com/willemvz/invoice-tracker/internal/models"
)

type fakeResolver struct {
	user *models.User
	err  error

	gotToken string
}

func (f *fakeResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	f.gotToken = token
	return f.user, f.err
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func captureUser() (http.Handler, **models.User) {
	var got *models.User
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &got
}

func TestLoadUser_StoresResolvedUser(t *testing.T) {
	resolver := &fakeResolver{user: &models.User{ID: 7, Username: "alice"}}
	next, got := captureUser()

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "7.nonce"})
	rec := httptest.NewRecorder()
	LoadUser(resolver, discardLogger())(next).ServeHTTP(rec, req)

	require.Equal(t, "7.nonce", resolver.gotToken)
	require.NotNil(t, *got)
	require.Equal(t, "alice", (*got).Username)
}

func TestLoadUser_NoCookie(t *testing.T) {
	resolver := &fakeResolver{}
	next, got := captureUser()

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	rec := httptest.NewRecorder()
	LoadUser(resolver, discardLogger())(next).ServeHTTP(rec, req)

	require.Empty(t, resolver.gotToken)
	require.Nil(t, *got)
}

func TestLoadUser_ResolveErrorPassesThrough(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("db down")}
	next, got := captureUser()

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "1.nonce"})
	rec := httptest.NewRecorder()
	LoadUser(resolver, discardLogger())(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, *got)
}

func TestRequireUser_RedirectsAnonymous(t *testing.T) {
	next, _ := captureUser()

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	rec := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUser_AllowsAuthenticated(t *testing.T) {
	next, got := captureUser()

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	ctx := context.WithValue(req.Context(), userKey{}, &models.User{ID: 1, Username: "alice"})
	rec := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, *got)
}
