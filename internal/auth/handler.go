package auth

import (
	"errors"
	"net/http"

	"github.com/willemvz/invoice-tracker/internal/common"
	"github.com/willemvz/invoice-tracker/internal/logging"
	"github.com/willemvz/invoice-tracker/internal/models"
	"github.com/willemvz/invoice-tracker/internal/web"
)

// CurrentUser returns the already-resolved user for a request, or nil. It
// is satisfied by the middleware package; declared here so the handler does
// not import it.
type CurrentUser func(r *http.Request) *models.User

// Handler holds the login/register/logout HTTP handlers.
type Handler struct {
	creds    *Credentials
	sessions *Sessions
	current  CurrentUser
	log      logging.Logger
}

func NewHandler(creds *Credentials, sessions *Sessions, current CurrentUser, log logging.Logger) *Handler {
	return &Handler{creds: creds, sessions: sessions, current: current, log: log}
}

// LoginPage renders the login form, or redirects home if already signed in.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.current(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(r, w, http.StatusOK, "login.html", map[string]any{})
}

// Login verifies the submitted credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(r, w, http.StatusBadRequest, "login.html", map[string]any{"Error": "Invalid form submission"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.render(r, w, http.StatusOK, "login.html", map[string]any{"Error": "Username and password are required"})
		return
	}

	user, err := h.creds.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrAuthFailure) {
			h.render(r, w, http.StatusOK, "login.html", map[string]any{"Error": "Invalid username or password"})
			return
		}
		h.log.Error(r.Context(), "authenticate", "err", err)
		h.internalError(r, w)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		h.log.Error(r.Context(), "issue session", "err", err)
		h.internalError(r, w)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout deletes the session cookie. Nothing is revoked server-side; the
// token simply leaves the client.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RegisterPage renders the registration form, or redirects home if already
// signed in.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.current(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(r, w, http.StatusOK, "register.html", map[string]any{})
}

// Register creates a new user from the submitted form.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(r, w, http.StatusBadRequest, "register.html", map[string]any{"Error": "Invalid form submission"})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirmPassword")
	if username == "" || password == "" || confirm == "" {
		h.render(r, w, http.StatusOK, "register.html", map[string]any{"Error": "All fields are required"})
		return
	}
	if password != confirm {
		h.render(r, w, http.StatusOK, "register.html", map[string]any{"Error": "Passwords do not match"})
		return
	}

	if _, err := h.creds.Register(r.Context(), username, password); err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			h.render(r, w, http.StatusOK, "register.html", map[string]any{"Error": "Username already taken"})
		case errors.Is(err, common.ErrValidation):
			h.render(r, w, http.StatusOK, "register.html", map[string]any{"Error": "All fields are required"})
		default:
			h.log.Error(r.Context(), "register user", "err", err)
			h.internalError(r, w)
		}
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) render(r *http.Request, w http.ResponseWriter, status int, name string, data any) {
	if err := web.Render(w, status, name, data); err != nil {
		h.log.Error(r.Context(), "render template", "template", name, "err", err)
	}
}

func (h *Handler) internalError(r *http.Request, w http.ResponseWriter) {
	h.render(r, w, http.StatusInternalServerError, "error.html", map[string]any{
		"Title":   "Something went wrong",
		"Message": "An unexpected error occurred. Please try again.",
	})
}
