package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/willemvz/invoice-tracker/internal/auth"
	"github.com/willemvz/invoice-tracker/internal/config"
	"github.com/willemvz/invoice-tracker/internal/invoices"
	"github.com/willemvz/invoice-tracker/internal/logging"
	"github.com/willemvz/invoice-tracker/internal/mail"
	"github.com/willemvz/invoice-tracker/internal/middleware"
	"github.com/willemvz/invoice-tracker/internal/models"
	"github.com/willemvz/invoice-tracker/internal/store"
	"github.com/willemvz/invoice-tracker/internal/web"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// ── SQLite ───────────────────────────────────────────────
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if cfg.SeedDB {
		if err := store.Seed(ctx, db); err != nil {
			log.Fatalf("seed db: %v", err)
		}
		logger.Info(ctx, "database seeded", "path", cfg.DBPath)
	}

	users := store.NewUserRepository(db)
	invoiceStore := store.NewInvoiceRepository(db)

	// ── Auth ─────────────────────────────────────────────────
	creds := auth.NewCredentials(users, cfg.BcryptCost)
	sessions := auth.NewSessions(users)

	// ── Email (nil gateway = disabled) ───────────────────────
	gateway := mail.New(cfg.SendGridAPIKey, cfg.SendGridFromEmail, logger)
	var mailer invoices.Mailer
	if gateway != nil {
		mailer = gateway
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(creds, sessions, func(r *http.Request) *models.User {
		return middleware.UserFrom(r.Context())
	}, logger)
	invoiceHandler := invoices.NewHandler(invoiceStore, mailer, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoadUser(sessions, logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if err := web.Render(w, http.StatusOK, "home.html", map[string]any{
			"User": middleware.UserFrom(r.Context()),
		}); err != nil {
			logger.Error(r.Context(), "render home", "err", err)
		}
	})

	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.Register)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/invoices", invoiceHandler.List)
		r.Get("/invoices/new", invoiceHandler.NewForm)
		r.Post("/invoices", invoiceHandler.Create)
		r.Get("/invoice/{id}", invoiceHandler.Detail)
		r.Post("/invoices/{id}/items", invoiceHandler.AddItem)
		r.Get("/invoices/{id}/total", invoiceHandler.Total)
		r.Post("/invoices/{id}/send-reminder", invoiceHandler.SendReminder)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		logger.Info(ctx, "server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
