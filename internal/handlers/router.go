package handlers

import (
	"log/slog"
	"net/http"

	"backoffice/internal/backoffice"
	"backoffice/internal/config"
	"backoffice/internal/middleware"
	"backoffice/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg       config.Config
	workspace *backoffice.Workspace
	audit     AuditReader
	hub       *websocket.Hub
	logger    *slog.Logger
}

// New builds the operator API. audit may be nil when the audit trail is
// disabled.
func New(cfg config.Config, workspace *backoffice.Workspace, audit AuditReader, hub *websocket.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:       cfg,
		workspace: workspace,
		audit:     audit,
		hub:       hub,
		logger:    logger,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logging(h.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{staleHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/login", h.Login)
	router.Get("/ws/{topic}", h.WSTopic)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Get("/catalog", h.Catalog)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Post("/reload", h.ReloadCustomers)
			r.Get("/{id}", h.GetCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
			r.Get("/{id}/statement", h.Statement)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Post("/reload", h.ReloadAccounts)
			r.Get("/{number}", h.GetAccount)
			r.Put("/{number}", h.UpdateAccount)
			r.Delete("/{number}", h.DeleteAccount)
		})

		r.Route("/movements", func(r chi.Router) {
			r.Get("/", h.ListMovements)
			r.Post("/", h.CreateMovement)
			r.Get("/{id}", h.GetMovement)
			r.Delete("/{id}", h.DeleteMovement)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", h.GetSelection)
			r.Post("/refresh", h.RefreshSelection)
			r.Put("/customer", h.SelectCustomer)
			r.Delete("/customer", h.ClearCustomer)
			r.Put("/account", h.SelectAccount)
			r.Delete("/account", h.ClearAccount)
		})

		r.Get("/audit", h.ListAuditLogs)
	})
	return router
}
