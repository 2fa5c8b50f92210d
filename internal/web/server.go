// Package web provides the HTTP server and JSON API handlers for the
// bulk shipping label service.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/config"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
)

// Server is the HTTP server for the shipping label API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Manifest ingestion
		r.Post("/shipments/upload", s.handleUpload)

		// Bulk operations (registered before /{id} so the literal
		// segments do not get captured as ids)
		r.Post("/shipments/bulk-update", s.handleBulkUpdate)
		r.Post("/shipments/bulk-delete", s.handleBulkDelete)
		r.Post("/shipments/validate-addresses", s.handleValidateAddresses)

		// Shipment CRUD
		r.Get("/shipments", s.handleListShipments)
		r.Get("/shipments/{id}", s.handleGetShipment)
		r.Put("/shipments/{id}", s.handleUpdateShipment)
		r.Delete("/shipments/{id}", s.handleDeleteShipment)

		// Shipping services
		r.Get("/services", s.handleListServices)
		r.Post("/services/bulk-update", s.handleSelectService)

		// Purchase
		r.Post("/purchase", s.handlePurchase)

		// Saved addresses
		r.Get("/addresses", s.handleListAddresses)
		r.Post("/addresses", s.handleCreateAddress)
		r.Get("/addresses/{id}", s.handleGetAddress)
		r.Put("/addresses/{id}", s.handleUpdateAddress)
		r.Delete("/addresses/{id}", s.handleDeleteAddress)

		// Saved packages
		r.Get("/packages", s.handleListPackages)
		r.Post("/packages", s.handleCreatePackage)
		r.Get("/packages/{id}", s.handleGetPackage)
		r.Put("/packages/{id}", s.handleUpdatePackage)
		r.Delete("/packages/{id}", s.handleDeletePackage)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as JSON and writes it with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
