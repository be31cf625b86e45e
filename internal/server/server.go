// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/optimize"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/store"
)

// GatewayFactory builds a persistence gateway for a backend name and user.
// Backend names follow the config package ("local", "database", "memory").
type GatewayFactory func(ctx context.Context, backend, userID string) (storage.Gateway, error)

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigin  string
	JWTSecret      string
	DefaultBackend string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	cfg        Config
	gateways   GatewayFactory
	collab     optimize.Collaborator

	// One store per user, created on first request. Local and memory
	// backends are effectively single-user; the database backend scopes
	// rows by the id this map is keyed on.
	mu     sync.Mutex
	stores map[string]*store.Store
}

// New creates a new server instance
func New(cfg Config, gateways GatewayFactory, collab optimize.Collaborator) *Server {
	s := &Server{
		cfg:      cfg,
		gateways: gateways,
		collab:   collab,
		stores:   make(map[string]*store.Store),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Profile endpoints
	mux.HandleFunc("GET /profiles", s.handleListProfiles)
	mux.HandleFunc("POST /profiles", s.handleCreateProfile)
	mux.HandleFunc("GET /profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("PATCH /profiles/{id}", s.handleUpdateProfile)
	mux.HandleFunc("DELETE /profiles/{id}", s.handleDeleteProfile)
	mux.HandleFunc("POST /profiles/{id}/clone", s.handleCloneProfile)
	mux.HandleFunc("POST /profiles/{id}/reorder", s.handleReorderItems)
	mux.HandleFunc("GET /profiles/{id}/resolved", s.handleResolvedProfile)
	mux.HandleFunc("PUT /profiles/{id}/personal-info", s.handleSetProfilePersonalInfo)
	mux.HandleFunc("POST /profiles/{id}/optimize", s.handleOptimizeProfile)

	// Override endpoints
	mux.HandleFunc("PUT /profiles/{id}/overrides/{category}/{item_id}", s.handleSetOverride)
	mux.HandleFunc("DELETE /profiles/{id}/overrides/{category}/{item_id}", s.handleResetOverride)

	// Master data endpoints
	mux.HandleFunc("GET /data", s.handleGetData)
	mux.HandleFunc("PUT /data/personal-info", s.handleUpdatePersonalInfo)
	mux.HandleFunc("POST /data/{category}", s.handleAddItem)
	mux.HandleFunc("PUT /data/{category}/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /data/{category}/{id}", s.handleDeleteItem)

	// Storage endpoints
	mux.HandleFunc("GET /storage/status", s.handleStorageStatus)
	mux.HandleFunc("POST /storage/backup", s.handleBackup)
	mux.HandleFunc("POST /storage/restore", s.handleRestore)
	mux.HandleFunc("POST /storage/migrate", s.handleMigrate)
	mux.HandleFunc("POST /storage/clear", s.handleClear)

	// Posting ingestion
	mux.HandleFunc("POST /postings/extract", s.handleExtractPosting)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.withUser(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // optimization calls wait on the model
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.collab != nil {
		if err := s.collab.Close(); err != nil {
			log.Printf("Error closing collaborator: %v", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

// storeFor returns the store for the request's user, creating and loading it
// on first use.
func (s *Server) storeFor(r *http.Request) (*store.Store, error) {
	userID := userFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores[userID]; ok {
		return st, nil
	}

	gw, err := s.gateways(r.Context(), s.cfg.DefaultBackend, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", s.cfg.DefaultBackend, err)
	}
	st := store.New(gw)
	if err := st.Load(r.Context()); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	s.stores[userID] = st
	return st, nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps an error to a status code and writes it.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// decodeJSON decodes a request body, rejecting unknown shapes with a 400.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}
