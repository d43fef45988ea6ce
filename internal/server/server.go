package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nexuscore/vaultd/internal/catalog"
	"github.com/nexuscore/vaultd/internal/chat"
	"github.com/nexuscore/vaultd/internal/llm"
	"github.com/nexuscore/vaultd/internal/vectorindex"
)

// Config holds server configuration.
type Config struct {
	Port      int
	AllowAll  bool // allow all CORS origins (dev mode)
	VaultName string
}

// Server is the vault HTTP/WebSocket front end.
type Server struct {
	cfg        Config
	catalog    *catalog.Store
	registry   *catalog.SessionRegistry
	oracle     *llm.Oracle
	chatStore  *chat.Store
	index      *vectorindex.Index // nil when no embedding credential
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all dependencies. index may be nil; chat then
// runs without vault context and search falls back to substring matching.
func New(cfg Config, store *catalog.Store, registry *catalog.SessionRegistry, oracle *llm.Oracle, chatStore *chat.Store, index *vectorindex.Index) *Server {
	s := &Server{
		cfg:       cfg,
		catalog:   store,
		registry:  registry,
		oracle:    oracle,
		chatStore: chatStore,
		index:     index,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"vault":  s.cfg.VaultName,
		})
	})

	r.Get("/", s.serveIndex)

	r.Get("/api/catalog", s.handleListCatalog)
	r.Get("/api/catalog/{id}", s.handleGetItem)
	r.Get("/api/catalog/{id}/download", s.handleDownload)
	r.Get("/api/categories", s.handleCategories)
	r.Post("/api/describe", s.handleDescribe)
	r.Post("/api/upload", s.handleUpload)

	r.Get("/ws/session", s.handleSessionSocket)
	r.Get("/ws/chat", s.handleChatSocket)

	return r
}

// Router returns the chi router (tests drive it directly).
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("vaultd listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
