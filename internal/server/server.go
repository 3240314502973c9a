// Package server provides the HTTP REST API for the campaign generator.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/config"
	"github.com/joppa/joppa/internal/db"
	"github.com/joppa/joppa/internal/llm"
)

// Store is the persistence surface the handlers need. *db.DB satisfies it.
type Store interface {
	campaign.Store

	UpdateCompany(ctx context.Context, id uuid.UUID, patch db.CompanyPatch) (*db.Company, error)
	UpdateJobStructure(ctx context.Context, id uuid.UUID, patch db.JobStructurePatch) (*db.Job, error)
	PublishJob(ctx context.Context, id uuid.UUID, company *db.Company) (*db.Job, error)
	UnpublishJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	DeleteJobCascade(ctx context.Context, id uuid.UUID) error
	ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]db.Job, error)
	LatestContentByChannel(ctx context.Context, jobID uuid.UUID) (map[string]db.JobContent, error)
	LatestContentForChannel(ctx context.Context, jobID uuid.UUID, channel string) (*db.JobContent, error)
	UpdateContentState(ctx context.Context, contentID uuid.UUID, state string) (*db.JobContent, error)
	LatestContentsForJobs(ctx context.Context, jobIDs []uuid.UUID, channels []string) (map[uuid.UUID]map[string]db.JobContent, error)
	ListGenerationRuns(ctx context.Context, jobID uuid.UUID) ([]db.GenerationRun, error)
	ListPublishedJobs(ctx context.Context, limit int) ([]db.PublicJob, error)
	GetPublishedJobBySlugs(ctx context.Context, companySlug, jobSlug string) (*db.Job, error)
	GetCompanyBySlug(ctx context.Context, companySlug string) (*db.Company, error)
	ListPublishedJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]db.Job, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      Store
	writer     *campaign.Writer
	gen        llm.TextGenerator
	adminToken string
	companies  *companyCache
	db         *db.DB
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var gen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create generation client: %w", err)
		}
		gen = client
	}

	s := newServer(database, gen, cfg.AdminToken)
	s.db = database

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires the handler graph without the listener. Tests use it with a
// fake store.
func newServer(store Store, gen llm.TextGenerator, adminToken string) *Server {
	return &Server{
		store:      store,
		writer:     campaign.NewWriter(store, gen),
		gen:        gen,
		adminToken: adminToken,
		companies:  newCompanyCache(),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Campaign endpoints (employer-guarded)
	mux.HandleFunc("POST /api/campaigns/generate", s.withEmployerGuard(s.handleGenerateCampaign))
	mux.HandleFunc("POST /api/campaigns/{id}/wizard", s.withEmployerGuard(s.handleWizard))
	mux.HandleFunc("GET /api/campaigns/{id}", s.withEmployerGuard(s.handleGetCampaign))
	mux.HandleFunc("DELETE /api/campaigns/{id}", s.withEmployerGuard(s.handleDeleteCampaign))
	mux.HandleFunc("PATCH /api/campaigns/{id}/structure", s.withEmployerGuard(s.handleUpdateStructure))
	mux.HandleFunc("POST /api/campaigns/{id}/publish", s.withEmployerGuard(s.handlePublish))
	mux.HandleFunc("POST /api/campaigns/{id}/content", s.withEmployerGuard(s.handleSaveContent))
	mux.HandleFunc("PATCH /api/campaigns/{id}/content", s.withEmployerGuard(s.handleUpdateContentState))

	// Company and dashboard endpoints
	mux.HandleFunc("GET /api/company", s.withEmployerGuard(s.handleGetCompany))
	mux.HandleFunc("POST /api/company", s.withEmployerGuard(s.handleUpdateCompany))
	mux.HandleFunc("GET /api/dashboard", s.withEmployerGuard(s.handleDashboard))

	// Assist endpoints
	mux.HandleFunc("POST /api/assist/bullets", s.withEmployerGuard(s.handleAssistBullets))

	// Public endpoints
	mux.HandleFunc("GET /api/public/jobs", s.handleListPublicJobs)
	mux.HandleFunc("GET /api/public/jobs/{companySlug}/{jobSlug}", s.handleGetPublicJob)
	mux.HandleFunc("GET /api/public/company/{companySlug}", s.handleGetPublicCompany)
	mux.HandleFunc("GET /api/feed/indeed.xml", s.handleIndeedFeed)

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
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

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Joppa-Admin")

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
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
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
