package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/plansplit/internal/config"
	"github.com/dgallion1/plansplit/internal/session"
)

// Server is the HTTP front end: one form page, a preview action, an export
// action and the per-session artifact downloads.
type Server struct {
	router   chi.Router
	sessions *session.Store
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(SessionCookie(s.sessions))

		r.Get("/", s.handleIndex)
		r.Post("/preview", s.handlePreview)
		r.Post("/export", s.handleExport)
		r.Get("/download/archive", s.handleDownloadArchive)
		r.Get("/download/report", s.handleDownloadReport)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
