package api

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ShreyaSuvarna1/Veerpath/internal/cache"
)

//go:embed templates/*.html
var templateFS embed.FS

// Scheduler is the part of the refresh scheduler the HTTP layer needs.
type Scheduler interface {
	Trigger(reason string) bool
	Running() bool
}

// RunState reports whether a refresh is running right now.
type RunState interface {
	Busy() bool
}

type Server struct {
	router *chi.Mux
	cell   *cache.Cell
	sched  Scheduler
	runs   RunState
	page   *template.Template
	log    *slog.Logger
}

func NewServer(cell *cache.Cell, sched Scheduler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		router: chi.NewRouter(),
		cell:   cell,
		sched:  sched,
		page:   parsePage(),
		log:    log,
	}

	s.setupRoutes()
	return s
}

// WithRunState lets /stats report an in-flight refresh.
func (s *Server) WithRunState(r RunState) *Server {
	s.runs = r
	return s
}

func parsePage() *template.Template {
	return template.Must(template.New("index.html").Funcs(template.FuncMap{
		"ago": func(t time.Time) string {
			return humanize.Time(t)
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"stamp": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
	}).ParseFS(templateFS, "templates/index.html"))
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/", s.handleHome)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/jobs", s.handleListJobs)
	s.router.Post("/refresh", s.handleRefresh)
	s.router.Get("/stats", s.handleStats)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
