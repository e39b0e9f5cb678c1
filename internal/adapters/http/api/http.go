// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/radar/internal/adapters/http/site"
	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/internal/domain/types"
	"github.com/okian/radar/pkg/logger"
)

const (
	defaultUploadDir      = "static/uploads"
	defaultChartDir       = "static/charts"
	defaultMaxUploadBytes = 16 << 20
	// multipartOverhead covers the name field and part headers on top of
	// the photo itself.
	multipartOverhead = 1 << 20
	multipartMemory   = 8 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit records a submission and returns its stats and artifacts.
	Submit(ctx context.Context, sub service.Submission) (service.Result, error)

	// Top returns the ranked board for category. Empty category and zero
	// limit select the defaults.
	Top(ctx context.Context, category string, limit int) ([]types.RankedEntry, error)

	// DefaultCategory is the board shown when none is requested.
	DefaultCategory() stats.Category
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps           Dependencies
	statsHandler   *StatsHandler
	healthHandler  *HealthHandler
	pages          *site.Pages
	uploadDir      string
	chartDir       string
	maxUploadBytes int64
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithUploadDir sets the directory served under /static/uploads/.
func WithUploadDir(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.uploadDir = dir
		}
	}
}

// WithChartDir sets the directory served under /static/charts/.
func WithChartDir(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.chartDir = dir
		}
	}
}

// WithMaxUploadBytes caps the photo size accepted by POST /result.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	pages, err := site.New()
	if err != nil {
		return nil, err
	}
	s := &Server{
		deps:           deps,
		statsHandler:   NewStatsHandler(statsProvider),
		healthHandler:  NewHealthHandler(),
		pages:          pages,
		uploadDir:      defaultUploadDir,
		chartDir:       defaultChartDir,
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/", MetricsMiddleware(s.HandleIndex, "index"))
	r.Post("/result", MetricsMiddleware(s.HandlePostResult, "result"))
	r.Get("/leaderboard", MetricsMiddleware(s.HandleLeaderboardPage, "leaderboard"))
	r.Get("/api/leaderboard", MetricsMiddleware(s.HandleGetLeaderboard, "api_leaderboard"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)

	r.Get(site.UploadsPrefix+"{filename}", MetricsMiddleware(fileHandler(s.uploadDir, true), "uploads"))
	r.Get(site.ChartsPrefix+"{filename}", MetricsMiddleware(fileHandler(s.chartDir, false), "charts"))
	r.Handle(site.AssetsPrefix+"*", http.StripPrefix(site.AssetsPrefix, http.FileServer(site.FS())))
}

// Router returns a chi router with the standard middleware stack and every
// route registered. Callers may mount further routes on it.
func (s *Server) Router(ctx context.Context) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	s.Register(ctx, r)
	return r
}

// fail logs err with its request context and answers with status. Server
// errors are logged at error level and never echo err to the client.
func (s *Server) fail(r *http.Request, err error) (int, string, string) {
	status, code := statusFor(err)
	msg := err.Error()
	fields := []logger.Field{
		logger.String("path", r.URL.Path),
		logger.String("requestID", middleware.GetReqID(r.Context())),
		logger.Int("status", status),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", fields...)
		msg = http.StatusText(status)
	} else {
		s.logger.Debug(r.Context(), "request rejected", fields...)
	}
	return status, code, msg
}
