// Package service wires the stat generator, leaderboard store, chart renderer
// and upload store into the operations the HTTP API and CLI depend on.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/radar/internal/adapters/chart"
	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/adapters/uploads"
	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/internal/domain/types"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
)

const (
	defaultLeaderboardLimit    = 10
	defaultMaxLeaderboardLimit = 100
	defaultUploadDir           = "static/uploads"
	defaultChartDir            = "static/charts"
	defaultLeaderboardFile     = "leaderboard.json"
	defaultMaxUploadBytes      = 16 << 20
)

// PhotoStore persists an uploaded photo and returns the name it was stored
// under.
type PhotoStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Submission is one form post: a name and the photo that goes with it.
// Any Name is accepted, including an empty one; NameMissing marks a post
// that carried no name field at all.
type Submission struct {
	Name          string
	NameMissing   bool
	PhotoFilename string
	Photo         io.Reader
}

// Result is what a submission produces.
type Result struct {
	Name  string
	Photo string
	Chart string
	Stats stats.StatSet
}

// Service implements the API dependencies for the stat card system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	charts   chart.Renderer
	photos   PhotoStore
	ownStore bool

	// Configuration
	backend             repository.Backend
	storePath           string
	uploadDir           string
	chartDir            string
	maxUploadBytes      int64
	leaderboardLimit    int
	maxLeaderboardLimit int
	defaultCategory     stats.Category

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a leaderboard store. The service does not close an
// injected store on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithChartRenderer injects the chart renderer.
func WithChartRenderer(r chart.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.charts = r
		}
	}
}

// WithUploads injects the photo store.
func WithUploads(p PhotoStore) Option {
	return func(s *Service) {
		if p != nil {
			s.photos = p
		}
	}
}

// WithStoreBackend selects the backend and path of the store opened on Start.
func WithStoreBackend(backend repository.Backend, path string) Option {
	return func(s *Service) {
		if backend != "" {
			s.backend = backend
		}
		if path != "" {
			s.storePath = path
		}
	}
}

// WithUploadDir sets where photos are stored when no PhotoStore is injected.
func WithUploadDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.uploadDir = dir
		}
	}
}

// WithChartDir sets where charts are written when no renderer is injected.
func WithChartDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.chartDir = dir
		}
	}
}

// WithMaxUploadBytes caps the size of a single photo.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLeaderboardLimit sets the number of rows Top returns when the caller
// does not ask for a specific count.
func WithLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardLimit = n
		}
	}
}

// WithMaxLeaderboardLimit caps the number of rows a caller may request.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithDefaultCategory sets the category Top uses when none is given.
func WithDefaultCategory(c stats.Category) Option {
	return func(s *Service) {
		if c != "" {
			s.defaultCategory = c
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		backend:             repository.BackendJSON,
		storePath:           defaultLeaderboardFile,
		uploadDir:           defaultUploadDir,
		chartDir:            defaultChartDir,
		maxUploadBytes:      defaultMaxUploadBytes,
		leaderboardLimit:    defaultLeaderboardLimit,
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		defaultCategory:     stats.Karbit,
		logger:              logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.leaderboardLimit > s.maxLeaderboardLimit {
		s.leaderboardLimit = s.maxLeaderboardLimit
	}

	return s
}

// Start opens every component that was not injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting stat card service...")

	if s.photos == nil {
		up, err := uploads.New(s.uploadDir,
			uploads.WithMaxBytes(s.maxUploadBytes),
			uploads.WithLogger(s.logger.Named("uploads")),
		)
		if err != nil {
			return fmt.Errorf("open uploads: %w", err)
		}
		s.photos = up
	}

	if s.charts == nil {
		r, err := chart.NewRadarRenderer(s.chartDir, chart.WithLogger(s.logger.Named("chart")))
		if err != nil {
			return fmt.Errorf("open charts: %w", err)
		}
		s.charts = r
	}

	if s.store == nil {
		store, err := repository.Open(ctx, s.backend, s.storePath,
			repository.WithLogger(s.logger.Named("repository")),
		)
		if err != nil {
			return fmt.Errorf("open leaderboard: %w", err)
		}
		s.store = store
		s.ownStore = true
		s.logger.Info(ctx, "leaderboard store opened",
			logger.String("backend", string(s.backend)),
			logger.String("path", s.storePath),
		)
	}

	metrics.UpdateTotalNames(s.store.Count(ctx))

	s.started = true
	s.logger.Info(ctx, "stat card service started",
		logger.Int("leaderboardLimit", s.leaderboardLimit),
		logger.Int64("maxUploadBytes", s.maxUploadBytes),
	)

	return nil
}

// Stop releases the components the service opened itself.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping stat card service...")

	if s.ownStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "close leaderboard store", logger.Error(err))
		}
		s.store = nil
		s.ownStore = false
	}

	s.started = false
	s.logger.Info(context.Background(), "stat card service stopped")
}

// Submit stores the photo, generates the stats for the name, replaces the
// name's leaderboard rows and renders the chart.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	start := time.Now()
	defer func() {
		s.logger.Debug(ctx, "submission handled", logger.Duration("took", time.Since(start)))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Result{}, ErrNotStarted
	}

	if sub.NameMissing {
		metrics.RecordSubmissionFailure("validate")
		return Result{}, ErrMissingName
	}
	if sub.Photo == nil {
		metrics.RecordSubmissionFailure("validate")
		return Result{}, ErrMissingPhoto
	}

	photo, err := s.photos.Save(ctx, sub.PhotoFilename, sub.Photo)
	if err != nil {
		metrics.RecordSubmissionFailure("upload")
		return Result{}, fmt.Errorf("save photo: %w", err)
	}

	set := stats.Generate(sub.Name)

	if err := s.store.Upsert(ctx, sub.Name, photo, set); err != nil {
		metrics.RecordSubmissionFailure("store")
		metrics.RecordErrorByComponent("repository", "upsert")
		return Result{}, fmt.Errorf("update leaderboard: %w", err)
	}

	chartFile, err := s.charts.Render(ctx, set, sub.Name)
	if err != nil {
		metrics.RecordSubmissionFailure("chart")
		return Result{}, fmt.Errorf("render chart: %w", err)
	}

	metrics.RecordSubmission()
	metrics.UpdateTotalNames(s.store.Count(ctx))
	s.logger.Info(ctx, "submission recorded",
		logger.String("name", sub.Name),
		logger.String("photo", photo),
		logger.String("chart", chartFile),
	)

	return Result{
		Name:  sub.Name,
		Photo: photo,
		Chart: chartFile,
		Stats: set,
	}, nil
}

// Top returns the ranked leaderboard for category. An empty category means
// the default one; limit 0 means the configured default and larger values are
// capped. Unknown categories yield an empty board.
func (s *Service) Top(ctx context.Context, category string, limit int) ([]types.RankedEntry, error) {
	if category == "" {
		category = string(s.defaultCategory)
	}
	switch {
	case limit == 0:
		limit = s.leaderboardLimit
	case limit > s.maxLeaderboardLimit:
		limit = s.maxLeaderboardLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	entries, err := s.store.QueryTop(ctx, category, limit)
	if err != nil {
		return nil, err
	}
	if _, perr := stats.ParseCategory(category); perr == nil {
		metrics.RecordLeaderboardQuery(category)
	} else {
		metrics.RecordLeaderboardQuery("unknown")
	}

	return types.Rank(entries), nil
}

// Stats returns the stats name would receive without recording anything.
func (s *Service) Stats(name string) stats.StatSet {
	return stats.Generate(name)
}

// DefaultCategory returns the category Top uses when none is given.
func (s *Service) DefaultCategory() stats.Category {
	return s.defaultCategory
}

// LeaderboardLimit returns the default number of rows Top returns.
func (s *Service) LeaderboardLimit() int {
	return s.leaderboardLimit
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":          s.started,
		"backend":          string(s.backend),
		"leaderboardLimit": s.leaderboardLimit,
		"defaultCategory":  string(s.defaultCategory),
	}

	if s.started {
		totalNames := s.store.Count(ctx)
		out["totalNames"] = totalNames
		metrics.UpdateTotalNames(totalNames)
	}

	return out
}
