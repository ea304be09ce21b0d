package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"letwise/internal/dashboard/metrics"
	"letwise/internal/dashboard/models"
	"letwise/pkg/platform/circuit"
	"letwise/pkg/requestcontext"
)

// Upstream serves the three dashboard resources.
type Upstream interface {
	Cases(ctx context.Context) ([]models.Case, error)
	Documents(ctx context.Context) ([]models.Document, error)
	Stats(ctx context.Context) (models.Stats, error)
}

const (
	defaultSectionTimeout = 5 * time.Second
	sectionErrorMessage   = "This section is temporarily unavailable."
	sectionStaleMessage   = "Showing the last data we could load."

	sectionCases     = "cases"
	sectionDocuments = "documents"
	sectionStats     = "stats"
)

// Service aggregates the dashboard. Sections are fetched concurrently and
// each failure stays inside its own section.
type Service struct {
	upstream       Upstream
	logger         *slog.Logger
	metrics        *metrics.Metrics
	sectionTimeout time.Duration

	breakers map[string]*circuit.Breaker

	mu       sync.Mutex
	lastGood map[string]any
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBreakerThresholds tunes when a section switches to its last good data
// and when it trusts the upstream again.
func WithBreakerThresholds(failures, successes int) Option {
	return func(s *Service) {
		for name := range s.breakers {
			s.breakers[name] = circuit.New(name,
				circuit.WithFailureThreshold(failures),
				circuit.WithSuccessThreshold(successes),
			)
		}
	}
}

// WithSectionTimeout bounds each upstream fetch.
func WithSectionTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sectionTimeout = d
		}
	}
}

func New(upstream Upstream, opts ...Option) (*Service, error) {
	if upstream == nil {
		return nil, errors.New("dashboard upstream is required")
	}
	s := &Service{
		upstream:       upstream,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sectionTimeout: defaultSectionTimeout,
		breakers: map[string]*circuit.Breaker{
			sectionCases:     circuit.New(sectionCases),
			sectionDocuments: circuit.New(sectionDocuments),
			sectionStats:     circuit.New(sectionStats),
		},
		lastGood: make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load fetches every section. It never fails as a whole: goroutines report
// into their own section and always return nil so one failure cannot cancel
// its siblings. A section whose breaker is open falls back to the last data
// it loaded, marked stale.
func (s *Service) Load(ctx context.Context) models.Dashboard {
	var (
		d models.Dashboard
		g errgroup.Group
	)

	g.Go(func() error {
		d.Cases = load(ctx, s, sectionCases, s.upstream.Cases)
		if d.Cases.Data == nil {
			d.Cases.Data = []models.Case{}
		}
		return nil
	})
	g.Go(func() error {
		d.Documents = load(ctx, s, sectionDocuments, s.upstream.Documents)
		if d.Documents.Data == nil {
			d.Documents.Data = []models.Document{}
		}
		return nil
	})
	g.Go(func() error {
		d.Stats = load(ctx, s, sectionStats, s.upstream.Stats)
		return nil
	})

	_ = g.Wait()
	return d
}

func load[T any](ctx context.Context, s *Service, name string, get func(context.Context) (T, error)) models.Section[T] {
	fetchCtx, cancel := context.WithTimeout(ctx, s.sectionTimeout)
	defer cancel()

	start := time.Now()
	v, err := get(fetchCtx)
	breaker := s.breakers[name]

	if err == nil {
		s.metrics.ObserveFetch(name, string(models.SectionOK), time.Since(start))
		s.remember(name, v)
		if _, change := breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "dashboard upstream recovered", "section", name)
		}
		return models.Section[T]{Status: models.SectionOK, Data: v}
	}

	s.logger.WarnContext(ctx, "dashboard section failed",
		"request_id", requestcontext.RequestID(ctx),
		"section", name,
		"error", err,
	)
	useFallback, change := breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "dashboard upstream circuit opened", "section", name)
	}
	if useFallback {
		if cached, ok := s.recall(name).(T); ok {
			s.metrics.ObserveFetch(name, string(models.SectionStale), time.Since(start))
			return models.Section[T]{Status: models.SectionStale, Data: cached, Error: sectionStaleMessage}
		}
	}
	s.metrics.ObserveFetch(name, string(models.SectionError), time.Since(start))
	var zero T
	return models.Section[T]{Status: models.SectionError, Data: zero, Error: sectionErrorMessage}
}

func (s *Service) remember(name string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGood[name] = v
}

func (s *Service) recall(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGood[name]
}
