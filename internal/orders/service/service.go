package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"letwise/internal/orders/metrics"
	"letwise/internal/orders/models"
	dErrors "letwise/pkg/domain-errors"
	"letwise/pkg/platform/sentinel"
)

// OrderStore reads orders by checkout session.
type OrderStore interface {
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
}

// Service resolves checkout sessions to the tri-state order lookup.
type Service struct {
	store   OrderStore
	logger  *slog.Logger
	metrics *metrics.Metrics
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

func New(store OrderStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("order store is required")
	}
	s := &Service{store: store, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Lookup resolves a session. A missing order is a result, not an error; only
// a blank session ID or a store failure returns one.
func (s *Service) Lookup(ctx context.Context, sessionID string) (models.Lookup, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.Lookup{}, dErrors.New(dErrors.CodeValidation, "session_id is required")
	}

	o, err := s.store.FindBySessionID(ctx, sessionID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncrementLookup("error")
		s.logger.ErrorContext(ctx, "order lookup failed",
			"session_id", sessionID,
			"error", err,
		)
		return models.Lookup{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "order lookup is unavailable")
	}

	result := models.LookupFor(o)
	s.metrics.IncrementLookup(string(result.Status))
	return result, nil
}
