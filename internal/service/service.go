// Package service turns one trigger into one atomic increment and a JSON
// response carrying the new count.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tckz/visitor-counter/internal/counter"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Service struct {
	counter counter.Counter
	logger  *zap.SugaredLogger
	metrics *Metrics
}

type Option func(s *Service)

func WithLogger(logger *zap.SugaredLogger) Option {
	return Option(func(s *Service) {
		s.logger = logger
	})
}

func WithMetrics(m *Metrics) Option {
	return Option(func(s *Service) {
		s.metrics = m
	})
}

func New(c counter.Counter, opts ...Option) *Service {
	s := &Service{
		counter: c,
		logger:  zap.NewNop().Sugar(),
	}
	for _, e := range opts {
		e(s)
	}
	return s
}

// Handle increments the counter once. Any failure becomes the generic 500
// response; the cause only goes to the log.
func (s *Service) Handle(ctx context.Context) Response {
	logger := s.logger
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With(zap.String("requestID", id))
	}

	now := time.Now()
	n, err := s.increment(ctx)
	s.metrics.observe(err, time.Since(now))

	if err != nil {
		logger.With(zap.Error(err), zap.Stringer("kind", counter.KindOf(err))).Errorf("increment failed")
		return failure()
	}

	logger.Debugf("count=%d, dur=%s", n, time.Since(now))
	return success(n)
}

func (s *Service) increment(ctx context.Context) (int64, error) {
	n, err := s.counter.Up(ctx)
	if err != nil {
		return 0, err
	}
	// The first increment yields 1, so anything lower is not a real count.
	if n < 1 {
		return 0, counter.Unexpected("counter.Up", errors.New("count after increment is below 1"))
	}
	return n, nil
}
