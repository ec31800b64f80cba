package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/tckz/visitor-counter/internal/backend"
	"github.com/tckz/visitor-counter/internal/config"
	"github.com/tckz/visitor-counter/internal/counter"
	"github.com/tckz/visitor-counter/internal/log"
)

// newLogger falls back to level info when level is unusable, so that a bad
// LOG_LEVEL is reported by the failure responses instead of a crash.
func newLogger(level string) *zap.SugaredLogger {
	sl, err := log.NewSugared(myName, log.WithLogLevel(level))
	if err == nil {
		return sl
	}
	sl = log.MustSugared(myName)
	sl.With(zap.Error(err)).Errorf("log.NewSugared: level=%s, using info", level)
	return sl
}

// openCounter never fails. Startup failures do not stop the function; every
// invocation then answers with the generic failure response, the same as a
// failing store.
func openCounter(ctx context.Context, cfg config.Config, cfgErr error) counter.Counter {
	if cfgErr != nil {
		logger.With(zap.Error(cfgErr), zap.Stringer("kind", counter.KindOf(cfgErr))).Errorf("config.Load")
		return counter.Failing(cfgErr)
	}

	c, _, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.With(zap.Error(err), zap.Stringer("kind", counter.KindOf(err))).Errorf("backend.Open")
		return counter.Failing(err)
	}
	return c
}
