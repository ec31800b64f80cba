package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tckz/visitor-counter/internal/config"
	"github.com/tckz/visitor-counter/internal/counter"
	"github.com/tckz/visitor-counter/internal/service"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func invoke(t *testing.T, env map[string]string) events.APIGatewayProxyResponse {
	t.Helper()
	cfg, cfgErr := config.FromLookup(lookupMap(env))

	logger = newLogger(cfg.LogLevel)
	c := openCounter(context.Background(), cfg, cfgErr)

	res, err := service.New(c, service.WithLogger(logger)).HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	return res
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	sl := newLogger("verbose")
	require.NotNil(t, sl)
	assert.True(t, sl.Desugar().Core().Enabled(zap.InfoLevel))
	assert.False(t, sl.Desugar().Core().Enabled(zap.DebugLevel))
}

func TestStartup(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid",
			env:        map[string]string{"TABLE_NAME": "visitors", "COUNTER_BACKEND": "memory"},
			wantStatus: http.StatusOK,
			wantBody:   `{"count":1}`,
		},
		{
			name:       "bad log level",
			env:        map[string]string{"TABLE_NAME": "visitors", "COUNTER_BACKEND": "memory", "LOG_LEVEL": "verbose"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
		{
			name:       "missing table name",
			env:        map[string]string{"COUNTER_BACKEND": "memory"},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res events.APIGatewayProxyResponse
			require.NotPanics(t, func() { res = invoke(t, tt.env) })

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantBody, res.Body)
			assert.Equal(t, service.CORSHeaders(), res.Headers)
		})
	}
}

func TestOpenCounter_ConfigErrorKeepsKind(t *testing.T) {
	logger = newLogger("info")
	cfg, cfgErr := config.FromLookup(lookupMap(map[string]string{"LOG_LEVEL": "verbose"}))
	require.Error(t, cfgErr)

	_, err := openCounter(context.Background(), cfg, cfgErr).Up(context.Background())
	assert.Equal(t, counter.ConfigurationMissing, counter.KindOf(err))
}
