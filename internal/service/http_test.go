package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tckz/visitor-counter/internal/counter"
)

func TestServeHTTP(t *testing.T) {
	c := counter.NewMemoryCounter("visitors")
	srv := httptest.NewServer(New(c))
	defer srv.Close()

	tests := []struct {
		method     string
		wantStatus int
		wantBody   string
	}{
		{method: http.MethodGet, wantStatus: http.StatusOK, wantBody: `{"count":1}`},
		{method: http.MethodPost, wantStatus: http.StatusOK, wantBody: `{"count":2}`},
		{method: http.MethodOptions, wantStatus: http.StatusNoContent},
		{method: http.MethodDelete, wantStatus: http.StatusMethodNotAllowed},
		{method: http.MethodGet, wantStatus: http.StatusOK, wantBody: `{"count":3}`},
	}

	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, srv.URL+"/count", nil)
		require.NoError(t, err)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		b, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, tt.wantStatus, res.StatusCode, tt.method)
		assert.Equal(t, tt.wantBody, strings.TrimSpace(string(b)), tt.method)
		for k, v := range wantHeaders {
			assert.Equal(t, v, res.Header.Get(k), "%s %s", tt.method, k)
		}
	}
}

func TestServeHTTP_RequestID(t *testing.T) {
	s := New(counter.NewMemoryCounter("visitors"))

	req := httptest.NewRequest(http.MethodGet, "/count", nil)
	req.Header.Set("X-Request-Id", "abc")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/count", nil))
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestServeHTTP_Failure(t *testing.T) {
	s := New(counter.Failing(counter.Unavailable("op", nil)))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/count", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
