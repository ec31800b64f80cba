package service

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

// ServeHTTP exposes Handle to plain HTTP clients, standing in for API Gateway
// during local runs. OPTIONS answers the CORS preflight without counting.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	for k, v := range corsHeaders {
		h.Set(k, v)
	}

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodPost:
	default:
		h.Set("Allow", corsHeaders["Access-Control-Allow-Methods"])
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.Header.Get("X-Request-Id")
	if id == "" {
		id = uuid.New().String()
	}
	h.Set("X-Request-Id", id)

	res := s.Handle(WithRequestID(r.Context(), id))
	h.Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	io.WriteString(w, res.Body)
}
