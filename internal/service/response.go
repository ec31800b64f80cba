package service

import (
	"encoding/json"
	"net/http"
)

const internalErrorMessage = "Internal server error"

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	"Access-Control-Allow-Methods":     "GET,POST,OPTIONS",
	"Access-Control-Allow-Credentials": "true",
}

// CORSHeaders returns a fresh copy of the headers sent with every response.
func CORSHeaders() map[string]string {
	h := make(map[string]string, len(corsHeaders))
	for k, v := range corsHeaders {
		h[k] = v
	}
	return h
}

// Response is the gateway-neutral result of one invocation.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

type countBody struct {
	Count int64 `json:"count"`
}

type errorBody struct {
	Error string `json:"error"`
}

func success(n int64) Response {
	return newResponse(http.StatusOK, countBody{Count: n})
}

func failure() Response {
	return newResponse(http.StatusInternalServerError, errorBody{Error: internalErrorMessage})
}

func newResponse(status int, body any) Response {
	// Both body types marshal without error.
	b, _ := json.Marshal(body)
	return Response{
		StatusCode: status,
		Headers:    CORSHeaders(),
		Body:       string(b),
	}
}
