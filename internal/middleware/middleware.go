// Package middleware provides the HTTP middleware chain the RPC surface is
// wrapped in, adapted from
// DanDo385-go-edu/minis/50-mini-service-all-features/internal/middleware.
package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares in order: the first middleware in the list
// wraps all the others, so it sees the request first and the response
// last.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// ResponseWriter wraps http.ResponseWriter to capture both the HTTP status
// code and a copy of the response body, so logging and metrics middleware
// can report the protocol-level outcome (spec.md §7's Code, e.g.
// "UNAUTHENTICATED") rather than only the HTTP status that happens to
// carry it — every internal/rpc error response is a JSON body whose
// "code" field is the thing an operator actually wants to chart.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

// NewResponseWriter wraps w, defaulting the observed status to 200 (the
// value net/http assumes when WriteHeader is never called explicitly).
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write tees the response body into rw.body in addition to writing it
// through, so ProtocolCode can inspect it after the handler returns.
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// ProtocolCode extracts the {"code": "..."} field of an internal/rpc error
// response body. A response with no readable code field (none of the three
// success responses carries one, and the body may not be JSON at all)
// reports "OK" when its status is below 300 and "UNKNOWN" otherwise.
func (rw *ResponseWriter) ProtocolCode() string {
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rw.body.Bytes(), &payload); err != nil || payload.Code == "" {
		if rw.statusCode < 300 {
			return "OK"
		}
		return "UNKNOWN"
	}
	return payload.Code
}
