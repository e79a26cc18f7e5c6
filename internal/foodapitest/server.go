// Package foodapitest provides an in-memory Food API for tests.
//
// It mirrors the REST contract the dashboard consumes (GET/POST /foods,
// PUT/DELETE /foods/{id}), records every request it receives, and can be
// told to fail upcoming requests with a given status code.
package foodapitest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/models"
	"github.com/go-chi/chi/v5"
)

// Options configures a Server
type Options struct {
	// APIKeys enables api_key header authentication when non-empty
	APIKeys []string
	Seed    []models.Food
}

// Request is a request recorded by the Server
type Request struct {
	Method    string
	Path      string
	APIKey    string
	RequestID string
	Body      []byte
}

// Server is a running fake Food API
type Server struct {
	*httptest.Server
	Repo *Repository

	mu       sync.Mutex
	requests []Request
	failures []int
}

// New starts a fake Food API that is closed when the test ends
func New(t testing.TB, opts Options) *Server {
	t.Helper()

	s := &Server{Repo: NewRepository(opts.Seed...)}
	s.Server = httptest.NewServer(s.router(opts.APIKeys))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router(apiKeys []string) http.Handler {
	handler := NewFoodHandler(s.Repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Use(s.record)
	if len(apiKeys) > 0 {
		r.Use(middleware.APIKeyAuth(apiKeys))
	}
	r.Use(s.injectFailures)

	r.Get("/foods", handler.ListFoods)
	r.Post("/foods", handler.CreateFood)
	r.Put("/foods/{foodId}", handler.UpdateFood)
	r.Delete("/foods/{foodId}", handler.DeleteFood)
	return r
}

// FailNext makes the next len(statuses) requests fail with the given status codes
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Requests returns a copy of the requests received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none was received
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			APIKey:    r.Header.Get(middleware.HeaderAPIKey),
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := 0
		if len(s.failures) > 0 {
			status = s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "injected failure"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
