// Package apitest provides a fake text-to-SQL backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leapstack-labs/askql/internal/api"
)

// SuccessVerdict is the verdict text the real backend sends for a query that
// ran without errors.
const SuccessVerdict = "Validation successful: Query ran without errors."

// Response is what the fake backend answers with. Raw, when set, is written
// verbatim instead of the JSON encoding of Body.
type Response struct {
	Status int
	Body   any
	Raw    string
}

// OK returns a 200 response with body encoded as JSON.
func OK(body any) Response {
	return Response{Status: http.StatusOK, Body: body}
}

// Fail returns an error response with a FastAPI-style detail field.
func Fail(status int, detail string) Response {
	return Response{Status: status, Body: map[string]string{"detail": detail}}
}

// Raw returns a response whose body is written as-is.
func Raw(status int, body string) Response {
	return Response{Status: status, Raw: body}
}

// Generated returns a successful generation response.
func Generated(sql, verdict string) Response {
	return OK(map[string]string{"sql_query": sql, "validation_result": verdict})
}

// Server is an httptest server that mimics /generate-sql and /execute-sql.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	generate   func(question string) Response
	execute    func(query string) Response
	questions  []string
	queries    []string
	requestIDs []string
}

// NewServer starts a fake backend that is closed when the test ends. By
// default it validates every question as "SELECT 1" and returns no rows.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		generate: func(string) Response { return Generated("SELECT 1", SuccessVerdict) },
		execute:  func(string) Response { return OK(map[string]any{"data": []any{}}) },
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post(api.GeneratePath, s.handleGenerate)
	r.Post(api.ExecutePath, s.handleExecute)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// OnGenerate replaces the generation handler.
func (s *Server) OnGenerate(fn func(question string) Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generate = fn
}

// OnExecute replaces the execution handler.
func (s *Server) OnExecute(fn func(query string) Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execute = fn
}

// Questions returns every question received, in arrival order.
func (s *Server) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.questions...)
}

// Queries returns every query received, in arrival order.
func (s *Server) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// RequestIDs returns the request id header of every request.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUnprocessable(w, err)
		return
	}

	s.mu.Lock()
	s.questions = append(s.questions, req.Question)
	s.requestIDs = append(s.requestIDs, r.Header.Get(api.RequestIDHeader))
	fn := s.generate
	s.mu.Unlock()

	write(w, fn(req.Question))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req api.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeUnprocessable(w, err)
		return
	}

	s.mu.Lock()
	s.queries = append(s.queries, req.Query)
	s.requestIDs = append(s.requestIDs, r.Header.Get(api.RequestIDHeader))
	fn := s.execute
	s.mu.Unlock()

	write(w, fn(req.Query))
}

func write(w http.ResponseWriter, resp Response) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Raw != "" {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp.Raw))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp.Body)
}

func writeUnprocessable(w http.ResponseWriter, err error) {
	write(w, Response{
		Status: http.StatusUnprocessableEntity,
		Body: map[string]any{
			"detail": []map[string]any{{"type": "json_invalid", "msg": err.Error()}},
		},
	})
}
