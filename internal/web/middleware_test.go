package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"teachdb/internal/catalog"
	"teachdb/internal/query"
)

func newTestExecutor(t *testing.T) *query.Executor {
	t.Helper()
	cat, err := catalog.Open(t.TempDir())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return query.NewExecutor(cat)
}

func TestWithExecutorInjectsExecutor(t *testing.T) {
	exec := newTestExecutor(t)
	var got *query.Executor
	handler := WithExecutor(exec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetExecutor(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != exec {
		t.Fatal("GetExecutor did not return the injected executor")
	}
}

func TestGetExecutorWithoutMiddlewareReturnsNil(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetExecutor(req) != nil {
		t.Fatal("expected nil executor when middleware was never applied")
	}
}

func TestRequireExecutorRejectsMissingExecutor(t *testing.T) {
	handler := RequireExecutor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without an executor")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRequireExecutorAllowsPresentExecutor(t *testing.T) {
	exec := newTestExecutor(t)
	ran := false
	handler := WithExecutor(exec)(RequireExecutor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ran {
		t.Fatal("expected the inner handler to run when an executor is present")
	}
}
