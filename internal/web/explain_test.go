package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleAPIExplainChoosesIndexScan(t *testing.T) {
	exec := newTestExecutor(t)
	s := NewServer(0, exec)
	loadFixture(t, s, "widgets", true, 5)

	req := httptest.NewRequest(http.MethodPost, "/api/explain", bytes.NewBufferString(`{"sql": "SELECT key FROM widgets WHERE key = 2"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data ExplainResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.AccessMethod != "INDEX_SCAN" {
		t.Fatalf("got access method %q, want INDEX_SCAN", resp.Data.AccessMethod)
	}
}

func TestHandleAPIExplainFallsBackToTableScanWithoutIndex(t *testing.T) {
	exec := newTestExecutor(t)
	s := NewServer(0, exec)
	loadFixture(t, s, "widgets", false, 5)

	req := httptest.NewRequest(http.MethodPost, "/api/explain", bytes.NewBufferString(`{"sql": "SELECT key FROM widgets WHERE key = 2"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var resp struct {
		Data ExplainResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.AccessMethod != "FULL_TABLE_SCAN" {
		t.Fatalf("got access method %q, want FULL_TABLE_SCAN", resp.Data.AccessMethod)
	}
}

func TestHandleAPIExplainRejectsLoadStatement(t *testing.T) {
	s := NewServer(0, newTestExecutor(t))
	req := httptest.NewRequest(http.MethodPost, "/api/explain", bytes.NewBufferString(`{"sql": "LOAD widgets FROM 'x.csv'"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400 for a non-SELECT statement", rec.Code)
	}
}
