// Package web - JSON API for table introspection and query execution.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"teachdb/internal/bptree"
	"teachdb/internal/heap"
	"teachdb/internal/query"
	"teachdb/internal/sql/lexer"
	"teachdb/internal/sql/parser"
)

// APIResponse wraps all API responses with success/error info.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

// TableListResponse contains the list of tables.
type TableListResponse struct {
	Tables []string `json:"tables"`
}

// TableDetailResponse describes one table's on-disk shape.
type TableDetailResponse struct {
	Name     string `json:"name"`
	RowCount int    `json:"row_count"`
	Indexed  bool   `json:"indexed"`
	IndexPid int32  `json:"index_root_pid,omitempty"`
	Height   int    `json:"index_height,omitempty"`
}

// QueryRequest is the body for both /api/query and /api/explain.
type QueryRequest struct {
	SQL string `json:"sql"`
}

// QueryResponse contains the outcome of a SELECT or LOAD.
type QueryResponse struct {
	Target    string      `json:"target,omitempty"`
	Rows      []query.Row `json:"rows,omitempty"`
	Count     int         `json:"count,omitempty"`
	UsedIndex bool        `json:"used_index,omitempty"`
	RowsRead  int         `json:"rows_loaded,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful API response.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// writeError writes an error API response, attaching a hint when one
// applies (see GetErrorHint).
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Error: message, Hint: GetErrorHint(message)})
}

// handleAPITables returns a list of all open tables.
// GET /api/tables
func (s *Server) handleAPITables(w http.ResponseWriter, r *http.Request) {
	names := GetExecutor(r).Catalog().ListTables()
	sort.Strings(names)
	writeSuccess(w, TableListResponse{Tables: names})
}

// handleAPITableDetail returns row count and index status for one table.
// GET /api/tables/{name}
func (s *Server) handleAPITableDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !IsValidIdentifier(name) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid table name %q", name))
		return
	}
	tbl, ok := GetExecutor(r).Catalog().GetTable(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("table %q not found", name))
		return
	}

	count := 0
	if err := tbl.Heap.Scan(func(bptree.RecordId, heap.Tuple) bool {
		count++
		return true
	}); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("scan %q: %v", name, err))
		return
	}

	resp := TableDetailResponse{Name: name, RowCount: count, Indexed: tbl.HasIndex()}
	if tbl.HasIndex() {
		resp.IndexPid = int32(tbl.Index.RootPid())
		resp.Height = int(tbl.Index.Height())
	}
	writeSuccess(w, resp)
}

// parseSelect parses req.SQL as a SELECT statement, rejecting anything
// else (LOAD has side effects that don't belong behind a read endpoint
// like /api/explain; /api/query parses its statement directly in
// handleAPIQuery instead).
func parseSelect(sql string) (*parser.SelectStatement, error) {
	p := parser.New(lexer.New(sql))
	stmt, err := p.Parse()
	if err != nil {
		return nil, err
	}
	sel, ok := stmt.(*parser.SelectStatement)
	if !ok {
		return nil, fmt.Errorf("expected a SELECT statement")
	}
	return sel, nil
}

// handleAPIQuery executes an arbitrary SELECT or LOAD statement.
// POST /api/query {"sql": "..."}
func (s *Server) handleAPIQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SQL == "" {
		writeError(w, http.StatusBadRequest, "sql field is required")
		return
	}

	p := parser.New(lexer.New(req.SQL))
	stmt, err := p.Parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse error: %v", err))
		return
	}

	result, err := GetExecutor(r).Run(stmt)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("execution error: %v", err))
		return
	}

	switch v := result.(type) {
	case *query.Result:
		writeSuccess(w, QueryResponse{
			Target:    v.Target.String(),
			Rows:      v.Rows,
			Count:     v.Count,
			UsedIndex: v.UsedIndex,
		})
	case int:
		writeSuccess(w, QueryResponse{RowsRead: v})
	default:
		writeError(w, http.StatusInternalServerError, "unrecognized result type")
	}
}
