// Package web - query plan inspection, without executing the query.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"teachdb/internal/query"
)

// ExplainResponse describes the plan Fold would choose for a SELECT,
// mirroring the fields an operator needs to understand why the executor
// picked a heap scan or an index scan (see query.Plan and
// SqlEngine.cc's select()).
type ExplainResponse struct {
	Table         string  `json:"table"`
	Target        string  `json:"target"`
	AccessMethod  string  `json:"access_method"` // "INDEX_SCAN" or "FULL_TABLE_SCAN"
	Contradiction bool    `json:"contradiction"`
	HaveEqual     bool    `json:"have_equal,omitempty"`
	EqualVal      int32   `json:"equal_val,omitempty"`
	HaveMin       bool    `json:"have_min,omitempty"`
	MinVal        int32   `json:"min_val,omitempty"`
	HaveMax       bool    `json:"have_max,omitempty"`
	MaxVal        int32   `json:"max_val,omitempty"`
	Indexed       bool    `json:"table_indexed"`
}

// handleAPIExplain reports the scan strategy Fold would pick for a
// SELECT, without running it.
// POST /api/explain {"sql": "SELECT ..."}
func (s *Server) handleAPIExplain(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sel, err := parseSelect(req.SQL)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse error: %v", err))
		return
	}

	exec := GetExecutor(r)
	tbl, ok := exec.Catalog().GetTable(sel.Table)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("table %q not found", sel.Table))
		return
	}

	preds := make([]query.Predicate, len(sel.Where))
	for i, c := range sel.Where {
		preds[i] = query.Predicate{
			Column: query.Column(c.Column),
			Op:     query.Comparator(c.Op),
			IntVal: c.IntVal,
			StrVal: c.StrVal,
		}
	}
	plan := query.Fold(query.Target(sel.Target), preds)

	resp := ExplainResponse{
		Table:         sel.Table,
		Target:        query.Target(sel.Target).String(),
		Contradiction: plan.Contradiction,
		HaveEqual:     plan.HaveEqual,
		EqualVal:      plan.EqualVal,
		HaveMin:       plan.HaveMin,
		MinVal:        plan.MinVal,
		HaveMax:       plan.HaveMax,
		MaxVal:        plan.MaxVal,
		Indexed:       tbl.HasIndex(),
	}
	if plan.UseIndex && tbl.HasIndex() {
		resp.AccessMethod = "INDEX_SCAN"
	} else {
		resp.AccessMethod = "FULL_TABLE_SCAN"
	}

	writeSuccess(w, resp)
}
