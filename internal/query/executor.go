package query

import (
	"fmt"

	"teachdb/internal/bptree"
	"teachdb/internal/catalog"
	"teachdb/internal/heap"
)

// Row is one result row. Which fields are populated depends on the
// query's Target: a SELECT key query only sets Key, and so on.
type Row struct {
	Key   int32
	Value string
}

// Result is the outcome of a Select.
type Result struct {
	Target    Target
	Rows      []Row
	Count     int
	UsedIndex bool
}

// Executor runs SELECT queries against a catalog of open tables.
type Executor struct {
	cat *catalog.Catalog
}

// NewExecutor builds an Executor over cat.
func NewExecutor(cat *catalog.Catalog) *Executor {
	return &Executor{cat: cat}
}

// Select answers a query against table, choosing between a heap scan and
// an index range scan: fold the WHERE clause's key predicates into a
// range, prefer the index whenever it narrows the scan (or, for
// COUNT(*), whenever an index exists at all), and fall back to a full
// heap scan otherwise.
func (e *Executor) Select(table string, target Target, preds []Predicate) (Result, error) {
	tbl, err := e.cat.OpenTable(table)
	if err != nil {
		return Result{}, fmt.Errorf("select from %s: %w", table, err)
	}

	plan := Fold(target, preds)
	res := Result{Target: target}
	if plan.Contradiction {
		return res, nil
	}

	if plan.UseIndex && tbl.HasIndex() {
		res.UsedIndex = true
		if err := e.scanIndex(tbl, plan, &res); err != nil {
			return Result{}, fmt.Errorf("index scan on %s: %w", table, err)
		}
		return res, nil
	}

	if err := e.scanHeap(tbl, plan, preds, &res); err != nil {
		return Result{}, fmt.Errorf("heap scan on %s: %w", table, err)
	}
	return res, nil
}

func (e *Executor) scanHeap(tbl *catalog.Table, plan Plan, preds []Predicate, res *Result) error {
	return tbl.Heap.Scan(func(_ bptree.RecordId, tpl heap.Tuple) bool {
		for _, p := range preds {
			if p.Column == ColumnKey {
				if !p.matchesKey(tpl.Key) {
					return true
				}
			} else if !p.matchesValue(tpl.Value) {
				return true
			}
		}
		appendRow(res, tpl.Key, tpl.Value)
		return true
	})
}

// scanIndex walks the index in ascending key order starting from the
// position Fold's range implies. A violation of an EQ bound or the
// upper bound stops the scan outright (ascending order means nothing
// further can match); every other violation (a lower-bound edge case,
// a != on the key, or any value-column predicate) just skips the row.
func (e *Executor) scanIndex(tbl *catalog.Table, plan Plan, res *Result) error {
	tree := tbl.Index

	var cur bptree.Cursor
	var err error
	switch {
	case plan.HaveEqual:
		cur, err = tree.Locate(plan.EqualVal)
		if err == bptree.ErrNoSuchRecord {
			return nil
		}
		if err != nil {
			return err
		}
	case plan.HaveMin:
		cur, err = tree.Locate(plan.MinVal)
		if err != nil && err != bptree.ErrNoSuchRecord {
			return err
		}
	default:
		cur, err = tree.FirstCursor()
		if err == bptree.ErrNoSuchRecord {
			return nil
		}
		if err != nil {
			return err
		}
	}

	needHeapRead := plan.Target != TargetCount || len(plan.ValueConds) > 0

	for {
		key, rid, next, err := tree.ReadForward(cur)
		if err == bptree.ErrNoSuchRecord {
			return nil
		}
		if err != nil {
			return err
		}

		if plan.HaveEqual && key != plan.EqualVal {
			return nil
		}
		if plan.HaveMax && key > plan.MaxVal {
			return nil
		}
		if plan.HaveMin && key < plan.MinVal {
			cur = next
			continue
		}

		keyOK := true
		for _, p := range plan.KeyOther {
			if !p.matchesKey(key) {
				keyOK = false
				break
			}
		}
		if !keyOK {
			cur = next
			continue
		}

		if !needHeapRead {
			res.Count++
			cur = next
			continue
		}

		tpl, err := tbl.Heap.Get(rid)
		if err != nil {
			return err
		}
		valueOK := true
		for _, p := range plan.ValueConds {
			if !p.matchesValue(tpl.Value) {
				valueOK = false
				break
			}
		}
		if !valueOK {
			cur = next
			continue
		}

		appendRow(res, key, tpl.Value)
		cur = next
	}
}

func appendRow(res *Result, key int32, value string) {
	switch res.Target {
	case TargetCount:
		res.Count++
	case TargetKey:
		res.Rows = append(res.Rows, Row{Key: key})
	case TargetValue:
		res.Rows = append(res.Rows, Row{Value: value})
	case TargetBoth:
		res.Rows = append(res.Rows, Row{Key: key, Value: value})
	}
}

// Catalog exposes the underlying catalog, used by the web package's
// introspection endpoints.
func (e *Executor) Catalog() *catalog.Catalog { return e.cat }
