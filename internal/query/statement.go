package query

import (
	"fmt"

	"teachdb/internal/sql/parser"
)

// predicateFromCondition translates a parsed WHERE condition into the
// Predicate type Fold operates on. The two types are deliberately
// parallel (parser.Condition has no dependency on this package, keeping
// the grammar decoupled from the execution strategy) so this is a plain
// field copy.
func predicateFromCondition(c parser.Condition) Predicate {
	return Predicate{
		Column: Column(c.Column),
		Op:     Comparator(c.Op),
		IntVal: c.IntVal,
		StrVal: c.StrVal,
	}
}

// Run executes a parsed statement against exec, dispatching to Select or
// Load depending on its concrete type. The returned value is either a
// *Result (for a SELECT) or an int row count (for a LOAD).
func (e *Executor) Run(stmt parser.Statement) (interface{}, error) {
	switch s := stmt.(type) {
	case *parser.SelectStatement:
		preds := make([]Predicate, len(s.Where))
		for i, c := range s.Where {
			preds[i] = predicateFromCondition(c)
		}
		res, err := e.Select(s.Table, Target(s.Target), preds)
		if err != nil {
			return nil, err
		}
		return &res, nil
	case *parser.LoadStatement:
		n, err := e.Load(s.Table, s.Path, s.WithIndex)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}
