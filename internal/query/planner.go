package query

import "math"

// Plan is the result of folding a WHERE clause's predicates: a key range
// (or exact key) tight enough to drive an index scan, plus whatever
// predicates could not be folded into that range and must be re-checked
// against every candidate row.
type Plan struct {
	Target Target

	HaveEqual bool
	EqualVal  int32

	HaveMin bool
	MinVal  int32 // inclusive

	HaveMax bool
	MaxVal  int32 // inclusive

	// Contradiction is true when the folded bounds can never be satisfied
	// (e.g. key = 5 AND key = 6, or key > 10 AND key < 10); the executor
	// can skip scanning entirely.
	Contradiction bool

	// KeyOther holds key-column predicates folding could not absorb into
	// the range (only != falls here, see Fold).
	KeyOther []Predicate

	// ValueConds holds every value-column predicate; folding never
	// narrows these into a range since the index is not keyed on value.
	ValueConds []Predicate

	// UseIndex is Fold's recommendation; the executor still requires an
	// index to actually be attached to the table before honoring it.
	UseIndex bool
}

// Fold classifies a WHERE clause's predicates into a Plan.
//
// Each GT/LT is normalized into an inclusive bound one step tighter
// (key > v becomes an inclusive min of v+1, key < v becomes an inclusive
// max of v-1) so the plan only ever has to reason about <= and >=. With
// bounds always normalized to inclusive, a contradiction is simply
// minVal > maxVal.
func Fold(target Target, preds []Predicate) Plan {
	plan := Plan{Target: target}

	haveEqual, haveMin, haveMax := false, false, false
	var equalVal, minVal, maxVal int32

	for _, p := range preds {
		if p.Column == ColumnValue {
			plan.ValueConds = append(plan.ValueConds, p)
			continue
		}

		switch p.Op {
		case OpEQ:
			if haveEqual && equalVal != p.IntVal {
				return Plan{Target: target, Contradiction: true}
			}
			haveEqual = true
			equalVal = p.IntVal

		case OpGE:
			if !haveMin || p.IntVal > minVal {
				minVal = p.IntVal
			}
			haveMin = true

		case OpGT:
			v := tighten(p.IntVal, 1)
			if !haveMin || v > minVal {
				minVal = v
			}
			haveMin = true

		case OpLE:
			if !haveMax || p.IntVal < maxVal {
				maxVal = p.IntVal
			}
			haveMax = true

		case OpLT:
			v := tighten(p.IntVal, -1)
			if !haveMax || v < maxVal {
				maxVal = v
			}
			haveMax = true

		case OpNE:
			plan.KeyOther = append(plan.KeyOther, p)
		}
	}

	if haveMin && haveMax && minVal > maxVal {
		return Plan{Target: target, Contradiction: true}
	}
	if haveEqual && haveMin && equalVal < minVal {
		return Plan{Target: target, Contradiction: true}
	}
	if haveEqual && haveMax && equalVal > maxVal {
		return Plan{Target: target, Contradiction: true}
	}

	var equalStr *string
	for _, p := range plan.ValueConds {
		if p.Op != OpEQ {
			continue
		}
		if equalStr != nil && *equalStr != p.StrVal {
			return Plan{Target: target, Contradiction: true}
		}
		s := p.StrVal
		equalStr = &s
	}

	plan.HaveEqual, plan.EqualVal = haveEqual, equalVal
	plan.HaveMin, plan.MinVal = haveMin, minVal
	plan.HaveMax, plan.MaxVal = haveMax, maxVal

	// COUNT(*) never needs the heap file if the only predicates are on
	// the key (or there are none at all): an index-only scan can answer
	// it, so the index is always preferred when one is attached.
	if target == TargetCount {
		plan.UseIndex = true
	} else {
		plan.UseIndex = haveEqual || haveMin || haveMax
	}

	return plan
}

func tighten(v int32, delta int) int32 {
	d := int64(v) + int64(delta)
	if d > math.MaxInt32 {
		return math.MaxInt32
	}
	if d < math.MinInt32 {
		return math.MinInt32
	}
	return int32(d)
}
