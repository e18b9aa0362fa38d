package presolve

// RowActivity holds the running [min, max] bounds on a row's value given
// current column bounds, plus the counts of infinite/huge contributors
// that keep min/max from being a definite value (spec.md §2.4, GLOSSARY).
type RowActivity[T any] struct {
	Min, Max       T
	NInfMin        int
	NInfMax        int
	LastChange     int // round epoch this row was last updated, spec.md §4.2
}

// RowStatusKind is the result of comparing a RowActivity against a row's
// sides (spec.md §4.3).
type RowStatusKind int

const (
	StatusUnknown RowStatusKind = iota
	StatusRedundant
	StatusRedundantLhs
	StatusRedundantRhs
	StatusInfeasible
)

// CheckStatus compares activity against [lhs, rhs] and classifies the row.
// A row is Redundant if both sides are implied by the activity bounds;
// RedundantLhs/RedundantRhs if only one side is implied (the other side's
// slack can be dropped to infinity); Infeasible if the activity bounds
// cannot reach a side at all; Unknown otherwise. This is kept as a
// standalone exported helper (SPEC_FULL.md §4) because both
// trivialRowPresolve and flush's redundancy check call it.
func CheckStatus[T any](n Num[T], act RowActivity[T], lhs, rhs T, lhsInf, rhsInf bool) RowStatusKind {
	// A side can only be "implied" (i.e. the row can't violate it) when the
	// corresponding activity bound is definite, i.e. backed by at most one
	// infinite contributor canceling out is not good enough: exactly zero
	// infinite contributors are required for a proven implication, since a
	// single infinite contributor could in principle be driven back toward
	// finite and break the bound.
	maxImpliesRhs := rhsInf || (act.NInfMax == 0 && !n.IsFeasGT(act.Max, rhs))
	minImpliesLhs := lhsInf || (act.NInfMin == 0 && !n.IsFeasLT(act.Min, lhs))

	maxViolatesLhs := !lhsInf && act.NInfMax == 0 && n.IsFeasLT(act.Max, lhs)
	minViolatesRhs := !rhsInf && act.NInfMin == 0 && n.IsFeasGT(act.Min, rhs)

	if maxViolatesLhs || minViolatesRhs {
		return StatusInfeasible
	}

	switch {
	case minImpliesLhs && maxImpliesRhs:
		return StatusRedundant
	case minImpliesLhs && !maxImpliesRhs:
		return StatusRedundantLhs
	case !minImpliesLhs && maxImpliesRhs:
		return StatusRedundantRhs
	default:
		return StatusUnknown
	}
}

// Activities is the per-row table of RowActivity values.
type Activities[T any] struct {
	rows []RowActivity[T]
}

// NewActivities allocates an Activities table for nrows rows, all zeroed
// (the caller is expected to populate it via Recompute before first use).
func NewActivities[T any](nrows int) *Activities[T] {
	return &Activities[T]{rows: make([]RowActivity[T], nrows)}
}

func (a *Activities[T]) Get(row int) RowActivity[T] { return a.rows[row] }
func (a *Activities[T]) Set(row int, v RowActivity[T]) { a.rows[row] = v }
func (a *Activities[T]) Len() int { return len(a.rows) }

// Compact reindexes the table according to rowMap (rowMap[old] is the new
// index, or -1 if old was removed), mirroring ConstraintMatrix.Compact so
// the two stay in lockstep after a compression pass.
func (a *Activities[T]) Compact(rowMap []int) {
	newRows := make([]RowActivity[T], 0, len(a.rows))
	for old, act := range a.rows {
		if rowMap[old] < 0 {
			continue
		}
		newRows = append(newRows, act)
	}
	a.rows = newRows
}

// Recompute rebuilds row's activity from scratch by scanning its nonzeros
// and the current column bounds, used by Problem construction and by the
// "recompute activities from scratch" property test (spec.md §8). Each
// nonzero adds coef*lb or coef*ub to Min and Max according to the sign of
// coef; a useless bound is counted in NInfMin/NInfMax instead.
func (a *Activities[T]) Recompute(n Num[T], row int, nz []rowEntry[T],
	lb, ub func(col int) T, lbUseless, ubUseless func(col int) bool) {

	zero := n.FromFloat64(0)
	act := RowActivity[T]{Min: zero, Max: zero}

	for _, e := range nz {
		col := e.Col
		coef := e.Val
		sign := n.Sign(coef)
		if sign == 0 {
			continue
		}

		// Positive coefficient: lb contributes to Min, ub contributes to
		// Max. Negative coefficient: the contributions flip.
		lo, lu := lb(col), lbUseless(col)
		up, uu := ub(col), ubUseless(col)

		if sign > 0 {
			if lu {
				act.NInfMin++
			} else {
				act.Min = n.Add(act.Min, n.Mul(coef, lo))
			}
			if uu {
				act.NInfMax++
			} else {
				act.Max = n.Add(act.Max, n.Mul(coef, up))
			}
		} else {
			if uu {
				act.NInfMin++
			} else {
				act.Min = n.Add(act.Min, n.Mul(coef, up))
			}
			if lu {
				act.NInfMax++
			} else {
				act.Max = n.Add(act.Max, n.Mul(coef, lo))
			}
		}
	}

	act.LastChange = a.rows[row].LastChange
	a.rows[row] = act
}
