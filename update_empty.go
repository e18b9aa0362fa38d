package presolve

import "gopkg.in/dnaeon/go-priorityqueue.v1"

// emptyColumnOrder drains cols into a best-first ordering by |objective|
// descending, so removeEmptyColumns resolves the columns whose fix moves
// the objective the most first. The fixes are independent of each other,
// so this only affects which column a reader sees settled earliest, not
// the outcome.
func (pu *ProblemUpdate[T]) emptyColumnOrder(cols []int) []int {
	pq := priorityqueue.New[int, float64](priorityqueue.MinHeap)
	for _, col := range cols {
		pq.Put(col, -pu.num.ToFloat64(pu.abs(pu.problem.Obj[col])))
	}
	ordered := make([]int, 0, len(cols))
	for pq.Len() != 0 {
		ordered = append(ordered, pq.Get().Value)
	}
	return ordered
}

// removeEmptyColumns fixes every column on the empty-column queue that is
// genuinely still empty: to zero when the objective is zero (clamped
// toward whichever bound straddles zero, if any), otherwise to whichever
// bound optimizes the objective, detecting unbounded-or-infeasible when
// that bound doesn't exist (spec.md §4.3, §8 scenario 4). Disabled when
// dual reductions are off, since "no objective contribution, no
// constraints" is itself a dual argument.
func (pu *ProblemUpdate[T]) removeEmptyColumns() PresolveStatus {
	if pu.options.DualReds == DualRedsOff || len(pu.emptyColumns) == 0 {
		return Unchanged
	}

	p := pu.problem
	zero := pu.num.FromFloat64(0)

	for _, col := range pu.emptyColumnOrder(pu.emptyColumns) {
		if p.Matrix.ColSize(col) != 0 {
			continue
		}
		if p.IsInactive(col) {
			continue
		}

		var fixval T
		if pu.num.IsZero(p.Obj[col]) {
			fixval = zero
			if p.CFlags[col]&ColUbInf == 0 && pu.num.Lt(p.Ubs[col], zero) {
				fixval = p.Ubs[col]
			} else if p.CFlags[col]&ColLbInf == 0 && pu.num.Gt(p.Lbs[col], zero) {
				fixval = p.Lbs[col]
			}
		} else if pu.num.Sign(p.Obj[col]) < 0 {
			if p.CFlags[col]&ColUbInf != 0 {
				return UnbndOrInfeas
			}
			fixval = p.Ubs[col]
			p.ObjOffset = pu.num.Add(p.ObjOffset, pu.num.Mul(p.Obj[col], fixval))
			p.Obj[col] = zero
		} else {
			if p.CFlags[col]&ColLbInf != 0 {
				return UnbndOrInfeas
			}
			fixval = p.Lbs[col]
			p.ObjOffset = pu.num.Add(p.ObjOffset, pu.num.Mul(p.Obj[col], fixval))
			p.Obj[col] = zero
		}

		pu.postsolve.Append(PostsolveEvent[T]{Kind: EventFixedCol, Col: col, Val1: fixval})
		p.CFlags[col] |= ColFixed

		pu.stats.DeletedCols++
		if p.IsIntegral(col) {
			p.NumIntegralCols--
		} else {
			p.NumContinuousCols--
		}

		p.Matrix.MarkColDeleted(col)
	}

	pu.emptyColumns = pu.emptyColumns[:0]
	return Reduced
}
