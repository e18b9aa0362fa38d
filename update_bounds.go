package presolve

// ActivityChange selects which side of a row's activity a column's
// contribution feeds when one of its bounds changes (spec.md §4.2).
type ActivityChange int

const (
	ActivityChangeLower ActivityChange = iota
	ActivityChangeUpper
)

// updateActivitiesAfterBoundChange scans colNz (the changed column's row
// nonzeros), applying the delta from oldBound to newBound to each
// affected row's Min/Max/NInfMin/NInfMax, then calls notify(row) so the
// caller can run the round-based duplicate-enqueue guard without
// re-scanning. wasUseless is the column's useless flag for this bound
// *before* the change: when true the old bound never contributed and
// only the new one is added in; when false the old contribution is
// removed and the new one added.
func (pu *ProblemUpdate[T]) updateActivitiesAfterBoundChange(colNz []colEntry[T],
	change ActivityChange, oldBound, newBound T, wasUseless bool, notify func(row int)) {

	for _, e := range colNz {
		row := e.Row
		coef := e.Val
		sign := pu.num.Sign(coef)
		if sign == 0 {
			continue
		}

		feedsMin := (change == ActivityChangeLower && sign > 0) ||
			(change == ActivityChangeUpper && sign < 0)

		act := pu.activities.Get(row)
		if feedsMin {
			if wasUseless {
				act.NInfMin--
			} else {
				act.Min = pu.num.Sub(act.Min, pu.num.Mul(coef, oldBound))
			}
			act.Min = pu.num.Add(act.Min, pu.num.Mul(coef, newBound))
		} else {
			if wasUseless {
				act.NInfMax--
			} else {
				act.Max = pu.num.Sub(act.Max, pu.num.Mul(coef, oldBound))
			}
			act.Max = pu.num.Add(act.Max, pu.num.Mul(coef, newBound))
		}
		pu.activities.Set(row, act)
		notify(row)
	}
}

// updateActivity is the per-row duplicate-enqueue guard: it does not touch
// Min/Max itself (updateActivitiesAfterBoundChange already did), it only
// decides whether row should be (re)pushed onto changedActivities this
// round. A row already visited this round, already redundant, or still
// carrying 2+ infinite contributors on the changed side is skipped: with
// 2+ infinite contributors a single bound change can't have made the
// corresponding Min/Max definite, so there's nothing new for a caller to
// act on (spec.md §4.2).
func (pu *ProblemUpdate[T]) updateActivity(change ActivityChange, row int) {
	act := pu.activities.Get(row)

	if act.LastChange == pu.stats.Rounds {
		return
	}
	if change == ActivityChangeLower && act.NInfMin > 1 {
		return
	}
	if change == ActivityChangeUpper && act.NInfMax > 1 {
		return
	}
	if pu.problem.IsRowRedundant(row) {
		return
	}

	act.LastChange = pu.stats.Rounds
	pu.activities.Set(row, act)
	pu.changedActivities = append(pu.changedActivities, row)
}

// markColFixed sets the fixed flag on col, queues it for removeFixedCols
// to fold its constant contribution into row sides, and updates the
// integral/continuous column counts (spec.md §4.2, §4.3).
func (pu *ProblemUpdate[T]) markColFixed(col int) {
	p := pu.problem
	p.CFlags[col] |= ColFixed
	pu.deletedCols.Set(uint(col))
	pu.stats.DeletedCols++
	if p.IsIntegral(col) {
		p.NumIntegralCols--
	} else {
		p.NumContinuousCols--
	}
}

// fixCol fixes col to val (spec.md §4.2). Substituted columns are a no-op.
// Bound-violation and integrality are checked together, as a single OR,
// before any mutation — matching the original's combined infeasibility
// test rather than three sequential branches. Activities are only scanned
// once per changed bound (lb, ub), not once per call.
func (pu *ProblemUpdate[T]) fixCol(col int, val T) PresolveStatus {
	p := pu.problem
	if p.CFlags[col]&ColSubstituted != 0 {
		return Unchanged
	}

	lbChanged := p.IsLbUseless(col) || !pu.num.Eq(val, p.Lbs[col])
	ubChanged := p.IsUbUseless(col) || !pu.num.Eq(val, p.Ubs[col])

	if !lbChanged && !ubChanged {
		return Unchanged
	}

	violatesLb := !p.IsLbUseless(col) && pu.num.IsFeasLT(val, p.Lbs[col])
	violatesUb := !p.IsUbUseless(col) && pu.num.IsFeasGT(val, p.Ubs[col])
	violatesIntegrality := p.IsIntegral(col) && !pu.num.IsFeasIntegral(val)

	if violatesLb || violatesUb || violatesIntegrality {
		pu.logger.Debug().
			Int("col", col).
			Float64("val", pu.num.ToFloat64(val)).
			Msg("fixing column to value was detected to be infeasible")
		return Infeasible
	}

	if p.CFlags[col]&ColFixed != 0 {
		return Unchanged
	}

	pu.stats.BoundChanges++

	colNz := p.Matrix.ColNonzeros(col)

	if lbChanged {
		wasUseless := p.IsLbUseless(col)
		oldLb := p.Lbs[col]
		pu.updateActivitiesAfterBoundChange(colNz, ActivityChangeLower, oldLb, val, wasUseless,
			func(row int) { pu.updateActivity(ActivityChangeLower, row) })
		p.Lbs[col] = val
		p.CFlags[col] &^= ColLbInf | ColLbHuge | ColLbUseless
	}

	if ubChanged {
		wasUseless := p.IsUbUseless(col)
		oldUb := p.Ubs[col]
		pu.updateActivitiesAfterBoundChange(colNz, ActivityChangeUpper, oldUb, val, wasUseless,
			func(row int) { pu.updateActivity(ActivityChangeUpper, row) })
		p.Ubs[col] = val
		p.CFlags[col] &^= ColUbInf | ColUbHuge | ColUbUseless
	}

	pu.markColFixed(col)
	pu.markColState(col, StateBoundsModified)
	return Reduced
}

// fixColInfinity fixes an unbounded column off to infinity, encoded by
// val's sign since T has no infinite value of its own (spec.md §9).
//
// The original source asserts, unconditionally, both `val < 0 &&
// !kLbInf` and `val > 0 && !kUbInf` — which for any nonzero val makes one
// of the two conjuncts always false, an assertion that can never hold.
// Per spec.md §9's open question, the precondition actually intended is
// the disjunctive reading below: fixing to -infinity requires a finite
// lower bound to still be meaningless (i.e. the lower side genuinely is
// the infinite one being discarded), fixing to +infinity requires the
// symmetric condition on the upper side.
func (pu *ProblemUpdate[T]) fixColInfinity(col int, val T) PresolveStatus {
	p := pu.problem
	if p.CFlags[col]&ColSubstituted != 0 || p.CFlags[col]&ColFixed != 0 || pu.num.IsZero(val) {
		return Unchanged
	}

	sign := pu.num.Sign(val)
	if sign < 0 && !p.IsLbUseless(col) {
		return Unchanged
	}
	if sign > 0 && !p.IsUbUseless(col) {
		return Unchanged
	}

	// No activity scan here: a column fixed to infinity only makes sense
	// once every row it appears in has already been marked redundant by
	// the caller, so there is nothing left to update.
	pu.markColFixed(col)
	pu.markColState(col, StateBoundsModified)
	return Reduced
}

// changeLB tightens col's lower bound to val, rounding to the nearest
// feasible integer first for integral/implied-integer columns, clamping
// against the upper bound, and detecting the lb>ub infeasibility case
// (spec.md §4.2).
func (pu *ProblemUpdate[T]) changeLB(col int, val T) PresolveStatus {
	p := pu.problem
	if p.CFlags[col]&ColSubstituted != 0 {
		return Unchanged
	}

	newbound := val
	if p.IsIntegral(col) {
		newbound = pu.num.FeasCeil(newbound)
	}

	if p.CFlags[col]&ColLbInf == 0 && !pu.num.Gt(newbound, p.Lbs[col]) {
		// newbound does not tighten the existing finite lower bound.
		return Unchanged
	}

	pu.stats.BoundChanges++

	if p.CFlags[col]&ColUbInf == 0 && pu.num.Gt(newbound, p.Ubs[col]) {
		if pu.num.IsFeasGT(newbound, p.Ubs[col]) {
			pu.logger.Debug().Int("col", col).Msg("changing lower bound was detected to be infeasible")
			return Infeasible
		}
		if p.CFlags[col]&ColLbInf == 0 && pu.num.Eq(p.Lbs[col], p.Ubs[col]) {
			return Unchanged
		}
		newbound = p.Ubs[col]
	}

	if !pu.num.IsHugeVal(newbound) {
		colNz := p.Matrix.ColNonzeros(col)
		wasUseless := p.IsLbUseless(col)
		oldLb := p.Lbs[col]
		pu.updateActivitiesAfterBoundChange(colNz, ActivityChangeLower, oldLb, newbound, wasUseless,
			func(row int) { pu.updateActivity(ActivityChangeLower, row) })
		p.CFlags[col] &^= ColLbHuge | ColLbUseless
	}
	p.CFlags[col] &^= ColLbInf
	p.Lbs[col] = newbound

	if p.CFlags[col]&ColUbInf == 0 && pu.num.Eq(p.Ubs[col], p.Lbs[col]) {
		pu.markColFixed(col)
	}

	pu.markColState(col, StateBoundsModified)
	return Reduced
}

// changeUB tightens col's upper bound to val, the mirror image of
// changeLB (spec.md §4.2).
func (pu *ProblemUpdate[T]) changeUB(col int, val T) PresolveStatus {
	p := pu.problem
	if p.CFlags[col]&ColSubstituted != 0 {
		return Unchanged
	}

	newbound := val
	if p.IsIntegral(col) {
		newbound = pu.num.FeasFloor(newbound)
	}

	if p.CFlags[col]&ColUbInf == 0 && !pu.num.Lt(newbound, p.Ubs[col]) {
		return Unchanged
	}

	pu.stats.BoundChanges++

	if p.CFlags[col]&ColLbInf == 0 && pu.num.Lt(newbound, p.Lbs[col]) {
		if pu.num.IsFeasLT(newbound, p.Lbs[col]) {
			pu.logger.Debug().Int("col", col).Msg("changing upper bound was detected to be infeasible")
			return Infeasible
		}
		if p.CFlags[col]&ColUbInf == 0 && pu.num.Eq(p.Lbs[col], p.Ubs[col]) {
			return Unchanged
		}
		newbound = p.Lbs[col]
	}

	if !pu.num.IsHugeVal(newbound) {
		colNz := p.Matrix.ColNonzeros(col)
		wasUseless := p.IsUbUseless(col)
		oldUb := p.Ubs[col]
		pu.updateActivitiesAfterBoundChange(colNz, ActivityChangeUpper, oldUb, newbound, wasUseless,
			func(row int) { pu.updateActivity(ActivityChangeUpper, row) })
		p.CFlags[col] &^= ColUbHuge | ColUbUseless
	}
	p.CFlags[col] &^= ColUbInf
	p.Ubs[col] = newbound

	if p.CFlags[col]&ColLbInf == 0 && pu.num.Eq(p.Lbs[col], p.Ubs[col]) {
		pu.markColFixed(col)
	}

	pu.markColState(col, StateBoundsModified)
	return Reduced
}
