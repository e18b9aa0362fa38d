package presolve

// TrivialPresolve runs one full round of trivial presolve (spec.md §4.3):
// recompute locks if dual reductions are enabled, sweep columns, recompute
// activities from scratch, sweep rows, then flush the round's deletions
// and fixed-column constants. It is the entry point the driver calls once
// per round before handing control to the independent presolve methods.
func (pu *ProblemUpdate[T]) TrivialPresolve() PresolveStatus {
	if pu.options.DualReds != DualRedsOff {
		pu.recomputeLocks()
	}

	status := pu.trivialColumnPresolve()
	if status == Infeasible || status == UnbndOrInfeas {
		return status
	}

	pu.RecomputeAllActivities()

	rowStatus := pu.trivialRowPresolve()
	if rowStatus == Infeasible {
		return rowStatus
	}
	if rowStatus == Reduced {
		status = Reduced
	}

	// Re-seed changed_activities with every row whose activity is close
	// enough to definite (at most one infinite contributor on the side
	// that still has a finite row bound) that a later coefficient or
	// bound change could make it redundant, so flush's redundancy check
	// sees it even though nothing touched it this round.
	for row := 0; row < pu.problem.NRows(); row++ {
		if pu.problem.IsRowRedundant(row) {
			continue
		}
		act := pu.activities.Get(row)
		lhsInf, rhsInf := pu.problem.IsLhsInf(row), pu.problem.IsRhsInf(row)
		if act.NInfMin == 0 || act.NInfMax == 0 ||
			(act.NInfMax == 1 && !rhsInf) || (act.NInfMin == 1 && !lhsInf) {
			pu.changedActivities = append(pu.changedActivities, row)
		}
	}

	flushStatus := pu.Flush()
	if flushStatus == Infeasible || flushStatus == UnbndOrInfeas {
		return flushStatus
	}
	if flushStatus == Reduced {
		status = Reduced
	}

	return status
}

// markRowRedundant flags row as redundant, shrinks its logical size so
// iteration skips it, and tracks it in redundantRows for compress/flush
// (spec.md §4.3).
func (pu *ProblemUpdate[T]) markRowRedundant(row int) {
	if pu.problem.RFlags[row]&RowRedundant != 0 {
		return
	}
	pu.problem.RFlags[row] |= RowRedundant
	pu.redundantRows.Set(uint(row))
	pu.stats.DeletedRows++
	pu.markRowState(row, StateModified)
}

// recomputeLocks rebuilds every column's up/down lock counts from the
// current matrix and row sides (spec.md GLOSSARY "Lock"): a positive
// coefficient makes decreasing the column threaten the row's finite lhs
// (down-lock) and increasing it threaten the row's finite rhs (up-lock);
// a negative coefficient swaps the two. TrivialPresolve calls this before
// trivialColumnPresolve's dual fixing so locks reflect the problem as it
// stands this round.
func (pu *ProblemUpdate[T]) recomputeLocks() {
	p := pu.problem
	for c := range p.Locks {
		p.Locks[c] = Lock{}
	}

	for r := 0; r < p.NRows(); r++ {
		if p.Matrix.RowSize(r) == deletedSize || p.IsRowRedundant(r) {
			continue
		}
		lhsFinite := !p.IsLhsInf(r)
		rhsFinite := !p.IsRhsInf(r)
		if !lhsFinite && !rhsFinite {
			continue
		}
		for _, e := range p.Matrix.RowNonzeros(r) {
			sign := pu.num.Sign(e.Val)
			if sign == 0 {
				continue
			}
			if sign > 0 {
				if lhsFinite {
					p.Locks[e.Col].Down++
				}
				if rhsFinite {
					p.Locks[e.Col].Up++
				}
			} else {
				if rhsFinite {
					p.Locks[e.Col].Down++
				}
				if lhsFinite {
					p.Locks[e.Col].Up++
				}
			}
		}
	}
}

// isDualfixEnabled reports whether dual fixing should be attempted for
// col under the configured aggressiveness (spec.md §4.3).
func (pu *ProblemUpdate[T]) isDualfixEnabled(col int) bool {
	switch pu.options.DualReds {
	case DualRedsOff:
		return false
	case DualRedsNonzeroObj:
		return !pu.num.IsZero(pu.problem.Obj[col])
	default: // DualRedsAlways
		return true
	}
}

// applyDualfix fixes col to whichever bound the objective and lock counts
// prove is optimal: if nothing can ever push col down (Locks.Down == 0)
// and the objective doesn't reward decreasing it (Obj >= 0), col can be
// fixed at its lower bound (or the problem is unbounded-or-infeasible if
// that bound is itself infinite and the objective is strictly rewarding).
// Symmetric for the upper bound (spec.md §4.3).
func (pu *ProblemUpdate[T]) applyDualfix(col int) PresolveStatus {
	if !pu.isDualfixEnabled(col) {
		return Unchanged
	}
	p := pu.problem

	if p.Locks[col].Down == 0 && !pu.num.Lt(p.Obj[col], pu.num.FromFloat64(0)) {
		if p.CFlags[col]&ColLbInf != 0 {
			if !pu.num.IsZero(p.Obj[col]) {
				pu.logger.Debug().Int("col", col).Msg("dual fixing detected unbounded-or-infeasible")
				return UnbndOrInfeas
			}
		} else {
			p.Ubs[col] = p.Lbs[col]
			p.CFlags[col] &^= ColUbInf
			pu.stats.BoundChanges++
			pu.markColFixed(col)
			return Reduced
		}
	}

	if p.Locks[col].Up == 0 && !pu.num.Gt(p.Obj[col], pu.num.FromFloat64(0)) {
		if p.CFlags[col]&ColUbInf != 0 {
			if !pu.num.IsZero(p.Obj[col]) {
				pu.logger.Debug().Int("col", col).Msg("dual fixing detected unbounded-or-infeasible")
				return UnbndOrInfeas
			}
		} else {
			p.Lbs[col] = p.Ubs[col]
			p.CFlags[col] &^= ColLbInf
			pu.stats.BoundChanges++
			pu.markColFixed(col)
			return Reduced
		}
	}

	return Unchanged
}

// markHugeValues sets the huge flags on col's bounds once they exceed the
// configured huge-value magnitude, which is what IsLbUseless/IsUbUseless
// test in addition to the infinite flags (spec.md §4.3).
func (pu *ProblemUpdate[T]) markHugeValues(col int) {
	p := pu.problem
	if p.CFlags[col]&ColLbInf == 0 && pu.num.IsHugeVal(p.Lbs[col]) {
		p.CFlags[col] |= ColLbHuge
	}
	if p.CFlags[col]&ColUbInf == 0 && pu.num.IsHugeVal(p.Ubs[col]) {
		p.CFlags[col] |= ColUbHuge
	}
}

// roundIntegralColumns tightens an integral column's finite bounds to the
// nearest feasible integers (spec.md §4.3, §8 scenario 1).
func (pu *ProblemUpdate[T]) roundIntegralColumns(col int) bool {
	p := pu.problem
	if !p.IsIntegral(col) {
		return false
	}
	changed := false
	if p.CFlags[col]&ColLbInf == 0 {
		ceil := pu.num.FeasCeil(p.Lbs[col])
		if !pu.num.Eq(ceil, p.Lbs[col]) {
			pu.stats.BoundChanges++
			p.Lbs[col] = ceil
			changed = true
		}
	}
	if p.CFlags[col]&ColUbInf == 0 {
		floor := pu.num.FeasFloor(p.Ubs[col])
		if !pu.num.Eq(floor, p.Ubs[col]) {
			pu.stats.BoundChanges++
			p.Ubs[col] = floor
			changed = true
		}
	}
	return changed
}

// trivialColumnPresolve sweeps every active column: rounds integral
// bounds, marks huge bounds, detects conflicting bounds, fixes columns
// whose bounds have collapsed, applies dual fixing, and (re)seeds the
// empty/singleton column queues for columns that survive all of the
// above untouched (spec.md §4.3).
func (pu *ProblemUpdate[T]) trivialColumnPresolve() PresolveStatus {
	p := pu.problem
	status := Unchanged

	for col := 0; col < p.NCols(); col++ {
		if p.IsInactive(col) {
			continue
		}

		if pu.roundIntegralColumns(col) {
			status = Reduced
		}
		pu.markHugeValues(col)

		if !p.IsUnbounded(col) {
			if pu.num.Gt(p.Lbs[col], p.Ubs[col]) {
				pu.logger.Debug().Int("col", col).Msg("trivial presolve detected conflicting bounds")
				return Infeasible
			}
			if pu.num.Eq(p.Lbs[col], p.Ubs[col]) {
				pu.markColFixed(col)
				status = Reduced
				continue
			}
		}

		dfstatus := pu.applyDualfix(col)
		if dfstatus == UnbndOrInfeas {
			return dfstatus
		}
		if dfstatus == Reduced {
			status = Reduced
			continue
		}

		switch p.Matrix.ColSize(col) {
		case 0:
			pu.emptyColumns = append(pu.emptyColumns, col)
		case 1:
			pu.singletonColumns = append(pu.singletonColumns, col)
		}
	}

	return status
}

// trivialRowPresolve sweeps every active row: empty rows are checked for
// trivial infeasibility and marked redundant; singleton rows are resolved
// via removeSingletonRow; larger rows are classified via CheckStatus and
// either marked redundant, have a side dropped to infinity (with a
// cleanup pass over now-irrelevant small coefficients), or have their
// equation flag corrected (spec.md §4.3).
func (pu *ProblemUpdate[T]) trivialRowPresolve() PresolveStatus {
	p := pu.problem
	status := Unchanged
	zero := pu.num.FromFloat64(0)

	for row := 0; row < p.NRows(); row++ {
		switch p.Matrix.RowSize(row) {
		case deletedSize:
			continue
		case 0:
			if !p.IsLhsInf(row) && pu.num.IsFeasGT(p.Matrix.Lhs(row), zero) {
				pu.logger.Debug().Int("row", row).Msg("trivial presolve detected infeasible row")
				return Infeasible
			}
			if !p.IsRhsInf(row) && pu.num.IsFeasLT(p.Matrix.Rhs(row), zero) {
				pu.logger.Debug().Int("row", row).Msg("trivial presolve detected infeasible row")
				return Infeasible
			}
			pu.markRowRedundant(row)
			status = Reduced

		case 1:
			st := pu.removeSingletonRow(row)
			if st == Infeasible {
				pu.logger.Debug().Int("row", row).Msg("removeSingletonRow detected infeasible row")
				return st
			}
			if st == Reduced {
				status = Reduced
			}

		default:
			act := pu.activities.Get(row)
			lhsInf, rhsInf := p.IsLhsInf(row), p.IsRhsInf(row)
			switch CheckStatus(pu.num, act, p.Matrix.Lhs(row), p.Matrix.Rhs(row), lhsInf, rhsInf) {
			case StatusRedundant:
				pu.markRowRedundant(row)
				status = Reduced
			case StatusRedundantLhs:
				p.RFlags[row] |= RowLhsInf
				status = Reduced
				pu.cleanupSmallCoefficients(row)
			case StatusRedundantRhs:
				p.RFlags[row] |= RowRhsInf
				status = Reduced
				pu.cleanupSmallCoefficients(row)
			case StatusInfeasible:
				return Infeasible
			case StatusUnknown:
				if !lhsInf && !rhsInf && p.RFlags[row]&RowEquation == 0 &&
					pu.num.Eq(p.Matrix.Lhs(row), p.Matrix.Rhs(row)) {
					p.RFlags[row] |= RowEquation
				}
				pu.cleanupSmallCoefficients(row)
			}
		}
	}

	pu.flushChangedCoeffs()
	return status
}

// removeSingletonRow resolves row (which must have exactly one nonzero)
// by folding its side(s) into a bound change or fix on its sole column,
// then marks it redundant regardless of outcome (spec.md §4.3, §8
// scenario 2).
func (pu *ProblemUpdate[T]) removeSingletonRow(row int) PresolveStatus {
	p := pu.problem
	if p.Matrix.RowSize(row) != 1 || p.IsRowRedundant(row) {
		return Unchanged
	}

	nz := p.Matrix.RowNonzeros(row)
	val := nz[0].Val
	col := nz[0].Col
	lhs, rhs := p.Matrix.Lhs(row), p.Matrix.Rhs(row)

	var st PresolveStatus
	switch {
	case p.RFlags[row]&RowEquation != 0:
		st = pu.fixCol(col, pu.num.Div(rhs, val))
	case pu.num.Sign(val) < 0:
		if !p.IsLhsInf(row) {
			st = pu.changeUB(col, pu.num.Div(lhs, val))
		}
		if !p.IsRhsInf(row) && st != Infeasible {
			st = pu.changeLB(col, pu.num.Div(rhs, val))
		}
	default:
		if !p.IsLhsInf(row) {
			st = pu.changeLB(col, pu.num.Div(lhs, val))
		}
		if !p.IsRhsInf(row) && st != Infeasible {
			st = pu.changeUB(col, pu.num.Div(rhs, val))
		}
	}

	pu.markRowRedundant(row)
	return st
}

// cleanupSmallCoefficients stages zeroing out row's negligible
// coefficients, folding the removed contribution into the row's sides
// when the column's lower bound is nonzero, and correcting the equation
// flag if the side adjustment happens to make lhs == rhs (spec.md §9
// "Cleanup thresholds"). Columns already fixed or substituted are skipped.
// Entries below MinAbsCoeff are dropped unconditionally; entries of
// bounded columns below the looser 1e-3 threshold are dropped
// only while the total modification stays within a budget tied to the
// feasibility tolerance, so a long run of small coefficients can't
// silently accumulate an unbounded side shift.
func (pu *ProblemUpdate[T]) cleanupSmallCoefficients(row int) {
	p := pu.problem
	nz := p.Matrix.RowNonzeros(row)
	n := len(nz)

	totalMod := pu.num.FromFloat64(0)
	minAbs := pu.num.FromFloat64(pu.options.MinAbsCoeff)
	feasTolT := pu.num.FromFloat64(pu.options.Tolerances.FeasTol)

	for _, e := range nz {
		col := e.Col
		if p.IsInactive(col) {
			continue
		}

		absval := pu.abs(e.Val)

		if pu.num.Lt(absval, minAbs) {
			pu.buffer.Stage(row, col, pu.num.FromFloat64(0))
			continue
		}

		if p.CFlags[col].Unbounded() {
			continue
		}

		span := pu.num.Sub(p.Ubs[col], p.Lbs[col])
		lenT := pu.num.FromFloat64(float64(n))
		smallBound := pu.num.FromFloat64(1e-3)
		budget := pu.num.Mul(pu.num.FromFloat64(1e-2), feasTolT)

		if pu.num.Lt(absval, smallBound) && !pu.num.Gt(pu.num.Mul(pu.num.Mul(absval, span), lenT), budget) {
			candidate := pu.num.Add(totalMod, pu.num.Mul(absval, span))
			tightBudget := pu.num.Mul(pu.num.FromFloat64(0.1), feasTolT)
			if !pu.num.Gt(candidate, tightBudget) {
				pu.buffer.Stage(row, col, pu.num.FromFloat64(0))

				if !pu.num.IsZero(p.Lbs[col]) {
					sideChange := pu.num.Mul(e.Val, p.Lbs[col])
					if !p.IsRhsInf(row) {
						p.Matrix.SetRhs(row, pu.num.Sub(p.Matrix.Rhs(row), sideChange))
						pu.stats.SideChanges++
					}
					if !p.IsLhsInf(row) {
						p.Matrix.SetLhs(row, pu.num.Sub(p.Matrix.Lhs(row), sideChange))
						pu.stats.SideChanges++
					}
					if !p.IsLhsInf(row) && !p.IsRhsInf(row) && p.RFlags[row]&RowEquation == 0 &&
						pu.num.Eq(p.Matrix.Lhs(row), p.Matrix.Rhs(row)) {
						p.RFlags[row] |= RowEquation
					}
				}

				totalMod = candidate
			}
		}
	}
}

func (pu *ProblemUpdate[T]) abs(x T) T {
	if pu.num.Sign(x) < 0 {
		return pu.num.Sub(pu.num.FromFloat64(0), x)
	}
	return x
}
