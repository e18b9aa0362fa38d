package presolve

// checkTransactionConflicts inspects every reduction in txn against the
// engine's current Locked/Modified/BoundsModified state, returning
// Conflict or Postpone at the first reduction that can't be safely
// applied right now (spec.md §4.5 conflict table). SUBSTITUTE/REPLACE/
// SPARSIFY postpone rather than conflict when postponeSubstitutions is
// set, so the driver can defer expensive aggregations to a final phase.
func (pu *ProblemUpdate[T]) checkTransactionConflicts(txn Transaction[T]) ConflictType {
	for _, r := range txn.Reductions {
		switch r.Kind {
		case KindCoefChange:
			if pu.colState[r.Col]&StateLocked != 0 || pu.rowState[r.Row]&StateLocked != 0 {
				return Conflict
			}

		case KindColOp:
			switch r.ColOp {
			case ColOpLocked, ColOpLockedStrong:
				if pu.colState[r.Col]&StateModified != 0 {
					return Conflict
				}
			case ColOpObjective:
				if pu.colState[r.Col]&StateLocked != 0 {
					return Conflict
				}
			case ColOpFixed, ColOpFixedInfinity, ColOpLowerBound, ColOpUpperBound, ColOpImplInt:
				if pu.colState[r.Col]&StateBoundsModified != 0 {
					return Conflict
				}
			case ColOpParallel, ColOpSubstituteObj:
				// Columns participating in the substitution equation may
				// still be mutated concurrently; this mirrors the original's
				// own TODO rather than asserting a check it never made.
			case ColOpSubstitute, ColOpReplace:
				if pu.postponeSubstitutions {
					return Postpone
				}
			}

		case KindRowOp:
			switch r.RowOp {
			case RowOpLocked, RowOpLockedStrong:
				if pu.rowState[r.Row]&(StateModified|StateBoundsModified) != 0 {
					return Conflict
				}
			case RowOpLhs, RowOpLhsInf, RowOpRhs, RowOpRhsInf:
				if pu.rowState[r.Row]&StateLocked != 0 {
					return Conflict
				}
			case RowOpSparsify:
				if pu.postponeSubstitutions {
					return Postpone
				}
			}
		}
	}

	return NoConflict
}

// ApplyTransaction checks txn for conflicts and, if clear, applies every
// reduction in order, marking state before mutating and aborting on the
// first Infeasible result (spec.md §4.5). Partially applied mutations are
// left in place on infeasibility, matching the original's "the driver
// discards further reductions" contract.
func (pu *ProblemUpdate[T]) ApplyTransaction(txn Transaction[T]) ApplyResult {
	switch pu.checkTransactionConflicts(txn) {
	case Conflict:
		pu.logger.Debug().Int("reductions", len(txn.Reductions)).Msg("transaction rejected on conflict")
		return Rejected
	case Postpone:
		return Postponed
	}

	for _, r := range txn.Reductions {
		switch r.Kind {
		case KindCoefChange:
			pu.markRowState(r.Row, StateModified)
			pu.markColState(r.Col, StateModified)
			pu.buffer.Stage(r.Row, r.Col, r.Val)

		case KindColOp:
			if pu.applyColOp(r) == Infeasible {
				return ApplyInfeasible
			}

		case KindRowOp:
			if pu.applyRowOp(r) == Infeasible {
				return ApplyInfeasible
			}
		}
	}

	return Applied
}

// applyColOp mutates Problem for a single column-operation reduction,
// marking the affected state before the mutation as applyTransaction's
// contract requires (spec.md §4.5).
func (pu *ProblemUpdate[T]) applyColOp(r Reduction[T]) PresolveStatus {
	p := pu.problem
	col := r.Col

	switch r.ColOp {
	case ColOpLockedStrong:
		pu.markColState(col, StateLocked)
	case ColOpObjective:
		pu.markColState(col, StateModified)
		p.Obj[col] = r.Val
	case ColOpFixed:
		return pu.fixCol(col, r.Val)
	case ColOpFixedInfinity:
		return pu.fixColInfinity(col, r.Val)
	case ColOpLowerBound:
		return pu.changeLB(col, r.Val)
	case ColOpUpperBound:
		return pu.changeUB(col, r.Val)
	case ColOpImplInt:
		if p.IsInactive(col) {
			return Unchanged
		}
		p.CFlags[col] |= ColImplInt
		if p.CFlags[col]&ColLbInf == 0 {
			if pu.changeLB(col, p.Lbs[col]) == Infeasible {
				return Infeasible
			}
		}
		if p.CFlags[col]&ColUbInf == 0 {
			if pu.changeUB(col, p.Ubs[col]) == Infeasible {
				return Infeasible
			}
		}
	case ColOpSubstitute:
		return pu.applySubstitute(col, r, false)
	case ColOpSubstituteObj:
		return pu.applySubstitute(col, r, true)
	case ColOpParallel:
		return pu.applyParallel(col, r)
	case ColOpReplace:
		return pu.applyReplace(col, r)
	}

	return Reduced
}

// applyRowOp mutates Problem for a single row-operation reduction
// (spec.md §4.5).
func (pu *ProblemUpdate[T]) applyRowOp(r Reduction[T]) PresolveStatus {
	p := pu.problem
	row := r.Row

	switch r.RowOp {
	case RowOpLockedStrong:
		pu.markRowState(row, StateLocked)
	case RowOpLhs:
		pu.markRowState(row, StateModified)
		p.Matrix.SetLhs(row, r.Val)
	case RowOpRhs:
		pu.markRowState(row, StateModified)
		p.Matrix.SetRhs(row, r.Val)
	case RowOpLhsInf:
		pu.markRowState(row, StateModified)
		p.RFlags[row] |= RowLhsInf
	case RowOpRhsInf:
		pu.markRowState(row, StateModified)
		p.RFlags[row] |= RowRhsInf
	case RowOpRedundant:
		pu.markRowRedundant(row)
	case RowOpSparsify:
		return pu.applySparsify(row, r)
	}

	return Reduced
}

// checkAggregationSparsityCondition bounds the fill-in and per-row side
// shift an aggregation substitution would introduce: the fill-in, counted
// as (equality length - 1) for every other row containing col, must not
// exceed MaxFillinPerSubstitution times col's size (at least 1), and for
// every such row |a_rc|*|equality rhs| must not exceed MaxShiftPerRow
// times the equality length (spec.md §4.5 SUBSTITUTE).
func (pu *ProblemUpdate[T]) checkAggregationSparsityCondition(col, equalityRow int) bool {
	p := pu.problem
	return pu.checkAggregationSparsityConditionLen(col, equalityRow, p.Matrix.RowSize(equalityRow), p.Matrix.Rhs(equalityRow))
}

// checkAggregationSparsityConditionLen is checkAggregationSparsityCondition
// generalized to an equality that need not be a stored matrix row: REPLACE
// aggregates over the implicit two-term equality col1 - factor*col2 =
// offset, which has a length and a side value but no row index of its own.
// skipRow, when >= 0, excludes that row's own nonzero from the fill-in
// count, since it is the equality row itself and will be marked redundant
// rather than rewritten.
func (pu *ProblemUpdate[T]) checkAggregationSparsityConditionLen(col, skipRow, equalityLen int, equalityRhs T) bool {
	p := pu.problem

	fillin := 0
	for _, ce := range p.Matrix.ColNonzeros(col) {
		if ce.Row == skipRow {
			continue
		}
		fillin += equalityLen - 1
	}
	if fillin > pu.options.MaxFillinPerSubstitution*maxInt(1, p.Matrix.ColSize(col)) {
		return false
	}

	scale := pu.options.MaxShiftPerRow
	for _, ce := range p.Matrix.ColNonzeros(col) {
		if ce.Row == skipRow {
			continue
		}
		shift := pu.num.ToFloat64(pu.abs(ce.Val)) * pu.num.ToFloat64(pu.abs(equalityRhs))
		if shift > scale*float64(equalityLen) {
			return false
		}
	}
	return true
}

// aggregateColumn rewrites every row containing col (other than skipRow,
// when >= 0) as row + factor*equality, where factor cancels col's
// coefficient in that row and equality is given by eqNonzeros/eqLhs/eqRhs
// (either an actual matrix row's contents, for SUBSTITUTE, or the implicit
// two-term equality col1 - factor*col2 = offset, for REPLACE). This is the
// aggregation step spec.md §4.5 requires of both reduction kinds.
func (pu *ProblemUpdate[T]) aggregateColumn(col, skipRow int, eqNonzeros []rowEntry[T], eqLhs, eqRhs T) {
	p := pu.problem

	var aec T
	for _, e := range eqNonzeros {
		if e.Col == col {
			aec = e.Val
			break
		}
	}

	for _, ce := range append([]colEntry[T]{}, p.Matrix.ColNonzeros(col)...) {
		if ce.Row == skipRow {
			continue
		}
		factor := pu.num.Sub(pu.num.FromFloat64(0), pu.num.Div(ce.Val, aec))
		for _, e := range eqNonzeros {
			old, _ := p.Matrix.Get(ce.Row, e.Col)
			pu.buffer.Stage(ce.Row, e.Col, pu.num.Add(old, pu.num.Mul(factor, e.Val)))
		}
		if !p.IsLhsInf(ce.Row) {
			p.Matrix.SetLhs(ce.Row, pu.num.Add(p.Matrix.Lhs(ce.Row), pu.num.Mul(factor, eqLhs)))
		}
		if !p.IsRhsInf(ce.Row) {
			p.Matrix.SetRhs(ce.Row, pu.num.Add(p.Matrix.Rhs(ce.Row), pu.num.Mul(factor, eqRhs)))
		}
	}
}

// applySubstitute implements SUBSTITUTE/SUBSTITUTE_OBJ(col, equalityRow)
// (spec.md §4.5). A length-1 equality row degenerates to a plain fix.
// obj-only mode eliminates col from the objective and treats it as fixed
// to zero for activity purposes without rewriting the matrix; the full
// aggregation rewrites every row touching col as row + (-a_rc/a_ec) *
// equalityRow, then clears the equality row and the column.
func (pu *ProblemUpdate[T]) applySubstitute(col int, r Reduction[T], objOnly bool) PresolveStatus {
	p := pu.problem
	equalityRow := r.Aux.EqRow

	if p.Matrix.RowSize(equalityRow) == 1 {
		val := pu.num.Div(p.Matrix.Lhs(equalityRow), p.Matrix.RowNonzeros(equalityRow)[0].Val)
		return pu.fixCol(col, val)
	}

	if !objOnly && !pu.checkAggregationSparsityCondition(col, equalityRow) {
		// Fill-in or side-shift budget exceeded: the caller gets Unchanged
		// and may retry later with a smaller candidate.
		return Unchanged
	}

	aec, _ := p.Matrix.Get(equalityRow, col)
	if pu.num.IsZero(aec) {
		return Unchanged
	}

	if !pu.num.IsZero(p.Obj[col]) {
		rhs := p.Matrix.Rhs(equalityRow)
		scale := pu.num.Div(p.Obj[col], aec)
		p.ObjOffset = pu.num.Add(p.ObjOffset, pu.num.Mul(scale, rhs))
		for _, e := range p.Matrix.RowNonzeros(equalityRow) {
			if e.Col == col {
				continue
			}
			p.Obj[e.Col] = pu.num.Sub(p.Obj[e.Col], pu.num.Mul(scale, e.Val))
		}
		p.Obj[col] = pu.num.FromFloat64(0)
	}

	eqRowNz := p.Matrix.RowNonzeros(equalityRow)
	coefs := make([]PostsolveRowCoef[T], len(eqRowNz))
	for i, e := range eqRowNz {
		coefs[i] = PostsolveRowCoef[T]{Col: e.Col, Value: e.Val}
	}
	pu.postsolve.Append(PostsolveEvent[T]{
		Kind: kindFor(objOnly), Col: col,
		Row: PostsolveRow[T]{
			HasRow: true, Row: equalityRow,
			Lhs: p.Matrix.Lhs(equalityRow), Rhs: p.Matrix.Rhs(equalityRow),
			Coefs: coefs,
		},
	})

	if !objOnly {
		eqNonzeros := append([]rowEntry[T]{}, p.Matrix.RowNonzeros(equalityRow)...)
		pu.aggregateColumn(col, equalityRow, eqNonzeros, p.Matrix.Lhs(equalityRow), p.Matrix.Rhs(equalityRow))
		pu.markRowRedundant(equalityRow)
	} else {
		// SUBSTITUTE_OBJ leaves col in the matrix but treats it as fixed to
		// zero for activity purposes, mirroring the original's lbs[col]=0;
		// ubs[col]=0; plus an activity update on both bound directions.
		zero := pu.num.FromFloat64(0)
		colNz := p.Matrix.ColNonzeros(col)

		lbWasUseless := p.IsLbUseless(col)
		oldLb := p.Lbs[col]
		pu.updateActivitiesAfterBoundChange(colNz, ActivityChangeLower, oldLb, zero, lbWasUseless,
			func(row int) { pu.updateActivity(ActivityChangeLower, row) })

		ubWasUseless := p.IsUbUseless(col)
		oldUb := p.Ubs[col]
		pu.updateActivitiesAfterBoundChange(colNz, ActivityChangeUpper, oldUb, zero, ubWasUseless,
			func(row int) { pu.updateActivity(ActivityChangeUpper, row) })

		p.Lbs[col], p.Ubs[col] = zero, zero
		p.CFlags[col] &^= ColLbInf | ColLbHuge | ColLbUseless | ColUbInf | ColUbHuge | ColUbUseless
	}

	p.CFlags[col] |= ColSubstituted
	pu.deletedCols.Set(uint(col))
	pu.stats.DeletedCols++
	if p.IsIntegral(col) {
		p.NumIntegralCols--
	} else {
		p.NumContinuousCols--
	}
	pu.markColState(col, StateModified)

	return Reduced
}

func kindFor(objOnly bool) PostsolveEventKind {
	if objOnly {
		return EventSubstituteObj
	}
	return EventSubstitute
}

// applyParallel implements PARALLEL(col1, col2, scale) (spec.md §4.5):
// col1 is eliminated, col2 absorbs it. Bounds merge according to the sign
// of scale; infinite/huge flags propagate by OR.
func (pu *ProblemUpdate[T]) applyParallel(col1 int, r Reduction[T]) PresolveStatus {
	p := pu.problem
	col2 := r.Aux.Col2
	scale := r.Aux.Scale

	lb1, ub1 := p.Lbs[col1], p.Ubs[col1]
	lb1Inf, ub1Inf := p.CFlags[col1]&ColLbInf != 0, p.CFlags[col1]&ColUbInf != 0
	lb1Huge, ub1Huge := p.CFlags[col1]&ColLbHuge != 0, p.CFlags[col1]&ColUbHuge != 0

	var newLb, newUb T
	var newLbInf, newUbInf, newLbHuge, newUbHuge bool
	if pu.num.Sign(scale) < 0 {
		newLb = pu.num.Add(p.Lbs[col2], pu.num.Mul(scale, ub1))
		newUb = pu.num.Add(p.Ubs[col2], pu.num.Mul(scale, lb1))
		newLbInf = p.CFlags[col2]&ColLbInf != 0 || ub1Inf
		newUbInf = p.CFlags[col2]&ColUbInf != 0 || lb1Inf
		newLbHuge, newUbHuge = ub1Huge, lb1Huge
	} else {
		newLb = pu.num.Add(p.Lbs[col2], pu.num.Mul(scale, lb1))
		newUb = pu.num.Add(p.Ubs[col2], pu.num.Mul(scale, ub1))
		newLbInf = p.CFlags[col2]&ColLbInf != 0 || lb1Inf
		newUbInf = p.CFlags[col2]&ColUbInf != 0 || ub1Inf
		newLbHuge, newUbHuge = lb1Huge, ub1Huge
	}

	pu.postsolve.Append(PostsolveEvent[T]{
		Kind: EventParallelCols, Col: col1, Col2: col2,
		Val1: lb1, Val2: ub1, Val3: p.Lbs[col2], Val4: p.Ubs[col2],
		ColFlags1: p.CFlags[col1], ColFlags2: p.CFlags[col2],
	})

	p.Lbs[col2], p.Ubs[col2] = newLb, newUb
	if newLbInf {
		p.CFlags[col2] |= ColLbInf
	} else {
		p.CFlags[col2] &^= ColLbInf
	}
	if newUbInf {
		p.CFlags[col2] |= ColUbInf
	} else {
		p.CFlags[col2] &^= ColUbInf
	}
	if newLbHuge {
		p.CFlags[col2] |= ColLbHuge
	}
	if newUbHuge {
		p.CFlags[col2] |= ColUbHuge
	}

	p.CFlags[col1] |= ColSubstituted
	pu.deletedCols.Set(uint(col1))
	pu.stats.DeletedCols++
	if p.IsIntegral(col1) {
		p.NumIntegralCols--
	} else {
		p.NumContinuousCols--
	}
	pu.markColState(col1, StateModified)
	pu.markColState(col2, StateBoundsModified)

	return Reduced
}

// applyReplace implements REPLACE(col1, factor; col2, offset): col1 =
// factor*col2 + offset (spec.md §4.5). col2's bounds are tightened by the
// domain col1's bounds imply, the objective contribution of col1 is
// folded into col2, and col1 is substituted away via the aggregation
// path over an implicit length-2 equality whenever sparsity allows.
func (pu *ProblemUpdate[T]) applyReplace(col1 int, r Reduction[T]) PresolveStatus {
	p := pu.problem
	col2 := r.Aux.Col2
	factor := r.Aux.Scale
	offset := r.Aux.Offset

	if p.IsFixed(col1) {
		return pu.fixCol(col2, pu.num.Div(pu.num.Sub(p.Lbs[col1], offset), factor))
	}
	if p.IsFixed(col2) {
		return pu.fixCol(col1, pu.num.Add(pu.num.Mul(factor, p.Lbs[col2]), offset))
	}

	// col1 = factor*col2 + offset, rewritten as the implicit equality
	// col1 - factor*col2 = offset that the aggregation path eliminates
	// col1 over, mirroring SUBSTITUTE's matrix-rewrite (spec.md §4.5).
	one := pu.num.FromFloat64(1)
	negFactor := pu.num.Sub(pu.num.FromFloat64(0), factor)
	eqNonzeros := []rowEntry[T]{{Col: col1, Val: one}, {Col: col2, Val: negFactor}}

	if !pu.checkAggregationSparsityConditionLen(col1, -1, len(eqNonzeros), offset) {
		return Unchanged
	}

	if pu.num.Sign(factor) > 0 {
		if p.CFlags[col1]&ColLbInf == 0 {
			implied := pu.num.Div(pu.num.Sub(p.Lbs[col1], offset), factor)
			if pu.changeLB(col2, implied) == Infeasible {
				return Infeasible
			}
		}
		if p.CFlags[col1]&ColUbInf == 0 {
			implied := pu.num.Div(pu.num.Sub(p.Ubs[col1], offset), factor)
			if pu.changeUB(col2, implied) == Infeasible {
				return Infeasible
			}
		}
	} else {
		if p.CFlags[col1]&ColLbInf == 0 {
			implied := pu.num.Div(pu.num.Sub(p.Lbs[col1], offset), factor)
			if pu.changeUB(col2, implied) == Infeasible {
				return Infeasible
			}
		}
		if p.CFlags[col1]&ColUbInf == 0 {
			implied := pu.num.Div(pu.num.Sub(p.Ubs[col1], offset), factor)
			if pu.changeLB(col2, implied) == Infeasible {
				return Infeasible
			}
		}
	}

	p.Obj[col2] = pu.num.Add(p.Obj[col2], pu.num.Mul(p.Obj[col1], factor))
	p.ObjOffset = pu.num.Add(p.ObjOffset, pu.num.Mul(p.Obj[col1], offset))
	p.Obj[col1] = pu.num.FromFloat64(0)

	pu.postsolve.Append(PostsolveEvent[T]{Kind: EventReplace, Col: col1, Col2: col2, Val1: factor, Val2: offset})

	pu.aggregateColumn(col1, -1, eqNonzeros, offset, offset)

	p.CFlags[col1] |= ColSubstituted
	pu.deletedCols.Set(uint(col1))
	pu.stats.DeletedCols++
	if p.IsIntegral(col1) {
		p.NumIntegralCols--
	} else {
		p.NumContinuousCols--
	}
	pu.markColState(col1, StateModified)
	pu.markColState(col2, StateBoundsModified)

	return Reduced
}

// applySparsify implements SPARSIFY(eqrow; targets): for each target row
// it adds scale*eqrow to cancel a nonzero, adjusting the target's sides
// by scale*rhs(eqrow) when that side is finite (spec.md §4.5).
func (pu *ProblemUpdate[T]) applySparsify(eqrow int, r Reduction[T]) PresolveStatus {
	p := pu.problem
	eqRhs := p.Matrix.Rhs(eqrow)

	for _, target := range r.Aux.Sparsify {
		row := target.Row
		scale := target.Scale

		for _, e := range p.Matrix.RowNonzeros(eqrow) {
			old, _ := p.Matrix.Get(row, e.Col)
			pu.buffer.Stage(row, e.Col, pu.num.Add(old, pu.num.Mul(scale, e.Val)))
		}

		if !pu.num.IsZero(eqRhs) {
			shift := pu.num.Mul(scale, eqRhs)
			if !p.IsLhsInf(row) {
				p.Matrix.SetLhs(row, pu.num.Add(p.Matrix.Lhs(row), shift))
			}
			if !p.IsRhsInf(row) {
				p.Matrix.SetRhs(row, pu.num.Add(p.Matrix.Rhs(row), shift))
			}
		}
		pu.markRowState(row, StateModified)
		pu.stats.SideChanges++
	}

	return Reduced
}
