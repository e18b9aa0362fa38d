package presolve

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
)

// updateActivitiesAfterCoeffChange applies the delta a coefficient change
// at (row, col) makes to act: the old value's contribution is removed
// under its own sign, the new value's contribution is added under its
// own sign, so a sign flip between oldVal and newVal moves the
// contribution from Min to Max (or vice versa) correctly rather than
// assuming it stays on the same side (spec.md §4.2 activity-delta
// bookkeeping, generalized to coefficient rather than bound changes).
func (pu *ProblemUpdate[T]) updateActivitiesAfterCoeffChange(col int, oldVal, newVal T, act *RowActivity[T]) {
	p := pu.problem
	lbUseless, ubUseless := p.IsLbUseless(col), p.IsUbUseless(col)
	lb, ub := p.Lbs[col], p.Ubs[col]

	switch pu.num.Sign(oldVal) {
	case 1:
		if lbUseless {
			act.NInfMin--
		} else {
			act.Min = pu.num.Sub(act.Min, pu.num.Mul(oldVal, lb))
		}
		if ubUseless {
			act.NInfMax--
		} else {
			act.Max = pu.num.Sub(act.Max, pu.num.Mul(oldVal, ub))
		}
	case -1:
		if ubUseless {
			act.NInfMin--
		} else {
			act.Min = pu.num.Sub(act.Min, pu.num.Mul(oldVal, ub))
		}
		if lbUseless {
			act.NInfMax--
		} else {
			act.Max = pu.num.Sub(act.Max, pu.num.Mul(oldVal, lb))
		}
	}

	switch pu.num.Sign(newVal) {
	case 1:
		if lbUseless {
			act.NInfMin++
		} else {
			act.Min = pu.num.Add(act.Min, pu.num.Mul(newVal, lb))
		}
		if ubUseless {
			act.NInfMax++
		} else {
			act.Max = pu.num.Add(act.Max, pu.num.Mul(newVal, ub))
		}
	case -1:
		if ubUseless {
			act.NInfMin++
		} else {
			act.Min = pu.num.Add(act.Min, pu.num.Mul(newVal, ub))
		}
		if lbUseless {
			act.NInfMax++
		} else {
			act.Max = pu.num.Add(act.Max, pu.num.Mul(newVal, lb))
		}
	}
}

// flushChangedCoeffs replays every coefficient edit staged in pu.buffer
// against the matrix, updating the affected row's activity in lockstep
// and running the duplicate-enqueue guard on both directions (a
// coefficient change can move a contribution between Min and Max, so
// either side of the row's status may have just become decidable)
// (spec.md §4.4).
func (pu *ProblemUpdate[T]) flushChangedCoeffs() {
	if pu.buffer.Len() == 0 {
		return
	}

	isZero := func(v T) bool { return pu.num.IsZero(v) }
	err := pu.problem.Matrix.FlushBuffer(&pu.buffer, isZero,
		func(row, col int, oldVal, newVal T, hadOld bool) {
			if !hadOld {
				oldVal = pu.num.FromFloat64(0)
			}
			act := pu.activities.Get(row)
			pu.updateActivitiesAfterCoeffChange(col, oldVal, newVal, &act)
			pu.activities.Set(row, act)
			pu.stats.CoefficientChgs++
			pu.updateActivity(ActivityChangeLower, row)
			pu.updateActivity(ActivityChangeUpper, row)
		})
	if err != nil {
		pu.logger.Debug().Err(err).Msg("flushChangedCoeffs: buffered edit failed")
	}
}

// checkChangedActivities reclassifies every row on the changed-activities
// queue, marking redundant rows and dropping a side to infinity where
// CheckStatus now proves one (spec.md §4.4).
func (pu *ProblemUpdate[T]) checkChangedActivities() PresolveStatus {
	p := pu.problem
	status := Unchanged

	for _, r := range pu.changedActivities {
		if p.IsRowRedundant(r) {
			continue
		}
		act := pu.activities.Get(r)
		switch CheckStatus(pu.num, act, p.Matrix.Lhs(r), p.Matrix.Rhs(r), p.IsLhsInf(r), p.IsRhsInf(r)) {
		case StatusRedundant:
			pu.markRowRedundant(r)
			status = Reduced
		case StatusRedundantLhs:
			p.RFlags[r] |= RowLhsInf
			status = Reduced
		case StatusRedundantRhs:
			p.RFlags[r] |= RowRhsInf
			status = Reduced
		case StatusInfeasible:
			return Infeasible
		}
	}

	return status
}

// pruneRedundantChangedActivities drops rows already marked redundant
// from the changed-activities queue, called after checkChangedActivities
// so the queue only ever holds rows still worth reclassifying.
func (pu *ProblemUpdate[T]) pruneRedundantChangedActivities() {
	p := pu.problem
	out := pu.changedActivities[:0]
	for _, r := range pu.changedActivities {
		if !p.IsRowRedundant(r) {
			out = append(out, r)
		}
	}
	pu.changedActivities = out
}

// pruneStaleSingletonCols drops entries from singletonColumns whose
// column is no longer actually a singleton (e.g. a row it shared with
// another column was deleted), adjusting firstNewSingletonCol so the
// boundary between prior-round and this-round discoveries stays correct
// (spec.md §4.4).
func (pu *ProblemUpdate[T]) pruneStaleSingletonCols() {
	if len(pu.singletonColumns) == 0 {
		return
	}
	p := pu.problem
	keptOld := 0

	out := pu.singletonColumns[:0]
	for i, c := range pu.singletonColumns {
		if p.Matrix.ColSize(c) == 1 {
			out = append(out, c)
			if i < pu.firstNewSingletonCol {
				keptOld++
			}
		}
	}
	pu.singletonColumns = out
	pu.firstNewSingletonCol = keptOld
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// removeFixedCols folds the constant contribution of every column queued
// in deletedCols into the rows it still touches, records a postsolve
// event per column, and clears deletedCols. Columns fixed to +/-infinity
// skip the side/activity adjustment entirely, since any row they appear
// in is expected to already be redundant (spec.md §4.3).
func (pu *ProblemUpdate[T]) removeFixedCols() {
	p := pu.problem
	zero := pu.num.FromFloat64(0)

	for col, ok := pu.deletedCols.NextSet(0); ok; col, ok = pu.deletedCols.NextSet(col + 1) {
		c := int(col)
		if p.CFlags[c]&ColFixed == 0 {
			continue
		}

		if p.CFlags[c]&ColLbInf != 0 {
			pu.postsolve.Append(PostsolveEvent[T]{
				Kind: EventFixedColInfinity, Col: c,
				Val1: pu.num.FromFloat64(-1), Val2: p.Ubs[c],
			})
			continue
		}
		if p.CFlags[c]&ColUbInf != 0 {
			pu.postsolve.Append(PostsolveEvent[T]{
				Kind: EventFixedColInfinity, Col: c,
				Val1: pu.num.FromFloat64(1), Val2: p.Lbs[c],
			})
			continue
		}

		fixval := p.Lbs[c]
		pu.postsolve.Append(PostsolveEvent[T]{Kind: EventFixedCol, Col: c, Val1: fixval})

		if pu.num.IsZero(fixval) {
			continue
		}

		if !pu.num.IsZero(p.Obj[c]) {
			p.ObjOffset = pu.num.Add(p.ObjOffset, pu.num.Mul(fixval, p.Obj[c]))
			p.Obj[c] = zero
		}

		for _, e := range p.Matrix.ColNonzeros(c) {
			row := e.Row
			if p.IsRowRedundant(row) {
				continue
			}

			constant := pu.num.Mul(fixval, e.Val)
			act := pu.activities.Get(row)
			act.Min = pu.num.Sub(act.Min, constant)
			act.Max = pu.num.Sub(act.Max, constant)
			pu.activities.Set(row, act)

			if !p.IsLhsInf(row) {
				p.Matrix.SetLhs(row, pu.num.Sub(p.Matrix.Lhs(row), constant))
			}
			if !p.IsRhsInf(row) {
				p.Matrix.SetRhs(row, pu.num.Sub(p.Matrix.Rhs(row), constant))
			}
			if !p.IsLhsInf(row) && !p.IsRhsInf(row) && p.RFlags[row]&RowEquation == 0 &&
				pu.num.Eq(p.Matrix.Lhs(row), p.Matrix.Rhs(row)) {
				p.RFlags[row] |= RowEquation
			}
		}
	}

	pu.deletedCols = bitset.New(uint(p.NCols()))
}

// Flush applies every pending buffered edit and deletion in the right
// order: coefficient changes, then singleton-row resolution, then
// changed-activity reclassification, then fixed-column constant removal,
// then the physical delete of redundant rows/fixed columns, then stale
// singleton-column pruning, then empty-column resolution (spec.md §4.4,
// §6 "flush(problem)").
func (pu *ProblemUpdate[T]) Flush() PresolveStatus {
	pu.flushChangedCoeffs()

	if len(pu.singletonRows) != 0 {
		for _, row := range pu.singletonRows {
			if pu.removeSingletonRow(row) == Infeasible {
				return Infeasible
			}
		}
		pu.singletonRows = pu.singletonRows[:0]
	}

	if pu.checkChangedActivities() == Infeasible {
		return Infeasible
	}
	pu.pruneRedundantChangedActivities()

	pu.removeFixedCols()

	pu.deleteRowsAndCols()

	pu.pruneStaleSingletonCols()

	if pu.removeEmptyColumns() == UnbndOrInfeas {
		return UnbndOrInfeas
	}

	return Reduced
}

// deleteRowsAndCols physically marks every row flagged redundant and
// every column flagged fixed/substituted as deleted in the matrix, the
// step that actually shrinks RowSize/ColSize to deletedSize for rows and
// columns the rest of the round decided to drop (spec.md §4.4).
func (pu *ProblemUpdate[T]) deleteRowsAndCols() {
	p := pu.problem
	for row := 0; row < p.NRows(); row++ {
		if p.Matrix.RowSize(row) != deletedSize && p.IsRowRedundant(row) {
			p.Matrix.MarkRowDeleted(row)
		}
	}
	for col := 0; col < p.NCols(); col++ {
		if p.Matrix.ColSize(col) != deletedSize && p.IsInactive(col) {
			p.Matrix.MarkColDeleted(col)
		}
	}
}

// compressIndexVector filters out entries removed by a compaction pass
// (m[old] < 0) and remaps the survivors, preserving relative order and
// reusing the input's backing array.
func compressIndexVector(m, vec []int) []int {
	out := vec[:0]
	for _, v := range vec {
		if nv := m[v]; nv >= 0 {
			out = append(out, nv)
		}
	}
	return out
}

func compressPerm(m []int, perm []uint32) []uint32 {
	out := perm[:0]
	for _, v := range perm {
		if nv := m[int(v)]; nv >= 0 {
			out = append(out, uint32(nv))
		}
	}
	return out
}

// Compress physically removes every row/column that has been logically
// deleted, shrinking all of the engine's parallel index structures in
// lockstep via an errgroup fan-out: each structure's remap is independent
// of the others, so they run concurrently the way the original's
// tbb::parallel_invoke does (spec.md §4.4, §5, §8 scenario 7). A no-op
// unless full is true or the problem actually has logically-deleted rows
// or columns.
func (pu *ProblemUpdate[T]) Compress(full bool) {
	p := pu.problem
	if !full && p.NCols() == pu.GetNActiveCols() && p.NRows() == pu.GetNActiveRows() {
		return
	}

	pu.logger.Debug().
		Int("rows", p.NRows()).Int("cols", p.NCols()).
		Int("activeRows", pu.GetNActiveRows()).Int("activeCols", pu.GetNActiveCols()).
		Msg("compressing problem to its active rows and columns")

	rowMap, colMap := p.Matrix.Compact()
	p.CompactColumns(colMap)
	p.CompactRows(rowMap)
	pu.activities.Compact(rowMap)

	pu.redundantRows = bitset.New(uint(p.NRows()))
	pu.deletedCols = bitset.New(uint(p.NCols()))
	pu.rowState = make([]State, p.NRows())
	pu.colState = make([]State, p.NCols())
	pu.dirtyRows = pu.dirtyRows[:0]
	pu.dirtyCols = pu.dirtyCols[:0]

	var g errgroup.Group
	g.Go(func() error { pu.randomRowPerm = compressPerm(rowMap, pu.randomRowPerm); return nil })
	g.Go(func() error { pu.randomColPerm = compressPerm(colMap, pu.randomColPerm); return nil })
	g.Go(func() error { pu.postsolve.remapIndices(rowMap, colMap); return nil })
	g.Go(func() error {
		pu.changedActivities = compressIndexVector(rowMap, pu.changedActivities)
		return nil
	})
	g.Go(func() error {
		pu.singletonRows = compressIndexVector(rowMap, pu.singletonRows)
		return nil
	})
	g.Go(func() error {
		numNew := len(pu.singletonColumns) - pu.firstNewSingletonCol
		pu.singletonColumns = compressIndexVector(colMap, pu.singletonColumns)
		pu.firstNewSingletonCol = maxInt(0, len(pu.singletonColumns)-numNew)
		return nil
	})
	g.Go(func() error {
		pu.emptyColumns = compressIndexVector(colMap, pu.emptyColumns)
		return nil
	})
	g.Go(func() error {
		for _, obs := range pu.compressObservers {
			obs.OnCompress(rowMap, colMap)
		}
		return nil
	})
	_ = g.Wait()

	pu.lastCompressNRows = pu.stats.DeletedRows
	pu.lastCompressNCols = pu.stats.DeletedCols
}
