package presolve

import "github.com/pkg/errors"

// deletedSize marks a row or column that MarkRowDeleted / MarkColDeleted
// has taken out of iteration; Compact later drops such slots entirely. A
// reduction decided before that point is tracked via flags only
// (RowRedundant / ColFixed / ColSubstituted), not this sentinel.
const deletedSize = -1

// rowEntry is one nonzero in row-major storage.
type rowEntry[T any] struct {
	Col int
	Val T
}

// colEntry is one nonzero in column-major storage.
type colEntry[T any] struct {
	Row int
	Val T
}

// bufferedEdit is one pending coefficient change staged in a MatrixBuffer
// before FlushBuffer replays it in bulk (spec.md §2.2, §4.4).
type bufferedEdit[T any] struct {
	Row, Col int
	Val      T
}

// MatrixBuffer stages pending sparse coefficient edits (row, col,
// newValue) before they are bulk-applied to a ConstraintMatrix. Batching
// lets callers accumulate many small changes (e.g. cleanupSmallCoefficients
// zeroing a run of tiny entries) and apply them in one pass that also
// drives the activity-delta callback exactly once per affected row.
type MatrixBuffer[T any] struct {
	edits []bufferedEdit[T]
}

// Stage queues a coefficient change to be applied on the next FlushBuffer.
func (b *MatrixBuffer[T]) Stage(row, col int, val T) {
	b.edits = append(b.edits, bufferedEdit[T]{Row: row, Col: col, Val: val})
}

// Len reports the number of staged edits.
func (b *MatrixBuffer[T]) Len() int { return len(b.edits) }

// Clear drops all staged edits without applying them.
func (b *MatrixBuffer[T]) Clear() { b.edits = b.edits[:0] }

// ConstraintMatrix is the dual compressed (row-major and column-major)
// sparse storage of coefficients, with per-row sides and per-row/per-column
// active sizes. Generalizes the teacher's Rows[i].HasElems / Cols[j].HasElems
// cross-indexed slices (Beldin123-lpo's psf.go) from MPS-fixed globals into
// a value the engine owns per Problem instance.
type ConstraintMatrix[T any] struct {
	rows [][]rowEntry[T]
	cols [][]colEntry[T]

	rowSize []int // -1 once marked deleted, until Compact drops the slot
	colSize []int

	lhs []T
	rhs []T
}

// NewConstraintMatrix builds an empty matrix with the given logical
// dimensions; rows/cols are populated afterwards via SetCoef.
func NewConstraintMatrix[T any](nrows, ncols int) *ConstraintMatrix[T] {
	m := &ConstraintMatrix[T]{
		rows:    make([][]rowEntry[T], nrows),
		cols:    make([][]colEntry[T], ncols),
		rowSize: make([]int, nrows),
		colSize: make([]int, ncols),
		lhs:     make([]T, nrows),
		rhs:     make([]T, nrows),
	}
	return m
}

func (m *ConstraintMatrix[T]) NRows() int { return len(m.rowSize) }
func (m *ConstraintMatrix[T]) NCols() int { return len(m.colSize) }

// RowSize returns the number of active nonzeros in row, or -1 if the row
// has been marked deleted (MarkRowDeleted).
func (m *ConstraintMatrix[T]) RowSize(row int) int { return m.rowSize[row] }

// ColSize returns the number of active nonzeros in col, or -1 if the
// column has been marked deleted (MarkColDeleted).
func (m *ConstraintMatrix[T]) ColSize(col int) int { return m.colSize[col] }

// RowNonzeros returns the nonzero entries of row in storage order.
func (m *ConstraintMatrix[T]) RowNonzeros(row int) []rowEntry[T] { return m.rows[row] }

// ColNonzeros returns the nonzero entries of col in storage order.
func (m *ConstraintMatrix[T]) ColNonzeros(col int) []colEntry[T] { return m.cols[col] }

// Lhs/Rhs return row row's sides.
func (m *ConstraintMatrix[T]) Lhs(row int) T { return m.lhs[row] }
func (m *ConstraintMatrix[T]) Rhs(row int) T { return m.rhs[row] }

// SetLhs/SetRhs update row row's sides directly (no activity bookkeeping;
// callers that need activity consistency go through ProblemUpdate).
func (m *ConstraintMatrix[T]) SetLhs(row int, v T) { m.lhs[row] = v }
func (m *ConstraintMatrix[T]) SetRhs(row int, v T) { m.rhs[row] = v }

// Get returns the coefficient at (row, col) and whether it is an explicit
// (nonzero, stored) entry.
func (m *ConstraintMatrix[T]) Get(row, col int) (T, bool) {
	for _, e := range m.rows[row] {
		if e.Col == col {
			return e.Val, true
		}
	}
	var zero T
	return zero, false
}

// zeroTester is the predicate used only to recognize the "delete this
// entry" convention (newval == 0 removes the entry rather than storing an
// explicit zero). It is passed in by callers since ConstraintMatrix itself
// is not Num-aware.
type zeroTester[T any] func(T) bool

// SetCoef applies a single point edit: insert, update, or (if isZero(val))
// remove the coefficient at (row, col). This is the primitive both
// FlushBuffer and the aggregation/sparsify rewrites are built on.
func (m *ConstraintMatrix[T]) SetCoef(row, col int, val T, isZero zeroTester[T]) error {
	if row < 0 || row >= len(m.rowSize) {
		return errors.Errorf("SetCoef: row index %d out of range", row)
	}
	if col < 0 || col >= len(m.colSize) {
		return errors.Errorf("SetCoef: col index %d out of range", col)
	}

	foundInRow := -1
	for i, e := range m.rows[row] {
		if e.Col == col {
			foundInRow = i
			break
		}
	}

	if isZero(val) {
		if foundInRow >= 0 {
			m.rows[row] = append(m.rows[row][:foundInRow], m.rows[row][foundInRow+1:]...)
			m.removeColEntry(col, row)
			m.rowSize[row]--
			m.colSize[col]--
		}
		return nil
	}

	if foundInRow >= 0 {
		m.rows[row][foundInRow].Val = val
		m.setColEntryVal(col, row, val)
		return nil
	}

	m.rows[row] = append(m.rows[row], rowEntry[T]{Col: col, Val: val})
	m.cols[col] = append(m.cols[col], colEntry[T]{Row: row, Val: val})
	m.rowSize[row]++
	m.colSize[col]++
	return nil
}

func (m *ConstraintMatrix[T]) removeColEntry(col, row int) {
	for i, e := range m.cols[col] {
		if e.Row == row {
			m.cols[col] = append(m.cols[col][:i], m.cols[col][i+1:]...)
			return
		}
	}
}

func (m *ConstraintMatrix[T]) setColEntryVal(col, row int, val T) {
	for i, e := range m.cols[col] {
		if e.Row == row {
			m.cols[col][i].Val = val
			return
		}
	}
}

// FlushBuffer replays every staged edit in b against m, invoking onChange
// once per edit with (row, col, oldVal, newVal, hadOld) so the caller
// (ProblemUpdate.flushChangedCoeffs) can update activities and counters in
// lockstep. b is cleared on return.
func (m *ConstraintMatrix[T]) FlushBuffer(b *MatrixBuffer[T], isZero zeroTester[T],
	onChange func(row, col int, oldVal, newVal T, hadOld bool)) error {
	for _, e := range b.edits {
		old, had := m.Get(e.Row, e.Col)
		if err := m.SetCoef(e.Row, e.Col, e.Val, isZero); err != nil {
			return errors.Wrapf(err, "FlushBuffer failed at (%d,%d)", e.Row, e.Col)
		}
		onChange(e.Row, e.Col, old, e.Val, had)
	}
	b.Clear()
	return nil
}

// MarkRowDeleted sets row's size to deletedSize and drops its row-major
// entries; its entries in the column-major lists are left in place.
// Compact later reclaims the slot.
func (m *ConstraintMatrix[T]) MarkRowDeleted(row int) {
	m.rowSize[row] = deletedSize
	m.rows[row] = nil
}

// MarkColDeleted sets col's size to deletedSize and drops its column-major
// entries; its entries in the row-major lists are left in place. Compact
// later reclaims the slot.
func (m *ConstraintMatrix[T]) MarkColDeleted(col int) {
	m.colSize[col] = deletedSize
	m.cols[col] = nil
}

// Compact physically removes every row/col whose size is deletedSize,
// preserving the relative order of survivors (spec.md §8 scenario 7:
// compress must not reorder the surviving permutation). It returns
// rowMap/colMap: rowMap[oldRow] is the new index, or -1 if oldRow was
// removed. This generalizes the teacher's swap-to-end-and-shrink DelRow/
// DelCol (Beldin123-lpo's psf.go) into one stable bulk pass, which is what
// the permutation-preservation invariant requires.
func (m *ConstraintMatrix[T]) Compact() (rowMap, colMap []int) {
	rowMap = make([]int, len(m.rowSize))
	colMap = make([]int, len(m.colSize))

	newRows := make([][]rowEntry[T], 0, len(m.rowSize))
	newRowSize := make([]int, 0, len(m.rowSize))
	newLhs := make([]T, 0, len(m.rowSize))
	newRhs := make([]T, 0, len(m.rowSize))
	for old := range m.rowSize {
		if m.rowSize[old] == deletedSize {
			rowMap[old] = -1
			continue
		}
		rowMap[old] = len(newRows)
		newRows = append(newRows, m.rows[old])
		newRowSize = append(newRowSize, m.rowSize[old])
		newLhs = append(newLhs, m.lhs[old])
		newRhs = append(newRhs, m.rhs[old])
	}

	newCols := make([][]colEntry[T], 0, len(m.colSize))
	newColSize := make([]int, 0, len(m.colSize))
	for old := range m.colSize {
		if m.colSize[old] == deletedSize {
			colMap[old] = -1
			continue
		}
		colMap[old] = len(newCols)
		newCols = append(newCols, m.cols[old])
		newColSize = append(newColSize, m.colSize[old])
	}

	for r := range newRows {
		for i, e := range newRows[r] {
			newRows[r][i].Col = colMap[e.Col]
		}
	}
	for c := range newCols {
		for i, e := range newCols[c] {
			newCols[c][i].Row = rowMap[e.Row]
		}
	}

	m.rows, m.rowSize, m.lhs, m.rhs = newRows, newRowSize, newLhs, newRhs
	m.cols, m.colSize = newCols, newColSize
	return rowMap, colMap
}
