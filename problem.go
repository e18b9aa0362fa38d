package presolve

// Lock counts the rows that would be violated if a column's value moved
// up or down, respectively (GLOSSARY "Lock"). Used by dual fixing.
type Lock struct {
	Up   int
	Down int
}

// Problem is the aggregate the engine mutates: constraint matrix, bounds,
// column/row flags, objective, locks, and cached integral/continuous
// counts (spec.md §3). Generalizes the teacher's package-level Rows/Cols/
// Elems/ObjRow globals (Beldin123-lpo's psf.go, ifgpx.go) into a value the
// caller constructs once and the engine owns by reference thereafter.
type Problem[T any] struct {
	Matrix *ConstraintMatrix[T]

	Obj       []T
	ObjOffset T

	Lbs []T
	Ubs []T

	CFlags []ColFlag
	RFlags []RowFlag

	Locks []Lock

	NumIntegralCols   int
	NumContinuousCols int
}

// NewProblem builds a Problem over an already-populated ConstraintMatrix.
// Obj/Lbs/Ubs/CFlags/Locks are sized to ncols, RFlags to nrows.
func NewProblem[T any](matrix *ConstraintMatrix[T]) *Problem[T] {
	ncols, nrows := matrix.NCols(), matrix.NRows()
	return &Problem[T]{
		Matrix: matrix,
		Obj:    make([]T, ncols),
		Lbs:    make([]T, ncols),
		Ubs:    make([]T, ncols),
		CFlags: make([]ColFlag, ncols),
		RFlags: make([]RowFlag, nrows),
		Locks:  make([]Lock, ncols),
	}
}

func (p *Problem[T]) NCols() int { return len(p.CFlags) }
func (p *Problem[T]) NRows() int { return len(p.RFlags) }

// IsIntegral reports whether col is (or is implied) integral.
func (p *Problem[T]) IsIntegral(col int) bool {
	return p.CFlags[col]&(ColIntegral|ColImplInt) != 0
}

func (p *Problem[T]) IsUnbounded(col int) bool { return p.CFlags[col].Unbounded() }
func (p *Problem[T]) IsInactive(col int) bool  { return p.CFlags[col].Inactive() }
func (p *Problem[T]) IsFixed(col int) bool     { return p.CFlags[col]&ColFixed != 0 }
func (p *Problem[T]) IsLbUseless(col int) bool { return p.CFlags[col].LbUseless() }
func (p *Problem[T]) IsUbUseless(col int) bool { return p.CFlags[col].UbUseless() }

func (p *Problem[T]) IsRowRedundant(row int) bool { return p.RFlags[row]&RowRedundant != 0 }
func (p *Problem[T]) IsEquation(row int) bool      { return p.RFlags[row]&RowEquation != 0 }
func (p *Problem[T]) IsLhsInf(row int) bool        { return p.RFlags[row]&RowLhsInf != 0 }
func (p *Problem[T]) IsRhsInf(row int) bool        { return p.RFlags[row]&RowRhsInf != 0 }

// ActiveCols/ActiveRows count entries not marked deleted in the matrix
// (Matrix.*Size returns -1 for those), used by ClearStates to decide
// whether compaction is due (spec.md §4.4).
func (p *Problem[T]) ActiveCols() int {
	n := 0
	for c := 0; c < p.NCols(); c++ {
		if p.Matrix.ColSize(c) != deletedSize {
			n++
		}
	}
	return n
}

func (p *Problem[T]) ActiveRows() int {
	n := 0
	for r := 0; r < p.NRows(); r++ {
		if p.Matrix.RowSize(r) != deletedSize {
			n++
		}
	}
	return n
}

// CompactColumns reindexes every per-column slice according to colMap
// (colMap[old] is the new index, or -1 if removed), called by Compress
// right after ConstraintMatrix.Compact produces colMap.
func (p *Problem[T]) CompactColumns(colMap []int) {
	n := 0
	for old := range colMap {
		if colMap[old] < 0 {
			continue
		}
		p.Obj[n] = p.Obj[old]
		p.Lbs[n] = p.Lbs[old]
		p.Ubs[n] = p.Ubs[old]
		p.CFlags[n] = p.CFlags[old]
		p.Locks[n] = p.Locks[old]
		n++
	}
	p.Obj = p.Obj[:n]
	p.Lbs = p.Lbs[:n]
	p.Ubs = p.Ubs[:n]
	p.CFlags = p.CFlags[:n]
	p.Locks = p.Locks[:n]
}

// CompactRows reindexes RFlags according to rowMap, the row-side
// counterpart to CompactColumns.
func (p *Problem[T]) CompactRows(rowMap []int) {
	n := 0
	for old := range rowMap {
		if rowMap[old] < 0 {
			continue
		}
		p.RFlags[n] = p.RFlags[old]
		n++
	}
	p.RFlags = p.RFlags[:n]
}

// ReadView is the read-only accessor surface external presolve methods use
// to inspect Problem concurrently while the engine is between transactions
// (spec.md §5: "Presolve methods are allowed to read the Problem in
// parallel"). It wraps the same underlying arrays (no copy) since the
// engine is the sole mutator and methods never run concurrently with a
// mutation.
type ReadView[T any] struct {
	p *Problem[T]
}

func (p *Problem[T]) View() ReadView[T] { return ReadView[T]{p: p} }

func (v ReadView[T]) NCols() int                { return v.p.NCols() }
func (v ReadView[T]) NRows() int                { return v.p.NRows() }
func (v ReadView[T]) Lb(col int) T              { return v.p.Lbs[col] }
func (v ReadView[T]) Ub(col int) T              { return v.p.Ubs[col] }
func (v ReadView[T]) Obj(col int) T             { return v.p.Obj[col] }
func (v ReadView[T]) ObjOffset() T              { return v.p.ObjOffset }
func (v ReadView[T]) ColFlags(col int) ColFlag  { return v.p.CFlags[col] }
func (v ReadView[T]) RowFlags(row int) RowFlag  { return v.p.RFlags[row] }
func (v ReadView[T]) Lock(col int) Lock         { return v.p.Locks[col] }
func (v ReadView[T]) ColSize(col int) int       { return v.p.Matrix.ColSize(col) }
func (v ReadView[T]) RowSize(row int) int       { return v.p.Matrix.RowSize(row) }
func (v ReadView[T]) Lhs(row int) T             { return v.p.Matrix.Lhs(row) }
func (v ReadView[T]) Rhs(row int) T             { return v.p.Matrix.Rhs(row) }
func (v ReadView[T]) RowNonzeros(row int) []rowEntry[T] { return v.p.Matrix.RowNonzeros(row) }
func (v ReadView[T]) ColNonzeros(col int) []colEntry[T] { return v.p.Matrix.ColNonzeros(col) }
