package presolve

import (
	"math/rand/v2"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
	"gopkg.in/dnaeon/go-priorityqueue.v1"
)

// PresolveStatus is the outcome of a trivial-presolve pass (spec.md §7).
type PresolveStatus int

const (
	Unchanged PresolveStatus = iota
	Reduced
	Infeasible
	UnbndOrInfeas
)

// ApplyResult is the outcome of applying a transaction (spec.md §7).
type ApplyResult int

const (
	Applied ApplyResult = iota
	Rejected
	Postponed
	ApplyInfeasible
)

// ConflictType is the outcome of checking a transaction for conflicts
// before applying it (spec.md §4.5).
type ConflictType int

const (
	NoConflict ConflictType = iota
	Conflict
	Postpone
)

// CompressObserver is notified with the index remap produced by Compress,
// alongside the engine's own internal structures (spec.md §4.4, §6
// observeCompress). External collaborators (e.g. a postsolve-adjacent
// index cache) register themselves here.
type CompressObserver interface {
	OnCompress(rowMap, colMap []int)
}

// ProblemUpdate is the core engine (spec.md §2.8, §4.1): it owns Problem,
// the postsolve log, Statistics, and PresolveOptions by reference, and
// keeps the dirty-set bookkeeping, pending singleton/empty queues, and
// random permutations that the trivial-presolve and transaction machinery
// depend on. One instance is never shared across Problems and never
// mutated from more than one goroutine at a time (spec.md §5).
type ProblemUpdate[T any] struct {
	problem   *Problem[T]
	postsolve *PostsolveLog[T]
	stats     *Statistics
	options   PresolveOptions
	num       Num[T]
	logger    zerolog.Logger

	activities *Activities[T]
	buffer     MatrixBuffer[T]

	rowState []State
	colState []State
	dirtyRows []int
	dirtyCols []int

	redundantRows *bitset.BitSet
	deletedCols   *bitset.BitSet

	singletonRows     []int
	singletonColumns  []int
	emptyColumns      []int
	changedActivities []int

	firstNewSingletonCol int

	randomRowPerm []uint32
	randomColPerm []uint32

	lastCompressNRows int
	lastCompressNCols int

	postponeSubstitutions bool

	compressObservers []CompressObserver
}

// New constructs a ProblemUpdate over problem, seeding its permutations
// from options.RandomSeed (spec.md §6 "new(problem, postsolve, stats,
// options, num)").
func New[T any](problem *Problem[T], postsolve *PostsolveLog[T], stats *Statistics,
	options PresolveOptions, num Num[T]) *ProblemUpdate[T] {

	nrows, ncols := problem.NRows(), problem.NCols()

	pu := &ProblemUpdate[T]{
		problem:       problem,
		postsolve:     postsolve,
		stats:         stats,
		options:       options,
		num:           num,
		logger:        options.Logger,
		activities:    NewActivities[T](nrows),
		rowState:      make([]State, nrows),
		colState:      make([]State, ncols),
		redundantRows: bitset.New(uint(nrows)),
		deletedCols:   bitset.New(uint(ncols)),
	}
	pu.problem = problem

	seed := uint64(options.RandomSeed)
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	pu.randomRowPerm = fisherYatesPerm(rand.New(src), nrows)
	pu.randomColPerm = fisherYatesPerm(rand.New(src), ncols)

	pu.RecomputeAllActivities()
	for c := 0; c < ncols; c++ {
		sz := problem.Matrix.ColSize(c)
		switch sz {
		case 0:
			pu.emptyColumns = append(pu.emptyColumns, c)
		case 1:
			pu.singletonColumns = append(pu.singletonColumns, c)
		}
	}
	pu.firstNewSingletonCol = len(pu.singletonColumns)
	for r := 0; r < nrows; r++ {
		if problem.Matrix.RowSize(r) == 1 {
			pu.singletonRows = append(pu.singletonRows, r)
		}
	}

	return pu
}

func fisherYatesPerm(r *rand.Rand, n int) []uint32 {
	perm := make([]uint32, n)
	for i := range perm {
		perm[i] = uint32(i)
	}
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Problem returns a read-only view of the underlying problem.
func (pu *ProblemUpdate[T]) Problem() ReadView[T] { return pu.problem.View() }

func (pu *ProblemUpdate[T]) Num() Num[T] { return pu.num }

func (pu *ProblemUpdate[T]) Stats() *Statistics { return pu.stats }

// GetChangedActivities returns the rows whose activity changed since the
// last ClearChangeInfo call.
func (pu *ProblemUpdate[T]) GetChangedActivities() []int { return pu.changedActivities }

// GetSingletonCols returns all queued singleton columns, including those
// carried over from previous rounds.
func (pu *ProblemUpdate[T]) GetSingletonCols() []int { return pu.singletonColumns }

// GetFirstNewSingletonCol returns the boundary index separating singleton
// columns discovered in prior rounds from those found in the current one.
func (pu *ProblemUpdate[T]) GetFirstNewSingletonCol() int { return pu.firstNewSingletonCol }

func (pu *ProblemUpdate[T]) GetRandomColPerm() []uint32 { return pu.randomColPerm }

// BestFirstSingletonCols returns the queued singleton columns ordered the
// way IsColBetterForSubstitution ranks them: smallest size first, zero
// objective preferred among ties, random_col_perm breaking the rest. A
// driver that processes singleton columns in this order sees the cheapest,
// least objective-entangled substitutions first without changing which
// columns are queued (spec.md §6, "deterministic best-first ordering").
func (pu *ProblemUpdate[T]) BestFirstSingletonCols() []int {
	pq := priorityqueue.New[int, float64](priorityqueue.MinHeap)
	for _, col := range pu.singletonColumns {
		size := float64(pu.problem.Matrix.ColSize(col))
		var objBit float64
		if !pu.num.IsZero(pu.problem.Obj[col]) {
			objBit = 1
		}
		priority := size*2 + objBit + float64(pu.randomColPerm[col])/float64(len(pu.randomColPerm)+1)
		pq.Put(col, priority)
	}
	ordered := make([]int, 0, len(pu.singletonColumns))
	for pq.Len() != 0 {
		ordered = append(ordered, pq.Get().Value)
	}
	return ordered
}

func (pu *ProblemUpdate[T]) GetRandomRowPerm() []uint32 { return pu.randomRowPerm }

func (pu *ProblemUpdate[T]) GetNActiveRows() int { return pu.problem.ActiveRows() }
func (pu *ProblemUpdate[T]) GetNActiveCols() int { return pu.problem.ActiveCols() }

// SetPostponeSubstitutions toggles the mode in which SUBSTITUTE, REPLACE,
// and SPARSIFY reductions are deferred (returned as Postpone) rather than
// applied (spec.md §4.5, §9 design notes).
func (pu *ProblemUpdate[T]) SetPostponeSubstitutions(v bool) { pu.postponeSubstitutions = v }

// ObserveCompress registers an observer notified on every Compress call.
func (pu *ProblemUpdate[T]) ObserveCompress(obs CompressObserver) {
	pu.compressObservers = append(pu.compressObservers, obs)
}

// IsColBetterForSubstitution orders two column indices for substitution
// preference (spec.md §6): smaller size wins; ties broken by zero
// objective preferred; final tie-break by random_col_perm, which makes the
// ordering a deterministic total order given the seed.
func (pu *ProblemUpdate[T]) IsColBetterForSubstitution(a, b int) bool {
	sa, sb := pu.problem.Matrix.ColSize(a), pu.problem.Matrix.ColSize(b)
	if sa != sb {
		return sa < sb
	}
	za, zb := pu.num.IsZero(pu.problem.Obj[a]), pu.num.IsZero(pu.problem.Obj[b])
	if za != zb {
		return za
	}
	return pu.randomColPerm[a] < pu.randomColPerm[b]
}

// markRowState marks row dirty with bit, enqueueing it into the dirty list
// the first time it transitions away from StateUnmodified this round.
func (pu *ProblemUpdate[T]) markRowState(row int, bit State) {
	if pu.rowState[row] == StateUnmodified {
		pu.dirtyRows = append(pu.dirtyRows, row)
	}
	pu.rowState[row] |= bit
}

func (pu *ProblemUpdate[T]) markColState(col int, bit State) {
	if pu.colState[col] == StateUnmodified {
		pu.dirtyCols = append(pu.dirtyCols, col)
	}
	pu.colState[col] |= bit
}

// ClearStates resets per-row and per-col transaction state flags using the
// dirty lists only (spec.md §4.4: "cheap: no whole-vector clear"), then, if
// PresolveOptions.CompressFac calls for it, triggers a compaction.
func (pu *ProblemUpdate[T]) ClearStates() {
	for _, r := range pu.dirtyRows {
		pu.rowState[r] = StateUnmodified
	}
	for _, c := range pu.dirtyCols {
		pu.colState[c] = StateUnmodified
	}
	pu.dirtyRows = pu.dirtyRows[:0]
	pu.dirtyCols = pu.dirtyCols[:0]

	if pu.options.CompressFac <= 0 {
		return
	}

	nrows, ncols := pu.problem.NRows(), pu.problem.NCols()
	full := false
	if nrows > 100 {
		active := pu.problem.ActiveRows()
		if float64(active)/float64(nrows) < pu.options.CompressFac {
			full = true
		}
	}
	if !full && ncols > 100 {
		active := pu.problem.ActiveCols()
		if float64(active)/float64(ncols) < pu.options.CompressFac {
			full = true
		}
	}
	if full {
		pu.Compress(false)
	}
}

// ClearChangeInfo empties GetChangedActivities's backing slice, called by
// the driver once it has consumed the round's activity changes.
func (pu *ProblemUpdate[T]) ClearChangeInfo() {
	pu.changedActivities = pu.changedActivities[:0]
}

// BeginRound advances the round epoch used by update_activity's
// duplicate-enqueue guard (spec.md §4.2).
func (pu *ProblemUpdate[T]) BeginRound() { pu.stats.BeginRound() }

// RecomputeAllActivities rebuilds every row's activity from scratch. Used
// at construction time and by trivialPresolve (spec.md §4.3).
func (pu *ProblemUpdate[T]) RecomputeAllActivities() {
	p := pu.problem
	for r := 0; r < p.NRows(); r++ {
		if p.Matrix.RowSize(r) == deletedSize {
			continue
		}
		pu.activities.Recompute(pu.num, r, p.Matrix.RowNonzeros(r),
			func(c int) T { return p.Lbs[c] },
			func(c int) T { return p.Ubs[c] },
			p.IsLbUseless,
			p.IsUbUseless,
		)
	}
}

// GetRowActivity returns the current activity of row.
func (pu *ProblemUpdate[T]) GetRowActivity(row int) RowActivity[T] { return pu.activities.Get(row) }
