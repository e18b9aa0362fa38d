package presolve

// PostsolveEventKind discriminates the reconstruction events recorded in
// the postsolve log (spec.md §2.6). The driver's separate postsolve-replay
// collaborator walks this log back-to-front to recover original-space
// values for every row/column this engine eliminated; this package only
// produces the log, grounded on the teacher's psOpList / postSolve shape
// (Beldin123-lpo's psf.go), generalized from its three recorded op types
// to the full set spec.md names.
type PostsolveEventKind int

const (
	EventFixedCol PostsolveEventKind = iota
	EventFixedColInfinity
	EventRowSingleton
	EventFreeColSingleton
	EventSubstitute
	EventSubstituteObj
	EventParallelCols
	EventReplace
	EventSparsify
	EventEmptyColumn
	EventNonBindingRow
	EventEmptyRow
)

// PostsolveRowCoef is one (column, coefficient) pair of a row snapshot
// recorded for reconstruction, mirroring the teacher's psCoef.
type PostsolveRowCoef[T any] struct {
	Col   int
	Value T
}

// PostsolveRow is a snapshot of a row's contents taken just before it was
// eliminated, sufficient to recompute the value of a variable solved for
// by that row during postsolve replay. HasRow distinguishes "this event
// carries a row snapshot, remap its index" from the zero value, since row
// index 0 is itself a valid row and can't double as its own sentinel.
type PostsolveRow[T any] struct {
	HasRow bool
	Row    int
	Lhs    T
	Rhs    T
	Coefs  []PostsolveRowCoef[T]
}

// PostsolveEvent is one append-only entry of the postsolve log.
type PostsolveEvent[T any] struct {
	Kind PostsolveEventKind

	Col  int
	Col2 int // second column, for Parallel/Replace
	Row  PostsolveRow[T]

	// Scalars whose meaning depends on Kind: fixed value, scale, offset,
	// merged bound snapshots for PARALLEL (see applyParallel).
	Val1, Val2, Val3, Val4 T

	// ColFlags1/2 snapshot the eliminated column's integrality/bound
	// flags at the moment of elimination (PARALLEL records both columns'
	// flags so postsolve can tell which one was integral).
	ColFlags1, ColFlags2 ColFlag
}

// PostsolveLog is the append-only sequence of reconstruction events.
type PostsolveLog[T any] struct {
	events []PostsolveEvent[T]
}

// NewPostsolveLog returns an empty log.
func NewPostsolveLog[T any]() *PostsolveLog[T] { return &PostsolveLog[T]{} }

// Append records an event and returns its index.
func (l *PostsolveLog[T]) Append(ev PostsolveEvent[T]) int {
	l.events = append(l.events, ev)
	return len(l.events) - 1
}

// Len returns the number of recorded events.
func (l *PostsolveLog[T]) Len() int { return len(l.events) }

// Event returns the event at index i.
func (l *PostsolveLog[T]) Event(i int) PostsolveEvent[T] { return l.events[i] }

// Events returns the full log in recorded (forward chronological) order.
// Replay consumers walk it in reverse, per spec.md §2.6.
func (l *PostsolveLog[T]) Events() []PostsolveEvent[T] { return l.events }

// remapIndices rewrites every row/col index recorded in the log using the
// mapping produced by compress (old index -> new index, or -1 if the
// index was itself compacted away and therefore only ever referred to by
// value, never looked up again post-compaction). Called as one of the
// parallel compress fan-out tasks (spec.md §5).
func (l *PostsolveLog[T]) remapIndices(rowMap, colMap []int) {
	remap := func(m []int, idx int) int {
		if idx < 0 || idx >= len(m) {
			return idx
		}
		return m[idx]
	}
	for i := range l.events {
		ev := &l.events[i]
		ev.Col = remap(colMap, ev.Col)
		ev.Col2 = remap(colMap, ev.Col2)
		if ev.Row.HasRow {
			ev.Row.Row = remap(rowMap, ev.Row.Row)
			for j := range ev.Row.Coefs {
				ev.Row.Coefs[j].Col = remap(colMap, ev.Row.Coefs[j].Col)
			}
		}
	}
}
