package presolve

// Statistics accumulates the integer counters the driver reports between
// rounds. Mirrors the bookkeeping the teacher keeps ad hoc via numDltd
// out-parameters (Beldin123-lpo's delTaggedRows/delTaggedCols), folded
// into one struct per spec.md §2.
type Statistics struct {
	DeletedRows      int
	DeletedCols      int
	BoundChanges     int
	SideChanges      int
	CoefficientChgs  int
	Rounds           int
}

// BeginRound advances the round epoch. update_activity (spec.md §4.2)
// compares a row's lastchange against this epoch to suppress duplicate
// activity-change enqueues within the same round; spec.md names
// stats.nrounds but not the operation that advances it (SPEC_FULL.md §4).
func (s *Statistics) BeginRound() { s.Rounds++ }
