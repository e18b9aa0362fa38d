package presolve

// ColFlag records per-column properties that do not change the column's
// index but affect how it participates in activity and reduction: whether
// it is integral, whether its bounds are infinite or merely "huge", and
// whether it has already been eliminated by a reduction.
type ColFlag uint16

// ColNone is the zero value: a continuous column with finite, non-useless
// bounds that has not been touched by any reduction.
const ColNone ColFlag = 0

const (
	ColIntegral ColFlag = 1 << iota
	ColImplInt
	ColLbInf
	ColUbInf
	ColLbHuge
	ColUbHuge
	ColLbUseless
	ColUbUseless
	ColFixed
	ColSubstituted
)

// Unbounded reports whether either bound is infinite.
func (f ColFlag) Unbounded() bool { return f&(ColLbInf|ColUbInf) != 0 }

// Inactive reports whether the column has been eliminated (fixed or
// substituted) and should be skipped by everything except postsolve.
func (f ColFlag) Inactive() bool { return f&(ColFixed|ColSubstituted) != 0 }

// LbUseless reports whether the lower bound does not constrain activity,
// i.e. it is infinite or classified huge.
func (f ColFlag) LbUseless() bool { return f&(ColLbInf|ColLbHuge|ColLbUseless) != 0 }

// UbUseless reports whether the upper bound does not constrain activity.
func (f ColFlag) UbUseless() bool { return f&(ColUbInf|ColUbHuge|ColUbUseless) != 0 }

// RowFlag records per-row properties: whether both sides are finite and
// equal (Equation), whether either side is absent, and whether the row has
// been proven redundant.
type RowFlag uint16

const RowNone RowFlag = 0

const (
	RowLhsInf RowFlag = 1 << iota
	RowRhsInf
	RowEquation
	RowRedundant
)

// ValidEquation reports whether the Equation bit is consistent with the
// finiteness bits: a non-redundant row is an Equation iff both sides are
// finite and equal (spec.md §3 invariant). This only checks the flag
// consistency; equality of the actual side values is the caller's
// responsibility to have established before setting the bit.
func (f RowFlag) ValidEquation() bool {
	if f&RowRedundant != 0 {
		return true
	}
	if f&RowEquation == 0 {
		return true
	}
	return f&(RowLhsInf|RowRhsInf) == 0
}

// State is the per-round dirty-set bitmask for a row or column. Only
// entries with a non-zero State are touched when a round boundary is
// crossed (ClearStates), which is what keeps that operation from being an
// O(n) scan of the whole problem.
type State uint8

const StateUnmodified State = 0

const (
	StateLocked State = 1 << iota
	StateModified
	StateBoundsModified
)

func (s State) has(bit State) bool { return s&bit != 0 }
