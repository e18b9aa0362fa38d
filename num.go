package presolve

// Num is the tolerance-aware numeric predicate set the engine is
// parameterized over (spec.md §2, §9). It is treated elsewhere as a
// provided utility; this module supplies three concrete implementations
// (Float64Num, ExtendedNum, RationalNum) since none is available as an
// external dependency in this corpus.
//
// Implementations must be value types (safe to copy, comparable by the
// engine only through the methods below) and must not retain any of the
// arguments passed to them.
type Num[T any] interface {
	// FromFloat64 converts a float64 literal (e.g. a configured tolerance
	// or a constant like 0) into T.
	FromFloat64(f float64) T

	// ToFloat64 converts T to the nearest float64, for diagnostics only.
	ToFloat64(x T) float64

	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) T

	// IsFeasLT/GT/EQ compare a and b up to the feasibility tolerance.
	IsFeasLT(a, b T) bool
	IsFeasGT(a, b T) bool
	IsFeasEQ(a, b T) bool

	// FeasCeil/FeasFloor round x to the nearest integral value that is
	// feasible given the tolerance (used to tighten integral bounds).
	FeasCeil(x T) T
	FeasFloor(x T) T

	// IsHugeVal reports whether x exceeds the configured "huge" magnitude
	// threshold, beyond which a finite bound is treated as useless for
	// activity purposes.
	IsHugeVal(x T) bool

	// IsFeasIntegral reports whether x is within tolerance of an integer.
	IsFeasIntegral(x T) bool

	// IsZero reports whether x is within tolerance of zero.
	IsZero(x T) bool

	// Sign returns -1, 0, or 1.
	Sign(x T) int

	// Lt, Gt report exact (non-tolerant) ordering, used for index and
	// counter arithmetic expressed in T (e.g. scale-factor sign checks).
	Lt(a, b T) bool
	Gt(a, b T) bool
	Eq(a, b T) bool
}

// Tolerances groups the configurable thresholds a Num implementation reads.
// Constructors for each implementation accept this so the same feasibility
// tolerance flows through every predicate consistently.
type Tolerances struct {
	FeasTol float64 // feasibility tolerance
	HugeVal float64 // magnitude beyond which a finite bound is "huge"
}

// DefaultTolerances mirrors the values PaPILO ships as defaults.
func DefaultTolerances() Tolerances {
	return Tolerances{
		FeasTol: 1e-6,
		HugeVal: 1e15,
	}
}
