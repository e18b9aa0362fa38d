package presolve

import "github.com/rs/zerolog"

// DualReds selects how aggressively trivialColumnPresolve applies dual
// fixing (spec.md §4.3).
type DualReds int

const (
	// DualRedsOff disables dual fixing entirely.
	DualRedsOff DualReds = iota
	// DualRedsNonzeroObj fixes only columns with a nonzero objective
	// coefficient.
	DualRedsNonzeroObj
	// DualRedsAlways fixes any column whose lock counts permit it,
	// including zero-objective columns.
	DualRedsAlways
)

// PresolveOptions are the tunables consumed by the engine (spec.md §6).
// The engine does not parse flags or config files itself (out of scope);
// this struct is populated by an external collaborator.
type PresolveOptions struct {
	// RandomSeed seeds the Fisher-Yates shuffle used to build
	// random_row_perm / random_col_perm.
	RandomSeed uint32

	// CompressFac is the active/total ratio threshold below which
	// ClearStates triggers a compaction. Zero disables automatic
	// compaction.
	CompressFac float64

	// MinAbsCoeff is the absolute coefficient magnitude below which
	// cleanupSmallCoefficients removes an entry unconditionally.
	MinAbsCoeff float64

	// DualReds selects the dual-fixing aggressiveness.
	DualReds DualReds

	// MaxFillinPerSubstitution bounds the number of new nonzeros a
	// SUBSTITUTE reduction may introduce via aggregation.
	MaxFillinPerSubstitution int

	// MaxShiftPerRow bounds the magnitude by which a single row's sides
	// may shift as a result of one substitution.
	MaxShiftPerRow float64

	// Logger receives debug/trace diagnostics on infeasibility detection,
	// transaction rejection, and compaction. Defaults to a no-op logger;
	// logging itself is out of scope (spec.md §1), this is the ambient
	// hook an external collaborator wires up.
	Logger zerolog.Logger

	Tolerances Tolerances
}

// DefaultOptions returns the PresolveOptions the teacher's PsCtrl defaults
// correspond to, generalized with the compress/substitution knobs spec.md
// §6 names that the teacher's MPS-only presolver didn't need.
func DefaultOptions() PresolveOptions {
	return PresolveOptions{
		RandomSeed:               0,
		CompressFac:              0.5,
		MinAbsCoeff:              1e-10,
		DualReds:                 DualRedsNonzeroObj,
		MaxFillinPerSubstitution: 10,
		MaxShiftPerRow:           1e-2,
		Logger:                   zerolog.Nop(),
		Tolerances:               DefaultTolerances(),
	}
}
