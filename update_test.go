package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedsQueuesFromInitialMatrix(t *testing.T) {
	pu, _ := newTestPU(t)

	// both cols appear only in row 0, so both are singleton cols and there
	// are no empty cols or singleton rows.
	assert.ElementsMatch(t, []int{0, 1}, pu.GetSingletonCols())
	assert.Equal(t, 2, pu.GetFirstNewSingletonCol())
	assert.Empty(t, pu.emptyColumns)
	assert.Len(t, pu.GetRandomColPerm(), 2)
	assert.Len(t, pu.GetRandomRowPerm(), 1)
}

func TestFisherYatesPermIsAPermutation(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 1)
	p := NewProblem[float64](m)
	opts := DefaultOptions()
	opts.RandomSeed = 7
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)

	seen := make(map[uint32]bool)
	for _, v := range pu.randomColPerm {
		seen[v] = true
	}
	assert.Len(t, seen, len(pu.randomColPerm))
}

func TestIsColBetterForSubstitutionPrefersSmallerSize(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](2, 2)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(0, 1, 1, n.IsZero))
	require.NoError(t, m.SetCoef(1, 1, 1, n.IsZero))
	m.SetRhs(0, 10)
	m.SetRhs(1, 10)

	p := NewProblem[float64](m)
	p.Ubs[0], p.Ubs[1] = 8, 8
	p.RFlags[0] |= RowLhsInf
	p.RFlags[1] |= RowLhsInf
	p.NumContinuousCols = 2

	opts := DefaultOptions()
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)

	// col1 appears in both rows, col0 only in row0: col0 is strictly smaller.
	assert.True(t, pu.IsColBetterForSubstitution(0, 1))
	assert.False(t, pu.IsColBetterForSubstitution(1, 0))
}

func TestClearStatesResetsOnlyDirtyEntries(t *testing.T) {
	pu, _ := newTestPU(t)

	pu.markRowState(0, StateModified)
	pu.markColState(1, StateBoundsModified)
	require.NotEqual(t, StateUnmodified, pu.rowState[0])

	pu.ClearStates()

	assert.Equal(t, StateUnmodified, pu.rowState[0])
	assert.Equal(t, StateUnmodified, pu.colState[1])
	assert.Empty(t, pu.dirtyRows)
	assert.Empty(t, pu.dirtyCols)
}

func TestClearChangeInfoEmptiesChangedActivities(t *testing.T) {
	pu, _ := newTestPU(t)
	pu.changedActivities = append(pu.changedActivities, 0)

	pu.ClearChangeInfo()

	assert.Empty(t, pu.GetChangedActivities())
}

func TestBestFirstSingletonColsOrdersBySizeThenObjective(t *testing.T) {
	pu, p := newTestPU(t)
	p.Obj[0] = 0
	p.Obj[1] = 5

	ordered := pu.BestFirstSingletonCols()

	require.Len(t, ordered, 2)
	// both cols have column size 1 here (single-row problem), so the
	// zero-objective column should sort first among ties.
	assert.Equal(t, 0, ordered[0])
}
