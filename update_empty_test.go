package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEmptyColumnProblem(t *testing.T) (*ProblemUpdate[float64], *Problem[float64]) {
	t.Helper()
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 3)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	m.SetRhs(0, 10)

	p := NewProblem[float64](m)
	p.Ubs[0], p.Ubs[1], p.Ubs[2] = 8, 8, 8
	p.RFlags[0] |= RowLhsInf
	p.NumContinuousCols = 3

	opts := DefaultOptions()
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)
	return pu, p
}

func TestRemoveEmptyColumnsFixesZeroObjectiveToZero(t *testing.T) {
	pu, p := buildEmptyColumnProblem(t)
	pu.emptyColumns = []int{1}

	status := pu.removeEmptyColumns()

	assert.Equal(t, Reduced, status)
	assert.True(t, p.IsFixed(1))
	assert.Equal(t, 0, len(pu.emptyColumns))
}

func TestRemoveEmptyColumnsFixesNegativeObjectiveToUpperBound(t *testing.T) {
	pu, p := buildEmptyColumnProblem(t)
	p.Obj[2] = -3
	pu.emptyColumns = []int{2}

	status := pu.removeEmptyColumns()

	require.Equal(t, Reduced, status)
	assert.True(t, p.IsFixed(2))
	assert.Equal(t, -24.0, p.ObjOffset)
}

func TestRemoveEmptyColumnsDetectsUnbounded(t *testing.T) {
	pu, p := buildEmptyColumnProblem(t)
	p.Obj[2] = -3
	p.CFlags[2] |= ColUbInf
	pu.emptyColumns = []int{2}

	status := pu.removeEmptyColumns()

	assert.Equal(t, UnbndOrInfeas, status)
}

func TestEmptyColumnOrderRanksLargerObjectiveFirst(t *testing.T) {
	pu, p := buildEmptyColumnProblem(t)
	p.Obj[0] = -1
	p.Obj[1] = -5
	p.Obj[2] = -2

	ordered := pu.emptyColumnOrder([]int{0, 1, 2})

	require.Len(t, ordered, 3)
	assert.Equal(t, 1, ordered[0])
}

func TestRemoveEmptyColumnsDisabledWhenDualRedsOff(t *testing.T) {
	pu, _ := buildEmptyColumnProblem(t)
	pu.options.DualReds = DualRedsOff
	pu.emptyColumns = []int{1}

	status := pu.removeEmptyColumns()

	assert.Equal(t, Unchanged, status)
}
