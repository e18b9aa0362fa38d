package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPU builds a tiny 1-row, 2-col ProblemUpdate: x0 + x1 <= 10,
// both columns continuous in [0, 8], for exercising bound/activity
// bookkeeping in isolation.
func newTestPU(t *testing.T) (*ProblemUpdate[float64], *Problem[float64]) {
	t.Helper()
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 2)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(0, 1, 1, n.IsZero))
	m.SetRhs(0, 10)

	p := NewProblem[float64](m)
	p.Ubs[0], p.Ubs[1] = 8, 8
	p.RFlags[0] |= RowLhsInf
	p.NumContinuousCols = 2

	opts := DefaultOptions()
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)
	return pu, p
}

func TestChangeLBTightensAndRecordsActivity(t *testing.T) {
	pu, p := newTestPU(t)

	st := pu.changeLB(0, 3)
	assert.Equal(t, Reduced, st)
	assert.Equal(t, 3.0, p.Lbs[0])
	assert.Equal(t, 1, pu.stats.BoundChanges)

	act := pu.activities.Get(0)
	// min contribution for col0 moved from 0 to 3.
	assert.Equal(t, 3.0, act.Min)
}

func TestChangeLBUnchangedWhenNotTighter(t *testing.T) {
	pu, _ := newTestPU(t)
	st := pu.changeLB(0, -1)
	assert.Equal(t, Unchanged, st)
}

func TestChangeLBEqualsUBFixesColumn(t *testing.T) {
	pu, p := newTestPU(t)
	st := pu.changeLB(0, 8)
	assert.Equal(t, Reduced, st)
	assert.True(t, p.CFlags[0]&ColFixed != 0)
	assert.Equal(t, 1, pu.stats.DeletedCols)
	assert.Equal(t, 1, p.NumContinuousCols)
}

func TestFixColDetectsInfeasibility(t *testing.T) {
	pu, _ := newTestPU(t)
	st := pu.fixCol(0, 20)
	assert.Equal(t, Infeasible, st)
}

func TestFixColMarksFixed(t *testing.T) {
	pu, p := newTestPU(t)
	st := pu.fixCol(0, 5)
	assert.Equal(t, Reduced, st)
	assert.True(t, p.CFlags[0]&ColFixed != 0)
	assert.Equal(t, uint(1), pu.deletedCols.Count())
}

func TestMarkColFixedBookkeeping(t *testing.T) {
	pu, p := newTestPU(t)
	before := p.NumContinuousCols
	pu.markColFixed(1)

	assert.True(t, p.CFlags[1]&ColFixed != 0)
	assert.True(t, pu.deletedCols.Test(1))
	assert.Equal(t, 1, pu.stats.DeletedCols)
	assert.Equal(t, before-1, p.NumContinuousCols)
}
