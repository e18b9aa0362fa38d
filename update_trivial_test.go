package presolve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSingletonRowProblem builds: x0 + x1 <= 10 (row 0), 2*x0 <= 6 (row 1,
// a singleton on col0), both cols in [0, 100].
func buildSingletonRowProblem(t *testing.T) (*ProblemUpdate[float64], *Problem[float64]) {
	t.Helper()
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](2, 2)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(0, 1, 1, n.IsZero))
	m.SetRhs(0, 10)

	require.NoError(t, m.SetCoef(1, 0, 2, n.IsZero))
	m.SetRhs(1, 6)

	p := NewProblem[float64](m)
	p.Ubs[0], p.Ubs[1] = 100, 100
	p.RFlags[0] |= RowLhsInf
	p.RFlags[1] |= RowLhsInf
	p.NumContinuousCols = 2

	opts := DefaultOptions()
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)
	return pu, p
}

func TestTrivialPresolveResolvesSingletonRow(t *testing.T) {
	pu, p := buildSingletonRowProblem(t)

	pu.BeginRound()
	status := pu.TrivialPresolve()

	require.NotEqual(t, Infeasible, status)
	require.NotEqual(t, UnbndOrInfeas, status)

	// row 1 (2*x0 <= 6) should have folded into x0's upper bound (3) and
	// been marked redundant.
	assert.LessOrEqual(t, p.Ubs[0], 3.0+1e-9)
}

func TestTrivialPresolveDetectsInfeasibleBounds(t *testing.T) {
	pu, p := newTestPU(t)
	p.Lbs[0] = 9
	p.Ubs[0] = 8

	pu.BeginRound()
	status := pu.TrivialPresolve()
	assert.Equal(t, Infeasible, status)
}

func TestRecomputeLocks(t *testing.T) {
	pu, p := newTestPU(t)
	pu.recomputeLocks()

	// col0/col1 both have positive coefficient 1 in row0, which only has a
	// finite rhs (lhs is -inf): that's an up-lock only.
	assert.Equal(t, 0, p.Locks[0].Down)
	assert.Equal(t, 1, p.Locks[0].Up)
	assert.Equal(t, 0, p.Locks[1].Down)
	assert.Equal(t, 1, p.Locks[1].Up)
}

func TestApplyDualfixFixesColumnWithNoDownLockAndNonnegativeObjective(t *testing.T) {
	pu, p := newTestPU(t)
	p.Obj[0] = 1
	pu.recomputeLocks()

	st := pu.applyDualfix(0)
	assert.Equal(t, Reduced, st)
	assert.True(t, p.CFlags[0]&ColFixed != 0)
	assert.Equal(t, 0.0, p.Lbs[0])
	assert.Equal(t, 0.0, p.Ubs[0])
}

func TestRemoveSingletonRowFixesEqualityColumn(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 1)
	require.NoError(t, m.SetCoef(0, 0, 2, n.IsZero))
	m.SetLhs(0, 4)
	m.SetRhs(0, 4)

	p := NewProblem[float64](m)
	p.Ubs[0] = 100
	p.RFlags[0] |= RowEquation
	p.NumContinuousCols = 1

	opts := DefaultOptions()
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)

	st := pu.removeSingletonRow(0)
	assert.Equal(t, Reduced, st)
	assert.True(t, p.RFlags[0]&RowRedundant != 0)
	assert.True(t, p.CFlags[0]&ColFixed != 0)
	assert.Equal(t, 2.0, p.Lbs[0])
}

// TestRemoveSingletonRowFixesEqualityColumnWithRationalNum exercises the
// same singleton-row fold through RationalNum, proving the fix's division
// (lhs/val = 10/3) stays an exact fraction rather than degrading to
// float64 precision.
func TestRemoveSingletonRowFixesEqualityColumnWithRationalNum(t *testing.T) {
	n := NewRationalNum(DefaultTolerances())
	m := NewConstraintMatrix[*big.Rat](1, 1)
	require.NoError(t, m.SetCoef(0, 0, big.NewRat(3, 1), n.IsZero))
	m.SetLhs(0, big.NewRat(10, 1))
	m.SetRhs(0, big.NewRat(10, 1))

	p := NewProblem[*big.Rat](m)
	p.Lbs[0] = big.NewRat(0, 1)
	p.Ubs[0] = big.NewRat(100, 1)
	p.RFlags[0] |= RowEquation
	p.NumContinuousCols = 1

	opts := DefaultOptions()
	pu := New[*big.Rat](p, NewPostsolveLog[*big.Rat](), &Statistics{}, opts, n)

	st := pu.removeSingletonRow(0)
	require.Equal(t, Reduced, st)
	assert.True(t, p.CFlags[0]&ColFixed != 0)
	assert.Equal(t, big.NewRat(10, 3).RatString(), p.Lbs[0].RatString())
}
