package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressPreservesSurvivorOrder(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](3, 3)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(1, 1, 1, n.IsZero))
	require.NoError(t, m.SetCoef(2, 2, 1, n.IsZero))
	m.SetRhs(0, 1)
	m.SetRhs(1, 1)
	m.SetRhs(2, 1)

	p := NewProblem[float64](m)
	p.Ubs[0], p.Ubs[1], p.Ubs[2] = 1, 1, 1
	p.RFlags[0] |= RowLhsInf
	p.RFlags[1] |= RowLhsInf
	p.RFlags[2] |= RowLhsInf
	p.NumContinuousCols = 3

	opts := DefaultOptions()
	pu := New[float64](p, NewPostsolveLog[float64](), &Statistics{}, opts, n)

	pu.markRowRedundant(1)
	pu.deleteRowsAndCols()
	pu.Compress(true)

	require.Equal(t, 2, p.NRows())
	// row 0 and row 2 survive in their original relative order.
	v0, ok0 := m.Get(0, 0)
	require.True(t, ok0)
	assert.Equal(t, 1.0, v0)
	v1, ok1 := m.Get(1, 2)
	require.True(t, ok1)
	assert.Equal(t, 1.0, v1)
}

func TestFlushRemovesFixedColumnConstant(t *testing.T) {
	pu, p := newTestPU(t)

	pu.fixCol(1, 4)
	status := pu.Flush()

	require.NotEqual(t, Infeasible, status)
	// col1 fixed at 4 with coefficient 1 in row0 folds into the rhs: 10 - 4 = 6.
	assert.Equal(t, 6.0, p.Matrix.Rhs(0))
}
