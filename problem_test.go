package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemCompactColumnsAndRows(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](2, 3)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(1, 2, 1, n.IsZero))

	p := NewProblem[float64](m)
	p.Obj[0], p.Obj[1], p.Obj[2] = 1, 2, 3
	p.RFlags[1] |= RowRedundant

	colMap := []int{0, -1, 1}
	p.CompactColumns(colMap)
	assert.Equal(t, 2, p.NCols())
	assert.Equal(t, 1.0, p.Obj[0])
	assert.Equal(t, 3.0, p.Obj[1])

	rowMap := []int{0, -1}
	p.CompactRows(rowMap)
	assert.Equal(t, 1, p.NRows())
}

func TestProblemFlagAccessors(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 1)
	p := NewProblem[float64](m)
	_ = n

	assert.False(t, p.IsFixed(0))
	p.CFlags[0] |= ColFixed
	assert.True(t, p.IsFixed(0))
	assert.True(t, p.IsInactive(0))

	p.CFlags[0] = ColLbInf
	assert.True(t, p.IsUnbounded(0))
	assert.True(t, p.IsLbUseless(0))
}
