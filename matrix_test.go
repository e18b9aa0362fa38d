package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintMatrixSetCoefAndGet(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](2, 2)

	require.NoError(t, m.SetCoef(0, 0, 3, n.IsZero))
	require.NoError(t, m.SetCoef(0, 1, -1, n.IsZero))

	v, ok := m.Get(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 1, m.ColSize(0))
	assert.Equal(t, 2, m.RowSize(0))

	require.NoError(t, m.SetCoef(0, 0, 0, n.IsZero))
	_, ok = m.Get(0, 0)
	assert.False(t, ok)
	assert.Equal(t, 0, m.ColSize(0))
}

func TestConstraintMatrixSetCoefOutOfRange(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 1)

	assert.Error(t, m.SetCoef(5, 0, 1, n.IsZero))
	assert.Error(t, m.SetCoef(0, 5, 1, n.IsZero))
}

func TestConstraintMatrixFlushBuffer(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](1, 2)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(0, 1, 2, n.IsZero))

	var buf MatrixBuffer[float64]
	buf.Stage(0, 1, 0)

	touched := map[int]bool{}
	require.NoError(t, m.FlushBuffer(&buf, n.IsZero, func(row, col int, oldVal, newVal float64, hadOld bool) {
		touched[row] = true
	}))

	_, ok := m.Get(0, 1)
	assert.False(t, ok)
	assert.True(t, touched[0])
	assert.Equal(t, 0, buf.Len())
}

func TestConstraintMatrixCompactPreservesOrder(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	m := NewConstraintMatrix[float64](3, 3)
	require.NoError(t, m.SetCoef(0, 0, 1, n.IsZero))
	require.NoError(t, m.SetCoef(1, 1, 1, n.IsZero))
	require.NoError(t, m.SetCoef(2, 2, 1, n.IsZero))

	m.MarkRowDeleted(1)
	m.MarkColDeleted(1)

	rowMap, colMap := m.Compact()

	require.Equal(t, 2, m.NRows())
	require.Equal(t, 2, m.NCols())
	assert.Equal(t, -1, rowMap[1])
	assert.Equal(t, -1, colMap[1])
	// row/col 0 and 2 keep their relative order: 0 stays first, 2 becomes
	// the second surviving entry.
	assert.Equal(t, 0, rowMap[0])
	assert.Equal(t, 1, rowMap[2])
	assert.Equal(t, 0, colMap[0])
	assert.Equal(t, 1, colMap[2])
}
