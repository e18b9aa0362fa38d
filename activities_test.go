package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivitiesRecompute(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())
	a := NewActivities[float64](1)

	nz := []rowEntry[float64]{{Col: 0, Val: 2}, {Col: 1, Val: -1}}
	lb := map[int]float64{0: 0, 1: 0}
	ub := map[int]float64{0: 4, 1: 3}

	a.Recompute(n, 0, nz,
		func(c int) float64 { return lb[c] },
		func(c int) float64 { return ub[c] },
		func(c int) bool { return false },
		func(c int) bool { return false },
	)

	act := a.Get(0)
	// min: 2*0 + (-1)*3 = -3 ; max: 2*4 + (-1)*0 = 8
	assert.Equal(t, -3.0, act.Min)
	assert.Equal(t, 8.0, act.Max)
	assert.Equal(t, 0, act.NInfMin)
	assert.Equal(t, 0, act.NInfMax)
}

func TestCheckStatus(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())

	redundant := RowActivity[float64]{Min: 1, Max: 5}
	assert.Equal(t, StatusRedundant, CheckStatus(n, redundant, 0, 10, false, false))

	infeasible := RowActivity[float64]{Min: 11, Max: 20}
	assert.Equal(t, StatusInfeasible, CheckStatus(n, infeasible, 0, 10, false, false))

	redundantLhs := RowActivity[float64]{Min: 1, Max: 20}
	assert.Equal(t, StatusRedundantLhs, CheckStatus(n, redundantLhs, 0, 10, false, false))

	unknown := RowActivity[float64]{Min: -5, Max: 20}
	assert.Equal(t, StatusUnknown, CheckStatus(n, unknown, 0, 10, false, false))
}

func TestActivitiesCompact(t *testing.T) {
	a := NewActivities[float64](3)
	a.Set(0, RowActivity[float64]{Min: 1})
	a.Set(1, RowActivity[float64]{Min: 2})
	a.Set(2, RowActivity[float64]{Min: 3})

	a.Compact([]int{0, -1, 1})

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1.0, a.Get(0).Min)
	assert.Equal(t, 3.0, a.Get(1).Min)
}
