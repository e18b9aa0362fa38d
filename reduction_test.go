package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReductionConstructorsSetKind(t *testing.T) {
	assert.Equal(t, KindCoefChange, CoefChange[float64](1, 2, 3).Kind)
	assert.Equal(t, KindColOp, ColReduction[float64](1, ColOpFixed, 3).Kind)
	assert.Equal(t, KindRowOp, RowReduction[float64](1, RowOpRhs, 3).Kind)

	sub := SubstituteReduction[float64](2, 0, false)
	assert.Equal(t, KindColOp, sub.Kind)
	assert.Equal(t, ColOpSubstitute, sub.ColOp)

	subObj := SubstituteReduction[float64](2, 0, true)
	assert.Equal(t, ColOpSubstituteObj, subObj.ColOp)

	par := ParallelReduction[float64](1, 2, 0.5)
	assert.Equal(t, ColOpParallel, par.ColOp)
	assert.Equal(t, 2, par.Aux.Col2)

	rep := ReplaceReduction[float64](1, 2, 3, 4)
	assert.Equal(t, ColOpReplace, rep.ColOp)
	assert.Equal(t, 3.0, rep.Aux.Scale)
	assert.Equal(t, 4.0, rep.Aux.Offset)
}

func TestPostsolveLogRemapIndices(t *testing.T) {
	log := NewPostsolveLog[float64]()
	log.Append(PostsolveEvent[float64]{Kind: EventFixedCol, Col: 2, Val1: 1})

	rowMap := []int{0}
	colMap := []int{-1, 0, 1}
	log.remapIndices(rowMap, colMap)

	assert.Equal(t, 1, log.Event(0).Col)
}

// TestPostsolveLogRemapIndicesRemapsRowZero proves HasRow fixes the bug
// where an event whose equality row was row 0 skipped remapping because
// Row == 0 was mistaken for an absent row.
func TestPostsolveLogRemapIndicesRemapsRowZero(t *testing.T) {
	log := NewPostsolveLog[float64]()
	log.Append(PostsolveEvent[float64]{
		Kind: EventSubstitute, Col: 2,
		Row: PostsolveRow[float64]{
			HasRow: true, Row: 0,
			Coefs: []PostsolveRowCoef[float64]{{Col: 1, Value: 3}},
		},
	})

	rowMap := []int{5}
	colMap := []int{-1, 0, 1}
	log.remapIndices(rowMap, colMap)

	ev := log.Event(0)
	assert.Equal(t, 5, ev.Row.Row)
	assert.Equal(t, 0, ev.Row.Coefs[0].Col)
}
