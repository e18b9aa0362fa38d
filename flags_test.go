package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColFlagPredicates(t *testing.T) {
	assert.True(t, ColFlag(ColLbInf).Unbounded())
	assert.False(t, ColNone.Unbounded())

	assert.True(t, (ColFixed | ColLbInf).Inactive())
	assert.True(t, ColSubstituted.Inactive())
	assert.False(t, ColNone.Inactive())

	assert.True(t, ColLbHuge.LbUseless())
	assert.True(t, ColUbUseless.UbUseless())
	assert.False(t, ColNone.LbUseless())
}

func TestRowFlagValidEquation(t *testing.T) {
	assert.True(t, RowNone.ValidEquation())
	assert.True(t, RowRedundant.ValidEquation())
	assert.True(t, (RowEquation | RowLhsInf).ValidEquation() == false)
	assert.True(t, RowEquation.ValidEquation())
}

func TestStateDirtyTracking(t *testing.T) {
	var s State = StateUnmodified
	assert.False(t, s.has(StateModified))
	s |= StateModified
	assert.True(t, s.has(StateModified))
}
