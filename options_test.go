package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, DualRedsNonzeroObj, opts.DualReds)
	assert.Equal(t, 0.5, opts.CompressFac)
	assert.Equal(t, DefaultTolerances(), opts.Tolerances)
	assert.Equal(t, 10, opts.MaxFillinPerSubstitution)
}
