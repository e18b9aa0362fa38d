package presolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsBeginRound(t *testing.T) {
	var s Statistics
	assert.Equal(t, 0, s.Rounds)
	s.BeginRound()
	s.BeginRound()
	assert.Equal(t, 2, s.Rounds)
}
