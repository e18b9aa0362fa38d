package presolve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat64NumPredicates(t *testing.T) {
	n := NewFloat64Num(DefaultTolerances())

	assert.True(t, n.IsFeasEQ(1.0, 1.0+1e-9))
	assert.True(t, n.IsFeasLT(1.0, 1.1))
	assert.True(t, n.IsFeasGT(1.1, 1.0))
	assert.Equal(t, 3.0, n.FeasCeil(2.0000001))
	assert.Equal(t, 2.0, n.FeasFloor(2.0000001))
	assert.True(t, n.IsFeasIntegral(3.0+1e-9))
	assert.False(t, n.IsFeasIntegral(3.4))
	assert.True(t, n.IsHugeVal(1e16))
	assert.False(t, n.IsHugeVal(1.0))
	assert.Equal(t, 1, n.Sign(5))
	assert.Equal(t, -1, n.Sign(-5))
	assert.Equal(t, 0, n.Sign(0))
	assert.Equal(t, 0.5, n.Div(1, 2))
}

func TestRationalNumMatchesFloat64OnExactValues(t *testing.T) {
	fn := NewFloat64Num(DefaultTolerances())
	rn := NewRationalNum(DefaultTolerances())

	a := big.NewRat(3, 2)
	b := big.NewRat(1, 2)

	sum := rn.Add(a, b)
	require.Equal(t, big.NewRat(2, 1).RatString(), sum.RatString())
	assert.InDelta(t, fn.Add(1.5, 0.5), rn.ToFloat64(sum), 1e-12)

	assert.True(t, rn.IsFeasIntegral(big.NewRat(2, 1)))
	assert.False(t, rn.IsFeasIntegral(big.NewRat(5, 2)))
	assert.Equal(t, big.NewRat(2, 1).RatString(), rn.FeasCeil(big.NewRat(3, 2)).RatString())
	assert.Equal(t, big.NewRat(1, 1).RatString(), rn.FeasFloor(big.NewRat(3, 2)).RatString())
}

func TestRationalNumDivIsExact(t *testing.T) {
	rn := NewRationalNum(DefaultTolerances())

	// 1/3 has no terminating float64 representation; an exact rational
	// division must still recover exactly 1/3, not its float64 rounding.
	quot := rn.Div(big.NewRat(1, 1), big.NewRat(3, 1))
	assert.Equal(t, big.NewRat(1, 3).RatString(), quot.RatString())

	// a long chain of divisions must not accumulate float64 rounding error.
	acc := big.NewRat(1, 1)
	for i := 0; i < 5; i++ {
		acc = rn.Div(acc, big.NewRat(7, 1))
	}
	expected := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Exp(big.NewInt(7), big.NewInt(5), nil))
	assert.Equal(t, expected.RatString(), acc.RatString())
}

func TestExtendedNumBasicArithmetic(t *testing.T) {
	n := NewExtendedNum(DefaultTolerances())

	a := n.FromFloat64(1.0 / 3.0)
	b := n.FromFloat64(2.0 / 3.0)
	sum := n.Add(a, b)

	assert.InDelta(t, 1.0, n.ToFloat64(sum), 1e-9)
	assert.True(t, n.IsFeasEQ(sum, n.FromFloat64(1.0)))
}

func TestExtendedNumDivExtendsBeyondFloat64Precision(t *testing.T) {
	n := NewExtendedNum(DefaultTolerances())

	one := n.FromFloat64(1.0)
	three := n.FromFloat64(3.0)
	quot := n.Div(one, three)

	// float64(1)/float64(3) rounds to 53 bits; extendedPrec carries far
	// more mantissa bits, so multiplying back out should land closer to 1
	// than a plain float64 round-trip would.
	back := n.Mul(quot, three)
	diff := n.Sub(back, one)
	diff.Abs(diff)
	assert.True(t, diff.Cmp(n.newFloat().SetPrec(extendedPrec).SetFloat64(1e-18)) < 0)
}
