package presolve

import "math/big"

// extendedPrec is the mantissa precision, in bits, used by ExtendedNum.
// Chosen well above float64's 53 bits so that long chains of activity
// accumulation (spec.md §4.2) don't lose the bottom few bits that matter
// for feasibility decisions near the tolerance boundary.
const extendedPrec = 200

// ExtendedNum implements Num[*big.Float] for extended-precision
// arithmetic, grounded on predrag3141-PSLQ's bignumber package (an
// arbitrary-mantissa float built for the same "don't lose precision across
// a long reduction chain" problem) but implemented directly on top of
// math/big.Float, since that is the standard library's own extended-float
// type and needs no hand-rolled mantissa bookkeeping.
type ExtendedNum struct {
	Tol Tolerances
}

func NewExtendedNum(tol Tolerances) ExtendedNum { return ExtendedNum{Tol: tol} }

func (n ExtendedNum) newFloat() *big.Float {
	return new(big.Float).SetPrec(extendedPrec)
}

func (n ExtendedNum) FromFloat64(f float64) *big.Float {
	return n.newFloat().SetFloat64(f)
}

func (n ExtendedNum) ToFloat64(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}

func (n ExtendedNum) Add(a, b *big.Float) *big.Float { return n.newFloat().Add(a, b) }
func (n ExtendedNum) Sub(a, b *big.Float) *big.Float { return n.newFloat().Sub(a, b) }
func (n ExtendedNum) Mul(a, b *big.Float) *big.Float { return n.newFloat().Mul(a, b) }
func (n ExtendedNum) Div(a, b *big.Float) *big.Float { return n.newFloat().Quo(a, b) }

func (n ExtendedNum) feasTol() *big.Float { return n.newFloat().SetFloat64(n.Tol.FeasTol) }

func (n ExtendedNum) IsFeasLT(a, b *big.Float) bool {
	return n.Sub(a, b).Cmp(new(big.Float).Neg(n.feasTol())) < 0
}

func (n ExtendedNum) IsFeasGT(a, b *big.Float) bool {
	return n.Sub(a, b).Cmp(n.feasTol()) > 0
}

func (n ExtendedNum) IsFeasEQ(a, b *big.Float) bool {
	d := n.Sub(a, b)
	d.Abs(d)
	return d.Cmp(n.feasTol()) <= 0
}

func (n ExtendedNum) FeasCeil(x *big.Float) *big.Float {
	shifted := n.Sub(x, n.feasTol())
	i, _ := shifted.Int(nil)
	r := n.newFloat().SetInt(i)
	if r.Cmp(shifted) < 0 {
		r.Add(r, n.newFloat().SetInt64(1))
	}
	return r
}

func (n ExtendedNum) FeasFloor(x *big.Float) *big.Float {
	shifted := n.Add(x, n.feasTol())
	i, _ := shifted.Int(nil)
	r := n.newFloat().SetInt(i)
	if r.Cmp(shifted) > 0 {
		r.Sub(r, n.newFloat().SetInt64(1))
	}
	return r
}

func (n ExtendedNum) IsHugeVal(x *big.Float) bool {
	abs := n.newFloat().Abs(x)
	return abs.Cmp(n.newFloat().SetFloat64(n.Tol.HugeVal)) >= 0
}

func (n ExtendedNum) IsFeasIntegral(x *big.Float) bool {
	i, _ := x.Int(nil)
	r := n.Sub(x, n.newFloat().SetInt(i))
	r.Abs(r)
	return r.Cmp(n.feasTol()) <= 0 || n.Sub(n.newFloat().SetFloat64(1), r).Cmp(n.feasTol()) <= 0
}

func (n ExtendedNum) IsZero(x *big.Float) bool {
	abs := n.newFloat().Abs(x)
	return abs.Cmp(n.feasTol()) <= 0
}

func (n ExtendedNum) Sign(x *big.Float) int { return x.Sign() }

func (n ExtendedNum) Lt(a, b *big.Float) bool { return a.Cmp(b) < 0 }
func (n ExtendedNum) Gt(a, b *big.Float) bool { return a.Cmp(b) > 0 }
func (n ExtendedNum) Eq(a, b *big.Float) bool { return a.Cmp(b) == 0 }
