package presolve

import "math/big"

// RationalNum implements Num[*big.Rat] for exact rational arithmetic: no
// reduction ever introduces rounding error, at the cost of unbounded
// numerator/denominator growth over long aggregation chains. Feasibility
// tolerances are still honored (spec.md parameterizes Num on tolerance, it
// does not require exact equality even for the rational backend) so that
// the same trivial-presolve logic runs unmodified regardless of T.
type RationalNum struct {
	Tol Tolerances
}

func NewRationalNum(tol Tolerances) RationalNum { return RationalNum{Tol: tol} }

func (n RationalNum) FromFloat64(f float64) *big.Rat {
	r := new(big.Rat)
	r.SetFloat64(f)
	if r == nil {
		return new(big.Rat)
	}
	return r
}

func (n RationalNum) ToFloat64(x *big.Rat) float64 {
	f, _ := new(big.Float).SetRat(x).Float64()
	return f
}

func (n RationalNum) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (n RationalNum) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (n RationalNum) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (n RationalNum) Div(a, b *big.Rat) *big.Rat { return new(big.Rat).Quo(a, b) }

func (n RationalNum) feasTol() *big.Rat { return n.FromFloat64(n.Tol.FeasTol) }

func (n RationalNum) IsFeasLT(a, b *big.Rat) bool {
	d := n.Sub(a, b)
	return d.Cmp(new(big.Rat).Neg(n.feasTol())) < 0
}

func (n RationalNum) IsFeasGT(a, b *big.Rat) bool {
	return n.Sub(a, b).Cmp(n.feasTol()) > 0
}

func (n RationalNum) IsFeasEQ(a, b *big.Rat) bool {
	d := n.Sub(a, b)
	d.Abs(d)
	return d.Cmp(n.feasTol()) <= 0
}

func (n RationalNum) FeasCeil(x *big.Rat) *big.Rat {
	shifted := n.Sub(x, n.feasTol())
	q := new(big.Int).Div(shifted.Num(), shifted.Denom())
	r := new(big.Rat).SetInt(q)
	if r.Cmp(shifted) < 0 {
		r.Add(r, big.NewRat(1, 1))
	}
	return r
}

func (n RationalNum) FeasFloor(x *big.Rat) *big.Rat {
	shifted := n.Add(x, n.feasTol())
	q := new(big.Int).Div(shifted.Num(), shifted.Denom())
	r := new(big.Rat).SetInt(q)
	if r.Cmp(shifted) > 0 {
		r.Sub(r, big.NewRat(1, 1))
	}
	return r
}

func (n RationalNum) IsHugeVal(x *big.Rat) bool {
	abs := new(big.Rat).Abs(x)
	return abs.Cmp(n.FromFloat64(n.Tol.HugeVal)) >= 0
}

func (n RationalNum) IsFeasIntegral(x *big.Rat) bool {
	q := new(big.Int).Div(x.Num(), x.Denom())
	nearest := new(big.Rat).SetInt(q)
	d := new(big.Rat).Sub(x, nearest)
	d.Abs(d)
	if d.Cmp(n.feasTol()) <= 0 {
		return true
	}
	one := big.NewRat(1, 1)
	return new(big.Rat).Sub(one, d).Cmp(n.feasTol()) <= 0
}

func (n RationalNum) IsZero(x *big.Rat) bool {
	abs := new(big.Rat).Abs(x)
	return abs.Cmp(n.feasTol()) <= 0
}

func (n RationalNum) Sign(x *big.Rat) int { return x.Sign() }

func (n RationalNum) Lt(a, b *big.Rat) bool { return a.Cmp(b) < 0 }
func (n RationalNum) Gt(a, b *big.Rat) bool { return a.Cmp(b) > 0 }
func (n RationalNum) Eq(a, b *big.Rat) bool { return a.Cmp(b) == 0 }
