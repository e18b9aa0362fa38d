package presolve

import "math"

// Float64Num implements Num[float64] using IEEE double precision, the
// common case and the default used by the teacher's own arithmetic.
type Float64Num struct {
	Tol Tolerances
}

// NewFloat64Num constructs a Float64Num with the given tolerances.
func NewFloat64Num(tol Tolerances) Float64Num { return Float64Num{Tol: tol} }

func (n Float64Num) FromFloat64(f float64) float64 { return f }
func (n Float64Num) ToFloat64(x float64) float64   { return x }

func (n Float64Num) Add(a, b float64) float64 { return a + b }
func (n Float64Num) Sub(a, b float64) float64 { return a - b }
func (n Float64Num) Mul(a, b float64) float64 { return a * b }
func (n Float64Num) Div(a, b float64) float64 { return a / b }

func (n Float64Num) IsFeasLT(a, b float64) bool { return a < b-n.Tol.FeasTol }
func (n Float64Num) IsFeasGT(a, b float64) bool { return a > b+n.Tol.FeasTol }
func (n Float64Num) IsFeasEQ(a, b float64) bool { return math.Abs(a-b) <= n.Tol.FeasTol }

func (n Float64Num) FeasCeil(x float64) float64  { return math.Ceil(x - n.Tol.FeasTol) }
func (n Float64Num) FeasFloor(x float64) float64 { return math.Floor(x + n.Tol.FeasTol) }

func (n Float64Num) IsHugeVal(x float64) bool { return math.Abs(x) >= n.Tol.HugeVal }

func (n Float64Num) IsFeasIntegral(x float64) bool {
	return math.Abs(x-math.Round(x)) <= n.Tol.FeasTol
}

func (n Float64Num) IsZero(x float64) bool { return math.Abs(x) <= n.Tol.FeasTol }

func (n Float64Num) Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func (n Float64Num) Lt(a, b float64) bool { return a < b }
func (n Float64Num) Gt(a, b float64) bool { return a > b }
func (n Float64Num) Eq(a, b float64) bool { return a == b }
