// Executable demonstrating use of the presolve package.
//
// It builds a small linear program in memory, runs one round of trivial
// presolve, reports the reductions Statistics recorded, and prints how many
// postsolve events were logged. It has no file-format or solver
// dependency: feeding a real MPS/LP-parsed problem in is the job of an
// external driver, out of scope for this package.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mkoeppe/papilo"
)

// buildSampleProblem constructs:
//
//	min   x0 + 2 x1
//	s.t.  x0 +   x1 <= 10
//	      x0 -   x1  = 0
//	      0 <= x0, x1 <= 8
//
// Both rows keep two nonzeros, so neither is a singleton row, and the
// equation row gives each column a down-lock, so dual fixing leaves both
// columns in place. The problem mainly shows how a Problem, its row flags
// and a ProblemUpdate are wired together; it does not model anything real.
func buildSampleProblem(num presolve.Num[float64]) *presolve.Problem[float64] {
	const nrows, ncols = 2, 2

	matrix := presolve.NewConstraintMatrix[float64](nrows, ncols)
	isZero := num.IsZero

	must(matrix.SetCoef(0, 0, 1, isZero))
	must(matrix.SetCoef(0, 1, 1, isZero))
	matrix.SetRhs(0, 10)

	must(matrix.SetCoef(1, 0, 1, isZero))
	must(matrix.SetCoef(1, 1, -1, isZero))
	matrix.SetLhs(1, 0)
	matrix.SetRhs(1, 0)

	p := presolve.NewProblem[float64](matrix)
	p.Obj[0], p.Obj[1] = 1, 2
	p.Ubs[0], p.Ubs[1] = 8, 8
	p.RFlags[0] |= presolve.RowLhsInf
	p.RFlags[1] |= presolve.RowEquation
	p.NumContinuousCols = ncols

	return p
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "building sample problem"))
		os.Exit(1)
	}
}

func main() {
	opts := presolve.DefaultOptions()
	opts.RandomSeed = 42
	opts.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	num := presolve.NewFloat64Num(opts.Tolerances)
	problem := buildSampleProblem(num)

	postsolveLog := presolve.NewPostsolveLog[float64]()
	stats := &presolve.Statistics{}

	pu := presolve.New(problem, postsolveLog, stats, opts, num)

	pu.BeginRound()
	switch pu.TrivialPresolve() {
	case presolve.Infeasible:
		fmt.Println("problem found infeasible during trivial presolve")
		return
	case presolve.UnbndOrInfeas:
		fmt.Println("problem found unbounded-or-infeasible during trivial presolve")
		return
	}

	fmt.Printf("rounds=%d deleted_rows=%d deleted_cols=%d bound_changes=%d side_changes=%d coef_changes=%d\n",
		stats.Rounds, stats.DeletedRows, stats.DeletedCols, stats.BoundChanges, stats.SideChanges, stats.CoefficientChgs)
	fmt.Printf("postsolve events recorded: %d\n", postsolveLog.Len())
	fmt.Printf("active rows=%d active cols=%d\n", pu.GetNActiveRows(), pu.GetNActiveCols())
}
