// 01   Initial version: presolve update engine extracted from lpo's psf.go
// 02   Generalized Rows/Cols/Elems globals into a ProblemUpdate instance

/*
Package presolve implements the update engine of a parallel presolver for
mixed-integer and linear optimization problems. It owns the evolving problem
state during presolve and mediates between independent presolve methods
(external proposers of reductions, not part of this package) and the
canonical problem: rows, columns, coefficients, bounds, activities,
objective, and the postsolve log needed to reconstruct a solution in the
original space.

Responsibilities

The engine:

	- maintains the problem's invariants as reductions are applied
	- serializes concurrently proposed reductions into a conflict-free
	  sequence (checkTransactionConflicts / ApplyTransaction)
	- executes trivial presolve: bound rounding, dual fixing, singleton
	  row/column elimination, activity-based redundancy and infeasibility
	  detection
	- records postsolve notifications so the original-space solution can
	  later be reconstructed by a separate collaborator
	- compacts storage once enough rows/columns have been eliminated

Out of scope

The individual presolve methods (coefficient tightening, dominated columns,
probing, ...), the driver loop that schedules those methods in rounds, MPS/LP
file I/O, and CLI/configuration parsing are external collaborators. This
package consumes method-produced reduction batches and emits mutation and
postsolve events; it does not solve the optimization problem or replay
postsolve to recover a primal solution.

Numeric types

The engine is parameterized over a numeric type T via the Num[T] interface,
with implementations for IEEE double (Float64Num), an extended-precision
float (ExtendedNum), and an exact rational (RationalNum).

Usage

	opts := presolve.DefaultOptions()
	opts.RandomSeed = 42
	pu := presolve.New(problem, postsolveLog, stats, opts, presolve.Float64Num{})

	status := pu.TrivialPresolve()
	if status == presolve.Infeasible {
		...
	}

	switch pu.ApplyTransaction(txn) {
	case presolve.Applied:
		...
	case presolve.Rejected, presolve.Postponed:
		...
	}

	pu.ClearStates()
	pu.Compress(false)
*/
package presolve
