// Package errs defines the error taxonomy shared by every claragopy
// package: expression construction, backend dispatch, and solving.
//
// Errors are declared as gopkg.in/src-d/go-errors.v1 Kinds, the same way
// the teacher declares sentinel *errors.Kind values and tests assert
// membership with Kind.Is. A Kind carries a message format and lets
// callers distinguish error classes with Is() without string matching.
package errs

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ClaripyError is the root of the taxonomy; every error below wraps it
// conceptually but is declared as its own Kind so callers can match the
// specific failure instead of testing against the root.
var ClaripyError = goerrors.NewKind("claripy error: %s")

// BackendError is raised when an operation is unsupported by a backend,
// or the operands have the wrong kind for it. Callers catch this at the
// façade layer and fall through to the next backend in precedence.
var BackendError = goerrors.NewKind("backend error: %s")

// ClaripyOperationError signals a structurally invalid operation, e.g.
// Reverse on a non-byte-sized bitvector or Extract with out-of-range
// bounds.
var ClaripyOperationError = goerrors.NewKind("invalid operation: %s")

// ClaripyZ3Error wraps every native SMT exception translated at the
// cgo/Z3 boundary.
var ClaripyZ3Error = goerrors.NewKind("z3 error: %s")

// UnsatError is raised by eval when no model exists and the caller
// requested at least one sample.
var UnsatError = goerrors.NewKind("unsat: %s")

// SolverTimeoutError is raised when a configured SMT timeout causes a
// check to return "unknown" rather than sat/unsat.
var SolverTimeoutError = goerrors.NewKind("solver timeout: %s")

// MixedVariablesError is raised by CompositeSolver.eval/min/max when no
// single child solver's variable set covers the expression's variables.
var MixedVariablesError = goerrors.NewKind("mixed variables error: %s")
