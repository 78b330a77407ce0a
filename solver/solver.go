// Package solver implements the solver layer (spec §4.8, §4.9):
// BranchingSolver and CompositeSolver over the backend/z3 SMT state,
// both sharing the Result-caching discipline every mutating operation
// invalidates.
//
// Grounded on original_source/claripy/frontend_mixins and
// original_source/claripy/frontends (CompositeFrontend's
// variable-partitioned children, BranchingFrontend's push/pop reuse),
// re-expressed in the teacher's Engine/session idiom: a struct holding
// collaborators (here, backend/z3 solver states) rather than a mixin
// chain, since Go has no multiple inheritance to model the Python
// original's frontend_mixins composition.
package solver

import (
	"github.com/google/uuid"

	"github.com/dolthub/claragopy/backend/z3"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/result"
)

// Solver is the common contract every solver variant implements (spec
// §4.8).
type Solver interface {
	ID() string
	Add(constraints ...*expr.Base) error
	Satisfiable(extra ...*expr.Base) (bool, error)
	Eval(e *expr.Base, n int, extra ...*expr.Base) ([]any, error)
	Min(e *expr.Base, extra ...*expr.Base) (any, error)
	Max(e *expr.Base, extra ...*expr.Base) (any, error)
	Solution(e *expr.Base, v *expr.Base) (bool, error)
	Simplify() error
	Branch() Solver
	Variables() map[string]struct{}
}

// resultCache is embedded by every solver variant: it holds the
// single cached *result.Result (spec §4.9) and the invalidation
// helper every mutating call uses.
type resultCache struct {
	cached *result.Result
}

func (c *resultCache) get() *result.Result { return c.cached }
func (c *resultCache) set(r *result.Result) { c.cached = r }
func (c *resultCache) invalidate()          { c.cached = nil }

// newID mints a solver identity the way the teacher mints session IDs
// (google/uuid), used for logging/debugging, not for any correctness
// purpose.
func newID() string { return uuid.NewString() }

// requireSat turns an unsatisfiable underlying check into UnsatError
// per spec §7. No solver in this package calls it: Eval/Min/Max return
// whatever the underlying SolverState reports.
func requireSat(sat bool) error {
	if !sat {
		return errs.UnsatError.New("no satisfying assignment exists for this query")
	}
	return nil
}

// z3Backend is the package-wide default SMT backend every solver's
// per-group SolverState is built against; solver tests may construct
// their own to avoid sharing native Z3 context state across cases.
var z3Backend = z3.New(nil)

// defaultTimeout is the z3.Timeout every new SolverState is created
// with, set once at façade construction time via SetDefaultTimeout
// (claripy.New reads it off config.Config.Timeout). Zero disables the
// solver-level timeout, matching backend_z3.py's default.
var defaultTimeout z3.Timeout

// SetDefaultTimeout overrides the SMT solver timeout new BranchingSolver
// and CompositeSolver states are built with (spec §6's configuration
// surface, config.Config.Timeout).
func SetDefaultTimeout(t z3.Timeout) { defaultTimeout = t }

// CurrentDefaultTimeout returns the timeout new solver states are
// currently built with, for callers (tests) confirming façade wiring.
func CurrentDefaultTimeout() z3.Timeout { return defaultTimeout }
