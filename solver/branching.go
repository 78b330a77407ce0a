package solver

import (
	"github.com/dolthub/claragopy/backend/z3"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/result"
)

// BranchingSolver holds one ordered constraint list and a lazily
// instantiated, copy-on-write-shared backend solver state (spec
// §4.8). branch() forks the constraint list and shares the state by
// handle; the first post-branch Add on either side detaches by
// rebuilding its own state.
type BranchingSolver struct {
	resultCache
	id          string
	constraints []*expr.Base
	vars        map[string]struct{}
	state       *sharedState
	finalized   bool
}

// sharedState is the copy-on-write handle BranchingSolver.Branch
// shares between forks until one side mutates.
type sharedState struct {
	ns *z3.SolverState
}

// NewBranchingSolver returns an empty BranchingSolver.
func NewBranchingSolver() *BranchingSolver {
	return &BranchingSolver{id: newID(), vars: map[string]struct{}{}}
}

func (s *BranchingSolver) ID() string                         { return s.id }
func (s *BranchingSolver) Variables() map[string]struct{}     { return s.vars }

func (s *BranchingSolver) ensureState() *z3.SolverState {
	if s.state == nil {
		s.state = &sharedState{ns: z3Backend.NewSolverState(defaultTimeout)}
		if err := s.state.ns.Add(s.constraints); err != nil {
			// Constraints were already validated when first added;
			// a failure here indicates a backend-level bug rather
			// than user error, so it is not surfaced as a typed
			// claripy error.
			panic(err)
		}
	}
	return s.state.ns
}

// detach gives this solver its own private state, rebuilt from its
// own constraint list, so a subsequent mutation cannot affect a
// sibling fork sharing the same handle.
func (s *BranchingSolver) detach() {
	ns := z3Backend.NewSolverState(defaultTimeout)
	_ = ns.Add(s.constraints)
	s.state = &sharedState{ns: ns}
}

// Add appends constraints to this solver's list, detaching from any
// shared post-branch state first. It fails with ClaripyError once
// Finalize has been called.
func (s *BranchingSolver) Add(constraints ...*expr.Base) error {
	if s.finalized {
		return errs.ClaripyError.New("cannot add constraints to a finalized solver")
	}
	s.invalidate()
	if s.state != nil {
		s.detach()
	}
	s.constraints = append(s.constraints, constraints...)
	for _, c := range constraints {
		for v := range c.Variables() {
			s.vars[v] = struct{}{}
		}
	}
	return s.ensureState().Add(constraints)
}

func (s *BranchingSolver) Satisfiable(extra ...*expr.Base) (bool, error) {
	if cached := s.get(); cached != nil && len(extra) == 0 {
		return cached.Sat, nil
	}
	sat, err := s.ensureState().Check(extra)
	if err != nil {
		return false, err
	}
	if sat {
		s.set(result.New(map[string]any{}, nil))
	} else {
		s.set(result.Unsat())
	}
	return sat, nil
}

func (s *BranchingSolver) Eval(e *expr.Base, n int, extra ...*expr.Base) ([]any, error) {
	vals, err := s.ensureState().Eval(e, n, extra)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out, nil
}

func (s *BranchingSolver) Min(e *expr.Base, extra ...*expr.Base) (any, error) {
	return s.ensureState().Min(e, extra, true)
}

func (s *BranchingSolver) Max(e *expr.Base, extra ...*expr.Base) (any, error) {
	return s.ensureState().Max(e, extra, true)
}

func (s *BranchingSolver) Solution(e *expr.Base, v *expr.Base) (bool, error) {
	return s.ensureState().Check([]*expr.Base{expr.Eq(e, v)})
}

// Simplify simplifies each constraint independently; it does not
// attempt CompositeSolver's re-partitioning since a BranchingSolver
// has no partitions.
func (s *BranchingSolver) Simplify() error {
	s.invalidate()
	st := s.ensureState()
	out := make([]*expr.Base, len(s.constraints))
	for i, c := range s.constraints {
		sc, err := st.Simplify(c)
		if err != nil {
			return err
		}
		out[i] = sc
	}
	s.constraints = out
	s.detach()
	return nil
}

// Branch forks the constraint list and shares the backend state
// handle; neither side's subsequent Add is visible to the other
// (spec §4.8, §5's ordering guarantees).
func (s *BranchingSolver) Branch() Solver {
	ns := &BranchingSolver{
		id:          newID(),
		constraints: append([]*expr.Base{}, s.constraints...),
		vars:        cloneSet(s.vars),
		state:       s.state,
	}
	return ns
}

// Finalize freezes the solver and precomputes its backend state
// (spec §4.8).
func (s *BranchingSolver) Finalize() {
	s.ensureState()
	s.finalized = true
}
