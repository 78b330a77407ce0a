package solver

import (
	"golang.org/x/exp/maps"

	"github.com/dolthub/claragopy/backend/z3"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/ops"
	"github.com/dolthub/claragopy/result"
)

// constantGroupKey names the dedicated child for ground (variable-free)
// constraints, per spec §4.8.
const constantGroupKey = "\x00CONSTANT"

// group is one CompositeSolver partition: a set of variables and the
// constraints whose variables are entirely contained in it.
type group struct {
	variables   map[string]struct{}
	constraints []*expr.Base
	state       *z3.SolverState
}

func newGroup() *group {
	return &group{variables: map[string]struct{}{}, state: z3Backend.NewSolverState(defaultTimeout)}
}

func (g *group) addVars(vs map[string]struct{}) {
	for v := range vs {
		g.variables[v] = struct{}{}
	}
}

// CompositeSolver partitions constraints into disjoint groups by
// shared variables, one child solver per group, plus a dedicated
// CONSTANT child for ground constraints (spec §4.8).
type CompositeSolver struct {
	resultCache
	id     string
	groups []*group
}

// NewCompositeSolver returns an empty CompositeSolver with its
// dedicated CONSTANT child already standing, per spec §4.8's worked
// example (four children after only x==1,y==2,z==3 — the CONSTANT
// child counts even with nothing ground added to it yet).
func NewCompositeSolver() *CompositeSolver {
	s := &CompositeSolver{id: newID()}
	s.constantGroup()
	return s
}

func (s *CompositeSolver) ID() string { return s.id }

// Variables returns the union of every child group's variable set.
func (s *CompositeSolver) Variables() map[string]struct{} {
	out := map[string]struct{}{}
	for _, g := range s.groups {
		for v := range g.variables {
			out[v] = struct{}{}
		}
	}
	return out
}

// Add implements spec §4.8's add(c): compute vars(c); let G be the
// children whose variable set intersects vars(c); replace G with a
// single child holding the union of their constraints ∪ {c} and the
// union of their variables. A variable-free c joins the CONSTANT
// group, which never merges with anything else. A top-level
// conjunction is split into its conjuncts first (ops.IsSplittable),
// so add(And(x==1,y==2,z==3)) partitions identically to three
// separate adds (spec §4.8 correctness example / §8 scenario 4).
func (s *CompositeSolver) Add(constraints ...*expr.Base) error {
	s.invalidate()
	for _, c := range constraints {
		for _, conjunct := range splitConjuncts(c) {
			if err := s.addOne(conjunct); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitConjuncts flattens a top-level ops.And into its conjuncts
// (recursively, in case a conjunct is itself an And), so each can be
// partitioned independently. Only And is split: Or is also marked
// ops.IsSplittable for BranchingSolver's purposes, but decomposing an
// Or's disjuncts into independent top-level constraints would change
// its meaning from "at least one holds" to "all hold".
func splitConjuncts(c *expr.Base) []*expr.Base {
	if c.Op() != ops.And || !ops.IsSplittable(c.Op()) {
		return []*expr.Base{c}
	}
	var out []*expr.Base
	for _, a := range c.Args() {
		if child, ok := a.(*expr.Base); ok {
			out = append(out, splitConjuncts(child)...)
		}
	}
	return out
}

func (s *CompositeSolver) addOne(c *expr.Base) error {
	vars := c.Variables()
	if len(vars) == 0 {
		g := s.constantGroup()
		g.constraints = append(g.constraints, c)
		// Rebuild rather than add in place: after Branch or Split the
		// old state may still be shared with another solver.
		g.state = z3Backend.NewSolverState(defaultTimeout)
		return g.state.Add(g.constraints)
	}

	var merged []*group
	var rest []*group
	for _, g := range s.groups {
		if intersects(g.variables, vars) {
			merged = append(merged, g)
		} else {
			rest = append(rest, g)
		}
	}

	ng := newGroup()
	ng.addVars(vars)
	ng.constraints = append(ng.constraints, c)
	for _, g := range merged {
		ng.addVars(g.variables)
		ng.constraints = append(ng.constraints, g.constraints...)
	}
	if err := ng.state.Add(ng.constraints); err != nil {
		return err
	}
	s.groups = append(rest, ng)
	return nil
}

func (s *CompositeSolver) constantGroup() *group {
	for _, g := range s.groups {
		if _, ok := g.variables[constantGroupKey]; ok {
			return g
		}
	}
	g := newGroup()
	g.variables[constantGroupKey] = struct{}{}
	s.groups = append(s.groups, g)
	return g
}

func intersects(a, b map[string]struct{}) bool {
	for v := range b {
		if _, ok := a[v]; ok {
			return true
		}
	}
	return false
}

// Satisfiable is true iff every child is satisfiable; unsat of any
// child short-circuits the query (spec §4.8).
func (s *CompositeSolver) Satisfiable(extra ...*expr.Base) (bool, error) {
	if cached := s.get(); cached != nil && len(extra) == 0 {
		return cached.Sat, nil
	}
	for _, g := range s.groups {
		var groupExtra []*expr.Base
		for _, e := range extra {
			if intersects(g.variables, e.Variables()) {
				groupExtra = append(groupExtra, e)
			}
		}
		sat, err := g.state.Check(groupExtra)
		if err != nil {
			return false, err
		}
		if !sat {
			s.set(result.Unsat())
			return false, nil
		}
	}
	s.set(result.New(map[string]any{}, nil))
	return true, nil
}

// groupFor returns the unique child whose variables cover e's
// variables, or a mixed-variable error if none does (spec §4.8).
func (s *CompositeSolver) groupFor(e *expr.Base) (*group, error) {
	need := e.Variables()
	if len(need) == 0 {
		return s.constantGroup(), nil
	}
	for _, g := range s.groups {
		if covers(g.variables, need) {
			return g, nil
		}
	}
	return nil, errs.MixedVariablesError.New("expression spans more than one constraint partition")
}

func covers(have, need map[string]struct{}) bool {
	for v := range need {
		if _, ok := have[v]; !ok {
			return false
		}
	}
	return true
}

// Eval routes to the unique child whose variables cover vars(expr).
func (s *CompositeSolver) Eval(e *expr.Base, n int, extra ...*expr.Base) ([]any, error) {
	g, err := s.groupFor(e)
	if err != nil {
		return nil, err
	}
	vals, err := g.state.Eval(e, n, extra)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out, nil
}

func (s *CompositeSolver) Min(e *expr.Base, extra ...*expr.Base) (any, error) {
	g, err := s.groupFor(e)
	if err != nil {
		return nil, err
	}
	return g.state.Min(e, extra, true)
}

func (s *CompositeSolver) Max(e *expr.Base, extra ...*expr.Base) (any, error) {
	g, err := s.groupFor(e)
	if err != nil {
		return nil, err
	}
	return g.state.Max(e, extra, true)
}

// Solution is satisfiability of expr == v under current constraints,
// routed to expr's owning group (spec §4.8).
func (s *CompositeSolver) Solution(e *expr.Base, v *expr.Base) (bool, error) {
	g, err := s.groupFor(e)
	if err != nil {
		return false, err
	}
	return g.state.Check([]*expr.Base{expr.Eq(e, v)})
}

// Simplify simplifies each child's constraint conjunction and
// re-partitions, since simplification may reveal a tautology that
// factors back out into the CONSTANT group (spec §4.8's worked
// example).
func (s *CompositeSolver) Simplify() error {
	s.invalidate()
	old := s.groups
	s.groups = nil
	for _, g := range old {
		simplified := make([]*expr.Base, 0, len(g.constraints))
		for _, c := range g.constraints {
			sc, err := g.state.Simplify(c)
			if err != nil {
				return err
			}
			simplified = append(simplified, sc)
		}
		for _, c := range simplified {
			for _, conjunct := range splitConjuncts(c) {
				if err := s.addOne(conjunct); err != nil {
					return err
				}
			}
		}
	}
	s.constantGroup()
	return nil
}

// Branch deep-copies the list of children by cheap handle copy (spec
// §4.8): the underlying native solver states are shared until the
// first post-branch Add on either side, at which point that side
// rebuilds its own state from its constraint list.
func (s *CompositeSolver) Branch() Solver {
	ns := &CompositeSolver{id: newID()}
	for _, g := range s.groups {
		ng := &group{variables: cloneSet(g.variables), constraints: append([]*expr.Base{}, g.constraints...), state: g.state}
		ns.groups = append(ns.groups, ng)
	}
	return ns
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	return maps.Clone(s)
}

// Split yields each child as an independent solver (spec §4.8).
func (s *CompositeSolver) Split() []Solver {
	out := make([]Solver, 0, len(s.groups))
	for _, g := range s.groups {
		ng := &group{variables: cloneSet(g.variables), constraints: append([]*expr.Base{}, g.constraints...), state: g.state}
		ns := &CompositeSolver{id: newID(), groups: []*group{ng}}
		out = append(out, ns)
	}
	return out
}

// Combine returns a new solver with the union of constraint lists
// from s and others (spec §4.8): structurally, re-adding every
// constraint from every input re-derives the correct partitioning.
func Combine(solvers ...*CompositeSolver) (*CompositeSolver, error) {
	out := NewCompositeSolver()
	for _, s := range solvers {
		for _, g := range s.groups {
			if err := out.Add(g.constraints...); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Merge produces a new solver whose constraints are
// (selector == values[0] => self) AND (selector == values[i] =>
// others[i-1]) AND selector IN values (spec §4.8), returning the
// merged solver and a flag of whether a true merge happened (false
// when there was nothing to merge, i.e. others is empty).
func Merge(self *CompositeSolver, others []*CompositeSolver, selector *expr.Base, values []*expr.Base) (bool, *CompositeSolver, error) {
	if len(others) == 0 {
		return false, self, nil
	}
	all := append([]*CompositeSolver{self}, others...)
	out := NewCompositeSolver()
	var membership []*expr.Base
	for i, src := range all {
		guard := expr.Eq(selector, values[i])
		for _, g := range src.groups {
			for _, c := range g.constraints {
				if err := out.Add(expr.Implies(guard, c)); err != nil {
					return false, nil, err
				}
			}
		}
		membership = append(membership, guard)
	}
	if err := out.Add(expr.Or(membership...)); err != nil {
		return false, nil, err
	}
	return true, out, nil
}
