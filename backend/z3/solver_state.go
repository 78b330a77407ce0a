package z3

import (
	"math/big"

	goz3 "github.com/aclements/go-z3/z3"
	"github.com/pkg/errors"

	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
)

// SolverState is a push/pop-capable native solver bound to one Z3
// context, the Go analogue of backend_z3.py's internal per-solver
// wrapper around a z3.Solver instance. It is used by solver.Solver
// implementations (CompositeSolver/BranchingSolver) rather than used
// directly by package claripy.
type SolverState struct {
	backend *Backend
	ns      *nativeSolver
}

// Add asserts constraints permanently onto this solver state.
func (s *SolverState) Add(constraints []*expr.Base) error {
	for _, c := range constraints {
		native, err := Resolve(s.backend, c)
		if err != nil {
			return errors.Wrap(err, "unable to resolve constraint against native z3 context")
		}
		s.ns.add(native.(nativeAST))
	}
	return nil
}

// Check runs satisfiability with constraints asserted in addition to
// whatever has already been added via Add, per backend_z3.py's
// `_check`: push, assert extras, check, pop.
func (s *SolverState) Check(extra []*expr.Base) (bool, error) {
	s.backend.solveCount++
	s.ns.push()
	defer s.ns.pop()
	for _, c := range extra {
		native, err := Resolve(s.backend, c)
		if err != nil {
			return false, errors.Wrap(err, "unable to resolve extra constraint against native z3 context")
		}
		s.ns.add(native.(nativeAST))
	}
	r, err := s.ns.check()
	if err != nil {
		return false, err
	}
	return r == satSat, nil
}

// Eval returns up to n distinct satisfying values for e, reusing a
// single pushed scope and adding a disequality constraint after each
// found model, per backend_z3.py's `_eval` loop.
func (s *SolverState) Eval(e *expr.Base, n int, extra []*expr.Base) ([]nativeAST, error) {
	if n <= 0 {
		return nil, nil
	}
	native, err := Resolve(s.backend, e)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve eval target against native z3 context")
	}
	target := native.(nativeAST)

	s.ns.push()
	defer s.ns.pop()
	for _, c := range extra {
		cn, err := Resolve(s.backend, c)
		if err != nil {
			return nil, err
		}
		s.ns.add(cn.(nativeAST))
	}

	var results []nativeAST
	for len(results) < n {
		s.backend.solveCount++
		r, err := s.ns.check()
		if err != nil {
			return nil, err
		}
		if r != satSat {
			break
		}
		m, err := s.ns.model()
		if err != nil {
			return nil, err
		}
		v := m.Eval(target.(goz3.AST), true)
		results = append(results, v)
		s.ns.add(negEq(target, v))
	}
	return results, nil
}

// Min and Max run a binary search over the bitvector's range,
// directly mirroring backend_z3.py's `_min`/`_max`: each iteration
// checks whether a tighter bound is still satisfiable and narrows the
// search interval toward it.
func (s *SolverState) Min(e *expr.Base, extra []*expr.Base, signed bool) (*big.Int, error) {
	return s.binarySearchBound(e, extra, signed, true)
}

func (s *SolverState) Max(e *expr.Base, extra []*expr.Base, signed bool) (*big.Int, error) {
	return s.binarySearchBound(e, extra, signed, false)
}

func (s *SolverState) binarySearchBound(e *expr.Base, extra []*expr.Base, signed, findMin bool) (*big.Int, error) {
	native, err := Resolve(s.backend, e)
	if err != nil {
		return nil, err
	}
	target := native.(goz3.BV)
	bits := e.Length()

	lo, hi := rangeBounds(bits, signed)

	s.ns.push()
	defer s.ns.pop()
	for _, c := range extra {
		cn, err := Resolve(s.backend, c)
		if err != nil {
			return nil, err
		}
		s.ns.add(cn.(nativeAST))
	}

	if sat, err := s.checkLocked(); err != nil {
		return nil, err
	} else if !sat {
		return nil, errs.UnsatError.New("no satisfying assignment for min/max query")
	}

	for lo.Cmp(hi) != 0 {
		mid := midpoint(lo, hi, findMin)
		s.backend.solveCount++
		s.ns.push()
		s.ns.add(s.backend.boundConstraint(target, bits, mid, signed, findMin))
		r, err := s.ns.check()
		s.ns.pop()
		if err != nil {
			return nil, err
		}
		if r == satSat {
			if findMin {
				hi = mid
			} else {
				lo = mid
			}
		} else if findMin {
			lo = new(big.Int).Add(mid, big.NewInt(1))
		} else {
			hi = new(big.Int).Sub(mid, big.NewInt(1))
		}
	}
	return lo, nil
}

func (s *SolverState) checkLocked() (bool, error) {
	r, err := s.ns.check()
	if err != nil {
		return false, err
	}
	return r == satSat, nil
}

// Simplify applies Z3's built-in AST simplifier, falling back to
// returning the input unchanged if the simplified native form cannot
// be abstracted back into the IR, matching backend_z3.py's
// `_simplify`'s defensive fallback.
func (s *SolverState) Simplify(e *expr.Base) (*expr.Base, error) {
	native, err := Resolve(s.backend, e)
	if err != nil {
		return nil, err
	}
	simplified, err := condom(func() nativeAST { return native.(goz3.AST).Simplify() })
	if err != nil {
		return e, nil
	}
	abstracted, err := s.backend.abstract(simplified)
	if err != nil {
		return e, nil
	}
	return abstracted, nil
}

func negEq(a nativeAST, v goz3.AST) nativeAST {
	if bvv, ok := a.(goz3.BV); ok {
		return bvv.Eq(v.(goz3.BV)).Not()
	}
	return a.(goz3.Bool).Eq(v.(goz3.Bool)).Not()
}

func rangeBounds(bits int, signed bool) (lo, hi *big.Int) {
	if !signed {
		return big.NewInt(0), new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	return new(big.Int).Neg(half), new(big.Int).Sub(half, big.NewInt(1))
}

func midpoint(lo, hi *big.Int, findMin bool) *big.Int {
	sum := new(big.Int).Add(lo, hi)
	mid := new(big.Int).Div(sum, big.NewInt(2))
	if !findMin {
		// Round toward hi on the max search so the interval always
		// shrinks even when lo+1 == hi.
		if new(big.Int).Mod(sum, big.NewInt(2)).Sign() != 0 {
			mid.Add(mid, big.NewInt(1))
		}
	}
	return mid
}

func (b *Backend) boundConstraint(target goz3.BV, bits int, mid *big.Int, signed, findMin bool) nativeAST {
	boundVal := b.ctx.ctx.FromBigInt(wrapToUnsigned(mid, bits), b.ctx.ctx.BVSort(bits)).(goz3.BV)
	if findMin {
		if signed {
			return target.SLE(boundVal)
		}
		return target.ULE(boundVal)
	}
	if signed {
		return target.SGE(boundVal)
	}
	return target.UGE(boundVal)
}

// wrapToUnsigned reduces a possibly-negative value into the
// bits-wide unsigned range, since the native FromBigInt constructor
// expects an unsigned representation.
func wrapToUnsigned(v *big.Int, bits int) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	return r
}
