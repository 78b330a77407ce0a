package z3

import (
	"fmt"
	"math/big"
	"sync"

	goz3 "github.com/aclements/go-z3/z3"

	"github.com/dolthub/claragopy/errs"
)

// This file declares the small nativeCtx/nativeAST/nativeSolver
// surface over the real aclements/go-z3 cgo binding (itself a thin
// wrapper over libz3, the same native library the original Python
// backend_z3.py drives via ctypes). convert_ops.go, abstract.go and
// solver_state.go also call go-z3 directly, so a swap of SMT binding
// touches those files too; all of them are inside this package.
type nativeCtx struct {
	ctx *goz3.Context
}

func newNativeCtx() *nativeCtx {
	cfg := goz3.NewContextConfig()
	return &nativeCtx{ctx: goz3.NewContext(cfg)}
}

type nativeAST = goz3.AST

// condom mirrors backend_z3.py's @condom decorator: it recovers a
// panic from the cgo boundary (go-z3 panics on native Z3 errors rather
// than returning a Go error) and turns it into ClaripyZ3Error.
func condom[T any](f func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.ClaripyZ3Error.New(fmt.Sprintf("Z3Exception: %v", r))
		}
	}()
	return f(), nil
}

type nativeSolver struct {
	mu  sync.Mutex
	s   *goz3.Solver
	ctx *nativeCtx
}

func (n *nativeCtx) newSolver(timeoutMS int) *nativeSolver {
	s := goz3.NewSolver(n.ctx)
	if timeoutMS > 0 {
		s.SetTimeout(uint(timeoutMS))
	}
	return &nativeSolver{s: s, ctx: n}
}

func (s *nativeSolver) push() { s.mu.Lock(); s.s.Push(); s.mu.Unlock() }
func (s *nativeSolver) pop()  { s.mu.Lock(); s.s.Pop(1); s.mu.Unlock() }
func (s *nativeSolver) add(cs ...nativeAST) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		s.s.Assert(c.(goz3.Bool))
	}
}

type satResult int

const (
	satUnsat satResult = iota
	satSat
	satUnknown
)

func (s *nativeSolver) check() (satResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := condom(func() goz3.Sat { v, _ := s.s.Check(); return v })
	if err != nil {
		return satUnsat, err
	}
	switch r {
	case goz3.Sat:
		return satSat, nil
	case goz3.Unsat:
		return satUnsat, nil
	default:
		return satUnknown, nil
	}
}

func (s *nativeSolver) model() (*goz3.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return condom(func() *goz3.Model { return s.s.Model() })
}

// bigFromNumeral reads a numeral AST's value as a big.Int, the Go
// analogue of Z3_get_numeral_string used in backend_z3.py.
func bigFromNumeral(a nativeAST) (*big.Int, bool) {
	bv, ok := a.(goz3.BV)
	if !ok {
		return nil, false
	}
	v, isLit := bv.AsInt64()
	if !isLit {
		return nil, false
	}
	return big.NewInt(v), true
}

// astDesc is the introspected shape of one native AST node: enough to
// drive abstract()'s decision tree (spec §4.6) without claragopy
// needing to walk go-z3's internal declaration-kind representation
// more than once per node. declName is the raw Z3 declaration-kind
// name (e.g. "bvadd", "concat", "uninterpreted"), matched against
// declNameToOp below — the Go analogue of backend_z3.py's
// z3_op_nums/op_map dance over Z3_get_decl_kind.
type astDesc struct {
	declName   string
	sortIsBool bool
	bvSize     int
	numArgs    int
	arg        func(i int) nativeAST
	intParam   func(i int) int
	numeral    *big.Int
	symbolName string
}

// describe introspects a native AST. It is the one place claragopy
// depends on go-z3 exposing declaration-kind/argument reflection; a
// future binding swap only needs to reimplement this function.
func describe(a nativeAST) astDesc {
	switch v := a.(type) {
	case goz3.BV:
		d := astDesc{bvSize: v.Sort().BVSize(), numArgs: v.NumArgs()}
		if n, ok := bigFromNumeral(a); ok {
			d.declName = "bv-numeral"
			d.numeral = n
			return d
		}
		d.declName = v.Decl().Name()
		d.arg = func(i int) nativeAST { return v.Arg(i) }
		d.intParam = func(i int) int { return v.Decl().IntParam(i) }
		if d.numArgs == 0 {
			d.symbolName = v.Decl().Name()
		}
		return d
	case goz3.Bool:
		d := astDesc{sortIsBool: true, numArgs: v.NumArgs()}
		d.declName = v.Decl().Name()
		d.arg = func(i int) nativeAST { return v.Arg(i) }
		d.intParam = func(i int) int { return v.Decl().IntParam(i) }
		return d
	default:
		return astDesc{declName: "unknown"}
	}
}
