// Package z3 implements BackendZ3 (spec §4.5, §4.6): translation of the
// IR to SMT builder calls, check/eval/min/max/simplify, and abstraction
// of a native SMT AST back into an IR node.
//
// Ported from original_source/claripy/backends/backend_z3.py, which
// drives libz3 directly; here the same native library is reached
// through github.com/aclements/go-z3 (see native.go), the one real Go
// z3 binding in the ecosystem exposing the push/pop/model primitives
// this backend needs — no repository in the retrieval pack touches an
// SMT solver, so this dependency could not be grounded in-pack and is
// named explicitly in SPEC_FULL.md/DESIGN.md instead.
package z3

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/ops"
	"github.com/dolthub/claragopy/result"
	"github.com/sirupsen/logrus"
)

var idCounter uint64

// splitOn mirrors backend_z3.py's `_split_on = {'And', 'Or'}`.
// Abstraction does not consult it: buildFromOp keeps And/Or n-ary.
var splitOn = map[ops.Op]bool{ops.And: true, ops.Or: true}

// Backend is BackendZ3.
type Backend struct {
	id  uint64
	ctx *nativeCtx
	log *logrus.Entry

	// solveCount/cacheCount are the supplemented counters from
	// backend_z3.py's module-level solve_count/cache_count globals,
	// scoped per-instance instead of per-process.
	solveCount uint64
	cacheCount uint64

	// abstractCache memoizes abstract() by native AST hash, a weak map
	// in the Python original; here it is a plain map that abstract()
	// only ever adds to, with no cap and no eviction, so its entries
	// live as long as the Backend.
	abstractCache map[uint64]*expr.Base
}

// New constructs a BackendZ3 with its own Z3 context and per-node
// cache identity. log may be nil, in which case a disabled logger is
// used (matching the teacher's session.GetLogger/SetLogger default).
func New(log *logrus.Entry) *Backend {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	_ = resolveLibraryPath() // resolved for parity with backend_z3.py; go-z3 links libz3 at build time
	return &Backend{
		id:            atomic.AddUint64(&idCounter, 1),
		ctx:           newNativeCtx(),
		log:           log,
		abstractCache: map[uint64]*expr.Base{},
	}
}

func (b *Backend) Name() string { return "z3" }
func (b *Backend) ID() uintptr  { return uintptr(b.id) }

// SolveCount and CacheCount expose the supplemented counters (see
// SPEC_FULL.md) for observability.
func (b *Backend) SolveCount() uint64 { return atomic.LoadUint64(&b.solveCount) }
func (b *Backend) CacheCount() uint64 { return atomic.LoadUint64(&b.cacheCount) }

// NewSolverState creates a fresh push/pop-capable SMT solver bound to
// this backend's context, honoring timeout (zero disables it).
func (b *Backend) NewSolverState(timeout Timeout) *SolverState {
	return &SolverState{backend: b, ns: b.ctx.newSolver(int(timeout))}
}

// Convert translates node to a native Z3 AST, resolving children
// recursively and memoizing per node (via backend.Resolve at the call
// site). result is accepted for interface parity but unused: the SMT
// backend never needs a model to translate symbolic structure, unlike
// BackendConcrete.
func (b *Backend) Convert(node *expr.Base, _ *result.Result) (any, error) {
	if node.IsLeaf() {
		v, _ := node.LeafValue()
		return b.convertLeafValue(v)
	}
	if node.Op() == ops.BitVec || node.Op() == ops.Uninterpreted {
		name, _ := node.Args()[0].(string)
		return b.mkConst(name, node.Length()), nil
	}

	args := make([]nativeAST, 0, len(node.Args()))
	var params []int
	for _, a := range node.Args() {
		switch t := a.(type) {
		case *expr.Base:
			child, err := Resolve(b, t)
			if err != nil {
				return nil, err
			}
			args = append(args, child.(nativeAST))
		case int:
			params = append(params, t)
		}
	}
	return b.callRaw(node.Op(), params, args, node.Length())
}

// Resolve is this package's binding of backend.Resolve, avoiding an
// import of the backend package's Backend interface just to call a
// free function.
func Resolve(b *Backend, node *expr.Base) (any, error) {
	if v, ok := node.Resolved(b.ID()); ok {
		return v, nil
	}
	native, err := b.Convert(node, nil)
	if err != nil {
		return nil, err
	}
	node.SetResolved(b.ID(), native)
	return native, nil
}

func (b *Backend) convertLeafValue(v any) (any, error) {
	switch t := v.(type) {
	case *bv.BVV:
		return b.mkBVVal(t), nil
	case bool:
		return b.mkBool(t), nil
	case *expr.Base:
		// A symbolic BitVec/Uninterpreted leaf stored inside an I()
		// wrapper never happens (Var() builds an application node),
		// but application-node BitVec leaves route through Convert's
		// main branch, not here.
		return nil, errs.BackendError.New("unexpected nested expression leaf")
	default:
		return nil, errs.BackendError.New(fmt.Sprintf("unexpected type %T encountered in BackendZ3", v))
	}
}

func (b *Backend) Size(native any) (int, error) {
	d := describe(native.(nativeAST))
	if d.bvSize == 0 && !d.sortIsBool {
		return 0, errs.BackendError.New("unable to determine length of non-bitvector value")
	}
	return d.bvSize, nil
}

func (b *Backend) NativeName(native any) (string, bool) {
	d := describe(native.(nativeAST))
	if d.symbolName == "" {
		return "", false
	}
	return d.symbolName, true
}
