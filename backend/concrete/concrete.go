// Package concrete implements BackendConcrete (spec §4.4): it evaluates
// IR where every leaf is already concrete, producing BVV/bool results,
// and is used both eagerly during interning (expr.Make's step 3) and
// lazily once a solver has a model to substitute symbolic leaves with.
package concrete

import (
	"fmt"
	"sync/atomic"

	"github.com/dolthub/claragopy/backend"
	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/ops"
	"github.com/dolthub/claragopy/result"
)

var idCounter uint64

// Backend is BackendConcrete. There is ordinarily one long-lived
// instance per process (Default); solvers may still construct more for
// isolation since each gets its own node-cache identity.
type Backend struct {
	id uint64
}

// New returns a fresh BackendConcrete instance with its own per-node
// cache identity.
func New() *Backend {
	return &Backend{id: atomic.AddUint64(&idCounter, 1)}
}

// Default is the process-wide instance used to eagerly fold all-concrete
// subtrees during expr.Make, registered below via expr.RegisterFolder.
var Default = New()

func init() {
	expr.RegisterFolder(fold)
}

// fold implements expr.Folder: it evaluates op over already-concrete
// args (primitives or concrete leaves) with no symbolic substitution,
// returning ok=false for anything the concrete backend can't (yet)
// reduce eagerly, rather than erroring — expr.Make simply falls back
// to building an application node in that case.
func fold(op ops.Op, args []any, length int) (any, bool) {
	vals, ok := concreteValues(args)
	if !ok {
		return nil, false
	}
	v, err := Default.Call(op, vals)
	if err != nil {
		return nil, false
	}
	return v, true
}

func concreteValues(args []any) ([]any, bool) {
	out := make([]any, len(args))
	for i, a := range args {
		switch t := a.(type) {
		case *expr.Base:
			v, ok := t.LeafValue()
			if !ok {
				return nil, false
			}
			out[i] = v
		default:
			out[i] = a
		}
	}
	return out, true
}

func (b *Backend) Name() string { return "concrete" }
func (b *Backend) ID() uintptr  { return uintptr(b.id) }

// Convert fully evaluates node to a concrete BVV or bool. If res is
// supplied, symbolic leaves are substituted from res.Model; otherwise a
// symbolic leaf raises BackendError (caught by the façade, which falls
// through to the next backend in precedence).
func (b *Backend) Convert(node *expr.Base, res *result.Result) (any, error) {
	if node.IsLeaf() {
		v, _ := node.LeafValue()
		return v, nil
	}
	if node.Symbolic() && res == nil {
		return nil, errs.BackendError.New(fmt.Sprintf("concrete backend cannot convert symbolic node %s", node))
	}
	if _, isVar := b.NativeName(node); isVar {
		return b.substitute(node, res)
	}

	argVals := make([]any, len(node.Args()))
	for i, a := range node.Args() {
		child, ok := a.(*expr.Base)
		if !ok {
			argVals[i] = a
			continue
		}
		if child.Symbolic() {
			if res == nil {
				return nil, errs.BackendError.New(fmt.Sprintf("concrete backend cannot convert symbolic node %s", child))
			}
			v, err := b.Convert(child, res)
			if err != nil {
				return nil, err
			}
			argVals[i] = v
			continue
		}
		v, err := backend.Resolve(b, child, res)
		if err != nil {
			return nil, err
		}
		argVals[i] = v
	}
	return b.Call(node.Op(), argVals)
}

// substitute looks up a single symbolic variable leaf's model value.
// Convert reaches each variable of a symbolic subtree by recursion and
// calls it there.
func (b *Backend) substitute(node *expr.Base, res *result.Result) (any, error) {
	name, ok := b.NativeName(node)
	if !ok {
		return nil, errs.BackendError.New(fmt.Sprintf("concrete backend cannot substitute non-variable node %s", node))
	}
	v, ok := res.Model[name]
	if !ok {
		return nil, errs.BackendError.New(fmt.Sprintf("no model value for variable %s", name))
	}
	return v, nil
}

func (b *Backend) Size(native any) (int, error) {
	switch v := native.(type) {
	case *bv.BVV:
		return v.Bits(), nil
	default:
		return 0, errs.BackendError.New(fmt.Sprintf("concrete backend cannot size value of type %T", v))
	}
}

func (b *Backend) NativeName(native any) (string, bool) {
	if n, ok := native.(*expr.Base); ok {
		if n.Op() == ops.BitVec || n.Op() == ops.Uninterpreted {
			name, _ := n.Args()[0].(string)
			return name, true
		}
	}
	return "", false
}
