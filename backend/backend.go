// Package backend defines the Backend contract (spec §4.3): every
// backend translates an IR node to a backend-native object, memoized
// per (expression, backend) identity, and exposes size/name queries
// and a Call for applying an operator directly to native operands.
package backend

import (
	"fmt"

	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/ops"
	"github.com/dolthub/claragopy/result"
)

// Backend is implemented by BackendConcrete, BackendZ3, and BackendVSA.
type Backend interface {
	// Name identifies the backend for logging and error messages.
	Name() string
	// ID is this backend instance's per-node cache key. Distinct
	// instances of the same backend type get distinct IDs so their
	// translations never collide in a node's weak cache.
	ID() uintptr
	// Convert translates node into this backend's native
	// representation. When result is non-nil, the backend may use
	// its model during resolution (BackendConcrete substitutes
	// variables by model values rather than failing on symbolic
	// leaves).
	Convert(node *expr.Base, res *result.Result) (native any, err error)
	// Size returns the bit-width of a native value.
	Size(native any) (int, error)
	// NativeName returns a native value's variable name, if it names
	// one.
	NativeName(native any) (string, bool)
	// Call applies op to already-converted native operands.
	Call(op ops.Op, args []any) (any, error)
}

// Resolve returns the cached translation of node for b, computing and
// storing it on a cache miss (spec §4.3's resolve(node, backend,
// result?)).
func Resolve(b Backend, node *expr.Base, res *result.Result) (any, error) {
	if res == nil {
		if v, ok := node.Resolved(b.ID()); ok {
			return v, nil
		}
	}
	native, err := b.Convert(node, res)
	if err != nil {
		return nil, err
	}
	if res == nil {
		node.SetResolved(b.ID(), native)
	}
	return native, nil
}

// Unsupported is the standard BackendError raised by a backend's Call
// when it has no handler for op, or the operand kinds are wrong.
func Unsupported(backendName string, op ops.Op) error {
	return errs.BackendError.New(fmt.Sprintf("%s does not support operator %s", backendName, op))
}
