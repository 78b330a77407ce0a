package expr

import (
	"github.com/dolthub/claragopy/ops"
)

// Folder is implemented by backend/concrete and registered at init time
// via RegisterFolder. Keeping the dependency inverted this way (the
// leaf package registers into the core one) avoids an import cycle
// between expr and backend/concrete while still letting Make() eagerly
// reduce all-concrete subtrees per spec §4.1 step 3 — the same
// registration trick the teacher uses for sql/variables, imported
// blank into engine.go purely for its init() side effect.
type Folder func(op ops.Op, args []any, length int) (value any, ok bool)

var concreteFolder Folder

// RegisterFolder installs the concrete-evaluation folder. Called once
// from backend/concrete's init().
func RegisterFolder(f Folder) { concreteFolder = f }

func unionVariables(args []any) map[string]struct{} {
	out := map[string]struct{}{}
	for _, a := range args {
		if b, ok := a.(*Base); ok {
			for v := range b.variables {
				out[v] = struct{}{}
			}
		}
	}
	return out
}

// Make constructs (or retrieves, if already interned) the application
// node A(op, args...) with the given bit-width (-1 for booleans and
// bare-constant results). Per spec §4.1:
//  1. args are taken as-is (children already resolved to *Base or a
//     primitive leaf value by the caller's factory function);
//  2. variables/symbolic are computed as the union over child nodes;
//  3. if every arg is concrete and op is handled by the registered
//     concrete folder, the reduced value is wrapped and interned as a
//     leaf instead of an application node;
//  4. otherwise the structural hash is computed and the intern table
//     consulted; on miss the node is inserted.
func Make(op ops.Op, args []any, length int) *Base {
	vars := unionVariables(args)
	symbolic := len(vars) > 0

	if !symbolic && concreteFolder != nil {
		if v, ok := concreteFolder(op, args, length); ok {
			return I(v)
		}
	}

	h := hashOpArgs(op, args, length)
	if existing, ok := internLookup(h); ok {
		return existing
	}
	node := &Base{
		op:        op,
		args:      args,
		length:    length,
		variables: vars,
		symbolic:  symbolic,
		hash:      h,
	}
	return internStore(h, node)
}

// I wraps a primitive or already-reduced backend-native value as a
// leaf node, deduplicated the same way Make deduplicates application
// nodes.
func I(value any) *Base {
	length := -1
	switch v := value.(type) {
	case interface{ Bits() int }:
		length = v.Bits()
	case bool:
		length = -1
	}
	h := hashOpArgs(leafOp, []any{value}, length)
	if existing, ok := internLookup(h); ok {
		return existing
	}
	node := &Base{
		op:        leafOp,
		args:      []any{value},
		length:    length,
		variables: map[string]struct{}{},
		symbolic:  false,
		hash:      h,
	}
	return internStore(h, node)
}

// Var returns a fresh leaf-shaped application node representing a
// symbolic variable: BitVec(name, bits). Unlike I(), this is symbolic
// and is never folded.
func Var(op ops.Op, args []any, length int, name string) *Base {
	h := hashOpArgs(op, args, length)
	if existing, ok := internLookup(h); ok {
		return existing
	}
	node := &Base{
		op:        op,
		args:      args,
		length:    length,
		variables: map[string]struct{}{name: {}},
		symbolic:  true,
		hash:      h,
	}
	return internStore(h, node)
}
