// Package expr implements the hash-consed, immutable expression IR:
// application nodes A(op, args...), leaf nodes I(value), and the Base
// type both are built from.
//
// The shape mirrors how the teacher represents sql.Expression as a tree
// of typed nodes walked by sql/transform, except here the tree is a
// single concrete type (Base) tagged by an ops.Op rather than one Go
// type per operator — required so the IR can be hash-consed, replayed
// from a persisted identity key (spec §6), and reconstructed by the
// abstraction path (backend/z3) from a foreign AST shape it doesn't
// control.
package expr

import (
	"fmt"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/ops"
)

// Base is an immutable expression node. Two kinds exist in practice:
// application nodes (Op != "" with Args) and identity/leaf nodes
// (Op == leafOp, wrapping a single reduced value in Args[0]).
type Base struct {
	op         ops.Op
	args       []any
	length     int // -1 for booleans / untyped
	variables  map[string]struct{}
	symbolic   bool
	simplified bool
	hash       uint64

	cache nodeCache
}

// leafOp tags an I() node: a primitive or already-reduced backend
// object wrapped without further structure.
const leafOp ops.Op = "\x00I"

// Op returns the node's operator tag (leafOp for a leaf).
func (b *Base) Op() ops.Op { return b.op }

// IsLeaf reports whether this is an I() node.
func (b *Base) IsLeaf() bool { return b.op == leafOp }

// Args returns the node's operands: child *Base values, or primitive
// leaves (bool, *bv.BVV, int64, string) for parameters like Extract's
// hi/lo or BitVec's name/bits.
func (b *Base) Args() []any { return b.args }

// LeafValue returns the wrapped value of an I() node and true, or
// (nil, false) if called on an application node.
func (b *Base) LeafValue() (any, bool) {
	if !b.IsLeaf() {
		return nil, false
	}
	return b.args[0], true
}

// Length returns the bit-width, or -1 if this node has no fixed width
// (booleans, and bare constant leaves such as Extract's hi/lo).
func (b *Base) Length() int { return b.length }

// Variables returns the set of symbolic variable names reachable from
// this node. The returned map must not be mutated.
func (b *Base) Variables() map[string]struct{} { return b.variables }

// Symbolic reports whether Variables() is non-empty.
func (b *Base) Symbolic() bool { return b.symbolic }

// Hash is the structural hash of (op, canonical args, length), used
// both for interning and as the persistence identity key (spec §6).
func (b *Base) Hash() uint64 { return b.hash }

// Simplified reports whether a previous Solver.simplify pass already
// reduced this node to a fixed point; further Simplify calls are then
// no-ops that return the receiver.
func (b *Base) Simplified() bool { return b.simplified }

// AsBVV returns the wrapped *bv.BVV if this is a concrete bit-vector
// leaf.
func (b *Base) AsBVV() (*bv.BVV, bool) {
	v, ok := b.LeafValue()
	if !ok {
		return nil, false
	}
	bvv, ok := v.(*bv.BVV)
	return bvv, ok
}

// AsBool returns the wrapped bool if this is a concrete boolean leaf.
func (b *Base) AsBool() (bool, bool) {
	v, ok := b.LeafValue()
	if !ok {
		return false, false
	}
	bl, ok := v.(bool)
	return bl, ok
}

func (b *Base) String() string {
	return dump(b, 0)
}

func dump(b *Base, depth int) string {
	if b.IsLeaf() {
		v, _ := b.LeafValue()
		return shortValue(v)
	}
	s := "(" + string(b.op)
	for _, a := range b.args {
		if child, ok := a.(*Base); ok {
			s += " " + dump(child, depth+1)
		} else {
			s += " " + shortValue(a)
		}
	}
	return s + ")"
}

func shortValue(v any) string {
	switch t := v.(type) {
	case *bv.BVV:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
