package expr

import (
	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/ops"
)

// BitVec returns a fresh symbolic bit-vector variable of the given
// width. Two BitVec() calls with the same (name, bits) are the *same*
// variable and intern to the same node.
func BitVec(name string, bits int) *Base {
	return Var(ops.BitVec, []any{name, bits}, bits, name)
}

// Uninterpreted is an opaque symbolic bit-vector, distinct from BitVec
// only in how backend/z3 abstraction reconstructs it (spec §4.6 step 5).
func Uninterpreted(name string, bits int) *Base {
	return Var(ops.Uninterpreted, []any{name, bits}, bits, name)
}

// BitVecVal returns a concrete bit-vector leaf.
func BitVecVal(value *bv.BVV) *Base { return I(value) }

// BoolVal returns a concrete boolean leaf.
func BoolVal(v bool) *Base { return I(v) }

func binBV(op ops.Op, a, b *Base) *Base {
	return Make(op, []any{a, b}, a.length)
}

func binBool(op ops.Op, a, b *Base) *Base {
	return Make(op, []any{a, b}, -1)
}

// Add, Sub, Mul, Div, Mod, Pow are arithmetic constructors.
func Add(a, b *Base) *Base { return binBV(ops.Add, a, b) }
func Sub(a, b *Base) *Base { return binBV(ops.Sub, a, b) }
func Mul(a, b *Base) *Base { return binBV(ops.Mul, a, b) }
func Div(a, b *Base) *Base { return binBV(ops.Div, a, b) }
func Mod(a, b *Base) *Base { return binBV(ops.Mod, a, b) }
func Pow(a, b *Base) *Base { return binBV(ops.Pow, a, b) }
func Neg(a *Base) *Base    { return Make(ops.Neg, []any{a}, a.length) }

// Bitwise constructors.
func BVAnd(a, b *Base) *Base { return binBV(ops.BVAnd, a, b) }
func BVOr(a, b *Base) *Base  { return binBV(ops.BVOr, a, b) }
func BVXor(a, b *Base) *Base { return binBV(ops.BVXor, a, b) }
func BVNot(a *Base) *Base    { return Make(ops.BVNot, []any{a}, a.length) }
func Shl(a, b *Base) *Base   { return binBV(ops.Shl, a, b) }
func Shr(a, b *Base) *Base   { return binBV(ops.Shr, a, b) }
func LShR(a, b *Base) *Base  { return binBV(ops.LShR, a, b) }

func RotateLeft(a, b *Base) *Base  { return binBV(ops.RotateLeft, a, b) }
func RotateRight(a, b *Base) *Base { return binBV(ops.RotateRight, a, b) }

// Boolean constructors.
func True() *Base  { return I(true) }
func False() *Base { return I(false) }

func And(args ...*Base) *Base {
	as := make([]any, len(args))
	for i, a := range args {
		as[i] = a
	}
	return Make(ops.And, as, -1)
}

func Or(args ...*Base) *Base {
	as := make([]any, len(args))
	for i, a := range args {
		as[i] = a
	}
	return Make(ops.Or, as, -1)
}

func Not(a *Base) *Base          { return Make(ops.Not, []any{a}, -1) }
func XorB(a, b *Base) *Base      { return binBool(ops.Xor, a, b) }
func Implies(a, b *Base) *Base   { return binBool(ops.Implies, a, b) }
func If(c, t, f *Base) *Base     { return Make(ops.If, []any{c, t, f}, t.length) }
func Eq(a, b *Base) *Base        { return binBool(ops.Eq, a, b) }
func Ne(a, b *Base) *Base        { return binBool(ops.Ne, a, b) }
func IdenticalOp(a, b *Base) *Base { return binBool(ops.Identical, a, b) }

// Comparisons.
func Lt(a, b *Base) *Base  { return binBool(ops.Lt, a, b) }
func Le(a, b *Base) *Base  { return binBool(ops.Le, a, b) }
func Gt(a, b *Base) *Base  { return binBool(ops.Gt, a, b) }
func Ge(a, b *Base) *Base  { return binBool(ops.Ge, a, b) }
func ULT(a, b *Base) *Base { return binBool(ops.ULT, a, b) }
func ULE(a, b *Base) *Base { return binBool(ops.ULE, a, b) }
func UGT(a, b *Base) *Base { return binBool(ops.UGT, a, b) }
func UGE(a, b *Base) *Base { return binBool(ops.UGE, a, b) }

// Concat appends b's bits below a's (a occupies the high side), per
// spec §4.1 "concat(a,b) prefers a on the high side".
func Concat(a, b *Base) *Base {
	return Make(ops.Concat, []any{a, b}, a.length+b.length)
}

// Extract returns bits [lo, hi] of a, or a ClaripyOperationError if
// the bounds are out of range — the same typed error
// backend/concrete/calls.go's Call path raises for the concrete
// Extract case, so an out-of-range Extract surfaces identically
// whether it fails at construction time or at evaluation time (spec
// §7).
func Extract(hi, lo int, a *Base) (*Base, error) {
	if lo < 0 || hi < lo || hi >= a.length {
		return nil, errs.ClaripyOperationError.New("Extract bounds out of range")
	}
	return Make(ops.Extract, []any{hi, lo, a}, hi-lo+1), nil
}

// SignExt/ZeroExt extend a by n bits.
func SignExt(n int, a *Base) *Base { return Make(ops.SignExt, []any{n, a}, a.length+n) }
func ZeroExt(n int, a *Base) *Base { return Make(ops.ZeroExt, []any{n, a}, a.length+n) }

// RepeatBitVec tiles a n times.
func RepeatBitVec(n int, a *Base) *Base {
	if n <= 0 {
		panic("expr: RepeatBitVec count must be positive")
	}
	return Make(ops.RepeatBitVec, []any{n, a}, a.length*n)
}

// Reverse reverses byte order; requires length % 8 == 0, surfacing a
// ClaripyOperationError otherwise rather than panicking (spec §7).
func Reverse(a *Base) (*Base, error) {
	if a.length%8 != 0 {
		return nil, errs.ClaripyOperationError.New("can't reverse non-byte sized bitvector")
	}
	return Make(ops.Reverse, []any{a}, a.length), nil
}
