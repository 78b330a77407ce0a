package z3

import (
	goz3 "github.com/aclements/go-z3/z3"

	"github.com/cespare/xxhash/v2"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/ops"
)

// declNameToOp is the Go analogue of backend_z3.py's op_map: native
// Z3 declaration-kind names to claragopy operator tags. Only
// declarations this backend's callRaw can itself produce need an
// entry, since abstract() only ever sees ASTs this backend built or
// that the solver simplified from them.
var declNameToOp = map[string]ops.Op{
	"true":   ops.True,
	"false":  ops.False,
	"and":    ops.And,
	"or":     ops.Or,
	"not":    ops.Not,
	"xor":    ops.Xor,
	"=>":     ops.Implies,
	"if":     ops.If,
	"=":      ops.Eq,
	"distinct": ops.Ne,

	"bvslt": ops.Lt,
	"bvsle": ops.Le,
	"bvsgt": ops.Gt,
	"bvsge": ops.Ge,
	"bvult": ops.ULT,
	"bvule": ops.ULE,
	"bvugt": ops.UGT,
	"bvuge": ops.UGE,

	"bvadd": ops.Add,
	"bvsub": ops.Sub,
	"bvmul": ops.Mul,
	"bvsdiv": ops.Div,
	"bvsrem": ops.Mod,
	"bvneg": ops.Neg,

	"bvand": ops.BVAnd,
	"bvor":  ops.BVOr,
	"bvxor": ops.BVXor,
	"bvnot": ops.BVNot,
	"bvshl": ops.Shl,
	"bvashr": ops.Shr,
	"bvlshr": ops.LShR,

	"concat": ops.Concat,
}

// paramOps are declarations abstract() must read integer parameters
// from (via intParam), mirroring backend_z3.py's handling of
// Z3_OP_EXTRACT/Z3_OP_SIGN_EXT/Z3_OP_ZERO_EXT/Z3_OP_REPEAT.
var paramOps = map[string]ops.Op{
	"extract":   ops.Extract,
	"sign_ext":  ops.SignExt,
	"zero_ext":  ops.ZeroExt,
	"repeat":    ops.RepeatBitVec,
}

// abstract reconstructs an IR node from a native AST, the reverse of
// Convert. It is cached per backend by native-hash, matching
// backend_z3.py's `_abstract`/`abstract` pair: `_abstract` does the
// recursive work, `abstract` (here, this unexported method) checks and
// populates the cache.
func (b *Backend) abstract(native nativeAST) (*expr.Base, error) {
	key := nativeHash(native)
	if cached, ok := b.abstractCache[key]; ok {
		b.cacheCount++
		return cached, nil
	}
	n, err := b.abstractInner(native)
	if err != nil {
		return nil, err
	}
	b.abstractCache[key] = n
	return n, nil
}

func (b *Backend) abstractInner(native nativeAST) (*expr.Base, error) {
	d := describe(native)

	if d.numeral != nil {
		return expr.BitVecVal(bv.New(d.numeral, d.bvSize)), nil
	}
	if d.numArgs == 0 && d.declName != "true" && d.declName != "false" {
		if d.sortIsBool {
			return nil, errs.ClaripyOperationError.New("cannot abstract free boolean constant without a name")
		}
		return expr.Uninterpreted(d.symbolName, d.bvSize), nil
	}
	if d.declName == "true" {
		return expr.True(), nil
	}
	if d.declName == "false" {
		return expr.False(), nil
	}

	if op, ok := paramOps[d.declName]; ok {
		child, err := b.abstract(d.arg(0))
		if err != nil {
			return nil, err
		}
		switch op {
		case ops.Extract:
			return expr.Extract(d.intParam(0), d.intParam(1), child)
		case ops.SignExt:
			return expr.SignExt(d.intParam(0), child), nil
		case ops.ZeroExt:
			return expr.ZeroExt(d.intParam(0), child), nil
		case ops.RepeatBitVec:
			return expr.RepeatBitVec(d.intParam(0), child), nil
		}
	}

	op, ok := declNameToOp[d.declName]
	if !ok {
		return nil, errs.ClaripyOperationError.New("backend_z3 can't abstract an unknown native operator: " + d.declName)
	}

	children := make([]*expr.Base, d.numArgs)
	for i := 0; i < d.numArgs; i++ {
		c, err := b.abstract(d.arg(i))
		if err != nil {
			return nil, err
		}
		children[i] = c
	}

	return buildFromOp(op, children)
}

// buildFromOp rebuilds an IR node from an abstracted operator and its
// children. And/Or keep all their native children (n-ary); the binary
// ops built through foldBV are left-folded when native Z3 reports
// them with more than two children.
func buildFromOp(op ops.Op, children []*expr.Base) (*expr.Base, error) {
	switch op {
	case ops.True:
		return expr.True(), nil
	case ops.False:
		return expr.False(), nil
	case ops.And:
		return expr.And(children...), nil
	case ops.Or:
		return expr.Or(children...), nil
	case ops.Not:
		return expr.Not(children[0]), nil
	case ops.Xor:
		return expr.XorB(children[0], children[1]), nil
	case ops.Implies:
		return expr.Implies(children[0], children[1]), nil
	case ops.If:
		return expr.If(children[0], children[1], children[2]), nil
	case ops.Eq:
		return expr.Eq(children[0], children[1]), nil
	case ops.Ne:
		return expr.Ne(children[0], children[1]), nil

	case ops.Lt:
		return expr.Lt(children[0], children[1]), nil
	case ops.Le:
		return expr.Le(children[0], children[1]), nil
	case ops.Gt:
		return expr.Gt(children[0], children[1]), nil
	case ops.Ge:
		return expr.Ge(children[0], children[1]), nil
	case ops.ULT:
		return expr.ULT(children[0], children[1]), nil
	case ops.ULE:
		return expr.ULE(children[0], children[1]), nil
	case ops.UGT:
		return expr.UGT(children[0], children[1]), nil
	case ops.UGE:
		return expr.UGE(children[0], children[1]), nil

	case ops.Add:
		return foldBV(expr.Add, children), nil
	case ops.Sub:
		return expr.Sub(children[0], children[1]), nil
	case ops.Mul:
		return foldBV(expr.Mul, children), nil
	case ops.Div:
		return expr.Div(children[0], children[1]), nil
	case ops.Mod:
		return expr.Mod(children[0], children[1]), nil
	case ops.Neg:
		return expr.Neg(children[0]), nil

	case ops.BVAnd:
		return foldBV(expr.BVAnd, children), nil
	case ops.BVOr:
		return foldBV(expr.BVOr, children), nil
	case ops.BVXor:
		return foldBV(expr.BVXor, children), nil
	case ops.BVNot:
		return expr.BVNot(children[0]), nil
	case ops.Shl:
		return expr.Shl(children[0], children[1]), nil
	case ops.Shr:
		return expr.Shr(children[0], children[1]), nil
	case ops.LShR:
		return expr.LShR(children[0], children[1]), nil

	case ops.Concat:
		return foldBV(expr.Concat, children), nil
	}
	return nil, errs.ClaripyOperationError.New("backend_z3 has no IR builder for operator " + string(op))
}

func foldBV(f func(a, b *expr.Base) *expr.Base, children []*expr.Base) *expr.Base {
	acc := children[0]
	for _, c := range children[1:] {
		acc = f(acc, c)
	}
	return acc
}

// nativeHash hashes a native AST's string form for the abstraction
// cache key. go-z3 does not expose its own internal pointer identity
// for cross-context comparison, so description-string hashing (the
// Go analogue of Z3's AST-printer-based hash-consing) is the
// pragmatic cache key here.
func nativeHash(a nativeAST) uint64 {
	s, ok := a.(goz3.AST)
	if !ok {
		return 0
	}
	return xxhash.Sum64String(s.String())
}
