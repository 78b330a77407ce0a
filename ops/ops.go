// Package ops holds the operation registry: the closed, statically
// known set of operator tags the expression IR can carry, their arity,
// commutativity, and whether they are "splittable" for the purposes of
// CompositeSolver partitioning (And/Or).
//
// The teacher dispatches SQL expression evaluation through a tagged sum
// of expression.Expression implementations; here the tag is explicit
// (an Op string) rather than an interface per node, since the IR must
// be able to serialize/hash by tag and the abstraction path (backend/z3)
// needs a stable name to map SMT declaration kinds back onto.
package ops

// Op is an operator tag. The zero value is not a valid operator.
type Op string

// Kind classifies an operand or result as bit-vector, boolean, or a
// bare constant (integer/string parameters such as Extract's hi/lo).
type Kind int

const (
	KindBV Kind = iota
	KindBool
	KindConst
)

// Boolean operators.
const (
	True     Op = "True"
	False    Op = "False"
	And      Op = "And"
	Or       Op = "Or"
	Not      Op = "Not"
	Xor      Op = "Xor"
	Implies  Op = "Implies"
	If       Op = "If"
	Eq       Op = "__eq__"
	Ne       Op = "__ne__"
	Identical Op = "Identical"
)

// Signed and unsigned comparisons.
const (
	Lt  Op = "__lt__"
	Le  Op = "__le__"
	Gt  Op = "__gt__"
	Ge  Op = "__ge__"
	ULT Op = "ULT"
	ULE Op = "ULE"
	UGT Op = "UGT"
	UGE Op = "UGE"
)

// Arithmetic operators.
const (
	Add Op = "__add__"
	Sub Op = "__sub__"
	Mul Op = "__mul__"
	Div Op = "__div__"
	Mod Op = "__mod__"
	Neg Op = "__neg__"
	Pow Op = "__pow__"
)

// Bitwise operators.
const (
	BVAnd       Op = "__and__"
	BVOr        Op = "__or__"
	BVXor       Op = "__xor__"
	BVNot       Op = "__invert__"
	Shl         Op = "__lshift__"
	Shr         Op = "__rshift__"
	LShR        Op = "LShR"
	RotateLeft  Op = "RotateLeft"
	RotateRight Op = "RotateRight"
)

// Structural operators.
const (
	Concat       Op = "Concat"
	Extract      Op = "Extract"
	SignExt      Op = "SignExt"
	ZeroExt      Op = "ZeroExt"
	RepeatBitVec Op = "RepeatBitVec"
	Reverse      Op = "Reverse"
)

// Leaves.
const (
	BitVec        Op = "BitVec"
	BitVecVal     Op = "BitVecVal"
	Uninterpreted Op = "UNINTERPRETED"
)

// Arity describes how many operands an Op takes. Variadic operators
// use Min with Variadic=true.
type Arity struct {
	Min      int
	Variadic bool
}

// Fixed returns a non-variadic arity of exactly n.
func Fixed(n int) Arity { return Arity{Min: n} }

// Info is the registry row for one operator.
type Info struct {
	Op          Op
	Arity       Arity
	OperandKind Kind
	ResultKind  Kind
	Commutative bool
	// Splittable marks operators whose multi-arg form may be
	// decomposed by CompositeSolver/BranchingSolver constraint
	// partitioning (And, Or).
	Splittable bool
	// Params lists the names of non-expression leading parameters,
	// e.g. Extract's ("hi","lo") or SignExt's ("n",).
	Params []string
}

// Registry maps every known Op to its Info. Populated once in init.
var Registry = map[Op]Info{}

func reg(i Info) { Registry[i.Op] = i }

func init() {
	reg(Info{Op: True, Arity: Fixed(0), ResultKind: KindBool})
	reg(Info{Op: False, Arity: Fixed(0), ResultKind: KindBool})
	reg(Info{Op: And, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBool, ResultKind: KindBool, Commutative: true, Splittable: true})
	reg(Info{Op: Or, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBool, ResultKind: KindBool, Commutative: true, Splittable: true})
	reg(Info{Op: Not, Arity: Fixed(1), OperandKind: KindBool, ResultKind: KindBool})
	reg(Info{Op: Xor, Arity: Fixed(2), OperandKind: KindBool, ResultKind: KindBool, Commutative: true})
	reg(Info{Op: Implies, Arity: Fixed(2), OperandKind: KindBool, ResultKind: KindBool})
	reg(Info{Op: If, Arity: Fixed(3), ResultKind: KindBV})
	reg(Info{Op: Eq, Arity: Fixed(2), ResultKind: KindBool, Commutative: true})
	reg(Info{Op: Ne, Arity: Fixed(2), ResultKind: KindBool, Commutative: true})
	reg(Info{Op: Identical, Arity: Fixed(2), ResultKind: KindBool, Commutative: true})

	for _, o := range []Op{Lt, Le, Gt, Ge, ULT, ULE, UGT, UGE} {
		reg(Info{Op: o, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBool})
	}

	reg(Info{Op: Add, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBV, ResultKind: KindBV, Commutative: true})
	reg(Info{Op: Sub, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Mul, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBV, ResultKind: KindBV, Commutative: true})
	reg(Info{Op: Div, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Mod, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Neg, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Pow, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})

	reg(Info{Op: BVAnd, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBV, ResultKind: KindBV, Commutative: true})
	reg(Info{Op: BVOr, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBV, ResultKind: KindBV, Commutative: true})
	reg(Info{Op: BVXor, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBV, ResultKind: KindBV, Commutative: true})
	reg(Info{Op: BVNot, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Shl, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Shr, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: LShR, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: RotateLeft, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: RotateRight, Arity: Fixed(2), OperandKind: KindBV, ResultKind: KindBV})

	reg(Info{Op: Concat, Arity: Arity{Min: 2, Variadic: true}, OperandKind: KindBV, ResultKind: KindBV})
	reg(Info{Op: Extract, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV, Params: []string{"hi", "lo"}})
	reg(Info{Op: SignExt, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV, Params: []string{"n"}})
	reg(Info{Op: ZeroExt, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV, Params: []string{"n"}})
	reg(Info{Op: RepeatBitVec, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV, Params: []string{"n"}})
	reg(Info{Op: Reverse, Arity: Fixed(1), OperandKind: KindBV, ResultKind: KindBV})

	reg(Info{Op: BitVec, Arity: Fixed(0), ResultKind: KindBV, Params: []string{"name", "bits"}})
	reg(Info{Op: BitVecVal, Arity: Fixed(0), ResultKind: KindBV, Params: []string{"value", "bits"}})
	reg(Info{Op: Uninterpreted, Arity: Fixed(0), ResultKind: KindBV, Params: []string{"name", "bits"}})
}

// Lookup returns the Info for op and whether it is known.
func Lookup(op Op) (Info, bool) {
	i, ok := Registry[op]
	return i, ok
}

// IsSplittable reports whether op is And/Or, the two operators
// CompositeSolver/BranchingSolver may decompose across a constraint
// partition.
func IsSplittable(op Op) bool {
	i, ok := Registry[op]
	return ok && i.Splittable
}

// BinOps is the set of binary arithmetic/bitwise operators that the
// abstraction path (backend/z3) left-folds when it observes an n-ary
// native form with more than two children.
var BinOps = map[Op]bool{
	Add: true, Mul: true, BVAnd: true, BVOr: true, BVXor: true,
	And: true, Or: true, Concat: true,
}
