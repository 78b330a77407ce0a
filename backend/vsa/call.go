package vsa

import (
	"fmt"
	"math/big"

	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/ops"
)

var bigZero = big.NewInt(0)
var bigOne = big.NewInt(1)

// Call applies op to already-converted native VSA operands,
// dispatching to the StridedInterval transfer functions in si.go.
func (b *Backend) Call(op ops.Op, args []any) (any, error) {
	switch op {
	case ops.True:
		return Single(1, bigOne), nil
	case ops.False:
		return Single(1, bigZero), nil

	case ops.Add:
		return foldSI(args, Add)
	case ops.Sub:
		x, y, err := pairSI(args)
		if err != nil {
			return nil, err
		}
		return Add(x, Neg(y)), nil
	case ops.Mul:
		return foldSI(args, Mul)
	case ops.Div:
		x, y, err := pairSI(args)
		if err != nil {
			return nil, err
		}
		return Div(x, y), nil
	case ops.Mod:
		x, y, err := pairSI(args)
		if err != nil {
			return nil, err
		}
		return Mod(x, y), nil
	case ops.Neg:
		x, err := asSI(args[0])
		if err != nil {
			return nil, err
		}
		return Neg(x), nil

	case ops.BVNot:
		x, err := asSI(args[0])
		if err != nil {
			return nil, err
		}
		return Invert(x), nil
	case ops.BVOr:
		return foldSI(args, Or)
	case ops.Shl:
		x, err := asSI(args[0])
		if err != nil {
			return nil, err
		}
		k, err := shiftAmount(args[1])
		if err != nil {
			return nil, err
		}
		return Shl(x, k), nil

	case ops.Extract:
		hi, lo := args[0].(int), args[1].(int)
		x, err := asSI(args[2])
		if err != nil {
			return nil, err
		}
		return Extract(hi, lo, x), nil
	case ops.ZeroExt:
		n := args[0].(int)
		x, err := asSI(args[1])
		if err != nil {
			return nil, err
		}
		return ZeroExtend(n, x), nil
	case ops.SignExt:
		n := args[0].(int)
		x, err := asSI(args[1])
		if err != nil {
			return nil, err
		}
		return SignExtend(n, x), nil

	case ops.Eq:
		x, y, err := pairSI(args)
		if err != nil {
			return nil, err
		}
		return triToBool(Eq(x, y)), nil
	case ops.Ne:
		x, y, err := pairSI(args)
		if err != nil {
			return nil, err
		}
		return Eq(x, y) != TrueResult, nil
	case ops.ULT:
		x, y, err := pairSI(args)
		if err != nil {
			return nil, err
		}
		return triToBool(ULt(x, y)), nil

	default:
		return nil, unsupportedOp(op)
	}
}

func unsupportedOp(op ops.Op) error {
	return errs.BackendError.New(fmt.Sprintf("vsa backend does not support operator %s", op))
}

func asSI(v any) (*StridedInterval, error) {
	si, ok := v.(*StridedInterval)
	if !ok {
		return nil, errs.BackendError.New(fmt.Sprintf("expected StridedInterval, got %T", v))
	}
	return si, nil
}

func pairSI(args []any) (*StridedInterval, *StridedInterval, error) {
	a, err := asSI(args[0])
	if err != nil {
		return nil, nil, err
	}
	c, err := asSI(args[1])
	if err != nil {
		return nil, nil, err
	}
	return a, c, nil
}

func foldSI(args []any, f func(a, b *StridedInterval) *StridedInterval) (any, error) {
	acc, err := asSI(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		x, err := asSI(a)
		if err != nil {
			return nil, err
		}
		acc = f(acc, x)
	}
	return acc, nil
}

func shiftAmount(v any) (uint, error) {
	si, err := asSI(v)
	if err != nil {
		return 0, err
	}
	if !si.IsSingleton() {
		return 0, errs.BackendError.New("vsa backend requires a concrete shift amount")
	}
	return uint(si.Lower.Uint64()), nil
}

// triToBool collapses a three-valued comparison result into a bool
// for callers that need a definite answer; MaybeResult conservatively
// reports true, matching the "don't rule it out" semantics of the
// abstract domain's comparison operators.
func triToBool(t TriResult) bool {
	return t != FalseResult
}
