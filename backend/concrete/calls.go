package concrete

import (
	"fmt"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/ops"
)

// Call applies op to already-converted native operands (BVV/bool
// values, or bare int/string parameters for Extract/SignExt/etc.).
func (b *Backend) Call(op ops.Op, args []any) (any, error) {
	switch op {
	case ops.True:
		return true, nil
	case ops.False:
		return false, nil
	case ops.And:
		return allBool(args, true, func(a, c bool) bool { return a && c })
	case ops.Or:
		return allBool(args, false, func(a, c bool) bool { return a || c })
	case ops.Not:
		x, err := asBool(args[0])
		return !x, err
	case ops.Xor:
		return boolBinOp(args, func(a, c bool) bool { return a != c })
	case ops.Implies:
		return boolBinOp(args, func(a, c bool) bool { return !a || c })
	case ops.If:
		cond, err := asBool(args[0])
		if err != nil {
			return nil, err
		}
		if cond {
			return args[1], nil
		}
		return args[2], nil
	case ops.Eq:
		return valuesEqual(args[0], args[1])
	case ops.Ne:
		eq, err := valuesEqual(args[0], args[1])
		return !eq, err
	case ops.Identical:
		return valuesEqual(args[0], args[1])

	case ops.Lt:
		return bvCmp(args, func(c int) bool { return c < 0 }, true)
	case ops.Le:
		return bvCmp(args, func(c int) bool { return c <= 0 }, true)
	case ops.Gt:
		return bvCmp(args, func(c int) bool { return c > 0 }, true)
	case ops.Ge:
		return bvCmp(args, func(c int) bool { return c >= 0 }, true)
	case ops.ULT:
		return bvCmp(args, func(c int) bool { return c < 0 }, false)
	case ops.ULE:
		return bvCmp(args, func(c int) bool { return c <= 0 }, false)
	case ops.UGT:
		return bvCmp(args, func(c int) bool { return c > 0 }, false)
	case ops.UGE:
		return bvCmp(args, func(c int) bool { return c >= 0 }, false)

	case ops.Add:
		return bvFoldBin(args, (*bv.BVV).Add)
	case ops.Sub:
		return bvBin(args, (*bv.BVV).Sub)
	case ops.Mul:
		return bvFoldBin(args, (*bv.BVV).Mul)
	case ops.Div:
		return bvBin(args, (*bv.BVV).SDiv)
	case ops.Mod:
		return bvBin(args, (*bv.BVV).SMod)
	case ops.Neg:
		x, err := asBVV(args[0])
		if err != nil {
			return nil, err
		}
		return x.Neg(), nil
	case ops.Pow:
		return bvBin(args, (*bv.BVV).Pow)

	case ops.BVAnd:
		return bvFoldBin(args, (*bv.BVV).And)
	case ops.BVOr:
		return bvFoldBin(args, (*bv.BVV).Or)
	case ops.BVXor:
		return bvFoldBin(args, (*bv.BVV).Xor)
	case ops.BVNot:
		x, err := asBVV(args[0])
		if err != nil {
			return nil, err
		}
		return x.Not(), nil
	case ops.Shl:
		return bvShift(args, (*bv.BVV).Shl)
	case ops.Shr:
		return bvShift(args, (*bv.BVV).AShR)
	case ops.LShR:
		return bvShift(args, (*bv.BVV).LShR)
	case ops.RotateLeft:
		return bvShift(args, (*bv.BVV).RotateLeft)
	case ops.RotateRight:
		return bvShift(args, (*bv.BVV).RotateRight)

	case ops.Concat:
		return bvFoldBin(args, (*bv.BVV).Concat)
	case ops.Extract:
		hi, lo, x, err := extractArgs(args)
		if err != nil {
			return nil, err
		}
		return x.Extract(hi, lo), nil
	case ops.SignExt:
		n, x, err := extendArgs(args)
		if err != nil {
			return nil, err
		}
		return x.SignExt(n), nil
	case ops.ZeroExt:
		n, x, err := extendArgs(args)
		if err != nil {
			return nil, err
		}
		return x.ZeroExt(n), nil
	case ops.RepeatBitVec:
		n, x, err := extendArgs(args)
		if err != nil {
			return nil, err
		}
		return x.RepeatBitVec(n), nil
	case ops.Reverse:
		x, err := asBVV(args[0])
		if err != nil {
			return nil, err
		}
		if x.Bits()%8 != 0 {
			return nil, errs.ClaripyOperationError.New("can't reverse non-byte sized bitvector")
		}
		return x.Reverse(), nil

	default:
		return nil, backendErrorUnsupported(op)
	}
}

func backendErrorUnsupported(op ops.Op) error {
	return errs.BackendError.New(fmt.Sprintf("concrete backend does not support operator %s", op))
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errs.BackendError.New(fmt.Sprintf("expected bool, got %T", v))
	}
	return b, nil
}

func asBVV(v any) (*bv.BVV, error) {
	x, ok := v.(*bv.BVV)
	if !ok {
		return nil, errs.BackendError.New(fmt.Sprintf("expected BVV, got %T", v))
	}
	return x, nil
}

func allBool(args []any, identity bool, combine func(bool, bool) bool) (any, error) {
	acc := identity
	for i, a := range args {
		v, err := asBool(a)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = v
			continue
		}
		acc = combine(acc, v)
	}
	return acc, nil
}

func boolBinOp(args []any, f func(bool, bool) bool) (any, error) {
	a, err := asBool(args[0])
	if err != nil {
		return nil, err
	}
	c, err := asBool(args[1])
	if err != nil {
		return nil, err
	}
	return f(a, c), nil
}

func valuesEqual(x, y any) (bool, error) {
	switch a := x.(type) {
	case *bv.BVV:
		c, ok := y.(*bv.BVV)
		if !ok {
			return false, errs.BackendError.New("cannot compare BVV to non-BVV")
		}
		return a.Equal(c), nil
	case bool:
		c, ok := y.(bool)
		if !ok {
			return false, errs.BackendError.New("cannot compare bool to non-bool")
		}
		return a == c, nil
	default:
		return false, errs.BackendError.New(fmt.Sprintf("cannot compare values of type %T", x))
	}
}

func bvCmp(args []any, test func(int) bool, signed bool) (any, error) {
	a, err := asBVV(args[0])
	if err != nil {
		return nil, err
	}
	c, err := asBVV(args[1])
	if err != nil {
		return nil, err
	}
	if signed {
		return test(a.SCmp(c)), nil
	}
	return test(a.Cmp(c)), nil
}

func bvBin(args []any, f func(*bv.BVV, *bv.BVV) *bv.BVV) (any, error) {
	a, err := asBVV(args[0])
	if err != nil {
		return nil, err
	}
	c, err := asBVV(args[1])
	if err != nil {
		return nil, err
	}
	return f(a, c), nil
}

// bvFoldBin left-folds a variadic (>=2 arg) bitvector operator.
func bvFoldBin(args []any, f func(*bv.BVV, *bv.BVV) *bv.BVV) (any, error) {
	acc, err := asBVV(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		x, err := asBVV(a)
		if err != nil {
			return nil, err
		}
		acc = f(acc, x)
	}
	return acc, nil
}

func bvShift(args []any, f func(*bv.BVV, uint) *bv.BVV) (any, error) {
	a, err := asBVV(args[0])
	if err != nil {
		return nil, err
	}
	c, err := asBVV(args[1])
	if err != nil {
		return nil, err
	}
	return f(a, uint(c.Uint64())), nil
}

func extractArgs(args []any) (hi, lo int, x *bv.BVV, err error) {
	hiI, ok1 := args[0].(int)
	loI, ok2 := args[1].(int)
	if !ok1 || !ok2 {
		return 0, 0, nil, errs.ClaripyOperationError.New("Extract requires integer hi/lo parameters")
	}
	bvv, err := asBVV(args[2])
	if err != nil {
		return 0, 0, nil, err
	}
	if loI < 0 || hiI < loI || hiI >= bvv.Bits() {
		return 0, 0, nil, errs.ClaripyOperationError.New("Extract bounds out of range")
	}
	return hiI, loI, bvv, nil
}

func extendArgs(args []any) (n int, x *bv.BVV, err error) {
	nI, ok := args[0].(int)
	if !ok {
		return 0, nil, errs.ClaripyOperationError.New("expected integer parameter")
	}
	bvv, err := asBVV(args[1])
	if err != nil {
		return 0, nil, err
	}
	return nI, bvv, nil
}
