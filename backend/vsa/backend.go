package vsa

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

// Backend is BackendVSA. Its native representation is one of
// *StridedInterval, *DiscreteStridedIntervalSet, *ValueSet, or
// *IfProxy, mirroring how BackendConcrete's native values are
// *bv.BVV/bool.
type Backend struct {
	id       uint64
	AllowDSIS bool
}

// NewBackend returns a fresh BackendVSA instance.
func NewBackend(allowDSIS bool) *Backend {
	return &Backend{id: atomic.AddUint64(&idCounter, 1), AllowDSIS: allowDSIS}
}

func (b *Backend) Name() string { return "vsa" }
func (b *Backend) ID() uintptr  { return uintptr(b.id) }

// Convert translates node into a strided-interval-domain value,
// resolving children through backend.Resolve the same way every other
// backend does (spec §4.3).
func (b *Backend) Convert(node *expr.Base, res *result.Result) (any, error) {
	if node.IsLeaf() {
		v, _ := node.LeafValue()
		return b.convertLeaf(v)
	}
	if node.Op() == ops.BitVec || node.Op() == ops.Uninterpreted {
		bits := node.Length()
		return Top(bits), nil
	}

	args := make([]any, 0, len(node.Args()))
	for _, a := range node.Args() {
		switch t := a.(type) {
		case *expr.Base:
			v, err := backend.Resolve(b, t, res)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		default:
			args = append(args, t)
		}
	}
	return b.Call(node.Op(), args)
}

func (b *Backend) convertLeaf(v any) (any, error) {
	switch t := v.(type) {
	case *bv.BVV:
		return Single(t.Bits(), t.Unsigned()), nil
	case bool:
		if t {
			return Single(1, bigOne), nil
		}
		return Single(1, bigZero), nil
	default:
		return nil, errs.BackendError.New(fmt.Sprintf("vsa backend cannot convert leaf of type %T", v))
	}
}

func (b *Backend) Size(native any) (int, error) {
	switch v := native.(type) {
	case *StridedInterval:
		return v.Bits, nil
	case *DiscreteStridedIntervalSet:
		return v.Bits, nil
	case *ValueSet:
		return v.Bits, nil
	case *IfProxy:
		return v.TrueVal.Bits, nil
	default:
		return 0, errs.BackendError.New(fmt.Sprintf("vsa backend cannot size value of type %T", v))
	}
}

// NativeName is always false: abstract-domain values carry no
// variable identity of their own (unlike BackendConcrete/BackendZ3,
// whose native forms can name the symbolic leaf they came from).
func (b *Backend) NativeName(native any) (string, bool) { return "", false }
