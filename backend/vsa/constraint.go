package vsa

import (
	"math/big"

	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/ops"
)

// Refinement is one (variable name, narrowed domain) pair produced by
// ConstraintToSI.
type Refinement struct {
	Variable string
	SI       *StridedInterval
}

// ConstraintToSI implements spec §4.7's constraint_to_si: given a
// boolean IR node built from If-expressions over a symbolic SI
// variable, it returns whether the constraint is satisfiable at all
// and any refinements it implies on that variable's domain. Unknown
// shapes return (true, nil) — "no refinement" rather than an error,
// matching the original's conservative default.
func ConstraintToSI(node *expr.Base, domains map[string]*StridedInterval) (bool, []Refinement) {
	node = unwrapMasking(node)

	if node.Op() != ops.Eq && node.Op() != ops.Ne {
		return true, nil
	}
	args := node.Args()
	lhs, rhs := args[0].(*expr.Base), args[1].(*expr.Base)
	lhs, rhs = unwrapMasking(lhs), unwrapMasking(rhs)

	ifNode, constNode, flipped := pickIfBranch(lhs, rhs)
	if ifNode == nil {
		return true, nil
	}
	wantOne, ok := constIsOne(constNode)
	if !ok {
		return true, nil
	}
	if node.Op() == ops.Ne {
		wantOne = !wantOne
	}
	if flipped {
		// Eq is symmetric; nothing else to adjust.
	}

	cond := ifNode.Args()[0].(*expr.Base)
	rel, varName, bound, isVarLeft, ok := simpleRelation(cond)
	if !ok {
		return true, nil
	}
	dom, ok := domains[varName]
	if !ok {
		return true, nil
	}

	branchSI := relationToSI(rel, bound, isVarLeft, dom.Bits)
	if !wantOne {
		branchSI = complementSI(branchSI, dom)
	}
	refined := Intersection(dom, branchSI)
	if refined.IsEmpty() {
		return false, nil
	}
	return true, []Refinement{{Variable: varName, SI: refined}}
}

// unwrapMasking strips the Extract(0,0, Concat(0, If(...))) and
// Extract(0,0, ZeroExt(k, If(...))) shells spec §4.7 names, down to
// the bare If node (or returns the input node unchanged if it isn't
// one of these shapes).
func unwrapMasking(node *expr.Base) *expr.Base {
	if node.Op() == ops.Extract {
		args := node.Args()
		inner, ok := args[2].(*expr.Base)
		if !ok {
			return node
		}
		switch inner.Op() {
		case ops.Concat:
			if c, ok := inner.Args()[1].(*expr.Base); ok {
				return unwrapMasking(c)
			}
		case ops.ZeroExt:
			if c, ok := inner.Args()[1].(*expr.Base); ok {
				return unwrapMasking(c)
			}
		}
		return inner
	}
	return node
}

func pickIfBranch(lhs, rhs *expr.Base) (ifNode, constNode *expr.Base, flipped bool) {
	if lhs.Op() == ops.If {
		return lhs, rhs, false
	}
	if rhs.Op() == ops.If {
		return rhs, lhs, true
	}
	return nil, nil, false
}

func constIsOne(n *expr.Base) (bool, bool) {
	v, ok := n.AsBVV()
	if !ok {
		return false, false
	}
	return v.Unsigned().Cmp(big.NewInt(1)) == 0, true
}

// simpleRelation recognizes `variable REL constant` or
// `constant REL variable` comparison nodes over a single BitVec leaf,
// returning which side the variable was on.
func simpleRelation(cond *expr.Base) (rel ops.Op, varName string, bound *big.Int, varLeft bool, ok bool) {
	switch cond.Op() {
	case ops.Lt, ops.Le, ops.Gt, ops.Ge, ops.ULT, ops.ULE, ops.UGT, ops.UGE, ops.Eq, ops.Ne:
	default:
		return "", "", nil, false, false
	}
	args := cond.Args()
	a, aOK := args[0].(*expr.Base)
	b, bOK := args[1].(*expr.Base)
	if !aOK || !bOK {
		return "", "", nil, false, false
	}
	if a.Op() == ops.BitVec {
		if v, ok := b.AsBVV(); ok {
			name, _ := a.Args()[0].(string)
			return cond.Op(), name, v.Unsigned(), true, true
		}
	}
	if b.Op() == ops.BitVec {
		if v, ok := a.AsBVV(); ok {
			name, _ := b.Args()[0].(string)
			return cond.Op(), name, v.Unsigned(), false, true
		}
	}
	return "", "", nil, false, false
}

// relationToSI converts a single comparison against a constant bound
// into the SI of values satisfying it, within the given width.
func relationToSI(rel ops.Op, bound *big.Int, varLeft bool, bits int) *StridedInterval {
	maxV := new(big.Int).Sub(modBits(bits), big.NewInt(1))
	switch rel {
	case ops.Eq:
		return Single(bits, bound)
	case ops.Ne:
		return Top(bits) // handled via complementSI by the caller when wantOne is false
	case ops.Lt, ops.Gt, ops.ULT, ops.UGT:
		// Strict bound: the bound value itself is excluded from the
		// resulting range. Lt/ULT and Gt/UGT share the same shape here
		// (this domain reasons over the unsigned bit pattern either way).
		ltShape := rel == ops.Lt || rel == ops.ULT
		if ltShape == varLeft {
			return New(bits, big.NewInt(1), big.NewInt(0), new(big.Int).Sub(bound, big.NewInt(1)))
		}
		return New(bits, big.NewInt(1), new(big.Int).Add(bound, big.NewInt(1)), maxV)
	case ops.Le, ops.Ge, ops.ULE, ops.UGE:
		// Non-strict bound: the bound value itself is included.
		leShape := rel == ops.Le || rel == ops.ULE
		if leShape == varLeft {
			return New(bits, big.NewInt(1), big.NewInt(0), bound)
		}
		return New(bits, big.NewInt(1), bound, maxV)
	}
	return Top(bits)
}

// complementSI is the complement of si relative to dom's range, used
// when a constraint's If is compared against 0 rather than 1 (spec §8
// scenario 6: `If(s==0,1,0)==1` false ⇒ refine s's domain by excluding
// 0). A singleton si sitting at one end of dom's range has a
// representable single-SI complement — dom with that one endpoint
// shaved off — which is exactly the scenario 6 shape. Anywhere else
// (si interior to dom, or si non-singleton) the true complement can
// split into two disjoint ranges that don't fit a single
// StridedInterval, so this widens to dom itself (sound, imprecise)
// rather than fabricating an under-approximation.
func complementSI(si *StridedInterval, dom *StridedInterval) *StridedInterval {
	if si.IsEmpty() {
		return dom
	}
	if si.Stride != nil && si.Stride.Sign() == 0 {
		c := si.Lower
		if c.Cmp(dom.Lower) == 0 {
			lo := new(big.Int).Add(dom.Lower, big.NewInt(1))
			if lo.Cmp(dom.Upper) > 0 {
				return Empty(dom.Bits)
			}
			return New(dom.Bits, big.NewInt(1), lo, dom.Upper)
		}
		if c.Cmp(dom.Upper) == 0 {
			hi := new(big.Int).Sub(dom.Upper, big.NewInt(1))
			if hi.Cmp(dom.Lower) < 0 {
				return Empty(dom.Bits)
			}
			return New(dom.Bits, big.NewInt(1), dom.Lower, hi)
		}
	}
	return dom
}
