package vsa

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/expr"
)

// TestConstraintToSIRefinesLessThan builds If(x < 10, 1, 0) == 1, the
// canonical masked-comparison shape spec §4.7's constraint_to_si
// refines, and checks it narrows x's domain to [0, 9].
func TestConstraintToSIRefinesLessThan(t *testing.T) {
	x := expr.BitVec("x", 8)
	bound := expr.BitVecVal(bv.NewUint64(10, 8))
	one := expr.BitVecVal(bv.NewUint64(1, 8))
	zero := expr.BitVecVal(bv.NewUint64(0, 8))

	cond := expr.Lt(x, bound)
	ifNode := expr.If(cond, one, zero)
	node := expr.Eq(ifNode, one)

	domains := map[string]*StridedInterval{"x": Top(8)}
	sat, refinements := ConstraintToSI(node, domains)

	require.True(t, sat)
	require.Len(t, refinements, 1)
	require.Equal(t, "x", refinements[0].Variable)
	require.Equal(t, big.NewInt(0), refinements[0].SI.Lower)
	require.Equal(t, big.NewInt(9), refinements[0].SI.Upper)
}

// TestConstraintToSIInfeasibleRefinement checks that intersecting the
// implied branch domain with an already-narrow prior domain that
// shares nothing with it is reported unsatisfiable.
func TestConstraintToSIInfeasibleRefinement(t *testing.T) {
	x := expr.BitVec("x", 8)
	bound := expr.BitVecVal(bv.NewUint64(10, 8))
	one := expr.BitVecVal(bv.NewUint64(1, 8))
	zero := expr.BitVecVal(bv.NewUint64(0, 8))

	cond := expr.Lt(x, bound)
	ifNode := expr.If(cond, one, zero)
	node := expr.Eq(ifNode, one) // asserts x < 10

	domains := map[string]*StridedInterval{"x": New(8, big.NewInt(1), big.NewInt(20), big.NewInt(30))}
	sat, refinements := ConstraintToSI(node, domains)

	require.False(t, sat)
	require.Nil(t, refinements)
}

// TestConstraintToSIRefinesFalseBranch is spec §8 scenario 6:
// If(s==0,1,0)==1 taken in its false direction (the If-value itself
// compared against 0) refines s's domain by excluding the single
// point 0, narrowing SI(32,1,0,2) down to SI(32,1,1,2).
func TestConstraintToSIRefinesFalseBranch(t *testing.T) {
	s := expr.BitVec("s", 32)
	zero32 := expr.BitVecVal(bv.NewUint64(0, 32))
	one32 := expr.BitVecVal(bv.NewUint64(1, 32))

	cond := expr.Eq(s, zero32)
	ifNode := expr.If(cond, one32, zero32)
	node := expr.Eq(ifNode, zero32) // the If's value is 0: the false branch

	dom := New(32, big.NewInt(1), big.NewInt(0), big.NewInt(2))
	sat, refinements := ConstraintToSI(node, map[string]*StridedInterval{"s": dom})

	require.True(t, sat)
	require.Len(t, refinements, 1)
	require.Equal(t, "s", refinements[0].Variable)
	require.Equal(t, big.NewInt(1), refinements[0].SI.Lower)
	require.Equal(t, big.NewInt(2), refinements[0].SI.Upper)
}

// TestConstraintToSIStrictVersusNonStrictUnsignedBound checks that
// ULT and ULE against the same bound produce different upper bounds
// (9 vs 10 for bound=10): a strict comparison excludes the bound
// itself, a non-strict one includes it.
func TestConstraintToSIStrictVersusNonStrictUnsignedBound(t *testing.T) {
	bound := expr.BitVecVal(bv.NewUint64(10, 8))
	one := expr.BitVecVal(bv.NewUint64(1, 8))
	zero := expr.BitVecVal(bv.NewUint64(0, 8))

	strictX := expr.BitVec("x", 8)
	strictNode := expr.Eq(expr.If(expr.ULT(strictX, bound), one, zero), one)
	sat, refinements := ConstraintToSI(strictNode, map[string]*StridedInterval{"x": Top(8)})
	require.True(t, sat)
	require.Len(t, refinements, 1)
	require.Equal(t, big.NewInt(0), refinements[0].SI.Lower)
	require.Equal(t, big.NewInt(9), refinements[0].SI.Upper)

	nonStrictX := expr.BitVec("y", 8)
	nonStrictNode := expr.Eq(expr.If(expr.ULE(nonStrictX, bound), one, zero), one)
	sat, refinements = ConstraintToSI(nonStrictNode, map[string]*StridedInterval{"y": Top(8)})
	require.True(t, sat)
	require.Len(t, refinements, 1)
	require.Equal(t, big.NewInt(0), refinements[0].SI.Lower)
	require.Equal(t, big.NewInt(10), refinements[0].SI.Upper)
}

// TestConstraintToSIUnknownShapeIsPermissive checks that a constraint
// shape the pattern-matcher doesn't recognize is treated as "no
// refinement" rather than an error, per the conservative default.
func TestConstraintToSIUnknownShapeIsPermissive(t *testing.T) {
	x := expr.BitVec("x", 8)
	y := expr.BitVec("y", 8)
	node := expr.Add(x, y) // not even a boolean node

	sat, refinements := ConstraintToSI(node, map[string]*StridedInterval{"x": Top(8)})
	require.True(t, sat)
	require.Nil(t, refinements)
}
