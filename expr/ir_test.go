package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/ops"
)

func TestIIntern(t *testing.T) {
	a := I(true)
	b := I(true)
	require.Same(t, a, b)
	require.True(t, a.IsLeaf())
	v, ok := a.AsBool()
	require.True(t, ok)
	require.True(t, v)
}

func TestIDistinctValues(t *testing.T) {
	a := I(bv.NewUint64(1, 8))
	b := I(bv.NewUint64(2, 8))
	require.NotSame(t, a, b)
}

func TestVarSameNameInterns(t *testing.T) {
	a := Var(ops.BitVec, []any{"x", 32}, 32, "x")
	b := Var(ops.BitVec, []any{"x", 32}, 32, "x")
	require.Same(t, a, b)
	require.True(t, a.Symbolic())
	require.Contains(t, a.Variables(), "x")
}

func TestVarDifferentWidthDoesNotIntern(t *testing.T) {
	a := Var(ops.BitVec, []any{"x", 32}, 32, "x")
	b := Var(ops.BitVec, []any{"x", 64}, 64, "x")
	require.NotSame(t, a, b)
}

func TestMakeWithoutFolderBuildsApplicationNode(t *testing.T) {
	// No folder registered in this package-internal test (avoids an
	// expr<->backend/concrete import cycle); Make must still build a
	// structural node rather than panic.
	x := Var(ops.BitVec, []any{"y", 8}, 8, "y")
	node := Make(ops.Not, []any{x}, -1)
	require.False(t, node.IsLeaf())
	require.Equal(t, ops.Not, node.Op())
	require.True(t, node.Symbolic())
	require.Contains(t, node.Variables(), "y")
}

func TestMakeInternsStructurallyEqualNodes(t *testing.T) {
	x := Var(ops.BitVec, []any{"z", 8}, 8, "z")
	n1 := Make(ops.Not, []any{x}, -1)
	n2 := Make(ops.Not, []any{x}, -1)
	require.Same(t, n1, n2)
}

func TestVariablesUnionAcrossChildren(t *testing.T) {
	x := Var(ops.BitVec, []any{"a", 8}, 8, "a")
	y := Var(ops.BitVec, []any{"b", 8}, 8, "b")
	node := Make(ops.Add, []any{x, y}, 8)
	require.Len(t, node.Variables(), 2)
	require.Contains(t, node.Variables(), "a")
	require.Contains(t, node.Variables(), "b")
}

func TestResolvedCachePerBackendKey(t *testing.T) {
	x := Var(ops.BitVec, []any{"c", 8}, 8, "c")
	_, ok := x.Resolved(1)
	require.False(t, ok)
	x.SetResolved(1, "native-for-backend-1")
	v, ok := x.Resolved(1)
	require.True(t, ok)
	require.Equal(t, "native-for-backend-1", v)

	_, ok = x.Resolved(2)
	require.False(t, ok, "a different backend key must not see backend 1's cached value")
}

func TestStringDump(t *testing.T) {
	x := Var(ops.BitVec, []any{"w", 8}, 8, "w")
	leaf := I(bv.NewUint64(3, 8))
	node := Make(ops.Add, []any{x, leaf}, 8)
	require.Contains(t, node.String(), "__add__")
}
