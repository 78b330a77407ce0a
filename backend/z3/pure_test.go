package z3

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// These exercise the pure math/big helpers supporting Min/Max's binary
// search without touching a live Z3 context, since that requires the
// native z3 shared library to be present on the host.

func TestRangeBoundsUnsigned(t *testing.T) {
	lo, hi := rangeBounds(8, false)
	require.Equal(t, big.NewInt(0), lo)
	require.Equal(t, big.NewInt(255), hi)
}

func TestRangeBoundsSigned(t *testing.T) {
	lo, hi := rangeBounds(8, true)
	require.Equal(t, big.NewInt(-128), lo)
	require.Equal(t, big.NewInt(127), hi)
}

func TestMidpointFindMin(t *testing.T) {
	mid := midpoint(big.NewInt(0), big.NewInt(255), true)
	require.Equal(t, big.NewInt(127), mid)
}

func TestMidpointFindMaxRoundsUp(t *testing.T) {
	// lo+hi odd: max search should round toward hi so the interval
	// still shrinks when lo+1 == hi.
	mid := midpoint(big.NewInt(4), big.NewInt(5), false)
	require.Equal(t, big.NewInt(5), mid)
}

func TestMidpointFindMaxEven(t *testing.T) {
	mid := midpoint(big.NewInt(0), big.NewInt(4), false)
	require.Equal(t, big.NewInt(2), mid)
}

func TestWrapToUnsignedPositive(t *testing.T) {
	r := wrapToUnsigned(big.NewInt(5), 8)
	require.Equal(t, big.NewInt(5), r)
}

func TestWrapToUnsignedNegative(t *testing.T) {
	r := wrapToUnsigned(big.NewInt(-1), 8)
	require.Equal(t, big.NewInt(255), r)
}

func TestWrapToUnsignedNegativeLargeMagnitude(t *testing.T) {
	r := wrapToUnsigned(big.NewInt(-129), 8)
	require.Equal(t, big.NewInt(127), r)
}
