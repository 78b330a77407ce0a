package vsa

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValueSetIsEmpty(t *testing.T) {
	vs := NewValueSet(32)
	require.True(t, vs.IsEmpty())
}

func TestMergeSICreatesRegion(t *testing.T) {
	vs := NewValueSet(32)
	vs.MergeSI("stack", Single(32, big.NewInt(100)))
	require.False(t, vs.IsEmpty())
	si := vs.GetSI("stack")
	require.True(t, si.IsSingleton())
	require.Equal(t, big.NewInt(100), si.Lower)
}

func TestMergeSIUnionsExisting(t *testing.T) {
	vs := NewValueSet(32)
	vs.MergeSI("stack", Single(32, big.NewInt(100)))
	vs.MergeSI("stack", Single(32, big.NewInt(200)))
	si := vs.GetSI("stack")
	require.Equal(t, big.NewInt(100), si.Lower)
	require.Equal(t, big.NewInt(200), si.Upper)
}

func TestGetSIUnknownRegionIsEmpty(t *testing.T) {
	vs := NewValueSet(32)
	require.True(t, vs.GetSI("heap").IsEmpty())
}
