package bv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReducesModulo(t *testing.T) {
	v := New(big.NewInt(257), 8)
	require.Equal(t, uint64(1), v.Uint64())
	require.Equal(t, 8, v.Bits())
}

func TestNewUint64(t *testing.T) {
	v := NewUint64(0xff, 8)
	require.Equal(t, uint64(0xff), v.Unsigned().Uint64())
}

func TestSignedRoundTrip(t *testing.T) {
	v := NewSigned(big.NewInt(-1), 8)
	require.Equal(t, uint64(0xff), v.Uint64())
	require.Equal(t, big.NewInt(-1), v.Signed())
}

func TestAddWraps(t *testing.T) {
	a := NewUint64(0xff, 8)
	b := NewUint64(1, 8)
	require.Equal(t, uint64(0), a.Add(b).Uint64())
}

func TestSubAndNeg(t *testing.T) {
	a := NewUint64(0, 8)
	b := NewUint64(1, 8)
	require.Equal(t, uint64(0xff), a.Sub(b).Uint64())
	require.Equal(t, uint64(0xff), b.Neg().Uint64())
}

func TestMul(t *testing.T) {
	a := NewUint64(10, 8)
	b := NewUint64(30, 8)
	require.Equal(t, uint64(300%256), a.Mul(b).Uint64())
}

func TestSDivTruncatesTowardZero(t *testing.T) {
	a := NewSigned(big.NewInt(-7), 8)
	b := NewSigned(big.NewInt(2), 8)
	got := a.SDiv(b)
	require.Equal(t, big.NewInt(-3), got.Signed())
}

func TestUDiv(t *testing.T) {
	a := NewUint64(7, 8)
	b := NewUint64(2, 8)
	require.Equal(t, uint64(3), a.UDiv(b).Uint64())
}

func TestSModSignOfDividend(t *testing.T) {
	a := NewSigned(big.NewInt(-7), 8)
	b := NewSigned(big.NewInt(2), 8)
	got := a.SMod(b)
	require.Equal(t, big.NewInt(-1), got.Signed())
}

func TestBitwise(t *testing.T) {
	a := NewUint64(0b1010, 8)
	b := NewUint64(0b0110, 8)
	require.Equal(t, uint64(0b0010), a.And(b).Uint64())
	require.Equal(t, uint64(0b1110), a.Or(b).Uint64())
	require.Equal(t, uint64(0b1100), a.Xor(b).Uint64())
	require.Equal(t, uint64(0xf5), a.Not().Uint64())
}

func TestShifts(t *testing.T) {
	a := NewUint64(0b0001, 8)
	require.Equal(t, uint64(0b0010), a.Shl(1).Uint64())
	require.Equal(t, uint64(0), a.LShR(1).Uint64())

	neg := NewSigned(big.NewInt(-2), 8) // 0xfe
	require.Equal(t, big.NewInt(-1), neg.AShR(1).Signed())
}

func TestRotate(t *testing.T) {
	a := NewUint64(0b10000001, 8)
	require.Equal(t, uint64(0b00000011), a.RotateLeft(1).Uint64())
	require.Equal(t, a.Uint64(), a.RotateLeft(8).Uint64())
	require.Equal(t, a.Uint64(), a.RotateRight(0).Uint64())
	require.Equal(t, a.Uint64(), a.RotateLeft(1).RotateRight(1).Uint64())
}

func TestExtractAndConcat(t *testing.T) {
	a := NewUint64(0xabcd, 16)
	hi := a.Extract(15, 8)
	lo := a.Extract(7, 0)
	require.Equal(t, uint64(0xab), hi.Uint64())
	require.Equal(t, uint64(0xcd), lo.Uint64())

	cat := hi.Concat(lo)
	require.Equal(t, uint64(0xabcd), cat.Uint64())
	require.Equal(t, 16, cat.Bits())
}

func TestExtractOutOfRangePanics(t *testing.T) {
	a := NewUint64(0, 8)
	require.Panics(t, func() { a.Extract(8, 0) })
	require.Panics(t, func() { a.Extract(3, 5) })
}

func TestSignExtZeroExt(t *testing.T) {
	neg := NewSigned(big.NewInt(-1), 8)
	se := neg.SignExt(8)
	require.Equal(t, 16, se.Bits())
	require.Equal(t, big.NewInt(-1), se.Signed())

	pos := NewUint64(0xff, 8)
	ze := pos.ZeroExt(8)
	require.Equal(t, uint64(0xff), ze.Uint64())
}

func TestRepeatBitVec(t *testing.T) {
	a := NewUint64(0xab, 8)
	r := a.RepeatBitVec(2)
	require.Equal(t, 16, r.Bits())
	require.Equal(t, uint64(0xabab), r.Uint64())
}

func TestReverse(t *testing.T) {
	a := NewUint64(0x1234, 16)
	r := a.Reverse()
	require.Equal(t, uint64(0x3412), r.Uint64())

	require.Panics(t, func() { NewUint64(0, 4).Reverse() })
}

func TestCmpAndSCmp(t *testing.T) {
	a := NewUint64(1, 8)
	b := NewSigned(big.NewInt(-1), 8) // 0xff
	require.Equal(t, -1, a.Cmp(b))    // 1 < 255 unsigned
	require.Equal(t, 1, a.SCmp(b))    // 1 > -1 signed
}

func TestEqual(t *testing.T) {
	a := NewUint64(5, 8)
	b := NewUint64(5, 8)
	c := NewUint64(6, 8)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(nil))
}

func TestWidthMismatchPanics(t *testing.T) {
	a := NewUint64(1, 8)
	b := NewUint64(1, 16)
	require.Panics(t, func() { a.Add(b) })
}

func TestStringFormat(t *testing.T) {
	a := NewUint64(0xff, 8)
	require.Equal(t, "0xff#8", a.String())
}
