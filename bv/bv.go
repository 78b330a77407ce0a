// Package bv implements BVV, the fixed-width two's-complement integer
// value that backs every concrete bit-vector leaf in the expression IR.
//
// Values are stored as arbitrary-precision unsigned magnitudes (modulo
// 2^bits) via math/big so that widths above 64 bits — common in crypto
// and verification workloads — are never truncated. No third-party
// bignum library appears anywhere in the retrieval pack (the closest,
// shopspring/decimal, is a decimal-floating type and does not fit binary
// two's-complement semantics), so this is the one place claragopy
// reaches for the standard library over an ecosystem dependency; see
// DESIGN.md.
package bv

import (
	"fmt"
	"math/big"
)

// BVV is an immutable fixed-width two's-complement value: Value holds
// the unsigned magnitude reduced modulo 2^Bits.
type BVV struct {
	value *big.Int
	bits  int
}

// New returns the BVV for v reduced modulo 2^bits. v is taken as an
// unsigned magnitude; use NewSigned for a signed interpretation.
func New(v *big.Int, bits int) *BVV {
	if bits <= 0 {
		panic("bv: bits must be positive")
	}
	return &BVV{value: new(big.Int).And(v, mask(bits)), bits: bits}
}

// NewUint64 is a convenience constructor for small concrete widths.
func NewUint64(v uint64, bits int) *BVV {
	return New(new(big.Int).SetUint64(v), bits)
}

// NewSigned reduces a signed magnitude into its two's-complement
// representation modulo 2^bits.
func NewSigned(v *big.Int, bits int) *BVV {
	m := mask(bits)
	u := new(big.Int).And(v, m)
	return &BVV{value: u, bits: bits}
}

func mask(bits int) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
}

// Bits returns the width.
func (b *BVV) Bits() int { return b.bits }

// Unsigned returns the unsigned magnitude, 0 <= n < 2^bits.
func (b *BVV) Unsigned() *big.Int { return new(big.Int).Set(b.value) }

// Signed reinterprets the top bit as sign and returns the signed value.
func (b *BVV) Signed() *big.Int {
	if b.value.Bit(b.bits-1) == 0 {
		return new(big.Int).Set(b.value)
	}
	return new(big.Int).Sub(b.value, new(big.Int).Lsh(big.NewInt(1), uint(b.bits)))
}

// Uint64 truncates to the low 64 bits; intended for widths <= 64.
func (b *BVV) Uint64() uint64 { return b.value.Uint64() }

func (b *BVV) String() string {
	return fmt.Sprintf("0x%x#%d", b.value, b.bits)
}

// Equal compares value and width.
func (b *BVV) Equal(o *BVV) bool {
	return o != nil && b.bits == o.bits && b.value.Cmp(o.value) == 0
}

func checkWidth(a, b *BVV) {
	if a.bits != b.bits {
		panic(fmt.Sprintf("bv: width mismatch %d vs %d", a.bits, b.bits))
	}
}

// Add returns a+b mod 2^bits.
func (a *BVV) Add(b *BVV) *BVV { checkWidth(a, b); return New(new(big.Int).Add(a.value, b.value), a.bits) }

// Sub returns a-b mod 2^bits.
func (a *BVV) Sub(b *BVV) *BVV { checkWidth(a, b); return New(new(big.Int).Sub(a.value, b.value), a.bits) }

// Mul returns a*b mod 2^bits.
func (a *BVV) Mul(b *BVV) *BVV { checkWidth(a, b); return New(new(big.Int).Mul(a.value, b.value), a.bits) }

// SDiv performs signed division, truncating toward zero — the
// convention claragopy picked for the spec's __div__ open question.
func (a *BVV) SDiv(b *BVV) *BVV {
	checkWidth(a, b)
	q := new(big.Int).Quo(a.Signed(), b.Signed())
	return NewSigned(q, a.bits)
}

// UDiv performs unsigned division. It is a BVV helper only: no backend
// calls it, and it is never surfaced as __div__.
func (a *BVV) UDiv(b *BVV) *BVV {
	checkWidth(a, b)
	return New(new(big.Int).Quo(a.value, b.value), a.bits)
}

// SMod is the signed remainder, sign of the dividend, matching SDiv.
func (a *BVV) SMod(b *BVV) *BVV {
	checkWidth(a, b)
	r := new(big.Int).Rem(a.Signed(), b.Signed())
	return NewSigned(r, a.bits)
}

// Neg returns the two's-complement negation.
func (a *BVV) Neg() *BVV { return New(new(big.Int).Neg(a.value), a.bits) }

// Pow raises a to the b-th power (b taken as a small unsigned exponent).
func (a *BVV) Pow(b *BVV) *BVV {
	return New(new(big.Int).Exp(a.value, b.value, nil), a.bits)
}

// And, Or, Xor, Not are bitwise operators.
func (a *BVV) And(b *BVV) *BVV { checkWidth(a, b); return New(new(big.Int).And(a.value, b.value), a.bits) }
func (a *BVV) Or(b *BVV) *BVV  { checkWidth(a, b); return New(new(big.Int).Or(a.value, b.value), a.bits) }
func (a *BVV) Xor(b *BVV) *BVV { checkWidth(a, b); return New(new(big.Int).Xor(a.value, b.value), a.bits) }
func (a *BVV) Not() *BVV       { return New(new(big.Int).Not(a.value), a.bits) }

// Shl is the logical left shift by a constant amount.
func (a *BVV) Shl(n uint) *BVV { return New(new(big.Int).Lsh(a.value, n), a.bits) }

// LShR is the logical right shift.
func (a *BVV) LShR(n uint) *BVV { return New(new(big.Int).Rsh(a.value, n), a.bits) }

// AShR is the arithmetic right shift, preserving sign.
func (a *BVV) AShR(n uint) *BVV {
	return NewSigned(new(big.Int).Rsh(a.Signed(), n), a.bits)
}

// RotateLeft rotates the bit pattern left by n (mod bits).
func (a *BVV) RotateLeft(n uint) *BVV {
	n %= uint(a.bits)
	hi := a.Shl(n)
	lo := a.LShR(uint(a.bits) - n)
	if n == 0 {
		return New(a.value, a.bits)
	}
	return hi.Or(lo)
}

// RotateRight rotates the bit pattern right by n (mod bits).
func (a *BVV) RotateRight(n uint) *BVV {
	n %= uint(a.bits)
	if n == 0 {
		return New(a.value, a.bits)
	}
	return a.RotateLeft(uint(a.bits) - n)
}

// Extract returns bits [lo, hi] inclusive, zero-indexed from the LSB.
func (a *BVV) Extract(hi, lo int) *BVV {
	if lo < 0 || hi < lo || hi >= a.bits {
		panic("bv: extract out of range")
	}
	v := new(big.Int).Rsh(a.value, uint(lo))
	return New(v, hi-lo+1)
}

// Concat appends b's bits below a's (a occupies the high bits).
func (a *BVV) Concat(b *BVV) *BVV {
	v := new(big.Int).Lsh(a.value, uint(b.bits))
	v.Or(v, b.value)
	return New(v, a.bits+b.bits)
}

// SignExt extends the value by n bits, replicating the sign bit.
func (a *BVV) SignExt(n int) *BVV {
	return NewSigned(a.Signed(), a.bits+n)
}

// ZeroExt extends the value by n bits with zeros.
func (a *BVV) ZeroExt(n int) *BVV {
	return New(a.value, a.bits+n)
}

// RepeatBitVec tiles a n times, a occupying the high bits of the result.
func (a *BVV) RepeatBitVec(n int) *BVV {
	if n <= 0 {
		panic("bv: repeat count must be positive")
	}
	out := a
	for i := 1; i < n; i++ {
		out = out.Concat(a)
	}
	return out
}

// Reverse reverses the byte order. Bits must be a multiple of 8; a
// width of 8 is the identity.
func (a *BVV) Reverse() *BVV {
	if a.bits%8 != 0 {
		panic("bv: reverse requires a byte-sized width")
	}
	if a.bits == 8 {
		return New(a.value, a.bits)
	}
	nbytes := a.bits / 8
	var out *BVV
	for i := 0; i < nbytes; i++ {
		byt := a.Extract(i*8+7, i*8)
		if out == nil {
			out = byt
		} else {
			out = out.Concat(byt)
		}
	}
	return out
}

// Cmp compares unsigned magnitudes: -1, 0, 1.
func (a *BVV) Cmp(b *BVV) int { checkWidth(a, b); return a.value.Cmp(b.value) }

// SCmp compares signed magnitudes: -1, 0, 1.
func (a *BVV) SCmp(b *BVV) int { checkWidth(a, b); return a.Signed().Cmp(b.Signed()) }
