// Package vsa implements BackendVSA (spec §4.7): the strided-interval
// abstract domain used for value-set analysis, the backend that can
// reason about a range of concrete values without committing to the
// SMT path.
//
// Grounded on original_source/claripy/vsa/strided_interval.py's
// wrap-aware arithmetic, re-expressed as Go methods over *big.Int
// bounds the way bv.BVV wraps math/big for BackendConcrete.
package vsa

import "math/big"

// StridedInterval is { lower + k*stride mod 2^bits : k >= 0 } clipped
// circularly to upper, per spec §4.7. Stride 0 means singleton
// (lower == upper). Empty is a distinguished zero-value-free state
// tracked via the empty field rather than a sentinel stride.
type StridedInterval struct {
	Bits   int
	Stride *big.Int
	Lower  *big.Int
	Upper  *big.Int
	empty  bool
}

func modBits(bits int) *big.Int { return new(big.Int).Lsh(big.NewInt(1), uint(bits)) }

func wrap(v *big.Int, bits int) *big.Int {
	m := modBits(bits)
	r := new(big.Int).Mod(v, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

// Empty returns the distinguished empty interval of the given width.
func Empty(bits int) *StridedInterval { return &StridedInterval{Bits: bits, empty: true} }

// Single returns a singleton (stride 0) interval.
func Single(bits int, v *big.Int) *StridedInterval {
	w := wrap(v, bits)
	return &StridedInterval{Bits: bits, Stride: big.NewInt(0), Lower: w, Upper: new(big.Int).Set(w)}
}

// New returns the general strided interval [lower, upper] stepping by
// stride, all reduced mod 2^bits.
func New(bits int, stride, lower, upper *big.Int) *StridedInterval {
	if stride.Sign() == 0 {
		return Single(bits, lower)
	}
	return &StridedInterval{Bits: bits, Stride: new(big.Int).Abs(stride), Lower: wrap(lower, bits), Upper: wrap(upper, bits)}
}

// Top is the maximally imprecise SI of the given width: every
// value, stride 1.
func Top(bits int) *StridedInterval {
	return &StridedInterval{Bits: bits, Stride: big.NewInt(1), Lower: big.NewInt(0), Upper: new(big.Int).Sub(modBits(bits), big.NewInt(1))}
}

func (s *StridedInterval) IsEmpty() bool { return s.empty }

// IsSingleton reports whether this SI denotes exactly one value.
func (s *StridedInterval) IsSingleton() bool {
	return !s.empty && s.Stride.Sign() == 0
}

// card returns the number of values the interval spans, treating a
// wrapped range (lower > upper) as continuing past 2^bits.
func (s *StridedInterval) card() *big.Int {
	if s.empty {
		return big.NewInt(0)
	}
	if s.Stride.Sign() == 0 {
		return big.NewInt(1)
	}
	span := new(big.Int).Sub(s.Upper, s.Lower)
	if span.Sign() < 0 {
		span.Add(span, modBits(s.Bits))
	}
	return new(big.Int).Add(new(big.Int).Div(span, s.Stride), big.NewInt(1))
}

func gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Add implements spec §4.7's add rule: stride = gcd of input strides,
// bounds from endpoint sums respecting wrap.
func Add(a, b *StridedInterval) *StridedInterval {
	if a.empty || b.empty {
		return Empty(maxBits(a, b))
	}
	bits := maxBits(a, b)
	stride := gcdOrOther(a.Stride, b.Stride)
	lower := wrap(new(big.Int).Add(a.Lower, b.Lower), bits)
	upper := wrap(new(big.Int).Add(a.Upper, b.Upper), bits)
	return &StridedInterval{Bits: bits, Stride: stride, Lower: lower, Upper: upper}
}

func gcdOrOther(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Set(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Set(a)
	}
	return gcd(a, b)
}

func maxBits(a, b *StridedInterval) int {
	if a.Bits >= b.Bits {
		return a.Bits
	}
	return b.Bits
}

// Neg reflects the interval around zero (two's-complement negation).
func Neg(a *StridedInterval) *StridedInterval {
	if a.empty {
		return a
	}
	lower := wrap(new(big.Int).Neg(a.Upper), a.Bits)
	upper := wrap(new(big.Int).Neg(a.Lower), a.Bits)
	return &StridedInterval{Bits: a.Bits, Stride: new(big.Int).Set(a.Stride), Lower: lower, Upper: upper}
}

// Invert (bitwise NOT) is ~x = -x - 1, so it shares Neg's reflection
// shape shifted by one.
func Invert(a *StridedInterval) *StridedInterval {
	if a.empty {
		return a
	}
	m := modBits(a.Bits)
	notLower := wrap(new(big.Int).Sub(new(big.Int).Sub(m, big.NewInt(1)), a.Upper), a.Bits)
	notUpper := wrap(new(big.Int).Sub(new(big.Int).Sub(m, big.NewInt(1)), a.Lower), a.Bits)
	return &StridedInterval{Bits: a.Bits, Stride: new(big.Int).Set(a.Stride), Lower: notLower, Upper: notUpper}
}

// Or computes a widened bitwise-or enclosure. A full Warren-style
// bitwise-or transfer function is a substantial amount of bit-level
// casework; this implements the two cases spec §4.7 calls out
// explicitly (disjoint aligned ranges) and otherwise falls back to
// Top, which is always a sound (if imprecise) enclosure.
func Or(a, b *StridedInterval) *StridedInterval {
	bits := maxBits(a, b)
	if a.empty || b.empty {
		return Empty(bits)
	}
	if a.IsSingleton() && b.IsSingleton() {
		return Single(bits, new(big.Int).Or(a.Lower, b.Lower))
	}
	// Disjoint byte-aligned ranges: result spans from the high range's
	// lower bound (x|y is never below either operand) through the high
	// range's upper bound with every bit up to the low range's top bit
	// set, per the 0x2000..0x3000 | 0..0xff = 0x2000..0x30ff example.
	if isByteAligned(a) && isByteAligned(b) && a.Upper.Cmp(b.Lower) < 0 {
		lowBits := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(a.Upper.BitLen())), big.NewInt(1))
		return New(bits, big.NewInt(1), b.Lower, new(big.Int).Or(b.Upper, lowBits))
	}
	if isByteAligned(a) && isByteAligned(b) && b.Upper.Cmp(a.Lower) < 0 {
		lowBits := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(b.Upper.BitLen())), big.NewInt(1))
		return New(bits, big.NewInt(1), a.Lower, new(big.Int).Or(a.Upper, lowBits))
	}
	return Top(bits)
}

func isByteAligned(s *StridedInterval) bool {
	eight := big.NewInt(8)
	return new(big.Int).Mod(s.Lower, eight).Sign() == 0
}

// Mul, Div, Mod: interval arithmetic clamped to width, per spec §4.7.
// Only the singleton x singleton fast path is exact; the general case
// widens to Top to stay sound without a full Bou-Ajaj-style transfer
// function.
func Mul(a, b *StridedInterval) *StridedInterval {
	bits := maxBits(a, b)
	if a.empty || b.empty {
		return Empty(bits)
	}
	if a.IsSingleton() && b.IsSingleton() {
		return Single(bits, new(big.Int).Mul(a.Lower, b.Lower))
	}
	return Top(bits)
}

func Div(a, b *StridedInterval) *StridedInterval {
	bits := maxBits(a, b)
	if a.empty || b.empty {
		return Empty(bits)
	}
	if a.IsSingleton() && b.IsSingleton() && b.Lower.Sign() != 0 {
		return Single(bits, new(big.Int).Div(a.Lower, b.Lower))
	}
	return Top(bits)
}

func Mod(a, b *StridedInterval) *StridedInterval {
	bits := maxBits(a, b)
	if a.empty || b.empty {
		return Empty(bits)
	}
	if a.IsSingleton() && b.IsSingleton() && b.Lower.Sign() != 0 {
		return Single(bits, new(big.Int).Mod(a.Lower, b.Lower))
	}
	return Top(bits)
}

// Shl by a constant k multiplies stride and bounds by 2^k mod 2^bits;
// the bit-width is unchanged, per spec §4.7.
func Shl(a *StridedInterval, k uint) *StridedInterval {
	if a.empty {
		return a
	}
	mul := new(big.Int).Lsh(big.NewInt(1), k)
	return &StridedInterval{
		Bits:   a.Bits,
		Stride: wrap(new(big.Int).Mul(a.Stride, mul), a.Bits),
		Lower:  wrap(new(big.Int).Mul(a.Lower, mul), a.Bits),
		Upper:  wrap(new(big.Int).Mul(a.Upper, mul), a.Bits),
	}
}

// Extract returns bits [hi,lo]. When the interval is byte-aligned and
// the requested byte is invariant across the whole range, the result
// is an exact singleton; otherwise the result widens to Top of the
// extracted width, per spec §4.7.
func Extract(hi, lo int, a *StridedInterval) *StridedInterval {
	width := hi - lo + 1
	if a.empty {
		return Empty(width)
	}
	if a.IsSingleton() {
		shifted := new(big.Int).Rsh(a.Lower, uint(lo))
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
		return Single(width, new(big.Int).And(shifted, mask))
	}
	if lo%8 == 0 && width%8 == 0 {
		lowerByte := extractByte(a.Lower, lo, width)
		upperByte := extractByte(a.Upper, lo, width)
		if lowerByte.Cmp(upperByte) == 0 {
			return Single(width, lowerByte)
		}
	}
	return Top(width)
}

func extractByte(v *big.Int, lo, width int) *big.Int {
	shifted := new(big.Int).Rsh(v, uint(lo))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
	return new(big.Int).And(shifted, mask)
}

// ZeroExtend/SignExtend extend bounds by n bits; stride is preserved.
func ZeroExtend(n int, a *StridedInterval) *StridedInterval {
	if a.empty {
		return Empty(a.Bits + n)
	}
	return &StridedInterval{Bits: a.Bits + n, Stride: new(big.Int).Set(a.Stride), Lower: new(big.Int).Set(a.Lower), Upper: new(big.Int).Set(a.Upper)}
}

func SignExtend(n int, a *StridedInterval) *StridedInterval {
	if a.empty {
		return Empty(a.Bits + n)
	}
	sext := func(v *big.Int) *big.Int {
		signBit := new(big.Int).Lsh(big.NewInt(1), uint(a.Bits-1))
		if new(big.Int).And(v, signBit).Sign() == 0 {
			return new(big.Int).Set(v)
		}
		ones := new(big.Int).Lsh(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(n)), big.NewInt(1)), uint(a.Bits))
		return new(big.Int).Or(v, ones)
	}
	return &StridedInterval{Bits: a.Bits + n, Stride: new(big.Int).Set(a.Stride), Lower: sext(a.Lower), Upper: sext(a.Upper)}
}

// Union is the smallest SI containing both inputs, per spec §4.7,
// widening stride to the gcd of the endpoint differences.
func Union(a, b *StridedInterval) *StridedInterval {
	bits := maxBits(a, b)
	if a.empty {
		return b
	}
	if b.empty {
		return a
	}
	lower := a.Lower
	if b.Lower.Cmp(lower) < 0 {
		lower = b.Lower
	}
	upper := a.Upper
	if b.Upper.Cmp(upper) > 0 {
		upper = b.Upper
	}
	diff := new(big.Int).Sub(b.Lower, a.Lower)
	stride := gcd(gcdOrOther(a.Stride, b.Stride), diff)
	if stride.Sign() == 0 {
		stride = big.NewInt(1)
	}
	return New(bits, stride, lower, upper)
}

// Intersection is the interval meet; may be empty.
func Intersection(a, b *StridedInterval) *StridedInterval {
	bits := maxBits(a, b)
	if a.empty || b.empty {
		return Empty(bits)
	}
	lower := a.Lower
	if b.Lower.Cmp(lower) > 0 {
		lower = b.Lower
	}
	upper := a.Upper
	if b.Upper.Cmp(upper) < 0 {
		upper = b.Upper
	}
	if lower.Cmp(upper) > 0 {
		return Empty(bits)
	}
	stride := gcdOrOther(a.Stride, b.Stride)
	if stride.Sign() == 0 {
		stride = big.NewInt(1)
	}
	return New(bits, stride, lower, upper)
}

// TriResult is the three-valued outcome of an SI comparison (spec
// §4.7): ranges may overlap such that neither the true nor false
// branch can be ruled out.
type TriResult int

const (
	FalseResult TriResult = iota
	TrueResult
	MaybeResult
)

// Eq reports whether a and b can, must, or cannot be equal.
func Eq(a, b *StridedInterval) TriResult {
	if a.IsSingleton() && b.IsSingleton() {
		if a.Lower.Cmp(b.Lower) == 0 {
			return TrueResult
		}
		return FalseResult
	}
	if Intersection(a, b).IsEmpty() {
		return FalseResult
	}
	return MaybeResult
}

// ULt reports the unsigned less-than relationship between a and b.
func ULt(a, b *StridedInterval) TriResult {
	if a.Upper.Cmp(b.Lower) < 0 {
		return TrueResult
	}
	if a.Lower.Cmp(b.Upper) >= 0 {
		return FalseResult
	}
	return MaybeResult
}
