package vsa

import "math/big"

// DiscreteStridedIntervalSet is a finite set of strided intervals; it
// collapses to the smallest enclosing SI on demand or once cardinality
// exceeds MaxCardinality. Backend.Call never builds one, and
// Backend.AllowDSIS does not affect it.
type DiscreteStridedIntervalSet struct {
	Bits           int
	Members        []*StridedInterval
	MaxCardinality int
}

// DefaultMaxCardinality mirrors the threshold original_source's VSA
// keeps before collapsing a DSIS into a single SI.
const DefaultMaxCardinality = 256

// NewDSIS starts a one-member DSIS.
func NewDSIS(bits int, first *StridedInterval) *DiscreteStridedIntervalSet {
	return &DiscreteStridedIntervalSet{Bits: bits, Members: []*StridedInterval{first}, MaxCardinality: DefaultMaxCardinality}
}

// Collapse reduces the set to its smallest enclosing StridedInterval.
func (d *DiscreteStridedIntervalSet) Collapse() *StridedInterval {
	if len(d.Members) == 0 {
		return Empty(d.Bits)
	}
	acc := d.Members[0]
	for _, m := range d.Members[1:] {
		acc = Union(acc, m)
	}
	return acc
}

// AddMember inserts si, collapsing to a single-member set if the
// cardinality threshold is exceeded.
func (d *DiscreteStridedIntervalSet) AddMember(si *StridedInterval) {
	d.Members = append(d.Members, si)
	total := big.NewInt(0)
	for _, m := range d.Members {
		total.Add(total, m.card())
	}
	if total.Cmp(big.NewInt(int64(d.MaxCardinality))) > 0 {
		d.Members = []*StridedInterval{d.Collapse()}
	}
}

// liftBinary applies a pairwise SI operator across the Cartesian
// product of two DSIS member lists, per spec §4.7's "set operations
// lift pointwise".
func liftBinary(a, b *DiscreteStridedIntervalSet, f func(x, y *StridedInterval) *StridedInterval) *DiscreteStridedIntervalSet {
	out := &DiscreteStridedIntervalSet{Bits: a.Bits, MaxCardinality: a.MaxCardinality}
	for _, x := range a.Members {
		for _, y := range b.Members {
			out.AddMember(f(x, y))
		}
	}
	return out
}

// UnionBVV promotes a plain union of two concrete/SI values to a
// DSIS, per spec §4.7's "union on BVVs promotes to DSIS".
func UnionBVV(bits int, values ...*big.Int) *DiscreteStridedIntervalSet {
	d := &DiscreteStridedIntervalSet{Bits: bits, MaxCardinality: DefaultMaxCardinality}
	for _, v := range values {
		d.AddMember(Single(bits, v))
	}
	return d
}
