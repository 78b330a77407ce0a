package vsa

// ValueSet maps a memory region name to its strided interval of
// offsets within that region (spec §4.7), representing an address set
// partitioned by region the way a symbolic pointer may resolve to
// "could be in the stack region at these offsets, or the heap region
// at those offsets".
type ValueSet struct {
	Bits    int
	Regions map[string]*StridedInterval
}

// NewValueSet returns an empty ValueSet of the given width.
func NewValueSet(bits int) *ValueSet {
	return &ValueSet{Bits: bits, Regions: map[string]*StridedInterval{}}
}

// MergeSI unions si into region's existing interval (or sets it, if
// region is new).
func (v *ValueSet) MergeSI(region string, si *StridedInterval) {
	if existing, ok := v.Regions[region]; ok {
		v.Regions[region] = Union(existing, si)
	} else {
		v.Regions[region] = si
	}
}

// GetSI returns region's interval, or the empty interval if region is
// unknown to this value set.
func (v *ValueSet) GetSI(region string) *StridedInterval {
	if si, ok := v.Regions[region]; ok {
		return si
	}
	return Empty(v.Bits)
}

// IsEmpty reports whether no region carries a non-empty interval.
func (v *ValueSet) IsEmpty() bool {
	for _, si := range v.Regions {
		if !si.IsEmpty() {
			return false
		}
	}
	return true
}
