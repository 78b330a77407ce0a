package vsa

import "github.com/dolthub/claragopy/expr"

// IfProxy lazily represents `{cond, trueVal, falseVal}` over abstract
// values (spec §4.7): an operator applied to an IfProxy propagates
// into each branch rather than forcing a premature join, so later
// refinement (constraint_to_si) can still narrow either side.
type IfProxy struct {
	Cond      *expr.Base
	TrueVal   *StridedInterval
	FalseVal  *StridedInterval
}

// NewIfProxy builds a proxy from a boolean condition and its two
// abstract branch values.
func NewIfProxy(cond *expr.Base, t, f *StridedInterval) *IfProxy {
	return &IfProxy{Cond: cond, TrueVal: t, FalseVal: f}
}

// Apply propagates a unary SI operator through both branches.
func (p *IfProxy) Apply(f func(*StridedInterval) *StridedInterval) *IfProxy {
	return &IfProxy{Cond: p.Cond, TrueVal: f(p.TrueVal), FalseVal: f(p.FalseVal)}
}

// Apply2 propagates a binary SI operator where the other operand is a
// concrete (non-proxy) SI, applied to both of p's branches.
func (p *IfProxy) Apply2(other *StridedInterval, f func(a, b *StridedInterval) *StridedInterval) *IfProxy {
	return &IfProxy{Cond: p.Cond, TrueVal: f(p.TrueVal, other), FalseVal: f(p.FalseVal, other)}
}

// Union collapses the proxy's two branches into their join, the
// fallback whenever an operator can't usefully stay lazy (e.g.
// min/max queries, per spec §4.7's "max/min are taken over the
// union").
func (p *IfProxy) Union() *StridedInterval {
	return Union(p.TrueVal, p.FalseVal)
}
