// Package claripy is the public façade (spec §6): it holds the
// precedence-ordered backend list, forwards expression construction to
// package expr, and fixes model-backend precedence for concretization.
//
// Grounded on the teacher's engine.go Config/NewDefault idiom: a
// façade struct built by functional options, wrapping the collaborator
// packages (expr, backend/*, solver) the way Engine wraps
// sql/analyzer, sql/planbuilder, and sql/rowexec.
package claripy

import (
	"math/big"

	"github.com/dolthub/claragopy/backend"
	"github.com/dolthub/claragopy/backend/concrete"
	"github.com/dolthub/claragopy/backend/vsa"
	"github.com/dolthub/claragopy/backend/z3"
	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/config"
	"github.com/dolthub/claragopy/errs"
	"github.com/dolthub/claragopy/expr"
	"github.com/dolthub/claragopy/result"
	"github.com/dolthub/claragopy/solver"
	"github.com/sirupsen/logrus"
)

// Claripy holds an ordered list of backends with precedence: the
// façade tries each in order when resolving an expression, falling
// through on BackendError (spec §6, §7's propagation policy).
type Claripy struct {
	backends []backend.Backend
	log      *logrus.Entry
	cfg      *config.Config
}

// Option configures a Claripy façade at construction time.
type Option func(*Claripy)

// WithLogger overrides the default logger (a logrus.New() entry).
func WithLogger(log *logrus.Entry) Option {
	return func(c *Claripy) { c.log = log }
}

// WithBackends overrides the default precedence list.
func WithBackends(backends ...backend.Backend) Option {
	return func(c *Claripy) { c.backends = backends }
}

// WithConfig supplies ambient configuration resolved via package
// config. Its SMT timeout reaches the solver layer; its AllowDSIS is
// not read (WithVSA takes the DSIS flag as an argument).
func WithConfig(cfg *config.Config) Option {
	return func(c *Claripy) { c.cfg = cfg }
}

// New constructs a façade. With no options it is "SerialZ3": concrete
// backend first (cheap, exact on ground terms), then the SMT backend,
// matching Claripies["SerialZ3"]'s precedence in the spec.
func New(opts ...Option) *Claripy {
	log := logrus.NewEntry(logrus.New())
	c := &Claripy{log: log, cfg: config.NewDefault()}
	for _, o := range opts {
		o(c)
	}
	if c.backends == nil {
		c.backends = []backend.Backend{concrete.Default, z3.New(c.log)}
	}
	solver.SetDefaultTimeout(z3.FromConfigTimeout(c.cfg.Timeout))
	return c
}

// WithVSA returns a façade whose precedence list places BackendVSA
// ahead of the SMT backend, for callers preferring abstract
// interpretation over full SMT solving.
func WithVSA(allowDSIS bool, opts ...Option) *Claripy {
	log := logrus.NewEntry(logrus.New())
	c := &Claripy{
		backends: []backend.Backend{concrete.Default, vsa.NewBackend(allowDSIS), z3.New(log)},
		log:      log,
		cfg:      config.NewDefault(),
	}
	for _, o := range opts {
		o(c)
	}
	solver.SetDefaultTimeout(z3.FromConfigTimeout(c.cfg.Timeout))
	return c
}

// Resolve tries each backend in precedence order, returning the first
// successful translation; a BackendError from one backend falls
// through to the next, per spec §7's propagation policy.
func (c *Claripy) Resolve(node *expr.Base, res *result.Result) (backend.Backend, any, error) {
	var lastErr error
	for _, b := range c.backends {
		v, err := backend.Resolve(b, node, res)
		if err == nil {
			return b, v, nil
		}
		if !errs.BackendError.Is(err) {
			return nil, nil, err
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

// --- Expression factories: thin forwarding to package expr, matching
// spec §6's "factory façade" surface. ---

func BitVec(name string, bits int) *expr.Base    { return expr.BitVec(name, bits) }
func BitVecVal(value *bv.BVV) *expr.Base          { return expr.BitVecVal(value) }
func BoolVal(v bool) *expr.Base                   { return expr.BoolVal(v) }
func BVV(value *bv.BVV) *expr.Base                { return expr.BitVecVal(value) }
func True() *expr.Base                            { return expr.True() }
func False() *expr.Base                           { return expr.False() }

func And(args ...*expr.Base) *expr.Base { return expr.And(args...) }
func Or(args ...*expr.Base) *expr.Base  { return expr.Or(args...) }
func Not(a *expr.Base) *expr.Base       { return expr.Not(a) }
func If(c, t, f *expr.Base) *expr.Base  { return expr.If(c, t, f) }

func Add(a, b *expr.Base) *expr.Base { return expr.Add(a, b) }
func Sub(a, b *expr.Base) *expr.Base { return expr.Sub(a, b) }
func Mul(a, b *expr.Base) *expr.Base { return expr.Mul(a, b) }
func Div(a, b *expr.Base) *expr.Base { return expr.Div(a, b) }

func Eq(a, b *expr.Base) *expr.Base { return expr.Eq(a, b) }
func Ne(a, b *expr.Base) *expr.Base { return expr.Ne(a, b) }
func Lt(a, b *expr.Base) *expr.Base { return expr.Lt(a, b) }
func Le(a, b *expr.Base) *expr.Base { return expr.Le(a, b) }
func Gt(a, b *expr.Base) *expr.Base { return expr.Gt(a, b) }
func Ge(a, b *expr.Base) *expr.Base { return expr.Ge(a, b) }

func Concat(a, b *expr.Base) *expr.Base      { return expr.Concat(a, b) }
func SignExt(n int, a *expr.Base) *expr.Base { return expr.SignExt(n, a) }
func ZeroExt(n int, a *expr.Base) *expr.Base { return expr.ZeroExt(n, a) }

// Extract and Reverse can fail (out-of-range bounds, non-byte width)
// and surface that failure as a ClaripyOperationError rather than
// panicking (spec §7), so unlike the rest of this forwarding surface
// they return an error.
func Extract(hi, lo int, a *expr.Base) (*expr.Base, error) { return expr.Extract(hi, lo, a) }
func Reverse(a *expr.Base) (*expr.Base, error)             { return expr.Reverse(a) }

// SI/StridedInterval construct a strided interval directly (spec §6):
// { lower + k*stride mod 2^bits }. Both names are exposed since the
// original API offers "SI" as a short alias for "StridedInterval".
func SI(bits int, stride, lower, upper *big.Int) *vsa.StridedInterval {
	return vsa.New(bits, stride, lower, upper)
}
func StridedInterval(bits int, stride, lower, upper *big.Int) *vsa.StridedInterval {
	return vsa.New(bits, stride, lower, upper)
}

// ValueSet returns an empty region->interval map of the given width
// (spec §6's ValueSet(bits[, region, val])).
func ValueSet(bits int) *vsa.ValueSet { return vsa.NewValueSet(bits) }

// ValueSetWithRegion is ValueSet pre-populated with one region's
// interval, the Go equivalent of spec §6's optional
// ValueSet(bits, region, val) form.
func ValueSetWithRegion(bits int, region string, val *vsa.StridedInterval) *vsa.ValueSet {
	vs := vsa.NewValueSet(bits)
	vs.MergeSI(region, val)
	return vs
}
