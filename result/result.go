// Package result defines Result, the memoization key/value every
// solver caches (spec §3, §4.9): a sat flag, a variable->concrete
// model, and an opaque backend-model handle. It is its own package
// (rather than living in solver or backend) because both backend and
// solver need the type without creating an import cycle between them.
package result

// Result is immutable once constructed; solvers replace, never mutate,
// their cached *Result.
type Result struct {
	Sat bool
	// Model maps a variable name to its concrete value in this
	// model: a *bv.BVV for bit-vector variables or a bool for
	// boolean ones. Stored as `any` so this package need not import
	// bv.
	Model map[string]any
	// BackendModel is an opaque handle to the backend-native model
	// object (e.g. a *z3.Model), reusable by a subsequent Eval call
	// on the same expression for "free" first-sample reuse (spec
	// §4.5).
	BackendModel any
}

// Unsat is the canonical unsatisfiable result.
func Unsat() *Result { return &Result{Sat: false} }

// New builds a satisfiable Result.
func New(model map[string]any, backendModel any) *Result {
	return &Result{Sat: true, Model: model, BackendModel: backendModel}
}

// Concretizes reports whether this result's model already assigns a
// value compatible with evaluating expr without a fresh backend check
// — used by SMT eval's "free first sample" path. Backends decide this
// themselves (they know how to evaluate expr against BackendModel);
// this helper only expresses the precondition that there's a model to
// try.
func (r *Result) Concretizes() bool { return r != nil && r.Sat && r.BackendModel != nil }
