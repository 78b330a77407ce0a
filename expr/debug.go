package expr

import (
	"github.com/sanity-io/litter"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dump renders a human-readable tree shape for e, for debug logging
// and test assertions on tree structure — the expression-tree analog
// of the teacher's test fixtures asserting on `sql.Expression.String()`,
// but using litter's struct-aware pretty-printer since Base's fields
// are unexported and a hand-rolled dumper would just re-derive what
// litter already does well.
func Dump(e *Base) string {
	return litter.Sdump(dumpView{
		Op:       string(e.op),
		Args:     dumpArgs(e.args),
		Length:   e.length,
		Symbolic: e.symbolic,
		Hash:     e.hash,
	})
}

type dumpView struct {
	Op       string
	Args     []any
	Length   int
	Symbolic bool
	Hash     uint64
}

func dumpArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if child, ok := a.(*Base); ok {
			out[i] = dumpView{Op: string(child.op), Length: child.length, Hash: child.hash}
			continue
		}
		out[i] = a
	}
	return out
}

// SortedVariables returns e's variable names in sorted order, the
// deterministic iteration spec §8's property tests need over Go's
// randomized map order.
func SortedVariables(e *Base) []string {
	names := maps.Keys(e.variables)
	slices.Sort(names)
	return names
}
