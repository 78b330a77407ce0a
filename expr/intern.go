package expr

import (
	"runtime"
	"sync"
	"weak"

	"github.com/dolthub/claragopy/ops"
)

// internTable is the process-wide weak hash-consing cache (spec §3,
// §4.1, §5): two constructions with pointwise-identical arguments
// converge on one winner while both are reachable, and unreachable
// nodes are free to be collected. Go 1.24's weak.Pointer plus
// runtime.AddCleanup gives genuine weak references instead of the
// finalizer-based WeakValueDictionary emulation an older Go would need.
var internTable sync.Map // map[uint64]weak.Pointer[Base]

func internLookup(h uint64) (*Base, bool) {
	v, ok := internTable.Load(h)
	if !ok {
		return nil, false
	}
	wp := v.(weak.Pointer[Base])
	p := wp.Value()
	if p == nil {
		internTable.Delete(h)
		return nil, false
	}
	return p, true
}

// internStore installs b under its hash, returning the node that wins
// the race: on a concurrent insert of a structurally equal node, the
// loser is discarded and the winner returned (spec §5's "two concurrent
// inserts ... converge on one winner").
func internStore(h uint64, b *Base) *Base {
	wp := weak.Make(b)
	actual, loaded := internTable.LoadOrStore(h, wp)
	if !loaded {
		runtime.AddCleanup(b, cleanupIntern, h)
		return b
	}
	existingWP := actual.(weak.Pointer[Base])
	if existing := existingWP.Value(); existing != nil {
		return existing
	}
	// Stale: existing entry was collected between Load and now.
	internTable.Store(h, wp)
	runtime.AddCleanup(b, cleanupIntern, h)
	return b
}

func cleanupIntern(h uint64) {
	internTable.Delete(h)
}

// structuralHash mirrors Base.Hash's definition over (op, args, length)
// so a node's interning key can be computed before the node exists.
func structuralHash(op ops.Op, args []any, length int) uint64 {
	return hashOpArgs(op, args, length)
}
