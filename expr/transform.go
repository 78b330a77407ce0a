package expr


// Replace walks root, substituting every occurrence of old (compared
// by identity/hash, per spec §4.1) with new, and returns a new interned
// tree. Subtrees that contain no occurrence of old are returned
// unchanged (and thus shared) rather than rebuilt, so Replace is only
// as expensive as the portion of the tree that actually changes.
func Replace(root, old, new_ *Base) *Base {
	memo := map[uint64]*Base{}
	return replace(root, old, new_, memo)
}

func replace(node, old, new_ *Base, memo map[uint64]*Base) *Base {
	if node.Hash() == old.Hash() {
		return new_
	}
	if cached, ok := memo[node.Hash()]; ok {
		return cached
	}
	if node.IsLeaf() {
		memo[node.Hash()] = node
		return node
	}
	changed := false
	newArgs := make([]any, len(node.args))
	for i, a := range node.args {
		child, ok := a.(*Base)
		if !ok {
			newArgs[i] = a
			continue
		}
		r := replace(child, old, new_, memo)
		if r.Hash() != child.Hash() {
			changed = true
		}
		newArgs[i] = r
	}
	var out *Base
	if !changed {
		out = node
	} else {
		out = Make(node.op, newArgs, node.length)
	}
	memo[node.Hash()] = out
	return out
}

// Chop returns the sequence of length/k extracts at k-bit boundaries,
// high-first: Chop(e, 8) on a 32-bit e returns [e[31:24], e[23:16],
// e[15:8], e[7:0]].
func Chop(e *Base, k int) []*Base {
	if e.length%k != 0 {
		panic("expr: Chop width must divide length")
	}
	n := e.length / k
	out := make([]*Base, n)
	for i := 0; i < n; i++ {
		hi := e.length - i*k - 1
		lo := e.length - (i+1)*k
		x, err := Extract(hi, lo, e)
		if err != nil {
			panic(err)
		}
		out[i] = x
	}
	return out
}

// ConcatAll folds Concat left-to-right over parts, parts[0] occupying
// the high bits of the result — the inverse of Chop, so
// ConcatAll(Chop(e, k)...) reconstructs e for any k dividing e.Length().
func ConcatAll(parts ...*Base) *Base {
	if len(parts) == 0 {
		panic("expr: ConcatAll requires at least one part")
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = Concat(out, p)
	}
	return out
}

// Walk calls visit on every node of the subtree rooted at e exactly
// once per distinct node identity (shared subtrees are visited once).
func Walk(e *Base, visit func(*Base)) {
	seen := map[uint64]bool{}
	var rec func(*Base)
	rec = func(n *Base) {
		if seen[n.Hash()] {
			return
		}
		seen[n.Hash()] = true
		visit(n)
		if n.IsLeaf() {
			return
		}
		for _, a := range n.args {
			if c, ok := a.(*Base); ok {
				rec(c)
			}
		}
	}
	rec(e)
}
