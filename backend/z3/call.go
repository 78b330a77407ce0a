package z3

import "github.com/dolthub/claragopy/ops"

// Call applies op directly to already-converted native operands,
// satisfying the backend.Backend interface for callers (solver
// branch/merge paths) that already hold native Z3 ASTs rather than
// IR nodes.
func (b *Backend) Call(op ops.Op, args []any) (any, error) {
	var native []nativeAST
	var params []int
	for _, a := range args {
		switch t := a.(type) {
		case int:
			params = append(params, t)
		default:
			native = append(native, t.(nativeAST))
		}
	}
	return b.callRaw(op, params, native, 0)
}
