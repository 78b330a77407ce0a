package expr

import (
	"encoding/binary"
	"math/big"

	"github.com/cespare/xxhash/v2"

	"github.com/dolthub/claragopy/bv"
	"github.com/dolthub/claragopy/ops"
)

// hashOpArgs computes the structural hash of (op, canonical args,
// length). A child *Base contributes its own already-computed Hash()
// rather than being walked again, so hashing a node is O(arity) instead
// of O(subtree size) — the same trade the teacher's sql/memo groups
// make when hashing a plan node over its already-hashed children.
func hashOpArgs(op ops.Op, args []any, length int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(op))
	var lb [8]byte
	binary.LittleEndian.PutUint64(lb[:], uint64(int64(length)))
	_, _ = d.Write(lb[:])
	for _, a := range args {
		hashOne(d, a)
	}
	return d.Sum64()
}

func hashOne(d *xxhash.Digest, a any) {
	switch v := a.(type) {
	case *Base:
		var hb [8]byte
		binary.LittleEndian.PutUint64(hb[:], v.hash)
		_, _ = d.Write(hb[:])
	case *bv.BVV:
		_, _ = d.WriteString(v.String())
	case bool:
		if v {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case string:
		_, _ = d.WriteString(v)
	case int:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(int64(v)))
		_, _ = d.Write(b[:])
	case *big.Int:
		_, _ = d.WriteString(v.String())
	default:
		_, _ = d.WriteString("?")
	}
}
