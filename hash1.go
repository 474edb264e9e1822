package sm9

import (
	"encoding/binary"

	"github.com/dromara/sm9/hash/sm3"
	"github.com/dromara/sm9/internal/sm9curve"
)

// H1 derives an Fn-element from an identity string and its hid domain
// separator: Ha = SM3(0x01||ID||hid||00000001) || SM3(0x01||ID||hid||00000002),
// reduced into [1, N-1]. Used to embed an identity into a curve point
// (e.g. Q = [H1(ID,hid)]*P1 + Ppub) in the KEM, encryption, and
// key-exchange steps.
func H1(id []byte, hid byte) sm9curve.Scalar {
	prefix := make([]byte, 0, 1+len(id)+1)
	prefix = append(prefix, hash1Prefix)
	prefix = append(prefix, id...)
	prefix = append(prefix, hid)

	var ct [4]byte

	binary.BigEndian.PutUint32(ct[:], 1)
	h1 := sm3.New()
	h1.Write(prefix)
	h1.Write(ct[:])
	part1 := h1.Sum(nil)

	binary.BigEndian.PutUint32(ct[:], 2)
	h2 := sm3.New()
	h2.Write(prefix)
	h2.Write(ct[:])
	part2 := h2.Sum(nil)

	ha := make([]byte, 0, 64)
	ha = append(ha, part1...)
	ha = append(ha, part2...)
	return sm9curve.ScalarFromHash(ha)
}
