package sm9

import (
	"github.com/dromara/sm9/hash/sm3"
	"github.com/dromara/sm9/internal/sm9curve"
)

// hashContext is the streaming H2 accumulator shared by SignContext and
// VerifyContext. It seeds an SM3 state with the HASH2_PREFIX domain
// separator, then absorbs the user message. Finishing is non-destructive:
// it clones internally so the same absorbed message can be replayed
// across the sign/verify rejection-resample loop without ever re-hashing
// the message from scratch.
type hashContext struct {
	state sm3.State
}

func newHashContext() *hashContext {
	h := sm3.New()
	h.Write([]byte{hash2Prefix})
	return &hashContext{state: h}
}

// write absorbs message bytes.
func (c *hashContext) write(p []byte) {
	c.state.Write(p)
}

// finishWithW appends w (the 384-byte Fp12 serialization) to a clone of
// the absorbed state, then branches that clone twice to produce the two
// counter-indexed SM3 outputs H2's construction needs, without disturbing
// c for a subsequent resample iteration.
func (c *hashContext) finishWithW(w []byte) sm9curve.Scalar {
	afterW := c.state.Clone()
	afterW.Write(w)

	branch2 := afterW.Clone()

	afterW.Write([]byte{0, 0, 0, 1})
	part1 := afterW.Sum(nil)
	afterW.Zero()

	branch2.Write([]byte{0, 0, 0, 2})
	part2 := branch2.Sum(nil)
	branch2.Zero()

	ha := make([]byte, 0, 64)
	ha = append(ha, part1...)
	ha = append(ha, part2...)
	zeroBytes(part1)
	zeroBytes(part2)
	scalar := sm9curve.ScalarFromHash(ha)
	zeroBytes(ha)
	return scalar
}

// H2 is the non-streaming form: derive an Fn-element from a complete
// message and a 384-byte Fp12 serialization in one call.
func H2(m, w []byte) sm9curve.Scalar {
	c := newHashContext()
	c.write(m)
	return c.finishWithW(w)
}
