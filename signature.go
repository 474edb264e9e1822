package sm9

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/dromara/sm9/internal/sm9curve"
)

// Signature is an SM9 signature: the pair {h, S} produced by Sign and
// consumed by Verify. See EncodeSignature/DecodeSignature for its DER
// wire form.
type Signature struct {
	H sm9curve.Scalar
	S sm9curve.G1
}

// SignContext accumulates a message to be signed. Create one with
// NewSignContext, absorb the message with Write, and call Finish exactly
// once; a context is single-use.
type SignContext struct {
	h        *hashContext
	finished bool
}

// NewSignContext starts a new signing context, seeding its internal SM3
// state with the HASH2_PREFIX domain separator.
func NewSignContext() *SignContext {
	return &SignContext{h: newHashContext()}
}

// Write absorbs message bytes. It fails only once the context has been
// finished.
func (c *SignContext) Write(p []byte) (int, error) {
	if c.finished {
		return 0, errors.New("sm9: sign context already finished")
	}
	c.h.write(p)
	return len(p), nil
}

// Finish produces a signature over the accumulated message under key,
// using entropy from rand.Reader. See FinishWithRand to inject a
// deterministic reader for reproducing GM/T 0044 test vectors; production
// callers should use Finish.
func (c *SignContext) Finish(key SignKey, mpk SignMasterPubKey) (*Signature, error) {
	return c.FinishWithRand(rand.Reader, key, mpk)
}

// FinishWithRand is Finish with an explicit entropy source.
func (c *SignContext) FinishWithRand(entropy io.Reader, key SignKey, mpk SignMasterPubKey) (*Signature, error) {
	if c.finished {
		return nil, errors.New("sm9: sign context already finished")
	}
	c.finished = true

	// A1: g = e(Ppub-s, P1). Argument order fixed per spec: pairing(G2, G1).
	g := sm9curve.Pairing(mpk.Ppubs, sm9curve.P1)

	var h sm9curve.Scalar
	var l sm9curve.Scalar
	ok := false
	for attempt := 0; attempt < resampleBound; attempt++ {
		// A2: draw r in Fn \ {0}.
		r, err := sm9curve.RandScalar(entropy)
		if err != nil {
			return nil, EntropyFailureError{Err: err}
		}

		// A3: w = g^r.
		w := g.Pow(r)
		wb := w.Marshal()

		// A4: h = H2(M || w, N), replaying the absorbed message from a
		// snapshot so this loop never re-hashes M.
		h = c.h.finishWithW(wb[:])
		zeroBytes(wb[:])

		// A5: l = (r - h) mod N; restart if l == 0.
		l = r.Sub(h)
		r.Zero()
		if !l.IsZero() {
			ok = true
			break
		}
		l.Zero()
	}
	if !ok {
		return nil, ResampleExceededError{Loop: "sign"}
	}

	// A6: S = [l] * ds.
	s := key.Ds.Mul(l)
	l.Zero()

	return &Signature{H: h, S: s}, nil
}

// VerifyContext accumulates a message to be checked against a signature.
// Create one with NewVerifyContext, absorb the message with Write, and
// call Finish exactly once.
type VerifyContext struct {
	h        *hashContext
	finished bool
}

// NewVerifyContext starts a new verification context.
func NewVerifyContext() *VerifyContext {
	return &VerifyContext{h: newHashContext()}
}

// Write absorbs message bytes.
func (c *VerifyContext) Write(p []byte) (int, error) {
	if c.finished {
		return 0, errors.New("sm9: verify context already finished")
	}
	c.h.write(p)
	return len(p), nil
}

// Finish checks sig against the accumulated message for identity id under
// master public key mpk. A nil error means the signature is valid;
// VerifyFailError means the message was well-formed but the signature did
// not check out; any other error means sig itself was malformed or
// out of range.
func (c *VerifyContext) Finish(sig *Signature, mpk SignMasterPubKey, id []byte) error {
	if c.finished {
		return errors.New("sm9: verify context already finished")
	}
	c.finished = true

	// B1: range-check h; B2: on-curve check S.
	if sig.H.IsZero() {
		return RangeError{Field: "signature h"}
	}
	if !sig.S.IsOnCurve() {
		return InvalidPointError{}
	}

	// B3: g = e(Ppub-s, P1).
	g := sm9curve.Pairing(mpk.Ppubs, sm9curve.P1)

	// B4: t = g^h.
	t := g.Pow(sig.H)

	// B5: h1 = H1(ID, HID_SIGN).
	h1 := H1(id, HIDSign)

	// B6: P = [h1]*P2 + Ppub-s.
	p := sm9curve.P2.Mul(h1).Add(mpk.Ppubs)

	// B7: u = e(P, S).
	u := sm9curve.Pairing(p, sig.S)

	// B8: w = u * t.
	w := u.Mul(t)
	wb := w.Marshal()

	// B9: h2 = H2(M || w, N); accept iff h2 == h.
	h2 := c.h.finishWithW(wb[:])
	zeroBytes(wb[:])
	if !h2.Equal(sig.H) {
		return VerifyFailError{Reason: "signature digest mismatch"}
	}
	return nil
}

// Sign is the non-streaming convenience form of SignContext for a
// complete in-memory message.
func Sign(message []byte, key SignKey, mpk SignMasterPubKey) (*Signature, error) {
	c := NewSignContext()
	c.Write(message)
	return c.Finish(key, mpk)
}

// Verify is the non-streaming convenience form of VerifyContext.
func Verify(message []byte, sig *Signature, mpk SignMasterPubKey, id []byte) error {
	c := NewVerifyContext()
	c.Write(message)
	return c.Finish(sig, mpk, id)
}
