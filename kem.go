package sm9

import (
	"crypto/rand"
	"io"

	"github.com/dromara/sm9/hash/sm3"
	"github.com/dromara/sm9/internal/sm9curve"
)

// Encap runs the SM9 key encapsulation mechanism for identity id, drawing
// entropy from rand.Reader. It returns a klen-byte shared key K and the
// encapsulation C1 to send to the holder of the matching EncKey. See
// EncapWithRand to inject a deterministic entropy source for test
// vectors.
func Encap(mpk EncMasterPubKey, id []byte, klen int) (k []byte, c1 sm9curve.G1, err error) {
	return EncapWithRand(rand.Reader, mpk, id, klen)
}

// EncapWithRand is Encap with an explicit entropy source.
func EncapWithRand(entropy io.Reader, mpk EncMasterPubKey, id []byte, klen int) ([]byte, sm9curve.G1, error) {
	// A1: Q = [H1(ID, HID_ENC)]*P1 + Ppub-e.
	h1 := H1(id, HIDEnc)
	q := sm9curve.P1.Mul(h1).Add(mpk.Ppube)

	for attempt := 0; attempt < resampleBound; attempt++ {
		// A2: draw r in Fn \ {0}.
		r, err := sm9curve.RandScalar(entropy)
		if err != nil {
			return nil, sm9curve.G1{}, EntropyFailureError{Err: err}
		}

		// A3: C1 = [r]*Q.
		c1 := q.Mul(r)
		c1b := c1.Marshal()

		// A4: g = e(Ppub-e, P2). A5: w = g^r.
		g := sm9curve.Pairing(sm9curve.P2, mpk.Ppube)
		w := g.Pow(r)
		wb := w.Marshal()
		r.Zero()

		// A6: K = KDF(C1_xy || w || ID, klen); restart if K is all-zero.
		k := sm3.KDF(klen, c1b[1:], wb[:], id)
		zeroBytes(wb[:])
		if !allZero(k) {
			return k, c1, nil
		}
		zeroBytes(k)
	}
	return nil, sm9curve.G1{}, ResampleExceededError{Loop: "kem encap"}
}

// Decap reverses Encap: given the recipient's EncKey, the peer identity
// id the encapsulation was addressed to, and the received C1, it
// recovers the klen-byte shared key.
func Decap(key EncKey, id []byte, c1 sm9curve.G1, klen int) ([]byte, error) {
	if !c1.IsOnCurve() {
		return nil, InvalidPointError{}
	}

	c1b := c1.Marshal()

	// B2: w = e(C1, de).
	w := sm9curve.Pairing(key.De, c1)
	wb := w.Marshal()

	// B3: K = KDF(C1_xy || w || ID, klen).
	k := sm3.KDF(klen, c1b[1:], wb[:], id)
	zeroBytes(wb[:])
	if allZero(k) {
		return nil, KeyZeroError{}
	}
	return k, nil
}

func allZero(b []byte) bool {
	var v byte
	for _, c := range b {
		v |= c
	}
	return v == 0
}
