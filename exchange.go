package sm9

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/dromara/sm9/hash/sm3"
	"github.com/dromara/sm9/internal/sm9curve"
)

// confirmPrefixResponder and confirmPrefixInitiator domain-separate the
// optional key-confirmation tags SB and SA (step 1B and step 2A) from
// each other and from every other hash use in this package.
const (
	confirmPrefixResponder byte = 0x82
	confirmPrefixInitiator byte = 0x83
)

// InitiatorState is the secret A retains between step 1A and step 2A: the
// ephemeral scalar rA and the identities involved. Finish zeroes rA
// itself once it is no longer needed; call Clear instead if the exchange
// is abandoned before Finish is called.
type InitiatorState struct {
	rA       sm9curve.Scalar
	idA, idB []byte
	ra       sm9curve.G1
}

// Clear zeroes the retained ephemeral scalar. Use it to abandon an
// exchange that will never reach Finish; Finish already clears rA on its
// own exit paths.
func (s *InitiatorState) Clear() {
	s.rA.Zero()
}

// StartExchangeInitiator runs step 1A of the GM/T 0044 key-exchange
// protocol: A draws an ephemeral scalar rA, computes RA = [rA]*QB where
// QB embeds B's identity, and returns RA to send to B. Retain the
// returned *InitiatorState to complete the exchange in Finish.
func StartExchangeInitiator(mpk ExchMasterPubKey, idA, idB []byte) (*InitiatorState, sm9curve.G1, error) {
	return StartExchangeInitiatorWithRand(rand.Reader, mpk, idA, idB)
}

// StartExchangeInitiatorWithRand is StartExchangeInitiator with an
// explicit entropy source.
func StartExchangeInitiatorWithRand(entropy io.Reader, mpk ExchMasterPubKey, idA, idB []byte) (*InitiatorState, sm9curve.G1, error) {
	// A1: QB = [H1(IDB, HID_EXCH)]*P1 + Ppub-e.
	h1 := H1(idB, HIDExch)
	qb := sm9curve.P1.Mul(h1).Add(mpk.Ppube)

	// A2: draw rA in Fn \ {0}.
	rA, err := sm9curve.RandScalar(entropy)
	if err != nil {
		return nil, sm9curve.G1{}, EntropyFailureError{Err: err}
	}

	// A3: RA = [rA]*QB.
	ra := qb.Mul(rA)

	return &InitiatorState{rA: rA, idA: idA, idB: idB, ra: ra}, ra, nil
}

// ResponderResult is everything B retains after step 1B: the response
// RB to send to A, the derived shared key, the optional confirmation tag
// SB to send alongside RB, and enough of the pairing material to later
// validate A's step-2A confirmation tag SA in ValidateConfirm.
type ResponderResult struct {
	RB         sm9curve.G1
	SharedKey  []byte
	ConfirmTag [32]byte

	g1, g2, g3 [384]byte
	raxy, rbxy [64]byte
	idA, idB   []byte
}

// Clear zeroes the retained pairing material once the exchange
// concludes.
func (r *ResponderResult) Clear() {
	for i := range r.g1 {
		r.g1[i] = 0
		r.g2[i] = 0
		r.g3[i] = 0
	}
	for i := range r.SharedKey {
		r.SharedKey[i] = 0
	}
}

// RespondExchange runs step 1B: B verifies RA is on-curve, draws an
// ephemeral rB, computes RB, and derives the shared key from the
// bilinearity-matched triad (G1, G2, G3). Returns InvalidPointError if RA
// is not a valid G1 point.
func RespondExchange(mpk ExchMasterPubKey, idA, idB []byte, key ExchKey, ra sm9curve.G1, klen int) (*ResponderResult, error) {
	return RespondExchangeWithRand(rand.Reader, mpk, idA, idB, key, ra, klen)
}

// RespondExchangeWithRand is RespondExchange with an explicit entropy
// source.
func RespondExchangeWithRand(entropy io.Reader, mpk ExchMasterPubKey, idA, idB []byte, key ExchKey, ra sm9curve.G1, klen int) (*ResponderResult, error) {
	if !ra.IsOnCurve() {
		return nil, InvalidPointError{}
	}

	// B1: QA = [H1(IDA, HID_EXCH)]*P1 + Ppub-e.
	h1 := H1(idA, HIDExch)
	qa := sm9curve.P1.Mul(h1).Add(mpk.Ppube)

	for attempt := 0; attempt < resampleBound; attempt++ {
		// B2: draw rB in Fn \ {0}.
		rB, err := sm9curve.RandScalar(entropy)
		if err != nil {
			return nil, EntropyFailureError{Err: err}
		}

		// B3: RB = [rB]*QA.
		rb := qa.Mul(rB)

		// B4: G1 = e(RA, deB), G2 = e(Ppub-e, P2)^rB, G3 = G1^rB.
		g1 := sm9curve.Pairing(key.De, ra)
		g2 := sm9curve.Pairing(sm9curve.P2, mpk.Ppube).Pow(rB)
		g3 := g1.Pow(rB)
		rB.Zero()

		raB := ra.Marshal()
		rbB := rb.Marshal()
		g1B := g1.Marshal()
		g2B := g2.Marshal()
		g3B := g3.Marshal()

		// B5: sk = KDF(IDA || IDB || RA_xy || RB_xy || g1 || g2 || g3, klen).
		sk := sm3.KDF(klen, idA, idB, raB[1:], rbB[1:], g1B[:], g2B[:], g3B[:])
		if allZero(sk) {
			zeroBytes(sk)
			zeroBytes(g1B[:])
			zeroBytes(g2B[:])
			zeroBytes(g3B[:])
			continue
		}

		result := &ResponderResult{RB: rb, SharedKey: sk, g1: g1B, g2: g2B, g3: g3B, idA: idA, idB: idB}
		copy(result.raxy[:], raB[1:])
		copy(result.rbxy[:], rbB[1:])

		// B6: optional SB = SM3(0x82 || g1 || SM3(g2||g3||IDA||IDB||RA||RB)).
		result.ConfirmTag = confirmTag(confirmPrefixResponder, g1B, g2B, g3B, idA, idB, result.raxy, result.rbxy)
		zeroBytes(g1B[:])
		zeroBytes(g2B[:])
		zeroBytes(g3B[:])

		return result, nil
	}
	return nil, ResampleExceededError{Loop: "key exchange step 1B"}
}

// ValidateConfirm checks A's step-2A confirmation tag SA against the
// pairing material B computed in RespondExchange (step 2B of the
// protocol).
func (r *ResponderResult) ValidateConfirm(sa [32]byte) error {
	want := confirmTag(confirmPrefixInitiator, r.g1, r.g2, r.g3, r.idA, r.idB, r.raxy, r.rbxy)
	if subtle.ConstantTimeCompare(want[:], sa[:]) != 1 {
		return VerifyFailError{Reason: "key exchange confirmation SA mismatch"}
	}
	return nil
}

// Finish runs step 2A: A verifies RB is on-curve, computes the
// bilinearity-matched triad from A's side, derives the shared key, and
// optionally checks B's confirmation tag SB. It returns the shared key
// and A's own confirmation tag SA to send to B. Unlike step 1B, A has no
// freedom left to resample here (rA was already fixed in step 1A); a
// zero derived key is a terminal KeyZeroError, matching GM/T 0044's
// "restart-ineligible at this stage".
func (s *InitiatorState) Finish(mpk ExchMasterPubKey, key ExchKey, rb sm9curve.G1, klen int, peerConfirm *[32]byte) ([]byte, [32]byte, error) {
	if !rb.IsOnCurve() {
		s.rA.Zero()
		return nil, [32]byte{}, InvalidPointError{}
	}

	// A5: G1 = e(Ppub-e, P2)^rA, G2 = e(RB, deA), G3 = G2^rA.
	g1 := sm9curve.Pairing(sm9curve.P2, mpk.Ppube).Pow(s.rA)
	g2 := sm9curve.Pairing(key.De, rb)
	g3 := g2.Pow(s.rA)
	s.rA.Zero()

	raB := s.ra.Marshal()
	rbB := rb.Marshal()
	g1B := g1.Marshal()
	g2B := g2.Marshal()
	g3B := g3.Marshal()

	var raxy, rbxy [64]byte
	copy(raxy[:], raB[1:])
	copy(rbxy[:], rbB[1:])

	if peerConfirm != nil {
		want := confirmTag(confirmPrefixResponder, g1B, g2B, g3B, s.idA, s.idB, raxy, rbxy)
		if subtle.ConstantTimeCompare(want[:], peerConfirm[:]) != 1 {
			zeroBytes(g1B[:])
			zeroBytes(g2B[:])
			zeroBytes(g3B[:])
			return nil, [32]byte{}, VerifyFailError{Reason: "key exchange confirmation SB mismatch"}
		}
	}

	// A7: sk = KDF(IDA || IDB || RA_xy || RB_xy || g1 || g2 || g3, klen).
	sk := sm3.KDF(klen, s.idA, s.idB, raxy[:], rbxy[:], g1B[:], g2B[:], g3B[:])
	if allZero(sk) {
		zeroBytes(sk)
		zeroBytes(g1B[:])
		zeroBytes(g2B[:])
		zeroBytes(g3B[:])
		return nil, [32]byte{}, KeyZeroError{}
	}

	// A8: optional SA = SM3(0x83 || g1 || SM3(g2||g3||IDA||IDB||RA||RB)).
	sa := confirmTag(confirmPrefixInitiator, g1B, g2B, g3B, s.idA, s.idB, raxy, rbxy)
	zeroBytes(g1B[:])
	zeroBytes(g2B[:])
	zeroBytes(g3B[:])

	return sk, sa, nil
}

// confirmTag computes SM3(prefix || g1 || SM3(g2 || g3 || idA || idB || raxy || rbxy)),
// the shape shared by both the responder's SB and the initiator's SA.
func confirmTag(prefix byte, g1, g2, g3 [384]byte, idA, idB []byte, raxy, rbxy [64]byte) [32]byte {
	inner := sm3.New()
	inner.Write(g2[:])
	inner.Write(g3[:])
	inner.Write(idA)
	inner.Write(idB)
	inner.Write(raxy[:])
	inner.Write(rbxy[:])
	innerSum := inner.Sum(nil)

	outer := sm3.New()
	outer.Write([]byte{prefix})
	outer.Write(g1[:])
	outer.Write(innerSum)

	var tag [32]byte
	copy(tag[:], outer.Sum(nil))
	return tag
}
