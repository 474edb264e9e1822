package sm9

import (
	"testing"

	"github.com/dromara/sm9/internal/sm9curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyExchangeSystem mints a single shared ExchMasterPubKey with A and B
// keys under it, matching the real deployment shape where every
// exchanging party is issued keys by the same KGC.
type keyExchangeSystem struct {
	mpk  ExchMasterPubKey
	keyA ExchKey
	keyB ExchKey
}

func newKeyExchangeSystem(t *testing.T, idA, idB []byte) keyExchangeSystem {
	t.Helper()
	sys := newExchSystem(t)
	return keyExchangeSystem{
		mpk:  sys.mpk,
		keyA: sys.deriveKey(t, idA),
		keyB: sys.deriveKey(t, idB),
	}
}

func TestKeyExchangeFullHandshakeWithConfirmation(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newKeyExchangeSystem(t, idA, idB)
	klen := 32

	initiator, ra, err := StartExchangeInitiator(sys.mpk, idA, idB)
	require.NoError(t, err)

	responderResult, err := RespondExchange(sys.mpk, idA, idB, sys.keyB, ra, klen)
	require.NoError(t, err)

	sb := responderResult.ConfirmTag
	skA, sa, err := initiator.Finish(sys.mpk, sys.keyA, responderResult.RB, klen, &sb)
	require.NoError(t, err)

	err = responderResult.ValidateConfirm(sa)
	require.NoError(t, err)

	assert.Equal(t, responderResult.SharedKey, skA)
	assert.Len(t, skA, klen)

	initiator.Clear()
	responderResult.Clear()
}

func TestKeyExchangeWithoutConfirmation(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newKeyExchangeSystem(t, idA, idB)
	klen := 48

	initiator, ra, err := StartExchangeInitiator(sys.mpk, idA, idB)
	require.NoError(t, err)

	responderResult, err := RespondExchange(sys.mpk, idA, idB, sys.keyB, ra, klen)
	require.NoError(t, err)

	skA, _, err := initiator.Finish(sys.mpk, sys.keyA, responderResult.RB, klen, nil)
	require.NoError(t, err)

	assert.Equal(t, responderResult.SharedKey, skA)
}

func TestKeyExchangeRejectsForgedConfirmation(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newKeyExchangeSystem(t, idA, idB)
	klen := 32

	initiator, ra, err := StartExchangeInitiator(sys.mpk, idA, idB)
	require.NoError(t, err)

	responderResult, err := RespondExchange(sys.mpk, idA, idB, sys.keyB, ra, klen)
	require.NoError(t, err)

	forged := responderResult.ConfirmTag
	forged[0] ^= 0xff

	_, _, err = initiator.Finish(sys.mpk, sys.keyA, responderResult.RB, klen, &forged)
	assert.Error(t, err)
	var verr VerifyFailError
	assert.ErrorAs(t, err, &verr)
}

// TestRespondExchangeRejectsOffCurveRA exercises RespondExchange's own
// IsOnCurve guard directly, against the zero-value G1 a caller would
// hold if it skipped checking an earlier decode error. A genuinely
// tampered, well-formed (65-byte, 0x04-prefix) but off-curve RA can
// never reach this call in the first place: see
// TestExchangeRejectsTamperedRABeforeConstruction.
func TestRespondExchangeRejectsOffCurveRA(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newExchSystem(t)
	keyB := sys.deriveKey(t, idB)

	_, err := RespondExchange(sys.mpk, idA, idB, keyB, sm9curve.G1{}, 32)
	assert.Error(t, err)
	var perr InvalidPointError
	assert.ErrorAs(t, err, &perr)
}

// TestFinishRejectsOffCurveRB is TestRespondExchangeRejectsOffCurveRA's
// counterpart for step 2A's RB check.
func TestFinishRejectsOffCurveRB(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newExchSystem(t)
	keyA := sys.deriveKey(t, idA)

	initiator, _, err := StartExchangeInitiator(sys.mpk, idA, idB)
	require.NoError(t, err)

	_, _, err = initiator.Finish(sys.mpk, keyA, sm9curve.G1{}, 32, nil)
	assert.Error(t, err)
	var perr InvalidPointError
	assert.ErrorAs(t, err, &perr)
}

// TestExchangeRejectsTamperedRABeforeConstruction confirms that a
// tampered, genuinely off-curve (but still 65-byte, 0x04-prefix) RA is
// rejected at parse time — sm9curve.UnmarshalG1 is the only way to
// construct a sm9curve.G1 from wire bytes outside this module, so a
// forged RA can never reach RespondExchange as a constructed value in
// the first place.
func TestExchangeRejectsTamperedRABeforeConstruction(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newExchSystem(t)

	_, ra, err := StartExchangeInitiator(sys.mpk, idA, idB)
	require.NoError(t, err)

	b := ra.Marshal()
	b[64] ^= 0xff // tamper Y's low byte; still 65 bytes, still 0x04 prefix, off-curve

	_, err = sm9curve.UnmarshalG1(b[:])
	require.Error(t, err, "a tampered, off-curve RA must be rejected before RespondExchange could ever see it")
}

func TestKeyExchangeResponderRejectsForgedInitiatorConfirmation(t *testing.T) {
	idA, idB := []byte("Alice"), []byte("Bob")
	sys := newKeyExchangeSystem(t, idA, idB)
	klen := 32

	initiator, ra, err := StartExchangeInitiator(sys.mpk, idA, idB)
	require.NoError(t, err)

	responderResult, err := RespondExchange(sys.mpk, idA, idB, sys.keyB, ra, klen)
	require.NoError(t, err)

	_, sa, err := initiator.Finish(sys.mpk, sys.keyA, responderResult.RB, klen, nil)
	require.NoError(t, err)
	sa[0] ^= 0xff

	err = responderResult.ValidateConfirm(sa)
	assert.Error(t, err)
}
