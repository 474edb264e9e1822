package sm9

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	id := []byte("Alice")
	fx := newSignFixture(t, id)
	msg := []byte("Chinese IBS standard")

	sig, err := Sign(msg, fx.key, fx.mpk)
	require.NoError(t, err)

	err = Verify(msg, sig, fx.mpk, id)
	assert.NoError(t, err)
}

func TestSignVerifyStreaming(t *testing.T) {
	id := []byte("Bob")
	fx := newSignFixture(t, id)
	msg := []byte("streamed in three parts, for good measure")

	signCtx := NewSignContext()
	signCtx.Write(msg[:10])
	signCtx.Write(msg[10:20])
	signCtx.Write(msg[20:])
	sig, err := signCtx.Finish(fx.key, fx.mpk)
	require.NoError(t, err)

	verifyCtx := NewVerifyContext()
	verifyCtx.Write(msg[:5])
	verifyCtx.Write(msg[5:])
	err = verifyCtx.Finish(sig, fx.mpk, id)
	assert.NoError(t, err)
}

func TestVerifyRejectsWrongIdentity(t *testing.T) {
	fx := newSignFixture(t, []byte("Alice"))
	msg := []byte("some message")

	sig, err := Sign(msg, fx.key, fx.mpk)
	require.NoError(t, err)

	err = Verify(msg, sig, fx.mpk, []byte("Eve"))
	assert.Error(t, err)
	var verr VerifyFailError
	assert.ErrorAs(t, err, &verr)
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	id := []byte("Alice")
	fx := newSignFixture(t, id)
	msg := []byte("some message")

	sig, err := Sign(msg, fx.key, fx.mpk)
	require.NoError(t, err)

	err = Verify([]byte("some tampered message"), sig, fx.mpk, id)
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	id := []byte("Alice")
	fx := newSignFixture(t, id)
	msg := []byte("some message")

	sig, err := Sign(msg, fx.key, fx.mpk)
	require.NoError(t, err)

	tampered := *sig
	other := newSignFixture(t, []byte("someone-else"))
	tampered.S = other.key.Ds

	err = Verify(msg, &tampered, fx.mpk, id)
	assert.Error(t, err)
}

func TestSignIndependentOfRepeatedCall(t *testing.T) {
	id := []byte("Alice")
	fx := newSignFixture(t, id)
	msg := []byte("repeatable message")

	ctx1 := NewSignContext()
	ctx1.Write(msg)
	sig1, err := ctx1.Finish(fx.key, fx.mpk)
	require.NoError(t, err)

	ctx2 := NewSignContext()
	ctx2.Write(msg)
	sig2, err := ctx2.Finish(fx.key, fx.mpk)
	require.NoError(t, err)

	// Two independent signs over the same message draw independent
	// ephemeral scalars, so the signatures differ even though both
	// verify.
	assert.False(t, sig1.H.Equal(sig2.H))

	assert.NoError(t, Verify(msg, sig1, fx.mpk, id))
	assert.NoError(t, Verify(msg, sig2, fx.mpk, id))
}
