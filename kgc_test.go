package sm9

import (
	"crypto/rand"
	"testing"

	"github.com/dromara/sm9/internal/sm9curve"
	"github.com/stretchr/testify/require"
)

// Key minting (GM/T 0044's KGC routines) is explicitly out of scope for
// this package. These helpers reimplement just enough of the standard
// extraction formulas to produce self-consistent fixtures for the tests
// in this package: they are not part of the module's public API.

type signFixture struct {
	mpk SignMasterPubKey
	key SignKey
}

func newSignFixture(t *testing.T, id []byte) signFixture {
	t.Helper()
	ks, err := sm9curve.RandScalar(rand.Reader)
	require.NoError(t, err)

	mpk := SignMasterPubKey{Ppubs: sm9curve.P2.Mul(ks)}

	t1 := H1(id, HIDSign).Add(ks)
	require.False(t, t1.IsZero(), "degenerate fixture: H1(id)+ks == 0")
	ds := sm9curve.P1.Mul(ks.Mul(t1.Inverse()))

	return signFixture{mpk: mpk, key: SignKey{Ds: ds}}
}

type encFixture struct {
	mpk EncMasterPubKey
	key EncKey
}

func newEncFixture(t *testing.T, id []byte) encFixture {
	t.Helper()
	ke, err := sm9curve.RandScalar(rand.Reader)
	require.NoError(t, err)

	mpk := EncMasterPubKey{Ppube: sm9curve.P1.Mul(ke)}

	t1 := H1(id, HIDEnc).Add(ke)
	require.False(t, t1.IsZero(), "degenerate fixture: H1(id)+ke == 0")
	de := sm9curve.P2.Mul(ke.Mul(t1.Inverse()))

	return encFixture{mpk: mpk, key: EncKey{De: de}}
}

// exchSystem is a shared-master-key fixture: every exchanging party in a
// real deployment is issued a key by the same KGC under the same
// ExchMasterPubKey, so tests that exercise two parties need to derive
// both private keys from one retained master secret rather than minting
// two unrelated fixtures.
type exchSystem struct {
	mpk ExchMasterPubKey
	ke  sm9curve.Scalar
}

func newExchSystem(t *testing.T) exchSystem {
	t.Helper()
	ke, err := sm9curve.RandScalar(rand.Reader)
	require.NoError(t, err)
	return exchSystem{mpk: ExchMasterPubKey{Ppube: sm9curve.P1.Mul(ke)}, ke: ke}
}

func (s exchSystem) deriveKey(t *testing.T, id []byte) ExchKey {
	t.Helper()
	t1 := H1(id, HIDExch).Add(s.ke)
	require.False(t, t1.IsZero(), "degenerate fixture: H1(id)+ke == 0")
	return ExchKey{De: sm9curve.P2.Mul(s.ke.Mul(t1.Inverse()))}
}
