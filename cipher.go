package sm9

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"github.com/dromara/sm9/hash/sm3"
	"github.com/dromara/sm9/internal/sm9curve"
)

// Ciphertext is an SM9 XOR-stream envelope: {EnType, C1, C3, C2}. EnType
// is always 0 (XOR-stream) — no other cipher mode is specified.
type Ciphertext struct {
	EnType int
	C1     sm9curve.G1
	C3     [32]byte
	C2     []byte
}

// Encrypt encrypts plaintext for identity id under the encryption master
// public key, using entropy from rand.Reader. See EncryptWithRand to
// inject a deterministic entropy source.
func Encrypt(mpk EncMasterPubKey, id []byte, plaintext []byte) (*Ciphertext, error) {
	return EncryptWithRand(rand.Reader, mpk, id, plaintext)
}

// EncryptWithRand is Encrypt with an explicit entropy source.
func EncryptWithRand(entropy io.Reader, mpk EncMasterPubKey, id []byte, plaintext []byte) (*Ciphertext, error) {
	mlen := len(plaintext)
	if mlen > MaxPlaintextSize {
		return nil, SizeExceededError{Size: mlen, Max: MaxPlaintextSize}
	}

	k, c1, err := EncapWithRand(entropy, mpk, id, mlen+32)
	if err != nil {
		return nil, err
	}
	k1, k2 := k[:mlen], k[mlen:]

	c2 := make([]byte, mlen)
	for i := range c2 {
		c2[i] = plaintext[i] ^ k1[i]
	}
	c3 := sm3.HMAC(k2, c2)
	zeroBytes(k)

	return &Ciphertext{EnType: 0, C1: c1, C3: c3, C2: c2}, nil
}

// Decrypt reverses Encrypt. A nil error means the plaintext is returned
// and authentic; MacMismatchError means the ciphertext was tampered with
// or addressed to a different key/identity.
func Decrypt(key EncKey, id []byte, ct *Ciphertext) ([]byte, error) {
	if ct.EnType != 0 {
		return nil, DecodeError{Err: errWrongEnType}
	}
	c2len := len(ct.C2)

	k, err := Decap(key, id, ct.C1, c2len+32)
	if err != nil {
		return nil, err
	}
	k1, k2 := k[:c2len], k[c2len:]

	mac := sm3.HMAC(k2, ct.C2)
	if subtle.ConstantTimeCompare(mac[:], ct.C3[:]) != 1 {
		zeroBytes(k)
		return nil, MacMismatchError{}
	}

	m := make([]byte, c2len)
	for i := range m {
		m[i] = ct.C2[i] ^ k1[i]
	}
	zeroBytes(k)
	return m, nil
}
