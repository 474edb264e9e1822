// Package sm9 implements the SM9 identity-based cryptography protocol
// layer defined by GM/T 0044: digital signature, key encapsulation,
// public-key encryption, and the four-step authenticated key exchange.
//
// A user's public key is their identity string combined with a
// system-wide master public key; private keys are issued out-of-band by
// a Key Generation Center and are accepted here as opaque values (see
// SignKey, EncKey, ExchKey). Field, curve, and pairing arithmetic are
// delegated to internal/sm9curve; the SM3 hash and its KDF/HMAC
// derivations live in hash/sm3.
package sm9

// hid values are one-byte domain separators distinguishing the identity
// type a key was derived for, so the same ID string yields unrelated
// keys across signing, encryption, and exchange.
const (
	HIDSign byte = 0x01
	HIDExch byte = 0x02
	HIDEnc  byte = 0x03
)

// hash2Prefix prefixes every absorb feeding the H2 derivation (signing,
// verifying) to domain-separate it from H1.
const hash2Prefix byte = 0x02

// hash1Prefix prefixes every absorb feeding the H1 derivation.
const hash1Prefix byte = 0x01

// MaxPlaintextSize bounds Encrypt's input so the XOR-stream mask derived
// from a single KEM call never needs to exceed practical KDF output
// sizes.
const MaxPlaintextSize = 1 << 20

// resampleBound caps the rejection-resample loops in Sign, KEM Encap, and
// key-exchange step 1B. Each iteration fails with probability at most
// 2^-256, so exceeding this bound indicates a broken primitive layer, not
// bad luck.
const resampleBound = 32
