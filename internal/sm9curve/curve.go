// Package sm9curve adapts the SM9 field, curve, and pairing primitives to
// the shape the protocol layer needs: a scalar field Fn, two elliptic-curve
// groups G1 and G2, and the bilinear pairing e : G2 x G1 -> GT. The actual
// field/curve/Miller-loop/final-exponentiation arithmetic is delegated to
// github.com/emmansun/gmsm/sm9/bn256 — this package only shapes that library's
// surface into the fixed contract the protocol code depends on, so a future
// change of primitive backend touches one package.
package sm9curve

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/emmansun/gmsm/sm9/bn256"
)

// N is the order of the G1/G2/GT subgroups (the Fn scalar field modulus).
var N = bn256.Order

// P1 is the fixed generator of G1.
var P1 = G1{inner: new(bn256.G1).ScalarBaseMult(big.NewInt(1))}

// P2 is the fixed generator of G2.
var P2 = G2{inner: new(bn256.G2).ScalarBaseMult(big.NewInt(1))}

// Scalar is an element of Fn, the scalar field of order N.
type Scalar struct {
	v *big.Int
}

// ErrZeroScalar reports a zero scalar where a nonzero one is required.
// No function in this package returns it.
var ErrZeroScalar = errors.New("sm9curve: scalar is zero")

// RandScalar draws a uniformly random scalar in [1, N-1].
func RandScalar(r io.Reader) (Scalar, error) {
	if r == nil {
		r = rand.Reader
	}
	nMinus1 := new(big.Int).Sub(N, big.NewInt(1))
	for {
		k, err := rand.Int(r, nMinus1)
		if err != nil {
			return Scalar{}, err
		}
		// k in [0, N-2]; shift into [1, N-1]
		k.Add(k, big.NewInt(1))
		if k.Sign() != 0 {
			return Scalar{v: k}, nil
		}
	}
}

// ScalarFromHash reduces a 64-byte SM3 double-digest into Fn using the
// GM/T 0044 construction: (Ha mod (N-1)) + 1.
func ScalarFromHash(ha []byte) Scalar {
	nMinus1 := new(big.Int).Sub(N, big.NewInt(1))
	h := new(big.Int).SetBytes(ha)
	h.Mod(h, nMinus1)
	h.Add(h, big.NewInt(1))
	return Scalar{v: h}
}

// Sub returns (s - t) mod N.
func (s Scalar) Sub(t Scalar) Scalar {
	d := new(big.Int).Sub(s.v, t.v)
	d.Mod(d, N)
	return Scalar{v: d}
}

// Add returns (s + t) mod N.
func (s Scalar) Add(t Scalar) Scalar {
	d := new(big.Int).Add(s.v, t.v)
	d.Mod(d, N)
	return Scalar{v: d}
}

// Mul returns (s * t) mod N, the Fn field product. Distinct from G1.Mul
// / G2.Mul / GT.Pow, which scale a group element by a scalar.
func (s Scalar) Mul(t Scalar) Scalar {
	d := new(big.Int).Mul(s.v, t.v)
	d.Mod(d, N)
	return Scalar{v: d}
}

// Inverse returns s^-1 mod N. Used by KGC-style key extraction
// (ds = [ks * (ks + H1(ID,hid))^-1]*P1 and its G2 analogue for
// encryption/exchange keys), which this package leaves to callers since
// key minting itself is out of scope here.
func (s Scalar) Inverse() Scalar {
	return Scalar{v: new(big.Int).ModInverse(s.v, N)}
}

// IsZero reports whether s is the zero element.
func (s Scalar) IsZero() bool {
	return s.v == nil || s.v.Sign() == 0
}

// Equal reports whether s and t represent the same element of Fn.
func (s Scalar) Equal(t Scalar) bool {
	if s.v == nil || t.v == nil {
		return s.v == t.v
	}
	return s.v.Cmp(t.v) == 0
}

// Bytes renders s as a big-endian 32-byte array.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	b := s.v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// ScalarFromBytes parses a big-endian 32-byte scalar, range-checked to
// [1, N-1].
func ScalarFromBytes(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return Scalar{}, errors.New("sm9curve: scalar must be 32 bytes")
	}
	v := new(big.Int).SetBytes(b)
	if v.Sign() <= 0 || v.Cmp(N) >= 0 {
		return Scalar{}, errors.New("sm9curve: scalar out of range")
	}
	return Scalar{v: v}, nil
}

// bigInt exposes the underlying *big.Int to the group operations in this
// package (G1.Mul, G2.Mul, GT.Pow).
func (s Scalar) bigInt() *big.Int { return s.v }

// Zero overwrites s's backing words in place and resets it to the zero
// scalar, destroying whatever secret value it held. Call on every exit
// path once a secret scalar (an ephemeral r, an intermediate l, and
// similar) is no longer needed.
func (s *Scalar) Zero() {
	if s.v == nil {
		return
	}
	words := s.v.Bits()
	for i := range words {
		words[i] = 0
	}
	s.v.SetInt64(0)
}

// G1 is a point on the SM9 G1 curve over Fp.
type G1 struct{ inner *bn256.G1 }

// Mul returns [s]P.
func (p G1) Mul(s Scalar) G1 {
	return G1{inner: new(bn256.G1).ScalarMult(p.inner, s.bigInt())}
}

// Add returns P + Q.
func (p G1) Add(q G1) G1 {
	return G1{inner: new(bn256.G1).Add(p.inner, q.inner)}
}

// IsOnCurve reports whether p decodes to a valid point in the G1 subgroup.
// A point produced only via Mul/Add/UnmarshalG1 on well-formed input is
// always on-curve by construction; this exists for validating peer-supplied
// points (KEM C1, KEX RA/RB) that may have been forged or corrupted in
// transit. It round-trips p through Marshal/UnmarshalG1 so the check
// enforces whatever curve-equation and subgroup validation
// bn256.G1.Unmarshal performs, rather than only a non-nil check.
func (p G1) IsOnCurve() bool {
	if p.inner == nil {
		return false
	}
	b := p.Marshal()
	_, err := UnmarshalG1(b[:])
	return err == nil
}

// Marshal renders p as the 65-byte uncompressed octet string
// 0x04 || X(32) || Y(32).
func (p G1) Marshal() [65]byte {
	var out [65]byte
	copy(out[:], p.inner.Marshal())
	return out
}

// UnmarshalG1 parses a 65-byte uncompressed G1 point, rejecting points not on
// the curve or not in the prime-order subgroup.
func UnmarshalG1(b []byte) (G1, error) {
	if len(b) != 65 || b[0] != 0x04 {
		return G1{}, errors.New("sm9curve: malformed G1 encoding")
	}
	pt := new(bn256.G1)
	if _, err := pt.Unmarshal(b); err != nil {
		return G1{}, err
	}
	return G1{inner: pt}, nil
}

// G2 is a point on the SM9 twist curve over Fp2.
type G2 struct{ inner *bn256.G2 }

// Mul returns [s]P.
func (p G2) Mul(s Scalar) G2 {
	return G2{inner: new(bn256.G2).ScalarMult(p.inner, s.bigInt())}
}

// Add returns P + Q.
func (p G2) Add(q G2) G2 {
	return G2{inner: new(bn256.G2).Add(p.inner, q.inner)}
}

// Marshal renders p as its uncompressed octet string (internal use only;
// never placed on the wire by this module's codecs).
func (p G2) Marshal() []byte {
	return p.inner.Marshal()
}

// GT is an element of the pairing target group, a subgroup of Fp12*.
type GT struct{ inner *bn256.GT }

// Pow returns e^s.
func (e GT) Pow(s Scalar) GT {
	return GT{inner: new(bn256.GT).ScalarMult(e.inner, s.bigInt())}
}

// Mul returns e * f.
func (e GT) Mul(f GT) GT {
	return GT{inner: new(bn256.GT).Add(e.inner, f.inner)}
}

// Marshal renders e as its fixed 384-byte Fp12 coefficient serialization.
func (e GT) Marshal() [384]byte {
	var out [384]byte
	copy(out[:], e.inner.Marshal())
	return out
}

// Pairing evaluates the bilinear map e(a, b) with a in G2 and b in G1. The
// argument order is fixed by the GM/T 0044 convention (spec.md Design Note
// "Primitive argument order") and must never be swapped by callers.
func Pairing(a G2, b G1) GT {
	return GT{inner: bn256.Pair(b.inner, a.inner)}
}
