package sm9

import (
	"github.com/dromara/sm9/internal/sm9curve"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// EncodeCiphertext renders ct as:
//
//	SM9Cipher ::= SEQUENCE {
//	    EnType     INTEGER,       -- 0 for XOR
//	    C1         BIT STRING,    -- uncompressed G1 point, 65 bytes
//	    C3         OCTET STRING,  -- 32 bytes HMAC-SM3 tag
//	    CipherText OCTET STRING   -- C2
//	}
func EncodeCiphertext(ct *Ciphertext) ([]byte, error) {
	c1b := ct.C1.Marshal()

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		seq.AddASN1Int64(int64(ct.EnType))
		seq.AddASN1BitString(c1b[:])
		seq.AddASN1OctetString(ct.C3[:])
		seq.AddASN1OctetString(ct.C2)
	})
	return b.Bytes()
}

// DecodeCiphertext parses the DER form produced by EncodeCiphertext. It
// rejects any EnType other than 0, requires C1 to be exactly 65 bytes and
// C3 to be exactly 32 bytes, and rejects trailing bytes after the
// top-level SEQUENCE.
func DecodeCiphertext(der []byte) (*Ciphertext, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return nil, DecodeError{Err: errMalformed}
	}
	if !input.Empty() {
		return nil, DecodeError{Err: errTrailingData}
	}

	var enType int64
	if !seq.ReadASN1Int64(&enType) {
		return nil, DecodeError{Err: errMalformed}
	}
	if enType != 0 {
		return nil, DecodeError{Err: errWrongEnType}
	}

	var c1Bits cbasn1.BitString
	if !seq.ReadASN1BitString(&c1Bits) {
		return nil, DecodeError{Err: errMalformed}
	}
	if c1Bits.BitLength != 65*8 || len(c1Bits.Bytes) != 65 {
		return nil, DecodeError{Err: errWrongLength}
	}

	var c3Str cryptobyte.String
	if !seq.ReadASN1(&c3Str, cbasn1.OCTET_STRING) {
		return nil, DecodeError{Err: errMalformed}
	}
	if len(c3Str) != 32 {
		return nil, DecodeError{Err: errWrongLength}
	}

	var c2Str cryptobyte.String
	if !seq.ReadASN1(&c2Str, cbasn1.OCTET_STRING) {
		return nil, DecodeError{Err: errMalformed}
	}
	if !seq.Empty() {
		return nil, DecodeError{Err: errTrailingData}
	}

	c1, err := sm9curve.UnmarshalG1(c1Bits.Bytes)
	if err != nil {
		return nil, InvalidPointError{Err: err}
	}

	ct := &Ciphertext{EnType: 0, C1: c1, C2: append([]byte(nil), c2Str...)}
	copy(ct.C3[:], c3Str)
	return ct, nil
}
