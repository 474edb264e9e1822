package sm9

import (
	"github.com/dromara/sm9/internal/sm9curve"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// EncodeSignature renders sig as:
//
//	Signature ::= SEQUENCE { h OCTET STRING (SIZE(32)),
//	                         S BIT STRING (containing 65 uncompressed-point bytes) }
//
// cryptobyte.Builder performs the two-pass (measure, then write) DER
// emission the wire format requires internally; callers never see the
// two passes.
func EncodeSignature(sig *Signature) ([]byte, error) {
	hb := sig.H.Bytes()
	sb := sig.S.Marshal()

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(seq *cryptobyte.Builder) {
		seq.AddASN1OctetString(hb[:])
		seq.AddASN1BitString(sb[:])
	})
	return b.Bytes()
}

// DecodeSignature parses the DER form produced by EncodeSignature. It
// requires the OCTET STRING to be exactly 32 bytes, the BIT STRING to be
// exactly 65 whole-octet bytes, and rejects any trailing bytes after the
// top-level SEQUENCE.
func DecodeSignature(der []byte) (*Signature, error) {
	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return nil, DecodeError{Err: errMalformed}
	}
	if !input.Empty() {
		return nil, DecodeError{Err: errTrailingData}
	}

	var hStr cryptobyte.String
	if !seq.ReadASN1(&hStr, cbasn1.OCTET_STRING) {
		return nil, DecodeError{Err: errMalformed}
	}
	if len(hStr) != 32 {
		return nil, DecodeError{Err: errWrongLength}
	}

	var sBits cbasn1.BitString
	if !seq.ReadASN1BitString(&sBits) {
		return nil, DecodeError{Err: errMalformed}
	}
	if sBits.BitLength != 65*8 || len(sBits.Bytes) != 65 {
		return nil, DecodeError{Err: errWrongLength}
	}
	if !seq.Empty() {
		return nil, DecodeError{Err: errTrailingData}
	}

	h, err := sm9curve.ScalarFromBytes(hStr)
	if err != nil {
		return nil, RangeError{Field: "signature h"}
	}
	s, err := sm9curve.UnmarshalG1(sBits.Bytes)
	if err != nil {
		return nil, InvalidPointError{Err: err}
	}
	return &Signature{H: h, S: s}, nil
}
