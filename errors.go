package sm9

import "fmt"

// DecodeError reports malformed DER, a wrong wire-format length, an
// unexpected EnType, or trailing bytes after a top-level SEQUENCE.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("sm9: failed to decode wire format: %v", e.Err)
}

func (e DecodeError) Unwrap() error { return e.Err }

// InvalidPointError reports a decoded or peer-supplied point that is not
// on the curve or not in the expected subgroup.
type InvalidPointError struct {
	Err error
}

func (e InvalidPointError) Error() string {
	if e.Err == nil {
		return "sm9: point is not on the curve"
	}
	return fmt.Sprintf("sm9: invalid point: %v", e.Err)
}

func (e InvalidPointError) Unwrap() error { return e.Err }

// RangeError reports a scalar outside [1, N-1].
type RangeError struct {
	Field string
}

func (e RangeError) Error() string {
	return fmt.Sprintf("sm9: %s out of range [1, N-1]", e.Field)
}

// MacMismatchError reports that HMAC-SM3 verification failed during
// decryption. Distinct from DecodeError: the wire format was well-formed,
// the content was not authentic.
type MacMismatchError struct{}

func (e MacMismatchError) Error() string {
	return "sm9: ciphertext authentication tag mismatch"
}

// VerifyFailError reports a cryptographic negative: a signature or a
// key-exchange confirmation tag did not verify. Distinct from DecodeError
// so callers can render "signature invalid" rather than "signature
// malformed".
type VerifyFailError struct {
	Reason string
}

func (e VerifyFailError) Error() string {
	return fmt.Sprintf("sm9: verification failed: %s", e.Reason)
}

// KeyZeroError reports that a derived K or SK was all-zero after KDF. In
// Encap and key-exchange step 1B this is a mandatory restart signal
// absorbed internally; it only surfaces to the caller from Decap and from
// the initiator's step-2A finalization, where no further resampling is
// possible.
type KeyZeroError struct{}

func (e KeyZeroError) Error() string {
	return "sm9: derived key is all-zero"
}

// EntropyFailureError reports that the secure random source was
// unavailable. Fatal; never retried internally.
type EntropyFailureError struct {
	Err error
}

func (e EntropyFailureError) Error() string {
	return fmt.Sprintf("sm9: secure random source failed: %v", e.Err)
}

func (e EntropyFailureError) Unwrap() error { return e.Err }

// SizeExceededError reports plaintext longer than MaxPlaintextSize.
type SizeExceededError struct {
	Size, Max int
}

func (e SizeExceededError) Error() string {
	return fmt.Sprintf("sm9: plaintext size %d exceeds maximum %d", e.Size, e.Max)
}

// ResampleExceededError reports that a rejection-resample loop (sign,
// KEM encap, key-exchange step 1B) failed resampleBound consecutive
// times. This indicates a broken primitive layer, not bad luck: each
// iteration's natural failure probability is at most 2^-256.
type ResampleExceededError struct {
	Loop string
}

func (e ResampleExceededError) Error() string {
	return fmt.Sprintf("sm9: %s did not converge after repeated resampling", e.Loop)
}
