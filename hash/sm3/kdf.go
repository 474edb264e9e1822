package sm3

import "encoding/binary"

// zero overwrites b with zeros in place.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// KDF derives length bytes from parts using SM3 counter-mode expansion:
// SM3(Z || 0x00000001) || SM3(Z || 0x00000002) || ..., truncated to length,
// where Z is the concatenation of parts. This is the key-derivation
// function referenced throughout GM/T 0044 (KEM, encryption envelope, and
// key exchange all derive their output keys this way).
func KDF(length int, parts ...[]byte) []byte {
	out := make([]byte, length)
	var counter [4]byte
	ct := uint32(1)
	h := New()
	produced := 0
	for produced < length {
		h.Reset()
		for _, p := range parts {
			h.Write(p)
		}
		binary.BigEndian.PutUint32(counter[:], ct)
		h.Write(counter[:])
		sum := h.Sum(nil)
		n := copy(out[produced:], sum)
		produced += n
		ct++
		zero(sum)
	}
	h.Zero()
	return out
}

// HMAC computes the 32-byte HMAC-SM3 tag of data under key, following the
// standard HMAC construction (RFC 2104) instantiated with SM3 as the
// underlying hash and SM3's 64-byte block size.
func HMAC(key, data []byte) [32]byte {
	blockSize := BlockSize

	// k is always a fresh buffer, never an alias of the caller's key: it
	// gets zeroed below, and the caller's slice must survive that.
	k := make([]byte, blockSize)
	if len(key) > blockSize {
		h := New()
		h.Write(key)
		sum := h.Sum(nil)
		h.Zero()
		copy(k, sum)
		zero(sum)
	} else {
		copy(k, key)
	}

	ipad := make([]byte, blockSize)
	opad := make([]byte, blockSize)
	for i := 0; i < blockSize; i++ {
		ipad[i] = k[i] ^ 0x36
		opad[i] = k[i] ^ 0x5c
	}
	zero(k)

	inner := New()
	inner.Write(ipad)
	inner.Write(data)
	innerSum := inner.Sum(nil)
	inner.Zero()
	zero(ipad)

	outer := New()
	outer.Write(opad)
	outer.Write(innerSum)
	zero(opad)
	zero(innerSum)

	var tag [32]byte
	copy(tag[:], outer.Sum(nil))
	outer.Zero()
	return tag
}
