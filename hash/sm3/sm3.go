// Package sm3 implements the SM3 cryptographic hash algorithm defined in
// GB/T 32905-2016 / GM/T 0004-2012.
//
// SM3 produces a 256-bit digest. Beyond the standard hash.Hash surface,
// this package exposes Clone, which lets a caller fork a partially-absorbed
// digest into two independent continuations without re-absorbing the
// prefix — the SM9 signer/verifier need exactly this to branch the H2
// counter-expansion (GM/T 0044 Hv construction) after absorbing a message
// once.
package sm3

import (
	"encoding/binary"
	"hash"
)

const (
	// Size is the size of an SM3 checksum in bytes.
	Size = 32
	// BlockSize is the block size of SM3 in bytes.
	BlockSize = 64
)

var (
	initialHash = [8]uint32{
		0x7380166f, 0x4914b2b9, 0x172442d7, 0xda8a0600,
		0xa96f30bc, 0x163138aa, 0xe38dee4d, 0xb0fb0e4e,
	}

	tj0 = uint32(0x79cc4519)
	tj1 = uint32(0x7a879d8a)
)

// digest represents the partial evaluation of an SM3 checksum.
type digest struct {
	h      [8]uint32
	length uint64
	data   []byte
}

// State is a hash.Hash that can be snapshotted mid-absorption. New returns
// this rather than a bare hash.Hash so callers that need to fork the
// digest (H1/H2's counter-expansion) don't need a type assertion.
type State interface {
	hash.Hash
	// Clone returns an independent copy of the digest's current state.
	Clone() State
	// Zero destroys the digest's buffered state in place. Call once a
	// clone created for branching (e.g. H2's counter expansion) or a
	// KDF/HMAC working state is no longer needed.
	Zero()
}

// New returns a new State computing the SM3 checksum.
func New() State {
	d := &digest{}
	d.Reset()
	return d
}

// Reset resets the digest to its initial state.
func (d *digest) Reset() {
	copy(d.h[:], initialHash[:])
	d.length = 0
	d.data = d.data[:0]
}

// Size returns the number of bytes Sum will return.
func (d *digest) Size() int { return Size }

// BlockSize returns the hash's underlying block size.
func (d *digest) BlockSize() int { return BlockSize }

// Clone returns an independent copy of d's current state. Writes to either
// the original or the clone afterward do not affect the other.
func (d *digest) Clone() State {
	c := &digest{h: d.h, length: d.length}
	c.data = append([]byte(nil), d.data...)
	return c
}

// Zero overwrites d's chaining state and buffered input in place,
// destroying whatever it absorbed.
func (d *digest) Zero() {
	for i := range d.h {
		d.h[i] = 0
	}
	for i := range d.data {
		d.data[i] = 0
	}
	d.data = d.data[:0]
	d.length = 0
}

// Write adds more data to the running hash.
func (d *digest) Write(p []byte) (int, error) {
	toWrite := len(p)
	d.length += uint64(len(p) * 8)
	data := append(d.data, p...)
	d.absorb(data)
	d.data = data[len(data)/BlockSize*BlockSize:]
	return toWrite, nil
}

// Sum appends the current hash to b and returns the resulting slice.
func (d *digest) Sum(in []byte) []byte {
	clone := &digest{h: d.h, length: d.length, data: append([]byte(nil), d.data...)}
	final := clone.finalize(clone.pad())

	needed := Size
	if cap(in)-len(in) < needed {
		newIn := make([]byte, len(in), len(in)+needed)
		copy(newIn, in)
		in = newIn
	}
	out := in[len(in) : len(in)+needed]
	for i := 0; i < 8; i++ {
		binary.BigEndian.PutUint32(out[i*4:], final[i])
	}
	return out
}

// pad performs message padding according to the SM3 standard.
func (d *digest) pad() []byte {
	estimatedSize := len(d.data) + 1 + 8
	if len(d.data)%BlockSize >= 56 {
		estimatedSize += BlockSize - (len(d.data) % BlockSize)
	}
	data := make([]byte, 0, estimatedSize)
	data = append(data, d.data...)
	data = append(data, 0x80)
	for len(data)%BlockSize != 56 {
		data = append(data, 0x00)
	}
	lengthBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(lengthBytes, d.length)
	data = append(data, lengthBytes...)
	return data
}

// absorb processes whole message blocks and folds them into d.h.
func (d *digest) absorb(msg []byte) {
	for len(msg) >= BlockSize {
		d.h = compress(d.h, msg[:BlockSize])
		msg = msg[BlockSize:]
	}
}

// finalize processes the padded tail and returns the digest without
// mutating d.
func (d *digest) finalize(padded []byte) [8]uint32 {
	h := d.h
	for len(padded) >= BlockSize {
		h = compress(h, padded[:BlockSize])
		padded = padded[BlockSize:]
	}
	return h
}

// compress runs one SM3 compression on a single 64-byte block.
func compress(h [8]uint32, block []byte) [8]uint32 {
	var w [68]uint32
	var w1 [64]uint32

	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[4*i : 4*(i+1)])
	}
	for i := 16; i < 68; i++ {
		w[i] = p1(w[i-16]^w[i-9]^leftRotate(w[i-3], 15)) ^ leftRotate(w[i-13], 7) ^ w[i-6]
	}
	for i := 0; i < 64; i++ {
		w1[i] = w[i] ^ w[i+4]
	}

	a, b, c, dd, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	A, B, C, D, E, F, G, H := a, b, c, dd, e, f, g, hh

	for i := 0; i < 16; i++ {
		ss1 := leftRotate(leftRotate(A, 12)+E+leftRotate(tj0, uint32(i)), 7)
		ss2 := ss1 ^ leftRotate(A, 12)
		tt1 := ff0(A, B, C) + D + ss2 + w1[i]
		tt2 := gg0(E, F, G) + H + ss1 + w[i]
		D = C
		C = leftRotate(B, 9)
		B = A
		A = tt1
		H = G
		G = leftRotate(F, 19)
		F = E
		E = p0(tt2)
	}
	for i := 16; i < 64; i++ {
		ss1 := leftRotate(leftRotate(A, 12)+E+leftRotate(tj1, uint32(i)), 7)
		ss2 := ss1 ^ leftRotate(A, 12)
		tt1 := ff1(A, B, C) + D + ss2 + w1[i]
		tt2 := gg1(E, F, G) + H + ss1 + w[i]
		D = C
		C = leftRotate(B, 9)
		B = A
		A = tt1
		H = G
		G = leftRotate(F, 19)
		F = E
		E = p0(tt2)
	}

	return [8]uint32{
		a ^ A, b ^ B, c ^ C, dd ^ D,
		e ^ E, f ^ F, g ^ G, hh ^ H,
	}
}

func leftRotate(x uint32, i uint32) uint32 {
	return x<<(i%32) | x>>(32-i%32)
}

func ff0(x, y, z uint32) uint32 { return x ^ y ^ z }
func ff1(x, y, z uint32) uint32 { return (x & y) | (x & z) | (y & z) }
func gg0(x, y, z uint32) uint32 { return x ^ y ^ z }
func gg1(x, y, z uint32) uint32 { return (x & y) | (^x & z) }

func p0(x uint32) uint32 { return x ^ leftRotate(x, 9) ^ leftRotate(x, 17) }
func p1(x uint32) uint32 { return x ^ leftRotate(x, 15) ^ leftRotate(x, 23) }
