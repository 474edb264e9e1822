package sm9

// zeroBytes overwrites b with zeros in place. Used across this package to
// clear secret intermediate buffers — KDF/pairing serializations, derived
// keys — on every exit path, mirroring the explicit-clear discipline the
// key-exchange types already apply via their Clear methods.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
