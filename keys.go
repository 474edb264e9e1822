package sm9

import "github.com/dromara/sm9/internal/sm9curve"

// SignMasterPubKey is the system-wide signing master public key Ppub-s, a
// point on the G2 twist curve. It is issued by the Key Generation Center
// and is public.
type SignMasterPubKey struct {
	Ppubs sm9curve.G2
}

// SignKey is a user's SM9 signing private key ds, a G1 point derived by
// the KGC from the signing master secret and the user's identity. Key
// derivation itself is out of scope for this package; a SignKey arrives
// here already minted.
type SignKey struct {
	Ds sm9curve.G1
}

// EncMasterPubKey is the system-wide encryption master public key
// Ppub-e, a G1 point.
type EncMasterPubKey struct {
	Ppube sm9curve.G1
}

// EncKey is a user's SM9 encryption/KEM private key de, a G2 point.
type EncKey struct {
	De sm9curve.G2
}

// ExchMasterPubKey is the system-wide key-exchange master public key. It
// shares Ppube's shape with EncMasterPubKey but is derived under the
// distinct HIDExch domain separator.
type ExchMasterPubKey struct {
	Ppube sm9curve.G1
}

// ExchKey is a user's SM9 key-exchange private key, shaped like EncKey
// but derived under HIDExch.
type ExchKey struct {
	De sm9curve.G2
}
