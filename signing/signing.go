// Package signing declares the abstract public-key verifier interface
// consumed by milestone validation. Concrete signature schemes (e.g.
// Winternitz one-time signatures) are treated as external collaborators
// and are not implemented here.
package signing

// RecoverableSignature is a signature that can be used to recover or
// reconstruct the signer's public key.
type RecoverableSignature interface {
	Bytes() []byte
}

// PublicKey verifies signatures produced by the matching private key.
type PublicKey interface {
	// Verify reports whether signature is a valid signature of message
	// under this public key.
	Verify(message []byte, signature RecoverableSignature) (bool, error)

	// Bytes returns the packed representation of the public key.
	Bytes() []byte
}
