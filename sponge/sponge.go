// Package sponge declares the abstract sponge-hash interface consumed
// by the ingest and milestone-validation workers. Concrete sponge
// constructions (CurlP81, Kerl) are treated as external collaborators
// and are not implemented here.
package sponge

import "github.com/gossipdag/tangled/ternary"

// Sponge is the common interface of cryptographic hash functions that
// follow the sponge construction over balanced ternary.
type Sponge interface {
	// Absorb feeds input into the sponge's internal state.
	Absorb(input ternary.TritBuf) error

	// Reset restores the sponge's internal state to its initial value.
	Reset()

	// SqueezeInto squeezes the sponge's state into buf.
	SqueezeInto(buf ternary.TritBuf) error

	// Squeeze returns a freshly allocated digest of length OutLen().
	Squeeze() (ternary.TritBuf, error)

	// Digest absorbs input, squeezes a digest, resets, and returns the digest.
	Digest(input ternary.TritBuf) (ternary.TritBuf, error)

	// OutLen is the number of trits squeezed per digest.
	OutLen() int
}
