package sipmap

import (
	"encoding/binary"
	"hash"

	"github.com/dchest/siphash"
	"github.com/pkg/errors"
)

// RandomState is the default BuildHasher. It holds a pair of 64-bit SipHash
// keys drawn once from a SeedSource and hands out SipHash-2-4 hashers keyed
// with them. An adversary who does not know the keys cannot precompute keys
// that collide, which is what keeps a Map's probe sequences short no matter
// who picks the keys.
//
// The variant is SipHash-2-4, not the faster SipHash-1-3 some hash map
// implementations use, so digests will not match a 1-3 implementation
// given the same keys.
//
// The zero RandomState is unseeded and its BuildHasher panics.
type RandomState struct {
	k0, k1 uint64
	seeded bool
}

// NewRandomState draws fresh keys from CryptoSeedSource.
func NewRandomState() (RandomState, error) {
	return RandomStateFrom(CryptoSeedSource)
}

// RandomStateFrom draws fresh keys from src: k0 is the high 64 bits of the
// 128-bit value and k1 the low 64 bits. Errors from src are returned
// wrapped; a fixed key is never substituted.
func RandomStateFrom(src SeedSource) (RandomState, error) {
	if src == nil {
		return RandomState{}, ErrNoSeedSource
	}
	hi, lo, err := src.Seed128()
	if err != nil {
		return RandomState{}, errors.Wrap(err, "sipmap: drawing hash keys")
	}
	return RandomState{k0: hi, k1: lo, seeded: true}, nil
}

// RandomStateWithKeys returns a RandomState with explicit keys, for
// reproducible tests and fixtures. Maps built from equal keys hash
// identically.
func RandomStateWithKeys(k0, k1 uint64) RandomState {
	return RandomState{k0: k0, k1: k1, seeded: true}
}

// Keys returns the SipHash keys.
func (s RandomState) Keys() (k0, k1 uint64) {
	return s.k0, s.k1
}

// BuildHasher returns a new SipHash-2-4 hasher keyed with (k0, k1).
func (s RandomState) BuildHasher() hash.Hash64 {
	if !s.seeded {
		panic(ErrUnseeded)
	}
	var key [16]byte
	binary.LittleEndian.PutUint64(key[:8], s.k0)
	binary.LittleEndian.PutUint64(key[8:], s.k1)
	return siphash.New(key[:])
}

// String does not print the keys.
func (s RandomState) String() string {
	if !s.seeded {
		return "RandomState{unseeded}"
	}
	return "RandomState{...}"
}

// GoString keeps %#v from printing the keys too.
func (s RandomState) GoString() string {
	return "sipmap." + s.String()
}
