package sipmap

import (
	"hash"

	"github.com/cespare/xxhash/v2"
)

// BuildHasher manufactures hashers. A Map calls BuildHasher once per key
// digest and drops the hasher afterwards, so implementations should be
// cheap and must not share state between the hashers they return.
type BuildHasher interface {
	BuildHasher() hash.Hash64
}

// XXHashState builds xxHash64 hashers with a fixed seed.
//
// It is fast and deterministic, which makes it handy for benchmarks and
// reproducible fixtures, but it is not a keyed hash: anyone who knows or
// guesses Seed can build colliding keys. Use RandomState for keys chosen by
// untrusted parties. The zero XXHashState is ready to use.
type XXHashState struct {
	Seed uint64
}

// BuildHasher returns a new xxHash64 digest seeded with s.Seed.
func (s XXHashState) BuildHasher() hash.Hash64 {
	return xxhash.NewWithSeed(s.Seed)
}

// Hash returns the digest a Map using s computes for k.
func Hash[K comparable, S BuildHasher](s S, k K) uint64 {
	h := s.BuildHasher()
	writeKey(h, k)
	return h.Sum64()
}
