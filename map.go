// Package sipmap provides Map, a generic hash map whose hasher is a
// pluggable BuildHasher and whose default, RandomState, keys SipHash with
// 128 bits of per-map randomness.
//
// A Map whose keys come from untrusted input (HTTP headers, JSON object
// keys, form fields) is open to hash flooding if its hash function is
// fixed: an attacker who can compute hashes can choose keys that all land
// in one probe sequence and make every insert scan the whole table. Keying
// the hash with a secret drawn at construction takes that away.
//
// Each Map draws its own keys, so two Maps built the same way hash
// differently and their iteration orders are unrelated. Maps are not safe
// for concurrent use.
package sipmap

import (
	"iter"

	"go.uber.org/zap"

	"github.com/thepudds/sipmap/internal/swisstable"
)

// Stats are the probe counters of a Map. SetExtraGroups and GetExtraGroups
// grow quickly under a flood.
type Stats = swisstable.Stats

// Map is a hash map from K to V using hashers from S.
//
// The zero Map is an empty map hashing with the zero S. For S =
// RandomState that is unseeded and panics on first use, so build Maps
// with New or NewWithHasher.
type Map[K comparable, V any, S BuildHasher] struct {
	table  *swisstable.Table[K, V]
	hasher S
	logger *zap.Logger
}

// New returns an empty Map hashing with a RandomState freshly drawn from
// the configured SeedSource (CryptoSeedSource by default). If the
// SeedSource fails, New returns its error and no Map.
func New[K comparable, V any](opts ...Option) (*Map[K, V, RandomState], error) {
	cfg := newConfig(opts)
	state, err := RandomStateFrom(cfg.seedSource)
	if err != nil {
		return nil, err
	}
	return newMap[K, V](state, cfg), nil
}

// MustNew is like New but panics if the hash keys cannot be drawn.
func MustNew[K comparable, V any](opts ...Option) *Map[K, V, RandomState] {
	m, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewWithHasher returns an empty Map using hasher. It draws no entropy and
// does not allocate a table until the first Insert.
func NewWithHasher[K comparable, V any, S BuildHasher](hasher S, opts ...Option) *Map[K, V, S] {
	return newMap[K, V](hasher, newConfig(opts))
}

func newMap[K comparable, V any, S BuildHasher](hasher S, cfg config) *Map[K, V, S] {
	return &Map[K, V, S]{hasher: hasher, logger: cfg.logger}
}

func (m *Map[K, V, S]) hash(k K) uint64 {
	return Hash(m.hasher, k)
}

// Insert stores v under k. If k was already present, its value is
// replaced and the previous value is returned with replaced set to true.
//
// Insert invalidates every outstanding Iter of m.
func (m *Map[K, V, S]) Insert(k K, v V) (old V, replaced bool) {
	if m.table == nil {
		m.table = swisstable.New[K, V](0, m.hash, m.logger)
	}
	return m.table.Set(k, v)
}

// Get returns the value stored under k.
func (m *Map[K, V, S]) Get(k K) (v V, ok bool) {
	if m.table == nil {
		return v, false
	}
	return m.table.Get(k)
}

// Len returns the number of entries.
func (m *Map[K, V, S]) Len() int {
	if m.table == nil {
		return 0
	}
	return m.table.Len()
}

// Iter returns an iterator over every entry of m, each exactly once, in
// an order that depends on m's hash keys.
func (m *Map[K, V, S]) Iter() Iter[K, V] {
	if m.table == nil {
		return Iter[K, V]{}
	}
	return Iter[K, V]{cur: m.table.Cursor()}
}

// All returns a range-over-func sequence over a fresh Iter of m.
func (m *Map[K, V, S]) All() iter.Seq2[K, V] {
	it := m.Iter()
	return it.All()
}

// Hasher returns the BuildHasher m hashes with.
func (m *Map[K, V, S]) Hasher() S {
	return m.hasher
}

// Stats returns m's probe counters.
func (m *Map[K, V, S]) Stats() Stats {
	if m.table == nil {
		return Stats{}
	}
	return m.table.Stats()
}

// SlotOf reports the index of the slot holding k. It exists for
// diagnostics like comparing where two Maps placed the same key; the index
// changes whenever the table grows.
func (m *Map[K, V, S]) SlotOf(k K) (slot int, ok bool) {
	if m.table == nil {
		return 0, false
	}
	return m.table.Locate(k)
}
