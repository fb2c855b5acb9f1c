// Package swisstable is the open-addressing engine behind sipmap.Map.
//
// The layout follows the Swiss table design: one control byte per slot,
// slots grouped in runs of 16 so a single MatchByte call can compare a
// whole group's control bytes at once, and quadratic probing across groups
// using triangular numbers. A control byte of 0 marks an empty slot; any
// other value is the top byte of the stored key's hash (0 remapped to 1).
//
// There is no deletion, so there are no tombstones, and a probe for a key
// may stop at the first group that still has an empty slot.
//
// A Table does not hash keys itself. It is given a hash function at
// construction and calls it for every Get and Set and again for every
// stored key when the table grows.
package swisstable

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// 16 control bytes per group, matching the width of MatchByte.
	groupSize = 16

	emptySentinel = 0

	// Grow once more than 7/8 of the slots are in use.
	loadFactorNumerator   = 7
	loadFactorDenominator = 8

	minTableLength = 16
)

// ErrStaleCursor is the panic value of a Cursor used after the Table it
// walks was modified.
var ErrStaleCursor = errors.New("sipmap: iterator used after the map was modified")

// Slot holds a key and value.
type Slot[K comparable, V any] struct {
	Key   K
	Value V
}

// Stats are running probe counters. They are cheap to keep and are the
// easiest way to see a flooded table: GetExtraGroups and SetExtraGroups
// stay near zero for a well distributed hash.
type Stats struct {
	Gets                     int64
	GetTopHashFalsePositives int64
	GetExtraGroups           int64
	Sets                     int64
	SetExtraGroups           int64
	Grows                    int64
}

// Table is a single-threaded open-addressing hash table.
// The zero Table is not usable; use New.
type Table[K comparable, V any] struct {
	control   []byte
	slots     []Slot[K, V]
	groupMask uint64
	hashFunc  func(K) uint64
	elemCount int
	maxLoad   int

	// gen is bumped by every Set so outstanding cursors can detect
	// that they are walking a table that may have moved under them.
	gen uint64

	// disableResizing lets tests fill a table to 100%.
	disableResizing bool

	logger *zap.Logger
	stats  Stats
}

// New returns an empty Table sized for roughly capacity elements.
// capacity is a hint, and "at least". A nil logger disables logging.
func New[K comparable, V any](capacity int, hashFunc func(K) uint64, logger *zap.Logger) *Table[K, V] {
	if hashFunc == nil {
		panic("swisstable: nil hash function")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Table[K, V]{
		hashFunc: hashFunc,
		logger:   logger,
	}
	t.init(calcTableLength(capacity))
	return t
}

func (t *Table[K, V]) init(tableLength int) {
	t.control = make([]byte, tableLength)
	t.slots = make([]Slot[K, V], tableLength)
	t.groupMask = (uint64(tableLength) / groupSize) - 1
	t.maxLoad = tableLength * loadFactorNumerator / loadFactorDenominator
}

// Get returns the value stored for k.
func (t *Table[K, V]) Get(k K) (v V, ok bool) {
	t.stats.Gets++ // stats
	index, ok := t.find(k, t.hashFunc(k))
	if !ok {
		return v, false
	}
	return t.slots[index].Value, true
}

// Locate reports the slot index holding k. The index is only meaningful
// until the next Set, which may grow the table.
func (t *Table[K, V]) Locate(k K) (index int, ok bool) {
	return t.find(k, t.hashFunc(k))
}

func (t *Table[K, V]) find(k K, h uint64) (index int, ok bool) {
	group := h & t.groupMask
	top := topHash(h)

	// Do quadratic probing.
	// This loop will terminate because (a) incrementing by
	// triangular numbers will hit every group in a power of 2 sized table
	// and (b) we stop once every group has been visited.
	var probeCount uint64
	for {
		offset := int(group * groupSize)
		bitmask, ok := MatchByte(top, t.control[offset:])
		if !ok {
			panic("short control byte slice")
		}
		for bitmask != 0 {
			index := bits.TrailingZeros32(bitmask)
			if t.slots[offset+index].Key == k {
				return offset + index, true
			}
			t.stats.GetTopHashFalsePositives++ // stats

			// continue to look. infrequent with 8 bit topHash.
			bitmask &= ^(1 << index)
		}

		// Without deletes, a group with an empty slot ends the probe:
		// the key would have been placed there.
		emptyBitmask, _ := MatchByte(emptySentinel, t.control[offset:])
		if emptyBitmask != 0 {
			return 0, false
		}

		probeCount++
		if probeCount > t.groupMask {
			// every group visited, which only happens when 100% full
			return 0, false
		}
		t.stats.GetExtraGroups++ // stats
		group = (group + probeCount) & t.groupMask
	}
}

// Set stores v for k. If k was already present, its value is replaced and
// the previous value is returned with replaced set to true.
// Set may grow the table, which moves every stored entry.
func (t *Table[K, V]) Set(k K, v V) (old V, replaced bool) {
	t.gen++
	t.stats.Sets++ // stats

	h := t.hashFunc(k)
	group := h & t.groupMask
	top := topHash(h)

	var probeCount uint64
	// Do quadratic probing.
	// This loop will terminate for same reasons as find loop,
	// plus we always keep at least some empty slots by growing when needed.
	for {
		offset := int(group * groupSize)
		bitmask, ok := MatchByte(top, t.control[offset:])
		if !ok {
			panic("short control byte slice")
		}
		for bitmask != 0 {
			index := bits.TrailingZeros32(bitmask)
			slot := &t.slots[offset+index]
			if slot.Key == k {
				// update existing key
				old = slot.Value
				slot.Value = v
				return old, true
			}
			bitmask &= ^(1 << index)
		}

		// No matching topHash, or we had a matching topHash
		// but failed to find an equal key in loop just above.
		// If this group has an empty slot, k is not in the table.
		emptyBitmask, _ := MatchByte(emptySentinel, t.control[offset:])
		if emptyBitmask != 0 {
			if t.elemCount >= t.maxLoad && !t.disableResizing {
				t.grow()
				t.uncheckedSet(h, k, v)
			} else {
				index := bits.TrailingZeros32(emptyBitmask)
				t.control[offset+index] = top
				t.slots[offset+index] = Slot[K, V]{Key: k, Value: v}
			}
			t.elemCount++
			return old, false
		}

		// This group is full, so continue on to the next group.
		// We don't do quadratic probing within a group, but we do
		// quadratic probing across groups.
		probeCount++
		if probeCount > t.groupMask {
			panic(fmt.Sprintf("impossible: probeCount: %d groups: %d underlying table len: %d",
				probeCount, len(t.slots)/groupSize, len(t.slots)))
		}
		t.stats.SetExtraGroups++ // stats
		group = (group + probeCount) & t.groupMask
	}
}

// uncheckedSet places a key known to be absent in the first empty slot
// of its probe sequence. It does not update elemCount.
func (t *Table[K, V]) uncheckedSet(h uint64, k K, v V) {
	group := h & t.groupMask
	var probeCount uint64
	for {
		offset := int(group * groupSize)
		emptyBitmask, _ := MatchByte(emptySentinel, t.control[offset:])
		if emptyBitmask != 0 {
			index := bits.TrailingZeros32(emptyBitmask)
			t.control[offset+index] = topHash(h)
			t.slots[offset+index] = Slot[K, V]{Key: k, Value: v}
			return
		}
		probeCount++
		if probeCount > t.groupMask {
			panic("impossible: no empty slot while rehashing")
		}
		group = (group + probeCount) & t.groupMask
	}
}

// grow doubles the table and rehashes every stored entry.
func (t *Table[K, V]) grow() {
	oldControl, oldSlots := t.control, t.slots
	t.init(len(oldSlots) * 2)
	for i := range oldControl {
		if oldControl[i] == emptySentinel {
			continue
		}
		s := &oldSlots[i]
		t.uncheckedSet(t.hashFunc(s.Key), s.Key, s.Value)
	}
	t.stats.Grows++ // stats
	t.logger.Debug("swisstable grew",
		zap.Int("from", len(oldSlots)),
		zap.Int("to", len(t.slots)),
		zap.Int("elems", t.elemCount))
}

// Len returns the number of elements stored in the Table.
func (t *Table[K, V]) Len() int {
	return t.elemCount
}

// Cap returns the length of the underlying slot array.
func (t *Table[K, V]) Cap() int {
	return len(t.slots)
}

// Gen returns the modification generation.
func (t *Table[K, V]) Gen() uint64 {
	return t.gen
}

// Stats returns a copy of the probe counters.
func (t *Table[K, V]) Stats() Stats {
	return t.stats
}

// Cursor returns a Cursor positioned before the first stored entry.
func (t *Table[K, V]) Cursor() Cursor[K, V] {
	return Cursor[K, V]{
		t:         t,
		gen:       t.Gen(),
		remaining: t.elemCount,
	}
}

func topHash(h uint64) uint8 {
	top := uint8((h >> 56) & 0xff)
	if top == emptySentinel {
		// reserve 0 for empty
		top++
	}
	return top
}

// calcTableLength returns the length to use
// for the underlying slot array to support
// capacityHint stored elements.
// The length must be a power of 2 and at least one group,
// which allows simple group indexing via groupMask.
func calcTableLength(capacityHint int) int {
	// Stay under the load factor, rounded up to a power of 2.
	tableLength := capacityHint * loadFactorDenominator / loadFactorNumerator
	pow2 := minTableLength
	for tableLength > pow2 {
		pow2 = pow2 << 1
	}
	tableLength = pow2

	// sanity check power of 2
	if tableLength&(tableLength-1) != 0 || tableLength == 0 {
		panic("impossible")
	}
	return tableLength
}
