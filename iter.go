package sipmap

import (
	"fmt"
	"iter"
	"strings"

	"github.com/thepudds/sipmap/internal/swisstable"
)

// Iter walks the entries of a Map. It borrows the Map's storage rather
// than copying it, so it is only valid until the next Insert on that Map;
// after that every method except Clone panics with ErrStaleIterator.
//
// Iter is a small value. Copying it, or calling Clone, gives an
// independent iterator at the same position. The zero Iter is exhausted.
type Iter[K comparable, V any] struct {
	cur swisstable.Cursor[K, V]
}

// Next returns the next entry, or ok == false once every entry has been
// produced. Further calls keep returning ok == false.
func (it *Iter[K, V]) Next() (k K, v V, ok bool) {
	it.check()
	return it.cur.Next()
}

// Len returns the exact number of entries Next has yet to produce.
func (it *Iter[K, V]) Len() int {
	it.check()
	return it.cur.Remaining()
}

// Count consumes the iterator and returns how many entries were left.
func (it *Iter[K, V]) Count() int {
	it.check()
	n := it.cur.Remaining()
	it.cur = swisstable.Cursor[K, V]{}
	return n
}

// Clone returns an independent copy of it.
func (it Iter[K, V]) Clone() Iter[K, V] {
	return it
}

// All returns a range-over-func sequence that drains it.
func (it *Iter[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for {
			k, v, ok := it.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// String lists the entries it has yet to produce as [(k, v) (k, v)],
// without advancing it.
func (it Iter[K, V]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for n := 0; ; n++ {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if n > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "(%v, %v)", k, v)
	}
	b.WriteByte(']')
	return b.String()
}

func (it *Iter[K, V]) check() {
	if !it.cur.Valid() {
		panic(ErrStaleIterator)
	}
}

// Fold drains it, combining each entry into an accumulator that starts at
// init, and returns the result. If f inserts into the Map being walked,
// Fold panics with ErrStaleIterator.
func Fold[K comparable, V any, B any](it *Iter[K, V], init B, f func(B, K, V) B) B {
	it.check()
	acc := init
	for {
		k, v, ok := it.cur.Next()
		if !ok {
			return acc
		}
		acc = f(acc, k, v)
	}
}
