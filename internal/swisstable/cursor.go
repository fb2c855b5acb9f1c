package swisstable

// Cursor walks the stored entries of a Table in slot order.
//
// A Cursor is a small value: copying it yields an independent cursor at
// the same position. It does not own or copy entries; it reads the
// Table's slot array directly and is only valid until the next Set.
// A Cursor used after a Set panics with ErrStaleCursor.
//
// The zero Cursor is exhausted.
type Cursor[K comparable, V any] struct {
	t         *Table[K, V]
	gen       uint64
	pos       int
	remaining int
}

// Next returns the next stored entry, or ok == false once every entry
// has been produced.
func (c *Cursor[K, V]) Next() (k K, v V, ok bool) {
	if c.t == nil {
		return k, v, false
	}
	c.check()
	if c.remaining == 0 {
		return k, v, false
	}
	control := c.t.control
	for ; c.pos < len(control); c.pos++ {
		if control[c.pos] == emptySentinel {
			continue
		}
		s := &c.t.slots[c.pos]
		c.pos++
		c.remaining--
		return s.Key, s.Value, true
	}
	panic("impossible: cursor reached end of table with entries remaining")
}

// Remaining returns how many entries Next has yet to produce.
func (c *Cursor[K, V]) Remaining() int {
	return c.remaining
}

// Valid reports whether the Table has not been modified since the
// Cursor was created.
func (c *Cursor[K, V]) Valid() bool {
	return c.t == nil || c.t.Gen() == c.gen
}

func (c *Cursor[K, V]) check() {
	if c.t.Gen() != c.gen {
		panic(ErrStaleCursor)
	}
}
