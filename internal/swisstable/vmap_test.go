package swisstable

// Vmap is a self validating table. It wraps a Table and mirrors every
// operation into a runtime map, checking Get, Len and cursor walks
// against the mirror. A cursor walk over an unmodified table must see
// every key exactly once.
//
// It is intended to work well with fuzzing. See autogenfuzzchain_test.go.

import (
	"fmt"
	"testing"
)

type Keys struct {
	Start, End, Stride uint8 // [Start, End) - start inclusive, end exclusive
}

// Vmap is a self-validating wrapper around Table
type Vmap struct {
	// Table under test
	m *Table[Key, Value]

	// repeat any operations on our Table to a mirrored runtime map
	mirror map[Key]Value
}

func NewVmap(capacity byte, lumpy bool) *Vmap {
	vm := &Vmap{}
	hashFunc := realHash
	if lumpy {
		// more reproducible, and also lumpier with a worse hash
		hashFunc = identityHash
	}
	vm.m = New[Key, Value](int(capacity), hashFunc, nil)
	vm.mirror = make(map[Key]Value)
	return vm
}

func (vm *Vmap) Get(k Key) {
	if debugVmap {
		println("Get key:", k)
	}
	got, gotOk := vm.m.Get(k)
	want, wantOk := vm.mirror[k]
	if want != got || gotOk != wantOk {
		panic(fmt.Sprintf("Table.Get(%v) = %v, %v. want = %v, %v", k, got, gotOk, want, wantOk))
	}
}

func (vm *Vmap) Set(k Key, v Value) {
	if debugVmap {
		println("Set key:", k)
	}
	old, replaced := vm.m.Set(k, v)
	want, wantReplaced := vm.mirror[k]
	if old != want || replaced != wantReplaced {
		panic(fmt.Sprintf("Table.Set(%v) = %v, %v. want = %v, %v", k, old, replaced, want, wantReplaced))
	}
	vm.mirror[k] = v
}

func (vm *Vmap) Len() int {
	got := vm.m.Len()
	want := len(vm.mirror)
	if want != got {
		panic(fmt.Sprintf("Table.Len() = %v, want %v", got, want))
	}
	return got
}

// Bulk operations

func (vm *Vmap) GetBulk(list Keys) {
	for _, key := range keySlice(list) {
		vm.Get(key)
	}
}

func (vm *Vmap) SetBulk(list Keys) {
	for _, key := range keySlice(list) {
		vm.Set(key, Value(key))
	}
}

// Walk runs a cursor over the whole table and compares against the mirror.
// If splitAt is within range, the cursor is copied at that point and the
// copy is walked to the end as well; both must agree.
func (vm *Vmap) Walk(splitAt uint16) {
	seen := newKeySet(nil)
	var rest []Key

	c := vm.m.Cursor()
	if c.Remaining() != len(vm.mirror) {
		panic(fmt.Sprintf("Cursor.Remaining() = %d, want %d", c.Remaining(), len(vm.mirror)))
	}
	for i := 0; ; i++ {
		if i == int(splitAt) {
			dup := c
			for {
				k, _, ok := dup.Next()
				if !ok {
					break
				}
				rest = append(rest, k)
			}
		}
		k, v, ok := c.Next()
		if !ok {
			break
		}
		if seen.contains(k) {
			panic(fmt.Sprintf("Cursor.Next() key %v seen twice", k))
		}
		seen.add(k)
		if want, ok := vm.mirror[k]; !ok || want != v {
			panic(fmt.Sprintf("Cursor.Next() = %v, %v. mirror has %v, %v", k, v, want, ok))
		}
		if rest != nil && int(splitAt) < i+1 {
			// entries after the split must line up with what the copy saw
			if j := i - int(splitAt); rest[j] != k {
				panic(fmt.Sprintf("copied cursor saw %v at step %d, original saw %v", rest[j], j, k))
			}
		}
	}
	if seen.len() != len(vm.mirror) {
		panic(fmt.Sprintf("Cursor saw %d keys, want %d", seen.len(), len(vm.mirror)))
	}
}

// keySlice converts from start/end/stride to a []Key
func keySlice(list Keys) []Key {
	// we fix up start/end to make the values useful more often
	start, end := int(list.Start), int(list.End)
	switch {
	case start > end:
		start, end = end, start
	case start == end:
		return nil
	}

	var stride int
	switch {
	case list.Stride < 128:
		// prefer stride of 1
		stride = 1
	default:
		stride = int(list.Stride%8) + 1
	}

	var res []Key
	for i := start; i < end; i += stride {
		res = append(res, Key(i))
	}
	return res
}

func TestVmap(t *testing.T) {
	tests := []struct {
		name  string
		lumpy bool
		ops   func(vm *Vmap)
	}{
		{
			name: "set get walk",
			ops: func(vm *Vmap) {
				vm.SetBulk(Keys{Start: 0, End: 200})
				vm.GetBulk(Keys{Start: 0, End: 255})
				vm.Walk(50)
			},
		},
		{
			name:  "lumpy overwrite across grows",
			lumpy: true,
			ops: func(vm *Vmap) {
				vm.SetBulk(Keys{Start: 0, End: 100, Stride: 200})
				vm.SetBulk(Keys{Start: 0, End: 255})
				vm.Set(3, 33)
				vm.Get(3)
				vm.Len()
				vm.Walk(0)
				vm.Walk(1000)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewVmap(0, tt.lumpy)
			tt.ops(vm)
		})
	}
}

const debugVmap = false
