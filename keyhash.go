package sipmap

import (
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"math"
	"reflect"
)

// Hashable is implemented by key types that write their own canonical
// encoding into a hasher. Keys that compare equal must write equal bytes.
// Keys that do not implement Hashable are encoded by writeKey.
type Hashable interface {
	WriteHash(h hash.Hash64)
}

// writeKey feeds a canonical encoding of k into h. Equal keys produce
// equal encodings: +0 and -0 encode the same, and strings nested in arrays
// or structs are length-prefixed so field boundaries cannot shift.
// It panics for dynamic types that are not comparable, as the builtin map
// does.
func writeKey[K comparable](h hash.Hash64, k K) {
	var buf [8]byte
	switch k := any(k).(type) {
	case Hashable:
		k.WriteHash(h)
	case string:
		io.WriteString(h, k)
	case bool:
		if k {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case int:
		writeUint64(h, &buf, uint64(k))
	case int64:
		writeUint64(h, &buf, uint64(k))
	case int32:
		writeUint64(h, &buf, uint64(k))
	case uint:
		writeUint64(h, &buf, uint64(k))
	case uint64:
		writeUint64(h, &buf, k)
	case uint32:
		writeUint64(h, &buf, uint64(k))
	case uintptr:
		writeUint64(h, &buf, uint64(k))
	case float64:
		writeFloat(h, &buf, k)
	case float32:
		writeFloat(h, &buf, float64(k))
	case complex128:
		writeFloat(h, &buf, real(k))
		writeFloat(h, &buf, imag(k))
	default:
		writeValue(h, &buf, reflect.ValueOf(k))
	}
}

func writeUint64(w io.Writer, buf *[8]byte, x uint64) {
	binary.LittleEndian.PutUint64(buf[:], x)
	w.Write(buf[:])
}

func writeFloat(w io.Writer, buf *[8]byte, f float64) {
	if f == 0 {
		f = 0 // -0 == +0
	}
	writeUint64(w, buf, math.Float64bits(f))
}

func writeValue(h hash.Hash64, buf *[8]byte, v reflect.Value) {
	switch v.Kind() {
	case reflect.Invalid:
		// nil interface
		h.Write([]byte{0})
	case reflect.Bool:
		if v.Bool() {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint64(h, buf, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint64(h, buf, v.Uint())
	case reflect.Float32, reflect.Float64:
		writeFloat(h, buf, v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		writeFloat(h, buf, real(c))
		writeFloat(h, buf, imag(c))
	case reflect.String:
		s := v.String()
		writeUint64(h, buf, uint64(len(s)))
		io.WriteString(h, s)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			writeValue(h, buf, v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).Name == "_" {
				// blank fields do not take part in ==
				continue
			}
			writeValue(h, buf, v.Field(i))
		}
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		writeUint64(h, buf, uint64(v.Pointer()))
	case reflect.Interface:
		if v.IsNil() {
			h.Write([]byte{0})
			return
		}
		e := v.Elem()
		io.WriteString(h, e.Type().String())
		writeValue(h, buf, e)
	default:
		panic(fmt.Sprintf("sipmap: hash of unhashable type %s", v.Type()))
	}
}
