//go:build !amd64 || purego
// +build !amd64 purego

package swisstable

// MatchByte returns a bitmask with bit i set when buffer[i] == c, for the
// first 16 bytes of buffer. ok is false, with a zero mask, if buffer is
// shorter than 16 bytes. Longer buffers are allowed.
func MatchByte(c uint8, buffer []byte) (mask uint32, ok bool) {
	if len(buffer) < groupSize {
		return 0, false
	}
	return matchByteSWAR(c, buffer), true
}
