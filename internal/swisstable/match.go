package swisstable

import "encoding/binary"

//go:generate sh -c "cd ../../avo && go run . -out ../internal/swisstable/match_amd64.s -stubs ../internal/swisstable/match_stub.go -pkg swisstable"

// matchByteSWAR compares c against the first 16 bytes of buffer eight
// bytes at a time, returning a bitmask with bit i set when buffer[i] == c.
// buffer must hold at least 16 bytes.
func matchByteSWAR(c uint8, buffer []byte) uint32 {
	const lo7 = 0x7f7f7f7f7f7f7f7f
	pattern := uint64(c) * 0x0101010101010101

	var mask uint32
	for half := 0; half < 2; half++ {
		// bytes equal to c become zero
		x := binary.LittleEndian.Uint64(buffer[half*8:]) ^ pattern
		// high bit of each byte is set exactly when that byte is zero.
		// The add cannot carry between bytes.
		y := ^(((x & lo7) + lo7) | x | lo7)
		for i := 0; i < 8; i++ {
			if y&(uint64(0x80)<<(8*i)) != 0 {
				mask |= 1 << (half*8 + i)
			}
		}
	}
	return mask
}
