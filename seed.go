package sipmap

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// SeedSource supplies 128 bits of entropy per call, as a high and a low
// half. Each call should be unpredictable and independent of prior calls.
type SeedSource interface {
	Seed128() (hi, lo uint64, err error)
}

// SeedFunc adapts an ordinary function to a SeedSource.
type SeedFunc func() (hi, lo uint64, err error)

// Seed128 calls f.
func (f SeedFunc) Seed128() (hi, lo uint64, err error) {
	return f()
}

// CryptoSeedSource draws from crypto/rand. It is the default for New and
// NewRandomState.
var CryptoSeedSource SeedSource = ReaderSeedSource(rand.Reader)

// ReaderSeedSource returns a SeedSource that reads 16 bytes from r per
// call, big endian, the first 8 forming hi. A short read is an error.
func ReaderSeedSource(r io.Reader) SeedSource {
	return readerSource{r: r}
}

type readerSource struct {
	r io.Reader
}

func (s readerSource) Seed128() (hi, lo uint64, err error) {
	var b [16]byte
	if _, err := io.ReadFull(s.r, b[:]); err != nil {
		return 0, 0, errors.Wrap(err, "reading 16 bytes of entropy")
	}
	return binary.BigEndian.Uint64(b[:8]), binary.BigEndian.Uint64(b[8:]), nil
}
