package sipmap

import (
	"github.com/pkg/errors"

	"github.com/thepudds/sipmap/internal/swisstable"
)

var (
	// ErrNoSeedSource is returned when a nil SeedSource is configured.
	ErrNoSeedSource = errors.New("sipmap: nil seed source")

	// ErrUnseeded is the panic value of BuildHasher on a zero RandomState.
	// Hashing with all-zero keys would make every map predictable.
	ErrUnseeded = errors.New("sipmap: RandomState was never seeded; use NewRandomState")

	// ErrStaleIterator is the panic value of an Iter used after its Map
	// was modified by Insert.
	ErrStaleIterator = swisstable.ErrStaleCursor
)
