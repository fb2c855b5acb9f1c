package sipmap

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dchest/siphash"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewRandomState_Distinct(t *testing.T) {
	const trials = 1000
	differ := 0
	for i := 0; i < trials; i++ {
		a, err := NewRandomState()
		require.NoError(t, err)
		b, err := NewRandomState()
		require.NoError(t, err)
		if a != b {
			differ++
		}
	}
	require.GreaterOrEqual(t, differ, trials-1)
}

func TestRandomStateFrom_KeySplit(t *testing.T) {
	src := SeedFunc(func() (uint64, uint64, error) {
		return 0x0011223344556677, 0x8899aabbccddeeff, nil
	})
	s, err := RandomStateFrom(src)
	require.NoError(t, err)

	k0, k1 := s.Keys()
	require.Equal(t, uint64(0x0011223344556677), k0)
	require.Equal(t, uint64(0x8899aabbccddeeff), k1)
}

func TestRandomStateFrom_Errors(t *testing.T) {
	_, err := RandomStateFrom(nil)
	require.ErrorIs(t, err, ErrNoSeedSource)

	boom := errors.New("entropy unavailable")
	_, err = RandomStateFrom(SeedFunc(func() (uint64, uint64, error) {
		return 1, 2, boom
	}))
	require.Error(t, err)
	require.Equal(t, boom, errors.Cause(err))

	m, err := New[string, int](WithSeedSource(SeedFunc(func() (uint64, uint64, error) {
		return 0, 0, boom
	})))
	require.Nil(t, m)
	require.ErrorIs(t, err, boom)

	require.PanicsWithError(t, err.Error(), func() {
		MustNew[string, int](WithSeedSource(SeedFunc(func() (uint64, uint64, error) {
			return 0, 0, boom
		})))
	})
}

func TestReaderSeedSource(t *testing.T) {
	b := []byte{
		0, 1, 2, 3, 4, 5, 6, 7,
		8, 9, 10, 11, 12, 13, 14, 15,
	}
	s, err := RandomStateFrom(ReaderSeedSource(bytes.NewReader(b)))
	require.NoError(t, err)
	k0, k1 := s.Keys()
	require.Equal(t, uint64(0x0001020304050607), k0)
	require.Equal(t, uint64(0x08090a0b0c0d0e0f), k1)

	_, err = RandomStateFrom(ReaderSeedSource(bytes.NewReader(b[:10])))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRandomState_SipHashVectors(t *testing.T) {
	// key bytes 00..0f, as in the SipHash paper
	s := RandomStateWithKeys(0x0706050403020100, 0x0f0e0d0c0b0a0908)

	h := s.BuildHasher()
	require.Equal(t, uint64(0x726fdb47dd0e0e31), h.Sum64())

	k0, k1 := s.Keys()
	for _, msg := range []string{"", "a", "hello, world", strings.Repeat("x", 100)} {
		require.Equal(t, siphash.Hash(k0, k1, []byte(msg)), Hash(s, msg), "msg %q", msg)
	}
}

func TestRandomState_Deterministic(t *testing.T) {
	a := RandomStateWithKeys(42, 43)
	b := RandomStateWithKeys(42, 43)
	for i := 0; i < 100; i++ {
		require.Equal(t, Hash(a, i), Hash(b, i))
	}
	require.NotEqual(t, Hash(a, 7), Hash(RandomStateWithKeys(43, 42), 7))
}

func TestRandomState_ZeroPanics(t *testing.T) {
	require.PanicsWithValue(t, ErrUnseeded, func() {
		var s RandomState
		s.BuildHasher()
	})
}

func TestRandomState_StringRedacts(t *testing.T) {
	s := RandomStateWithKeys(0x1234567890abcdef, 0xfedcba0987654321)
	for _, verb := range []string{"%v", "%+v", "%#v", "%s"} {
		out := fmt.Sprintf(verb, s)
		require.NotContains(t, out, "1234567890", "verb %s", verb)
		require.NotContains(t, out, fmt.Sprint(uint64(0x1234567890abcdef)), "verb %s", verb)
		require.NotContains(t, out, "fedcba", "verb %s", verb)
	}
	require.Equal(t, "RandomState{unseeded}", RandomState{}.String())
}
