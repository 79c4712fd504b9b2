// Package random provides the injectable randomness used by player
// generation and dice rolls.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source returns a uniform integer in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a deterministic source for seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSource returns a source seeded with seed, or with a crypto seed when
// seed is zero.
func NewSource(seed int64) (*rand.Rand, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	return New(seed), nil
}

// Pick returns a uniformly chosen element of items. It panics on an empty
// slice, like rand.Intn(0).
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Fixed is a Source that replays Values in order, wrapping around. Each value
// is reduced modulo n. It is meant for tests.
type Fixed struct {
	Values []int
	next   int
}

// Intn implements Source.
func (f *Fixed) Intn(n int) int {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	if v < 0 {
		v = -v
	}
	return v % n
}
