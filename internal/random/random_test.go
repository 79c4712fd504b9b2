package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedReturnsDistinctValues(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestNewSourceWithZeroSeed(t *testing.T) {
	src, err := NewSource(0)
	require.NoError(t, err)
	v := src.Intn(6)
	assert.GreaterOrEqual(t, v, 0)
	assert.Less(t, v, 6)
}

func TestFixedReplaysValues(t *testing.T) {
	f := &Fixed{Values: []int{1, 7, -3}}
	assert.Equal(t, 1, f.Intn(4))
	assert.Equal(t, 3, f.Intn(4))
	assert.Equal(t, 3, f.Intn(4))
	assert.Equal(t, 1, f.Intn(4))
}

func TestPick(t *testing.T) {
	f := &Fixed{Values: []int{2}}
	assert.Equal(t, "c", Pick(f, []string{"a", "b", "c"}))
}
