package dice

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/explorations/internal/random"
)

func TestParse(t *testing.T) {
	tcs := []struct {
		in   string
		want Notation
	}{
		{"3d10+2", Notation{Count: 3, Sides: 10, Modifier: 2}},
		{"d20", Notation{Count: 1, Sides: 20}},
		{"2d6", Notation{Count: 2, Sides: 6}},
		{"4d4-1", Notation{Count: 4, Sides: 4, Modifier: -1}},
		{" 2D8 + 2 ", Notation{Count: 2, Sides: 8, Modifier: 2}},
		{"12", Notation{Count: 1, Sides: 12}},
	}
	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "3x10", "3d", "dd6", "3d10+", "3d10+x"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidNotation, "input %q", in)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"0d6", "3d0", "101d6", "1d1001", "0", "1d6+1001", "1d6-1001", "1d6+9223372036854775807"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidDiceSpec, "input %q", in)
	}
}

func TestParseAcceptsModifierLimit(t *testing.T) {
	n, err := Parse("1d6-1000")
	require.NoError(t, err)
	assert.Equal(t, -1000, n.Modifier)
	assert.Equal(t, 1006, Notation{Count: 1, Sides: 6, Modifier: 1000}.Max())
}

func TestNotationString(t *testing.T) {
	assert.Equal(t, "3d10+2", Notation{Count: 3, Sides: 10, Modifier: 2}.String())
	assert.Equal(t, "1d20", Notation{Count: 1, Sides: 20}.String())
	assert.Equal(t, "2d4-1", Notation{Count: 2, Sides: 4, Modifier: -1}.String())
}

func TestNotationBounds(t *testing.T) {
	n := Notation{Count: 3, Sides: 10, Modifier: 2}
	assert.Equal(t, 5, n.Min())
	assert.Equal(t, 32, n.Max())
}

// TestRollIsDeterministic ensures rolls follow the seeded source in order.
func TestRollIsDeterministic(t *testing.T) {
	seed := int64(7)
	rng := rand.New(rand.NewSource(seed))
	want := 2
	for i := 0; i < 3; i++ {
		want += rng.Intn(10) + 1
	}

	got, err := NewSeededRoller(seed).Roll(DefaultNotation)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRollNotationStaysInBounds(t *testing.T) {
	r := NewSeededRoller(3)
	n := Notation{Count: 3, Sides: 10, Modifier: 2}
	for i := 0; i < 200; i++ {
		res := r.RollNotation(n)
		require.Len(t, res.Results, 3)
		assert.GreaterOrEqual(t, res.Total, n.Min())
		assert.LessOrEqual(t, res.Total, n.Max())
	}
}

func TestRollWithFixedSource(t *testing.T) {
	r := NewRoller(&random.Fixed{Values: []int{0, 4, 9}})
	res := r.RollNotation(Notation{Count: 3, Sides: 10, Modifier: 2})
	assert.Equal(t, []int{1, 5, 10}, res.Results)
	assert.Equal(t, 18, res.Total)
}

func TestRollPropagatesParseErrors(t *testing.T) {
	_, err := NewSeededRoller(1).Roll("nope")
	assert.ErrorIs(t, err, ErrInvalidNotation)
}
