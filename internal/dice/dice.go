// Package dice parses compact dice notation and rolls it against an
// injectable random source.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tatianab/explorations/internal/random"
)

// DefaultNotation is the roll used for attribute checks.
const DefaultNotation = "3d10+2"

const (
	maxCount = 100
	maxSides = 1000

	// maxModifier bounds the flat bonus either way.
	maxModifier = 1000
)

// ErrInvalidNotation indicates a notation string could not be parsed.
var ErrInvalidNotation = errors.New("invalid dice notation")

// ErrInvalidDiceSpec indicates parsed dice are outside the supported range.
var ErrInvalidDiceSpec = fmt.Errorf("dice must have 1-%d sides and 1-%d count", maxSides, maxCount)

// Notation describes {Count}d{Sides}[+/-Modifier].
type Notation struct {
	Count    int
	Sides    int
	Modifier int
}

// String renders n in canonical form, e.g. "3d10+2".
func (n Notation) String() string {
	s := fmt.Sprintf("%dd%d", n.Count, n.Sides)
	switch {
	case n.Modifier > 0:
		s += fmt.Sprintf("+%d", n.Modifier)
	case n.Modifier < 0:
		s += fmt.Sprintf("%d", n.Modifier)
	}
	return s
}

// Min is the lowest total the notation can produce.
func (n Notation) Min() int { return n.Count + n.Modifier }

// Max is the highest total the notation can produce.
func (n Notation) Max() int { return n.Count*n.Sides + n.Modifier }

// Parse reads "NdM", "dM", "NdM+K", "NdM-K" or a bare "M", which rolls a
// single M-sided die. Whitespace and case are ignored.
func Parse(notation string) (Notation, error) {
	s := strings.ToLower(strings.Join(strings.Fields(notation), ""))
	if s == "" {
		return Notation{}, fmt.Errorf("%w: empty", ErrInvalidNotation)
	}

	if !strings.Contains(s, "d") {
		sides, err := strconv.Atoi(s)
		if err != nil {
			return Notation{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
		}
		return validate(Notation{Count: 1, Sides: sides})
	}

	countPart, rest, _ := strings.Cut(s, "d")
	count := 1
	if countPart != "" {
		c, err := strconv.Atoi(countPart)
		if err != nil {
			return Notation{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
		}
		count = c
	}

	sidesPart, modifier := rest, 0
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesPart = rest[:i]
		m, err := strconv.Atoi(rest[i:])
		if err != nil {
			return Notation{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
		}
		modifier = m
	}
	sides, err := strconv.Atoi(sidesPart)
	if err != nil {
		return Notation{}, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	return validate(Notation{Count: count, Sides: sides, Modifier: modifier})
}

func validate(n Notation) (Notation, error) {
	if n.Count < 1 || n.Count > maxCount || n.Sides < 1 || n.Sides > maxSides {
		return Notation{}, ErrInvalidDiceSpec
	}
	if n.Modifier < -maxModifier || n.Modifier > maxModifier {
		return Notation{}, fmt.Errorf("%w: modifier must be within ±%d", ErrInvalidDiceSpec, maxModifier)
	}
	return n, nil
}

// RollResult captures every face rolled for one notation.
type RollResult struct {
	Notation Notation
	Results  []int
	Total    int
}

// Roller rolls dice from a random source. A Roller is not safe for
// concurrent use unless its source is.
type Roller struct {
	src random.Source
}

// NewRoller returns a Roller drawing from src.
func NewRoller(src random.Source) *Roller {
	return &Roller{src: src}
}

// NewSeededRoller returns a deterministic Roller.
func NewSeededRoller(seed int64) *Roller {
	return NewRoller(random.New(seed))
}

// Roll parses notation and returns the sum of all faces plus the modifier.
func (r *Roller) Roll(notation string) (int, error) {
	n, err := Parse(notation)
	if err != nil {
		return 0, err
	}
	return r.RollNotation(n).Total, nil
}

// RollNotation rolls an already parsed notation.
//
// Results holds one entry per die in roll order; Total is their sum plus
// the notation's modifier.
func (r *Roller) RollNotation(n Notation) RollResult {
	results := make([]int, n.Count)
	total := n.Modifier
	for i := range results {
		results[i] = rollDie(r.src, n.Sides)
		total += results[i]
	}
	return RollResult{Notation: n, Results: results, Total: total}
}

// rollDie rolls a die with the provided number of sides.
func rollDie(src random.Source, sides int) int {
	return src.Intn(sides) + 1
}
