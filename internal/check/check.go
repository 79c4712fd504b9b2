// Package check resolves attribute checks: a dice roll against a target
// adjusted by the player's attribute and trait.
package check

import (
	"errors"
	"fmt"

	"github.com/tatianab/explorations/internal/dice"
	"github.com/tatianab/explorations/internal/player"
)

// ErrPlayerDefeated indicates a player at 0 HP attempted a check.
var ErrPlayerDefeated = errors.New("player is defeated")

// ErrUnknownAttribute indicates the check named no valid attribute.
var ErrUnknownAttribute = errors.New("unknown attribute")

// ErrMissingPlayer indicates a check was requested without a player.
var ErrMissingPlayer = errors.New("player is required")

// Roller produces a dice total for a notation. *dice.Roller satisfies it.
type Roller interface {
	Roll(notation string) (int, error)
}

// Request describes one attribute check.
type Request struct {
	Threshold int
	Attribute player.Attribute
	Player    *player.Player
	// Notation defaults to dice.DefaultNotation.
	Notation string
}

// Result reports a resolved check.
type Result struct {
	// Pass is true when Roll met Difficulty.
	Pass bool
	// Diff is Difficulty minus Roll; positive on failure, used as damage.
	Diff int
	// Roll is the dice total plus the trait value.
	Roll int
	// Difficulty is the threshold plus the attribute, minus the trait value.
	Difficulty int
}

// RollForTarget resolves req.
//
// The trait value is subtracted from the difficulty and also added to the
// roll, so a trait counts twice.
func RollForTarget(roller Roller, req Request) (Result, error) {
	p := req.Player
	if p == nil {
		return Result{}, ErrMissingPlayer
	}
	if !p.Alive() {
		return Result{}, ErrPlayerDefeated
	}
	attr, ok := p.Attributes.Get(req.Attribute)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, req.Attribute)
	}
	notation := req.Notation
	if notation == "" {
		notation = dice.DefaultNotation
	}

	pips, err := roller.Roll(notation)
	if err != nil {
		return Result{}, fmt.Errorf("roll %s: %w", notation, err)
	}

	difficulty := req.Threshold + attr - p.Trait.Value
	roll := pips + p.Trait.Value
	return Result{
		Pass:       roll >= difficulty,
		Diff:       difficulty - roll,
		Roll:       roll,
		Difficulty: difficulty,
	}, nil
}
