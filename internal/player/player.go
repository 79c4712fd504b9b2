// Package player builds the characters that play through an exploration:
// class baselines, a random trait, and starting hit points.
package player

import (
	"fmt"

	"github.com/tatianab/explorations/internal/random"
)

// Type is a player class.
type Type string

const (
	// Warrior is a combat focus.
	Warrior Type = "Warrior"
	// Adept is a magic or technical specialist.
	Adept Type = "Adept"
	// Explorer is an adventurer, part Warrior and part Adept.
	Explorer Type = "Explorer"
	// Speaker is a charisma focus.
	Speaker Type = "Speaker"
)

// Types lists every class.
var Types = []Type{Warrior, Adept, Explorer, Speaker}

// Player is the character owned by one exploration session. Only HP
// changes after creation.
type Player struct {
	Name        string     `yaml:"name,omitempty"`
	HP          int        `yaml:"hp"`
	Trait       Trait      `yaml:"trait"`
	Type        Type       `yaml:"type"`
	Description string     `yaml:"description"`
	Attributes  Attributes `yaml:"attributes"`
}

// DisplayName returns the player's name, or its description when unnamed.
func (p *Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Description
}

// Alive reports whether the player can still act.
func (p *Player) Alive() bool {
	return p != nil && p.HP > 0
}

// TakeDamage lowers HP by n, never below zero, and returns the new HP.
// Non-positive damage is ignored.
func (p *Player) TakeDamage(n int) int {
	if n > 0 {
		p.HP = max(0, p.HP-n)
	}
	return p.HP
}

// New creates a player of type t. An empty t picks a class at random.
func New(src random.Source, t Type) *Player {
	if t == "" {
		t = RandomType(src)
	}
	trait := RandomTrait(src, t)
	attrs := ModifyAttrsWithTrait(AttrsForType(t), trait)
	return &Player{
		HP:          StartingHP(attrs, trait),
		Trait:       trait,
		Type:        t,
		Description: fmt.Sprintf("%s %s", trait.Name, t),
		Attributes:  attrs,
	}
}

// RandomType picks one of the four classes uniformly.
func RandomType(src random.Source) Type {
	return random.Pick(src, Types)
}

// AttrsForType returns the class baseline. Unknown classes get a flat 7
// in every dimension.
func AttrsForType(t Type) Attributes {
	switch t {
	case Warrior:
		return Attributes{Physical: 15, Mental: 4, Social: 2}
	case Adept:
		return Attributes{Physical: 6, Mental: 12, Social: 3}
	case Explorer:
		return Attributes{Physical: 9, Mental: 8, Social: 4}
	case Speaker:
		return Attributes{Physical: 3, Mental: 6, Social: 12}
	default:
		return Attributes{Physical: 7, Mental: 7, Social: 7}
	}
}

// TraitPool returns the traits a class can roll. Unknown classes use the
// Warrior pool.
func TraitPool(t Type) []Trait {
	switch t {
	case Adept:
		return TraitsFor(Mental)
	case Explorer:
		return append(TraitsFor(Mental), TraitsFor(Physical)...)
	case Speaker:
		return TraitsFor(Social)
	default:
		return TraitsFor(Physical)
	}
}

// RandomTrait samples uniformly from the class's trait pool.
func RandomTrait(src random.Source, t Type) Trait {
	return random.Pick(src, TraitPool(t))
}

// ModifyAttrsWithTrait adds the trait value to its own dimension. A trait
// with no recognised dimension modifies Physical.
func ModifyAttrsWithTrait(a Attributes, trait Trait) Attributes {
	dim := trait.Dimension
	if !dim.Valid() {
		dim = Physical
	}
	v, _ := a.Get(dim)
	return a.With(dim, v+trait.Value)
}

// StartingHP weights Physical heaviest, then Social, then Mental.
func StartingHP(a Attributes, trait Trait) int {
	return a.Physical*10 + a.Mental*3 + a.Social*5 + trait.Value
}
