package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/explorations/internal/random"
)

func TestAttrsForTypeFavoursClassDimension(t *testing.T) {
	dominant := map[Type]Attribute{
		Warrior:  Physical,
		Adept:    Mental,
		Explorer: Physical,
		Speaker:  Social,
	}
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			a := AttrsForType(typ)
			top, _ := a.Get(dominant[typ])
			for _, attr := range AllAttributes {
				v, ok := a.Get(attr)
				require.True(t, ok)
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, top, "%s exceeds %s", attr, dominant[typ])
			}
		})
	}
}

func TestAttrsForUnknownTypeIsFlat(t *testing.T) {
	assert.Equal(t, Attributes{Physical: 7, Mental: 7, Social: 7}, AttrsForType("Bard"))
	assert.Equal(t, Attributes{Physical: 7, Mental: 7, Social: 7}, AttrsForType(""))
}

func TestStartingHP(t *testing.T) {
	a := Attributes{Physical: 10, Mental: 5, Social: 5}
	avg, _ := TraitByName("Average")
	assert.Equal(t, 140, StartingHP(a, avg))
}

func TestStartingHPIsMonotonic(t *testing.T) {
	base := Attributes{Physical: 5, Mental: 5, Social: 5}
	trait := Trait{Name: "Average", Dimension: Physical}
	hp := StartingHP(base, trait)

	for _, attr := range AllAttributes {
		v, _ := base.Get(attr)
		assert.Greater(t, StartingHP(base.With(attr, v+1), trait), hp, "raising %s", attr)
	}
	trait.Value = 1
	assert.Greater(t, StartingHP(base, trait), hp)
}

func TestModifyAttrsWithTraitChangesOneDimension(t *testing.T) {
	base := Attributes{Physical: 9, Mental: 8, Social: 4}
	for _, trait := range AllTraits() {
		if trait.Value == 0 {
			continue
		}
		got := ModifyAttrsWithTrait(base, trait)
		changed := 0
		for _, attr := range AllAttributes {
			before, _ := base.Get(attr)
			after, _ := got.Get(attr)
			if before != after {
				changed++
				assert.Equal(t, trait.Dimension, attr, trait.Name)
				assert.Equal(t, trait.Value, after-before, trait.Name)
			}
		}
		assert.Equal(t, 1, changed, trait.Name)
	}
}

func TestModifyAttrsWithUnknownDimensionFallsBackToPhysical(t *testing.T) {
	got := ModifyAttrsWithTrait(Attributes{Physical: 1, Mental: 1, Social: 1}, Trait{Name: "Odd", Value: 2})
	assert.Equal(t, Attributes{Physical: 3, Mental: 1, Social: 1}, got)
}

func TestTraitPools(t *testing.T) {
	for _, tr := range TraitPool(Warrior) {
		assert.Equal(t, Physical, tr.Dimension)
	}
	for _, tr := range TraitPool(Adept) {
		assert.Equal(t, Mental, tr.Dimension)
	}
	for _, tr := range TraitPool(Speaker) {
		assert.Equal(t, Social, tr.Dimension)
	}
	explorer := TraitPool(Explorer)
	require.Len(t, explorer, 12)
	assert.Equal(t, Mental, explorer[0].Dimension)
	assert.Equal(t, Physical, explorer[6].Dimension)
	assert.Equal(t, TraitPool(Warrior), TraitPool("Bard"))
}

// Strong and Agile share +2; a sampled trait must keep its own name rather
// than whichever name a value lookup would find first.
func TestRandomTraitKeepsNameForSharedValues(t *testing.T) {
	strong := RandomTrait(&random.Fixed{Values: []int{0}}, Warrior)
	agile := RandomTrait(&random.Fixed{Values: []int{1}}, Warrior)
	assert.Equal(t, strong.Value, agile.Value)
	assert.Equal(t, "Strong", strong.Name)
	assert.Equal(t, "Agile", agile.Name)

	explorer := RandomTrait(&random.Fixed{Values: []int{6}}, Explorer)
	assert.Equal(t, Trait{Name: "Strong", Dimension: Physical, Value: 2}, explorer)
}

func TestNewWithType(t *testing.T) {
	// index 4 of the Mental pool is Stupid (-2).
	p := New(&random.Fixed{Values: []int{4}}, Adept)
	assert.Equal(t, Adept, p.Type)
	assert.Equal(t, "Stupid", p.Trait.Name)
	assert.Equal(t, Attributes{Physical: 6, Mental: 10, Social: 3}, p.Attributes)
	assert.Equal(t, 6*10+10*3+3*5-2, p.HP)
	assert.Equal(t, "Stupid Adept", p.Description)
	assert.Equal(t, "Stupid Adept", p.DisplayName())
}

func TestNewPicksTypeWhenOmitted(t *testing.T) {
	// first draw picks Speaker, second picks Empathetic.
	p := New(&random.Fixed{Values: []int{3, 0}}, "")
	assert.Equal(t, Speaker, p.Type)
	assert.Equal(t, "Empathetic", p.Trait.Name)
	assert.Equal(t, 14, p.Attributes.Social)
}

func TestNewIsReproducibleForSeed(t *testing.T) {
	a := New(random.New(99), "")
	b := New(random.New(99), "")
	assert.Equal(t, a, b)
}

func TestTakeDamageClampsAtZero(t *testing.T) {
	p := &Player{HP: 10}
	assert.Equal(t, 4, p.TakeDamage(6))
	assert.Equal(t, 4, p.TakeDamage(-3))
	assert.Equal(t, 0, p.TakeDamage(50))
	assert.False(t, p.Alive())
}

func TestDisplayNamePrefersName(t *testing.T) {
	p := &Player{Name: "Ayla", Description: "Strong Warrior"}
	assert.Equal(t, "Ayla", p.DisplayName())
}

func TestDifficultyCatalog(t *testing.T) {
	require.Len(t, Difficulties, 10)
	for i, d := range Difficulties {
		assert.Equal(t, (i+1)*3, d.Value, d.Name)
	}
	d, ok := DifficultyByName("Standard")
	require.True(t, ok)
	assert.Equal(t, 6, d.Value)
	_, ok = DifficultyByName("Routine")
	assert.False(t, ok)
}

func TestTraitByName(t *testing.T) {
	tr, ok := TraitByName("Apathetic")
	require.True(t, ok)
	assert.Equal(t, Trait{Name: "Apathetic", Dimension: Social, Value: -1}, tr)
	_, ok = TraitByName("Brave")
	assert.False(t, ok)
	assert.Len(t, AllTraits(), 18)
}
