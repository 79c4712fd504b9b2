package player

// Attribute names one of the three attribute dimensions.
type Attribute string

const (
	Physical Attribute = "Physical"
	Social   Attribute = "Social"
	Mental   Attribute = "Mental"
)

// AllAttributes lists the dimensions in display order.
var AllAttributes = []Attribute{Physical, Social, Mental}

// Valid reports whether a is one of the three dimensions.
func (a Attribute) Valid() bool {
	switch a {
	case Physical, Social, Mental:
		return true
	}
	return false
}

// Attributes holds a player's value in each dimension.
type Attributes struct {
	Physical int `yaml:"physical"`
	Social   int `yaml:"social"`
	Mental   int `yaml:"mental"`
}

// Get returns the value for attr. ok is false for an unknown attribute.
func (a Attributes) Get(attr Attribute) (value int, ok bool) {
	switch attr {
	case Physical:
		return a.Physical, true
	case Social:
		return a.Social, true
	case Mental:
		return a.Mental, true
	}
	return 0, false
}

// With returns a copy of a with attr set to v. Unknown attributes leave a
// unchanged.
func (a Attributes) With(attr Attribute, v int) Attributes {
	switch attr {
	case Physical:
		a.Physical = v
	case Social:
		a.Social = v
	case Mental:
		a.Mental = v
	}
	return a
}

// Trait is a named modifier belonging to one dimension.
type Trait struct {
	Name      string    `yaml:"name"`
	Dimension Attribute `yaml:"dimension"`
	Value     int       `yaml:"value"`
}

// String returns the trait name.
func (t Trait) String() string { return t.Name }

// Several traits share a value (Strong and Agile are both +2), so traits are
// only ever looked up by name.
var traits = []Trait{
	{"Strong", Physical, 2},
	{"Agile", Physical, 2},
	{"Healthy", Physical, 1},
	{"Average", Physical, 0},
	{"Unhealthy", Physical, -2},
	{"Slow", Physical, -2},

	{"Creative", Mental, 2},
	{"Intelligent", Mental, 2},
	{"Curious", Mental, 1},
	{"Unremarkable", Mental, 0},
	{"Stupid", Mental, -2},
	{"Uncreative", Mental, -2},

	{"Empathetic", Social, 2},
	{"Outgoing", Social, 2},
	{"Adequate", Social, 0},
	{"Apathetic", Social, -1},
	{"Shy", Social, -2},
	{"Antisocial", Social, -2},
}

var (
	traitsByName      = make(map[string]Trait, len(traits))
	traitsByDimension = make(map[Attribute][]Trait, len(AllAttributes))
)

func init() {
	for _, t := range traits {
		traitsByName[t.Name] = t
		traitsByDimension[t.Dimension] = append(traitsByDimension[t.Dimension], t)
	}
}

// AllTraits returns the full catalog in declaration order.
func AllTraits() []Trait {
	return append([]Trait(nil), traits...)
}

// TraitByName looks up a catalog trait.
func TraitByName(name string) (Trait, bool) {
	t, ok := traitsByName[name]
	return t, ok
}

// TraitsFor returns the catalog traits of one dimension.
func TraitsFor(dim Attribute) []Trait {
	return append([]Trait(nil), traitsByDimension[dim]...)
}

// Difficulty is a named base target for a check.
type Difficulty struct {
	Name  string
	Value int
}

// Difficulties is the ordered difficulty catalog.
var Difficulties = []Difficulty{
	{"Simple", 3},
	{"Standard", 6},
	{"Demanding", 9},
	{"Difficult", 12},
	{"Challenging", 15},
	{"Intimidating", 18},
	{"Formidable", 21},
	{"Heroic", 24},
	{"Immortal", 27},
	{"Impossible", 30},
}

// DifficultyByName looks up a difficulty.
func DifficultyByName(name string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}
