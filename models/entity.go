package models

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Entity is anything placed on an area's grid at a single cell.
type Entity interface {
	GetPosition() Position
}

// GameObject represents an NPC or an interactive object. Which of the two it
// is depends on the NPC name set supplied by the asset catalog.
type GameObject struct {
	Type       string         `json:"type"`
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Properties map[string]any `json:"properties"`
}

// DefaultObjectType is the type given to stored objects that lack one.
const DefaultObjectType = "npc"

// NewGameObject creates an object of the given type at (x, y).
func NewGameObject(objectType string, x, y int) GameObject {
	return GameObject{Type: objectType, X: x, Y: y, Properties: make(map[string]any)}
}

func (o GameObject) GetPosition() Position {
	return Position{X: o.X, Y: o.Y}
}

func (o GameObject) Clone() GameObject {
	o.Properties = cloneMap(o.Properties)
	return o
}

// Classifier partitions objects into NPCs and everything else.
type Classifier interface {
	IsNPC(objectType string) bool
}

// DefaultNPCNames is used when the asset catalog supplies no NPC names.
var DefaultNPCNames = []string{"guard", "merchant", "villager"}

// NameSet is a Classifier backed by a set of NPC type names.
type NameSet map[string]struct{}

// NewNameSet builds a classifier from names, falling back to DefaultNPCNames
// when names is empty.
func NewNameSet(names []string) NameSet {
	if len(names) == 0 {
		names = DefaultNPCNames
	}
	set := make(NameSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (s NameSet) IsNPC(objectType string) bool {
	_, ok := s[objectType]
	return ok
}
