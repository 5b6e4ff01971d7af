package models

import "strings"

// EmptyTileType is the type of a default-constructed tile.
const EmptyTileType = "empty"

// Category is a tile's structural class, derived from its type identifier.
type Category string

const (
	CategoryWall    Category = "wall"
	CategoryFloor   Category = "floor"
	CategoryDoor    Category = "door"
	CategoryStairs  Category = "stairs"
	CategoryUnknown Category = "unknown"
)

// TileCategory maps a tile identifier to its category by naming convention.
func TileCategory(tileType string) Category {
	switch {
	case strings.Contains(tileType, "_wall"):
		return CategoryWall
	case strings.Contains(tileType, "_floor"):
		return CategoryFloor
	case strings.Contains(tileType, "_door_"):
		return CategoryDoor
	case strings.Contains(tileType, "_stairs"):
		return CategoryStairs
	default:
		return CategoryUnknown
	}
}

// CategoryWalkable is the walkability every category grants by default.
func CategoryWalkable(tileType string) bool {
	switch TileCategory(tileType) {
	case CategoryFloor, CategoryDoor, CategoryStairs:
		return true
	default:
		return false
	}
}

// WalkabilityFunc resolves the category-default walkability of a tile type.
type WalkabilityFunc func(tileType string) bool

// Tile is one grid cell's terrain identity and walkability override.
type Tile struct {
	Type             string         `json:"type"`
	WalkableOverride *bool          `json:"walkable_override"`
	Properties       map[string]any `json:"properties"`
}

// NewTile creates a tile of the given type that inherits its walkability.
func NewTile(tileType string) Tile {
	if tileType == "" {
		tileType = EmptyTileType
	}
	return Tile{Type: tileType, Properties: make(map[string]any)}
}

// DefaultTile returns the empty tile every new grid is filled with.
func DefaultTile() Tile {
	return NewTile(EmptyTileType)
}

// IsEmpty reports whether the tile is the default "empty" tile type.
func (t Tile) IsEmpty() bool {
	return t.Type == EmptyTileType
}

func (t Tile) Category() Category {
	return TileCategory(t.Type)
}

// IsWalkable returns the override when present, else the category default.
func (t Tile) IsWalkable(defaultWalkable WalkabilityFunc) bool {
	if t.WalkableOverride != nil {
		return *t.WalkableOverride
	}
	if defaultWalkable == nil {
		defaultWalkable = CategoryWalkable
	}
	return defaultWalkable(t.Type)
}

// Clone returns a copy that shares no mutable state with t.
func (t Tile) Clone() Tile {
	out := Tile{Type: t.Type, Properties: cloneMap(t.Properties)}
	if t.WalkableOverride != nil {
		v := *t.WalkableOverride
		out.WalkableOverride = &v
	}
	return out
}

// BoolPtr is a helper for building walkability overrides.
func BoolPtr(v bool) *bool {
	return &v
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
