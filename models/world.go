package models

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultAreaName   = "Untitled Area"
	DefaultAreaWidth  = 20
	DefaultAreaHeight = 15
	DefaultGameName   = "Untitled Game"
)

// Area is one map: a tile grid plus object and trigger layers.
// Tiles is indexed [y][x] and always has Height rows of Width tiles.
type Area struct {
	Name     string
	Width    int
	Height   int
	Tiles    [][]Tile
	Objects  []GameObject
	Triggers []Trigger
}

// NewArea creates an area filled with default tiles.
func NewArea(name string, width, height int) (*Area, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultAreaName
	}
	return &Area{
		Name:     name,
		Width:    width,
		Height:   height,
		Tiles:    NewGrid(width, height),
		Objects:  []GameObject{},
		Triggers: []Trigger{},
	}, nil
}

// ValidateDimensions rejects non-positive grid sizes.
func ValidateDimensions(width, height int) error {
	if width <= 0 {
		return &ValidationError{Field: "width", Value: strconv.Itoa(width), Reason: "must be positive", Err: ErrInvalidDimensions}
	}
	if height <= 0 {
		return &ValidationError{Field: "height", Value: strconv.Itoa(height), Reason: "must be positive", Err: ErrInvalidDimensions}
	}
	return nil
}

// NewGrid allocates a height x width grid of default tiles.
func NewGrid(width, height int) [][]Tile {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = DefaultTile()
		}
	}
	return tiles
}

func (a *Area) InBounds(x, y int) bool {
	return x >= 0 && x < a.Width && y >= 0 && y < a.Height
}

// TileAt returns the tile at (x, y), or nil outside the grid.
func (a *Area) TileAt(x, y int) *Tile {
	if !a.InBounds(x, y) {
		return nil
	}
	return &a.Tiles[y][x]
}

// ObjectsAt returns the objects occupying (x, y).
func (a *Area) ObjectsAt(x, y int) []GameObject {
	var out []GameObject
	for _, o := range a.Objects {
		if o.X == x && o.Y == y {
			out = append(out, o)
		}
	}
	return out
}

// TriggerIndices returns the indices into Triggers of those at (x, y), in
// placement order.
func (a *Area) TriggerIndices(x, y int) []int {
	var out []int
	for i, t := range a.Triggers {
		if t.X == x && t.Y == y {
			out = append(out, i)
		}
	}
	return out
}

// TriggersAt returns the triggers at (x, y), in placement order.
func (a *Area) TriggersAt(x, y int) []Trigger {
	idx := a.TriggerIndices(x, y)
	out := make([]Trigger, 0, len(idx))
	for _, i := range idx {
		out = append(out, a.Triggers[i])
	}
	return out
}

// TriggerByName returns the index of the named trigger.
func (a *Area) TriggerByName(name string) (int, bool) {
	for i, t := range a.Triggers {
		if t.Name == name {
			return i, true
		}
	}
	return -1, false
}

const triggerNamePrefix = "trigger_"

// NextTriggerName returns trigger_<k> for the smallest positive k whose name
// is not already used anywhere in the area.
func (a *Area) NextTriggerName() string {
	used := make(map[string]struct{}, len(a.Triggers))
	for _, t := range a.Triggers {
		used[t.Name] = struct{}{}
	}
	for k := 1; ; k++ {
		name := triggerNamePrefix + strconv.Itoa(k)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}

// Rect is an inclusive bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

func (r Rect) Width() int  { return r.MaxX - r.MinX + 1 }
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

// ContentBounds covers every non-empty tile and every object and trigger
// position. ok is false when the area has no content.
func (a *Area) ContentBounds() (r Rect, ok bool) {
	include := func(x, y int) {
		if !ok {
			r = Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}
			ok = true
			return
		}
		r.MinX = min(r.MinX, x)
		r.MinY = min(r.MinY, y)
		r.MaxX = max(r.MaxX, x)
		r.MaxY = max(r.MaxY, y)
	}
	for y, row := range a.Tiles {
		for x, t := range row {
			if !t.IsEmpty() {
				include(x, y)
			}
		}
	}
	for _, o := range a.Objects {
		include(o.X, o.Y)
	}
	for _, t := range a.Triggers {
		include(t.X, t.Y)
	}
	return r, ok
}

// OutOfBounds lists entity positions that fall outside the grid.
func (a *Area) OutOfBounds() []Position {
	var out []Position
	for _, o := range a.Objects {
		if !a.InBounds(o.X, o.Y) {
			out = append(out, o.GetPosition())
		}
	}
	for _, t := range a.Triggers {
		if !a.InBounds(t.X, t.Y) {
			out = append(out, t.GetPosition())
		}
	}
	return out
}

// IsBlocked reports whether movement into (x, y) would be blocked: the tile
// is not walkable, an object there has walkable=false, or an NPC stands there
// without walkable=true.
func (a *Area) IsBlocked(x, y int, walk WalkabilityFunc, npcs Classifier) bool {
	tile := a.TileAt(x, y)
	if tile == nil {
		return true
	}
	if !tile.IsWalkable(walk) {
		return true
	}
	for _, o := range a.ObjectsAt(x, y) {
		w, set := o.Properties["walkable"].(bool)
		if npcs != nil && npcs.IsNPC(o.Type) {
			if !set || !w {
				return true
			}
			continue
		}
		if set && !w {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the area.
func (a *Area) Clone() *Area {
	out := &Area{
		Name:     a.Name,
		Width:    a.Width,
		Height:   a.Height,
		Tiles:    make([][]Tile, len(a.Tiles)),
		Objects:  make([]GameObject, len(a.Objects)),
		Triggers: make([]Trigger, len(a.Triggers)),
	}
	for y, row := range a.Tiles {
		out.Tiles[y] = make([]Tile, len(row))
		for x, t := range row {
			out.Tiles[y][x] = t.Clone()
		}
	}
	for i, o := range a.Objects {
		out.Objects[i] = o.Clone()
	}
	for i, t := range a.Triggers {
		out.Triggers[i] = t.Clone()
	}
	return out
}

// Game is a named collection of area file references plus derived
// asset-usage summaries.
type Game struct {
	Name         string         `json:"name"`
	Areas        []string       `json:"areas"`
	UsedTiles    []string       `json:"used_tiles"`
	UsedNPCs     []string       `json:"used_npcs"`
	UsedObjects  []string       `json:"used_objects"`
	UsedTriggers []string       `json:"used_triggers"`
	Properties   map[string]any `json:"properties"`
}

// NewGame returns an empty game.
func NewGame() *Game {
	g := &Game{Name: DefaultGameName}
	g.normalize()
	return g
}

func (g *Game) normalize() {
	if g.Name == "" {
		g.Name = DefaultGameName
	}
	if g.Areas == nil {
		g.Areas = []string{}
	}
	if g.UsedTiles == nil {
		g.UsedTiles = []string{}
	}
	if g.UsedNPCs == nil {
		g.UsedNPCs = []string{}
	}
	if g.UsedObjects == nil {
		g.UsedObjects = []string{}
	}
	if g.UsedTriggers == nil {
		g.UsedTriggers = []string{}
	}
	if g.Properties == nil {
		g.Properties = make(map[string]any)
	}
}

// HasArea reports whether the basename of file is referenced by the game.
func (g *Game) HasArea(file string) bool {
	base := filepath.Base(file)
	for _, a := range g.Areas {
		if a == base {
			return true
		}
	}
	return false
}

// AddArea references the basename of file. It returns false when the game
// already references it.
func (g *Game) AddArea(file string) (bool, error) {
	base := filepath.Base(file)
	if strings.TrimSpace(file) == "" || base == "." || base == string(filepath.Separator) {
		return false, &ValidationError{Field: "area file", Value: file, Reason: "must name a file"}
	}
	if g.HasArea(base) {
		return false, nil
	}
	g.Areas = append(g.Areas, base)
	return true, nil
}

func (g *Game) String() string {
	return fmt.Sprintf("%s (%d areas)", g.Name, len(g.Areas))
}
