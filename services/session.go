package services

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
	"tinker-realm/editor/persistence"
)

// Mode selects which layer placement commands act on.
type Mode string

const (
	ModeTile    Mode = "tile"
	ModeObject  Mode = "object"
	ModeNPC     Mode = "npc"
	ModeTrigger Mode = "trigger"
)

// Modes lists the editing modes in cycling order.
var Modes = []Mode{ModeTile, ModeObject, ModeNPC, ModeTrigger}

// ParseMode accepts one of the four editing modes.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &models.ValidationError{Field: "mode", Value: s, Reason: "must be tile, object, npc or trigger"}
}

// Cursor is the grid cell editing commands target.
type Cursor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TriggerEditor is the collaborator that edits a trigger's parameters. It is
// handed control right after a trigger is placed and on explicit edit
// requests; it reports back through UpdateTrigger.
type TriggerEditor interface {
	EditTrigger(t models.Trigger)
}

// EditorSession owns the current area and game plus the cursor, mode and
// selection state. Every method runs to completion before returning; callers
// that accept commands concurrently must serialize them.
type EditorSession struct {
	area     *models.Area
	game     *models.Game
	areaFile string
	gameFile string

	mode                 Mode
	selectedItem         string
	cursor               Cursor
	selectedTriggerIndex int

	newWidth  int
	newHeight int

	db            persistence.Storage
	assets        AssetProvider
	triggerEditor TriggerEditor
	log           logrus.FieldLogger
}

// NewEditorSession starts a session with an empty game and a new area of
// width x height.
func NewEditorSession(db persistence.Storage, assets AssetProvider, log logrus.FieldLogger, width, height int) (*EditorSession, error) {
	area, err := models.NewArea("", width, height)
	if err != nil {
		return nil, err
	}
	s := &EditorSession{
		area:         area,
		game:         models.NewGame(),
		mode:         ModeTile,
		selectedItem: models.EmptyTileType,
		newWidth:     width,
		newHeight:    height,
		db:           db,
		assets:       assets,
		log:          log,
	}
	return s, nil
}

// SetTriggerEditor installs the trigger parameter editing collaborator.
func (s *EditorSession) SetTriggerEditor(editor TriggerEditor) {
	s.triggerEditor = editor
}

func (s *EditorSession) Area() *models.Area       { return s.area }
func (s *EditorSession) Game() *models.Game       { return s.game }
func (s *EditorSession) AreaFile() string         { return s.areaFile }
func (s *EditorSession) GameFile() string         { return s.gameFile }
func (s *EditorSession) Mode() Mode               { return s.mode }
func (s *EditorSession) SelectedItem() string     { return s.selectedItem }
func (s *EditorSession) Cursor() Cursor           { return s.cursor }
func (s *EditorSession) SelectedTriggerIndex() int { return s.selectedTriggerIndex }

// Classifier returns the NPC classifier built from the asset catalog, with
// the default NPC set when the catalog has none.
func (s *EditorSession) Classifier() models.Classifier {
	if s.assets == nil {
		return models.NewNameSet(nil)
	}
	return models.NewNameSet(s.assets.NPCNames())
}

func (s *EditorSession) defaultWalkable(tileType string) bool {
	if s.assets == nil {
		return models.CategoryWalkable(tileType)
	}
	return s.assets.DefaultWalkable(tileType)
}

// SetMode switches the active layer. A selection that is not on the new
// layer's palette is replaced by the palette's first entry.
func (s *EditorSession) SetMode(m Mode) {
	s.mode = m
	items := s.Palette(m)
	if !slices.Contains(items, s.selectedItem) {
		s.selectedItem = items[0]
	}
}

// SelectItem sets the palette selection; its meaning depends on the mode.
func (s *EditorSession) SelectItem(item string) {
	s.selectedItem = item
}

// Palette lists the selectable items for a mode.
func (s *EditorSession) Palette(m Mode) []string {
	var tiles, objects, npcs, scripts []string
	if s.assets != nil {
		tiles, objects, npcs, scripts = s.assets.TileNames(), s.assets.ObjectNames(), s.assets.NPCNames(), s.assets.TriggerNames()
	}
	switch m {
	case ModeTile:
		if len(tiles) == 0 {
			return []string{models.EmptyTileType}
		}
		return tiles
	case ModeObject:
		if len(objects) == 0 {
			return []string{"item", "lever", "fountain", "chest", "barrel"}
		}
		return objects
	case ModeNPC:
		if len(npcs) == 0 {
			return append([]string(nil), models.DefaultNPCNames...)
		}
		return npcs
	default:
		items := make([]string, 0, len(models.TriggerTypes)+len(scripts))
		for _, tt := range models.TriggerTypes {
			items = append(items, string(tt))
		}
		return append(items, scripts...)
	}
}

// Direction is a cursor step.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// MoveCursor steps the cursor one cell, staying inside the area. Every move
// resets the trigger selection.
func (s *EditorSession) MoveCursor(dir Direction) error {
	c := s.cursor
	switch dir {
	case Up:
		c.Y--
	case Down:
		c.Y++
	case Left:
		c.X--
	case Right:
		c.X++
	default:
		return &models.ValidationError{Field: "direction", Value: string(dir), Reason: "must be up, down, left or right"}
	}
	s.cursor = s.clampCursor(c)
	s.selectedTriggerIndex = 0
	return nil
}

// SetCursor places the cursor directly, as pointer input does. Positions
// outside the area are rejected.
func (s *EditorSession) SetCursor(x, y int) error {
	if !s.area.InBounds(x, y) {
		return &models.ValidationError{Field: "cursor", Value: fmt.Sprintf("(%d,%d)", x, y), Reason: "outside the area"}
	}
	s.cursor = Cursor{X: x, Y: y}
	s.selectedTriggerIndex = 0
	return nil
}

func (s *EditorSession) clampCursor(c Cursor) Cursor {
	c.X = max(0, min(c.X, s.area.Width-1))
	c.Y = max(0, min(c.Y, s.area.Height-1))
	return c
}

// WalkableMode is the override choice offered for a tile.
type WalkableMode string

const (
	WalkableDefault WalkableMode = "default"
	WalkableYes     WalkableMode = "walkable"
	WalkableNo      WalkableMode = "blocked"
)

// SetWalkableOverride changes the walkability override of the tile under the
// cursor.
func (s *EditorSession) SetWalkableOverride(mode WalkableMode) error {
	tile := s.area.TileAt(s.cursor.X, s.cursor.Y)
	switch mode {
	case WalkableDefault:
		tile.WalkableOverride = nil
	case WalkableYes:
		tile.WalkableOverride = models.BoolPtr(true)
	case WalkableNo:
		tile.WalkableOverride = models.BoolPtr(false)
	default:
		return &models.ValidationError{Field: "walkable", Value: string(mode), Reason: "must be default, walkable or blocked"}
	}
	return nil
}

func overrideMode(t models.Tile) WalkableMode {
	switch {
	case t.WalkableOverride == nil:
		return WalkableDefault
	case *t.WalkableOverride:
		return WalkableYes
	default:
		return WalkableNo
	}
}

// RenameArea sets the current area's display name.
func (s *EditorSession) RenameArea(name string) {
	s.area.Name = name
}

// RenameGame sets the current game's display name.
func (s *EditorSession) RenameGame(name string) {
	s.game.Name = name
}

// ObjectInfo describes one object in a CellInfo.
type ObjectInfo struct {
	Type string `json:"type"`
	NPC  bool   `json:"npc"`
}

// TriggerInfo describes one co-located trigger in a CellInfo.
type TriggerInfo struct {
	Name        string `json:"name"`
	Type        string `json:"trigger_type"`
	Description string `json:"description"`
	Selected    bool   `json:"selected"`
}

// CellInfo summarises the cell under the cursor for property panels.
type CellInfo struct {
	X               int           `json:"x"`
	Y               int           `json:"y"`
	TileType        string        `json:"tile_type"`
	TileName        string        `json:"tile_name"`
	Category        string        `json:"category"`
	Walkable        bool          `json:"walkable"`
	DefaultWalkable bool          `json:"default_walkable"`
	Override        WalkableMode  `json:"override"`
	Blocked         bool          `json:"blocked"`
	Objects         []ObjectInfo  `json:"objects"`
	Triggers        []TriggerInfo `json:"triggers"`
}

// CellInfo inspects the cell under the cursor.
func (s *EditorSession) CellInfo() CellInfo {
	x, y := s.cursor.X, s.cursor.Y
	tile := *s.area.TileAt(x, y)
	npcs := s.Classifier()

	info := CellInfo{
		X:               x,
		Y:               y,
		TileType:        tile.Type,
		TileName:        DisplayName(tile.Type),
		Category:        string(tile.Category()),
		Walkable:        tile.IsWalkable(s.defaultWalkable),
		DefaultWalkable: s.defaultWalkable(tile.Type),
		Override:        overrideMode(tile),
		Blocked:         s.area.IsBlocked(x, y, s.defaultWalkable, npcs),
		Objects:         []ObjectInfo{},
		Triggers:        []TriggerInfo{},
	}
	for _, o := range s.area.ObjectsAt(x, y) {
		info.Objects = append(info.Objects, ObjectInfo{Type: o.Type, NPC: npcs.IsNPC(o.Type)})
	}
	for i, t := range s.area.TriggersAt(x, y) {
		info.Triggers = append(info.Triggers, TriggerInfo{
			Name:        t.Name,
			Type:        string(t.Type),
			Description: models.Describe(t),
			Selected:    i == s.selectedTriggerIndex,
		})
	}
	return info
}

// Blocked reports whether movement into (x, y) of the current area is
// blocked, using npcs to tell NPCs from plain objects.
func (s *EditorSession) Blocked(x, y int, npcs models.Classifier) bool {
	return s.area.IsBlocked(x, y, s.defaultWalkable, npcs)
}

// resetEditingState is applied whenever the area is replaced wholesale.
func (s *EditorSession) resetEditingState() {
	s.cursor = Cursor{}
	s.selectedTriggerIndex = 0
}
