package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinker-realm/editor/logging"
	"tinker-realm/editor/models"
	"tinker-realm/editor/persistence"
)

type stubAssets struct {
	tiles, npcs, objects, triggers []string
}

func (a stubAssets) DefaultWalkable(tileType string) bool { return models.CategoryWalkable(tileType) }
func (a stubAssets) TileNames() []string                  { return a.tiles }
func (a stubAssets) NPCNames() []string                   { return a.npcs }
func (a stubAssets) ObjectNames() []string                { return a.objects }
func (a stubAssets) TriggerNames() []string               { return a.triggers }

type recordingEditor struct {
	edited []models.Trigger
}

func (r *recordingEditor) EditTrigger(t models.Trigger) {
	r.edited = append(r.edited, t)
}

func newTestSession(t *testing.T, width, height int) (*EditorSession, *persistence.JSONStore) {
	t.Helper()
	store, err := persistence.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	assets := stubAssets{
		tiles:   []string{"empty", "stone_wall", "grass_floor"},
		npcs:    []string{"guard", "wizard"},
		objects: []string{"chest", "lever"},
	}
	s, err := NewEditorSession(store, assets, logging.Discard(), width, height)
	require.NoError(t, err)
	return s, store
}

func TestNewEditorSession(t *testing.T) {
	s, _ := newTestSession(t, 8, 5)

	assert.Equal(t, 8, s.Area().Width)
	assert.Equal(t, 5, s.Area().Height)
	assert.Equal(t, ModeTile, s.Mode())
	assert.Equal(t, Cursor{}, s.Cursor())
	assert.Equal(t, models.DefaultGameName, s.Game().Name)

	_, err := NewEditorSession(nil, nil, logging.Discard(), 0, 5)
	assert.ErrorIs(t, err, models.ErrInvalidDimensions)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("npc")
	require.NoError(t, err)
	assert.Equal(t, ModeNPC, m)

	_, err = ParseMode("paint")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMoveCursor_ClampsAndResetsSelection(t *testing.T) {
	s, _ := newTestSession(t, 3, 2)

	require.NoError(t, s.MoveCursor(Left))
	require.NoError(t, s.MoveCursor(Up))
	assert.Equal(t, Cursor{X: 0, Y: 0}, s.Cursor())

	for i := 0; i < 5; i++ {
		require.NoError(t, s.MoveCursor(Right))
		require.NoError(t, s.MoveCursor(Down))
	}
	assert.Equal(t, Cursor{X: 2, Y: 1}, s.Cursor())

	s.SetMode(ModeTrigger)
	s.SelectItem(string(models.TriggerTeleport))
	_, err := s.Place()
	require.NoError(t, err)
	_, err = s.Place()
	require.NoError(t, err)
	assert.Equal(t, 1, s.SelectedTriggerIndex())

	require.NoError(t, s.MoveCursor(Left))
	assert.Equal(t, 0, s.SelectedTriggerIndex())

	assert.Error(t, s.MoveCursor("sideways"))
}

func TestSetCursor(t *testing.T) {
	s, _ := newTestSession(t, 4, 4)

	require.NoError(t, s.SetCursor(3, 2))
	assert.Equal(t, Cursor{X: 3, Y: 2}, s.Cursor())

	err := s.SetCursor(4, 0)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, Cursor{X: 3, Y: 2}, s.Cursor())
}

func TestPalette(t *testing.T) {
	s, _ := newTestSession(t, 2, 2)
	assert.Equal(t, []string{"empty", "stone_wall", "grass_floor"}, s.Palette(ModeTile))
	assert.Equal(t, []string{"guard", "wizard"}, s.Palette(ModeNPC))
	assert.Len(t, s.Palette(ModeTrigger), len(models.TriggerTypes))

	bare, err := NewEditorSession(nil, stubAssets{triggers: []string{"open_gate"}}, logging.Discard(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, bare.Palette(ModeTile))
	assert.Equal(t, []string{"item", "lever", "fountain", "chest", "barrel"}, bare.Palette(ModeObject))
	assert.Equal(t, models.DefaultNPCNames, bare.Palette(ModeNPC))
	items := bare.Palette(ModeTrigger)
	assert.Equal(t, "open_gate", items[len(items)-1])
}

func TestSetWalkableOverride(t *testing.T) {
	s, _ := newTestSession(t, 2, 2)
	s.SelectItem("stone_wall")
	_, err := s.Place()
	require.NoError(t, err)

	info := s.CellInfo()
	assert.False(t, info.Walkable)
	assert.True(t, info.Blocked)
	assert.Equal(t, WalkableDefault, info.Override)

	require.NoError(t, s.SetWalkableOverride(WalkableYes))
	info = s.CellInfo()
	assert.True(t, info.Walkable)
	assert.False(t, info.DefaultWalkable)
	assert.Equal(t, WalkableYes, info.Override)

	require.NoError(t, s.SetWalkableOverride(WalkableDefault))
	assert.Nil(t, s.Area().TileAt(0, 0).WalkableOverride)

	assert.Error(t, s.SetWalkableOverride("sometimes"))
}

func TestCellInfo(t *testing.T) {
	s, _ := newTestSession(t, 3, 3)
	s.SelectItem("grass_floor")
	_, err := s.Place()
	require.NoError(t, err)

	s.SetMode(ModeNPC)
	s.SelectItem("wizard")
	_, err = s.Place()
	require.NoError(t, err)

	s.SetMode(ModeTrigger)
	s.SelectItem(string(models.TriggerShowDialog))
	_, err = s.Place()
	require.NoError(t, err)

	info := s.CellInfo()
	assert.Equal(t, "grass_floor", info.TileType)
	assert.Equal(t, "Grass Floor", info.TileName)
	assert.Equal(t, string(models.CategoryFloor), info.Category)
	assert.True(t, info.Blocked, "an NPC blocks unless marked walkable")
	require.Len(t, info.Objects, 1)
	assert.Equal(t, ObjectInfo{Type: "wizard", NPC: true}, info.Objects[0])
	require.Len(t, info.Triggers, 1)
	assert.Equal(t, "trigger_1", info.Triggers[0].Name)
	assert.True(t, info.Triggers[0].Selected)
	assert.Equal(t, "Dialog: ", info.Triggers[0].Description)
}

func TestRename(t *testing.T) {
	s, _ := newTestSession(t, 2, 2)
	s.RenameArea("Cellar")
	s.RenameGame("Dungeon Crawl")
	assert.Equal(t, "Cellar", s.Area().Name)
	assert.Equal(t, "Dungeon Crawl", s.Game().Name)
}
