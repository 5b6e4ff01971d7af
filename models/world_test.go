package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArea(t *testing.T) {
	a, err := NewArea("", 4, 3)
	require.NoError(t, err)
	assert.Equal(t, DefaultAreaName, a.Name)
	require.Len(t, a.Tiles, 3)
	for _, row := range a.Tiles {
		require.Len(t, row, 4)
		for _, tile := range row {
			assert.True(t, tile.IsEmpty())
			assert.NotNil(t, tile.Properties)
		}
	}

	_, err = NewArea("bad", 0, 3)
	assert.True(t, errors.Is(err, ErrInvalidDimensions))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "width", verr.Field)
}

func TestNextTriggerName_FillsGaps(t *testing.T) {
	a, err := NewArea("a", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, "trigger_1", a.NextTriggerName())

	a.Triggers = append(a.Triggers,
		NewTrigger(TriggerCustom, "trigger_1", 0, 0),
		NewTrigger(TriggerCustom, "trigger_3", 4, 4),
	)
	assert.Equal(t, "trigger_2", a.NextTriggerName())

	// Uniqueness is area-wide, not per cell.
	a.Triggers = append(a.Triggers, NewTrigger(TriggerCustom, "trigger_2", 2, 2))
	assert.Equal(t, "trigger_4", a.NextTriggerName())

	// Names that merely look similar do not count.
	b, _ := NewArea("b", 2, 2)
	b.Triggers = append(b.Triggers, NewTrigger(TriggerCustom, "trigger_01", 0, 0), NewTrigger(TriggerCustom, "door", 0, 0))
	assert.Equal(t, "trigger_1", b.NextTriggerName())
}

func TestContentBounds(t *testing.T) {
	a, _ := NewArea("a", 10, 10)
	_, ok := a.ContentBounds()
	assert.False(t, ok)

	a.Tiles[2][3] = NewTile("stone_floor")
	a.Objects = append(a.Objects, NewGameObject("chest", 7, 5))
	a.Triggers = append(a.Triggers, NewTrigger(TriggerTeleport, "trigger_1", 4, 1))

	r, ok := a.ContentBounds()
	require.True(t, ok)
	assert.Equal(t, Rect{MinX: 3, MinY: 1, MaxX: 7, MaxY: 5}, r)
	assert.Equal(t, 5, r.Width())
	assert.Equal(t, 5, r.Height())
}

func TestTileWalkability(t *testing.T) {
	assert.Equal(t, CategoryWall, TileCategory("stone_wall"))
	assert.Equal(t, CategoryFloor, TileCategory("wood_floor"))
	assert.Equal(t, CategoryDoor, TileCategory("oak_door_open"))
	assert.Equal(t, CategoryStairs, TileCategory("stone_stairs_up"))
	assert.Equal(t, CategoryUnknown, TileCategory("grass"))

	floor := NewTile("wood_floor")
	assert.True(t, floor.IsWalkable(nil))
	floor.WalkableOverride = BoolPtr(false)
	assert.False(t, floor.IsWalkable(nil))

	wall := NewTile("stone_wall")
	assert.True(t, wall.IsWalkable(func(string) bool { return true }))
}

func TestIsBlocked(t *testing.T) {
	a, _ := NewArea("a", 3, 1)
	for x := range a.Tiles[0] {
		a.Tiles[0][x] = NewTile("wood_floor")
	}
	npcs := NewNameSet(nil)

	assert.False(t, a.IsBlocked(0, 0, nil, npcs))

	barrel := NewGameObject("barrel", 0, 0)
	barrel.Properties["walkable"] = false
	a.Objects = append(a.Objects, barrel)
	assert.True(t, a.IsBlocked(0, 0, nil, npcs))

	a.Objects = append(a.Objects, NewGameObject("guard", 1, 0))
	assert.True(t, a.IsBlocked(1, 0, nil, npcs))

	friendly := NewGameObject("villager", 2, 0)
	friendly.Properties["walkable"] = true
	a.Objects = append(a.Objects, friendly)
	assert.False(t, a.IsBlocked(2, 0, nil, npcs))

	assert.True(t, a.IsBlocked(5, 5, nil, npcs))
}

func TestNameSetFallback(t *testing.T) {
	def := NewNameSet(nil)
	assert.True(t, def.IsNPC("guard"))
	assert.False(t, def.IsNPC("chest"))

	custom := NewNameSet([]string{"wizard"})
	assert.True(t, custom.IsNPC("wizard"))
	assert.False(t, custom.IsNPC("guard"))
}

func TestGameAddArea(t *testing.T) {
	g := NewGame()
	added, err := g.AddArea("areas/town.json")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = g.AddArea("town.json")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"town.json"}, g.Areas)

	_, err = g.AddArea("")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCloneIsDeep(t *testing.T) {
	a, _ := NewArea("a", 2, 2)
	a.Tiles[0][0].Properties["loot"] = map[string]any{"gold": 3}
	a.Objects = append(a.Objects, NewGameObject("chest", 1, 1))
	c := a.Clone()
	c.Tiles[0][0].Properties["loot"].(map[string]any)["gold"] = 9
	c.Objects[0].X = 0
	assert.Equal(t, 3, a.Tiles[0][0].Properties["loot"].(map[string]any)["gold"])
	assert.Equal(t, 1, a.Objects[0].X)
}
