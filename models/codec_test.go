package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArea(t *testing.T) *Area {
	t.Helper()
	a, err := NewArea("Crypt", 4, 3)
	require.NoError(t, err)

	a.Tiles[0][0] = NewTile("stone_wall")
	a.Tiles[0][0].Properties["hp"] = 3
	a.Tiles[1][2] = NewTile("wood_floor")
	a.Tiles[1][2].WalkableOverride = BoolPtr(false)
	a.Tiles[1][2].Properties["note"] = map[string]any{
		"layers": []any{1, "two", map[string]any{"deep": true}},
		"big":    json.Number("12345678901234567890"),
		"ratio":  0.1,
		"exact":  json.Number("1.50"),
	}

	chest := NewGameObject("chest", 3, 2)
	chest.Properties["contents"] = []any{"gold", 25}
	a.Objects = append(a.Objects, chest, NewGameObject("guard", 0, 1))

	tp := NewTrigger(TriggerTeleport, "trigger_1", 2, 2)
	tp.Parameters["area"] = "town.json"
	tp.Parameters["extra"] = map[string]any{"nested": []any{nil, false}}
	a.Triggers = append(a.Triggers, tp, NewTrigger(TriggerShowDialog, "trigger_2", 2, 2))
	return a
}

func TestAreaRoundTrip(t *testing.T) {
	a := sampleArea(t)

	first, err := EncodeArea(a)
	require.NoError(t, err)

	decoded, err := DecodeArea(first)
	require.NoError(t, err)

	assert.Equal(t, a, decoded)
	assert.Equal(t, "Teleport to town.json (0,0)", Describe(decoded.Triggers[0]))

	second, err := EncodeArea(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Contains(t, string(second), "12345678901234567890")
}

func TestDecodeArea_AppliesDefaults(t *testing.T) {
	data := []byte(`{
		"name": "Sparse",
		"width": 3,
		"height": 2,
		"tiles": [[{"type": "grass"}, {}], [null]],
		"objects": [{"x": 1, "y": 1}],
		"triggers": [{"x": 0, "y": 0, "trigger_type": "inventory"}]
	}`)
	a, err := DecodeArea(data)
	require.NoError(t, err)

	require.Len(t, a.Tiles, 2)
	require.Len(t, a.Tiles[0], 3)
	assert.Equal(t, "grass", a.Tiles[0][0].Type)
	assert.NotNil(t, a.Tiles[0][0].Properties)
	assert.True(t, a.Tiles[0][1].IsEmpty())
	assert.True(t, a.Tiles[1][2].IsEmpty())

	require.Len(t, a.Objects, 1)
	assert.Equal(t, DefaultObjectType, a.Objects[0].Type)
	assert.NotNil(t, a.Objects[0].Properties)

	require.Len(t, a.Triggers, 1)
	assert.Equal(t, "trigger_1", a.Triggers[0].Name)
	assert.Equal(t, "Inventory change", Describe(a.Triggers[0]))
}

func TestDecodeArea_NormalizesNumbers(t *testing.T) {
	a, err := DecodeArea([]byte(`{"width":1,"height":1,
		"tiles":[[{"type":"a_floor","properties":{"n":4,"f":2.5,"keep":1.0,"list":[7,{"k":-3}]}}]],
		"triggers":[{"x":0,"y":0,"actions":[{"delay":10}]}]}`))
	require.NoError(t, err)

	props := a.Tiles[0][0].Properties
	assert.Equal(t, 4, props["n"])
	assert.Equal(t, 2.5, props["f"])
	assert.Equal(t, json.Number("1.0"), props["keep"])
	assert.Equal(t, []any{7, map[string]any{"k": -3}}, props["list"])
	assert.Equal(t, 10, a.Triggers[0].Actions[0]["delay"])
}

func TestDecodeArea_MissingDimensions(t *testing.T) {
	a, err := DecodeArea([]byte(`{"tiles": [["a_floor", "b_floor"]]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultAreaName, a.Name)
	assert.Equal(t, 2, a.Width)
	assert.Equal(t, 1, a.Height)
	assert.Equal(t, "b_floor", a.Tiles[0][1].Type)

	empty, err := DecodeArea([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultAreaWidth, empty.Width)
	assert.Equal(t, DefaultAreaHeight, empty.Height)

	_, err = DecodeArea([]byte(`{"width": -1, "height": 2}`))
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = DecodeArea([]byte(`{"width": 2`))
	assert.Error(t, err)
}

func TestDecodeArea_LegacyTriggers(t *testing.T) {
	data := []byte(`{
		"name": "Old", "width": 2, "height": 2,
		"triggers": [
			{"x": 1, "y": 0, "actions": [{"type": "python_script", "script": "open_gate"}]},
			{"x": 0, "y": 1},
			{"x": 1, "y": 1, "trigger_type": "show_dialog", "name": "trigger_1", "parameters": {"message": "hi"}}
		]
	}`)
	a, err := DecodeArea(data)
	require.NoError(t, err)
	require.Len(t, a.Triggers, 3)

	legacy := a.Triggers[0]
	assert.True(t, legacy.IsLegacy())
	assert.Equal(t, []map[string]any{{"type": "python_script", "script": "open_gate"}}, legacy.Actions)
	assert.Equal(t, "Legacy trigger (1 actions)", Describe(legacy))

	assert.True(t, a.Triggers[1].IsLegacy())
	assert.Empty(t, a.Triggers[1].Actions)

	assert.Equal(t, TriggerShowDialog, a.Triggers[2].Type)

	// Every trigger ends up with an area-unique name.
	names := map[string]bool{}
	for _, trig := range a.Triggers {
		require.NotEmpty(t, trig.Name)
		assert.False(t, names[trig.Name], "duplicate %s", trig.Name)
		names[trig.Name] = true
	}

	// Legacy triggers are written back in legacy shape.
	out, err := json.Marshal(a.Triggers[0])
	require.NoError(t, err)
	var shape map[string]any
	require.NoError(t, json.Unmarshal(out, &shape))
	assert.Contains(t, shape, "actions")
	assert.NotContains(t, shape, "trigger_type")
}

func TestDecodeArea_UnknownTriggerTypeFails(t *testing.T) {
	_, err := DecodeArea([]byte(`{"width":1,"height":1,"triggers":[{"x":0,"y":0,"trigger_type":"explode"}]}`))
	assert.ErrorIs(t, err, ErrUnknownTriggerType)
}

func TestDecodeArea_KeepsOutOfRangeEntities(t *testing.T) {
	a, err := DecodeArea([]byte(`{"width":2,"height":2,"objects":[{"type":"chest","x":5,"y":0}]}`))
	require.NoError(t, err)
	require.Len(t, a.Objects, 1)
	assert.Equal(t, []Position{{X: 5, Y: 0}}, a.OutOfBounds())
}

func TestAreaUnmarshalJSON(t *testing.T) {
	var a Area
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","width":1,"height":1,"tiles":[[{"type":"a_floor"}]]}`), &a))
	assert.Equal(t, "a_floor", a.Tiles[0][0].Type)
}

func TestGameRoundTrip(t *testing.T) {
	g, err := DecodeGame([]byte(`{"name": "Quest", "areas": ["a.json"], "properties": {"version": 2}}`))
	require.NoError(t, err)
	assert.Equal(t, "Quest", g.Name)
	assert.Equal(t, []string{"a.json"}, g.Areas)
	assert.NotNil(t, g.UsedTiles)
	assert.Equal(t, 2, g.Properties["version"])

	data, err := EncodeGame(g)
	require.NoError(t, err)
	again, err := DecodeGame(data)
	require.NoError(t, err)
	assert.Equal(t, g, again)

	blank, err := DecodeGame([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultGameName, blank.Name)
}
