package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinker-realm/editor/models"
	"tinker-realm/editor/persistence"
)

func TestSaveAndOpenArea(t *testing.T) {
	s, _ := newTestSession(t, 4, 3)
	s.RenameArea("Cellar")
	require.NoError(t, s.SetCursor(2, 2))
	s.SelectItem("stone_wall")
	_, err := s.Place()
	require.NoError(t, err)

	_, err = s.SaveArea("")
	assert.ErrorIs(t, err, ErrNoFile)

	key, err := s.SaveArea("cellar")
	require.NoError(t, err)
	assert.Equal(t, "cellar.json", key)
	assert.Equal(t, "cellar.json", s.AreaFile())

	require.NoError(t, s.NewArea())
	assert.Equal(t, models.DefaultAreaName, s.Area().Name)
	assert.Equal(t, "", s.AreaFile())
	assert.Equal(t, Cursor{}, s.Cursor())

	require.NoError(t, s.OpenArea("cellar.json"))
	assert.Equal(t, "Cellar", s.Area().Name)
	assert.Equal(t, "stone_wall", s.Area().TileAt(2, 2).Type)
	assert.Equal(t, Cursor{}, s.Cursor())

	key, err = s.SaveArea("")
	require.NoError(t, err)
	assert.Equal(t, "cellar.json", key)
}

func TestOpenArea_FailureKeepsCurrent(t *testing.T) {
	s, _ := newTestSession(t, 4, 3)
	s.RenameArea("Keep Me")

	err := s.OpenArea("absent.json")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.Equal(t, "Keep Me", s.Area().Name)
}

func TestOpenGame_LoadsFirstArea(t *testing.T) {
	s, store := newTestSession(t, 2, 2)
	first := areaWithTiles(t, "moss_floor")
	first.Name = "Entrance"
	require.NoError(t, store.SaveArea("entrance.json", first))

	game := models.NewGame()
	game.Name = "Quest"
	game.Areas = []string{"entrance.json", "gone.json"}
	require.NoError(t, store.SaveGame("quest.json", game))

	available, err := s.OpenGame("quest")
	require.NoError(t, err)
	assert.Equal(t, []string{"entrance.json"}, available)
	assert.Equal(t, "Quest", s.Game().Name)
	assert.Equal(t, "quest.json", s.GameFile())
	assert.Equal(t, "Entrance", s.Area().Name)
	assert.Equal(t, "entrance.json", s.AreaFile())

	_, err = s.OpenGame("missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.Equal(t, "Quest", s.Game().Name)
}

func TestAddAreaToGame(t *testing.T) {
	s, _ := newTestSession(t, 2, 2)

	_, err := s.AddAreaToGame()
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = s.SaveArea("meadow")
	require.NoError(t, err)
	added, err := s.AddAreaToGame()
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddAreaToGame()
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"meadow.json"}, s.Game().Areas)
}

func TestSaveAll(t *testing.T) {
	s, store := newTestSession(t, 2, 2)
	s.SelectItem("grass_floor")
	_, err := s.Place()
	require.NoError(t, err)

	report := s.SaveAll("meadow", "quest")
	assert.True(t, report.OK(), report.Errors)
	assert.Equal(t, []string{"Area: meadow.json", "Game assets updated", "Game: quest.json"}, report.Saved)

	game, err := store.LoadGame("quest.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"meadow.json"}, game.Areas)
	assert.Equal(t, []string{"grass_floor"}, game.UsedTiles)

	report = s.SaveAll("", "")
	assert.True(t, report.OK())
	assert.Equal(t, []string{"meadow.json"}, s.Game().Areas)
}

func TestSaveAll_PartialFailure(t *testing.T) {
	s, _ := newTestSession(t, 2, 2)
	_, err := s.SaveGame("quest")
	require.NoError(t, err)

	report := s.SaveAll("", "")
	assert.False(t, report.OK())
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], ErrNoFile.Error())
	assert.Contains(t, report.Saved, "Game: quest.json")
}

func TestNewGame_ReplacesArea(t *testing.T) {
	s, _ := newTestSession(t, 2, 2)
	s.RenameGame("Old")
	s.RenameArea("Old Area")
	_, err := s.SaveGame("old")
	require.NoError(t, err)

	require.NoError(t, s.NewGame())
	assert.Equal(t, models.DefaultGameName, s.Game().Name)
	assert.Equal(t, models.DefaultAreaName, s.Area().Name)
	assert.Equal(t, "", s.GameFile())
}
