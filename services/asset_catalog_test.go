package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinker-realm/editor/logging"
	"tinker-realm/editor/models"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestAssetCatalog_Scan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, TilesDir, "stone_wall.png"), "")
	touch(t, filepath.Join(root, TilesDir, "grass_floor.PNG"), "")
	touch(t, filepath.Join(root, TilesDir, "notes.txt"), "")
	touch(t, filepath.Join(root, NPCsDir, "wizard.png"), "")
	touch(t, filepath.Join(root, TriggersDir, "open_gate.py"), "print('open')\n")

	c, err := NewAssetCatalog(root, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, []string{"empty", "grass_floor", "stone_wall"}, c.TileNames())
	assert.Equal(t, []string{"wizard"}, c.NPCNames())
	assert.Empty(t, c.ObjectNames())
	assert.Equal(t, []string{"open_gate"}, c.TriggerNames())
	code, ok := c.TriggerCode("open_gate")
	require.True(t, ok)
	assert.Equal(t, "print('open')\n", code)

	assert.DirExists(t, filepath.Join(root, ObjectsDir))
}

func TestAssetCatalog_Reload(t *testing.T) {
	root := t.TempDir()
	c, err := NewAssetCatalog(root, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, c.TileNames())

	touch(t, filepath.Join(root, ObjectsDir, "chest.png"), "")
	loaded, err := c.Reload()
	require.NoError(t, err)
	assert.Equal(t, []string{ObjectsDir}, loaded)
	assert.Equal(t, []string{"chest"}, c.ObjectNames())
}

func TestAssetCatalog_Walkability(t *testing.T) {
	c, err := NewAssetCatalog(t.TempDir(), logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.CategoryDoor, c.Category("oak_door_closed"))
	assert.True(t, c.DefaultWalkable("oak_door_closed"))
	assert.True(t, c.DefaultWalkable("spiral_stairs"))
	assert.False(t, c.DefaultWalkable("brick_wall"))
	assert.False(t, c.DefaultWalkable("mystery"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Stone Wall", DisplayName("stone_wall"))
	assert.Equal(t, "Élan Floor", DisplayName("élan_FLOOR"))
	assert.Equal(t, "", DisplayName(""))
}
