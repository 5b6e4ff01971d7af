package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
)

// AssetProvider is the asset-management collaborator the session consults
// for palettes, NPC classification and default walkability.
type AssetProvider interface {
	DefaultWalkable(tileType string) bool
	TileNames() []string
	NPCNames() []string
	ObjectNames() []string
	TriggerNames() []string
}

// Asset group directories under the catalog root.
const (
	TilesDir    = "tiles"
	NPCsDir     = "npcs"
	ObjectsDir  = "objects"
	TriggersDir = "triggers"
)

// AssetCatalog indexes the asset files found under a root directory. Images
// are never decoded here; only names and trigger script text are kept.
type AssetCatalog struct {
	root     string
	log      logrus.FieldLogger
	mutex    sync.RWMutex
	tiles    []string
	npcs     []string
	objects  []string
	triggers map[string]string
}

// NewAssetCatalog scans root and returns the populated catalog.
func NewAssetCatalog(root string, log logrus.FieldLogger) (*AssetCatalog, error) {
	c := &AssetCatalog{root: root, log: log, triggers: map[string]string{}}
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rescans every asset directory, creating missing ones, and returns
// the groups that contained at least one asset.
func (c *AssetCatalog) Reload() ([]string, error) {
	tiles, err := c.scan(TilesDir, ".png")
	if err != nil {
		return nil, err
	}
	npcs, err := c.scan(NPCsDir, ".png")
	if err != nil {
		return nil, err
	}
	objects, err := c.scan(ObjectsDir, ".png")
	if err != nil {
		return nil, err
	}
	scripts, err := c.scan(TriggersDir, ".py")
	if err != nil {
		return nil, err
	}

	triggers := make(map[string]string, len(scripts))
	for _, name := range scripts {
		path := filepath.Join(c.root, TriggersDir, name+".py")
		code, err := os.ReadFile(path)
		if err != nil {
			c.log.WithError(err).WithField("file", path).Warn("Skipping unreadable trigger script")
			continue
		}
		triggers[name] = string(code)
	}

	var loaded []string
	for _, g := range []struct {
		name  string
		count int
	}{{TilesDir, len(tiles)}, {NPCsDir, len(npcs)}, {ObjectsDir, len(objects)}, {TriggersDir, len(triggers)}} {
		if g.count > 0 {
			loaded = append(loaded, g.name)
		}
	}

	c.mutex.Lock()
	c.tiles, c.npcs, c.objects, c.triggers = tiles, npcs, objects, triggers
	c.mutex.Unlock()

	c.log.WithFields(logrus.Fields{
		"tiles":    len(tiles),
		"npcs":     len(npcs),
		"objects":  len(objects),
		"triggers": len(triggers),
	}).Info("Assets loaded")
	return loaded, nil
}

func (c *AssetCatalog) scan(dir, ext string) ([]string, error) {
	full := filepath.Join(c.root, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s directory: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// TileNames always starts with the empty tile.
func (c *AssetCatalog) TileNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := []string{models.EmptyTileType}
	for _, n := range c.tiles {
		if n != models.EmptyTileType {
			names = append(names, n)
		}
	}
	return names
}

func (c *AssetCatalog) NPCNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return append([]string(nil), c.npcs...)
}

func (c *AssetCatalog) ObjectNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return append([]string(nil), c.objects...)
}

func (c *AssetCatalog) TriggerNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := make([]string, 0, len(c.triggers))
	for n := range c.triggers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TriggerCode returns the text of an external trigger script.
func (c *AssetCatalog) TriggerCode(name string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	code, ok := c.triggers[name]
	return code, ok
}

func (c *AssetCatalog) Category(tileType string) models.Category {
	return models.TileCategory(tileType)
}

func (c *AssetCatalog) DefaultWalkable(tileType string) bool {
	return models.CategoryWalkable(tileType)
}

// DisplayName turns an asset identifier into a title-cased label.
func DisplayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
