package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"tinker-realm/editor/models"
)

const (
	areasDir = "areas"
	gamesDir = "games"
)

// JSONStore keeps one JSON file per area under <root>/areas and one per game
// under <root>/games.
type JSONStore struct {
	root  string
	mutex sync.RWMutex
}

// NewJSONStore creates the store, creating its directories when missing.
func NewJSONStore(root string) (*JSONStore, error) {
	if root == "" {
		root = "."
	}
	for _, dir := range []string{areasDir, gamesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}
	return &JSONStore{root: root}, nil
}

// AreaPath returns where the store keeps the given area file.
func (js *JSONStore) AreaPath(file string) (string, error) {
	key, err := FileKey(file)
	if err != nil {
		return "", err
	}
	return filepath.Join(js.root, areasDir, key), nil
}

func (js *JSONStore) gamePath(file string) (string, error) {
	key, err := FileKey(file)
	if err != nil {
		return "", err
	}
	return filepath.Join(js.root, gamesDir, key), nil
}

// SaveArea writes an area to its file.
func (js *JSONStore) SaveArea(file string, area *models.Area) error {
	path, err := js.AreaPath(file)
	if err != nil {
		return err
	}
	data, err := models.EncodeArea(area)
	if err != nil {
		return fmt.Errorf("failed to encode area: %w", err)
	}
	return js.writeFile(path, data)
}

// LoadArea reads an area from its file.
func (js *JSONStore) LoadArea(file string) (*models.Area, error) {
	path, err := js.AreaPath(file)
	if err != nil {
		return nil, err
	}
	data, err := js.readFile(path)
	if err != nil {
		return nil, err
	}
	return models.DecodeArea(data)
}

// SaveGame writes a game to its file.
func (js *JSONStore) SaveGame(file string, game *models.Game) error {
	path, err := js.gamePath(file)
	if err != nil {
		return err
	}
	data, err := models.EncodeGame(game)
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}
	return js.writeFile(path, data)
}

// LoadGame reads a game from its file.
func (js *JSONStore) LoadGame(file string) (*models.Game, error) {
	path, err := js.gamePath(file)
	if err != nil {
		return nil, err
	}
	data, err := js.readFile(path)
	if err != nil {
		return nil, err
	}
	return models.DecodeGame(data)
}

// ListAreas returns the area files present in the store.
func (js *JSONStore) ListAreas() ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	matches, err := filepath.Glob(filepath.Join(js.root, areasDir, "*.json"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

func (js *JSONStore) readFile(path string) ([]byte, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeFile replaces path through a temp file so a failed write never leaves
// a truncated record behind.
func (js *JSONStore) writeFile(path string, data []byte) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
