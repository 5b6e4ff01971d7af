package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"tinker-realm/editor/models"
)

// documentQueries holds the dialect-specific statements for the areas and
// games tables. Both tables share the (filename, name, data) layout.
type documentQueries struct {
	saveArea string
	loadArea string
	saveGame string
	loadGame string
}

// documentDB stores areas and games as JSON documents in a SQL database.
type documentDB struct {
	db      *sql.DB
	queries documentQueries
}

func (d *documentDB) saveArea(file string, area *models.Area) error {
	key, err := FileKey(file)
	if err != nil {
		return err
	}
	data, err := models.EncodeArea(area)
	if err != nil {
		return fmt.Errorf("failed to encode area: %w", err)
	}
	if _, err := d.db.Exec(d.queries.saveArea, key, area.Name, string(data)); err != nil {
		return fmt.Errorf("failed to save area %s: %w", key, err)
	}
	return nil
}

func (d *documentDB) loadArea(file string) (*models.Area, error) {
	key, err := FileKey(file)
	if err != nil {
		return nil, err
	}
	data, err := d.load(d.queries.loadArea, key)
	if err != nil {
		return nil, err
	}
	return models.DecodeArea(data)
}

func (d *documentDB) saveGame(file string, game *models.Game) error {
	key, err := FileKey(file)
	if err != nil {
		return err
	}
	data, err := models.EncodeGame(game)
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}
	if _, err := d.db.Exec(d.queries.saveGame, key, game.Name, string(data)); err != nil {
		return fmt.Errorf("failed to save game %s: %w", key, err)
	}
	return nil
}

func (d *documentDB) loadGame(file string) (*models.Game, error) {
	key, err := FileKey(file)
	if err != nil {
		return nil, err
	}
	data, err := d.load(d.queries.loadGame, key)
	if err != nil {
		return nil, err
	}
	return models.DecodeGame(data)
}

func (d *documentDB) load(query, key string) ([]byte, error) {
	var data string
	err := d.db.QueryRow(query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(data), nil
}
