package persistence

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"tinker-realm/editor/models"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore keeps a whole project in a single SQLite file.
type SQLiteStore struct {
	docs documentDB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{docs: documentDB{db: db, queries: sqliteQueries}}, nil
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS areas (
		filename TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS games (
		filename TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

var sqliteQueries = documentQueries{
	saveArea: `
	INSERT INTO areas (filename, name, data) VALUES (?, ?, ?)
	ON CONFLICT (filename)
	DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`,
	loadArea: `SELECT data FROM areas WHERE filename = ?`,
	saveGame: `
	INSERT INTO games (filename, name, data) VALUES (?, ?, ?)
	ON CONFLICT (filename)
	DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`,
	loadGame: `SELECT data FROM games WHERE filename = ?`,
}

func (s *SQLiteStore) SaveArea(file string, area *models.Area) error {
	return s.docs.saveArea(file, area)
}

func (s *SQLiteStore) LoadArea(file string) (*models.Area, error) {
	return s.docs.loadArea(file)
}

func (s *SQLiteStore) SaveGame(file string, game *models.Game) error {
	return s.docs.saveGame(file, game)
}

func (s *SQLiteStore) LoadGame(file string) (*models.Game, error) {
	return s.docs.loadGame(file)
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.docs.db == nil {
		return nil
	}
	return s.docs.db.Close()
}
