package persistence

import (
	"database/sql"
	"fmt"

	"tinker-realm/editor/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps areas and games as JSON documents in PostgreSQL.
type PostgresStore struct {
	docs documentDB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{docs: documentDB{db: db, queries: postgresQueries}}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// json rather than jsonb: jsonb reorders keys and rewrites number literals.
const postgresSchema = `
	CREATE TABLE IF NOT EXISTS areas (
		filename TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data JSON NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS games (
		filename TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data JSON NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

var postgresQueries = documentQueries{
	saveArea: `
	INSERT INTO areas (filename, name, data) VALUES ($1, $2, $3)
	ON CONFLICT (filename)
	DO UPDATE SET name = $2, data = $3, updated_at = NOW()
	`,
	loadArea: `SELECT data FROM areas WHERE filename = $1`,
	saveGame: `
	INSERT INTO games (filename, name, data) VALUES ($1, $2, $3)
	ON CONFLICT (filename)
	DO UPDATE SET name = $2, data = $3, updated_at = NOW()
	`,
	loadGame: `SELECT data FROM games WHERE filename = $1`,
}

func (ps *PostgresStore) initSchema() error {
	_, err := ps.docs.db.Exec(postgresSchema)
	return err
}

// SaveArea upserts an area row.
func (ps *PostgresStore) SaveArea(file string, area *models.Area) error {
	return ps.docs.saveArea(file, area)
}

// LoadArea loads an area row by file name.
func (ps *PostgresStore) LoadArea(file string) (*models.Area, error) {
	return ps.docs.loadArea(file)
}

// SaveGame upserts a game row.
func (ps *PostgresStore) SaveGame(file string, game *models.Game) error {
	return ps.docs.saveGame(file, game)
}

// LoadGame loads a game row by file name.
func (ps *PostgresStore) LoadGame(file string) (*models.Game, error) {
	return ps.docs.loadGame(file)
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	return ps.docs.db.Close()
}
