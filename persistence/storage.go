package persistence

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"tinker-realm/editor/models"
)

// ErrNotFound is returned when an area or game record does not exist.
var ErrNotFound = errors.New("not found")

// AreaLoader is the read side used by asset aggregation.
type AreaLoader interface {
	LoadArea(file string) (*models.Area, error)
}

// Storage defines the interface for area and game persistence. Areas and
// games are keyed by file basename.
type Storage interface {
	AreaLoader
	SaveArea(file string, area *models.Area) error
	SaveGame(file string, game *models.Game) error
	LoadGame(file string) (*models.Game, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Options selects and configures a storage backend.
type Options struct {
	Backend     string
	DataDir     string
	DatabaseURL string
	SQLitePath  string
}

// Open creates the configured storage backend.
func Open(opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendPostgres:
		return NewPostgresStore(opts.DatabaseURL)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendJSON, "":
		return NewJSONStore(opts.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// FileKey reduces a file name to the basename records are stored under,
// adding the .json extension when none is given.
func FileKey(file string) (string, error) {
	trimmed := strings.TrimSpace(file)
	base := filepath.Base(trimmed)
	if trimmed == "" || base == "." || base == string(filepath.Separator) {
		return "", &models.ValidationError{Field: "file", Value: file, Reason: "must name a file"}
	}
	if filepath.Ext(base) == "" {
		base += ".json"
	}
	return base, nil
}
