package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
	"tinker-realm/editor/persistence"
)

// ErrNoFile is returned when saving without a file name and the current
// document was never saved.
var ErrNoFile = errors.New("no file name given")

// NewArea replaces the current area with an empty one of the session's
// default size.
func (s *EditorSession) NewArea() error {
	area, err := models.NewArea("", s.newWidth, s.newHeight)
	if err != nil {
		return err
	}
	s.area = area
	s.areaFile = ""
	s.resetEditingState()
	s.log.Info("New area created")
	return nil
}

// NewGame replaces both the current game and the current area.
func (s *EditorSession) NewGame() error {
	if err := s.NewArea(); err != nil {
		return err
	}
	s.game = models.NewGame()
	s.gameFile = ""
	s.log.Info("New game created")
	return nil
}

// OpenArea loads an area and makes it current. The current area is kept
// when loading fails.
func (s *EditorSession) OpenArea(file string) error {
	key, err := persistence.FileKey(file)
	if err != nil {
		return err
	}
	area, err := s.db.LoadArea(key)
	if err != nil {
		s.log.WithError(err).WithField("file", key).Error("Failed to open area")
		return fmt.Errorf("failed to open area %s: %w", key, err)
	}
	for _, p := range area.OutOfBounds() {
		s.log.WithFields(logrus.Fields{"file": key, "x": p.X, "y": p.Y}).
			Warn("Entity outside area bounds")
	}
	s.area = area
	s.areaFile = key
	s.resetEditingState()
	s.log.WithField("file", key).Info("Area opened")
	return nil
}

// SaveArea stores the current area. An empty file saves to the file the
// area was last opened from or saved to.
func (s *EditorSession) SaveArea(file string) (string, error) {
	key, err := s.targetFile(file, s.areaFile)
	if err != nil {
		return "", err
	}
	if err := s.db.SaveArea(key, s.area); err != nil {
		s.log.WithError(err).WithField("file", key).Error("Failed to save area")
		return "", fmt.Errorf("failed to save area %s: %w", key, err)
	}
	s.areaFile = key
	s.log.WithField("file", key).Info("Area saved")
	return key, nil
}

// OpenGame loads a game and, when its first referenced area exists, makes
// that area current. It returns the referenced areas that exist in storage.
func (s *EditorSession) OpenGame(file string) ([]string, error) {
	key, err := persistence.FileKey(file)
	if err != nil {
		return nil, err
	}
	game, err := s.db.LoadGame(key)
	if err != nil {
		s.log.WithError(err).WithField("file", key).Error("Failed to open game")
		return nil, fmt.Errorf("failed to open game %s: %w", key, err)
	}

	var first *models.Area
	available := []string{}
	for i, name := range game.Areas {
		area, err := s.db.LoadArea(name)
		if errors.Is(err, persistence.ErrNotFound) {
			continue
		}
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("failed to open area %s: %w", name, err)
			}
			s.log.WithError(err).WithField("file", name).Warn("Referenced area is unreadable")
			continue
		}
		if i == 0 {
			first = area
		}
		available = append(available, name)
	}

	s.game = game
	s.gameFile = key
	if first != nil {
		s.area = first
		s.areaFile = game.Areas[0]
		s.resetEditingState()
	}
	s.log.WithFields(logrus.Fields{"file": key, "areas": len(available)}).Info("Game opened")
	return available, nil
}

// SaveGame stores the current game. An empty file reuses the current game
// file.
func (s *EditorSession) SaveGame(file string) (string, error) {
	key, err := s.targetFile(file, s.gameFile)
	if err != nil {
		return "", err
	}
	if err := s.db.SaveGame(key, s.game); err != nil {
		s.log.WithError(err).WithField("file", key).Error("Failed to save game")
		return "", fmt.Errorf("failed to save game %s: %w", key, err)
	}
	s.gameFile = key
	s.log.WithField("file", key).Info("Game saved")
	return key, nil
}

// AddAreaToGame references the current area's file from the current game.
// It returns false when the game already referenced it.
func (s *EditorSession) AddAreaToGame() (bool, error) {
	if s.areaFile == "" {
		return false, fmt.Errorf("save the area before adding it to the game: %w", ErrNoFile)
	}
	return s.game.AddArea(s.areaFile)
}

// SaveReport lists what SaveAll stored and what failed.
type SaveReport struct {
	Saved  []string `json:"saved"`
	Errors []string `json:"errors"`
}

// OK reports whether every step succeeded.
func (r SaveReport) OK() bool {
	return len(r.Errors) == 0
}

// SaveAll saves the area, references it from the game, rescans the game's
// used assets and saves the game. Each step runs even when an earlier one
// failed.
func (s *EditorSession) SaveAll(areaFile, gameFile string) SaveReport {
	report := SaveReport{Saved: []string{}, Errors: []string{}}

	if key, err := s.SaveArea(areaFile); err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else {
		report.Saved = append(report.Saved, "Area: "+key)
		if _, err := s.game.AddArea(key); err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	s.RescanUsedAssets()
	report.Saved = append(report.Saved, "Game assets updated")

	if key, err := s.SaveGame(gameFile); err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else {
		report.Saved = append(report.Saved, "Game: "+key)
	}
	return report
}

func (s *EditorSession) targetFile(file, current string) (string, error) {
	if file == "" {
		if current == "" {
			return "", ErrNoFile
		}
		return current, nil
	}
	return persistence.FileKey(file)
}
