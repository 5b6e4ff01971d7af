package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
)

// Resize returns a copy of area with the given dimensions, anchored at the
// origin. The overlapping region keeps its tiles; entities outside the new
// bounds are dropped.
func Resize(area *models.Area, width, height int) (*models.Area, error) {
	if err := models.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	out := &models.Area{
		Name:     area.Name,
		Width:    width,
		Height:   height,
		Tiles:    models.NewGrid(width, height),
		Objects:  []models.GameObject{},
		Triggers: []models.Trigger{},
	}
	for y := 0; y < min(area.Height, height); y++ {
		for x := 0; x < min(area.Width, width); x++ {
			out.Tiles[y][x] = area.Tiles[y][x].Clone()
		}
	}
	for _, o := range area.Objects {
		if out.InBounds(o.X, o.Y) {
			out.Objects = append(out.Objects, o.Clone())
		}
	}
	for _, t := range area.Triggers {
		if out.InBounds(t.X, t.Y) {
			out.Triggers = append(out.Triggers, t.Clone())
		}
	}
	return out, nil
}

// CropToContent returns a copy of area shrunk to its content bounds, with
// every coordinate translated by the bounds' minimum corner. It returns
// ErrNothingToCrop when the area has no content.
func CropToContent(area *models.Area) (*models.Area, models.Rect, error) {
	bounds, ok := area.ContentBounds()
	if !ok {
		return nil, models.Rect{}, models.ErrNothingToCrop
	}
	out := &models.Area{
		Name:     area.Name,
		Width:    bounds.Width(),
		Height:   bounds.Height(),
		Tiles:    models.NewGrid(bounds.Width(), bounds.Height()),
		Objects:  make([]models.GameObject, 0, len(area.Objects)),
		Triggers: make([]models.Trigger, 0, len(area.Triggers)),
	}
	for y := range out.Tiles {
		for x := range out.Tiles[y] {
			if src := area.TileAt(x+bounds.MinX, y+bounds.MinY); src != nil {
				out.Tiles[y][x] = src.Clone()
			}
		}
	}
	for _, o := range area.Objects {
		o = o.Clone()
		o.X -= bounds.MinX
		o.Y -= bounds.MinY
		out.Objects = append(out.Objects, o)
	}
	for _, t := range area.Triggers {
		t = t.Clone()
		t.X -= bounds.MinX
		t.Y -= bounds.MinY
		out.Triggers = append(out.Triggers, t)
	}
	return out, bounds, nil
}

// Resize replaces the current area with a resized copy and clamps the cursor.
func (s *EditorSession) Resize(width, height int) error {
	resized, err := Resize(s.area, width, height)
	if err != nil {
		return err
	}
	dropped := len(s.area.Objects) - len(resized.Objects) + len(s.area.Triggers) - len(resized.Triggers)
	s.area = resized
	s.cursor = s.clampCursor(s.cursor)
	s.selectedTriggerIndex = 0

	s.log.WithFields(logrus.Fields{
		"width":   width,
		"height":  height,
		"dropped": dropped,
	}).Info("Area resized")
	return nil
}

// CropToContent replaces the current area with its cropped copy. The cursor
// moves with the content.
func (s *EditorSession) CropToContent() (models.Rect, error) {
	cropped, bounds, err := CropToContent(s.area)
	if err != nil {
		return models.Rect{}, err
	}
	s.area = cropped
	s.cursor = s.clampCursor(Cursor{X: s.cursor.X - bounds.MinX, Y: s.cursor.Y - bounds.MinY})
	s.selectedTriggerIndex = 0

	s.log.WithField("bounds", fmt.Sprintf("(%d,%d)-(%d,%d)", bounds.MinX, bounds.MinY, bounds.MaxX, bounds.MaxY)).
		Info("Area cropped to content")
	return bounds, nil
}
