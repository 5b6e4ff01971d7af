package services

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
)

// Outcome reports what a placement command did to the active layer.
type Outcome string

const (
	OutcomePlaced    Outcome = "placed"
	OutcomeReplaced  Outcome = "replaced"
	OutcomeRemoved   Outcome = "removed"
	OutcomeUnchanged Outcome = "unchanged"
)

// Place applies the selected item at the cursor on the active layer. Tile,
// object and npc placement toggle; trigger placement stacks a new trigger.
func (s *EditorSession) Place() (Outcome, error) {
	switch s.mode {
	case ModeTile:
		return s.placeTile(), nil
	case ModeObject:
		return s.placeObject(false)
	case ModeNPC:
		return s.placeObject(true)
	case ModeTrigger:
		return s.placeTrigger()
	default:
		return OutcomeUnchanged, fmt.Errorf("unknown mode %q", s.mode)
	}
}

func (s *EditorSession) placeTile() Outcome {
	tile := s.area.TileAt(s.cursor.X, s.cursor.Y)
	if tile.Type == s.selectedItem {
		*tile = models.DefaultTile()
		return OutcomeRemoved
	}
	*tile = models.NewTile(s.selectedItem)
	return OutcomePlaced
}

func (s *EditorSession) placeObject(npc bool) (Outcome, error) {
	if s.selectedItem == "" {
		return OutcomeUnchanged, &models.ValidationError{Field: "item", Reason: "nothing selected"}
	}
	npcs := s.Classifier()
	if npcs.IsNPC(s.selectedItem) != npc {
		reason := "is an NPC; switch to npc mode"
		if npc {
			reason = "is not an NPC; switch to object mode"
		}
		return OutcomeUnchanged, &models.ValidationError{Field: "item", Value: s.selectedItem, Reason: reason}
	}

	x, y := s.cursor.X, s.cursor.Y
	existing := ""
	kept := s.area.Objects[:0]
	for _, o := range s.area.Objects {
		if o.X == x && o.Y == y && npcs.IsNPC(o.Type) == npc {
			existing = o.Type
			continue
		}
		kept = append(kept, o)
	}
	s.area.Objects = kept

	switch {
	case existing == s.selectedItem:
		return OutcomeRemoved, nil
	case existing != "":
		s.area.Objects = append(s.area.Objects, models.NewGameObject(s.selectedItem, x, y))
		return OutcomeReplaced, nil
	default:
		s.area.Objects = append(s.area.Objects, models.NewGameObject(s.selectedItem, x, y))
		return OutcomePlaced, nil
	}
}

func (s *EditorSession) placeTrigger() (Outcome, error) {
	x, y := s.cursor.X, s.cursor.Y
	count := len(s.area.TriggerIndices(x, y))
	if count >= models.MaxTriggersPerCell {
		return OutcomeUnchanged, fmt.Errorf("%w: (%d,%d) already holds %d", models.ErrMaxTriggers, x, y, count)
	}

	t, err := s.newTrigger(s.selectedItem, x, y)
	if err != nil {
		return OutcomeUnchanged, err
	}
	s.area.Triggers = append(s.area.Triggers, t)
	s.selectedTriggerIndex = count

	s.log.WithFields(logrus.Fields{
		"name":         t.Name,
		"trigger_type": t.Type,
		"x":            x,
		"y":            y,
	}).Debug("Trigger placed")

	if s.triggerEditor != nil {
		s.triggerEditor.EditTrigger(t.Clone())
	}
	return OutcomePlaced, nil
}

// newTrigger builds a trigger for a palette item. Items that are not a
// trigger kind must name a catalog script and become custom triggers.
func (s *EditorSession) newTrigger(item string, x, y int) (models.Trigger, error) {
	if item == "" {
		return models.Trigger{}, &models.ValidationError{Field: "item", Reason: "nothing selected"}
	}
	if tt, err := models.ParseTriggerType(item); err == nil {
		return models.NewTrigger(tt, s.area.NextTriggerName(), x, y), nil
	}
	if s.assets == nil || !slices.Contains(s.assets.TriggerNames(), item) {
		return models.Trigger{}, &models.ValidationError{Field: "item", Value: item, Reason: "not a trigger kind or trigger script"}
	}
	t := models.NewTrigger(models.TriggerCustom, s.area.NextTriggerName(), x, y)
	t.SetParams(models.CustomParams{Script: item})
	return t, nil
}

// Remove clears the active layer at the cursor. In trigger mode only the
// selected co-located trigger is removed.
func (s *EditorSession) Remove() (Outcome, error) {
	x, y := s.cursor.X, s.cursor.Y
	switch s.mode {
	case ModeTile:
		tile := s.area.TileAt(x, y)
		if tile.IsEmpty() && tile.WalkableOverride == nil && len(tile.Properties) == 0 {
			return OutcomeUnchanged, nil
		}
		*tile = models.DefaultTile()
		return OutcomeRemoved, nil
	case ModeObject, ModeNPC:
		npc := s.mode == ModeNPC
		npcs := s.Classifier()
		kept := s.area.Objects[:0]
		removed := 0
		for _, o := range s.area.Objects {
			if o.X == x && o.Y == y && npcs.IsNPC(o.Type) == npc {
				removed++
				continue
			}
			kept = append(kept, o)
		}
		s.area.Objects = kept
		if removed == 0 {
			return OutcomeUnchanged, nil
		}
		return OutcomeRemoved, nil
	case ModeTrigger:
		idx := s.area.TriggerIndices(x, y)
		if len(idx) == 0 {
			return OutcomeUnchanged, nil
		}
		sel := min(s.selectedTriggerIndex, len(idx)-1)
		target := idx[sel]
		s.area.Triggers = append(s.area.Triggers[:target], s.area.Triggers[target+1:]...)
		s.selectedTriggerIndex = max(0, min(s.selectedTriggerIndex, len(idx)-2))
		return OutcomeRemoved, nil
	default:
		return OutcomeUnchanged, fmt.Errorf("unknown mode %q", s.mode)
	}
}

// SelectTrigger picks the n-th (1-based) trigger at the cursor.
func (s *EditorSession) SelectTrigger(n int) error {
	count := len(s.area.TriggerIndices(s.cursor.X, s.cursor.Y))
	if n < 1 || n > count {
		return &models.ValidationError{
			Field:  "trigger",
			Value:  strconv.Itoa(n),
			Reason: fmt.Sprintf("must be between 1 and %d", count),
			Err:    models.ErrNoTriggerSelected,
		}
	}
	s.selectedTriggerIndex = n - 1
	return nil
}

// SelectedTrigger returns the index into Area.Triggers of the trigger that
// edit and remove commands target.
func (s *EditorSession) SelectedTrigger() (int, bool) {
	idx := s.area.TriggerIndices(s.cursor.X, s.cursor.Y)
	if len(idx) == 0 {
		return -1, false
	}
	return idx[min(s.selectedTriggerIndex, len(idx)-1)], true
}
