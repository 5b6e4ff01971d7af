package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
)

func (s *EditorSession) triggerIndex(name string) (int, error) {
	i, ok := s.area.TriggerByName(name)
	if !ok {
		return -1, fmt.Errorf("trigger %q: %w", name, models.ErrNoTriggerSelected)
	}
	return i, nil
}

// UpdateTrigger parses form fields into the named trigger's typed parameters.
// On any parse error the trigger is left untouched.
func (s *EditorSession) UpdateTrigger(name string, fields map[string]string) (models.Trigger, error) {
	i, err := s.triggerIndex(name)
	if err != nil {
		return models.Trigger{}, err
	}
	t := &s.area.Triggers[i]
	params, err := models.ApplyFields(t.Params(), fields)
	if err != nil {
		return models.Trigger{}, err
	}
	t.SetParams(params)

	s.log.WithFields(logrus.Fields{
		"name":         t.Name,
		"trigger_type": t.Type,
	}).Debug("Trigger updated")
	return t.Clone(), nil
}

// ChangeTriggerType switches the named trigger to another kind, resetting its
// parameters to that kind's defaults.
func (s *EditorSession) ChangeTriggerType(name string, tt models.TriggerType) (models.Trigger, error) {
	if _, err := models.ParseTriggerType(string(tt)); err != nil {
		return models.Trigger{}, &models.ValidationError{Field: "trigger_type", Value: string(tt), Reason: "unknown kind", Err: err}
	}
	i, err := s.triggerIndex(name)
	if err != nil {
		return models.Trigger{}, err
	}
	t := &s.area.Triggers[i]
	t.Parameters = make(map[string]any)
	t.Actions = nil
	t.SetParams(models.DefaultParams(tt))
	return t.Clone(), nil
}

// EditSelectedTrigger hands the selected trigger at the cursor to the trigger
// editor and returns it.
func (s *EditorSession) EditSelectedTrigger() (models.Trigger, error) {
	i, ok := s.SelectedTrigger()
	if !ok {
		return models.Trigger{}, models.ErrNoTriggerSelected
	}
	t := s.area.Triggers[i].Clone()
	if s.triggerEditor != nil {
		s.triggerEditor.EditTrigger(t)
	}
	return t, nil
}
