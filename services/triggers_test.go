package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinker-realm/editor/models"
)

func placeTrigger(t *testing.T, s *EditorSession, tt models.TriggerType) models.Trigger {
	t.Helper()
	s.SetMode(ModeTrigger)
	s.SelectItem(string(tt))
	_, err := s.Place()
	require.NoError(t, err)
	i, ok := s.SelectedTrigger()
	require.True(t, ok)
	return s.Area().Triggers[i]
}

func TestUpdateTrigger(t *testing.T) {
	s, _ := newTestSession(t, 3, 3)
	tr := placeTrigger(t, s, models.TriggerTeleport)

	updated, err := s.UpdateTrigger(tr.Name, map[string]string{"area": "cave.json", "x": "4", "y": "7"})
	require.NoError(t, err)
	assert.Equal(t, models.TeleportParams{Area: "cave.json", X: 4, Y: 7}, updated.Params())
	assert.Equal(t, "Teleport to cave.json (4,7)", models.Describe(s.Area().Triggers[0]))
}

func TestUpdateTrigger_InvalidInputLeavesTrigger(t *testing.T) {
	s, _ := newTestSession(t, 3, 3)
	tr := placeTrigger(t, s, models.TriggerTileUpdate)
	before := s.Area().Triggers[0].Clone()

	_, err := s.UpdateTrigger(tr.Name, map[string]string{"tile": "lava_floor", "x": "three"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, before, s.Area().Triggers[0])

	_, err = s.UpdateTrigger(tr.Name, map[string]string{"walkable": "maybe"})
	require.ErrorAs(t, err, &verr)

	_, err = s.UpdateTrigger("trigger_99", map[string]string{"x": "1"})
	assert.ErrorIs(t, err, models.ErrNoTriggerSelected)
}

func TestUpdateTrigger_KeepsUnknownKeys(t *testing.T) {
	s, _ := newTestSession(t, 3, 3)
	tr := placeTrigger(t, s, models.TriggerShowDialog)
	s.Area().Triggers[0].Parameters["portrait"] = "elder"

	_, err := s.UpdateTrigger(tr.Name, map[string]string{"message": "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, "elder", s.Area().Triggers[0].Parameters["portrait"])
	assert.Equal(t, "Welcome", s.Area().Triggers[0].Parameters["message"])
}

func TestChangeTriggerType(t *testing.T) {
	s, _ := newTestSession(t, 3, 3)
	tr := placeTrigger(t, s, models.TriggerTeleport)
	_, err := s.UpdateTrigger(tr.Name, map[string]string{"area": "cave"})
	require.NoError(t, err)

	changed, err := s.ChangeTriggerType(tr.Name, models.TriggerGameEnd)
	require.NoError(t, err)
	assert.Equal(t, models.TriggerGameEnd, changed.Type)
	assert.Equal(t, models.GameEndParams{WinLose: "win"}, changed.Params())
	assert.NotContains(t, s.Area().Triggers[0].Parameters, "area")

	_, err = s.ChangeTriggerType(tr.Name, "explode")
	assert.ErrorIs(t, err, models.ErrUnknownTriggerType)
}

func TestEditSelectedTrigger(t *testing.T) {
	s, _ := newTestSession(t, 3, 3)
	editor := &recordingEditor{}

	_, err := s.EditSelectedTrigger()
	assert.ErrorIs(t, err, models.ErrNoTriggerSelected)

	placeTrigger(t, s, models.TriggerInventory)
	placeTrigger(t, s, models.TriggerCustom)
	s.SetTriggerEditor(editor)
	require.NoError(t, s.SelectTrigger(1))

	tr, err := s.EditSelectedTrigger()
	require.NoError(t, err)
	assert.Equal(t, models.TriggerInventory, tr.Type)
	require.Len(t, editor.edited, 1)
	assert.Equal(t, "trigger_1", editor.edited[0].Name)
}
