package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tinker-realm/editor/messages"
	"tinker-realm/editor/models"
	"tinker-realm/editor/network"
	"tinker-realm/editor/persistence"
	"tinker-realm/editor/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	id            string
	conn          *network.Connection
	clientManager *ClientManager
	log           logrus.FieldLogger
}

// HandleClientConnection serves one websocket client until it disconnects.
func HandleClientConnection(wsConn *websocket.Conn, clientManager *ClientManager, log logrus.FieldLogger) {
	conn := network.NewConnection(wsConn, log)
	handler := &ClientHandler{
		conn:          conn,
		clientManager: clientManager,
	}
	id, editor := clientManager.AddClient(handler)
	handler.id = id
	handler.log = log.WithFields(logrus.Fields{"client": id, "remote": conn.RemoteAddr()})
	handler.log.WithField("editor", editor).Info("Client connected")

	// Start the write pump in a goroutine
	go conn.WritePump()

	clientManager.WithSession(handler.sendState)

	// Handle the read pump in the current goroutine
	conn.ReadPump(handler)

	// Clean up when the connection is closed
	clientManager.RemoveClient(id)
	conn.Wait()
	handler.log.Info("Client disconnected")
}

// readOnly lists the commands viewers may send.
var readOnly = map[messages.MessageType]bool{
	messages.MessageTypeState:   true,
	messages.MessageTypePalette: true,
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var msg messages.InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.sendError(messages.CodeBadPayload, "malformed message: "+err.Error())
		return
	}

	command, ok := commands[msg.Type]
	if !ok {
		h.log.WithField("type", msg.Type).Warn("Unknown message type")
		h.sendError(messages.CodeUnknownMessageType, fmt.Sprintf("unknown message type %q", msg.Type))
		return
	}
	if !readOnly[msg.Type] && !h.clientManager.ClaimEditor(h.id) {
		h.sendError(messages.CodeReadOnly, "another client is editing")
		return
	}

	h.clientManager.WithSession(func(s *services.EditorSession) {
		s.SetTriggerEditor(h)
		defer s.SetTriggerEditor(nil)

		changed, err := command(h, s, msg.Payload)
		if err != nil {
			h.log.WithError(err).WithField("type", msg.Type).Debug("Command rejected")
			h.sendError(errorCode(err), err.Error())
			return
		}
		if changed {
			h.broadcastState(s)
		}
	})
}

// command runs one client command against the session and reports whether
// the shared state changed.
type command func(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error)

var commands = map[messages.MessageType]command{
	messages.MessageTypeState:         handleState,
	messages.MessageTypeMove:          handleMove,
	messages.MessageTypeSetCursor:     handleSetCursor,
	messages.MessageTypeSetMode:       handleSetMode,
	messages.MessageTypeSelectItem:    handleSelectItem,
	messages.MessageTypePlace:         handlePlace,
	messages.MessageTypeRemove:        handleRemove,
	messages.MessageTypeSelectTrigger: handleSelectTrigger,
	messages.MessageTypeEditTrigger:   handleEditTrigger,
	messages.MessageTypeUpdateTrigger: handleUpdateTrigger,
	messages.MessageTypeSetWalkable:   handleSetWalkable,
	messages.MessageTypeRenameArea:    handleRenameArea,
	messages.MessageTypeRenameGame:    handleRenameGame,
	messages.MessageTypeResize:        handleResize,
	messages.MessageTypeCrop:          handleCrop,
	messages.MessageTypeNewArea:       handleNewArea,
	messages.MessageTypeNewGame:       handleNewGame,
	messages.MessageTypeOpenArea:      handleOpenArea,
	messages.MessageTypeSaveArea:      handleSaveArea,
	messages.MessageTypeOpenGame:      handleOpenGame,
	messages.MessageTypeSaveGame:      handleSaveGame,
	messages.MessageTypeSaveAll:       handleSaveAll,
	messages.MessageTypeAddAreaToGame: handleAddAreaToGame,
	messages.MessageTypeRescan:        handleRescan,
	messages.MessageTypePalette:       handlePalette,
}

// payloadError marks a payload that did not decode into the command's type.
type payloadError struct {
	err error
}

func (e *payloadError) Error() string { return "bad payload: " + e.err.Error() }
func (e *payloadError) Unwrap() error { return e.err }

func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return &payloadError{err: err}
	}
	return nil
}

func handleState(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	h.sendState(s)
	return false, nil
}

func handleMove(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.MoveMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	return true, s.MoveCursor(services.Direction(m.Direction))
}

func handleSetCursor(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.SetCursorMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	return true, s.SetCursor(m.X, m.Y)
}

func handleSetMode(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.SetModeMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	mode, err := services.ParseMode(m.Mode)
	if err != nil {
		return false, err
	}
	s.SetMode(mode)
	return true, nil
}

func handleSelectItem(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.SelectItemMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	s.SelectItem(m.Item)
	return true, nil
}

func handlePlace(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	outcome, err := s.Place()
	if err != nil {
		return false, err
	}
	return outcome != services.OutcomeUnchanged, nil
}

func handleRemove(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	outcome, err := s.Remove()
	if err != nil {
		return false, err
	}
	return outcome != services.OutcomeUnchanged, nil
}

func handleSelectTrigger(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.SelectTriggerMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	return true, s.SelectTrigger(m.N)
}

func handleEditTrigger(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	_, err := s.EditSelectedTrigger()
	return false, err
}

func handleUpdateTrigger(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.UpdateTriggerMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	i, ok := s.Area().TriggerByName(m.Name)
	if !ok {
		return false, fmt.Errorf("trigger %q: %w", m.Name, models.ErrNoTriggerSelected)
	}
	before := s.Area().Triggers[i].Clone()

	if m.TriggerType != "" {
		if _, err := s.ChangeTriggerType(m.Name, models.TriggerType(m.TriggerType)); err != nil {
			return false, err
		}
	}
	if len(m.Fields) > 0 {
		if _, err := s.UpdateTrigger(m.Name, m.Fields); err != nil {
			s.Area().Triggers[i] = before
			return false, err
		}
	}
	return true, nil
}

func handleSetWalkable(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.SetWalkableMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	return true, s.SetWalkableOverride(services.WalkableMode(m.Mode))
}

func handleRenameArea(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.RenameMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	s.RenameArea(m.Name)
	return true, nil
}

func handleRenameGame(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.RenameMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	s.RenameGame(m.Name)
	return true, nil
}

func handleResize(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.ResizeMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	return true, s.Resize(m.Width, m.Height)
}

func handleCrop(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	bounds, err := s.CropToContent()
	if errors.Is(err, models.ErrNothingToCrop) {
		h.sendNotice(messages.NoticeMessage{Message: "Nothing to crop"})
		return false, nil
	}
	if err != nil {
		return false, err
	}
	h.sendNotice(messages.NoticeMessage{Message: fmt.Sprintf("Cropped to %dx%d", bounds.Width(), bounds.Height())})
	return true, nil
}

func handleNewArea(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	return true, s.NewArea()
}

func handleNewGame(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	return true, s.NewGame()
}

func handleOpenArea(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.FileMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	if err := s.OpenArea(m.File); err != nil {
		return false, err
	}
	h.sendNotice(messages.NoticeMessage{Message: "Loaded area: " + s.AreaFile()})
	return true, nil
}

func handleSaveArea(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.FileMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	key, err := s.SaveArea(m.File)
	if err != nil {
		return false, err
	}
	h.sendNotice(messages.NoticeMessage{Message: "Area saved to " + key})
	return true, nil
}

func handleOpenGame(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.FileMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	available, err := s.OpenGame(m.File)
	if err != nil {
		return false, err
	}
	msg := "Loaded game: " + s.Game().Name
	if len(available) > 0 {
		msg += " (areas: " + strings.Join(available, ", ") + ")"
	}
	h.sendNotice(messages.NoticeMessage{Message: msg})
	return true, nil
}

func handleSaveGame(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.FileMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	key, err := s.SaveGame(m.File)
	if err != nil {
		return false, err
	}
	h.sendNotice(messages.NoticeMessage{Message: "Game saved to " + key})
	return true, nil
}

func handleSaveAll(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.SaveAllMessage
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	report := s.SaveAll(m.AreaFile, m.GameFile)
	msg := "Saved"
	if !report.OK() {
		msg = "Partially saved"
	}
	h.sendNotice(messages.NoticeMessage{Message: msg, Saved: report.Saved, Errors: report.Errors})
	return true, nil
}

func handleAddAreaToGame(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	added, err := s.AddAreaToGame()
	if err != nil {
		return false, err
	}
	if !added {
		h.sendNotice(messages.NoticeMessage{Message: fmt.Sprintf("Area %s is already in the game", s.AreaFile())})
		return false, nil
	}
	h.sendNotice(messages.NoticeMessage{Message: fmt.Sprintf("Area %s added to game %s", s.AreaFile(), s.Game().Name)})
	return true, nil
}

func handleRescan(h *ClientHandler, s *services.EditorSession, _ json.RawMessage) (bool, error) {
	used := s.RescanUsedAssets()
	h.sendNotice(messages.NoticeMessage{Message: fmt.Sprintf(
		"Game assets updated: %d tiles, %d objects, %d NPCs, %d triggers",
		len(used.Tiles), len(used.Objects), len(used.NPCs), len(used.Triggers),
	)})
	return true, nil
}

func handlePalette(h *ClientHandler, s *services.EditorSession, payload json.RawMessage) (bool, error) {
	var m messages.PaletteRequest
	if err := decodePayload(payload, &m); err != nil {
		return false, err
	}
	mode := s.Mode()
	if m.Mode != "" {
		var err error
		if mode, err = services.ParseMode(m.Mode); err != nil {
			return false, err
		}
	}
	h.send(messages.MessageTypePalette, messages.PaletteMessage{Mode: mode, Items: s.Palette(mode)})
	return false, nil
}

// EditTrigger sends the trigger to this client's parameter form.
func (h *ClientHandler) EditTrigger(t models.Trigger) {
	h.send(messages.MessageTypeEditTrigger, messages.EditTriggerMessage{
		Trigger:     t,
		Description: models.Describe(t),
		Keys:        models.ParamKeys(t.Type),
	})
}

// errorCode maps a command error onto the wire error codes.
func errorCode(err error) string {
	var verr *models.ValidationError
	var perr *payloadError
	switch {
	case errors.As(err, &perr):
		return messages.CodeBadPayload
	case errors.As(err, &verr), errors.Is(err, services.ErrNoFile), errors.Is(err, models.ErrUnknownTriggerType):
		return messages.CodeValidation
	case errors.Is(err, models.ErrMaxTriggers):
		return messages.CodeCapacity
	case errors.Is(err, persistence.ErrNotFound), errors.Is(err, models.ErrNothingToCrop), errors.Is(err, models.ErrNoTriggerSelected):
		return messages.CodeNotFound
	default:
		return messages.CodeIO
	}
}

func stateOf(s *services.EditorSession) messages.StateMessage {
	return messages.StateMessage{
		Area:                 s.Area(),
		Game:                 s.Game(),
		AreaFile:             s.AreaFile(),
		GameFile:             s.GameFile(),
		Cursor:               s.Cursor(),
		Mode:                 s.Mode(),
		SelectedItem:         s.SelectedItem(),
		SelectedTriggerIndex: s.SelectedTriggerIndex(),
		Cell:                 s.CellInfo(),
	}
}

// sendState sends the current session state to this client only.
func (h *ClientHandler) sendState(s *services.EditorSession) {
	state := stateOf(s)
	state.Editor = h.clientManager.IsEditor(h.id)
	h.send(messages.MessageTypeState, state)
}

// broadcastState sends the session state to every client, each flagged with
// its own role.
func (h *ClientHandler) broadcastState(s *services.EditorSession) {
	state := stateOf(s)
	cm := h.clientManager
	cm.ExecuteOnAllClients(func(id string, client *ClientHandler) {
		st := state
		st.Editor = id == cm.editor
		client.send(messages.MessageTypeState, st)
	})
}

func (h *ClientHandler) sendNotice(notice messages.NoticeMessage) {
	h.send(messages.MessageTypeNotice, notice)
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.MessageTypeError, messages.ErrorMessage{Code: code, Message: message})
}

func (h *ClientHandler) send(t messages.MessageType, payload interface{}) {
	if err := h.conn.SendMessage(messages.BaseMessage{Type: t, Payload: payload}); err != nil {
		h.log.WithError(err).WithField("type", t).Warn("Error sending message")
	}
}
