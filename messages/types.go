package messages

import (
	"encoding/json"

	"tinker-realm/editor/models"
	"tinker-realm/editor/services"
)

// MessageType defines the type of message being sent
type MessageType string

// Commands sent by clients.
const (
	MessageTypeState         MessageType = "state"
	MessageTypeMove          MessageType = "move"
	MessageTypeSetCursor     MessageType = "set_cursor"
	MessageTypeSetMode       MessageType = "set_mode"
	MessageTypeSelectItem    MessageType = "select_item"
	MessageTypePlace         MessageType = "place"
	MessageTypeRemove        MessageType = "remove"
	MessageTypeSelectTrigger MessageType = "select_trigger"
	MessageTypeEditTrigger   MessageType = "edit_trigger"
	MessageTypeUpdateTrigger MessageType = "update_trigger"
	MessageTypeSetWalkable   MessageType = "set_walkable"
	MessageTypeRenameArea    MessageType = "rename_area"
	MessageTypeRenameGame    MessageType = "rename_game"
	MessageTypeResize        MessageType = "resize"
	MessageTypeCrop          MessageType = "crop"
	MessageTypeNewArea       MessageType = "new_area"
	MessageTypeNewGame       MessageType = "new_game"
	MessageTypeOpenArea      MessageType = "open_area"
	MessageTypeSaveArea      MessageType = "save_area"
	MessageTypeOpenGame      MessageType = "open_game"
	MessageTypeSaveGame      MessageType = "save_game"
	MessageTypeSaveAll       MessageType = "save_all"
	MessageTypeAddAreaToGame MessageType = "add_area_to_game"
	MessageTypeRescan        MessageType = "rescan"
	MessageTypePalette       MessageType = "palette"
)

// Messages sent by the server. state, edit_trigger and palette double as
// replies to the commands of the same name.
const (
	MessageTypeNotice MessageType = "notice"
	MessageTypeError  MessageType = "error"
)

// Error codes carried by ErrorMessage.
const (
	CodeValidation         = "VALIDATION"
	CodeCapacity           = "CAPACITY"
	CodeNotFound           = "NOT_FOUND"
	CodeIO                 = "IO"
	CodeReadOnly           = "READ_ONLY"
	CodeUnknownMessageType = "UNKNOWN_MESSAGE_TYPE"
	CodeBadPayload         = "BAD_PAYLOAD"
)

// BaseMessage is the envelope for all outgoing messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// InboundMessage is the envelope for client commands. Payload is decoded
// once the type is known.
type InboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MoveMessage steps the cursor one cell.
type MoveMessage struct {
	Direction string `json:"direction"` // up, down, left, right
}

// SetCursorMessage places the cursor directly.
type SetCursorMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type SetModeMessage struct {
	Mode string `json:"mode"`
}

type SelectItemMessage struct {
	Item string `json:"item"`
}

// SelectTriggerMessage picks a co-located trigger, counting from 1.
type SelectTriggerMessage struct {
	N int `json:"n"`
}

// UpdateTriggerMessage carries form text for a trigger. When TriggerType is
// set the trigger is switched to that kind before Fields are applied.
type UpdateTriggerMessage struct {
	Name        string            `json:"name"`
	TriggerType string            `json:"trigger_type,omitempty"`
	Fields      map[string]string `json:"fields"`
}

type SetWalkableMessage struct {
	Mode string `json:"mode"` // default, walkable, blocked
}

type RenameMessage struct {
	Name string `json:"name"`
}

type ResizeMessage struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FileMessage names an area or game file. An empty file on save reuses the
// current one.
type FileMessage struct {
	File string `json:"file"`
}

type SaveAllMessage struct {
	AreaFile string `json:"area_file"`
	GameFile string `json:"game_file"`
}

// PaletteRequest asks for a mode's palette; an empty mode means the current
// one.
type PaletteRequest struct {
	Mode string `json:"mode,omitempty"`
}

// StateMessage is the full editor state sent after every change.
type StateMessage struct {
	Area                 *models.Area      `json:"area"`
	Game                 *models.Game      `json:"game"`
	AreaFile             string            `json:"area_file"`
	GameFile             string            `json:"game_file"`
	Cursor               services.Cursor   `json:"cursor"`
	Mode                 services.Mode     `json:"mode"`
	SelectedItem         string            `json:"selected_item"`
	SelectedTriggerIndex int               `json:"selected_trigger_index"`
	Cell                 services.CellInfo `json:"cell"`
	Editor               bool              `json:"editor"`
}

// EditTriggerMessage hands a trigger to the client's parameter form.
type EditTriggerMessage struct {
	Trigger     models.Trigger `json:"trigger"`
	Description string         `json:"description"`
	Keys        []string       `json:"keys"`
}

// NoticeMessage reports a completed command. Saved and Errors are filled by
// save_all.
type NoticeMessage struct {
	Message string   `json:"message"`
	Saved   []string `json:"saved,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaletteMessage struct {
	Mode  services.Mode `json:"mode"`
	Items []string      `json:"items"`
}
