package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TriggerType tags the action a trigger performs.
type TriggerType string

const (
	TriggerTeleport   TriggerType = "teleport"
	TriggerInventory  TriggerType = "inventory"
	TriggerTileUpdate TriggerType = "tile_update"
	TriggerAreaObject TriggerType = "area_object"
	TriggerGameEnd    TriggerType = "game_end"
	TriggerShowDialog TriggerType = "show_dialog"
	TriggerCustom     TriggerType = "custom"

	// TriggerLegacy marks triggers loaded from the old {x,y,actions} shape.
	TriggerLegacy TriggerType = "legacy"
)

// TriggerTypes lists the kinds that can be placed, in palette order.
var TriggerTypes = []TriggerType{
	TriggerTeleport,
	TriggerInventory,
	TriggerTileUpdate,
	TriggerAreaObject,
	TriggerGameEnd,
	TriggerShowDialog,
	TriggerCustom,
}

// ParseTriggerType accepts one of the placeable kinds.
func ParseTriggerType(s string) (TriggerType, error) {
	for _, tt := range TriggerTypes {
		if string(tt) == s {
			return tt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTriggerType, s)
}

// MaxTriggersPerCell caps how many triggers may share one cell.
const MaxTriggersPerCell = 6

// Trigger is a point entity carrying a typed action descriptor.
type Trigger struct {
	X          int
	Y          int
	Type       TriggerType
	Name       string
	Parameters map[string]any

	// Actions holds the free-form action list of legacy triggers.
	Actions []map[string]any
}

// NewTrigger creates a trigger whose parameters are the kind's defaults.
func NewTrigger(tt TriggerType, name string, x, y int) Trigger {
	t := Trigger{X: x, Y: y, Type: tt, Name: name, Parameters: make(map[string]any)}
	t.SetParams(DefaultParams(tt))
	return t
}

func (t Trigger) GetPosition() Position {
	return Position{X: t.X, Y: t.Y}
}

func (t Trigger) IsLegacy() bool {
	return t.Type == TriggerLegacy
}

func (t Trigger) Clone() Trigger {
	t.Parameters = cloneMap(t.Parameters)
	if t.Actions != nil {
		actions := make([]map[string]any, len(t.Actions))
		for i, a := range t.Actions {
			actions[i] = cloneMap(a)
		}
		t.Actions = actions
	}
	return t
}

// Params reads the typed parameter record for the trigger's kind. Missing or
// mistyped keys read back as the kind's defaults.
func (t Trigger) Params() TriggerParams {
	p := t.Parameters
	switch t.Type {
	case TriggerTeleport:
		return TeleportParams{
			Area: stringParam(p, "area", ""),
			X:    intParam(p, "x", 0),
			Y:    intParam(p, "y", 0),
		}
	case TriggerInventory:
		return InventoryParams{
			Add:    stringParam(p, "add", ""),
			Remove: stringParam(p, "remove", ""),
		}
	case TriggerTileUpdate:
		return TileUpdateParams{
			X:        intParam(p, "x", 0),
			Y:        intParam(p, "y", 0),
			Tile:     stringParam(p, "tile", ""),
			Walkable: boolParam(p, "walkable", true),
		}
	case TriggerAreaObject:
		return AreaObjectParams{
			Area:   stringParam(p, "area", ""),
			Object: stringParam(p, "object", ""),
		}
	case TriggerGameEnd:
		return GameEndParams{
			WinLose: stringParam(p, "win_lose", "win"),
			Message: stringParam(p, "message", ""),
		}
	case TriggerShowDialog:
		return ShowDialogParams{Message: stringParam(p, "message", "")}
	case TriggerCustom:
		return CustomParams{
			Code:   stringParam(p, "code", ""),
			Script: stringParam(p, "script", ""),
		}
	default:
		return LegacyParams{Actions: t.Actions}
	}
}

// SetParams switches the trigger to p's kind and writes p's keys into
// Parameters. Keys the kind does not define are kept.
func (t *Trigger) SetParams(p TriggerParams) {
	if t.Parameters == nil {
		t.Parameters = make(map[string]any)
	}
	t.Type = p.Kind()
	for k, v := range p.Values() {
		t.Parameters[k] = v
	}
}

// Describe renders a short summary of what the trigger does.
func Describe(t Trigger) string {
	return t.Params().Describe()
}

// TriggerParams is the strongly-typed parameter record of one trigger kind.
type TriggerParams interface {
	Kind() TriggerType
	Describe() string
	Values() map[string]any
}

type TeleportParams struct {
	Area string
	X    int
	Y    int
}

type InventoryParams struct {
	Add    string
	Remove string
}

type TileUpdateParams struct {
	X        int
	Y        int
	Tile     string
	Walkable bool
}

type AreaObjectParams struct {
	Area   string
	Object string
}

type GameEndParams struct {
	WinLose string
	Message string
}

type ShowDialogParams struct {
	Message string
}

// CustomParams stores code as opaque text. Script names an external trigger
// script when the trigger was placed from the script palette.
type CustomParams struct {
	Code   string
	Script string
}

type LegacyParams struct {
	Actions []map[string]any
}

// DefaultParams returns the parameter record a new trigger of kind tt gets.
func DefaultParams(tt TriggerType) TriggerParams {
	return Trigger{Type: tt}.Params()
}

func (TeleportParams) Kind() TriggerType   { return TriggerTeleport }
func (InventoryParams) Kind() TriggerType  { return TriggerInventory }
func (TileUpdateParams) Kind() TriggerType { return TriggerTileUpdate }
func (AreaObjectParams) Kind() TriggerType { return TriggerAreaObject }
func (GameEndParams) Kind() TriggerType    { return TriggerGameEnd }
func (ShowDialogParams) Kind() TriggerType { return TriggerShowDialog }
func (CustomParams) Kind() TriggerType     { return TriggerCustom }
func (LegacyParams) Kind() TriggerType     { return TriggerLegacy }

func (p TeleportParams) Describe() string {
	return fmt.Sprintf("Teleport to %s (%d,%d)", p.Area, p.X, p.Y)
}

func (p InventoryParams) Describe() string {
	var clauses []string
	if p.Add != "" {
		clauses = append(clauses, "Add: "+p.Add)
	}
	if p.Remove != "" {
		clauses = append(clauses, "Remove: "+p.Remove)
	}
	if len(clauses) == 0 {
		return "Inventory change"
	}
	return strings.Join(clauses, ", ")
}

func (p TileUpdateParams) Describe() string {
	tile := p.Tile
	if tile == "" {
		tile = EmptyTileType
	}
	s := fmt.Sprintf("Set tile (%d,%d) to %s", p.X, p.Y, tile)
	if !p.Walkable {
		s += " (blocked)"
	}
	return s
}

func (p AreaObjectParams) Describe() string {
	if p.Area == "" && p.Object == "" {
		return "Area object change"
	}
	return fmt.Sprintf("Object %s in %s", p.Object, p.Area)
}

func (p GameEndParams) Describe() string {
	if p.Message == "" {
		return fmt.Sprintf("Game end (%s)", p.WinLose)
	}
	return fmt.Sprintf("Game end (%s): %s", p.WinLose, p.Message)
}

const dialogPreviewLen = 30

func (p ShowDialogParams) Describe() string {
	msg := []rune(p.Message)
	if len(msg) > dialogPreviewLen {
		return "Dialog: " + string(msg[:dialogPreviewLen]) + "..."
	}
	return "Dialog: " + p.Message
}

func (p CustomParams) Describe() string {
	if p.Script != "" {
		return "Custom script: " + p.Script
	}
	if strings.TrimSpace(p.Code) == "" {
		return "Custom code (empty)"
	}
	return fmt.Sprintf("Custom code (%d lines)", strings.Count(p.Code, "\n")+1)
}

func (p LegacyParams) Describe() string {
	return fmt.Sprintf("Legacy trigger (%d actions)", len(p.Actions))
}

func (p TeleportParams) Values() map[string]any {
	return map[string]any{"area": p.Area, "x": p.X, "y": p.Y}
}

func (p InventoryParams) Values() map[string]any {
	return map[string]any{"add": p.Add, "remove": p.Remove}
}

func (p TileUpdateParams) Values() map[string]any {
	return map[string]any{"x": p.X, "y": p.Y, "tile": p.Tile, "walkable": p.Walkable}
}

func (p AreaObjectParams) Values() map[string]any {
	return map[string]any{"area": p.Area, "object": p.Object}
}

func (p GameEndParams) Values() map[string]any {
	return map[string]any{"win_lose": p.WinLose, "message": p.Message}
}

func (p ShowDialogParams) Values() map[string]any {
	return map[string]any{"message": p.Message}
}

func (p CustomParams) Values() map[string]any {
	v := map[string]any{"code": p.Code}
	if p.Script != "" {
		v["script"] = p.Script
	}
	return v
}

func (p LegacyParams) Values() map[string]any {
	return map[string]any{}
}

// ParamKeys lists the editable keys of a kind in form order.
func ParamKeys(tt TriggerType) []string {
	switch tt {
	case TriggerTeleport:
		return []string{"area", "x", "y"}
	case TriggerInventory:
		return []string{"add", "remove"}
	case TriggerTileUpdate:
		return []string{"x", "y", "tile", "walkable"}
	case TriggerAreaObject:
		return []string{"area", "object"}
	case TriggerGameEnd:
		return []string{"win_lose", "message"}
	case TriggerShowDialog:
		return []string{"message"}
	case TriggerCustom:
		return []string{"code", "script"}
	default:
		return nil
	}
}

// ApplyFields parses form text into a copy of p. Keys are applied in sorted
// order so the first reported error is stable. p is never modified.
func ApplyFields(p TriggerParams, fields map[string]string) (TriggerParams, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	switch v := p.(type) {
	case TeleportParams:
		for _, k := range keys {
			val := fields[k]
			switch k {
			case "area":
				v.Area = val
			case "x":
				v.X, err = parseIntField(k, val)
			case "y":
				v.Y, err = parseIntField(k, val)
			default:
				err = unknownField(v.Kind(), k)
			}
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	case InventoryParams:
		for _, k := range keys {
			switch k {
			case "add":
				v.Add = fields[k]
			case "remove":
				v.Remove = fields[k]
			default:
				return nil, unknownField(v.Kind(), k)
			}
		}
		return v, nil
	case TileUpdateParams:
		for _, k := range keys {
			val := fields[k]
			switch k {
			case "x":
				v.X, err = parseIntField(k, val)
			case "y":
				v.Y, err = parseIntField(k, val)
			case "tile":
				v.Tile = val
			case "walkable":
				v.Walkable, err = parseBoolField(k, val)
			default:
				err = unknownField(v.Kind(), k)
			}
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	case AreaObjectParams:
		for _, k := range keys {
			switch k {
			case "area":
				v.Area = fields[k]
			case "object":
				v.Object = fields[k]
			default:
				return nil, unknownField(v.Kind(), k)
			}
		}
		return v, nil
	case GameEndParams:
		for _, k := range keys {
			val := fields[k]
			switch k {
			case "win_lose":
				val = strings.ToLower(strings.TrimSpace(val))
				if val != "win" && val != "lose" {
					return nil, &ValidationError{Field: k, Value: fields[k], Reason: "must be win or lose"}
				}
				v.WinLose = val
			case "message":
				v.Message = val
			default:
				return nil, unknownField(v.Kind(), k)
			}
		}
		return v, nil
	case ShowDialogParams:
		for _, k := range keys {
			if k != "message" {
				return nil, unknownField(v.Kind(), k)
			}
			v.Message = fields[k]
		}
		return v, nil
	case CustomParams:
		for _, k := range keys {
			switch k {
			case "code":
				v.Code = fields[k]
			case "script":
				v.Script = fields[k]
			default:
				return nil, unknownField(v.Kind(), k)
			}
		}
		return v, nil
	default:
		return nil, &ValidationError{Field: "trigger_type", Value: string(p.Kind()), Reason: "parameters are not editable"}
	}
}

func unknownField(tt TriggerType, key string) error {
	return &ValidationError{Field: key, Reason: fmt.Sprintf("not a %s parameter", tt)}
}

func parseIntField(key, val string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, &ValidationError{Field: key, Value: val, Reason: "must be an integer", Err: err}
	}
	return n, nil
}

func parseBoolField(key, val string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return false, &ValidationError{Field: key, Value: val, Reason: "must be true or false", Err: err}
	}
	return b, nil
}

func stringParam(p map[string]any, key, def string) string {
	switch v := p[key].(type) {
	case nil:
		return def
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func intParam(p map[string]any, key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func boolParam(p map[string]any, key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}
