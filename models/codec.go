package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Wire records. Pointer fields distinguish absent keys from zero values so
// decoding can apply each type's defaults.

type tileRecord struct {
	Type             *string        `json:"type"`
	WalkableOverride *bool          `json:"walkable_override"`
	Properties       map[string]any `json:"properties"`
}

type objectRecord struct {
	Type       *string        `json:"type"`
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Properties map[string]any `json:"properties"`
}

type triggerRecord struct {
	X           int              `json:"x"`
	Y           int              `json:"y"`
	TriggerType *string          `json:"trigger_type,omitempty"`
	Name        string           `json:"name,omitempty"`
	Parameters  map[string]any   `json:"parameters,omitempty"`
	Actions     []map[string]any `json:"actions,omitempty"`
}

type areaRecord struct {
	Name     *string             `json:"name"`
	Width    *int                `json:"width"`
	Height   *int                `json:"height"`
	Tiles    [][]json.RawMessage `json:"tiles"`
	Objects  []objectRecord      `json:"objects"`
	Triggers []json.RawMessage   `json:"triggers"`
}

// decodeJSON decodes with UseNumber so numbers inside open-ended maps can be
// normalized without losing precision.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// normalizeNumber maps a decoded literal onto the Go type the constructors
// use: int when it is an integer that fits, float64 when that encodes back to
// the same literal. Anything else stays a json.Number so it is rewritten
// unchanged.
func normalizeNumber(n json.Number) any {
	if i, err := strconv.ParseInt(string(n), 10, 0); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		if b, err := json.Marshal(f); err == nil && string(b) == string(n) {
			return f
		}
	}
	return n
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		return normalizeNumber(v)
	case map[string]any:
		normalizeMap(v)
	case []any:
		for i := range v {
			v[i] = normalizeValue(v[i])
		}
	}
	return v
}

func normalizeMap(m map[string]any) {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
}

func (t Tile) MarshalJSON() ([]byte, error) {
	typ := t.Type
	if typ == "" {
		typ = EmptyTileType
	}
	props := t.Properties
	if props == nil {
		props = map[string]any{}
	}
	return json.Marshal(tileRecord{Type: &typ, WalkableOverride: t.WalkableOverride, Properties: props})
}

func (o GameObject) MarshalJSON() ([]byte, error) {
	props := o.Properties
	if props == nil {
		props = map[string]any{}
	}
	return json.Marshal(objectRecord{Type: &o.Type, X: o.X, Y: o.Y, Properties: props})
}

func (t Trigger) MarshalJSON() ([]byte, error) {
	if t.IsLegacy() {
		actions := t.Actions
		if actions == nil {
			actions = []map[string]any{}
		}
		// omitempty would drop an empty list and lose the legacy marker
		return json.Marshal(struct {
			X       int              `json:"x"`
			Y       int              `json:"y"`
			Name    string           `json:"name,omitempty"`
			Actions []map[string]any `json:"actions"`
		}{t.X, t.Y, t.Name, actions})
	}
	typ := string(t.Type)
	params := t.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return json.Marshal(struct {
		X           int            `json:"x"`
		Y           int            `json:"y"`
		TriggerType string         `json:"trigger_type"`
		Name        string         `json:"name"`
		Parameters  map[string]any `json:"parameters"`
	}{t.X, t.Y, typ, t.Name, params})
}

func (a Area) MarshalJSON() ([]byte, error) {
	tiles := a.Tiles
	if tiles == nil {
		tiles = [][]Tile{}
	}
	objects := a.Objects
	if objects == nil {
		objects = []GameObject{}
	}
	triggers := a.Triggers
	if triggers == nil {
		triggers = []Trigger{}
	}
	return json.Marshal(struct {
		Name     string       `json:"name"`
		Width    int          `json:"width"`
		Height   int          `json:"height"`
		Tiles    [][]Tile     `json:"tiles"`
		Objects  []GameObject `json:"objects"`
		Triggers []Trigger    `json:"triggers"`
	}{a.Name, a.Width, a.Height, tiles, objects, triggers})
}

func (a *Area) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeArea(data)
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

// EncodeArea serializes an area in the indented storage format.
func EncodeArea(a *Area) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// DecodeArea reconstructs typed records from a stored area, applying defaults
// for absent fields. The grid is normalized to Height x Width; entity
// coordinates are kept as stored even when out of range.
func DecodeArea(data []byte) (*Area, error) {
	var rec areaRecord
	if err := decodeJSON(data, &rec); err != nil {
		return nil, fmt.Errorf("decode area: %w", err)
	}

	a := &Area{Name: DefaultAreaName, Width: DefaultAreaWidth, Height: DefaultAreaHeight}
	if rec.Name != nil {
		a.Name = *rec.Name
	}
	if rec.Height != nil {
		a.Height = *rec.Height
	} else if len(rec.Tiles) > 0 {
		a.Height = len(rec.Tiles)
	}
	if rec.Width != nil {
		a.Width = *rec.Width
	} else if len(rec.Tiles) > 0 {
		a.Width = len(rec.Tiles[0])
	}
	if err := ValidateDimensions(a.Width, a.Height); err != nil {
		return nil, fmt.Errorf("decode area: %w", err)
	}

	a.Tiles = NewGrid(a.Width, a.Height)
	for y, row := range rec.Tiles {
		if y >= a.Height {
			break
		}
		for x, raw := range row {
			if x >= a.Width {
				break
			}
			tile, err := decodeTile(raw)
			if err != nil {
				return nil, fmt.Errorf("decode area: tile (%d,%d): %w", x, y, err)
			}
			a.Tiles[y][x] = tile
		}
	}

	a.Objects = make([]GameObject, 0, len(rec.Objects))
	for _, o := range rec.Objects {
		obj := NewGameObject(DefaultObjectType, o.X, o.Y)
		if o.Type != nil && *o.Type != "" {
			obj.Type = *o.Type
		}
		if o.Properties != nil {
			normalizeMap(o.Properties)
			obj.Properties = o.Properties
		}
		a.Objects = append(a.Objects, obj)
	}

	a.Triggers = make([]Trigger, 0, len(rec.Triggers))
	for i, raw := range rec.Triggers {
		t, err := decodeTrigger(raw)
		if err != nil {
			return nil, fmt.Errorf("decode area: trigger %d: %w", i, err)
		}
		if _, dup := a.TriggerByName(t.Name); t.Name == "" || dup {
			t.Name = a.NextTriggerName()
		}
		a.Triggers = append(a.Triggers, t)
	}
	return a, nil
}

// decodeTile accepts a tile record, a bare type string, or null.
func decodeTile(raw json.RawMessage) (Tile, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return DefaultTile(), nil
	}
	switch trimmed[0] {
	case '"':
		var typ string
		if err := json.Unmarshal(trimmed, &typ); err != nil {
			return Tile{}, err
		}
		return NewTile(typ), nil
	case '{':
		var rec tileRecord
		if err := decodeJSON(trimmed, &rec); err != nil {
			return Tile{}, err
		}
		tile := DefaultTile()
		if rec.Type != nil && *rec.Type != "" {
			tile.Type = *rec.Type
		}
		tile.WalkableOverride = rec.WalkableOverride
		if rec.Properties != nil {
			normalizeMap(rec.Properties)
			tile.Properties = rec.Properties
		}
		return tile, nil
	default:
		return Tile{}, fmt.Errorf("unexpected tile value %s", trimmed)
	}
}

// decodeTrigger detects which of the two historical shapes a record uses:
// the current {x,y,trigger_type,name,parameters} or the legacy
// {x,y,actions}. A record with neither key is the legacy default.
func decodeTrigger(raw json.RawMessage) (Trigger, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return Trigger{}, err
	}
	var rec triggerRecord
	if err := decodeJSON(raw, &rec); err != nil {
		return Trigger{}, err
	}

	if _, current := keys["trigger_type"]; current && rec.TriggerType != nil {
		tt, err := ParseTriggerType(*rec.TriggerType)
		if err != nil {
			return Trigger{}, err
		}
		t := Trigger{X: rec.X, Y: rec.Y, Type: tt, Name: rec.Name, Parameters: rec.Parameters}
		if t.Parameters == nil {
			t.Parameters = make(map[string]any)
		}
		normalizeMap(t.Parameters)
		return t, nil
	}

	actions := rec.Actions
	if actions == nil {
		actions = []map[string]any{}
	}
	for _, a := range actions {
		normalizeMap(a)
	}
	return Trigger{
		X:          rec.X,
		Y:          rec.Y,
		Type:       TriggerLegacy,
		Name:       rec.Name,
		Parameters: make(map[string]any),
		Actions:    actions,
	}, nil
}

// EncodeGame serializes a game in the indented storage format.
func EncodeGame(g *Game) ([]byte, error) {
	out := *g
	out.normalize()
	return json.MarshalIndent(&out, "", "  ")
}

// DecodeGame parses a stored game, defaulting absent lists to empty.
func DecodeGame(data []byte) (*Game, error) {
	var g Game
	if err := decodeJSON(data, &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	normalizeMap(g.Properties)
	g.normalize()
	return &g, nil
}
