package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"tinker-realm/editor/models"
	"tinker-realm/editor/services"
)

const panelWidth = 36

var (
	styleTile    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBlocked = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleObject  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNPC     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleTrigger = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleFocus   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

var categoryGlyphs = map[models.Category]rune{
	models.CategoryWall:    '#',
	models.CategoryFloor:   '.',
	models.CategoryDoor:    '+',
	models.CategoryStairs:  '>',
	models.CategoryUnknown: '?',
}

// layout places the map viewport and side panel for the current screen.
type layout struct {
	mapWidth, mapHeight int
	offsetX, offsetY    int
	panelX              int
}

func (a *App) layout() layout {
	w, h := a.screen.Size()
	area := a.session.Area()
	cur := a.session.Cursor()

	l := layout{panelX: max(0, w-panelWidth)}
	l.mapWidth = min(area.Width, max(0, l.panelX-1))
	l.mapHeight = min(area.Height, max(0, h-1))
	l.offsetX = scroll(cur.X, l.mapWidth, area.Width)
	l.offsetY = scroll(cur.Y, l.mapHeight, area.Height)
	return l
}

// scroll returns the first visible cell of a view onto total cells so that
// pos stays centred once the area no longer fits.
func scroll(pos, view, total int) int {
	if view <= 0 || total <= view {
		return 0
	}
	return max(0, min(pos-view/2, total-view))
}

// Draw renders the whole editor.
func (a *App) Draw() {
	a.screen.Clear()
	l := a.layout()
	a.drawMap(l)
	a.drawPanel(l)
	a.drawStatus()
	a.screen.Show()
}

func (a *App) drawMap(l layout) {
	cur := a.session.Cursor()
	npcs := a.session.Classifier()
	for sy := 0; sy < l.mapHeight; sy++ {
		for sx := 0; sx < l.mapWidth; sx++ {
			x, y := sx+l.offsetX, sy+l.offsetY
			r, style := a.glyph(x, y, npcs)
			if x == cur.X && y == cur.Y {
				style = style.Reverse(true)
			}
			a.screen.SetContent(sx, sy, r, nil, style)
		}
	}
}

// glyph picks what a cell shows. NPCs cover objects, objects cover triggers
// and triggers cover terrain, except in trigger mode where triggers come
// first.
func (a *App) glyph(x, y int, npcs models.Classifier) (rune, tcell.Style) {
	area := a.session.Area()
	triggers := len(area.TriggerIndices(x, y))
	if triggers > 0 && a.session.Mode() == services.ModeTrigger {
		return triggerGlyph(triggers), styleTrigger
	}

	objects := area.ObjectsAt(x, y)
	for _, o := range objects {
		if npcs.IsNPC(o.Type) {
			return '@', styleNPC
		}
	}
	if len(objects) > 0 {
		return 'o', styleObject
	}
	if triggers > 0 {
		return triggerGlyph(triggers), styleTrigger
	}

	tile := area.TileAt(x, y)
	if tile.IsEmpty() {
		return ' ', styleTile
	}
	style := styleTile
	if a.session.Blocked(x, y, npcs) {
		style = styleBlocked
	}
	return categoryGlyphs[tile.Category()], style
}

// triggerGlyph shows a single trigger as '*' and a stack as its count,
// capped at 9.
func triggerGlyph(n int) rune {
	if n == 1 {
		return '*'
	}
	return rune('0' + min(n, 9))
}

func (a *App) drawPanel(l layout) {
	w, h := a.screen.Size()
	width := w - l.panelX
	area := a.session.Area()
	game := a.session.Game()
	cell := a.session.CellInfo()

	y := 0
	line := func(label, value string, style tcell.Style) {
		if y >= h-1 {
			return
		}
		a.drawText(l.panelX, y, width, label, styleLabel)
		a.drawText(l.panelX+len(label), y, width-len(label), value, style)
		y++
	}

	line("Area: ", fmt.Sprintf("%s (%dx%d)", orDash(area.Name), area.Width, area.Height), styleText)
	line("File: ", orDash(a.session.AreaFile()), styleText)
	line("Game: ", fmt.Sprintf("%s [%s]", orDash(game.Name), orDash(a.session.GameFile())), styleText)
	line("Mode: ", string(a.session.Mode()), styleFocus)
	line("Item: ", orDash(a.session.SelectedItem()), styleText)
	y++
	line("Cell: ", fmt.Sprintf("%d,%d", cell.X, cell.Y), styleText)
	line("Tile: ", fmt.Sprintf("%s [%s]", cell.TileName, cell.Category), styleText)
	line("Walkable: ", fmt.Sprintf("%t (%s)", cell.Walkable, cell.Override), styleText)
	blocked := styleText
	if cell.Blocked {
		blocked = styleBlocked
	}
	line("Blocked: ", fmt.Sprintf("%t", cell.Blocked), blocked)

	names := make([]string, 0, len(cell.Objects))
	for _, o := range cell.Objects {
		if o.NPC {
			names = append(names, o.Type+"(npc)")
		} else {
			names = append(names, o.Type)
		}
	}
	line("Objects: ", orDash(strings.Join(names, ", ")), styleText)
	line("Triggers: ", fmt.Sprintf("%d/%d", len(cell.Triggers), models.MaxTriggersPerCell), styleText)
	for i, t := range cell.Triggers {
		marker, style := fmt.Sprintf(" %d ", i+1), styleText
		if t.Selected {
			marker, style = fmt.Sprintf(">%d ", i+1), styleFocus
		}
		line(marker, t.Name+": "+t.Description, style)
	}

	if a.form != nil {
		y++
		line("Edit ", a.form.name, styleFocus)
		for i, fld := range a.form.fields {
			style := styleText
			label := "  " + fld.key + "="
			if i == a.form.focus {
				style = styleFocus
				label = "> " + fld.key + "="
			}
			line(label, string(fld.value), style)
		}
	}
}

func (a *App) drawStatus() {
	w, h := a.screen.Size()
	if h == 0 {
		return
	}
	if a.prompt != nil {
		a.drawText(0, h-1, w, a.prompt.label, styleLabel)
		a.drawText(len(a.prompt.label), h-1, w-len(a.prompt.label), string(a.prompt.input)+"_", styleFocus)
		return
	}
	style := styleText
	if a.statusErr {
		style = styleError
	}
	a.drawText(0, h-1, w, a.status, style)
}

// drawText writes s from (x, y), cut to width cells.
func (a *App) drawText(x, y, width int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		if i >= width {
			return
		}
		a.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
