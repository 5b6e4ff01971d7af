// Package tui is the terminal front end of the area editor. It renders the
// current area with tcell and maps keys and mouse clicks onto
// services.EditorSession commands.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"tinker-realm/editor/models"
	"tinker-realm/editor/services"
)

// AreaLister is implemented by stores that can enumerate saved areas.
type AreaLister interface {
	ListAreas() ([]string, error)
}

// App is the terminal editor. It is single-threaded: events are handled and
// the screen redrawn on the goroutine that calls Run.
type App struct {
	screen  tcell.Screen
	session *services.EditorSession
	areas   AreaLister
	sound   Beeper
	log     logrus.FieldLogger

	status    string
	statusErr bool
	prompt    *prompt
	form      *triggerForm

	// Palette position per mode.
	palette map[services.Mode]int
}

// NewApp wires an editor to screen. The screen must already be initialised.
func NewApp(screen tcell.Screen, session *services.EditorSession, sound Beeper, log logrus.FieldLogger) *App {
	a := &App{
		screen:  screen,
		session: session,
		sound:   sound,
		log:     log,
		palette: make(map[services.Mode]int),
	}
	session.SetTriggerEditor(a)
	a.selectPaletteItem()
	a.notify("Tab: mode  [ ]: item  Space: place  Del: remove  Ctrl+S: save  Esc: quit")
	return a
}

// SetAreaLister lets the open prompt show which areas exist.
func (a *App) SetAreaLister(l AreaLister) {
	a.areas = l
}

// Run draws the editor and handles events until the user quits or the
// screen is finalised.
func (a *App) Run() error {
	a.screen.EnableMouse()
	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.HandleEvent(ev) {
			return nil
		}
		a.Draw()
	}
}

// HandleEvent applies one event. It returns false when the editor should
// exit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 && a.prompt == nil && a.form == nil {
			a.click(ev.Position())
		}
	case *tcell.EventKey:
		switch {
		case a.prompt != nil:
			a.promptKey(ev)
		case a.form != nil:
			a.formKey(ev)
		default:
			return a.editKey(ev)
		}
	}
	return true
}

func (a *App) editKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return false
	case tcell.KeyUp:
		a.move(services.Up)
	case tcell.KeyDown:
		a.move(services.Down)
	case tcell.KeyLeft:
		a.move(services.Left)
	case tcell.KeyRight:
		a.move(services.Right)
	case tcell.KeyTab:
		a.cycleMode(1)
	case tcell.KeyBacktab:
		a.cycleMode(-1)
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.remove()
	case tcell.KeyCtrlS:
		a.saveAll()
	case tcell.KeyCtrlO:
		a.ask("Open area: ", "", a.openArea)
		a.listAreas()
	case tcell.KeyCtrlG:
		a.ask("Open game: ", "", a.openGame)
	case tcell.KeyCtrlN:
		a.check(a.session.NewArea(), "New area")
	case tcell.KeyRune:
		a.runeKey(ev.Rune())
	}
	return true
}

func (a *App) runeKey(r rune) {
	switch {
	case r == ' ':
		a.place()
	case r == '[':
		a.cyclePalette(-1)
	case r == ']':
		a.cyclePalette(1)
	case r >= '1' && r <= '0'+models.MaxTriggersPerCell:
		a.selectTrigger(int(r - '0'))
	case r == 'e':
		if _, err := a.session.EditSelectedTrigger(); err != nil {
			a.fail(err)
		}
	case r == 'w':
		a.cycleWalkable()
	case r == 'c':
		a.crop()
	case r == 'R':
		area := a.session.Area()
		a.ask("Resize to WxH: ", fmt.Sprintf("%dx%d", area.Width, area.Height), a.resize)
	case r == 'n':
		a.ask("Area name: ", a.session.Area().Name, func(name string) error {
			a.session.RenameArea(name)
			a.notify("Area renamed")
			return nil
		})
	case r == 'g':
		a.ask("Game name: ", a.session.Game().Name, func(name string) error {
			a.session.RenameGame(name)
			a.notify("Game renamed")
			return nil
		})
	case r == 'u':
		used := a.session.RescanUsedAssets()
		a.notify(fmt.Sprintf("Used assets: %d tiles, %d npcs, %d objects, %d triggers",
			len(used.Tiles), len(used.NPCs), len(used.Objects), len(used.Triggers)))
	case r == 'a':
		a.addAreaToGame()
	case r == 'N':
		a.check(a.session.NewGame(), "New game")
	}
}

func (a *App) move(dir services.Direction) {
	if err := a.session.MoveCursor(dir); err != nil {
		a.fail(err)
	}
}

func (a *App) click(x, y int) {
	l := a.layout()
	if x < 0 || y < 0 || x >= l.mapWidth || y >= l.mapHeight {
		return
	}
	if err := a.session.SetCursor(x+l.offsetX, y+l.offsetY); err != nil {
		a.sound.Beep()
	}
}

func (a *App) cycleMode(step int) {
	modes := services.Modes
	cur := 0
	for i, m := range modes {
		if m == a.session.Mode() {
			cur = i
		}
	}
	a.session.SetMode(modes[(cur+step+len(modes))%len(modes)])
	a.selectPaletteItem()
	a.notify("Mode: " + string(a.session.Mode()))
}

func (a *App) cyclePalette(step int) {
	mode := a.session.Mode()
	items := a.session.Palette(mode)
	if len(items) == 0 {
		a.sound.Beep()
		return
	}
	a.palette[mode] = (a.palette[mode] + step + len(items)) % len(items)
	a.selectPaletteItem()
}

// selectPaletteItem selects the current mode's remembered palette entry.
func (a *App) selectPaletteItem() {
	mode := a.session.Mode()
	items := a.session.Palette(mode)
	if len(items) == 0 {
		a.session.SelectItem("")
		return
	}
	i := a.palette[mode]
	if i >= len(items) {
		i = 0
		a.palette[mode] = 0
	}
	a.session.SelectItem(items[i])
}

func (a *App) place() {
	outcome, err := a.session.Place()
	if err != nil {
		a.fail(err)
		return
	}
	if a.form == nil {
		a.notify(fmt.Sprintf("%s: %s", a.session.Mode(), outcome))
	}
}

func (a *App) remove() {
	outcome, err := a.session.Remove()
	if err != nil {
		a.fail(err)
		return
	}
	if outcome == services.OutcomeUnchanged {
		a.sound.Beep()
	}
	a.notify(fmt.Sprintf("%s: %s", a.session.Mode(), outcome))
}

func (a *App) selectTrigger(n int) {
	if err := a.session.SelectTrigger(n); err != nil {
		a.fail(err)
		return
	}
	a.notify(fmt.Sprintf("Trigger %d selected", n))
}

var walkableCycle = map[services.WalkableMode]services.WalkableMode{
	services.WalkableDefault: services.WalkableYes,
	services.WalkableYes:     services.WalkableNo,
	services.WalkableNo:      services.WalkableDefault,
}

func (a *App) cycleWalkable() {
	next := walkableCycle[a.session.CellInfo().Override]
	if err := a.session.SetWalkableOverride(next); err != nil {
		a.fail(err)
		return
	}
	a.notify("Walkable: " + string(next))
}

func (a *App) crop() {
	rect, err := a.session.CropToContent()
	if errors.Is(err, models.ErrNothingToCrop) {
		a.notify("Nothing to crop")
		return
	}
	if err != nil {
		a.fail(err)
		return
	}
	a.notify(fmt.Sprintf("Cropped to %dx%d", rect.Width(), rect.Height()))
}

func (a *App) resize(text string) error {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(strings.TrimSpace(text)), "%dx%d", &w, &h); err != nil {
		return &models.ValidationError{Field: "size", Value: text, Reason: "expected WIDTHxHEIGHT", Err: err}
	}
	if err := a.session.Resize(w, h); err != nil {
		return err
	}
	a.notify(fmt.Sprintf("Resized to %dx%d", w, h))
	return nil
}

func (a *App) openArea(file string) error {
	if err := a.session.OpenArea(file); err != nil {
		return err
	}
	a.notify("Opened " + a.session.AreaFile())
	return nil
}

func (a *App) listAreas() {
	if a.areas == nil {
		return
	}
	names, err := a.areas.ListAreas()
	if err != nil {
		a.log.WithError(err).Warn("Failed to list areas")
		return
	}
	if len(names) > 0 {
		a.notify("Areas: " + strings.Join(names, " "))
	}
}

func (a *App) openGame(file string) error {
	available, err := a.session.OpenGame(file)
	if err != nil {
		return err
	}
	a.notify(fmt.Sprintf("Opened %s (%d areas available)", a.session.GameFile(), len(available)))
	return nil
}

func (a *App) addAreaToGame() {
	added, err := a.session.AddAreaToGame()
	if err != nil {
		a.fail(err)
		return
	}
	if added {
		a.notify("Added " + a.session.AreaFile() + " to game")
	} else {
		a.notify("Area already in game")
	}
}

// saveAll asks for whichever file names are still missing, then saves the
// area and game together.
func (a *App) saveAll() {
	if a.session.AreaFile() == "" {
		a.ask("Save area as: ", "", a.saveWithArea)
		return
	}
	_ = a.saveWithArea(a.session.AreaFile())
}

func (a *App) saveWithArea(areaFile string) error {
	if a.session.GameFile() == "" {
		a.ask("Save game as: ", "", func(gameFile string) error {
			a.finishSave(areaFile, gameFile)
			return nil
		})
		return nil
	}
	a.finishSave(areaFile, a.session.GameFile())
	return nil
}

func (a *App) finishSave(areaFile, gameFile string) {
	report := a.session.SaveAll(areaFile, gameFile)
	if report.OK() {
		a.notify("Saved " + strings.Join(report.Saved, ", "))
		return
	}
	a.fail(fmt.Errorf("partially saved: %s", strings.Join(report.Errors, "; ")))
}

func (a *App) check(err error, done string) {
	if err != nil {
		a.fail(err)
		return
	}
	a.notify(done)
}

func (a *App) notify(msg string) {
	a.status = msg
	a.statusErr = false
}

// fail reports a rejected command on the status line with a beep.
func (a *App) fail(err error) {
	a.status = err.Error()
	a.statusErr = true
	a.sound.Beep()
	a.log.WithError(err).Debug("Command rejected")
}
