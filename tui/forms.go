package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"tinker-realm/editor/models"
)

// prompt is a one-line text input shown on the status row.
type prompt struct {
	label  string
	input  []rune
	submit func(string) error
}

func (a *App) ask(label, initial string, submit func(string) error) {
	a.prompt = &prompt{label: label, input: []rune(initial), submit: submit}
}

func (a *App) promptKey(ev *tcell.EventKey) {
	p := a.prompt
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt = nil
		a.notify("Cancelled")
	case tcell.KeyEnter:
		// submit may open the next prompt.
		a.prompt = nil
		if err := p.submit(strings.TrimSpace(string(p.input))); err != nil {
			a.fail(err)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case tcell.KeyRune:
		p.input = append(p.input, ev.Rune())
	}
}

const typeField = "type"

type formField struct {
	key   string
	value []rune
}

// triggerForm edits one trigger's kind and parameters. The first field is
// always the kind.
type triggerForm struct {
	name   string
	kind   models.TriggerType
	fields []formField
	focus  int
}

func newTriggerForm(t models.Trigger) *triggerForm {
	f := &triggerForm{name: t.Name, kind: t.Type}
	f.fields = append(f.fields, formField{key: typeField, value: []rune(string(t.Type))})
	values := t.Params().Values()
	for _, k := range models.ParamKeys(t.Type) {
		f.fields = append(f.fields, formField{key: k, value: []rune(formatValue(values[k]))})
	}
	if len(f.fields) > 1 {
		f.focus = 1
	}
	return f
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// EditTrigger opens the parameter form for t.
func (a *App) EditTrigger(t models.Trigger) {
	a.form = newTriggerForm(t)
	a.notify("Editing " + t.Name + ": Up/Down field, Enter apply, Esc close")
}

func (a *App) formKey(ev *tcell.EventKey) {
	f := a.form
	switch ev.Key() {
	case tcell.KeyEscape:
		a.form = nil
		a.notify("Closed " + f.name)
	case tcell.KeyUp, tcell.KeyBacktab:
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case tcell.KeyDown, tcell.KeyTab:
		f.focus = (f.focus + 1) % len(f.fields)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v := f.fields[f.focus].value
		if len(v) > 0 {
			f.fields[f.focus].value = v[:len(v)-1]
		}
	case tcell.KeyCtrlU:
		f.fields[f.focus].value = nil
	case tcell.KeyRune:
		f.fields[f.focus].value = append(f.fields[f.focus].value, ev.Rune())
	case tcell.KeyEnter:
		a.applyForm()
	}
}

// applyForm switches the trigger's kind when the type field changed and
// keeps the form open on the new kind's defaults. Otherwise it applies the
// parameter fields and closes the form.
func (a *App) applyForm() {
	f := a.form
	kind := models.TriggerType(strings.TrimSpace(string(f.fields[0].value)))
	if kind != f.kind {
		t, err := a.session.ChangeTriggerType(f.name, kind)
		if err != nil {
			a.fail(err)
			return
		}
		a.form = newTriggerForm(t)
		a.notify(fmt.Sprintf("%s is now %s", t.Name, t.Type))
		return
	}

	fields := make(map[string]string, len(f.fields)-1)
	for _, fld := range f.fields[1:] {
		fields[fld.key] = string(fld.value)
	}
	if len(fields) == 0 {
		a.form = nil
		return
	}
	t, err := a.session.UpdateTrigger(f.name, fields)
	if err != nil {
		a.fail(err)
		return
	}
	a.form = nil
	a.notify(t.Name + ": " + models.Describe(t))
}
