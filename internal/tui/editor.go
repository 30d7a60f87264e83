package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/erazemk/itemdesk/internal/form"
	"github.com/erazemk/itemdesk/internal/model"
)

type field int

const (
	fieldTitle field = iota
	fieldText
	fieldStatus
	fieldCount
)

// editor binds text inputs to a form.Form.
type editor struct {
	form  *form.Form
	title textinput.Model
	text  textinput.Model
	focus field
}

func newEditor(f *form.Form) editor {
	e := editor{
		form:  f,
		title: newInput("Title: ", "required"),
		text:  newInput("Text:  ", "required"),
	}
	e.load()
	e.setFocus(fieldTitle)
	return e
}

func newInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	return ti
}

// load copies the form draft into the inputs.
func (e *editor) load() {
	d := e.form.Draft()
	e.title.SetValue(d.Title)
	e.text.SetValue(d.Text)
}

// reseed points the form at a new initial record and refreshes the inputs if
// the draft changed as a result.
func (e *editor) reseed(item *model.Item) {
	before := e.form.Draft()
	e.form.Reseed(item)
	if e.form.Draft() != before {
		e.load()
	}
}

func (e *editor) setFocus(f field) {
	e.focus = f
	e.title.Blur()
	e.text.Blur()
	switch f {
	case fieldTitle:
		e.title.Focus()
	case fieldText:
		e.text.Focus()
	}
}

func (e editor) update(msg tea.KeyMsg, keys keyMap) (editor, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Next):
		e.setFocus((e.focus + 1) % fieldCount)
		return e, nil
	case key.Matches(msg, keys.Prev):
		e.setFocus((e.focus + fieldCount - 1) % fieldCount)
		return e, nil
	}

	if e.focus == fieldStatus {
		status := e.form.Draft().Status
		switch msg.String() {
		case " ", "right", "l":
			e.form.SetStatus(status.Next())
		case "left", "h":
			e.form.SetStatus(status.Prev())
		case "0", "1", "2":
			_ = e.form.SetStatusString(msg.String())
		}
		return e, nil
	}

	var cmd tea.Cmd
	if e.focus == fieldTitle {
		e.title, cmd = e.title.Update(msg)
		e.form.SetTitle(e.title.Value())
	} else {
		e.text, cmd = e.text.Update(msg)
		e.form.SetText(e.text.Value())
	}
	return e, cmd
}

func (e editor) view() string {
	var b strings.Builder
	b.WriteString(e.title.View() + "\n")
	b.WriteString(e.text.View() + "\n")

	var opts []string
	current := e.form.Draft().Status
	for _, s := range model.Statuses {
		label := s.String() + " " + s.Label()
		if s == current {
			label = statusStyle(s).Render("(•) " + label)
		} else {
			label = mutedStyle.Render("( ) " + label)
		}
		opts = append(opts, label)
	}
	prompt := "Status: "
	if e.focus == fieldStatus {
		prompt = focusStyle.Render(prompt)
	}
	b.WriteString(prompt + strings.Join(opts, "  ") + "\n")
	b.WriteString(helpStyle.Render("[enter] " + e.form.ButtonLabel()))
	return b.String()
}
