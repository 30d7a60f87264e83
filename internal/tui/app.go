// Package tui is the single-page terminal front end: one list of items, each
// of which can be expanded in place to show and edit its details.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/erazemk/itemdesk/internal/form"
	"github.com/erazemk/itemdesk/internal/model"
	"github.com/erazemk/itemdesk/internal/state"
)

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeEdit
)

// Operation names used in status messages.
const (
	opRefresh = "refresh"
	opAdd     = "add"
	opUpdate  = "update"
	opDelete  = "delete"
)

// snapshotMsg carries a store change notification into the program.
type snapshotMsg state.Snapshot

// opDoneMsg reports the outcome of an API call.
type opDoneMsg struct {
	op  string
	err error
}

// Model is the Bubble Tea model. It renders from store snapshots delivered by
// a subscription and never mutates items itself.
type Model struct {
	ctrl        *state.Controller
	updates     chan state.Snapshot
	unsubscribe func()

	list   list.Model
	keys   keyMap
	snap   state.Snapshot
	mode   mode
	editor editor
	notice string
	failed bool
	busy   bool

	width, height int
}

// New creates the model and subscribes it to ctrl's store. Call Close when
// done.
func New(ctrl *state.Controller) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Items"
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("item", "items")

	// Only the latest snapshot matters; a full buffer is drained first.
	updates := make(chan state.Snapshot, 1)
	unsubscribe := ctrl.Store().Subscribe(func(s state.Snapshot) {
		for {
			select {
			case updates <- s:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})

	m := Model{
		ctrl:        ctrl,
		updates:     updates,
		unsubscribe: unsubscribe,
		list:        l,
		keys:        defaultKeys(),
	}
	m.apply(ctrl.Store().Snapshot())
	return m
}

// Close removes the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(ctrl *state.Controller) error {
	m := New(ctrl)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.updates), fetchCmd(m.ctrl))
}

func waitForSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

func fetchCmd(ctrl *state.Controller) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opRefresh, err: ctrl.FetchItems(context.Background())}
	}
}

func addCmd(ctrl *state.Controller, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opAdd, err: ctrl.AddItem(context.Background(), d)}
	}
}

func updateCmd(ctrl *state.Controller, item model.Item) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opUpdate, err: ctrl.UpdateItem(context.Background(), item)}
	}
}

func deleteCmd(ctrl *state.Controller, id int64) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: opDelete, err: ctrl.DeleteItem(context.Background(), id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case snapshotMsg:
		m.apply(state.Snapshot(msg))
		return m, waitForSnapshot(m.updates)

	case opDoneMsg:
		m.busy = false
		switch {
		case errors.Is(msg.err, state.ErrRefresh):
			m.setNotice(true, doneMessage(msg.op)+" The list could not be refreshed.")
		case msg.err != nil:
			m.setNotice(true, fmt.Sprintf("%s failed: %v", msg.op, msg.err))
			return m, nil
		default:
			m.setNotice(false, doneMessage(msg.op))
		}
		if msg.op == opAdd || msg.op == opUpdate {
			m.mode = modeBrowse
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != modeBrowse {
			return m.updateEditor(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func doneMessage(op string) string {
	switch op {
	case opAdd:
		return "Item added."
	case opUpdate:
		return "Item updated."
	case opDelete:
		return "Item deleted."
	default:
		return ""
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, fetchCmd(m.ctrl)

	case key.Matches(msg, m.keys.Add):
		f := form.New(nil)
		f.SetDraft(m.ctrl.Draft())
		m.openEditor(modeCreate, f)
		return m, nil
	}

	item, ok := m.selected()
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.ToggleDetails(item.ID)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if !item.ShowDetails {
			m.ctrl.ToggleDetails(item.ID)
		}
		m.openEditor(modeEdit, form.New(&item))
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.busy = true
		return m, deleteCmd(m.ctrl, item.ID)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) openEditor(md mode, f *form.Form) {
	m.mode = md
	m.editor = newEditor(f)
	m.setNotice(false, "")
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.mode == modeCreate {
			m.ctrl.SetDraft(m.editor.form.Draft())
		}
		m.mode = modeBrowse
		return m, nil

	case key.Matches(msg, m.keys.Submit) && !m.busy:
		var cmd tea.Cmd
		f := m.editor.form
		f.OnSubmit = func(d model.Draft) error {
			if f.Mode() == form.ModeEdit {
				cmd = updateCmd(m.ctrl, f.Item())
			} else {
				m.ctrl.SetDraft(d)
				cmd = addCmd(m.ctrl, d)
			}
			return nil
		}
		if err := f.Submit(); err != nil {
			if errors.Is(err, form.ErrRequired) {
				m.setNotice(true, "Title and text are required.")
			} else {
				m.setNotice(true, err.Error())
			}
			return m, nil
		}
		m.busy = true
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg, m.keys)
	return m, cmd
}

// apply installs a new snapshot, keeping the selection on the same item.
// Older snapshots are ignored.
func (m *Model) apply(snap state.Snapshot) {
	if snap.Version < m.snap.Version {
		return
	}
	selectedID := int64(-1)
	if it, ok := m.selected(); ok {
		selectedID = it.ID
	}

	m.snap = snap
	items := make([]list.Item, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = listItem{item: it, pos: i + 1}
	}
	m.list.SetItems(items)

	if idx := snap.Position(selectedID); idx > 0 {
		m.list.Select(idx - 1)
	}

	if m.mode == modeEdit {
		item, ok := snap.Find(m.editor.form.ID())
		if !ok {
			m.mode = modeBrowse
			return
		}
		m.editor.reseed(&item)
	}
}

func (m Model) selected() (model.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Item{}, false
	}
	return li.item, true
}

func (m *Model) setNotice(failed bool, msg string) {
	m.failed = failed
	m.notice = msg
}

func (m *Model) resize() {
	h := m.height - 4
	if it, ok := m.selected(); ok && it.ShowDetails || m.mode != modeBrowse {
		h = m.height / 2
	}
	if h < 4 {
		h = 4
	}
	m.list.SetSize(m.width, h)
}

func (m Model) View() string {
	m.resize()

	var sections []string
	sections = append(sections, m.list.View())

	if panel := m.panel(); panel != "" {
		sections = append(sections, panel)
	}

	switch {
	case m.busy:
		sections = append(sections, mutedStyle.Render("working…"))
	case m.notice != "" && m.failed:
		sections = append(sections, errorStyle.Render(m.notice))
	case m.notice != "":
		sections = append(sections, successStyle.Render(m.notice))
	}

	sections = append(sections, m.help())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// panel renders the create form or the details of the selected item.
func (m Model) panel() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	if m.mode == modeCreate {
		return panelStyle.Width(width).Render(titleStyle.Render("New item") + "\n" + m.editor.view())
	}

	item, ok := m.selected()
	if !ok || !item.ShowDetails {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(fmt.Sprintf("%d. %s", m.snap.Position(item.ID), item.Title)),
		statusStyle(item.Status).Render("["+item.Status.Label()+"]"))
	if text := renderMarkdown(item.Text, width-2); text != "" {
		b.WriteString(text + "\n")
	}
	if m.mode == modeEdit && m.editor.form.ID() == item.ID {
		b.WriteString("\n" + m.editor.view())
	}
	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) help() string {
	bindings := m.keys.browseHelp()
	if m.mode != modeBrowse {
		bindings = m.keys.editorHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}
