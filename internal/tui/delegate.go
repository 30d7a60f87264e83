package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/erazemk/itemdesk/internal/model"
)

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	item model.Item
	pos  int
}

func (i listItem) FilterValue() string { return i.item.Title }

// itemDelegate renders one item per row with its 1-based position. Expanded
// items get a second line with a preview of their text.
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 2 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	marker := "▸"
	if it.item.ShowDetails {
		marker = "▾"
	}
	prefix := "  "
	title := it.item.Title
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
		title = selectedStyle.Render(title)
	}

	status := statusStyle(it.item.Status).Render("[" + it.item.Status.Label() + "]")
	line := fmt.Sprintf("%s%s %d. %s %s", prefix, marker, it.pos, title, status)

	var preview string
	if it.item.ShowDetails {
		text := strings.Join(strings.Fields(it.item.Text), " ")
		preview = "      " + mutedStyle.Render(text)
	}

	width := m.Width()
	if width > 0 {
		line = xansi.Truncate(line, width, "…")
		preview = xansi.Truncate(preview, width, "…")
	}
	fmt.Fprintf(w, "%s\n%s", line, preview)
}
