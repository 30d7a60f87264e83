package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width; building one is not cheap.
	mdRenderers = map[string]*glamour.TermRenderer{}

	// markdownStyle is "dark" or "notty". Tests pin it to "notty".
	markdownStyle = "dark"
)

func markdownStyleConfig(name string) ansi.StyleConfig {
	if name == "notty" {
		return styles.NoTTYStyleConfig
	}
	return styles.DarkStyleConfig
}

// renderMarkdown renders item text for the details panel. It falls back to
// the raw text if glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()

	key := markdownStyle + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(markdownStyle)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
