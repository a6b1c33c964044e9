package output

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdMu        sync.Mutex
	mdRenderers = map[int]*glamour.TermRenderer{}
	mdStyle     = "dark"
)

// Markdown renders a task description for the terminal, wrapped at width.
// It falls back to the raw text when rendering fails.
func Markdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	const minWidth = 20
	width = max(width, minWidth)

	mdMu.Lock()
	defer mdMu.Unlock()
	r := mdRenderers[width]
	if r == nil {
		var err error
		// A fixed style avoids terminal background queries.
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(mdStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[width] = r
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func plainMarkdown() {
	mdMu.Lock()
	defer mdMu.Unlock()
	mdStyle = "notty"
	mdRenderers = map[int]*glamour.TermRenderer{}
}
