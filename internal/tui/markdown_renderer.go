package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minHelpWrap is the narrowest width the help body renders at; below this
// glamour's table layout degenerates.
const minHelpWrap = 24

// helpMarkdownStyle is the glamour style the overlay body uses.
const helpMarkdownStyle = "dark"

// markdownRenderer renders the help overlay body, rebuilding the glamour
// renderer only when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI-styled text at the requested wrap
// width. Any renderer failure falls back to the raw markdown so the overlay
// is never blank.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	renderer := r.at(max(width, minHelpWrap))
	if renderer == nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

// at returns the cached renderer for the wrap width, or nil when glamour
// cannot be constructed.
func (r *markdownRenderer) at(width int) *glamour.TermRenderer {
	if r.renderer != nil && r.width == width {
		return r.renderer
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(helpMarkdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	r.renderer = renderer
	r.width = width
	return renderer
}
