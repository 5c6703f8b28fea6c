package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hyllan/tasklog/internal/domain"
	"github.com/hyllan/tasklog/internal/engine"
)

var (
	accentColor = lipgloss.Color("62")
	mutedColor  = lipgloss.Color("241")
	dimColor    = lipgloss.Color("239")
	doneColor   = lipgloss.Color("42")

	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	activePaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(0, 1)
	idlePaneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(dimColor).Padding(0, 1)
	paneTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	selectedStyle   = lipgloss.NewStyle().Bold(true)
	emptyStyle      = lipgloss.NewStyle().Foreground(dimColor).Italic(true)
	noteStyle       = lipgloss.NewStyle().Foreground(mutedColor)
	noteDoneStyle   = lipgloss.NewStyle().Foreground(dimColor).Strikethrough(true)
	flashStyle      = lipgloss.NewStyle().Foreground(doneColor).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	overlayStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(1, 2)
)

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		return appView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
	}
	if !m.ready {
		return appView("loading...")
	}

	header := titleStyle.Render("tasklog")
	panes := m.renderPanes()
	footer := m.renderFooter()
	content := strings.Join([]string{header, "", panes, "", footer}, "\n")

	if overlay := m.renderOverlay(); overlay != "" {
		content = overlayOnContent(content, overlay, max(1, m.width), max(1, m.height))
	}

	return appView(content)
}

// appView builds the frame every screen shares. Focus reporting stays on so
// regaining the terminal window triggers a state reload.
func appView(content string) tea.View {
	v := tea.NewView(content)
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

// renderPanes lays the two panes side by side.
func (m Model) renderPanes() string {
	paneWidth := (m.width - 6) / 2
	if paneWidth < 20 {
		paneWidth = 20
	}
	current := m.renderPane(domain.PaneCurrent, paneWidth)
	shelf := m.renderPane(domain.PaneShelf, paneWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, current, " ", shelf)
}

// renderPane renders one task list with cursor, expansion, inline drafts,
// and the completion flash.
func (m Model) renderPane(pane domain.Pane, width int) string {
	active := m.eng.Sel.Pane == pane
	tasks := m.eng.Tasks.List(pane)

	title := fmt.Sprintf("Shelf (%d)", len(tasks))
	if pane == domain.PaneCurrent {
		title = fmt.Sprintf("Current (%d/%d)", len(tasks), m.eng.MaxCurrent())
	}

	lines := []string{paneTitleStyle.Render(title), ""}
	lines = append(lines, m.taskLines(pane, tasks, active, width)...)

	body := strings.Join(lines, "\n")
	style := idlePaneStyle
	if active {
		style = activePaneStyle
	}
	return style.Width(width).Render(body)
}

// taskLines builds the body rows for one pane.
func (m Model) taskLines(pane domain.Pane, tasks []domain.Task, active bool, width int) []string {
	var lines []string

	flashIdx := -1
	if m.flash != nil && m.flash.Pane == pane {
		flashIdx = min(m.flash.Index, len(tasks))
	}

	creatingTask := false
	if _, ok := m.eng.Mode.(engine.ModeCreateTask); ok && active {
		creatingTask = true
	}
	insertIdx := len(tasks)
	if creatingTask && m.eng.InsertPolicy() == engine.InsertAfterSelection && len(tasks) > 0 {
		insertIdx = engine.ClampIndex(m.eng.Sel.Index, len(tasks)) + 1
	}

	if len(tasks) == 0 && flashIdx < 0 && !creatingTask {
		return []string{emptyStyle.Render("(empty)")}
	}

	for i := 0; i <= len(tasks); i++ {
		if i == flashIdx {
			lines = append(lines, flashStyle.Render(truncate("✓ "+m.flash.Task.Text, width-4)))
		}
		if creatingTask && i == insertIdx {
			lines = append(lines, m.input.View())
		}
		if i == len(tasks) {
			break
		}

		selected := active && i == m.eng.Sel.Index
		expanded := active && m.eng.Sel.Expanded == i

		if mode, ok := m.eng.Mode.(engine.ModeEditTask); ok && active && mode.Index == i {
			lines = append(lines, m.input.View())
		} else {
			marker := "  "
			if selected && !expanded {
				marker = "▸ "
			} else if selected {
				marker = "▾ "
			}
			line := truncate(marker+tasks[i].Text, width-4)
			if selected {
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
		}

		if expanded {
			lines = append(lines, m.noteLines(tasks[i], width)...)
		}
	}
	return lines
}

// noteLines renders the sub-list of the expanded task.
func (m Model) noteLines(task domain.Task, width int) []string {
	var lines []string
	for j, note := range task.Notes {
		if mode, ok := m.eng.Mode.(engine.ModeEditNote); ok && mode.Index == j {
			lines = append(lines, "    "+m.input.View())
			continue
		}
		marker := "○"
		style := noteStyle
		if note.Completed {
			marker = "✓"
			style = noteDoneStyle
		}
		cursor := "  "
		if j == m.eng.Sel.NoteIndex {
			cursor = "▸ "
		}
		lines = append(lines, style.Render(truncate(fmt.Sprintf("  %s%s %s", cursor, marker, note.Text), width-4)))
	}
	if _, ok := m.eng.Mode.(engine.ModeCreateNote); ok {
		lines = append(lines, "    "+m.input.View())
	}
	if len(lines) == 0 {
		lines = append(lines, emptyStyle.Render("    (no notes)"))
	}
	return lines
}

// renderFooter renders the status line and key hints.
func (m Model) renderFooter() string {
	return statusStyle.Render(m.status) + "\n" + m.help.View(m.keys)
}

// renderOverlay returns the active overlay body, or "".
func (m Model) renderOverlay() string {
	switch m.eng.Mode.(type) {
	case engine.ModeHelp:
		width := min(72, max(40, m.width-8))
		body := m.md.render(helpMarkdown, width-6)
		return overlayStyle.Width(width).Render(body)
	case engine.ModeSettings:
		return overlayStyle.Render(m.renderSettings())
	default:
		return ""
	}
}

// renderSettings renders the settings summary. Only the toggle hotkey is
// editable in place; everything else points at config.toml.
func (m Model) renderSettings() string {
	s := m.settings
	hotkeyRow := fmt.Sprintf("toggle hotkey   %s", s.Hotkey)
	hint := "edit config.toml to change • esc to close"
	if m.saveHotkey != nil {
		hint = "e change hotkey • edit config.toml for the rest • esc to close"
	}
	if m.editingHotkey {
		hotkeyRow = "toggle hotkey   " + m.input.View()
		hint = "enter to save • esc to cancel"
	}
	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("storage         %s (%s)", s.StoragePath, s.Backend),
		fmt.Sprintf("done log        %s", s.DoneLogPath),
		fmt.Sprintf("max current     %d", s.MaxCurrent),
		fmt.Sprintf("insert position %s", s.InsertPosition),
		hotkeyRow,
		"",
		statusStyle.Render(hint),
	}
	return strings.Join(rows, "\n")
}

// helpMarkdown is the help overlay body.
const helpMarkdown = `# tasklog

## Navigate
| key | action |
|-----|--------|
| j/k | move cursor |
| tab, h/l | switch pane |
| enter | expand / collapse notes |
| esc | collapse, then hide |

## Edit
| key | action |
|-----|--------|
| n | new task (or note while expanded) |
| e | edit task (or note while expanded) |
| d | delete |
| J/K | reorder |
| m | move to other pane |
| c | complete task |
| space | toggle note done |
| u | undo |
| y | copy text |

## App
r reload • s settings • q quit
`

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
