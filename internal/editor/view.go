package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"hexgrid/internal/grid"
	"hexgrid/internal/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const offsetColumnWidth = 10

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderLegend())
	b.WriteString("\n")

	switch m.view {
	case ViewHelp:
		b.WriteString(m.helpPage.View())
	case ViewFind:
		b.WriteString(m.renderFind())
	case ViewGoto:
		b.WriteString(m.renderGoto())
	case ViewOpen:
		b.WriteString(m.renderOpen())
	case ViewSaveAs:
		b.WriteString(m.renderSaveAs())
	case ViewConfirmQuit:
		b.WriteString(m.renderMainView())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("Unsaved changes. Quit anyway? (Y/N)"))
	case ViewConfirmDiscard:
		b.WriteString(m.renderMainView())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("Unsaved changes will be lost. Open anyway? (Y/N)"))
	case ViewFileChangedPrompt:
		b.WriteString(m.renderMainView())
		b.WriteString("\n")
		b.WriteString(m.renderConfirmDialog("File changed on disk. Overwrite? (Y/N)"))
	default:
		b.WriteString(m.renderMainView())
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.statusMsg))
		} else {
			b.WriteString(m.statusMsg)
		}
	}

	return b.String()
}

func (m *Model) renderLegend() string {
	var legend string
	switch m.view {
	case ViewMain:
		if m.editing {
			legend = m.help.ShortHelpView(m.keys.EditingHelp())
			break
		}
		keys := m.keys
		keys.Undo.SetEnabled(m.buf.CanUndo())
		keys.Redo.SetEnabled(m.buf.CanRedo())
		legend = m.help.ShortHelpView(keys.ShortHelp())
	case ViewHelp, ViewFind, ViewGoto, ViewOpen, ViewSaveAs:
		legend = m.styles.LegendHighlight.Render("ESC") + m.styles.Legend.Render(" Back")
	default:
		legend = m.styles.LegendHighlight.Render("Y") + m.styles.Legend.Render("/") +
			m.styles.LegendHighlight.Render("N")
	}
	return m.styles.Legend.Width(m.width).Render(legend)
}

func (m *Model) renderMainView() string {
	var b strings.Builder

	b.WriteString(m.renderFileLine())
	b.WriteString("\n")

	if m.buf.Size() == 0 {
		b.WriteString("\nFile is empty.\n")
		return b.String()
	}

	b.WriteString(m.renderColumnHeader())
	b.WriteString("\n")
	b.WriteString(m.renderGrid())
	return b.String()
}

func (m *Model) renderFileLine() string {
	style := m.styles.ActiveFile
	name := m.buf.Filename()
	if name == "" {
		name = "[No File]"
		style = m.styles.Disabled
	} else {
		name = filepath.Base(name)
	}

	if m.buf.IsModified() {
		name = "*" + name
		style = m.styles.UnsavedFile
	}

	parts := []string{
		style.Render(name),
		m.styles.StatusLabel.Render("size ") + m.styles.StatusValue.Render(humanize.Bytes(uint64(m.buf.Size()))),
		m.styles.StatusLabel.Render("offset ") + m.styles.StatusValue.Render(grid.OffsetLabel(m.cursor)),
		m.styles.StatusLabel.Render("repr ") + m.styles.StatusValue.Render(m.display.Representation.String()),
		m.styles.StatusLabel.Render("row ") + m.styles.StatusValue.Render(fmt.Sprintf("%d", m.display.BytesPerRow)),
	}
	if n := m.buf.DirtyCount(); n > 0 {
		parts = append(parts, m.styles.Dirty.Render(humanize.Comma(int64(n))+" edited"))
	}
	return strings.Join(parts, "  ")
}

// cellSeparator returns the gap printed after column col.
func cellSeparator(col, bytesPerRow int) string {
	if col == bytesPerRow-1 {
		return ""
	}
	if (col+1)%8 == 0 {
		return "  "
	}
	return " "
}

func (m *Model) renderColumnHeader() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("%-*s", offsetColumnWidth, "Offset")))

	cursorCol := m.cursor % m.display.BytesPerRow
	for col, label := range grid.HeaderLabels(m.display.BytesPerRow) {
		if col == cursorCol {
			b.WriteString(m.styles.Cursor.Render(label))
		} else {
			b.WriteString(m.styles.Header.Render(label))
		}
		b.WriteString(cellSeparator(col, m.display.BytesPerRow))
	}

	b.WriteString("  ")
	b.WriteString(m.styles.Header.Render(strings.ToUpper(m.display.Representation.String())))
	return b.String()
}

func (m *Model) renderGrid() string {
	rows := grid.Project(m.buf, m.display, m.scrollY, m.visibleRows())
	cursorRow := m.cursor / m.display.BytesPerRow

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		rowIndex := m.scrollY + i
		offsetStyle := m.styles.Offset
		if rowIndex == cursorRow {
			offsetStyle = m.styles.Cursor
		}

		var hexLine, reprLine strings.Builder
		for col, cell := range row.Cells {
			hexLine.WriteString(m.renderCell(cell, rowIndex))
			hexLine.WriteString(cellSeparator(col, m.display.BytesPerRow))
			reprLine.WriteString(m.renderGlyph(cell))
		}

		line := offsetStyle.Render(fmt.Sprintf("%-*s", offsetColumnWidth, row.OffsetLabel)) +
			hexLine.String() + "  " + reprLine.String()
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCell(cell grid.Cell, rowIndex int) string {
	if !cell.Present {
		return "  "
	}

	if cell.Index == m.cursor {
		if m.editing {
			return m.styles.Edit.Render(m.cellText())
		}
		style := m.styles.Cursor
		if cell.Dirty {
			style = style.Foreground(m.styles.Dirty.GetForeground())
		}
		return style.Render(cell.HexText)
	}

	style := m.styles.Normal
	if rowIndex%2 == 1 {
		style = m.styles.Stripe
	}
	if cell.Dirty {
		style = style.Inherit(m.styles.Dirty)
	}
	return style.Render(cell.HexText)
}

// cellText is what the cell under edit shows: the typed digits padded with
// the rest of the current value.
func (m *Model) cellText() string {
	typed := strings.ToUpper(m.cellInput.Value())
	placeholder := m.cellInput.Placeholder
	if len(typed) >= len(placeholder) {
		return typed
	}
	return typed + strings.Repeat("_", len(placeholder)-len(typed))
}

func (m *Model) renderGlyph(cell grid.Cell) string {
	if !cell.Present {
		return " "
	}

	var style lipgloss.Style
	switch {
	case m.display.Representation == render.ModeBars:
		style = m.styles.Bar
	case cell.Glyph == render.Placeholder:
		style = m.styles.Placeholder
	default:
		style = m.styles.Normal
	}
	if cell.Dirty {
		style = style.Foreground(m.styles.Dirty.GetForeground())
	}
	if cell.Index == m.cursor {
		style = style.Background(m.styles.Cursor.GetBackground())
	}
	return style.Render(cell.Glyph)
}

func (m *Model) renderFind() string {
	var b strings.Builder
	b.WriteString("\nFIND\n")
	b.WriteString("====\n\n")

	modes := []struct {
		hex   bool
		label string
	}{
		{false, "ASCII"},
		{true, "Hex"},
	}
	for _, mode := range modes {
		prefix := "  "
		if mode.hex == m.findHex {
			prefix = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s: ", prefix, mode.label))
		if mode.hex == m.findHex {
			b.WriteString(m.prompt.View())
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nMatches: %d\n", m.findMatches))
	b.WriteString("\nUp/Down to switch, Enter to find next, Shift+Tab for previous, ESC to close\n")
	return b.String()
}

func (m *Model) renderGoto() string {
	var b strings.Builder
	b.WriteString("\nGOTO OFFSET\n")
	b.WriteString("===========\n\n")
	b.WriteString("Offset: ")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\n(Prefix with 0x for hex offset)\n")
	b.WriteString("\nPress Enter to go, ESC to close\n")
	return b.String()
}

func (m *Model) renderOpen() string {
	var b strings.Builder
	b.WriteString("\nOPEN FILE\n")
	b.WriteString("=========\n\n")
	b.WriteString("Path: ")
	b.WriteString(m.browserPath)
	b.WriteString("\n\n")

	startIdx := 0
	if m.browserIndex >= browserVisibleItems {
		startIdx = m.browserIndex - browserVisibleItems + 1
	}

	for i := startIdx; i < len(m.browserItems) && i < startIdx+browserVisibleItems; i++ {
		item := m.browserItems[i]
		prefix := "  "
		if i == m.browserIndex {
			prefix = "> "
		}
		name := item.Name()
		if item.IsDir() {
			name += "/"
		}
		b.WriteString(prefix + name + "\n")
	}

	b.WriteString("\nEnter to open, ESC to go back\n")
	return b.String()
}

func (m *Model) renderSaveAs() string {
	var b strings.Builder
	b.WriteString("\nSAVE AS\n")
	b.WriteString("=======\n\n")
	b.WriteString("Filename: ")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\nPress Enter to save, ESC to cancel\n")
	return b.String()
}

func (m *Model) renderConfirmDialog(message string) string {
	return m.styles.Border.
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(message)
}
