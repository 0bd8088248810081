package editor

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# hexgrid

A terminal hex editor. Bytes are edited in place; the file never grows or
shrinks. Edited bytes are highlighted until they are saved or reset.

## Navigation

| Key | Action |
|---|---|
| Arrows | Move cursor |
| PgUp / PgDn | Page up / down |
| Home / End | Start / end of row |
| Ctrl+Home / Ctrl+End | First / last byte |
| G | Goto offset (prefix 0x for hex) |
| F | Find ASCII or hex (Up/Down switches, Enter next, Shift+Tab previous) |

## Editing

| Key | Action |
|---|---|
| R / Enter | Edit the byte under the cursor |
| two hex digits | Apply and move to the next byte |
| Tab | Apply and move to the next byte |
| Enter | Apply and stop editing |
| Esc | Stop editing without applying |
| U / D | Undo / redo |
| X | Discard every unsaved edit |
| Ctrl+C | Copy the cursor row as hex |
| Ctrl+V | Paste hex bytes over the cursor |

## View

| Key | Action |
|---|---|
| M | Switch representation between ASCII and bars |
| W | Cycle bytes per row (8, 16, 32) |

## Files

| Key | Action |
|---|---|
| O | Open a file |
| S / Ctrl+S | Save over the opened file |
| A | Save as a new path |
| Q | Quit |

Press Esc or H to close this page.
`

func renderMarkdown(raw string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStylePath(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(raw)
}

func (m *Model) showHelp() {
	m.view = ViewHelp
	m.resizeHelpPage()
	m.helpPage.GotoTop()
}

func (m *Model) resizeHelpPage() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height - 2
	if height < 1 {
		height = 1
	}
	m.helpPage.Width = width
	m.helpPage.Height = height

	content, err := renderMarkdown(helpMarkdown, width-2, m.config.Theme.HelpStyle)
	if err != nil {
		content = helpMarkdown
	}
	m.helpPage.SetContent(content)
}

func (m *Model) applyHelpStyles() {
	m.help.ShortSeparator = " | "
	m.help.Styles.ShortKey = m.styles.LegendHighlight
	m.help.Styles.ShortDesc = m.styles.Legend
	m.help.Styles.ShortSeparator = m.styles.Legend
	m.help.Styles.Ellipsis = m.styles.Legend
	m.help.Styles.FullKey = m.styles.LegendHighlight
	m.help.Styles.FullDesc = lipgloss.NewStyle()
}
