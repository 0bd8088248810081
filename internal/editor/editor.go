package editor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hexgrid/internal/buffer"
	"hexgrid/internal/config"
	"hexgrid/internal/grid"
	"hexgrid/internal/logging"
	"hexgrid/internal/watch"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type View int

const (
	ViewMain View = iota
	ViewHelp
	ViewFind
	ViewGoto
	ViewOpen
	ViewSaveAs
	ViewConfirmQuit
	ViewConfirmDiscard
	ViewFileChangedPrompt
)

// Clipboard is the system clipboard as seen by the editor.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type Options struct {
	Config    *config.Config
	Display   grid.DisplayConfig
	Clipboard Clipboard
	// Watch enables reporting writes made to the open file by other programs.
	Watch bool
}

type Model struct {
	buf     *buffer.Buffer
	display grid.DisplayConfig
	cursor  int
	scrollY int
	view    View
	width   int
	height  int

	config *config.Config
	styles *config.Styles
	keys   KeyMap
	help   help.Model

	// Cell edit state
	editing   bool
	cellInput textinput.Model

	// Find/Goto/Save As share one prompt
	prompt      textinput.Model
	findHex     bool
	findMatches int

	// File browser state
	browserPath  string
	browserItems []os.DirEntry
	browserIndex int

	helpPage viewport.Model

	pendingOpen string
	clipboard   Clipboard
	watchOn     bool
	watcher     *watch.Watcher

	statusMsg string
	statusErr bool
}

type fileChangedMsg struct {
	watcher *watch.Watcher
	change  watch.Change
}

type watchClosedMsg struct{}

func NewModel(path string, opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	display := opts.Display
	if display.Validate() != nil {
		display = grid.DefaultDisplayConfig()
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = systemClipboard{}
	}

	cellInput := textinput.New()
	cellInput.Prompt = ""
	cellInput.CharLimit = 2
	cellInput.Width = 2

	m := &Model{
		buf:       buffer.New(),
		display:   display,
		config:    cfg,
		styles:    config.NewStyles(&cfg.Theme),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		cellInput: cellInput,
		prompt:    textinput.New(),
		helpPage:  viewport.New(0, 0),
		clipboard: cb,
		watchOn:   opts.Watch,
	}
	m.applyHelpStyles()

	if path == "" {
		m.showBrowser()
		return m, nil
	}

	buf, err := buffer.Open(path)
	if err != nil {
		return nil, err
	}
	m.setBuffer(buf)
	return m, nil
}

func (m *Model) Buffer() *buffer.Buffer {
	return m.buf
}

func (m *Model) Display() grid.DisplayConfig {
	return m.display
}

func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Editing() bool {
	return m.editing
}

func (m *Model) CurrentView() View {
	return m.view
}

func (m *Model) Status() string {
	return m.statusMsg
}

// Close releases the file watcher.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

func (m *Model) setBuffer(buf *buffer.Buffer) {
	m.buf = buf
	m.cursor = 0
	m.scrollY = 0
	m.stopEdit()
	m.startWatch()
	logging.Infof("opened %s (%d bytes)", buf.Filename(), buf.Size())
}

func (m *Model) startWatch() {
	m.Close()
	if !m.watchOn || m.buf.Filename() == "" {
		return
	}
	w, err := watch.New(m.buf.Filename(), watch.DefaultDebounce)
	if err != nil {
		logging.Warnf("watch %s: %v", m.buf.Filename(), err)
		return
	}
	m.watcher = w
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ch, ok := <-w.Changes()
		if !ok {
			return watchClosedMsg{}
		}
		return fileChangedMsg{watcher: w, change: ch}
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForChange(m.watcher)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.view == ViewHelp {
			m.resizeHelpPage()
		}
		m.ensureCursorVisible()
		return m, nil

	case fileChangedMsg:
		if msg.watcher != m.watcher {
			return m, nil
		}
		switch {
		case msg.change.Removed:
			m.setStatus("File was moved or removed on disk", true)
		case m.buf.IsModified() || m.editing:
			m.setStatus("File changed on disk", true)
		default:
			m.reload()
		}
		return m, waitForChange(m.watcher)

	case watchClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.view == ViewHelp {
		var cmd tea.Cmd
		m.helpPage, cmd = m.helpPage.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reload rereads the open file. Only called when there is nothing to lose.
func (m *Model) reload() {
	if err := m.buf.Reload(m.buf.Filename()); err != nil {
		m.setStatus(fmt.Sprintf("Reload failed: %v", err), true)
		logging.Warnf("reload %s: %v", m.buf.Filename(), err)
		return
	}
	m.setCursor(m.cursor)
	m.setStatus("File reloaded from disk", false)
	logging.Infof("reloaded %s (%d bytes)", m.buf.Filename(), m.buf.Size())
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.setStatus("", false)

	switch m.view {
	case ViewHelp:
		return m.handleHelpKey(msg)
	case ViewFind:
		return m.handleFindKey(msg)
	case ViewGoto:
		return m.handleGotoKey(msg)
	case ViewOpen:
		return m.handleOpenKey(msg)
	case ViewSaveAs:
		return m.handleSaveAsKey(msg)
	case ViewConfirmQuit:
		return m.handleConfirmQuitKey(msg)
	case ViewConfirmDiscard:
		return m.handleConfirmDiscardKey(msg)
	case ViewFileChangedPrompt:
		return m.handleFileChangedPromptKey(msg)
	default:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleMainKey(msg)
	}
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bpr := m.display.BytesPerRow

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-bpr)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(bpr)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.visibleRows() * bpr)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.visibleRows() * bpr)
	case key.Matches(msg, m.keys.Home):
		m.setCursor(m.cursor / bpr * bpr)
	case key.Matches(msg, m.keys.End):
		m.setCursor(m.cursor/bpr*bpr + bpr - 1)
	case key.Matches(msg, m.keys.Top):
		m.setCursor(0)
	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(m.buf.Size() - 1)

	case key.Matches(msg, m.keys.Edit):
		return m, m.startEdit()
	case key.Matches(msg, m.keys.Repr):
		m.display.Representation = m.display.Representation.Next()
	case key.Matches(msg, m.keys.Width):
		m.display.BytesPerRow = grid.NextRowWidth(m.display.BytesPerRow)
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Reset):
		m.buf.Reset()
		m.setStatus("Edits discarded", false)
	case key.Matches(msg, m.keys.Undo):
		if m.buf.Undo() {
			m.setStatus("Undone", false)
		}
	case key.Matches(msg, m.keys.Redo):
		if m.buf.Redo() {
			m.setStatus("Redone", false)
		}
	case key.Matches(msg, m.keys.Copy):
		m.copyRow()
	case key.Matches(msg, m.keys.Paste):
		m.paste()

	case key.Matches(msg, m.keys.Find):
		m.view = ViewFind
		return m, m.openPrompt("", "")
	case key.Matches(msg, m.keys.Goto):
		m.view = ViewGoto
		return m, m.openPrompt("", "0x")
	case key.Matches(msg, m.keys.Open):
		m.showBrowser()
	case key.Matches(msg, m.keys.Save):
		return m.trySave()
	case key.Matches(msg, m.keys.SaveAs):
		m.view = ViewSaveAs
		return m, m.openPrompt(m.buf.Filename(), "")
	case key.Matches(msg, m.keys.Help):
		m.showHelp()
	case key.Matches(msg, m.keys.Quit):
		return m.tryQuit()
	}

	return m, nil
}

func (m *Model) startEdit() tea.Cmd {
	if m.buf.Size() == 0 {
		return nil
	}
	cur, err := m.buf.DisplayByte(m.cursor)
	if err != nil {
		logging.Errorf("edit at %d: %v", m.cursor, err)
		return nil
	}
	m.editing = true
	m.cellInput.Reset()
	m.cellInput.Placeholder = buffer.HexText(cur)
	return m.cellInput.Focus()
}

func (m *Model) stopEdit() {
	m.editing = false
	m.cellInput.Reset()
	m.cellInput.Blur()
}

// commitEdit hands the typed text to the buffer as one change event.
func (m *Model) commitEdit() {
	text := m.cellInput.Value()
	applied, err := grid.ApplyEdit(m.buf, m.cursor, text)
	if err != nil {
		logging.Errorf("apply %q at %d: %v", text, m.cursor, err)
		return
	}
	if applied {
		logging.Debugf("set %d to %s", m.cursor, strings.ToUpper(text))
	}
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		return m, nil
	case key.Matches(msg, m.keys.Commit):
		m.commitEdit()
		m.stopEdit()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.commitEdit()
		return m, m.advanceEdit()
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight:
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || !isHexChar(string(msg.Runes)) {
			return m, nil
		}
	default:
		return m, nil
	}

	var cmd tea.Cmd
	m.cellInput, cmd = m.cellInput.Update(msg)
	if len(m.cellInput.Value()) == 2 {
		m.commitEdit()
		return m, m.advanceEdit()
	}
	return m, cmd
}

// advanceEdit moves to the next cell and keeps editing, or stops at the end.
func (m *Model) advanceEdit() tea.Cmd {
	if m.cursor+1 >= m.buf.Size() {
		m.stopEdit()
		return nil
	}
	m.moveCursor(1)
	return m.startEdit()
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(pos int) {
	maxPos := m.buf.Size() - 1
	if pos > maxPos {
		pos = maxPos
	}
	if pos < 0 {
		pos = 0
	}
	m.cursor = pos
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	visRows := m.visibleRows()
	cursorRow := m.cursor / m.display.BytesPerRow

	if cursorRow < m.scrollY {
		m.scrollY = cursorRow
	} else if cursorRow >= m.scrollY+visRows {
		m.scrollY = cursorRow - visRows + 1
	}
}

func (m *Model) visibleRows() int {
	// Legend, file line, column header and status line
	rows := m.height - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) copyRow() {
	if m.buf.Size() == 0 {
		return
	}
	bpr := m.display.BytesPerRow
	start := m.cursor / bpr * bpr
	data := m.buf.Data()
	end := start + bpr
	if end > len(data) {
		end = len(data)
	}

	parts := make([]string, 0, end-start)
	for _, b := range data[start:end] {
		parts = append(parts, buffer.HexText(b))
	}
	if err := m.clipboard.WriteAll(strings.Join(parts, " ")); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %d bytes", end-start), false)
}

// paste overwrites bytes from the cursor with hex pairs read from the
// clipboard. Whitespace between pairs is ignored.
func (m *Model) paste() {
	text, err := m.clipboard.ReadAll()
	if err != nil {
		m.setStatus(fmt.Sprintf("Paste failed: %v", err), true)
		return
	}
	data, err := parseHexString(text)
	if err != nil || len(data) == 0 {
		m.setStatus("Clipboard does not hold hex bytes", true)
		return
	}
	n := m.buf.ReplaceBytes(m.cursor, data)
	m.setStatus(fmt.Sprintf("Pasted %d bytes", n), false)
}

func parseHexString(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, buffer.ErrInvalidHexInput
	}
	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		v, err := buffer.ParseHexByte(s[i : i+2])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Model) openPrompt(value, placeholder string) tea.Cmd {
	m.prompt.Reset()
	m.prompt.Prompt = ""
	m.prompt.CharLimit = 0
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.findMatches = 0
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.view = ViewMain
}

func (m *Model) tryQuit() (tea.Model, tea.Cmd) {
	if m.buf.IsModified() {
		m.view = ViewConfirmQuit
		return m, nil
	}
	m.Close()
	return m, tea.Quit
}

func (m *Model) trySave() (tea.Model, tea.Cmd) {
	if m.buf.Filename() == "" {
		m.view = ViewSaveAs
		return m, m.openPrompt("", "")
	}

	changed, err := m.buf.HasChangedOnDisk()
	if err == nil && changed {
		m.view = ViewFileChangedPrompt
		return m, nil
	}

	m.save()
	return m, nil
}

func (m *Model) save() {
	if m.watcher != nil {
		m.watcher.Suppress(time.Second)
	}
	if err := m.buf.Save(); err != nil {
		m.setStatus(fmt.Sprintf("Error saving: %v", err), true)
		logging.Errorf("save %s: %v", m.buf.Filename(), err)
		return
	}
	m.setStatus("File saved", false)
	logging.Infof("saved %s", m.buf.Filename())
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel, m.keys.Help, m.keys.Quit) {
		m.view = ViewMain
		return m, nil
	}
	var cmd tea.Cmd
	m.helpPage, cmd = m.helpPage.Update(msg)
	return m, cmd
}

func (m *Model) handleFindKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		m.findHex = !m.findHex
		m.prompt.SetValue("")
		m.findMatches = 0
		return m, nil
	case tea.KeyEnter:
		m.doFind(true)
		return m, nil
	case tea.KeyShiftTab:
		m.doFind(false)
		return m, nil
	}

	if m.findHex && msg.Type == tea.KeyRunes && !isHexString(string(msg.Runes)) {
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.updateFindMatches()
	return m, cmd
}

func (m *Model) findPattern() []byte {
	input := m.prompt.Value()
	if !m.findHex {
		return []byte(input)
	}
	s := strings.Join(strings.Fields(input), "")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	data, err := parseHexString(s)
	if err != nil {
		return nil
	}
	return data
}

func (m *Model) updateFindMatches() {
	m.findMatches = m.buf.CountMatches(m.findPattern())
}

func (m *Model) doFind(forward bool) {
	pattern := m.findPattern()
	if len(pattern) == 0 {
		return
	}
	start := m.cursor
	if forward {
		start++
	}
	if pos := m.buf.Find(pattern, start, forward); pos >= 0 {
		m.setCursor(pos)
	} else {
		m.setStatus("Not found", false)
	}
}

func (m *Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		m.doGoto()
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func parseOffset(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseInt(s[2:], 16, 64)
		return int(v), err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return int(v), err
}

func (m *Model) doGoto() {
	offset, err := parseOffset(m.prompt.Value())
	if err != nil {
		m.setStatus(fmt.Sprintf("Invalid offset %q", m.prompt.Value()), true)
		return
	}
	m.setCursor(offset)
}

func (m *Model) handleSaveAsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.prompt.Value())
		if name == "" {
			return m, nil
		}
		if err := m.buf.SaveAs(name); err != nil {
			m.setStatus(fmt.Sprintf("Error: %v", err), true)
			return m, nil
		}
		m.setStatus("File saved", false)
		m.closePrompt()
		m.startWatch()
		return m, waitForChange(m.watcher)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.Close()
		return m, tea.Quit
	case "n", "N", "esc":
		m.view = ViewMain
	}
	return m, nil
}

func (m *Model) handleConfirmDiscardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		path := m.pendingOpen
		m.pendingOpen = ""
		return m, m.openPath(path)
	case "n", "N", "esc":
		m.pendingOpen = ""
		m.view = ViewOpen
	}
	return m, nil
}

func (m *Model) handleFileChangedPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.save()
		m.view = ViewMain
	case "n", "N", "esc":
		m.view = ViewMain
	}
	return m, nil
}

// openPath replaces the buffer with the file at path. A failed read keeps
// the current buffer and reports the error.
func (m *Model) openPath(path string) tea.Cmd {
	buf, err := buffer.Open(path)
	if err != nil {
		var readErr *buffer.FileReadError
		if errors.As(err, &readErr) {
			m.setStatus(fmt.Sprintf("Cannot open %s: %v", readErr.Path, readErr.Err), true)
		} else {
			m.setStatus(fmt.Sprintf("Error: %v", err), true)
		}
		logging.Warnf("open %s: %v", path, err)
		m.view = ViewOpen
		return nil
	}
	m.setBuffer(buf)
	m.view = ViewMain
	return waitForChange(m.watcher)
}

func isHexChar(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isHexString(s string) bool {
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !isHexChar(string(r)) {
			return false
		}
	}
	return true
}
