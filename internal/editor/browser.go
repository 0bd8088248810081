package editor

import (
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
)

const browserVisibleItems = 15

func (m *Model) showBrowser() {
	m.view = ViewOpen
	if m.browserPath == "" {
		if name := m.buf.Filename(); name != "" {
			m.browserPath = filepath.Dir(name)
		} else {
			cwd, _ := os.Getwd()
			m.browserPath = cwd
		}
	}
	m.loadBrowserItems()
}

// SetBrowserPath points the file browser at dir.
func (m *Model) SetBrowserPath(dir string) {
	m.browserPath = dir
	m.loadBrowserItems()
}

func (m *Model) loadBrowserItems() {
	m.browserIndex = 0
	entries, err := os.ReadDir(m.browserPath)
	if err != nil {
		m.browserItems = nil
		m.setStatus("Cannot read directory: "+err.Error(), true)
		return
	}

	// Directories first, then files
	var dirs, files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	m.browserItems = make([]os.DirEntry, 0, len(entries)+1)
	if parent := filepath.Dir(m.browserPath); parent != m.browserPath {
		m.browserItems = append(m.browserItems, parentDirEntry{})
	}
	m.browserItems = append(m.browserItems, dirs...)
	m.browserItems = append(m.browserItems, files...)
}

type parentDirEntry struct{}

func (parentDirEntry) Name() string               { return ".." }
func (parentDirEntry) IsDir() bool                { return true }
func (parentDirEntry) Type() os.FileMode          { return os.ModeDir }
func (parentDirEntry) Info() (os.FileInfo, error) { return nil, nil }

func (m *Model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Nothing to go back to before the first file is open.
		if m.buf.Filename() != "" {
			m.view = ViewMain
		}
	case tea.KeyUp:
		if m.browserIndex > 0 {
			m.browserIndex--
		}
	case tea.KeyDown:
		if m.browserIndex < len(m.browserItems)-1 {
			m.browserIndex++
		}
	case tea.KeyEnter:
		return m, m.handleBrowserEnter()
	default:
		if key := msg.String(); key == "q" && m.buf.Filename() == "" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleBrowserEnter() tea.Cmd {
	if m.browserIndex >= len(m.browserItems) {
		return nil
	}
	item := m.browserItems[m.browserIndex]
	path := filepath.Join(m.browserPath, item.Name())

	if item.IsDir() {
		m.browserPath = filepath.Clean(path)
		m.loadBrowserItems()
		return nil
	}

	if m.buf.IsModified() {
		m.pendingOpen = path
		m.view = ViewConfirmDiscard
		return nil
	}
	return m.openPath(path)
}
