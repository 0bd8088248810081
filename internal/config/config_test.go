package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexgrid/internal/render"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexgrid.toml")
	content := `
[theme]
dirty_color = "#00FF00"

[display]
bytes_per_row = 8
representation = "bars"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", cfg.Theme.DirtyColor)
	assert.Equal(t, DefaultConfig().Theme.CursorBackground, cfg.Theme.CursorBackground)

	dc, err := cfg.DisplayConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, dc.BytesPerRow)
	assert.Equal(t, render.ModeBars, dc.Representation)
}

func TestLoadFromRejectsInvalidDisplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexgrid.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nbytes_per_row = 0\n"), 0644))

	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "defaults are returned alongside the error")
}

func TestLoadFromRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexgrid.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display\n"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hexgrid.toml")
	cfg := DefaultConfig()
	cfg.Display.BytesPerRow = 32

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 32, loaded.Display.BytesPerRow)
}

func TestNewStyles(t *testing.T) {
	styles := NewStyles(&DefaultConfig().Theme)
	assert.NotEmpty(t, styles.Dirty.Render("FF"))
	assert.NotEmpty(t, styles.Cursor.Render("00"))
}
