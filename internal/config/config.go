package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"

	"hexgrid/internal/grid"
	"hexgrid/internal/render"
)

type Theme struct {
	CursorBackground string `toml:"cursor_background"`
	EditBackground   string `toml:"edit_background"`
	DirtyColor       string `toml:"dirty_color"`
	OffsetColor      string `toml:"offset_color"`
	HeaderColor      string `toml:"header_color"`
	StripeBackground string `toml:"stripe_background"`
	BarColor         string `toml:"bar_color"`
	PlaceholderColor string `toml:"placeholder_color"`
	LegendBackground string `toml:"legend_background"`
	LegendHighlight  string `toml:"legend_highlight"`
	BorderColor      string `toml:"border_color"`
	UnsavedFileColor string `toml:"unsaved_file_color"`
	DisabledColor    string `toml:"disabled_color"`
	ErrorColor       string `toml:"error_color"`
	HelpStyle        string `toml:"help_style"`
}

type Display struct {
	BytesPerRow    int    `toml:"bytes_per_row"`
	Representation string `toml:"representation"`
}

type Config struct {
	Theme   Theme   `toml:"theme"`
	Display Display `toml:"display"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: Theme{
			CursorBackground: "#0000FF",
			EditBackground:   "#FFFF00",
			DirtyColor:       "#FF0000",
			OffsetColor:      "#888888",
			HeaderColor:      "#AAAAAA",
			StripeBackground: "#1A1A1A",
			BarColor:         "#3A3AC8",
			PlaceholderColor: "#666666",
			LegendBackground: "#0000FF",
			LegendHighlight:  "#FF0000",
			BorderColor:      "#0000FF",
			UnsavedFileColor: "#FF0000",
			DisabledColor:    "#666666",
			ErrorColor:       "#FF5F87",
			HelpStyle:        "dark",
		},
		Display: Display{
			BytesPerRow:    grid.DefaultBytesPerRow,
			Representation: render.ModeASCII.String(),
		},
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hexgrid.toml"
	}
	return filepath.Join(home, ".config", "hexgrid", "hexgrid.toml")
}

func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads path over the defaults. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.DisplayConfig(); err != nil {
		return err
	}
	return nil
}

// DisplayConfig converts the [display] table into the grid settings.
func (c *Config) DisplayConfig() (grid.DisplayConfig, error) {
	mode, err := render.ParseMode(c.Display.Representation)
	if err != nil {
		return grid.DisplayConfig{}, err
	}
	dc := grid.DisplayConfig{
		BytesPerRow:    c.Display.BytesPerRow,
		Representation: mode,
	}
	if err := dc.Validate(); err != nil {
		return grid.DisplayConfig{}, err
	}
	return dc, nil
}

func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

type Styles struct {
	Cursor          lipgloss.Style
	Edit            lipgloss.Style
	Dirty           lipgloss.Style
	Offset          lipgloss.Style
	Header          lipgloss.Style
	Stripe          lipgloss.Style
	Bar             lipgloss.Style
	Placeholder     lipgloss.Style
	Legend          lipgloss.Style
	LegendHighlight lipgloss.Style
	Border          lipgloss.Style
	ActiveFile      lipgloss.Style
	UnsavedFile     lipgloss.Style
	Disabled        lipgloss.Style
	Error           lipgloss.Style
	Normal          lipgloss.Style
	StatusLabel     lipgloss.Style
	StatusValue     lipgloss.Style
}

func NewStyles(theme *Theme) *Styles {
	return &Styles{
		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.CursorBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		Edit: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.EditBackground)).
			Foreground(lipgloss.Color("#000000")),
		Dirty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.DirtyColor)).
			Bold(true),
		Offset: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.OffsetColor)),
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.HeaderColor)).
			Bold(true),
		Stripe: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StripeBackground)),
		Bar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.BarColor)),
		Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.PlaceholderColor)),
		Legend: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.LegendBackground)).
			Foreground(lipgloss.Color("#FFFFFF")),
		LegendHighlight: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.LegendBackground)).
			Foreground(lipgloss.Color(theme.LegendHighlight)).
			Bold(true),
		Border: lipgloss.NewStyle().
			BorderForeground(lipgloss.Color(theme.BorderColor)),
		ActiveFile: lipgloss.NewStyle().
			Bold(true),
		UnsavedFile: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.UnsavedFileColor)),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.DisabledColor)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ErrorColor)),
		Normal: lipgloss.NewStyle(),
		StatusLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
		StatusValue: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
	}
}
