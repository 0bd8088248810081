// Package render turns byte values into the glyphs shown in the
// representation column.
package render

import (
	"fmt"
	"math"
	"strings"
)

type Mode int

const (
	ModeASCII Mode = iota
	ModeBars
)

func (m Mode) String() string {
	switch m {
	case ModeBars:
		return "bars"
	default:
		return "ascii"
	}
}

// Next cycles to the other representation.
func (m Mode) Next() Mode {
	if m == ModeASCII {
		return ModeBars
	}
	return ModeASCII
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ascii", "":
		return ModeASCII, nil
	case "bars", "bar", "map", "mapbars":
		return ModeBars, nil
	}
	return ModeASCII, fmt.Errorf("unknown representation %q", s)
}

const Placeholder = "."

// ASCIIGlyph returns the character for graphic ASCII bytes and the
// placeholder for everything else, space included.
func ASCIIGlyph(b byte) string {
	if b >= 0x21 && b <= 0x7E {
		return string(rune(b))
	}
	return Placeholder
}

// BarFraction maps a byte linearly onto [0, 1].
func BarFraction(b byte) float64 {
	return float64(b) / 255.0
}

// Bottom-anchored block elements in eighths of a cell.
var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// BarLevel is the filled height of the bar in eighths of a terminal cell.
func BarLevel(b byte) int {
	return int(math.Round(BarFraction(b) * float64(len(barBlocks)-1)))
}

func BarGlyph(b byte) string {
	return barBlocks[BarLevel(b)]
}

func Glyph(m Mode, b byte) string {
	if m == ModeBars {
		return BarGlyph(b)
	}
	return ASCIIGlyph(b)
}
