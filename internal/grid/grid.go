// Package grid projects a byte buffer onto the rows and cells the editor
// draws. It never draws anything itself.
package grid

import (
	"errors"
	"fmt"

	"hexgrid/internal/buffer"
	"hexgrid/internal/render"
)

const DefaultBytesPerRow = 16

// Widths offered when cycling the row width from the toolbar.
var RowWidths = []int{8, 16, 32}

type DisplayConfig struct {
	BytesPerRow    int
	Representation render.Mode
}

func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		BytesPerRow:    DefaultBytesPerRow,
		Representation: render.ModeASCII,
	}
}

func (c DisplayConfig) Validate() error {
	if c.BytesPerRow <= 0 {
		return fmt.Errorf("bytes per row must be positive, got %d", c.BytesPerRow)
	}
	return nil
}

// NextRowWidth returns the width following current in RowWidths.
func NextRowWidth(current int) int {
	for i, w := range RowWidths {
		if w == current {
			return RowWidths[(i+1)%len(RowWidths)]
		}
	}
	return DefaultBytesPerRow
}

// Source is the read side of a buffer.
type Source interface {
	Size() int
	RowCount(bytesPerRow int) int
	DisplayByte(i int) (byte, error)
	IsDirty(i int) (bool, error)
}

// Editor is a Source that accepts hex text edits.
type Editor interface {
	Source
	SetByteFromHexText(i int, text string) (byte, error)
}

type Cell struct {
	Index       int
	HexText     string
	Dirty       bool
	Glyph       string
	BarFraction float64
	// Present is false for the padding cells after the last byte.
	Present bool
}

type Row struct {
	Offset      int
	OffsetLabel string
	Cells       []Cell
}

func OffsetLabel(offset int) string {
	return fmt.Sprintf("0x%06X", offset)
}

// HeaderLabels returns the column headers for the hex cells, one per column
// and as wide as a cell.
func HeaderLabels(bytesPerRow int) []string {
	labels := make([]string, bytesPerRow)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02X", i)
	}
	return labels
}

// Project builds at most maxRows rows starting at firstRow.
func Project(src Source, cfg DisplayConfig, firstRow, maxRows int) []Row {
	if cfg.Validate() != nil || maxRows <= 0 {
		return nil
	}
	total := src.RowCount(cfg.BytesPerRow)
	if firstRow < 0 {
		firstRow = 0
	}

	var rows []Row
	for r := firstRow; r < total && len(rows) < maxRows; r++ {
		rows = append(rows, projectRow(src, cfg, r))
	}
	return rows
}

func projectRow(src Source, cfg DisplayConfig, r int) Row {
	offset := r * cfg.BytesPerRow
	row := Row{
		Offset:      offset,
		OffsetLabel: OffsetLabel(offset),
		Cells:       make([]Cell, cfg.BytesPerRow),
	}
	for col := range row.Cells {
		row.Cells[col] = projectCell(src, cfg.Representation, offset+col)
	}
	return row
}

func projectCell(src Source, mode render.Mode, i int) Cell {
	v, err := src.DisplayByte(i)
	if err != nil {
		return Cell{Index: i}
	}
	dirty, _ := src.IsDirty(i)
	return Cell{
		Index:       i,
		HexText:     buffer.HexText(v),
		Dirty:       dirty,
		Glyph:       render.Glyph(mode, v),
		BarFraction: render.BarFraction(v),
		Present:     true,
	}
}

// ApplyEdit is the change event for a single cell. The edit is written only
// when text is valid hex and differs from what the cell currently shows.
// Invalid text is dropped without an error.
func ApplyEdit(dst Editor, index int, text string) (bool, error) {
	current, err := dst.DisplayByte(index)
	if err != nil {
		return false, err
	}
	v, err := buffer.ParseHexByte(text)
	if err != nil {
		return false, nil
	}
	if v == current {
		return false, nil
	}
	if _, err := dst.SetByteFromHexText(index, text); err != nil {
		if errors.Is(err, buffer.ErrInvalidHexInput) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
