package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexgrid/internal/buffer"
	"hexgrid/internal/render"
)

func loaded(data []byte) *buffer.Buffer {
	b := buffer.New()
	b.Load(data)
	return b
}

func TestProjectEmpty(t *testing.T) {
	rows := Project(loaded(nil), DefaultDisplayConfig(), 0, 10)
	assert.Empty(t, rows, "an empty file renders no rows")
}

func TestProjectRows(t *testing.T) {
	data := make([]byte, 17)
	for i := range data {
		data[i] = byte('A' + i)
	}
	rows := Project(loaded(data), DefaultDisplayConfig(), 0, 10)
	require.Len(t, rows, 2)

	assert.Equal(t, "0x000000", rows[0].OffsetLabel)
	assert.Equal(t, "0x000010", rows[1].OffsetLabel)
	require.Len(t, rows[1].Cells, 16)

	first := rows[1].Cells[0]
	assert.True(t, first.Present)
	assert.Equal(t, 16, first.Index)
	assert.Equal(t, "51", first.HexText)
	assert.Equal(t, "Q", first.Glyph)

	for _, c := range rows[1].Cells[1:] {
		assert.False(t, c.Present, "cell %d is past the end", c.Index)
	}
}

func TestProjectWindow(t *testing.T) {
	rows := Project(loaded(make([]byte, 64)), DefaultDisplayConfig(), 2, 10)
	require.Len(t, rows, 2)
	assert.Equal(t, 32, rows[0].Offset)

	rows = Project(loaded(make([]byte, 64)), DefaultDisplayConfig(), 0, 1)
	assert.Len(t, rows, 1)
}

func TestProjectBars(t *testing.T) {
	cfg := DisplayConfig{BytesPerRow: 4, Representation: render.ModeBars}
	rows := Project(loaded([]byte{0x00, 0x80, 0xFF}), cfg, 0, 1)
	require.Len(t, rows, 1)

	cells := rows[0].Cells
	assert.Equal(t, 0.0, cells[0].BarFraction)
	assert.InDelta(t, 0.502, cells[1].BarFraction, 0.001)
	assert.Equal(t, 1.0, cells[2].BarFraction)
	assert.Equal(t, "█", cells[2].Glyph)
	assert.False(t, cells[3].Present)
}

func TestProjectDirty(t *testing.T) {
	b := loaded([]byte{0x00, 0x0A, 0xFF})
	_, err := b.SetByteFromHexText(1, "0B")
	require.NoError(t, err)

	rows := Project(b, DefaultDisplayConfig(), 0, 1)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Cells[0].Dirty)
	assert.True(t, rows[0].Cells[1].Dirty)
	assert.Equal(t, "0B", rows[0].Cells[1].HexText)
	assert.False(t, rows[0].Cells[2].Dirty)
}

func TestApplyEdit(t *testing.T) {
	b := loaded([]byte{0x0A, 0x20})

	applied, err := ApplyEdit(b, 0, "0a")
	require.NoError(t, err)
	assert.False(t, applied, "same value in another case is not an edit")
	assert.False(t, b.CanUndo())

	applied, err = ApplyEdit(b, 0, "zz")
	require.NoError(t, err)
	assert.False(t, applied, "invalid hex is ignored")

	applied, err = ApplyEdit(b, 1, "ff")
	require.NoError(t, err)
	assert.True(t, applied)
	v, _ := b.DisplayByte(1)
	assert.Equal(t, byte(0xFF), v)

	_, err = ApplyEdit(b, 5, "00")
	assert.ErrorIs(t, err, buffer.ErrIndexOutOfRange)
}

func TestHeaderLabels(t *testing.T) {
	labels := HeaderLabels(16)
	require.Len(t, labels, 16)
	assert.Equal(t, "00", labels[0])
	assert.Equal(t, "0F", labels[15])
	assert.Equal(t, "1F", HeaderLabels(32)[31])
}

func TestDisplayConfig(t *testing.T) {
	assert.NoError(t, DefaultDisplayConfig().Validate())
	assert.Error(t, DisplayConfig{BytesPerRow: 0}.Validate())

	assert.Equal(t, 16, NextRowWidth(8))
	assert.Equal(t, 32, NextRowWidth(16))
	assert.Equal(t, 8, NextRowWidth(32))
	assert.Equal(t, DefaultBytesPerRow, NextRowWidth(7))
}
