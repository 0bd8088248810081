package buffer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidHexInput = errors.New("invalid hex input")
	ErrNoFilename      = errors.New("no filename set")
)

// FileReadError reports a file that could not be opened or read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Edit records a single byte overwrite.
type Edit struct {
	Index int
	Old   byte
	New   byte
}

// Buffer holds the bytes as loaded from disk next to the working copy the
// user edits. Both slices always have the same length.
type Buffer struct {
	filename     string
	original     []byte
	working      []byte
	originalHash string
	undoStack    []Edit
	redoStack    []Edit
}

func New() *Buffer {
	return &Buffer{
		original: make([]byte, 0),
		working:  make([]byte, 0),
	}
}

func Open(filename string) (*Buffer, error) {
	data, err := readFile(filename)
	if err != nil {
		return nil, err
	}

	b := New()
	b.filename = filename
	b.Load(data)
	return b, nil
}

func readFile(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &FileReadError{Path: filename, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &FileReadError{Path: filename, Err: err}
	}
	return data, nil
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load replaces both the original and the working bytes with data.
func (b *Buffer) Load(data []byte) {
	b.original = cloneBytes(data)
	b.working = cloneBytes(data)
	b.originalHash = hashOf(data)
	b.undoStack = nil
	b.redoStack = nil
}

// Reload reads filename into b. On failure the current contents are kept.
func (b *Buffer) Reload(filename string) error {
	data, err := readFile(filename)
	if err != nil {
		return err
	}
	b.filename = filename
	b.Load(data)
	return nil
}

func (b *Buffer) Filename() string {
	return b.filename
}

func (b *Buffer) Size() int {
	return len(b.working)
}

func (b *Buffer) Data() []byte {
	return cloneBytes(b.working)
}

func (b *Buffer) checkIndex(i int) error {
	if i < 0 || i >= len(b.working) {
		return fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, i, len(b.working))
	}
	return nil
}

func (b *Buffer) IsDirty(i int) (bool, error) {
	if err := b.checkIndex(i); err != nil {
		return false, err
	}
	return b.working[i] != b.original[i], nil
}

func (b *Buffer) DisplayByte(i int) (byte, error) {
	if err := b.checkIndex(i); err != nil {
		return 0, err
	}
	return b.working[i], nil
}

func (b *Buffer) Original(i int) (byte, error) {
	if err := b.checkIndex(i); err != nil {
		return 0, err
	}
	return b.original[i], nil
}

// HexText is the canonical two digit rendering of a byte.
func HexText(v byte) string {
	return fmt.Sprintf("%02X", v)
}

// ParseHexByte accepts exactly two hex digits in either case.
func ParseHexByte(text string) (byte, error) {
	if len(text) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHexInput, text)
	}
	var v byte
	for i := 0; i < 2; i++ {
		n, ok := nibble(text[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHexInput, text)
		}
		v = v<<4 | n
	}
	return v, nil
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// SetByteFromHexText parses text and writes it at index i, returning the
// previous value. Text that already matches the current byte changes nothing.
func (b *Buffer) SetByteFromHexText(i int, text string) (byte, error) {
	if err := b.checkIndex(i); err != nil {
		return 0, err
	}
	v, err := ParseHexByte(text)
	if err != nil {
		return 0, err
	}

	prev := b.working[i]
	if strings.EqualFold(HexText(prev), text) {
		return prev, nil
	}
	b.Replace(i, v)
	return prev, nil
}

// Replace overwrites a single byte and records it for undo.
func (b *Buffer) Replace(i int, v byte) {
	if i < 0 || i >= len(b.working) || b.working[i] == v {
		return
	}

	b.undoStack = append(b.undoStack, Edit{Index: i, Old: b.working[i], New: v})
	b.redoStack = nil
	b.working[i] = v
}

// ReplaceBytes overwrites bytes starting at offset. Bytes past the end are
// dropped since the buffer never changes size. It returns how many were written.
func (b *Buffer) ReplaceBytes(offset int, data []byte) int {
	n := 0
	for i, d := range data {
		pos := offset + i
		if pos < 0 || pos >= len(b.working) {
			break
		}
		b.Replace(pos, d)
		n++
	}
	return n
}

func (b *Buffer) RowCount(bytesPerRow int) int {
	if bytesPerRow <= 0 || len(b.working) == 0 {
		return 0
	}
	return (len(b.working) + bytesPerRow - 1) / bytesPerRow
}

// Reset discards every edit made since the last load or save.
func (b *Buffer) Reset() {
	copy(b.working, b.original)
	b.undoStack = nil
	b.redoStack = nil
}

func (b *Buffer) DirtyCount() int {
	n := 0
	for i := range b.working {
		if b.working[i] != b.original[i] {
			n++
		}
	}
	return n
}

func (b *Buffer) IsModified() bool {
	return b.DirtyCount() > 0
}

func (b *Buffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}

	op := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.working[op.Index] = op.Old
	b.redoStack = append(b.redoStack, op)
	return true
}

func (b *Buffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}

	op := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.working[op.Index] = op.New
	b.undoStack = append(b.undoStack, op)
	return true
}

func (b *Buffer) CanUndo() bool {
	return len(b.undoStack) > 0
}

func (b *Buffer) CanRedo() bool {
	return len(b.redoStack) > 0
}

func (b *Buffer) HasChangedOnDisk() (bool, error) {
	if b.filename == "" {
		return false, nil
	}

	data, err := readFile(b.filename)
	if err != nil {
		return false, err
	}
	return hashOf(data) != b.originalHash, nil
}

// Save writes the working bytes to the loaded path. After a successful write
// the working bytes become the new original.
func (b *Buffer) Save() error {
	if b.filename == "" {
		return ErrNoFilename
	}

	if err := os.WriteFile(b.filename, b.working, 0644); err != nil {
		return fmt.Errorf("write %s: %w", b.filename, err)
	}

	b.original = cloneBytes(b.working)
	b.originalHash = hashOf(b.working)
	b.undoStack = nil
	b.redoStack = nil
	return nil
}

func (b *Buffer) SaveAs(filename string) error {
	prev := b.filename
	b.filename = filename
	if err := b.Save(); err != nil {
		b.filename = prev
		return err
	}
	return nil
}

func (b *Buffer) Find(pattern []byte, start int, forward bool) int {
	n := len(b.working)
	if len(pattern) == 0 || n == 0 || len(pattern) > n {
		return -1
	}

	last := n - len(pattern)
	if forward {
		if start < 0 {
			start = 0
		}
		for i := start; i <= last; i++ {
			if b.matchAt(i, pattern) {
				return i
			}
		}
		return -1
	}

	from := start - 1
	if from > last {
		from = last
	}
	for i := from; i >= 0; i-- {
		if b.matchAt(i, pattern) {
			return i
		}
	}
	return -1
}

func (b *Buffer) CountMatches(pattern []byte) int {
	if len(pattern) == 0 || len(pattern) > len(b.working) {
		return 0
	}

	count := 0
	for i := 0; i <= len(b.working)-len(pattern); i++ {
		if b.matchAt(i, pattern) {
			count++
		}
	}
	return count
}

func (b *Buffer) matchAt(i int, pattern []byte) bool {
	for j := range pattern {
		if b.working[i+j] != pattern[j] {
			return false
		}
	}
	return true
}

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
