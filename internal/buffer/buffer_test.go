package buffer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	b := New()
	if b.Size() != 0 {
		t.Errorf("expected size 0, got %d", b.Size())
	}
	if b.RowCount(16) != 0 {
		t.Errorf("expected 0 rows, got %d", b.RowCount(16))
	}
}

func TestLoad(t *testing.T) {
	data := []byte{0x00, 0x41, 0x7F, 0x80, 0xFF}
	b := New()
	b.Load(data)

	for i, want := range data {
		got, err := b.DisplayByte(i)
		if err != nil {
			t.Fatalf("DisplayByte(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("expected %02X at offset %d, got %02X", want, i, got)
		}
		dirty, err := b.IsDirty(i)
		if err != nil {
			t.Fatalf("IsDirty(%d): %v", i, err)
		}
		if dirty {
			t.Errorf("expected offset %d to be clean after load", i)
		}
	}

	// The buffer must not alias the caller's slice.
	data[1] = 0x00
	if got, _ := b.DisplayByte(1); got != 0x41 {
		t.Errorf("buffer aliases input slice: got %02X", got)
	}
}

func TestLoadEmpty(t *testing.T) {
	b := New()
	b.Load(nil)
	if b.Size() != 0 {
		t.Errorf("expected size 0, got %d", b.Size())
	}
	if _, err := b.IsDirty(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	b := New()
	b.Load([]byte{1, 2, 3})

	if _, err := b.IsDirty(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("IsDirty(3): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := b.DisplayByte(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("DisplayByte(-1): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := b.SetByteFromHexText(3, "FF"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetByteFromHexText(3): expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSetByteFromHexText(t *testing.T) {
	b := New()
	b.Load([]byte{0x10, 0xFF})

	prev, err := b.SetByteFromHexText(0, "FF")
	if err != nil {
		t.Fatal(err)
	}
	if prev != 0x10 {
		t.Errorf("expected previous value 10, got %02X", prev)
	}
	if got, _ := b.DisplayByte(0); got != 0xFF {
		t.Errorf("expected FF at offset 0, got %02X", got)
	}
	if dirty, _ := b.IsDirty(0); !dirty {
		t.Error("expected offset 0 to be dirty")
	}

	// Original byte was already FF.
	if _, err := b.SetByteFromHexText(1, "ff"); err != nil {
		t.Fatal(err)
	}
	if dirty, _ := b.IsDirty(1); dirty {
		t.Error("expected offset 1 to stay clean")
	}
}

func TestSetByteFromHexTextInvalid(t *testing.T) {
	for _, text := range []string{"zz", "", "F", "FFF", "0x", " 1", "g0"} {
		b := New()
		b.Load([]byte{0x42})

		if _, err := b.SetByteFromHexText(0, text); !errors.Is(err, ErrInvalidHexInput) {
			t.Errorf("%q: expected ErrInvalidHexInput, got %v", text, err)
		}
		if got, _ := b.DisplayByte(0); got != 0x42 {
			t.Errorf("%q: buffer changed to %02X", text, got)
		}
		if b.CanUndo() {
			t.Errorf("%q: invalid input recorded an undo step", text)
		}
	}
}

func TestSetByteFromHexTextIdempotent(t *testing.T) {
	b := New()
	b.Load([]byte{0x0A})

	if _, err := b.SetByteFromHexText(0, "0a"); err != nil {
		t.Fatal(err)
	}
	if dirty, _ := b.IsDirty(0); dirty {
		t.Error("expected offset 0 to stay clean")
	}
	if b.CanUndo() {
		t.Error("expected no undo step for an unchanged byte")
	}
}

func TestRowCount(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 0},
		{1, 1},
		{16, 1},
		{17, 2},
		{32, 2},
		{33, 3},
	}
	for _, tt := range tests {
		b := New()
		b.Load(make([]byte, tt.size))
		if got := b.RowCount(16); got != tt.want {
			t.Errorf("RowCount(16) with %d bytes: expected %d, got %d", tt.size, tt.want, got)
		}
	}
}

func TestEditAndReset(t *testing.T) {
	b := New()
	b.Load([]byte{0x00, 0x0A, 0xFF})

	if _, err := b.SetByteFromHexText(1, "0B"); err != nil {
		t.Fatal(err)
	}

	wantDirty := []bool{false, true, false}
	wantData := []byte{0x00, 0x0B, 0xFF}
	for i := range wantData {
		dirty, _ := b.IsDirty(i)
		val, _ := b.DisplayByte(i)
		if dirty != wantDirty[i] {
			t.Errorf("offset %d: expected dirty=%v, got %v", i, wantDirty[i], dirty)
		}
		if val != wantData[i] {
			t.Errorf("offset %d: expected %02X, got %02X", i, wantData[i], val)
		}
	}

	b.Reset()
	if !bytes.Equal(b.Data(), []byte{0x00, 0x0A, 0xFF}) {
		t.Errorf("unexpected data after reset: %v", b.Data())
	}
	if b.DirtyCount() != 0 {
		t.Errorf("expected no dirty bytes after reset, got %d", b.DirtyCount())
	}
}

func TestUndoRedo(t *testing.T) {
	b := New()
	b.Load([]byte{0x41, 0x42})
	b.Replace(0, 0xFF)

	if !b.CanUndo() {
		t.Error("expected CanUndo to be true")
	}
	b.Undo()
	if got, _ := b.DisplayByte(0); got != 0x41 {
		t.Errorf("expected 41 after undo, got %02X", got)
	}
	if b.IsModified() {
		t.Error("expected buffer to be clean after undo")
	}

	if !b.CanRedo() {
		t.Error("expected CanRedo to be true")
	}
	b.Redo()
	if got, _ := b.DisplayByte(0); got != 0xFF {
		t.Errorf("expected FF after redo, got %02X", got)
	}
}

func TestReplaceBytesStopsAtEnd(t *testing.T) {
	b := New()
	b.Load([]byte{1, 2, 3})

	n := b.ReplaceBytes(1, []byte{9, 9, 9})
	if n != 2 {
		t.Errorf("expected 2 bytes written, got %d", n)
	}
	if b.Size() != 3 {
		t.Errorf("expected size to stay 3, got %d", b.Size())
	}
	if !bytes.Equal(b.Data(), []byte{1, 9, 9}) {
		t.Errorf("unexpected data: %v", b.Data())
	}
}

func TestFind(t *testing.T) {
	b := New()
	b.Load([]byte("Hello, World!"))

	if pos := b.Find([]byte("World"), 0, true); pos != 7 {
		t.Errorf("expected position 7, got %d", pos)
	}
	if pos := b.Find([]byte("o"), 13, false); pos != 8 {
		t.Errorf("expected position 8 searching backwards, got %d", pos)
	}
	if pos := b.Find([]byte("xyz"), 0, true); pos != -1 {
		t.Errorf("expected -1 for not found, got %d", pos)
	}
}

func TestCountMatches(t *testing.T) {
	b := New()
	b.Load([]byte("ababab"))

	if count := b.CountMatches([]byte("ab")); count != 3 {
		t.Errorf("expected 3 matches, got %d", count)
	}
}

func TestOpenAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Size() != 5 {
		t.Errorf("expected size 5, got %d", b.Size())
	}

	if _, err := b.SetByteFromHexText(2, "FF"); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(); err != nil {
		t.Fatal(err)
	}
	if b.DirtyCount() != 0 {
		t.Errorf("expected clean buffer after save, got %d dirty", b.DirtyCount())
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0xFF, 0x04, 0x05}) {
		t.Errorf("unexpected file contents: %v", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))

	var readErr *FileReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected *FileReadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected error to wrap os.ErrNotExist, got %v", err)
	}
}

func TestReloadFailureKeepsData(t *testing.T) {
	b := New()
	b.Load([]byte{0xAA, 0xBB})
	b.Replace(0, 0x00)

	if err := b.Reload(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Fatal("expected reload of a missing file to fail")
	}
	if !bytes.Equal(b.Data(), []byte{0x00, 0xBB}) {
		t.Errorf("working bytes changed after failed reload: %v", b.Data())
	}
	if orig, _ := b.Original(0); orig != 0xAA {
		t.Errorf("original bytes changed after failed reload: %02X", orig)
	}
}

func TestSaveWithoutFilename(t *testing.T) {
	b := New()
	b.Load([]byte{1})
	if err := b.Save(); !errors.Is(err, ErrNoFilename) {
		t.Errorf("expected ErrNoFilename, got %v", err)
	}
}

func TestHasChangedOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte{1, 2}, 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if changed, err := b.HasChangedOnDisk(); err != nil || changed {
		t.Errorf("expected unchanged file, got changed=%v err=%v", changed, err)
	}

	if err := os.WriteFile(path, []byte{3, 4}, 0644); err != nil {
		t.Fatal(err)
	}
	if changed, err := b.HasChangedOnDisk(); err != nil || !changed {
		t.Errorf("expected changed file, got changed=%v err=%v", changed, err)
	}
}
