package filemanager

import (
	"os"
	"path/filepath"
	"testing"

	"basic/internal/rterr"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data.dat")
}

func TestOpenOutputThenInputRoundTrip(t *testing.T) {
	path := tempPath(t)
	fm := New()

	if err := fm.Open(1, path, ModeOutput, 0); err != nil {
		t.Fatalf("open output: %v", err)
	}
	fi, _ := fm.Lookup(1)
	w, err := fi.Writer()
	if err != nil {
		t.Fatalf("Writer: %v", err)
	}
	w.Write([]byte("hello,world\n"))
	if err := fm.Close(1); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := fm.Open(2, path, ModeInput, 0); err != nil {
		t.Fatalf("open input: %v", err)
	}
	field, err := fm.Input(2)
	if err != nil || field != "hello" {
		t.Fatalf("Input = %q, err=%v", field, err)
	}
	field2, err := fm.Input(2)
	if err != nil || field2 != "world" {
		t.Fatalf("Input(2) = %q, err=%v", field2, err)
	}
	if _, err := fm.Input(2); !rterr.Is(err, rterr.InputPastEndOfFile) {
		t.Fatalf("expected InputPastEndOfFile, got %v", err)
	}
}

func TestOpenAlreadyOpenFails(t *testing.T) {
	path := tempPath(t)
	fm := New()
	if err := fm.Open(1, path, ModeOutput, 0); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fm.Open(1, path, ModeOutput, 0); !rterr.Is(err, rterr.FileAlreadyOpen) {
		t.Fatalf("expected FileAlreadyOpen, got %v", err)
	}
}

func TestOpenInputMissingFileFails(t *testing.T) {
	fm := New()
	err := fm.Open(1, filepath.Join(t.TempDir(), "nope.dat"), ModeInput, 0)
	if !rterr.Is(err, rterr.FileNotFound) {
		t.Fatalf("expected FileNotFound, got %v", err)
	}
}

func TestRandomAccessGetPutRoundTrip(t *testing.T) {
	path := tempPath(t)
	fm := New()
	if err := fm.Open(1, path, ModeRandom, 10); err != nil {
		t.Fatalf("open random: %v", err)
	}
	if err := fm.AddFieldList(1, []FieldDef{{Name: "NAME$", Width: 10}}); err != nil {
		t.Fatalf("FIELD: %v", err)
	}

	payload := []byte("ABCDEFGHIJ")
	if err := fm.Put(1, 3, payload); err != nil {
		t.Fatalf("PUT: %v", err)
	}
	got, err := fm.Get(1, 3)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("GET roundtrip = %q, want %q", got, payload)
	}

	// record 1 was never written: reads as all-NUL (zero length 10).
	rec1, err := fm.Get(1, 1)
	if err != nil {
		t.Fatalf("GET rec1: %v", err)
	}
	for _, b := range rec1 {
		if b != 0 {
			t.Fatalf("expected rec1 to be all-NUL, got %v", rec1)
		}
	}
}

func TestRandomAccessRequiresPositiveRecLen(t *testing.T) {
	fm := New()
	err := fm.Open(1, tempPath(t), ModeRandom, 0)
	if !rterr.Is(err, rterr.BadRecordLength) {
		t.Fatalf("expected BadRecordLength, got %v", err)
	}
}

func TestMarkCurrentFieldList(t *testing.T) {
	path := tempPath(t)
	fm := New()
	fm.Open(1, path, ModeRandom, 20)
	fm.AddFieldList(1, []FieldDef{{Name: "A$", Width: 10}})
	fm.AddFieldList(1, []FieldDef{{Name: "B$", Width: 20}})

	handle, ok := fm.MarkCurrentFieldList("A$")
	if !ok || handle != 1 {
		t.Fatalf("MarkCurrentFieldList(A$) = %d,%v", handle, ok)
	}
	fl, err := fm.CurrentFieldList(1)
	if err != nil {
		t.Fatalf("CurrentFieldList: %v", err)
	}
	if len(fl.Fields) != 1 || fl.Fields[0].Name != "A$" {
		t.Fatalf("unexpected current field list: %+v", fl)
	}
}

func TestNameAndKill(t *testing.T) {
	path := tempPath(t)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	fm := New()
	newPath := path + ".renamed"
	if err := fm.Name(path, newPath); err != nil {
		t.Fatalf("NAME: %v", err)
	}
	if err := fm.Kill(newPath); err != nil {
		t.Fatalf("KILL: %v", err)
	}
	if _, err := os.Stat(newPath); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone")
	}
}
