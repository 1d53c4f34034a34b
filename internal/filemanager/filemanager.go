// Package filemanager implements the per-handle file table of §3.7 and
// §4.6: sequential input/output/append streams plus random-access
// fixed-record files with FIELD-declared record layouts.
//
// Grounded structurally on the teacher's module-registry idiom — a
// struct holding a mutex-guarded map keyed by an identifier
// (internal/filesystem.FileSystemModule keys by path; here the BASIC
// file number is the natural key) — but the concern is record I/O, not
// security baselining, so the teacher's hashing/scanning machinery has
// no home here (see DESIGN.md for that dropped-dependency note).
package filemanager

import (
	"bufio"
	"io"
	"os"
	"sync"

	"basic/internal/rterr"
)

// Mode is how a handle was opened (§4.6).
type Mode byte

const (
	ModeInput Mode = iota
	ModeOutput
	ModeAppend
	ModeRandom
)

// FieldDef is one FIELD clause entry: a variable name bound to a
// declared byte width.
type FieldDef struct {
	Name  string
	Width int
}

// FieldList is one FIELD statement's declared layout for a random-access
// handle. Several may be declared against the same handle; exactly one
// is marked current at a time (§4.6).
type FieldList struct {
	Fields []FieldDef
}

// Width sums the declared widths of every field in the list.
func (fl *FieldList) Width() int {
	total := 0
	for _, f := range fl.Fields {
		total += f.Width
	}
	return total
}

// FileInfo holds one open handle's state (§3.7): raw is the backing file
// for every mode, and a sequential reader or writer is layered over it
// according to the mode it was opened with; random-access uses raw alone.
type FileInfo struct {
	mode   Mode
	path   string
	recLen int

	reader *bufio.Reader // ModeInput
	writer io.Writer     // ModeOutput, ModeAppend
	raw    *os.File      // backing handle, closed on Close for every mode

	fieldLists   []*FieldList
	currentField int // index into fieldLists, -1 if none declared yet
}

// Mode reports how this handle was opened.
func (fi *FileInfo) Mode() Mode { return fi.mode }

// RecLen reports the declared record length (ModeRandom only).
func (fi *FileInfo) RecLen() int { return fi.recLen }

// FieldLists returns every FIELD list declared against this handle, in
// declaration order (§4.5 GET distributes a record across all of them).
func (fi *FileInfo) FieldLists() []*FieldList { return fi.fieldLists }

// Writer exposes the handle's sequential writer for PRINT #n / WRITE #n
// to wrap in a printer.Sink.
func (fi *FileInfo) Writer() (io.Writer, error) {
	if fi.mode != ModeOutput && fi.mode != ModeAppend {
		return nil, rterr.New(rterr.BadFileMode, "file is not open for output")
	}
	return fi.writer, nil
}

// FileManager is the interpreter's open-handle table, keyed by BASIC
// file number (§3.7, §4.6).
type FileManager struct {
	mu    sync.Mutex
	files map[int]*FileInfo
}

// New returns an empty FileManager.
func New() *FileManager {
	return &FileManager{files: make(map[int]*FileInfo)}
}

// Open implements OPEN name FOR mode AS #n [LEN=rec] (§4.6). Opening an
// already-open handle fails FileAlreadyOpen.
func (fm *FileManager) Open(handle int, path string, mode Mode, recLen int) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if _, exists := fm.files[handle]; exists {
		return rterr.New(rterr.FileAlreadyOpen, "file #%d is already open", handle)
	}

	fi := &FileInfo{mode: mode, path: path, recLen: recLen, currentField: -1}
	switch mode {
	case ModeInput:
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return rterr.Wrap(err, rterr.FileNotFound, "file %q not found", path)
			}
			return rterr.Wrap(err, rterr.Other, "cannot open %q", path)
		}
		fi.raw = f
		fi.reader = bufio.NewReader(f)

	case ModeOutput:
		f, err := os.Create(path)
		if err != nil {
			return rterr.Wrap(err, rterr.Other, "cannot create %q", path)
		}
		fi.raw = f
		fi.writer = bufio.NewWriter(f)

	case ModeAppend:
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return rterr.Wrap(err, rterr.Other, "cannot open %q for append", path)
		}
		fi.raw = f
		fi.writer = bufio.NewWriter(f)

	case ModeRandom:
		if recLen <= 0 {
			return rterr.New(rterr.BadRecordLength, "random-access file requires LEN > 0")
		}
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return rterr.Wrap(err, rterr.Other, "cannot open %q", path)
		}
		fi.raw = f

	default:
		return rterr.New(rterr.BadFileMode, "unrecognized file mode")
	}

	fm.files[handle] = fi
	return nil
}

// lookup returns the FileInfo for handle, failing BadFileNameOrNumber if
// it is not open.
func (fm *FileManager) lookup(handle int) (*FileInfo, error) {
	fi, ok := fm.files[handle]
	if !ok {
		return nil, rterr.New(rterr.BadFileNameOrNumber, "file #%d is not open", handle)
	}
	return fi, nil
}

// Lookup is the exported form of lookup, for collaborators (the printer,
// the builtins dispatcher) that need direct access to a handle's state.
func (fm *FileManager) Lookup(handle int) (*FileInfo, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.lookup(handle)
}

// Close closes one handle, flushing any buffered writer first.
func (fm *FileManager) Close(handle int) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return err
	}
	return fm.closeOne(handle, fi)
}

// CloseAll implements bare CLOSE (no args): closes every open handle.
func (fm *FileManager) CloseAll() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	var firstErr error
	for handle, fi := range fm.files {
		if err := fm.closeOne(handle, fi); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (fm *FileManager) closeOne(handle int, fi *FileInfo) error {
	if bw, ok := fi.writer.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			delete(fm.files, handle)
			return rterr.Wrap(err, rterr.Other, "flush failed for #%d", handle)
		}
	}
	if fi.raw != nil {
		_ = fi.raw.Close()
	}
	delete(fm.files, handle)
	return nil
}

// Name implements NAME old AS new.
func (fm *FileManager) Name(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		if os.IsNotExist(err) {
			return rterr.Wrap(err, rterr.FileNotFound, "file %q not found", oldPath)
		}
		return rterr.Wrap(err, rterr.Other, "rename failed")
	}
	return nil
}

// Kill implements KILL path.
func (fm *FileManager) Kill(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return rterr.Wrap(err, rterr.FileNotFound, "file %q not found", path)
		}
		return rterr.Wrap(err, rterr.Other, "delete failed")
	}
	return nil
}
