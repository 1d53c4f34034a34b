package filemanager

import (
	"io"
	"strings"

	"basic/internal/rterr"
)

// EOF implements EOF(n) (§4.5): true once the handle's reader has been
// exhausted.
func (fm *FileManager) EOF(handle int) (bool, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return false, err
	}
	if fi.mode != ModeInput {
		return false, rterr.New(rterr.BadFileMode, "file #%d is not open for input", handle)
	}
	_, err = fi.reader.Peek(1)
	return err == io.EOF, nil
}

// Input implements INPUT #n's one-field read (§6.1 InputSource.input()):
// reads until a comma or CR/LF, trims the result, and fails
// InputPastEndOfFile if EOF is hit before any byte is read.
func (fm *FileManager) Input(handle int) (string, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return "", err
	}
	if fi.mode != ModeInput {
		return "", rterr.New(rterr.BadFileMode, "file #%d is not open for input", handle)
	}
	return readField(fi.reader)
}

// LineInput implements LINE INPUT #n (§6.1 InputSource.line_input()):
// reads until CR/LF.
func (fm *FileManager) LineInput(handle int) (string, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return "", err
	}
	if fi.mode != ModeInput {
		return "", rterr.New(rterr.BadFileMode, "file #%d is not open for input", handle)
	}
	line, err := fi.reader.ReadString('\n')
	if len(line) == 0 && err == io.EOF {
		return "", rterr.New(rterr.InputPastEndOfFile, "input past end of file #%d", handle)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readField(r interface {
	ReadByte() (byte, error)
}) (string, error) {
	var sb strings.Builder
	read := false
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			if !read {
				return "", rterr.New(rterr.InputPastEndOfFile, "input past end of file")
			}
			break
		}
		if err != nil {
			return "", rterr.Wrap(err, rterr.Other, "read failed")
		}
		read = true
		if b == ',' || b == '\n' {
			break
		}
		if b == '\r' {
			continue
		}
		sb.WriteByte(b)
	}
	return strings.TrimSpace(sb.String()), nil
}
