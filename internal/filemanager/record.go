package filemanager

import (
	"basic/internal/rterr"
)

// AddFieldList implements FIELD #n, w1 AS n1, w2 AS n2, ... (§4.6):
// appends a new declared layout and marks it current.
func (fm *FileManager) AddFieldList(handle int, fields []FieldDef) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return err
	}
	if fi.mode != ModeRandom {
		return rterr.New(rterr.BadFileMode, "FIELD requires a random-access file")
	}
	width := 0
	for _, f := range fields {
		width += f.Width
	}
	if width > fi.recLen {
		return rterr.New(rterr.FieldOverflow, "field list width %d exceeds record length %d", width, fi.recLen)
	}
	fi.fieldLists = append(fi.fieldLists, &FieldList{Fields: fields})
	fi.currentField = len(fi.fieldLists) - 1
	return nil
}

// CurrentFieldList returns the field list marked current for handle
// (§4.6 get_current_field_list).
func (fm *FileManager) CurrentFieldList(handle int) (*FieldList, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return nil, err
	}
	if fi.currentField < 0 {
		return nil, rterr.New(rterr.Other, "no FIELD declared for file #%d", handle)
	}
	return fi.fieldLists[fi.currentField], nil
}

// MarkCurrentFieldList implements LSET's field-binding search (§4.6):
// searches every open handle's field lists for a field named varName and
// marks the containing field list current, reporting which handle it
// belongs to.
func (fm *FileManager) MarkCurrentFieldList(varName string) (handle int, ok bool) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	for h, fi := range fm.files {
		for i, fl := range fi.fieldLists {
			for _, f := range fl.Fields {
				if f.Name == varName {
					fi.currentField = i
					return h, true
				}
			}
		}
	}
	return 0, false
}

// Get implements GET #n, rec (§4.6): reads rec_len bytes at offset
// (rec-1)*rec_len. Reads past end-of-file are zero-padded rather than
// failing, per §4.6's "Random" open-mode contract.
func (fm *FileManager) Get(handle, rec int) ([]byte, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return nil, err
	}
	if fi.mode != ModeRandom {
		return nil, rterr.New(rterr.BadFileMode, "GET requires a random-access file")
	}
	if rec < 1 {
		return nil, rterr.New(rterr.BadRecordLength, "record number must be >= 1")
	}
	buf := make([]byte, fi.recLen)
	off := int64(rec-1) * int64(fi.recLen)
	n, err := fi.raw.ReadAt(buf, off)
	if err != nil && n == 0 {
		// Entirely past EOF: treat as an all-NUL record.
		return buf, nil
	}
	return buf, nil
}

// Put implements PUT #n, rec (§4.6): writes exactly rec_len bytes (the
// caller pads/truncates to width) at the record's offset.
func (fm *FileManager) Put(handle, rec int, data []byte) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	fi, err := fm.lookup(handle)
	if err != nil {
		return err
	}
	if fi.mode != ModeRandom {
		return rterr.New(rterr.BadFileMode, "PUT requires a random-access file")
	}
	if rec < 1 {
		return rterr.New(rterr.BadRecordLength, "record number must be >= 1")
	}
	if len(data) != fi.recLen {
		return rterr.New(rterr.BadRecordLength, "record payload is %d bytes, want %d", len(data), fi.recLen)
	}
	off := int64(rec-1) * int64(fi.recLen)
	_, err = fi.raw.WriteAt(data, off)
	if err != nil {
		return rterr.Wrap(err, rterr.Other, "write failed")
	}
	return nil
}
