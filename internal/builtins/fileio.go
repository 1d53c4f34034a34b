package builtins

import (
	"strings"

	"basic/internal/filemanager"
	"basic/internal/rterr"
	"basic/internal/variant"
)

// ParseOpenMode maps OPEN's FOR clause keyword to a filemanager.Mode.
func ParseOpenMode(mode string) (filemanager.Mode, error) {
	switch strings.ToUpper(mode) {
	case "INPUT":
		return filemanager.ModeInput, nil
	case "OUTPUT":
		return filemanager.ModeOutput, nil
	case "APPEND":
		return filemanager.ModeAppend, nil
	case "RANDOM":
		return filemanager.ModeRandom, nil
	default:
		return 0, rterr.New(rterr.BadFileMode, "unrecognized OPEN mode %q", mode)
	}
}

// GetRecord implements GET #n, rec (§4.6): reads one raw record and
// distributes it across every field list declared for the handle, each
// field becoming a fixed-length String variant the caller assigns to its
// bound variable.
func GetRecord(fm *filemanager.FileManager, handle, rec int) (map[string]variant.Variant, error) {
	raw, err := fm.Get(handle, rec)
	if err != nil {
		return nil, err
	}
	out := make(map[string]variant.Variant)
	lists, err := currentAndAllFieldLists(fm, handle)
	if err != nil {
		return nil, err
	}
	for _, fl := range lists {
		off := 0
		for _, f := range fl.Fields {
			if off+f.Width > len(raw) {
				break
			}
			out[f.Name] = variant.FixedStr(string(raw[off:off+f.Width]), f.Width)
			off += f.Width
		}
	}
	return out, nil
}

// PutRecord implements PUT #n, rec (§4.6): encodes the current field
// list's bound variables into the record's bytes, padding or truncating
// each to its declared width, and writes the full record.
func PutRecord(fm *filemanager.FileManager, handle, rec int, values map[string]variant.Variant) error {
	fi, err := fm.Lookup(handle)
	if err != nil {
		return err
	}
	fl, err := fm.CurrentFieldList(handle)
	if err != nil {
		return err
	}
	buf := make([]byte, fi.RecLen())
	off := 0
	for _, f := range fl.Fields {
		v, ok := values[f.Name]
		if !ok {
			off += f.Width
			continue
		}
		fixed, err := v.FixLength(f.Width)
		if err != nil {
			return err
		}
		copy(buf[off:off+f.Width], fixed.StringVal())
		off += f.Width
	}
	return fm.Put(handle, rec, buf)
}

// currentAndAllFieldLists is a thin accessor used by GetRecord to
// distribute a record across every declared FIELD list for a handle, not
// just the current one (§4.5 "distributes across all declared field
// lists").
func currentAndAllFieldLists(fm *filemanager.FileManager, handle int) ([]*filemanager.FieldList, error) {
	fi, err := fm.Lookup(handle)
	if err != nil {
		return nil, err
	}
	return fi.FieldLists(), nil
}
