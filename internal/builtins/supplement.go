// This file implements the builtins recovered from original_source that
// spec.md's distillation dropped: LSET/RSET, READ/DATA/RESTORE, and SWAP
// (§4.5 supplement).
package builtins

import (
	"strings"

	"basic/internal/filemanager"
	"basic/internal/rterr"
	"basic/internal/variant"
)

func fieldWidth(fl *filemanager.FieldList, name string) (int, bool) {
	for _, f := range fl.Fields {
		if f.Name == name {
			return f.Width, true
		}
	}
	return 0, false
}

// LSet implements LSET var$ = value: pads/truncates value to the bound
// field's declared width, left-justified, and marks that field list
// current (§4.6 mark_current_field_list).
func LSet(fm *filemanager.FileManager, varName string, value variant.Variant) (variant.Variant, error) {
	handle, ok := fm.MarkCurrentFieldList(varName)
	if !ok {
		return variant.Variant{}, rterr.New(rterr.Other, "LSET: %q is not bound to a FIELD", varName)
	}
	fl, err := fm.CurrentFieldList(handle)
	if err != nil {
		return variant.Variant{}, err
	}
	width, ok := fieldWidth(fl, varName)
	if !ok {
		return variant.Variant{}, rterr.New(rterr.Other, "LSET: %q is not bound to a FIELD", varName)
	}
	return value.FixLength(width)
}

// RSet implements RSET var$ = value: right-justifies, left-padding with
// spaces (§4.5 supplement), reusing the same field-list lookup as LSET.
func RSet(fm *filemanager.FileManager, varName string, value variant.Variant) (variant.Variant, error) {
	handle, ok := fm.MarkCurrentFieldList(varName)
	if !ok {
		return variant.Variant{}, rterr.New(rterr.Other, "RSET: %q is not bound to a FIELD", varName)
	}
	fl, err := fm.CurrentFieldList(handle)
	if err != nil {
		return variant.Variant{}, err
	}
	width, ok := fieldWidth(fl, varName)
	if !ok {
		return variant.Variant{}, rterr.New(rterr.Other, "RSET: %q is not bound to a FIELD", varName)
	}
	s := value.StringVal()
	if value.Kind != variant.KindString {
		return variant.Variant{}, rterr.New(rterr.TypeMismatch, "RSET requires a string value")
	}
	if len(s) >= width {
		s = s[len(s)-width:]
	} else {
		s = strings.Repeat(" ", width-len(s)) + s
	}
	return variant.FixedStr(s, width), nil
}

// ReadNext implements READ var[, var...]'s per-variable pop from the
// program's DATA segment, failing Other("Out of DATA") when exhausted
// (§4.5 supplement).
func ReadNext(values []variant.Variant, cursor *int) (variant.Variant, error) {
	if *cursor >= len(values) {
		return variant.Variant{}, rterr.New(rterr.Other, "Out of DATA")
	}
	v := values[*cursor]
	*cursor++
	return v, nil
}

// Restore implements RESTORE [label]: resets the DATA cursor to 0, or to
// a label's recorded DATA-start offset (§4.5 supplement).
func Restore(labels map[string]int, label string, hasLabel bool, cursor *int) error {
	if !hasLabel {
		*cursor = 0
		return nil
	}
	off, ok := labels[label]
	if !ok {
		return rterr.New(rterr.Other, "RESTORE: label %q has no DATA", label)
	}
	*cursor = off
	return nil
}

// Swap implements SWAP var1, var2: exchanges two Paths' values in place,
// type-checked identically on both sides (§4.5 supplement) — the caller
// resolves both Paths to values, calls Swap to get the exchanged pair,
// then writes each back via the Path/CopyAToVarPath machinery.
func Swap(a, b variant.Variant) (variant.Variant, variant.Variant, error) {
	if a.Kind != b.Kind {
		return variant.Variant{}, variant.Variant{}, rterr.New(rterr.TypeMismatch, "SWAP requires both variables to share a type")
	}
	return b, a, nil
}
