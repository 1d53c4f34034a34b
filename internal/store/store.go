// Package store defines the composite storage value that Variables,
// MemoryBlocks and Paths actually hold: the closed Variant sum of §3.1
// extended with the two non-scalar alternatives spec.md's data model
// names, Array(arr) and UserDefined(record) (§3.2, §3.3).
//
// internal/variant stays scalar-only (a Go struct, no pointers, cheaply
// copied — it is also the unit every arithmetic/compare/cast/byte-view
// operation in §4.1 is defined over). Array and record values are
// separately-typed (internal/arrays.Array, internal/rtypes.Record) so
// that those packages can depend on internal/variant (an array's elements
// are Variants) without creating an import cycle back into variant. Value
// is the small tagged union one level up that unifies all three for
// storage — the same role spec.md's Variant enum plays, split across
// packages the way Go's import-DAG requires.
package store

import (
	"basic/internal/arrays"
	"basic/internal/rterr"
	"basic/internal/rtypes"
	"basic/internal/variant"
)

// Value is exactly one of Scalar, Array, or Record.
type Value struct {
	scalar    variant.Variant
	hasScalar bool
	array     *arrays.Array
	record    *rtypes.Record
}

// Scalar wraps a Variant.
func Scalar(v variant.Variant) Value { return Value{scalar: v, hasScalar: true} }

// FromArray wraps an Array.
func FromArray(a *arrays.Array) Value { return Value{array: a} }

// FromRecord wraps a Record.
func FromRecord(r *rtypes.Record) Value { return Value{record: r} }

func (v Value) IsScalar() bool { return v.hasScalar }
func (v Value) IsArray() bool  { return v.array != nil }
func (v Value) IsRecord() bool { return v.record != nil }

// AsScalar returns the scalar Variant (caller must check IsScalar).
func (v Value) AsScalar() variant.Variant { return v.scalar }

// AsArray returns the Array (caller must check IsArray).
func (v Value) AsArray() *arrays.Array { return v.array }

// AsRecord returns the Record (caller must check IsRecord).
func (v Value) AsRecord() *rtypes.Record { return v.record }

// ByteSize implements §4.1 byte_size() across all three alternatives,
// consulting the type registry only when a nested record size is needed.
func (v Value) ByteSize(reg *rtypes.Registry) (int, error) {
	switch {
	case v.hasScalar:
		return v.scalar.ByteSize(), nil
	case v.array != nil:
		return v.array.ByteSize(), nil
	case v.record != nil:
		return v.record.ByteSize(reg)
	default:
		return 0, rterr.New(rterr.Other, "empty storage value")
	}
}

// Kind returns a short label for diagnostics.
func (v Value) Kind() string {
	switch {
	case v.hasScalar:
		return v.scalar.Kind.String()
	case v.array != nil:
		return "Array"
	case v.record != nil:
		return "UserDefined"
	default:
		return "Empty"
	}
}
