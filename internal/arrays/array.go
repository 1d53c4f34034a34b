// Package arrays implements the BASIC multi-dimensional array (§3.2): a
// flat element vector addressed by row-major absolute indexing, with a
// list of (lower, upper) bounds per dimension.
package arrays

import (
	"basic/internal/rterr"
	"basic/internal/variant"
)

// Dim is one dimension's declared bounds, inclusive on both ends.
type Dim struct {
	Lower, Upper int
}

func (d Dim) size() int { return d.Upper - d.Lower + 1 }

// Array holds a flat element vector plus its dimension bounds. All
// elements share the same element type (§3.2).
type Array struct {
	Dims     []Dim
	Elements []variant.Variant
	ElemQual variant.Qualifier // QualNone for fixed-length-string/record elements
	ElemSize int               // byte_size of one element, for VARPTR arithmetic (§4.3)
}

// New allocates an array given its dimension bounds and a zero-value
// template for every element. Fails SubscriptOutOfRange when any
// upper<lower, per §4.4 AllocateArrayIntoA.
func New(dims []Dim, zero variant.Variant, elemQual variant.Qualifier) (*Array, error) {
	total := 1
	for _, d := range dims {
		if d.Upper < d.Lower {
			return nil, rterr.New(rterr.SubscriptOutOfRange, "array upper bound %d is less than lower bound %d", d.Upper, d.Lower)
		}
		total *= d.size()
	}
	elems := make([]variant.Variant, total)
	for i := range elems {
		elems[i] = zero
	}
	return &Array{Dims: dims, Elements: elems, ElemQual: elemQual, ElemSize: zero.ByteSize()}, nil
}

// AbsIndex converts an index tuple to a linear, row-major offset (§3.2),
// bounds-checking each dimension.
func (a *Array) AbsIndex(indices []int) (int, error) {
	if len(indices) != len(a.Dims) {
		return 0, rterr.New(rterr.SubscriptOutOfRange, "expected %d indices, got %d", len(a.Dims), len(indices))
	}
	offset := 0
	for i, d := range a.Dims {
		idx := indices[i]
		if idx < d.Lower || idx > d.Upper {
			return 0, rterr.New(rterr.SubscriptOutOfRange, "index %d out of range [%d,%d]", idx, d.Lower, d.Upper)
		}
		offset = offset*d.size() + (idx - d.Lower)
	}
	return offset, nil
}

// Get reads one element by index tuple.
func (a *Array) Get(indices []int) (variant.Variant, error) {
	idx, err := a.AbsIndex(indices)
	if err != nil {
		return variant.Variant{}, err
	}
	return a.Elements[idx], nil
}

// Set writes one element by index tuple.
func (a *Array) Set(indices []int, v variant.Variant) error {
	idx, err := a.AbsIndex(indices)
	if err != nil {
		return err
	}
	a.Elements[idx] = v
	return nil
}

// LBound/UBound implement §4.5 LBOUND/UBOUND: dim is 1-based, defaulting
// to 1.
func (a *Array) LBound(dim int) (int, error) {
	if dim < 1 || dim > len(a.Dims) {
		return 0, rterr.New(rterr.SubscriptOutOfRange, "dimension %d out of range", dim)
	}
	return a.Dims[dim-1].Lower, nil
}

func (a *Array) UBound(dim int) (int, error) {
	if dim < 1 || dim > len(a.Dims) {
		return 0, rterr.New(rterr.SubscriptOutOfRange, "dimension %d out of range", dim)
	}
	return a.Dims[dim-1].Upper, nil
}

// ByteSize is the array's total footprint: element_size * element_count
// (§4.1 byte view, §6.4 array address segments).
func (a *Array) ByteSize() int {
	return a.ElemSize * len(a.Elements)
}

// Len returns the element count (for LEN(array$()) semantics — §4.5 LEN).
func (a *Array) Len() int { return len(a.Elements) }
