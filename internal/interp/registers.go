package interp

import "basic/internal/store"

// Registers is the A/B/C/D quartet every instruction computes through
// (§3.8, §4.4). Unlike a scalar-only design, each slot holds a full
// store.Value rather than a bare variant.Variant, since AllocateArrayIntoA
// and AllocateUserDefined must be able to land a freshly built array or
// record directly in A for a following CopyAToVarPath to bind it to a
// variable — the generalized Variant SPEC_FULL.md §4.1 describes.
type Registers struct {
	A, B, C, D store.Value
}
