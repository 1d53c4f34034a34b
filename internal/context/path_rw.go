package context

import (
	"basic/internal/rterr"
	"basic/internal/store"
	"basic/internal/variables"
)

// ReadPath resolves any Path down to the store.Value it currently names
// (§4.4 CopyVarPathToA). It is the exported form of resolveValue, used by
// the interpreter loop rather than only by VARPTR/VARSEG arithmetic.
func (c *Context) ReadPath(p variables.Path) (store.Value, error) {
	return c.resolveValue(p)
}

// WritePath writes v through p (§4.4 CopyAToVarPath): for a Root path
// bound to a by-ref argument, the write propagates to the caller's Path
// first, then mirrors the same value into the local slot so subsequent
// local reads stay consistent. Array/record targets are already shared by
// pointer, so Set on the resolved container is enough — no propagation
// step is needed for ArrayElement/Property.
func (c *Context) WritePath(p variables.Path, v store.Value) error {
	switch p.Kind {
	case variables.PathRoot:
		loc, err := c.resolveRoot(p)
		if err != nil {
			return err
		}
		vars := c.blocks[loc.blockIdx].Vars
		if argPath, ok := vars.ArgPathByIndex(loc.varIdx); ok {
			if err := c.WritePath(argPath, v); err != nil {
				return err
			}
		}
		vars.SetByIndex(loc.varIdx, v)
		return nil

	case variables.PathArrayElement:
		parent, err := c.resolveValue(*p.Parent)
		if err != nil {
			return err
		}
		if !parent.IsArray() {
			return rterr.New(rterr.TypeMismatch, "path does not address an array")
		}
		if !v.IsScalar() {
			return rterr.New(rterr.TypeMismatch, "array elements hold scalars")
		}
		indices, err := toIntIndices(p.Indices)
		if err != nil {
			return err
		}
		return parent.AsArray().Set(indices, v.AsScalar())

	case variables.PathProperty:
		parent, err := c.resolveValue(*p.Parent)
		if err != nil {
			return err
		}
		if !parent.IsRecord() {
			return rterr.New(rterr.TypeMismatch, "path does not address a record")
		}
		rec := parent.AsRecord()
		if !v.IsScalar() {
			return rterr.New(rterr.TypeMismatch, "record fields hold scalars")
		}
		return rec.Set(p.Field, v.AsScalar())

	default:
		return rterr.New(rterr.Other, "unrecognized path kind")
	}
}
