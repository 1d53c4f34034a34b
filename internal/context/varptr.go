package context

import (
	"basic/internal/arrays"
	"basic/internal/rterr"
	"basic/internal/store"
	"basic/internal/variables"
	"basic/internal/variant"
)

// VarSegBase is the 16-bit segment addressing the flat view over every
// non-array scalar/record variable across all memory blocks (§6.4).
const VarSegBase = 4096

// location is a Path resolved down to a concrete (block, slot) pair plus
// the value found there — the shared first step of both VARPTR and
// VARSEG arithmetic (§4.3).
type location struct {
	blockIdx int
	varIdx   int
	value    store.Value
}

func (c *Context) resolveRoot(p variables.Path) (location, error) {
	blockIdx := c.currentBlockIndex()
	if p.Shared {
		blockIdx = 0
	}
	vars := c.blocks[blockIdx].Vars
	idx, ok := vars.IndexOf(p.Name)
	if !ok {
		return location{}, rterr.New(rterr.VariableRequired, "variable %q is not defined", p.Name)
	}
	val, _ := vars.GetByIndex(idx)
	return location{blockIdx: blockIdx, varIdx: idx, value: val}, nil
}

// resolveValue resolves any Path (Root, ArrayElement, or Property) down
// to the store.Value it currently names, without computing an address —
// used to fetch the array/record a deeper path step navigates into.
func (c *Context) resolveValue(p variables.Path) (store.Value, error) {
	switch p.Kind {
	case variables.PathRoot:
		loc, err := c.resolveRoot(p)
		if err != nil {
			return store.Value{}, err
		}
		return loc.value, nil
	case variables.PathArrayElement:
		parent, err := c.resolveValue(*p.Parent)
		if err != nil {
			return store.Value{}, err
		}
		if !parent.IsArray() {
			return store.Value{}, rterr.New(rterr.TypeMismatch, "path does not address an array")
		}
		indices, err := toIntIndices(p.Indices)
		if err != nil {
			return store.Value{}, err
		}
		v, err := parent.AsArray().Get(indices)
		if err != nil {
			return store.Value{}, err
		}
		return store.Scalar(v), nil
	case variables.PathProperty:
		parent, err := c.resolveValue(*p.Parent)
		if err != nil {
			return store.Value{}, err
		}
		if !parent.IsRecord() {
			return store.Value{}, rterr.New(rterr.TypeMismatch, "path does not address a record")
		}
		rec := parent.AsRecord()
		if nested, ok := rec.Nested(p.Field); ok {
			return store.FromRecord(nested), nil
		}
		v, err := rec.Get(p.Field)
		if err != nil {
			return store.Value{}, err
		}
		return store.Scalar(v), nil
	default:
		return store.Value{}, rterr.New(rterr.Other, "unrecognized path kind")
	}
}

func toIntIndices(vs []variant.Variant) ([]int, error) {
	out := make([]int, len(vs))
	for i, v := range vs {
		lv, err := v.Cast(variant.QualLong)
		if err != nil {
			return nil, err
		}
		out[i] = int(lv.LongVal())
	}
	return out, nil
}

// arrayOrdinal returns an array variable's 0-based global ordinal: blocks
// scanned in order, arrays within a block scanned in insertion order
// (§4.3, §6.4).
func (c *Context) arrayOrdinal(blockIdx, varIdx int) int {
	ordinal := 0
	for b := 0; b < blockIdx; b++ {
		ordinal += len(c.blocks[b].Vars.ArrayIndices())
	}
	for _, i := range c.blocks[blockIdx].Vars.ArrayIndices() {
		if i == varIdx {
			return ordinal
		}
		ordinal++
	}
	return ordinal
}

// CalculateVarPtr implements §4.3's calculate_varptr: the byte offset
// VARPTR reports for path, relative to the segment CalculateVarSeg
// returns for the same path.
func (c *Context) CalculateVarPtr(p variables.Path) (int, error) {
	switch p.Kind {
	case variables.PathRoot:
		loc, err := c.resolveRoot(p)
		if err != nil {
			return 0, err
		}
		if loc.value.IsArray() {
			return 0, nil
		}
		total := 0
		for b := 0; b < loc.blockIdx; b++ {
			sz, err := c.blocks[b].Vars.ByteSize(c.reg)
			if err != nil {
				return 0, err
			}
			total += sz
		}
		before, err := c.blocks[loc.blockIdx].Vars.ByteSizeBefore(c.reg, p.Name)
		if err != nil {
			return 0, err
		}
		return total + before, nil

	case variables.PathArrayElement:
		parent, err := c.resolveValue(*p.Parent)
		if err != nil {
			return 0, err
		}
		if !parent.IsArray() {
			return 0, rterr.New(rterr.TypeMismatch, "path does not address an array")
		}
		arr := parent.AsArray()
		indices, err := toIntIndices(p.Indices)
		if err != nil {
			return 0, err
		}
		abs, err := arr.AbsIndex(indices)
		if err != nil {
			return 0, err
		}
		return abs * arr.ElemSize, nil

	case variables.PathProperty:
		parentPtr, err := c.CalculateVarPtr(*p.Parent)
		if err != nil {
			return 0, err
		}
		parentVal, err := c.resolveValue(*p.Parent)
		if err != nil {
			return 0, err
		}
		if !parentVal.IsRecord() {
			return 0, rterr.New(rterr.TypeMismatch, "path does not address a record")
		}
		rec := parentVal.AsRecord()
		fi, ok := rec.Layout.FieldIndex(p.Field)
		if !ok {
			return 0, rterr.New(rterr.ElementNotDefined, "no field %q", p.Field)
		}
		off, err := rec.Layout.OffsetOf(c.reg, fi)
		if err != nil {
			return 0, err
		}
		return parentPtr + off, nil

	default:
		return 0, rterr.New(rterr.Other, "unrecognized path kind")
	}
}

// CalculateVarSeg implements §4.3's calculate_varseg: VAR_SEG_BASE for
// non-array roots (and, by extension, record fields reached through
// them), or VAR_SEG_BASE + 1 + ordinal for an array, counting arrays
// defined earlier across all memory blocks.
func (c *Context) CalculateVarSeg(p variables.Path) (int, error) {
	root := p.RootOf()
	loc, err := c.resolveRoot(root)
	if err != nil {
		return 0, err
	}
	// An ArrayElement path addresses bytes inside the array itself, so it
	// takes the array's own segment; a bare Root naming an array (no
	// index step yet) is still reported on the scalar base segment, since
	// VARSEG(arr) without an element subscript refers to the array
	// variable's own slot rather than its element storage.
	if p.Kind == variables.PathArrayElement {
		return VarSegBase + 1 + c.arrayOrdinal(loc.blockIdx, loc.varIdx), nil
	}
	return VarSegBase, nil
}

// Peek reads one byte at (seg, addr) — §6.4, §4.3 peek/poke.
func (c *Context) Peek(seg, addr int) (byte, error) {
	if seg == VarSegBase {
		return c.peekScalarSpace(addr)
	}
	return c.peekArraySpace(seg, addr)
}

// Poke writes one byte at (seg, addr).
func (c *Context) Poke(seg, addr int, b byte) error {
	if seg == VarSegBase {
		return c.pokeScalarSpace(addr, b)
	}
	return c.pokeArraySpace(seg, addr, b)
}

// walkScalarSpace locates which non-array variable, across all blocks in
// block-then-insertion order, contains byte offset addr, and invokes fn
// with the variable's local byte offset.
func (c *Context) walkScalarSpace(addr int, fn func(v store.Value, localOffset int) (store.Value, error)) error {
	remaining := addr
	for _, block := range c.blocks {
		for i := 0; i < block.Vars.Len(); i++ {
			val, _ := block.Vars.GetByIndex(i)
			if val.IsArray() {
				continue
			}
			sz, err := val.ByteSize(c.reg)
			if err != nil {
				return err
			}
			if remaining < sz {
				updated, err := fn(val, remaining)
				if err != nil {
					return err
				}
				block.Vars.SetByIndex(i, updated)
				return nil
			}
			remaining -= sz
		}
	}
	return rterr.New(rterr.SubscriptOutOfRange, "address %d out of range", addr)
}

func (c *Context) peekScalarSpace(addr int) (byte, error) {
	var result byte
	err := c.walkScalarSpace(addr, func(v store.Value, localOffset int) (store.Value, error) {
		b, err := peekValueByte(v, localOffset)
		result = b
		return v, err
	})
	return result, err
}

func (c *Context) pokeScalarSpace(addr int, b byte) error {
	return c.walkScalarSpace(addr, func(v store.Value, localOffset int) (store.Value, error) {
		return pokeValueByte(v, localOffset, b)
	})
}

func peekValueByte(v store.Value, offset int) (byte, error) {
	if v.IsScalar() {
		return v.AsScalar().PeekByte(offset)
	}
	return 0, rterr.New(rterr.SubscriptOutOfRange, "record byte addressing not supported")
}

func pokeValueByte(v store.Value, offset int, b byte) (store.Value, error) {
	if v.IsScalar() {
		updated, err := v.AsScalar().PokeByte(offset, b)
		if err != nil {
			return v, err
		}
		return store.Scalar(updated), nil
	}
	return v, rterr.New(rterr.SubscriptOutOfRange, "record byte addressing not supported")
}

func (c *Context) arrayAtOrdinal(ordinal int) (*arrays.Array, error) {
	n := ordinal
	for _, block := range c.blocks {
		for _, i := range block.Vars.ArrayIndices() {
			if n == 0 {
				val, _ := block.Vars.GetByIndex(i)
				return val.AsArray(), nil
			}
			n--
		}
	}
	return nil, rterr.New(rterr.SubscriptOutOfRange, "no array at segment ordinal %d", ordinal)
}

func (c *Context) peekArraySpace(seg, addr int) (byte, error) {
	arr, err := c.arrayAtOrdinal(seg - VarSegBase - 1)
	if err != nil {
		return 0, err
	}
	return peekArrayByte(arr, addr)
}

func (c *Context) pokeArraySpace(seg, addr int, b byte) error {
	arr, err := c.arrayAtOrdinal(seg - VarSegBase - 1)
	if err != nil {
		return err
	}
	return pokeArrayByte(arr, addr, b)
}

func peekArrayByte(arr *arrays.Array, addr int) (byte, error) {
	if arr.ElemSize <= 0 {
		return 0, rterr.New(rterr.SubscriptOutOfRange, "address %d out of range", addr)
	}
	elemIdx, localOff := addr/arr.ElemSize, addr%arr.ElemSize
	if elemIdx < 0 || elemIdx >= len(arr.Elements) {
		return 0, rterr.New(rterr.SubscriptOutOfRange, "address %d out of range", addr)
	}
	return arr.Elements[elemIdx].PeekByte(localOff)
}

func pokeArrayByte(arr *arrays.Array, addr int, b byte) error {
	if arr.ElemSize <= 0 {
		return rterr.New(rterr.SubscriptOutOfRange, "address %d out of range", addr)
	}
	elemIdx, localOff := addr/arr.ElemSize, addr%arr.ElemSize
	if elemIdx < 0 || elemIdx >= len(arr.Elements) {
		return rterr.New(rterr.SubscriptOutOfRange, "address %d out of range", addr)
	}
	updated, err := arr.Elements[elemIdx].PokeByte(localOff, b)
	if err != nil {
		return err
	}
	arr.Elements[elemIdx] = updated
	return nil
}
