// Package context implements the interpreter's call stack (§3.5, §3.6,
// §4.3): a stack of States over a vector of reference-counted
// MemoryBlocks, plus the VARPTR/VARSEG virtual-address-space arithmetic
// layered on top of it.
//
// Grounded structurally on the teacher's "preallocate a slice, track a
// logical top" frame-stack idiom (internal/vm/vm.go's
// `frames []EnhancedCallFrame` / `frameCount`), generalized from a single
// growable call stack to the ref-counted, STATIC-aware memory blocks this
// spec requires.
package context

import (
	"basic/internal/rterr"
	"basic/internal/rtypes"
	"basic/internal/store"
	"basic/internal/variables"
)

// MemoryBlock is a Variables instance plus a reference counter and a
// STATIC flag (§3.5). A block is kept alive while RefCount > 0 or
// IsStatic is true.
type MemoryBlock struct {
	Vars     *variables.Variables
	RefCount int
	IsStatic bool
}

func newMemoryBlock() *MemoryBlock {
	return &MemoryBlock{Vars: variables.New(), RefCount: 1}
}

// State is one call-stack entry (§3.6): which MemoryBlock is active, and
// — only while collecting a subprogram call's actual parameters — the
// in-progress Arguments buffer.
type State struct {
	memoryBlockIndex int
	arguments        *variables.Arguments
}

// Context is the interpreter's call stack. Index 0 of the memory-block
// vector is the global block and is never popped (§3.6).
type Context struct {
	reg          *rtypes.Registry
	blocks       []*MemoryBlock
	states       []State
	staticBlocks map[string]int
}

// New creates a Context with just the global block and its base state.
func New(reg *rtypes.Registry) *Context {
	c := &Context{
		reg:          reg,
		blocks:       []*MemoryBlock{newMemoryBlock()},
		staticBlocks: make(map[string]int),
	}
	c.states = []State{{memoryBlockIndex: 0}}
	return c
}

func (c *Context) currentState() *State { return &c.states[len(c.states)-1] }

func (c *Context) currentBlockIndex() int { return c.currentState().memoryBlockIndex }

// Variables returns the active scope's variable store.
func (c *Context) Variables() *variables.Variables {
	return c.blocks[c.currentBlockIndex()].Vars
}

// CallerVariables returns the nearest normal (non-argument-collecting)
// scope beneath the top of the stack — what an unnamed by-ref argument
// resolves against while it is still being collected.
func (c *Context) CallerVariables() *variables.Variables {
	for i := len(c.states) - 2; i >= 0; i-- {
		if c.states[i].arguments == nil {
			return c.blocks[c.states[i].memoryBlockIndex].Vars
		}
	}
	return c.blocks[0].Vars
}

// GlobalVariables returns the global block's variable store.
func (c *Context) GlobalVariables() *variables.Variables { return c.blocks[0].Vars }

// BeginCollectingArguments pushes a state that shares the current memory
// block and opens an empty Arguments buffer (§4.3, §3.10 "Argument
// buffer" lifecycle).
func (c *Context) BeginCollectingArguments() {
	c.states = append(c.states, State{
		memoryBlockIndex: c.currentBlockIndex(),
		arguments:        variables.NewArguments(),
	})
}

// CurrentArguments exposes the in-progress Arguments buffer so opcode
// handlers can push collected parameters onto it.
func (c *Context) CurrentArguments() (*variables.Arguments, error) {
	s := c.currentState()
	if s.arguments == nil {
		return nil, rterr.New(rterr.Other, "not currently collecting arguments")
	}
	return s.arguments, nil
}

// StopCollectingArguments replaces the argument-collecting state with a
// freshly allocated, non-STATIC memory block containing the collected
// arguments: a new call frame begins (§4.3).
func (c *Context) StopCollectingArguments() error {
	s := c.currentState()
	if s.arguments == nil {
		return rterr.New(rterr.Other, "no argument-collecting state to stop")
	}
	block := &MemoryBlock{Vars: s.arguments.ToVariables(), RefCount: 1}
	idx := len(c.blocks)
	c.blocks = append(c.blocks, block)
	c.states[len(c.states)-1] = State{memoryBlockIndex: idx}
	return nil
}

// StopCollectingArgumentsStatic behaves like StopCollectingArguments but
// reuses (lazily creating, on the first call) the named subprogram's
// persistent memory block, merging the collected arguments into its
// existing variables rather than replacing them (§4.3, §3.10).
func (c *Context) StopCollectingArgumentsStatic(name string) error {
	s := c.currentState()
	if s.arguments == nil {
		return rterr.New(rterr.Other, "no argument-collecting state to stop")
	}
	idx, ok := c.staticBlocks[name]
	if !ok {
		idx = len(c.blocks)
		c.blocks = append(c.blocks, &MemoryBlock{Vars: variables.New(), IsStatic: true})
		c.staticBlocks[name] = idx
	}
	c.blocks[idx].RefCount++
	s.arguments.MergeInto(c.blocks[idx].Vars)
	c.states[len(c.states)-1] = State{memoryBlockIndex: idx}
	return nil
}

// Pop pops a non-argument-collecting state, decrementing its memory
// block's reference count. The block's variables are cleared — which is
// this model's deallocation, since block indices must stay stable for
// VARPTR/VARSEG arithmetic — only once the count reaches zero and the
// block is not STATIC (§3.5, §4.3). The global state is never popped.
func (c *Context) Pop() error {
	if len(c.states) <= 1 {
		return rterr.New(rterr.Other, "cannot pop the global state")
	}
	top := c.states[len(c.states)-1]
	if top.arguments != nil {
		return rterr.New(rterr.Other, "cannot pop an argument-collecting state directly")
	}
	c.states = c.states[:len(c.states)-1]
	block := c.blocks[top.memoryBlockIndex]
	block.RefCount--
	if block.RefCount <= 0 && !block.IsStatic {
		block.Vars = variables.New()
	}
	return nil
}

// PushErrorHandlerContext unwinds any argument-collecting states until
// the first normal state, then pushes a state aliased to the global
// memory block (§4.3) — ON ERROR GOTO always dispatches from global
// scope, never mid-call-setup.
func (c *Context) PushErrorHandlerContext() {
	for len(c.states) > 1 && c.currentState().arguments != nil {
		c.states = c.states[:len(c.states)-1]
	}
	c.blocks[0].RefCount++
	c.states = append(c.states, State{memoryBlockIndex: 0})
}

// DiscardCollectedArguments pops an argument-collecting state without
// allocating a callee memory block, returning the collected Arguments for
// the caller to read positionally (§4.4 BuiltInSub/BuiltInFunction: unlike
// a subprogram CALL, a built-in consumes its arguments directly and never
// gets its own scope).
func (c *Context) DiscardCollectedArguments() (*variables.Arguments, error) {
	s := c.currentState()
	if s.arguments == nil {
		return nil, rterr.New(rterr.Other, "no argument-collecting state to discard")
	}
	c.states = c.states[:len(c.states)-1]
	return s.arguments, nil
}

// SetBuiltInFunctionResult inserts the function-return pseudo-variable
// under its canonical qualified name into the current scope (§4.3).
func (c *Context) SetBuiltInFunctionResult(qualifiedName string, value store.Value) {
	c.Variables().Set(qualifiedName, value)
}

// Depth reports the number of live states — diagnostic/testing use only.
func (c *Context) Depth() int { return len(c.states) }
