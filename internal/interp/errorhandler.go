package interp

import "golang.org/x/exp/slices"

// handlerMode is the ON ERROR dispatch mode active for the interpreter
// (§4.4 "Error dispatch", §7). There is exactly one active mode at a
// time, set by OnErrorGoTo/OnErrorResumeNext/OnErrorGoToZero, matching
// classic BASIC's single module-wide ON ERROR GOTO.
type handlerMode byte

const (
	handlerNone handlerMode = iota
	handlerAddress
	handlerResumeNext
)

// activeHandler is the interpreter's current ON ERROR state.
type activeHandler struct {
	mode handlerMode
	addr int
}

// NearestStatementFinder answers the two proximity queries RESUME/RESUME
// NEXT need over the compiled, sorted statement-address index (§4.4):
// which statement contains a failing instruction, and which statement
// follows it.
type NearestStatementFinder struct {
	addrs []int // sorted ascending
}

// NewNearestStatementFinder wraps a sorted statement-address slice.
func NewNearestStatementFinder(addrs []int) NearestStatementFinder {
	return NearestStatementFinder{addrs: addrs}
}

// FindCurrent returns the largest statement address <= addr, locating it
// with a binary search since addrs is maintained sorted ascending.
func (f NearestStatementFinder) FindCurrent(addr int) int {
	i, found := slices.BinarySearch(f.addrs, addr)
	if found {
		return f.addrs[i]
	}
	if i == 0 {
		return 0
	}
	return f.addrs[i-1]
}

// FindNext returns the smallest statement address > addr, or programLen
// if none follows (RESUME NEXT past the final statement halts).
func (f NearestStatementFinder) FindNext(addr, programLen int) int {
	i, found := slices.BinarySearch(f.addrs, addr)
	if found {
		i++
	}
	if i >= len(f.addrs) {
		return programLen
	}
	return f.addrs[i]
}
