package builtins

import (
	"basic/internal/ifaces"
	"basic/internal/rterr"
)

// ViewPrint implements VIEW PRINT [start TO end]: with no arguments it
// resets the viewport; otherwise start < end is required (§4.5).
func ViewPrint(screen ifaces.Screen, start, end int, hasArgs bool) error {
	if !hasArgs {
		screen.ResetViewPrint()
		return nil
	}
	if start >= end {
		return rterr.New(rterr.IllegalFunctionCall, "VIEW PRINT requires start < end")
	}
	screen.SetViewPrint(start, end)
	return nil
}

// Cls implements CLS.
func Cls(screen ifaces.Screen) { screen.Cls() }

// Locate implements LOCATE row, col[, cursor]: it moves to row and col,
// which are both required (the dispatcher fails when either is omitted;
// there is no keep-the-current-position form). cursor, when hasCursor is
// set, shows or hides the text cursor.
func Locate(screen ifaces.Screen, row, col int, hasCursor bool, cursorOn bool) {
	screen.MoveTo(row, col)
	if hasCursor {
		if cursorOn {
			screen.ShowCursor()
		} else {
			screen.HideCursor()
		}
	}
}

// Width is a no-op in this core, confirmed (not contradicted) by
// original_source's width.rs (§4.5).
func Width(int, int) {}
