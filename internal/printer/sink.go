// Package printer implements the PRINT/PRINT USING engine of §4.7: the
// default numeric/string formatter, the format-string walker, and a
// column-tracking ifaces.OutputSink implementation for file-, LPT1- and
// stdout-backed PRINT targets (cmd/basic wraps os.Stdout in a WriterSink).
package printer

import (
	"fmt"
	"io"
)

// zoneWidth is the fixed print-zone column width (§4.7).
const zoneWidth = 14

// WriterSink adapts a plain io.Writer (a file handle, LPT1, or any
// sequential output target) into an ifaces.OutputSink by tracking the
// last column itself, matching the "track the last column to compute
// zone advances" contract of §6.1.
type WriterSink struct {
	w   io.Writer
	col int
}

// NewWriterSink wraps w for PRINT #n / WRITE #n targets.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Print writes s, advancing the column tracker past any embedded
// newlines.
func (s *WriterSink) Print(str string) int {
	n, _ := io.WriteString(s.w, str)
	for i := 0; i < len(str); i++ {
		if str[i] == '\n' {
			s.col = 0
		} else {
			s.col++
		}
	}
	return n
}

// Println emits a CRLF and resets the column.
func (s *WriterSink) Println() int {
	n, _ := io.WriteString(s.w, "\r\n")
	s.col = 0
	return n
}

// MoveToNextPrintZone advances to the next 14-column zone by emitting
// spaces (§4.7 "`,` advances by 14 − (column mod 14) spaces").
func (s *WriterSink) MoveToNextPrintZone() int {
	pad := zoneWidth - (s.col % zoneWidth)
	return s.Print(fmt.Sprintf("%*s", pad, ""))
}
