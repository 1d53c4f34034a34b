// Package rterr defines the runtime error taxonomy shared by every
// component of the interpreter core.
package rterr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind is a stable error identifier, not a Go type name — callers switch
// on Kind rather than using type assertions, since every runtime failure
// is represented by the same RuntimeError struct.
type Kind string

const (
	TypeMismatch        Kind = "TypeMismatch"
	Overflow             Kind = "Overflow"
	IllegalFunctionCall  Kind = "IllegalFunctionCall"
	SubscriptOutOfRange  Kind = "SubscriptOutOfRange"
	DivisionByZero       Kind = "DivisionByZero"
	ForLoopZeroStep      Kind = "ForLoopZeroStep"
	FileNotFound         Kind = "FileNotFound"
	FileAlreadyOpen      Kind = "FileAlreadyOpen"
	BadFileNameOrNumber  Kind = "BadFileNameOrNumber"
	BadFileMode          Kind = "BadFileMode"
	BadRecordLength      Kind = "BadRecordLength"
	FieldOverflow        Kind = "FieldOverflow"
	InputPastEndOfFile   Kind = "InputPastEndOfFile"
	VariableRequired     Kind = "VariableRequired"
	ElementNotDefined    Kind = "ElementNotDefined"
	ReturnWithoutGoSub   Kind = "ReturnWithoutGoSub"
	ResumeWithoutError   Kind = "ResumeWithoutError"
	Other                Kind = "Other"
)

// Position identifies the source statement an error occurred at, in terms
// of the flat instruction stream (§3.8/§6.2): an instruction index plus,
// once the compiler-side line/column information is available through the
// instruction's own debug data, that's carried by the caller, not here —
// the runtime core only knows instruction-stream addresses.
type Position struct {
	InstrAddr int
}

// StackFrame records one call site in a RuntimeError's stacktrace. Frames
// are added only through WithStackFrame; the interpreter loop does not call
// it, so the errors it returns carry a position and an empty stacktrace.
type StackFrame struct {
	Name string
	Pos  Position
}

// RuntimeError is the single error type returned by every opcode and
// built-in. It implements error, and carries enough to reconstruct the
// §7 "host gets the error kind and position" contract.
type RuntimeError struct {
	Kind       Kind
	Message    string
	Pos        Position
	HasPos     bool
	Stacktrace []StackFrame
	cause      error
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	if e.Message != "" {
		fmt.Fprintf(&sb, "%s: %s", e.Kind, e.Message)
	} else {
		sb.WriteString(string(e.Kind))
	}
	if e.HasPos {
		fmt.Fprintf(&sb, " (at instr %d)", e.Pos.InstrAddr)
	}
	for _, f := range e.Stacktrace {
		fmt.Fprintf(&sb, "\n  at %s (instr %d)", f.Name, f.Pos.InstrAddr)
	}
	return sb.String()
}

// Unwrap implements the errors.Unwrap contract so callers can use
// errors.Is/errors.As against a wrapped cause (e.g. an *os.PathError
// surfaced by the file manager, which Wrap stores after annotating it with
// pkg/errors.WithStack).
func (e *RuntimeError) Unwrap() error { return e.cause }

// New builds a bare RuntimeError of the given kind with a formatted
// message, mirroring teacher's NewRuntimeError/NewSyntaxError constructors
// in internal/errors/errors.go.
func New(kind Kind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind/message to an underlying Go error (e.g. from os.Open),
// keeping the original error retrievable via Unwrap. Grounded on
// db47h-ngaro's vm/run.go use of github.com/pkg/errors to annotate a raw
// error without discarding it.
func Wrap(cause error, kind Kind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(cause),
	}
}

// WithPosition attaches the failing instruction address. Built-ins do not
// call this themselves (§7 "Position preservation" — built-in dispatch
// does not re-annotate); it is invoked once by the interpreter loop using
// the position recorded at instruction-generation time.
func (e *RuntimeError) WithPosition(pos Position) *RuntimeError {
	e.Pos = pos
	e.HasPos = true
	return e
}

// WithStackFrame appends one frame to the stacktrace. PushStack and
// PushStaticStack do not record frames, and nothing in the interpreter
// calls this.
func (e *RuntimeError) WithStackFrame(name string, pos Position) *RuntimeError {
	e.Stacktrace = append(e.Stacktrace, StackFrame{Name: name, Pos: pos})
	return e
}

// KindOf extracts the Kind of err, or Other if err is not a *RuntimeError
// (e.g. a bare Go error surfacing from a collaborator) — used by the
// interpreter loop's error dispatch (§4.4) to decide which ON ERROR
// handler branch applies without a type assertion at every call site.
func KindOf(err error) Kind {
	re, ok := err.(*RuntimeError)
	if !ok {
		var target *RuntimeError
		if !errors.As(err, &target) {
			return Other
		}
		re = target
	}
	return re.Kind
}

// Is reports whether err is a *RuntimeError of the given kind — the
// idiomatic way callers (including tests) check the taxonomy rather than
// string-matching messages.
func Is(err error, kind Kind) bool {
	re, ok := err.(*RuntimeError)
	if !ok {
		var target *RuntimeError
		if !errors.As(err, &target) {
			return false
		}
		re = target
	}
	return re.Kind == kind
}
