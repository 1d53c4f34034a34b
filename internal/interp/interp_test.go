package interp

import (
	"strings"
	"testing"
	"time"

	"basic/internal/bytecode"
	"basic/internal/filemanager"
	"basic/internal/rterr"
	"basic/internal/rtypes"
	"basic/internal/store"
	"basic/internal/variant"
)

// fakeSink is a minimal ifaces.OutputSink recording everything PRINT
// writes, for assertions.
type fakeSink struct {
	buf strings.Builder
}

func (f *fakeSink) Print(s string) int { f.buf.WriteString(s); return len(s) }
func (f *fakeSink) Println() int       { f.buf.WriteString("\n"); return 1 }
func (f *fakeSink) MoveToNextPrintZone() int {
	f.buf.WriteString(" ")
	return 1
}

type fakeScreen struct{}

func (fakeScreen) Cls()                           {}
func (fakeScreen) MoveTo(row, col int)             {}
func (fakeScreen) ShowCursor()                     {}
func (fakeScreen) HideCursor()                     {}
func (fakeScreen) SetViewPrint(start, end int)     {}
func (fakeScreen) ResetViewPrint()                 {}
func (fakeScreen) GetViewPrint() (int, int, bool)  { return 0, 0, false }
func (fakeScreen) IndicatorKeysRegister() byte      { return 0 }

type fakeStdlib struct{ env map[string]string }

func (s *fakeStdlib) System()                      {}
func (s *fakeStdlib) GetEnvVar(name string) string { return s.env[name] }
func (s *fakeStdlib) SetEnvVar(name, value string) error {
	s.env[name] = value
	return nil
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeKeyboard struct{}

func (fakeKeyboard) PollKey(timeout time.Duration) (string, error) { return "", nil }

type fakeInput struct{ lines []string }

func (f *fakeInput) EOF() bool { return len(f.lines) == 0 }
func (f *fakeInput) Input() (string, error) {
	return f.LineInput()
}
func (f *fakeInput) LineInput() (string, error) {
	if len(f.lines) == 0 {
		return "", rterr.New(rterr.InputPastEndOfFile, "no more input")
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func newTestHost(sink *fakeSink) *Host {
	return &Host{
		Input:    &fakeInput{},
		Output:   sink,
		Screen:   fakeScreen{},
		Stdlib:   &fakeStdlib{env: map[string]string{}},
		Clock:    fakeClock{t: time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC)},
		Keyboard: fakeKeyboard{},
		Types:    rtypes.NewRegistry(),
		Files:    filemanager.New(),
	}
}

// pushArg appends a LoadIntoA+PushUnnamedByVal pair — the way a compiled
// expression would hand one positional argument to a following built-in
// call.
func pushArg(instrs []bytecode.Instruction, lit variant.Variant) []bytecode.Instruction {
	return append(instrs,
		bytecode.Instruction{Op: bytecode.OpLoadIntoA, Literal: lit},
		bytecode.Instruction{Op: bytecode.OpPushUnnamedByVal},
	)
}

func TestPrintChrDollar(t *testing.T) {
	sink := &fakeSink{}
	host := newTestHost(sink)

	var instrs []bytecode.Instruction
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpBeginCollectArguments})
	instrs = pushArg(instrs, variant.Int(33))
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpBuiltInFunction, Name: "CHR$"})
	instrs = append(instrs,
		bytecode.Instruction{Op: bytecode.OpBeginCollectArguments},
		bytecode.Instruction{Op: bytecode.OpPushUnnamedByVal},
		bytecode.Instruction{Op: bytecode.OpBuiltInSub, Name: "PRINT"},
		bytecode.Instruction{Op: bytecode.OpHalt},
	)

	prog := bytecode.NewProgram(instrs, []int{0})
	ip := New(prog, host)
	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := sink.buf.String(); got != "!\n" {
		t.Fatalf("PRINT CHR$(33) wrote %q", got)
	}
}

func TestArithmeticAndComparison(t *testing.T) {
	sink := &fakeSink{}
	host := newTestHost(sink)

	instrs := []bytecode.Instruction{
		{Op: bytecode.OpLoadIntoA, Literal: variant.Int(3)},
		{Op: bytecode.OpCopyAToB},
		{Op: bytecode.OpLoadIntoA, Literal: variant.Int(4)},
		{Op: bytecode.OpAdd}, // A = 3+4 = 7
		{Op: bytecode.OpCopyAToB},
		{Op: bytecode.OpLoadIntoA, Literal: variant.Int(7)},
		{Op: bytecode.OpEqual}, // A = (7 == 7) -> -1
		{Op: bytecode.OpHalt},
	}
	prog := bytecode.NewProgram(instrs, []int{0})
	ip := New(prog, host)
	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	v := ip.regs.A.AsScalar()
	if v.IntVal() != -1 {
		t.Fatalf("comparison result = %v, want -1 (true)", v.IntVal())
	}
}

// TestCountingLoop builds (by hand) the equivalent of:
//   I% = 1
//   WHILE I% < 4 : PRINT I% : I% = I% + 1 : WEND
// exercising VarPath construction/read/write, JumpIfFalse, and Jump
// together the way a compiled loop would.
func TestCountingLoop(t *testing.T) {
	sink := &fakeSink{}
	host := newTestHost(sink)

	instrs := []bytecode.Instruction{
		/*0*/ {Op: bytecode.OpLoadIntoA, Literal: variant.Int(1)},
		/*1*/ {Op: bytecode.OpVarPathName, Name: "I%"},
		/*2*/ {Op: bytecode.OpCopyAToVarPath},
		/*3*/ {Op: bytecode.OpPopVarPath},
		/*4*/ {Op: bytecode.OpVarPathName, Name: "I%"}, // loop head
		/*5*/ {Op: bytecode.OpCopyVarPathToA},
		/*6*/ {Op: bytecode.OpPopVarPath},
		/*7*/ {Op: bytecode.OpCopyAToB},
		/*8*/ {Op: bytecode.OpLoadIntoA, Literal: variant.Int(4)},
		/*9*/ {Op: bytecode.OpGreater}, // A=4 > B=I%, i.e. I% < 4
		/*10*/ {Op: bytecode.OpJumpIfFalse, Addr: 27},
		/*11*/ {Op: bytecode.OpVarPathName, Name: "I%"},
		/*12*/ {Op: bytecode.OpCopyVarPathToA},
		/*13*/ {Op: bytecode.OpPopVarPath},
		/*14*/ {Op: bytecode.OpBeginCollectArguments},
		/*15*/ {Op: bytecode.OpPushUnnamedByVal},
		/*16*/ {Op: bytecode.OpBuiltInSub, Name: "PRINT"},
		/*17*/ {Op: bytecode.OpVarPathName, Name: "I%"},
		/*18*/ {Op: bytecode.OpCopyVarPathToA},
		/*19*/ {Op: bytecode.OpPopVarPath},
		/*20*/ {Op: bytecode.OpCopyAToB},
		/*21*/ {Op: bytecode.OpLoadIntoA, Literal: variant.Int(1)},
		/*22*/ {Op: bytecode.OpAdd},
		/*23*/ {Op: bytecode.OpVarPathName, Name: "I%"},
		/*24*/ {Op: bytecode.OpCopyAToVarPath},
		/*25*/ {Op: bytecode.OpPopVarPath},
		/*26*/ {Op: bytecode.OpJump, Addr: 4},
		/*27*/ {Op: bytecode.OpHalt},
	}
	prog := bytecode.NewProgram(instrs, []int{0, 4, 27})
	ip := New(prog, host)
	ip.ctx.Variables().Set("I%", store.Scalar(variant.Int(0)))
	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := sink.buf.String(); got != " 1 \n 2 \n 3 \n" {
		t.Fatalf("loop output = %q, want \" 1 \\n 2 \\n 3 \\n\"", got)
	}
}

func TestOnErrorGoToAndResumeNext(t *testing.T) {
	sink := &fakeSink{}
	host := newTestHost(sink)

	// The handler body lives after the program's own Halt, so it is only
	// ever reached via the ON ERROR GOTO jump — resuming "the statement
	// after the one that failed" lands back on that Halt, not back inside
	// the handler.
	instrs := []bytecode.Instruction{
		/*0*/ {Op: bytecode.OpOnErrorGoTo, Addr: 6},
		/*1*/ {Op: bytecode.OpLoadIntoA, Literal: variant.Int(0)},
		/*2*/ {Op: bytecode.OpCopyAToB},
		/*3*/ {Op: bytecode.OpLoadIntoA, Literal: variant.Int(1)},
		/*4*/ {Op: bytecode.OpDiv}, // 1/0 -> DivisionByZero, dispatched to the handler at 6
		/*5*/ {Op: bytecode.OpHalt},
		/*6*/ {Op: bytecode.OpBeginCollectArguments},
		/*7*/ {Op: bytecode.OpLoadIntoA, Literal: variant.Str("handled")},
		/*8*/ {Op: bytecode.OpPushUnnamedByVal},
		/*9*/ {Op: bytecode.OpBuiltInSub, Name: "PRINT"},
		/*10*/ {Op: bytecode.OpResumeNext},
	}
	prog := bytecode.NewProgram(instrs, []int{0, 1, 5, 6, 10})
	ip := New(prog, host)
	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := sink.buf.String(); got != "handled\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestPrintSingleValue(t *testing.T) {
	sink := &fakeSink{}
	host := newTestHost(sink)

	var instrs []bytecode.Instruction
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpBeginCollectArguments})
	instrs = pushArg(instrs, variant.Single(3.147))
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpBuiltInSub, Name: "PRINT"}, bytecode.Instruction{Op: bytecode.OpHalt})
	prog := bytecode.NewProgram(instrs, []int{0})
	ip := New(prog, host)
	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sink.buf.Len() == 0 {
		t.Fatalf("expected PRINT output")
	}
}
