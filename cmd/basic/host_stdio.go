package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"basic/internal/rterr"
)

// stdinInput is the ifaces.InputSource backing unqualified INPUT/LINE
// INPUT, line-buffering os.Stdin the way db47h-ngaro's cmd/retro wraps
// os.Stdin in a bufio.Reader when the terminal isn't put into raw mode.
type stdinInput struct {
	r     *bufio.Reader
	atEOF bool
}

func newStdinInput(r *bufio.Reader) *stdinInput {
	return &stdinInput{r: r}
}

func (s *stdinInput) EOF() bool { return s.atEOF }

func (s *stdinInput) Input() (string, error) { return s.LineInput() }

func (s *stdinInput) LineInput() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			s.atEOF = true
			if line == "" {
				return "", rterr.New(rterr.InputPastEndOfFile, "input past end of file")
			}
			return trimNewline(line), nil
		}
		return "", rterr.Wrap(err, rterr.InputPastEndOfFile, "reading standard input")
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	if n := len(s); n > 0 && s[n-1] == '\r' {
		s = s[:n-1]
	}
	return s
}

// termScreen is the ifaces.Screen implementation for an ANSI-capable
// terminal, driving CLS/LOCATE/cursor show-hide with the same plain escape
// sequences db47h-ngaro's vt100Terminal writes directly to its output
// writer, rather than pulling in a curses-style screen library. VIEW PRINT
// bounds are only recorded; no escape sequence is written for them.
type termScreen struct {
	w             io.Writer
	viewStart     int
	viewEnd       int
	viewSet       bool
	indicatorKeys byte
}

func newTermScreen(w io.Writer) *termScreen {
	return &termScreen{w: w}
}

func (t *termScreen) Cls() {
	io.WriteString(t.w, "\033[2J\033[1;1H")
}

func (t *termScreen) MoveTo(row, col int) {
	fmt.Fprintf(t.w, "\033[%d;%dH", row, col)
}

func (t *termScreen) ShowCursor() { io.WriteString(t.w, "\033[?25h") }
func (t *termScreen) HideCursor() { io.WriteString(t.w, "\033[?25l") }

func (t *termScreen) SetViewPrint(start, end int) {
	t.viewStart, t.viewEnd, t.viewSet = start, end, true
}

func (t *termScreen) ResetViewPrint() {
	t.viewStart, t.viewEnd, t.viewSet = 0, 0, false
}

func (t *termScreen) GetViewPrint() (int, int, bool) {
	return t.viewStart, t.viewEnd, t.viewSet
}

// IndicatorKeysRegister reports no NumLock/CapsLock/ScrollLock state: a
// plain stdio shim has no way to read the keyboard LEDs, so PEEK(1047)
// under this host always reads back 0.
func (t *termScreen) IndicatorKeysRegister() byte { return t.indicatorKeys }

// processStdlib is the ifaces.Stdlib implementation backing SYSTEM and
// ENVIRON$/ENVIRON, grounded on teacher main.go's direct os.Exit/os.Exec
// use rather than any process-management library.
type processStdlib struct{}

func (processStdlib) System() { os.Exit(0) }

func (processStdlib) GetEnvVar(name string) string { return os.Getenv(name) }

func (processStdlib) SetEnvVar(name, value string) error { return os.Setenv(name, value) }

// systemClock backs TIMER with the real wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// stdioKeyboard backs INKEY$. Without a raw-mode terminal library in
// reach, it only ever reports a key when stdin is not an interactive
// terminal (isatty.IsTerminal reports false, e.g. a piped/redirected
// input) and a line is already buffered; on a real interactive terminal
// it degrades to "no key ready" rather than blocking the whole program
// on a line-buffered read, since INKEY$ must never block. It shares its
// bufio.Reader with stdinInput so INPUT and INKEY$ never race over
// separately buffered views of the same file descriptor. Each byte is
// returned exactly as read: no key translation is applied.
type stdioKeyboard struct {
	in *bufio.Reader
}

func newStdioKeyboard(r *bufio.Reader) *stdioKeyboard {
	return &stdioKeyboard{in: r}
}

func (k *stdioKeyboard) PollKey(timeout time.Duration) (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", nil
	}
	if k.in.Buffered() == 0 {
		return "", nil
	}
	b, err := k.in.ReadByte()
	if err != nil {
		if err == io.EOF {
			return "", nil
		}
		return "", rterr.Wrap(err, rterr.Other, "reading keyboard input")
	}
	return string(b), nil
}
