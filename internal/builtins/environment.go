package builtins

import (
	"strings"
	"time"

	"basic/internal/ifaces"
	"basic/internal/rterr"
)

// EnvironDollar implements ENVIRON$(name).
func EnvironDollar(stdlib ifaces.Stdlib, name string) string {
	return stdlib.GetEnvVar(name)
}

// Environ implements the ENVIRON "NAME=VALUE" sub: fails Other on a
// malformed argument (§4.5).
func Environ(stdlib ifaces.Stdlib, assignment string) error {
	eq := strings.IndexByte(assignment, '=')
	if eq <= 0 {
		return rterr.New(rterr.Other, "ENVIRON argument must be NAME=VALUE")
	}
	return stdlib.SetEnvVar(assignment[:eq], assignment[eq+1:])
}

// Command implements the supplemented COMMAND$ (§4.5 supplement): this
// core has no process-argument model, so it always returns empty,
// matching the general pattern of a stub Stdlib collaborator.
func Command() string { return "" }

// Timer implements the supplemented TIMER (§4.5 supplement): seconds
// since local midnight, as a Single.
func Timer(clock ifaces.Clock) float32 {
	now := clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return float32(now.Sub(midnight).Seconds())
}

// InkeyDollar implements INKEY$: polls the keyboard for up to 100ms,
// returning empty on timeout (§4.5).
func InkeyDollar(kb ifaces.Keyboard) (string, error) {
	return kb.PollKey(100 * time.Millisecond)
}

// Beep implements BEEP by writing the ASCII bell character to sink.
func Beep(sink ifaces.OutputSink) {
	sink.Print("\a")
}
