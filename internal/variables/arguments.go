package variables

import "basic/internal/store"

// argKind tags which of the three forms one collected argument takes
// (§4.2).
type argKind byte

const (
	argUnnamedByVal argKind = iota
	argUnnamedByRef
	argNamed
)

type argEntry struct {
	kind  argKind
	value store.Value
	path  Path   // argUnnamedByRef
	name  string // argNamed
}

// Arguments collects a subprogram call's actual parameters while the
// caller's instruction stream walks PushUnnamedByVal/PushUnnamedByRef/
// PushNamed opcodes (§4.2, §4.4 "Scope management").
type Arguments struct {
	entries []argEntry
}

// NewArguments returns an empty collection, created by
// BeginCollectArguments (§3.10 "Argument buffer" lifecycle).
func NewArguments() *Arguments { return &Arguments{} }

// PushUnnamedByVal records a computed value passed positionally.
func (a *Arguments) PushUnnamedByVal(v store.Value) {
	a.entries = append(a.entries, argEntry{kind: argUnnamedByVal, value: v})
}

// PushUnnamedByRef records a value plus the caller-scope Path it was
// resolved from, so writes can propagate back (§4.4 by_ref_stack).
func (a *Arguments) PushUnnamedByRef(v store.Value, path Path) {
	a.entries = append(a.entries, argEntry{kind: argUnnamedByRef, value: v, path: path})
}

// PushNamed records a value bound to a named formal parameter.
func (a *Arguments) PushNamed(name string, v store.Value) {
	a.entries = append(a.entries, argEntry{kind: argNamed, name: name, value: v})
}

// Len reports how many arguments were collected.
func (a *Arguments) Len() int { return len(a.entries) }

// ValueAt returns the i'th collected argument's value, for built-in
// dispatch (§4.5) which reads arguments positionally rather than turning
// them into a callee scope.
func (a *Arguments) ValueAt(i int) (store.Value, bool) {
	if i < 0 || i >= len(a.entries) {
		return store.Value{}, false
	}
	return a.entries[i].value, true
}

// PathAt returns the caller-scope Path behind the i'th argument, if it was
// passed by reference — used by built-ins that write an output back to the
// caller (SWAP, LSET, INPUT).
func (a *Arguments) PathAt(i int) (Path, bool) {
	if i < 0 || i >= len(a.entries) || a.entries[i].kind != argUnnamedByRef {
		return Path{}, false
	}
	return a.entries[i].path, true
}

// ToVariables converts the collected Arguments into a Variables instance
// ordered by collection order (§4.2 "this becomes the callee's local
// scope"). Positional (unnamed) arguments get a dummy numeric name, as
// RuntimeVariableInfo::insert_unnamed does in variables.rs.
func (a *Arguments) ToVariables() *Variables {
	vars := New()
	for _, e := range a.entries {
		switch e.kind {
		case argNamed:
			vars.Set(e.name, e.value)
		case argUnnamedByRef:
			vars.SetWithArgPath(dummyName(vars.Len()), e.value, e.path)
		default:
			vars.Set(dummyName(vars.Len()), e.value)
		}
	}
	return vars
}

// MergeInto merges the collected Arguments into an existing Variables
// instance — used by stop_collecting_arguments_static (§4.3) where a
// STATIC subprogram's persistent block already has variables from a
// previous call and only the argument slots need refreshing.
func (a *Arguments) MergeInto(vars *Variables) {
	for _, e := range a.entries {
		switch e.kind {
		case argNamed:
			vars.Set(e.name, e.value)
		case argUnnamedByRef:
			vars.SetWithArgPath(dummyName(vars.Len()), e.value, e.path)
		default:
			vars.Set(dummyName(vars.Len()), e.value)
		}
	}
}

func dummyName(n int) string {
	// Matches variables.rs's insert_unnamed: a name derived from the
	// current slot count, guaranteed unique within one Arguments buffer.
	const digits = "0123456789"
	if n == 0 {
		return "0"
	}
	buf := make([]byte, 0, 4)
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}
