package variables

import (
	"basic/internal/rtypes"
	"basic/internal/store"
)

type slot struct {
	name    string
	value   store.Value
	argPath *Path
}

// Variables is an insertion-ordered mapping from name to (value,
// optional arg_path) (§3.4). Names already carry their type qualifier
// where one is relevant (e.g. "A%" and "A$" are distinct keys), mirroring
// the distilled Name type in rusty_basic/src/interpreter/variables.rs —
// the linter guarantees the key space is well-formed, so this package
// just treats names as opaque strings.
type Variables struct {
	order []string
	index map[string]int
	slots []slot
}

// New returns an empty Variables scope.
func New() *Variables {
	return &Variables{index: make(map[string]int)}
}

// Set inserts or overwrites name's value. Writes never reorder existing
// slots (§3.4 "Writes do not reorder"); a new name is appended.
func (v *Variables) Set(name string, val store.Value) {
	if i, ok := v.index[name]; ok {
		v.slots[i].value = val
		return
	}
	v.index[name] = len(v.slots)
	v.slots = append(v.slots, slot{name: name, value: val})
	v.order = append(v.order, name)
}

// SetWithArgPath inserts name bound to a by-ref parameter's caller-scope
// Path (§4.2 "unnamed by-ref").
func (v *Variables) SetWithArgPath(name string, val store.Value, path Path) {
	v.Set(name, val)
	i := v.index[name]
	p := path
	v.slots[i].argPath = &p
}

// Get reads a value by name.
func (v *Variables) Get(name string) (store.Value, bool) {
	i, ok := v.index[name]
	if !ok {
		return store.Value{}, false
	}
	return v.slots[i].value, true
}

// GetByIndex reads by position — O(1), per §4.2.
func (v *Variables) GetByIndex(i int) (store.Value, bool) {
	if i < 0 || i >= len(v.slots) {
		return store.Value{}, false
	}
	return v.slots[i].value, true
}

// SetByIndex writes by position.
func (v *Variables) SetByIndex(i int, val store.Value) bool {
	if i < 0 || i >= len(v.slots) {
		return false
	}
	v.slots[i].value = val
	return true
}

// ArgPath returns name's bound by-ref Path, if any.
func (v *Variables) ArgPath(name string) (Path, bool) {
	i, ok := v.index[name]
	if !ok || v.slots[i].argPath == nil {
		return Path{}, false
	}
	return *v.slots[i].argPath, true
}

// ArgPathByIndex returns the by-ref Path bound at position i, if any
// (§4.3 Context.variables() lookups for by-ref write-through use this).
func (v *Variables) ArgPathByIndex(i int) (Path, bool) {
	if i < 0 || i >= len(v.slots) || v.slots[i].argPath == nil {
		return Path{}, false
	}
	return *v.slots[i].argPath, true
}

// Len reports the variable count.
func (v *Variables) Len() int { return len(v.slots) }

// Names returns variable names in insertion order.
func (v *Variables) Names() []string { return v.order }

// IndexOf returns name's position, if present.
func (v *Variables) IndexOf(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

// ByteSizeBefore sums byte_size(var) for every non-array variable inserted
// before name — the local half of §4.3 calculate_varptr's Root case. Arrays
// live in their own segments, so they take no room in the VarSegBase view.
func (v *Variables) ByteSizeBefore(reg *rtypes.Registry, name string) (int, error) {
	total := 0
	for _, s := range v.slots {
		if s.name == name {
			break
		}
		if s.value.IsArray() {
			continue
		}
		sz, err := s.value.ByteSize(reg)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// ByteSize sums byte_size over every non-array variable in this scope
// (§3.5/§4.3: used when walking "prior memory blocks" during VARPTR
// calculation).
func (v *Variables) ByteSize(reg *rtypes.Registry) (int, error) {
	total := 0
	for _, s := range v.slots {
		if s.value.IsArray() {
			continue
		}
		sz, err := s.value.ByteSize(reg)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// ArrayIndices returns the positions of every array-valued slot, in
// insertion order — used by §4.3/§6.4's array-segment numbering ("arrays
// within a block scanned in insertion order").
func (v *Variables) ArrayIndices() []int {
	var out []int
	for i, s := range v.slots {
		if s.value.IsArray() {
			out = append(out, i)
		}
	}
	return out
}
