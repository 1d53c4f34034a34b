// Package rtypes implements the user-defined composite type system (§3.3):
// record values with a declared field layout, plus the registry an
// external collaborator (the linter, out of scope here) populates and the
// core consults for field offsets and nested-type sizes.
//
// Grounded structurally on the teacher's module-registry idiom — a struct
// holding a mutex-guarded map, e.g. internal/database.DatabaseModule's
// `Connections map[string]*DBConnection` behind a `sync.RWMutex` — adapted
// here to a read-mostly type registry instead of a connection pool.
package rtypes

import (
	"sync"

	"basic/internal/rterr"
	"basic/internal/variant"
)

// FieldDef declares one field of a record type, in byte-layout order
// (§3.3 "Field order matters").
type FieldDef struct {
	Name       string
	Qual       variant.Qualifier // QualNone if NestedType is set
	FixedLen   int               // >0 for a fixed-length string field
	NestedType string            // name of a nested record type, or ""
}

// RecordLayout is one user-defined type's field declaration, as the
// linter/compiler would hand it to the core.
type RecordLayout struct {
	TypeName string
	Fields   []FieldDef
}

// FieldSize returns one field's byte_size (§3.3: "Integer=2, Long=4,
// Single=4, Double=8, fixed-length String=declared length, nested
// record=sum of its field sizes"), recursing into the registry for nested
// records.
func (l RecordLayout) FieldSize(reg *Registry, f FieldDef) (int, error) {
	if f.NestedType != "" {
		nested, ok := reg.Lookup(f.NestedType)
		if !ok {
			return 0, rterr.New(rterr.Other, "unknown user-defined type %q", f.NestedType)
		}
		return nested.ByteSize(reg)
	}
	switch f.Qual {
	case variant.QualInteger:
		return 2, nil
	case variant.QualLong, variant.QualSingle:
		return 4, nil
	case variant.QualDouble:
		return 8, nil
	case variant.QualString:
		return f.FixedLen, nil
	default:
		return 0, rterr.New(rterr.Other, "field %q has no recognizable type", f.Name)
	}
}

// ByteSize is the sum of field sizes in declared order (§3.3 LEN/VARPTR
// arithmetic).
func (l RecordLayout) ByteSize(reg *Registry) (int, error) {
	total := 0
	for _, f := range l.Fields {
		sz, err := l.FieldSize(reg, f)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// FieldIndex returns the declaration-order position of a field name.
func (l RecordLayout) FieldIndex(name string) (int, bool) {
	for i, f := range l.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// OffsetOf returns the byte offset of field index i within the record
// (§4.3 calculate_varptr Property case): sum of field sizes declared
// before it.
func (l RecordLayout) OffsetOf(reg *Registry, i int) (int, error) {
	total := 0
	for j := 0; j < i; j++ {
		sz, err := l.FieldSize(reg, l.Fields[j])
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// Record is a UserDefinedTypeValue (§3.3): an ordered mapping of field
// name to Variant, backed by the layout that defines byte order.
type Record struct {
	Layout *RecordLayout
	Order  []string // field names, declaration order
	Values map[string]variant.Variant
	nested map[string]*Record
}

// NewRecord constructs a record with every field defaulted per §4.4
// AllocateUserDefined: scalar fields get their zero value, fixed-length
// string fields get n NUL bytes (the FixedStr default), nested records
// recurse.
func NewRecord(reg *Registry, layout *RecordLayout) (*Record, error) {
	r := &Record{Layout: layout, Values: make(map[string]variant.Variant, len(layout.Fields))}
	for _, f := range layout.Fields {
		r.Order = append(r.Order, f.Name)
		if f.NestedType != "" {
			nestedLayout, ok := reg.Lookup(f.NestedType)
			if !ok {
				return nil, rterr.New(rterr.Other, "unknown user-defined type %q", f.NestedType)
			}
			nested, err := NewRecord(reg, &nestedLayout)
			if err != nil {
				return nil, err
			}
			r.Values[f.Name] = variant.Str("") // placeholder not used; nested records are addressed structurally
			r.nestedFields()[f.Name] = nested
			continue
		}
		switch f.Qual {
		case variant.QualString:
			r.Values[f.Name] = variant.FixedStr("", f.FixedLen)
		default:
			z, err := variant.Zero(f.Qual)
			if err != nil {
				return nil, err
			}
			r.Values[f.Name] = z
		}
	}
	return r, nil
}

// nestedFields lazily allocates the side-table holding nested Record
// pointers, kept separate from Values (map[string]variant.Variant) since
// a nested record is not itself a Variant.
func (r *Record) nestedFields() map[string]*Record {
	if r.nested == nil {
		r.nested = make(map[string]*Record)
	}
	return r.nested
}

// Get reads a scalar field by name.
func (r *Record) Get(name string) (variant.Variant, error) {
	v, ok := r.Values[name]
	if !ok {
		return variant.Variant{}, rterr.New(rterr.ElementNotDefined, "no field %q", name)
	}
	return v, nil
}

// Set writes a scalar field by name.
func (r *Record) Set(name string, v variant.Variant) error {
	if _, ok := r.Values[name]; !ok {
		return rterr.New(rterr.ElementNotDefined, "no field %q", name)
	}
	r.Values[name] = v
	return nil
}

// Nested returns a nested record field by name.
func (r *Record) Nested(name string) (*Record, bool) {
	n, ok := r.nested[name]
	return n, ok
}

// ByteSize sums field sizes via the registry (§3.3).
func (r *Record) ByteSize(reg *Registry) (int, error) { return r.Layout.ByteSize(reg) }

// Registry is the in-core default implementation of ifaces.UserDefinedTypes
// (§6.1): a name -> RecordLayout map behind a mutex, matching the
// teacher's struct-plus-mutex-plus-map module idiom.
type Registry struct {
	mu     sync.RWMutex
	layout map[string]RecordLayout
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{layout: make(map[string]RecordLayout)}
}

// Register adds (or replaces) a type's layout.
func (reg *Registry) Register(l RecordLayout) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.layout[l.TypeName] = l
}

// Lookup implements ifaces.UserDefinedTypes.
func (reg *Registry) Lookup(name string) (RecordLayout, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	l, ok := reg.layout[name]
	return l, ok
}
