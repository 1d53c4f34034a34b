// Package variant implements the interpreter's tagged dynamic value
// (§3.1), including the five-kind numeric/string promotion rules, byte
// codecs, and fixed-length-string semantics that the rest of the core
// builds on.
//
// This is the one place the implementation deliberately diverges from the
// teacher's literal Value representation: internal/vm/value.go models a
// VM value as `type Value interface{}` dispatched by Go type-switch. The
// spec requires a *closed* tagged sum with byte-level addressing
// (PEEK/POKE, VARPTR arithmetic), which an open interface{} cannot express
// without a parallel "what concrete types are legal" contract. We keep a
// struct with an explicit Kind tag instead, but preserve the teacher's
// switch-dispatch *shape* (compare Kind() usage here to PrintValue's
// type-switch in value.go).
package variant

import (
	"fmt"
	"math"
)

// Kind tags which alternative of the Variant sum is populated.
type Kind byte

const (
	KindInteger Kind = iota
	KindLong
	KindSingle
	KindDouble
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindLong:
		return "Long"
	case KindSingle:
		return "Single"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// Qualifier is the BASIC type-sigil suffix: !, #, $, %, &. User-defined
// types and arrays carry no qualifier (§3.1).
type Qualifier byte

const (
	QualSingle  Qualifier = '!'
	QualDouble  Qualifier = '#'
	QualString  Qualifier = '$'
	QualInteger Qualifier = '%'
	QualLong    Qualifier = '&'
	QualNone    Qualifier = 0
)

func (q Qualifier) Kind() (Kind, bool) {
	switch q {
	case QualSingle:
		return KindSingle, true
	case QualDouble:
		return KindDouble, true
	case QualString:
		return KindString, true
	case QualInteger:
		return KindInteger, true
	case QualLong:
		return KindLong, true
	default:
		return 0, false
	}
}

func KindQualifier(k Kind) Qualifier {
	switch k {
	case KindSingle:
		return QualSingle
	case KindDouble:
		return QualDouble
	case KindString:
		return QualString
	case KindInteger:
		return QualInteger
	case KindLong:
		return QualLong
	default:
		return QualNone
	}
}

// Bounds for the two integral scalar kinds (§3.1 invariants).
const (
	MinInteger = -32768
	MaxInteger = 32767
	MinLong    = math.MinInt32
	MaxLong    = math.MaxInt32
)

// Variant is the interpreter's dynamic value. Exactly one of the fields
// is meaningful, selected by Kind — i64 backs both Integer (range-checked
// to 16 bits) and Long (range-checked to 32 bits) the way spec.md's data
// model describes ("Integer(i16, stored in i32)... Long(i32, stored in
// i64)"); we store both in a single int64 and range-check at the
// boundary instead of keeping two differently-sized Go fields, since nothing
// here needs the narrower Go types themselves.
type Variant struct {
	Kind Kind
	i    int64
	f    float64 // also holds Single values (not narrowed to float32 storage;
	// narrowing happens only at arithmetic/print/byte-view time so that a
	// Single holds exactly the float32 value it was assigned, see SingleVal)
	s         string
	fixedLen  int  // >0 marks a fixed-length string; 0 means variable-length
	isFixed   bool
}

// Int returns an Integer variant holding v.
func Int(v int32) Variant { return Variant{Kind: KindInteger, i: int64(v)} }

// Long returns a Long variant holding v.
func Long(v int32) Variant { return Variant{Kind: KindLong, i: int64(v)} }

// Single returns a Single variant holding v.
func Single(v float32) Variant { return Variant{Kind: KindSingle, f: float64(v)} }

// Double returns a Double variant holding v.
func Double(v float64) Variant { return Variant{Kind: KindDouble, f: v} }

// Str returns a variable-length String variant.
func Str(s string) Variant { return Variant{Kind: KindString, s: s} }

// FixedStr returns a fixed-length String variant, NUL-padded/truncated to
// n bytes (§3.1 "Fixed-length strings ... right-padded with NUL or
// truncated").
func FixedStr(s string, n int) Variant {
	v := Variant{Kind: KindString, s: fixLengthBytes(s, n), isFixed: true, fixedLen: n}
	return v
}

// IsFixedLength reports whether this String variant has a declared length.
func (v Variant) IsFixedLength() bool { return v.Kind == KindString && v.isFixed }

// DeclaredLength returns the declared length of a fixed-length string, or
// -1 if v is not one.
func (v Variant) DeclaredLength() int {
	if v.isFixed {
		return v.fixedLen
	}
	return -1
}

// IntVal returns the Integer value (no range re-check: construction sites
// are expected to have validated it).
func (v Variant) IntVal() int32 { return int32(v.i) }

// LongVal returns the Long value.
func (v Variant) LongVal() int32 { return int32(v.i) }

// SingleVal returns the Single value narrowed to float32.
func (v Variant) SingleVal() float32 { return float32(v.f) }

// DoubleVal returns the Double value.
func (v Variant) DoubleVal() float64 { return v.f }

// StringVal returns the String value's bytes.
func (v Variant) StringVal() string { return v.s }

// Qualifier returns this value's intrinsic type qualifier (§3.1).
func (v Variant) Qualifier() Qualifier { return KindQualifier(v.Kind) }

// Zero returns the zero/empty Variant for a scalar qualifier — used by
// AllocateBuiltIn(q) (§4.4).
func Zero(q Qualifier) (Variant, error) {
	switch q {
	case QualInteger:
		return Int(0), nil
	case QualLong:
		return Long(0), nil
	case QualSingle:
		return Single(0), nil
	case QualDouble:
		return Double(0), nil
	case QualString:
		return Str(""), nil
	default:
		return Variant{}, fmt.Errorf("no zero value for qualifier %q", q)
	}
}

func (v Variant) String() string {
	switch v.Kind {
	case KindSingle:
		return formatFloat(float64(v.SingleVal()), 32)
	case KindDouble:
		return formatFloat(v.f, 64)
	case KindString:
		return v.s
	case KindInteger, KindLong:
		return fmt.Sprintf("%d", v.i)
	default:
		return ""
	}
}

func formatFloat(f float64, bits int) string {
	// QBasic prints the shortest round-tripping decimal, same spirit as
	// Rust's Display for f32/f64 that variant.rs's tests assert against
	// ("1.1".to_string()); strconv.FormatFloat's 'g'/-1 gives the
	// equivalent shortest representation in Go.
	return trimFloat(f, bits)
}
