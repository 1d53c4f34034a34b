package variant

import (
	"math"

	"basic/internal/rterr"
)

// numericRank orders the four numeric kinds for promotion: "Integer < Long
// < Single < Double" (§4.1 rule 2). String has no rank; it is handled
// before promotion ever runs.
func numericRank(k Kind) int {
	switch k {
	case KindInteger:
		return 0
	case KindLong:
		return 1
	case KindSingle:
		return 2
	case KindDouble:
		return 3
	default:
		return -1
	}
}

func isNumeric(k Kind) bool { return k != KindString }

func (v Variant) asFloat64() float64 {
	switch v.Kind {
	case KindInteger, KindLong:
		return float64(v.i)
	case KindSingle:
		return float64(v.SingleVal())
	case KindDouble:
		return v.f
	}
	return 0
}

// widerKind returns the promotion target for two numeric kinds.
func widerKind(a, b Kind) Kind {
	if numericRank(a) >= numericRank(b) {
		return a
	}
	return b
}

func overflowCheck(k Kind, f float64) error {
	switch k {
	case KindInteger:
		if f < MinInteger || f > MaxInteger {
			return rterr.New(rterr.Overflow, "integer overflow: %v", f)
		}
	case KindLong:
		if f < MinLong || f > MaxLong {
			return rterr.New(rterr.Overflow, "long overflow: %v", f)
		}
	}
	return nil
}

// fromFloat builds a Variant of kind k from a float64 result, checking
// overflow for the integral kinds (§4.1 rule 6).
func fromFloat(k Kind, f float64) (Variant, error) {
	if err := overflowCheck(k, f); err != nil {
		return Variant{}, err
	}
	switch k {
	case KindInteger:
		return Int(int32(f)), nil
	case KindLong:
		return Long(int32(f)), nil
	case KindSingle:
		return Single(float32(f)), nil
	case KindDouble:
		return Double(f), nil
	}
	return Variant{}, rterr.New(rterr.TypeMismatch, "cannot build numeric of kind %v", k)
}

// Plus implements + : string concatenation, or numeric promotion+add
// (§4.1 rule 1/2).
func (a Variant) Plus(b Variant) (Variant, error) {
	if a.Kind == KindString || b.Kind == KindString {
		if a.Kind == KindString && b.Kind == KindString {
			return Str(a.s + b.s), nil
		}
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot add %v and %v", a.Kind, b.Kind)
	}
	k := widerKind(a.Kind, b.Kind)
	return fromFloat(k, a.asFloat64()+b.asFloat64())
}

// Minus implements -.
func (a Variant) Minus(b Variant) (Variant, error) {
	if a.Kind == KindString || b.Kind == KindString {
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot subtract %v and %v", a.Kind, b.Kind)
	}
	k := widerKind(a.Kind, b.Kind)
	return fromFloat(k, a.asFloat64()-b.asFloat64())
}

// Multiply implements *.
func (a Variant) Multiply(b Variant) (Variant, error) {
	if a.Kind == KindString || b.Kind == KindString {
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot multiply %v and %v", a.Kind, b.Kind)
	}
	k := widerKind(a.Kind, b.Kind)
	return fromFloat(k, a.asFloat64()*b.asFloat64())
}

// Divide implements / (§4.1 rule 3): on two integer-kind operands the
// result is Single unless it divides exactly and fits a Long, in which
// case it is Long; otherwise the widened float kind is used.
func (a Variant) Divide(b Variant) (Variant, error) {
	if a.Kind == KindString || b.Kind == KindString {
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot divide %v and %v", a.Kind, b.Kind)
	}
	bf := b.asFloat64()
	if bf == 0 {
		return Variant{}, rterr.New(rterr.DivisionByZero, "division by zero")
	}
	result := a.asFloat64() / bf

	bothIntegral := (a.Kind == KindInteger || a.Kind == KindLong) &&
		(b.Kind == KindInteger || b.Kind == KindLong)
	if bothIntegral {
		if math.Trunc(result) == result && result >= MinLong && result <= MaxLong {
			return fromFloat(KindLong, result)
		}
		return fromFloat(KindSingle, result)
	}
	k := widerKind(a.Kind, b.Kind)
	if k == KindInteger || k == KindLong {
		k = KindSingle
	}
	return fromFloat(k, result)
}

// Modulo implements MOD (§4.1 rule 4): operands are rounded half-away-
// from-zero to integers first (QBasic rounds, not truncates — e.g.
// 19 MOD 6.7 rounds 6.7 to 7, then 19 % 7 == 5), then an integer modulo
// is taken. The result kind is Long if either rounded operand needed Long
// range, else Integer.
func (a Variant) Modulo(b Variant) (Variant, error) {
	if a.Kind == KindString || b.Kind == KindString {
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot MOD %v and %v", a.Kind, b.Kind)
	}
	ai := roundHalfAwayFromZero(a.asFloat64())
	bi := roundHalfAwayFromZero(b.asFloat64())
	if bi == 0 {
		return Variant{}, rterr.New(rterr.DivisionByZero, "division by zero in MOD")
	}
	result := ai % bi
	k := KindInteger
	if ai < MinInteger || ai > MaxInteger || bi < MinInteger || bi > MaxInteger {
		k = KindLong
	}
	return fromFloat(k, float64(result))
}

func roundHalfAwayFromZero(f float64) int64 {
	if f >= 0 {
		return int64(math.Floor(f + 0.5))
	}
	return int64(math.Ceil(f - 0.5))
}

// Negate implements unary minus.
func (a Variant) Negate() (Variant, error) {
	switch a.Kind {
	case KindInteger:
		return fromFloat(KindInteger, -a.asFloat64())
	case KindLong:
		return fromFloat(KindLong, -a.asFloat64())
	case KindSingle:
		return Single(-a.SingleVal()), nil
	case KindDouble:
		return Double(-a.f), nil
	default:
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot negate a string")
	}
}

// toInt16 casts a numeric value to BASIC's Integer for the bitwise family
// (§4.1 rule 5). Unlike Cast(QualInteger), overflow here wraps instead of
// failing, matching QBasic's AND/OR/NOT coercion of out-of-range values by
// two's-complement truncation rather than raising Overflow.
func (a Variant) toInt16() (int16, error) {
	if a.Kind == KindString {
		return 0, rterr.New(rterr.TypeMismatch, "cannot use a string in a logical operator")
	}
	r := roundHalfAwayFromZero(a.asFloat64())
	return int16(r), nil
}

// And implements AND: both operands are cast to Integer two's-complement
// 16-bit, then bitwise ANDed (§4.1 rule 5).
func (a Variant) And(b Variant) (Variant, error) {
	ai, err := a.toInt16()
	if err != nil {
		return Variant{}, err
	}
	bi, err := b.toInt16()
	if err != nil {
		return Variant{}, err
	}
	return Int(int32(ai & bi)), nil
}

// Or implements OR.
func (a Variant) Or(b Variant) (Variant, error) {
	ai, err := a.toInt16()
	if err != nil {
		return Variant{}, err
	}
	bi, err := b.toInt16()
	if err != nil {
		return Variant{}, err
	}
	return Int(int32(ai | bi)), nil
}

// UnaryNot implements NOT.
func (a Variant) UnaryNot() (Variant, error) {
	ai, err := a.toInt16()
	if err != nil {
		return Variant{}, err
	}
	return Int(int32(^ai)), nil
}

// TryCmp implements try_cmp (§4.1 "Comparison"): total order within
// numerics after promotion, lexicographic for strings, TypeMismatch across
// kinds.
func (a Variant) TryCmp(b Variant) (int, error) {
	if a.Kind == KindString || b.Kind == KindString {
		if a.Kind != KindString || b.Kind != KindString {
			return 0, rterr.New(rterr.TypeMismatch, "cannot compare %v with %v", a.Kind, b.Kind)
		}
		switch {
		case a.s < b.s:
			return -1, nil
		case a.s > b.s:
			return 1, nil
		default:
			return 0, nil
		}
	}
	af, bf := a.asFloat64(), b.asFloat64()
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	default:
		return 0, nil
	}
}

// Bool implements the TryFrom<&Variant> for bool conversion used by
// JumpIfFalse: numerics are truthy when nonzero, strings fail TypeMismatch
// (original_source/src/interpreter/variant.rs `impl TryFrom<&Variant> for
// bool`).
func (a Variant) Bool() (bool, error) {
	switch a.Kind {
	case KindString:
		return false, rterr.New(rterr.TypeMismatch, "cannot use a string as a boolean")
	default:
		return a.asFloat64() != 0, nil
	}
}
