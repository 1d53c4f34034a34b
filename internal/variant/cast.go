package variant

import "basic/internal/rterr"

// Cast implements §4.1 "Casting (cast(q))": to Integer/Long rounds
// half-away-from-zero; to Single/Double converts exactly where
// representable; to String fails for non-strings (and is the identity for
// strings — the fixed-length adjustment is a separate operation, FixLength,
// since not every String cast carries a declared width).
func (v Variant) Cast(q Qualifier) (Variant, error) {
	target, ok := q.Kind()
	if !ok {
		return Variant{}, rterr.New(rterr.TypeMismatch, "unknown qualifier %q", byte(q))
	}
	if target == KindString {
		if v.Kind != KindString {
			return Variant{}, rterr.New(rterr.TypeMismatch, "cannot cast %v to String", v.Kind)
		}
		return v, nil
	}
	if v.Kind == KindString {
		return Variant{}, rterr.New(rterr.TypeMismatch, "cannot cast String to %v", target)
	}
	switch target {
	case KindInteger, KindLong:
		return fromFloat(target, float64(roundHalfAwayFromZero(v.asFloat64())))
	case KindSingle:
		return Single(float32(v.asFloat64())), nil
	case KindDouble:
		return Double(v.asFloat64()), nil
	}
	return Variant{}, rterr.New(rterr.TypeMismatch, "cannot cast to %v", target)
}

// FixLength implements §4.1 fix_length(n): adjusts a String variant to a
// declared length, NUL-padding on the right or truncating. It fails
// TypeMismatch for non-strings.
func (v Variant) FixLength(n int) (Variant, error) {
	if v.Kind != KindString {
		return Variant{}, rterr.New(rterr.TypeMismatch, "fixed length applies only to strings")
	}
	return FixedStr(v.s, n), nil
}
