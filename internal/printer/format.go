package printer

import (
	"strconv"
	"strings"

	"basic/internal/rterr"
	"basic/internal/variant"
)

// FormatDefault implements §4.7's formatter used when no PRINT USING
// format string is given: numbers get a leading space when non-negative
// and a trailing space; strings print raw. It takes a scalar Variant
// only: PRINT's dispatcher rejects array and record arguments with
// TypeMismatch before formatting.
func FormatDefault(v variant.Variant) string {
	if v.Kind == variant.KindString {
		return v.StringVal()
	}
	s := v.String()
	if !strings.HasPrefix(s, "-") {
		s = " " + s
	}
	return s + " "
}

// FormatUsing implements §4.7's PRINT USING format-string walker: format
// is consumed left to right, emitting literal characters until a `#`/`,`/
// `.` run (numeric field), a `\ ... \` run (string field), or a `!`
// (first-character field) is seen, consuming one value from values per
// field in order.
func FormatUsing(format string, values []variant.Variant) (string, error) {
	if format == "" && len(values) > 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "PRINT USING format string is empty")
	}

	var out strings.Builder
	vi := 0
	fieldsConsumed := 0
	i := 0
	for i < len(format) {
		ch := format[i]
		switch {
		case ch == '#' || ch == ',' || ch == '.':
			start := i
			for i < len(format) && (format[i] == '#' || format[i] == ',' || format[i] == '.') {
				i++
			}
			mask := format[start:i]
			v, err := nextValue(values, &vi)
			if err != nil {
				return "", err
			}
			s, err := formatNumericField(mask, v)
			if err != nil {
				return "", err
			}
			out.WriteString(s)
			fieldsConsumed++

		case ch == '\\':
			start := i
			i++
			for i < len(format) && format[i] == ' ' {
				i++
			}
			if i >= len(format) || format[i] != '\\' {
				return "", rterr.New(rterr.IllegalFunctionCall, "unterminated string field in format")
			}
			i++
			width := i - start
			v, err := nextValue(values, &vi)
			if err != nil {
				return "", err
			}
			if v.Kind != variant.KindString {
				return "", rterr.New(rterr.TypeMismatch, "string field requires a string argument")
			}
			fixed, err := v.FixLength(width)
			if err != nil {
				return "", err
			}
			out.WriteString(fixed.StringVal())
			fieldsConsumed++

		case ch == '!':
			i++
			v, err := nextValue(values, &vi)
			if err != nil {
				return "", err
			}
			if v.Kind != variant.KindString {
				return "", rterr.New(rterr.TypeMismatch, "! field requires a string argument")
			}
			s := v.StringVal()
			if len(s) > 0 {
				out.WriteByte(s[0])
			}
			fieldsConsumed++

		default:
			out.WriteByte(ch)
			i++
		}
	}

	if fieldsConsumed == 0 && len(values) > 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "format string has no field specifiers")
	}
	return out.String(), nil
}

func nextValue(values []variant.Variant, vi *int) (variant.Variant, error) {
	if *vi >= len(values) {
		return variant.Variant{}, rterr.New(rterr.IllegalFunctionCall, "not enough arguments for format string")
	}
	v := values[*vi]
	*vi++
	return v, nil
}

// formatNumericField renders one value into a `#`/`,`/`.` mask (§4.7).
func formatNumericField(mask string, v variant.Variant) (string, error) {
	if v.Kind == variant.KindString {
		return "", rterr.New(rterr.TypeMismatch, "numeric field requires a numeric argument")
	}

	intMask, fracMask, hasDot := mask, "", false
	if dot := strings.IndexByte(mask, '.'); dot >= 0 {
		hasDot = true
		intMask, fracMask = mask[:dot], mask[dot+1:]
		if intMask == "" || fracMask == "" {
			return "", rterr.New(rterr.IllegalFunctionCall, "malformed numeric field %q", mask)
		}
	}
	fracDigits := strings.Count(fracMask, "#")

	f := asFloat(v)
	neg := f < 0
	if neg {
		f = -f
	}
	rendered := strconv.FormatFloat(f, 'f', fracDigits, 64)
	intPart, fracPart := rendered, ""
	if hasDot {
		idx := strings.IndexByte(rendered, '.')
		intPart, fracPart = rendered[:idx], rendered[idx+1:]
	}

	digitSlots := strings.Count(intMask, "#")
	var overflow, padded string
	if len(intPart) <= digitSlots {
		padded = strings.Repeat(" ", digitSlots-len(intPart)) + intPart
	} else {
		overflow = intPart[:len(intPart)-digitSlots]
		padded = intPart[len(intPart)-digitSlots:]
	}

	var out strings.Builder
	if neg {
		out.WriteByte('-')
	}
	out.WriteString(overflow)
	seenDigit := false
	pi := 0
	for _, c := range intMask {
		switch c {
		case '#':
			d := padded[pi]
			pi++
			if d == ' ' {
				out.WriteByte(' ')
			} else {
				out.WriteByte(d)
				seenDigit = true
			}
		case ',':
			if seenDigit {
				out.WriteByte(',')
			} else {
				out.WriteByte(' ')
			}
		}
	}
	if hasDot {
		out.WriteByte('.')
		out.WriteString(fracPart)
	}
	return out.String(), nil
}

func asFloat(v variant.Variant) float64 {
	switch v.Kind {
	case variant.KindInteger:
		return float64(v.IntVal())
	case variant.KindLong:
		return float64(v.LongVal())
	case variant.KindSingle:
		return float64(v.SingleVal())
	default:
		return v.DoubleVal()
	}
}
