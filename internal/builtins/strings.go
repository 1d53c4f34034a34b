// Package builtins implements the intrinsic functions and subs of §4.5:
// pure string/numeric functions, byte codecs, array introspection, file
// I/O subs, environment/system access, and the screen control surface.
// Each group is grounded on the corresponding original_source/*.rs
// built-in module, reworked into plain Go functions the interpreter loop
// dispatches to by name — the teacher's stdlib.go registers Go functions
// under string keys in a similar "one function per intrinsic" shape.
package builtins

import (
	"strconv"
	"strings"

	"basic/internal/rterr"
	"basic/internal/variant"
)

// Chr implements CHR$(i): i must be 0...255.
func Chr(i int) (string, error) {
	if i < 0 || i > 255 {
		return "", rterr.New(rterr.IllegalFunctionCall, "CHR$ argument %d out of range", i)
	}
	return string([]byte{byte(i)}), nil
}

// Asc implements ASC(s): the byte value of s's first character.
func Asc(s string) (int, error) {
	if s == "" {
		return 0, rterr.New(rterr.IllegalFunctionCall, "ASC requires a non-empty string")
	}
	return int(s[0]), nil
}

// LCase/UCase implement LCASE$/UCASE$.
func LCase(s string) string { return strings.ToLower(s) }
func UCase(s string) string { return strings.ToUpper(s) }

// Left implements LEFT$(s,n): n<0 fails; n beyond length yields all of s.
func Left(s string, n int) (string, error) {
	if n < 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "LEFT$ requires n >= 0")
	}
	if n >= len(s) {
		return s, nil
	}
	return s[:n], nil
}

// Right implements RIGHT$(s,n).
func Right(s string, n int) (string, error) {
	if n < 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "RIGHT$ requires n >= 0")
	}
	if n >= len(s) {
		return s, nil
	}
	return s[len(s)-n:], nil
}

// Mid implements MID$(s, start[, length]): start is 1-based; a negative
// length fails IllegalFunctionCall. hasLength distinguishes MID$(s,start),
// which runs to the end of s, from MID$(s,start,length).
func Mid(s string, start int, length int, hasLength bool) (string, error) {
	if start < 1 {
		return "", rterr.New(rterr.IllegalFunctionCall, "MID$ start must be >= 1")
	}
	if hasLength && length < 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "MID$ length must be >= 0")
	}
	if start > len(s) {
		return "", nil
	}
	from := start - 1
	if !hasLength {
		return s[from:], nil
	}
	to := from + length
	if to > len(s) {
		to = len(s)
	}
	return s[from:to], nil
}

// LTrim/RTrim implement LTRIM$/RTRIM$.
func LTrim(s string) string { return strings.TrimLeft(s, " ") }
func RTrim(s string) string { return strings.TrimRight(s, " ") }

// Instr implements INSTR([start,] hay, needle) (1-based result, 0 when
// not found): empty hay returns 0, empty needle returns 1 for non-empty
// hay else 0.
func Instr(start int, hay, needle string) (int, error) {
	if start < 1 {
		return 0, rterr.New(rterr.IllegalFunctionCall, "INSTR start must be >= 1")
	}
	if hay == "" {
		return 0, nil
	}
	if needle == "" {
		if start <= len(hay) {
			return 1, nil
		}
		return 0, nil
	}
	if start > len(hay) {
		return 0, nil
	}
	idx := strings.Index(hay[start-1:], needle)
	if idx < 0 {
		return 0, nil
	}
	return start + idx, nil
}

// Len implements LEN for strings (byte length, not character length, per
// §3.1's "1 byte/char semantics"). Array/record LEN goes through
// store.Value.ByteSize instead (§3.3).
func Len(s string) int { return len(s) }

// Space implements SPACE$(n).
func Space(n int) (string, error) {
	if n < 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "SPACE$ requires n >= 0")
	}
	return strings.Repeat(" ", n), nil
}

// StringDollar implements STRING$(n, code_or_char): the fill value is
// either the first character of a string argument or a 0...255 numeric
// character code.
func StringDollar(n int, fill variant.Variant) (string, error) {
	if n < 0 {
		return "", rterr.New(rterr.IllegalFunctionCall, "STRING$ requires n >= 0")
	}
	var b byte
	if fill.Kind == variant.KindString {
		s := fill.StringVal()
		if s == "" {
			return "", rterr.New(rterr.IllegalFunctionCall, "STRING$ fill string is empty")
		}
		b = s[0]
	} else {
		code, err := fill.Cast(variant.QualInteger)
		if err != nil {
			return "", err
		}
		iv := int(code.IntVal())
		if iv < 0 || iv > 255 {
			return "", rterr.New(rterr.IllegalFunctionCall, "STRING$ code %d out of range", iv)
		}
		b = byte(iv)
	}
	return strings.Repeat(string(b), n), nil
}

// Val implements VAL(s): a state machine scanning an optional sign,
// digits, a single dot, and fractional digits, ignoring embedded spaces
// and stopping at the first other character. Returns the smallest exact
// fit among Integer/Long/Double.
func Val(s string) variant.Variant {
	i, n := 0, len(s)
	var sb strings.Builder
	sawDigit := false
	sawDot := false

	skipSpaces := func() {
		for i < n && s[i] == ' ' {
			i++
		}
	}
	skipSpaces()
	if i < n && (s[i] == '+' || s[i] == '-') {
		sb.WriteByte(s[i])
		i++
	}
	for i < n {
		skipSpaces()
		if i >= n {
			break
		}
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			sb.WriteByte(c)
			sawDigit = true
			i++
		case c == '.' && !sawDot:
			sb.WriteByte(c)
			sawDot = true
			i++
		default:
			goto done
		}
	}
done:
	if !sawDigit {
		return variant.Int(0)
	}
	text := sb.String()
	if !sawDot {
		if iv, err := parseExactInt(text, variant.MinInteger, variant.MaxInteger); err == nil {
			return variant.Int(int32(iv))
		}
		if lv, err := parseExactInt(text, variant.MinLong, variant.MaxLong); err == nil {
			return variant.Long(int32(lv))
		}
	}
	f, err := parseFloat(text)
	if err != nil {
		return variant.Int(0)
	}
	return variant.Double(f)
}

func parseExactInt(s string, lo, hi int64) (int64, error) {
	var v int64
	neg := false
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	if i >= len(s) {
		return 0, rterr.New(rterr.Other, "empty")
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, rterr.New(rterr.Other, "not an integer")
		}
		v = v*10 + int64(s[i]-'0')
	}
	if neg {
		v = -v
	}
	if v < lo || v > hi {
		return 0, rterr.New(rterr.Other, "out of range")
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
