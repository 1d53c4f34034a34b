package variant

import "strconv"

// trimFloat formats a float the way QBasic's PRINT does without a format
// string: shortest round-tripping decimal, no trailing ".0" for whole
// numbers beyond what strconv's -1 precision already omits.
func trimFloat(f float64, bits int) string {
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// fixLengthBytes right-pads s with NUL to n bytes, or truncates it to n
// bytes, per §3.1 / §4.1 fix_length(n).
func fixLengthBytes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) >= n {
		return s[:n]
	}
	buf := make([]byte, n)
	copy(buf, s)
	for i := len(s); i < n; i++ {
		buf[i] = 0
	}
	return string(buf)
}
