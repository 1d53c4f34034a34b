package builtins

import (
	"basic/internal/rterr"
	"basic/internal/variant"
)

// readBytes returns exactly n ASCII bytes of s, failing IllegalFunctionCall
// otherwise — CV* intrinsics require an exact-width string (§4.5).
func readBytes(s string, n int) ([]byte, error) {
	if len(s) != n {
		return nil, rterr.New(rterr.IllegalFunctionCall, "expected a %d-byte string, got %d bytes", n, len(s))
	}
	return []byte(s), nil
}

// CVI/MKI$: 2-byte Integer codec.
func CVI(s string) (variant.Variant, error) {
	b, err := readBytes(s, 2)
	if err != nil {
		return variant.Variant{}, err
	}
	return decodeLittleEndian(variant.Int(0), b)
}

// MKI implements MKI$(i).
func MKI(v variant.Variant) (string, error) {
	return bytesOfScalar(v, 2)
}

// CVL/MKL$: 4-byte Long codec.
func CVL(s string) (variant.Variant, error) {
	b, err := readBytes(s, 4)
	if err != nil {
		return variant.Variant{}, err
	}
	return decodeLittleEndian(variant.Long(0), b)
}

func MKL(v variant.Variant) (string, error) {
	return bytesOfScalar(v, 4)
}

// CVS/MKS$: 4-byte Single codec.
func CVS(s string) (variant.Variant, error) {
	b, err := readBytes(s, 4)
	if err != nil {
		return variant.Variant{}, err
	}
	return decodeLittleEndian(variant.Single(0), b)
}

func MKS(v variant.Variant) (string, error) {
	return bytesOfScalar(v, 4)
}

// CVD/MKD$: 8-byte Double codec.
func CVD(s string) (variant.Variant, error) {
	b, err := readBytes(s, 8)
	if err != nil {
		return variant.Variant{}, err
	}
	return decodeLittleEndian(variant.Double(0), b)
}

func MKD(v variant.Variant) (string, error) {
	return bytesOfScalar(v, 8)
}

// decodeLittleEndian rebuilds a Variant of template's kind from n
// raw bytes by poking them in one at a time, reusing Variant.PokeByte
// rather than duplicating the byte-layout knowledge already in
// internal/variant (§4.1 byte view).
func decodeLittleEndian(template variant.Variant, b []byte) (variant.Variant, error) {
	v := template
	var err error
	for i, by := range b {
		v, err = v.PokeByte(i, by)
		if err != nil {
			return variant.Variant{}, err
		}
	}
	return v, nil
}

func bytesOfScalar(v variant.Variant, n int) (string, error) {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := v.PeekByte(i)
		if err != nil {
			return "", err
		}
		buf[i] = b
	}
	return string(buf), nil
}
