package variant

import (
	"testing"

	"basic/internal/rterr"
)

// Table-driven, direct-assertion style (no testify), matching the teacher's
// internal/vm/vm_test.go convention.

func TestPlusPromotion(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Variant
		wantK   Kind
		wantNum float64
	}{
		{"int+int", Int(42), Int(2), KindInteger, 44},
		{"int+long", Int(42), Long(2), KindLong, 44},
		{"single+int", Single(1.1), Int(2), KindSingle, 3.1},
		{"single+double", Single(1.1), Double(2.4), KindDouble, 3.5},
		{"double+long", Double(1.1), Long(2), KindDouble, 3.1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.a.Plus(c.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != c.wantK {
				t.Fatalf("kind = %v, want %v", got.Kind, c.wantK)
			}
			if diff := got.asFloat64() - c.wantNum; diff > 1e-4 || diff < -1e-4 {
				t.Fatalf("value = %v, want %v", got.asFloat64(), c.wantNum)
			}
		})
	}
}

func TestPlusStringTypeMismatch(t *testing.T) {
	if _, err := Str("hi").Plus(Int(1)); !rterr.Is(err, rterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if _, err := Int(1).Plus(Str("hi")); !rterr.Is(err, rterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestStringConcat(t *testing.T) {
	got, err := Str("hello").Plus(Str(" world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StringVal() != "hello world" {
		t.Fatalf("got %q", got.StringVal())
	}
}

func TestDivideIntegerExactYieldsLong(t *testing.T) {
	got, err := Int(10).Divide(Int(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindLong || got.LongVal() != 2 {
		t.Fatalf("got kind=%v val=%v", got.Kind, got.LongVal())
	}
}

func TestDivideIntegerInexactYieldsSingle(t *testing.T) {
	got, err := Int(1).Divide(Int(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindSingle {
		t.Fatalf("got kind=%v", got.Kind)
	}
}

func TestDivideByZero(t *testing.T) {
	if _, err := Int(1).Divide(Int(0)); !rterr.Is(err, rterr.DivisionByZero) {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestModuloRoundsNotTruncates(t *testing.T) {
	// 19 MOD 6.7 -> 6.7 rounds to 7, 19 % 7 == 5 (§4.1 rule 4).
	got, err := Int(19).Modulo(Single(6.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IntVal() != 5 {
		t.Fatalf("got %v", got.IntVal())
	}
}

func TestOverflow(t *testing.T) {
	if _, err := Int(32000).Plus(Int(1000)); !rterr.Is(err, rterr.Overflow) {
		t.Fatalf("expected Overflow, got %v", err)
	}
}

func TestLogicalAndOrNot(t *testing.T) {
	got, err := Int(6).And(Int(3))
	if err != nil || got.IntVal() != 2 {
		t.Fatalf("AND got %v err %v", got.IntVal(), err)
	}
	got, err = Int(6).Or(Int(1))
	if err != nil || got.IntVal() != 7 {
		t.Fatalf("OR got %v err %v", got.IntVal(), err)
	}
	got, err = Int(0).UnaryNot()
	if err != nil || got.IntVal() != -1 {
		t.Fatalf("NOT got %v err %v", got.IntVal(), err)
	}
}

func TestTryCmpCrossKind(t *testing.T) {
	if c, err := Int(1).TryCmp(Double(2.0)); err != nil || c != -1 {
		t.Fatalf("got %d err %v", c, err)
	}
	if _, err := Str("hi").TryCmp(Int(1)); !rterr.Is(err, rterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestFixedLengthStringPadAndTruncate(t *testing.T) {
	v := FixedStr("Nikos", 10)
	if v.ByteSize() != 10 {
		t.Fatalf("byte size = %d", v.ByteSize())
	}
	if v.StringVal() != "Nikos\x00\x00\x00\x00\x00" {
		t.Fatalf("got %q", v.StringVal())
	}
	v2 := FixedStr("abcdefghij", 5)
	if v2.StringVal() != "abcde" {
		t.Fatalf("got %q", v2.StringVal())
	}
}

func TestByteRoundTrip(t *testing.T) {
	orig := Long(513)
	for i := 0; i < orig.ByteSize(); i++ {
		b, err := orig.PeekByte(i)
		if err != nil {
			t.Fatalf("peek: %v", err)
		}
		roundtripped, err := orig.PokeByte(i, b)
		if err != nil {
			t.Fatalf("poke: %v", err)
		}
		if roundtripped.LongVal() != orig.LongVal() {
			t.Fatalf("roundtrip mismatch at byte %d", i)
		}
	}
	b0, _ := orig.PeekByte(0)
	b1, _ := orig.PeekByte(1)
	if b0 != 1 || b1 != 2 {
		t.Fatalf("little-endian bytes wrong: %d %d", b0, b1)
	}
}

func TestPeekByteOutOfRange(t *testing.T) {
	if _, err := Int(1).PeekByte(5); !rterr.Is(err, rterr.SubscriptOutOfRange) {
		t.Fatalf("expected SubscriptOutOfRange, got %v", err)
	}
}

func TestCastRounding(t *testing.T) {
	got, err := Single(3.6).Cast(QualInteger)
	if err != nil || got.IntVal() != 4 {
		t.Fatalf("got %v err %v", got.IntVal(), err)
	}
	got, err = Single(-3.6).Cast(QualInteger)
	if err != nil || got.IntVal() != -4 {
		t.Fatalf("got %v err %v", got.IntVal(), err)
	}
}

func TestCastStringFails(t *testing.T) {
	if _, err := Str("x").Cast(QualInteger); !rterr.Is(err, rterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if _, err := Int(1).Cast(QualString); !rterr.Is(err, rterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}
