package builtins

import (
	"testing"

	"basic/internal/filemanager"
	"basic/internal/rterr"
	"basic/internal/variant"
)

func TestLenBytesNotChars(t *testing.T) {
	if Len("hello") != 5 {
		t.Fatalf("Len(hello) = %d", Len("hello"))
	}
	if Len("") != 0 {
		t.Fatalf("Len('') = %d", Len(""))
	}
}

func TestInstrEdgeCases(t *testing.T) {
	n, err := Instr(1, "hello", "")
	if err != nil || n != 1 {
		t.Fatalf("INSTR(hay,'') = %d, err=%v, want 1", n, err)
	}
	n, err = Instr(1, "", "x")
	if err != nil || n != 0 {
		t.Fatalf("INSTR('',needle) = %d, err=%v, want 0", n, err)
	}
	n, err = Instr(1, "", "")
	if err != nil || n != 0 {
		t.Fatalf("INSTR('','') = %d, err=%v, want 0", n, err)
	}
	n, err = Instr(1, "hello world", "world")
	if err != nil || n != 7 {
		t.Fatalf("INSTR(hay,world) = %d, err=%v, want 7", n, err)
	}
}

func TestLeftRightMid(t *testing.T) {
	s, _ := Left("hello", 3)
	if s != "hel" {
		t.Fatalf("LEFT$ = %q", s)
	}
	s, _ = Left("hi", 10)
	if s != "hi" {
		t.Fatalf("LEFT$ overrun = %q", s)
	}
	if _, err := Left("hi", -1); !rterr.Is(err, rterr.IllegalFunctionCall) {
		t.Fatalf("expected IllegalFunctionCall")
	}

	s, _ = Right("hello", 3)
	if s != "llo" {
		t.Fatalf("RIGHT$ = %q", s)
	}

	s, _ = Mid("hello world", 7, 0, false)
	if s != "world" {
		t.Fatalf("MID$ no-length = %q", s)
	}
	s, _ = Mid("hello world", 1, 5, true)
	if s != "hello" {
		t.Fatalf("MID$ with length = %q", s)
	}
}

func TestVal(t *testing.T) {
	v := Val("  123")
	if v.Kind != variant.KindInteger || v.IntVal() != 123 {
		t.Fatalf("Val(123) = %v", v)
	}
	v = Val("3.14")
	if v.Kind != variant.KindDouble || v.DoubleVal() != 3.14 {
		t.Fatalf("Val(3.14) = %v", v)
	}
	v = Val("abc")
	if v.Kind != variant.KindInteger || v.IntVal() != 0 {
		t.Fatalf("Val(abc) = %v", v)
	}
	v = Val("100000")
	if v.Kind != variant.KindLong || v.LongVal() != 100000 {
		t.Fatalf("Val(100000) = %v", v)
	}
}

func TestCVIMKIRoundTrip(t *testing.T) {
	s, err := MKI(variant.Int(513))
	if err != nil {
		t.Fatalf("MKI: %v", err)
	}
	v, err := CVI(s)
	if err != nil {
		t.Fatalf("CVI: %v", err)
	}
	if v.IntVal() != 513 {
		t.Fatalf("CVI(MKI(513)) = %d", v.IntVal())
	}
}

func TestCVDMKDRoundTrip(t *testing.T) {
	s, err := MKD(variant.Double(2.5))
	if err != nil {
		t.Fatalf("MKD: %v", err)
	}
	v, err := CVD(s)
	if err != nil {
		t.Fatalf("CVD: %v", err)
	}
	if v.DoubleVal() != 2.5 {
		t.Fatalf("CVD(MKD(2.5)) = %v", v.DoubleVal())
	}
}

func TestLSetPadsAndTruncates(t *testing.T) {
	fm := filemanager.New()
	path := t.TempDir() + "/r.dat"
	if err := fm.Open(1, path, filemanager.ModeRandom, 10); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fm.AddFieldList(1, []filemanager.FieldDef{{Name: "NAME$", Width: 5}}); err != nil {
		t.Fatalf("FIELD: %v", err)
	}
	v, err := LSet(fm, "NAME$", variant.Str("ab"))
	if err != nil {
		t.Fatalf("LSET: %v", err)
	}
	if v.ByteSize() != 5 {
		t.Fatalf("LSET result size = %d, want 5", v.ByteSize())
	}
	v, err = LSet(fm, "NAME$", variant.Str("abcdefg"))
	if err != nil {
		t.Fatalf("LSET: %v", err)
	}
	if v.StringVal() != "abcde" {
		t.Fatalf("LSET truncation = %q, want \"abcde\"", v.StringVal())
	}
}

func TestReadDataRestore(t *testing.T) {
	values := []variant.Variant{variant.Int(1), variant.Int(2), variant.Int(3)}
	cursor := 0
	v, err := ReadNext(values, &cursor)
	if err != nil || v.IntVal() != 1 {
		t.Fatalf("ReadNext = %v, err=%v", v, err)
	}
	v, _ = ReadNext(values, &cursor)
	if v.IntVal() != 2 {
		t.Fatalf("ReadNext second = %v", v)
	}
	if err := Restore(nil, "", false, &cursor); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if cursor != 0 {
		t.Fatalf("cursor after RESTORE = %d, want 0", cursor)
	}
	v, _ = ReadNext(values, &cursor)
	if v.IntVal() != 1 {
		t.Fatalf("ReadNext after RESTORE = %v", v)
	}

	cursor = len(values)
	if _, err := ReadNext(values, &cursor); !rterr.Is(err, rterr.Other) {
		t.Fatalf("expected Out of DATA, got %v", err)
	}
}

func TestSwapRequiresSameKind(t *testing.T) {
	a, b, err := Swap(variant.Int(1), variant.Int(2))
	if err != nil || a.IntVal() != 2 || b.IntVal() != 1 {
		t.Fatalf("Swap = %v,%v,%v", a, b, err)
	}
	if _, _, err := Swap(variant.Int(1), variant.Str("x")); !rterr.Is(err, rterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}
