package variables

import (
	"testing"

	"basic/internal/arrays"
	"basic/internal/rtypes"
	"basic/internal/store"
	"basic/internal/variant"
)

func nilRegistry() *rtypes.Registry { return rtypes.NewRegistry() }

func mustArray(t *testing.T) *arrays.Array {
	t.Helper()
	a, err := arrays.New([]arrays.Dim{{Lower: 1, Upper: 3}}, variant.Int(0), variant.QualInteger)
	if err != nil {
		t.Fatalf("arrays.New: %v", err)
	}
	return a
}

func TestSetGetPreservesInsertionOrder(t *testing.T) {
	v := New()
	v.Set("B%", store.Scalar(variant.Int(2)))
	v.Set("A%", store.Scalar(variant.Int(1)))
	names := v.Names()
	if len(names) != 2 || names[0] != "B%" || names[1] != "A%" {
		t.Fatalf("unexpected order: %v", names)
	}
}

func TestSetOverwriteDoesNotReorder(t *testing.T) {
	v := New()
	v.Set("A%", store.Scalar(variant.Int(1)))
	v.Set("B%", store.Scalar(variant.Int(2)))
	v.Set("A%", store.Scalar(variant.Int(99)))

	names := v.Names()
	if names[0] != "A%" || names[1] != "B%" {
		t.Fatalf("overwrite reordered: %v", names)
	}
	got, ok := v.Get("A%")
	if !ok || got.AsScalar().IntVal() != 99 {
		t.Fatalf("A%% not updated: %v ok=%v", got, ok)
	}
}

func TestArgPathRoundTrip(t *testing.T) {
	v := New()
	p := Root("X%", false)
	v.SetWithArgPath("0", store.Scalar(variant.Int(5)), p)

	got, ok := v.ArgPath("0")
	if !ok || got.Name != "X%" {
		t.Fatalf("ArgPath lookup failed: %v ok=%v", got, ok)
	}
}

func TestGetByIndexAndSetByIndex(t *testing.T) {
	v := New()
	v.Set("A%", store.Scalar(variant.Int(1)))
	v.Set("B%", store.Scalar(variant.Int(2)))

	if !v.SetByIndex(1, store.Scalar(variant.Int(42))) {
		t.Fatal("SetByIndex(1) failed")
	}
	got, ok := v.GetByIndex(1)
	if !ok || got.AsScalar().IntVal() != 42 {
		t.Fatalf("GetByIndex(1) = %v ok=%v", got, ok)
	}
	if _, ok := v.GetByIndex(5); ok {
		t.Fatal("expected out-of-range GetByIndex to fail")
	}
}

func TestByteSizeBeforeAndTotal(t *testing.T) {
	v := New()
	v.Set("A%", store.Scalar(variant.Int(1)))  // 2 bytes
	v.Set("B&", store.Scalar(variant.Long(1))) // 4 bytes
	v.Set("C!", store.Scalar(variant.Single(1)))

	reg := nilRegistry()
	before, err := v.ByteSizeBefore(reg, "C!")
	if err != nil {
		t.Fatalf("ByteSizeBefore: %v", err)
	}
	if before != 6 {
		t.Fatalf("ByteSizeBefore(C!) = %d, want 6", before)
	}

	total, err := v.ByteSize(reg)
	if err != nil {
		t.Fatalf("ByteSize: %v", err)
	}
	if total != 10 {
		t.Fatalf("ByteSize = %d, want 10", total)
	}
}

func TestArrayIndices(t *testing.T) {
	v := New()
	v.Set("A%", store.Scalar(variant.Int(1)))
	arr := mustArray(t)
	v.Set("ARR", store.FromArray(arr))
	v.Set("B%", store.Scalar(variant.Int(2)))

	idx := v.ArrayIndices()
	if len(idx) != 1 || idx[0] != 1 {
		t.Fatalf("ArrayIndices = %v, want [1]", idx)
	}
}
