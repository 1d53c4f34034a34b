package arrays

import (
	"testing"

	"basic/internal/rterr"
	"basic/internal/variant"
)

func TestAbsIndexRowMajor(t *testing.T) {
	a, err := New([]Dim{{1, 2}, {1, 3}}, variant.Int(0), variant.QualInteger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	idx, err := a.AbsIndex([]int{2, 1})
	if err != nil {
		t.Fatalf("AbsIndex: %v", err)
	}
	if idx != 3 {
		t.Fatalf("got %d, want 3", idx)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	a, _ := New([]Dim{{1, 2}}, variant.Int(0), variant.QualInteger)
	if err := a.Set([]int{1}, variant.Int(513)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := a.Get([]int{1})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IntVal() != 513 {
		t.Fatalf("got %d", got.IntVal())
	}
}

func TestOutOfRangeBounds(t *testing.T) {
	a, _ := New([]Dim{{1, 2}}, variant.Int(0), variant.QualInteger)
	if _, err := a.Get([]int{3}); !rterr.Is(err, rterr.SubscriptOutOfRange) {
		t.Fatalf("expected SubscriptOutOfRange, got %v", err)
	}
}

func TestUpperLessThanLowerFails(t *testing.T) {
	if _, err := New([]Dim{{5, 1}}, variant.Int(0), variant.QualInteger); !rterr.Is(err, rterr.SubscriptOutOfRange) {
		t.Fatalf("expected SubscriptOutOfRange, got %v", err)
	}
}

func TestLBoundUBoundDefaultDim(t *testing.T) {
	a, _ := New([]Dim{{1, 2}, {3, 5}}, variant.Int(0), variant.QualInteger)
	lb, _ := a.LBound(1)
	ub, _ := a.UBound(2)
	if lb != 1 || ub != 5 {
		t.Fatalf("got lb=%d ub=%d", lb, ub)
	}
	if _, err := a.LBound(3); !rterr.Is(err, rterr.SubscriptOutOfRange) {
		t.Fatalf("expected SubscriptOutOfRange for bad dim")
	}
}
