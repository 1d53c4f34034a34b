package context

import (
	"testing"

	"basic/internal/arrays"
	"basic/internal/rtypes"
	"basic/internal/store"
	"basic/internal/variables"
	"basic/internal/variant"
)

func TestBeginStopCollectingArgumentsPushesNewFrame(t *testing.T) {
	c := New(rtypes.NewRegistry())
	c.Variables().Set("G%", store.Scalar(variant.Int(1)))

	c.BeginCollectingArguments()
	args, err := c.CurrentArguments()
	if err != nil {
		t.Fatalf("CurrentArguments: %v", err)
	}
	args.PushUnnamedByVal(store.Scalar(variant.Int(7)))

	if err := c.StopCollectingArguments(); err != nil {
		t.Fatalf("StopCollectingArguments: %v", err)
	}
	if c.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", c.Depth())
	}
	v, ok := c.Variables().Get("0")
	if !ok || v.AsScalar().IntVal() != 7 {
		t.Fatalf("callee argument missing: %v ok=%v", v, ok)
	}

	if err := c.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if c.Depth() != 1 {
		t.Fatalf("Depth after pop = %d, want 1", c.Depth())
	}
	g, ok := c.Variables().Get("G%")
	if !ok || g.AsScalar().IntVal() != 1 {
		t.Fatalf("global scope corrupted after pop: %v ok=%v", g, ok)
	}
}

func TestStaticSubprogramPersistsAcrossCalls(t *testing.T) {
	c := New(rtypes.NewRegistry())

	c.BeginCollectingArguments()
	args, _ := c.CurrentArguments()
	args.PushNamed("N%", store.Scalar(variant.Int(1)))
	if err := c.StopCollectingArgumentsStatic("COUNTER"); err != nil {
		t.Fatalf("first static call: %v", err)
	}
	c.Variables().Set("TOTAL%", store.Scalar(variant.Int(100)))
	if err := c.Pop(); err != nil {
		t.Fatalf("pop 1: %v", err)
	}

	c.BeginCollectingArguments()
	args2, _ := c.CurrentArguments()
	args2.PushNamed("N%", store.Scalar(variant.Int(2)))
	if err := c.StopCollectingArgumentsStatic("COUNTER"); err != nil {
		t.Fatalf("second static call: %v", err)
	}
	total, ok := c.Variables().Get("TOTAL%")
	if !ok || total.AsScalar().IntVal() != 100 {
		t.Fatalf("STATIC block did not persist TOTAL%%: %v ok=%v", total, ok)
	}
}

func TestVarPtrRootSumsEarlierVariables(t *testing.T) {
	c := New(rtypes.NewRegistry())
	c.Variables().Set("A%", store.Scalar(variant.Int(1))) // 2 bytes
	c.Variables().Set("B&", store.Scalar(variant.Long(1)))

	ptr, err := c.CalculateVarPtr(variables.Root("B&", false))
	if err != nil {
		t.Fatalf("CalculateVarPtr: %v", err)
	}
	if ptr != 2 {
		t.Fatalf("varptr(B&) = %d, want 2", ptr)
	}
	seg, err := c.CalculateVarSeg(variables.Root("B&", false))
	if err != nil {
		t.Fatalf("CalculateVarSeg: %v", err)
	}
	if seg != VarSegBase {
		t.Fatalf("varseg(B&) = %d, want %d", seg, VarSegBase)
	}
}

func TestVarPtrPeekPokeRoundTrip(t *testing.T) {
	c := New(rtypes.NewRegistry())
	c.Variables().Set("A%", store.Scalar(variant.Int(1)))
	c.Variables().Set("B&", store.Scalar(variant.Long(513)))

	ptr, _ := c.CalculateVarPtr(variables.Root("B&", false))
	b0, err := c.Peek(VarSegBase, ptr)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	b1, _ := c.Peek(VarSegBase, ptr+1)
	if b0 != 1 || b1 != 2 {
		t.Fatalf("peek bytes = %d,%d, want 1,2", b0, b1)
	}

	if err := c.Poke(VarSegBase, ptr, 9); err != nil {
		t.Fatalf("Poke: %v", err)
	}
	got, ok := c.Variables().Get("B&")
	if !ok || got.AsScalar().LongVal() != 521 {
		t.Fatalf("B& after poke = %v, want 521", got)
	}
}

func TestVarSegForArrayElement(t *testing.T) {
	c := New(rtypes.NewRegistry())
	c.Variables().Set("A%", store.Scalar(variant.Int(1)))
	arr, err := arrays.New([]arrays.Dim{{Lower: 1, Upper: 3}}, variant.Int(0), variant.QualInteger)
	if err != nil {
		t.Fatalf("arrays.New: %v", err)
	}
	c.Variables().Set("NUMS", store.FromArray(arr))

	elem := variables.ArrayElement(variables.Root("NUMS", false), []variant.Variant{variant.Int(2)})
	seg, err := c.CalculateVarSeg(elem)
	if err != nil {
		t.Fatalf("CalculateVarSeg: %v", err)
	}
	if seg != VarSegBase+1 {
		t.Fatalf("varseg(array element) = %d, want %d", seg, VarSegBase+1)
	}
	ptr, err := c.CalculateVarPtr(elem)
	if err != nil {
		t.Fatalf("CalculateVarPtr: %v", err)
	}
	if ptr != 2 {
		t.Fatalf("varptr(NUMS(2)) = %d, want 2 (1-based index 2 -> abs 1 * elemSize 2)", ptr)
	}
}

func TestRecordFieldVarPtr(t *testing.T) {
	reg := rtypes.NewRegistry()
	layout := rtypes.RecordLayout{
		TypeName: "Point",
		Fields: []rtypes.FieldDef{
			{Name: "X", Qual: variant.QualInteger},
			{Name: "Y", Qual: variant.QualLong},
		},
	}
	reg.Register(layout)
	rec, err := rtypes.NewRecord(reg, &layout)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}

	c := New(reg)
	c.Variables().Set("P", store.FromRecord(rec))

	yPath := variables.Property(variables.Root("P", false), "Y")
	ptr, err := c.CalculateVarPtr(yPath)
	if err != nil {
		t.Fatalf("CalculateVarPtr: %v", err)
	}
	if ptr != 2 {
		t.Fatalf("varptr(P.Y) = %d, want 2", ptr)
	}
}

func TestPeekOutOfRangeFails(t *testing.T) {
	c := New(rtypes.NewRegistry())
	c.Variables().Set("A%", store.Scalar(variant.Int(1)))
	if _, err := c.Peek(VarSegBase, 1000); err == nil {
		t.Fatal("expected out-of-range Peek to fail")
	}
}
