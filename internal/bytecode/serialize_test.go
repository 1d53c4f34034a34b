package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"basic/internal/variant"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	prog := &Program{
		Instructions: []Instruction{
			{Op: OpLoadIntoA, Literal: variant.Int(42)},
			{
				Op:    OpPushNamed,
				Name:  "X",
				Param: ParamDescriptor{Name: "arg1", ByRef: true},
				Pos:   SourcePosition{Line: 3, Column: 7},
			},
			{Op: OpLoadIntoA, Literal: variant.FixedStr("HI", 5)},
			{Op: OpLoadIntoA, Literal: variant.Double(3.5)},
			{Op: OpHalt},
		},
		StatementAddresses: []int{0, 2, 4},
		Data: DataSegment{
			Values: []variant.Variant{variant.Int(1), variant.Str("a")},
			Labels: map[string]int{"TOP": 0},
		},
	}

	var buf bytes.Buffer
	if err := prog.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Deserialize(&buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if diff := pretty.Diff(got, prog); len(diff) > 0 {
		t.Fatalf("round trip mismatch:\n%s", strings.Join(diff, "\n"))
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
	if _, err := Deserialize(buf); err == nil {
		t.Fatal("expected an error for a bad magic number")
	}
}
