package bytecode

import "basic/internal/variant"

// SourcePosition is the line/column the instruction-generator recorded for
// an instruction. The lexer/parser that produces it is out of scope for
// this repository (§1); the core only ever reads it back when building a
// stacktrace or answering a RESUME query.
type SourcePosition struct {
	Line, Column int
}

// ParamDescriptor names one formal parameter for PushNamed — it travels
// with the instruction rather than being looked up elsewhere, mirroring
// how every other immediate (literal, address, name) is carried inline.
type ParamDescriptor struct {
	Name  string
	ByRef bool
}

// Instruction is one opaque opcode plus whichever immediates it needs
// (§3.8). Unlike teacher's packed byte-stream Chunk (internal/bytecode
// chunk.go: Code []byte, Constants []interface{}), instructions here are a
// struct array: the register-stack/Path model this core implements reads
// instructions by family, not by decoding raw bytes, so a flat []Instruction
// is the natural idiomatic-Go analogue of teacher's Code+Constants pair.
type Instruction struct {
	Op      OpCode
	Addr    int               // jump/gosub/resume-label target, or an allocate size
	Name    string            // variable/sub/function name
	Literal variant.Variant    // LoadIntoA's immediate
	Qual    variant.Qualifier  // AllocateBuiltIn's type qualifier
	Param   ParamDescriptor    // PushNamed's formal parameter
	Pos     SourcePosition
}

// DataSegment holds the literal values every DATA statement contributed,
// in source order, plus the offsets labels recorded for RESTORE <label>
// (§4.5 supplement: READ/DATA/RESTORE).
type DataSegment struct {
	Values []variant.Variant
	Labels map[string]int
}

// Program is the linearized instruction stream produced by the
// out-of-scope instruction generator and consumed by internal/interp.
// StatementAddresses is the sorted index RESUME/RESUME NEXT search (§4.4
// NearestStatementFinder).
type Program struct {
	Instructions       []Instruction
	StatementAddresses []int
	Data               DataSegment
}

// NewProgram wraps a pre-assembled instruction slice. Statement addresses
// are supplied separately since they are derived from source-level
// statement boundaries the compiler tracks, not recoverable from opcodes
// alone.
func NewProgram(instrs []Instruction, statementAddresses []int) *Program {
	return &Program{Instructions: instrs, StatementAddresses: statementAddresses}
}

// Len reports the instruction count, used by the loop's end-of-program
// check (§4.4: "Execution halts when ... i reaches the end").
func (p *Program) Len() int { return len(p.Instructions) }
