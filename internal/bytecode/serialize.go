package bytecode

import (
	"encoding/binary"
	"fmt"
	"io"

	"basic/internal/variant"
)

// Serialization format for a compiled Program, grounded on the teacher's
// internal/buildutil.BytecodeFile: a magic number, a version, then every
// field written length-prefixed in binary.LittleEndian. Instructions here
// are a struct array rather than teacher's packed []uint32 code stream, so
// each Instruction is serialized field-by-field instead of word-by-word.
const (
	magicNumber   uint32 = 0x42415343 // "BASC"
	formatVersion uint32 = 1
)

// Serialize writes p in the on-disk format cmd/basic's loader reads back.
func (p *Program) Serialize(w io.Writer) error {
	if err := writeU32(w, magicNumber); err != nil {
		return fmt.Errorf("write magic number: %w", err)
	}
	if err := writeU32(w, formatVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := writeU32(w, uint32(len(p.Instructions))); err != nil {
		return fmt.Errorf("write instruction count: %w", err)
	}
	for i, instr := range p.Instructions {
		if err := writeInstruction(w, instr); err != nil {
			return fmt.Errorf("write instruction %d: %w", i, err)
		}
	}
	if err := writeU32(w, uint32(len(p.StatementAddresses))); err != nil {
		return fmt.Errorf("write statement address count: %w", err)
	}
	for _, addr := range p.StatementAddresses {
		if err := writeI32(w, int32(addr)); err != nil {
			return fmt.Errorf("write statement address: %w", err)
		}
	}
	if err := writeDataSegment(w, p.Data); err != nil {
		return fmt.Errorf("write data segment: %w", err)
	}
	return nil
}

// Deserialize reads a Program back from the format Serialize writes.
func Deserialize(r io.Reader) (*Program, error) {
	magic, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("read magic number: %w", err)
	}
	if magic != magicNumber {
		return nil, fmt.Errorf("not a compiled program: bad magic number")
	}
	version, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version > formatVersion {
		return nil, fmt.Errorf("unsupported program format version: %d", version)
	}

	instrCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("read instruction count: %w", err)
	}
	instrs := make([]Instruction, instrCount)
	for i := range instrs {
		instr, err := readInstruction(r)
		if err != nil {
			return nil, fmt.Errorf("read instruction %d: %w", i, err)
		}
		instrs[i] = instr
	}

	addrCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("read statement address count: %w", err)
	}
	addrs := make([]int, addrCount)
	for i := range addrs {
		v, err := readI32(r)
		if err != nil {
			return nil, fmt.Errorf("read statement address: %w", err)
		}
		addrs[i] = int(v)
	}

	data, err := readDataSegment(r)
	if err != nil {
		return nil, fmt.Errorf("read data segment: %w", err)
	}

	return &Program{Instructions: instrs, StatementAddresses: addrs, Data: data}, nil
}

func writeInstruction(w io.Writer, instr Instruction) error {
	if err := binary.Write(w, binary.LittleEndian, byte(instr.Op)); err != nil {
		return err
	}
	if err := writeI32(w, int32(instr.Addr)); err != nil {
		return err
	}
	if err := writeString(w, instr.Name); err != nil {
		return err
	}
	if err := writeVariant(w, instr.Literal); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, byte(instr.Qual)); err != nil {
		return err
	}
	if err := writeString(w, instr.Param.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, boolByte(instr.Param.ByRef)); err != nil {
		return err
	}
	if err := writeI32(w, int32(instr.Pos.Line)); err != nil {
		return err
	}
	return writeI32(w, int32(instr.Pos.Column))
}

func readInstruction(r io.Reader) (Instruction, error) {
	var instr Instruction
	var op byte
	if err := binary.Read(r, binary.LittleEndian, &op); err != nil {
		return instr, err
	}
	instr.Op = OpCode(op)
	addr, err := readI32(r)
	if err != nil {
		return instr, err
	}
	instr.Addr = int(addr)
	if instr.Name, err = readString(r); err != nil {
		return instr, err
	}
	if instr.Literal, err = readVariant(r); err != nil {
		return instr, err
	}
	var qual byte
	if err := binary.Read(r, binary.LittleEndian, &qual); err != nil {
		return instr, err
	}
	instr.Qual = variant.Qualifier(qual)
	if instr.Param.Name, err = readString(r); err != nil {
		return instr, err
	}
	var byRef byte
	if err := binary.Read(r, binary.LittleEndian, &byRef); err != nil {
		return instr, err
	}
	instr.Param.ByRef = byRef != 0
	line, err := readI32(r)
	if err != nil {
		return instr, err
	}
	instr.Pos.Line = int(line)
	col, err := readI32(r)
	if err != nil {
		return instr, err
	}
	instr.Pos.Column = int(col)
	return instr, nil
}

func writeDataSegment(w io.Writer, data DataSegment) error {
	if err := writeU32(w, uint32(len(data.Values))); err != nil {
		return err
	}
	for _, v := range data.Values {
		if err := writeVariant(w, v); err != nil {
			return err
		}
	}
	if err := writeU32(w, uint32(len(data.Labels))); err != nil {
		return err
	}
	for label, offset := range data.Labels {
		if err := writeString(w, label); err != nil {
			return err
		}
		if err := writeI32(w, int32(offset)); err != nil {
			return err
		}
	}
	return nil
}

func readDataSegment(r io.Reader) (DataSegment, error) {
	var data DataSegment
	n, err := readU32(r)
	if err != nil {
		return data, err
	}
	data.Values = make([]variant.Variant, n)
	for i := range data.Values {
		if data.Values[i], err = readVariant(r); err != nil {
			return data, err
		}
	}
	labelCount, err := readU32(r)
	if err != nil {
		return data, err
	}
	if labelCount > 0 {
		data.Labels = make(map[string]int, labelCount)
		for i := uint32(0); i < labelCount; i++ {
			name, err := readString(r)
			if err != nil {
				return data, err
			}
			offset, err := readI32(r)
			if err != nil {
				return data, err
			}
			data.Labels[name] = int(offset)
		}
	}
	return data, nil
}

// writeVariant encodes one Variant by kind, reconstructing it on read via
// the same constructors the rest of the core uses (variant.Int, variant.Str,
// ...) rather than reaching into its unexported fields.
func writeVariant(w io.Writer, v variant.Variant) error {
	if err := binary.Write(w, binary.LittleEndian, byte(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case variant.KindInteger:
		return writeI32(w, int32(v.IntVal()))
	case variant.KindLong:
		return writeI32(w, int32(v.LongVal()))
	case variant.KindSingle:
		return binary.Write(w, binary.LittleEndian, v.SingleVal())
	case variant.KindDouble:
		return binary.Write(w, binary.LittleEndian, v.DoubleVal())
	case variant.KindString:
		if err := binary.Write(w, binary.LittleEndian, boolByte(v.IsFixedLength())); err != nil {
			return err
		}
		if err := writeI32(w, int32(v.DeclaredLength())); err != nil {
			return err
		}
		return writeString(w, v.StringVal())
	default:
		return fmt.Errorf("unrecognized variant kind %v", v.Kind)
	}
}

func readVariant(r io.Reader) (variant.Variant, error) {
	var kind byte
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return variant.Variant{}, err
	}
	switch variant.Kind(kind) {
	case variant.KindInteger:
		n, err := readI32(r)
		return variant.Int(n), err
	case variant.KindLong:
		n, err := readI32(r)
		return variant.Long(n), err
	case variant.KindSingle:
		var f float32
		err := binary.Read(r, binary.LittleEndian, &f)
		return variant.Single(f), err
	case variant.KindDouble:
		var f float64
		err := binary.Read(r, binary.LittleEndian, &f)
		return variant.Double(f), err
	case variant.KindString:
		var isFixed byte
		if err := binary.Read(r, binary.LittleEndian, &isFixed); err != nil {
			return variant.Variant{}, err
		}
		declaredLen, err := readI32(r)
		if err != nil {
			return variant.Variant{}, err
		}
		s, err := readString(r)
		if err != nil {
			return variant.Variant{}, err
		}
		if isFixed != 0 {
			return variant.FixedStr(s, int(declaredLen)), nil
		}
		return variant.Str(s), nil
	default:
		return variant.Variant{}, fmt.Errorf("unrecognized variant kind tag %d", kind)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func writeU32(w io.Writer, v uint32) error { return binary.Write(w, binary.LittleEndian, v) }
func writeI32(w io.Writer, v int32) error  { return binary.Write(w, binary.LittleEndian, v) }

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
