package cpu

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instruction is a validated, immutable machine instruction.
// The concrete types are LoadConst, ReadMem, WriteMem and Abs.
type Instruction interface {
	// Opcode returns the instruction tag.
	Opcode() Opcode
	// Args returns the argument values in assembly order.
	Args() []int64
	// Size returns the encoded size in bytes.
	Size() int
	// Encode returns the exact binary form.
	Encode() []byte
	String() string

	instruction()
}

// LoadConst sets register Dest to the signed constant Const.
type LoadConst struct {
	value int32
	dest  uint8
}

// ReadMem copies data memory cell Addr to register Dest.
type ReadMem struct {
	addr uint32
	dest uint8
}

// WriteMem stores register ValueReg at the data address held in AddrReg.
type WriteMem struct {
	addrReg  uint8
	valueReg uint8
}

// Abs stores |SrcReg| at data address BaseReg+Offset.
type Abs struct {
	offset  int16
	baseReg uint8
	srcReg  uint8
}

func (in LoadConst) Const() int32 { return in.value }
func (in LoadConst) Dest() uint8  { return in.dest }

func (in ReadMem) Addr() uint32 { return in.addr }
func (in ReadMem) Dest() uint8  { return in.dest }

func (in WriteMem) AddrReg() uint8  { return in.addrReg }
func (in WriteMem) ValueReg() uint8 { return in.valueReg }

func (in Abs) Offset() int16  { return in.offset }
func (in Abs) BaseReg() uint8 { return in.baseReg }
func (in Abs) SrcReg() uint8  { return in.srcReg }

func (LoadConst) Opcode() Opcode { return OP_LOAD_CONST }
func (ReadMem) Opcode() Opcode   { return OP_READ_MEM }
func (WriteMem) Opcode() Opcode  { return OP_WRITE_MEM }
func (Abs) Opcode() Opcode       { return OP_ABS }

func (in LoadConst) Args() []int64 { return []int64{int64(in.value), int64(in.dest)} }
func (in ReadMem) Args() []int64   { return []int64{int64(in.addr), int64(in.dest)} }
func (in WriteMem) Args() []int64  { return []int64{int64(in.addrReg), int64(in.valueReg)} }
func (in Abs) Args() []int64 {
	return []int64{int64(in.offset), int64(in.baseReg), int64(in.srcReg)}
}

func (in LoadConst) Size() int { return OP_LOAD_CONST.Size() }
func (in ReadMem) Size() int   { return OP_READ_MEM.Size() }
func (in WriteMem) Size() int  { return OP_WRITE_MEM.Size() }
func (in Abs) Size() int       { return OP_ABS.Size() }

func (in LoadConst) Encode() []byte { return encode(in) }
func (in ReadMem) Encode() []byte   { return encode(in) }
func (in WriteMem) Encode() []byte  { return encode(in) }
func (in Abs) Encode() []byte       { return encode(in) }

func (in LoadConst) String() string { return format(in) }
func (in ReadMem) String() string   { return format(in) }
func (in WriteMem) String() string  { return format(in) }
func (in Abs) String() string       { return format(in) }

func (LoadConst) instruction() {}
func (ReadMem) instruction()   {}
func (WriteMem) instruction()  {}
func (Abs) instruction()       {}

// NewInstruction validates the arguments of an opcode and builds the
// instruction.
//
// Signed fields (LOAD_CONST const, ABS offset) accept any value in
// [-2^(w-1), 2^w-1]; values at or above 2^(w-1) are taken as already folded
// two's-complement patterns. The stored value is always the sign extended
// one, so decoding an encoded instruction yields an equal instruction.
func NewInstruction(op Opcode, args ...int64) (instr Instruction, err error) {
	layout, ok := op.Layout()
	if !ok {
		err = &ErrValidation{Opcode: op, Value: int64(op), Err: ErrOpcodeUnknown}
		return
	}

	if len(args) != len(layout.Fields) {
		err = &ErrValidation{Opcode: op, Value: int64(len(args)), Err: ErrArgCount}
		return
	}

	fields := make([]int64, len(args))
	for n, fd := range layout.Fields {
		value := args[n]
		if value < fd.Min() || value > fd.Max() {
			err = &ErrValidation{Opcode: op, Field: fd.Name, Value: value, Err: ErrArgRange}
			return
		}
		fields[n] = fd.canonical(value)
	}

	instr = build(op, fields)
	return
}

// build makes the concrete instruction from canonical field values.
func build(op Opcode, fields []int64) Instruction {
	switch op {
	case OP_LOAD_CONST:
		return LoadConst{value: int32(fields[0]), dest: uint8(fields[1])}
	case OP_READ_MEM:
		return ReadMem{addr: uint32(fields[0]), dest: uint8(fields[1])}
	case OP_WRITE_MEM:
		return WriteMem{addrReg: uint8(fields[0]), valueReg: uint8(fields[1])}
	case OP_ABS:
		return Abs{offset: int16(fields[0]), baseReg: uint8(fields[1]), srcReg: uint8(fields[2])}
	}

	panic("unknown opcode " + op.String())
}

// encode packs the opcode at bit 0 and each field at its offset into a
// little-endian word, truncated to the instruction size.
func encode(instr Instruction) []byte {
	op := instr.Opcode()
	layout, _ := op.Layout()

	word := uint64(op)
	for n, arg := range instr.Args() {
		fd := layout.Fields[n]
		word |= (uint64(arg) & fd.mask()) << fd.Offset
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)

	data := make([]byte, layout.Size)
	copy(data, buf[:layout.Size])
	return data
}

// format renders "OPCODE field=value, ..."
func format(instr Instruction) string {
	op := instr.Opcode()
	layout, _ := op.Layout()

	args := instr.Args()
	words := make([]string, len(args))
	for n, arg := range args {
		words[n] = fmt.Sprintf("%v=%d", layout.Fields[n].Name, arg)
	}

	return fmt.Sprintf("%v %v", op, strings.Join(words, ", "))
}

// Intermediate returns the assembler test representation "A=op, B=.., C=..".
func Intermediate(instr Instruction) string {
	words := []string{fmt.Sprintf("A=%d", uint8(instr.Opcode()))}
	for n, arg := range instr.Args() {
		words = append(words, fmt.Sprintf("%c=%d", 'B'+n, arg))
	}
	return strings.Join(words, ", ")
}
