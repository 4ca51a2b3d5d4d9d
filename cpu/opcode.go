package cpu

// Opcode is the 8-bit tag selecting an instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_WRITE_MEM  = Opcode(12)  // WRITE_MEM
	OP_READ_MEM   = Opcode(17)  // READ_MEM
	OP_LOAD_CONST = Opcode(158) // LOAD_CONST
	OP_ABS        = Opcode(214) // ABS
)

// OPCODE_WIDTH is the bit width of the opcode, always at bit 0.
const OPCODE_WIDTH = 8

// Opcodes lists every opcode of the instruction set.
var Opcodes = []Opcode{OP_LOAD_CONST, OP_READ_MEM, OP_WRITE_MEM, OP_ABS}

// Field is one bit field of an encoded instruction.
type Field struct {
	Name   string // Name used in diagnostics.
	Offset uint   // Bit offset from the LSB of the instruction.
	Width  uint   // Width in bits.
	Signed bool   // Two's-complement signed when decoded.
}

func (fd Field) mask() uint64 {
	return (uint64(1) << fd.Width) - 1
}

// Min returns the smallest value accepted at construction.
func (fd Field) Min() int64 {
	if fd.Signed {
		return -(int64(1) << (fd.Width - 1))
	}
	return 0
}

// Max returns the largest value accepted at construction. For signed fields
// values above the signed maximum are pre-folded two's-complement patterns.
func (fd Field) Max() int64 {
	return int64(fd.mask())
}

// extend interprets a raw field pattern, sign extending signed fields.
func (fd Field) extend(raw uint64) int64 {
	raw &= fd.mask()
	if fd.Signed && (raw&(uint64(1)<<(fd.Width-1))) != 0 {
		return int64(raw) - (int64(1) << fd.Width)
	}
	return int64(raw)
}

// canonical returns the value decoding would produce for a construction value.
func (fd Field) canonical(value int64) int64 {
	return fd.extend(uint64(value))
}

// Layout is the encoded shape of an opcode.
type Layout struct {
	Size   int     // Encoded size in bytes.
	Fields []Field // Argument fields in assembly order.
}

// register5 is a 5-bit register index field.
func register5(name string, offset uint) Field {
	return Field{Name: name, Offset: offset, Width: 5}
}

var layouts = map[Opcode]Layout{
	OP_LOAD_CONST: {Size: 6, Fields: []Field{
		{Name: "const", Offset: 8, Width: 30, Signed: true},
		register5("dest_reg", 38),
	}},
	OP_READ_MEM: {Size: 5, Fields: []Field{
		{Name: "addr", Offset: 8, Width: 26},
		register5("dest_reg", 34),
	}},
	OP_WRITE_MEM: {Size: 3, Fields: []Field{
		register5("addr_reg", 8),
		register5("value_reg", 13),
	}},
	OP_ABS: {Size: 5, Fields: []Field{
		{Name: "offset", Offset: 8, Width: 16, Signed: true},
		register5("base_reg", 24),
		register5("src_reg", 29),
	}},
}

// Layout returns the encoding layout of the opcode.
func (op Opcode) Layout() (layout Layout, ok bool) {
	layout, ok = layouts[op]
	return
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := layouts[op]
	return ok
}

// Size returns the encoded byte size of the opcode, or 0 if unknown.
func (op Opcode) Size() int {
	return layouts[op].Size
}
