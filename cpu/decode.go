package cpu

import (
	"encoding/binary"
)

// Decode decodes the instruction at byte offset ip of program, returning it
// with its encoded size.
func Decode(program []byte, ip int) (instr Instruction, size int, err error) {
	if ip < 0 || ip >= len(program) {
		err = &ErrDecode{Ip: ip, Err: ErrTruncated}
		return
	}

	op := Opcode(program[ip])
	layout, ok := op.Layout()
	if !ok {
		err = &ErrDecode{Ip: ip, Err: ErrOpcodeUnknown}
		return
	}

	if len(program)-ip < layout.Size {
		err = &ErrDecode{Ip: ip, Err: ErrTruncated}
		return
	}

	var buf [8]byte
	copy(buf[:], program[ip:ip+layout.Size])
	word := binary.LittleEndian.Uint64(buf[:])

	fields := make([]int64, len(layout.Fields))
	for n, fd := range layout.Fields {
		fields[n] = fd.extend(word >> fd.Offset)
	}

	instr = build(op, fields)
	size = layout.Size
	return
}
