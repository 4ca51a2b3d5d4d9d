package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Line is one assembled instruction with its source position.
type Line struct {
	LineNo      int         // Source line number, or instruction index when disassembled.
	Ip          int         // Byte offset of the instruction in the binary.
	Words       []string    // Source fields, after equate expansion.
	Instruction Instruction // Validated instruction.
}

// Program is an ordered list of assembled lines.
type Program struct {
	Lines []Line
}

// Binary returns the concatenated instruction encodings.
func (prog *Program) Binary() (data []byte) {
	for _, line := range prog.Lines {
		data = append(data, line.Instruction.Encode()...)
	}

	return
}

// Size returns the binary size in bytes.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size += line.Instruction.Size()
	}

	return
}

// Debug returns the line whose instruction covers ip, or nil.
func (prog *Program) Debug(ip int) *Line {
	for n, line := range prog.Lines {
		if ip >= line.Ip && ip < line.Ip+line.Instruction.Size() {
			return &prog.Lines[n]
		}
	}

	return nil
}

// Instructions iterates over the instructions, keyed by ip.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(ip int, instr Instruction) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Ip, line.Instruction) {
				return
			}
		}
	}
}

// Intermediate renders one "A=op, B=.., C=.." line per instruction.
func (prog *Program) Intermediate() string {
	var sb strings.Builder
	for _, instr := range prog.Instructions() {
		sb.WriteString(Intermediate(instr))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders a listing of ip, encoded bytes and instruction.
func (prog *Program) String() string {
	var sb strings.Builder
	for ip, instr := range prog.Instructions() {
		hex := fmt.Sprintf("% x", instr.Encode())
		fmt.Fprintf(&sb, "%04x: %-17s %v\n", ip, hex, instr)
	}
	return sb.String()
}

// Disassemble decodes a whole binary. On a decode failure the instructions
// decoded so far are returned with the error.
func Disassemble(data []byte) (prog *Program, err error) {
	prog = &Program{}

	for ip := 0; ip < len(data); {
		var instr Instruction
		var size int
		instr, size, err = Decode(data, ip)
		if err != nil {
			return
		}
		prog.Lines = append(prog.Lines, Line{
			LineNo:      len(prog.Lines) + 1,
			Ip:          ip,
			Instruction: instr,
		})
		ip += size
	}

	return
}
