// Package cpu implements the processor and assembler for the UVM teaching
// machine.
//
// The machine has an instruction pointer (IP) over a byte-addressed program
// buffer, a bank of 32-bit registers, a word-addressed data memory and an
// ALU with Zero/Negative/Overflow/Carry flags. Four instructions exist:
// LOAD_CONST, READ_MEM, WRITE_MEM and ABS. Each is packed little-endian into
// the fewest whole bytes that hold its 8-bit opcode and argument fields.
//
// The assembler reads one comma separated instruction per line, supporting
// equates and compile-time expression evaluation.
package cpu
