package cpu

import (
	"iter"
	"slices"
)

const (
	REGISTER_COUNT = 32    // Default register bank size.
	DATA_SIZE      = 65536 // Default data memory size, in words.
)

// Word is a raw 32-bit storage cell.
type Word uint32

// Signed returns the two's-complement value of the word.
func (w Word) Signed() int32 {
	return int32(w)
}

// Raw returns the unsigned bit pattern of the word.
func (w Word) Raw() uint32 {
	return uint32(w)
}

// Bank holds the register file, the data memory and the loaded program.
// Values are stored as raw words; all reads and writes go through
// two's-complement conversion and bounds checks.
type Bank struct {
	register []Word
	data     []Word
	program  []byte
	version  uint64

	executed int
	accesses int
}

// NewBank creates a bank with the given register and data memory sizes.
func NewBank(registers, data int) (bank *Bank) {
	bank = &Bank{
		register: make([]Word, registers),
		data:     make([]Word, data),
	}

	return
}

// Clear zeros registers, data memory and counters, and drops the program.
func (bank *Bank) Clear() {
	clear(bank.register)
	clear(bank.data)
	bank.program = nil
	bank.version++
	bank.executed = 0
	bank.accesses = 0
}

// RegisterCount returns the number of registers.
func (bank *Bank) RegisterCount() int {
	return len(bank.register)
}

// DataSize returns the number of data memory words.
func (bank *Bank) DataSize() int {
	return len(bank.data)
}

// Executed returns the count of executed instructions.
func (bank *Bank) Executed() int {
	return bank.executed
}

// Accesses returns the count of data memory reads and writes.
func (bank *Bank) Accesses() int {
	return bank.accesses
}

func (bank *Bank) countExecuted() {
	bank.executed++
}

func registerIndex(bank *Bank, index int) (err error) {
	if index < 0 || index >= len(bank.register) {
		err = ErrBounds{Bank: "register", Index: int64(index), Capacity: len(bank.register)}
	}
	return
}

func dataIndex(bank *Bank, addr int) (err error) {
	if addr < 0 || addr >= len(bank.data) {
		err = ErrBounds{Bank: "data", Index: int64(addr), Capacity: len(bank.data)}
	}
	return
}

// ReadRegister returns the signed value of register index.
func (bank *Bank) ReadRegister(index int) (value int32, err error) {
	err = registerIndex(bank, index)
	if err != nil {
		return
	}

	value = bank.register[index].Signed()
	return
}

// WriteRegister stores the bit pattern of value in register index.
func (bank *Bank) WriteRegister(index int, value int32) (err error) {
	err = registerIndex(bank, index)
	if err != nil {
		return
	}

	bank.register[index] = Word(value)
	return
}

// ReadData returns the signed value of data memory cell addr.
func (bank *Bank) ReadData(addr int) (value int32, err error) {
	err = dataIndex(bank, addr)
	if err != nil {
		return
	}

	bank.accesses++
	value = bank.data[addr].Signed()
	return
}

// WriteData stores the bit pattern of value in data memory cell addr.
func (bank *Bank) WriteData(addr int, value int32) (err error) {
	err = dataIndex(bank, addr)
	if err != nil {
		return
	}

	bank.accesses++
	bank.data[addr] = Word(value)
	return
}

// LoadProgram replaces the program buffer with a copy of program.
// Registers and data memory are untouched.
func (bank *Bank) LoadProgram(program []byte) {
	bank.program = slices.Clone(program)
	bank.version++
}

// ProgramVersion changes every time the program is replaced or cleared.
func (bank *Bank) ProgramVersion() uint64 {
	return bank.version
}

// Program returns the loaded program buffer. It must not be modified.
func (bank *Bank) Program() []byte {
	return bank.program
}

// Register returns the raw word of a register.
func (bank *Bank) Register(index int) (word Word, err error) {
	err = registerIndex(bank, index)
	if err == nil {
		word = bank.register[index]
	}
	return
}

// Registers iterates over every register in index order.
func (bank *Bank) Registers() iter.Seq2[int, Word] {
	return func(yield func(int, Word) bool) {
		for n, word := range bank.register {
			if !yield(n, word) {
				return
			}
		}
	}
}

// Clamp limits an inclusive [start, end] address range to data memory.
func (bank *Bank) Clamp(start, end int) (int, int) {
	last := len(bank.data) - 1
	start = max(0, min(start, last))
	end = max(start, min(end, last))
	return start, end
}

// Cells iterates over the inclusive data memory range [start, end], clamped
// to data memory. It does not count as memory accesses.
func (bank *Bank) Cells(start, end int) iter.Seq2[int, Word] {
	return func(yield func(int, Word) bool) {
		if len(bank.data) == 0 {
			return
		}
		start, end := bank.Clamp(start, end)
		for addr := start; addr <= end; addr++ {
			if !yield(addr, bank.data[addr]) {
				return
			}
		}
	}
}
