package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Validation errors
	ErrInvalid       = errors.New(f("instruction invalid"))
	ErrArgCount      = errors.New(f("argument count"))
	ErrArgRange      = errors.New(f("argument out of range"))
	ErrOpcodeUnknown = errors.New(f("opcode unknown"))

	// Decode errors
	ErrTruncated = errors.New(f("truncated instruction"))

	// Runtime errors
	ErrOutOfRange      = errors.New(f("out of range"))
	ErrAddressNegative = errors.New(f("negative address"))

	// Cpu errors
	ErrProgramEmpty = errors.New(f("program empty"))
	ErrHalted       = errors.New(f("cpu halted"))
	ErrConfig       = errors.New(f("configuration invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOpcodeMissing   = errors.New(f("opcode missing"))
	ErrArgMissing      = errors.New(f("argument missing"))
)

// ErrValidation reports an instruction rejected at construction.
type ErrValidation struct {
	Opcode Opcode
	Field  string
	Value  int64
	Err    error
}

func (err *ErrValidation) Error() string {
	if len(err.Field) == 0 {
		return f("%v: %v (%d)", err.Opcode, err.Err, err.Value)
	}
	return f("%v %v=%d: %v", err.Opcode, err.Field, err.Value, err.Err)
}

func (err *ErrValidation) Unwrap() []error {
	return []error{ErrInvalid, err.Err}
}

// ErrDecode reports a program byte sequence that cannot be decoded.
type ErrDecode struct {
	Ip  int
	Err error
}

func (err *ErrDecode) Error() string {
	return f("decode at 0x%04x: %v", err.Ip, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// ErrBounds reports an index outside a register or data memory bank.
type ErrBounds struct {
	Bank     string
	Index    int64
	Capacity int
}

func (err ErrBounds) Error() string {
	return f("%v %d out of range [0, %d)", err.Bank, err.Index, err.Capacity)
}

func (err ErrBounds) Unwrap() error {
	return ErrOutOfRange
}

// ErrExecute reports a fault while executing the instruction at Ip.
type ErrExecute struct {
	Ip          int
	Instruction Instruction
	Err         error
}

func (err *ErrExecute) Error() string {
	return f("execute at 0x%04x %v: %v", err.Ip, err.Instruction, err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

// ErrSyntax reports an assembler failure on a source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
