package cpu

import (
	"math"
)

// Flags are the ALU status flags of the last operation.
type Flags struct {
	Zero     bool
	Negative bool
	Overflow bool
	Carry    bool
}

// String returns the set flags as "[ZNVC]", or "[ ]" when none are set.
func (fl Flags) String() string {
	var str string
	if fl.Zero {
		str += "Z"
	}
	if fl.Negative {
		str += "N"
	}
	if fl.Overflow {
		str += "V"
	}
	if fl.Carry {
		str += "C"
	}
	if len(str) == 0 {
		str = " "
	}
	return "[" + str + "]"
}

// Alu is the arithmetic unit. Only its flags persist between operations,
// and they are cleared at the start of each one.
type Alu struct {
	Flags Flags
}

// Reset clears all flags.
func (alu *Alu) Reset() {
	alu.Flags = Flags{}
}

// Abs returns the absolute value of value.
//
// abs(MinInt32) is not representable; it saturates to MaxInt32 and sets
// Overflow. Negative is never set, as the result is never negative.
func (alu *Alu) Abs(value int32) (result int32) {
	alu.Reset()

	switch {
	case value == math.MinInt32:
		result = math.MaxInt32
		alu.Flags.Overflow = true
	case value < 0:
		result = -value
	default:
		result = value
	}

	alu.Flags.Zero = result == 0

	return
}
