package cpu

//go:generate go tool mockgen -source=tracer.go -destination=tracer_mock.go -package=cpu

// Tracer observes every instruction the cpu executes.
type Tracer interface {
	// Step is called after the instruction at ip completed.
	Step(ip int, instr Instruction, flags Flags)
}
