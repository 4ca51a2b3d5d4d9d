package cpu

import (
	"context"
	"errors"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
)

// State is the run state of the cpu.
type State int

//go:generate go tool stringer -linecomment -type=State,Reason
const (
	STATE_IDLE          = State(0) // idle
	STATE_RUNNING       = State(1) // running
	STATE_HALTED_NORMAL = State(2) // halted
	STATE_HALTED_ERROR  = State(3) // halted(error)
	STATE_HALTED_LIMIT  = State(4) // halted(limit)
)

// Halted returns true for the terminal states.
func (st State) Halted() bool {
	return st >= STATE_HALTED_NORMAL
}

// Reason is why a run halted.
type Reason int

const (
	REASON_NONE         = Reason(0) // none
	REASON_END          = Reason(1) // end of program
	REASON_STEP_LIMIT   = Reason(2) // step limit
	REASON_SAFETY_LIMIT = Reason(3) // safety limit
	REASON_INTERRUPTED  = Reason(4) // interrupted
	REASON_FAULT        = Reason(5) // fault
)

// Halt describes the end of a run.
type Halt struct {
	State  State  // Terminal state.
	Reason Reason // Why the run stopped.
	Ip     int    // Instruction pointer at the halt.
	Steps  int    // Instructions executed by this run.
	Err    error  // Fault, for STATE_HALTED_ERROR.
}

const (
	DEFAULT_LIMIT      = 100000 // Default hard cap on instructions per run.
	DEFAULT_CACHE_SIZE = 4096   // Default decoded instruction cache entries.
)

// Config sizes a cpu. Zero fields take their defaults.
type Config struct {
	Registers int // Register count, default REGISTER_COUNT.
	DataSize  int // Data memory words, default DATA_SIZE.
	Limit     int // Hard cap on instructions per run, default DEFAULT_LIMIT.
	// CacheSize is the number of decoded instructions kept per program.
	// If negative, no cache is used.
	CacheSize int
}

func (config Config) withDefaults() Config {
	if config.Registers == 0 {
		config.Registers = REGISTER_COUNT
	}
	if config.DataSize == 0 {
		config.DataSize = DATA_SIZE
	}
	if config.Limit == 0 {
		config.Limit = DEFAULT_LIMIT
	}
	if config.CacheSize == 0 {
		config.CacheSize = DEFAULT_CACHE_SIZE
	}
	return config
}

type decoded struct {
	instr Instruction
	size  int
}

// Cpu is the fetch-decode-execute engine. It owns its memory bank and ALU.
type Cpu struct {
	Verbose bool   // Set to enable verbose logging.
	Tracer  Tracer // If set, observes each executed instruction.

	Memory *Bank // Registers, data memory and program.
	Alu    Alu   // Arithmetic unit.
	Ip     int   // Byte offset of the next instruction.
	State  State // Run state.
	Limit  int   // Hard cap on instructions per run.

	cache        *lru.Cache[int, decoded]
	cacheVersion uint64 // Bank program version the cache was filled from.
}

// NewCpu creates a cpu sized by config.
func NewCpu(config Config) (cpu *Cpu, err error) {
	config = config.withDefaults()
	if config.Registers < 0 || config.DataSize < 0 || config.Limit < 0 {
		err = ErrConfig
		return
	}

	cpu = &Cpu{
		Memory: NewBank(config.Registers, config.DataSize),
		Limit:  config.Limit,
	}

	if config.CacheSize > 0 {
		cpu.cache, err = lru.New[int, decoded](config.CacheSize)
		if err != nil {
			cpu = nil
			return
		}
	}

	return
}

// Load replaces the program and returns the cpu to idle at ip 0.
// Registers, data memory and counters are kept.
func (cpu *Cpu) Load(program []byte) {
	if cpu.Verbose {
		log.Printf("cpu: load %d bytes", len(program))
	}

	cpu.Memory.LoadProgram(program)
	cpu.Alu.Reset()
	cpu.Ip = 0
	cpu.State = STATE_IDLE
}

// Reset clears all memory, the program and counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Clear()
	cpu.Alu.Reset()
	cpu.Ip = 0
	cpu.State = STATE_IDLE
}

// Fetch decodes the instruction at the current ip.
func (cpu *Cpu) Fetch() (instr Instruction, size int, err error) {
	if cpu.cache != nil {
		if version := cpu.Memory.ProgramVersion(); version != cpu.cacheVersion {
			cpu.cache.Purge()
			cpu.cacheVersion = version
		}
		entry, ok := cpu.cache.Get(cpu.Ip)
		if ok {
			instr, size = entry.instr, entry.size
			return
		}
	}

	instr, size, err = Decode(cpu.Memory.Program(), cpu.Ip)
	if err != nil {
		return
	}

	if cpu.cache != nil {
		cpu.cache.Add(cpu.Ip, decoded{instr: instr, size: size})
	}

	return
}

// dataAddress checks a computed data memory address.
func (cpu *Cpu) dataAddress(addr int64) (err error) {
	bounds := ErrBounds{Bank: "data", Index: addr, Capacity: cpu.Memory.DataSize()}
	switch {
	case addr < 0:
		err = errors.Join(ErrAddressNegative, bounds)
	case addr >= int64(cpu.Memory.DataSize()):
		err = bounds
	}
	return
}

// Execute executes a single decoded instruction. It does not move the ip.
func (cpu *Cpu) Execute(instr Instruction) (err error) {
	mem := cpu.Memory

	switch in := instr.(type) {
	case LoadConst:
		err = mem.WriteRegister(int(in.dest), in.value)
	case ReadMem:
		var value int32
		value, err = mem.ReadData(int(in.addr))
		if err != nil {
			return
		}
		err = mem.WriteRegister(int(in.dest), value)
	case WriteMem:
		var addr, value int32
		addr, err = mem.ReadRegister(int(in.addrReg))
		if err != nil {
			return
		}
		err = cpu.dataAddress(int64(addr))
		if err != nil {
			return
		}
		value, err = mem.ReadRegister(int(in.valueReg))
		if err != nil {
			return
		}
		err = mem.WriteData(int(addr), value)
	case Abs:
		var value, base int32
		value, err = mem.ReadRegister(int(in.srcReg))
		if err != nil {
			return
		}
		result := cpu.Alu.Abs(value)
		base, err = mem.ReadRegister(int(in.baseReg))
		if err != nil {
			return
		}
		addr := int64(base) + int64(in.offset)
		err = cpu.dataAddress(addr)
		if err != nil {
			return
		}
		err = mem.WriteData(int(addr), result)
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// Tick executes a single instruction. done is set, and the cpu halts, when
// the ip has reached the end of the program.
func (cpu *Cpu) Tick() (done bool, err error) {
	if cpu.State.Halted() {
		err = ErrHalted
		return
	}

	program := cpu.Memory.Program()
	if len(program) == 0 {
		err = ErrProgramEmpty
		return
	}

	cpu.State = STATE_RUNNING

	if cpu.Ip >= len(program) {
		cpu.State = STATE_HALTED_LIMIT
		done = true
		return
	}

	ip := cpu.Ip
	instr, size, err := cpu.Fetch()
	if err != nil {
		cpu.State = STATE_HALTED_ERROR
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", ip, instr)
	}

	err = cpu.Execute(instr)
	if err != nil {
		cpu.State = STATE_HALTED_ERROR
		err = &ErrExecute{Ip: ip, Instruction: instr, Err: err}
		return
	}

	cpu.Ip += size
	cpu.Memory.countExecuted()

	if cpu.Tracer != nil {
		cpu.Tracer.Step(ip, instr, cpu.Alu.Flags)
	}

	return
}

// Run executes the loaded program until it ends, faults, is interrupted
// through ctx, or reaches a limit. maxSteps caps this run when positive;
// the cpu Limit always applies.
//
// A halted cpu cannot run again until a program is loaded.
func (cpu *Cpu) Run(ctx context.Context, maxSteps int) (halt Halt, err error) {
	if cpu.State.Halted() {
		halt = Halt{State: cpu.State, Ip: cpu.Ip}
		err = ErrHalted
		return
	}

	if len(cpu.Memory.Program()) == 0 {
		halt = Halt{State: cpu.State, Ip: cpu.Ip}
		err = ErrProgramEmpty
		return
	}

	defer func() {
		halt.State = cpu.State
		halt.Ip = cpu.Ip
		halt.Err = err
		if cpu.Verbose {
			log.Printf("cpu: %v (%v) at %04x after %d steps", halt.State, halt.Reason, halt.Ip, halt.Steps)
		}
	}()

	cpu.State = STATE_RUNNING

	for {
		if ctx.Err() != nil {
			cpu.State = STATE_HALTED_NORMAL
			halt.Reason = REASON_INTERRUPTED
			return
		}

		if cpu.Ip >= len(cpu.Memory.Program()) {
			cpu.State = STATE_HALTED_LIMIT
			halt.Reason = REASON_END
			return
		}

		if maxSteps > 0 && halt.Steps >= maxSteps {
			cpu.State = STATE_HALTED_LIMIT
			halt.Reason = REASON_STEP_LIMIT
			return
		}

		if halt.Steps >= cpu.Limit {
			cpu.State = STATE_HALTED_LIMIT
			halt.Reason = REASON_SAFETY_LIMIT
			return
		}

		_, err = cpu.Tick()
		if err != nil {
			halt.Reason = REASON_FAULT
			return
		}
		halt.Steps++
	}
}
