package cpu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// image assembles instructions into a program image.
func image(t *testing.T, instrs ...[]int64) (data []byte) {
	t.Helper()
	for _, words := range instrs {
		instr := mustInstruction(t, Opcode(words[0]), words[1:]...)
		data = append(data, instr.Encode()...)
	}
	return
}

func newTestCpu(t *testing.T, config Config) *Cpu {
	t.Helper()
	cpu, err := NewCpu(config)
	if err != nil {
		t.Fatal(err)
	}
	return cpu
}

func dataAt(t *testing.T, cpu *Cpu, addr int) int32 {
	t.Helper()
	value, err := cpu.Memory.ReadData(addr)
	if err != nil {
		t.Fatal(err)
	}
	return value
}

func regAt(t *testing.T, cpu *Cpu, index int) int32 {
	t.Helper()
	value, err := cpu.Memory.ReadRegister(index)
	if err != nil {
		t.Fatal(err)
	}
	return value
}

func TestCpuScenario(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{})
	cpu.Load(image(t,
		[]int64{int64(OP_LOAD_CONST), 1000, 0},
		[]int64{int64(OP_LOAD_CONST), 123, 1},
		[]int64{int64(OP_LOAD_CONST), -456, 2},
		[]int64{int64(OP_ABS), 0, 0, 1},
		[]int64{int64(OP_ABS), 4, 0, 2},
		[]int64{int64(OP_READ_MEM), 1000, 3},
		[]int64{int64(OP_READ_MEM), 1004, 4},
	))

	halt, err := cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(STATE_HALTED_LIMIT, halt.State)
	assert.Equal(REASON_END, halt.Reason)
	assert.Equal(7, halt.Steps)
	assert.Equal(len(cpu.Memory.Program()), halt.Ip)
	assert.Equal(7, cpu.Memory.Executed())
	assert.Equal(4, cpu.Memory.Accesses())

	assert.Equal(int32(123), regAt(t, cpu, 3))
	assert.Equal(int32(456), regAt(t, cpu, 4))
	assert.Equal(int32(123), dataAt(t, cpu, 1000))
	assert.Equal(int32(456), dataAt(t, cpu, 1004))
}

func TestCpuNegativeOffset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{})
	cpu.Load(image(t,
		[]int64{int64(OP_LOAD_CONST), -999, 0},
		[]int64{int64(OP_LOAD_CONST), 1050, 1},
		[]int64{int64(OP_ABS), -50, 1, 0},
	))

	halt, err := cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(REASON_END, halt.Reason)
	assert.Equal(int32(999), dataAt(t, cpu, 1000))
}

func TestCpuWriteMem(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{})
	cpu.Load(image(t,
		[]int64{int64(OP_LOAD_CONST), 42, 5},
		[]int64{int64(OP_LOAD_CONST), -7, 3},
		[]int64{int64(OP_WRITE_MEM), 5, 3},
	))

	_, err := cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(int32(-7), dataAt(t, cpu, 42))
}

func TestCpuFaults(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []byte
		ip      int
		steps   int
		err     []error
	}){
		{"write_negative", image(t,
			[]int64{int64(OP_LOAD_CONST), -1, 0},
			[]int64{int64(OP_WRITE_MEM), 0, 0},
		), 6, 1, []error{ErrAddressNegative, ErrOutOfRange}},
		{"write_high", image(t,
			[]int64{int64(OP_LOAD_CONST), 16, 0},
			[]int64{int64(OP_WRITE_MEM), 0, 0},
		), 6, 1, []error{ErrOutOfRange}},
		{"abs_negative", image(t,
			[]int64{int64(OP_ABS), -1, 0, 0},
		), 0, 0, []error{ErrAddressNegative, ErrOutOfRange}},
		{"abs_high", image(t,
			[]int64{int64(OP_ABS), 16, 0, 0},
		), 0, 0, []error{ErrOutOfRange}},
		{"read_high", image(t,
			[]int64{int64(OP_READ_MEM), 100, 0},
		), 0, 0, []error{ErrOutOfRange}},
		{"unknown", append(image(t,
			[]int64{int64(OP_LOAD_CONST), 1, 0},
		), 0x00), 6, 1, []error{ErrOpcodeUnknown}},
		{"truncated", append(image(t,
			[]int64{int64(OP_LOAD_CONST), 1, 0},
		), 0x0c, 0x00), 6, 1, []error{ErrTruncated}},
	}

	for _, entry := range table {
		cpu := newTestCpu(t, Config{DataSize: 16})
		cpu.Load(entry.program)

		halt, err := cpu.Run(context.Background(), 0)
		for _, want := range entry.err {
			assert.ErrorIs(err, want, entry.name)
		}
		assert.Equal(err, halt.Err, entry.name)
		assert.Equal(STATE_HALTED_ERROR, halt.State, entry.name)
		assert.Equal(REASON_FAULT, halt.Reason, entry.name)
		assert.Equal(entry.ip, halt.Ip, entry.name)
		assert.Equal(entry.steps, halt.Steps, entry.name)
		assert.Equal(entry.steps, cpu.Memory.Executed(), entry.name)
		assert.Equal(0, cpu.Memory.Accesses(), entry.name)
	}
}

func TestCpuExecuteError(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{DataSize: 16})
	cpu.Load(image(t, []int64{int64(OP_READ_MEM), 100, 0}))

	_, err := cpu.Run(context.Background(), 0)
	var xerr *ErrExecute
	if assert.True(errors.As(err, &xerr)) {
		assert.Equal(0, xerr.Ip)
		assert.Equal(OP_READ_MEM, xerr.Instruction.Opcode())
	}
}

func TestCpuLimits(t *testing.T) {
	assert := assert.New(t)

	var program []byte
	for n := range 10 {
		program = append(program, image(t, []int64{int64(OP_LOAD_CONST), int64(n), 0})...)
	}

	cpu := newTestCpu(t, Config{})
	cpu.Load(program)
	halt, err := cpu.Run(context.Background(), 4)
	assert.NoError(err)
	assert.Equal(STATE_HALTED_LIMIT, halt.State)
	assert.Equal(REASON_STEP_LIMIT, halt.Reason)
	assert.Equal(4, halt.Steps)
	assert.Equal(4*6, halt.Ip)
	assert.Equal(int32(3), regAt(t, cpu, 0))

	cpu = newTestCpu(t, Config{Limit: 5})
	cpu.Load(program)
	halt, err = cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(REASON_SAFETY_LIMIT, halt.Reason)
	assert.Equal(5, halt.Steps)

	// The safety limit also caps a larger step limit.
	cpu.Load(program)
	halt, err = cpu.Run(context.Background(), 8)
	assert.NoError(err)
	assert.Equal(REASON_SAFETY_LIMIT, halt.Reason)

	// Ending exactly at the step limit is an end of program.
	cpu = newTestCpu(t, Config{})
	cpu.Load(program)
	halt, err = cpu.Run(context.Background(), 10)
	assert.NoError(err)
	assert.Equal(REASON_END, halt.Reason)
}

func TestCpuInterrupted(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{})
	cpu.Load(image(t, []int64{int64(OP_LOAD_CONST), 1, 0}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	halt, err := cpu.Run(ctx, 0)
	assert.NoError(err)
	assert.Equal(STATE_HALTED_NORMAL, halt.State)
	assert.Equal(REASON_INTERRUPTED, halt.Reason)
	assert.Equal(0, halt.Steps)
}

func TestCpuStates(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{})
	assert.Equal(STATE_IDLE, cpu.State)

	_, err := cpu.Run(context.Background(), 0)
	assert.ErrorIs(err, ErrProgramEmpty)
	assert.Equal(STATE_IDLE, cpu.State)

	program := image(t, []int64{int64(OP_LOAD_CONST), 9, 1})
	cpu.Load(program)

	_, err = cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.True(cpu.State.Halted())

	halt, err := cpu.Run(context.Background(), 0)
	assert.ErrorIs(err, ErrHalted)
	assert.Equal(STATE_HALTED_LIMIT, halt.State)

	_, err = cpu.Tick()
	assert.ErrorIs(err, ErrHalted)

	// Loading keeps registers and returns to idle.
	cpu.Load(program)
	assert.Equal(STATE_IDLE, cpu.State)
	assert.Equal(0, cpu.Ip)
	assert.Equal(int32(9), regAt(t, cpu, 1))

	cpu.Reset()
	assert.Equal(int32(0), regAt(t, cpu, 1))
	assert.Equal(0, cpu.Memory.Executed())
}

func TestCpuTick(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{CacheSize: -1})
	cpu.Load(image(t,
		[]int64{int64(OP_LOAD_CONST), -5, 2},
		[]int64{int64(OP_ABS), 10, 0, 2},
	))

	done, err := cpu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(STATE_RUNNING, cpu.State)
	assert.Equal(6, cpu.Ip)

	done, err = cpu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(11, cpu.Ip)
	assert.Equal(int32(5), dataAt(t, cpu, 10))

	done, err = cpu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(STATE_HALTED_LIMIT, cpu.State)
}

func TestCpuConfig(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{})
	assert.Equal(REGISTER_COUNT, cpu.Memory.RegisterCount())
	assert.Equal(DATA_SIZE, cpu.Memory.DataSize())
	assert.Equal(DEFAULT_LIMIT, cpu.Limit)

	cpu = newTestCpu(t, Config{Registers: 8, DataSize: 100, Limit: 3})
	assert.Equal(8, cpu.Memory.RegisterCount())
	assert.Equal(100, cpu.Memory.DataSize())
	assert.Equal(3, cpu.Limit)

	_, err := NewCpu(Config{DataSize: -1})
	assert.ErrorIs(err, ErrConfig)
}

func TestCpuCache(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{CacheSize: 2})
	cpu.Load(image(t, []int64{int64(OP_LOAD_CONST), 1, 0}))
	_, err := cpu.Run(context.Background(), 0)
	assert.NoError(err)

	// A new program at the same ip must not see the old decode.
	cpu.Load(image(t, []int64{int64(OP_LOAD_CONST), 2, 0}))
	_, err = cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(int32(2), regAt(t, cpu, 0))
}

func TestCpuTracer(t *testing.T) {
	assert := assert.New(t)
	ctrl := gomock.NewController(t)

	tracer := NewMockTracer(ctrl)

	first := mustInstruction(t, OP_LOAD_CONST, 0, 1)
	second := mustInstruction(t, OP_ABS, 3, 1, 1)

	gomock.InOrder(
		tracer.EXPECT().Step(0, first, Flags{}),
		tracer.EXPECT().Step(6, second, Flags{Zero: true}),
	)

	cpu := newTestCpu(t, Config{})
	cpu.Tracer = tracer
	cpu.Load(append(first.Encode(), second.Encode()...))

	halt, err := cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(2, halt.Steps)
}

func TestCpuCacheBankReload(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, Config{CacheSize: 8})
	cpu.Load(image(t, []int64{int64(OP_LOAD_CONST), 1, 0}))
	_, err := cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(int32(1), regAt(t, cpu, 0))

	// Replacing the program through the bank must not run stale decodes.
	version := cpu.Memory.ProgramVersion()
	cpu.Memory.LoadProgram(image(t, []int64{int64(OP_LOAD_CONST), 2, 0}))
	assert.NotEqual(version, cpu.Memory.ProgramVersion())
	cpu.Ip = 0
	cpu.State = STATE_IDLE

	_, err = cpu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal(int32(2), regAt(t, cpu, 0))
}
