package main

import (
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/io"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     f("run a program image and dump its memory"),
	ArgsUsage: "<PROGRAM> <DUMP> <START> <END>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "data-size",
			Usage: f("data memory size, in words"),
			Value: cpu.DATA_SIZE,
		},
		&cli.IntFlag{
			Name:  "registers",
			Usage: f("number of registers"),
			Value: cpu.REGISTER_COUNT,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: f("hard cap on executed instructions"),
			Value: cpu.DEFAULT_LIMIT,
		},
		&cli.IntFlag{
			Name:  "max-steps",
			Usage: f("stop after the given number of instructions, if positive"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: f("print each executed instruction"),
		},
		&cli.BoolFlag{
			Name:  "source",
			Usage: f("PROGRAM is assembly source rather than an image"),
		},
		&cli.StringSliceFlag{
			Name:    "define",
			Aliases: []string{"D"},
			Usage:   f("predefine an equate, as NAME=VALUE"),
		},
	},
}

// defines iterates over the NAME=VALUE pairs of the define flag.
func defines(context *cli.Context) iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		for _, def := range context.StringSlice("define") {
			name, value, _ := strings.Cut(def, "=")
			if len(value) == 0 {
				value = "1"
			}
			if !yield(name, value) {
				return
			}
		}
	}
}

// printTracer prints every executed instruction.
type printTracer struct {
	w stdio.Writer
}

func (pt printTracer) Step(ip int, instr cpu.Instruction, flags cpu.Flags) {
	fmt.Fprintf(pt.w, "%04x: %-40v %v\n", ip, instr, flags)
}

// printStatus prints the counters and non-zero registers of the machine.
func printStatus(w stdio.Writer, emu *emulator.Emulator, halt cpu.Halt, elapsed time.Duration) {
	mem := emu.Memory
	fmt.Fprintln(w, f("state: %v (%v) at 0x%04x", halt.State, halt.Reason, halt.Ip))
	fmt.Fprintln(w, f("data memory: %d words, registers: %d", mem.DataSize(), mem.RegisterCount()))
	fmt.Fprintln(w, f("executed: %d, memory accesses: %d, flags: %v", mem.Executed(), mem.Accesses(), emu.Alu.Flags))

	if seconds := elapsed.Seconds(); seconds > 0 {
		rate := float64(halt.Steps) / seconds
		fmt.Fprintln(w, f("rate: ~%s instructions per second", unitconv.FormatPrefix(rate, unitconv.SI, 0)))
	}

	for n, word := range mem.Registers() {
		if word == 0 {
			continue
		}
		fmt.Fprintf(w, "  R%-2d: %11d (0x%08X)\n", n, word.Signed(), word.Raw())
	}
}

func writeDump(path string, bank *cpu.Bank, start, end int) (err error) {
	dump, err := io.NewDump(bank, start, end)
	if err != nil {
		return
	}

	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = dump.Marshal(ouf)
	return
}

func doRun(context *cli.Context) (err error) {
	if context.Args().Len() != 4 {
		return errors.New(f("expected <PROGRAM> <DUMP> <START> <END>, got %d arguments", context.Args().Len()))
	}
	program, dumpPath := context.Args().Get(0), context.Args().Get(1)

	start, err := strconv.Atoi(context.Args().Get(2))
	if err != nil {
		return
	}
	end, err := strconv.Atoi(context.Args().Get(3))
	if err != nil {
		return
	}
	if start < 0 || end < start {
		return fmt.Errorf("%w: [%d, %d]", io.ErrDumpRange, start, end)
	}

	emu, err := emulator.NewEmulator(cpu.Config{
		Registers: context.Int("registers"),
		DataSize:  context.Int("data-size"),
		Limit:     context.Int("limit"),
	})
	if err != nil {
		return
	}
	emu.Verbose = context.Bool("verbose")
	for name, value := range defines(context) {
		emu.Predefine(name, value)
	}

	if context.Bool("source") {
		var inf *os.File
		inf, err = os.Open(program)
		if err != nil {
			return
		}
		defer inf.Close()

		var source stdio.Reader
		source, err = io.Source(inf)
		if err != nil {
			return
		}
		err = emu.Assemble(source)
	} else {
		var rom io.Rom
		rom, err = loadRom(program)
		if err != nil {
			return
		}
		err = emu.LoadRom(rom)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", program, err)
	}

	if context.Bool("debug") {
		emu.Tracer = printTracer{w: os.Stdout}
	}

	ctx, stop := signal.NotifyContext(context.Context, os.Interrupt)
	defer stop()

	began := time.Now()
	halt, runErr := emu.Run(ctx, context.Int("max-steps"))
	elapsed := time.Since(began)

	// Memory is dumped even after a fault.
	err = writeDump(dumpPath, emu.Memory, start, end)
	if err != nil {
		return
	}

	printStatus(os.Stdout, emu, halt, elapsed)
	fmt.Println(f("memory dump written to %v", dumpPath))

	err = runErr
	return
}
