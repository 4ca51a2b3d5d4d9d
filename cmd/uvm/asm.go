package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/io"
)

var AsmCmd = cli.Command{
	Action:    doAsm,
	Name:      "asm",
	Usage:     f("assemble a source file into a program image"),
	ArgsUsage: "<SOURCE> <OUTPUT>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "test",
			Usage: f("print the intermediate listing and the image bytes"),
		},
		&cli.StringSliceFlag{
			Name:    "define",
			Aliases: []string{"D"},
			Usage:   f("predefine an equate, as NAME=VALUE"),
		},
	},
}

// assemble parses a source file, decoding its character set.
func assemble(context *cli.Context, path string) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	source, err := io.Source(inf)
	if err != nil {
		return
	}

	asm := &cpu.Assembler{Verbose: context.Bool("verbose")}
	for name, value := range defines(context) {
		asm.Predefine(name, value)
	}

	prog, err = asm.Parse(source)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

func doAsm(context *cli.Context) (err error) {
	if context.Args().Len() != 2 {
		return errors.New(f("expected <SOURCE> <OUTPUT>, got %d arguments", context.Args().Len()))
	}
	source, output := context.Args().Get(0), context.Args().Get(1)

	prog, err := assemble(context, source)
	if err != nil {
		return
	}

	rom := &io.Rom{Data: prog.Binary()}

	if context.Bool("test") {
		fmt.Print(prog.Intermediate())
		for offset, row := range rom.Lines(8) {
			fmt.Printf("%04x: % x\n", offset, row)
		}
	}

	ouf, err := os.Create(output)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = rom.Marshal(ouf)
	if err != nil {
		return
	}

	fmt.Println(f("%v: %d instructions, %d bytes", output, len(prog.Lines), len(rom.Data)))
	return
}
