package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/io"
)

var DisasmCmd = cli.Command{
	Action:    doDisasm,
	Name:      "disasm",
	Usage:     f("print the listing of a program image"),
	ArgsUsage: "<PROGRAM>",
}

// loadRom reads a program image file.
func loadRom(path string) (rom io.Rom, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	err = rom.Unmarshal(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

func doDisasm(context *cli.Context) (err error) {
	if context.Args().Len() != 1 {
		return errors.New(f("expected <PROGRAM>, got %d arguments", context.Args().Len()))
	}

	rom, err := loadRom(context.Args().Get(0))
	if err != nil {
		return
	}

	prog, err := cpu.Disassemble(rom.Data)
	fmt.Print(prog)
	return
}
