// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

func main() {
	app := &cli.App{
		Name:  "uvm",
		Usage: f("assembler and interpreter for the UVM instruction set"),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   f("verbosely log assembler and cpu actions"),
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: f("message language, as a BCP 47 tag"),
			},
		},
		Before: func(context *cli.Context) error {
			if lang := context.String("lang"); lang != "" {
				return translate.SetLanguage(lang)
			}
			return nil
		},
		Commands: []*cli.Command{
			&AsmCmd,
			&RunCmd,
			&DisasmCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
