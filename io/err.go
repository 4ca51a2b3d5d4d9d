package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Image errors
	ErrRomEmpty = errors.New(f("program image empty"))

	// Dump errors
	ErrDumpRange = errors.New(f("dump range invalid"))
)
