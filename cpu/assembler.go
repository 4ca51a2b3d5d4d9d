// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"DATA_SIZE":      fmt.Sprintf("%d", DATA_SIZE),
}

// opcodeMap maps upper case mnemonics to opcodes.
var opcodeMap = func() map[string]Opcode {
	mnemonics := make(map[string]Opcode, len(Opcodes))
	for _, op := range Opcodes {
		mnemonics[op.String()] = op
	}
	return mnemonics
}()

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a single pass assembler for "opcode,arg,arg[,arg]" lines.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Equate  map[string]string // Map of equates.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate
// before parsing.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into its fields.
// words is empty for blank lines and directives.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	if len(line) == 0 {
		return
	}

	// .equ NAME VALUE
	if strings.HasPrefix(line, ".equ") {
		equ := strings.Fields(line)
		if equ[0] != ".equ" || len(equ) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[equ[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[equ[1]] = equ[2]
		return
	}

	words = strings.Split(line, ",")
	for n, word := range words {
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			if n == 0 {
				err = ErrOpcodeMissing
			} else {
				err = ErrArgMissing
			}
			return
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			word = equate
		}
		words[n] = word
	}

	return
}

// parseWords builds the instruction for the fields of a line.
func (asm *Assembler) parseWords(words []string) (instr Instruction, err error) {
	op, ok := opcodeMap[strings.ToUpper(words[0])]
	if !ok {
		var v64 int64
		v64, err = asm.valueOf(words[0])
		if err != nil {
			return
		}
		if v64 < 0 || v64 > 0xff {
			err = &ErrValidation{Opcode: Opcode(v64 & 0xff), Value: v64, Err: ErrOpcodeUnknown}
			return
		}
		op = Opcode(v64)
	}

	args := make([]int64, len(words)-1)
	for n, word := range words[1:] {
		args[n], err = asm.valueOf(word)
		if err != nil {
			return
		}
	}

	instr, err = NewInstruction(op, args...)
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	prog = &Program{}
	ip := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		var instr Instruction
		instr, err = asm.parseWords(words)
		if err != nil {
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:      lineno,
			Ip:          ip,
			Words:       words,
			Instruction: instr,
		})
		ip += instr.Size()
	}

	err = scanner.Err()
	return
}
