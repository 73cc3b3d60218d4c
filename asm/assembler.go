// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm is a two pass macro assembler for CHIP-8 programs.
//
// Source is line oriented. Anything after ';' is a comment. A line holds
// optional 'label:' definitions followed by a directive, a macro call, or
// an instruction in the mnemonic form printed by cpu.Instruction.String(),
// with operands separated by commas or spaces:
//
//	        .equ    SPEED   3
//	start:  LD      V0, SPEED
//	        LD      I, sprite
//	        DRW     V0, V1, $(len_sprite)
//	        JP      start
//	sprite: db      %11110000, $90, 0x90, 144, 0xF0
//
// Values are decimal, hex ('0x' or '$'), binary ('0b' or '%'), a quoted
// character, a label, an equate, or a $(...) starlark expression over the
// integer equates and labels.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/cpu"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the first macro line.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// Assembler converts CHIP-8 assembly text into a Program.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
	Macro     map[string]*Macro // Map of macros.

	pass  int    // Current pass, 1 or 2.
	addr  uint16 // Current assembly address.
	lines []Line // Emitted lines.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf resolves a single operand word to a value.
// During the first pass unknown identifiers resolve to zero.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = parseNumber(word)
	if err == nil {
		return
	}

	if addr, ok := asm.Label[word]; ok {
		value = int64(addr)
		err = nil
		return
	}

	if reIdentifier.MatchString(word) {
		if asm.pass == 1 {
			value = 0
			err = nil
		} else {
			err = ErrLabelMissing(word)
		}
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v, err := parseNumber(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
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

// expand replaces character literals and $(...) expressions with numbers.
func (asm *Assembler) expand(line string) (out string, err error) {
	out = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return strconv.Itoa(int(str[0]))
	})

	out = reExpression.ReplaceAllStringFunc(out, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			// Forward references are resolved on the second pass.
			if asm.pass == 2 && err == nil {
				err = fmt.Errorf("%w: %v", ErrParseExpression(str[2:len(str)-1]), _err)
			}
			value = 0
		}
		return strconv.FormatInt(value, 10)
	})

	return
}

// splitWords splits a line on whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// defineLabel binds a label to the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	addr, ok := asm.Label[label]
	if asm.pass == 1 {
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.addr
		return
	}

	if addr != asm.addr {
		err = ErrLabelMoved
	}
	return
}

// emit appends data at the current address.
func (asm *Assembler) emit(lineno int, text string, data []uint8) (err error) {
	if int(asm.addr)+len(data) > cpu.MEMORY_SIZE {
		err = ErrProgramOverflow
		return
	}

	asm.lines = append(asm.lines, Line{LineNo: lineno, Addr: asm.addr, Text: text, Data: data})
	asm.addr += uint16(len(data))

	return
}

// parseLine assembles a single line.
func (asm *Assembler) parseLine(text string, lineno int) (err error) {
	// Set line number.
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	line, err := asm.expand(text)
	if err != nil {
		return
	}

	words := splitWords(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		err = asm.defineLabel(strings.TrimSuffix(words[0], ":"))
		if err != nil {
			return
		}
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		return asm.expandMacro(words[0], macro, words[1:])
	}

	directive := strings.ToLower(strings.TrimPrefix(words[0], "."))
	args := words[1:]

	switch directive {
	case "org":
		if len(args) != 1 {
			err = ErrOriginSyntax
			return
		}
		var value int64
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		switch {
		case value < cpu.PROGRAM_START:
			err = ErrOriginBackwards
		case value > cpu.MEMORY_SIZE:
			err = ErrProgramOverflow
		default:
			asm.addr = uint16(value)
		}
		return
	case "db", "dw":
		if len(args) == 0 {
			err = ErrDataMissing
			return
		}
		var data []uint8
		for _, arg := range args {
			var value int64
			value, err = asm.valueOf(arg)
			if err != nil {
				return
			}
			var bits uint16
			if directive == "db" {
				bits, err = fit(value, 8)
				data = append(data, uint8(bits))
			} else {
				bits, err = fit(value, 16)
				data = append(data, uint8(bits>>8), uint8(bits))
			}
			if err != nil {
				return
			}
		}
		return asm.emit(lineno, text, data)
	}

	word, err := asm.encode(words[0], args)
	if err != nil {
		return
	}

	return asm.emit(lineno, text, []uint8{uint8(word >> 8), uint8(word)})
}

// expandMacro assembles each line of a macro with its arguments bound.
func (asm *Assembler) expandMacro(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}

	// Turn args into equs
	old_equate := maps.Clone(asm.Equate)
	for n, arg := range macro.Args {
		asm.Equate[arg] = args[n]
	}
	defer func() { asm.Equate = old_equate }()

	// '@' makes labels local to this expansion.
	local := fmt.Sprintf("%v_%03x_", name, asm.addr)

	for n, line := range macro.Lines {
		lineno := macro.LineNo + n

		line = strings.ReplaceAll(line, "@", local)
		err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrMacro{Macro: name, Line: lineno, Err: err}
			return
		}
	}

	return
}

// run performs a single pass over the source lines.
func (asm *Assembler) run(texts []string) (err error) {
	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.addr = cpu.PROGRAM_START
	asm.lines = nil
	asm.Macro = make(map[string]*Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for n, text := range texts {
		lineno = n + 1

		if asm.Verbose && asm.pass == 2 {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment, _, _ := strings.Cut(text, ";")
		line = strings.TrimSpace(text_comment)
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   words[2:],
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var texts []string

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		texts = append(texts, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	asm.Label = make(map[string]uint16)

	// Pass one places labels, pass two encodes.
	for _, pass := range []int{1, 2} {
		asm.pass = pass
		err = asm.run(texts)
		if err != nil {
			return
		}
	}

	end := uint16(cpu.PROGRAM_START)
	for _, line := range asm.lines {
		end = max(end, line.Addr+uint16(len(line.Data)))
	}

	data := make([]uint8, end-cpu.PROGRAM_START)
	for _, line := range asm.lines {
		copy(data[line.Addr-cpu.PROGRAM_START:], line.Data)
	}

	prog = &Program{
		Origin: cpu.PROGRAM_START,
		Data:   data,
		Labels: maps.Clone(asm.Label),
		Lines:  slices.Clone(asm.lines),
	}

	return
}
