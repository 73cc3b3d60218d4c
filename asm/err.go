package asm

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrEquateSyntax       = translate.Error(".equ syntax")
	ErrEquateDuplicate    = translate.Error(".equ duplicated")
	ErrOriginSyntax       = translate.Error(".org syntax")
	ErrOriginBackwards    = translate.Error(".org before program origin")
	ErrLabelDuplicate     = translate.Error("label duplicated")
	ErrLabelMoved         = translate.Error("label address changed between passes")
	ErrMacroSyntax        = translate.Error(".macro syntax")
	ErrMacroNesting       = translate.Error(".macro in .macro prohibited")
	ErrMacroDuplicate     = translate.Error(".macro duplicated")
	ErrMacroLonely        = translate.Error(".macro without .endm")
	ErrMacroLonelyEndm    = translate.Error(".endm without .macro")
	ErrDataMissing        = translate.Error("data missing")
	ErrRegisterInvalid    = translate.Error("register invalid")
	ErrInstructionInvalid = translate.Error("instruction invalid")
	ErrProgramOverflow    = translate.Error("program extends past end of memory")
)

// ErrLabelMissing is an undefined label reference.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOperands is an operand list that matches no encoding of a mnemonic.
type ErrOperands string

func (err ErrOperands) Error() string {
	return f("no encoding for '%v'", string(err))
}

// ErrRange is a value that does not fit its instruction field.
type ErrRange struct {
	Value int64
	Bits  int
}

func (err *ErrRange) Error() string {
	return f("value %d does not fit in %d bits", err.Value, err.Bits)
}

// ErrSyntax locates an assembly error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err)
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}
