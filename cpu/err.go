package cpu

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu faults
	ErrStackEmpty = translate.Error("stack empty")
	ErrStackFull  = translate.Error("stack full")
	ErrAddress    = translate.Error("address out of range")

	// Host errors
	ErrProgramSize = translate.Error("program too large")
	ErrKeyInvalid  = translate.Error("key invalid")
	ErrModeInvalid = translate.Error("mode invalid")
)

// ErrFault is an unrecoverable fault raised while executing an instruction.
type ErrFault struct {
	Pc   uint16 // Address of the faulting instruction.
	Word uint16 // Instruction word.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at 0x%03x [%04x %v] %v", err.Pc, err.Word, Decode(err.Word), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
