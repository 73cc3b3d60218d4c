package emulator

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrRateInvalid = translate.Error("clock rate must be between 1Hz and 1GHz")
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16 // Address of the faulting instruction.
	LineNo int    // Source line, if the program was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d (0x%03x) %v", err.LineNo, err.Pc, err.Err)
	}
	return f("0x%03x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
