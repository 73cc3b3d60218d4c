package asm

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/chip8/cpu"
)

// Line is one source line that emitted data.
type Line struct {
	LineNo int     // Source line number.
	Addr   uint16  // Address of the first byte.
	Text   string  // Source text, without comments.
	Data   []uint8 // Emitted bytes.
}

// Program is an assembled image.
type Program struct {
	Origin uint16            // Load address of Data.
	Data   []uint8           // Image, gaps between .org regions are zero.
	Labels map[string]uint16 // Label addresses.
	Lines  []Line            // Emitting lines, in source order.
}

// Debug returns the source line that emitted addr.
func (prog *Program) Debug(addr uint16) (line Line, ok bool) {
	for _, l := range prog.Lines {
		if addr >= l.Addr && int(addr) < int(l.Addr)+len(l.Data) {
			line = l
			ok = true
			return
		}
	}

	return
}

// WriteListing writes an address and byte listing alongside the source.
func (prog *Program) WriteListing(w io.Writer) (err error) {
	for _, line := range prog.Lines {
		hex := make([]string, 0, len(line.Data))
		for _, b := range line.Data {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		// Long data lines are clipped.
		if len(hex) > 4 {
			hex = append(hex[:4], "..")
		}

		_, err = fmt.Fprintf(w, "%03X  %-14s %5d  %v\n", line.Addr, strings.Join(hex, " "), line.LineNo, line.Text)
		if err != nil {
			return
		}
	}

	return
}

// Instructions decodes data loaded at origin, one word at a time.
// A trailing odd byte is not decoded.
func Instructions(origin uint16, data []uint8) iter.Seq2[uint16, cpu.Instruction] {
	return func(yield func(addr uint16, in cpu.Instruction) bool) {
		for n := 0; n+1 < len(data); n += 2 {
			word := uint16(data[n])<<8 | uint16(data[n+1])
			if !yield(origin+uint16(n), cpu.Decode(word)) {
				return
			}
		}
	}
}

// Disassemble writes a listing of data loaded at origin, in a form
// that Parse accepts once the address and hex columns are removed.
func Disassemble(w io.Writer, origin uint16, data []uint8) (err error) {
	for addr, in := range Instructions(origin, data) {
		_, err = fmt.Fprintf(w, "%03X: %04X  %v\n", addr, in.Word, in)
		if err != nil {
			return
		}
	}

	if len(data)%2 == 1 {
		addr := origin + uint16(len(data)-1)
		_, err = fmt.Fprintf(w, "%03X: %02X    DB $%02X\n", addr, data[len(data)-1], data[len(data)-1])
	}

	return
}
