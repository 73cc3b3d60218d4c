// Package rom reads and writes CHIP-8 program images.
//
// An image is the raw program, loaded verbatim at 0x200; there is no
// header, length prefix or checksum.
package rom

import (
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrTooLarge = translate.Error("program image too large")
)

// Rom is a program image.
type Rom struct {
	Name string
	Data []byte
}

var _ io.WriterTo = (*Rom)(nil)

// Read an image, refusing anything that would not fit above PROGRAM_START.
func Read(r io.Reader) (rom *Rom, err error) {
	data, err := io.ReadAll(io.LimitReader(r, cpu.PROGRAM_LIMIT+1))
	if err != nil {
		return
	}

	if len(data) > cpu.PROGRAM_LIMIT {
		err = fmt.Errorf("%w: %v", ErrTooLarge, f("more than %d bytes", cpu.PROGRAM_LIMIT))
		return
	}

	rom = &Rom{Data: data}
	return
}

// Open reads the named image from a file system.
func Open(fsys fs.FS, name string) (rom *Rom, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	rom, err = Read(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	rom.Name = path.Base(name)
	return
}

// WriteTo writes the image verbatim.
func (rom *Rom) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(rom.Data)
	n = int64(written)
	return
}

// Size returns the image length in bytes.
func (rom *Rom) Size() int {
	return len(rom.Data)
}
