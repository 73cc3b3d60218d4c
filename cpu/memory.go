package cpu

const (
	MEMORY_SIZE     = 4096                        // Bytes of addressable memory.
	ADDRESS_MAX     = MEMORY_SIZE - 1             // Highest valid address.
	PROGRAM_START   = 0x200                       // Load address of programs.
	PROGRAM_LIMIT   = MEMORY_SIZE - PROGRAM_START // Largest loadable program.
	FONT_START      = 0x000                       // Address of the font glyphs.
	FONT_GLYPH_SIZE = 5                           // Bytes per glyph.
	FONT_SIZE       = 16 * FONT_GLYPH_SIZE        // Bytes in the font table.
)

// FONT holds the hexadecimal digit glyphs, 4x5 pixels each, left aligned.
var FONT = [FONT_SIZE]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4K address space.
type Memory [MEMORY_SIZE]uint8

// Read a byte from memory.
func (mem *Memory) Read(addr uint16) (value uint8, err error) {
	if int(addr) > ADDRESS_MAX {
		err = ErrAddress
		return
	}
	value = mem[addr]
	return
}

// Write a byte to memory.
func (mem *Memory) Write(addr uint16, value uint8) (err error) {
	if int(addr) > ADDRESS_MAX {
		err = ErrAddress
		return
	}
	mem[addr] = value
	return
}

// Slice returns the n bytes starting at addr, without copying.
func (mem *Memory) Slice(addr uint16, n int) (data []uint8, err error) {
	if n < 0 || int(addr)+n > MEMORY_SIZE {
		err = ErrAddress
		return
	}
	data = mem[int(addr) : int(addr)+n]
	return
}

// Reset zeros memory and installs the font.
func (mem *Memory) Reset() {
	clear(mem[:])
	copy(mem[FONT_START:], FONT[:])
}
