package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		addr uint16
		err  error
	}{
		{0x000, nil},
		{PROGRAM_START, nil},
		{ADDRESS_MAX, nil},
		{MEMORY_SIZE, ErrAddress},
		{0xFFFF, ErrAddress},
	}

	var mem Memory
	for _, entry := range table {
		err := mem.Write(entry.addr, 0x5A)
		value, rerr := mem.Read(entry.addr)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.addr)
			assert.ErrorIs(rerr, entry.err, entry.addr)
			continue
		}
		assert.NoError(err, entry.addr)
		assert.NoError(rerr, entry.addr)
		assert.Equal(uint8(0x5A), value, entry.addr)
		assert.Equal(uint8(0x5A), mem[entry.addr], entry.addr)
	}
}

func TestMemory_Slice(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		addr uint16
		n    int
		err  error
	}{
		{0x000, 0, nil},
		{0x000, MEMORY_SIZE, nil},
		{ADDRESS_MAX, 1, nil},
		{MEMORY_SIZE, 0, nil},
		{ADDRESS_MAX, 2, ErrAddress},
		{0xFFFF, 0, ErrAddress},
		{0x100, -1, ErrAddress},
	}

	var mem Memory
	mem.Reset()
	for _, entry := range table {
		data, err := mem.Slice(entry.addr, entry.n)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry)
			assert.Nil(data, entry)
			continue
		}
		assert.NoError(err, entry)
		assert.Len(data, entry.n, entry)
	}

	// Slices alias memory.
	data, err := mem.Slice(0x300, 2)
	assert.NoError(err)
	data[1] = 0x77
	assert.Equal(uint8(0x77), mem[0x301])
}

func TestMemory_Reset(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	mem[0x300] = 0xAA
	mem[FONT_START] = 0x00
	mem.Reset()

	assert.Equal(uint8(0), mem[0x300])
	assert.Equal(FONT[:], mem[FONT_START:FONT_START+FONT_SIZE])
}
