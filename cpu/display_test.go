package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay_Draw(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}

	sprite := []uint8{0b1010_0001, 0b0100_0000}
	assert.False(d.Draw(3, 4, sprite))
	assert.Equal(4, d.Lit())
	assert.Equal(uint8(1), d.Pixel(3, 4))
	assert.Equal(uint8(0), d.Pixel(4, 4))
	assert.Equal(uint8(1), d.Pixel(5, 4))
	assert.Equal(uint8(1), d.Pixel(10, 4))
	assert.Equal(uint8(1), d.Pixel(4, 5))

	// A single overlapping pixel is a collision, even if others light up.
	assert.True(d.Draw(10, 4, []uint8{0b1100_0000}))
	assert.Equal(uint8(0), d.Pixel(10, 4))
	assert.Equal(uint8(1), d.Pixel(11, 4))
	assert.Equal(4, d.Lit())

	d.Clear()
	assert.Equal(0, d.Lit())
}

func TestDisplay_DrawWrap(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}

	// Origin wraps modulo the display size.
	d.Draw(DISPLAY_WIDTH+1, DISPLAY_HEIGHT+2, []uint8{0x80})
	assert.Equal(uint8(1), d.Pixel(1, 2))

	// Pixels past the right edge wrap to the left edge.
	d.Clear()
	d.Draw(60, 0, []uint8{0xFF})
	for x := 60; x < 68; x++ {
		assert.Equal(uint8(1), d.Pixel(x, 0))
	}
	assert.Equal(uint8(1), d.Pixel(3, 0))
	assert.Equal(uint8(0), d.Pixel(4, 0))
}

func TestDisplay_Pixels(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	for x := range DISPLAY_WIDTH {
		for y := range DISPLAY_HEIGHT {
			d.Draw(uint8(x), uint8(y), []uint8{0xFF, 0xFF})
		}
	}

	for _, px := range d {
		assert.Contains([]uint8{0, 1}, px)
	}
}

func TestDisplay_String(t *testing.T) {
	assert := assert.New(t)

	d := &Display{}
	d.Draw(0, 0, []uint8{0xC0})

	lines := strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
	assert.Len(lines, DISPLAY_HEIGHT)
	assert.Equal("##"+strings.Repeat(".", DISPLAY_WIDTH-2), lines[0])
	assert.Equal(strings.Repeat(".", DISPLAY_WIDTH), lines[1])
}
