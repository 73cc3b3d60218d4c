package cpu

import (
	"strings"
)

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
	SPRITE_WIDTH   = 8
)

// Display is the monochrome framebuffer, one byte per pixel, row major.
// Every pixel is either 0 or 1.
type Display [DISPLAY_WIDTH * DISPLAY_HEIGHT]uint8

// Clear turns off all pixels.
func (d *Display) Clear() {
	clear(d[:])
}

// Pixel returns the pixel at (x, y), wrapping the coordinates.
func (d *Display) Pixel(x, y int) uint8 {
	x = ((x % DISPLAY_WIDTH) + DISPLAY_WIDTH) % DISPLAY_WIDTH
	y = ((y % DISPLAY_HEIGHT) + DISPLAY_HEIGHT) % DISPLAY_HEIGHT
	return d[y*DISPLAY_WIDTH+x]
}

// Lit returns the number of lit pixels.
func (d *Display) Lit() (count int) {
	for _, px := range d {
		count += int(px)
	}
	return
}

// Draw XORs an 8 pixel wide sprite onto the display.
//   - The origin is (x mod 64, y mod 32).
//   - Each sprite byte is one row, most significant bit leftmost.
//   - Pixels leaving an edge wrap around to the opposite edge.
//
// Returns true if any lit pixel was turned off.
func (d *Display) Draw(x, y uint8, sprite []uint8) (collision bool) {
	ox := int(x) % DISPLAY_WIDTH
	oy := int(y) % DISPLAY_HEIGHT

	for row, bits := range sprite {
		py := (oy + row) % DISPLAY_HEIGHT
		for col := range SPRITE_WIDTH {
			if (bits>>(SPRITE_WIDTH-1-col))&1 == 0 {
				continue
			}
			px := (ox + col) % DISPLAY_WIDTH
			index := py*DISPLAY_WIDTH + px
			if d[index] == 1 {
				collision = true
			}
			d[index] ^= 1
		}
	}

	return
}

// String renders the display as rows of '#' (lit) and '.' (unlit).
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow((DISPLAY_WIDTH + 1) * DISPLAY_HEIGHT)
	for y := range DISPLAY_HEIGHT {
		for x := range DISPLAY_WIDTH {
			if d[y*DISPLAY_WIDTH+x] != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
