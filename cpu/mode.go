package cpu

import (
	"strings"
)

// Mode selects the behaviour of the ambiguous instructions.
//
//	        legacy (COSMAC VIP)          modern (CHIP-48 / SCHIP)
//	8XY6    VX = VY >> 1                 VX = VX >> 1
//	8XYE    VX = VY << 1                 VX = VX << 1
//	BNNN    jump NNN + V0                jump XNN + VX
//	FX55    I = I + X + 1 afterwards     I unchanged
//	FX65    I = I + X + 1 afterwards     I unchanged
type Mode int

const (
	MODE_LEGACY = Mode(0) // legacy
	MODE_MODERN = Mode(1) // modern
)

var modeName = map[Mode]string{
	MODE_LEGACY: "legacy",
	MODE_MODERN: "modern",
}

func (mode Mode) String() string {
	name, ok := modeName[mode]
	if !ok {
		return "Mode(?)"
	}
	return name
}

// ParseMode converts a mode name to a Mode.
func ParseMode(name string) (mode Mode, err error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for mode, text := range modeName {
		if text == name {
			return mode, nil
		}
	}

	err = ErrModeInvalid
	return
}
