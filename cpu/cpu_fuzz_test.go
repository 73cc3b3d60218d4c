package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzExecute(f *testing.F) {
	for _, info := range opInfos {
		f.Add(info.Value|0x0123, false, uint16(0x300), uint8(0x42))
		f.Add(info.Value|0x0F0F, true, uint16(0xFFE), uint8(0xFF))
	}

	f.Fuzz(func(t *testing.T, word uint16, modern bool, index uint16, fill uint8) {
		assert := assert.New(t)

		mode := MODE_LEGACY
		if modern {
			mode = MODE_MODERN
		}

		cpu := NewCpu(mode)
		cpu.Random = fixedRandom(0x5A)
		for n := range cpu.Register {
			cpu.Register[n] = fill + uint8(n)
		}
		cpu.Index = index
		cpu.Memory[PROGRAM_START] = uint8(word >> 8)
		cpu.Memory[PROGRAM_START+1] = uint8(word)

		effect, err := cpu.Step()

		name := fmt.Sprintf("%04x %v i:%03x fill:%02x\n%v", word, Decode(word), index, fill, cpu.String())

		for _, px := range cpu.Display {
			assert.LessOrEqual(px, uint8(1), name)
		}
		assert.LessOrEqual(cpu.Stack.Depth(), STACK_LIMIT, name)

		if err != nil {
			var fault *ErrFault
			assert.True(errors.As(err, &fault), name)
			assert.Equal(RUN_STATE_FAULTED, cpu.State, name)
			assert.Equal(EFFECT_NONE, effect, name)
			return
		}

		switch effect {
		case EFFECT_AWAIT_KEY:
			assert.Equal(uint16(PROGRAM_START), cpu.Pc, name)
			assert.Equal(RUN_STATE_AWAIT_KEY, cpu.State, name)
		case EFFECT_SELF_JUMP:
			assert.Equal(RUN_STATE_HALTED, cpu.State, name)
		case EFFECT_DISPLAY:
			assert.Contains([]Op{OP_CLS, OP_DRW}, Decode(word).Op, name)
		case EFFECT_SOUND:
			assert.NotZero(cpu.Timers.Sound, name)
		}

		if Decode(word).Op == OP_UNKNOWN {
			assert.Equal(1, cpu.Unknown, name)
			assert.Equal(uint16(PROGRAM_START+2), cpu.Pc, name)
		}
	})
}
