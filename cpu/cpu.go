package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"
)

const (
	REGISTER_COUNT = 16
	REG_V0         = 0x0 // Offset register for BNNN in legacy mode.
	REG_VF         = 0xF // Flag register.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("0x%x", MEMORY_SIZE),
	"PROGRAM_START":  fmt.Sprintf("0x%x", PROGRAM_START),
	"FONT_START":     fmt.Sprintf("0x%x", FONT_START),
	"FONT_GLYPH":     fmt.Sprintf("%d", FONT_GLYPH_SIZE),
	"DISPLAY_WIDTH":  fmt.Sprintf("%d", DISPLAY_WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%d", DISPLAY_HEIGHT),
	"STACK_LIMIT":    fmt.Sprintf("%d", STACK_LIMIT),
}

// Random is a source of uniformly distributed bits, used by CXNN.
type Random interface {
	Uint32() uint32
}

// Cpu is the simulation context for a CHIP-8 virtual machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Mode    Mode // Behaviour of the ambiguous instructions.

	Memory   Memory                // Address space.
	Register [REGISTER_COUNT]uint8 // V0-VF.
	Index    uint16                // I register.
	Pc       uint16                // Program counter.
	Stack    Stack                 // Subroutine return addresses.
	Timers   Timers                // Delay and sound timers.
	Display  Display               // Framebuffer.
	Keypad   Keypad                // Input latch.
	State    RunState              // Execution state.
	Random   Random                // Source for CXNN.

	Ticks   int // Instructions executed.
	Unknown int // Unknown instructions skipped.

	fault error // Sticky fault, reported until Reset.
}

// NewCpu creates a new, reset, CPU.
func NewCpu(mode Mode) (cpu *Cpu) {
	cpu = &Cpu{
		Mode:   mode,
		Random: rand.New(rand.NewSource(rand.Int63())),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %03X\n", cpu.Pc)
	text += fmt.Sprintf("    i: %03X\n", cpu.Index)
	for n := 0; n < REGISTER_COUNT; n += 4 {
		text += fmt.Sprintf("   v%X: %02X %02X %02X %02X\n", n,
			cpu.Register[n], cpu.Register[n+1], cpu.Register[n+2], cpu.Register[n+3])
	}
	if addr, ok := cpu.Stack.Peek(); ok {
		text += fmt.Sprintf("stack: %03X (%d)\n", addr, cpu.Stack.Depth())
	} else {
		text += "stack: ---\n"
	}
	text += fmt.Sprintf("   dt: %02X\n", cpu.Timers.Delay)
	text += fmt.Sprintf("   st: %02X\n", cpu.Timers.Sound)
	text += fmt.Sprintf("state: %v\n", cpu.State)

	return
}

// Reset the CPU state.
// - Clears memory, and installs the font at FONT_START.
// - Clears the registers, stack, timers, display and keypad.
// - Sets the program counter to PROGRAM_START.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	clear(cpu.Register[:])
	cpu.Index = 0
	cpu.Pc = PROGRAM_START
	cpu.Stack.Reset()
	cpu.Timers.Reset()
	cpu.Display.Clear()
	cpu.Keypad.Reset()
	cpu.State = RUN_STATE_RUNNING
	cpu.Ticks = 0
	cpu.Unknown = 0
	cpu.fault = nil
}

// Load copies a program image to PROGRAM_START.
// Programs larger than PROGRAM_LIMIT are rejected, leaving memory unchanged.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > PROGRAM_LIMIT {
		err = fmt.Errorf("%w: %d > %d", ErrProgramSize, len(program), PROGRAM_LIMIT)
		return
	}

	copy(cpu.Memory[PROGRAM_START:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes at 0x%03x", len(program), PROGRAM_START)
	}

	return
}

// Fault returns the sticky fault, if the CPU has faulted.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

// KeyDown notifies the CPU of a key press.
func (cpu *Cpu) KeyDown(key Key) (err error) {
	err = cpu.Keypad.Down(key)
	if err != nil {
		return
	}

	if cpu.State == RUN_STATE_AWAIT_KEY && cpu.Keypad.Pending() {
		cpu.State = RUN_STATE_RUNNING
	}

	return
}

// KeyUp notifies the CPU of a key release.
func (cpu *Cpu) KeyUp(key Key) (err error) {
	return cpu.Keypad.Up(key)
}

// TickTimers decrements the timers once.
// Returns false once the sound timer has reached zero.
func (cpu *Cpu) TickTimers() (sounding bool) {
	return cpu.Timers.Tick()
}

// Fetch reads the big-endian instruction word at the program counter,
// and advances the program counter past it.
func (cpu *Cpu) Fetch() (word uint16, err error) {
	if cpu.fault != nil {
		err = cpu.fault
		return
	}

	pc := cpu.Pc
	code, err := cpu.Memory.Slice(pc, 2)
	if err != nil {
		err = cpu.raise(pc, 0, err)
		return
	}

	word = uint16(code[0])<<8 | uint16(code[1])
	cpu.Pc = pc + 2

	return
}

// Step fetches and executes a single instruction.
func (cpu *Cpu) Step() (effect Effect, err error) {
	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	return cpu.Execute(word)
}

// raise records a sticky fault for the instruction at pc.
func (cpu *Cpu) raise(pc uint16, word uint16, err error) error {
	cpu.fault = &ErrFault{Pc: pc, Word: word, Err: err}
	cpu.State = RUN_STATE_FAULTED

	if cpu.Verbose {
		log.Printf("cpu: %v", cpu.fault)
	}

	return cpu.fault
}

// skipIf advances past the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// setFlag writes VF, after the result register, so that the flag
// wins when X is F.
func (cpu *Cpu) setFlag(flag bool) {
	if flag {
		cpu.Register[REG_VF] = 1
	} else {
		cpu.Register[REG_VF] = 0
	}
}

// span checks that the n bytes at I are addressable.
func (cpu *Cpu) span(n int) (data []uint8, err error) {
	return cpu.Memory.Slice(cpu.Index, n)
}

// Execute executes a single instruction word. The program counter must
// already point past the instruction, as left by Fetch; a program counter
// below 2 is taken as the instruction's own address.
func (cpu *Cpu) Execute(word uint16) (effect Effect, err error) {
	if cpu.fault != nil {
		err = cpu.fault
		return
	}

	pc := cpu.Pc
	if pc >= 2 {
		pc -= 2
	}
	defer func() {
		if err != nil {
			err = cpu.raise(pc, word, err)
		}
	}()

	in := Decode(word)
	if cpu.Verbose {
		log.Printf("%03x: %04x %v", pc, word, in)
	}

	cpu.Ticks++

	v := &cpu.Register
	x, y := in.X(), in.Y()

	switch in.Op {
	case OP_CLS:
		cpu.Display.Clear()
		effect = EFFECT_DISPLAY
	case OP_RET:
		addr, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		cpu.Pc = addr
	case OP_JP:
		cpu.Pc = in.NNN()
		if cpu.Pc == pc {
			cpu.State = RUN_STATE_HALTED
			effect = EFFECT_SELF_JUMP
		}
	case OP_CALL:
		if !cpu.Stack.Push(cpu.Pc) {
			err = ErrStackFull
			return
		}
		cpu.Pc = in.NNN()
	case OP_SE_NN:
		cpu.skipIf(v[x] == in.NN())
	case OP_SNE_NN:
		cpu.skipIf(v[x] != in.NN())
	case OP_SE_VY:
		cpu.skipIf(v[x] == v[y])
	case OP_LD_NN:
		v[x] = in.NN()
	case OP_ADD_NN:
		v[x] += in.NN()
	case OP_LD_VY:
		v[x] = v[y]
	case OP_OR:
		v[x] |= v[y]
	case OP_AND:
		v[x] &= v[y]
	case OP_XOR:
		v[x] ^= v[y]
	case OP_ADD_VY:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		cpu.setFlag(sum > 0xFF)
	case OP_SUB:
		borrow := v[x] < v[y]
		v[x] -= v[y]
		cpu.setFlag(!borrow)
	case OP_SHR:
		if cpu.Mode == MODE_LEGACY {
			v[x] = v[y]
		}
		old := v[x]
		v[x] >>= 1
		cpu.setFlag(old&0x01 != 0)
	case OP_SUBN:
		borrow := v[y] < v[x]
		v[x] = v[y] - v[x]
		cpu.setFlag(!borrow)
	case OP_SHL:
		if cpu.Mode == MODE_LEGACY {
			v[x] = v[y]
		}
		old := v[x]
		v[x] <<= 1
		cpu.setFlag(old&0x80 != 0)
	case OP_SNE_VY:
		cpu.skipIf(v[x] != v[y])
	case OP_LD_I:
		cpu.Index = in.NNN()
	case OP_JP_V0:
		// BXNN in modern mode: the X nibble is both part of the address
		// and the offset register.
		offset := REG_V0
		if cpu.Mode == MODE_MODERN {
			offset = x
		}
		cpu.Pc = in.NNN() + uint16(v[offset])
	case OP_RND:
		v[x] = uint8(cpu.Random.Uint32()) & in.NN()
	case OP_DRW:
		var sprite []uint8
		if in.N() > 0 {
			sprite, err = cpu.span(int(in.N()))
			if err != nil {
				return
			}
		}
		collision := cpu.Display.Draw(v[x], v[y], sprite)
		cpu.setFlag(collision)
		effect = EFFECT_DISPLAY
	case OP_SKP:
		cpu.skipIf(cpu.Keypad.IsPressed(Key(v[x])))
	case OP_SKNP:
		cpu.skipIf(!cpu.Keypad.IsPressed(Key(v[x])))
	case OP_LD_VX_DT:
		v[x] = cpu.Timers.Delay
	case OP_LD_VX_K:
		key, ok := cpu.Keypad.consume()
		if !ok {
			cpu.Pc = pc
			cpu.State = RUN_STATE_AWAIT_KEY
			effect = EFFECT_AWAIT_KEY
			return
		}
		v[x] = uint8(key)
		cpu.State = RUN_STATE_RUNNING
	case OP_LD_DT:
		cpu.Timers.Delay = v[x]
	case OP_LD_ST:
		cpu.Timers.Sound = v[x]
		if cpu.Timers.Sound > 0 {
			effect = EFFECT_SOUND
		}
	case OP_ADD_I:
		sum := uint32(cpu.Index) + uint32(v[x])
		cpu.Index = uint16(sum)
		cpu.setFlag(sum > 0xFFFF)
	case OP_LD_F:
		// Digits above 0xF address past the font, as V[X] * 5.
		cpu.Index = FONT_START + uint16(v[x])*FONT_GLYPH_SIZE
	case OP_LD_B:
		var digits []uint8
		digits, err = cpu.span(3)
		if err != nil {
			return
		}
		digits[0] = v[x] / 100
		digits[1] = (v[x] / 10) % 10
		digits[2] = v[x] % 10
	case OP_LD_MEM_VX:
		var mem []uint8
		mem, err = cpu.span(x + 1)
		if err != nil {
			return
		}
		copy(mem, v[:x+1])
		if cpu.Mode == MODE_LEGACY {
			cpu.Index += uint16(x + 1)
		}
	case OP_LD_VX_MEM:
		var mem []uint8
		mem, err = cpu.span(x + 1)
		if err != nil {
			return
		}
		copy(v[:x+1], mem)
		if cpu.Mode == MODE_LEGACY {
			cpu.Index += uint16(x + 1)
		}
	default:
		cpu.Unknown++
		if cpu.Verbose {
			log.Printf("%03x: %04x ignored", pc, word)
		}
	}

	return
}
