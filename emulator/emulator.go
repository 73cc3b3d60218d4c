// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives a CHIP-8 cpu at wall clock rates on behalf of a host.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/chip8/asm"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/rom"
)

const (
	INSTRUCTION_HZ = 700          // Default instruction rate.
	TIMER_HZ       = cpu.TIMER_HZ // Default timer rate.
)

var _emulator_defines = map[string]string{
	"INSTRUCTION_HZ": fmt.Sprintf("%v", INSTRUCTION_HZ),
	"TIMER_HZ":       fmt.Sprintf("%v", TIMER_HZ),
}

// Host presents the emulator's output.
//
// Host methods are called with the emulator locked, and must not call
// back into the Emulator.
type Host interface {
	// Refresh is called after an instruction changes the display.
	// The display is only valid for the duration of the call.
	Refresh(display *cpu.Display)
	// Sound is called when the tone starts or stops.
	Sound(on bool)
}

// Snapshot is a consistent copy of the visible machine state.
type Snapshot struct {
	Display  cpu.Display
	Register [cpu.REGISTER_COUNT]uint8
	Index    uint16
	Pc       uint16
	State    cpu.RunState
	Sounding bool
	Ticks    int
}

// Emulator state. CPU + program image + host.
type Emulator struct {
	Verbose    bool         // If set, enables verbose logging.
	Cpu        *cpu.Cpu     // Reference to the CPU simulation.
	Program    *asm.Program // Listing of the loaded program, if assembled.
	Host       Host         // Output target, may be nil.
	Rate       int          // Instructions per second.
	TimerRate  int          // Timer decrements per second.
	StopOnHalt bool         // If set, Run returns once the program halts.

	mutex    sync.Mutex
	image    []byte
	sounding bool
}

// NewEmulator creates a new emulator.
func NewEmulator(mode cpu.Mode) (emu *Emulator) {
	emu = &Emulator{
		Cpu:       cpu.NewCpu(mode),
		Rate:      INSTRUCTION_HZ,
		TimerRate: TIMER_HZ,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Load resets the machine and loads a program image.
func (emu *Emulator) Load(image []byte) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.Cpu.Reset()
	err = emu.Cpu.Load(image)
	if err != nil {
		return
	}

	emu.image = image
	emu.Program = nil
	emu.setSound(false)

	return
}

// LoadProgram loads an assembled program, keeping its listing for errors.
func (emu *Emulator) LoadProgram(prog *asm.Program) (err error) {
	err = emu.Load(prog.Data)
	if err != nil {
		return
	}

	emu.mutex.Lock()
	emu.Program = prog
	emu.mutex.Unlock()

	return
}

// LoadRom loads a program image.
func (emu *Emulator) LoadRom(r *rom.Rom) (err error) {
	if emu.Verbose {
		log.Printf("emulator: rom %q (%d bytes)", r.Name, r.Size())
	}

	return emu.Load(r.Data)
}

// Reset the machine, and reload the current program image.
func (emu *Emulator) Reset() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	// The image was validated when first loaded.
	_ = emu.Cpu.Load(emu.image)

	emu.setSound(false)
}

// KeyDown forwards a key press.
func (emu *Emulator) KeyDown(key cpu.Key) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Cpu.KeyDown(key)
}

// KeyUp forwards a key release.
func (emu *Emulator) KeyUp(key cpu.Key) (err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.Cpu.KeyUp(key)
}

// Snapshot copies the machine state.
func (emu *Emulator) Snapshot() (snap Snapshot) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	snap = Snapshot{
		Display:  emu.Cpu.Display,
		Register: emu.Cpu.Register,
		Index:    emu.Cpu.Index,
		Pc:       emu.Cpu.Pc,
		State:    emu.Cpu.State,
		Sounding: emu.sounding,
		Ticks:    emu.Cpu.Ticks,
	}

	return
}

// setSound notifies the host of a tone change.
func (emu *Emulator) setSound(on bool) {
	if emu.sounding == on {
		return
	}

	emu.sounding = on
	if emu.Host != nil {
		emu.Host.Sound(on)
	}
}

// lineNo returns the source line for an address, if known.
func (emu *Emulator) lineNo(pc uint16) int {
	if emu.Program == nil {
		return 0
	}

	line, ok := emu.Program.Debug(pc)
	if !ok {
		return 0
	}

	return line.LineNo
}

// Tick performs a single instruction, unless the cpu is waiting for a
// key or halted.
func (emu *Emulator) Tick() (effect cpu.Effect, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	switch emu.Cpu.State {
	case cpu.RUN_STATE_AWAIT_KEY, cpu.RUN_STATE_HALTED:
		return
	}

	pc := emu.Cpu.Pc
	effect, err = emu.Cpu.Step()
	if err != nil {
		var fault *cpu.ErrFault
		if errors.As(err, &fault) {
			pc = fault.Pc
		}
		err = &ErrRuntime{Pc: pc, LineNo: emu.lineNo(pc), Err: err}
		return
	}

	switch effect {
	case cpu.EFFECT_DISPLAY:
		if emu.Host != nil {
			emu.Host.Refresh(&emu.Cpu.Display)
		}
	case cpu.EFFECT_SOUND:
		emu.setSound(true)
	case cpu.EFFECT_SELF_JUMP:
		if emu.Verbose {
			log.Printf("emulator: halted at 0x%03x", pc)
		}
	case cpu.EFFECT_AWAIT_KEY:
		if emu.Verbose {
			log.Printf("emulator: waiting for key at 0x%03x", pc)
		}
	}

	return
}

// TickTimers decrements the delay and sound timers once.
func (emu *Emulator) TickTimers() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.setSound(emu.Cpu.TickTimers())
}

// halted reports whether Run should stop.
func (emu *Emulator) halted() bool {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.StopOnHalt && emu.Cpu.State == cpu.RUN_STATE_HALTED
}

// validRate reports whether rate Hz gives a positive tick interval.
func validRate(rate int) bool {
	return rate > 0 && time.Second/time.Duration(rate) > 0
}

// clock calls fn at rate Hz until ctx is done or fn returns done or an error.
func clock(ctx context.Context, rate int, fn func() (done bool, err error)) (err error) {
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := fn()
			if err != nil || done {
				return err
			}
		}
	}
}

// Run executes the program until ctx is cancelled, the cpu faults, or,
// with StopOnHalt, the program halts.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	if !validRate(emu.Rate) || !validRate(emu.TimerRate) {
		err = ErrRateInvalid
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		// Stop the timer clock once instructions stop.
		defer cancel()
		return clock(ctx, emu.Rate, func() (done bool, err error) {
			_, err = emu.Tick()
			if err != nil {
				return
			}
			done = emu.halted()
			return
		})
	})

	grp.Go(func() error {
		err := clock(ctx, emu.TimerRate, func() (done bool, err error) {
			emu.TickTimers()
			return
		})
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		return err
	})

	err = grp.Wait()
	if errors.Is(err, context.Canceled) && emu.halted() {
		err = nil
	}

	return
}
