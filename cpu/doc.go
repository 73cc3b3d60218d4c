// Package cpu implements the execution core of a CHIP-8 virtual machine.
//
// The CPU consists of 4K of memory with the hexadecimal font at 0x000,
// sixteen 8-bit registers (V0-VF, VF doubling as the flag register),
// a 16-bit index register (I), a program counter, a bounded return stack,
// the delay and sound timers, a 64x32 monochrome display and a sixteen
// key input latch.
//
// The core never drives devices. The host calls Step at its instruction
// rate, TickTimers at 60 Hz and KeyDown/KeyUp on input; each Step returns
// an Effect telling the host whether to redraw, start the sound, or stop
// clocking instructions.
package cpu
