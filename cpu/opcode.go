package cpu

import (
	"fmt"
)

// Op is a decoded instruction kind.
type Op int

const (
	OP_UNKNOWN   = Op(iota) // unknown
	OP_CLS                  // 00E0 cls
	OP_RET                  // 00EE ret
	OP_JP                   // 1NNN jp
	OP_CALL                 // 2NNN call
	OP_SE_NN                // 3XNN se.nn
	OP_SNE_NN               // 4XNN sne.nn
	OP_SE_VY                // 5XY0 se.vy
	OP_LD_NN                // 6XNN ld.nn
	OP_ADD_NN               // 7XNN add.nn
	OP_LD_VY                // 8XY0 ld.vy
	OP_OR                   // 8XY1 or
	OP_AND                  // 8XY2 and
	OP_XOR                  // 8XY3 xor
	OP_ADD_VY               // 8XY4 add.vy
	OP_SUB                  // 8XY5 sub
	OP_SHR                  // 8XY6 shr
	OP_SUBN                 // 8XY7 subn
	OP_SHL                  // 8XYE shl
	OP_SNE_VY               // 9XY0 sne.vy
	OP_LD_I                 // ANNN ld.i
	OP_JP_V0                // BNNN jp.v0
	OP_RND                  // CXNN rnd
	OP_DRW                  // DXYN drw
	OP_SKP                  // EX9E skp
	OP_SKNP                 // EXA1 sknp
	OP_LD_VX_DT             // FX07 ld.vx.dt
	OP_LD_VX_K              // FX0A ld.vx.k
	OP_LD_DT                // FX15 ld.dt
	OP_LD_ST                // FX18 ld.st
	OP_ADD_I                // FX1E add.i
	OP_LD_F                 // FX29 ld.f
	OP_LD_B                 // FX33 ld.b
	OP_LD_MEM_VX            // FX55 ld.mem.vx
	OP_LD_VX_MEM            // FX65 ld.vx.mem
	OP_COUNT                // Number of ops.
)

type opInfo struct {
	Op    Op
	Name  string
	Mask  uint16
	Value uint16
}

// opInfos lists the encoding of every known op, as a mask and value pair.
var opInfos = [...]opInfo{
	{OP_CLS, "cls", 0xFFFF, 0x00E0},
	{OP_RET, "ret", 0xFFFF, 0x00EE},
	{OP_JP, "jp", 0xF000, 0x1000},
	{OP_CALL, "call", 0xF000, 0x2000},
	{OP_SE_NN, "se.nn", 0xF000, 0x3000},
	{OP_SNE_NN, "sne.nn", 0xF000, 0x4000},
	{OP_SE_VY, "se.vy", 0xF00F, 0x5000},
	{OP_LD_NN, "ld.nn", 0xF000, 0x6000},
	{OP_ADD_NN, "add.nn", 0xF000, 0x7000},
	{OP_LD_VY, "ld.vy", 0xF00F, 0x8000},
	{OP_OR, "or", 0xF00F, 0x8001},
	{OP_AND, "and", 0xF00F, 0x8002},
	{OP_XOR, "xor", 0xF00F, 0x8003},
	{OP_ADD_VY, "add.vy", 0xF00F, 0x8004},
	{OP_SUB, "sub", 0xF00F, 0x8005},
	{OP_SHR, "shr", 0xF00F, 0x8006},
	{OP_SUBN, "subn", 0xF00F, 0x8007},
	{OP_SHL, "shl", 0xF00F, 0x800E},
	{OP_SNE_VY, "sne.vy", 0xF00F, 0x9000},
	{OP_LD_I, "ld.i", 0xF000, 0xA000},
	{OP_JP_V0, "jp.v0", 0xF000, 0xB000},
	{OP_RND, "rnd", 0xF000, 0xC000},
	{OP_DRW, "drw", 0xF000, 0xD000},
	{OP_SKP, "skp", 0xF0FF, 0xE09E},
	{OP_SKNP, "sknp", 0xF0FF, 0xE0A1},
	{OP_LD_VX_DT, "ld.vx.dt", 0xF0FF, 0xF007},
	{OP_LD_VX_K, "ld.vx.k", 0xF0FF, 0xF00A},
	{OP_LD_DT, "ld.dt", 0xF0FF, 0xF015},
	{OP_LD_ST, "ld.st", 0xF0FF, 0xF018},
	{OP_ADD_I, "add.i", 0xF0FF, 0xF01E},
	{OP_LD_F, "ld.f", 0xF0FF, 0xF029},
	{OP_LD_B, "ld.b", 0xF0FF, 0xF033},
	{OP_LD_MEM_VX, "ld.mem.vx", 0xF0FF, 0xF055},
	{OP_LD_VX_MEM, "ld.vx.mem", 0xF0FF, 0xF065},
}

// opcodes indexes opInfos by the high nibble of the instruction word.
var opcodes = func() (table [16][]opInfo) {
	for _, info := range opInfos {
		nibble := info.Value >> 12
		table[nibble] = append(table[nibble], info)
	}
	return
}()

func (op Op) String() string {
	for _, info := range opInfos {
		if info.Op == op {
			return info.Name
		}
	}
	if op == OP_UNKNOWN {
		return "unknown"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Encoding returns the fixed bits of the op's instruction word.
func (op Op) Encoding() (mask, value uint16, ok bool) {
	for _, info := range opInfos {
		if info.Op == op {
			return info.Mask, info.Value, true
		}
	}
	return
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Word uint16
	Op   Op
}

// Decode an instruction word.
func Decode(word uint16) (in Instruction) {
	in.Word = word
	for _, info := range opcodes[word>>12] {
		if word&info.Mask == info.Value {
			in.Op = info.Op
			break
		}
	}
	return
}

// X returns the register index in the second nibble.
func (in Instruction) X() int {
	return int((in.Word >> 8) & 0xF)
}

// Y returns the register index in the third nibble.
func (in Instruction) Y() int {
	return int((in.Word >> 4) & 0xF)
}

// N returns the low nibble.
func (in Instruction) N() uint8 {
	return uint8(in.Word & 0xF)
}

// NN returns the low byte.
func (in Instruction) NN() uint8 {
	return uint8(in.Word & 0xFF)
}

// NNN returns the low 12 bits.
func (in Instruction) NNN() uint16 {
	return in.Word & 0xFFF
}

// String returns the assembly language form of the instruction.
func (in Instruction) String() string {
	x, y := in.X(), in.Y()

	switch in.Op {
	case OP_CLS:
		return "CLS"
	case OP_RET:
		return "RET"
	case OP_JP:
		return fmt.Sprintf("JP $%03X", in.NNN())
	case OP_CALL:
		return fmt.Sprintf("CALL $%03X", in.NNN())
	case OP_SE_NN:
		return fmt.Sprintf("SE V%X, $%02X", x, in.NN())
	case OP_SNE_NN:
		return fmt.Sprintf("SNE V%X, $%02X", x, in.NN())
	case OP_SE_VY:
		return fmt.Sprintf("SE V%X, V%X", x, y)
	case OP_LD_NN:
		return fmt.Sprintf("LD V%X, $%02X", x, in.NN())
	case OP_ADD_NN:
		return fmt.Sprintf("ADD V%X, $%02X", x, in.NN())
	case OP_LD_VY:
		return fmt.Sprintf("LD V%X, V%X", x, y)
	case OP_OR:
		return fmt.Sprintf("OR V%X, V%X", x, y)
	case OP_AND:
		return fmt.Sprintf("AND V%X, V%X", x, y)
	case OP_XOR:
		return fmt.Sprintf("XOR V%X, V%X", x, y)
	case OP_ADD_VY:
		return fmt.Sprintf("ADD V%X, V%X", x, y)
	case OP_SUB:
		return fmt.Sprintf("SUB V%X, V%X", x, y)
	case OP_SHR:
		return fmt.Sprintf("SHR V%X, V%X", x, y)
	case OP_SUBN:
		return fmt.Sprintf("SUBN V%X, V%X", x, y)
	case OP_SHL:
		return fmt.Sprintf("SHL V%X, V%X", x, y)
	case OP_SNE_VY:
		return fmt.Sprintf("SNE V%X, V%X", x, y)
	case OP_LD_I:
		return fmt.Sprintf("LD I, $%03X", in.NNN())
	case OP_JP_V0:
		return fmt.Sprintf("JP V0, $%03X", in.NNN())
	case OP_RND:
		return fmt.Sprintf("RND V%X, $%02X", x, in.NN())
	case OP_DRW:
		return fmt.Sprintf("DRW V%X, V%X, $%X", x, y, in.N())
	case OP_SKP:
		return fmt.Sprintf("SKP V%X", x)
	case OP_SKNP:
		return fmt.Sprintf("SKNP V%X", x)
	case OP_LD_VX_DT:
		return fmt.Sprintf("LD V%X, DT", x)
	case OP_LD_VX_K:
		return fmt.Sprintf("LD V%X, K", x)
	case OP_LD_DT:
		return fmt.Sprintf("LD DT, V%X", x)
	case OP_LD_ST:
		return fmt.Sprintf("LD ST, V%X", x)
	case OP_ADD_I:
		return fmt.Sprintf("ADD I, V%X", x)
	case OP_LD_F:
		return fmt.Sprintf("LD F, V%X", x)
	case OP_LD_B:
		return fmt.Sprintf("LD B, V%X", x)
	case OP_LD_MEM_VX:
		return fmt.Sprintf("LD [I], V%X", x)
	case OP_LD_VX_MEM:
		return fmt.Sprintf("LD V%X, [I]", x)
	}

	return fmt.Sprintf("DW $%04X", in.Word)
}
