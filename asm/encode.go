package asm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ezrec/chip8/cpu"
)

// field is where an operand lands in the instruction word.
type field int

const (
	FIELD_NONE = field(iota) // Keyword operand, no bits.
	FIELD_X                  // Register in bits 8..11.
	FIELD_Y                  // Register in bits 4..7.
	FIELD_V0                 // Register that must be V0.
	FIELD_NNN                // 12 bit address.
	FIELD_NN                 // 8 bit immediate.
	FIELD_N                  // 4 bit immediate.
)

type encoding struct {
	Op     cpu.Op
	Fields []field
}

// encodings maps a mnemonic and its operand kinds to an instruction.
// Operand kinds are 'V' for a register, 'n' for a value, or the keyword.
var encodings = map[string]encoding{
	"CLS":       {cpu.OP_CLS, nil},
	"RET":       {cpu.OP_RET, nil},
	"JP n":      {cpu.OP_JP, []field{FIELD_NNN}},
	"JP V,n":    {cpu.OP_JP_V0, []field{FIELD_V0, FIELD_NNN}},
	"CALL n":    {cpu.OP_CALL, []field{FIELD_NNN}},
	"SE V,n":    {cpu.OP_SE_NN, []field{FIELD_X, FIELD_NN}},
	"SNE V,n":   {cpu.OP_SNE_NN, []field{FIELD_X, FIELD_NN}},
	"SE V,V":    {cpu.OP_SE_VY, []field{FIELD_X, FIELD_Y}},
	"SNE V,V":   {cpu.OP_SNE_VY, []field{FIELD_X, FIELD_Y}},
	"LD V,n":    {cpu.OP_LD_NN, []field{FIELD_X, FIELD_NN}},
	"ADD V,n":   {cpu.OP_ADD_NN, []field{FIELD_X, FIELD_NN}},
	"LD V,V":    {cpu.OP_LD_VY, []field{FIELD_X, FIELD_Y}},
	"OR V,V":    {cpu.OP_OR, []field{FIELD_X, FIELD_Y}},
	"AND V,V":   {cpu.OP_AND, []field{FIELD_X, FIELD_Y}},
	"XOR V,V":   {cpu.OP_XOR, []field{FIELD_X, FIELD_Y}},
	"ADD V,V":   {cpu.OP_ADD_VY, []field{FIELD_X, FIELD_Y}},
	"SUB V,V":   {cpu.OP_SUB, []field{FIELD_X, FIELD_Y}},
	"SHR V,V":   {cpu.OP_SHR, []field{FIELD_X, FIELD_Y}},
	"SUBN V,V":  {cpu.OP_SUBN, []field{FIELD_X, FIELD_Y}},
	"SHL V,V":   {cpu.OP_SHL, []field{FIELD_X, FIELD_Y}},
	"LD I,n":    {cpu.OP_LD_I, []field{FIELD_NONE, FIELD_NNN}},
	"RND V,n":   {cpu.OP_RND, []field{FIELD_X, FIELD_NN}},
	"DRW V,V,n": {cpu.OP_DRW, []field{FIELD_X, FIELD_Y, FIELD_N}},
	"SKP V":     {cpu.OP_SKP, []field{FIELD_X}},
	"SKNP V":    {cpu.OP_SKNP, []field{FIELD_X}},
	"LD V,DT":   {cpu.OP_LD_VX_DT, []field{FIELD_X, FIELD_NONE}},
	"LD V,K":    {cpu.OP_LD_VX_K, []field{FIELD_X, FIELD_NONE}},
	"LD DT,V":   {cpu.OP_LD_DT, []field{FIELD_NONE, FIELD_X}},
	"LD ST,V":   {cpu.OP_LD_ST, []field{FIELD_NONE, FIELD_X}},
	"ADD I,V":   {cpu.OP_ADD_I, []field{FIELD_NONE, FIELD_X}},
	"LD F,V":    {cpu.OP_LD_F, []field{FIELD_NONE, FIELD_X}},
	"LD B,V":    {cpu.OP_LD_B, []field{FIELD_NONE, FIELD_X}},
	"LD [I],V":  {cpu.OP_LD_MEM_VX, []field{FIELD_NONE, FIELD_X}},
	"LD V,[I]":  {cpu.OP_LD_VX_MEM, []field{FIELD_X, FIELD_NONE}},
}

// Reserved operand keywords.
var keywords = map[string]bool{
	"I":   true,
	"DT":  true,
	"ST":  true,
	"K":   true,
	"F":   true,
	"B":   true,
	"[I]": true,
}

var reRegister = regexp.MustCompile(`^[vV][0-9a-fA-F]$`)

// kindOf classifies an operand word.
func kindOf(word string) string {
	upper := strings.ToUpper(word)
	switch {
	case reRegister.MatchString(word):
		return "V"
	case keywords[upper]:
		return upper
	default:
		return "n"
	}
}

// parseNumber parses a number literal.
func parseNumber(word string) (value int64, err error) {
	text := word
	invert := false
	if strings.HasPrefix(text, "~") {
		invert = true
		text = text[1:]
	}

	negate := false
	if strings.HasPrefix(text, "-") {
		negate = true
		text = text[1:]
	}

	switch {
	case strings.HasPrefix(text, "$"):
		value, err = strconv.ParseInt(text[1:], 16, 32)
	case strings.HasPrefix(text, "%"):
		value, err = strconv.ParseInt(text[1:], 2, 32)
	default:
		value, err = strconv.ParseInt(text, 0, 32)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if negate {
		value = -value
	}
	if invert {
		value = ^value
	}

	return
}

// fit checks that value can be stored in an unsigned field of bits width.
// Negative values down to -2^(bits-1) are stored as two's complement.
func fit(value int64, bits int) (out uint16, err error) {
	limit := int64(1) << bits
	if value >= limit || value < -(limit>>1) {
		err = &ErrRange{Value: value, Bits: bits}
		return
	}

	out = uint16(value & (limit - 1))
	return
}

// encode assembles one instruction from its mnemonic and operands.
func (asm *Assembler) encode(mnemonic string, args []string) (word uint16, err error) {
	kinds := make([]string, len(args))
	for n, arg := range args {
		kinds[n] = kindOf(arg)
	}

	key := strings.ToUpper(mnemonic)
	if len(kinds) > 0 {
		key += " " + strings.Join(kinds, ",")
	}

	enc, ok := encodings[key]
	if !ok {
		if asm.isMnemonic(mnemonic) {
			err = ErrOperands(key)
		} else {
			err = ErrInstructionInvalid
		}
		return
	}

	_, word, _ = enc.Op.Encoding()

	for n, fld := range enc.Fields {
		arg := args[n]
		var reg uint16
		if kinds[n] == "V" {
			var v uint64
			v, _ = strconv.ParseUint(arg[1:], 16, 4)
			reg = uint16(v)
		}

		var bits uint16
		switch fld {
		case FIELD_X:
			word |= reg << 8
		case FIELD_Y:
			word |= reg << 4
		case FIELD_V0:
			if reg != 0 {
				err = ErrRegisterInvalid
				return
			}
		case FIELD_NNN:
			bits, err = asm.fieldValue(arg, 12)
			word |= bits
		case FIELD_NN:
			bits, err = asm.fieldValue(arg, 8)
			word |= bits
		case FIELD_N:
			bits, err = asm.fieldValue(arg, 4)
			word |= bits
		}
		if err != nil {
			return
		}
	}

	return
}

// isMnemonic reports whether any encoding uses the mnemonic.
func (asm *Assembler) isMnemonic(mnemonic string) bool {
	upper := strings.ToUpper(mnemonic)
	for key := range encodings {
		name, _, _ := strings.Cut(key, " ")
		if name == upper {
			return true
		}
	}
	return false
}

func (asm *Assembler) fieldValue(arg string, bits int) (out uint16, err error) {
	value, err := asm.valueOf(arg)
	if err != nil {
		return
	}

	return fit(value, bits)
}
