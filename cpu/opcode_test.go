package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_Fields(t *testing.T) {
	assert := assert.New(t)

	in := Decode(0xD12F)
	assert.Equal(OP_DRW, in.Op)
	assert.Equal(0x1, in.X())
	assert.Equal(0x2, in.Y())
	assert.Equal(uint8(0xF), in.N())
	assert.Equal(uint8(0x2F), in.NN())
	assert.Equal(uint16(0x12F), in.NNN())

	for word := 0; word <= 0xFFFF; word += 0x0123 {
		in := Decode(uint16(word))
		assert.Equal(uint16(word)&0x0FFF, uint16(in.X())<<8|uint16(in.Y())<<4|uint16(in.N()))
		assert.Equal(uint16(word), uint16(word)&0xF000|in.NNN())
		assert.Equal(in.NNN()&0xFF, uint16(in.NN()))
		assert.Equal(uint16(in.X()), in.NNN()>>8)
	}
}

func TestDecode_Ops(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word uint16
		op   Op
		text string
	}){
		{0x00E0, OP_CLS, "CLS"},
		{0x00EE, OP_RET, "RET"},
		{0x0123, OP_UNKNOWN, "DW $0123"},
		{0x1228, OP_JP, "JP $228"},
		{0x2ABC, OP_CALL, "CALL $ABC"},
		{0x3A12, OP_SE_NN, "SE VA, $12"},
		{0x4B34, OP_SNE_NN, "SNE VB, $34"},
		{0x5120, OP_SE_VY, "SE V1, V2"},
		{0x5121, OP_UNKNOWN, "DW $5121"},
		{0x6F05, OP_LD_NN, "LD VF, $05"},
		{0x7001, OP_ADD_NN, "ADD V0, $01"},
		{0x8120, OP_LD_VY, "LD V1, V2"},
		{0x8121, OP_OR, "OR V1, V2"},
		{0x8122, OP_AND, "AND V1, V2"},
		{0x8123, OP_XOR, "XOR V1, V2"},
		{0x8124, OP_ADD_VY, "ADD V1, V2"},
		{0x8125, OP_SUB, "SUB V1, V2"},
		{0x8126, OP_SHR, "SHR V1, V2"},
		{0x8127, OP_SUBN, "SUBN V1, V2"},
		{0x812E, OP_SHL, "SHL V1, V2"},
		{0x8128, OP_UNKNOWN, "DW $8128"},
		{0x9120, OP_SNE_VY, "SNE V1, V2"},
		{0xA2F0, OP_LD_I, "LD I, $2F0"},
		{0xB300, OP_JP_V0, "JP V0, $300"},
		{0xC3FF, OP_RND, "RND V3, $FF"},
		{0xD015, OP_DRW, "DRW V0, V1, $5"},
		{0xE59E, OP_SKP, "SKP V5"},
		{0xE5A1, OP_SKNP, "SKNP V5"},
		{0xE500, OP_UNKNOWN, "DW $E500"},
		{0xF607, OP_LD_VX_DT, "LD V6, DT"},
		{0xF60A, OP_LD_VX_K, "LD V6, K"},
		{0xF615, OP_LD_DT, "LD DT, V6"},
		{0xF618, OP_LD_ST, "LD ST, V6"},
		{0xF61E, OP_ADD_I, "ADD I, V6"},
		{0xF629, OP_LD_F, "LD F, V6"},
		{0xF633, OP_LD_B, "LD B, V6"},
		{0xF655, OP_LD_MEM_VX, "LD [I], V6"},
		{0xF665, OP_LD_VX_MEM, "LD V6, [I]"},
		{0xF6FF, OP_UNKNOWN, "DW $F6FF"},
	}

	for _, entry := range table {
		name := fmt.Sprintf("%04X", entry.word)
		in := Decode(entry.word)
		assert.Equal(entry.op, in.Op, name)
		assert.Equal(entry.text, in.String(), name)
	}
}

func TestOp_Encoding(t *testing.T) {
	assert := assert.New(t)

	seen := map[Op]bool{}
	for op := OP_CLS; op < OP_COUNT; op++ {
		mask, value, ok := op.Encoding()
		assert.True(ok, op.String())
		assert.Equal(op, Decode(value).Op, op.String())
		assert.Equal(value, value&mask, op.String())
		seen[op] = true
	}
	assert.Len(seen, int(OP_COUNT-OP_CLS))

	_, _, ok := OP_UNKNOWN.Encoding()
	assert.False(ok)
	assert.Equal("unknown", OP_UNKNOWN.String())
}
