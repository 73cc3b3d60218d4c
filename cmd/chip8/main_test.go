package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
start:  LD  V0, $(DISPLAY_WIDTH - 1)
        LD  F, V0
        DRW V1, V1, FONT_GLYPH
halt:   JP  halt
`

func execute(t *testing.T, args ...string) string {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func TestCommands(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "glyph.asm")
	require.NoError(t, os.WriteFile(src, []byte(testSource), 0o644))

	execute(t, "asm", src)

	image, err := os.ReadFile(filepath.Join(dir, "glyph.ch8"))
	require.NoError(t, err)
	assert.Equal([]byte{0x60, 0x3F, 0xF0, 0x29, 0xD1, 0x15, 0x12, 0x06}, image)

	listing := execute(t, "dis", filepath.Join(dir, "glyph.ch8"))
	assert.Equal(strings.Join([]string{
		"200: 603F  LD V0, $3F",
		"202: F029  LD F, V0",
		"204: D115  DRW V1, V1, $5",
		"206: 1206  JP $206",
		"",
	}, "\n"), listing)

	display := execute(t, "run", "--display", "--rate", "10000", "--timeout", "5s", src)
	lines := strings.Split(display, "\n")
	require.Greater(t, len(lines), 5)
	assert.True(strings.HasPrefix(lines[0], "####."))
	assert.True(strings.HasPrefix(lines[1], "#...."))
	assert.True(strings.HasPrefix(lines[4], "#...."))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	lines := strings.Split(strings.TrimSuffix(execute(t, "defines"), "\n"), "\n")
	assert.Equal(".equ DISPLAY_HEIGHT   32", lines[0])
	assert.Contains(lines, ".equ PROGRAM_START    0x200")
	assert.Contains(lines, ".equ INSTRUCTION_HZ   700")
}

func TestIsSource(t *testing.T) {
	assert := assert.New(t)

	assert.True(isSource("pong.asm"))
	assert.True(isSource("dir/PONG.S"))
	assert.False(isSource("pong.ch8"))
	assert.False(isSource("pong"))
}
