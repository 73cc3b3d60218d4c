package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezrec/chip8/asm"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/rom"
)

var asmCmd = &cobra.Command{
	Use:   "asm `path/source`",
	Short: "assemble a source file into a program image",
	Args:  cobra.ExactArgs(1),
	RunE:  asmMain,
}

var disCmd = &cobra.Command{
	Use:   "dis `path/ROM`",
	Short: "disassemble a program image",
	Args:  cobra.ExactArgs(1),
	RunE:  disMain,
}

func init() {
	asmCmd.Flags().StringP("output", "o", "", "image file (default source name with .ch8)")
	asmCmd.Flags().BoolP("listing", "l", false, "print a listing")
}

func asmMain(cmd *cobra.Command, args []string) (err error) {
	emu, err := newEmulator()
	if err != nil {
		return
	}

	path := args[0]
	prog, err := assemble(emu, path)
	if err != nil {
		return
	}

	listing, _ := cmd.Flags().GetBool("listing")
	if listing {
		err = prog.WriteListing(cmd.OutOrStdout())
		if err != nil {
			return
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".ch8"
	}

	ouf, err := os.Create(output)
	if err != nil {
		return
	}
	defer ouf.Close()

	image := &rom.Rom{Name: filepath.Base(output), Data: prog.Data}
	_, err = image.WriteTo(ouf)
	if err != nil {
		return
	}

	if viper.GetBool("verbose") {
		log.Printf("chip8: %v: %d bytes, %d labels", output, image.Size(), len(prog.Labels))
	}

	return ouf.Close()
}

func disMain(cmd *cobra.Command, args []string) (err error) {
	image, err := openRom(args[0])
	if err != nil {
		return
	}

	return asm.Disassemble(cmd.OutOrStdout(), cpu.PROGRAM_START, image.Data)
}

var definesCmd = &cobra.Command{
	Use:   "defines",
	Short: "list the equates predefined for assembly sources",
	Args:  cobra.NoArgs,
	RunE:  definesMain,
}

func definesMain(cmd *cobra.Command, args []string) (err error) {
	emu, err := newEmulator()
	if err != nil {
		return
	}

	for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), ".equ %-16s %v\n", key, value)
		if err != nil {
			return
		}
	}

	return
}
