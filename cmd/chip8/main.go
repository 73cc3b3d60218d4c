// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezrec/chip8/asm"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/rom"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "chip8 [command]",
	Short:        "CHIP-8 virtual machine",
	Long:         "Assemble, disassemble and run CHIP-8 programs on a headless virtual machine.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.chip8.yaml)")
	flags.BoolP("verbose", "v", false, "verbose logging")
	flags.StringP("mode", "m", cpu.MODE_MODERN.String(), "quirk mode, 'legacy' or 'modern'")
	cobra.CheckErr(viper.BindPFlags(flags))

	rootCmd.AddCommand(runCmd, asmCmd, disCmd, definesCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chip8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chip8")
	}

	viper.SetEnvPrefix("chip8")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		log.Printf("chip8: using config file %v", viper.ConfigFileUsed())
	}
}

// newEmulator builds an emulator from the configuration.
func newEmulator() (emu *emulator.Emulator, err error) {
	mode, err := cpu.ParseMode(viper.GetString("mode"))
	if err != nil {
		return
	}

	emu = emulator.NewEmulator(mode)
	emu.Verbose = viper.GetBool("verbose")

	return
}

// isSource reports whether a path names assembly source rather than an image.
func isSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".s", ".asm", ".c8s":
		return true
	}
	return false
}

// assemble parses a source file, with the emulator defines predeclared.
func assemble(emu *emulator.Emulator, path string) (prog *asm.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	assembler := &asm.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		assembler.Predefine(key, value)
	}

	prog, err = assembler.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// openRom reads a program image from the file system.
func openRom(path string) (*rom.Rom, error) {
	return rom.Open(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
