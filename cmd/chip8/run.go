package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
)

var runCmd = &cobra.Command{
	Use:   "run `path/ROM`",
	Short: "run a program image or assembly source",
	Args:  cobra.ExactArgs(1),
	RunE:  runMain,
}

func init() {
	flags := runCmd.Flags()
	flags.IntP("rate", "r", emulator.INSTRUCTION_HZ, "instructions per second")
	flags.Int("timer-rate", emulator.TIMER_HZ, "timer decrements per second")
	flags.Bool("halt", true, "stop when the program jumps to itself")
	flags.Duration("timeout", 0, "stop after this long, 0 runs until interrupted")
	flags.Bool("display", false, "print the display when stopped")
	cobra.CheckErr(viper.BindPFlags(flags))
}

// logHost reports display refreshes and tone changes to the log.
type logHost struct {
	Verbose   bool
	Refreshes int
}

func (lh *logHost) Refresh(display *cpu.Display) {
	lh.Refreshes++
}

func (lh *logHost) Sound(on bool) {
	if lh.Verbose {
		log.Printf("chip8: sound %v", on)
	}
}

func runMain(cmd *cobra.Command, args []string) (err error) {
	emu, err := newEmulator()
	if err != nil {
		return
	}

	path := args[0]
	if isSource(path) {
		prog, err := assemble(emu, path)
		if err != nil {
			return err
		}
		err = emu.LoadProgram(prog)
		if err != nil {
			return err
		}
	} else {
		image, err := openRom(path)
		if err != nil {
			return err
		}
		err = emu.LoadRom(image)
		if err != nil {
			return err
		}
	}

	host := &logHost{Verbose: emu.Verbose}
	emu.Host = host
	emu.Rate = viper.GetInt("rate")
	emu.TimerRate = viper.GetInt("timer-rate")
	emu.StopOnHalt = viper.GetBool("halt")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err = emu.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}

	snap := emu.Snapshot()
	if viper.GetBool("display") {
		fmt.Fprint(cmd.OutOrStdout(), snap.Display.String())
	}
	if emu.Verbose {
		log.Printf("chip8: %v after %d instructions, %d refreshes", snap.State, snap.Ticks, host.Refreshes)
		log.Printf("chip8: registers\n%v", emu.Cpu.String())
	}

	return
}
