// Command semu runs a Sampo binary image: either straight through (with
// an optional instruction trace) or under the interactive debugger.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sampo/cpu"
	"sampo/debugger"
	"sampo/disasm"
)

func main() {
	var trace bool
	var interactive bool

	rootCmd := &cobra.Command{
		Use:   "semu <in.bin>",
		Short: "Run a Sampo binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], trace, interactive)
		},
	}
	rootCmd.Flags().BoolVarP(&trace, "trace", "t", false, "print each instruction before executing it")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "drop into the interactive debugger instead of running to completion")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(inPath string, trace, interactive bool) error {
	image, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	c := cpu.New()
	c.LoadProgram(image)

	if interactive {
		// The debugger's own command loop owns stdin for the duration
		// of Run, so key injection via WatchKeys is not layered on top
		// here: a program waiting on port 0x81 while the user is mid
		// "n"/"r" command would have no well-defined reader.
		return debugger.New(c).Run()
	}

	var runErr error
	watchErr := debugger.WatchKeys(c, func() {
		runErr = runToHalt(c, trace)
	})
	if watchErr != nil {
		return watchErr
	}
	return runErr
}

func runToHalt(c *cpu.CPU, trace bool) error {
	const maxSteps = 10_000_000
	for i := 0; i < maxSteps; i++ {
		if trace {
			text, _ := disasm.Disassemble(c, c.PC())
			fmt.Printf("0x%04X  %s\n", c.PC(), text)
		}
		state, err := c.Step()
		if err != nil {
			flushSerial(c)
			return fmt.Errorf("at 0x%04X: %w", c.PC(), err)
		}
		if state == cpu.Halted {
			flushSerial(c)
			return nil
		}
	}
	flushSerial(c)
	return fmt.Errorf("exceeded %d steps without halting", maxSteps)
}

func flushSerial(c *cpu.CPU) {
	if tx := c.DrainSerial(); len(tx) > 0 {
		os.Stdout.Write(tx)
	}
}
