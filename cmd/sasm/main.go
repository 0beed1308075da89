// Command sasm assembles Sampo source into a flat binary image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sampo/encoder"
	"sampo/parser"
)

func main() {
	var outPath string

	rootCmd := &cobra.Command{
		Use:   "sasm <in.s>",
		Short: "Assemble a Sampo source file into a flat binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return assemble(args[0], outPath)
		},
	}
	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "output binary path (default: <in> with .bin extension)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func assemble(inPath, outPath string) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	prog, err := parser.Parse(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	image, err := encoder.Encode(prog)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	if outPath == "" {
		outPath = defaultOutputPath(inPath)
	}
	if err := os.WriteFile(outPath, image, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("%s -> %s (%d bytes)\n", inPath, outPath, len(image))
	return nil
}

func defaultOutputPath(inPath string) string {
	for i := len(inPath) - 1; i >= 0 && inPath[i] != '/'; i-- {
		if inPath[i] == '.' {
			return inPath[:i] + ".bin"
		}
	}
	return inPath + ".bin"
}
