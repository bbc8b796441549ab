// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	goio "io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nadil-athauda/i8080-core/cpm"
	"github.com/nadil-athauda/i8080-core/cpu"
	"github.com/nadil-athauda/i8080-core/emulator"
	"github.com/nadil-athauda/i8080-core/internal"
	"github.com/nadil-athauda/i8080-core/io"
)

// bindTerminal connects the terminal to the CP/M console, and to the tape
// where the tape flags name "-". In CP/M mode the console owns stdin, so
// tape input must be named with -i.
func bindTerminal(emu *emulator.Emulator, stdin goio.Reader, stdout goio.Writer, input, output string) {
	emu.Console.Output = stdout
	if emu.CPM {
		emu.Console.Input = stdin
	} else if input == "-" {
		emu.Tape.Input = stdin
	}

	if output == "-" {
		emu.Tape.Output = stdout
	}
}

// assemble parses an assembly source file, with the emulator defines.
func assemble(emu *emulator.Emulator, source string, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
	}
	return
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "i8080",
		Short:        "Intel 8080 emulator and assembler",
		SilenceUsage: true,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")

	// run command
	var offset uint16
	var entry uint16
	var stack uint16
	var useCpm bool
	var maxTicks uint64
	var checksum bool
	var ring string
	var input string
	var output string

	runCmd := &cobra.Command{
		Use:   "run IMAGE",
		Short: "Run a binary image, archive, or .asm source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			image := args[0]

			emu := emulator.NewEmulator()
			emu.Verbose = verbose
			emu.CPM = useCpm
			emu.Stack = stack

			if useCpm && !cmd.Flags().Changed("offset") {
				offset = cpm.TPA
			}

			if strings.EqualFold(filepath.Ext(image), ".asm") {
				var prog *cpu.Program
				prog, err = assemble(emu, image, verbose)
				if err != nil {
					return
				}
				emu.Program = prog
				offset, _ = prog.Image()
			} else {
				var data []byte
				data, err = io.LoadImage(image)
				if err != nil {
					return
				}
				emu.Origin = offset
				emu.SetImage(data)
			}

			emu.Entry = offset
			if cmd.Flags().Changed("entry") {
				emu.Entry = entry
			}

			if len(ring) != 0 {
				var rf *os.File
				rf, err = os.Open(ring)
				if err == nil {
					err = emu.Ring.Unmarshal(rf)
					rf.Close()
				}
				if err != nil && !os.IsNotExist(err) {
					return
				}
				err = nil
			}

			bindTerminal(emu, os.Stdin, os.Stdout, input, output)

			if input != "-" {
				var inf *os.File
				inf, err = os.Open(input)
				if err != nil {
					return
				}
				defer inf.Close()
				emu.Tape.Input = inf
			}

			if output != "-" {
				var ouf *os.File
				ouf, err = os.Create(output)
				if err != nil {
					return
				}
				defer ouf.Close()
				emu.Tape.Output = ouf
			}

			err = emu.Reset()
			if err != nil {
				return
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			err = emu.Run(ctx, maxTicks)
			if verbose {
				log.Printf("cpu:\n%v", emu.Cpu.String())
			}
			if err != nil {
				return
			}

			if len(ring) != 0 {
				var rf *os.File
				rf, err = os.Create(ring)
				if err != nil {
					return
				}
				defer rf.Close()
				err = emu.Ring.Marshal(rf)
				if err != nil {
					return
				}
			}

			if checksum {
				fmt.Printf("%016x\n", emu.Checksum())
			}

			return
		},
	}
	runCmd.Flags().Uint16Var(&offset, "offset", 0, "Load address of a binary image")
	runCmd.Flags().Uint16Var(&entry, "entry", 0, "Initial program counter (default: load address)")
	runCmd.Flags().Uint16Var(&stack, "sp", 0, "Initial stack pointer")
	runCmd.Flags().BoolVar(&useCpm, "cpm", false, "Emulate the CP/M console BDOS (load address 0x100)")
	runCmd.Flags().Uint64Var(&maxTicks, "max-ticks", 0, "Stop after this many instructions (0 = no limit)")
	runCmd.Flags().BoolVar(&checksum, "checksum", false, "Print a checksum of memory after the run")
	runCmd.Flags().StringVar(&ring, "ring", "", "File backing the ring port, saved after the run")
	runCmd.Flags().StringVarP(&input, "input", "i", "-", "Tape input (stdin is the console with --cpm)")
	runCmd.Flags().StringVarP(&output, "output", "o", "-", "Tape output")

	// asm command
	var binary string

	asmCmd := &cobra.Command{
		Use:   "asm SOURCE",
		Short: "Assemble a source file into a binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, err := assemble(emulator.NewEmulator(), args[0], verbose)
			if err != nil {
				return
			}

			origin, data := prog.Image()
			if verbose {
				log.Printf("%v: %d bytes at 0x%04x", args[0], len(data), origin)
			}

			if len(binary) == 0 {
				binary = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".bin"
			}

			return os.WriteFile(binary, data, 0o644)
		},
	}
	asmCmd.Flags().StringVarP(&binary, "output", "o", "", "Output binary (default: SOURCE with .bin)")

	// defines command
	definesCmd := &cobra.Command{
		Use:   "defines",
		Short: "List the equates predefined for assembly sources",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for name, value := range internal.IterSeq2Sorted(emulator.NewEmulator().Defines()) {
				fmt.Printf(".equ %v %v\n", name, value)
			}
		},
	}

	rootCmd.AddCommand(runCmd, asmCmd, definesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
