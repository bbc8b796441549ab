// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/cespare/xxhash"

	"github.com/nadil-athauda/i8080-core/cpm"
	"github.com/nadil-athauda/i8080-core/cpu"
	"github.com/nadil-athauda/i8080-core/internal"
	"github.com/nadil-athauda/i8080-core/io"
)

const (
	PORT_TAPE = uint8(1) // Port of the tape device.
	PORT_ROM  = uint8(2) // Port of the program rom.
	PORT_TEMP = uint8(3) // Port of the temporary FIFO.
	PORT_RING = uint8(4) // Port of the persistent ring.

	TEMP_CAPACITY = 8192 // Capacity of the temporary FIFO.
)

var _emulator_defines = map[string]string{
	"PORT_TAPE": fmt.Sprintf("%v", PORT_TAPE),
	"PORT_ROM":  fmt.Sprintf("%v", PORT_ROM),
	"PORT_TEMP": fmt.Sprintf("%v", PORT_TEMP),
	"PORT_RING": fmt.Sprintf("%v", PORT_RING),
	"BDOS":      fmt.Sprintf("0x%04x", cpm.BDOS),
	"TPA":       fmt.Sprintf("0x%04x", cpm.TPA),
}

// Emulator state. CPU + port devices + CP/M console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Bus       io.Bus       // Port bus, installed as the CPU port handler.
	Tape      io.Tape      // Tape port.
	Rom       io.Rom       // ROM port, replaying the loaded image.
	Temporary io.Temporary // Temporary FIFO port.
	Ring      io.Ring      // Persistent ring port.
	Console   cpm.Console  // CP/M console, installed when CPM is set.

	Origin uint16 // Load address of the image.
	Entry  uint16 // Initial program counter.
	Stack  uint16 // Initial stack pointer.
	CPM    bool   // If set, installs the CP/M console hooks.

	image []byte
	done  bool
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Temporary.Capacity = TEMP_CAPACITY

	emu.Bus.Attach(PORT_TAPE, &emu.Tape)
	emu.Bus.Attach(PORT_ROM, &emu.Rom)
	emu.Bus.Attach(PORT_TEMP, &emu.Temporary)
	emu.Bus.Attach(PORT_RING, &emu.Ring)

	emu.Cpu.Ports = &emu.Bus

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// SetImage sets a raw image to load at Origin, instead of the Program.
// A nil image reverts to the Program.
func (emu *Emulator) SetImage(data []byte) {
	emu.image = data
}

// Reset the emulator, and load the image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Bus.Verbose = emu.Verbose
	emu.Console.Verbose = emu.Verbose

	origin, data := emu.Origin, emu.image
	if data == nil {
		origin, data = emu.Program.Image()
		emu.Origin = origin
	}

	emu.Rom.Data = data
	emu.Bus.Reset()
	emu.Cpu.Reset()
	emu.done = false

	err = emu.Cpu.LoadAt(data, int(origin))
	if err != nil {
		return
	}

	if emu.CPM {
		emu.Console.Install(emu.Cpu)
	} else {
		emu.Console.Uninstall(emu.Cpu)
	}

	emu.Cpu.SetPc(emu.Entry)
	emu.Cpu.SetSp(emu.Stack)

	if emu.Verbose {
		log.Printf("emulator: reset, %d bytes at 0x%04x, entry 0x%04x", len(data), origin, emu.Entry)
	}

	return
}

// LineNo returns the source line number for an address, or 0.
func (emu *Emulator) LineNo(addr uint16) int {
	dbg := emu.Program.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator.
// It is done when the CPU halts or the CP/M program exits.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.done {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: emu.LineNo(pc), Err: err}
		}
	}()

	_, err = emu.Cpu.Step()
	if errors.Is(err, cpu.ErrHalted) || errors.Is(err, cpm.ErrExit) {
		err = nil
		emu.done = true
		done = true
	}

	return
}

// Run ticks until done, the context is cancelled, or limit ticks have
// passed. A zero limit runs without bound.
func (emu *Emulator) Run(ctx context.Context, limit uint64) (err error) {
	for tick := uint64(0); limit == 0 || tick < limit; tick++ {
		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrTickLimit
	return
}

// Checksum returns a digest of the whole memory.
func (emu *Emulator) Checksum() uint64 {
	return xxhash.Sum64(emu.Cpu.Dump())
}
