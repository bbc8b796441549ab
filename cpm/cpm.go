// Package cpm emulates the CP/M BDOS console calls through cpu hooks,
// enough to run console programs such as the classic CPU exercisers.
package cpm

import (
	"io"
	"log"

	"github.com/nadil-athauda/i8080-core/cpu"
)

const (
	BOOT = uint16(0x0000) // Warm boot entry point.
	BDOS = uint16(0x0005) // BDOS entry point.
	TPA  = uint16(0x0100) // Start of the transient program area.

	// BDOS_VERSION is reported by S_BDOSVER, as CP/M 2.2.
	BDOS_VERSION = uint16(0x0022)

	// EOF is returned by C_READ when the input is exhausted.
	EOF = uint8(0x1a)
)

// Syscall services a single BDOS function.
type Syscall struct {
	Desc    string                               // Name of the BDOS function.
	Handler func(con *Console, cp *cpu.Cpu) error // Handler for the function.
}

// Syscalls are the BDOS functions the console implements, by number in C.
var Syscalls = map[uint8]Syscall{
	0:  {"P_TERMCPM", sysExit},
	1:  {"C_READ", sysReadChar},
	2:  {"C_WRITE", sysWriteChar},
	6:  {"C_RAWIO", sysRawIO},
	9:  {"C_WRITESTRING", sysWriteString},
	11: {"C_STAT", sysStatus},
	12: {"S_BDOSVER", sysVersion},
}

// Console is a CP/M console bound to a reader and writer.
type Console struct {
	Verbose bool      // Set to enable verbose logging.
	Input   io.Reader // Console input; may be nil.
	Output  io.Writer // Console output; may be nil.
}

// Install registers the BDOS and warm boot hooks on a cpu.
func (con *Console) Install(cp *cpu.Cpu) {
	cp.SetHook(BDOS, con.bdos)
	cp.SetHook(BOOT, con.boot)
}

// Uninstall removes the hooks registered by Install.
func (con *Console) Uninstall(cp *cpu.Cpu) {
	cp.SetHook(BDOS, nil)
	cp.SetHook(BOOT, nil)
}

func (con *Console) boot(cp *cpu.Cpu) error {
	if con.Verbose {
		log.Printf("cpm: warm boot")
	}
	return ErrExit
}

// bdos dispatches on C, then returns to the caller.
func (con *Console) bdos(cp *cpu.Cpu) (err error) {
	function := cp.C()

	call, ok := Syscalls[function]
	if !ok {
		if con.Verbose {
			log.Printf("cpm: bdos %d unimplemented", function)
		}
	} else {
		if con.Verbose {
			log.Printf("cpm: bdos %d %v", function, call.Desc)
		}
		err = call.Handler(con, cp)
		if err != nil {
			return
		}
	}

	cp.SetPc(cp.Pop())
	return
}

func (con *Console) write(data ...byte) (err error) {
	if con.Output == nil {
		return
	}

	_, err = con.Output.Write(data)
	return
}

func (con *Console) read() (value uint8, ok bool) {
	if con.Input == nil {
		return
	}

	var one [1]byte
	n, _ := con.Input.Read(one[:])
	if n != 1 {
		return
	}

	value = one[0]
	ok = true
	return
}

// result stores a byte result in A and L, as BDOS does.
func result(cp *cpu.Cpu, value uint8) {
	cp.SetOperand(cpu.RegA, value)
	cp.SetOperand(cpu.RegL, value)
}

func sysExit(con *Console, cp *cpu.Cpu) error {
	return ErrExit
}

func sysReadChar(con *Console, cp *cpu.Cpu) (err error) {
	value, ok := con.read()
	if !ok {
		value = EOF
	} else {
		err = con.write(value)
	}

	result(cp, value)
	return
}

func sysWriteChar(con *Console, cp *cpu.Cpu) error {
	return con.write(cp.E())
}

// sysRawIO reads without echo when E is 0xff, and writes E otherwise.
func sysRawIO(con *Console, cp *cpu.Cpu) (err error) {
	if cp.E() != 0xff {
		return con.write(cp.E())
	}

	value, _ := con.read()
	result(cp, value)
	return
}

// sysWriteString writes the $ terminated string at DE.
func sysWriteString(con *Console, cp *cpu.Cpu) (err error) {
	var text []byte
	for addr := cp.DE(); ; addr++ {
		ch := cp.Read(addr)
		if ch == '$' {
			break
		}
		text = append(text, ch)
		if len(text) == cpu.MemorySize {
			break
		}
	}

	return con.write(text...)
}

// sysStatus reports a character as ready whenever input is attached.
func sysStatus(con *Console, cp *cpu.Cpu) (err error) {
	if con.Input != nil {
		result(cp, 0xff)
	} else {
		result(cp, 0x00)
	}
	return
}

func sysVersion(con *Console, cp *cpu.Cpu) (err error) {
	cp.SetPair(cpu.PairHL, BDOS_VERSION)
	cp.SetOperand(cpu.RegA, uint8(BDOS_VERSION))
	cp.SetOperand(cpu.RegB, uint8(BDOS_VERSION>>8))
	return
}
