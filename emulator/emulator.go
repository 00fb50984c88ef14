// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/internal"
	"github.com/ezrec/m6502/memory"
)

const (
	HALT_ADDRESS = uint16(0xFFF0) // Self jump installed as the default BRK handler.
	CTX_INTERVAL = 256            // Steps between context checks in Run.
)

var _emulator_defines = map[string]string{
	"HALT": fmt.Sprintf("$%04X", HALT_ADDRESS),
}

// Emulator state. CPU + RAM + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Ram     memory.Ram     // Backing store for the whole address space.
	Bus     *memory.Mapped // Bus seen by the CPU.
	Console memory.Console // Character device at CONSOLE_OUT and CONSOLE_IN.

	Breakpoints []uint16 // Addresses Run stops before executing.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Bus = memory.NewMapped(&emu.Ram)
	for _, addr := range []uint16{memory.CONSOLE_OUT, memory.CONSOLE_IN} {
		err := emu.Bus.Map(addr, addr, &emu.Console)
		if err != nil {
			panic(err)
		}
	}

	emu.Cpu = cpu.NewCpu(emu.Bus)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Console.Defines(),
	)
}

// Reset the emulator to power-on state, and reset the CPU through its
// reset vector. Memory is left alone.
func (emu *Emulator) Reset() {
	unsigned := emu.Cpu.UnsignedCompare

	emu.Console.Rewind()
	emu.Cpu = cpu.NewCpu(emu.Bus)
	emu.Cpu.UnsignedCompare = unsigned

	if emu.Verbose {
		log.Printf("emulator: reset to $%04X", emu.Cpu.PC)
	}
}

// setVectors points the reset vector at entry. A BRK vector the image
// left at zero is pointed at the halt trap.
func (emu *Emulator) setVectors(entry uint16) {
	emu.Ram.SetVector(cpu.RESET_VECTOR, entry)

	if memory.Read16(&emu.Ram, cpu.BRK_VECTOR) == 0 {
		code, _ := cpu.Encode(cpu.OP_JMP, cpu.MODE_ABSOLUTE)
		emu.Ram.Write(HALT_ADDRESS, code)
		memory.Write16(&emu.Ram, HALT_ADDRESS+1, HALT_ADDRESS)
		emu.Ram.SetVector(cpu.BRK_VECTOR, HALT_ADDRESS)
	}
}

// Load an assembled program, and reset to entry.
func (emu *Emulator) Load(prog *cpu.Program, entry uint16) {
	emu.Program = prog

	emu.Ram.Reset()
	prog.Load(&emu.Ram)
	emu.setVectors(entry)

	emu.Reset()
}

// LoadImage loads the raw memory image name from fsys at addr, and
// resets to entry.
func (emu *Emulator) LoadImage(fsys fs.FS, name string, addr uint16, entry uint16) (err error) {
	emu.Program = &cpu.Program{}

	emu.Ram.Reset()
	err = emu.Ram.LoadImage(fsys, name, addr)
	if err != nil {
		return
	}
	emu.setVectors(entry)

	emu.Reset()

	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	return emu.lineNoAt(emu.Cpu.PC)
}

// fail wraps err with the current location.
func (emu *Emulator) fail(pc uint16, err error) error {
	return &ErrRuntime{
		Pc:     pc,
		LineNo: emu.lineNoAt(pc),
		Err:    err,
	}
}

func (emu *Emulator) lineNoAt(pc uint16) int {
	dbg := emu.Program.Debug(pc)
	if dbg.Statement == nil {
		return 0
	}
	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// The emulator is done when an instruction leaves PC unchanged.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.PC

	err = emu.Cpu.Step()
	if err != nil {
		err = emu.fail(pc, err)
		return
	}

	done = emu.Cpu.PC == pc

	return
}

// Run ticks until the emulator is done, an error occurs, a breakpoint is
// reached, limit steps have run (0 for no limit), or ctx is cancelled.
// Breakpoints are not checked before the first step, so Run can resume
// from one.
func (emu *Emulator) Run(ctx context.Context, limit int) (steps int, err error) {
	for {
		if steps%CTX_INTERVAL == 0 {
			err = ctx.Err()
			if err != nil {
				return
			}
		}

		if limit > 0 && steps >= limit {
			err = emu.fail(emu.Cpu.PC, ErrStepLimit)
			return
		}

		if steps > 0 && slices.Contains(emu.Breakpoints, emu.Cpu.PC) {
			err = emu.fail(emu.Cpu.PC, ErrBreakpoint)
			return
		}

		var done bool
		done, err = emu.Tick()
		steps++
		if err != nil || done {
			return
		}
	}
}
