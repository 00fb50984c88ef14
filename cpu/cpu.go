package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/m6502/memory"
)

// Fixed addresses of the 6502.
const (
	STACK_PAGE   = uint16(0x0100) // Page holding the stack.
	RESET_VECTOR = uint16(0xFFFC) // Little endian reset entry point.
	BRK_VECTOR   = uint16(0xFFFE) // Little endian BRK handler.
)

// Power-on register state.
const (
	POWER_ON_S = uint8(0xFD)
	POWER_ON_P = uint8(FLAG_UNUSED | FLAG_INTERRUPT)
)

var _cpu_defines = map[string]string{
	"STACK_PAGE":   fmt.Sprintf("$%04X", STACK_PAGE),
	"RESET_VECTOR": fmt.Sprintf("$%04X", RESET_VECTOR),
	"BRK_VECTOR":   fmt.Sprintf("$%04X", BRK_VECTOR),
}

// Cpu is the simulation context of a 6502.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory memory.Memory // Bus the CPU is attached to; nil when detached.

	UnsignedCompare bool // Set for hardware carry on CMP, CPX and CPY.

	A  uint8  // Accumulator.
	X  uint8  // X index.
	Y  uint8  // Y index.
	S  uint8  // Stack pointer, offset into STACK_PAGE.
	P  uint8  // Packed status flags.
	PC uint16 // Program counter.

	Cycles uint64 // Bus cycles executed.

	insn instruction // Bytes of the executing instruction, when Verbose.
}

// instruction collects the bytes of an instruction as they are fetched.
type instruction struct {
	addr  uint16
	size  int
	bytes [3]uint8
	count int
}

// collect keeps value if it is the next byte of the instruction.
func (insn *instruction) collect(addr uint16, value uint8) {
	if insn.count < insn.size && addr-insn.addr == uint16(insn.count) {
		insn.bytes[insn.count] = value
		insn.count++
	}
}

// NewCpu creates a CPU attached to a memory bus, and resets it.
func NewCpu(mem memory.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
		S:      POWER_ON_S,
		P:      POWER_ON_P,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Detach drops the memory bus. Afterwards reads return zero and writes
// are discarded.
func (cpu *Cpu) Detach() {
	cpu.Memory = nil
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "x", "y", "s", "p", "cycles"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("$%04X", cpu.PC)
		case "a":
			strval = fmt.Sprintf("$%02X", cpu.A)
		case "x":
			strval = fmt.Sprintf("$%02X", cpu.X)
		case "y":
			strval = fmt.Sprintf("$%02X", cpu.Y)
		case "s":
			strval = fmt.Sprintf("$%02X", cpu.S)
		case "p":
			strval = fmt.Sprintf("$%02X %v", cpu.P, Flag(cpu.P))
		case "cycles":
			strval = fmt.Sprintf("%d", cpu.Cycles)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU.
// - S is decremented by three, without writing to the stack.
// - PC is loaded from RESET_VECTOR.
func (cpu *Cpu) Reset() {
	cpu.S -= 3
	lo := cpu.read(RESET_VECTOR)
	hi := cpu.read(RESET_VECTOR + 1)
	cpu.PC = uint16(hi)<<8 | uint16(lo)

	if cpu.Verbose {
		log.Printf("cpu: reset to $%04X", cpu.PC)
	}
}

// Step executes a single instruction.
//
// An undocumented opcode costs only its fetch, and returns an error
// matching both ErrOpcodeInvalid and ErrOpcode.
func (cpu *Cpu) Step() (err error) {
	pc := cpu.PC

	if cpu.Verbose {
		cpu.insn = instruction{addr: pc, size: 1}
		state := fmt.Sprintf("a=$%02X x=$%02X y=$%02X s=$%02X p=%v",
			cpu.A, cpu.X, cpu.Y, cpu.S, Flag(cpu.P))
		defer func() {
			text, _ := DisassembleBytes(pc, cpu.insn.bytes[:cpu.insn.count])
			log.Printf("cpu: $%04X: %-14v %v", pc, text, state)
		}()
	}

	code := cpu.fetch()
	opcode := Decode(code)
	if opcode.Valid() {
		cpu.insn.size = opcode.Size()
	}
	if !opcode.Valid() {
		err = errors.Join(ErrOpcodeInvalid, ErrOpcode(code))
		if cpu.Verbose {
			log.Printf("cpu: $%04X: %v", pc, err)
		}
		return
	}

	cpu.execute(opcode)

	return
}

// load reads the bus without counting a cycle.
func (cpu *Cpu) load(addr uint16) (value uint8) {
	if cpu.Memory == nil {
		return
	}
	value = cpu.Memory.Read(addr)
	return
}

// store writes the bus without counting a cycle.
func (cpu *Cpu) store(addr uint16, value uint8) {
	if cpu.Memory == nil {
		return
	}
	cpu.Memory.Write(addr, value)
}

// read is a read bus cycle.
func (cpu *Cpu) read(addr uint16) (value uint8) {
	cpu.Cycles++
	value = cpu.load(addr)
	if cpu.Verbose {
		cpu.insn.collect(addr, value)
	}
	return
}

// write is a write bus cycle.
func (cpu *Cpu) write(addr uint16, value uint8) {
	cpu.Cycles++
	cpu.store(addr, value)
}

// idle is an internal cycle with no bus access.
func (cpu *Cpu) idle() {
	cpu.Cycles++
}

// fetch reads the byte at PC, and advances PC.
func (cpu *Cpu) fetch() (value uint8) {
	value = cpu.read(cpu.PC)
	cpu.PC++
	return
}

// fetch16 reads the little endian word at PC, and advances PC.
func (cpu *Cpu) fetch16() uint16 {
	lo := cpu.fetch()
	hi := cpu.fetch()
	return uint16(hi)<<8 | uint16(lo)
}
