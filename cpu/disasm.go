package cpu

import (
	"fmt"

	"github.com/ezrec/m6502/memory"
)

// Disassemble decodes the instruction at addr, in the syntax accepted by
// the Assembler. Only the instruction's own bytes are read, and no cycles
// are counted.
func Disassemble(mem memory.Memory, addr uint16) (text string, size int) {
	data := []uint8{mem.Read(addr)}
	opcode := Decode(data[0])
	if opcode.Valid() {
		for n := 1; n < opcode.Size(); n++ {
			data = append(data, mem.Read(addr+uint16(n)))
		}
	}

	return DisassembleBytes(addr, data)
}

// DisassembleBytes decodes an instruction located at addr from its bytes.
// Missing operand bytes are taken as zero.
func DisassembleBytes(addr uint16, data []uint8) (text string, size int) {
	var code [3]uint8
	copy(code[:], data)

	opcode := Decode(code[0])
	if !opcode.Valid() {
		text = fmt.Sprintf(".byte $%02X", code[0])
		size = 1
		return
	}

	size = opcode.Size()

	lo := code[1]
	word := uint16(code[2])<<8 | uint16(code[1])

	var operand string
	switch opcode.Mode {
	case MODE_IMPLIED:
	case MODE_ACCUMULATOR:
		operand = "A"
	case MODE_IMMEDIATE:
		operand = fmt.Sprintf("#$%02X", lo)
	case MODE_ZERO_PAGE:
		operand = fmt.Sprintf("$%02X", lo)
	case MODE_ZERO_PAGE_X:
		operand = fmt.Sprintf("$%02X,X", lo)
	case MODE_ZERO_PAGE_Y:
		operand = fmt.Sprintf("$%02X,Y", lo)
	case MODE_ABSOLUTE:
		operand = fmt.Sprintf("$%04X", word)
	case MODE_ABSOLUTE_X:
		operand = fmt.Sprintf("$%04X,X", word)
	case MODE_ABSOLUTE_Y:
		operand = fmt.Sprintf("$%04X,Y", word)
	case MODE_INDIRECT:
		operand = fmt.Sprintf("($%04X)", word)
	case MODE_INDIRECT_X:
		operand = fmt.Sprintf("($%02X,X)", lo)
	case MODE_INDIRECT_Y:
		operand = fmt.Sprintf("($%02X),Y", lo)
	case MODE_RELATIVE:
		target := addr + 2 + uint16(int8(lo))
		operand = fmt.Sprintf("$%04X", target)
	}

	text = opcode.Op.String()
	if len(operand) > 0 {
		text += " " + operand
	}

	return
}
