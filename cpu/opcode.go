package cpu

import (
	"fmt"
)

// Mode is an addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMPLIED     = Mode(0)  // imp
	MODE_ACCUMULATOR = Mode(1)  // acc
	MODE_IMMEDIATE   = Mode(2)  // imm
	MODE_ZERO_PAGE   = Mode(3)  // zpg
	MODE_ZERO_PAGE_X = Mode(4)  // zpx
	MODE_ZERO_PAGE_Y = Mode(5)  // zpy
	MODE_ABSOLUTE    = Mode(6)  // abs
	MODE_ABSOLUTE_X  = Mode(7)  // abx
	MODE_ABSOLUTE_Y  = Mode(8)  // aby
	MODE_INDIRECT    = Mode(9)  // ind
	MODE_INDIRECT_X  = Mode(10) // idx
	MODE_INDIRECT_Y  = Mode(11) // idy
	MODE_RELATIVE    = Mode(12) // rel
)

// Operands returns the number of operand bytes following the opcode.
func (mode Mode) Operands() int {
	switch mode {
	case MODE_IMPLIED, MODE_ACCUMULATOR:
		return 0
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y, MODE_INDIRECT:
		return 2
	default:
		return 1
	}
}

// Indexed returns true for the modes that can cross a page when indexing.
func (mode Mode) Indexed() bool {
	return mode == MODE_ABSOLUTE_X || mode == MODE_ABSOLUTE_Y || mode == MODE_INDIRECT_Y
}

// Operation is an instruction mnemonic.
type Operation int

//go:generate go tool stringer -linecomment -type=Operation
const (
	OP_ILLEGAL = Operation(iota) // ???
	OP_ADC                       // ADC
	OP_AND                       // AND
	OP_ASL                       // ASL
	OP_BCC                       // BCC
	OP_BCS                       // BCS
	OP_BEQ                       // BEQ
	OP_BIT                       // BIT
	OP_BMI                       // BMI
	OP_BNE                       // BNE
	OP_BPL                       // BPL
	OP_BRK                       // BRK
	OP_BVC                       // BVC
	OP_BVS                       // BVS
	OP_CLC                       // CLC
	OP_CLD                       // CLD
	OP_CLI                       // CLI
	OP_CLV                       // CLV
	OP_CMP                       // CMP
	OP_CPX                       // CPX
	OP_CPY                       // CPY
	OP_DEC                       // DEC
	OP_DEX                       // DEX
	OP_DEY                       // DEY
	OP_EOR                       // EOR
	OP_INC                       // INC
	OP_INX                       // INX
	OP_INY                       // INY
	OP_JMP                       // JMP
	OP_JSR                       // JSR
	OP_LDA                       // LDA
	OP_LDX                       // LDX
	OP_LDY                       // LDY
	OP_LSR                       // LSR
	OP_NOP                       // NOP
	OP_ORA                       // ORA
	OP_PHA                       // PHA
	OP_PHP                       // PHP
	OP_PLA                       // PLA
	OP_PLP                       // PLP
	OP_ROL                       // ROL
	OP_ROR                       // ROR
	OP_RTI                       // RTI
	OP_RTS                       // RTS
	OP_SBC                       // SBC
	OP_SEC                       // SEC
	OP_SED                       // SED
	OP_SEI                       // SEI
	OP_STA                       // STA
	OP_STX                       // STX
	OP_STY                       // STY
	OP_TAX                       // TAX
	OP_TAY                       // TAY
	OP_TSX                       // TSX
	OP_TXA                       // TXA
	OP_TXS                       // TXS
	OP_TYA                       // TYA
)

// Access is how an operation uses its effective address.
type Access int

const (
	ACCESS_NONE   = Access(0) // No memory operand.
	ACCESS_READ   = Access(1) // Reads the operand.
	ACCESS_WRITE  = Access(2) // Writes the operand.
	ACCESS_MODIFY = Access(3) // Reads, then writes back the operand.
)

// Access returns how the operation uses memory at its effective address.
func (op Operation) Access() Access {
	switch op {
	case OP_STA, OP_STX, OP_STY:
		return ACCESS_WRITE
	case OP_ASL, OP_LSR, OP_ROL, OP_ROR, OP_INC, OP_DEC:
		return ACCESS_MODIFY
	case OP_ADC, OP_AND, OP_BIT, OP_CMP, OP_CPX, OP_CPY, OP_EOR,
		OP_LDA, OP_LDX, OP_LDY, OP_ORA, OP_SBC:
		return ACCESS_READ
	default:
		return ACCESS_NONE
	}
}

// Branch returns true for the conditional branches.
func (op Operation) Branch() bool {
	switch op {
	case OP_BPL, OP_BMI, OP_BVC, OP_BVS, OP_BCC, OP_BCS, OP_BNE, OP_BEQ:
		return true
	}
	return false
}

// Opcode is a decoded opcode byte.
type Opcode struct {
	Op   Operation
	Mode Mode
}

// Valid returns true if the opcode is one of the documented 151.
func (o Opcode) Valid() bool {
	return o.Op != OP_ILLEGAL
}

// Size returns the instruction length in bytes, opcode included.
func (o Opcode) Size() int {
	return 1 + o.Mode.Operands()
}

func (o Opcode) String() string {
	return fmt.Sprintf("{%v, %v}", o.Op, o.Mode)
}

// Decode classifies an opcode byte. Undocumented opcodes decode to
// OP_ILLEGAL.
func Decode(code uint8) Opcode {
	return opcodes[code]
}

// Encode finds the opcode byte for an operation in a mode.
func Encode(op Operation, mode Mode) (code uint8, ok bool) {
	code, ok = encodings[Opcode{Op: op, Mode: mode}]
	return
}

// encodings is the inverse of opcodes.
var encodings = func() map[Opcode]uint8 {
	enc := make(map[Opcode]uint8, 151)
	for n, o := range opcodes {
		if o.Valid() {
			enc[o] = uint8(n)
		}
	}
	return enc
}()

// opcodes is indexed by opcode byte; missing entries are OP_ILLEGAL.
//
// https://www.nesdev.org/obelisk-6502-guide/reference.html
var opcodes = [256]Opcode{
	0x69: {OP_ADC, MODE_IMMEDIATE},
	0x65: {OP_ADC, MODE_ZERO_PAGE},
	0x75: {OP_ADC, MODE_ZERO_PAGE_X},
	0x6D: {OP_ADC, MODE_ABSOLUTE},
	0x7D: {OP_ADC, MODE_ABSOLUTE_X},
	0x79: {OP_ADC, MODE_ABSOLUTE_Y},
	0x61: {OP_ADC, MODE_INDIRECT_X},
	0x71: {OP_ADC, MODE_INDIRECT_Y},

	0x29: {OP_AND, MODE_IMMEDIATE},
	0x25: {OP_AND, MODE_ZERO_PAGE},
	0x35: {OP_AND, MODE_ZERO_PAGE_X},
	0x2D: {OP_AND, MODE_ABSOLUTE},
	0x3D: {OP_AND, MODE_ABSOLUTE_X},
	0x39: {OP_AND, MODE_ABSOLUTE_Y},
	0x21: {OP_AND, MODE_INDIRECT_X},
	0x31: {OP_AND, MODE_INDIRECT_Y},

	0x0A: {OP_ASL, MODE_ACCUMULATOR},
	0x06: {OP_ASL, MODE_ZERO_PAGE},
	0x16: {OP_ASL, MODE_ZERO_PAGE_X},
	0x0E: {OP_ASL, MODE_ABSOLUTE},
	0x1E: {OP_ASL, MODE_ABSOLUTE_X},

	0x90: {OP_BCC, MODE_RELATIVE},
	0xB0: {OP_BCS, MODE_RELATIVE},
	0xF0: {OP_BEQ, MODE_RELATIVE},
	0x30: {OP_BMI, MODE_RELATIVE},
	0xD0: {OP_BNE, MODE_RELATIVE},
	0x10: {OP_BPL, MODE_RELATIVE},
	0x50: {OP_BVC, MODE_RELATIVE},
	0x70: {OP_BVS, MODE_RELATIVE},

	0x24: {OP_BIT, MODE_ZERO_PAGE},
	0x2C: {OP_BIT, MODE_ABSOLUTE},

	0x00: {OP_BRK, MODE_IMPLIED},

	0x18: {OP_CLC, MODE_IMPLIED},
	0xD8: {OP_CLD, MODE_IMPLIED},
	0x58: {OP_CLI, MODE_IMPLIED},
	0xB8: {OP_CLV, MODE_IMPLIED},

	0xC9: {OP_CMP, MODE_IMMEDIATE},
	0xC5: {OP_CMP, MODE_ZERO_PAGE},
	0xD5: {OP_CMP, MODE_ZERO_PAGE_X},
	0xCD: {OP_CMP, MODE_ABSOLUTE},
	0xDD: {OP_CMP, MODE_ABSOLUTE_X},
	0xD9: {OP_CMP, MODE_ABSOLUTE_Y},
	0xC1: {OP_CMP, MODE_INDIRECT_X},
	0xD1: {OP_CMP, MODE_INDIRECT_Y},

	0xE0: {OP_CPX, MODE_IMMEDIATE},
	0xE4: {OP_CPX, MODE_ZERO_PAGE},
	0xEC: {OP_CPX, MODE_ABSOLUTE},

	0xC0: {OP_CPY, MODE_IMMEDIATE},
	0xC4: {OP_CPY, MODE_ZERO_PAGE},
	0xCC: {OP_CPY, MODE_ABSOLUTE},

	0xC6: {OP_DEC, MODE_ZERO_PAGE},
	0xD6: {OP_DEC, MODE_ZERO_PAGE_X},
	0xCE: {OP_DEC, MODE_ABSOLUTE},
	0xDE: {OP_DEC, MODE_ABSOLUTE_X},

	0xCA: {OP_DEX, MODE_IMPLIED},
	0x88: {OP_DEY, MODE_IMPLIED},

	0x49: {OP_EOR, MODE_IMMEDIATE},
	0x45: {OP_EOR, MODE_ZERO_PAGE},
	0x55: {OP_EOR, MODE_ZERO_PAGE_X},
	0x4D: {OP_EOR, MODE_ABSOLUTE},
	0x5D: {OP_EOR, MODE_ABSOLUTE_X},
	0x59: {OP_EOR, MODE_ABSOLUTE_Y},
	0x41: {OP_EOR, MODE_INDIRECT_X},
	0x51: {OP_EOR, MODE_INDIRECT_Y},

	0xE6: {OP_INC, MODE_ZERO_PAGE},
	0xF6: {OP_INC, MODE_ZERO_PAGE_X},
	0xEE: {OP_INC, MODE_ABSOLUTE},
	0xFE: {OP_INC, MODE_ABSOLUTE_X},

	0xE8: {OP_INX, MODE_IMPLIED},
	0xC8: {OP_INY, MODE_IMPLIED},

	0x4C: {OP_JMP, MODE_ABSOLUTE},
	0x6C: {OP_JMP, MODE_INDIRECT},
	0x20: {OP_JSR, MODE_ABSOLUTE},

	0xA9: {OP_LDA, MODE_IMMEDIATE},
	0xA5: {OP_LDA, MODE_ZERO_PAGE},
	0xB5: {OP_LDA, MODE_ZERO_PAGE_X},
	0xAD: {OP_LDA, MODE_ABSOLUTE},
	0xBD: {OP_LDA, MODE_ABSOLUTE_X},
	0xB9: {OP_LDA, MODE_ABSOLUTE_Y},
	0xA1: {OP_LDA, MODE_INDIRECT_X},
	0xB1: {OP_LDA, MODE_INDIRECT_Y},

	0xA2: {OP_LDX, MODE_IMMEDIATE},
	0xA6: {OP_LDX, MODE_ZERO_PAGE},
	0xB6: {OP_LDX, MODE_ZERO_PAGE_Y},
	0xAE: {OP_LDX, MODE_ABSOLUTE},
	0xBE: {OP_LDX, MODE_ABSOLUTE_Y},

	0xA0: {OP_LDY, MODE_IMMEDIATE},
	0xA4: {OP_LDY, MODE_ZERO_PAGE},
	0xB4: {OP_LDY, MODE_ZERO_PAGE_X},
	0xAC: {OP_LDY, MODE_ABSOLUTE},
	0xBC: {OP_LDY, MODE_ABSOLUTE_X},

	0x4A: {OP_LSR, MODE_ACCUMULATOR},
	0x46: {OP_LSR, MODE_ZERO_PAGE},
	0x56: {OP_LSR, MODE_ZERO_PAGE_X},
	0x4E: {OP_LSR, MODE_ABSOLUTE},
	0x5E: {OP_LSR, MODE_ABSOLUTE_X},

	0xEA: {OP_NOP, MODE_IMPLIED},

	0x09: {OP_ORA, MODE_IMMEDIATE},
	0x05: {OP_ORA, MODE_ZERO_PAGE},
	0x15: {OP_ORA, MODE_ZERO_PAGE_X},
	0x0D: {OP_ORA, MODE_ABSOLUTE},
	0x1D: {OP_ORA, MODE_ABSOLUTE_X},
	0x19: {OP_ORA, MODE_ABSOLUTE_Y},
	0x01: {OP_ORA, MODE_INDIRECT_X},
	0x11: {OP_ORA, MODE_INDIRECT_Y},

	0x48: {OP_PHA, MODE_IMPLIED},
	0x08: {OP_PHP, MODE_IMPLIED},
	0x68: {OP_PLA, MODE_IMPLIED},
	0x28: {OP_PLP, MODE_IMPLIED},

	0x2A: {OP_ROL, MODE_ACCUMULATOR},
	0x26: {OP_ROL, MODE_ZERO_PAGE},
	0x36: {OP_ROL, MODE_ZERO_PAGE_X},
	0x2E: {OP_ROL, MODE_ABSOLUTE},
	0x3E: {OP_ROL, MODE_ABSOLUTE_X},

	0x6A: {OP_ROR, MODE_ACCUMULATOR},
	0x66: {OP_ROR, MODE_ZERO_PAGE},
	0x76: {OP_ROR, MODE_ZERO_PAGE_X},
	0x6E: {OP_ROR, MODE_ABSOLUTE},
	0x7E: {OP_ROR, MODE_ABSOLUTE_X},

	0x40: {OP_RTI, MODE_IMPLIED},
	0x60: {OP_RTS, MODE_IMPLIED},

	0xE9: {OP_SBC, MODE_IMMEDIATE},
	0xE5: {OP_SBC, MODE_ZERO_PAGE},
	0xF5: {OP_SBC, MODE_ZERO_PAGE_X},
	0xED: {OP_SBC, MODE_ABSOLUTE},
	0xFD: {OP_SBC, MODE_ABSOLUTE_X},
	0xF9: {OP_SBC, MODE_ABSOLUTE_Y},
	0xE1: {OP_SBC, MODE_INDIRECT_X},
	0xF1: {OP_SBC, MODE_INDIRECT_Y},

	0x38: {OP_SEC, MODE_IMPLIED},
	0xF8: {OP_SED, MODE_IMPLIED},
	0x78: {OP_SEI, MODE_IMPLIED},

	0x85: {OP_STA, MODE_ZERO_PAGE},
	0x95: {OP_STA, MODE_ZERO_PAGE_X},
	0x8D: {OP_STA, MODE_ABSOLUTE},
	0x9D: {OP_STA, MODE_ABSOLUTE_X},
	0x99: {OP_STA, MODE_ABSOLUTE_Y},
	0x81: {OP_STA, MODE_INDIRECT_X},
	0x91: {OP_STA, MODE_INDIRECT_Y},

	0x86: {OP_STX, MODE_ZERO_PAGE},
	0x96: {OP_STX, MODE_ZERO_PAGE_Y},
	0x8E: {OP_STX, MODE_ABSOLUTE},

	0x84: {OP_STY, MODE_ZERO_PAGE},
	0x94: {OP_STY, MODE_ZERO_PAGE_X},
	0x8C: {OP_STY, MODE_ABSOLUTE},

	0xAA: {OP_TAX, MODE_IMPLIED},
	0xA8: {OP_TAY, MODE_IMPLIED},
	0xBA: {OP_TSX, MODE_IMPLIED},
	0x8A: {OP_TXA, MODE_IMPLIED},
	0x9A: {OP_TXS, MODE_IMPLIED},
	0x98: {OP_TYA, MODE_IMPLIED},
}
