package cpu

import (
	"strings"
)

// Flag is a bit of the packed status register.
type Flag uint8

const (
	FLAG_CARRY     = Flag(1 << 0) // C
	FLAG_ZERO      = Flag(1 << 1) // Z
	FLAG_INTERRUPT = Flag(1 << 2) // I
	FLAG_DECIMAL   = Flag(1 << 3) // D
	FLAG_BREAK     = Flag(1 << 4) // B
	FLAG_UNUSED    = Flag(1 << 5) // -
	FLAG_OVERFLOW  = Flag(1 << 6) // V
	FLAG_NEGATIVE  = Flag(1 << 7) // N
)

// String returns the flag letters, most significant first, with clear
// flags in lower case.
func (flag Flag) String() string {
	const letters = "NV-BDIZC"
	var sb strings.Builder
	for n := range 8 {
		c := letters[n]
		if uint8(flag)&(0x80>>n) == 0 && c != '-' {
			c += 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Flag returns the state of a status flag.
func (cpu *Cpu) Flag(flag Flag) bool {
	return cpu.P&uint8(flag) != 0
}

// SetFlag sets or clears a status flag.
func (cpu *Cpu) SetFlag(flag Flag, on bool) {
	if on {
		cpu.P |= uint8(flag)
	} else {
		cpu.P &^= uint8(flag)
	}
}

// setNZ updates N and Z from a result.
func (cpu *Cpu) setNZ(value uint8) {
	cpu.SetFlag(FLAG_ZERO, value == 0)
	cpu.SetFlag(FLAG_NEGATIVE, value&0x80 != 0)
}
