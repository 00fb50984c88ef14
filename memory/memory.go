// Package memory provides the 64KiB address space seen by the 6502 core,
// along with the devices that can be placed on it: flat RAM, a memory
// mapped I/O dispatcher, an access tracing decorator, and a character
// console.
package memory

import (
	"math"
)

const (
	MAX_ADDRESS = math.MaxUint16  // Highest addressable byte.
	SIZE        = MAX_ADDRESS + 1 // Size of the address space in bytes.
)

// Memory is the bus the CPU reads and writes through. Implementations
// must accept every address; neither operation can fail.
type Memory interface {
	// Read returns the byte at addr.
	Read(addr uint16) uint8
	// Write stores val at addr.
	Write(addr uint16, val uint8)
}

// Read16 returns the little-endian word at addr.
func Read16(mem Memory, addr uint16) uint16 {
	lsb := uint16(mem.Read(addr))
	msb := uint16(mem.Read(addr + 1))

	return (msb << 8) | lsb
}

// Write16 stores val at addr, lower byte first.
func Write16(mem Memory, addr, val uint16) {
	mem.Write(addr, uint8(val&0x00FF))
	mem.Write(addr+1, uint8(val>>8))
}
