package cpu

// address resolves the effective address of an instruction, leaving PC
// at the next instruction.
//
// Immediate and relative operands resolve to the address of their operand
// byte, so the operation's own read of it is the fetch cycle.
func (cpu *Cpu) address(opcode Opcode) (addr uint16) {
	access := opcode.Op.Access()

	switch opcode.Mode {
	case MODE_IMPLIED, MODE_ACCUMULATOR:
		// No address.
	case MODE_IMMEDIATE, MODE_RELATIVE:
		addr = cpu.PC
		cpu.PC++
	case MODE_ZERO_PAGE:
		addr = uint16(cpu.fetch())
	case MODE_ZERO_PAGE_X:
		addr = uint16(cpu.fetch() + cpu.X)
		cpu.idle()
	case MODE_ZERO_PAGE_Y:
		addr = uint16(cpu.fetch() + cpu.Y)
		cpu.idle()
	case MODE_ABSOLUTE:
		addr = cpu.fetch16()
	case MODE_ABSOLUTE_X:
		addr = cpu.indexed(cpu.fetch16(), cpu.X, access)
	case MODE_ABSOLUTE_Y:
		addr = cpu.indexed(cpu.fetch16(), cpu.Y, access)
	case MODE_INDIRECT:
		ptr := cpu.fetch16()
		// The pointer's high byte is read from the same page.
		lo := cpu.read(ptr)
		hi := cpu.read(ptr&0xFF00 | uint16(uint8(ptr)+1))
		addr = uint16(hi)<<8 | uint16(lo)
	case MODE_INDIRECT_X:
		ptr := cpu.fetch() + cpu.X
		cpu.idle()
		addr = cpu.zeroPage16(ptr)
	case MODE_INDIRECT_Y:
		ptr := cpu.fetch()
		addr = cpu.indexed(cpu.zeroPage16(ptr), cpu.Y, access)
	}

	return
}

// zeroPage16 reads a little endian pointer from the zero page, wrapping
// from $FF to $00.
func (cpu *Cpu) zeroPage16(ptr uint8) uint16 {
	lo := cpu.read(uint16(ptr))
	hi := cpu.read(uint16(ptr + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// indexed adds an index to a base address.
//
// The hardware first reads the address formed before the carry into the
// high byte. Reads only pay that cycle when a page is crossed; writes
// always do.
func (cpu *Cpu) indexed(base uint16, index uint8, access Access) (addr uint16) {
	addr = base + uint16(index)
	oops := base&0xFF00 | addr&0x00FF
	if access != ACCESS_READ || oops != addr {
		cpu.read(oops)
	}
	return
}
