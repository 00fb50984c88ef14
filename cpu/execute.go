package cpu

// execute runs a decoded documented opcode, after its fetch.
func (cpu *Cpu) execute(opcode Opcode) {
	addr := cpu.address(opcode)

	switch op := opcode.Op; op {
	// Loads and stores
	case OP_LDA:
		cpu.A = cpu.read(addr)
		cpu.setNZ(cpu.A)
	case OP_LDX:
		cpu.X = cpu.read(addr)
		cpu.setNZ(cpu.X)
	case OP_LDY:
		cpu.Y = cpu.read(addr)
		cpu.setNZ(cpu.Y)
	case OP_STA:
		cpu.write(addr, cpu.A)
	case OP_STX:
		cpu.write(addr, cpu.X)
	case OP_STY:
		cpu.write(addr, cpu.Y)

	// Accumulator ALU
	case OP_ORA:
		cpu.A |= cpu.read(addr)
		cpu.setNZ(cpu.A)
	case OP_AND:
		cpu.A &= cpu.read(addr)
		cpu.setNZ(cpu.A)
	case OP_EOR:
		cpu.A ^= cpu.read(addr)
		cpu.setNZ(cpu.A)
	case OP_ADC:
		cpu.adc(cpu.read(addr))
	case OP_SBC:
		cpu.adc(^cpu.read(addr))
	case OP_CMP:
		cpu.compare(cpu.A, cpu.read(addr))
	case OP_CPX:
		cpu.compare(cpu.X, cpu.read(addr))
	case OP_CPY:
		cpu.compare(cpu.Y, cpu.read(addr))
	case OP_BIT:
		value := cpu.read(addr)
		cpu.SetFlag(FLAG_ZERO, cpu.A&value == 0)
		cpu.SetFlag(FLAG_NEGATIVE, value&0x80 != 0)
		cpu.SetFlag(FLAG_OVERFLOW, value&0x40 != 0)

	// Read, modify, write
	case OP_ASL, OP_LSR, OP_ROL, OP_ROR, OP_INC, OP_DEC:
		if opcode.Mode == MODE_ACCUMULATOR {
			cpu.idle()
			cpu.A = cpu.modify(op, cpu.A)
			break
		}
		value := cpu.read(addr)
		cpu.idle()
		cpu.write(addr, cpu.modify(op, value))

	// Index registers
	case OP_INX:
		cpu.idle()
		cpu.X++
		cpu.setNZ(cpu.X)
	case OP_INY:
		cpu.idle()
		cpu.Y++
		cpu.setNZ(cpu.Y)
	case OP_DEX:
		cpu.idle()
		cpu.X--
		cpu.setNZ(cpu.X)
	case OP_DEY:
		cpu.idle()
		cpu.Y--
		cpu.setNZ(cpu.Y)

	// Transfers
	case OP_TAX:
		cpu.idle()
		cpu.X = cpu.A
		cpu.setNZ(cpu.X)
	case OP_TAY:
		cpu.idle()
		cpu.Y = cpu.A
		cpu.setNZ(cpu.Y)
	case OP_TXA:
		cpu.idle()
		cpu.A = cpu.X
		cpu.setNZ(cpu.A)
	case OP_TYA:
		cpu.idle()
		cpu.A = cpu.Y
		cpu.setNZ(cpu.A)
	case OP_TSX:
		cpu.idle()
		cpu.X = cpu.S
		cpu.setNZ(cpu.X)
	case OP_TXS:
		cpu.idle()
		cpu.S = cpu.X

	// Stack
	case OP_PHA:
		cpu.idle()
		cpu.push(cpu.A)
	case OP_PHP:
		cpu.idle()
		cpu.push(cpu.P)
	case OP_PLA:
		cpu.idle()
		cpu.idle()
		cpu.A = cpu.pull()
		cpu.setNZ(cpu.A)
	case OP_PLP:
		cpu.idle()
		cpu.idle()
		cpu.P = cpu.pull()

	// Flags
	case OP_CLC, OP_SEC, OP_CLI, OP_SEI, OP_CLV, OP_CLD, OP_SED:
		cpu.idle()
		flag, on := flagOp(op)
		cpu.SetFlag(flag, on)

	// Branches
	case OP_BPL, OP_BMI, OP_BVC, OP_BVS, OP_BCC, OP_BCS, OP_BNE, OP_BEQ:
		offset := int8(cpu.read(addr))
		flag, on := flagOp(op)
		if cpu.Flag(flag) != on {
			break
		}
		cpu.idle()
		target := cpu.PC + uint16(offset)
		if target&0xFF00 != cpu.PC&0xFF00 {
			cpu.idle()
		}
		cpu.PC = target

	// Control flow
	case OP_JMP:
		cpu.PC = addr
	case OP_JSR:
		cpu.idle()
		cpu.push(uint8(cpu.PC >> 8))
		cpu.push(uint8(cpu.PC))
		cpu.PC = addr
	case OP_RTS:
		cpu.idle()
		cpu.idle()
		cpu.idle()
		lo := cpu.pull()
		hi := cpu.pull()
		cpu.PC = uint16(hi)<<8 | uint16(lo)
	case OP_BRK:
		cpu.idle()
		cpu.PC++
		cpu.push(uint8(cpu.PC >> 8))
		cpu.push(uint8(cpu.PC))
		cpu.push(cpu.P)
		lo := cpu.read(BRK_VECTOR)
		hi := cpu.read(BRK_VECTOR + 1)
		cpu.PC = uint16(hi)<<8 | uint16(lo)
		cpu.SetFlag(FLAG_BREAK, true)
	case OP_RTI:
		cpu.idle()
		cpu.P = cpu.pull()
		cpu.idle()
		lo := cpu.pull()
		hi := cpu.pull()
		cpu.PC = uint16(hi)<<8 | uint16(lo)
	case OP_NOP:
		cpu.idle()
	}
}

// adc adds a value and the carry to the accumulator.
func (cpu *Cpu) adc(value uint8) {
	var carry uint16
	if cpu.Flag(FLAG_CARRY) {
		carry = 1
	}
	sum := uint16(cpu.A) + uint16(value) + carry
	result := uint8(sum)

	cpu.SetFlag(FLAG_CARRY, sum > 0xFF)
	cpu.SetFlag(FLAG_OVERFLOW, (cpu.A^result)&(value^result)&0x80 != 0)
	cpu.setNZ(result)
	cpu.A = result
}

// compare sets the flags from reg - value.
func (cpu *Cpu) compare(reg uint8, value uint8) {
	carry := int8(reg) >= int8(value)
	if cpu.UnsignedCompare {
		carry = reg >= value
	}
	cpu.SetFlag(FLAG_CARRY, carry)
	cpu.setNZ(reg - value)
}

// modify performs the shift, rotate, increment and decrement operations.
func (cpu *Cpu) modify(op Operation, value uint8) (result uint8) {
	var carry uint8
	if cpu.Flag(FLAG_CARRY) {
		carry = 1
	}

	switch op {
	case OP_ASL:
		cpu.SetFlag(FLAG_CARRY, value&0x80 != 0)
		result = value << 1
	case OP_LSR:
		cpu.SetFlag(FLAG_CARRY, value&0x01 != 0)
		result = value >> 1
	case OP_ROL:
		cpu.SetFlag(FLAG_CARRY, value&0x80 != 0)
		result = value<<1 | carry
	case OP_ROR:
		cpu.SetFlag(FLAG_CARRY, value&0x01 != 0)
		result = value>>1 | carry<<7
	case OP_INC:
		result = value + 1
	case OP_DEC:
		result = value - 1
	}

	cpu.setNZ(result)
	return
}

// flagOp returns the flag tested by a branch, or set by a flag operation,
// and the state it is tested for or set to.
func flagOp(op Operation) (flag Flag, on bool) {
	switch op {
	case OP_BPL:
		return FLAG_NEGATIVE, false
	case OP_BMI:
		return FLAG_NEGATIVE, true
	case OP_BVC, OP_CLV:
		return FLAG_OVERFLOW, false
	case OP_BVS:
		return FLAG_OVERFLOW, true
	case OP_BCC, OP_CLC:
		return FLAG_CARRY, false
	case OP_BCS, OP_SEC:
		return FLAG_CARRY, true
	case OP_BNE:
		return FLAG_ZERO, false
	case OP_BEQ:
		return FLAG_ZERO, true
	case OP_CLI:
		return FLAG_INTERRUPT, false
	case OP_SEI:
		return FLAG_INTERRUPT, true
	case OP_CLD:
		return FLAG_DECIMAL, false
	case OP_SED:
		return FLAG_DECIMAL, true
	}
	return
}
