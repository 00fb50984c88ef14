package cpu

// The stack lives in page one, addressed by S.
//
// The stack primitives do not count cycles; the instruction executor
// charges one for every push or pull it performs.

// StackPush writes a byte at the top of the stack, then decrements S.
func (cpu *Cpu) StackPush(value uint8) {
	cpu.store(STACK_PAGE|uint16(cpu.S), value)
	cpu.S--
}

// StackPull increments S, then returns the byte at the top of the stack.
func (cpu *Cpu) StackPull() (value uint8) {
	cpu.S++
	value = cpu.load(STACK_PAGE | uint16(cpu.S))
	return
}

// StackPeek returns the byte StackPull would return, leaving S alone.
func (cpu *Cpu) StackPeek() (value uint8) {
	value = cpu.load(STACK_PAGE | uint16(cpu.S+1))
	return
}

// push is a stack write bus cycle.
func (cpu *Cpu) push(value uint8) {
	cpu.Cycles++
	cpu.StackPush(value)
}

// pull is a stack read bus cycle.
func (cpu *Cpu) pull() uint8 {
	cpu.Cycles++
	return cpu.StackPull()
}
