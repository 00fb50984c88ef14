package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute_Load(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code []uint8
		get  func(cpu *Cpu) uint8
	}){
		{"lda", []uint8{0xA9, 0x80}, func(cpu *Cpu) uint8 { return cpu.A }},
		{"ldx", []uint8{0xA2, 0x80}, func(cpu *Cpu) uint8 { return cpu.X }},
		{"ldy", []uint8{0xA0, 0x80}, func(cpu *Cpu) uint8 { return cpu.Y }},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(entry.code...)
		step(t, cpu)
		assert.Equal(uint8(0x80), entry.get(cpu), entry.name)
		assert.True(cpu.Flag(FLAG_NEGATIVE), entry.name)
		assert.False(cpu.Flag(FLAG_ZERO), entry.name)
	}
}

func TestExecute_Store(t *testing.T) {
	assert := assert.New(t)

	// STA $10; STX $11; STY $1234
	cpu, ram := newTestCpu(0x85, 0x10, 0x86, 0x11, 0x8C, 0x34, 0x12)
	cpu.A, cpu.X, cpu.Y = 0x00, 0x80, 0x7F
	p := cpu.P
	step(t, cpu)
	step(t, cpu)
	step(t, cpu)
	assert.Equal(uint8(0x00), ram.Data[0x10])
	assert.Equal(uint8(0x80), ram.Data[0x11])
	assert.Equal(uint8(0x7F), ram.Data[0x1234])
	assert.Equal(p, cpu.P)
}

func TestExecute_Logic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code uint8
		a, m uint8
		out  uint8
	}){
		{"ora", 0x09, 0x0F, 0xF0, 0xFF},
		{"and", 0x29, 0x0F, 0xF0, 0x00},
		{"eor", 0x49, 0xFF, 0x0F, 0xF0},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(entry.code, entry.m)
		cpu.A = entry.a
		step(t, cpu)
		assert.Equal(entry.out, cpu.A, entry.name)
		assert.Equal(entry.out == 0, cpu.Flag(FLAG_ZERO), entry.name)
		assert.Equal(entry.out&0x80 != 0, cpu.Flag(FLAG_NEGATIVE), entry.name)
	}
}

func TestExecute_Adc(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, m    uint8
		carry   bool
		out     uint8
		c, v, n bool
	}){
		{0x01, 0x01, false, 0x02, false, false, false},
		{0x01, 0x01, true, 0x03, false, false, false},
		{0x7F, 0x01, false, 0x80, false, true, true},
		{0x80, 0xFF, false, 0x7F, true, true, false},
		{0xFF, 0x01, false, 0x00, true, false, false},
		{0xFF, 0xFF, true, 0xFF, true, false, true},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(0x69, entry.m)
		cpu.A = entry.a
		cpu.SetFlag(FLAG_CARRY, entry.carry)
		step(t, cpu)
		assert.Equal(entry.out, cpu.A, "%+v", entry)
		assert.Equal(entry.c, cpu.Flag(FLAG_CARRY), "%+v", entry)
		assert.Equal(entry.v, cpu.Flag(FLAG_OVERFLOW), "%+v", entry)
		assert.Equal(entry.n, cpu.Flag(FLAG_NEGATIVE), "%+v", entry)
	}
}

func TestExecute_Sbc(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, m  uint8
		carry bool
		out   uint8
		c, v  bool
	}){
		{0x05, 0x03, true, 0x02, true, false},
		{0x05, 0x03, false, 0x01, true, false},
		{0x03, 0x05, true, 0xFE, false, false},
		{0x80, 0x01, true, 0x7F, true, true},
		{0x7F, 0xFF, true, 0x80, false, true},
		{0x00, 0x00, false, 0xFF, false, false},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(0xE9, entry.m)
		cpu.A = entry.a
		cpu.SetFlag(FLAG_CARRY, entry.carry)
		step(t, cpu)
		assert.Equal(entry.out, cpu.A, "%+v", entry)
		assert.Equal(entry.c, cpu.Flag(FLAG_CARRY), "%+v", entry)
		assert.Equal(entry.v, cpu.Flag(FLAG_OVERFLOW), "%+v", entry)
	}
}

func TestExecute_Compare(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		code     uint8
		reg, m   uint8
		unsigned bool
		c, z, n  bool
	}){
		{"equal", 0xC9, 0x40, 0x40, false, true, true, false},
		{"greater", 0xC9, 0x40, 0x10, false, true, false, false},
		{"less", 0xC9, 0x10, 0x40, false, false, false, true},
		{"signed-negative", 0xC9, 0x80, 0x01, false, false, false, false},
		{"unsigned-negative", 0xC9, 0x80, 0x01, true, true, false, false},
		{"signed-positive", 0xC9, 0x01, 0xFF, false, true, false, false},
		{"unsigned-positive", 0xC9, 0x01, 0xFF, true, false, false, false},
		{"cpx", 0xE0, 0x05, 0x05, false, true, true, false},
		{"cpy", 0xC0, 0x05, 0x06, false, false, false, true},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(entry.code, entry.m)
		cpu.UnsignedCompare = entry.unsigned
		cpu.A, cpu.X, cpu.Y = entry.reg, entry.reg, entry.reg
		step(t, cpu)
		assert.Equal(entry.c, cpu.Flag(FLAG_CARRY), entry.name)
		assert.Equal(entry.z, cpu.Flag(FLAG_ZERO), entry.name)
		assert.Equal(entry.n, cpu.Flag(FLAG_NEGATIVE), entry.name)
		assert.Equal(entry.reg, cpu.A, entry.name)
	}
}

func TestExecute_Bit(t *testing.T) {
	assert := assert.New(t)

	// BIT $10
	cpu, ram := newTestCpu(0x24, 0x10)
	ram.Data[0x10] = 0xC0
	cpu.A = 0x01
	step(t, cpu)
	assert.True(cpu.Flag(FLAG_ZERO))
	assert.True(cpu.Flag(FLAG_NEGATIVE))
	assert.True(cpu.Flag(FLAG_OVERFLOW))
	assert.Equal(uint8(0x01), cpu.A)

	cpu, ram = newTestCpu(0x24, 0x10)
	ram.Data[0x10] = 0x01
	cpu.A = 0x81
	cpu.SetFlag(FLAG_OVERFLOW, true)
	step(t, cpu)
	assert.False(cpu.Flag(FLAG_ZERO))
	assert.False(cpu.Flag(FLAG_NEGATIVE))
	assert.False(cpu.Flag(FLAG_OVERFLOW))
}

func TestExecute_Shift(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		code    uint8
		in      uint8
		carry   bool
		out     uint8
		c, z, n bool
	}){
		{"asl", 0x0A, 0x81, false, 0x02, true, false, false},
		{"asl-carry-in", 0x0A, 0x40, true, 0x80, false, false, true},
		{"lsr", 0x4A, 0x81, false, 0x40, true, false, false},
		{"lsr-zero", 0x4A, 0x01, true, 0x00, true, true, false},
		{"rol", 0x2A, 0x81, false, 0x02, true, false, false},
		{"rol-carry-in", 0x2A, 0x40, true, 0x81, false, false, true},
		{"ror", 0x6A, 0x81, false, 0x40, true, false, false},
		{"ror-carry-in", 0x6A, 0x02, true, 0x81, false, false, true},
		{"ror-zero", 0x6A, 0x01, false, 0x00, true, true, false},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(entry.code)
		cpu.A = entry.in
		cpu.SetFlag(FLAG_CARRY, entry.carry)
		assert.Equal(uint64(2), step(t, cpu), entry.name)
		assert.Equal(entry.out, cpu.A, entry.name)
		assert.Equal(entry.c, cpu.Flag(FLAG_CARRY), entry.name)
		assert.Equal(entry.z, cpu.Flag(FLAG_ZERO), entry.name)
		assert.Equal(entry.n, cpu.Flag(FLAG_NEGATIVE), entry.name)
	}

	// ROR $10 on memory.
	cpu, ram := newTestCpu(0x66, 0x10)
	ram.Data[0x10] = 0x03
	cpu.SetFlag(FLAG_CARRY, true)
	step(t, cpu)
	assert.Equal(uint8(0x81), ram.Data[0x10])
	assert.True(cpu.Flag(FLAG_CARRY))
}

func TestExecute_IncDec(t *testing.T) {
	assert := assert.New(t)

	// INC $10; DEC $11; INX; INY; DEX; DEY
	cpu, ram := newTestCpu(0xE6, 0x10, 0xC6, 0x11, 0xE8, 0xC8, 0xCA, 0x88)
	ram.Data[0x10] = 0xFF
	ram.Data[0x11] = 0x00
	cpu.X = 0x7F
	cpu.Y = 0xFF
	cpu.SetFlag(FLAG_CARRY, true)

	step(t, cpu)
	assert.Equal(uint8(0x00), ram.Data[0x10])
	assert.True(cpu.Flag(FLAG_ZERO))
	step(t, cpu)
	assert.Equal(uint8(0xFF), ram.Data[0x11])
	assert.True(cpu.Flag(FLAG_NEGATIVE))
	step(t, cpu)
	assert.Equal(uint8(0x80), cpu.X)
	assert.True(cpu.Flag(FLAG_NEGATIVE))
	step(t, cpu)
	assert.Equal(uint8(0x00), cpu.Y)
	assert.True(cpu.Flag(FLAG_ZERO))
	step(t, cpu)
	assert.Equal(uint8(0x7F), cpu.X)
	assert.False(cpu.Flag(FLAG_NEGATIVE))
	step(t, cpu)
	assert.Equal(uint8(0xFF), cpu.Y)
	assert.True(cpu.Flag(FLAG_CARRY))
}

func TestExecute_Transfer(t *testing.T) {
	assert := assert.New(t)

	// TAX; TAY; TSX; TXS; TXA; TYA
	cpu, _ := newTestCpu(0xAA, 0xA8, 0xBA, 0x9A, 0x8A, 0x98)
	cpu.A = 0x80
	step(t, cpu)
	assert.Equal(uint8(0x80), cpu.X)
	step(t, cpu)
	assert.Equal(uint8(0x80), cpu.Y)
	cpu.S = 0x00
	step(t, cpu)
	assert.Equal(uint8(0x00), cpu.X)
	assert.True(cpu.Flag(FLAG_ZERO))

	cpu.X = 0x80
	cpu.SetFlag(FLAG_ZERO, true)
	step(t, cpu)
	assert.Equal(uint8(0x80), cpu.S)
	assert.True(cpu.Flag(FLAG_ZERO))

	cpu.X = 0x01
	step(t, cpu)
	assert.Equal(uint8(0x01), cpu.A)
	assert.False(cpu.Flag(FLAG_ZERO))

	cpu.Y = 0x00
	step(t, cpu)
	assert.Equal(uint8(0x00), cpu.A)
	assert.True(cpu.Flag(FLAG_ZERO))
}

func TestExecute_FlagOps(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code uint8
		flag Flag
		on   bool
	}){
		{0x18, FLAG_CARRY, false},
		{0x38, FLAG_CARRY, true},
		{0x58, FLAG_INTERRUPT, false},
		{0x78, FLAG_INTERRUPT, true},
		{0xB8, FLAG_OVERFLOW, false},
		{0xD8, FLAG_DECIMAL, false},
		{0xF8, FLAG_DECIMAL, true},
	}

	for _, entry := range table {
		cpu, _ := newTestCpu(entry.code)
		before := uint8(0xFF)
		if entry.on {
			before = 0x00
		}
		cpu.P = before
		assert.Equal(uint64(2), step(t, cpu), "$%02X", entry.code)
		assert.Equal(entry.on, cpu.Flag(entry.flag), "$%02X", entry.code)
		assert.Equal(before^uint8(entry.flag), cpu.P, "$%02X", entry.code)
	}
}

func TestExecute_Stack(t *testing.T) {
	assert := assert.New(t)

	// PHA; PHP; LDA #0; PLP; PLA
	cpu, ram := newTestCpu(0x48, 0x08, 0xA9, 0x00, 0x28, 0x68)
	cpu.A = 0x80
	cpu.P = 0xDB
	s := cpu.S

	assert.Equal(uint64(3), step(t, cpu))
	assert.Equal(uint8(0x80), ram.Data[STACK_PAGE|uint16(s)])
	assert.Equal(uint64(3), step(t, cpu))
	assert.Equal(uint8(0xDB), ram.Data[STACK_PAGE|uint16(s-1)])
	step(t, cpu)
	assert.True(cpu.Flag(FLAG_ZERO))

	assert.Equal(uint64(4), step(t, cpu))
	assert.Equal(uint8(0xDB), cpu.P)
	assert.Equal(uint64(4), step(t, cpu))
	assert.Equal(uint8(0x80), cpu.A)
	assert.True(cpu.Flag(FLAG_NEGATIVE))
	assert.False(cpu.Flag(FLAG_ZERO))
	assert.Equal(s, cpu.S)
}

func TestExecute_Subroutine(t *testing.T) {
	assert := assert.New(t)

	// $8000: JSR $8010; LDX #1
	// $8010: LDA #2; RTS
	cpu, ram := newTestCpu(0x20, 0x10, 0x80, 0xA2, 0x01)
	ram.Load(0x8010, []uint8{0xA9, 0x02, 0x60})
	s := cpu.S

	step(t, cpu)
	assert.Equal(uint16(0x8010), cpu.PC)
	assert.Equal(uint16(0x8003), uint16(cpu.StackPeek())|uint16(ram.Data[STACK_PAGE|uint16(s)])<<8)
	step(t, cpu)
	assert.Equal(uint64(6), step(t, cpu))
	assert.Equal(uint16(0x8003), cpu.PC)
	assert.Equal(s, cpu.S)
	step(t, cpu)
	assert.Equal(uint8(0x01), cpu.X)
	assert.Equal(uint8(0x02), cpu.A)
}

func TestExecute_Interrupt(t *testing.T) {
	assert := assert.New(t)

	// $8000: BRK; pad; LDA #1
	// $9000: RTI
	cpu, ram := newTestCpu(0x00, 0xFF, 0xA9, 0x01)
	ram.SetVector(BRK_VECTOR, 0x9000)
	ram.Data[0x9000] = 0x40
	cpu.P = 0x24
	s := cpu.S

	step(t, cpu)
	assert.Equal(uint16(0x9000), cpu.PC)
	assert.True(cpu.Flag(FLAG_BREAK))
	assert.Equal(uint8(0x80), ram.Data[STACK_PAGE|uint16(s)])
	assert.Equal(uint8(0x02), ram.Data[STACK_PAGE|uint16(s-1)])
	assert.Equal(uint8(0x24), ram.Data[STACK_PAGE|uint16(s-2)])

	assert.Equal(uint64(6), step(t, cpu))
	assert.Equal(uint16(0x8002), cpu.PC)
	assert.Equal(uint8(0x24), cpu.P)
	assert.Equal(s, cpu.S)

	step(t, cpu)
	assert.Equal(uint8(0x01), cpu.A)
}

func TestExecute_Nop(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := newTestCpu(0xEA)
	before := *cpu
	assert.Equal(uint64(2), step(t, cpu))
	assert.Equal(before.PC+1, cpu.PC)
	assert.Equal(before.A, cpu.A)
	assert.Equal(before.P, cpu.P)
	assert.Equal(before.S, cpu.S)
}
