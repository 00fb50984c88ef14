package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/m6502/memory"
)

func testProgram() *Program {
	return &Program{
		Statements: []Statement{
			{LineNo: 2, Addr: 0x8000, Words: []string{"LDA", "#1"}, Bytes: []uint8{0xA9, 0x01}},
			{LineNo: 3, Addr: 0x8002, Words: []string{"STA", "$1234"}, Bytes: []uint8{0x8D, 0x34, 0x12}},
			{LineNo: 5, Addr: 0x9000, Words: []string{".byte", "7"}, Bytes: []uint8{0x07}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0x8000)
	assert.NotNil(dbg.Statement)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x8004)
	assert.NotNil(dbg.Statement)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(0x9000)
	assert.Equal(5, dbg.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	for _, addr := range []uint16{0x0000, 0x7FFF, 0x8005, 0x9001, 0xFFFF} {
		dbg := prog.Debug(addr)
		assert.Nil(dbg.Statement, "$%04X", addr)
		assert.Equal(0, dbg.Index)
	}
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	var addrs []uint16
	var data []uint8
	for addr, value := range prog.Bytes() {
		addrs = append(addrs, addr)
		data = append(data, value)
	}
	assert.Equal([]uint16{0x8000, 0x8001, 0x8002, 0x8003, 0x8004, 0x9000}, addrs)
	assert.Equal([]uint8{0xA9, 0x01, 0x8D, 0x34, 0x12, 0x07}, data)

	// Early exit.
	count := 0
	for range prog.Bytes() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal(uint16(0x8000), prog.Origin())

	origin, data := prog.Binary()
	assert.Equal(uint16(0x8000), origin)
	assert.Equal(0x1001, len(data))
	assert.Equal([]uint8{0xA9, 0x01, 0x8D, 0x34, 0x12, 0x00}, data[:6])
	assert.Equal(uint8(0x07), data[0x1000])

	empty := &Program{}
	origin, data = empty.Binary()
	assert.Equal(uint16(0), origin)
	assert.Nil(data)
	assert.Equal(uint16(0), empty.Origin())
}

func TestProgram_Load(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	ram := &memory.Ram{}
	prog.Load(ram)

	assert.Equal([]uint8{0xA9, 0x01, 0x8D, 0x34, 0x12}, ram.Data[0x8000:0x8005])
	assert.Equal(uint8(0x07), ram.Data[0x9000])

	// Run what was loaded.
	ram.SetVector(RESET_VECTOR, prog.Origin())
	cpu := NewCpu(ram)
	assert.NoError(cpu.Step())
	assert.NoError(cpu.Step())
	assert.Equal(uint8(0x01), ram.Data[0x1234])
}

func TestLink_Resolve(t *testing.T) {
	assert := assert.New(t)

	st := &Statement{Addr: 0x1000, Bytes: []uint8{0xD0, 0x00, 0x00}}

	assert.NoError(Link{Offset: 1, Kind: LINK_WORD}.Resolve(st, 0xABCD))
	assert.Equal([]uint8{0xD0, 0xCD, 0xAB}, st.Bytes)

	assert.NoError(Link{Offset: 2, Kind: LINK_LOW}.Resolve(st, 0x1234))
	assert.Equal(uint8(0x34), st.Bytes[2])
	assert.NoError(Link{Offset: 2, Kind: LINK_HIGH}.Resolve(st, 0x1234))
	assert.Equal(uint8(0x12), st.Bytes[2])

	assert.NoError(Link{Offset: 1, Kind: LINK_BYTE}.Resolve(st, 0x00FF))
	assert.Equal(uint8(0xFF), st.Bytes[1])
	assert.ErrorIs(Link{Offset: 1, Kind: LINK_BYTE}.Resolve(st, 0x0100), ErrOperandRange)

	assert.NoError(Link{Offset: 1, Kind: LINK_RELATIVE}.Resolve(st, 0x1081))
	assert.Equal(uint8(0x7F), st.Bytes[1])
	assert.NoError(Link{Offset: 1, Kind: LINK_RELATIVE}.Resolve(st, 0x0F82))
	assert.Equal(uint8(0x80), st.Bytes[1])
	assert.ErrorIs(Link{Offset: 1, Kind: LINK_RELATIVE}.Resolve(st, 0x1082), ErrBranchRange)
	assert.ErrorIs(Link{Offset: 1, Kind: LINK_RELATIVE}.Resolve(st, 0x0F81), ErrBranchRange)
}
