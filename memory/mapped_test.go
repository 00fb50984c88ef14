package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapped(t *testing.T) {
	assert := assert.New(t)

	ram := &Ram{}
	dev := NewTrace(&Ram{})
	m := NewMapped(ram)

	assert.NoError(m.Map(0xD000, 0xD00F, dev))

	m.Write(0x1000, 0x11)
	m.Write(0xD005, 0x22)
	assert.Equal(uint8(0x11), ram.Read(0x1000))
	assert.Equal(uint8(0x00), ram.Read(0xD005))
	assert.Equal(uint8(0x22), m.Read(0xD005))

	// Devices see absolute addresses.
	assert.Equal([]Access{
		{Addr: 0xD005, Value: 0x22, Write: true},
		{Addr: 0xD005, Value: 0x22},
	}, dev.Log)

	// Edges of the region.
	m.Read(0xCFFF)
	m.Read(0xD000)
	m.Read(0xD00F)
	m.Read(0xD010)
	assert.Equal([]uint16{0xD005, 0xD000, 0xD00F}, dev.Reads())
}

func TestMapped_Map(t *testing.T) {
	assert := assert.New(t)

	m := NewMapped(&Ram{})
	dev := &Ram{}

	assert.ErrorIs(m.Map(0x2000, 0x1000, dev), ErrRangeInvalid)
	assert.ErrorIs(m.Map(0x1000, 0x2000, nil), ErrRangeInvalid)

	assert.NoError(m.Map(0x3000, 0x3FFF, dev))
	assert.NoError(m.Map(0x1000, 0x1FFF, dev))
	assert.NoError(m.Map(0xFFFF, 0xFFFF, dev))
	assert.Equal(uint16(0x1000), m.Regions[0].Lo)
	assert.Equal(uint16(0x3000), m.Regions[1].Lo)

	assert.ErrorIs(m.Map(0x1FFF, 0x2FFF, dev), ErrRangeOverlap)
	assert.ErrorIs(m.Map(0x2000, 0x3000, dev), ErrRangeOverlap)
	assert.ErrorIs(m.Map(0x0000, 0xFFFF, dev), ErrRangeOverlap)
	assert.NoError(m.Map(0x2000, 0x2FFF, dev))

	m.Unmap(0x2000)
	assert.Equal(3, len(m.Regions))
	m.Unmap(0x2000)
	assert.Equal(3, len(m.Regions))
}

func TestMapped_NilBase(t *testing.T) {
	assert := assert.New(t)

	m := NewMapped(nil)
	m.Write(0x1234, 0x56)
	assert.Equal(uint8(0), m.Read(0x1234))
}
