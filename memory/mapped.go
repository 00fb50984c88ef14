package memory

import (
	"slices"
)

// Region is an inclusive address range forwarded to a device.
type Region struct {
	Lo, Hi uint16
	Device Memory
}

// Contains returns true if addr falls within the region.
func (r Region) Contains(addr uint16) bool {
	return addr >= r.Lo && addr <= r.Hi
}

// Mapped dispatches accesses to devices mapped over a base memory.
// Devices see the absolute bus address, not an offset into their region.
type Mapped struct {
	Base    Memory   // Memory used outside of any region.
	Regions []Region // Mapped regions, sorted by Lo.
}

var _ Memory = (*Mapped)(nil)

// NewMapped creates a dispatcher over base.
func NewMapped(base Memory) *Mapped {
	return &Mapped{Base: base}
}

// Map places dev over the inclusive range lo..hi.
func (m *Mapped) Map(lo, hi uint16, dev Memory) (err error) {
	if lo > hi || dev == nil {
		err = ErrRangeInvalid
		return
	}

	for _, r := range m.Regions {
		if lo <= r.Hi && hi >= r.Lo {
			err = ErrRangeOverlap
			return
		}
	}

	m.Regions = append(m.Regions, Region{Lo: lo, Hi: hi, Device: dev})
	slices.SortFunc(m.Regions, func(a, b Region) int {
		return int(a.Lo) - int(b.Lo)
	})

	return
}

// Unmap removes the region starting at lo, if any.
func (m *Mapped) Unmap(lo uint16) {
	m.Regions = slices.DeleteFunc(m.Regions, func(r Region) bool {
		return r.Lo == lo
	})
}

// lookup finds the device responsible for addr.
func (m *Mapped) lookup(addr uint16) Memory {
	for _, r := range m.Regions {
		if addr < r.Lo {
			break
		}
		if r.Contains(addr) {
			return r.Device
		}
	}

	return m.Base
}

func (m *Mapped) Read(addr uint16) uint8 {
	dev := m.lookup(addr)
	if dev == nil {
		return 0
	}

	return dev.Read(addr)
}

func (m *Mapped) Write(addr uint16, val uint8) {
	dev := m.lookup(addr)
	if dev == nil {
		return
	}

	dev.Write(addr, val)
}
