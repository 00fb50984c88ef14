package memory

import (
	"io/fs"
)

// Ram is a flat 64KiB array.
type Ram struct {
	Data [SIZE]uint8
}

var _ Memory = (*Ram)(nil)

func (ram *Ram) Read(addr uint16) uint8 {
	return ram.Data[addr]
}

func (ram *Ram) Write(addr uint16, val uint8) {
	ram.Data[addr] = val
}

// Reset clears all of memory to zero.
func (ram *Ram) Reset() {
	clear(ram.Data[:])
}

// Load copies data into memory starting at addr. Images that would run
// past the end of the address space are rejected without modifying memory.
func (ram *Ram) Load(addr uint16, data []uint8) (err error) {
	if int(addr)+len(data) > SIZE {
		err = ErrImageSize
		return
	}

	copy(ram.Data[addr:], data)

	return
}

// LoadImage reads the named file from fsys and loads it at addr.
func (ram *Ram) LoadImage(fsys fs.FS, name string, addr uint16) (err error) {
	defer func() {
		if err != nil {
			err = &ErrImage{Name: name, Addr: addr, Err: err}
		}
	}()

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return
	}

	err = ram.Load(addr, data)

	return
}

// SetVector stores a little-endian address at one of the CPU vectors.
func (ram *Ram) SetVector(vector, addr uint16) {
	Write16(ram, vector, addr)
}
