package cpu

import (
	"iter"

	"github.com/ezrec/m6502/memory"
)

// LinkKind is how a label is patched into a statement.
type LinkKind int

const (
	LINK_WORD     = LinkKind(iota) // Little endian address.
	LINK_BYTE                      // Address, which must fit in a byte.
	LINK_LOW                       // Low byte of the address.
	LINK_HIGH                      // High byte of the address.
	LINK_RELATIVE                  // Branch offset to the address.
)

// Link is a reference to a label not yet defined when assembled.
type Link struct {
	Label  string   // Label to resolve.
	Offset int      // Offset into the statement's bytes.
	Kind   LinkKind // Patch to apply.
}

// Resolve patches the label's address into the statement.
func (link Link) Resolve(st *Statement, addr uint16) (err error) {
	data := st.Bytes[link.Offset:]

	switch link.Kind {
	case LINK_WORD:
		data[0] = uint8(addr)
		data[1] = uint8(addr >> 8)
	case LINK_BYTE:
		if addr > 0xFF {
			err = ErrOperandRange
			return
		}
		data[0] = uint8(addr)
	case LINK_LOW:
		data[0] = uint8(addr)
	case LINK_HIGH:
		data[0] = uint8(addr >> 8)
	case LINK_RELATIVE:
		// Branches are two bytes; the offset is from the next instruction.
		offset := int(addr) - (int(st.Addr) + 2)
		if offset < -0x80 || offset > 0x7F {
			err = ErrBranchRange
			return
		}
		data[0] = uint8(offset)
	}

	return
}

// Statement is one assembled source line.
type Statement struct {
	LineNo int      // Source line number.
	Addr   uint16   // Address of the first byte.
	Words  []string // Source words.
	Bytes  []uint8  // Assembled bytes.
	Links  []Link   // Forward references, resolved when parsing ends.
}

// Program is an assembled listing.
type Program struct {
	Statements []Statement       // Statements in source order.
	Labels     map[string]uint16 // Label addresses.
}

// Debug locates an address in a program listing.
type Debug struct {
	*Statement
	Index int // Byte offset of the address in the statement.
}

// Debug returns the statement containing addr, if any.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		if addr >= st.Addr && int(addr) < int(st.Addr)+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr - st.Addr),
			}
			break
		}
	}

	return
}

// Origin returns the address of the first assembled byte.
func (prog *Program) Origin() (addr uint16) {
	if len(prog.Statements) > 0 {
		addr = prog.Statements[0].Addr
	}
	return
}

// Bytes iterates over the address and value of every assembled byte.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, value uint8) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Addr+uint16(n), value) {
					return
				}
			}
		}
	}
}

// Binary returns a flat image from the lowest to the highest assembled
// address, with gaps zero filled.
func (prog *Program) Binary() (origin uint16, data []uint8) {
	if len(prog.Statements) == 0 {
		return
	}

	lo, hi := memory.MAX_ADDRESS, 0
	for addr := range prog.Bytes() {
		lo = min(lo, int(addr))
		hi = max(hi, int(addr))
	}

	origin = uint16(lo)
	data = make([]uint8, hi-lo+1)
	for addr, value := range prog.Bytes() {
		data[int(addr)-lo] = value
	}

	return
}

// Load writes the program into memory.
func (prog *Program) Load(mem memory.Memory) {
	for addr, value := range prog.Bytes() {
		mem.Write(addr, value)
	}
}
