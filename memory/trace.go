package memory

import (
	"fmt"
	"log"
)

// Access is a single recorded bus access.
type Access struct {
	Addr  uint16
	Value uint8
	Write bool
}

func (a Access) String() string {
	dir := "r"
	if a.Write {
		dir = "w"
	}
	return fmt.Sprintf("%v $%04X=$%02X", dir, a.Addr, a.Value)
}

// Trace records every access made through it before passing it on.
type Trace struct {
	Verbose bool     // Set to log each access.
	Memory  Memory   // Traced memory.
	Log     []Access // Accesses since the last Reset.
}

var _ Memory = (*Trace)(nil)

// NewTrace wraps mem in a tracing decorator.
func NewTrace(mem Memory) *Trace {
	return &Trace{Memory: mem}
}

func (t *Trace) Read(addr uint16) (val uint8) {
	if t.Memory != nil {
		val = t.Memory.Read(addr)
	}
	t.record(Access{Addr: addr, Value: val})

	return
}

func (t *Trace) Write(addr uint16, val uint8) {
	if t.Memory != nil {
		t.Memory.Write(addr, val)
	}
	t.record(Access{Addr: addr, Value: val, Write: true})
}

func (t *Trace) record(a Access) {
	if t.Verbose {
		log.Printf("memory: %v", a)
	}
	t.Log = append(t.Log, a)
}

// Reads returns the addresses read since the last Reset, in order.
func (t *Trace) Reads() (addrs []uint16) {
	for _, a := range t.Log {
		if !a.Write {
			addrs = append(addrs, a.Addr)
		}
	}
	return
}

// Writes returns the write accesses since the last Reset, in order.
func (t *Trace) Writes() (writes []Access) {
	for _, a := range t.Log {
		if a.Write {
			writes = append(writes, a)
		}
	}
	return
}

// Reset clears the access log.
func (t *Trace) Reset() {
	t.Log = t.Log[:0]
}
