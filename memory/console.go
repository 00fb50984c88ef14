package memory

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	CONSOLE_OUT = 0xF001 // Write a byte to the output.
	CONSOLE_IN  = 0xF004 // Read the next input byte.
)

// Console is a character device. Every write emits the byte to Output,
// every read consumes a byte from Input. Its address decode is left to
// whatever maps it; the emulator maps it at CONSOLE_OUT and CONSOLE_IN
// only.
//
// A read waits for as long as Input.Read does, so a terminal Input blocks
// the CPU until a key is pressed. With no Input, once Input is exhausted,
// or when Input.Read returns no byte, the read returns 0.
type Console struct {
	Input  io.Reader
	Output io.Writer

	eof bool
}

var _ Memory = (*Console)(nil)

// Defines returns the console register addresses for the assembler.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"CONSOLE_OUT": fmt.Sprintf("$%04X", CONSOLE_OUT),
		"CONSOLE_IN":  fmt.Sprintf("$%04X", CONSOLE_IN),
	})
}

// Rewind clears end of input so a new Input can be read.
func (con *Console) Rewind() {
	con.eof = false
}

// EOF returns true once Input has been exhausted.
func (con *Console) EOF() bool {
	return con.eof
}

func (con *Console) Read(addr uint16) uint8 {
	if con.Input == nil || con.eof {
		return 0
	}

	var one [1]byte
	n, err := con.Input.Read(one[:])
	if errors.Is(err, io.EOF) {
		con.eof = true
	}
	if n == 0 {
		return 0
	}

	return one[0]
}

func (con *Console) Write(addr uint16, val uint8) {
	if con.Output == nil {
		return
	}
	con.Output.Write([]byte{val})
}
