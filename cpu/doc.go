// Package cpu implements the MOS 6502 microprocessor and an assembler for it.
//
// The CPU holds the accumulator (A), two index registers (X, Y), the stack
// pointer (S), the program counter (PC) and the packed status flags (P).
// Each call to Step executes one documented instruction against a Memory
// bus, counting one cycle for every bus access and every internal dead
// cycle, including the page-crossing "oops" cycles and dummy reads of the
// real hardware.
//
// The assembler accepts conventional 6502 syntax with labels, macros,
// equates, and compile-time $(...) expressions.
package cpu
