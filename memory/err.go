package memory

import (
	"errors"

	"github.com/ezrec/m6502/translate"
)

var f = translate.From

var (
	// Mapping errors
	ErrRangeInvalid = errors.New(f("range invalid"))
	ErrRangeOverlap = errors.New(f("range overlaps an existing mapping"))

	// Image errors
	ErrImageSize = errors.New(f("image too large"))
)

// ErrImage reports a failure to load a memory image.
type ErrImage struct {
	Name string
	Addr uint16
	Err  error
}

func (err *ErrImage) Error() string {
	return f("image %v at $%04X: %v", err.Name, err.Addr, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
