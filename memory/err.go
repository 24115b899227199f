package memory

import (
	"errors"

	"github.com/ezrec/tiny8/translate"
)

var f = translate.From

var (
	ErrOutOfRange    = errors.New(f("address out of range"))
	ErrImageTooLarge = errors.New(f("image too large"))
)

// ErrAddress reports an access outside of a memory region.
type ErrAddress struct {
	Space string // "ram" or "rom"
	Addr  int
}

func (err ErrAddress) Error() string {
	return f("%v address %v out of range", err.Space, err.Addr)
}

func (err ErrAddress) Is(target error) bool {
	return target == ErrOutOfRange
}

// ErrImage reports a ROM image that does not fit the ROM.
type ErrImage struct {
	Size     int
	Capacity int
}

func (err ErrImage) Error() string {
	return f("rom image of %v bytes exceeds %v bytes", err.Size, err.Capacity)
}

func (err ErrImage) Is(target error) bool {
	return target == ErrImageTooLarge
}
