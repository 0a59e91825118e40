package cartridge

import (
	"errors"
	"fmt"
)

// ErrInvalidRomFormat is returned when a ROM image is missing the iNES
// magic bytes.
var ErrInvalidRomFormat = errors.New("cartridge: invalid rom format, missing \"NES\\x1a\" magic")

// UnsupportedMapperError is returned by the loader when a ROM declares a
// mapper number outside 0-4.
type UnsupportedMapperError struct {
	ID uint16
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("cartridge: unsupported mapper %d", e.ID)
}

// RomTooLargeError is returned when an NES 2.0 exponent-form size field
// would overflow address arithmetic.
type RomTooLargeError struct{}

func (e *RomTooLargeError) Error() string {
	return "cartridge: rom too large, NES 2.0 exponent size overflows address space"
}
