// Package apu stands in for the 2A03's audio processing unit. Audio output
// is out of scope for this core; the stub exists only so the CPU memory map
// is complete and reads/writes to $4000-$4015 behave deterministically.
package apu

// Stub is an address-decoded, silent APU. Every register reads back zero
// and every write is discarded.
type Stub struct{}

// Read always returns 0; the APU has no readable state here.
func (Stub) Read(addr uint16) uint8 {
	return 0
}

// Write discards the byte. Real APU register semantics (envelopes, length
// counters, DMC) are not modeled.
func (Stub) Write(addr uint16, data uint8) {}
