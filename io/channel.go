// Package io provides I/O channel implementations for the LS8 emulator.
// It includes the ROM holding the program image loaded from `.ls8` text,
// and the Tape console that receives PRN output.
package io

import (
	"iter"
)

// Channel defines the interface for all I/O channels in the LS8 system.
// Channels operate at the byte level.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields bytes from the channel.
	Receive() iter.Seq[uint8]
	// Send writes a single byte to the channel.
	Send(value uint8) error
}
