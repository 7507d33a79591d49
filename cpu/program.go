package cpu

import (
	"iter"
	"strings"

	ls8io "github.com/ezrec/ls8/io"
)

// Link is a reference to a label, to be filled in with the label's address.
type Link struct {
	Index int    // Index into Opcode.Codes.
	Label string // Label name.
}

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo int
	Addr   int
	Words  []string
	Codes  []uint8
	Links  []Link
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing line that generated the byte at addr.
func (prog *Program) Debug(addr uint8) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Size returns the size of the program image.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size = max(size, op.Addr+len(op.Codes))
	}

	return
}

// Binary returns the program image. Gaps left by .org are zero filled.
func (prog *Program) Binary() (bin []uint8) {
	bin = make([]uint8, prog.Size())
	for addr, code := range prog.Codes() {
		bin[addr] = code
	}

	return
}

// Codes iterates over the address and value of every assembled byte.
func (prog *Program) Codes() iter.Seq2[int, uint8] {
	return func(yield func(addr int, code uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Addr+n, code) {
					return
				}
			}
		}
	}
}

// Rom returns the program image, with the source text of each line as the
// comment of its first byte.
func (prog *Program) Rom() (rom *ls8io.Rom) {
	rom = &ls8io.Rom{
		Data: prog.Binary(),
	}
	rom.Comment = make([]string, len(rom.Data))
	for _, op := range prog.Opcodes {
		if len(op.Codes) == 0 {
			continue
		}
		rom.Comment[op.Addr] = strings.Join(op.Words, " ")
	}

	return
}
