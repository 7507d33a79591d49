// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	ls8io "github.com/ezrec/ls8/io"
)

// Channel is an I/O channel interface.
type Channel ls8io.Channel

// Machine geometry.
const (
	MEMORY_SIZE    = 256  // Bytes of memory.
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register used as the stack pointer.
	STACK_TOP      = 0xf4 // Stack pointer after reset; the stack grows down from here.
)

// Flags register bits, set by CMP.
const (
	FLAG_EQUAL   = uint8(1 << 0)
	FLAG_GREATER = uint8(1 << 1)
	FLAG_LESS    = uint8(1 << 2)
	FLAG_MASK    = FLAG_EQUAL | FLAG_GREATER | FLAG_LESS
)

var _cpu_defines = map[string]string{
	"SP":           "R7",
	"MEMORY_SIZE":  fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_TOP":    fmt.Sprintf("0x%02x", STACK_TOP),
	"FLAG_EQUAL":   fmt.Sprintf("0x%02x", FLAG_EQUAL),
	"FLAG_GREATER": fmt.Sprintf("0x%02x", FLAG_GREATER),
	"FLAG_LESS":    fmt.Sprintf("0x%02x", FLAG_LESS),
}

// Cpu is the simulation context for the LS8 processor.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Console Channel   // Destination of PRN output.
	Trace   io.Writer // If set, receives one trace line per cycle.

	Pc       uint8                 // Program counter.
	Register [REGISTER_COUNT]uint8 // Register bank. R7 is the stack pointer.
	Memory   [MEMORY_SIZE]uint8    // Code, data and stack.
	Flags    uint8                 // Comparison result, see FLAG_*.
	Halted   bool                  // Set by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU, in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %03b\n", "flags", cpu.Flags)
	for n, val := range cpu.Register {
		reg := fmt.Sprintf("r%d", n)
		text += fmt.Sprintf("% 5s: %02X\n", reg, val)
	}
	text += fmt.Sprintf("% 5s: %v\n", "halt", cpu.Halted)

	return
}

// Reset the CPU state.
// - Clears the registers, flags and memory.
// - Sets the stack pointer to STACK_TOP.
// - Sets the PC to zero.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Pc = 0
	cpu.Flags = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load copies a program image to memory, starting at address zero.
func (cpu *Cpu) Load(image []uint8) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrMemoryFull
		return
	}

	copy(cpu.Memory[:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// Read a byte of memory.
func (cpu *Cpu) Read(addr uint8) uint8 {
	return cpu.Memory[int(addr)%MEMORY_SIZE]
}

// Write a byte of memory.
func (cpu *Cpu) Write(addr uint8, value uint8) {
	cpu.Memory[int(addr)%MEMORY_SIZE] = value
}

// GetRegister returns a register. The index wraps at REGISTER_COUNT.
func (cpu *Cpu) GetRegister(index uint8) uint8 {
	return cpu.Register[int(index)%REGISTER_COUNT]
}

// SetRegister sets a register. The index wraps at REGISTER_COUNT.
func (cpu *Cpu) SetRegister(index uint8, value uint8) {
	cpu.Register[int(index)%REGISTER_COUNT] = value
}

// Fetch returns the opcode at the PC, and its operands.
func (cpu *Cpu) Fetch() (code Code, operand [CODE_OPERANDS_MAX]uint8) {
	code = Code(cpu.Read(cpu.Pc))

	operands, _ := code.Decode()
	for n := range operands {
		operand[n] = cpu.Read(cpu.Pc + uint8(n) + 1)
	}

	return
}

// trace writes the trace line for the instruction at the PC:
// the PC, the three bytes at the PC, and the register bank.
func (cpu *Cpu) trace() {
	pc := cpu.Pc
	line := fmt.Sprintf("%02X | %02X %02X %02X |", pc, cpu.Read(pc), cpu.Read(pc+1), cpu.Read(pc+2))
	for _, val := range cpu.Register {
		line += fmt.Sprintf(" %02X", val)
	}
	line += "\n"

	_, _ = io.WriteString(cpu.Trace, line)
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	code, operand := cpu.Fetch()

	if cpu.Trace != nil {
		cpu.trace()
	}

	err = cpu.Execute(code, operand[0], operand[1])

	return
}

// Execute executes a single decoded instruction at the PC, then moves the
// PC to the next instruction unless the instruction assigned it.
func (cpu *Cpu) Execute(code Code, opA, opB uint8) (err error) {
	defn, ok := Lookup(code)
	if !ok {
		err = &ErrOpcode{Pc: cpu.Pc, Code: code}
		return
	}

	defer func() {
		if err != nil {
			err = &ErrFault{Pc: cpu.Pc, Code: code, Err: err}
		}
	}()

	if cpu.Verbose {
		log.Printf("%02x: %v %02x %02x", cpu.Pc, code, opA, opB)
	}

	next_pc := cpu.Pc
	if !defn.SetsPc {
		next_pc += uint8(defn.Operands) + 1
	}

	switch {
	case defn.Alu:
		cpu.Alu(defn.AluOp, opA, opB)
	case code == HLT:
		cpu.Halted = true
	case code == LDI:
		cpu.SetRegister(opA, opB)
	case code == PRN:
		if cpu.Console == nil {
			err = ErrChannelInvalid
			break
		}
		err = cpu.Console.Send(cpu.GetRegister(opA))
	case code == PUSH:
		var sp uint8
		sp, err = cpu.stackAlloc()
		if err != nil {
			break
		}
		cpu.Write(sp, cpu.GetRegister(opA))
	case code == POP:
		var sp uint8
		sp, err = cpu.stackTop()
		if err != nil {
			break
		}
		cpu.SetRegister(opA, cpu.Read(sp))
		cpu.Register[REG_SP]++
	case code == CALL:
		err = cpu.Push(cpu.Pc + 2)
		if err != nil {
			break
		}
		next_pc = cpu.GetRegister(opA)
	case code == RET:
		next_pc, err = cpu.Pop()
	case code == JMP:
		next_pc = cpu.GetRegister(opA)
	case code == JEQ, code == JNE:
		equal := (cpu.Flags & FLAG_EQUAL) != 0
		if equal == (code == JEQ) {
			next_pc = cpu.GetRegister(opA)
		} else {
			next_pc = cpu.Pc + uint8(defn.Operands) + 1
		}
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	if cpu.Halted && cpu.Verbose {
		log.Printf("cpu: halted after %d ticks\n%v", cpu.Ticks, cpu)
	}

	return
}
