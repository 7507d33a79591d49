package cpu

// The stack lives in memory below the stack pointer R7, which points at the
// most recently pushed byte. A push may not wrap R7 below address zero, and a
// pop may not wrap R7 past the top of memory.

// Empty returns true if nothing has been pushed below STACK_TOP.
func (cpu *Cpu) Empty() bool {
	return cpu.Register[REG_SP] >= STACK_TOP
}

// Full returns true if a push would wrap below address zero.
func (cpu *Cpu) Full() bool {
	return cpu.Register[REG_SP] == 0
}

// Exhausted returns true if a pop would wrap past the top of memory.
func (cpu *Cpu) Exhausted() bool {
	return cpu.Register[REG_SP] == MEMORY_SIZE-1
}

// Depth returns the number of bytes on the stack below STACK_TOP.
func (cpu *Cpu) Depth() int {
	if cpu.Empty() {
		return 0
	}

	return STACK_TOP - int(cpu.Register[REG_SP])
}

// stackAlloc decrements the stack pointer, and returns the new top address.
func (cpu *Cpu) stackAlloc() (sp uint8, err error) {
	if cpu.Full() {
		err = ErrStackFull
		return
	}

	cpu.Register[REG_SP]--
	sp = cpu.Register[REG_SP]

	return
}

// stackTop returns the address of the top of the stack.
func (cpu *Cpu) stackTop() (sp uint8, err error) {
	if cpu.Exhausted() {
		err = ErrStackEmpty
		return
	}

	sp = cpu.Register[REG_SP]

	return
}

// Push a value onto the stack.
func (cpu *Cpu) Push(value uint8) (err error) {
	sp, err := cpu.stackAlloc()
	if err != nil {
		return
	}

	cpu.Write(sp, value)

	return
}

// Pop a value from the stack.
func (cpu *Cpu) Pop() (value uint8, err error) {
	sp, err := cpu.stackTop()
	if err != nil {
		return
	}

	value = cpu.Read(sp)
	cpu.Register[REG_SP]++

	return
}

// Peek returns the value on the top of the stack, without popping it.
func (cpu *Cpu) Peek() (value uint8, ok bool) {
	sp, err := cpu.stackTop()
	if err != nil {
		return
	}

	return cpu.Read(sp), true
}
