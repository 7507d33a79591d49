package cpu

// Alu performs an ALU operation on two registers. ADD and MUL write the
// result, modulo 256, to regA. CMP sets exactly one of the FLAG_EQUAL,
// FLAG_GREATER or FLAG_LESS bits of the flags register.
func (cpu *Cpu) Alu(op AluOp, regA, regB uint8) {
	a := uint16(cpu.GetRegister(regA))
	b := uint16(cpu.GetRegister(regB))

	switch op {
	case ALU_OP_ADD:
		cpu.SetRegister(regA, uint8((a+b)&0xff))
	case ALU_OP_MUL:
		cpu.SetRegister(regA, uint8((a*b)&0xff))
	case ALU_OP_CMP:
		switch {
		case a == b:
			cpu.Flags = FLAG_EQUAL
		case a > b:
			cpu.Flags = FLAG_GREATER
		default:
			cpu.Flags = FLAG_LESS
		}
	}
}
