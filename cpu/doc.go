// Package cpu implements the processor and assembler for the LS8 system.
//
// The LS8 is an 8-bit stored-program computer: a program counter (PC), eight
// 8-bit registers (r0-r7, with r7 used as the stack pointer), 256 bytes of
// memory shared by code, data and the downward-growing stack, and a flags
// register holding the result of the last comparison.
//
// Instructions are one opcode byte followed by zero, one or two operand bytes.
// The two high bits of the opcode give the operand count, bit 5 marks an ALU
// instruction, and bit 4 marks an instruction that assigns the PC itself.
//
// The assembler provides a small assembly language for the LS8 instruction set,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
