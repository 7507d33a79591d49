package cpu

import (
	"fmt"
)

// Code is an LS8 opcode byte.
type Code uint8

// Opcode bit fields.
const (
	CODE_OPERANDS_SHIFT = 6               // Operand count is in bits 7-6.
	CODE_OPERANDS_MASK  = Code(0b11 << 6) // Mask of the operand count.
	CODE_ALU            = Code(1 << 5)    // Set on ALU instructions.
	CODE_SETS_PC        = Code(1 << 4)    // Set on instructions that assign the PC.
	CODE_ID_MASK        = Code(0b1111)    // Mask of the instruction identifier.
	CODE_OPERANDS_MAX   = 2               // Largest meaningful operand count.
)

// Instruction set.
const (
	HLT  = Code(0b00000001)
	RET  = Code(0b00010001)
	PUSH = Code(0b01000101)
	POP  = Code(0b01000110)
	PRN  = Code(0b01000111)
	CALL = Code(0b01010000)
	JMP  = Code(0b01010100)
	JEQ  = Code(0b01010101)
	JNE  = Code(0b01010110)
	LDI  = Code(0b10000010)
	ADD  = Code(0b10100000)
	MUL  = Code(0b10100010)
	CMP  = Code(0b10100111)
)

// AluOp is an ALU operation type. The value matches the identifier bits of
// the ALU opcode that performs it.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_MUL = AluOp(2) // mul
	ALU_OP_CMP = AluOp(7) // cmp
)

// Definition describes one instruction of the instruction set.
type Definition struct {
	Code     Code
	Mnemonic string
	Operands int   // Operand bytes following the opcode.
	SetsPc   bool  // Instruction assigns the PC; no automatic advance.
	Alu      bool  // Instruction is performed by the ALU.
	AluOp    AluOp // ALU operation, if Alu is set.
}

// Definitions is the instruction set, in opcode order.
var Definitions = []Definition{
	{Code: HLT, Mnemonic: "HLT"},
	{Code: RET, Mnemonic: "RET", SetsPc: true},
	{Code: PUSH, Mnemonic: "PUSH", Operands: 1},
	{Code: POP, Mnemonic: "POP", Operands: 1},
	{Code: PRN, Mnemonic: "PRN", Operands: 1},
	{Code: CALL, Mnemonic: "CALL", Operands: 1, SetsPc: true},
	{Code: JMP, Mnemonic: "JMP", Operands: 1, SetsPc: true},
	{Code: JEQ, Mnemonic: "JEQ", Operands: 1, SetsPc: true},
	{Code: JNE, Mnemonic: "JNE", Operands: 1, SetsPc: true},
	{Code: LDI, Mnemonic: "LDI", Operands: 2},
	{Code: ADD, Mnemonic: "ADD", Operands: 2, Alu: true, AluOp: ALU_OP_ADD},
	{Code: MUL, Mnemonic: "MUL", Operands: 2, Alu: true, AluOp: ALU_OP_MUL},
	{Code: CMP, Mnemonic: "CMP", Operands: 2, Alu: true, AluOp: ALU_OP_CMP},
}

var (
	codeMap     [256]*Definition
	mnemonicMap = map[string]*Definition{}
)

func init() {
	for n := range Definitions {
		defn := &Definitions[n]
		codeMap[defn.Code] = defn
		mnemonicMap[defn.Mnemonic] = defn
	}
}

// Lookup returns the definition of an opcode. ok is false for opcodes
// outside of the instruction set.
func Lookup(code Code) (defn Definition, ok bool) {
	p := codeMap[code]
	if p == nil {
		return
	}

	return *p, true
}

// LookupMnemonic returns the definition of an upper-case mnemonic.
func LookupMnemonic(mnemonic string) (defn Definition, ok bool) {
	p, ok := mnemonicMap[mnemonic]
	if ok {
		defn = *p
	}
	return
}

// Decode returns the operand count and PC assignment flag encoded in any
// opcode, whether or not it is in the instruction set.
func (code Code) Decode() (operands int, setsPc bool) {
	operands = int((code & CODE_OPERANDS_MASK) >> CODE_OPERANDS_SHIFT)
	if operands > CODE_OPERANDS_MAX {
		operands = CODE_OPERANDS_MAX
	}
	setsPc = (code & CODE_SETS_PC) != 0
	return
}

// String returns the mnemonic of the opcode.
func (code Code) String() string {
	defn, ok := Lookup(code)
	if !ok {
		return fmt.Sprintf("Code(0x%02x)", uint8(code))
	}

	return defn.Mnemonic
}

// String returns the definition in listing form.
func (defn Definition) String() (out string) {
	out = fmt.Sprintf("%08b %v operands:%d", uint8(defn.Code), defn.Mnemonic, defn.Operands)
	if defn.SetsPc {
		out += " pc"
	}
	if defn.Alu {
		out += fmt.Sprintf(" alu:%v", defn.AluOp)
	}

	return
}
