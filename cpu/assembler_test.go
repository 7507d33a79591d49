package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; print 8 * 9",
		"LDI R0, 8",
		"ldi r1,9     ; lower case is fine",
		"MUL R0,R1",
		"",
		"PRN R0",
		"HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{2, 0, []string{"LDI", "R0", "8"}, []uint8{0x82, 0x00, 0x08}, nil},
		{3, 3, []string{"ldi", "r1", "9"}, []uint8{0x82, 0x01, 0x09}, nil},
		{4, 6, []string{"MUL", "R0", "R1"}, []uint8{0xa2, 0x00, 0x01}, nil},
		{6, 9, []string{"PRN", "R0"}, []uint8{0x47, 0x00}, nil},
		{7, 11, []string{"HLT"}, []uint8{0x01}, nil},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal([]uint8{
		0x82, 0x00, 0x08,
		0x82, 0x01, 0x09,
		0xa2, 0x00, 0x01,
		0x47, 0x00,
		0x01,
	}, prog.Binary())
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	table := [](struct {
		line  string
		codes []uint8
	}){
		{"HLT", []uint8{0x01}},
		{"RET", []uint8{0x11}},
		{"PUSH R1", []uint8{0x45, 0x01}},
		{"POP R2", []uint8{0x46, 0x02}},
		{"PRN R3", []uint8{0x47, 0x03}},
		{"CALL R4", []uint8{0x50, 0x04}},
		{"JMP R5", []uint8{0x54, 0x05}},
		{"JEQ R6", []uint8{0x55, 0x06}},
		{"JNE R7", []uint8{0x56, 0x07}},
		{"LDI R0, 0x7f", []uint8{0x82, 0x00, 0x7f}},
		{"LDI R0, -1", []uint8{0x82, 0x00, 0xff}},
		{"LDI R0, 0b101", []uint8{0x82, 0x00, 0x05}},
		{"LDI R0, 'A'", []uint8{0x82, 0x00, 'A'}},
		{"LDI R0, '\\n'", []uint8{0x82, 0x00, '\n'}},
		{"ADD R0, R1", []uint8{0xa0, 0x00, 0x01}},
		{"MUL R2, R3", []uint8{0xa2, 0x02, 0x03}},
		{"CMP R4, R5", []uint8{0xa7, 0x04, 0x05}},
		{"DB 1, 2, 255", []uint8{1, 2, 255}},
	}

	for _, entry := range table {
		prog, err := asm.Parse(strings.NewReader(entry.line))
		assert.NoError(err, entry.line)
		if err != nil {
			continue
		}
		assert.Equal(entry.codes, prog.Binary(), entry.line)
	}
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ COUNT 5",
		"LDI R0, COUNT",
		"LDI R1, $(COUNT * 2)",
		".equ TWELVE $(COUNT + 7)",
		"LDI R2, TWELVE",
		"LDI R3, $(LINENO * 8)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
	}

	assert.Equal(4, len(prog.Opcodes))
	assert.Equal([]uint8{
		0x82, 0x00, 5,
		0x82, 0x01, 10,
		0x82, 0x02, 12,
		0x82, 0x03, 48,
	}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SP", "R7")
	asm.Predefine("STACK_TOP", "0xf4")

	prog, err := asm.Parse(strings.NewReader("PUSH SP\nLDI R0, STACK_TOP\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]uint8{0x45, 0x07, 0x82, 0x00, 0xf4}, prog.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro SHOW reg value",
		"LDI reg, value",
		"PRN reg",
		".endm",
		"SHOW R0 7",
		".equ EIGHT 8",
		"SHOW R1 EIGHT",
		".macro TWICE value",
		"SHOW R2 value",
		"SHOW R3 $(value * 2)",
		".endm",
		"TWICE 3",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Opcode{
		{2, 0, []string{"LDI", "R0", "7"}, []uint8{0x82, 0x00, 0x07}, nil},
		{3, 3, []string{"PRN", "R0"}, []uint8{0x47, 0x00}, nil},
		{2, 5, []string{"LDI", "R1", "8"}, []uint8{0x82, 0x01, 0x08}, nil},
		{3, 8, []string{"PRN", "R1"}, []uint8{0x47, 0x01}, nil},
		{2, 10, []string{"LDI", "R2", "3"}, []uint8{0x82, 0x02, 0x03}, nil},
		{3, 13, []string{"PRN", "R2"}, []uint8{0x47, 0x02}, nil},
		{2, 15, []string{"LDI", "R3", "6"}, []uint8{0x82, 0x03, 0x06}, nil},
		{3, 18, []string{"PRN", "R3"}, []uint8{0x47, 0x03}, nil},
	}

	opEqual(t, expected, prog.Opcodes)
}

func TestAssemblerMacroUnique(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro SKIP reg",
		"LDI reg, @out",
		"JMP reg",
		"@out:",
		".endm",
		"SKIP R1",
		"SKIP R2",
		"HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(5, asm.Label["SKIP_1_out"])
	assert.Equal(10, asm.Label["SKIP_2_out"])
	assert.Equal([]uint8{
		0x82, 0x01, 5, 0x54, 0x01,
		0x82, 0x02, 10, 0x54, 0x02,
		0x01,
	}, prog.Binary())
}

func TestAssemblerLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"LDI R1, loop",
		"LDI R2, end",
		"loop: first: PRN R0",
		"JMP R2",
		"end:",
		"",
		"HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Opcode{
		{1, 0, []string{"LDI", "R1", "loop"}, []uint8{0x82, 0x01, 0x06}, []Link{{Index: 2, Label: "loop"}}},
		{2, 3, []string{"LDI", "R2", "end"}, []uint8{0x82, 0x02, 0x0a}, []Link{{Index: 2, Label: "end"}}},
		{3, 6, []string{"PRN", "R0"}, []uint8{0x47, 0x00}, nil},
		{4, 8, []string{"JMP", "R2"}, []uint8{0x54, 0x02}, nil},
		{7, 10, []string{"HLT"}, []uint8{0x01}, nil},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal(6, asm.Label["first"])
}

func TestAssemblerOrg(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		"LDI R0, data",
		"HLT",
		".org 0x10",
		"data: DB 'h', 'i', 0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(0x13, prog.Size())

	bin := prog.Binary()
	assert.Equal([]uint8{0x82, 0x00, 0x10, 0x01}, bin[:4])
	assert.Equal(make([]uint8, 0x10-4), bin[4:0x10])
	assert.Equal([]uint8{'h', 'i', 0}, bin[0x10:])

	assert.Equal(4, prog.Debug(0x11).LineNo)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"DUP:\nDUP:\n", 2, ErrLabelDuplicate},
		{"1bad: HLT", 1, ErrInstructionInvalid},
		{"LDI R0, nothing", 1, nil},
		{"LDI R0, $(\"aaa\")", 1, nil},
		{"LDI R0, $(more(\"aaa\"))", 1, nil},
		{"LDI R0, $(0x10000000000000000)", 1, nil},
		{"LDI", 1, ErrOpcodeMissing},
		{"LDI R0", 1, ErrOpcodeMissing},
		{"LDI R0, 1, 2", 1, ErrOpcodeExtraArgs},
		{"LDI R9, 1", 1, ErrRegisterInvalid},
		{"LDI R0, 256", 1, nil},
		{"LDI R0, -129", 1, nil},
		{"PRN 3", 1, ErrRegisterInvalid},
		{"ADD R0", 1, ErrOpcodeMissing},
		{"HLT R0", 1, ErrOpcodeExtraArgs},
		{"NOP", 1, ErrInstructionInvalid},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B\nPRN B\n.endm\nA R9\n", 4, ErrRegisterInvalid},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\nHLT\n", 2, ErrMacroLonely},
		{".macro\n", 1, ErrMacroSyntax},
		{".org", 1, ErrOrgSyntax},
		{".org here", 1, ErrOrgSyntax},
		{".org 300", 1, ErrOrgSyntax},
		{".org 0x10\n.org 0x08\n", 2, ErrOrgBackwards},
		{".org 0xff\nLDI R0, 1\n", 2, ErrProgramFull},
		{"DB", 1, ErrOpcodeMissing},
		{"DB 300", 1, nil},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}

func TestAssemblerErrLabelMissing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("HLT\nLDI R0, nowhere\n"))

	var el ErrLabelMissing
	assert.ErrorAs(err, &el)
	assert.Equal(ErrLabelMissing("nowhere"), el)

	var se *ErrSyntax
	assert.ErrorAs(err, &se)
	assert.Equal(2, se.LineNo)
	assert.Equal("LDI R0 nowhere", se.Line)
}
