package cpu

import (
	"context"
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
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("2000", asm.Equate["MEMORY_SIZE"])
	assert.Equal("1000", asm.Equate["USER_LIMIT"])
	assert.Equal("1500", asm.Equate["HANDLER"])
	assert.Equal("2000", asm.Equate["SYSTEM_STACK"])
	assert.Equal("1", asm.Equate["PORT_INTEGER"])
	assert.Equal("2", asm.Equate["PORT_CHARACTER"])
}

func stmtEqual(t *testing.T, expected, statements []Statement) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(statements))
	if len(expected) == len(statements) {
		for n := range len(expected) {
			assert.Equal(expected[n], statements[n])
		}
	}
}

func parse(t *testing.T, asm *Assembler, program ...string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssemblerInstructions(t *testing.T) {
	asm := &Assembler{}

	prog := parse(t, asm,
		"loadval 15 ; the answer",
		"put PORT_INTEGER",
		"",
		"   ; nothing here",
		"\tcopytox",
		"end",
	)

	expected := []Statement{
		{LineNo: 1, Address: 0, Words: []string{"loadval", "15"}, Codes: []int32{1, 15}},
		{LineNo: 2, Address: 2, Words: []string{"put", "1"}, Codes: []int32{9, 1}},
		{LineNo: 5, Address: 4, Words: []string{"copytox"}, Codes: []int32{14}},
		{LineNo: 6, Address: 5, Words: []string{"end"}, Codes: []int32{50}},
	}

	stmtEqual(t, expected, prog.Statements)
}

func TestAssemblerMnemonics(t *testing.T) {
	assert := assert.New(t)

	for op := range Ops() {
		asm := &Assembler{}

		line := op.String()
		if op.Operands() > 0 {
			line += " 7"
		}

		prog, err := asm.Parse(strings.NewReader(line))
		assert.NoError(err, line)
		if assert.Equal(1, len(prog.Statements), line) {
			codes := prog.Statements[0].Codes
			assert.Equal(1+op.Operands(), len(codes), line)
			assert.Equal(int32(op), codes[0], line)
		}
	}
}

func TestAssemblerLabels(t *testing.T) {
	asm := &Assembler{}

	prog := parse(t, asm,
		"        jump main",
		"data:   .word 7 -1",
		"main:   loadaddr data",
		"        jumpifnotequal done",
		"        end",
		"done:   end",
	)

	expected := []Statement{
		{LineNo: 1, Address: 0, Words: []string{"jump", "main"}, Codes: []int32{20, 4}},
		{LineNo: 2, Address: 2, Words: []string{".word", "7", "-1"}, Codes: []int32{7, -1}},
		{LineNo: 3, Address: 4, Words: []string{"loadaddr", "data"}, Codes: []int32{2, 2}},
		{LineNo: 4, Address: 6, Words: []string{"jumpifnotequal", "done"}, Codes: []int32{22, 9}},
		{LineNo: 5, Address: 8, Words: []string{"end"}, Codes: []int32{50}},
		{LineNo: 6, Address: 9, Words: []string{"end"}, Codes: []int32{50}},
	}

	stmtEqual(t, expected, prog.Statements)

	assert.Equal(t, map[string]int32{"data": 2, "main": 4, "done": 9}, asm.Label)
}

func TestAssemblerOrigin(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := parse(t, asm,
		"        int",
		"        end",
		"        .org HANDLER",
		"kernel: loadval 'K'",
		"        put PORT_CHARACTER",
		"        iret",
		".org $(USER_LIMIT - 1)",
		".word kernel",
	)

	img := prog.Image()
	words := map[int32]int32{}
	for address, value := range img.All() {
		words[address] = value
	}

	assert.Equal(map[int32]int32{
		0:    29,
		1:    50,
		1500: 1,
		1501: 'K',
		1502: 9,
		1503: 2,
		1504: 30,
		999:  1500,
	}, words)

	dbg := prog.Debug(1501)
	if assert.NotNil(dbg.Statement) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal(1, dbg.Index)
	}

	dbg = prog.Debug(2)
	assert.Nil(dbg.Statement)
}

func TestAssemblerCharacters(t *testing.T) {
	asm := &Assembler{}

	prog := parse(t, asm,
		"loadval 'A'",
		"loadval ' '",
		"loadval '\\n'",
		"loadval ';' ; semicolon",
		"loadval 'é'",
	)

	expected := []Statement{
		{LineNo: 1, Address: 0, Words: []string{"loadval", "65"}, Codes: []int32{1, 65}},
		{LineNo: 2, Address: 2, Words: []string{"loadval", "32"}, Codes: []int32{1, 32}},
		{LineNo: 3, Address: 4, Words: []string{"loadval", "10"}, Codes: []int32{1, 10}},
		{LineNo: 4, Address: 6, Words: []string{"loadval", "59"}, Codes: []int32{1, 59}},
		{LineNo: 5, Address: 8, Words: []string{"loadval", "233"}, Codes: []int32{1, 233}},
	}

	stmtEqual(t, expected, prog.Statements)
}

func TestAssemblerEqu(t *testing.T) {
	asm := &Assembler{}

	prog := parse(t, asm,
		".equ TEN 10",
		"loadval $(TEN * 2 + 1)",
		"loadval $(USER_LIMIT - 1)",
		"loadval $(LINENO)",
		".equ NEG -0x10",
		"loadval NEG",
	)

	expected := []Statement{
		{LineNo: 2, Address: 0, Words: []string{"loadval", "21"}, Codes: []int32{1, 21}},
		{LineNo: 3, Address: 2, Words: []string{"loadval", "999"}, Codes: []int32{1, 999}},
		{LineNo: 4, Address: 4, Words: []string{"loadval", "4"}, Codes: []int32{1, 4}},
		{LineNo: 6, Address: 6, Words: []string{"loadval", "-0x10"}, Codes: []int32{1, -16}},
	}

	stmtEqual(t, expected, prog.Statements)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("USER_LIMIT", "500")
	asm.Predefine("COUNT", "3")

	prog := parse(t, asm, "loadval USER_LIMIT", "loadval COUNT", "loadval HANDLER")

	var codes []int32
	for _, code := range prog.Codes() {
		codes = append(codes, code)
	}
	assert.Equal([]int32{1, 500, 1, 3, 1, 1500}, codes)
}

func TestAssemblerMacro(t *testing.T) {
	asm := &Assembler{}

	prog := parse(t, asm,
		".macro SPIN n",
		"@top:   loadval n",
		"        jumpifnotequal @top",
		".endm",
		"SPIN 1",
		"SPIN 2",
	)

	expected := []Statement{
		{LineNo: 2, Address: 0, Words: []string{"loadval", "1"}, Codes: []int32{1, 1}},
		{LineNo: 3, Address: 2, Words: []string{"jumpifnotequal", "SPIN_1_top"}, Codes: []int32{22, 0}},
		{LineNo: 2, Address: 4, Words: []string{"loadval", "2"}, Codes: []int32{1, 2}},
		{LineNo: 3, Address: 6, Words: []string{"jumpifnotequal", "SPIN_2_top"}, Codes: []int32{22, 4}},
	}

	stmtEqual(t, expected, prog.Statements)
}

func TestAssemblerErrors(t *testing.T) {
	table := [](struct {
		Program string
		Err     error
		LineNo  int
	}){
		{Program: "bogus", Err: ErrInstructionInvalid, LineNo: 1},
		{Program: "loadval", Err: ErrOpcodeValueMissing, LineNo: 1},
		{Program: "incx 1", Err: ErrOpcodeExtraArgs, LineNo: 1},
		{Program: "end\nend\nloadval 1 2", Err: ErrOpcodeExtraArgs, LineNo: 3},
		{Program: ".word", Err: ErrOpcodeValueMissing, LineNo: 1},
		{Program: ".equ A 1\n.equ A 2", Err: ErrEquateDuplicate, LineNo: 2},
		{Program: ".equ A", Err: ErrEquateSyntax, LineNo: 1},
		{Program: "a: end\na: end", Err: ErrLabelDuplicate, LineNo: 2},
		{Program: "9a: end", Err: ErrLabelInvalid, LineNo: 1},
		{Program: ".org", Err: ErrOriginSyntax, LineNo: 1},
		{Program: ".org -5", Err: ErrOriginSyntax, LineNo: 1},
		{Program: ".org 5\nend\n.org 5\nend", Err: ErrOverlap, LineNo: 4},
		{Program: "end\njump nowhere\nend", Err: ErrLabelMissing("nowhere"), LineNo: 2},
		{Program: "loadval 0x1ffffffff", Err: ErrParseNumber("0x1ffffffff"), LineNo: 1},
		{Program: "loadval $(1 << 40)", Err: ErrParseExpression("1 << 40"), LineNo: 1},
		{Program: ".macro X\n.macro Y", Err: ErrMacroNesting, LineNo: 2},
		{Program: ".endm", Err: ErrMacroLonelyEndm, LineNo: 1},
		{Program: ".macro X\nend", Err: ErrMacroLonely, LineNo: 2},
		{Program: ".macro X\n.endm\n.macro X\n.endm", Err: ErrMacroDuplicate, LineNo: 3},
		{Program: ".macro X a\n.endm\nX", Err: ErrMacroSyntax, LineNo: 3},
		{Program: ".macro X\nbogus\n.endm\nend\nX", Err: ErrInstructionInvalid, LineNo: 5},
	}

	for _, entry := range table {
		assert := assert.New(t)

		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.Program))
		assert.ErrorIs(err, entry.Err, entry.Program)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.Program) {
			assert.Equal(entry.LineNo, syntax.LineNo, entry.Program)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("end\nloadval $(1 // 0)"))
	assert.Error(err)

	var syntax *ErrSyntax
	if assert.True(errors.As(err, &syntax)) {
		assert.Equal(2, syntax.LineNo)
	}
}

func TestAssemblerRun(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := parse(t, asm,
		"        loadval 5",
		"        copytox",
		"        loadval 0",
		"loop:   addx",
		"        decx",
		"        push",
		"        copyfromx",
		"        jumpifequal done",
		"        pop",
		"        jump loop",
		"done:   pop",
		"        put PORT_INTEGER",
		"        end",
	)

	cpu, tb := newTestCpu(DefaultLayout())
	for address, code := range prog.Image().All() {
		tb.cells[address] = code
	}

	var out ports
	cpu.Output = &out

	err := cpu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(ports{{1, 15}}, out)
	assert.Equal(int32(1000), cpu.SP)
}
