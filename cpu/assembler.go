// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the machine's instruction set.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of assembled statements.

	predefine map[string]string   // Predefines
	Label     map[string]int32    // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin    int32         // Address of the next assembled word.
	used      map[int32]int // Map of assembled addresses to line numbers.
	expansion int           // Count of macro expansions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reLabel     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
)

// mnemonic returns the opcode named by word.
func mnemonic(word string) (op Op, ok bool) {
	for candidate := range Ops() {
		if candidate.String() == word {
			op = candidate
			ok = true
			return
		}
	}

	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int32(v64)
	return
}

// operand resolves a word to a value, or to a label that is not yet
// defined.
func (asm *Assembler) operand(word string) (value int32, label string, err error) {
	value, err = asm.valueOf(word)
	if err == nil || !reLabel.MatchString(word) {
		return
	}

	err = nil
	address, ok := asm.Label[word]
	if ok {
		value = address
		return
	}

	label = word
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(int(address))
	}
	for key, str := range asm.Equate {
		var value32 int32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || int64(int32(st_int64)) != st_int64 {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// stripComment removes a ';' comment, unless the ';' is quoted.
func stripComment(text string) string {
	quoted := false
	for n, c := range text {
		switch c {
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return text[:n]
			}
		}
	}

	return text
}

// parseLine parses a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if utf8.RuneCountInString(str) != 1 {
			return word
		}
		ch, _ := utf8.DecodeRuneInString(str)
		return fmt.Sprintf("%d", ch)
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 || !reLabel.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.origin
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' makes labels local to this expansion.
		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Statement = asm.Statement[:0]
	asm.origin = 0
	asm.expansion = 0
	asm.used = make(map[int32]int)
	asm.Label = make(map[string]int32)
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Clone(sysEquate)
	maps.Insert(asm.Equate, DefaultLayout().Defines())
	maps.Insert(asm.Equate, maps.All(asm.predefine))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 || !reLabel.MatchString(words[1]) {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of forward labels.
	for n := range asm.Statement {
		stmt := &asm.Statement[n]

		for index, label := range stmt.Link {
			address, ok := asm.Label[label]
			if !ok {
				lineno = stmt.LineNo
				line = strings.Join(stmt.Words, " ")
				err = ErrLabelMissing(label)
				return
			}
			stmt.Codes[index] = address
		}
		stmt.Link = nil
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// addOperand appends an operand word to a statement.
func (asm *Assembler) addOperand(stmt *Statement, word string) (err error) {
	value, label, err := asm.operand(word)
	if err != nil {
		return
	}

	if len(label) != 0 {
		if stmt.Link == nil {
			stmt.Link = make(map[int]string)
		}
		stmt.Link[len(stmt.Codes)] = label
	}

	stmt.Codes = append(stmt.Codes, value)
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	stmt := Statement{LineNo: lineno, Address: asm.origin, Words: words}

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOriginSyntax
			return
		}
		var origin int32
		origin, err = asm.valueOf(words[1])
		if err != nil || origin < 0 {
			err = ErrOriginSyntax
			return
		}
		asm.origin = origin
		return
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			err = asm.addOperand(&stmt, word)
			if err != nil {
				return
			}
		}
	default:
		op, ok := mnemonic(words[0])
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		args := words[1:]
		switch {
		case len(args) < op.Operands():
			err = ErrOpcodeValueMissing
			return
		case len(args) > op.Operands():
			err = ErrOpcodeExtraArgs
			return
		}
		stmt.Codes = append(stmt.Codes, int32(op))
		for _, word := range args {
			err = asm.addOperand(&stmt, word)
			if err != nil {
				return
			}
		}
	}

	for n := range stmt.Codes {
		address := stmt.Address + int32(n)
		_, ok := asm.used[address]
		if ok {
			err = ErrOverlap
			return
		}
		asm.used[address] = lineno
	}

	asm.origin += int32(len(stmt.Codes))
	asm.Statement = append(asm.Statement, stmt)

	return
}
