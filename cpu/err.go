package cpu

import (
	"errors"

	"github.com/ezrec/simpleos/translate"
)

var f = translate.From

var (
	// Engine errors
	ErrPrivilege      = errors.New(f("privilege violation"))
	ErrAddress        = errors.New(f("address out of range"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrBusMissing     = errors.New(f("no memory bus"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOriginSyntax       = errors.New(f(".org syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOverlap            = errors.New(f("address already assembled"))
)

// ErrLayout reports an inconsistent machine layout field.
type ErrLayout string

func (el ErrLayout) Error() string {
	return f("layout %v invalid", string(el))
}

// ErrAccess reports a rejected memory access.
type ErrAccess struct {
	Address int32
	Mode    Mode
	Err     error
}

func (err *ErrAccess) Error() string {
	return f("%v access to %d: %v", err.Mode, err.Address, err.Err)
}

func (err *ErrAccess) Unwrap() error {
	return err.Err
}

// ErrOpcode reports an instruction register value with no instruction.
type ErrOpcode struct {
	PC int32 // Address the opcode was fetched from.
	IR Op
}

func (eo ErrOpcode) Error() string {
	return f("bad opcode %d at %d", int32(eo.IR), eo.PC)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
