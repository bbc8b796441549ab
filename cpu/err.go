package cpu

import (
	"errors"

	"github.com/nadil-athauda/i8080-core/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOpcodeInvalid     = errors.New(f("opcode invalid"))
	ErrOutOfBounds       = errors.New(f("address out of bounds"))
	ErrHalted            = errors.New(f("halted"))
	ErrInterruptRejected = errors.New(f("interrupt rejected"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOriginSyntax       = errors.New(f(".org syntax"))
	ErrOriginBackwards    = errors.New(f(".org moves backwards"))
	ErrDataSyntax         = errors.New(f("data directive syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOperandCount       = errors.New(f("wrong number of operands"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramOverflow    = errors.New(f("program exceeds address space"))
)

// ErrOpcode identifies the instruction that failed.
type ErrOpcode struct {
	Pc     uint16
	Opcode uint8
}

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%02x at 0x%04x", eo.Opcode, eo.Pc)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress reports a load that does not fit in the address space.
type ErrAddress struct {
	Offset int
	Length int
}

func (err ErrAddress) Error() string {
	return f("%d bytes at 0x%x exceed the address space", err.Length, err.Offset)
}

func (err ErrAddress) Unwrap() error {
	return ErrOutOfBounds
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
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

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
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
