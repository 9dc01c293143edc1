package bf

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrUnmatchedLoopEnd   = errors.New("loop end without matching loop start")
	ErrUnmatchedLoopStart = errors.New("loop start without matching loop end")
	ErrCursorOutOfBounds  = errors.New("cursor out of bounds")
	ErrInputExhausted     = errors.New("input exhausted")
	ErrStepLimit          = errors.New("step limit exceeded")
)

// InvalidInstructionError reports a source character outside the instruction set
type InvalidInstructionError struct {
	Char   byte
	Offset int
}

func (e *InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid instruction %q at offset %d", rune(e.Char), e.Offset)
}

func (e *InvalidInstructionError) Unwrap() error {
	return ErrInvalidInstruction
}

// RuntimeError carries the machine position at which execution failed
type RuntimeError struct {
	IP     int
	Op     Instruction
	Cursor int
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%v (instruction %d %s, cursor %d)", e.Err, e.IP, e.Op, e.Cursor)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
