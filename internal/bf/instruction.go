package bf

import "fmt"

// Instruction is one of the eight primitive tape operations
type Instruction uint8

const (
	MoveRight Instruction = iota + 1
	MoveLeft
	Increment
	Decrement
	Output
	Input
	LoopStart
	LoopEnd
)

var symbols = [...]byte{
	MoveRight: '>',
	MoveLeft:  '<',
	Increment: '+',
	Decrement: '-',
	Output:    '.',
	Input:     ',',
	LoopStart: '[',
	LoopEnd:   ']',
}

var names = [...]string{
	MoveRight: "move-right",
	MoveLeft:  "move-left",
	Increment: "increment",
	Decrement: "decrement",
	Output:    "output",
	Input:     "input",
	LoopStart: "loop-start",
	LoopEnd:   "loop-end",
}

// Decode maps a source character to its instruction
func Decode(c byte) (Instruction, bool) {
	switch c {
	case '>':
		return MoveRight, true
	case '<':
		return MoveLeft, true
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '.':
		return Output, true
	case ',':
		return Input, true
	case '[':
		return LoopStart, true
	case ']':
		return LoopEnd, true
	}
	return 0, false
}

// Symbol returns the source character for the instruction
func (in Instruction) Symbol() byte {
	if !in.valid() {
		return '?'
	}
	return symbols[in]
}

func (in Instruction) String() string {
	if !in.valid() {
		return fmt.Sprintf("Instruction(%d)", uint8(in))
	}
	return names[in]
}

func (in Instruction) valid() bool {
	return in >= MoveRight && in <= LoopEnd
}
