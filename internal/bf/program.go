package bf

import "fmt"

// TranslateMode selects how characters outside the instruction set are handled
type TranslateMode string

const (
	// Strict rejects any unrecognized character
	Strict TranslateMode = "strict"
	// Permissive skips unrecognized characters as comments
	Permissive TranslateMode = "permissive"
)

// ParseTranslateMode checks if the given mode string is valid
func ParseTranslateMode(s string) (TranslateMode, error) {
	switch TranslateMode(s) {
	case Strict, "":
		return Strict, nil
	case Permissive:
		return Permissive, nil
	default:
		return "", fmt.Errorf("unknown translate mode: %q (valid options: strict, permissive)", s)
	}
}

// Program is an immutable, ordered instruction sequence
type Program []Instruction

// Translate converts source text into a Program
func Translate(src []byte, mode TranslateMode) (Program, error) {
	prog := make(Program, 0, len(src))
	for i, c := range src {
		in, ok := Decode(c)
		if !ok {
			if mode == Permissive {
				continue
			}
			return nil, &InvalidInstructionError{Char: c, Offset: i}
		}
		prog = append(prog, in)
	}
	return prog, nil
}

// TranslateString is Translate for string sources
func TranslateString(src string, mode TranslateMode) (Program, error) {
	return Translate([]byte(src), mode)
}

// TrimTrailingNewline drops one trailing "\n" or "\r\n" added by editors
func TrimTrailingNewline(src []byte) []byte {
	n := len(src)
	if n > 0 && src[n-1] == '\n' {
		n--
		if n > 0 && src[n-1] == '\r' {
			n--
		}
	}
	return src[:n]
}

func (p Program) String() string {
	buf := make([]byte, len(p))
	for i, in := range p {
		buf[i] = in.Symbol()
	}
	return string(buf)
}

// Validate reports the first unbalanced loop marker without running the program
func (p Program) Validate() error {
	var open []int
	for ip, in := range p {
		switch in {
		case LoopStart:
			open = append(open, ip)
		case LoopEnd:
			if len(open) == 0 {
				return fmt.Errorf("%w at instruction %d", ErrUnmatchedLoopEnd, ip)
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return fmt.Errorf("%w at instruction %d", ErrUnmatchedLoopStart, open[0])
	}
	return nil
}
