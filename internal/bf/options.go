package bf

import (
	"fmt"
	"io"
	"log/slog"
)

// CursorPolicy decides what happens when the cursor leaves the tape
type CursorPolicy string

const (
	// CursorFail stops the run with ErrCursorOutOfBounds
	CursorFail CursorPolicy = "fail"
	// CursorWrap treats the tape as circular
	CursorWrap CursorPolicy = "wrap"
)

// EOFPolicy decides what the input instruction does once input is exhausted
type EOFPolicy string

const (
	// EOFFail stops the run with ErrInputExhausted
	EOFFail EOFPolicy = "fail"
	// EOFZero stores 0 in the current cell
	EOFZero EOFPolicy = "zero"
	// EOFKeep leaves the current cell unchanged
	EOFKeep EOFPolicy = "keep"
)

// ParseEOFPolicy checks if the given policy string is valid
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	switch EOFPolicy(s) {
	case EOFFail, "":
		return EOFFail, nil
	case EOFZero:
		return EOFZero, nil
	case EOFKeep:
		return EOFKeep, nil
	default:
		return "", fmt.Errorf("unknown eof policy: %q (valid options: fail, zero, keep)", s)
	}
}

// ParseCursorPolicy checks if the given policy string is valid
func ParseCursorPolicy(s string) (CursorPolicy, error) {
	switch CursorPolicy(s) {
	case CursorFail, "":
		return CursorFail, nil
	case CursorWrap:
		return CursorWrap, nil
	default:
		return "", fmt.Errorf("unknown cursor policy: %q (valid options: fail, wrap)", s)
	}
}

// Encoding decides how output cells become bytes on the sink
type Encoding string

const (
	// EncodingCodepoint writes the cell as the Unicode code point of the same value
	EncodingCodepoint Encoding = "codepoint"
	// EncodingRaw writes the cell byte unchanged
	EncodingRaw Encoding = "raw"
)

// Options configures an Executor. The zero value fails fast on every policy
// decision and discards output.
type Options struct {
	Input    io.Reader
	Output   io.Writer
	Cursor   CursorPolicy
	EOF      EOFPolicy
	Encoding Encoding
	// MaxSteps bounds the number of executed instructions (0 = unlimited)
	MaxSteps int
	Logger   *slog.Logger
}
