package bf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// how often Run polls its context
const cancelCheckInterval = 1024

// Stats summarizes a finished (or aborted) run
type Stats struct {
	Steps        int
	BytesRead    int
	BytesWritten int
	MaxLoopDepth int
	Cursor       int
}

// Executor runs one Program against one State
type Executor struct {
	prog  Program
	state *State
	opts  Options
	ctx   context.Context
	in    io.ByteReader
	out   io.Writer
	log   *slog.Logger
	stats Stats
}

// NewExecutor creates an Executor with a fresh zeroed tape
func NewExecutor(prog Program, opts Options) *Executor {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	e := &Executor{
		prog:  prog,
		state: &State{},
		opts:  opts,
		ctx:   context.Background(),
		out:   opts.Output,
		log:   opts.Logger,
	}
	if opts.Input != nil {
		e.in = newByteReader(opts.Input)
	}
	return e
}

// State returns the machine state
func (e *Executor) State() *State {
	return e.state
}

// Stats returns counters for the run so far
func (e *Executor) Stats() Stats {
	s := e.stats
	s.Cursor = e.state.Cursor
	return s
}

// Run steps the program until the instruction pointer passes its end.
// Cancelling ctx also interrupts an input read that is blocked.
func (e *Executor) Run(ctx context.Context) (err error) {
	e.ctx = ctx
	defer func() { e.ctx = context.Background() }()

	ip := 0
	for ip < len(e.prog) {
		if e.stats.Steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if e.opts.MaxSteps > 0 && e.stats.Steps >= e.opts.MaxSteps {
			return e.fail(ip, ErrStepLimit)
		}
		ip, err = e.Step(ip)
		if err != nil {
			return err
		}
	}
	return nil
}

// Step executes the instruction at ip and returns the next instruction pointer
func (e *Executor) Step(ip int) (int, error) {
	s := e.state
	e.stats.Steps++

	switch e.prog[ip] {
	case MoveRight:
		if s.Cursor == TapeSize-1 {
			if e.opts.Cursor != CursorWrap {
				return ip, e.fail(ip, ErrCursorOutOfBounds)
			}
			s.Cursor = 0
		} else {
			s.Cursor++
		}
	case MoveLeft:
		if s.Cursor == 0 {
			if e.opts.Cursor != CursorWrap {
				return ip, e.fail(ip, ErrCursorOutOfBounds)
			}
			s.Cursor = TapeSize - 1
		} else {
			s.Cursor--
		}
	case Increment:
		s.Tape[s.Cursor]++
	case Decrement:
		s.Tape[s.Cursor]--
	case Output:
		if err := e.write(s.Tape[s.Cursor]); err != nil {
			return ip, e.fail(ip, err)
		}
	case Input:
		if err := e.read(); err != nil {
			return ip, e.fail(ip, err)
		}
	case LoopStart:
		if s.Tape[s.Cursor] != 0 {
			s.push(ip)
			e.stats.MaxLoopDepth = max(e.stats.MaxLoopDepth, len(s.LoopStack))
			return ip + 1, nil
		}
		end, err := e.matchLoopEnd(ip)
		if err != nil {
			return ip, e.fail(ip, err)
		}
		e.log.Debug("skip loop", "from", ip, "to", end+1)
		return end + 1, nil
	case LoopEnd:
		start, ok := s.pop()
		if !ok {
			return ip, e.fail(ip, ErrUnmatchedLoopEnd)
		}
		return start, nil
	default:
		panic(fmt.Sprintf("corrupt program: %v at %d", e.prog[ip], ip))
	}
	return ip + 1, nil
}

// matchLoopEnd scans forward from the loop start at ip for its depth-balanced loop end
func (e *Executor) matchLoopEnd(ip int) (int, error) {
	depth := 0
	for i := ip + 1; i < len(e.prog); i++ {
		switch e.prog[i] {
		case LoopStart:
			depth++
		case LoopEnd:
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return 0, ErrUnmatchedLoopStart
}

// write hands each cell to the sink as soon as it is output
func (e *Executor) write(b byte) error {
	var buf [utf8.UTFMax]byte
	p := buf[:1]
	p[0] = b
	if e.opts.Encoding != EncodingRaw && b >= utf8.RuneSelf {
		p = utf8.AppendRune(buf[:0], rune(b))
	}
	if _, err := e.out.Write(p); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	e.stats.BytesWritten++
	return nil
}

func (e *Executor) read() error {
	var (
		b   byte
		err error = io.EOF
	)
	if e.in != nil {
		b, err = e.readByte()
	}
	switch {
	case err == nil:
		e.state.Tape[e.state.Cursor] = b
		e.stats.BytesRead++
		return nil
	case errors.Is(err, io.EOF):
		switch e.opts.EOF {
		case EOFZero:
			e.state.Tape[e.state.Cursor] = 0
			return nil
		case EOFKeep:
			return nil
		default:
			return ErrInputExhausted
		}
	case e.ctx.Err() != nil && errors.Is(err, e.ctx.Err()):
		return err
	default:
		return fmt.Errorf("failed to read input: %w", err)
	}
}

type readResult struct {
	b   byte
	err error
}

// readByte blocks for the next input byte or until the run is cancelled
func (e *Executor) readByte() (byte, error) {
	done := e.ctx.Done()
	if done == nil {
		return e.in.ReadByte()
	}

	ch := make(chan readResult, 1)
	go func() {
		b, err := e.in.ReadByte()
		ch <- readResult{b: b, err: err}
	}()

	select {
	case r := <-ch:
		return r.b, r.err
	case <-done:
		// the reader goroutine is abandoned; the run is over
		return 0, e.ctx.Err()
	}
}

func (e *Executor) fail(ip int, err error) error {
	return &RuntimeError{
		IP:     ip,
		Op:     e.prog[ip],
		Cursor: e.state.Cursor,
		Err:    err,
	}
}

// byteReader reads exactly one byte per call so no input is consumed ahead
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func newByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}

func (b *byteReader) ReadByte() (byte, error) {
	for {
		n, err := b.r.Read(b.buf[:])
		if n == 1 {
			return b.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
