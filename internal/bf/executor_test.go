package bf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func mustTranslate(t *testing.T, src string) Program {
	t.Helper()
	prog, err := TranslateString(src, Strict)
	if err != nil {
		t.Fatalf("TranslateString(%q) error = %v", src, err)
	}
	return prog
}

func run(t *testing.T, src string, opts Options) (*Executor, error) {
	t.Helper()
	e := NewExecutor(mustTranslate(t, src), opts)
	return e, e.Run(context.Background())
}

// noReads fails the test if the program asks for input
type noReads struct{ t *testing.T }

func (r noReads) Read(p []byte) (int, error) {
	r.t.Error("unexpected input read")
	return 0, io.EOF
}

func TestRunEndToEnd(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input io.Reader
		want  []byte
	}{
		{
			name: "output without input",
			src:  "++.",
			want: []byte{2},
		},
		{
			name:  "echo one byte",
			src:   ",.",
			input: strings.NewReader("A"),
			want:  []byte{65},
		},
		{
			name: "hello",
			src:  "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.",
			want: []byte("Hello World!\n"),
		},
		{
			name: "empty program",
			src:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if input == nil {
				input = noReads{t}
			}
			var out bytes.Buffer
			if _, err := run(t, tt.src, Options{Input: input, Output: &out}); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !bytes.Equal(out.Bytes(), tt.want) {
				t.Errorf("output = %v, want %v", out.Bytes(), tt.want)
			}
		})
	}
}

func TestRunMultiply(t *testing.T) {
	e, err := run(t, "++[>+++<-]", Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	s := e.State()
	if s.Tape[0] != 0 {
		t.Errorf("tape[0] = %d, want 0", s.Tape[0])
	}
	if s.Tape[1] != 6 {
		t.Errorf("tape[1] = %d, want 6", s.Tape[1])
	}
	if s.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", s.Cursor)
	}
	if len(s.LoopStack) != 0 {
		t.Errorf("loop stack = %v, want empty", s.LoopStack)
	}
}

func TestCellWraps(t *testing.T) {
	tests := []struct {
		name  string
		start byte
		src   string
		want  byte
	}{
		{name: "inc then dec", start: 7, src: "+-", want: 7},
		{name: "dec then inc", start: 7, src: "-+", want: 7},
		{name: "255 inc wraps to 0", start: 255, src: "+", want: 0},
		{name: "0 dec wraps to 255", start: 0, src: "-", want: 255},
		{name: "round trip across 255", start: 255, src: "+-", want: 255},
		{name: "round trip across 0", start: 0, src: "-+", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExecutor(mustTranslate(t, tt.src), Options{})
			e.State().Tape[0] = tt.start
			if err := e.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := e.State().Cell(); got != tt.want {
				t.Errorf("cell = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoopBodyCount(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantOut    int
		wantCursor int
	}{
		{name: "non-zero runs body once", src: "+[.>]", wantOut: 1, wantCursor: 1},
		{name: "zero skips body", src: "[.>]", wantOut: 0, wantCursor: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			e, err := run(t, tt.src, Options{Output: &out})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out.Len() != tt.wantOut {
				t.Errorf("output bytes = %d, want %d", out.Len(), tt.wantOut)
			}
			if e.State().Cursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", e.State().Cursor, tt.wantCursor)
			}
		})
	}
}

func TestSkipForwardIsDepthBalanced(t *testing.T) {
	// 0:[ 1:[ 2:- 3:] 4:+ 5:] 6:+
	e := NewExecutor(mustTranslate(t, "[[-]+]+"), Options{})

	end, err := e.matchLoopEnd(0)
	if err != nil {
		t.Fatalf("matchLoopEnd() error = %v", err)
	}
	if end != 5 {
		t.Errorf("matchLoopEnd(0) = %d, want 5", end)
	}

	next, err := e.Step(0)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if next != 6 {
		t.Errorf("Step(0) = %d, want 6", next)
	}
	if len(e.State().LoopStack) != 0 {
		t.Errorf("skip pushed onto loop stack: %v", e.State().LoopStack)
	}

	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if e.State().Cell() != 1 {
		t.Errorf("cell = %d, want 1", e.State().Cell())
	}
}

func TestLoopEndJumpsBackToLoopStart(t *testing.T) {
	e := NewExecutor(mustTranslate(t, "+[-]"), Options{})
	ip := 0
	for _, want := range []int{1, 2, 3, 1} {
		var err error
		ip, err = e.Step(ip)
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if ip != want {
			t.Fatalf("next ip = %d, want %d", ip, want)
		}
	}
	// cell is now zero, so the loop start skips past the end
	ip, err := e.Step(ip)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if ip != 4 {
		t.Errorf("next ip = %d, want 4", ip)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		opts   Options
		want   error
		wantIP int
	}{
		{name: "loop end with empty stack", src: "]", want: ErrUnmatchedLoopEnd, wantIP: 0},
		{name: "loop end after ops", src: "++]", want: ErrUnmatchedLoopEnd, wantIP: 2},
		{name: "unclosed skipped loop", src: "[", want: ErrUnmatchedLoopStart, wantIP: 0},
		{name: "unclosed nested loop", src: "+>[[]", want: ErrUnmatchedLoopStart, wantIP: 2},
		{name: "move left at 0", src: "<", want: ErrCursorOutOfBounds, wantIP: 0},
		{name: "input exhausted", src: "+,", opts: Options{Input: strings.NewReader("")}, want: ErrInputExhausted, wantIP: 1},
		{name: "no input source", src: ",", want: ErrInputExhausted, wantIP: 0},
		{name: "step limit", src: "+[]", opts: Options{MaxSteps: 100}, want: ErrStepLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() error = %v, want %v", err, tt.want)
			}
			var rerr *RuntimeError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected *RuntimeError, got %T", err)
			}
			if tt.want != ErrStepLimit && rerr.IP != tt.wantIP {
				t.Errorf("IP = %d, want %d", rerr.IP, tt.wantIP)
			}
		})
	}
}

func TestCursorBounds(t *testing.T) {
	right := strings.Repeat(">", TapeSize-1)

	t.Run("last cell is reachable", func(t *testing.T) {
		e, err := run(t, right, Options{})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if e.State().Cursor != TapeSize-1 {
			t.Errorf("cursor = %d, want %d", e.State().Cursor, TapeSize-1)
		}
	})

	t.Run("fail past the end", func(t *testing.T) {
		_, err := run(t, right+">", Options{})
		if !errors.Is(err, ErrCursorOutOfBounds) {
			t.Errorf("Run() error = %v, want ErrCursorOutOfBounds", err)
		}
	})

	t.Run("wrap past the end", func(t *testing.T) {
		e, err := run(t, right+">+", Options{Cursor: CursorWrap})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if e.State().Cursor != 0 || e.State().Tape[0] != 1 {
			t.Errorf("cursor = %d, tape[0] = %d; want 0, 1", e.State().Cursor, e.State().Tape[0])
		}
	})

	t.Run("wrap before the start", func(t *testing.T) {
		e, err := run(t, "<-", Options{Cursor: CursorWrap})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if e.State().Cursor != TapeSize-1 {
			t.Errorf("cursor = %d, want %d", e.State().Cursor, TapeSize-1)
		}
		if e.State().Tape[TapeSize-1] != 255 {
			t.Errorf("last cell = %d, want 255", e.State().Tape[TapeSize-1])
		}
	})
}

func TestEOFPolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  EOFPolicy
		want    byte
		wantErr error
	}{
		{name: "fail", policy: EOFFail, wantErr: ErrInputExhausted},
		{name: "zero", policy: EOFZero, want: 0},
		{name: "keep", policy: EOFKeep, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := run(t, "+++,", Options{Input: strings.NewReader(""), EOF: tt.policy})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if e.State().Cell() != tt.want {
				t.Errorf("cell = %d, want %d", e.State().Cell(), tt.want)
			}
		})
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParseEOFPolicy("zero"); err != nil || p != EOFZero {
		t.Errorf("ParseEOFPolicy(zero) = %q, %v", p, err)
	}
	if _, err := ParseEOFPolicy("eof"); err == nil {
		t.Error("expected error for unknown eof policy")
	}
	if p, err := ParseCursorPolicy("wrap"); err != nil || p != CursorWrap {
		t.Errorf("ParseCursorPolicy(wrap) = %q, %v", p, err)
	}
	if _, err := ParseCursorPolicy("clamp"); err == nil {
		t.Error("expected error for unknown cursor policy")
	}
}

// plainReader hides any ReadByte method of the wrapped reader
type plainReader struct{ r io.Reader }

func (p plainReader) Read(b []byte) (int, error) { return p.r.Read(b) }

func TestInputReadsOneBytePerInstruction(t *testing.T) {
	src := strings.NewReader("xyz")
	var out bytes.Buffer
	if _, err := run(t, ",.", Options{Input: plainReader{src}, Output: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "x" {
		t.Errorf("output = %q, want %q", out.String(), "x")
	}
	if src.Len() != 2 {
		t.Errorf("unread input = %d bytes, want 2", src.Len())
	}
}

func TestOutputEncoding(t *testing.T) {
	src := strings.Repeat("+", 200) + "."
	tests := []struct {
		name     string
		encoding Encoding
		want     []byte
	}{
		{name: "codepoint", encoding: EncodingCodepoint, want: []byte("È")},
		{name: "default is codepoint", want: []byte{0xc3, 0x88}},
		{name: "raw", encoding: EncodingRaw, want: []byte{200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if _, err := run(t, src, Options{Output: &out, Encoding: tt.encoding}); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !bytes.Equal(out.Bytes(), tt.want) {
				t.Errorf("output = %v, want %v", out.Bytes(), tt.want)
			}
		})
	}
}

func TestOutputWrittenBeforeInput(t *testing.T) {
	var out bytes.Buffer
	in := readFunc(func(p []byte) (int, error) {
		if out.String() != "?" {
			t.Errorf("output before read = %q, want %q", out.String(), "?")
		}
		p[0] = 'a'
		return 1, nil
	})
	prompt := strings.Repeat("+", '?') + ".,"
	if _, err := run(t, prompt, Options{Input: in, Output: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

type readFunc func([]byte) (int, error)

func (f readFunc) Read(p []byte) (int, error) { return f(p) }

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExecutor(mustTranslate(t, "+[]"), Options{})
	if err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// chanWriter forwards every write to a channel
type chanWriter chan []byte

func (w chanWriter) Write(p []byte) (int, error) {
	w <- append([]byte(nil), p...)
	return len(p), nil
}

func TestOutputReachesSinkWhileRunning(t *testing.T) {
	sink := make(chanWriter, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	e := NewExecutor(mustTranslate(t, "++.+[]"), Options{Output: sink})
	go func() { done <- e.Run(ctx) }()

	select {
	case got := <-sink:
		if !bytes.Equal(got, []byte{2}) {
			t.Errorf("sink got %v, want [2]", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("output byte not written while the program is running")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunCancelledDuringInput(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	e := NewExecutor(mustTranslate(t, ","), Options{Input: r})
	go func() { done <- e.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
		var rerr *RuntimeError
		if !errors.As(err, &rerr) || rerr.Op != Input {
			t.Errorf("expected *RuntimeError at the input instruction, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run still blocked on input after cancel")
	}
}

func TestStats(t *testing.T) {
	var out bytes.Buffer
	e, err := run(t, ",+[[-]].>", Options{Input: strings.NewReader("\x01"), Output: &out})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := e.Stats()
	if got.BytesRead != 1 || got.BytesWritten != 1 {
		t.Errorf("read/written = %d/%d, want 1/1", got.BytesRead, got.BytesWritten)
	}
	if got.MaxLoopDepth != 2 {
		t.Errorf("MaxLoopDepth = %d, want 2", got.MaxLoopDepth)
	}
	if got.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", got.Cursor)
	}
	if got.Steps == 0 {
		t.Error("expected Steps > 0")
	}
}
