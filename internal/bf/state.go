package bf

// TapeSize is the number of cells on the tape
const TapeSize = 30000

// State is the mutable machine state owned by one run
type State struct {
	Tape      [TapeSize]byte
	Cursor    int
	LoopStack []int
}

// Cell returns the value under the cursor
func (s *State) Cell() byte {
	return s.Tape[s.Cursor]
}

// Window returns the cells in [from, to) clamped to the tape
func (s *State) Window(from, to int) []byte {
	from = max(from, 0)
	to = min(to, TapeSize)
	if from >= to {
		return nil
	}
	return s.Tape[from:to]
}

func (s *State) push(ip int) {
	s.LoopStack = append(s.LoopStack, ip)
}

func (s *State) pop() (int, bool) {
	n := len(s.LoopStack)
	if n == 0 {
		return 0, false
	}
	ip := s.LoopStack[n-1]
	s.LoopStack = s.LoopStack[:n-1]
	return ip, true
}
