package runner

import (
	"fmt"
	"io"
	"sync"
)

const clearScreen = "\033[H\033[2J"

// resetter is implemented by session sinks that can discard their content,
// such as an in-memory buffer backing a TUI pane.
type resetter interface {
	Reset()
}

// Session is the output channel that test runs write to. One session is
// reused for every run of a Runner.
type Session struct {
	mu   sync.Mutex
	w    io.Writer
	ansi bool
}

// NewSession creates a session writing to w. With ansi set, Clear emits a
// clear-screen sequence when w cannot be reset.
func NewSession(w io.Writer, ansi bool) *Session {
	return &Session{w: w, ansi: ansi}
}

// Write streams process output to the session.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Clear wipes previous run output.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.w.(resetter); ok {
		r.Reset()
		return
	}
	if s.ansi {
		io.WriteString(s.w, clearScreen)
	}
}

// Echo writes one line.
func (s *Session) Echo(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format+"\n", args...)
}

// Error writes one error line.
func (s *Session) Error(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "error: "+format+"\n", args...)
}
