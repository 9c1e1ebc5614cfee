// Package mocks provides shared test doubles for codedrills packages.
package mocks

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/AndreyAkinshin/codedrills/internal/runner"
)

// Executor implements runner.Executor for testing.
// Use NewExecutor() to create instances with a fluent builder API.
type Executor struct {
	output   string
	exitCode int
	err      error

	// ExecFunc is called by Execute. If nil, Execute writes the configured
	// output and returns the configured exit code and error.
	ExecFunc func(ctx context.Context, inv runner.Invocation) (int, error)

	// Execution tracking (thread-safe)
	execCount int32
	mu        sync.Mutex
	calls     []runner.Invocation
}

// NewExecutor creates a mock executor that succeeds with no output.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithOutput sets the combined output written on every run.
func (m *Executor) WithOutput(output string) *Executor {
	m.output = output
	return m
}

// WithExitCode sets the exit code returned on every run.
func (m *Executor) WithExitCode(code int) *Executor {
	m.exitCode = code
	return m
}

// WithError sets the error returned on every run.
func (m *Executor) WithError(err error) *Executor {
	m.err = err
	return m
}

// WithExecFunc sets the function called by Execute.
func (m *Executor) WithExecFunc(fn func(ctx context.Context, inv runner.Invocation) (int, error)) *Executor {
	m.ExecFunc = fn
	return m
}

// Execute records the invocation and runs the configured behavior.
func (m *Executor) Execute(ctx context.Context, inv runner.Invocation) (int, error) {
	atomic.AddInt32(&m.execCount, 1)
	m.mu.Lock()
	m.calls = append(m.calls, inv)
	m.mu.Unlock()

	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, inv)
	}
	if m.output != "" {
		if _, err := io.WriteString(inv.Output, m.output); err != nil {
			return -1, err
		}
	}
	return m.exitCode, m.err
}

// ExecCount returns the number of times Execute was called.
func (m *Executor) ExecCount() int32 {
	return atomic.LoadInt32(&m.execCount)
}

// Calls returns the recorded invocations in call order.
func (m *Executor) Calls() []runner.Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]runner.Invocation(nil), m.calls...)
}

// Reset clears execution tracking.
func (m *Executor) Reset() {
	atomic.StoreInt32(&m.execCount, 0)
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}
