package mocks

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/codedrills/internal/runner"
)

func TestExecutor_Defaults(t *testing.T) {
	t.Parallel()
	m := NewExecutor()
	var buf bytes.Buffer

	code, err := m.Execute(context.Background(), runner.Invocation{Name: "python3", Output: &buf})
	if code != 0 || err != nil {
		t.Errorf("Execute() = %d, %v; want 0, nil", code, err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestExecutor_Configured(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("boom")
	m := NewExecutor().WithOutput("1 failed").WithExitCode(1).WithError(wantErr)
	var buf bytes.Buffer

	code, err := m.Execute(context.Background(), runner.Invocation{Output: &buf})
	if code != 1 || !errors.Is(err, wantErr) {
		t.Errorf("Execute() = %d, %v; want 1, boom", code, err)
	}
	if buf.String() != "1 failed" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestExecutor_ExecFunc(t *testing.T) {
	t.Parallel()
	m := NewExecutor().WithExecFunc(func(_ context.Context, inv runner.Invocation) (int, error) {
		return len(inv.Args), nil
	})
	code, _ := m.Execute(context.Background(), runner.Invocation{Args: []string{"a", "b"}})
	if code != 2 {
		t.Errorf("Execute() = %d, want 2", code)
	}
}

func TestExecutor_Tracking(t *testing.T) {
	t.Parallel()
	m := NewExecutor()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Execute(context.Background(), runner.Invocation{Dir: "d", Output: &bytes.Buffer{}})
		}()
	}
	wg.Wait()

	if m.ExecCount() != 10 {
		t.Errorf("ExecCount() = %d, want 10", m.ExecCount())
	}
	if len(m.Calls()) != 10 {
		t.Errorf("Calls() length = %d, want 10", len(m.Calls()))
	}

	m.Reset()
	if m.ExecCount() != 0 || len(m.Calls()) != 0 {
		t.Error("Reset() did not clear tracking")
	}
}
