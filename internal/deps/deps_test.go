package deps

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	drillerrors "github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/runner"
	"github.com/AndreyAkinshin/codedrills/internal/testing/mocks"
)

// fakeToolchain simulates python with optional pytest that becomes
// importable once "pip install pytest" runs.
type fakeToolchain struct {
	python      bool
	pytest      bool
	installFail bool
}

func (f *fakeToolchain) exec(_ context.Context, inv runner.Invocation) (int, error) {
	if !f.python {
		return -1, errors.New(`exec: "python3": executable file not found in $PATH`)
	}
	args := strings.Join(inv.Args, " ")
	switch args {
	case "--version":
		io.WriteString(inv.Output, "Python 3.12.1\n")
		return 0, nil
	case "-c import pytest":
		if f.pytest {
			return 0, nil
		}
		io.WriteString(inv.Output, "ModuleNotFoundError: No module named 'pytest'\n")
		return 1, nil
	case "-m pip install pytest":
		io.WriteString(inv.Output, "Collecting pytest\n")
		if f.installFail {
			return 1, nil
		}
		f.pytest = true
		return 0, nil
	}
	return 2, nil
}

func newManager(f *fakeToolchain, out io.Writer, confirm func(string) bool) (*Manager, *mocks.Executor) {
	exec := mocks.NewExecutor().WithExecFunc(f.exec)
	return &Manager{Python: "python3", Executor: exec, Out: out, Confirm: confirm}, exec
}

func TestCheckPython(t *testing.T) {
	t.Parallel()
	m, _ := newManager(&fakeToolchain{python: true}, io.Discard, nil)
	status := m.CheckPython(context.Background())
	if !status.Installed || status.Version != "3.12.1" {
		t.Errorf("CheckPython() = %+v, want installed 3.12.1", status)
	}

	m, _ = newManager(&fakeToolchain{}, io.Discard, nil)
	if m.CheckPython(context.Background()).Installed {
		t.Error("CheckPython() reported installed for missing interpreter")
	}
}

func TestCheckPytest(t *testing.T) {
	t.Parallel()
	m, exec := newManager(&fakeToolchain{python: true, pytest: true}, io.Discard, nil)
	if !m.CheckPytest(context.Background()) {
		t.Error("CheckPytest() = false, want true")
	}
	call := exec.Calls()[0]
	if call.Name != "python3" || strings.Join(call.Args, " ") != "-c import pytest" {
		t.Errorf("invocation = %s %v", call.Name, call.Args)
	}
}

func TestEnsure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		toolchain   fakeToolchain
		interactive bool
		answer      bool
		wantErr     string
		wantPrompt  bool
		wantInstall bool
	}{
		{
			name:      "all present",
			toolchain: fakeToolchain{python: true, pytest: true},
		},
		{
			name:      "python missing",
			toolchain: fakeToolchain{},
			wantErr:   "Python is not installed",
		},
		{
			name:      "pytest missing non-interactive",
			toolchain: fakeToolchain{python: true},
			wantErr:   "python3 -m pip install pytest",
		},
		{
			name:        "pytest missing declined",
			toolchain:   fakeToolchain{python: true},
			interactive: true,
			answer:      false,
			wantErr:     "pytest is required",
			wantPrompt:  true,
		},
		{
			name:        "pytest missing installed",
			toolchain:   fakeToolchain{python: true},
			interactive: true,
			answer:      true,
			wantPrompt:  true,
			wantInstall: true,
		},
		{
			name:        "pytest install fails",
			toolchain:   fakeToolchain{python: true, installFail: true},
			interactive: true,
			answer:      true,
			wantErr:     "failed to install pytest (exit code: 1)",
			wantPrompt:  true,
			wantInstall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var prompted string
			confirm := func(q string) bool {
				prompted = q
				return tt.answer
			}
			toolchain := tt.toolchain
			var out bytes.Buffer
			m, _ := newManager(&toolchain, &out, confirm)

			err := m.Ensure(context.Background(), tt.interactive)

			if tt.wantErr == "" && err != nil {
				t.Fatalf("Ensure() error = %v", err)
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Ensure() error = %v, want containing %q", err, tt.wantErr)
				}
				if drillerrors.GetExitCode(err) == drillerrors.ExitSuccess {
					t.Error("error maps to success exit code")
				}
			}
			if (prompted != "") != tt.wantPrompt {
				t.Errorf("prompted = %q, wantPrompt %v", prompted, tt.wantPrompt)
			}
			if tt.wantPrompt && prompted != PromptInstallPytest {
				t.Errorf("prompt = %q", prompted)
			}
			if got := strings.Contains(out.String(), "Collecting pytest"); got != tt.wantInstall {
				t.Errorf("install output streamed = %v, want %v", got, tt.wantInstall)
			}
		})
	}
}
