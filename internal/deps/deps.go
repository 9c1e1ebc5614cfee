// Package deps checks for the Python toolchain exercises need and offers to
// install pytest when it is missing.
package deps

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/runner"
)

// Constants for the Ensure interactive mode parameter.
const (
	// Interactive enables prompts (ask the user to install pytest).
	Interactive = true
	// NonInteractive disables prompts (return an error if pytest is missing).
	NonInteractive = false
)

// PromptInstallPytest is the question asked before installing pytest.
const PromptInstallPytest = "pytest is required but not found. Would you like to install it?"

func errPythonNotInstalled() error {
	return errors.Environment("Python is not installed or not in PATH. Please install Python 3.6+.")
}

func errPytestNotInstalled(python string) error {
	return errors.Environmentf("pytest is not installed. Install it with: %s -m pip install pytest", python)
}

func errPytestRequired() error {
	return errors.Environment("pytest is required to run exercise tests")
}

func errInstallPytest(code int, err error) error {
	if err != nil {
		return errors.Wrap(err, "failed to install pytest")
	}
	return errors.Environmentf("failed to install pytest (exit code: %d)", code)
}

// PythonStatus represents the interpreter installation status.
type PythonStatus struct {
	Installed bool
	Version   string
	Path      string
}

// Manager runs dependency checks through an executor.
type Manager struct {
	Python   string
	Executor runner.Executor
	Out      io.Writer         // install output; defaults to os.Stdout
	Confirm  func(string) bool // asks a yes/no question in interactive mode
}

func (m *Manager) executor() runner.Executor {
	if m.Executor == nil {
		return runner.ProcessExecutor{}
	}
	return m.Executor
}

func (m *Manager) run(ctx context.Context, out io.Writer, args ...string) (int, error) {
	dir, _ := os.Getwd()
	return m.executor().Execute(ctx, runner.Invocation{
		Dir:    dir,
		Name:   m.Python,
		Args:   args,
		Output: out,
	})
}

// CheckPython runs "<python> --version".
func (m *Manager) CheckPython(ctx context.Context) PythonStatus {
	var buf bytes.Buffer
	code, err := m.run(ctx, &buf, "--version")
	if err != nil || code != 0 {
		return PythonStatus{Installed: false}
	}

	// Output is like "Python 3.12.1"
	version := strings.TrimSpace(buf.String())
	if parts := strings.Fields(version); len(parts) > 1 {
		version = parts[1]
	}

	status := PythonStatus{Installed: true, Version: version}
	if path, err := exec.LookPath(m.Python); err == nil {
		status.Path = path
	}
	return status
}

// CheckPytest reports whether pytest can be imported.
func (m *Manager) CheckPytest(ctx context.Context) bool {
	code, err := m.run(ctx, io.Discard, "-c", "import pytest")
	return err == nil && code == 0
}

// InstallPytest runs "<python> -m pip install pytest", streaming its output.
func (m *Manager) InstallPytest(ctx context.Context) error {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	io.WriteString(out, "Installing pytest...\n")

	code, err := m.run(ctx, out, "-m", "pip", "install", "pytest")
	if err != nil || code != 0 {
		return errInstallPytest(code, err)
	}
	io.WriteString(out, "pytest installed successfully.\n")
	return nil
}

// Ensure checks python and pytest, offering to install pytest in
// interactive mode. Returns nil if both are available.
func (m *Manager) Ensure(ctx context.Context, interactive bool) error {
	if !m.CheckPython(ctx).Installed {
		return errPythonNotInstalled()
	}
	if m.CheckPytest(ctx) {
		return nil
	}

	if !interactive || m.Confirm == nil {
		return errPytestNotInstalled(m.Python)
	}
	if !m.Confirm(PromptInstallPytest) {
		return errPytestRequired()
	}
	if err := m.InstallPytest(ctx); err != nil {
		return err
	}
	if !m.CheckPytest(ctx) {
		return errPytestNotInstalled(m.Python)
	}
	return nil
}
