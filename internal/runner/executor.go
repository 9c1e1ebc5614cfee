package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
)

// Invocation describes one child process.
type Invocation struct {
	Dir    string
	Name   string
	Args   []string
	Output io.Writer // receives combined stdout and stderr
}

// Executor starts a child process and waits for it to exit.
// A non-zero exit is reported through exitCode, not err; err is set only
// when the process could not be run or was killed.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (exitCode int, err error)
}

// waitDelay bounds how long Wait blocks on output pipes after a kill.
const waitDelay = 2 * time.Second

// ProcessExecutor runs invocations as real child processes.
type ProcessExecutor struct{}

// Execute runs inv and returns its exit code. Canceling ctx kills the process.
func (ProcessExecutor) Execute(ctx context.Context, inv Invocation) (int, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = os.Environ()
	cmd.Stdin = nil
	cmd.Stdout = inv.Output
	cmd.Stderr = inv.Output
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
