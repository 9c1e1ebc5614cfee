// Package runner runs an exercise's pytest suite as a supervised child
// process and turns the captured output into a test result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/paths"
	"github.com/AndreyAkinshin/codedrills/internal/testparser"
)

// DefaultTimeout bounds a single test run.
const DefaultTimeout = 120 * time.Second

// Messages reported in failed results.
const (
	MsgNoTestFiles = "No test files found"
	errPrefix      = "Error running tests: "
)

// Logger receives diagnostic messages.
type Logger interface {
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// Options configures a Runner. Zero values select defaults.
type Options struct {
	Python   string        // interpreter; defaults to paths.PythonCommand(GOOS)
	Args     []string      // extra pytest arguments
	Timeout  time.Duration // per-run timeout; negative disables it
	GOOS     string        // defaults to runtime.GOOS
	Executor Executor      // defaults to ProcessExecutor
	Output   io.Writer     // session sink; defaults to os.Stdout
	ANSI     bool          // session may emit clear-screen sequences
	Log      Logger
}

// Runner runs exercise tests.
type Runner struct {
	python   string
	args     []string
	timeout  time.Duration
	goos     string
	executor Executor
	parser   testparser.Parser
	out      io.Writer
	ansi     bool
	log      Logger

	sessionOnce sync.Once
	session     *Session
}

// New creates a runner.
func New(opts Options) *Runner {
	r := &Runner{
		python:   opts.Python,
		args:     opts.Args,
		timeout:  opts.Timeout,
		goos:     opts.GOOS,
		executor: opts.Executor,
		parser:   &testparser.PytestParser{},
		out:      opts.Output,
		ansi:     opts.ANSI,
		log:      opts.Log,
	}
	if r.goos == "" {
		r.goos = runtime.GOOS
	}
	if r.python == "" {
		r.python = paths.PythonCommand(r.goos)
	}
	if r.timeout == 0 {
		r.timeout = DefaultTimeout
	}
	if r.executor == nil {
		r.executor = ProcessExecutor{}
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.log == nil {
		r.log = nopLogger{}
	}
	return r
}

// Python returns the interpreter the runner invokes.
func (r *Runner) Python() string {
	return r.python
}

// Session returns the runner's output session, creating it on first use.
func (r *Runner) Session() *Session {
	r.sessionOnce.Do(func() {
		r.session = NewSession(r.out, r.ansi)
	})
	return r.session
}

func failure(dir, message string) model.TestResult {
	return model.TestResult{
		Path:         dir,
		ExerciseName: filepath.Base(dir),
		Success:      false,
		Message:      message,
	}
}

// Run executes the tests of the exercise in dir. Every failure, including
// panics, is reported through the returned result.
func (r *Runner) Run(ctx context.Context, dir string) (result model.TestResult) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			result = failure(dir, fmt.Sprintf("%s%v", errPrefix, p))
		}
		result.Duration = time.Since(start)
	}()

	files, err := FindTestFiles(dir)
	if err != nil {
		return failure(dir, errPrefix+err.Error())
	}
	if len(files) == 0 {
		r.Session().Error("No test files found in %s", dir)
		return failure(dir, MsgNoTestFiles)
	}
	r.log.Debug("found %d test file(s) in %s", len(files), dir)

	timedOut, err := r.execute(ctx, dir)
	if err != nil {
		removeScratch(dir)
		return failure(dir, errPrefix+err.Error())
	}

	result, err = ResolveCapture(dir, r.parser)
	if err != nil {
		return failure(dir, errPrefix+err.Error())
	}
	if timedOut {
		// A killed suite is incomplete whatever its partial output says.
		result.Success = false
	}
	return result
}

// execute runs pytest in dir, writing output to the scratch file and the
// exit code next to it. It reports whether the run was killed by the timeout
// after producing output.
func (r *Runner) execute(ctx context.Context, dir string) (bool, error) {
	session := r.Session()
	session.Clear()
	session.Echo("Running tests for: %s", filepath.Base(dir))
	session.Echo("%s", VisibleCommand(dir, r.python, r.args))
	r.log.Debug("capture: %s", CaptureCommand(dir, r.python, r.args, r.goos))

	os.Remove(paths.ExitFilePath(dir))
	tmp, err := os.Create(paths.TempFilePath(dir))
	if err != nil {
		return false, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	code, execErr := r.executor.Execute(ctx, Invocation{
		Dir:    dir,
		Name:   r.python,
		Args:   pytestArgs(r.args),
		Output: io.MultiWriter(session, tmp),
	})
	info, statErr := tmp.Stat()
	if closeErr := tmp.Close(); closeErr != nil && execErr == nil {
		return false, closeErr
	}

	timedOut := false
	if execErr != nil {
		if !errors.Is(execErr, context.DeadlineExceeded) {
			return false, execErr
		}
		if statErr != nil || info.Size() == 0 {
			return false, fmt.Errorf("timed out after %s", r.timeout)
		}
		session.Error("timed out after %s", r.timeout)
		r.log.Debug("tests in %s timed out; resolving partial output", dir)
		timedOut = true
		if code == 0 {
			code = 1
		}
	}

	return timedOut, os.WriteFile(paths.ExitFilePath(dir), []byte(strconv.Itoa(code)+"\n"), 0644)
}

// ResolveCapture reads the scratch files of a finished run in dir and
// builds the result. Both files are removed afterwards. A missing output file
// yields a failed result rather than an error.
func ResolveCapture(dir string, parser testparser.Parser) (model.TestResult, error) {
	tmpPath := paths.TempFilePath(dir)
	data, err := os.ReadFile(tmpPath)
	if os.IsNotExist(err) {
		os.Remove(paths.ExitFilePath(dir))
		return failure(dir, errPrefix+"no output captured"), nil
	}
	defer removeScratch(dir)
	if err != nil {
		return model.TestResult{}, err
	}
	output := string(data)

	exitText := "1"
	if raw, err := os.ReadFile(paths.ExitFilePath(dir)); err == nil {
		exitText = string(raw)
	}
	exitCode, err := strconv.Atoi(strings.TrimSpace(exitText))
	if err != nil {
		exitCode = 1
	}

	counts := parser.Parse(output)
	success := exitCode == 0 ||
		(strings.Contains(output, " PASSED") && !strings.Contains(output, " FAILED"))

	return model.TestResult{
		Path:         dir,
		ExerciseName: filepath.Base(dir),
		Success:      success,
		Message:      output,
		TestsPassed:  counts.Passed,
		TestsFailed:  counts.Failed,
		TestsRun:     counts.Run(),
		Counted:      counts.Parsed,
		FailedTests:  counts.FailedTests,
	}, nil
}

func removeScratch(dir string) {
	os.Remove(paths.TempFilePath(dir))
	os.Remove(paths.ExitFilePath(dir))
}

// RunAll runs the exercises in dirs one after another. onResult, if set, is
// called after each run. Cancellation stops before the next exercise.
func (r *Runner) RunAll(ctx context.Context, dirs []string, onResult func(model.TestResult)) model.RunSummary {
	start := time.Now()
	results := make([]model.TestResult, 0, len(dirs))
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		res := r.Run(ctx, dir)
		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
	}
	return model.Summarize(results, time.Since(start))
}
