package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/AndreyAkinshin/codedrills/internal/catalog"
	"github.com/AndreyAkinshin/codedrills/internal/deps"
	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/exercise"
	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/output"
	"github.com/AndreyAkinshin/codedrills/internal/runner"
	"github.com/AndreyAkinshin/codedrills/internal/state"
	"github.com/AndreyAkinshin/codedrills/internal/workspace"
)

// Process hooks. Tests replace them to run commands against fixtures.
var (
	out         = output.New()
	stdin       = io.Reader(os.Stdin)
	getenv      = os.Getenv
	getwd       = os.Getwd
	now         = time.Now
	newExecutor = func() runner.Executor { return runner.ProcessExecutor{} }
)

// MsgDependenciesMissing is the warning shown when python or pytest is unavailable.
const MsgDependenciesMissing = "Some dependencies are missing. Python test execution may not work properly."

// loadWorkspace locates the workspace and prints configuration warnings.
// Returns the workspace and exit code 0 on success, or nil and the
// appropriate exit code on failure.
func loadWorkspace(opts *GlobalOptions) (*workspace.Workspace, string, int) {
	cwd, err := getwd()
	if err != nil {
		out.ErrorPrefix("%v", errors.NoWorkspace())
		return nil, "", errors.ExitEnvironmentError
	}

	var ws *workspace.Workspace
	if opts.Workspace != "" {
		ws, err = workspace.Load(opts.Workspace)
	} else {
		ws, err = workspace.Discover(cwd)
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, "", errors.GetExitCode(err)
	}

	for _, w := range ws.Warnings {
		out.Warning("%s", w)
	}
	out.Debug("workspace root: %s", ws.Root)
	return ws, cwd, 0
}

// drill is an opened workspace: configuration, state and the exercise
// catalog, refreshed on open.
type drill struct {
	ws      *workspace.Workspace
	cwd     string
	kv      state.KV
	catalog *catalog.Catalog
}

// openDrill loads the workspace, opens its state and scans the exercises.
func openDrill(opts *GlobalOptions) (*drill, int) {
	ws, cwd, code := loadWorkspace(opts)
	if ws == nil {
		return nil, code
	}

	override := ""
	if opts.Ephemeral {
		override = state.BackendMemory
	}
	backend, err := ws.StateBackend(override, getenv)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.GetExitCode(err)
	}
	kv, err := ws.OpenState(backend)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.GetExitCode(err)
	}
	out.Debug("state backend: %s (%s)", backend, ws.StatePath(backend))

	d := &drill{
		ws:      ws,
		cwd:     cwd,
		kv:      kv,
		catalog: catalog.New(kv, out),
	}
	if err := d.refresh(); err != nil {
		out.Warning("%v", err)
	}
	return d, 0
}

func (d *drill) refresh() error {
	return d.catalog.Refresh(d.ws.Folders())
}

func (d *drill) close() {
	if err := d.kv.Close(); err != nil {
		out.Warning("failed to close state: %v", err)
	}
}

// newRunner builds a test runner from the runner configuration. Session
// output goes to w.
func (d *drill) newRunner(w io.Writer, ansi bool) *runner.Runner {
	cfg := d.ws.Config.Runner
	return runner.New(runner.Options{
		Python:   cfg.Python,
		Args:     cfg.Args,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Executor: newExecutor(),
		Output:   w,
		ANSI:     ansi,
		Log:      out,
	})
}

// runTest runs the tests of ex and records the result.
func (d *drill) runTest(ctx context.Context, r *runner.Runner, ex *exercise.Exercise) model.TestResult {
	result := r.Run(ctx, ex.Path)
	if err := d.catalog.UpdateStatus(ex.Path, result); err != nil {
		out.Warning("failed to save status of %s: %v", ex.Name, err)
	}
	return result
}

// sessionOutput returns where test process output is streamed.
func sessionOutput() io.Writer {
	if out.Quiet() {
		return io.Discard
	}
	return out.Stdout()
}

func newDepsManager(python string) *deps.Manager {
	return &deps.Manager{
		Python:   python,
		Executor: newExecutor(),
		Out:      out.Stdout(),
		Confirm:  promptConfirm,
	}
}

// checkDependencies warns when python or pytest is missing. It never
// blocks the command.
func checkDependencies(ctx context.Context, python string) {
	if err := newDepsManager(python).Ensure(ctx, deps.NonInteractive); err != nil {
		out.Warning("%s", MsgDependenciesMissing)
		out.Debug("%v", err)
	}
}
