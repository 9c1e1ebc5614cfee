package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/codedrills/internal/deps"
	"github.com/AndreyAkinshin/codedrills/internal/editor"
	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/exercise"
	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/paths"
	"github.com/AndreyAkinshin/codedrills/internal/report"
	"github.com/AndreyAkinshin/codedrills/internal/tree"
)

// User-facing messages.
const (
	MsgNoExerciseToTest = "No exercise found to run tests on"
	MsgNoNext           = "No next exercise available"
	MsgNoPrevious       = "No previous exercise available"
	MsgCleared          = "Test results cleared"
	msgNoCurrent        = "no current exercise: pass an exercise name or path, or run 'codedrills open <exercise>'"
)

// Output formats accepted by list and status.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatNames = "names"
)

// parseFormat extracts --format from args. Other arguments are returned.
func parseFormat(args []string, allowed ...string) (string, []string, error) {
	format := formatTable
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--format":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--format requires a value")
			}
			format = args[i+1]
			i++
		case strings.HasPrefix(arg, "--format="):
			format = strings.TrimPrefix(arg, "--format=")
		default:
			rest = append(rest, arg)
		}
	}
	for _, a := range allowed {
		if format == a {
			return format, rest, nil
		}
	}
	return "", nil, fmt.Errorf("invalid --format value %q (valid: %s)", format, strings.Join(allowed, ", "))
}

// usageError reports a command-line mistake for cmd.
func usageError(cmd, format string, args ...interface{}) int {
	out.ErrorPrefix("%s: %s", cmd, fmt.Sprintf(format, args...))
	return errors.ExitConfigError
}

// fail prints err and returns its exit code.
func fail(err error) int {
	out.ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}

func rejectFlags(cmd string, args []string) int {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return usageError(cmd, "unknown flag: %s", arg)
		}
	}
	return 0
}

// exerciseEntry is the machine-readable form of an exercise.
type exerciseEntry struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Status      string `json:"status" yaml:"status"`
	Description string `json:"description" yaml:"description"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	Current     bool   `json:"current,omitempty" yaml:"current,omitempty"`
}

func statusName(k exercise.Kind) string {
	switch k {
	case exercise.Passed:
		return "passed"
	case exercise.Failed:
		return "failed"
	default:
		return "untested"
	}
}

func writeStructured(format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		out.Println("%s", data)
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(out.Stdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

func cmdList(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("list", [][2]string{
			{"--format=<fmt>", "Output format: table, json, yaml or names"},
		}, "codedrills list --format=json")
		return 0
	}
	format, rest, err := parseFormat(args, formatTable, formatJSON, formatYAML, formatNames)
	if err != nil {
		return usageError("list", "%v", err)
	}
	if len(rest) > 0 {
		return usageError("list", "unexpected argument: %s", rest[0])
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	exercises := d.catalog.All()
	current := d.catalog.Current(d.cwd)

	switch format {
	case formatNames:
		for _, ex := range exercises {
			out.Println("%s", ex.Name)
		}
	case formatTable:
		if len(exercises) == 0 {
			out.Info("No exercises found in %s", strings.Join(d.ws.Folders(), ", "))
			return 0
		}
		rows := make([][]string, 0, len(exercises))
		for _, it := range tree.Items(exercises) {
			marker := " "
			if current != nil && it.Action.Path == current.Path {
				marker = "*"
			}
			rows = append(rows, []string{marker, it.Label, it.Description, it.Tooltip})
		}
		out.Table([]string{" ", "NAME", "STATUS", "DESCRIPTION"}, rows)
	default:
		entries := make([]exerciseEntry, len(exercises))
		for i, ex := range exercises {
			entries[i] = exerciseEntry{
				Name:        ex.Name,
				Path:        ex.Path,
				Status:      statusName(ex.Status.Kind()),
				Description: ex.Description,
				Message:     ex.Status.Message,
				Current:     current != nil && current.Path == ex.Path,
			}
		}
		if err := writeStructured(format, entries); err != nil {
			return fail(errors.Wrap(err, "failed to write exercise list"))
		}
	}
	return 0
}

func cmdStatus(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("status", [][2]string{
			{"--format=<fmt>", "Output format: table, json or yaml"},
		})
		return 0
	}
	format, rest, err := parseFormat(args, formatTable, formatJSON, formatYAML)
	if err != nil {
		return usageError("status", "%v", err)
	}
	if len(rest) > 0 {
		return usageError("status", "unexpected argument: %s", rest[0])
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	s := report.Summarize(d.catalog.All())
	if format != formatTable {
		if err := writeStructured(format, s); err != nil {
			return fail(errors.Wrap(err, "failed to write summary"))
		}
		return 0
	}

	out.SummaryHeader("Progress")
	out.SummaryItem("Exercises", fmt.Sprintf("%d", s.Total))
	out.SummaryPassed("Passed", fmt.Sprintf("%d", s.Passed))
	out.SummaryFailed("Failed", fmt.Sprintf("%d", s.Failed))
	out.SummaryItem("Untested", fmt.Sprintf("%d", s.Untested))
	out.SummaryItem("Completion", fmt.Sprintf("%d%%", s.Percent))
	if current := d.catalog.Current(d.cwd); current != nil {
		out.SummaryItem("Current", current.Name)
	}
	return 0
}

// target resolves the exercise named by args, falling back to the
// current exercise.
func (d *drill) target(args []string) (*exercise.Exercise, error) {
	if len(args) > 0 {
		return d.catalog.Resolve(args[0], d.cwd)
	}
	if ex := d.catalog.Current(d.cwd); ex != nil {
		return ex, nil
	}
	return nil, errors.New(msgNoCurrent)
}

// exerciseFiles returns the files opened for ex: the solution, if any,
// followed by the README.
func exerciseFiles(ex *exercise.Exercise) []string {
	readme := filepath.Join(ex.Path, paths.ReadmeName)
	if solution, ok := exercise.FindSolutionFile(ex.Path); ok {
		return []string{solution, readme}
	}
	return []string{readme}
}

// open makes ex current and launches the editor on it. Without an editor
// the README is printed instead.
func (d *drill) open(ctx context.Context, ex *exercise.Exercise) int {
	if err := d.catalog.SetCurrent(ex); err != nil {
		out.Warning("failed to save current exercise: %v", err)
	}

	files := exerciseFiles(ex)
	command := editor.Resolve(d.ws.Config.Editor.Command, getenv)
	if len(command) == 0 {
		return showExercise(ex, files)
	}

	out.Info("Opening exercise: %s", ex.Name)
	opener := &editor.Opener{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	if err := opener.Open(ctx, files...); err != nil {
		return fail(err)
	}
	return 0
}

func showExercise(ex *exercise.Exercise, files []string) int {
	out.Info("Viewing exercise: %s", ex.Name)
	readme := files[len(files)-1]
	data, err := os.ReadFile(readme)
	if err != nil {
		return fail(errors.Wrap(err, "failed to read "+paths.ReadmeName))
	}
	out.Println("")
	out.Print("%s", data)
	if !strings.HasSuffix(string(data), "\n") {
		out.Println("")
	}
	if len(files) > 1 {
		out.Println("")
		out.Info("Solution file: %s", files[0])
	}
	out.Hint("Set $EDITOR or editor.command to open exercises in an editor.")
	return 0
}

func cmdOpen(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("open", nil, "codedrills open two-sum", "codedrills open python/two-sum")
		return 0
	}
	if code := rejectFlags("open", args); code != 0 {
		return code
	}
	if len(args) > 1 {
		return usageError("open", "expected at most one exercise, got %d", len(args))
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	ex, err := d.target(args)
	if err != nil {
		return fail(err)
	}
	return d.open(context.Background(), ex)
}

type stepDirection int

const (
	stepNext stepDirection = iota
	stepPrevious
)

func cmdStep(args []string, opts *GlobalOptions, dir stepDirection) int {
	name, noneMsg := "next", MsgNoNext
	if dir == stepPrevious {
		name, noneMsg = "prev", MsgNoPrevious
	}
	if wantsHelp(args) {
		printCommandUsage(name, nil)
		return 0
	}
	if len(args) > 0 {
		return usageError(name, "unexpected argument: %s", args[0])
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	current := d.catalog.Current(d.cwd)
	if current == nil {
		return fail(errors.New(msgNoCurrent))
	}

	neighbor := d.catalog.Next(current)
	if dir == stepPrevious {
		neighbor = d.catalog.Previous(current)
	}
	if neighbor == nil {
		out.Info("%s", noneMsg)
		return 0
	}
	return d.open(context.Background(), neighbor)
}

func cmdTest(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("test", [][2]string{
			{"--all", "Test every exercise in the workspace"},
		}, "codedrills test two-sum", "codedrills test --all")
		return 0
	}

	all := false
	var rest []string
	for _, arg := range args {
		switch {
		case arg == "--all":
			all = true
		case strings.HasPrefix(arg, "-"):
			return usageError("test", "unknown flag: %s", arg)
		default:
			rest = append(rest, arg)
		}
	}
	if len(rest) > 1 {
		return usageError("test", "expected at most one exercise, got %d", len(rest))
	}
	if all && len(rest) > 0 {
		return usageError("test", "--all cannot be combined with an exercise")
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := d.newRunner(sessionOutput(), out.Color())
	checkDependencies(ctx, r.Python())

	if all {
		exercises := d.catalog.All()
		if len(exercises) == 0 {
			return fail(errors.New(MsgNoExerciseToTest))
		}
		dirs := make([]string, len(exercises))
		for i, ex := range exercises {
			dirs[i] = ex.Path
		}
		summary := r.RunAll(ctx, dirs, func(res model.TestResult) {
			if err := d.catalog.UpdateStatus(res.Path, res); err != nil {
				out.Warning("failed to save status of %s: %v", res.ExerciseName, err)
			}
		})
		printTestSummary(summary)
		if summary.Failed > 0 || len(summary.Results) < len(dirs) {
			return errors.ExitRuntimeError
		}
		return 0
	}

	ex, err := d.target(rest)
	if err != nil {
		if len(rest) == 0 {
			return fail(errors.New(MsgNoExerciseToTest))
		}
		return fail(err)
	}

	res := d.runTest(ctx, r, ex)
	printResult(res)
	if !res.Success {
		return errors.ExitRuntimeError
	}
	return 0
}

func (d *drill) generateReport() (string, error) {
	g := &report.Generator{Dir: d.ws.ReportDir(), Now: now}
	return g.Generate(d.ws.Root, d.catalog.All())
}

func cmdReport(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("report", nil)
		return 0
	}
	if len(args) > 0 {
		return usageError("report", "unexpected argument: %s", args[0])
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	path, err := d.generateReport()
	if err != nil {
		return fail(err)
	}
	if out.Quiet() {
		out.Println("%s", path)
	} else {
		out.Success("Practice progress report generated at: %s", path)
	}
	return 0
}

func cmdClear(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("clear", nil)
		return 0
	}
	if len(args) > 0 {
		return usageError("clear", "unexpected argument: %s", args[0])
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	if err := d.catalog.Clear(); err != nil {
		return fail(err)
	}
	out.Success("%s", MsgCleared)
	return 0
}

func cmdDoctor(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("doctor", nil)
		return 0
	}
	if len(args) > 0 {
		return usageError("doctor", "unexpected argument: %s", args[0])
	}

	ws, _, code := loadWorkspace(opts)
	if ws == nil {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	python := ws.Config.Runner.Python
	if python == "" {
		python = paths.PythonCommand(runtime.GOOS)
	}
	m := newDepsManager(python)

	out.SummaryHeader("Dependencies")
	status := m.CheckPython(ctx)
	if !status.Installed {
		out.SummaryFailed("Python", "not found ("+python+")")
	} else {
		detail := status.Version
		if status.Path != "" {
			detail += " (" + status.Path + ")"
		}
		out.SummaryPassed("Python", detail)
		if m.CheckPytest(ctx) {
			out.SummaryPassed("pytest", "installed")
		} else {
			out.SummaryFailed("pytest", "not installed")
		}
	}
	out.Println("")

	if err := m.Ensure(ctx, deps.Interactive); err != nil {
		return fail(err)
	}
	out.ValidationSuccess("All dependencies are available.")
	return 0
}

func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		return usageError("config", "subcommand required (validate)")
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(args[1:], opts)
	case "-h", "--help":
		printCommandUsage("config", nil)
		return 0
	default:
		return usageError("config", "unknown subcommand %q", args[0])
	}
}

func cmdConfigValidate(args []string, opts *GlobalOptions) int {
	if len(args) > 0 {
		return usageError("config validate", "unexpected argument: %s", args[0])
	}

	ws, _, code := loadWorkspace(opts)
	if ws == nil {
		return code
	}

	if !ws.HasConfig {
		out.Info("No configuration file found at %s; using defaults.", ws.ConfigPath())
	} else {
		out.ValidationSuccess("Configuration is valid.")
	}
	out.SummaryItem("Root", ws.Root)
	out.SummaryItem("Folders", strings.Join(ws.Folders(), ", "))
	out.SummaryItem("State", ws.Config.State.Backend)
	out.SummaryItem("Reports", ws.ReportDir())
	if len(ws.Warnings) > 0 {
		out.SummaryItem("Warnings", fmt.Sprintf("%d", len(ws.Warnings)))
	}
	return 0
}
