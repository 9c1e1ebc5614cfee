package cli

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/editor"
	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/runner"
	"github.com/AndreyAkinshin/codedrills/internal/tree"
	"github.com/AndreyAkinshin/codedrills/internal/tui"
	"github.com/AndreyAkinshin/codedrills/internal/watch"
)

// runTUI is replaced in tests; the real panel needs a terminal.
var runTUI = tui.Run

// panelController backs the panel with an opened drill.
type panelController struct {
	d      *drill
	runner *runner.Runner
}

func (c *panelController) Refresh() error {
	return c.d.refresh()
}

func (c *panelController) Test(ctx context.Context, path string) model.TestResult {
	ex := c.d.catalog.ByPath(path)
	if ex == nil {
		return model.TestResult{Path: path, Message: errors.NotFound("exercise", path).Error()}
	}
	return c.d.runTest(ctx, c.runner, ex)
}

func (c *panelController) Editor(path string) (*exec.Cmd, error) {
	ex := c.d.catalog.ByPath(path)
	if ex == nil {
		return nil, errors.NotFound("exercise", path)
	}
	if err := c.d.catalog.SetCurrent(ex); err != nil {
		return nil, err
	}
	opener := &editor.Opener{
		Command: editor.Resolve(c.d.ws.Config.Editor.Command, getenv),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	return opener.Cmd(context.Background(), exerciseFiles(ex)...)
}

func (c *panelController) Report() (string, error) {
	return c.d.generateReport()
}

func (c *panelController) Clear() error {
	return c.d.catalog.Clear()
}

func cmdTUI(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printCommandUsage("tui", [][2]string{
			{"--watch", "Refresh the list when exercise files change"},
		}, "codedrills tui --watch")
		return 0
	}

	watching := false
	for _, arg := range args {
		if arg != "--watch" {
			if strings.HasPrefix(arg, "-") {
				return usageError("tui", "unknown flag: %s", arg)
			}
			return usageError("tui", "unexpected argument: %s", arg)
		}
		watching = true
	}

	d, code := openDrill(opts)
	if d == nil {
		return code
	}
	defer d.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	buf := &tui.Buffer{}
	r := d.newRunner(buf, false)
	checkDependencies(ctx, r.Python())

	panel := tui.Options{
		Context:    ctx,
		Controller: &panelController{d: d, runner: r},
		Items:      tree.NewProvider(d.catalog),
		Output:     buf,
	}

	if watching {
		w, err := watch.New(d.ws.Folders(), watch.DefaultDebounce)
		if err != nil {
			return fail(errors.Wrap(err, "failed to watch exercise folders"))
		}
		defer func() { _ = w.Close() }()
		go func() {
			for err := range w.Errors() {
				out.Debug("watch: %v", err)
			}
		}()
		panel.Changes = w.Changes()
	}

	if err := runTUI(panel); err != nil {
		return fail(errors.Wrap(err, "interactive panel failed"))
	}
	return 0
}
