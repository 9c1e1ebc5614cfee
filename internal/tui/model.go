// Package tui implements the interactive exercise panel: a status-annotated
// exercise list next to the output of the last test run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/tree"
)

// Controller performs the operations the panel triggers.
type Controller interface {
	Refresh() error
	Test(ctx context.Context, path string) model.TestResult
	Editor(path string) (*exec.Cmd, error)
	Report() (string, error)
	Clear() error
}

// Options configures the panel.
type Options struct {
	Context    context.Context
	Controller Controller
	Items      *tree.Provider
	Output     *Buffer         // runner session sink
	Changes    <-chan struct{} // optional file watcher notifications
}

// Run starts the panel and blocks until the user quits.
func Run(opts Options) error {
	if opts.Controller == nil || opts.Items == nil {
		return errors.New("tui: controller and items are required")
	}
	m := New(opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

const outputPollInterval = 100 * time.Millisecond

type itemsChangedMsg struct{}

type workspaceChangedMsg struct{}

type outputTickMsg struct{}

type testDoneMsg struct{ results []model.TestResult }

type refreshedMsg struct{ err error }

type reportMsg struct {
	path string
	err  error
}

type clearedMsg struct{ err error }

type editorClosedMsg struct{ err error }

// Model is the bubbletea model of the panel.
type Model struct {
	ctx         context.Context
	ctrl        Controller
	items       *tree.Provider
	buf         *Buffer
	changes     <-chan struct{}
	invalidated chan struct{}

	keys   KeyMap
	list   list.Model
	output viewport.Model
	help   help.Model

	width, height int
	running       bool
	status        string
	failed        bool
}

// New creates the panel model and subscribes it to item invalidations.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	buf := opts.Output
	if buf == nil {
		buf = &Buffer{}
	}

	lst := list.New(nil, newDelegate(), 0, 0)
	lst.Title = "Exercises"
	lst.SetShowStatusBar(false)
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)

	m := &Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		items:       opts.Items,
		buf:         buf,
		changes:     opts.Changes,
		invalidated: make(chan struct{}, 1),
		keys:        DefaultKeyMap(),
		list:        lst,
		output:      viewport.New(0, 0),
		help:        help.New(),
	}
	m.items.OnInvalidate(func(uint64) {
		select {
		case m.invalidated <- struct{}{}:
		default:
		}
	})
	m.syncItems()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitInvalidated(), m.waitChanges())
}

func (m *Model) waitInvalidated() tea.Cmd {
	return func() tea.Msg {
		<-m.invalidated
		return itemsChangedMsg{}
	}
}

func (m *Model) waitChanges() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return workspaceChangedMsg{}
	}
}

func pollOutput() tea.Cmd {
	return tea.Tick(outputPollInterval, func(time.Time) tea.Msg { return outputTickMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case itemsChangedMsg:
		m.syncItems()
		return m, m.waitInvalidated()
	case workspaceChangedMsg:
		return m, tea.Batch(m.refresh(), m.waitChanges())
	case outputTickMsg:
		if !m.running {
			return m, nil
		}
		m.showOutput()
		return m, pollOutput()
	case testDoneMsg:
		m.running = false
		m.showOutput()
		m.setStatus(summarize(msg.results), false)
		return m, nil
	case refreshedMsg:
		m.report("Exercise list refreshed", msg.err)
		return m, nil
	case reportMsg:
		m.report("Report written to "+msg.path, msg.err)
		return m, nil
	case clearedMsg:
		m.report("All statuses cleared", msg.err)
		return m, nil
	case editorClosedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return nil, true
	case key.Matches(msg, m.keys.Open):
		return m.open(), true
	case key.Matches(msg, m.keys.Test):
		if path, ok := m.selected(); ok {
			return m.test(path), true
		}
		return nil, true
	case key.Matches(msg, m.keys.TestAll):
		return m.test(m.paths()...), true
	case key.Matches(msg, m.keys.Next):
		m.list.CursorDown()
		return nil, true
	case key.Matches(msg, m.keys.Prev):
		m.list.CursorUp()
		return nil, true
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh(), true
	case key.Matches(msg, m.keys.Report):
		return func() tea.Msg {
			path, err := m.ctrl.Report()
			return reportMsg{path: path, err: err}
		}, true
	case key.Matches(msg, m.keys.Clear):
		return func() tea.Msg { return clearedMsg{err: m.ctrl.Clear()} }, true
	}
	return nil, false
}

func (m *Model) open() tea.Cmd {
	path, ok := m.selected()
	if !ok {
		return nil
	}
	cmd, err := m.ctrl.Editor(path)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg { return editorClosedMsg{err: err} })
}

func (m *Model) test(paths ...string) tea.Cmd {
	if m.running {
		m.setStatus("Tests are already running", true)
		return nil
	}
	if len(paths) == 0 {
		m.setStatus("No exercises found", true)
		return nil
	}
	m.running = true
	m.setStatus(fmt.Sprintf("Running tests (%d exercise(s))...", len(paths)), false)
	ctx := m.ctx
	run := func() tea.Msg {
		results := make([]model.TestResult, 0, len(paths))
		for _, p := range paths {
			if ctx.Err() != nil {
				break
			}
			results = append(results, m.ctrl.Test(ctx, p))
		}
		return testDoneMsg{results: results}
	}
	return tea.Batch(run, pollOutput())
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg { return refreshedMsg{err: m.ctrl.Refresh()} }
}

func (m *Model) selected() (string, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return "", false
	}
	return it.Action.Path, true
}

func (m *Model) paths() []string {
	var paths []string
	for _, li := range m.list.Items() {
		if it, ok := li.(item); ok {
			paths = append(paths, it.Action.Path)
		}
	}
	return paths
}

// syncItems reloads items, keeping the selection on the same exercise.
func (m *Model) syncItems() {
	current, hadSelection := m.selected()
	src := m.items.Items()
	items := make([]list.Item, len(src))
	for i, it := range src {
		items[i] = item{it}
	}
	m.list.SetItems(items)
	if !hadSelection {
		return
	}
	for i, it := range src {
		if it.Action.Path == current {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) showOutput() {
	m.output.SetContent(m.buf.String())
	m.output.GotoBottom()
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m *Model) report(success string, err error) {
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(success, false)
}

func summarize(results []model.TestResult) string {
	if len(results) == 1 {
		r := results[0]
		if r.Success {
			return fmt.Sprintf("%s: all tests passed", r.ExerciseName)
		}
		if r.Message != "" {
			return fmt.Sprintf("%s: %s", r.ExerciseName, r.Message)
		}
		return fmt.Sprintf("%s: tests failed", r.ExerciseName)
	}
	s := model.Summarize(results, 0)
	return fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	footer := lipgloss.Height(m.help.View(m.keys)) + 1
	h := m.height - footer - 1 - paneStyle.GetVerticalFrameSize()
	if h < 3 {
		h = 3
	}
	left := m.width * 2 / 5
	m.list.SetSize(left-paneStyle.GetHorizontalFrameSize(), h)
	m.output.Width = m.width - left - paneStyle.GetHorizontalFrameSize()
	m.output.Height = h
	m.help.Width = m.width
}

// View implements tea.Model.
func (m *Model) View() string {
	left := paneStyle.Render(m.list.View())
	right := paneStyle.Render(m.output.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("codedrills"),
		body,
		status,
		m.help.View(m.keys),
	)
}
