package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AndreyAkinshin/codedrills/internal/tree"
)

// item adapts a tree item to the list widget.
type item struct {
	tree.Item
}

func (i item) FilterValue() string { return i.Label }

var (
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	normalStyle   = lipgloss.NewStyle()
	detailStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// delegate renders one line per exercise: icon, name and status text.
type delegate struct{}

func newDelegate() list.ItemDelegate { return delegate{} }

func (delegate) Height() int                             { return 1 }
func (delegate) Spacing() int                            { return 0 }
func (delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	cursor, style := "  ", normalStyle
	if index == m.Index() {
		cursor, style = "> ", selectedStyle
	}
	line := fmt.Sprintf("%s%s %s %s",
		cursor,
		iconStyle(it.Kind).Render(string(it.Icon)),
		style.Render(it.Label),
		detailStyle.Render(strings.ToLower(it.Description)),
	)
	fmt.Fprint(w, line)
}
