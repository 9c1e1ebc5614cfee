// Package tree projects exercises into display items for list views.
package tree

import (
	"sync"

	"github.com/AndreyAkinshin/codedrills/internal/exercise"
)

// Icon is a status glyph.
type Icon string

// Status icons.
const (
	IconUntested Icon = "○"
	IconPassed   Icon = "✓"
	IconFailed   Icon = "✗"
)

// IconFor returns the icon for a status kind.
func IconFor(k exercise.Kind) Icon {
	switch k {
	case exercise.Passed:
		return IconPassed
	case exercise.Failed:
		return IconFailed
	default:
		return IconUntested
	}
}

// CommandOpen is the action attached to every item.
const CommandOpen = "open"

// Action is the command invoked when an item is activated.
type Action struct {
	Command string
	Path    string
}

// Item is one leaf in the exercise list.
type Item struct {
	Label       string
	Description string // "Not tested", "Passed" or "Failed"
	Tooltip     string
	Icon        Icon
	Kind        exercise.Kind
	Action      Action
}

// Items projects exercises into items in the same order.
func Items(exercises []*exercise.Exercise) []Item {
	items := make([]Item, len(exercises))
	for i, ex := range exercises {
		kind := ex.Status.Kind()
		items[i] = Item{
			Label:       ex.Name,
			Description: kind.String(),
			Tooltip:     ex.Description,
			Icon:        IconFor(kind),
			Kind:        kind,
			Action:      Action{Command: CommandOpen, Path: ex.Path},
		}
	}
	return items
}

// Source supplies exercises and change notifications.
type Source interface {
	All() []*exercise.Exercise
	OnChange(fn func(*exercise.Exercise))
}

// Provider caches the item list of a source and invalidates it as a whole
// on every change.
type Provider struct {
	source Source

	mu       sync.Mutex
	items    []Item
	valid    bool
	version  uint64
	onChange []func(version uint64)
}

// NewProvider creates a provider subscribed to src.
func NewProvider(src Source) *Provider {
	p := &Provider{source: src}
	src.OnChange(func(*exercise.Exercise) { p.Invalidate() })
	return p
}

// Items returns the current items, rebuilding them if invalidated.
func (p *Provider) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.valid {
		p.items = Items(p.source.All())
		p.valid = true
	}
	return append([]Item(nil), p.items...)
}

// Version increases on every invalidation.
func (p *Provider) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// OnInvalidate registers fn to run after each invalidation.
func (p *Provider) OnInvalidate(fn func(version uint64)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// Invalidate drops the cached items and notifies subscribers.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.version++
	v := p.version
	subs := append(([]func(uint64))(nil), p.onChange...)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}
