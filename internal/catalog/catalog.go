// Package catalog keeps the in-memory list of exercises for a workspace,
// tracks their statuses and notifies subscribers about changes.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/exercise"
	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/paths"
	"github.com/AndreyAkinshin/codedrills/internal/state"
	"github.com/AndreyAkinshin/codedrills/internal/status"
)

// CurrentKey is the state key holding the path of the current exercise.
const CurrentKey = "codeDrills.currentExercise"

// Listener is called after an exercise changes. A nil exercise means the
// whole list was replaced.
type Listener = func(ex *exercise.Exercise)

// Catalog is the exercise list of one workspace.
type Catalog struct {
	mu        sync.RWMutex
	kv        state.KV
	store     *status.Store
	scanner   *exercise.Scanner
	log       exercise.Logger
	exercises []*exercise.Exercise
	byPath    map[string]*exercise.Exercise

	listenersMu sync.Mutex
	listeners   []Listener
}

// New creates an empty catalog persisting to kv. A nil log discards messages.
func New(kv state.KV, log exercise.Logger) *Catalog {
	if log == nil {
		log = exercise.Discard
	}
	return &Catalog{
		kv:      kv,
		store:   status.NewStore(kv),
		scanner: exercise.NewScanner(log),
		log:     log,
		byPath:  make(map[string]*exercise.Exercise),
	}
}

// OnChange registers a listener for status and list changes.
func (c *Catalog) OnChange(fn Listener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Catalog) notify(ex *exercise.Exercise) {
	c.listenersMu.Lock()
	listeners := append([]Listener(nil), c.listeners...)
	c.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(ex)
	}
}

// Refresh rescans roots and reloads persisted statuses. Every exercise starts
// untested; a persisted entry replaces its status wholesale.
func (c *Catalog) Refresh(roots []string) error {
	found := c.scanner.Scan(roots)
	loadErr := c.store.Load(found)

	byPath := make(map[string]*exercise.Exercise, len(found))
	for _, ex := range found {
		byPath[ex.Path] = ex
	}

	c.mu.Lock()
	c.exercises = found
	c.byPath = byPath
	c.mu.Unlock()

	c.notify(nil)
	if loadErr != nil {
		return errors.Wrap(loadErr, "failed to load task statuses")
	}
	return nil
}

// snapshot copies ex so callers can read it without holding c.mu.
func snapshot(ex *exercise.Exercise) *exercise.Exercise {
	if ex == nil {
		return nil
	}
	cp := *ex
	return &cp
}

// statuses collects the status of every exercise. Callers hold c.mu.
func (c *Catalog) statuses() map[string]exercise.Status {
	out := make(map[string]exercise.Status, len(c.exercises))
	for _, ex := range c.exercises {
		out[ex.Path] = ex.Status
	}
	return out
}

// All returns copies of the exercises sorted by name.
func (c *Catalog) All() []*exercise.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*exercise.Exercise, len(c.exercises))
	for i, ex := range c.exercises {
		out[i] = snapshot(ex)
	}
	return out
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.exercises)
}

// ByPath returns the exercise rooted at dir, or nil.
func (c *Catalog) ByPath(dir string) *exercise.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return snapshot(c.byPath[filepath.Clean(dir)])
}

// ByName returns every exercise with the given name in list order.
func (c *Catalog) ByName(name string) []*exercise.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*exercise.Exercise
	for _, ex := range c.exercises {
		if ex.Name == name {
			out = append(out, snapshot(ex))
		}
	}
	return out
}

func (c *Catalog) indexOf(ex *exercise.Exercise) int {
	if ex == nil {
		return -1
	}
	for i, e := range c.exercises {
		if e.Path == ex.Path {
			return i
		}
	}
	return -1
}

// Next returns the exercise after ex, or nil if ex is last or unknown.
func (c *Catalog) Next(ex *exercise.Exercise) *exercise.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(ex)
	if i < 0 || i+1 >= len(c.exercises) {
		return nil
	}
	return snapshot(c.exercises[i+1])
}

// Previous returns the exercise before ex, or nil if ex is first or unknown.
func (c *Catalog) Previous(ex *exercise.Exercise) *exercise.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(ex)
	if i <= 0 {
		return nil
	}
	return snapshot(c.exercises[i-1])
}

// FromFile maps an open file to its exercise. Only README.md paths resolve.
func (c *Catalog) FromFile(file string) *exercise.Exercise {
	if filepath.Base(file) != paths.ReadmeName {
		return nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil
	}
	return c.ByPath(filepath.Dir(abs))
}

// Containing returns the innermost exercise whose directory contains path.
func (c *Catalog) Containing(path string) *exercise.Exercise {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *exercise.Exercise
	for _, ex := range c.exercises {
		if !within(ex.Path, abs) {
			continue
		}
		if best == nil || len(ex.Path) > len(best.Path) {
			best = ex
		}
	}
	return snapshot(best)
}

func within(dir, path string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}

// Resolve finds an exercise from a command-line argument: a directory or
// README path (absolute or relative to cwd), or an exercise name.
func (c *Catalog) Resolve(arg, cwd string) (*exercise.Exercise, error) {
	candidate := arg
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(cwd, candidate)
	}
	if info, err := os.Stat(candidate); err == nil {
		if info.IsDir() {
			if ex := c.ByPath(candidate); ex != nil {
				return ex, nil
			}
		} else if ex := c.FromFile(candidate); ex != nil {
			return ex, nil
		}
	}

	matches := c.ByName(arg)
	switch len(matches) {
	case 0:
		return nil, errors.NotFound("exercise", arg)
	case 1:
		return matches[0], nil
	default:
		locations := make([]string, len(matches))
		for i, ex := range matches {
			locations[i] = ex.Path
		}
		return nil, errors.Newf("exercise name %q is ambiguous; use a path: %s", arg, strings.Join(locations, ", "))
	}
}

// UpdateStatus records a test result for the exercise at dir, persists all
// statuses and notifies listeners. The write and its persistence share one
// critical section.
func (c *Catalog) UpdateStatus(dir string, result model.TestResult) error {
	c.mu.Lock()
	ex := c.byPath[filepath.Clean(dir)]
	if ex == nil {
		c.mu.Unlock()
		return errors.NotFound("exercise", dir)
	}
	ex.Status = exercise.Status{
		Tested:  true,
		Passed:  result.Success,
		Message: result.Message,
	}
	err := c.store.Save(c.statuses())
	changed := snapshot(ex)
	c.mu.Unlock()

	c.notify(changed)
	if err != nil {
		return errors.Wrap(err, "failed to save task statuses")
	}
	return nil
}

// Clear resets every exercise to untested, persists, and notifies once per
// exercise.
func (c *Catalog) Clear() error {
	c.mu.Lock()
	cleared := make([]*exercise.Exercise, len(c.exercises))
	for i, ex := range c.exercises {
		ex.Reset()
		cleared[i] = snapshot(ex)
	}
	err := c.store.Save(c.statuses())
	c.mu.Unlock()

	for _, ex := range cleared {
		c.notify(ex)
	}
	if err != nil {
		return errors.Wrap(err, "failed to save task statuses")
	}
	return nil
}

// SetCurrent persists ex as the current exercise.
func (c *Catalog) SetCurrent(ex *exercise.Exercise) error {
	data, err := json.Marshal(ex.Path)
	if err != nil {
		return err
	}
	if err := c.kv.Set(CurrentKey, data); err != nil {
		return errors.Wrap(err, "failed to save current exercise")
	}
	return nil
}

// Current returns the persisted current exercise. If none is recorded, or it
// no longer exists, the exercise containing cwd is returned. The result is nil
// when neither applies.
func (c *Catalog) Current(cwd string) *exercise.Exercise {
	data, ok, err := c.kv.Get(CurrentKey)
	if err != nil {
		c.log.Warning("failed to read current exercise: %v", err)
	}
	if ok {
		var dir string
		if err := json.Unmarshal(data, &dir); err == nil {
			if ex := c.ByPath(dir); ex != nil {
				return ex
			}
		}
	}
	if cwd == "" {
		return nil
	}
	return c.Containing(cwd)
}
