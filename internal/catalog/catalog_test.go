package catalog

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/exercise"
	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/state"
	"github.com/AndreyAkinshin/codedrills/internal/testing/fixture"
)

func newCatalog(t *testing.T, names ...string) (*Catalog, string, state.KV) {
	t.Helper()
	root := fixture.Workspace(t, names...)
	kv := state.NewMemory()
	c := New(kv, nil)
	if err := c.Refresh([]string{root}); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return c, root, kv
}

func names(exs []*exercise.Exercise) []string {
	out := make([]string, len(exs))
	for i, ex := range exs {
		out[i] = ex.Name
	}
	return out
}

func TestRefresh_SortsAndStartsUntested(t *testing.T) {
	t.Parallel()
	c, _, _ := newCatalog(t, "zeta", "alpha", "mid")

	got := names(c.All())
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, ex := range c.All() {
		if ex.Status.Kind() != exercise.Untested {
			t.Errorf("%s status = %v, want untested", ex.Name, ex.Status.Kind())
		}
	}
}

func TestNextPrevious(t *testing.T) {
	t.Parallel()
	c, _, _ := newCatalog(t, "a", "b", "c")
	all := c.All()

	nameOf := func(ex *exercise.Exercise) string {
		if ex == nil {
			return ""
		}
		return ex.Name
	}

	tests := []struct {
		name string
		got  *exercise.Exercise
		want string
	}{
		{"next of first", c.Next(all[0]), "b"},
		{"next of middle", c.Next(all[1]), "c"},
		{"next of last", c.Next(all[2]), ""},
		{"previous of first", c.Previous(all[0]), ""},
		{"previous of last", c.Previous(all[2]), "b"},
		{"next of nil", c.Next(nil), ""},
		{"next of unknown", c.Next(&exercise.Exercise{Path: "/nowhere"}), ""},
	}
	for _, tt := range tests {
		if got := nameOf(tt.got); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFromFile(t *testing.T) {
	t.Parallel()
	c, root, _ := newCatalog(t, "a")

	if ex := c.FromFile(filepath.Join(root, "a", "README.md")); ex == nil || ex.Name != "a" {
		t.Errorf("FromFile(README.md) = %v, want a", ex)
	}
	if ex := c.FromFile(filepath.Join(root, "a", "solution.py")); ex != nil {
		t.Errorf("FromFile(solution.py) = %v, want nil", ex)
	}
	if ex := c.FromFile(filepath.Join(root, "README.md")); ex != nil {
		t.Errorf("FromFile(root README) = %v, want nil", ex)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	c, root, _ := newCatalog(t, "two-sum", "fizzbuzz")

	tests := []struct {
		name string
		arg  string
		cwd  string
		want string
	}{
		{"by name", "fizzbuzz", "/", "fizzbuzz"},
		{"absolute dir", filepath.Join(root, "two-sum"), "/", "two-sum"},
		{"relative dir", "two-sum", root, "two-sum"},
		{"readme path", filepath.Join("fizzbuzz", "README.md"), root, "fizzbuzz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := c.Resolve(tt.arg, tt.cwd)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.arg, err)
			}
			if ex.Name != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.arg, ex.Name, tt.want)
			}
		})
	}

	if _, err := c.Resolve("missing", root); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("Resolve(missing) error = %v, want not-found", err)
	}
}

func TestResolve_AmbiguousName(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	fixture.WriteTree(t, root, map[string]string{
		"easy/sum/README.md": "# Sum",
		"hard/sum/README.md": "# Sum",
	})
	c := New(state.NewMemory(), nil)
	if err := c.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}

	if got := len(c.ByName("sum")); got != 2 {
		t.Fatalf("ByName(sum) returned %d exercises, want 2", got)
	}
	if _, err := c.Resolve("sum", "/"); err == nil {
		t.Error("expected ambiguity error")
	}
}

func TestUpdateStatus_PersistsAndNotifies(t *testing.T) {
	t.Parallel()
	c, root, kv := newCatalog(t, "a", "b")

	var mu sync.Mutex
	var changed []*exercise.Exercise
	c.OnChange(func(ex *exercise.Exercise) {
		mu.Lock()
		changed = append(changed, ex)
		mu.Unlock()
	})

	dir := filepath.Join(root, "b")
	err := c.UpdateStatus(dir, model.TestResult{Path: dir, Success: false, Message: "1 failed"})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	ex := c.ByPath(dir)
	if ex.Status != (exercise.Status{Tested: true, Passed: false, Message: "1 failed"}) {
		t.Errorf("status = %+v", ex.Status)
	}
	if len(changed) != 1 || changed[0].Path != dir {
		t.Errorf("listeners notified with %v, want exactly b", changed)
	}

	// A fresh catalog over the same state sees the persisted status.
	reloaded := New(kv, nil)
	if err := reloaded.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.ByPath(dir).Status; got != ex.Status {
		t.Errorf("reloaded status = %+v, want %+v", got, ex.Status)
	}
	if got := reloaded.ByPath(filepath.Join(root, "a")).Status.Kind(); got != exercise.Untested {
		t.Errorf("a reloaded as %v, want untested", got)
	}
}

func TestUpdateStatus_UnknownExercise(t *testing.T) {
	t.Parallel()
	c, _, _ := newCatalog(t, "a")
	err := c.UpdateStatus("/nowhere", model.TestResult{Success: true})
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("UpdateStatus(unknown) error = %v, want not-found", err)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	c, root, kv := newCatalog(t, "a", "b", "c")
	for _, ex := range c.All() {
		if err := c.UpdateStatus(ex.Path, model.TestResult{Success: true, Message: "ok"}); err != nil {
			t.Fatal(err)
		}
	}

	notified := 0
	c.OnChange(func(*exercise.Exercise) { notified++ })
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if notified != 3 {
		t.Errorf("notified %d times, want 3", notified)
	}
	for _, ex := range c.All() {
		if ex.Status != (exercise.Status{}) {
			t.Errorf("%s status = %+v, want zero", ex.Name, ex.Status)
		}
	}

	reloaded := New(kv, nil)
	if err := reloaded.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}
	for _, ex := range reloaded.All() {
		if ex.Status.Tested {
			t.Errorf("%s still tested after Clear and reload", ex.Name)
		}
	}
}

func TestRefresh_NotifiesWholeList(t *testing.T) {
	t.Parallel()
	c, root, _ := newCatalog(t, "a")
	var got []*exercise.Exercise
	calls := 0
	c.OnChange(func(ex *exercise.Exercise) {
		calls++
		got = append(got, ex)
	})
	if err := c.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}
	if calls != 1 || got[0] != nil {
		t.Errorf("Refresh notified %d times with %v, want one nil notification", calls, got)
	}
}

func TestRefresh_CorruptedStatuses(t *testing.T) {
	t.Parallel()
	root := fixture.Workspace(t, "a")
	kv := state.NewMemory()
	if err := kv.Set("codeDrills.taskStatuses", []byte(`"nope"`)); err != nil {
		t.Fatal(err)
	}
	c := New(kv, nil)
	if err := c.Refresh([]string{root}); err == nil {
		t.Error("expected error for corrupted statuses")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (list still refreshed)", c.Len())
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()
	c, root, kv := newCatalog(t, "a", "b")

	if ex := c.Current(""); ex != nil {
		t.Errorf("Current() with nothing set = %v, want nil", ex)
	}
	if ex := c.Current(filepath.Join(root, "b")); ex == nil || ex.Name != "b" {
		t.Errorf("Current(cwd in b) = %v, want b", ex)
	}

	if err := c.SetCurrent(c.ByName("a")[0]); err != nil {
		t.Fatalf("SetCurrent() error = %v", err)
	}
	if ex := c.Current(filepath.Join(root, "b")); ex == nil || ex.Name != "a" {
		t.Errorf("Current() after SetCurrent = %v, want a", ex)
	}

	reloaded := New(kv, nil)
	if err := reloaded.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}
	if ex := reloaded.Current(""); ex == nil || ex.Name != "a" {
		t.Errorf("Current() after reload = %v, want a", ex)
	}
}

func TestContaining_Innermost(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	fixture.WriteTree(t, root, map[string]string{
		"outer/README.md":       "# Outer",
		"outer/inner/README.md": "# Inner",
	})
	c := New(state.NewMemory(), nil)
	if err := c.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}

	if ex := c.Containing(filepath.Join(root, "outer", "inner", "x.py")); ex == nil || ex.Name != "inner" {
		t.Errorf("Containing(inner file) = %v, want inner", ex)
	}
	if ex := c.Containing(filepath.Join(root, "outer")); ex == nil || ex.Name != "outer" {
		t.Errorf("Containing(outer) = %v, want outer", ex)
	}
	if ex := c.Containing(filepath.Join(root, "outerx")); ex != nil {
		t.Errorf("Containing(outerx) = %v, want nil", ex)
	}
}

func TestAccessors_ReturnCopies(t *testing.T) {
	t.Parallel()
	c, root, _ := newCatalog(t, "a")
	dir := filepath.Join(root, "a")

	held := c.ByPath(dir)
	held.Status = exercise.Status{Tested: true, Passed: true}
	if c.ByPath(dir).Status.Tested {
		t.Error("mutating a returned exercise changed the catalog")
	}

	if err := c.UpdateStatus(dir, model.TestResult{Message: "1 failed"}); err != nil {
		t.Fatal(err)
	}
	if !held.Status.Passed {
		t.Error("UpdateStatus wrote through a previously returned exercise")
	}
}

func TestUpdateStatusAndClear_Concurrent(t *testing.T) {
	t.Parallel()
	c, root, kv := newCatalog(t, "a", "b")
	dir := filepath.Join(root, "a")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if err := c.UpdateStatus(dir, model.TestResult{Success: true}); err != nil {
				t.Errorf("UpdateStatus() error = %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if err := c.Clear(); err != nil {
				t.Errorf("Clear() error = %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, ex := range c.All() {
				_ = ex.Status.Kind()
			}
		}
	}()
	wg.Wait()

	// The persisted map agrees with memory whichever operation ran last.
	reloaded := New(kv, nil)
	if err := reloaded.Refresh([]string{root}); err != nil {
		t.Fatal(err)
	}
	if got, want := reloaded.ByPath(dir).Status, c.ByPath(dir).Status; got != want {
		t.Errorf("persisted status = %+v, in memory = %+v", got, want)
	}
}
