// Package integration contains end-to-end tests for codedrills packages
// working together on fixture workspaces.
package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// copyFixture copies a fixture into a temp dir so tests can write state
// and reports without touching the checked-in files.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	dst := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dst); err == nil {
		dst = resolved
	}
	if err := os.CopyFS(dst, os.DirFS(filepath.Join(fixturesDir(), name))); err != nil {
		t.Fatalf("failed to copy fixture %s: %v", name, err)
	}
	return dst
}
