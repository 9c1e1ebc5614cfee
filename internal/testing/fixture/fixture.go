// Package fixture builds throwaway exercise workspaces for tests.
package fixture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTree creates files (and their parent directories) under root.
// Keys use forward slashes; keys ending in "/" create empty directories.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(path, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// Exercise returns the files of a minimal pytest exercise named name.
func Exercise(name, title string) map[string]string {
	return map[string]string{
		name + "/README.md":        "# " + title + "\n\nSolve it.\n",
		name + "/solution.py":      "def solve():\n    return 1\n",
		name + "/test_solution.py": "from solution import solve\n\ndef test_solve():\n    assert solve() == 1\n",
	}
}

// Workspace creates a temp workspace holding the given exercises and
// returns its root. Each name gets a "# <Name>" README heading.
func Workspace(t testing.TB, names ...string) string {
	t.Helper()
	root := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	files := make(map[string]string)
	for _, name := range names {
		for k, v := range Exercise(name, strings.ToUpper(name[:1])+name[1:]) {
			files[k] = v
		}
	}
	WriteTree(t, root, files)
	return root
}
