// Package workspace locates the workspace root and loads its configuration.
package workspace

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

// ConfigFileName is the name of the configuration file inside the state directory.
const ConfigFileName = "config.json"

// ErrNoConfig is returned when no .codedrills/config.json exists up the tree.
var ErrNoConfig = errors.New(".codedrills/config.json not found in this directory or any parent")

// FindRootFrom walks up from startDir until it finds .codedrills/config.json.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(configPath(dir)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}

// vcsMarkers identify a repository root; a marker may be a file (git worktrees).
var vcsMarkers = []string{".git", ".hg", ".svn"}

// FallbackRoot picks a root for cwd when no configuration exists up the tree.
// The nearest ancestor holding a .codedrills state directory wins, then the
// nearest repository root. Otherwise cwd is used, after climbing out of any
// exercise directories (those containing README.md), since a root is never an
// exercise itself.
func FallbackRoot(cwd string) (string, error) {
	start, err := filepath.Abs(cwd)
	if err != nil {
		return "", err
	}

	if dir, ok := nearest(start, func(dir string) bool {
		return isDir(filepath.Join(dir, paths.StateDirName))
	}); ok {
		return dir, nil
	}
	if dir, ok := nearest(start, func(dir string) bool {
		for _, m := range vcsMarkers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return true
			}
		}
		return false
	}); ok {
		return dir, nil
	}

	dir := start
	for isFile(filepath.Join(dir, paths.ReadmeName)) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dir, nil
}

func nearest(start string, match func(dir string) bool) (string, bool) {
	for dir := start; ; {
		if match(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func configPath(root string) string {
	return filepath.Join(root, paths.StateDirName, ConfigFileName)
}
