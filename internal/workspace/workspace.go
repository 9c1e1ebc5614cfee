package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/config"
	drillerrors "github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/schema"
	"github.com/AndreyAkinshin/codedrills/internal/state"
)

// Workspace is a loaded workspace root with its configuration.
type Workspace struct {
	Root      string
	Config    *config.Config
	Warnings  []string
	HasConfig bool // false when running on defaults
}

// Discover finds the workspace containing cwd. Without a config file
// anywhere up the tree, FallbackRoot picks the root and defaults apply.
func Discover(cwd string) (*Workspace, error) {
	root, err := FindRootFrom(cwd)
	if errors.Is(err, ErrNoConfig) {
		if root, err = FallbackRoot(cwd); err != nil {
			return nil, err
		}
		return Load(root)
	}
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// Load opens the workspace rooted at root.
func Load(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, drillerrors.NoWorkspace()
	}

	ws := &Workspace{Root: abs}
	path := configPath(abs)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		ws.Config = config.Default()
		return ws, nil
	}
	if err != nil {
		return nil, configError("failed to read configuration", err)
	}

	if err := schema.ValidateConfig(data); err != nil {
		return nil, configError("invalid configuration", err)
	}
	cfg, warnings, err := config.Parse(path, data)
	if err != nil {
		return nil, configError("failed to load configuration", err)
	}

	ws.Config = cfg
	ws.Warnings = warnings
	ws.HasConfig = true
	return ws, nil
}

func configError(message string, cause error) error {
	e := drillerrors.Config(message)
	e.Cause = cause
	return e
}

// ConfigPath returns the path of the workspace configuration file.
func (w *Workspace) ConfigPath() string {
	return configPath(w.Root)
}

// Folders returns the absolute scan roots in configured order, without duplicates.
func (w *Workspace) Folders() []string {
	seen := make(map[string]bool)
	var folders []string
	for _, f := range w.Config.Workspace.Folders {
		dir := w.resolve(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		folders = append(folders, dir)
	}
	return folders
}

func (w *Workspace) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(w.Root, p)
}

// StateBackend picks the state backend: override first, then the
// CODEDRILLS_STATE environment variable, then the configuration.
func (w *Workspace) StateBackend(override string, getenv func(string) string) (string, error) {
	if override != "" {
		return override, nil
	}
	if getenv != nil {
		if env := strings.TrimSpace(getenv(config.StateEnvVar)); env != "" {
			if err := config.ValidateStateBackend(config.StateEnvVar, env); err != nil {
				return "", configError("invalid state backend", err)
			}
			return env, nil
		}
	}
	return w.Config.State.Backend, nil
}

// StatePath returns where backend keeps its data for this workspace.
func (w *Workspace) StatePath(backend string) string {
	if w.Config.State.Path != "" && backend == w.Config.State.Backend {
		return w.resolve(w.Config.State.Path)
	}
	return state.DefaultPath(w.Root, backend)
}

// OpenState opens the state store for backend.
func (w *Workspace) OpenState(backend string) (state.KV, error) {
	kv, err := state.Open(backend, w.StatePath(backend))
	if err != nil {
		return nil, drillerrors.Wrap(err, "failed to open workspace state")
	}
	return kv, nil
}

// ReportDir returns the configured report directory, relative to the root.
func (w *Workspace) ReportDir() string {
	return w.Config.Report.Directory
}
