// Package config provides configuration loading and validation for
// .codedrills/config.json.
package config

// Config represents the complete config.json configuration.
type Config struct {
	Workspace *WorkspaceConfig `json:"workspace,omitempty"`
	Runner    *RunnerConfig    `json:"runner,omitempty"`
	State     *StateConfig     `json:"state,omitempty"`
	Report    *ReportConfig    `json:"report,omitempty"`
	Editor    *EditorConfig    `json:"editor,omitempty"`
}

// WorkspaceConfig lists the folders scanned for exercises.
type WorkspaceConfig struct {
	Folders []string `json:"folders,omitempty"` // relative to the workspace root
}

// RunnerConfig configures how exercise tests run.
type RunnerConfig struct {
	Python         string   `json:"python,omitempty"` // overrides python/python3 selection
	Args           []string `json:"args,omitempty"`   // extra pytest arguments
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

// StateConfig selects where exercise statuses are persisted.
type StateConfig struct {
	Backend string `json:"backend,omitempty"` // json, sqlite or memory
	Path    string `json:"path,omitempty"`    // relative to the workspace root
}

// ReportConfig configures HTML report output.
type ReportConfig struct {
	Directory string `json:"directory,omitempty"`
}

// EditorConfig configures the command used to open exercises.
type EditorConfig struct {
	Command string `json:"command,omitempty"`
}
