package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse_ValidFull(t *testing.T) {
	t.Parallel()
	data := []byte(`{
		"workspace": {"folders": ["python", "extra"]},
		"runner": {"python": "/usr/bin/python3.12", "args": ["-x"], "timeout_seconds": 30},
		"state": {"backend": "sqlite", "path": ".codedrills/drills.db"},
		"report": {"directory": "out"},
		"editor": {"command": "code --wait"}
	}`)

	cfg, _, err := Parse("config.json", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.Workspace.Folders) != 2 || cfg.Workspace.Folders[1] != "extra" {
		t.Errorf("Workspace.Folders = %v", cfg.Workspace.Folders)
	}
	if cfg.Runner.Python != "/usr/bin/python3.12" || cfg.Runner.TimeoutSeconds != 30 {
		t.Errorf("Runner = %+v", cfg.Runner)
	}
	if len(cfg.Runner.Args) != 1 || cfg.Runner.Args[0] != "-x" {
		t.Errorf("Runner.Args = %v", cfg.Runner.Args)
	}
	if cfg.State.Backend != "sqlite" || cfg.State.Path != ".codedrills/drills.db" {
		t.Errorf("State = %+v", cfg.State)
	}
	if cfg.Report.Directory != "out" {
		t.Errorf("Report.Directory = %q", cfg.Report.Directory)
	}
	if cfg.Editor.Command != "code --wait" {
		t.Errorf("Editor.Command = %q", cfg.Editor.Command)
	}
}

func TestLoadAndValidate_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := LoadAndValidate(filepath.Join(t.TempDir(), "missing.json")); err == nil ||
		!strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("LoadAndValidate(missing) error = %v", err)
	}

	path := writeConfig(t, `{"workspace": `)
	if _, _, err := LoadAndValidate(path); err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("LoadAndValidate(malformed) error = %v", err)
	}
}

func TestParse_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse("config.json", []byte(`{"runner": {"python": "python3.11"}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Runner.Python != "python3.11" {
		t.Errorf("Runner.Python = %q", cfg.Runner.Python)
	}
	if cfg.Runner.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Runner.TimeoutSeconds = %d, want %d", cfg.Runner.TimeoutSeconds, DefaultTimeoutSeconds)
	}
	if len(cfg.Workspace.Folders) != 1 || cfg.Workspace.Folders[0] != DefaultFolder {
		t.Errorf("Workspace.Folders = %v", cfg.Workspace.Folders)
	}
	if cfg.State.Backend != DefaultStateBackend {
		t.Errorf("State.Backend = %q", cfg.State.Backend)
	}
	if cfg.Report.Directory != DefaultReportDirectory {
		t.Errorf("Report.Directory = %q", cfg.Report.Directory)
	}
	if cfg.Editor == nil {
		t.Error("Editor is nil")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	if _, err := Validate(cfg); err != nil {
		t.Errorf("Validate(Default()) error = %v", err)
	}
	if cfg.Editor.Command != "" {
		t.Errorf("Editor.Command = %q, want empty", cfg.Editor.Command)
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `{"runner": {"timeout_seconds": 7200, "retries": 3}}`)

	cfg, warnings, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if cfg.Runner.TimeoutSeconds != 7200 {
		t.Errorf("Runner.TimeoutSeconds = %d", cfg.Runner.TimeoutSeconds)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if !strings.Contains(warnings[0], `unknown field "retries" in runner`) {
		t.Errorf("warnings[0] = %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "runner.timeout_seconds") {
		t.Errorf("warnings[1] = %q", warnings[1])
	}
}

func TestLoadAndValidate_InvalidBackend(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `{"state": {"backend": "redis"}, "colour": true}`)

	cfg, warnings, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("LoadAndValidate() error = nil, want validation error")
	}
	if cfg != nil {
		t.Error("config returned alongside an error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "state.backend" {
		t.Errorf("error = %v, want state.backend validation error", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want the unknown field warning", warnings)
	}
}
