package integration

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/testing/fixture"
	"github.com/AndreyAkinshin/codedrills/internal/workspace"
)

func TestWorkspaceNotFoundError(t *testing.T) {
	t.Parallel()
	_, err := workspace.Load(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error when loading a nonexistent workspace")
	}
	if errors.GetExitCode(err) != errors.ExitEnvironmentError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitEnvironmentError)
	}
}

func TestConfigRejectedBySchema(t *testing.T) {
	t.Parallel()
	root := copyFixture(t, "invalid")

	_, err := workspace.Load(root)
	if err == nil {
		t.Fatal("expected error for an empty workspace folder")
	}
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("error kind is not config: %v", err)
	}
	if errors.GetExitCode(err) != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitConfigError)
	}
}

func TestConfigInvalidJSONError(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	fixture.WriteTree(t, root, map[string]string{
		".codedrills/config.json": "{ invalid json }",
	})

	_, err := workspace.Load(root)
	if err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("Load() error = %v, want invalid JSON error", err)
	}
}

func TestInvalidStateBackendFromEnvironment(t *testing.T) {
	t.Parallel()
	ws, err := workspace.Load(copyFixture(t, "workspace"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	getenv := func(string) string { return "redis" }
	if _, err := ws.StateBackend("", getenv); err == nil {
		t.Error("expected error for an unknown state backend")
	}
}
