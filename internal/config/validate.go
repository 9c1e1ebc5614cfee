package config

import (
	"fmt"
	"strings"
)

// StateBackends lists the accepted state.backend values.
var StateBackends = []string{"json", "sqlite", "memory"}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateWorkspace(cfg.Workspace); err != nil {
		return nil, err
	}
	if err := validateRunner(cfg.Runner); err != nil {
		return nil, err
	}
	if err := validateState(cfg.State); err != nil {
		return nil, err
	}
	if cfg.Runner != nil && cfg.Runner.TimeoutSeconds > 3600 {
		warnings = append(warnings, fmt.Sprintf("runner.timeout_seconds is %d; runs may hang for over an hour", cfg.Runner.TimeoutSeconds))
	}
	return warnings, nil
}

func validateWorkspace(ws *WorkspaceConfig) error {
	if ws == nil {
		return nil
	}
	for i, folder := range ws.Folders {
		if strings.TrimSpace(folder) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("workspace.folders[%d]", i),
				Message: "must not be empty",
			}
		}
	}
	return nil
}

func validateRunner(r *RunnerConfig) error {
	if r == nil {
		return nil
	}
	if r.TimeoutSeconds < 0 {
		return &ValidationError{
			Field:   "runner.timeout_seconds",
			Message: "must be a positive number of seconds",
		}
	}
	for i, arg := range r.Args {
		if arg == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("runner.args[%d]", i),
				Message: "must not be empty",
			}
		}
	}
	return nil
}

func validateState(s *StateConfig) error {
	if s == nil || s.Backend == "" {
		return nil
	}
	return ValidateStateBackend("state.backend", s.Backend)
}

// ValidateStateBackend checks a backend name, reporting problems against field.
func ValidateStateBackend(field, backend string) error {
	for _, b := range StateBackends {
		if backend == b {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(StateBackends, ", ")),
	}
}
