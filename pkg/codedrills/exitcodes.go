// Package codedrills provides public constants for external tools
// integrating with the codedrills CLI.
package codedrills

// Exit codes returned by the codedrills CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (tests failed, command failed, etc.).
	ExitFailure = 1

	// ExitConfigError indicates a configuration or usage error.
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (no workspace, python missing, etc.).
	ExitEnvError = 3
)

// StatusKey is the state key under which per-exercise test statuses are persisted.
const StatusKey = "codeDrills.taskStatuses"
