// Package paths holds the fixed path and executable conventions used when
// running exercise test suites.
package paths

import "path/filepath"

// Scratch file names written inside an exercise directory during a test run.
const (
	TempFileName   = ".test_results.txt"
	ExitSuffix     = ".exit"
	ReadmeName     = "README.md"
	TestsDirName   = "tests"
	StateDirName   = ".codedrills"
	ReportsDirName = "reports"
)

// IsWindows reports whether goos names a Windows-family system.
func IsWindows(goos string) bool {
	return goos == "windows"
}

// PythonCommand returns the python executable name for the given GOOS.
// The executable is not checked for existence.
func PythonCommand(goos string) string {
	if IsWindows(goos) {
		return "python"
	}
	return "python3"
}

// TempFilePath returns the file that receives captured test output.
func TempFilePath(exerciseDir string) string {
	return filepath.Join(exerciseDir, TempFileName)
}

// ExitFilePath returns the sibling of TempFilePath that receives the exit code.
func ExitFilePath(exerciseDir string) string {
	return TempFilePath(exerciseDir) + ExitSuffix
}
