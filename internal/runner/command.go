package runner

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

// pytestArgs returns the interpreter arguments for a pytest run.
func pytestArgs(extra []string) []string {
	args := []string{"-m", "pytest", "-v"}
	return append(args, extra...)
}

func commandLine(python string, extra []string) string {
	return strings.Join(append([]string{python}, pytestArgs(extra)...), " ")
}

// VisibleCommand returns the command shown to the user for a run in dir.
func VisibleCommand(dir, python string, extra []string) string {
	return fmt.Sprintf(`cd "%s" && %s`, dir, commandLine(python, extra))
}

// CaptureCommand returns the shell form of a run that redirects output to
// the scratch file and records the exit code next to it.
func CaptureCommand(dir, python string, extra []string, goos string) string {
	tmp := paths.TempFilePath(dir)
	if paths.IsWindows(goos) {
		return fmt.Sprintf(`%s > "%s" 2>&1 & echo %%ERRORLEVEL%% > "%s"`,
			VisibleCommand(dir, python, extra), tmp, paths.ExitFilePath(dir))
	}
	return fmt.Sprintf(`%s > "%s" 2>&1; echo $? > "%s"`,
		VisibleCommand(dir, python, extra), tmp, paths.ExitFilePath(dir))
}
