package exercise

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

// Solution candidates in order of preference. The last pattern accepts any
// source file with a supported extension.
var solutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^solution\.(py|js|ts|java|cpp|cs)$`),
	regexp.MustCompile(`^(main|index)\.(py|js|ts|java|cpp|cs)$`),
	regexp.MustCompile(`^.+\.(py|js|ts|java|cpp|cs)$`),
}

// FindSolutionFile returns the file the user is expected to edit for the
// exercise in dir. A "solution.*" file wins; otherwise the first candidate
// in directory order is returned.
func FindSolutionFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isSolutionCandidate(name) {
			continue
		}
		for _, re := range solutionPatterns {
			if re.MatchString(name) {
				candidates = append(candidates, name)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	chosen := candidates[0]
	for _, name := range candidates {
		if strings.HasPrefix(name, "solution.") {
			chosen = name
			break
		}
	}
	return filepath.Join(dir, chosen), true
}

func isSolutionCandidate(name string) bool {
	switch {
	case name == paths.ReadmeName,
		strings.HasPrefix(name, "test_"),
		strings.HasSuffix(name, "_test.py"),
		strings.Contains(name, ".test."),
		strings.HasPrefix(name, "."):
		return false
	}
	return true
}
