package runner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

var (
	pyTestPrefixPattern = regexp.MustCompile(`^test.*\.py$`)
	pyTestSuffixPattern = regexp.MustCompile(`.*_test\.py$`)
)

func isTopLevelTestFile(name string) bool {
	return strings.HasPrefix(name, "test_") ||
		strings.HasSuffix(name, "_test.py") ||
		pyTestPrefixPattern.MatchString(name) ||
		pyTestSuffixPattern.MatchString(name)
}

// FindTestFiles returns the test files of an exercise: matching files directly
// in dir, followed by every .py file directly inside dir/tests.
// A missing tests directory is not an error.
func FindTestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isTopLevelTestFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	testsDir := filepath.Join(dir, paths.TestsDirName)
	nested, err := os.ReadDir(testsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, entry := range nested {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".py") {
			files = append(files, filepath.Join(testsDir, entry.Name()))
		}
	}

	return files, nil
}
