package exercise

import (
	"regexp"
	"strings"
)

// Static regexes for test file classification.
var testFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^test_.+\.py$`),
	regexp.MustCompile(`.+_test\.py$`),
	regexp.MustCompile(`^test\..*\.js$`),
	regexp.MustCompile(`.*\.test\.js$`),
	regexp.MustCompile(`^test\..*\.ts$`),
	regexp.MustCompile(`.*\.test\.ts$`),
}

// IsTestFile reports whether a file name looks like a test file.
func IsTestFile(name string) bool {
	for _, re := range testFilePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// noiseDirs are cache, dependency, version-control and editor directories
// that are never listed or descended into. Plain files with these names are
// kept.
var noiseDirs = map[string]bool{
	"__pycache__":   true,
	".vscode":       true,
	"node_modules":  true,
	".pytest_cache": true,
	".git":          true,
}

// IsExcludedName reports whether a directory entry is hidden or, when isDir
// is set, a tooling directory that discovery skips.
func IsExcludedName(name string, isDir bool) bool {
	return strings.HasPrefix(name, ".") || (isDir && noiseDirs[name])
}
