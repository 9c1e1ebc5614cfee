package exercise

import (
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

// Logger receives non-fatal discovery problems.
type Logger interface {
	Warning(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warning(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})   {}

// Discard is a Logger that drops every message.
var Discard Logger = nopLogger{}

// Scanner walks workspace folders looking for exercise directories.
type Scanner struct {
	log   Logger
	roots map[string]bool
}

// NewScanner creates a scanner. A nil logger discards messages.
func NewScanner(log Logger) *Scanner {
	if log == nil {
		log = Discard
	}
	return &Scanner{log: log}
}

// Scan walks every root depth-first and returns the discovered exercises
// sorted by name. A directory is an exercise iff it directly contains a
// README.md and is not itself one of the roots. Unreadable directories are
// logged and skipped.
func (s *Scanner) Scan(roots []string) []*Exercise {
	s.roots = make(map[string]bool, len(roots))
	for _, root := range roots {
		s.roots[filepath.Clean(root)] = true
	}

	var exercises []*Exercise
	for _, root := range roots {
		exercises = s.scanDirectory(filepath.Clean(root), exercises)
	}

	SortByName(exercises)
	return exercises
}

func (s *Scanner) scanDirectory(dir string, acc []*Exercise) []*Exercise {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warning("error scanning directory %s: %v", dir, err)
		return acc
	}

	if !s.roots[dir] && hasReadme(entries) {
		if ex, err := s.loadExercise(dir, entries); err != nil {
			s.log.Warning("error reading exercise %s: %v", dir, err)
		} else {
			acc = append(acc, ex)
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() || IsExcludedName(entry.Name(), true) {
			continue
		}
		acc = s.scanDirectory(filepath.Join(dir, entry.Name()), acc)
	}
	return acc
}

func (s *Scanner) loadExercise(dir string, entries []os.DirEntry) (*Exercise, error) {
	content, err := os.ReadFile(filepath.Join(dir, paths.ReadmeName))
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if IsExcludedName(name, entry.IsDir()) || IsTestFile(name) {
			continue
		}
		files = append(files, name)
	}

	s.log.Debug("found exercise %s", dir)
	return &Exercise{
		Name:        filepath.Base(dir),
		Path:        dir,
		Files:       files,
		Description: ExtractDescription(string(content)),
	}, nil
}

func hasReadme(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if entry.Name() == paths.ReadmeName && !entry.IsDir() {
			return true
		}
	}
	return false
}

// SortByName orders exercises by name using locale-aware comparison.
// The sort is stable so equal names keep discovery order.
func SortByName(exercises []*Exercise) {
	c := collate.New(language.English)
	sort.SliceStable(exercises, func(i, j int) bool {
		return c.CompareString(exercises[i].Name, exercises[j].Name) < 0
	})
}
