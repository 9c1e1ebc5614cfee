// Package report renders self-contained HTML progress reports.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/exercise"
	"github.com/AndreyAkinshin/codedrills/internal/paths"
)

//go:embed report.html.tmpl
var pageSource string

var page = template.Must(template.New("report").Parse(pageSource))

// Summary holds the report's headline numbers.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Passed   int `json:"passed" yaml:"passed"`
	Failed   int `json:"failed" yaml:"failed"`
	Untested int `json:"untested" yaml:"untested"`
	Percent  int `json:"percent" yaml:"percent"` // passed share of total, rounded
}

// Summarize counts exercises by status.
func Summarize(exercises []*exercise.Exercise) Summary {
	s := Summary{Total: len(exercises)}
	for _, ex := range exercises {
		switch ex.Status.Kind() {
		case exercise.Passed:
			s.Passed++
		case exercise.Failed:
			s.Failed++
		default:
			s.Untested++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Passed) / float64(s.Total) * 100))
	}
	return s
}

type section struct {
	Title     string
	Badge     string
	Class     string
	Exercises []*exercise.Exercise
}

type pageData struct {
	Summary   Summary
	Sections  []section
	Generated string
}

// Render returns the HTML report for exercises as of now.
func Render(exercises []*exercise.Exercise, now time.Time) ([]byte, error) {
	passed := section{Title: "Passed", Badge: "Passed", Class: "passed"}
	failed := section{Title: "Failed", Badge: "Failed", Class: "failed"}
	untested := section{Title: "Untested", Badge: "Untested", Class: "untested"}
	for _, ex := range exercises {
		switch ex.Status.Kind() {
		case exercise.Passed:
			passed.Exercises = append(passed.Exercises, ex)
		case exercise.Failed:
			failed.Exercises = append(failed.Exercises, ex)
		default:
			untested.Exercises = append(untested.Exercises, ex)
		}
	}

	var buf bytes.Buffer
	err := page.Execute(&buf, pageData{
		Summary:   Summarize(exercises),
		Sections:  []section{passed, failed, untested},
		Generated: now.Format("2006-01-02 15:04:05 MST"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the report file name for a generation time.
func FileName(now time.Time) string {
	ts := now.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return "task-report-" + ts + ".html"
}

// Generator writes reports into a workspace.
type Generator struct {
	// Dir is the report directory, relative to the root unless absolute.
	// Empty means "reports".
	Dir string
	Now func() time.Time
}

// Generate renders the exercises and writes the report under root,
// returning the file path.
func (g *Generator) Generate(root string, exercises []*exercise.Exercise) (string, error) {
	if root == "" {
		return "", errors.NoWorkspace()
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	dir := g.Dir
	if dir == "" {
		dir = paths.ReportsDirName
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}

	t := now()
	content, err := Render(exercises, t)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}
	path := filepath.Join(dir, FileName(t))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
