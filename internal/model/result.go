// Package model provides shared data types used across multiple internal packages.
// This package exists to break import cycles between the runner, catalog and
// output packages that all need the test result shape.
package model

import (
	"time"

	"github.com/AndreyAkinshin/codedrills/internal/testparser"
)

// TestResult is the outcome of running one exercise's tests.
type TestResult struct {
	Path         string // exercise directory
	ExerciseName string
	Success      bool
	Message      string // raw captured output or an error description
	TestsPassed  int
	TestsFailed  int
	TestsRun     int
	Counted      bool // true if pass/fail counts were found in the output
	Duration     time.Duration
	FailedTests  []testparser.FailedTest
}

// Counts returns the result's counts in parser form.
func (r TestResult) Counts() *testparser.TestCounts {
	return &testparser.TestCounts{
		Passed:      r.TestsPassed,
		Failed:      r.TestsFailed,
		Total:       r.TestsRun,
		Parsed:      r.Counted,
		FailedTests: r.FailedTests,
	}
}

// RunSummary contains aggregated results from running several exercises.
type RunSummary struct {
	Results       []TestResult
	TotalDuration time.Duration
	Passed        int // exercises that passed
	Failed        int // exercises that failed
	TestCounts    *testparser.TestCounts
}

// Summarize aggregates a batch of results.
func Summarize(results []TestResult, total time.Duration) RunSummary {
	s := RunSummary{
		Results:       results,
		TotalDuration: total,
		TestCounts:    &testparser.TestCounts{},
	}
	for _, r := range results {
		if r.Success {
			s.Passed++
		} else {
			s.Failed++
		}
		s.TestCounts.Add(r.Counts())
	}
	return s
}
