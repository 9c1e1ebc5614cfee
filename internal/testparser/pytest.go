package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

// Static regexes for pytest output parsing.
// Compiled once at package init for performance.
var (
	pytestPassedRegex  = regexp.MustCompile(`(\d+) passed`)
	pytestFailedRegex  = regexp.MustCompile(`(\d+) failed`)
	pytestSkippedRegex = regexp.MustCompile(`(\d+) skipped`)

	// Verbose progress line: "test_solution.py::test_empty FAILED   [ 50%]"
	pytestVerboseFailRegex = regexp.MustCompile(`(?m)^(\S+::\S+) FAILED`)
	// Short summary line: "FAILED test_solution.py::test_empty - AssertionError: ..."
	pytestSummaryFailRegex = regexp.MustCompile(`(?m)^FAILED (\S+::\S+)(?: - (.*))?$`)
)

// PytestParser parses Python pytest output.
type PytestParser struct{}

// Name returns the parser name.
func (p *PytestParser) Name() string {
	return "pytest"
}

// Parse extracts test counts from pytest output.
// pytest outputs summary lines like:
//
//	======= 47 passed in 0.12s =======
//	======= 45 passed, 2 failed in 0.12s =======
//	======= 1 passed, 2 failed, 3 skipped, 4 warnings in 0.12s =======
//
// The last occurrence of each count wins, so test names or log lines that
// happen to contain "N passed" earlier in the output do not leak into the
// result.
func (p *PytestParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	if n, ok := lastCount(pytestPassedRegex, output); ok {
		counts.Passed = n
		counts.Parsed = true
	}
	if n, ok := lastCount(pytestFailedRegex, output); ok {
		counts.Failed = n
		counts.Parsed = true
	}
	if n, ok := lastCount(pytestSkippedRegex, output); ok {
		counts.Skipped = n
		counts.Parsed = true
	}

	if counts.Parsed {
		counts.Total = counts.Passed + counts.Failed + counts.Skipped
	}

	counts.FailedTests = parseFailedTests(output)
	return counts
}

// lastCount returns the integer captured by the last match of re.
func lastCount(re *regexp.Regexp, output string) (int, bool) {
	matches := re.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFailedTests collects failed node ids from verbose progress lines and
// attaches reasons from the short test summary when present.
func parseFailedTests(output string) []FailedTest {
	var failed []FailedTest
	index := make(map[string]int)

	for _, m := range pytestVerboseFailRegex.FindAllStringSubmatch(output, -1) {
		if _, seen := index[m[1]]; seen {
			continue
		}
		index[m[1]] = len(failed)
		failed = append(failed, FailedTest{Name: m[1]})
	}

	for _, m := range pytestSummaryFailRegex.FindAllStringSubmatch(output, -1) {
		reason := strings.TrimSpace(m[2])
		if i, seen := index[m[1]]; seen {
			if reason != "" {
				failed[i].Reason = reason
			}
			continue
		}
		index[m[1]] = len(failed)
		failed = append(failed, FailedTest{Name: m[1], Reason: reason})
	}

	return failed
}
