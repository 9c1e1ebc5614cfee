package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/AndreyAkinshin/codedrills/internal/model"
	"github.com/AndreyAkinshin/codedrills/internal/testparser"
)

// printResult prints the notification for one test run.
func printResult(res model.TestResult) {
	if res.Counted {
		out.Info("%d passed, %d failed (%s)", res.TestsPassed, res.TestsFailed, res.Duration.Round(time.Millisecond))
	}
	if res.Success {
		out.Success("Tests passed for exercise: %s", res.ExerciseName)
		return
	}
	out.Failure("Tests failed for exercise: %s", res.ExerciseName)
	if msg := shortMessage(res); msg != "" {
		out.Failure("  %s", msg)
	}
	printFailedTests(res.Counts())
}

// shortMessage returns the result message when it is an error description
// rather than captured test output.
func shortMessage(res model.TestResult) string {
	if res.Counted || strings.Contains(strings.TrimSpace(res.Message), "\n") {
		return ""
	}
	return strings.TrimSpace(res.Message)
}

func printFailedTests(counts *testparser.TestCounts) {
	if len(counts.FailedTests) == 0 {
		return
	}
	out.SummarySectionLabel("Failed Tests:")
	for _, ft := range counts.FailedTests {
		out.SummaryFailed("  "+ft.Name, ft.Reason)
	}
}

// printTestSummary prints a formatted summary of a multi-exercise run.
func printTestSummary(s model.RunSummary) {
	out.SummaryHeader("Test Summary")

	out.SummarySectionLabel("Exercises:")
	for _, r := range s.Results {
		out.SummaryAction(r.ExerciseName, r.Success, r.Duration, shortMessage(r))
	}
	out.Println("")

	out.SummaryPassed("Passed", fmt.Sprintf("%d", s.Passed))
	if s.Failed > 0 {
		out.SummaryFailed("Failed", fmt.Sprintf("%d", s.Failed))
	}
	out.SummaryItem("Total", fmt.Sprintf("%d", len(s.Results)))
	if s.TestCounts.Parsed {
		out.SummaryItem("Tests", fmt.Sprintf("%d passed, %d failed", s.TestCounts.Passed, s.TestCounts.Failed))
	}
	out.SummaryItem("Duration", s.TotalDuration.Round(time.Millisecond).String())

	if len(s.TestCounts.FailedTests) > 0 {
		out.Println("")
		printFailedTests(s.TestCounts)
	}

	if s.Failed == 0 {
		out.FinalSuccess("All %d exercises passed.", len(s.Results))
	} else {
		out.FinalFailure("%d of %d exercises failed.", s.Failed, len(s.Results))
	}
}
