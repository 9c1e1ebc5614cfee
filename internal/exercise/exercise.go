// Package exercise discovers practice exercises in a workspace and extracts
// their metadata.
package exercise

// Kind is the tri-state outcome of an exercise's last test run.
type Kind int

const (
	Untested Kind = iota
	Passed
	Failed
)

// String returns the display label used in lists and panels.
func (k Kind) String() string {
	switch k {
	case Passed:
		return "Passed"
	case Failed:
		return "Failed"
	default:
		return "Not tested"
	}
}

// Status is the last known test status of an exercise.
// An empty Message means no message was recorded.
type Status struct {
	Tested  bool   `json:"tested"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// Kind classifies the status.
func (s Status) Kind() Kind {
	if !s.Tested {
		return Untested
	}
	if s.Passed {
		return Passed
	}
	return Failed
}

// Exercise is one practice problem directory.
type Exercise struct {
	Name        string   // base name of Path
	Path        string   // absolute directory, unique within a scan
	Files       []string // visible files, test files and noise excluded
	Description string
	Status      Status
}

// Reset clears the exercise back to untested.
func (e *Exercise) Reset() {
	e.Status = Status{}
}
