package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AndreyAkinshin/codedrills/internal/paths"
	"github.com/AndreyAkinshin/codedrills/internal/testparser"
)

func writeScratch(t *testing.T, dir string, output, exit *string) {
	t.Helper()
	if output != nil {
		if err := os.WriteFile(paths.TempFilePath(dir), []byte(*output), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if exit != nil {
		if err := os.WriteFile(paths.ExitFilePath(dir), []byte(*exit), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestResolveCapture(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		output      *string
		exit        *string
		wantSuccess bool
		wantPassed  int
		wantFailed  int
		wantMessage string
	}{
		{
			name:        "missing output file",
			output:      nil,
			exit:        strPtr("0\n"),
			wantSuccess: false,
			wantMessage: "Error running tests: no output captured",
		},
		{
			name:        "exit zero",
			output:      strPtr("==== 3 passed in 0.1s ===="),
			exit:        strPtr("0\n"),
			wantSuccess: true,
			wantPassed:  3,
		},
		{
			name:        "windows line ending",
			output:      strPtr("==== 1 passed in 0.1s ===="),
			exit:        strPtr("0 \r\n"),
			wantSuccess: true,
			wantPassed:  1,
		},
		{
			name:        "missing exit file defaults to failure",
			output:      strPtr("==== 1 failed in 0.1s ===="),
			exit:        nil,
			wantSuccess: false,
			wantFailed:  1,
		},
		{
			name:        "unparseable exit code",
			output:      strPtr("collected 0 items"),
			exit:        strPtr("abc"),
			wantSuccess: false,
		},
		{
			name:        "passed marker without failed marker",
			output:      strPtr("t.py::test_a PASSED\n==== 1 passed ===="),
			exit:        strPtr("1"),
			wantSuccess: true,
			wantPassed:  1,
		},
		{
			name:        "passed and failed markers",
			output:      strPtr("t.py::a PASSED\nt.py::b FAILED\n==== 1 failed, 1 passed ===="),
			exit:        strPtr("1"),
			wantSuccess: false,
			wantPassed:  1,
			wantFailed:  1,
		},
		{
			name:        "no counts",
			output:      strPtr("ImportError: no module named solution"),
			exit:        strPtr("2"),
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeScratch(t, dir, tt.output, tt.exit)

			result, err := ResolveCapture(dir, &testparser.PytestParser{})
			if err != nil {
				t.Fatalf("ResolveCapture() error = %v", err)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.TestsPassed != tt.wantPassed || result.TestsFailed != tt.wantFailed {
				t.Errorf("counts = %d/%d, want %d/%d", result.TestsPassed, result.TestsFailed, tt.wantPassed, tt.wantFailed)
			}
			if result.TestsRun != tt.wantPassed+tt.wantFailed {
				t.Errorf("TestsRun = %d, want %d", result.TestsRun, tt.wantPassed+tt.wantFailed)
			}
			if tt.wantMessage != "" && result.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", result.Message, tt.wantMessage)
			}
			if tt.output != nil && tt.wantMessage == "" && result.Message != *tt.output {
				t.Errorf("Message = %q, want raw output", result.Message)
			}

			for _, p := range []string{paths.TempFilePath(dir), paths.ExitFilePath(dir)} {
				if _, err := os.Stat(p); !os.IsNotExist(err) {
					t.Errorf("%s not removed", filepath.Base(p))
				}
			}
		})
	}
}

func TestFindTestFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{
		"README.md", "solution.py", "test_solution.py", "edge_test.py",
		"testing.py", "tests/test_more.py", "tests/helpers.py", "tests/data.json",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindTestFiles(dir)
	if err != nil {
		t.Fatalf("FindTestFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "edge_test.py"),
		filepath.Join(dir, "test_solution.py"),
		filepath.Join(dir, "testing.py"),
		filepath.Join(dir, "tests", "helpers.py"),
		filepath.Join(dir, "tests", "test_more.py"),
	}
	if len(files) != len(want) {
		t.Fatalf("FindTestFiles() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestFindTestFiles_Empty(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "solution.py"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	files, err := FindTestFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("FindTestFiles() = %v, want none", files)
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()
	dir := filepath.Join("work", "ex")
	tmp := paths.TempFilePath(dir)

	if got, want := VisibleCommand(dir, "python3", nil), `cd "`+dir+`" && python3 -m pytest -v`; got != want {
		t.Errorf("VisibleCommand() = %q, want %q", got, want)
	}

	unix := CaptureCommand(dir, "python3", nil, "linux")
	wantUnix := `cd "` + dir + `" && python3 -m pytest -v > "` + tmp + `" 2>&1; echo $? > "` + tmp + `.exit"`
	if unix != wantUnix {
		t.Errorf("CaptureCommand(linux) = %q, want %q", unix, wantUnix)
	}

	win := CaptureCommand(dir, "python", nil, "windows")
	wantWin := `cd "` + dir + `" && python -m pytest -v > "` + tmp + `" 2>&1 & echo %ERRORLEVEL% > "` + tmp + `.exit"`
	if win != wantWin {
		t.Errorf("CaptureCommand(windows) = %q, want %q", win, wantWin)
	}
}
