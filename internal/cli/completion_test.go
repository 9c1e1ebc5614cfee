package cli

import (
	"strings"
	"testing"
)

func TestCmdCompletion_Shells(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"complete -F _codedrills_completions codedrills", "list --format=names", "--ephemeral"}},
		{"zsh", []string{"#compdef codedrills", "compdef _codedrills codedrills", "'open:Open an exercise and make it current'"}},
		{"fish", []string{"complete -c codedrills -f", "-a 'tui'", "-l workspace"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			h := newHarness(t)
			if code := h.run("completion", tt.shell); code != 0 {
				t.Fatalf("completion %s = %d, stderr = %s", tt.shell, code, h.stderr.String())
			}
			for _, want := range tt.want {
				if !strings.Contains(h.stdout.String(), want) {
					t.Errorf("%s completion missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestCmdCompletion_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no shell", []string{}},
		{"unknown shell", []string{"powershell"}},
		{"two shells", []string{"bash", "zsh"}},
		{"alias without value", []string{"--alias", "bash"}},
		{"unknown flag", []string{"--fast", "bash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if code := h.run(append([]string{"completion"}, tt.args...)...); code != 2 {
				t.Errorf("completion %v = %d, want 2", tt.args, code)
			}
		})
	}
}

func TestCmdCompletion_Alias(t *testing.T) {
	h := newHarness(t)
	if code := h.run("completion", "bash", "--alias=cd-drill"); code != 0 {
		t.Fatalf("completion = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "complete -F _cd_drill_completions cd-drill") {
		t.Errorf("bash completion not generated for alias:\n%s", h.stdout.String())
	}
}

func TestCompletion_CoversCommandTable(t *testing.T) {
	for _, gen := range []func(string) string{generateBashCompletion, generateZshCompletion, generateFishCompletion} {
		script := gen(defaultCommandName)
		for _, c := range commands {
			if !strings.Contains(script, c.name) {
				t.Errorf("completion script missing command %q", c.name)
			}
		}
	}
}
