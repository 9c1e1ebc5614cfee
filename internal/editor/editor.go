// Package editor opens exercise files in the user's editor.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
)

// ErrNoEditor is returned when no editor command is configured.
var ErrNoEditor = errors.Config("no editor configured: set $VISUAL, $EDITOR, or editor.command")

// Resolve returns the editor command line: configured wins, then $VISUAL,
// then $EDITOR. The result is split on whitespace so "code --wait" works.
func Resolve(configured string, getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, candidate := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	return nil
}

// Opener launches an editor command.
type Opener struct {
	Command []string
	Stdin   *os.File
	Stdout  *os.File
	Stderr  *os.File
}

// Cmd builds the editor process for files without starting it.
func (o *Opener) Cmd(ctx context.Context, files ...string) (*exec.Cmd, error) {
	if len(o.Command) == 0 {
		return nil, ErrNoEditor
	}
	args := append(append([]string(nil), o.Command[1:]...), files...)
	cmd := exec.CommandContext(ctx, o.Command[0], args...)
	cmd.Stdin = o.Stdin
	cmd.Stdout = o.Stdout
	cmd.Stderr = o.Stderr
	return cmd, nil
}

// Open starts the editor on files and waits for it to exit.
func (o *Opener) Open(ctx context.Context, files ...string) error {
	cmd, err := o.Cmd(ctx, files...)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "failed to run editor "+o.Command[0])
	}
	return nil
}
