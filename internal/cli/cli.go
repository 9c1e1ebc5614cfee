// Package cli provides command-line interface functionality for codedrills.
package cli

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/codedrills/internal/errors"
	"github.com/AndreyAkinshin/codedrills/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("codedrills %s", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "list", "ls":
		return cmdList(cmdArgs, opts)
	case "open":
		return cmdOpen(cmdArgs, opts)
	case "next":
		return cmdStep(cmdArgs, opts, stepNext)
	case "prev", "previous":
		return cmdStep(cmdArgs, opts, stepPrevious)
	case "test":
		return cmdTest(cmdArgs, opts)
	case "report":
		return cmdReport(cmdArgs, opts)
	case "clear":
		return cmdClear(cmdArgs, opts)
	case "status":
		return cmdStatus(cmdArgs, opts)
	case "tui":
		return cmdTUI(cmdArgs, opts)
	case "doctor":
		return cmdDoctor(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs, opts)
	case "completion":
		return cmdCompletion(cmdArgs)
	case "help":
		printUsage()
		return 0
	case "version":
		out.Println("codedrills %s", Version)
		return 0
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("Run 'codedrills help' for usage.")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet     bool
	Verbose   bool
	Workspace string
	Ephemeral bool
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Flags can appear anywhere in the argument list; everything after -- is
// passed through untouched.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--ephemeral":
			opts.Ephemeral = true
			i++
		case arg == "--workspace":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--workspace requires a value")
			}
			opts.Workspace = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--workspace="):
			opts.Workspace = strings.TrimPrefix(arg, "--workspace=")
			if opts.Workspace == "" {
				return nil, nil, fmt.Errorf("--workspace requires a value")
			}
			i++
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if opts.Quiet && opts.Verbose {
		return nil, nil, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}

	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)

	return opts, remaining, nil
}

// Help text alignment widths.
const (
	widthCommand = 22
	widthFlag    = 20
)

// command describes one entry of the command table shared by help and
// shell completion.
type command struct {
	name        string
	usage       string
	description string
}

var commands = []command{
	{"list", "list [--format=<fmt>]", "List exercises with their status"},
	{"open", "open [exercise]", "Open an exercise and make it current"},
	{"next", "next", "Open the exercise after the current one"},
	{"prev", "prev", "Open the exercise before the current one"},
	{"test", "test [exercise] [--all]", "Run the tests of an exercise"},
	{"status", "status [--format=<fmt>]", "Show progress summary"},
	{"report", "report", "Generate an HTML progress report"},
	{"clear", "clear", "Reset all exercise statuses"},
	{"tui", "tui [--watch]", "Open the interactive exercise panel"},
	{"doctor", "doctor", "Check Python and pytest, offer to install pytest"},
	{"config", "config validate", "Validate workspace configuration"},
	{"completion", "completion <shell>", "Generate shell completion (bash, zsh, fish)"},
	{"version", "version", "Show version information"},
	{"help", "help", "Show this help"},
}

func printUsage() {
	w := out

	w.HelpTitle("codedrills - practice exercises with tracked progress")

	w.HelpSection("Usage:")
	w.HelpUsage("codedrills [flags] <command> [args]")

	w.HelpSection("Commands:")
	for _, c := range commands {
		w.HelpCommand(c.usage, c.description, widthCommand)
	}

	printGlobalFlags(w)

	w.HelpSection("Examples:")
	w.HelpExample("codedrills list", "List exercises in the current workspace")
	w.HelpExample("codedrills open two-sum", "Open the two-sum exercise")
	w.HelpExample("codedrills test", "Test the current exercise")
	w.HelpExample("codedrills test --all", "Test every exercise")
	w.HelpExample("codedrills --ephemeral tui --watch", "Browse without saving state")
	w.Println("")
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// printCommandUsage prints the help text of one command. flags lists
// command-specific options as name/description pairs.
func printCommandUsage(name string, flags [][2]string, examples ...string) {
	w := out
	c, _ := lookupCommand(name)

	w.HelpTitle(fmt.Sprintf("codedrills %s - %s", c.name, strings.ToLower(c.description)))

	w.HelpSection("Usage:")
	w.HelpUsage("codedrills " + c.usage)

	if len(flags) > 0 {
		w.HelpSection("Options:")
		for _, f := range flags {
			w.HelpFlag(f[0], f[1], widthFlag)
		}
	}

	w.HelpSection("Examples:")
	titleCase := cases.Title(language.English)
	w.HelpExample("codedrills "+c.name, titleCase.String(c.name)+" using the current workspace")
	for _, ex := range examples {
		w.HelpExample(ex, "")
	}
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", widthFlag)
	w.HelpFlag("-v, --verbose", "Show debug output", widthFlag)
	w.HelpFlag("--workspace=<dir>", "Use <dir> as the workspace root", widthFlag)
	w.HelpFlag("--ephemeral", "Keep state in memory only", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)
	w.HelpFlag("--version", "Show version", widthFlag)

	w.HelpSection("Environment:")
	w.HelpEnvVar("CODEDRILLS_STATE", "State backend: json, sqlite or memory", widthFlag)
	w.HelpEnvVar("VISUAL, EDITOR", "Editor used by open", widthFlag)
}
