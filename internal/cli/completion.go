package cli

import (
	"fmt"
	"strings"
)

const defaultCommandName = "codedrills"

// Commands whose first argument is an exercise name.
var exerciseCommands = []string{"open", "test"}

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string) int {
	shell := ""
	alias := ""

	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage()
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			return usageError("completion", "--alias requires a value (--alias=<name>)")
		case strings.HasPrefix(arg, "-"):
			return usageError("completion", "unknown flag: %s", arg)
		default:
			if shell != "" {
				return usageError("completion", "unexpected argument: %s", arg)
			}
			shell = arg
		}
	}

	if shell == "" {
		return usageError("completion", "shell required (bash, zsh, fish)")
	}

	cmdName := defaultCommandName
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		out.Print("%s", generateBashCompletion(cmdName))
	case "zsh":
		out.Print("%s", generateZshCompletion(cmdName))
	case "fish":
		out.Print("%s", generateFishCompletion(cmdName))
	default:
		return usageError("completion", "unsupported shell %q (use bash, zsh, or fish)", shell)
	}
	return 0
}

func printCompletionUsage() {
	w := out

	w.HelpTitle("codedrills completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("codedrills completion <shell> [--alias=<name>]")

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", widthFlag)

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(codedrills completion bash)\"")
	w.Println("  Zsh:   eval \"$(codedrills completion zsh)\"")
	w.Println("  Fish:  codedrills completion fish | source")
	w.Println("")
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

func globalFlags() []string {
	return []string{
		"--quiet",
		"--verbose",
		"--workspace",
		"--ephemeral",
		"--help",
		"--version",
	}
}

// exerciseNamesCommand lists exercise names for dynamic completion.
const exerciseNamesCommand = defaultCommandName + " list --format=names 2>/dev/null"

func generateBashCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	return fmt.Sprintf(`# codedrills bash completion
# Add to ~/.bashrc: eval "$(codedrills completion bash)"

%s() {
    local cur prev words cword
    _init_completion || return

    local commands="%s"
    local flags="%s"

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
            return
            ;;
        %s)
            COMPREPLY=($(compgen -W "$(%s)" -- "${cur}"))
            return
            ;;
        list|status)
            COMPREPLY=($(compgen -W "--format=table --format=json --format=yaml" -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "validate" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
        --workspace)
            _filedir -d
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi

    COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
}

complete -F %s %s
`, funcName, strings.Join(commandNames(), " "), strings.Join(globalFlags(), " "),
		cmdName, strings.Join(exerciseCommands, "|"), exerciseNamesCommand, funcName, cmdName)
}

// zshEscape escapes colons, which separate names from descriptions in _describe.
func zshEscape(s string) string {
	return strings.ReplaceAll(s, ":", "\\:")
}

func generateZshCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_")

	var described strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&described, "        '%s:%s'\n", c.name, zshEscape(c.description))
	}

	return fmt.Sprintf(`#compdef %s
# codedrills zsh completion
# Add to ~/.zshrc: eval "$(codedrills completion zsh)"

%s() {
    local -a commands flags exercises

    commands=(
%s    )

    flags=(
        '--quiet[Minimal output]'
        '--verbose[Show debug output]'
        '--workspace=[Workspace root]:directory:_files -/'
        '--ephemeral[Keep state in memory only]'
        '--help[Show help]'
        '--version[Show version]'
    )

    if (( CURRENT == 2 )); then
        _describe -t commands 'command' commands
        _arguments -s $flags[@]
        return
    fi

    case "${words[2]}" in
        %s)
            exercises=(${(f)"$(%s)"})
            _describe -t exercises 'exercise' exercises
            ;;
        list|status)
            _values 'format' --format=table --format=json --format=yaml
            ;;
        config)
            _values 'subcommand' validate
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
        *)
            _arguments -s $flags[@]
            ;;
    esac
}

compdef %s %s
`, cmdName, funcName, described.String(), strings.Join(exerciseCommands, "|"), exerciseNamesCommand, funcName, cmdName)
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `# codedrills fish completion
# Add to config: codedrills completion fish | source

complete -c %s -f

`, cmdName)

	for _, c := range commands {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_use_subcommand' -a '%s' -d '%s'\n", cmdName, c.name, c.description)
	}

	sb.WriteString("\n# Global flags\n")
	fmt.Fprintf(&sb, "complete -c %s -s q -l quiet -d 'Minimal output'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -s v -l verbose -d 'Show debug output'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l workspace -d 'Workspace root' -xa '(__fish_complete_directories)'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l ephemeral -d 'Keep state in memory only'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l help -d 'Show help'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l version -d 'Show version'\n", cmdName)

	sb.WriteString("\n# Subcommand arguments\n")
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from %s' -a '(%s)' -d 'Exercise'\n",
		cmdName, strings.Join(exerciseCommands, " "), exerciseNamesCommand)
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from test' -l all -d 'Test every exercise'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from list status' -l format -xa 'table json yaml'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from tui' -l watch -d 'Refresh on file changes'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from config' -a 'validate' -d 'Validate configuration'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'\n", cmdName)

	return sb.String()
}
