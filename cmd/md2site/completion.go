package main

import (
	"errors"
	"fmt"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// bashCompletionScript completes subcommands and flags. Installed with:
//
//	md2site completion bash > /etc/bash_completion.d/md2site
const bashCompletionScript = `# bash completion for md2site
_md2site() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="build check completion version help"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
        return 0
    fi

    case "${prev}" in
        -c|--config)
            COMPREPLY=( $(compgen -f -X '!*.y*ml' -- "${cur}") )
            return 0
            ;;
        -o|--output)
            COMPREPLY=( $(compgen -d -- "${cur}") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash" -- "${cur}") )
            return 0
            ;;
        help)
            COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
            return 0
            ;;
    esac

    case "${COMP_WORDS[1]}" in
        build)
            COMPREPLY=( $(compgen -W "--config --output --workers --title --author --site-url --no-feed --no-manifest --quiet --verbose" -- "${cur}") )
            ;;
        check)
            COMPREPLY=( $(compgen -W "--config --quiet --verbose" -- "${cur}") )
            ;;
    esac
    return 0
}
complete -F _md2site md2site
`

// runCompletion prints the completion script for the requested shell.
func runCompletion(args []string, env *Environment) int {
	if len(args) == 0 {
		fmt.Fprintln(env.Stderr, "Usage: md2site completion <shell>")
		return ExitUsage
	}

	switch args[0] {
	case "bash":
		fmt.Fprint(env.Stdout, bashCompletionScript)
		return ExitSuccess
	default:
		err := fmt.Errorf("%w: %s (supported: bash)", ErrUnsupportedShell, args[0])
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}
}
