package main

import (
	"flag"
	"fmt"
	"io"
)

func completionCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("completion", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: apitester completion <bash|zsh|fish>\n\n")
		fmt.Fprintf(stderr, "Generate shell completion scripts.\n\n")
		fmt.Fprintf(stderr, "Examples:\n")
		fmt.Fprintf(stderr, "  # Bash\n")
		fmt.Fprintf(stderr, "  apitester completion bash > /usr/local/etc/bash_completion.d/apitester\n")
		fmt.Fprintf(stderr, "  # Zsh\n")
		fmt.Fprintf(stderr, "  apitester completion zsh > \"${fpath[1]}/_apitester\"\n")
		fmt.Fprintf(stderr, "  # Fish\n")
		fmt.Fprintf(stderr, "  apitester completion fish > ~/.config/fish/completions/apitester.fish\n")
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "Error: shell name is required (bash, zsh, or fish)\n\n")
		fs.Usage()
		return exitUsage
	}

	shell := fs.Arg(0)
	switch shell {
	case "bash":
		fmt.Fprint(stdout, generateBashCompletion())
	case "zsh":
		fmt.Fprint(stdout, generateZshCompletion())
	case "fish":
		fmt.Fprint(stdout, generateFishCompletion())
	default:
		fmt.Fprintf(stderr, "Error: unsupported shell %q (use bash, zsh, or fish)\n", shell)
		return exitUsage
	}
	return exitOK
}

func generateBashCompletion() string {
	return `# bash completion for apitester                          -*- shell-script -*-

_apitester() {
    local cur prev words cword
    _init_completion || return

    local commands="send history completion version help"
    local history_commands="list show export curl diff har clear"

    local send_flags="-X -H -d -o -i -v -no-history -timeout -curl"
    local list_flags="-filter -limit -o"
    local har_flags="-filter -out"
    local export_flags="-out"
    local clear_flags="-yes"
    local diff_flags="-context"

    local methods="GET POST PUT DELETE PATCH"
    local output_formats="text json"
    local shells="bash zsh fish"

    if [[ ${cword} -eq 1 ]]; then
        COMPREPLY=($(compgen -W "${commands}" -- "${cur}"))
        return
    fi

    local command="${words[1]}"

    # Complete flag values
    case "${prev}" in
        -X)
            COMPREPLY=($(compgen -W "${methods}" -- "${cur}"))
            return
            ;;
        -o)
            COMPREPLY=($(compgen -W "${output_formats}" -- "${cur}"))
            return
            ;;
        -out)
            _filedir
            return
            ;;
        -H|-d|-filter|-limit|-timeout|-curl)
            # These take user-provided values, no completion
            return
            ;;
    esac

    case "${command}" in
        send)
            if [[ "${cur}" == -* ]]; then
                COMPREPLY=($(compgen -W "${send_flags}" -- "${cur}"))
            fi
            ;;
        history)
            if [[ ${cword} -eq 2 ]]; then
                COMPREPLY=($(compgen -W "${history_commands}" -- "${cur}"))
                return
            fi
            case "${words[2]}" in
                list)   COMPREPLY=($(compgen -W "${list_flags}" -- "${cur}")) ;;
                har)    COMPREPLY=($(compgen -W "${har_flags}" -- "${cur}")) ;;
                export) COMPREPLY=($(compgen -W "${export_flags}" -- "${cur}")) ;;
                clear)  COMPREPLY=($(compgen -W "${clear_flags}" -- "${cur}")) ;;
                diff)   COMPREPLY=($(compgen -W "${diff_flags}" -- "${cur}")) ;;
            esac
            ;;
        completion)
            COMPREPLY=($(compgen -W "${shells}" -- "${cur}"))
            ;;
    esac
}

complete -F _apitester apitester
`
}

func generateZshCompletion() string {
	return `#compdef apitester

# zsh completion for apitester

_apitester() {
    local -a commands
    commands=(
        'send:Send one request and print the response'
        'history:List, show, export or clear stored requests'
        'completion:Generate shell completion scripts'
        'version:Print version information'
        'help:Show help message'
    )

    local -a history_commands
    history_commands=(
        'list:List stored requests, newest first'
        'show:Print one request/response pair'
        'export:Write the response body of a record to a file'
        'curl:Print a record as a curl command'
        'diff:Compare the responses of two records'
        'har:Export records as a HAR archive'
        'clear:Delete all history'
    )

    _arguments -C \
        '1:command:->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe -t commands 'apitester commands' commands
            ;;
        args)
            case $words[1] in
                send)
                    _arguments \
                        '-X[HTTP method]:method:(GET POST PUT DELETE PATCH)' \
                        '-H[Request headers as a JSON object]:headers:' \
                        '-d[Request body]:body:' \
                        '-o[Output format]:format:(text json)' \
                        '-i[Include response headers]' \
                        '-v[Log request details]' \
                        '-no-history[Do not record the request]' \
                        '-timeout[Request timeout]:timeout:' \
                        '-curl[Build the request from a curl command]:command:' \
                        '1:url:'
                    ;;
                history)
                    if (( CURRENT == 2 )); then
                        _describe -t commands 'history commands' history_commands
                        return
                    fi
                    case $words[2] in
                        list)
                            _arguments \
                                '-filter[URL substring]:filter:' \
                                '-limit[Maximum records]:limit:' \
                                '-o[Output format]:format:(text json)'
                            ;;
                        export)
                            _arguments '-out[Destination file]:file:_files' '1:id:'
                            ;;
                        har)
                            _arguments '-filter[URL substring]:filter:' '-out[Output file]:file:_files'
                            ;;
                        clear)
                            _arguments '-yes[Do not ask for confirmation]'
                            ;;
                        diff)
                            _arguments '-context[Unchanged lines around each change]:lines:' '1:id:' '2:id:'
                            ;;
                    esac
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_apitester "$@"
`
}

func generateFishCompletion() string {
	return `# fish completion for apitester

# Disable file completions by default
complete -c apitester -f

# Subcommands
complete -c apitester -n '__fish_use_subcommand' -a send -d 'Send one request and print the response'
complete -c apitester -n '__fish_use_subcommand' -a history -d 'List, show, export or clear stored requests'
complete -c apitester -n '__fish_use_subcommand' -a completion -d 'Generate shell completion scripts'
complete -c apitester -n '__fish_use_subcommand' -a version -d 'Print version information'
complete -c apitester -n '__fish_use_subcommand' -a help -d 'Show help message'

# send flags
complete -c apitester -n '__fish_seen_subcommand_from send' -o X -d 'HTTP method' -ra 'GET POST PUT DELETE PATCH'
complete -c apitester -n '__fish_seen_subcommand_from send' -o H -d 'Request headers as a JSON object' -r
complete -c apitester -n '__fish_seen_subcommand_from send' -o d -d 'Request body' -r
complete -c apitester -n '__fish_seen_subcommand_from send' -o o -d 'Output format' -ra 'text json'
complete -c apitester -n '__fish_seen_subcommand_from send' -o i -d 'Include response headers'
complete -c apitester -n '__fish_seen_subcommand_from send' -o v -d 'Log request details'
complete -c apitester -n '__fish_seen_subcommand_from send' -o no-history -d 'Do not record the request'
complete -c apitester -n '__fish_seen_subcommand_from send' -o timeout -d 'Request timeout' -r
complete -c apitester -n '__fish_seen_subcommand_from send' -o curl -d 'Build the request from a curl command' -r

# history subcommands
complete -c apitester -n '__fish_seen_subcommand_from history; and not __fish_seen_subcommand_from list show export curl diff har clear' -a 'list show export curl diff har clear'
complete -c apitester -n '__fish_seen_subcommand_from list har' -o filter -d 'URL substring' -r
complete -c apitester -n '__fish_seen_subcommand_from list' -o limit -d 'Maximum records' -r
complete -c apitester -n '__fish_seen_subcommand_from list' -o o -d 'Output format' -ra 'text json'
complete -c apitester -n '__fish_seen_subcommand_from export har' -o out -d 'Output file' -rF
complete -c apitester -n '__fish_seen_subcommand_from clear' -o yes -d 'Do not ask for confirmation'
complete -c apitester -n '__fish_seen_subcommand_from diff' -o context -d 'Unchanged lines around each change' -r

# completion - shell names
complete -c apitester -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish' -d 'Shell type'
`
}
