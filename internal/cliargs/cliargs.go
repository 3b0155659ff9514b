// Package cliargs parses kubetui's CLI surface (spec §6). Per spec §1 the
// argument/config-file parser is an external collaborator, specified only
// by the interface the core consumes; this package is that thin interface,
// built with the standard `flag` package in the same single-flag-per-option
// style as the teacher's runtime/pkg/args.CtrlParse/ExecParse.
package cliargs

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// SplitDirection is the closed set for -s/--split-direction.
type SplitDirection string

const (
	SplitVertical   SplitDirection = "v"
	SplitHorizontal SplitDirection = "h"
)

// Args is the parsed CLI surface from spec §6.
type Args struct {
	SplitDirection  SplitDirection
	Namespaces      []string
	AllNamespaces   bool
	Context         string
	Kubeconfig      string
	Logging         bool
	ConfigFile      string

	// Subcommand is "" for normal operation, or "completion"/"__complete".
	Subcommand     string
	CompletionArgs []string
}

// namespacesFlag implements flag.Value so -n may be repeated
// (`-n a -n b`) or comma-delimited (`-n a,b,c`), per spec §6.
type namespacesFlag struct{ values *[]string }

func (n namespacesFlag) String() string {
	if n.values == nil {
		return ""
	}
	return strings.Join(*n.values, ",")
}

func (n namespacesFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			*n.values = append(*n.values, part)
		}
	}
	return nil
}

// optionalBoolFlag backs -A/--all-namespaces, which clap's original models
// as a bug workaround (spec §6): the flag may appear bare (`-A`, meaning
// true), as `-A=true`/`-A=false`, or be absent entirely. flag.Value's
// IsBoolFlag hook makes `-A` alone valid without a following argument.
type optionalBoolFlag struct{ value *bool }

func (o optionalBoolFlag) String() string {
	if o.value == nil {
		return "false"
	}
	return fmt.Sprintf("%v", *o.value)
}

func (o optionalBoolFlag) Set(value string) error {
	switch value {
	case "", "true":
		*o.value = true
	case "false":
		*o.value = false
	default:
		return fmt.Errorf("invalid value %q: must be true or false", value)
	}
	return nil
}

func (o optionalBoolFlag) IsBoolFlag() bool { return true }

// Parse parses argv (excluding the program name) into Args. The
// `completion`/`__complete` subcommands are recognised positionally, ahead
// of flag parsing, the way cobra-style tools dispatch subcommands before
// flags — kept minimal here since shell-completion generation is outside
// this module's core scope.
func Parse(argv []string) (Args, error) {
	if len(argv) > 0 && (argv[0] == "completion" || argv[0] == "__complete") {
		return Args{Subcommand: argv[0], CompletionArgs: argv[1:]}, nil
	}

	fs := flag.NewFlagSet("kubetui", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var a Args
	var split string
	var allNamespaces bool
	var namespaces []string

	fs.StringVar(&split, "s", "v", "window split direction (v|h)")
	fs.StringVar(&split, "split-direction", "v", "window split direction (v|h)")
	fs.Var(namespacesFlag{&namespaces}, "n", "target namespaces (repeatable or comma-delimited)")
	fs.Var(namespacesFlag{&namespaces}, "namespaces", "target namespaces (repeatable or comma-delimited)")
	fs.Var(optionalBoolFlag{&allNamespaces}, "A", "select all namespaces")
	fs.Var(optionalBoolFlag{&allNamespaces}, "all-namespaces", "select all namespaces")
	fs.StringVar(&a.Context, "c", "", "kubeconfig context")
	fs.StringVar(&a.Context, "context", "", "kubeconfig context")
	fs.StringVar(&a.Kubeconfig, "C", "", "kubeconfig path")
	fs.StringVar(&a.Kubeconfig, "kubeconfig", "", "kubeconfig path")
	fs.BoolVar(&a.Logging, "l", false, "enable logging")
	fs.BoolVar(&a.Logging, "logging", false, "enable logging")
	fs.StringVar(&a.ConfigFile, "config-file", "", "config file path")

	if err := fs.Parse(argv); err != nil {
		return Args{}, err
	}

	switch SplitDirection(split) {
	case SplitVertical, SplitHorizontal:
		a.SplitDirection = SplitDirection(split)
	default:
		return Args{}, fmt.Errorf("invalid --split-direction %q: must be v or h", split)
	}

	a.Namespaces = namespaces
	a.AllNamespaces = allNamespaces

	if a.AllNamespaces && len(a.Namespaces) > 0 {
		return Args{}, fmt.Errorf("-n/--namespaces conflicts with -A/--all-namespaces")
	}

	return a, nil
}

// terminalWidth is best-effort and only shapes how wide the emitted
// completion-script comment header is wrapped; it is never consulted for
// widget rendering, which stays behind ui.Screen. x/term requires stdout
// itself to be the controlling terminal; `__complete`/`completion` output is
// frequently captured through a pipe by the shell's completion machinery
// (stdout not a TTY) while a real terminal is still attached on stderr or
// /dev/tty, so pty.GetsizeFull on /dev/tty is tried as a fallback.
func terminalWidth() int {
	const defaultWidth = 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return defaultWidth
	}
	defer tty.Close()
	size, err := pty.GetsizeFull(tty)
	if err != nil || size.Cols == 0 {
		return defaultWidth
	}
	return int(size.Cols)
}

// RunCompletion prints a shell completion script for the requested shell
// (spec §6: `completion {bash|zsh}`). The script bodies themselves are the
// externally-specified, out-of-scope boundary (spec §1); this stub emits a
// minimal, valid script so the subcommand behaves per spec without
// reimplementing a full completion-script generator.
func RunCompletion(shell string, w io.Writer) error {
	fmt.Fprintln(w, strings.Repeat("#", terminalWidth()))
	switch shell {
	case "bash":
		fmt.Fprintln(w, "# bash completion for kubetui")
		fmt.Fprintln(w, "complete -F __kubetui_complete kubetui")
	case "zsh":
		fmt.Fprintln(w, "#compdef kubetui")
		fmt.Fprintln(w, "compdef _kubetui kubetui")
	default:
		return fmt.Errorf("unsupported shell %q: must be bash or zsh", shell)
	}
	return nil
}

// RunDynamicCompletion implements the hidden `__complete` subcommand:
// dynamic completions for --context and --namespaces, sourced from the
// already-loaded kubeconfig context/namespace names.
func RunDynamicCompletion(args []string, contexts []string, namespaces []string, w io.Writer) {
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "--context", "-c":
		for _, c := range contexts {
			fmt.Fprintln(w, c)
		}
	case "--namespaces", "-n":
		for _, n := range namespaces {
			fmt.Fprintln(w, n)
		}
	}
}

// Environment reads the non-flag environment surface from spec §6.
type Environment struct {
	Kubeconfig    string
	LogFilter     string
	LogPath       string
	SSHSession    bool
	Tmux          bool
	Term          string
}

func LoadEnvironment() Environment {
	return Environment{
		Kubeconfig: os.Getenv("KUBECONFIG"),
		LogFilter:  os.Getenv("RUST_LOG"),
		LogPath:    os.Getenv("LOG_PATH"),
		SSHSession: os.Getenv("SSH_CONNECTION") != "" || os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "",
		Tmux:       os.Getenv("TMUX") != "",
		Term:       os.Getenv("TERM"),
	}
}
