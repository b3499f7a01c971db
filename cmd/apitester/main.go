package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/apitester/internal/app"
	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/browser"
	"github.com/sadopc/apitester/internal/core/dispatch"
	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/logging"
	httpclient "github.com/sadopc/apitester/internal/protocol/http"
	"github.com/sadopc/apitester/internal/ui/theme"
	"github.com/sadopc/apitester/pkg/version"
)

// Exit codes shared by every subcommand.
const (
	exitOK      = 0
	exitFailure = 1 // request or storage failure
	exitUsage   = 2 // bad flags or invalid input
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "send":
			os.Exit(sendCmd(os.Args[2:], os.Stdout, os.Stderr))
		case "history":
			os.Exit(historyCmd(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
		case "completion":
			os.Exit(completionCmd(os.Args[2:], os.Stdout, os.Stderr))
		case "version":
			fmt.Println(version.String())
			return
		case "help", "-h", "--help":
			printHelp(os.Stderr)
			return
		}
	}
	os.Exit(tuiCmd(os.Args[1:]))
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `apitester - a terminal HTTP client with request history

Usage:
  apitester                        Launch the TUI
  apitester <command> [args]       Run a subcommand

Commands:
  send        Send one request and print the response
  history     List, show, export or clear stored requests
  completion  Generate shell completion scripts (bash, zsh, fish)
  version     Print version information
  help        Show this help message

Configuration is read from %s (override with $%s).

Run 'apitester <command> -h' for more information about a command.
`, config.Path(), config.EnvPath)
}

func tuiCmd(args []string) int {
	fs := flag.NewFlagSet("apitester", flag.ContinueOnError)
	versionFlag := fs.Bool("version", false, "Print version and exit")
	themeFlag := fs.String("theme", "", "Theme to start with: dark or light")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *versionFlag {
		fmt.Println(version.String())
		return exitOK
	}

	cfg := config.Load()
	if *themeFlag != "" {
		t, ok := theme.Get(*themeFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown theme %q (use %s)\n", *themeFlag, strings.Join(theme.Names(), " or "))
			return exitUsage
		}
		cfg.Theme = string(t.Mode)
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, closer, err := logging.NewFile(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging disabled\n", err)
		logger = logging.Discard()
	} else {
		defer closer.Close()
	}

	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer store.Close()

	d := dispatch.New(client, store, logger)
	b := browser.New(store, cfg.HistoryLimit)
	logger.Info("starting tui", "version", version.Version, "history", cfg.HistoryPath())

	p := tea.NewProgram(
		app.New(cfg, d, b, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	// Let requests still in flight finish and be recorded.
	d.Wait()
	return exitOK
}

// openStore creates the data directory and opens the history database.
func openStore(cfg config.Config) (*history.Store, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return history.Open(cfg.HistoryPath())
}

func newClient(cfg config.Config) (*httpclient.Client, error) {
	tlsConf, err := cfg.TLS.Build()
	if err != nil {
		return nil, fmt.Errorf("tls config: %w", err)
	}
	c := httpclient.New()
	c.SetTimeout(cfg.DefaultTimeout)
	c.SetProxy(cfg.Proxy, cfg.NoProxy)
	c.SetTLS(tlsConf)
	return c, nil
}

// cliLogger logs to stderr; only errors unless verbose.
func cliLogger(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		return logging.NewWriter(w, "debug")
	}
	return logging.NewWriter(w, "error")
}
