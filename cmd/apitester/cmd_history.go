package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/browser"
	"github.com/sadopc/apitester/internal/core/format"
	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/diff"
	"github.com/sadopc/apitester/pkg/version"
)

func historyUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: apitester history <command> [flags]

Commands:
  list    [-filter s] [-limit n] [-o text|json]   List stored requests, newest first
  show    <id>                                    Print one request/response pair
  export  <id> -out <path>                        Write the response body of a record to a file
  curl    <id>                                    Print a record as a curl command
  diff    <id> <id> [-context n]                  Compare the responses of two records
  har     [-filter s] [-out path]                 Export records as a HAR 1.2 archive
  clear   [-yes]                                  Delete ALL history (asks for confirmation)
`)
}

func historyCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		historyUsage(stderr)
		return exitUsage
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list", "show", "export", "curl", "diff", "har", "clear":
	case "-h", "--help", "help":
		historyUsage(stderr)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown history command %q\n\n", sub)
		historyUsage(stderr)
		return exitUsage
	}

	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer store.Close()
	b := browser.New(store, cfg.HistoryLimit)
	ctx := context.Background()

	switch sub {
	case "list":
		return historyList(ctx, b, rest, stdout, stderr)
	case "show":
		return historyShow(ctx, b, rest, stdout, stderr)
	case "export":
		return historyExport(ctx, b, rest, stdout, stderr)
	case "curl":
		return historyCurl(ctx, b, rest, stdout, stderr)
	case "diff":
		return historyDiff(ctx, b, rest, stdout, stderr)
	case "har":
		return historyHAR(ctx, b, rest, stdout, stderr)
	default:
		return historyClear(ctx, b, rest, stdin, stdout, stderr)
	}
}

func historyList(ctx context.Context, b *browser.Browser, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filterFlag := fs.String("filter", "", "Only list URLs containing this text (case-sensitive)")
	limitFlag := fs.Int("limit", 0, "Maximum number of records (default from config, 500)")
	outputFlag := fs.String("o", "text", "Output format: text, json")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *outputFlag != "text" && *outputFlag != "json" {
		fmt.Fprintf(stderr, "Error: invalid output format %q (must be text or json)\n", *outputFlag)
		return exitUsage
	}

	summaries, err := b.Search(ctx, *filterFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if *limitFlag > 0 && len(summaries) > *limitFlag {
		summaries = summaries[:*limitFlag]
	}

	if *outputFlag == "json" {
		if err := writeSummariesJSON(stdout, summaries); err != nil {
			fmt.Fprintf(stderr, "Error writing JSON: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	if len(summaries) == 0 {
		fmt.Fprintln(stdout, "No history.")
		return exitOK
	}
	for _, s := range summaries {
		fmt.Fprintf(stdout, "%-6d %-20s %-6s %3d  %8ss  %s\n",
			s.ID, format.Timestamp(s.Timestamp), s.Method, s.StatusCode, format.Seconds(s.Elapsed), s.URL)
	}
	return exitOK
}

type summaryJSON struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	Method    string  `json:"method"`
	URL       string  `json:"url"`
	Status    int     `json:"status"`
	Elapsed   float64 `json:"elapsed"`
}

func writeSummariesJSON(w io.Writer, summaries []history.Summary) error {
	out := make([]summaryJSON, len(summaries))
	for i, s := range summaries {
		out[i] = summaryJSON{
			ID:        s.ID,
			Timestamp: format.Timestamp(s.Timestamp),
			Method:    s.Method,
			URL:       s.URL,
			Status:    s.StatusCode,
			Elapsed:   s.Elapsed,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// parseID reads the record id positional argument.
func parseID(fs *flag.FlagSet, stderr io.Writer) (int64, bool) {
	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "Error: record id is required\n")
		return 0, false
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(stderr, "Error: invalid record id %q\n", fs.Arg(0))
		return 0, false
	}
	return id, true
}

// lookup fetches a record and reports failures; the returned code is only
// meaningful when ok is false.
func lookup(ctx context.Context, b *browser.Browser, id int64, stderr io.Writer) (history.Record, int, bool) {
	rec, err := b.Detail(ctx, id)
	if errors.Is(err, history.ErrNotFound) {
		fmt.Fprintf(stderr, "Error: no history record with id %d\n", id)
		return rec, exitFailure, false
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return rec, exitFailure, false
	}
	return rec, exitOK, true
}

func historyShow(ctx context.Context, b *browser.Browser, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	id, ok := parseID(fs, stderr)
	if !ok {
		return exitUsage
	}
	rec, code, ok := lookup(ctx, b, id, stderr)
	if !ok {
		return code
	}
	fmt.Fprintln(stdout, format.Detail(rec))
	return exitOK
}

func historyExport(ctx context.Context, b *browser.Browser, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outFlag := fs.String("out", "", "Destination file (required)")
	if err := fs.Parse(reorderArgs(args)); err != nil {
		return exitUsage
	}
	id, ok := parseID(fs, stderr)
	if !ok {
		return exitUsage
	}
	if *outFlag == "" {
		fmt.Fprintf(stderr, "Error: -out is required\n")
		return exitUsage
	}
	rec, code, ok := lookup(ctx, b, id, stderr)
	if !ok {
		return code
	}
	if err := b.ExportRecord(*outFlag, rec); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "Saved response of #%d to %s\n", id, *outFlag)
	return exitOK
}

func historyCurl(ctx context.Context, b *browser.Browser, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history curl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	id, ok := parseID(fs, stderr)
	if !ok {
		return exitUsage
	}
	rec, code, ok := lookup(ctx, b, id, stderr)
	if !ok {
		return code
	}
	fmt.Fprintln(stdout, b.Curl(rec))
	return exitOK
}

func historyDiff(ctx context.Context, b *browser.Browser, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	contextFlag := fs.Int("context", 3, "Unchanged lines shown around each change (-1 for all)")
	if err := fs.Parse(reorderArgs(args)); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 {
		fmt.Fprintf(stderr, "Error: two record ids are required\n")
		return exitUsage
	}

	var recs [2]history.Record
	for i := range recs {
		id, err := strconv.ParseInt(fs.Arg(i), 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(stderr, "Error: invalid record id %q\n", fs.Arg(i))
			return exitUsage
		}
		rec, code, ok := lookup(ctx, b, id, stderr)
		if !ok {
			return code
		}
		recs[i] = rec
	}

	lines := diff.Responses(recs[0], recs[1])
	if !diff.Changed(lines) {
		fmt.Fprintf(stdout, "Responses of #%d and #%d are identical.\n", recs[0].ID, recs[1].ID)
		return exitOK
	}
	fmt.Fprintf(stdout, "--- #%d %s %s\n+++ #%d %s %s\n",
		recs[0].ID, recs[0].Method, recs[0].URL, recs[1].ID, recs[1].Method, recs[1].URL)
	fmt.Fprint(stdout, diff.Render(lines, *contextFlag))
	return exitOK
}

func historyHAR(ctx context.Context, b *browser.Browser, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history har", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filterFlag := fs.String("filter", "", "Only export URLs containing this text")
	outFlag := fs.String("out", "", "Output file path (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	out := stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating output file: %v\n", err)
			return exitFailure
		}
		defer f.Close()
		out = f
	}

	if err := b.ExportHAR(ctx, out, *filterFlag, version.Version); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if *outFlag != "" {
		fmt.Fprintf(stderr, "Wrote %s\n", *outFlag)
	}
	return exitOK
}

func historyClear(ctx context.Context, b *browser.Browser, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history clear", flag.ContinueOnError)
	fs.SetOutput(stderr)
	yesFlag := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	var confirm browser.Confirmer = promptConfirmer(stdin, stderr)
	if *yesFlag {
		confirm = browser.ConfirmFunc(func(string) bool { return true })
	}

	cleared, err := b.Clear(ctx, confirm)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if !cleared {
		fmt.Fprintln(stdout, "Cancelled.")
		return exitOK
	}
	fmt.Fprintln(stdout, "History cleared.")
	return exitOK
}

// promptConfirmer asks on w and accepts "y" or "yes" from r.
func promptConfirmer(r io.Reader, w io.Writer) browser.ConfirmFunc {
	return func(prompt string) bool {
		fmt.Fprintf(w, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// reorderArgs moves flags ahead of positionals so "export 3 -out f" parses
// like "export -out f 3".
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") && len(a) > 1 {
			flags = append(flags, a)
			if !strings.Contains(a, "=") && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positional = append(positional, a)
	}
	return append(flags, positional...)
}
