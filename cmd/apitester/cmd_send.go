package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/dispatch"
	"github.com/sadopc/apitester/internal/core/format"
	curlimport "github.com/sadopc/apitester/internal/import/curl"
	"github.com/sadopc/apitester/internal/protocol"
	httpclient "github.com/sadopc/apitester/internal/protocol/http"
)

// sendOutput is the -o json document.
type sendOutput struct {
	Status   int               `json:"status"`
	Elapsed  float64           `json:"elapsed"`
	Size     int               `json:"size"`
	Headers  map[string]string `json:"headers"`
	Body     string            `json:"body"`
	RecordID int64             `json:"record_id,omitempty"`
}

func sendCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(stderr)
	methodFlag := fs.String("X", "GET", "HTTP method: "+strings.Join(protocol.Methods, ", "))
	headersFlag := fs.String("H", "", `Request headers as a JSON object, e.g. '{"Accept":"application/json"}'`)
	bodyFlag := fs.String("d", "", "Request body; JSON objects and arrays are sent as application/json")
	outputFlag := fs.String("o", "text", "Output format: text, json")
	noHistoryFlag := fs.Bool("no-history", false, "Do not record the request in history")
	timeoutFlag := fs.Duration("timeout", 0, "Request timeout (default from config, 30s)")
	headFlag := fs.Bool("i", false, "Include response headers in text output")
	verboseFlag := fs.Bool("v", false, "Log request details to stderr")
	curlFlag := fs.String("curl", "", "Build the request from a curl command line instead of -X/-H/-d and <url>")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: apitester send [flags] <url>\n")
		fmt.Fprintf(stderr, "       apitester send [flags] -curl '<curl command>'\n\n")
		fmt.Fprintf(stderr, "Send one request, print the response and record it in history.\n")
		fmt.Fprintf(stderr, "URLs without http:// or https:// get https:// prepended.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  apitester send httpbin.org/get\n")
		fmt.Fprintf(stderr, "  apitester send -X POST -d '{\"name\":\"ada\"}' api.example.com/users\n")
		fmt.Fprintf(stderr, "  apitester send -H '{\"Authorization\":\"Bearer x\"}' -o json api.example.com/me\n")
		fmt.Fprintf(stderr, "  apitester send -curl \"curl -X DELETE https://api.example.com/users/1\"\n")
		fmt.Fprintf(stderr, "\nExit codes:\n")
		fmt.Fprintf(stderr, "  0  Response received and recorded (any HTTP status)\n")
		fmt.Fprintf(stderr, "  1  Request failed, or the response could not be recorded\n")
		fmt.Fprintf(stderr, "  2  Invalid flags or input\n")
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	wantArgs := 1
	if *curlFlag != "" {
		wantArgs = 0
	}
	if fs.NArg() != wantArgs {
		if wantArgs == 0 {
			fmt.Fprintf(stderr, "Error: -curl cannot be combined with a URL argument\n\n")
		} else {
			fmt.Fprintf(stderr, "Error: exactly one URL is required\n\n")
		}
		fs.Usage()
		return exitUsage
	}
	switch *outputFlag {
	case "text", "json":
	default:
		fmt.Fprintf(stderr, "Error: invalid output format %q (must be text or json)\n", *outputFlag)
		return exitUsage
	}

	req, err := buildRequest(*curlFlag, *methodFlag, fs.Arg(0), *headersFlag, *bodyFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg := config.Load()
	if *timeoutFlag > 0 {
		cfg.DefaultTimeout = *timeoutFlag
	}
	logger := cliLogger(stderr, *verboseFlag)
	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	var recorder dispatch.Recorder
	if !*noHistoryFlag {
		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		defer store.Close()
		recorder = store
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	d := dispatch.New(client, recorder, logger)
	res, err := d.Submit(ctx, req).Wait(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Interrupted: %v\n", err)
		return exitFailure
	}
	if res.Err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describeRequestError(res.Err, cfg.DefaultTimeout))
		return exitFailure
	}

	if err := printResponse(stdout, *outputFlag, *headFlag, res); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitFailure
	}
	if res.StoreErr != nil {
		fmt.Fprintf(stderr, "Error: response not recorded: %v\n", res.StoreErr)
		return exitFailure
	}
	return exitOK
}

func buildRequest(curlCmd, method, url, headers, body string) (*protocol.Request, error) {
	if curlCmd == "" {
		return protocol.NewRequest(method, url, headers, body)
	}
	cmd, err := curlimport.Parse(curlCmd)
	if err != nil {
		return nil, fmt.Errorf("parsing curl command: %w", err)
	}
	return cmd.Request()
}

func printResponse(w io.Writer, output string, withHeaders bool, res dispatch.Result) error {
	resp := res.Response
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(sendOutput{
			Status:   resp.StatusCode,
			Elapsed:  resp.Elapsed.Seconds(),
			Size:     len(resp.Body),
			Headers:  httpclient.FlattenHeaders(resp.Headers),
			Body:     resp.Text(),
			RecordID: res.RecordID,
		})
	}

	fmt.Fprintln(w, format.Meta(resp.StatusCode, resp.Elapsed.Seconds(), len(resp.Body)))
	if withHeaders {
		for _, line := range headerLines(resp) {
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, format.Body(resp.Text()))
	return err
}

func headerLines(resp *protocol.Response) []string {
	flat := httpclient.FlattenHeaders(resp.Headers)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + ": " + flat[k]
	}
	return lines
}

func describeRequestError(err error, timeout time.Duration) string {
	var reqErr *httpclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Kind == httpclient.KindTimeout {
		return fmt.Sprintf("%v (timeout %s)", err, timeout)
	}
	return err.Error()
}
