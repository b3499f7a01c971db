package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/history"
)

// seedHistory writes records straight into the isolated history database.
func seedHistory(t *testing.T, urls ...string) []int64 {
	t.Helper()
	isolateConfig(t)
	store, err := openStore(config.Load())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ids := make([]int64, 0, len(urls))
	for _, u := range urls {
		id, err := store.Insert(context.Background(), history.Record{
			Method:          "POST",
			URL:             u,
			RequestHeaders:  `{"Accept":"application/json"}`,
			RequestBody:     `{"name":"ada"}`,
			StatusCode:      200,
			ResponseHeaders: `{"Content-Type":"application/json"}`,
			ResponseBody:    `{"id":1}`,
			Elapsed:         0.25,
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestHistoryCmd_Usage(t *testing.T) {
	isolateConfig(t)

	code, _, errOut := runHistory(t, "")
	if code != exitUsage {
		t.Errorf("no subcommand: exit code = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(errOut, "Usage: apitester history") {
		t.Errorf("expected usage, got %q", errOut)
	}

	code, _, _ = runHistory(t, "", "frobnicate")
	if code != exitUsage {
		t.Errorf("unknown subcommand: exit code = %d, want %d", code, exitUsage)
	}

	code, _, _ = runHistory(t, "", "help")
	if code != exitOK {
		t.Errorf("help: exit code = %d, want %d", code, exitOK)
	}
}

func TestHistoryList_NewestFirstAndFilter(t *testing.T) {
	seedHistory(t, "https://a.com/one", "https://b.com/two", "https://a.com/three")

	code, out, _ := runHistory(t, "", "list")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	first := strings.Index(out, "a.com/three")
	last := strings.Index(out, "a.com/one")
	if first < 0 || last < 0 || first > last {
		t.Errorf("expected newest first, got:\n%s", out)
	}

	_, out, _ = runHistory(t, "", "list", "-filter", "a.com")
	if strings.Contains(out, "b.com") {
		t.Errorf("filter should exclude b.com, got:\n%s", out)
	}
	if strings.Count(out, "a.com") != 2 {
		t.Errorf("expected 2 a.com rows, got:\n%s", out)
	}

	_, out, _ = runHistory(t, "", "list", "-filter", "A.COM")
	if !strings.Contains(out, "No history.") {
		t.Errorf("filter is case-sensitive, got:\n%s", out)
	}
}

func TestHistoryList_JSONAndLimit(t *testing.T) {
	ids := seedHistory(t, "https://a.com/1", "https://a.com/2", "https://a.com/3")

	code, out, _ := runHistory(t, "", "list", "-o", "json", "-limit", "2")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	var got []summaryJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != ids[2] || got[1].ID != ids[1] {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].Method != "POST" || got[0].Status != 200 || got[0].Elapsed != 0.25 {
		t.Errorf("unexpected entry: %+v", got[0])
	}

	code, _, _ = runHistory(t, "", "list", "-o", "yaml")
	if code != exitUsage {
		t.Errorf("bad output format: exit code = %d, want %d", code, exitUsage)
	}
}

func TestHistoryShow(t *testing.T) {
	ids := seedHistory(t, "https://a.com/users")

	code, out, _ := runHistory(t, "", "show", strconv.FormatInt(ids[0], 10))
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"URL: https://a.com/users", "Method: POST", `{"name":"ada"}`, `{"id":1}`, "0.250s"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	code, _, errOut := runHistory(t, "", "show", "99")
	if code != exitFailure {
		t.Errorf("missing id: exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(errOut, "no history record with id 99") {
		t.Errorf("unexpected stderr: %q", errOut)
	}

	for _, args := range [][]string{{"show"}, {"show", "abc"}, {"show", "0"}} {
		if code, _, _ := runHistory(t, "", args...); code != exitUsage {
			t.Errorf("%v: exit code = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestHistoryExport(t *testing.T) {
	seedHistory(t, "https://a.com/users")
	path := filepath.Join(t.TempDir(), "body.json")

	code, out, errOut := runHistory(t, "", "export", "1", "-out", path)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected confirmation mentioning path, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != `{"id":1}` {
		t.Errorf("exported %q, want response body", data)
	}

	if code, _, _ := runHistory(t, "", "export", "1"); code != exitUsage {
		t.Errorf("missing -out: exit code = %d, want %d", code, exitUsage)
	}

	bad := filepath.Join(t.TempDir(), "missing", "out.txt")
	if code, _, _ := runHistory(t, "", "export", "-out", bad, "1"); code != exitFailure {
		t.Errorf("unwritable path: exit code = %d, want %d", code, exitFailure)
	}
}

func TestHistoryCurl(t *testing.T) {
	seedHistory(t, "https://a.com/users")

	code, out, _ := runHistory(t, "", "curl", "1")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(out, "curl -X POST") {
		t.Errorf("unexpected curl command: %q", out)
	}
	if !strings.Contains(out, "https://a.com/users") {
		t.Errorf("curl command missing URL: %q", out)
	}
}

func TestHistoryDiff(t *testing.T) {
	isolateConfig(t)
	store, err := openStore(config.Load())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	var ids []int64
	for _, body := range []string{`{"name":"ada"}`, `{"name":"grace"}`, `{"name":"ada"}`} {
		id, err := store.Insert(context.Background(), history.Record{
			Method: "GET", URL: "https://a.com/me", StatusCode: 200, ResponseBody: body,
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}
	store.Close()

	id := func(i int) string { return strconv.FormatInt(ids[i], 10) }

	code, out, _ := runHistory(t, "", "diff", id(0), id(1))
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"--- #" + id(0), "+++ #" + id(1), `-   "name": "ada"`, `+   "name": "grace"`} {
		if !strings.Contains(out, want) {
			t.Errorf("diff output missing %q:\n%s", want, out)
		}
	}

	_, out, _ = runHistory(t, "", "diff", id(0), id(2))
	if !strings.Contains(out, "identical") {
		t.Errorf("expected identical responses, got:\n%s", out)
	}

	if code, _, _ := runHistory(t, "", "diff", id(0)); code != exitUsage {
		t.Errorf("one id: exit code = %d, want %d", code, exitUsage)
	}
	if code, _, _ := runHistory(t, "", "diff", id(0), "999"); code != exitFailure {
		t.Errorf("missing record: exit code = %d, want %d", code, exitFailure)
	}
}

func TestHistoryHAR(t *testing.T) {
	seedHistory(t, "https://a.com/x", "https://b.com/y")

	code, out, _ := runHistory(t, "", "har", "-filter", "b.com")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	var doc struct {
		Log struct {
			Entries []struct {
				Request struct {
					URL string `json:"url"`
				} `json:"request"`
			} `json:"entries"`
		} `json:"log"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid HAR: %v", err)
	}
	if len(doc.Log.Entries) != 1 || doc.Log.Entries[0].Request.URL != "https://b.com/y" {
		t.Errorf("unexpected entries: %+v", doc.Log.Entries)
	}

	path := filepath.Join(t.TempDir(), "out.har")
	code, out, _ = runHistory(t, "", "har", "-out", path)
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if out != "" {
		t.Errorf("stdout should be empty when writing to a file, got %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("HAR file not written: %v", err)
	}
}

func TestHistoryClear(t *testing.T) {
	seedHistory(t, "https://a.com/1", "https://a.com/2")

	code, out, errOut := runHistory(t, "n\n", "clear")
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("expected cancellation, got %q", out)
	}
	if !strings.Contains(errOut, "[y/N]") {
		t.Errorf("expected a prompt on stderr, got %q", errOut)
	}
	_, out, _ = runHistory(t, "", "list")
	if strings.Count(out, "a.com") != 2 {
		t.Errorf("history should be untouched, got:\n%s", out)
	}

	code, out, _ = runHistory(t, "yes\n", "clear")
	if code != exitOK || !strings.Contains(out, "History cleared.") {
		t.Fatalf("confirmed clear: code=%d out=%q", code, out)
	}
	_, out, _ = runHistory(t, "", "list")
	if !strings.Contains(out, "No history.") {
		t.Errorf("expected empty history, got:\n%s", out)
	}
}

func TestHistoryClear_Yes(t *testing.T) {
	seedHistory(t, "https://a.com/1")

	code, out, errOut := runHistory(t, "", "clear", "-yes")
	if code != exitOK || !strings.Contains(out, "History cleared.") {
		t.Fatalf("code=%d out=%q", code, out)
	}
	if errOut != "" {
		t.Errorf("-yes should not prompt, got %q", errOut)
	}
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"y", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		var w bytes.Buffer
		confirm := promptConfirmer(strings.NewReader(tt.input), &w)
		if got := confirm("Delete?"); got != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, got, tt.want)
		}
		if !strings.HasPrefix(w.String(), "Delete? [y/N]") {
			t.Errorf("unexpected prompt %q", w.String())
		}
	}
}

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"3", "-out", "f.txt"}, []string{"-out", "f.txt", "3"}},
		{[]string{"-out", "f.txt", "3"}, []string{"-out", "f.txt", "3"}},
		{[]string{"3", "-out=f.txt"}, []string{"-out=f.txt", "3"}},
		{[]string{"3"}, []string{"3"}},
	}

	for _, tt := range tests {
		if got := reorderArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("reorderArgs(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
