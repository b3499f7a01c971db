package export

import (
	"strings"
	"testing"

	"github.com/sadopc/apitester/internal/core/history"
)

func TestAsCurl_GET(t *testing.T) {
	rec := history.Record{
		Method:         "GET",
		URL:            "https://api.example.com/users",
		RequestHeaders: `{"Accept":"application/json"}`,
	}

	result := AsCurl(rec)
	if !strings.HasPrefix(result, "curl") {
		t.Error("should start with 'curl'")
	}
	if strings.Contains(result, "-X") {
		t.Error("GET should not have -X flag")
	}
	if !strings.Contains(result, "-H 'Accept: application/json'") {
		t.Errorf("should contain Accept header, got: %s", result)
	}
	if !strings.HasSuffix(result, "'https://api.example.com/users'") {
		t.Errorf("should end with URL, got: %s", result)
	}
}

func TestAsCurl_StructuredBodyAddsContentType(t *testing.T) {
	rec := history.Record{
		Method:         "POST",
		URL:            "https://api.example.com/users",
		RequestHeaders: "{}",
		RequestBody:    `{"name":"test"}`,
	}

	result := AsCurl(rec)
	want := `curl -X POST -H 'Content-Type: application/json' -d '{"name":"test"}' 'https://api.example.com/users'`
	if result != want {
		t.Errorf("got  %s\nwant %s", result, want)
	}
}

func TestAsCurl_RawBodyQuoted(t *testing.T) {
	rec := history.Record{
		Method:      "PUT",
		URL:         "https://example.com",
		RequestBody: "it's raw",
	}

	result := AsCurl(rec)
	if !strings.Contains(result, `-d 'it'\''s raw'`) {
		t.Errorf("single quotes should be escaped, got: %s", result)
	}
	if strings.Contains(result, "Content-Type") {
		t.Errorf("raw bodies get no content type, got: %s", result)
	}
}

func TestAsCurl_HeadersSorted(t *testing.T) {
	rec := history.Record{
		Method:         "GET",
		URL:            "https://example.com",
		RequestHeaders: `{"X-B":"2","X-A":"1"}`,
	}
	result := AsCurl(rec)
	if strings.Index(result, "X-A") > strings.Index(result, "X-B") {
		t.Errorf("headers should be sorted, got: %s", result)
	}
}

func TestDecodeHeaders(t *testing.T) {
	if got := DecodeHeaders("not json"); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
	if got := DecodeHeaders(`{"A":"b"}`); got["A"] != "b" {
		t.Errorf("expected A=b, got %v", got)
	}
}
