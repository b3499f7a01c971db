// Package format renders responses and history records for display and export.
// Everything here is pure: no I/O, no shared state.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/pretty"

	"github.com/sadopc/apitester/internal/core/history"
)

// Width -1 puts every array element on its own line.
var prettyOptions = &pretty.Options{
	Width:    -1,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Body pretty-prints raw as JSON with 2-space indentation when it parses,
// keeping key order and showing non-ASCII text as characters rather than
// \u escapes. Anything else is returned unchanged.
func Body(raw string) string {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return raw
	}
	out := pretty.PrettyOptions(unescapeStrings(trimmed), prettyOptions)
	return strings.TrimRight(string(out), "\n")
}

// unescapeStrings rewrites every string literal that carries an escape so
// that \uXXXX sequences become the characters they name. Quotes and control
// characters stay escaped. data must be valid JSON.
func unescapeStrings(data []byte) []byte {
	var out []byte
	last := 0
	for i := 0; i < len(data); i++ {
		if data[i] != '"' {
			continue
		}
		start, escaped := i, false
		for i++; i < len(data) && data[i] != '"'; i++ {
			if data[i] == '\\' {
				escaped = true
				i++
			}
		}
		if !escaped {
			continue
		}
		lit := data[start : i+1]
		var s string
		if err := json.Unmarshal(lit, &s); err != nil {
			continue
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(s); err != nil {
			continue
		}
		out = append(out, data[last:start]...)
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
		last = i + 1
	}
	if out == nil {
		return data
	}
	return append(out, data[last:]...)
}

// Meta is the three-line response summary.
func Meta(status int, elapsed float64, size int) string {
	return fmt.Sprintf("Status: %d\nTime: %.3fs\nLength: %d bytes\n", status, elapsed, size)
}

// Detail renders a full history record.
func Detail(r history.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", r.ID)
	fmt.Fprintf(&b, "Timestamp: %s\n", Timestamp(r.Timestamp))
	fmt.Fprintf(&b, "URL: %s\n", r.URL)
	fmt.Fprintf(&b, "Method: %s\n", r.Method)
	b.WriteString("\n--- Request Headers ---\n")
	b.WriteString(r.RequestHeaders)
	b.WriteString("\n--- Request Body ---\n")
	b.WriteString(r.RequestBody)
	fmt.Fprintf(&b, "\n\n--- Response (status %d) ---\nHeaders:\n", r.StatusCode)
	b.WriteString(r.ResponseHeaders)
	b.WriteString("\n\nBody:\n")
	b.WriteString(r.ResponseBody)
	fmt.Fprintf(&b, "\n\nElapsed: %ss\n", Seconds(r.Elapsed))
	return b.String()
}

// Timestamp formats a stored timestamp in local time.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// Seconds formats an elapsed duration in seconds with millisecond precision.
func Seconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}

// Size renders a byte count for humans, e.g. "1.0 KiB".
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Ago renders t relative to now, e.g. "3 minutes ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// Duration renders a request duration compactly.
func Duration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
