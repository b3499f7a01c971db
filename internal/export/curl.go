package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/protocol"
)

// AsCurl converts a stored request into a curl command string.
func AsCurl(rec history.Record) string {
	var parts []string
	parts = append(parts, "curl")

	if rec.Method != "" && rec.Method != "GET" {
		parts = append(parts, "-X", rec.Method)
	}

	headers := DecodeHeaders(rec.RequestHeaders)
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	hasContentType := false
	for _, k := range keys {
		if strings.EqualFold(k, "Content-Type") {
			hasContentType = true
		}
		parts = append(parts, "-H", quote(fmt.Sprintf("%s: %s", k, headers[k])))
	}

	if rec.RequestBody != "" {
		body := protocol.ParseBody(rec.RequestBody)
		if body.Kind == protocol.BodyStructured && !hasContentType {
			parts = append(parts, "-H", quote("Content-Type: application/json"))
		}
		parts = append(parts, "-d", quote(rec.RequestBody))
	}

	parts = append(parts, quote(rec.URL))
	return strings.Join(parts, " ")
}

// DecodeHeaders parses a stored JSON header mapping. Invalid text yields an empty map.
func DecodeHeaders(text string) map[string]string {
	headers := map[string]string{}
	if text == "" {
		return headers
	}
	if err := json.Unmarshal([]byte(text), &headers); err != nil {
		return map[string]string{}
	}
	return headers
}

// quote wraps s in single quotes for POSIX shells.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
