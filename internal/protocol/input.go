package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Methods lists the request methods the tool can send.
var Methods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

// ValidationError reports bad user input caught before any network call.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// BodyKind tags the variant held by a Body.
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyStructured
	BodyRaw
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyStructured:
		return "structured"
	case BodyRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Body is a request body: nothing, a JSON object/array, or raw text.
type Body struct {
	Kind BodyKind
	JSON json.RawMessage // compact JSON, set when Kind == BodyStructured
	Raw  string          // set when Kind == BodyRaw
}

// StructuredBody builds a structured body from a JSON value.
func StructuredBody(v any) (Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Body{}, err
	}
	return ParseBody(string(data)), nil
}

// RawBody builds a raw text body. An empty string yields an empty body.
func RawBody(s string) Body {
	if s == "" {
		return Body{}
	}
	return Body{Kind: BodyRaw, Raw: s}
}

// IsEmpty reports whether no body should be sent.
func (b Body) IsEmpty() bool {
	return b.Kind == BodyEmpty
}

// Bytes returns the payload sent on the wire.
func (b Body) Bytes() []byte {
	switch b.Kind {
	case BodyStructured:
		return []byte(b.JSON)
	case BodyRaw:
		return []byte(b.Raw)
	default:
		return nil
	}
}

// Stored returns the text persisted in history.
func (b Body) Stored() string {
	return string(b.Bytes())
}

// Value decodes a structured body. It returns nil for other kinds.
func (b Body) Value() any {
	if b.Kind != BodyStructured {
		return nil
	}
	var v any
	if err := json.Unmarshal(b.JSON, &v); err != nil {
		return nil
	}
	return v
}

// ParseBody decides the body variant once, at submission time.
//
// Objects and arrays become structured bodies. A JSON string literal is sent as its
// decoded text, null sends nothing, and every other input (numbers, booleans,
// malformed JSON, plain text) is sent as text with surrounding whitespace
// removed. Parsing never fails.
func ParseBody(text string) Body {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Body{}
	}
	if !json.Valid([]byte(trimmed)) {
		return Body{Kind: BodyRaw, Raw: trimmed}
	}

	switch trimmed[0] {
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(trimmed)); err != nil {
			return Body{Kind: BodyRaw, Raw: trimmed}
		}
		return Body{Kind: BodyStructured, JSON: json.RawMessage(buf.Bytes())}
	case '"':
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return Body{Kind: BodyRaw, Raw: trimmed}
		}
		return RawBody(s)
	case 'n':
		return Body{}
	default:
		return Body{Kind: BodyRaw, Raw: trimmed}
	}
}

// ParseHeaders parses the headers field. Empty input yields an empty map; anything
// other than a JSON object is a ValidationError. String values are kept verbatim and
// scalar values are converted to their JSON text.
func ParseHeaders(text string) (map[string]string, error) {
	headers := map[string]string{}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return headers, nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, &ValidationError{Field: "headers", Msg: "invalid JSON: " + err.Error()}
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ValidationError{Field: "headers", Msg: "headers must be a JSON object"}
	}

	for k, v := range obj {
		switch val := v.(type) {
		case string:
			headers[k] = val
		case map[string]any, []any:
			return nil, &ValidationError{Field: "headers", Msg: fmt.Sprintf("value for %q must be a string", k)}
		default:
			data, _ := json.Marshal(val)
			headers[k] = string(data)
		}
	}
	return headers, nil
}

// NormalizeURL prepends https:// unless the URL already starts with http:// or https://.
// The default is https even for local hosts.
func NormalizeURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// ValidateMethod upper-cases m and checks it against Methods.
func ValidateMethod(m string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(m))
	if upper == "" {
		return "GET", nil
	}
	for _, allowed := range Methods {
		if upper == allowed {
			return upper, nil
		}
	}
	return "", &ValidationError{Field: "method", Msg: fmt.Sprintf("%q is not one of %s", m, strings.Join(Methods, ", "))}
}

// NewRequest validates user input and builds a Request. The URL is trimmed and
// must not be empty; it is normalized here so history stores what was sent.
func NewRequest(method, url, headersText, bodyText string) (*Request, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &ValidationError{Field: "url", Msg: "URL is required"}
	}
	m, err := ValidateMethod(method)
	if err != nil {
		return nil, err
	}
	headers, err := ParseHeaders(headersText)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method:  m,
		URL:     NormalizeURL(url),
		Headers: headers,
		Body:    ParseBody(bodyText),
	}, nil
}
