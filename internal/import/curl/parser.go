// Package curl reads a pasted curl command back into request form fields.
package curl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sadopc/apitester/internal/protocol"
)

// Command is a parsed curl invocation, in the shape the request form edits.
type Command struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// HeadersText renders the headers as the JSON object the form expects,
// keys sorted. No headers yields an empty string.
func (c Command) HeadersText() string {
	if len(c.Headers) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Headers); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Request validates the command the same way typed input is validated.
func (c Command) Request() (*protocol.Request, error) {
	return protocol.NewRequest(c.Method, c.URL, c.HeadersText(), c.Body)
}

// Parse parses a curl command line. Credentials flags are rejected since
// requests carry no authentication beyond plain headers.
func Parse(input string) (Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}, fmt.Errorf("empty input")
	}

	// Handle line continuations
	input = strings.ReplaceAll(input, "\\\r\n", " ")
	input = strings.ReplaceAll(input, "\\\n", " ")

	args := tokenize(input)
	if len(args) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	if strings.EqualFold(args[0], "curl") {
		args = args[1:]
	}

	cmd := Command{Headers: make(map[string]string)}
	explicitMethod := ""

	// value returns the argument following flag i.
	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s needs a value", flag)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-X", "--request":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			explicitMethod = strings.ToUpper(v)
			i++
		case "-H", "--header":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			if key, val := parseHeader(v); key != "" {
				cmd.Headers[key] = val
			}
			i++
		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			if strings.HasPrefix(v, "@") && arg != "--data-raw" {
				return Command{}, fmt.Errorf("reading the body from a file (%s) is not supported", v)
			}
			if cmd.Body != "" {
				cmd.Body += "&"
			}
			cmd.Body += v
			i++
		case "--json":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			cmd.Body = v
			setDefault(cmd.Headers, "Content-Type", "application/json")
			setDefault(cmd.Headers, "Accept", "application/json")
			i++
		case "-A", "--user-agent":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			cmd.Headers["User-Agent"] = v
			i++
		case "-e", "--referer":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			cmd.Headers["Referer"] = v
			i++
		case "-b", "--cookie":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			cmd.Headers["Cookie"] = v
			i++
		case "--url":
			v, err := value(i, arg)
			if err != nil {
				return Command{}, err
			}
			cmd.URL = v
			i++
		case "-u", "--user", "--oauth2-bearer", "-E", "--cert", "--key":
			return Command{}, fmt.Errorf("%s is not supported; set an Authorization header instead", arg)
		case "-o", "--output", "-m", "--max-time", "--connect-timeout", "-x", "--proxy":
			// Flags with a value that does not affect the request itself.
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				// Value-less switches like --compressed, -k, -s, -L, -v, -i.
				continue
			}
			if cmd.URL == "" {
				cmd.URL = arg
			}
		}
	}

	if cmd.URL == "" {
		return Command{}, fmt.Errorf("no URL found in curl command")
	}

	switch {
	case explicitMethod != "":
		cmd.Method = explicitMethod
	case cmd.Body != "":
		cmd.Method = "POST"
	default:
		cmd.Method = "GET"
	}
	return cmd, nil
}

func setDefault(h map[string]string, key, val string) {
	for k := range h {
		if strings.EqualFold(k, key) {
			return
		}
	}
	h[key] = val
}

// tokenize splits a shell command into tokens, handling single and double quotes.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	quoted := false

	for _, r := range input {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true
		case (r == ' ' || r == '\t' || r == '\n' || r == '\r') && !inSingle && !inDouble:
			if current.Len() > 0 || quoted {
				tokens = append(tokens, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 || quoted {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// parseHeader splits "Key: Value". A header without a colon keeps an empty value.
func parseHeader(s string) (string, string) {
	key, val, ok := strings.Cut(s, ":")
	if !ok {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(key), strings.TrimSpace(val)
}
