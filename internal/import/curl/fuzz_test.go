package curl

import "testing"

func FuzzParse(f *testing.F) {
	f.Add(`curl https://api.example.com/users`)
	f.Add(`curl -X POST -H 'Content-Type: application/json' -d '{"name":"test"}' https://api.example.com/users`)
	f.Add(`curl -H "Accept: application/json" -H "Authorization: Bearer token123" https://api.example.com`)
	f.Add("curl \\\n  -X PUT \\\n  -H 'Content-Type: text/plain' \\\n  -d 'hello' \\\n  https://example.com")
	f.Add(`curl --request PATCH --header "Content-Type: application/json" --data-raw '{"active":true}' https://api.example.com/users/1`)
	f.Add(`curl --json '{"a":1}' --compressed -k -v -s -S -L https://example.com`)
	f.Add(`curl -o output.txt https://example.com/file`)
	f.Add(`curl -u user:pass https://example.com/api`)
	f.Add(``)
	f.Add(`curl`)
	f.Add(`curl ''`)
	f.Add(`curl -X`)
	f.Add(`curl -H`)
	f.Add(`not a curl command at all`)

	f.Fuzz(func(t *testing.T, input string) {
		cmd, err := Parse(input)
		if err != nil {
			return
		}
		if cmd.URL == "" {
			t.Fatal("Parse returned an empty URL without error")
		}
		if cmd.Method == "" {
			t.Fatal("Parse returned an empty method without error")
		}
	})
}

func FuzzTokenize(f *testing.F) {
	f.Add(`curl -H 'Content-Type: application/json' -d '{"key":"val"}' "https://example.com"`)
	f.Add(`escaped\ space`)
	f.Add(`"unclosed double quote`)
	f.Add(`'unclosed single quote`)
	f.Add(`backslash at end\`)
	f.Add("tabs\there\tand\tthere")

	f.Fuzz(func(t *testing.T, input string) {
		_ = tokenize(input)
	})
}
