package har

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/export"
	"github.com/sadopc/apitester/internal/protocol"
)

// HAR represents the HAR 1.2 format for export.
type HAR struct {
	Log HARLog `json:"log"`
}

// HARLog is the top-level log object.
type HARLog struct {
	Version string     `json:"version"`
	Creator HARCreator `json:"creator"`
	Entries []HAREntry `json:"entries"`
}

// HARCreator identifies the tool that created the HAR.
type HARCreator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HAREntry represents a single request/response pair.
type HAREntry struct {
	StartedDateTime string      `json:"startedDateTime"`
	Time            float64     `json:"time"`
	Request         HARRequest  `json:"request"`
	Response        HARResponse `json:"response"`
	Timings         HARTimings  `json:"timings"`
}

// HARRequest is the request portion of an entry.
type HARRequest struct {
	Method      string       `json:"method"`
	URL         string       `json:"url"`
	HTTPVersion string       `json:"httpVersion"`
	Headers     []HARHeader  `json:"headers"`
	QueryString []HARQuery   `json:"queryString"`
	PostData    *HARPostData `json:"postData,omitempty"`
	HeadersSize int          `json:"headersSize"`
	BodySize    int          `json:"bodySize"`
}

// HARResponse is the response portion of an entry.
type HARResponse struct {
	Status      int         `json:"status"`
	StatusText  string      `json:"statusText"`
	HTTPVersion string      `json:"httpVersion"`
	Headers     []HARHeader `json:"headers"`
	Content     HARContent  `json:"content"`
	RedirectURL string      `json:"redirectURL"`
	HeadersSize int         `json:"headersSize"`
	BodySize    int         `json:"bodySize"`
}

// HARHeader is a name/value pair for headers.
type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARQuery is a name/value pair for query string parameters.
type HARQuery struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARPostData is the body of a request.
type HARPostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// HARContent is the body of a response.
type HARContent struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// HARTimings holds timing info for an entry. Only the total is recorded in
// history, so it is reported as wait time.
type HARTimings struct {
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	SSL     float64 `json:"ssl"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// Export builds a HAR 1.2 document from history records.
func Export(records []history.Record, version string) ([]byte, error) {
	entries := make([]HAREntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, buildEntry(rec))
	}

	har := HAR{
		Log: HARLog{
			Version: "1.2",
			Creator: HARCreator{Name: "apitester", Version: version},
			Entries: entries,
		},
	}
	return json.MarshalIndent(har, "", "  ")
}

func buildEntry(rec history.Record) HAREntry {
	ms := rec.Elapsed * 1000
	started := rec.Timestamp
	if started.IsZero() {
		started = time.Unix(0, 0)
	}
	return HAREntry{
		StartedDateTime: started.UTC().Format(time.RFC3339Nano),
		Time:            ms,
		Request:         buildHARRequest(rec),
		Response:        buildHARResponse(rec),
		Timings: HARTimings{
			DNS:     -1,
			Connect: -1,
			SSL:     -1,
			Send:    0,
			Wait:    ms,
			Receive: 0,
		},
	}
}

func buildHARRequest(rec history.Record) HARRequest {
	headers := export.DecodeHeaders(rec.RequestHeaders)
	harReq := HARRequest{
		Method:      rec.Method,
		URL:         rec.URL,
		HTTPVersion: "HTTP/1.1",
		Headers:     sortedHeaders(headers),
		QueryString: []HARQuery{},
		HeadersSize: -1,
		BodySize:    len(rec.RequestBody),
	}

	if u, err := url.Parse(rec.URL); err == nil {
		q := u.Query()
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range q[k] {
				harReq.QueryString = append(harReq.QueryString, HARQuery{Name: k, Value: v})
			}
		}
	}

	if rec.RequestBody != "" {
		mimeType := "text/plain"
		if protocol.ParseBody(rec.RequestBody).Kind == protocol.BodyStructured {
			mimeType = "application/json"
		}
		for k, v := range headers {
			if strings.EqualFold(k, "Content-Type") {
				mimeType = v
			}
		}
		harReq.PostData = &HARPostData{
			MimeType: mimeType,
			Text:     rec.RequestBody,
		}
	}

	return harReq
}

func buildHARResponse(rec history.Record) HARResponse {
	headers := export.DecodeHeaders(rec.ResponseHeaders)
	mimeType := ""
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			mimeType = v
		}
	}
	return HARResponse{
		Status:      rec.StatusCode,
		StatusText:  http.StatusText(rec.StatusCode),
		HTTPVersion: "HTTP/1.1",
		Headers:     sortedHeaders(headers),
		Content: HARContent{
			Size:     rec.Size(),
			MimeType: mimeType,
			Text:     rec.ResponseBody,
		},
		HeadersSize: -1,
		BodySize:    rec.Size(),
	}
}

func sortedHeaders(m map[string]string) []HARHeader {
	out := make([]HARHeader, 0, len(m))
	for k, v := range m {
		out = append(out, HARHeader{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
