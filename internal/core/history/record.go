package history

import (
	"errors"
	"fmt"
	"time"
)

// DefaultLimit caps List results when no limit is given.
const DefaultLimit = 500

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("history record not found")

// Record is one persisted request/response pair.
type Record struct {
	ID              int64
	Timestamp       time.Time
	URL             string
	Method          string
	RequestHeaders  string // JSON-encoded map[string]string
	RequestBody     string // JSON text for structured bodies, raw text otherwise
	StatusCode      int
	ResponseHeaders string // JSON-encoded map[string]string
	ResponseBody    string
	Elapsed         float64 // seconds
}

// Size returns the byte length of the stored response body.
func (r Record) Size() int {
	return len(r.ResponseBody)
}

// Summary is the abbreviated row used by list views.
type Summary struct {
	ID         int64
	Timestamp  time.Time
	Method     string
	URL        string
	StatusCode int
	Elapsed    float64
}

// StorageError reports a failed read or write against the history database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
