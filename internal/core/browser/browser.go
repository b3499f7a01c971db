// Package browser lists, inspects, exports and clears request history.
package browser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/export"
	"github.com/sadopc/apitester/internal/export/har"
)

// ClearPrompt is shown before history is wiped.
const ClearPrompt = "Delete ALL history records? This cannot be undone."

// Store is the subset of the history store the browser needs.
type Store interface {
	List(ctx context.Context, filter string, limit int) ([]history.Summary, error)
	Get(ctx context.Context, id int64) (history.Record, error)
	Records(ctx context.Context, filter string, limit int) ([]history.Record, error)
	ClearAll(ctx context.Context) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// ExportError reports that exported text could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting to %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Browser is a stateless view over the history store.
type Browser struct {
	store Store
	limit int
}

// New creates a browser. limit <= 0 uses history.DefaultLimit.
func New(store Store, limit int) *Browser {
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	return &Browser{store: store, limit: limit}
}

// Limit returns the maximum number of summaries Search returns.
func (b *Browser) Limit() int {
	return b.limit
}

// Search lists summaries whose url contains term, newest first. An empty term lists everything.
func (b *Browser) Search(ctx context.Context, term string) ([]history.Summary, error) {
	return b.store.List(ctx, term, b.limit)
}

// Detail returns one full record, or history.ErrNotFound.
func (b *Browser) Detail(ctx context.Context, id int64) (history.Record, error) {
	return b.store.Get(ctx, id)
}

// Clear deletes all history once c approves. It reports whether anything was cleared.
func (b *Browser) Clear(ctx context.Context, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(ClearPrompt) {
		return false, nil
	}
	if err := b.store.ClearAll(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Export writes text verbatim to path.
func (b *Browser) Export(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// ExportRecord writes the response body of rec to path.
func (b *Browser) ExportRecord(path string, rec history.Record) error {
	return b.Export(path, rec.ResponseBody)
}

// Curl renders rec as a cURL command.
func (b *Browser) Curl(rec history.Record) string {
	return export.AsCurl(rec)
}

// ExportHAR writes the matching records as a HAR 1.2 document.
func (b *Browser) ExportHAR(ctx context.Context, w io.Writer, filter, version string) error {
	records, err := b.store.Records(ctx, filter, b.limit)
	if err != nil {
		return err
	}
	data, err := har.Export(records, version)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
