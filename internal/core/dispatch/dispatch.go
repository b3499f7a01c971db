// Package dispatch runs each outgoing request on its own goroutine and hands
// the outcome back through a Task.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/protocol"
	httpclient "github.com/sadopc/apitester/internal/protocol/http"
)

// Sender performs a request.
type Sender interface {
	Send(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// Recorder persists a completed request.
type Recorder interface {
	Insert(ctx context.Context, r history.Record) (int64, error)
}

// Result is the outcome of one task.
type Result struct {
	Request  *protocol.Request
	Response *protocol.Response

	// RecordID is the history id of the stored record, zero if nothing was stored.
	RecordID int64

	// Err is set when the request itself failed; nothing is stored in that case.
	Err error

	// StoreErr is set when the response arrived but could not be persisted.
	StoreErr error
}

// Task is a handle to one in-flight request.
type Task struct {
	ID        string
	Request   *protocol.Request
	Submitted time.Time

	done   chan struct{}
	result Result
}

// Done is closed once the result is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the outcome. It must only be called after Done is closed.
func (t *Task) Result() Result {
	<-t.done
	return t.result
}

// Wait blocks until the task completes or ctx ends. Giving up on the wait does
// not cancel the request.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Dispatcher starts one goroutine per submitted request. There is no pool and
// no queue; completion order follows the network, not submission order.
type Dispatcher struct {
	sender   Sender
	recorder Recorder
	logger   *slog.Logger

	inFlight atomic.Int64
	wg       sync.WaitGroup
}

// New creates a dispatcher. A nil recorder disables persistence.
func New(sender Sender, recorder Recorder, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		sender:   sender,
		recorder: recorder,
		logger:   logger,
	}
}

// Submit starts req in the background and returns immediately.
// The request is detached from ctx's cancellation; only the client timeout ends it.
func (d *Dispatcher) Submit(ctx context.Context, req *protocol.Request) *Task {
	task := &Task{
		ID:        uuid.New().String(),
		Request:   req,
		Submitted: time.Now(),
		done:      make(chan struct{}),
	}

	d.inFlight.Add(1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)
		defer close(task.done)
		task.result = d.run(context.WithoutCancel(ctx), task)
	}()
	return task
}

// InFlight reports how many tasks have not finished yet.
func (d *Dispatcher) InFlight() int {
	return int(d.inFlight.Load())
}

// Wait blocks until every submitted task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, task *Task) Result {
	req := task.Request
	log := d.logger.With("task", task.ID, "method", req.Method, "url", req.URL)
	log.Debug("sending request")

	resp, err := d.sender.Send(ctx, req)
	if err != nil {
		log.Warn("request failed", "error", err)
		return Result{Request: req, Err: err}
	}
	log.Info("request completed", "status", resp.StatusCode, "elapsed", resp.Elapsed, "size", resp.Size)

	res := Result{Request: req, Response: resp}
	if d.recorder == nil {
		return res
	}

	id, err := d.recorder.Insert(ctx, NewRecord(req, resp))
	if err != nil {
		log.Error("saving history failed", "error", err)
		res.StoreErr = err
		return res
	}
	res.RecordID = id
	return res
}

// NewRecord converts a request and its response into a history record. A nil
// resp leaves the response fields empty.
func NewRecord(req *protocol.Request, resp *protocol.Response) history.Record {
	headers := req.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	rec := history.Record{
		URL:             protocol.NormalizeURL(req.URL),
		Method:          req.Method,
		RequestHeaders:  encodeJSON(headers),
		RequestBody:     req.Body.Stored(),
		ResponseHeaders: "{}",
	}
	if resp == nil {
		return rec
	}
	rec.StatusCode = resp.StatusCode
	rec.ResponseHeaders = encodeJSON(httpclient.FlattenHeaders(resp.Headers))
	rec.ResponseBody = resp.Text()
	rec.Elapsed = resp.Elapsed.Seconds()
	return rec
}

// encodeJSON marshals without escaping <, > and & so stored text stays readable.
func encodeJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimRight(buf.String(), "\n")
}
