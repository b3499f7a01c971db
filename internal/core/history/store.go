package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339Nano

// Store manages request history persistence.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the history database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	// One connection: concurrent workers queue on it instead of racing on the file.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the history table if it does not exist. Safe to call repeatedly.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS history (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        TEXT,
			url              TEXT,
			method           TEXT,
			headers          TEXT,
			body             TEXT,
			status_code      INTEGER,
			response_headers TEXT,
			response_text    TEXT,
			elapsed          REAL
		)`)
	if err != nil {
		return &StorageError{Op: "init", Err: err}
	}
	return nil
}

// Insert appends a record. ID and Timestamp on r are ignored; the store assigns both.
func (s *Store) Insert(ctx context.Context, r Record) (int64, error) {
	ts := s.now().UTC().Format(timestampLayout)
	headers := r.RequestHeaders
	if headers == "" {
		headers = "{}"
	}
	respHeaders := r.ResponseHeaders
	if respHeaders == "" {
		respHeaders = "{}"
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO history (timestamp, url, method, headers, body, status_code, response_headers, response_text, elapsed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts, r.URL, r.Method, headers, r.RequestBody,
		r.StatusCode, respHeaders, r.ResponseBody, r.Elapsed,
	)
	if err != nil {
		return 0, &StorageError{Op: "insert", Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "insert", Err: err}
	}
	return id, nil
}

// List returns summaries newest first. A non-empty filter keeps only records whose
// url contains it (case-sensitive). limit <= 0 means DefaultLimit.
func (s *Store) List(ctx context.Context, filter string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, timestamp, method, url, status_code, elapsed
			FROM history
			WHERE instr(url, ?) > 0
			ORDER BY id DESC
			LIMIT ?`, filter, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, timestamp, method, url, status_code, elapsed
			FROM history
			ORDER BY id DESC
			LIMIT ?`, limit)
	}
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sm Summary
			ts sql.NullString
		)
		if err := rows.Scan(&sm.ID, &ts, &sm.Method, &sm.URL, &sm.StatusCode, &sm.Elapsed); err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		sm.Timestamp = parseTimestamp(ts.String)
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return out, nil
}

// Get returns the full record with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, url, method, headers, body, status_code, response_headers, response_text, elapsed
		FROM history
		WHERE id = ?`, id)

	var (
		r  Record
		ts sql.NullString
	)
	err := row.Scan(&r.ID, &ts, &r.URL, &r.Method, &r.RequestHeaders, &r.RequestBody,
		&r.StatusCode, &r.ResponseHeaders, &r.ResponseBody, &r.Elapsed)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, &StorageError{Op: "get", Err: err}
	}
	r.Timestamp = parseTimestamp(ts.String)
	return r, nil
}

// Records returns full records newest first, with the same filter and limit rules as List.
func (s *Store) Records(ctx context.Context, filter string, limit int) ([]Record, error) {
	summaries, err := s.List(ctx, filter, limit)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(summaries))
	for _, sm := range summaries {
		r, err := s.Get(ctx, sm.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// ClearAll deletes every record. There is no undo.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
